// Package config provides configuration for the strike counter.
//
// A Config is built once per invocation, from lowest to highest precedence:
// built-in defaults, the YAML config file, a .env file, environment
// variables, and finally CLI flags (applied by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roach88/strikes/internal/strike"
)

// Environment variables read by Load.
const (
	EnvDBPath   = "STRIKES_DB"
	EnvLogFile  = "STRIKES_LOG_FILE"
	EnvTimezone = "STRIKES_TZ"
	EnvDebug    = "STRIKES_DEBUG"
)

const (
	dbFileName     = "strikes.db"
	configFileName = "config.yaml"
)

// Config is the per-invocation configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`
	// LogFile, when set, receives a copy of every log record.
	LogFile string `yaml:"log_file"`
	// Timezone is the IANA zone used to display timestamps and group by date.
	// Empty means the system local zone.
	Timezone string `yaml:"timezone"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
}

// Default returns a Config with the database under the per-user data dir:
// $XDG_DATA_HOME/shock_wave_counter/strikes.db, falling back to
// ~/.local/share/shock_wave_counter/strikes.db.
func Default() (Config, error) {
	dir, err := dataDir()
	if err != nil {
		return Config{}, err
	}
	return Config{DBPath: filepath.Join(dir, dbFileName)}, nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/shock_wave_counter/config.yaml,
// falling back to ~/.config/shock_wave_counter/config.yaml.
func DefaultConfigPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, strike.AppName, configFileName), nil
}

// Load builds the Config. configPath "" means DefaultConfigPath; a missing
// config file is not an error. If envFiles are given they must exist;
// otherwise a .env in the current directory is loaded when present.
func Load(configPath string, envFiles ...string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	if configPath == "" {
		configPath, err = DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
	}
	if err := loadFile(configPath, &cfg); err != nil {
		return Config{}, err
	}

	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; empty means time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// loadFile overlays the YAML file at path onto cfg. Unknown keys are
// rejected so typos surface instead of being ignored.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	cfg.DBPath = expandHome(cfg.DBPath)
	cfg.LogFile = expandHome(cfg.LogFile)
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.DBPath = expandHome(v)
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = expandHome(v)
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		cfg.Debug = debug
	}
	return nil
}

func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, strike.AppName), nil
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
