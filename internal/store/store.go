package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/strikes/internal/querysql"
	"github.com/roach88/strikes/internal/strike"
)

//go:embed schema.sql
var schemaSQL string

// MemoryPath opens a private in-memory database. Used by tests.
const MemoryPath = ":memory:"

// Store provides durable storage for strike entries.
type Store struct {
	db       *sql.DB
	path     string
	compiler *querysql.SQLCompiler
	now      func() time.Time
	logger   *slog.Logger
	busy     time.Duration
}

// DefaultBusyTimeout bounds how long a write waits for another process's lock.
const DefaultBusyTimeout = 5 * time.Second

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used to timestamp new entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLogger sets the logger for debug output. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithBusyTimeout overrides DefaultBusyTimeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.busy = d
	}
}

// Open creates or opens the strike database at the given path.
// Creates the parent directory, applies pragmas and the schema.
//
// This function is idempotent - safe to call on every startup.
// Every failure is a strike.ErrStorageUnavailable.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:     path,
		compiler: querysql.NewSQLCompiler(),
		now:      time.Now,
		logger:   slog.Default(),
		busy:     DefaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if path != MemoryPath {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, strike.NewStorageUnavailable("open", fmt.Sprintf("cannot create directory %s", dir), err)
		}
	}

	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, strike.NewStorageUnavailable("open", "failed to open database", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, strike.NewStorageUnavailable("open", fmt.Sprintf("failed to connect to database %s", path), err)
	}

	// A single connection keeps an in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, s.busy); err != nil {
		db.Close()
		return nil, strike.NewStorageUnavailable("open", "failed to apply pragmas", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, strike.NewStorageUnavailable("open", "failed to apply schema", err)
	}

	s.db = db
	s.logger.Debug("database ready", "path", path)
	return s, nil
}

// Close closes the database connection.
// Should be called on every exit path once the store is no longer needed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	query, params, err := s.compiler.Compile(querysql.Query{Aggregate: querysql.AggregateCount})
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, busy time.Duration) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()),
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the table and indexes if they don't exist.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
