package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/strikes/internal/config"
	"github.com/roach88/strikes/internal/store"
	"github.com/roach88/strikes/internal/strike"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config config.Config

	DBPath string
	Format string // "json" | "text"
	Debug  bool

	// Clock overrides the store clock (for testing).
	// If nil, the store uses time.Now.
	Clock func() time.Time

	mode modeFlags
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the strikes CLI.
// Flag defaults come from cfg, so flags given on the command line win.
func NewRootCommand(cfg config.Config) *cobra.Command {
	return newRootCommand(&RootOptions{Config: cfg})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strikes <count> [tag]",
		Short: "Count shock wave therapy strikes",
		Long: `Record shock wave therapy strikes and report on them.

Each entry is a positive strike count, an optional tag naming the treated
area, and the moment it was recorded.

Example:
  strikes 2000 shoulder
  strikes --count
  strikes --filter-tag shoulder
  strikes --summary
  strikes --detail --by-date`,
		Version:       strike.Version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.mode.FilterSet = cmd.Flags().Changed("filter-tag")
			formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

			intent, err := parseIntent(opts.mode, args)
			if err != nil {
				_ = formatter.Error(errorCode(err), err.Error())
				return err
			}
			return runIntent(cmd, opts, formatter, intent)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", opts.Config.DBPath, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", opts.Config.Debug, "debug logging")

	// Operation flags
	cmd.Flags().BoolVarP(&opts.mode.Count, "count", "c", false, "show the total number of strikes")
	cmd.Flags().BoolVarP(&opts.mode.Summary, "summary", "s", false, "show subtotals per tag and the grand total")
	cmd.Flags().BoolVarP(&opts.mode.Detail, "detail", "d", false, "show every entry, grouped by tag")
	cmd.Flags().BoolVar(&opts.mode.ByDate, "by-date", false, "with --detail, group entries by date")
	cmd.Flags().BoolVar(&opts.mode.Info, "info", false, "show the database location and version")
	cmd.Flags().StringVar(&opts.mode.FilterTag, "filter-tag", "", "restrict --count or --detail to one tag")

	cmd.MarkFlagsMutuallyExclusive("summary", "count", "detail", "info")
	cmd.MarkFlagsMutuallyExclusive("summary", "filter-tag")
	cmd.MarkFlagsMutuallyExclusive("info", "filter-tag")
	cmd.MarkFlagsMutuallyExclusive("info", "by-date")

	cmd.SetFlagErrorFunc(flagError)

	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

func runIntent(cmd *cobra.Command, opts *RootOptions, formatter *OutputFormatter, intent Intent) error {
	logger, closeLog, err := opts.newLogger(cmd.ErrOrStderr())
	if err != nil {
		_ = formatter.Error("FAILURE", err.Error())
		return WrapExitError(ExitFailure, "cannot open log file", err)
	}
	defer closeLog()

	logger.Debug("running", "op", intent.Kind.String(), "db", opts.DBPath)

	if intent.Kind == IntentInfo {
		info := infoPayload{DBPath: opts.DBPath, Version: strike.Version}
		return emit(formatter, info, func(w io.Writer) { renderInfo(w, info) })
	}

	loc, err := opts.Config.Location()
	if err != nil {
		_ = formatter.Error("USAGE", err.Error())
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	s, err := opts.openStore(logger)
	if err != nil {
		return fail(formatter, "cannot open strike store", err)
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()

	switch intent.Kind {
	case IntentAdd:
		entry, err := s.AddEntry(ctx, intent.Count, intent.RawTag)
		if err != nil {
			return fail(formatter, "failed to add strikes", err)
		}
		logger.Info("strikes added", "id", entry.ID, "count", entry.Count, "tag", entry.Tag.Label())
		return emit(formatter, addPayload{Entry: entry}, func(w io.Writer) { renderAdd(w, entry) })

	case IntentTotal:
		total, err := s.TotalStrikes(ctx, intent.Filter)
		if err != nil {
			return fail(formatter, "failed to total strikes", err)
		}
		data := totalPayload{Tag: filterTag(intent.Filter), Total: total}
		return emit(formatter, data, func(w io.Writer) { renderTotal(w, intent.Filter, total) })

	case IntentSummary:
		summary, err := s.Summary(ctx)
		if err != nil {
			return fail(formatter, "failed to summarize strikes", err)
		}
		return emit(formatter, summaryData(summary), func(w io.Writer) { renderSummary(w, summary) })

	case IntentDetail:
		report, err := s.Detail(ctx, intent.Filter, intent.Order, loc)
		if err != nil {
			return fail(formatter, "failed to build strike details", err)
		}
		return emit(formatter, detailData(report), func(w io.Writer) { renderDetail(w, report, loc) })
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("unsupported operation %s", intent.Kind))
}

// negativeCount matches pflag's error for a token such as "-5", which it
// reads as a cluster of shorthand flags.
var negativeCount = regexp.MustCompile(`^unknown shorthand flag: '\d' in (-\d\S*)$`)

// flagError reports a negative count given as the root's first positional as
// invalid input rather than an unknown flag.
func flagError(cmd *cobra.Command, err error) error {
	if cmd.HasParent() {
		return err
	}
	if m := negativeCount.FindStringSubmatch(err.Error()); m != nil {
		if _, countErr := parseCount(m[1]); countErr != nil {
			return WrapExitError(ExitCommandError, "invalid strike count", countErr)
		}
	}
	return err
}

// fail reports a store error in JSON mode and maps it to an exit code.
func fail(formatter *OutputFormatter, message string, err error) error {
	exitErr := wrapStoreError(message, err)
	_ = formatter.Error(errorCode(err), exitErr.Error())
	return exitErr
}

func emit(formatter *OutputFormatter, data any, text func(w io.Writer)) error {
	if err := formatter.Emit(data, text); err != nil {
		return WrapExitError(ExitFailure, "failed to write output", err)
	}
	return nil
}

func (o *RootOptions) openStore(logger *slog.Logger) (*store.Store, error) {
	storeOpts := []store.Option{store.WithLogger(logger)}
	if o.Clock != nil {
		storeOpts = append(storeOpts, store.WithClock(o.Clock))
	}
	return store.Open(o.DBPath, storeOpts...)
}

// newLogger configures slog for one invocation. Records go to stderr and,
// when a log file is configured, are appended to it as well. The returned
// func closes the log file.
func (o *RootOptions) newLogger(stderr io.Writer) (*slog.Logger, func(), error) {
	logLevel := slog.LevelWarn
	if o.Debug {
		logLevel = slog.LevelDebug
	}

	w := stderr
	cleanup := func() {}
	if o.Config.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(o.Config.LogFile), 0o755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(o.Config.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(stderr, f)
		cleanup = func() { _ = f.Close() }
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler).With("run", uuid.Must(uuid.NewV7()).String())
	slog.SetDefault(logger)
	return logger, cleanup, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
