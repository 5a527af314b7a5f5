package cli

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/strikes/internal/strike"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	FilterTag string
}

type exportPayload struct {
	Tag     *string        `json:"tag"`
	Entries []strike.Entry `json:"entries"`
}

var exportHeader = []string{"id", "count", "tag", "timestamp"}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump every entry in insertion order",
		Long: `Dump every recorded entry in insertion order.

Text output is CSV with the columns id, count, tag and timestamp (UTC,
RFC 3339). Untagged entries have an empty tag column. With --format json the
entries are wrapped in the standard response envelope.

Example:
  strikes export > strikes.csv
  strikes export --filter-tag shoulder --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.FilterTag, "filter-tag", "", "only export entries with this tag")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	logger, closeLog, err := opts.newLogger(cmd.ErrOrStderr())
	if err != nil {
		_ = formatter.Error("FAILURE", err.Error())
		return WrapExitError(ExitFailure, "cannot open log file", err)
	}
	defer closeLog()

	s, err := opts.openStore(logger)
	if err != nil {
		return fail(formatter, "cannot open strike store", err)
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	filter := strike.NewFilter(opts.FilterTag)
	entries, err := s.Entries(cmd.Context(), filter)
	if err != nil {
		return fail(formatter, "failed to export strikes", err)
	}
	logger.Debug("exporting entries", "count", len(entries), "filter", filter.String())

	if opts.Format == "json" {
		if entries == nil {
			entries = []strike.Entry{}
		}
		return emit(formatter, exportPayload{Tag: filterTag(filter), Entries: entries}, nil)
	}

	if err := writeCSV(cmd.OutOrStdout(), entries); err != nil {
		return WrapExitError(ExitFailure, "failed to write output", err)
	}
	return nil
}

func writeCSV(w io.Writer, entries []strike.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		tag, _ := e.Tag.Name()
		record := []string{
			strconv.FormatInt(e.ID, 10),
			strconv.FormatInt(e.Count, 10),
			tag,
			e.Timestamp.UTC().Format(time.RFC3339Nano),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
