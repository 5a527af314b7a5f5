package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/strikes/internal/querysql"
	"github.com/roach88/strikes/internal/strike"
)

// TotalStrikes sums strikes_count over all entries, or over entries whose
// tag equals the filter tag. Returns 0 when nothing matches.
func (s *Store) TotalStrikes(ctx context.Context, filter strike.Filter) (int64, error) {
	query, params, err := s.compiler.Compile(querysql.Query{
		Aggregate: querysql.AggregateSum,
		Filter:    filter,
	})
	if err != nil {
		return 0, fmt.Errorf("total strikes: %w", err)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&total); err != nil {
		return 0, fmt.Errorf("total strikes: %w", err)
	}

	s.logger.Debug("total strikes", "filter", filter.String(), "total", total)
	return total, nil
}

// Summary returns per-tag subtotals, tagged groups ascending and the
// untagged group last, plus the grand total.
//
// Returns an empty Lines slice (not nil) when the store is empty.
func (s *Store) Summary(ctx context.Context) (strike.Summary, error) {
	query, params, err := s.compiler.Compile(querysql.Query{Aggregate: querysql.AggregateSumByTag})
	if err != nil {
		return strike.Summary{}, fmt.Errorf("summary: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return strike.Summary{}, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	summary := strike.Summary{Lines: []strike.SummaryLine{}}
	for rows.Next() {
		var (
			tag      sql.NullString
			subtotal int64
		)
		if err := rows.Scan(&tag, &subtotal); err != nil {
			return strike.Summary{}, fmt.Errorf("scan summary: %w", err)
		}
		summary.Lines = append(summary.Lines, strike.SummaryLine{
			Tag:      unmarshalTag(tag),
			Subtotal: subtotal,
		})
		summary.GrandTotal += subtotal
	}

	if err := rows.Err(); err != nil {
		return strike.Summary{}, fmt.Errorf("iterate summary: %w", err)
	}

	s.logger.Debug("summary", "groups", len(summary.Lines), "grand_total", summary.GrandTotal)
	return summary, nil
}

// Detail returns the entries matching filter in one of two orderings:
//
//   - strike.ByTag: one group per tag (untagged last), newest first, id DESC on ties
//   - strike.ByDate: one group per calendar date in loc ascending, earliest first
//
// loc is the viewer's zone; nil means time.Local. When nothing matches the
// report is empty and StoreEmpty says whether the store has any entries.
func (s *Store) Detail(ctx context.Context, filter strike.Filter, mode strike.OrderMode, loc *time.Location) (strike.Report, error) {
	if loc == nil {
		loc = time.Local
	}

	report := strike.Report{
		Mode:   mode,
		Filter: filter,
	}

	var order querysql.Order
	switch mode {
	case strike.ByTag:
		order = querysql.OrderTagRecent
	case strike.ByDate:
		order = querysql.OrderChronological
	default:
		return strike.Report{}, strike.NewInvalidInput(fmt.Sprintf("unknown order mode %s", mode))
	}

	entries, err := s.readEntries(ctx, report.Filter, order)
	if err != nil {
		return strike.Report{}, fmt.Errorf("detail: %w", err)
	}

	if len(entries) == 0 {
		n, err := s.Count(ctx)
		if err != nil {
			return strike.Report{}, fmt.Errorf("detail: %w", err)
		}
		report.StoreEmpty = n == 0
		return report, nil
	}

	switch mode {
	case strike.ByTag:
		report.TagGroups = groupByTag(entries)
	case strike.ByDate:
		report.DateGroups = groupByDate(entries, loc)
	}

	s.logger.Debug("detail", "mode", mode.String(), "filter", report.Filter.String(), "entries", len(entries))
	return report, nil
}

// Entries returns all entries matching filter in insertion order.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) Entries(ctx context.Context, filter strike.Filter) ([]strike.Entry, error) {
	entries, err := s.readEntries(ctx, filter, querysql.OrderInsertion)
	if err != nil {
		return nil, fmt.Errorf("entries: %w", err)
	}
	return entries, nil
}

// readEntries runs a row query and scans every entry.
func (s *Store) readEntries(ctx context.Context, filter strike.Filter, order querysql.Order) ([]strike.Entry, error) {
	query, params, err := s.compiler.Compile(querysql.Query{Filter: filter, Order: order})
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []strike.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// scanEntry scans one row of id, strikes_count, entry_datetime, tag.
func scanEntry(rows *sql.Rows) (strike.Entry, error) {
	var (
		e   strike.Entry
		ts  string
		tag sql.NullString
	)
	if err := rows.Scan(&e.ID, &e.Count, &ts, &tag); err != nil {
		return strike.Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	t, err := unmarshalTimestamp(ts)
	if err != nil {
		return strike.Entry{}, fmt.Errorf("scan entry %d: %w", e.ID, err)
	}
	e.Timestamp = t
	e.Tag = unmarshalTag(tag)
	return e, nil
}

// groupByTag splits entries already ordered by tag into consecutive groups.
func groupByTag(entries []strike.Entry) []strike.TagGroup {
	var groups []strike.TagGroup
	for _, e := range entries {
		if n := len(groups); n > 0 && groups[n-1].Tag == e.Tag {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, strike.TagGroup{Tag: e.Tag, Entries: []strike.Entry{e}})
	}
	return groups
}

// groupByDate splits chronologically ordered entries by calendar date in loc.
// Chronological order implies ascending local dates.
func groupByDate(entries []strike.Entry, loc *time.Location) []strike.DateGroup {
	var groups []strike.DateGroup
	for _, e := range entries {
		date := e.Timestamp.In(loc).Format(strike.DateLayout)
		if n := len(groups); n > 0 && groups[n-1].Date == date {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, strike.DateGroup{Date: date, Entries: []strike.Entry{e}})
	}
	return groups
}
