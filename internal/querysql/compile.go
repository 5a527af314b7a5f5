// Package querysql compiles strike queries to parameterized SQLite SQL.
//
// Every row-returning query carries an ORDER BY that ends in an id
// tie-break, so results are identical across runs. Values are always bound
// as parameters, never interpolated.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/strikes/internal/strike"
)

// Table is the single table holding strike entries.
const Table = "strike_log"

// Aggregate selects what a query returns.
type Aggregate int

const (
	// AggregateNone returns entry rows: id, strikes_count, entry_datetime, tag.
	AggregateNone Aggregate = iota

	// AggregateSum returns a single SUM(strikes_count), 0 when nothing matches.
	AggregateSum

	// AggregateSumByTag returns (tag, SUM(strikes_count)) per tag, untagged last.
	AggregateSumByTag

	// AggregateCount returns a single COUNT(*).
	AggregateCount
)

// Order selects the row ordering of an AggregateNone query.
type Order int

const (
	// OrderInsertion orders by id ascending.
	OrderInsertion Order = iota

	// OrderTagRecent orders tagged rows by tag, untagged last, newest first within a tag.
	OrderTagRecent

	// OrderChronological orders by timestamp ascending.
	OrderChronological
)

// Query describes one read against the strike table.
type Query struct {
	Aggregate Aggregate
	Filter    strike.Filter
	Order     Order
}

// SQLCompiler compiles Query values to SQL.
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a Query to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(q Query) (string, []any, error) {
	if q.Aggregate != AggregateNone && q.Order != OrderInsertion {
		return "", nil, fmt.Errorf("ordering %d is only valid for row queries", q.Order)
	}

	whereClause, params := c.compileFilter(q.Filter)

	var sql string
	switch q.Aggregate {
	case AggregateNone:
		orderBy, err := c.stableOrderKey(q.Order)
		if err != nil {
			return "", nil, err
		}
		sql = fmt.Sprintf("SELECT id, strikes_count, entry_datetime, tag FROM %s%s ORDER BY %s",
			Table, whereClause, orderBy)
	case AggregateSum:
		sql = fmt.Sprintf("SELECT COALESCE(SUM(strikes_count), 0) FROM %s%s", Table, whereClause)
	case AggregateSumByTag:
		sql = fmt.Sprintf("SELECT tag, SUM(strikes_count) FROM %s%s GROUP BY tag ORDER BY %s",
			Table, whereClause, tagGroupOrder)
	case AggregateCount:
		sql = fmt.Sprintf("SELECT COUNT(*) FROM %s%s", Table, whereClause)
	default:
		return "", nil, fmt.Errorf("unsupported aggregate: %d", q.Aggregate)
	}

	return sql, params, nil
}

// tagGroupOrder puts tagged groups first, ascending by tag, and the NULL
// (untagged) group last.
const tagGroupOrder = "tag IS NULL ASC, tag COLLATE BINARY ASC"

// stableOrderKey returns the ORDER BY clause for a row query.
// Every ordering ends in an id tie-break for same-timestamp rows.
func (c *SQLCompiler) stableOrderKey(o Order) (string, error) {
	switch o {
	case OrderInsertion:
		return "id ASC", nil
	case OrderTagRecent:
		return strings.Join([]string{tagGroupOrder, "entry_datetime DESC", "id DESC"}, ", "), nil
	case OrderChronological:
		return "entry_datetime ASC, id ASC", nil
	default:
		return "", fmt.Errorf("unsupported order: %d", o)
	}
}

// compileFilter returns the WHERE clause (with leading space) and its params.
// Stored tags are already canonical, so matching is plain equality.
func (c *SQLCompiler) compileFilter(f strike.Filter) (string, []any) {
	tag, ok := f.Tag()
	if !ok {
		return "", nil
	}
	name, _ := tag.Name()
	return " WHERE tag = ?", []any{name}
}
