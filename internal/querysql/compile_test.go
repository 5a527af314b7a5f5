package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strikes/internal/strike"
)

func TestCompile_RowsUnfiltered(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, params, err := compiler.Compile(Query{})
	require.NoError(t, err)

	assert.Equal(t, "SELECT id, strikes_count, entry_datetime, tag FROM strike_log ORDER BY id ASC", sql)
	assert.Empty(t, params)
}

func TestCompile_FilterParameterized(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, params, err := compiler.Compile(Query{
		Aggregate: AggregateSum,
		Filter:    strike.NewFilter("ShoulderSession"),
	})
	require.NoError(t, err)

	assert.Equal(t, "SELECT COALESCE(SUM(strikes_count), 0) FROM strike_log WHERE tag = ?", sql)
	// Value NOT in SQL, and already lower-cased.
	assert.NotContains(t, sql, "shouldersession")
	assert.Equal(t, []any{"shouldersession"}, params)
}

func TestCompile_OrderByMandatory(t *testing.T) {
	compiler := NewSQLCompiler()

	for _, order := range []Order{OrderInsertion, OrderTagRecent, OrderChronological} {
		sql, _, err := compiler.Compile(Query{Order: order})
		require.NoError(t, err)
		assert.Contains(t, sql, "ORDER BY")
		assert.Regexp(t, `id (ASC|DESC)$`, sql, "order %d must end in id tie-break", order)
	}
}

func TestCompile_TagRecentOrdering(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, _, err := compiler.Compile(Query{Order: OrderTagRecent})
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY tag IS NULL ASC, tag COLLATE BINARY ASC, entry_datetime DESC, id DESC")
}

func TestCompile_Chronological(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, params, err := compiler.Compile(Query{Order: OrderChronological, Filter: strike.NewFilter("knee")})
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE tag = ? ORDER BY entry_datetime ASC, id ASC")
	assert.Equal(t, []any{"knee"}, params)
}

func TestCompile_SumByTag(t *testing.T) {
	compiler := NewSQLCompiler()

	sql, params, err := compiler.Compile(Query{Aggregate: AggregateSumByTag})
	require.NoError(t, err)
	assert.Equal(t, "SELECT tag, SUM(strikes_count) FROM strike_log GROUP BY tag ORDER BY tag IS NULL ASC, tag COLLATE BINARY ASC", sql)
	assert.Empty(t, params)
}

func TestCompile_Count(t *testing.T) {
	sql, _, err := NewSQLCompiler().Compile(Query{Aggregate: AggregateCount})
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM strike_log", sql)
}

func TestCompile_AlwaysTargetsStrikeLog(t *testing.T) {
	compiler := NewSQLCompiler()

	for _, agg := range []Aggregate{AggregateNone, AggregateSum, AggregateSumByTag, AggregateCount} {
		sql, _, err := compiler.Compile(Query{Aggregate: agg, Filter: strike.NewFilter("knee")})
		require.NoError(t, err)
		assert.Contains(t, sql, " FROM strike_log WHERE tag = ?")
	}
}

func TestCompile_Errors(t *testing.T) {
	compiler := NewSQLCompiler()

	_, _, err := compiler.Compile(Query{Aggregate: AggregateSum, Order: OrderChronological})
	assert.Error(t, err)

	_, _, err = compiler.Compile(Query{Aggregate: Aggregate(99)})
	assert.Error(t, err)

	_, _, err = compiler.Compile(Query{Order: Order(42)})
	assert.Error(t, err)
}
