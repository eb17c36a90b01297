package table

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineitemSchema() Schema {
	return Schema{
		{Name: "l_orderkey", Type: Int64},
		{Name: "l_discount", Type: Decimal},
		{Name: "l_returnflag", Type: String},
	}
}

func TestAppendRowAndRowRoundTrip(t *testing.T) {
	tb := NewTable("lineitem", lineitemSchema())
	require.NoError(t, tb.AppendRow(int64(1), decimal.NewFromFloat(0.05), "A"))
	require.NoError(t, tb.AppendRow(int64(2), decimal.NewFromFloat(0.07), "R"))

	assert.Equal(t, 2, tb.NumRows())

	row, err := tb.Row(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), row[0])
	assert.True(t, decimal.NewFromFloat(0.07).Equal(row[1].(decimal.Decimal)))
	assert.Equal(t, "R", row[2])
}

func TestAppendRowRejectsWrongArityAndType(t *testing.T) {
	tb := NewTable("lineitem", lineitemSchema())

	err := tb.AppendRow(int64(1), decimal.Zero)
	assert.Error(t, err)

	err = tb.AppendRow("not-an-int", decimal.Zero, "A")
	assert.Error(t, err)
}

func TestRowOutOfRange(t *testing.T) {
	tb := NewTable("lineitem", lineitemSchema())
	_, err := tb.Row(0)
	assert.Error(t, err)
}

func TestMorselPartitioning(t *testing.T) {
	tb := NewPartitionedTable("t", Schema{{Name: "a", Type: Int64}}, 4)
	for i := 0; i < 10; i++ {
		require.NoError(t, tb.AppendRow(int64(i)))
	}

	assert.Equal(t, 3, tb.MorselCount())

	m0, err := tb.MorselAt(0)
	require.NoError(t, err)
	assert.Equal(t, Morsel{Offset: 0, Len: 4}, m0)

	last, err := tb.MorselAt(2)
	require.NoError(t, err)
	assert.Equal(t, Morsel{Offset: 8, Len: 2}, last)

	_, err = tb.MorselAt(3)
	assert.Error(t, err)
}

func TestMorselCountEmptyTable(t *testing.T) {
	tb := NewTable("t", Schema{{Name: "a", Type: Int64}})
	assert.Equal(t, 0, tb.MorselCount())
}

func TestSchemaIndexOf(t *testing.T) {
	s := lineitemSchema()
	assert.Equal(t, 1, s.IndexOf("l_discount"))
	assert.Equal(t, -1, s.IndexOf("missing"))
}

func TestTableIdentityUniquePerInstance(t *testing.T) {
	a := NewTable("t", lineitemSchema())
	b := NewTable("t", lineitemSchema())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.Name(), b.Name())
	assert.Equal(t, "t", a.String())
}

func TestDatabaseAndProvider(t *testing.T) {
	db := NewDatabase("tpch")
	db.AddTable(NewTable("lineitem", lineitemSchema()))
	db.AddTable(NewTable("orders", Schema{{Name: "o_orderkey", Type: Int64}}))

	got, err := db.Table("lineitem")
	require.NoError(t, err)
	assert.Equal(t, "lineitem", got.Name())

	_, err = db.Table("missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"lineitem", "orders"}, db.TableNames())

	provider := NewDBProvider(db)
	got2, err := provider.Database("tpch")
	require.NoError(t, err)
	assert.Same(t, db, got2)

	_, err = provider.Database("missing")
	assert.Error(t, err)
}
