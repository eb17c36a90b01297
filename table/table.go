package table

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// DefaultMorselSize is the row count per morsel used by NewTable; it
// matches a typical single-core batch size for morsel-driven parallel
// scans (see SPEC_FULL.md's Scan lowering, which iterates morsels then
// per-morsel positions).
const DefaultMorselSize = 1024

// Table is a column-oriented, morsel-partitioned in-memory table: the
// physical backing for a lole.BaseTable declared during translation.
type Table struct {
	id         uuid.UUID
	name       string
	schema     Schema
	morselSize int
	rows       int

	ints     map[string][]int64
	decimals map[string][]decimal.Decimal
	strs     map[string][]string
}

// NewTable builds an empty Table named name over schema, with
// DefaultMorselSize rows per morsel.
func NewTable(name string, schema Schema) *Table {
	return NewPartitionedTable(name, schema, DefaultMorselSize)
}

// NewPartitionedTable builds an empty Table with an explicit morselSize,
// mirroring the teacher's memory.NewPartitionedTable(name, schema,
// numPartitions) shape but parameterized by row count per morsel rather
// than a fixed partition count, since morsel count here is derived from
// row count (see MorselCount).
func NewPartitionedTable(name string, schema Schema, morselSize int) *Table {
	if morselSize <= 0 {
		morselSize = DefaultMorselSize
	}
	t := &Table{
		id:         uuid.New(),
		name:       name,
		schema:     schema,
		morselSize: morselSize,
		ints:       make(map[string][]int64),
		decimals:   make(map[string][]decimal.Decimal),
		strs:       make(map[string][]string),
	}
	for _, c := range schema {
		switch c.Type {
		case Int64:
			t.ints[c.Name] = nil
		case Decimal:
			t.decimals[c.Name] = nil
		case String:
			t.strs[c.Name] = nil
		}
	}
	return t
}

// ID returns this table instance's stable identity, unique across the
// lifetime of an explorer run even when two tables share a name (e.g. a
// lowered plan's per-thread scratch copies).
func (t *Table) ID() uuid.UUID { return t.id }

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// String implements fmt.Stringer, matching the teacher's memory.Table
// convention of String() returning the bare name.
func (t *Table) String() string { return t.name }

// Schema returns the table's column schema.
func (t *Table) Schema() Schema { return t.schema }

// NumRows returns the number of rows appended so far.
func (t *Table) NumRows() int { return t.rows }

// AppendRow appends one row, type-checked positionally against Schema.
func (t *Table) AppendRow(values ...interface{}) error {
	if len(values) != len(t.schema) {
		return errors.Errorf("table %s: expected %d values, got %d", t.name, len(t.schema), len(values))
	}
	for i, c := range t.schema {
		switch c.Type {
		case Int64:
			v, ok := values[i].(int64)
			if !ok {
				return errors.Errorf("table %s: column %s: expected int64, got %T", t.name, c.Name, values[i])
			}
			t.ints[c.Name] = append(t.ints[c.Name], v)
		case Decimal:
			v, ok := values[i].(decimal.Decimal)
			if !ok {
				return errors.Errorf("table %s: column %s: expected decimal.Decimal, got %T", t.name, c.Name, values[i])
			}
			t.decimals[c.Name] = append(t.decimals[c.Name], v)
		case String:
			v, ok := values[i].(string)
			if !ok {
				return errors.Errorf("table %s: column %s: expected string, got %T", t.name, c.Name, values[i])
			}
			t.strs[c.Name] = append(t.strs[c.Name], v)
		}
	}
	t.rows++
	return nil
}

// Row decodes the row at pos into a Row in schema order.
func (t *Table) Row(pos int) (Row, error) {
	if pos < 0 || pos >= t.rows {
		return nil, errors.Errorf("table %s: row %d out of range [0,%d)", t.name, pos, t.rows)
	}
	r := make(Row, len(t.schema))
	for i, c := range t.schema {
		switch c.Type {
		case Int64:
			r[i] = t.ints[c.Name][pos]
		case Decimal:
			r[i] = t.decimals[c.Name][pos]
		case String:
			r[i] = t.strs[c.Name][pos]
		}
	}
	return r, nil
}

// Morsel is a contiguous, half-open row range: the unit of work for
// parallel scans.
type Morsel struct {
	Offset int
	Len    int
}

// MorselCount returns the number of morsels the table currently splits
// into, matching the teacher's PartitionCount shape.
func (t *Table) MorselCount() int {
	if t.rows == 0 {
		return 0
	}
	return (t.rows + t.morselSize - 1) / t.morselSize
}

// MorselAt returns the i'th morsel's row range.
func (t *Table) MorselAt(i int) (Morsel, error) {
	n := t.MorselCount()
	if i < 0 || i >= n {
		return Morsel{}, errors.Errorf("table %s: morsel %d out of range [0,%d)", t.name, i, n)
	}
	offset := i * t.morselSize
	length := t.morselSize
	if offset+length > t.rows {
		length = t.rows - offset
	}
	return Morsel{Offset: offset, Len: length}, nil
}
