// Package table is the external collaborator contract for the columnar
// in-memory database: table schemas and column-oriented, morsel-iterable
// tuple storage that package translate's Scan lowering declares a
// lole.BaseTable against and that a TPC-H data loader would populate. Per
// spec.md §1, only this contract is in scope — not a query executor; reading
// rows back out during an actual kernel run is the generated kernel's job,
// not this package's.
//
// Grounded on the teacher's memory package API shape as exercised by
// memory/table_test.go, database_test.go, and provider_test.go
// (NewTable/NewPartitionedTable/NewDatabase/NewDBProvider construction
// patterns), adapted from row-oriented sql.Row storage to column-oriented
// storage matching this domain's morsel-driven scan lowering.
package table

import "github.com/shopspring/decimal"

// ColumnType is the physical storage type of one column.
type ColumnType int

const (
	Int64 ColumnType = iota
	Decimal
	String
)

func (ct ColumnType) String() string {
	switch ct {
	case Int64:
		return "int64"
	case Decimal:
		return "decimal"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Column describes one column of a Schema.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is an ordered list of columns.
type Schema []Column

// IndexOf returns the position of name in s, or -1 if absent.
func (s Schema) IndexOf(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Row is a single decoded tuple, positionally aligned with a Schema.
// Int64 columns decode to int64, Decimal to decimal.Decimal, String to
// string.
type Row []interface{}
