// Package relalg defines the relational-algebra intermediate representation
// that query plans are expressed in before they are lowered into the lole
// dataflow IR by package translate.
//
// Nodes are immutable once constructed and form a tree (no back-edges),
// built bottom-up by plan constructors such as those in package tpch. Rather
// than a classical double-dispatch visitor, dispatch is a type switch on the
// node's dynamic type — simpler and faster, and the idiomatic Go shape for a
// closed tagged variant (see DESIGN.md).
package relalg

// Expr is a relational scalar expression: Const, ColId, Fun, or Assign.
type Expr interface {
	isExpr()
}

// Const is a literal value, carried as its source-text representation; the
// lole codegen collaborator is responsible for interpreting it against a
// concrete column type.
type Const struct {
	Val string
}

func (*Const) isExpr() {}

// NewConst wraps an arbitrary literal in a Const node.
func NewConst(val string) *Const { return &Const{Val: val} }

// ColId references a column by its qualified name (e.g. "lineitem.l_quantity"
// for a base-table column, or a bare projected name introduced upstream by
// an Assign).
type ColId struct {
	Name string
}

func (*ColId) isExpr() {}

// NewColId builds a ColId reference.
func NewColId(name string) *ColId { return &ColId{Name: name} }

// ColIds builds one ColId per name, preserving order.
func ColIds(names []string) []Expr {
	r := make([]Expr, len(names))
	for i, n := range names {
		r[i] = NewColId(n)
	}
	return r
}

// Fun applies a named function (an operator, a scalar builtin, or an
// aggregate name when it appears inside HashAggr.Aggregates) to a list of
// argument expressions.
type Fun struct {
	Name string
	Args []Expr
}

func (*Fun) isExpr() {}

// NewFun builds a Fun node.
func NewFun(name string, args ...Expr) *Fun {
	return &Fun{Name: name, Args: args}
}

// LeftDeepTree folds exprs into a left-deep tree of Fun(name, ...) nodes,
// e.g. a+b+c becomes Fun(name, Fun(name, a, b), c). Returns nil when exprs
// is empty; a single expr is returned unwrapped.
func LeftDeepTree(name string, exprs []Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	acc := exprs[0]
	for _, e := range exprs[1:] {
		acc = NewFun(name, acc, e)
	}
	return acc
}

// Assign introduces a fresh logical column name bound to expr. Only legal as
// a direct entry of Project.Projections; the expression translator rejects
// it anywhere else.
type Assign struct {
	Name string
	Expr Expr
}

func (*Assign) isExpr() {}

// NewAssign builds an Assign projection entry.
func NewAssign(name string, expr Expr) *Assign {
	return &Assign{Name: name, Expr: expr}
}
