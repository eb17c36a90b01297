// Package lole defines the low-level, pipeline-local dataflow IR ("lolepops")
// that relational plans are lowered into by package translate. It is a
// structured imperative IR: typed expressions and statements operating on an
// implicit per-lolepop tuple, each carrying an explicit predicate reference
// (the active-lane mask) rather than relying on control flow to select rows.
//
// Every node here is immutable once built and is intended to be constructed
// once per lowering invocation and handed, as a *Program, to an external
// code-generator collaborator (package codegen's contract) — never mutated
// afterwards.
package lole

// Expr is a lole scalar expression.
type Expr interface {
	isExpr()
}

// Const is a literal, carried as source text (the codegen collaborator
// interprets it against a concrete type).
type Const struct {
	Val string
}

func (*Const) isExpr() {}

// NewConst builds a Const node.
func NewConst(val string) *Const { return &Const{Val: val} }

// Ref is a named local variable reference (a statement-introduced binding
// such as "bucket", "hash", or a blend-materialized "bv_0").
type Ref struct {
	Name string
}

func (*Ref) isExpr() {}

// NewRef builds a Ref to name.
func NewRef(name string) *Ref { return &Ref{Name: name} }

// LoleArg is the sentinel referring to the implicit upstream tuple. All
// LoleArg instances are interchangeable; the expression translator
// allocates at most one per translation pass and shares it across all
// TupleGets it produces.
type LoleArg struct{}

func (*LoleArg) isExpr() {}

// LolePred is the sentinel referring to the implicit upstream predicate
// mask ("always active" when unused — a nil Expr in a predicate field means
// the same thing as a statement with no restriction).
type LolePred struct{}

func (*LolePred) isExpr() {}

// TupleGet reads Slot out of Source (normally a LoleArg).
type TupleGet struct {
	Source Expr
	Slot   int
}

func (*TupleGet) isExpr() {}

// NewTupleGet builds a TupleGet.
func NewTupleGet(source Expr, slot int) *TupleGet {
	return &TupleGet{Source: source, Slot: slot}
}

// TupleAppend concatenates Exprs into one output tuple, as used by Emit.
type TupleAppend struct {
	Exprs []Expr
}

func (*TupleAppend) isExpr() {}

// NewTupleAppend builds a TupleAppend over exprs.
func NewTupleAppend(exprs []Expr) *TupleAppend {
	return &TupleAppend{Exprs: exprs}
}

// Fun applies a named lole primitive (e.g. "eq", "hash", "bucket_lookup",
// "gather") to Args under Pred.
type Fun struct {
	Name string
	Args []Expr
	Pred Expr
}

func (*Fun) isExpr() {}

// NewFun builds a Fun node.
func NewFun(name string, pred Expr, args ...Expr) *Fun {
	return &Fun{Name: name, Args: args, Pred: pred}
}
