package lole

// Stmt is a lole statement. Every statement that produces or consumes
// per-tuple values carries its predicate reference in a Pred field; a nil
// predicate means "always active".
type Stmt interface {
	isStmt()
}

// Assign binds Expr (masked by Pred) to a fresh or updated local Name.
type Assign struct {
	Name string
	Expr Expr
	Pred Expr
}

func (*Assign) isStmt() {}

// NewAssign builds an Assign statement.
func NewAssign(name string, expr, pred Expr) *Assign {
	return &Assign{Name: name, Expr: expr, Pred: pred}
}

// Emit appends Tuple as output rows of the enclosing lolepop, for the lanes
// selected by Pred.
type Emit struct {
	Tuple Expr
	Pred  Expr
}

func (*Emit) isStmt() {}

// NewEmit builds an Emit statement.
func NewEmit(tuple, pred Expr) *Emit {
	return &Emit{Tuple: tuple, Pred: pred}
}

// Loop repeats Body while any lane of the mask named by CondRef is active.
type Loop struct {
	CondRef *Ref
	Body    []Stmt
}

func (*Loop) isStmt() {}

// NewLoop builds a Loop statement.
func NewLoop(cond *Ref, body []Stmt) *Loop {
	return &Loop{CondRef: cond, Body: body}
}

// Effect evaluates Expr for its side effect only (no result binding), e.g. a
// bucket_build or bucket_flush call.
type Effect struct {
	Expr Expr
}

func (*Effect) isStmt() {}

// NewEffect builds an Effect statement.
func NewEffect(expr Expr) *Effect { return &Effect{Expr: expr} }

// Write stores Value into data-structure Col at flat index Pos.
type Write struct {
	Col   Expr
	Pos   Expr
	Value Expr
	Pred  Expr
}

func (*Write) isStmt() {}

// NewWrite builds a Write statement.
func NewWrite(col, pos, value, pred Expr) *Write {
	return &Write{Col: col, Pos: pos, Value: value, Pred: pred}
}

// Scatter stores Value into data-structure Col at the per-lane index carried
// by Pos (one index per active lane, as opposed to Write's single shared
// index).
type Scatter struct {
	Col   Expr
	Pos   Expr
	Value Expr
	Pred  Expr
}

func (*Scatter) isStmt() {}

// NewScatter builds a Scatter statement.
func NewScatter(col, pos, value, pred Expr) *Scatter {
	return &Scatter{Col: col, Pos: pos, Value: value, Pred: pred}
}

// AggrSum adds Value into the per-group accumulator Col at GroupID, for a
// grouped (hash) aggregation.
type AggrSum struct {
	Col     Expr
	GroupID Expr
	Value   Expr
	Pred    Expr
}

func (*AggrSum) isStmt() {}

// NewAggrSum builds an AggrSum statement.
func NewAggrSum(col, groupID, value, pred Expr) *AggrSum {
	return &AggrSum{Col: col, GroupID: groupID, Value: value, Pred: pred}
}

// AggrCount increments the per-group counter Col at GroupID by IncBy
// (ordinarily a Const("1"), one increment per matching lane).
type AggrCount struct {
	Col     Expr
	GroupID Expr
	IncBy   Expr
	Pred    Expr
}

func (*AggrCount) isStmt() {}

// NewAggrCount builds an AggrCount statement.
func NewAggrCount(col, groupID, incBy, pred Expr) *AggrCount {
	return &AggrCount{Col: col, GroupID: groupID, IncBy: incBy, Pred: pred}
}

// AggrGSum adds Value into the single global accumulator Col (global, i.e.
// keyless, aggregation).
type AggrGSum struct {
	Col   Expr
	Value Expr
	Pred  Expr
}

func (*AggrGSum) isStmt() {}

// NewAggrGSum builds an AggrGSum statement.
func NewAggrGSum(col, value, pred Expr) *AggrGSum {
	return &AggrGSum{Col: col, Value: value, Pred: pred}
}

// AggrGCount increments the single global counter Col.
type AggrGCount struct {
	Col  Expr
	Pred Expr
}

func (*AggrGCount) isStmt() {}

// NewAggrGCount builds an AggrGCount statement.
func NewAggrGCount(col, pred Expr) *AggrGCount {
	return &AggrGCount{Col: col, Pred: pred}
}

// MetaVarDead marks Name as no longer live after this point, a hint to the
// code generator that its storage may be reclaimed/reused.
type MetaVarDead struct {
	Name string
}

func (*MetaVarDead) isStmt() {}

// NewMetaVarDead builds a MetaVarDead marker.
func NewMetaVarDead(name string) *MetaVarDead { return &MetaVarDead{Name: name} }

// MetaRefillInflow marks the point within a producer loop where the next
// upstream batch should be requested.
type MetaRefillInflow struct{}

func (*MetaRefillInflow) isStmt() {}

// MetaBeginFsmExclusive marks the start of a region that must run under FSM
// mutual exclusion (the hash-aggregation bucket-chain walk that inserts new
// groups).
type MetaBeginFsmExclusive struct{}

func (*MetaBeginFsmExclusive) isStmt() {}

// MetaEndFsmExclusive closes a MetaBeginFsmExclusive region.
type MetaEndFsmExclusive struct{}

func (*MetaEndFsmExclusive) isStmt() {}

// Done marks the end of a lolepop that produces no further output (a build
// or flush stage).
type Done struct{}

func (*Done) isStmt() {}

// WrapStatements groups Body under a single shared Pred without introducing
// a blend injection point.
type WrapStatements struct {
	Body []Stmt
	Pred Expr
}

func (*WrapStatements) isStmt() {}

// NewWrapStatements builds a WrapStatements wrapper.
func NewWrapStatements(body []Stmt, pred Expr) *WrapStatements {
	return &WrapStatements{Body: body, Pred: pred}
}

// BlendStmt groups Body under Pred as a blend injection point: the code
// generator may lower Body under any BlendConfig compatible with this
// point's pipeline base flavor. BlendConfig is left untyped here (an
// interface{} on purpose — lole must not import package blend, which itself
// interns its configs independently of any particular program). Package
// translate leaves it nil on every BlendStmt it builds; nil means "use
// whatever flavor the exploration point assigns".
type BlendStmt struct {
	Body  []Stmt
	Pred  Expr
	Blend interface{}
}

func (*BlendStmt) isStmt() {}

// NewBlendStmt builds a BlendStmt injection point.
func NewBlendStmt(body []Stmt, pred Expr) *BlendStmt {
	return &BlendStmt{Body: body, Pred: pred}
}
