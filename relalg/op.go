package relalg

// Op is a relational operator node: Scan, Select, Project, HashAggr, or
// HashJoin. Scan has no child; Select, Project and HashAggr have one (Child);
// HashJoin has two (Left, the probe side, and Right, the build side).
type Op interface {
	isOp()
	// OpName returns the stable tag used to form lolepop names
	// ("lole_<id>_<OpName>[_stage]") during translation.
	OpName() string
}

// Scan reads Columns off Table. It is always a tree leaf.
type Scan struct {
	Table   string
	Columns []*ColId
}

func (*Scan) isOp()          {}
func (*Scan) OpName() string { return "Scan" }

// NewScan builds a Scan over the named columns of table.
func NewScan(table string, columns ...string) *Scan {
	cols := make([]*ColId, len(columns))
	for i, c := range columns {
		cols[i] = NewColId(c)
	}
	return &Scan{Table: table, Columns: cols}
}

// Select filters Child's rows by Predicate.
type Select struct {
	Child     Op
	Predicate Expr
}

func (*Select) isOp()          {}
func (*Select) OpName() string { return "Select" }

// NewSelect builds a Select over child.
func NewSelect(child Op, predicate Expr) *Select {
	return &Select{Child: child, Predicate: predicate}
}

// Project narrows/renames Child's rows via Projections, each of which must
// be an *Assign or a *ColId.
type Project struct {
	Child       Op
	Projections []Expr
}

func (*Project) isOp()          {}
func (*Project) OpName() string { return "Project" }

// NewProject builds a Project over child.
func NewProject(child Op, projections ...Expr) *Project {
	return &Project{Child: child, Projections: projections}
}

// AggrVariant distinguishes a keyed hash aggregation from a single-row
// global aggregation.
type AggrVariant int

const (
	// AggrHash groups by Keys.
	AggrHash AggrVariant = iota
	// AggrGlobal has no keys; one accumulator row for the whole input.
	AggrGlobal
)

func (v AggrVariant) String() string {
	if v == AggrGlobal {
		return "Global"
	}
	return "Hash"
}

// HashAggr groups Child's rows by Keys and evaluates Aggregates (each a Fun
// naming an aggregate function, e.g. sum/count) per group.
type HashAggr struct {
	Variant    AggrVariant
	Child      Op
	Keys       []Expr
	Aggregates []Expr
}

func (*HashAggr) isOp()          {}
func (*HashAggr) OpName() string { return "HashAggr" }

// NewHashAggr builds a HashAggr over child.
func NewHashAggr(variant AggrVariant, child Op, keys, aggregates []Expr) *HashAggr {
	return &HashAggr{Variant: variant, Child: child, Keys: keys, Aggregates: aggregates}
}

// JoinVariant distinguishes a join that can produce at most one match per
// probe row (Join01, enabling the single-match optimization) from one that
// can produce many (JoinN).
type JoinVariant int

const (
	// Join01 enables the single-match chain-advance optimization.
	Join01 JoinVariant = iota
	// JoinN allows multiple matches per probe row.
	JoinN
)

func (v JoinVariant) String() string {
	if v == Join01 {
		return "Join01"
	}
	return "JoinN"
}

// HashJoin probes Left (the probe side) against a hash table built from
// Right (the build side). LeftKeys/LeftPayl and RightKeys/RightPayl name the
// equi-join key columns and the extra payload columns carried through from
// each side respectively.
type HashJoin struct {
	Variant JoinVariant

	Left      Op
	LeftKeys  []Expr
	LeftPayl  []Expr

	Right      Op
	RightKeys  []Expr
	RightPayl  []Expr
}

func (*HashJoin) isOp()          {}
func (*HashJoin) OpName() string { return "HashJoin" }

// NewHashJoin builds a HashJoin of left (probe) against right (build).
func NewHashJoin(variant JoinVariant, left Op, leftKeys, leftPayl []Expr, right Op, rightKeys, rightPayl []Expr) *HashJoin {
	return &HashJoin{
		Variant:   variant,
		Left:      left,
		LeftKeys:  leftKeys,
		LeftPayl:  leftPayl,
		Right:     right,
		RightKeys: rightKeys,
		RightPayl: rightPayl,
	}
}
