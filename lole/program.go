package lole

// Lolepop is one pipeline-local operator: a named sequence of statements
// reading the implicit upstream tuple (via LoleArg) and producing output via
// Emit, plus optional reads/writes against the enclosing Program's
// DataStructures.
type Lolepop struct {
	Name string
	Body []Stmt
}

// NewLolepop builds a Lolepop named name.
func NewLolepop(name string, body []Stmt) *Lolepop {
	return &Lolepop{Name: name, Body: body}
}

// Pipeline is an ordered chain of Lolepops, the unit the blend space assigns
// a flavor to. Interesting marks a pipeline as eligible for per-pipeline
// blend overrides during exploration (see package blend); pipelines
// synthesized purely as plumbing, such as a re-aggregation flush pass, are
// left uninteresting so the explorer does not waste search budget on them.
type Pipeline struct {
	Lolepops    []*Lolepop
	Interesting bool
}

// NewPipeline builds a Pipeline over lolepops.
func NewPipeline(lolepops []*Lolepop, interesting bool) *Pipeline {
	return &Pipeline{Lolepops: lolepops, Interesting: interesting}
}

// Modifier tags the role a Table column plays in the data structure's
// physical layout.
type Modifier int

const (
	// Value columns carry payload, untouched by lookup/insert logic.
	Value Modifier = iota
	// Key columns participate in the equality check during a bucket-chain
	// walk.
	Key
	// Hash columns cache a precomputed hash value alongside a Key column.
	Hash
)

func (m Modifier) String() string {
	switch m {
	case Key:
		return "Key"
	case Hash:
		return "Hash"
	default:
		return "Value"
	}
}

// DCol is one physical column of a DataStructure.
type DCol struct {
	Name     string
	Type     string
	Modifier Modifier
}

// NewDCol builds a DCol.
func NewDCol(name, typ string, modifier Modifier) *DCol {
	return &DCol{Name: name, Type: typ, Modifier: modifier}
}

// Kind distinguishes the physical structures a Table DataStructure may be
// realized as.
type Kind int

const (
	// HashTable is a chained bucket hash table (the only kind this engine's
	// hash-aggregation and hash-join lowering ever target).
	HashTable Kind = iota
)

// DataStructure is a named storage area declared by a Program: either a
// handle onto an externally-owned BaseTable (see package table's contract)
// or a Table materialized by the program itself (a hash table backing a
// HashAggr or the build side of a HashJoin).
type DataStructure interface {
	isDataStructure()
	// DSName returns the name lolepop statements use to address this
	// structure (the first argument of Write/Scatter/bucket_* Fun calls).
	DSName() string
}

// BaseTable is a read-only handle onto an externally supplied columnar
// table (package table's contract), scoped down to the columns actually
// read by the plan.
type BaseTable struct {
	Name        string
	Columns     []*DCol
	SourceTable string
}

func (*BaseTable) isDataStructure()  {}
func (t *BaseTable) DSName() string { return t.Name }

// NewBaseTable builds a BaseTable named name over sourceTable.
func NewBaseTable(name, sourceTable string, columns []*DCol) *BaseTable {
	return &BaseTable{Name: name, Columns: columns, SourceTable: sourceTable}
}

// Table is a data structure materialized during execution: the hash table
// backing a HashAggr's groups, or a HashJoin's build side.
type Table struct {
	Name    string
	Columns []*DCol
	Kind    Kind

	// ThreadLocal gives every worker thread its own private instance,
	// merged into the master instance only at FlushToMaster points.
	ThreadLocal bool
	// FlushToMaster marks that thread-local instances of this structure are
	// merged into a single master instance at the end of the build phase
	// (meaningless unless ThreadLocal is set).
	FlushToMaster bool
	// ReadAfterWrite marks that probes against this structure must observe
	// all writes from every thread (forces the merge implied by
	// FlushToMaster to complete, and a full memory fence, before any reader
	// proceeds) — set on a HashJoin's build side and unset on a HashAggr's
	// table when morsel-local re-aggregation is used instead.
	ReadAfterWrite bool
}

func (*Table) isDataStructure()  {}
func (t *Table) DSName() string { return t.Name }

// NewTable builds a Table named name of the given kind.
func NewTable(name string, columns []*DCol, kind Kind, threadLocal, flushToMaster, readAfterWrite bool) *Table {
	return &Table{
		Name:           name,
		Columns:        columns,
		Kind:           kind,
		ThreadLocal:    threadLocal,
		FlushToMaster:  flushToMaster,
		ReadAfterWrite: readAfterWrite,
	}
}

// Program is the complete output of translating one relalg plan: the
// ordered pipelines to run and the data structures they share. It is the
// contract handed to the codegen collaborator.
type Program struct {
	Pipelines      []*Pipeline
	DataStructures []DataStructure
}

// NewProgram builds a Program.
func NewProgram(pipelines []*Pipeline, dataStructures []DataStructure) *Program {
	return &Program{Pipelines: pipelines, DataStructures: dataStructures}
}
