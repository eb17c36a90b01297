package translate

import (
	"github.com/voilalab/voila/lole"
	"github.com/voilalab/voila/relalg"
)

// visitScan lowers a Scan into one lolepop: two nested loops (morsels, then
// per-morsel positions) emitting one tuple per position, per C5 §4.4. Scan
// carries no incoming predicate context — its emitted tuples are
// unconditionally active.
func (t *Translator) visitScan(s *relalg.Scan) {
	flow := NewFlow()
	cols := make([]*lole.DCol, len(s.Columns))
	tuple := make([]lole.Expr, len(s.Columns))
	for i, c := range s.Columns {
		flow.Append(s.Table + "." + c.Name)
		cols[i] = lole.NewDCol(c.Name, "", lole.Value)
		tuple[i] = lole.NewFun("scan_col", nil, lole.NewRef(c.Name), lole.NewRef("pos"))
	}

	t.declare(lole.NewBaseTable(s.Table, s.Table, cols))

	innerBody := []lole.Stmt{
		lole.NewEmit(lole.NewTupleAppend(tuple), nil),
	}
	outerBody := []lole.Stmt{
		&lole.MetaRefillInflow{},
		lole.NewLoop(lole.NewRef("pos_has_next"), innerBody),
	}
	outerLoop := lole.NewLoop(lole.NewRef("morsel_has_next"), outerBody)

	name := t.nextLolepopName(s.OpName(), "")
	t.appendLolepop(lole.NewLolepop(name, []lole.Stmt{outerLoop}))
	t.flow = flow
}
