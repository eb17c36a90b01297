package translate

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/voilalab/voila/lole"
	"github.com/voilalab/voila/relalg"
)

// Translator holds the state threaded through one lowering invocation: the
// current Flow, the pipelines and data structures accumulated so far, the
// in-progress pipeline's lolepops, and the id/name counters that make
// generated lolepop and structure names deterministic for a fixed plan (see
// SPEC_FULL.md's determinism testable property).
type Translator struct {
	flow *Flow

	pipelines      []*lole.Pipeline
	dataStructures []lole.DataStructure

	curLolepops    []*lole.Lolepop
	curInteresting bool

	lolepopID  int
	uniqueName int

	allBlends bool
	log       *logrus.Entry
}

// Options configures a Translate invocation.
type Options struct {
	// AllBlends pre-materializes values that would otherwise be emitted or
	// gathered inline into fresh bv_i locals wrapped in a BlendStmt,
	// exposing them as per-site blend injection points (C4.5/C4.7). When
	// false, those values are inlined directly, producing a plan with no
	// blend points at all.
	AllBlends bool
	Log       *logrus.Entry
}

func newTranslator(opts Options) *Translator {
	log := opts.Log
	if log == nil {
		log = logrus.WithField("component", "translate")
	}
	return &Translator{
		flow:           NewFlow(),
		curInteresting: true,
		allBlends:      opts.AllBlends,
		log:            log,
	}
}

// Translate lowers root into a Program. Any invariant violation in root
// (unresolved column, Assign outside Project, an unsupported operator)
// surfaces here as a *PlanError, recovered from the single panic boundary
// used throughout this package.
func Translate(root relalg.Op, opts Options) (prog *lole.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*PlanError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	t := newTranslator(opts)
	t.visit(root)
	t.closePipeline()

	return lole.NewProgram(t.pipelines, t.dataStructures), nil
}

// visit dispatches on root's dynamic type (C5's tagged-variant traversal in
// place of the original's double-dispatch visitor) and leaves t.flow set to
// root's output flow.
func (t *Translator) visit(op relalg.Op) {
	switch o := op.(type) {
	case *relalg.Scan:
		t.visitScan(o)
	case *relalg.Select:
		t.visit(o.Child)
		t.visitSelect(o)
	case *relalg.Project:
		t.visit(o.Child)
		t.visitProject(o)
	case *relalg.HashAggr:
		t.visit(o.Child)
		t.visitHashAggr(o)
	case *relalg.HashJoin:
		t.visitHashJoin(o)
	default:
		panic(newPlanErrorf("unsupported relational operator %T", op))
	}
}

// appendLolepop adds lp to the in-progress pipeline.
func (t *Translator) appendLolepop(lp *lole.Lolepop) {
	t.curLolepops = append(t.curLolepops, lp)
}

// closePipeline finalizes the in-progress pipeline (if non-empty) and
// starts a fresh one tagged interesting, matching the original's
// new_pipeline().
func (t *Translator) closePipeline() {
	if len(t.curLolepops) == 0 {
		return
	}
	t.pipelines = append(t.pipelines, lole.NewPipeline(t.curLolepops, t.curInteresting))
	t.curLolepops = nil
	t.curInteresting = true
}

// markUninteresting marks the pipeline currently being built as
// non-interesting (a flush or build-stage plumbing pipeline that the
// exploration driver should not bother assigning a per-pipeline blend
// override to).
func (t *Translator) markUninteresting() {
	t.curInteresting = false
}

// declare appends ds to the program's declared data structures, in
// declaration order.
func (t *Translator) declare(ds lole.DataStructure) {
	t.dataStructures = append(t.dataStructures, ds)
}

// nextLolepopName forms "lole_<id>_<opName>[_stage]", advancing the
// monotonic lolepop id counter.
func (t *Translator) nextLolepopName(opName, stage string) string {
	t.lolepopID++
	if stage == "" {
		return fmt.Sprintf("lole_%d_%s", t.lolepopID, opName)
	}
	return fmt.Sprintf("lole_%d_%s_%s", t.lolepopID, opName, stage)
}

// newUniqueName forms "<prefix>_<n>" from the monotonic unique-name counter,
// used for locals (bv_i) and declared hash-table names (ht_i).
func (t *Translator) newUniqueName(prefix string) string {
	t.uniqueName++
	return fmt.Sprintf("%s_%d", prefix, t.uniqueName)
}

// maybeBlendWrap wraps body in a BlendStmt when all-blends mode is on, or a
// plain WrapStatements otherwise — the original's templated blend-wrapper
// helper collapsed to one bool-driven function (see SPEC_FULL.md Design
// Notes / "Templated blend wrappers").
func (t *Translator) maybeBlendWrap(body []lole.Stmt, pred lole.Expr) lole.Stmt {
	if t.allBlends {
		return lole.NewBlendStmt(body, pred)
	}
	return lole.NewWrapStatements(body, pred)
}
