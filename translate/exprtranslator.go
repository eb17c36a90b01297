package translate

import "github.com/voilalab/voila/lole"
import "github.com/voilalab/voila/relalg"

// opSymbols rewrites relalg.Fun names into the lole primitive names they
// lower to, per C4. Names absent from this map pass through unchanged.
var opSymbols = map[string]string{
	"<=": "le",
	"<":  "lt",
	">=": "ge",
	">":  "gt",
	"=":  "eq",
	"!=": "ne",
	"+":  "add",
	"-":  "sub",
	"*":  "mul",
}

// ExprTranslator lowers relalg.Expr trees to lole.Expr under a single fixed
// active predicate. One instance is scoped to a single lowering step (e.g.
// all of one Select's predicate, or all of one Project's projection list);
// within that scope, repeated ColId references to the same column share one
// TupleGet node, and all TupleGets share one LoleArg sentinel.
//
// Note (Open Question, see DESIGN.md): the original suggests the expression
// cache persists downstream of a Project so that later ColId(name)
// references reuse the Assign's translated value directly instead of a
// fresh slot-based TupleGet. This implementation scopes the cache to one
// ExprTranslator per lowering step instead: downstream operators always
// resolve a name through the rebuilt Flow and issue a fresh TupleGet against
// their own LoleArg. This is the one place this translator deviates from a
// literal reading of the original, and it is a deliberate correctness
// choice — reusing a pre-Project expression after the tuple it reads from
// has gone out of scope would reference a LoleArg no longer bound in the
// enclosing lolepop.
type ExprTranslator struct {
	flow  *Flow
	pred  lole.Expr
	arg   *lole.LoleArg
	cache map[string]lole.Expr
}

// NewExprTranslator builds an ExprTranslator resolving ColIds against flow
// and stamping every produced Fun with pred as its active predicate.
func NewExprTranslator(flow *Flow, pred lole.Expr) *ExprTranslator {
	return &ExprTranslator{flow: flow, pred: pred, cache: make(map[string]lole.Expr)}
}

// Translate lowers one relalg.Expr. Panics with a *PlanError if e references
// an unresolved column or is an Assign found outside a Project's projection
// list (Assign is only ever a legal top-level entry of Project.Projections;
// C5's Project lowering handles it directly and never calls Translate on
// it).
func (t *ExprTranslator) Translate(e relalg.Expr) lole.Expr {
	switch v := e.(type) {
	case *relalg.Const:
		return lole.NewConst(v.Val)
	case *relalg.ColId:
		return t.translateColID(v.Name)
	case *relalg.Fun:
		args := make([]lole.Expr, len(v.Args))
		for i, a := range v.Args {
			args[i] = t.Translate(a)
		}
		name := v.Name
		if rewritten, ok := opSymbols[name]; ok {
			name = rewritten
		}
		return lole.NewFun(name, t.pred, args...)
	case *relalg.Assign:
		panic(newPlanErrorf("Assign %q used as a leaf expression outside Project", v.Name))
	default:
		panic(newPlanErrorf("unsupported relalg expression %T", e))
	}
}

func (t *ExprTranslator) translateColID(name string) lole.Expr {
	if cached, ok := t.cache[name]; ok {
		return cached
	}
	slot, ok := t.flow.Get(name)
	if !ok {
		panic(newPlanErrorf("unresolved column %q", name))
	}
	if t.arg == nil {
		t.arg = &lole.LoleArg{}
	}
	e := lole.NewTupleGet(t.arg, slot)
	t.cache[name] = e
	return e
}

// Arg returns the single LoleArg sentinel shared by every TupleGet this
// translator has produced so far (nil if none were produced yet, i.e. every
// translated expression was a Const or a pure Fun over Consts).
func (t *ExprTranslator) Arg() *lole.LoleArg {
	return t.arg
}
