package translate

import (
	"github.com/voilalab/voila/lole"
	"github.com/voilalab/voila/relalg"
)

// visitSelect lowers a Select into one lolepop that narrows the active mask
// by the translated predicate and re-emits every current column, per C5
// §4.5. Flow is unchanged: Select never adds, drops, or renames columns.
func (t *Translator) visitSelect(s *relalg.Select) {
	lp := &lole.LolePred{}
	et := NewExprTranslator(t.flow, lp)
	predVal := et.Translate(s.Predicate)

	selTrue := lole.NewFun("seltrue", lp, predVal)
	predName := t.newUniqueName("bv_pred")
	wrap := lole.NewWrapStatements([]lole.Stmt{lole.NewAssign(predName, selTrue, lp)}, lp)
	predRef := lole.NewRef(predName)

	arg := et.Arg()
	if arg == nil {
		arg = &lole.LoleArg{}
	}
	tuple := make([]lole.Expr, t.flow.Size())
	for i := range tuple {
		tuple[i] = lole.NewTupleGet(arg, i)
	}

	body := []lole.Stmt{
		wrap,
		lole.NewEmit(lole.NewTupleAppend(tuple), predRef),
		lole.NewMetaVarDead(predName),
	}

	name := t.nextLolepopName(s.OpName(), "")
	t.appendLolepop(lole.NewLolepop(name, body))
}

// visitProject lowers a Project into one lolepop that evaluates every
// projection entry and emits the resulting tuple under a fresh flow, per
// C5 §4.5.
func (t *Translator) visitProject(p *relalg.Project) {
	lp := &lole.LolePred{}
	et := NewExprTranslator(t.flow, lp)
	newFlow := NewFlow()

	values := make([]lole.Expr, len(p.Projections))
	for i, proj := range p.Projections {
		switch v := proj.(type) {
		case *relalg.Assign:
			values[i] = et.Translate(v.Expr)
			newFlow.Append(v.Name)
		case *relalg.ColId:
			values[i] = et.Translate(v)
			newFlow.Append(v.Name)
		default:
			panic(newPlanErrorf("Project: projection entry must be Assign or ColId, got %T", proj))
		}
	}

	var body []lole.Stmt
	var tuple []lole.Expr

	if t.allBlends {
		bvNames := make([]string, len(values))
		var blendBody []lole.Stmt
		for i, v := range values {
			bvNames[i] = t.newUniqueName("bv")
			blendBody = append(blendBody, lole.NewAssign(bvNames[i], v, lp))
		}
		body = append(body, lole.NewBlendStmt(blendBody, lp))
		tuple = make([]lole.Expr, len(bvNames))
		for i, bv := range bvNames {
			tuple[i] = lole.NewRef(bv)
		}
		body = append(body, lole.NewEmit(lole.NewTupleAppend(tuple), lp))
		for _, bv := range bvNames {
			body = append(body, lole.NewMetaVarDead(bv))
		}
	} else {
		tuple = values
		body = append(body, lole.NewEmit(lole.NewTupleAppend(tuple), lp))
	}

	name := t.nextLolepopName(p.OpName(), "")
	t.appendLolepop(lole.NewLolepop(name, body))
	t.flow = newFlow
}
