package translate

import (
	"fmt"

	"github.com/voilalab/voila/lole"
	"github.com/voilalab/voila/relalg"
)

// visitHashAggr lowers a HashAggr into either a single global-accumulator
// lolepop (AggrGlobal) or the full probe/insert/flush/read pipeline set plus
// a morsel-local re-aggregation pass (AggrHash), per C5 §4.6.
func (t *Translator) visitHashAggr(a *relalg.HashAggr) {
	if a.Variant == relalg.AggrGlobal {
		t.visitGlobalAggr(a)
		return
	}
	t.visitGroupedAggr(a, false, -1)
}

func (t *Translator) visitGlobalAggr(a *relalg.HashAggr) {
	et := NewExprTranslator(t.flow, &lole.LolePred{})

	aggrCols := make([]*lole.DCol, len(a.Aggregates))
	var stmts []lole.Stmt
	for i, aggr := range a.Aggregates {
		fn, ok := aggr.(*relalg.Fun)
		if !ok {
			panic(newPlanErrorf("HashAggr: aggregate entry %d must be a Fun, got %T", i, aggr))
		}
		colName := fmt.Sprintf("aggr_%d", i)
		aggrCols[i] = lole.NewDCol(colName, "", lole.Value)
		colRef := lole.NewRef(colName)
		switch fn.Name {
		case "count":
			// count's own argument is evaluated for side effect only — it
			// contributes nothing to the generated statement, but a
			// dangling reference inside it (e.g. count(count) over a
			// column no upstream operator ever introduced, the original
			// imv1 query's bug) must still be caught here rather than
			// silently accepted.
			for _, arg := range fn.Args {
				et.Translate(arg)
			}
			stmts = append(stmts, lole.NewAggrGCount(colRef, &lole.LolePred{}))
		default:
			if len(fn.Args) != 1 {
				panic(newPlanErrorf("HashAggr: aggregate %q expects one argument", fn.Name))
			}
			val := et.Translate(fn.Args[0])
			stmts = append(stmts, lole.NewAggrGSum(colRef, val, &lole.LolePred{}))
		}
	}

	hashCol := lole.NewDCol(fmt.Sprintf("hash_%d", 0), "", lole.Hash)
	structName := t.newUniqueName("ht")
	t.declare(lole.NewTable(structName, append(append([]*lole.DCol{}, aggrCols...), hashCol), lole.HashTable, true, true, false))

	stmts = append(stmts, &lole.Done{})
	name := t.nextLolepopName(a.OpName(), "build")
	t.appendLolepop(lole.NewLolepop(name, stmts))

	flow := NewFlow()
	for i := range a.Aggregates {
		flow.Append(fmt.Sprintf("aggr_%d", i))
	}
	t.flow = flow
}

// visitGroupedAggr lowers the keyed hash-aggregation state machine. When
// reaggregation is true, the aggregates are already the re-aggregation
// pass's rewritten sum/sum (replacing the prior count with sum), and the
// resulting build/flush/read pipelines are all marked non-interesting,
// matching the original's morsel-local-then-global second pass.
//
// presetCountIdx carries the index (into the aggregates ultimately built
// below) of the column the read pipeline's validity check should gate on.
// Pass -1 for a top-level (non-reaggregation) call to have it derived from
// a.Aggregates; the recursive reaggregation call always passes the parent
// pass's resolved index through explicitly, since by the time a count
// aggregate reaches its own reaggregation pass it has been rewritten to
// "sum" (see visitReaggregation) and is no longer recognizable by name.
func (t *Translator) visitGroupedAggr(a *relalg.HashAggr, reaggregation bool, presetCountIdx int) {
	lp := &lole.LolePred{}
	et := NewExprTranslator(t.flow, lp)

	keyExprs := make([]lole.Expr, len(a.Keys))
	for i, k := range a.Keys {
		keyExprs[i] = et.Translate(k)
	}

	aggregates := a.Aggregates
	countColIdx := presetCountIdx
	if countColIdx < 0 {
		for i, ag := range aggregates {
			if fn, ok := ag.(*relalg.Fun); ok && fn.Name == "count" {
				countColIdx = i
				break
			}
		}
	}
	if countColIdx < 0 {
		// generate_aggregates (relalg_translator.cpp) unconditionally adds
		// a hidden count aggregate when the explicit list omits one: the
		// read pipeline below needs some column that reliably tells "bucket
		// was inserted into" apart from "bucket never touched this pass",
		// and a stored hash surviving flush/reaggregation is not that.
		aggregates = append(append([]relalg.Expr{}, aggregates...), relalg.NewFun("count"))
		countColIdx = len(aggregates) - 1
	}

	type aggrInfo struct {
		name    string
		fnName  string
		valExpr lole.Expr
	}
	aggrs := make([]aggrInfo, len(aggregates))
	for i, ag := range aggregates {
		fn, ok := ag.(*relalg.Fun)
		if !ok {
			panic(newPlanErrorf("HashAggr: aggregate entry %d must be a Fun, got %T", i, ag))
		}
		info := aggrInfo{name: fmt.Sprintf("aggr_%d", i), fnName: fn.Name}
		if fn.Name == "count" {
			for _, arg := range fn.Args {
				et.Translate(arg)
			}
		} else {
			if len(fn.Args) != 1 {
				panic(newPlanErrorf("HashAggr: aggregate %q expects one argument", fn.Name))
			}
			info.valExpr = et.Translate(fn.Args[0])
		}
		aggrs[i] = info
	}

	k := len(a.Keys)
	hashColName := fmt.Sprintf("hash_%d", k)

	keyCols := make([]*lole.DCol, k)
	for i := range keyCols {
		keyCols[i] = lole.NewDCol(fmt.Sprintf("key_%d", i), "", lole.Key)
	}
	aggrCols := make([]*lole.DCol, len(aggrs))
	for i, ag := range aggrs {
		aggrCols[i] = lole.NewDCol(ag.name, "", lole.Value)
	}
	hashCol := lole.NewDCol(hashColName, "", lole.Hash)

	allCols := append(append(append([]*lole.DCol{}, keyCols...), aggrCols...), hashCol)
	structName := t.newUniqueName("ht")
	structRef := lole.NewRef(structName)
	t.declare(lole.NewTable(structName, allCols, lole.HashTable, true, true, false))

	hashName := t.newUniqueName("bv_hash")
	missName := t.newUniqueName("bv_miss")
	bucketName := t.newUniqueName("bv_bucket")
	emptyName := t.newUniqueName("bv_empty")
	hitName := t.newUniqueName("bv_hit")
	equalName := t.newUniqueName("bv_equal")
	foundName := t.newUniqueName("bv_found")
	newPosName := t.newUniqueName("bv_newpos")
	canScatterName := t.newUniqueName("bv_canscatter")

	var body []lole.Stmt

	hashExpr := lole.NewFun("hash", lp, keyExprs[0])
	for _, ke := range keyExprs[1:] {
		hashExpr = lole.NewFun("rehash", lp, hashExpr, ke)
	}
	body = append(body, lole.NewAssign(hashName, hashExpr, lp))
	body = append(body, lole.NewAssign(missName, &lole.LolePred{}, lp))

	missRef := lole.NewRef(missName)

	var loopBody []lole.Stmt
	loopBody = append(loopBody,
		lole.NewAssign(bucketName, lole.NewFun("bucket_lookup", missRef, structRef, lole.NewRef(hashName)), missRef),
		lole.NewAssign(emptyName, lole.NewFun("eq", missRef, lole.NewRef(bucketName), lole.NewConst("0")), missRef),
		lole.NewAssign(hitName, lole.NewFun("selfalse", missRef, lole.NewRef(emptyName)), missRef),
		lole.NewAssign(missName, lole.NewFun("seltrue", missRef, lole.NewRef(emptyName)), missRef),
	)

	hitRef := lole.NewRef(hitName)
	var innerBody []lole.Stmt
	checkArgs := []lole.Expr{structRef, lole.NewRef(bucketName)}
	checkArgs = append(checkArgs, keyExprs...)
	innerBody = append(innerBody,
		lole.NewAssign(equalName, lole.NewFun("check", hitRef, checkArgs...), hitRef),
		lole.NewAssign(foundName, lole.NewFun("seltrue", hitRef, lole.NewRef(equalName)), hitRef),
	)
	foundRef := lole.NewRef(foundName)
	for _, ag := range aggrs {
		colRef := lole.NewRef(ag.name)
		groupID := lole.NewRef(bucketName)
		if ag.fnName == "count" {
			innerBody = append(innerBody, lole.NewAggrCount(colRef, groupID, lole.NewConst("1"), foundRef))
		} else {
			innerBody = append(innerBody, lole.NewAggrSum(colRef, groupID, ag.valExpr, foundRef))
		}
	}
	innerBody = append(innerBody,
		lole.NewAssign(hitName, lole.NewFun("selfalse", hitRef, lole.NewRef(equalName)), hitRef),
		lole.NewAssign(bucketName, lole.NewFun("bucket_next", hitRef, structRef, lole.NewRef(bucketName)), hitRef),
		lole.NewAssign(emptyName, lole.NewFun("eq", hitRef, lole.NewRef(bucketName), lole.NewConst("0")), hitRef),
		lole.NewAssign(missName, lole.NewFun("or", hitRef, missRef, lole.NewFun("seltrue", hitRef, lole.NewRef(emptyName))), hitRef),
		lole.NewAssign(hitName, lole.NewFun("selfalse", hitRef, lole.NewRef(emptyName)), hitRef),
	)
	loopBody = append(loopBody, lole.NewLoop(lole.NewRef(hitName), innerBody))

	loopBody = append(loopBody,
		lole.NewAssign(newPosName, lole.NewFun("bucket_insert", missRef, structRef, lole.NewRef(hashName)), missRef),
		lole.NewAssign(canScatterName, lole.NewFun("selfalse", missRef, lole.NewFun("eq", missRef, lole.NewRef(newPosName), lole.NewConst("0"))), missRef),
	)
	canScatterRef := lole.NewRef(canScatterName)
	for i, kc := range keyCols {
		loopBody = append(loopBody, lole.NewScatter(lole.NewRef(kc.Name), lole.NewRef(newPosName), keyExprs[i], canScatterRef))
	}
	loopBody = append(loopBody, lole.NewScatter(lole.NewRef(hashColName), lole.NewRef(newPosName), lole.NewRef(hashName), canScatterRef))

	body = append(body,
		&lole.MetaBeginFsmExclusive{},
		lole.NewLoop(lole.NewRef(missName), loopBody),
		&lole.MetaEndFsmExclusive{},
	)

	for _, deadName := range []string{hashName, missName, bucketName, emptyName, hitName, equalName, foundName, newPosName, canScatterName} {
		body = append(body, lole.NewMetaVarDead(deadName))
	}
	body = append(body, &lole.Done{})

	stage := "build"
	if reaggregation {
		stage = "reaggr_build"
	}
	buildName := t.nextLolepopName(a.OpName(), stage)
	t.appendLolepop(lole.NewLolepop(buildName, body))
	if reaggregation {
		t.markUninteresting()
	}
	t.closePipeline()

	flushStage := "flush"
	if reaggregation {
		flushStage = "reaggr_flush"
	}
	flushName := t.nextLolepopName(a.OpName(), flushStage)
	t.appendLolepop(lole.NewLolepop(flushName, []lole.Stmt{
		lole.NewEffect(lole.NewFun("bucket_flush", nil, structRef)),
		&lole.Done{},
	}))
	t.markUninteresting()
	t.closePipeline()

	readStage := "read"
	if reaggregation {
		readStage = "reaggr_read"
	}
	readName := t.nextLolepopName(a.OpName(), readStage)

	arg := &lole.LoleArg{}
	readFlow := NewFlow()
	for _, kc := range keyCols {
		readFlow.Append(kc.Name)
	}
	for _, ag := range aggrs {
		readFlow.Append(ag.name)
	}
	nCols := readFlow.Size()
	tuple := make([]lole.Expr, nCols)
	for i := 0; i < nCols; i++ {
		tuple[i] = lole.NewFun("gather", nil, lole.NewRef(readFlow.order[i]), arg)
	}

	// countColIdx is always resolved by now (explicit, or synthesized
	// above), so the read pipeline's validity predicate is unconditionally
	// "this bucket's count column is > 0", per §4.6.
	validity := lole.NewFun("gt", nil, lole.NewFun("gather", nil, lole.NewRef(aggrs[countColIdx].name), arg), lole.NewConst("0"))

	readBody := []lole.Stmt{
		&lole.MetaRefillInflow{},
		lole.NewEmit(lole.NewTupleAppend(tuple), validity),
	}
	outerLoop := lole.NewLoop(lole.NewRef("morsel_has_next"), []lole.Stmt{
		&lole.MetaRefillInflow{},
		lole.NewLoop(lole.NewRef("pos_has_next"), readBody),
	})
	t.appendLolepop(lole.NewLolepop(readName, []lole.Stmt{outerLoop}))
	if reaggregation {
		t.markUninteresting()
	}

	t.flow = readFlow

	if !reaggregation {
		t.visitReaggregation(a, aggregates, countColIdx, readFlow)
	}
}

// visitReaggregation synthesizes the morsel-local-then-global second
// HashAggr pass: same keys, aggregates rewritten to replace count with sum
// (sum stays sum) over the first pass's output columns, per §4.6's closing
// paragraph. aggregates is the first pass's resolved aggregate list
// (including any synthesized count), and countColIdx is carried through
// unchanged since it names the same column position in the second pass.
func (t *Translator) visitReaggregation(a *relalg.HashAggr, aggregates []relalg.Expr, countColIdx int, readFlow *Flow) {
	reKeys := make([]relalg.Expr, len(a.Keys))
	for i := range a.Keys {
		reKeys[i] = relalg.NewColId(readFlow.order[i])
	}
	reAggrs := make([]relalg.Expr, len(aggregates))
	for i := range aggregates {
		colName := readFlow.order[len(a.Keys)+i]
		reAggrs[i] = relalg.NewFun("sum", relalg.NewColId(colName))
	}

	reHashAggr := relalg.NewHashAggr(relalg.AggrHash, nil, reKeys, reAggrs)
	t.visitGroupedAggr(reHashAggr, true, countColIdx)
}
