package translate

import (
	"fmt"

	"github.com/voilalab/voila/lole"
	"github.com/voilalab/voila/relalg"
)

// visitHashJoin lowers a HashJoin into three pipelines — materialize, build,
// probe — per C5 §4.7. Unlike the other operators, HashJoin drives both of
// its children itself (materialize visits Right, probe visits Left) rather
// than relying on the common visit() pre-order-children convention, since
// each side produces an independent flow feeding a different pipeline.
func (t *Translator) visitHashJoin(j *relalg.HashJoin) {
	t.flow = NewFlow()
	t.visit(j.Right)
	rightFlow := t.flow

	lp := &lole.LolePred{}
	et := NewExprTranslator(rightFlow, lp)

	rightKeyExprs := make([]lole.Expr, len(j.RightKeys))
	for i, k := range j.RightKeys {
		rightKeyExprs[i] = et.Translate(k)
	}
	rightPaylExprs := make([]lole.Expr, len(j.RightPayl))
	for i, p := range j.RightPayl {
		rightPaylExprs[i] = et.Translate(p)
	}

	nKeys := len(rightKeyExprs)
	nPayl := len(rightPaylExprs)
	hashColName := fmt.Sprintf("hash_%d", nKeys+nPayl)

	cols := make([]*lole.DCol, 0, nKeys+nPayl+1)
	for i := 0; i < nKeys; i++ {
		cols = append(cols, lole.NewDCol(fmt.Sprintf("col_%d", i), "", lole.Key))
	}
	for i := 0; i < nPayl; i++ {
		cols = append(cols, lole.NewDCol(fmt.Sprintf("col_%d", nKeys+i), "", lole.Value))
	}
	cols = append(cols, lole.NewDCol(hashColName, "", lole.Hash))

	structName := t.newUniqueName("ht")
	structRef := lole.NewRef(structName)
	t.declare(lole.NewTable(structName, cols, lole.HashTable, true, true, true))

	wposName := t.newUniqueName("bv_wpos")
	hashName := t.newUniqueName("bv_hash")

	var matBody []lole.Stmt
	matBody = append(matBody, lole.NewAssign(wposName, lole.NewFun("write_pos", lp, structRef, lole.NewFun("any_active", lp)), lp))

	hashExpr := lole.NewFun("hash", lp, rightKeyExprs[0])
	for _, ke := range rightKeyExprs[1:] {
		hashExpr = lole.NewFun("rehash", lp, hashExpr, ke)
	}
	matBody = append(matBody, lole.NewAssign(hashName, hashExpr, lp))

	var writes []lole.Stmt
	allVals := append(append([]lole.Expr{}, rightKeyExprs...), rightPaylExprs...)
	for i, v := range allVals {
		writes = append(writes, lole.NewWrite(lole.NewRef(cols[i].Name), lole.NewRef(wposName), v, lp))
	}
	writes = append(writes, lole.NewWrite(lole.NewRef(hashColName), lole.NewRef(wposName), lole.NewRef(hashName), lp))

	matBody = append(matBody, t.maybeBlendWrap(writes, lp))

	matName := t.nextLolepopName(j.OpName(), "materialize")
	t.appendLolepop(lole.NewLolepop(matName, matBody))
	t.closePipeline()

	buildName := t.nextLolepopName(j.OpName(), "build")
	t.appendLolepop(lole.NewLolepop(buildName, []lole.Stmt{
		lole.NewEffect(lole.NewFun("bucket_build", nil, structRef)),
		&lole.Done{},
	}))
	t.markUninteresting()
	t.closePipeline()

	t.flow = NewFlow()
	t.visit(j.Left)
	leftFlow := t.flow

	t.lowerProbe(j, leftFlow, structRef, cols, nKeys, nPayl)
}

// lowerProbe lowers the probe pipeline: hash the left (probe) side keys,
// walk the build side's bucket chain, and for each match reconstruct the
// right-side columns (substituting the already-known probe-side expression
// for right-key slots instead of gathering — see DESIGN.md's Open Question
// on this), applying the Join01 single-match optimization when requested.
func (t *Translator) lowerProbe(j *relalg.HashJoin, leftFlow *Flow, structRef *lole.Ref, cols []*lole.DCol, nKeys, nPayl int) {
	lp := &lole.LolePred{}
	et := NewExprTranslator(leftFlow, lp)

	leftKeyExprs := make([]lole.Expr, len(j.LeftKeys))
	for i, k := range j.LeftKeys {
		leftKeyExprs[i] = et.Translate(k)
	}

	arg := et.Arg()
	if arg == nil {
		arg = &lole.LoleArg{}
	}
	probeTuple := make([]lole.Expr, leftFlow.Size())
	for i := range probeTuple {
		probeTuple[i] = lole.NewTupleGet(arg, i)
	}

	hashName := t.newUniqueName("bv_hash")
	bucketName := t.newUniqueName("bv_bucket")
	activeName := t.newUniqueName("bv_active")
	matchName := t.newUniqueName("bv_match")
	hitName := t.newUniqueName("bv_hit")

	var body []lole.Stmt
	hashExpr := lole.NewFun("hash", lp, leftKeyExprs[0])
	for _, ke := range leftKeyExprs[1:] {
		hashExpr = lole.NewFun("rehash", lp, hashExpr, ke)
	}
	body = append(body, lole.NewAssign(hashName, hashExpr, lp))
	body = append(body, lole.NewAssign(bucketName, lole.NewFun("bucket_lookup", lp, structRef, lole.NewRef(hashName)), lp))
	body = append(body, lole.NewAssign(activeName, lole.NewFun("selfalse", lp, lole.NewFun("eq", lp, lole.NewConst("0"), lole.NewRef(bucketName))), lp))

	activeRef := lole.NewRef(activeName)
	bucketRef := lole.NewRef(bucketName)

	var checkArgs []lole.Expr
	for i := 0; i < nKeys; i++ {
		checkArgs = append(checkArgs, lole.NewRef(cols[i].Name), bucketRef, leftKeyExprs[i])
	}
	checkKeys := lole.NewFun("check", activeRef, checkArgs...)

	var loopBody []lole.Stmt
	var matchStmts []lole.Stmt
	matchStmts = append(matchStmts, lole.NewAssign(matchName, checkKeys, activeRef))
	loopBody = append(loopBody, t.maybeBlendWrapKeyed(matchStmts, activeRef))
	matchRef := lole.NewRef(matchName)
	loopBody = append(loopBody, lole.NewAssign(hitName, lole.NewFun("seltrue", activeRef, matchRef), activeRef))
	hitRef := lole.NewRef(hitName)

	outCols := make([]lole.Expr, 0, leftFlow.Size()+nKeys+nPayl)
	outCols = append(outCols, probeTuple...)

	if t.allBlends {
		var bvNames []string
		var gatherBody []lole.Stmt
		for i := 0; i < nKeys; i++ {
			bv := t.newUniqueName("bv")
			bvNames = append(bvNames, bv)
			gatherBody = append(gatherBody, lole.NewAssign(bv, leftKeyExprs[i], hitRef))
		}
		for i := 0; i < nPayl; i++ {
			bv := t.newUniqueName("bv")
			bvNames = append(bvNames, bv)
			gatherBody = append(gatherBody, lole.NewAssign(bv, lole.NewFun("gather", hitRef, lole.NewRef(cols[nKeys+i].Name), bucketRef), hitRef))
		}
		loopBody = append(loopBody, lole.NewBlendStmt(gatherBody, hitRef))
		for _, bv := range bvNames {
			outCols = append(outCols, lole.NewRef(bv))
		}
		for _, bv := range bvNames {
			loopBody = append(loopBody, lole.NewMetaVarDead(bv))
		}
	} else {
		for i := 0; i < nKeys; i++ {
			outCols = append(outCols, leftKeyExprs[i])
		}
		for i := 0; i < nPayl; i++ {
			outCols = append(outCols, lole.NewFun("gather", hitRef, lole.NewRef(cols[nKeys+i].Name), bucketRef))
		}
	}

	loopBody = append(loopBody, lole.NewEmit(lole.NewTupleAppend(outCols), hitRef))
	loopBody = append(loopBody, lole.NewMetaVarDead(matchName), lole.NewMetaVarDead(hitName))

	var chainPred lole.Expr
	if j.Variant == relalg.Join01 {
		loopBody = append(loopBody, lole.NewAssign(activeName, lole.NewFun("selfalse", activeRef, matchRef), activeRef))
		chainPred = activeRef
	} else {
		chainPred = activeRef
	}

	loopBody = append(loopBody,
		lole.NewAssign(bucketName, lole.NewFun("bucket_next", chainPred, structRef, bucketRef), chainPred),
		lole.NewAssign(activeName, lole.NewFun("selfalse", chainPred, lole.NewFun("eq", chainPred, bucketRef, lole.NewConst("0"))), chainPred),
	)

	body = append(body, lole.NewLoop(lole.NewRef(activeName), loopBody))
	body = append(body, lole.NewMetaVarDead(activeName), lole.NewMetaVarDead(bucketName))

	name := t.nextLolepopName(j.OpName(), "probe")
	t.appendLolepop(lole.NewLolepop(name, body))

	outFlow := NewFlow()
	for _, n := range leftFlow.Names() {
		outFlow.Append(n)
	}
	rightCols := append(append([]relalg.Expr{}, j.RightKeys...), j.RightPayl...)
	for i := 0; i < nKeys+nPayl; i++ {
		name := cols[i].Name
		if c, ok := rightCols[i].(*relalg.ColId); ok {
			name = c.Name
		}
		outFlow.Append(name)
	}
	t.flow = outFlow
}

// maybeBlendWrapKeyed wraps the key-check statements exactly as
// maybeBlendWrap does: in a BlendStmt when all-blends mode is on, in a
// plain WrapStatements otherwise. The BlendStmt carries no key-check
// specific flavor override (its Blend field stays nil).
func (t *Translator) maybeBlendWrapKeyed(body []lole.Stmt, pred lole.Expr) lole.Stmt {
	if t.allBlends {
		return lole.NewBlendStmt(body, pred)
	}
	return lole.NewWrapStatements(body, pred)
}
