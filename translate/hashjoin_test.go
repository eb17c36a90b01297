package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voilalab/voila/lole"
	"github.com/voilalab/voila/relalg"
)

func buildSimpleJoin(variant relalg.JoinVariant) relalg.Op {
	probe := relalg.NewScan("probe", "p_key", "p_val")
	build := relalg.NewScan("build", "b_key", "b_val")
	return relalg.NewHashJoin(variant,
		probe, []relalg.Expr{relalg.NewColId("probe.p_key")}, []relalg.Expr{relalg.NewColId("probe.p_val")},
		build, []relalg.Expr{relalg.NewColId("build.b_key")}, []relalg.Expr{relalg.NewColId("build.b_val")},
	)
}

// probeLoopBody finds the probe lolepop's match loop body, the structure
// shared by both the key-substitution check (below) and the Join01-vs-JoinN
// chain-advance check.
func probeLoopBody(t *testing.T, prog *lole.Program) []lole.Stmt {
	t.Helper()
	last := prog.Pipelines[len(prog.Pipelines)-1]
	probeLp := last.Lolepops[len(last.Lolepops)-1]
	for _, s := range probeLp.Body {
		if loop, ok := s.(*lole.Loop); ok {
			return loop.Body
		}
	}
	t.Fatal("no match loop found in probe lolepop")
	return nil
}

// TestHashJoinProbeSubstitutesKeyInsteadOfGathering is the resolved Open
// Question test (DESIGN.md): a matched row's right-key output column is the
// already-known probe-side key expression, not a gather from the build
// side's stored key column.
func TestHashJoinProbeSubstitutesKeyInsteadOfGathering(t *testing.T) {
	prog, err := Translate(buildSimpleJoin(relalg.Join01), Options{})
	require.NoError(t, err)

	loopBody := probeLoopBody(t, prog)

	var emit *lole.Emit
	for _, s := range loopBody {
		if e, ok := s.(*lole.Emit); ok {
			emit = e
			break
		}
	}
	require.NotNil(t, emit)

	tuple, ok := emit.Tuple.(*lole.TupleAppend)
	require.True(t, ok)

	// probeTuple(2) + key(1) + payload(1)
	require.Len(t, tuple.Exprs, 4)

	keyExpr := tuple.Exprs[2]
	_, isTupleGet := keyExpr.(*lole.TupleGet)
	assert.True(t, isTupleGet, "expected the right-key output to be the probe-side TupleGet, got %T", keyExpr)

	paylExpr := tuple.Exprs[3]
	fn, isFun := paylExpr.(*lole.Fun)
	require.True(t, isFun)
	assert.Equal(t, "gather", fn.Name)
}

// TestHashJoinJoin01StopsChainAfterFirstMatch is scenario 5 from
// SPEC_FULL.md §8: Join01's probe loop clears the active mask on a match
// (ending the bucket-chain walk after one hit) in addition to the
// bucket-exhausted check both variants share; JoinN has no such early exit.
func TestHashJoinJoin01StopsChainAfterFirstMatch(t *testing.T) {
	prog01, err := Translate(buildSimpleJoin(relalg.Join01), Options{})
	require.NoError(t, err)
	progN, err := Translate(buildSimpleJoin(relalg.JoinN), Options{})
	require.NoError(t, err)

	loop01 := probeLoopBody(t, prog01)
	loopN := probeLoopBody(t, progN)

	assert.Equal(t, len(loopN)+1, len(loop01),
		"Join01's loop body should have exactly one extra statement (the match-clears-active assign) over JoinN's")
}
