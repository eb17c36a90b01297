package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voilalab/voila/lole"
)

func programWithBlendPoints() *lole.Program {
	blended := lole.NewBlendStmt([]lole.Stmt{lole.NewAssign("bv_0", lole.NewConst("1"), nil)}, nil)
	wrapped := lole.NewWrapStatements([]lole.Stmt{
		lole.NewBlendStmt([]lole.Stmt{lole.NewAssign("bv_1", lole.NewConst("1"), nil)}, nil),
	}, nil)
	loop := lole.NewLoop(lole.NewRef("cond"), []lole.Stmt{blended})

	lp := lole.NewLolepop("lole_1_Scan", []lole.Stmt{loop, wrapped})
	interesting := lole.NewPipeline([]*lole.Lolepop{lp}, true)

	plainLp := lole.NewLolepop("lole_2_Flush", []lole.Stmt{&lole.Done{}})
	plumbing := lole.NewPipeline([]*lole.Lolepop{plainLp}, false)

	return lole.NewProgram([]*lole.Pipeline{interesting, plumbing}, nil)
}

func TestCountBlendPointsRecursesIntoLoopsAndWraps(t *testing.T) {
	prog := programWithBlendPoints()
	assert.Equal(t, 2, pipelineBlendPoints(prog.Pipelines[0]))
	assert.Equal(t, 0, pipelineBlendPoints(prog.Pipelines[1]))
}

func TestBuildSpacePointSizesPerPipelineAndMarksUninteresting(t *testing.T) {
	prog := programWithBlendPoints()

	sp, err := buildSpacePoint(prog, nil, false)
	require.NoError(t, err)
	require.Len(t, sp.Pipelines, 2)

	assert.False(t, sp.Pipelines[0].Ignore)
	assert.Len(t, sp.Pipelines[0].PointFlavors, 2)

	assert.True(t, sp.Pipelines[1].Ignore)
	assert.Len(t, sp.Pipelines[1].PointFlavors, 0)
}

func TestBuildSpacePointOnlyInterestingRequiresAnnotation(t *testing.T) {
	prog := programWithBlendPoints()

	_, err := buildSpacePoint(prog, nil, true)
	assert.ErrorIs(t, err, ErrNoPipelinePrices)

	sp, err := buildSpacePoint(prog, map[int]int{0: 100}, true)
	require.NoError(t, err)
	assert.False(t, sp.Pipelines[0].Ignore)
	assert.True(t, sp.Pipelines[1].Ignore)
}
