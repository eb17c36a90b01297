package explore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voilalab/voila/blend"
	"github.com/voilalab/voila/codegen"
	"github.com/voilalab/voila/translate"
	"github.com/voilalab/voila/tpch"
)

func TestListBaseMatchesBlendGenerateOnlyBase(t *testing.T) {
	assert.Equal(t, blend.Generate(blend.GenOnlyBase), ListBase())
}

func TestMostExpensivePipelineIDsOrdersByWeightDescendingThenIndex(t *testing.T) {
	weights := map[int]int{0: 30, 2: 70, 4: 70, 5: 10}
	ids := mostExpensivePipelineIDs(weights, 2)
	assert.Equal(t, []int{2, 4}, ids)
}

func TestMostExpensivePipelineIDsReturnsAllWhenKExceedsCount(t *testing.T) {
	weights := map[int]int{0: 1, 1: 2, 2: 3}
	ids := mostExpensivePipelineIDs(weights, 10)
	assert.Len(t, ids, 3)
}

func TestSummaryStringFormat(t *testing.T) {
	s := Summary{SampleNum: 0, Tries: 10, Success: 8, Generate: 9, Invalid: 1}
	out := s.String()
	assert.Contains(t, out, "=== Summary ==")
	assert.Contains(t, out, "Sampling:         none")
	assert.Contains(t, out, "Space Tested:     10")
	assert.Contains(t, out, "Space Ran:        8")
	assert.Contains(t, out, "Space Compiled:   9")
	assert.Contains(t, out, "Space Invalid:    1")

	sampled := Summary{SampleNum: 5}
	assert.Contains(t, sampled.String(), "Sampling:         5")
}

func newTestDriver(t *testing.T) *Driver {
	t.Helper()
	q6, err := tpch.Q6()
	require.NoError(t, err)
	prog, err := translate.Translate(q6.Plan, translate.Options{})
	require.NoError(t, err)

	d := NewDriver(prog, q6.ExpensivePipelines, codegen.NewSourceDumper(), nil, t.TempDir())
	d.Dry = true
	return d
}

func TestDriverRunOnlyBaseDryRunSucceedsForEveryBaseFlavor(t *testing.T) {
	d := newTestDriver(t)

	require.NoError(t, d.RunOnlyBase(context.Background()))

	tries, success, generate, invalid := d.Counters.Snapshot()
	expected := int64(len(blend.Generate(blend.GenOnlyBase)))
	assert.Equal(t, expected, tries)
	assert.Equal(t, expected, success)
	assert.Equal(t, expected, generate)
	assert.Equal(t, int64(0), invalid)
}

func TestDriverDiscoverPointsRequiresAnnotationUnderOnlyInteresting(t *testing.T) {
	d := newTestDriver(t)
	d.CostWeights = nil

	_, err := d.DiscoverPoints(true)
	assert.ErrorIs(t, err, ErrNoPipelinePrices)

	pc, err := d.DiscoverPoints(false)
	require.NoError(t, err)
	assert.NotEmpty(t, pc.Pipelines)
}

func TestDriverRunExploreAllStopsAtSampleNum(t *testing.T) {
	d := newTestDriver(t)

	summary, err := d.RunExploreAll(context.Background(), ExploreAllOptions{
		Level:          2,
		SampleNum:      5,
		Seed:           1,
		CompileThreads: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), summary.Tries)
	assert.Equal(t, int64(5), summary.SampleNum)
}

func TestAcquireLockIsExclusive(t *testing.T) {
	path := t.TempDir() + "/explorer.lock"

	release, err := AcquireLock(context.Background(), path)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = AcquireLock(ctx, path)
	assert.Error(t, err)
}
