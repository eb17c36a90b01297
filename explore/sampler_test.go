package explore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voilalab/voila/blend"
)

func TestNewLevelConfigBindsGeneratorFlagsPerLevel(t *testing.T) {
	limited := blend.GenBinaryPrefetch | blend.GenOnlyEssentialComp | blend.GenOnlyEssentialFsm

	lc0, err := newLevelConfig(0)
	require.NoError(t, err)
	assert.Equal(t, limited, lc0.flags)
	assert.False(t, lc0.blendPerPipeline)
	assert.True(t, lc0.onlyInteresting)

	lc1, err := newLevelConfig(1)
	require.NoError(t, err)
	assert.Equal(t, limited, lc1.flags)
	assert.True(t, lc1.blendPerPipeline)
	assert.True(t, lc1.onlyInteresting)

	lc3, err := newLevelConfig(3)
	require.NoError(t, err)
	assert.Equal(t, blend.GenDefault, lc3.flags)
	assert.True(t, lc3.blendPerPipeline)
	assert.True(t, lc3.onlyInteresting)

	lc4, err := newLevelConfig(4)
	require.NoError(t, err)
	assert.Equal(t, blend.GenDefault, lc4.flags)
	assert.True(t, lc4.blendPerPipeline)
	assert.False(t, lc4.onlyInteresting)

	_, err = newLevelConfig(5)
	assert.Error(t, err)
}

func TestLevelOnlyInteresting(t *testing.T) {
	oi, err := LevelOnlyInteresting(2)
	require.NoError(t, err)
	assert.True(t, oi)

	oi, err = LevelOnlyInteresting(4)
	require.NoError(t, err)
	assert.False(t, oi)

	_, err = LevelOnlyInteresting(99)
	assert.Error(t, err)
}

// TestSamplerGeneratePointIsDeterministicForFixedSeed is scenario 6 from
// SPEC_FULL.md §8: a fixed seed reproduces the exact same sequence of
// sampled SpacePoints.
func TestSamplerGeneratePointIsDeterministicForFixedSeed(t *testing.T) {
	prog := programWithBlendPoints()
	tmpl, err := buildSpacePoint(prog, nil, false)
	require.NoError(t, err)

	const seed = 42

	s1 := newSampler(seed, blend.GenDefault)
	s2 := newSampler(seed, blend.GenDefault)

	for i := 0; i < 20; i++ {
		p1 := s1.generatePoint(tmpl, true, false)
		p2 := s2.generatePoint(tmpl, true, false)
		require.True(t, p1.Equal(p2), "iteration %d: points diverged under the same seed", i)
	}
}

func TestSamplerGeneratePointSkipsIgnoredPipelinesUnderOnlyInteresting(t *testing.T) {
	prog := programWithBlendPoints()
	tmpl, err := buildSpacePoint(prog, map[int]int{0: 100}, true)
	require.NoError(t, err)
	require.True(t, tmpl.Pipelines[1].Ignore)

	s := newSampler(7, blend.GenDefault)
	sp := s.generatePoint(tmpl, false, true)

	for _, f := range sp.Pipelines[1].PointFlavors {
		assert.Nil(t, f)
	}
	for _, f := range sp.Pipelines[0].PointFlavors {
		assert.NotNil(t, f)
	}
}

func TestSamplerRandomFlavorRespectsBaseValidity(t *testing.T) {
	s := newSampler(1, blend.GenDefault)
	base := blend.NewConfig(4, "scalar", 0)
	for i := 0; i < 50; i++ {
		f := s.randomFlavor(base)
		assert.True(t, blend.ValidBaseToOther(base, f))
	}
}
