package blend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSpacePointDefaultsToFirstOnlyBaseFlavor(t *testing.T) {
	sp := NewSpacePoint()
	require.NotNil(t, sp.DefaultFlavor)
	assert.Same(t, Generate(GenOnlyBase)[0], sp.DefaultFlavor)
}

func TestSpacePointIsValidAlwaysTrue(t *testing.T) {
	sp := NewSpacePoint()
	assert.True(t, sp.IsValid())
	sp.Pipelines = append(sp.Pipelines, &Pipeline{Ignore: true})
	assert.True(t, sp.IsValid())
}

func TestPipelineEqual(t *testing.T) {
	a := &Pipeline{Flavor: NewConfig(2, "scalar", 0), PointFlavors: []*Config{NewConfig(2, "scalar", 0)}}
	b := &Pipeline{Flavor: NewConfig(2, "scalar", 0), PointFlavors: []*Config{NewConfig(2, "scalar", 0)}}
	c := &Pipeline{Flavor: NewConfig(2, "scalar", 1), PointFlavors: []*Config{NewConfig(2, "scalar", 0)}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestSpacePointString(t *testing.T) {
	sp := &SpacePoint{DefaultFlavor: NewConfig(2, "scalar", 0)}
	sp.Pipelines = append(sp.Pipelines,
		&Pipeline{Ignore: true, Flavor: NewConfig(2, "scalar", 0)},
		&Pipeline{Flavor: NewConfig(4, "avx512", 1), PointFlavors: []*Config{NewConfig(4, "scalar", 0)}},
	)

	s := sp.String()
	assert.Contains(t, s, `"default" : "concurrent_fsms=2,computation_type=scalar,prefetch=0"`)
	assert.NotContains(t, s, `"0" : {`) // ignored pipeline 0 must not be rendered
	assert.Contains(t, s, `"1" : {`)
	assert.True(t, strings.Contains(s, `"flavor" : "concurrent_fsms=4,computation_type=avx512,prefetch=1"`))
}
