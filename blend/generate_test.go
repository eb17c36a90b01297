package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGenerateOnlyBaseEnumeration is scenario 2 from SPEC_FULL.md §8: the
// OnlyBase domain restricts fsms!=1 entries to prefetch==0, while fsms==1
// entries are admitted at any prefetch.
func TestGenerateOnlyBaseEnumeration(t *testing.T) {
	cfgs := Generate(GenOnlyBase | GenNoCache)
	require.NotEmpty(t, cfgs)

	for _, c := range cfgs {
		if c.IsNull() {
			continue
		}
		if c.ConcurrentFsms != 1 {
			assert.Equalf(t, 0, c.Prefetch, "fsms=%d must be restricted to prefetch=0, got %+v", c.ConcurrentFsms, c)
		}
	}

	// fsms==1 must appear at more than one prefetch value.
	seenPrefetchForFsms1 := map[int]bool{}
	for _, c := range cfgs {
		if !c.IsNull() && c.ConcurrentFsms == 1 {
			seenPrefetchForFsms1[c.Prefetch] = true
		}
	}
	assert.Greater(t, len(seenPrefetchForFsms1), 1)
}

func TestGenerateBinaryPrefetchRestrictsToZeroAndOne(t *testing.T) {
	cfgs := Generate(GenBinaryPrefetch | GenNoCache)
	for _, c := range cfgs {
		if c.IsNull() {
			continue
		}
		assert.Contains(t, []int{0, 1}, c.Prefetch)
	}
}

func TestGenerateOnlyEssentialCompAndFsm(t *testing.T) {
	cfgs := Generate(GenOnlyEssentialComp | GenOnlyEssentialFsm | GenNoCache)
	for _, c := range cfgs {
		if c.IsNull() {
			continue
		}
		assert.LessOrEqual(t, c.ConcurrentFsms, 8)
		assert.Contains(t, []string{"scalar", "avx512", "vector(1024)"}, c.ComputationType)
	}
}

func TestGenerateCachesByFlags(t *testing.T) {
	a := Generate(GenDefault)
	b := Generate(GenDefault)
	require.Len(t, a, len(b))
	assert.Same(t, a[0], b[0])
}

func TestGenerateNoCacheBypassesCache(t *testing.T) {
	a := Generate(GenOnlyBase | GenNoCache)
	b := Generate(GenOnlyBase | GenNoCache)
	require.Equal(t, len(a), len(b))
	assert.NotSame(t, a[0], b[0])
}

func TestValidBaseToOther(t *testing.T) {
	base := NewConfig(4, "scalar", 0)
	same := NewConfig(4, "avx512", 2)
	diff := NewConfig(8, "scalar", 0)

	assert.True(t, ValidBaseToOther(base, same))
	assert.False(t, ValidBaseToOther(base, diff))
}
