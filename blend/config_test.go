package blend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigShortcutsAndNull(t *testing.T) {
	for _, s := range []string{"", "NULL", "null"} {
		c, err := ParseConfig(s)
		require.NoError(t, err)
		assert.True(t, c.IsNull())
		assert.Equal(t, "NULL", c.String())
	}

	hyper, err := ParseConfig("hyper")
	require.NoError(t, err)
	assert.False(t, hyper.IsNull())
	assert.Equal(t, kScalar, hyper.ComputationType)
	assert.False(t, hyper.IsVectorized())

	x100, err := ParseConfig("x100")
	require.NoError(t, err)
	assert.True(t, x100.IsVectorized())
}

func TestParseConfigKeyValue(t *testing.T) {
	c, err := ParseConfig("concurrent_fsms=8,computation_type=vector(512),prefetch=2")
	require.NoError(t, err)
	assert.Equal(t, 8, c.ConcurrentFsms)
	assert.Equal(t, "vector(512)", c.ComputationType)
	assert.Equal(t, 2, c.Prefetch)
	assert.True(t, c.IsVectorized())
}

func TestParseConfigRoundTrip(t *testing.T) {
	orig := NewConfig(4, "avx512", 1)
	parsed, err := ParseConfig(orig.String())
	require.NoError(t, err)
	assert.True(t, orig.Equal(parsed))
}

func TestParseConfigRejectsUnknownKeyAndBadRange(t *testing.T) {
	_, err := ParseConfig("frobnicate=1")
	assert.Error(t, err)

	_, err = ParseConfig("prefetch=9")
	assert.Error(t, err)

	_, err = ParseConfig("malformed")
	assert.Error(t, err)
}

func TestConfigEqualAndHash(t *testing.T) {
	a := NewConfig(2, "scalar", 0)
	b := NewConfig(2, "scalar", 0)
	c := NewConfig(2, "scalar", 1)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))

	var nilA, nilB *Config
	assert.True(t, nilA.Equal(nilB))
	assert.False(t, a.Equal(nil))
}
