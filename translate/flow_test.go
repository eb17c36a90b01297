package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowAppendAndGet(t *testing.T) {
	f := NewFlow()
	assert.Equal(t, 0, f.Append("a"))
	assert.Equal(t, 1, f.Append("b"))

	slot, ok := f.Get("a")
	require.True(t, ok)
	assert.Equal(t, 0, slot)

	_, ok = f.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, f.Names())
	assert.Equal(t, 2, f.Size())
}

func TestFlowAppendRejectsDuplicateBinding(t *testing.T) {
	f := NewFlow()
	f.Append("a")

	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*PlanError)
		assert.True(t, ok)
	}()
	f.Append("a")
}
