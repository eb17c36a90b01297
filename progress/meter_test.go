package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowAverage(t *testing.T) {
	var w window
	assert.Equal(t, 0.0, w.avg())

	w.add(1)
	w.add(2)
	w.add(3)
	assert.InDelta(t, 2.0, w.avg(), 1e-9)
	assert.False(t, w.full())

	w.add(4)
	assert.True(t, w.full())
	assert.InDelta(t, 2.5, w.avg(), 1e-9)

	// A fifth add evicts the oldest (1), averaging 2,3,4,5.
	w.add(5)
	assert.InDelta(t, 3.5, w.avg(), 1e-9)
}

func TestNewMeterDefaultsToLogOutputWhenNil(t *testing.T) {
	m := NewMeter(100, nil)
	require.NotNil(t, m.Output)
}

func TestMeterTickDoesNotPanicOnFirstTicks(t *testing.T) {
	var reports int
	m := NewMeter(10, func(progress, secToFinish float64) {
		reports++
		assert.GreaterOrEqual(t, progress, 0.0)
		assert.LessOrEqual(t, progress, 1.0)
	})

	for i := 0; i < 10; i++ {
		m.Tick()
	}
	// no panic, regardless of whether a report threshold was crossed
}
