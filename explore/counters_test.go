package explore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountersSnapshotReflectsIncrements(t *testing.T) {
	c := NewCounters(nil, "test")
	c.IncTries()
	c.IncTries()
	c.IncSuccess()
	c.IncGenerate()
	c.IncInvalid()
	c.IncInvalid()
	c.IncInvalid()

	tries, success, generate, invalid := c.Snapshot()
	assert.Equal(t, int64(2), tries)
	assert.Equal(t, int64(1), success)
	assert.Equal(t, int64(1), generate)
	assert.Equal(t, int64(3), invalid)
}

func TestCountersConcurrentIncrementsAreRaceFree(t *testing.T) {
	c := NewCounters(nil, "test")
	var wg sync.WaitGroup
	const n = 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncTries()
		}()
	}
	wg.Wait()

	tries, _, _, _ := c.Snapshot()
	assert.Equal(t, int64(n), tries)
}
