package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool_Defaults(t *testing.T) {
	p := NewWorkerPool(0)
	defer p.Close()

	assert.Greater(t, p.Workers(), 0)
	assert.True(t, p.IsRunning())
}

func TestExecuteAll_RunsEverything(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var counter atomic.Int64
	work := make([]func(), 100)
	for i := range work {
		work[i] = func() { counter.Add(1) }
	}

	p.ExecuteAll(work)
	assert.EqualValues(t, 100, counter.Load())
}

func TestForRows_CoversEveryRowOnce(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	const height = 237
	var mu sync.Mutex
	seen := make([]int, height)

	p.ForRows(height, func(y0, y1 int) {
		require.LessOrEqual(t, y0, y1)
		mu.Lock()
		for y := y0; y < y1; y++ {
			seen[y]++
		}
		mu.Unlock()
	})

	for y, n := range seen {
		assert.Equal(t, 1, n, "row %d visited %d times", y, n)
	}
}

func TestForRows_SmallHeights(t *testing.T) {
	p := NewWorkerPool(4)
	defer p.Close()

	var counter atomic.Int64
	p.ForRows(1, func(y0, y1 int) {
		counter.Add(int64(y1 - y0))
	})
	assert.EqualValues(t, 1, counter.Load())

	p.ForRows(0, func(y0, y1 int) { t.Error("must not be called for zero height") })
	p.ForRows(-3, func(y0, y1 int) { t.Error("must not be called for negative height") })
}

func TestForRows_ClosedPoolRunsInline(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()

	ran := false
	p.ForRows(10, func(y0, y1 int) {
		ran = true
		assert.Equal(t, 0, y0)
		assert.Equal(t, 10, y1)
	})
	assert.True(t, ran)
}

func TestClose_Idempotent(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()
	p.Close()
	assert.False(t, p.IsRunning())
}

func TestExecuteAll_AfterCloseIsNoop(t *testing.T) {
	p := NewWorkerPool(2)
	p.Close()

	var counter atomic.Int64
	p.ExecuteAll([]func(){func() { counter.Add(1) }})
	assert.Zero(t, counter.Load())
}
