package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(100), counter)
}

func TestForRange_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 3}

	n := 50
	seen := make([]int32, n)
	var mu sync.Mutex
	var chunks [][2]int

	ForRange(n, func(start, end int) {
		mu.Lock()
		chunks = append(chunks, [2]int{start, end})
		mu.Unlock()
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	}, cfg)

	for i, c := range seen {
		assert.Equal(t, int32(1), c, "index %d", i)
	}
	assert.Greater(t, len(chunks), 1, "expected work to be split")
}

func TestForRange_SmallWorkRunsInline(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}

	calls := 0
	ForRange(10, func(start, end int) {
		calls++
		assert.Equal(t, 0, start)
		assert.Equal(t, 10, end)
	}, cfg)

	assert.Equal(t, 1, calls)
}

func TestForRange_WorkerPanicReachesCaller(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 2}

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		ForRange(40, func(start, _ int) {
			if start == 0 {
				panic("bad chunk")
			}
		}, cfg)
	}()

	err, ok := recovered.(error)
	require.True(t, ok, "expected an error panic, got %v", recovered)
	assert.Contains(t, err.Error(), "bad chunk")
	assert.Contains(t, err.Error(), "chunk [0, ")
}

func TestForRange_Empty(t *testing.T) {
	ForRange(0, func(_, _ int) {
		t.Fatal("should not be called")
	}, DefaultConfig())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Positive(t, cfg.NumWorkers)
	assert.Equal(t, cfg.NumWorkers > 1, cfg.Enabled)
}

func TestFeatures(t *testing.T) {
	assert.NotEmpty(t, Features())
}
