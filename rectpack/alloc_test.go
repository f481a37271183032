package rectpack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingAllocator 统计尚未归还的存储数量
type countingAllocator struct {
	HeapAllocator
	live, allocs int
}

func (a *countingAllocator) Alloc(n int) []FreeRect {
	a.live++
	a.allocs++
	return a.HeapAllocator.Alloc(n)
}

func (a *countingAllocator) Realloc(buf []FreeRect, n int) []FreeRect {
	a.allocs++
	return a.HeapAllocator.Realloc(buf, n)
}

func (a *countingAllocator) Free(buf []FreeRect) {
	a.live--
}

// shortAllocator 总是比请求的少分配一个
type shortAllocator struct{ HeapAllocator }

func (shortAllocator) Alloc(n int) []FreeRect { return make([]FreeRect, n-1) }

func TestFreeList_GrowsThroughAllocator(t *testing.T) {
	alloc := &countingAllocator{}
	l := newFreeList(alloc, &asserter{})

	for i := 0; i < 40; i++ {
		require.True(t, l.push(FreeRect{X: i, Width: 1, Height: 1}))
	}
	assert.Equal(t, 40, l.len())
	assert.Equal(t, 3, alloc.allocs, "16, 32, 64 个槽位")
	assert.Equal(t, 1, alloc.live)

	l.remove(0)
	assert.Equal(t, 1, l.items()[0].X)
	require.True(t, l.insert(0, FreeRect{X: -1}))
	assert.Equal(t, -1, l.items()[0].X)
	assert.Equal(t, 40, l.len())

	l.release()
	assert.Equal(t, 0, alloc.live)
	assert.Zero(t, l.len())
}

func TestPack_ReleasesStorage(t *testing.T) {
	for _, algo := range []Algorithm{Guillotine, Skyline} {
		t.Run(algo.String(), func(t *testing.T) {
			alloc := &countingAllocator{}
			cfg := DefaultConfig(128)
			cfg.Algorithm = algo
			cfg.Allocator = alloc

			result, err := Pack(cfg, randomSizes(11, 200, NewSize(1, 1), NewSize(30, 30)))
			require.NoError(t, err)
			assert.True(t, result.AllPacked)
			assert.Positive(t, alloc.allocs)
			assert.Zero(t, alloc.live)
		})
	}
}

func TestPoolAllocator_Concurrent(t *testing.T) {
	pool := &PoolAllocator{}
	sizes := randomSizes(5, 150, NewSize(2, 2), NewSize(40, 40))

	cfg := DefaultConfig(200)
	cfg.Allocator = HeapAllocator{}
	want, err := Pack(cfg, sizes)
	require.NoError(t, err)

	cfg.Allocator = pool
	var wg sync.WaitGroup
	results := make([]Result, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Pack(cfg, sizes)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i], "互相独立的箱子得到相同的结果")
	}
}

func TestAssert_ShortAllocationWithHook(t *testing.T) {
	var messages []string
	cfg := DefaultConfig(10)
	cfg.Allocator = shortAllocator{}
	cfg.Assert = func(msg string) { messages = append(messages, msg) }

	p, err := New(cfg)
	require.NoError(t, err, "第一次放置之前不分配存储")

	_, err = p.Pack([]Size{NewSize(2, 2)})
	var invariant *InvariantError
	require.ErrorAs(t, err, &invariant)
	assert.Len(t, messages, 1)

	_, err = p.Pack([]Size{NewSize(2, 2)})
	assert.ErrorAs(t, err, &invariant, "损坏的打包器一直保持损坏")
	assert.Len(t, messages, 1)
}

func TestAssert_ShortAllocationInNew(t *testing.T) {
	cfg := Config{Width: 10, Height: 10, Allocator: shortAllocator{}, Assert: func(string) {}}
	_, err := New(cfg)
	var invariant *InvariantError
	assert.ErrorAs(t, err, &invariant)
}

func TestAssert_PanicsWithoutHook(t *testing.T) {
	cfg := Config{Width: 10, Height: 10, Allocator: shortAllocator{}}
	assert.Panics(t, func() {
		_, _ = New(cfg)
	})
}
