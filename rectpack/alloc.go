package rectpack

import (
	"sync"
)

// Allocator 为空闲空间模型提供存储。
//
// Alloc 和 Realloc 必须返回长度至少为 n 的切片；Realloc 需要保留 buf 中
// 已有的内容。返回更短的切片被视为内部不变量失败。
type Allocator interface {
	Alloc(n int) []FreeRect
	Realloc(buf []FreeRect, n int) []FreeRect
	Free(buf []FreeRect)
}

// HeapAllocator 直接使用 Go 堆，Free 什么也不做
type HeapAllocator struct{}

func (HeapAllocator) Alloc(n int) []FreeRect {
	return make([]FreeRect, n)
}

func (HeapAllocator) Realloc(buf []FreeRect, n int) []FreeRect {
	out := make([]FreeRect, n)
	copy(out, buf)
	return out
}

func (HeapAllocator) Free([]FreeRect) {}

// PoolAllocator 在多个打包器之间复用已释放的存储。可以并发使用。
type PoolAllocator struct {
	pool sync.Pool
}

func (a *PoolAllocator) Alloc(n int) []FreeRect {
	if v, ok := a.pool.Get().(*[]FreeRect); ok && cap(*v) >= n {
		return (*v)[:n]
	}
	return make([]FreeRect, n)
}

func (a *PoolAllocator) Realloc(buf []FreeRect, n int) []FreeRect {
	out := a.Alloc(n)
	copy(out, buf)
	a.Free(buf)
	return out
}

func (a *PoolAllocator) Free(buf []FreeRect) {
	if cap(buf) == 0 {
		return
	}
	buf = buf[:0]
	a.pool.Put(&buf)
}

const minFreeListCap = 16

// freeList 是一个按下标寻址的可增长数组，存储由 Allocator 提供。
// buf 的长度就是当前容量，前 n 个元素有效。
type freeList struct {
	alloc Allocator
	check *asserter
	buf   []FreeRect
	n     int
}

func newFreeList(alloc Allocator, check *asserter) *freeList {
	if alloc == nil {
		alloc = HeapAllocator{}
	}
	return &freeList{alloc: alloc, check: check}
}

func (l *freeList) len() int {
	return l.n
}

// items 返回有效元素，切片只在下一次修改之前有效
func (l *freeList) items() []FreeRect {
	return l.buf[:l.n]
}

func (l *freeList) at(i int) *FreeRect {
	return &l.buf[i]
}

// reserve 确保容量至少为 n
func (l *freeList) reserve(n int) bool {
	if n <= len(l.buf) {
		return true
	}
	want := max(2*len(l.buf), n, minFreeListCap)
	var buf []FreeRect
	if l.buf == nil {
		buf = l.alloc.Alloc(want)
	} else {
		buf = l.alloc.Realloc(l.buf, want)
	}
	if !l.check.that(len(buf) >= want, "allocator returned %d slots, %d requested", len(buf), want) {
		return false
	}
	l.buf = buf
	return true
}

func (l *freeList) push(r FreeRect) bool {
	return l.insert(l.n, r)
}

func (l *freeList) insert(i int, r FreeRect) bool {
	if !l.reserve(l.n + 1) {
		return false
	}
	copy(l.buf[i+1:l.n+1], l.buf[i:l.n])
	l.buf[i] = r
	l.n++
	return true
}

func (l *freeList) remove(i int) {
	copy(l.buf[i:l.n-1], l.buf[i+1:l.n])
	l.n--
}

func (l *freeList) clear() {
	l.n = 0
}

// release 把存储归还给分配器
func (l *freeList) release() {
	if l.buf != nil {
		l.alloc.Free(l.buf)
	}
	l.buf = nil
	l.n = 0
}

// comparePosition 按 (y, x) 比较，这也是选择空闲矩形时的位置决胜顺序
func comparePosition(a, b FreeRect) int {
	if a.Y != b.Y {
		if a.Y < b.Y {
			return -1
		}
		return 1
	}
	if a.X < b.X {
		return -1
	}
	if a.X > b.X {
		return 1
	}
	return 0
}
