package rectpack

import (
	"math"
	"slices"
)

// guillotinePack 维护一组互不重叠的空闲矩形，按 (y, x) 排序，
// 与已放置的矩形一起恰好铺满整个箱子。
type guillotinePack struct {
	algorithmBase
}

func newGuillotine(cfg *Config, check *asserter) *guillotinePack {
	p := &guillotinePack{algorithmBase: newAlgorithmBase(cfg, check)}
	p.reset(cfg.Height)
	return p
}

func (p *guillotinePack) reset(height int) {
	p.curH = height
	p.usedArea = 0
	p.free.clear()
	if height > 0 {
		p.free.push(FreeRect{X: 0, Y: 0, Width: p.width, Height: height})
	}
}

func (p *guillotinePack) insert(w, h int) (Point, bool) {
	index := p.findPosition(w, h)
	if index < 0 {
		if !p.grow(w, h) {
			return Point{}, false
		}
		index = p.findPosition(w, h)
		if !p.check.that(index >= 0, "no free rect fits %dx%d after growing to height %d", w, h, p.curH) {
			return Point{}, false
		}
	}
	freeRect := *p.free.at(index)
	placed := FreeRect{X: freeRect.X, Y: freeRect.Y, Width: w, Height: h}
	p.free.remove(index)
	if !p.splitByHeuristic(freeRect, placed) {
		return Point{}, false
	}
	p.usedArea += w * h
	return Point{X: placed.X, Y: placed.Y}, true
}

// findPosition 返回最合适的空闲矩形下标，没有能容纳 w×h 的空闲矩形时返回 -1。
// 列表按 (y, x) 排序，只接受严格更好的分数，所以分数相同时选择最靠上、最靠左的。
func (p *guillotinePack) findPosition(w, h int) int {
	bestIndex := -1
	bestScore1, bestScore2 := math.MaxInt, math.MaxInt
	for i, freeRect := range p.free.items() {
		if w > freeRect.Width || h > freeRect.Height {
			continue
		}
		score1, score2 := p.cfg.Heuristic.fitScore(w, h, freeRect)
		if score1 < bestScore1 || (score1 == bestScore1 && score2 < bestScore2) {
			bestIndex = i
			bestScore1 = score1
			bestScore2 = score2
		}
	}
	return bestIndex
}

// grow 以最小的增量增加箱子高度，使 w×h 能被放下。
// 优先延伸一个贴着底边、足够宽的空闲矩形；否则在底部新开一整条。
func (p *guillotinePack) grow(w, h int) bool {
	bestIndex, delta := -1, h
	for i, freeRect := range p.free.items() {
		if freeRect.bottom() != p.curH || freeRect.Width < w {
			continue
		}
		if d := freeRect.Y + h - p.curH; d < delta {
			bestIndex, delta = i, d
		}
	}
	if delta > p.limit()-p.curH {
		return false
	}

	oldH := p.curH
	p.curH += delta
	Logger().Debug("rectpack: bin grown", "from", oldH, "to", p.curH, "request", Size{Width: w, Height: h})

	if bestIndex < 0 {
		return p.addFreeRect(FreeRect{X: 0, Y: oldH, Width: p.width, Height: delta})
	}

	// 新增的底条中，被延伸矩形覆盖之外的部分作为新的空闲矩形。
	// 延伸不改变矩形的 (y, x)，列表仍然有序
	extended := p.free.at(bestIndex)
	extended.Height += delta
	left, right := extended.X, extended.right()
	if left > 0 && !p.addFreeRect(FreeRect{X: 0, Y: oldH, Width: left, Height: delta}) {
		return false
	}
	if right < p.width && !p.addFreeRect(FreeRect{X: right, Y: oldH, Width: p.width - right, Height: delta}) {
		return false
	}
	return true
}

// splitByHeuristic 把 freeRect 中放置 placed 之后剩下的空间切成最多两块:
// 右侧一块和下方一块。
func (p *guillotinePack) splitByHeuristic(freeRect, placed FreeRect) bool {
	splitHorizontal := p.cfg.Split.splitHorizontal(freeRect, placed.Width, placed.Height)

	var bottom FreeRect
	bottom.X = freeRect.X
	bottom.Y = placed.bottom()
	bottom.Height = freeRect.Height - placed.Height

	var right FreeRect
	right.X = placed.right()
	right.Y = freeRect.Y
	right.Width = freeRect.Width - placed.Width

	if splitHorizontal {
		bottom.Width = freeRect.Width
		right.Height = placed.Height
	} else {
		bottom.Width = placed.Width
		right.Height = freeRect.Height
	}
	if bottom.Width > 0 && bottom.Height > 0 && !p.addFreeRect(bottom) {
		return false
	}
	if right.Width > 0 && right.Height > 0 && !p.addFreeRect(right) {
		return false
	}
	return true
}

// addFreeRect 把 r 和与它共享一条完整边的空闲矩形合并，再按 (y, x) 插入。
// 列表中已有的矩形两两之间不能合并，所以只需要拿新矩形去比较。
func (p *guillotinePack) addFreeRect(r FreeRect) bool {
	for merged := true; merged; {
		merged = false
		for i, f := range p.free.items() {
			if m, ok := mergeFreeRects(r, f); ok {
				r = m
				p.free.remove(i)
				merged = true
				break
			}
		}
	}
	i, _ := slices.BinarySearchFunc(p.free.items(), r, comparePosition)
	return p.free.insert(i, r)
}

// mergeFreeRects 在 a 和 b 共享一条完整边时返回两者的并
func mergeFreeRects(a, b FreeRect) (FreeRect, bool) {
	switch {
	case a.X == b.X && a.Width == b.Width && (a.Y == b.bottom() || a.bottom() == b.Y):
		return FreeRect{X: a.X, Y: min(a.Y, b.Y), Width: a.Width, Height: a.Height + b.Height}, true
	case a.Y == b.Y && a.Height == b.Height && (a.X == b.right() || a.right() == b.X):
		return FreeRect{X: min(a.X, b.X), Y: a.Y, Width: a.Width + b.Width, Height: a.Height}, true
	}
	return a, false
}

func (p *guillotinePack) freeRects() []FreeRect {
	return slices.Clone(p.free.items())
}

func (p *guillotinePack) validate(full bool) {
	rects := p.free.items()
	for i, f := range rects {
		if !p.check.that(f.Width > 0 && f.Height > 0, "free rect %d %v is empty", i, f) {
			return
		}
		if !p.check.that(f.X >= 0 && f.Y >= 0 && f.right() <= p.width && f.bottom() <= p.curH,
			"free rect %v outside bin %dx%d", f, p.width, p.curH) {
			return
		}
		if i > 0 && !p.check.that(comparePosition(rects[i-1], f) < 0, "free list out of order at %d", i) {
			return
		}
	}
	if !full {
		return
	}
	area := 0
	for i, a := range rects {
		area += a.Width * a.Height
		for _, b := range rects[i+1:] {
			if !p.check.that(!a.Rect().Intersects(b.Rect()), "free rects %v and %v overlap", a, b) {
				return
			}
		}
	}
	p.check.that(area+p.usedArea == p.width*p.curH,
		"free area %d + used area %d does not cover bin area %d", area, p.usedArea, p.width*p.curH)
}
