package rectpack

import "math"

// skylinePack 是 stb_rect_pack 使用的天际线模型：一串按 x 排序、首尾相接、
// 恰好覆盖 [0, width) 的线段，每段的 Y 是该段当前的顶部高度。
// 线段存放在 FreeRect 中，Height 不使用。
type skylinePack struct {
	algorithmBase
}

func newSkyline(cfg *Config, check *asserter) *skylinePack {
	p := &skylinePack{algorithmBase: newAlgorithmBase(cfg, check)}
	p.reset(cfg.Height)
	return p
}

func (p *skylinePack) reset(height int) {
	p.curH = height
	p.usedArea = 0
	p.free.clear()
	p.free.push(FreeRect{X: 0, Y: 0, Width: p.width})
}

// insert 使用 bottom-left 规则：选择放置后顶部最低的位置，
// 相同时选择更窄的线段。
func (p *skylinePack) insert(w, h int) (Point, bool) {
	limit := p.limit()
	bestTop, bestWidth := math.MaxInt, math.MaxInt
	bestIndex := -1
	var best Point
	for i, node := range p.free.items() {
		y, ok := p.testFit(i, w, h, limit)
		if !ok {
			continue
		}
		if y+h < bestTop || (y+h == bestTop && node.Width < bestWidth) {
			bestTop = y + h
			bestWidth = node.Width
			bestIndex = i
			best = Point{X: node.X, Y: y}
		}
	}
	if bestIndex < 0 {
		return Point{}, false
	}
	if bestTop > p.curH {
		Logger().Debug("rectpack: bin grown", "from", p.curH, "to", bestTop, "request", Size{Width: w, Height: h})
		p.curH = bestTop
	}
	if !p.addLevel(bestIndex, best, w, h) {
		return Point{}, false
	}
	p.usedArea += w * h
	return best, true
}

// testFit 检查从线段 index 开始能否放下 w×h，返回矩形落下后的 y
// (像俄罗斯方块一样落在下面所有线段的最高处)
func (p *skylinePack) testFit(index, w, h, limit int) (int, bool) {
	nodes := p.free.items()
	x := nodes[index].X
	if x+w > p.width {
		return 0, false
	}
	y := nodes[index].Y
	for widthLeft := w; widthLeft > 0; index++ {
		if index == len(nodes) {
			return 0, false
		}
		y = max(y, nodes[index].Y)
		if y > limit-h {
			return 0, false
		}
		widthLeft -= nodes[index].Width
	}
	return y, true
}

// addLevel 插入新的线段，截掉被它遮住的线段，再合并等高的相邻线段
func (p *skylinePack) addLevel(index int, at Point, w, h int) bool {
	if !p.free.insert(index, FreeRect{X: at.X, Y: at.Y + h, Width: w}) {
		return false
	}
	for i := index + 1; i < p.free.len(); i++ {
		prev, node := p.free.at(i-1), p.free.at(i)
		if node.X >= prev.right() {
			break
		}
		shrink := prev.right() - node.X
		node.X += shrink
		node.Width -= shrink
		if node.Width > 0 {
			break
		}
		p.free.remove(i)
		i--
	}
	p.mergeSkylines()
	return true
}

func (p *skylinePack) mergeSkylines() {
	for i := 0; i < p.free.len()-1; i++ {
		if p.free.at(i).Y == p.free.at(i+1).Y {
			p.free.at(i).Width += p.free.at(i + 1).Width
			p.free.remove(i + 1)
			i--
		}
	}
}

// freeRects 返回每段天际线上方(到当前箱子高度为止)的空闲区域。
// 天际线下方被遮住的空隙不会再被使用，因此不包含在内。
func (p *skylinePack) freeRects() []FreeRect {
	var rects []FreeRect
	for _, node := range p.free.items() {
		if node.Y < p.curH {
			rects = append(rects, FreeRect{X: node.X, Y: node.Y, Width: node.Width, Height: p.curH - node.Y})
		}
	}
	return rects
}

func (p *skylinePack) validate(full bool) {
	nodes := p.free.items()
	if !p.check.that(len(nodes) > 0, "skyline is empty") {
		return
	}
	if !p.check.that(nodes[0].X == 0, "skyline starts at %d", nodes[0].X) {
		return
	}
	for i, node := range nodes {
		if !p.check.that(node.Width > 0, "skyline node %d %v is empty", i, node) {
			return
		}
		if !p.check.that(node.Y >= 0 && node.Y <= p.curH, "skyline node %v outside bin height %d", node, p.curH) {
			return
		}
		if i > 0 && !p.check.that(nodes[i-1].right() == node.X, "skyline nodes %v and %v are not contiguous", nodes[i-1], node) {
			return
		}
		if full && i > 0 && !p.check.that(nodes[i-1].Y != node.Y, "skyline nodes %v and %v were not merged", nodes[i-1], node) {
			return
		}
	}
	last := nodes[len(nodes)-1]
	p.check.that(last.right() == p.width, "skyline ends at %d, bin width is %d", last.right(), p.width)
}
