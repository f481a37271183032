// Package rectpack 把一组矩形确定性地放进一个固定宽度、高度可增长的箱子中。
//
// 同样的配置和同样顺序的输入总是得到同样的结果：没有随机数，也没有隐藏的全局状态
// (除了默认静默的日志)。一个 Packer 只能在一个 goroutine 中使用，不同的 Packer
// 可以并行工作。
package rectpack

import (
	"slices"
)

// Placement 是一个请求的放置结果。Packed 为 false 时 X、Y 没有意义(为0)。
type Placement struct {
	Rect
	Packed bool `json:"packed"`
}

// Result 是一次 Pack 调用的结果
type Result struct {
	// Placements 与输入一一对应，顺序与输入相同(不受排序影响)
	Placements []Placement

	// AllPacked 表示所有请求都已放置
	AllPacked bool

	// Width、Height 是所有已放置矩形(含间距)覆盖的范围
	Width, Height int
}

// Unpacked 返回未能放置的请求
func (r *Result) Unpacked() []Size {
	var sizes []Size
	for _, pl := range r.Placements {
		if !pl.Packed {
			sizes = append(sizes, pl.Size)
		}
	}
	return sizes
}

// Packer 包含一个箱子的打包状态
type Packer struct {
	cfg      Config
	algo     packAlgorithm
	check    asserter
	packed   []Rect // 已放置的矩形(不含间距)
	extent   Size   // 已放置矩形(含间距)覆盖的范围
	released bool
}

// New 创建并初始化一个新的打包器
//
// 返回:
//
//	*Packer - 初始化成功的打包器实例
//	error - 配置不合法时返回包装了 ErrInvalidConfig 的错误
func New(cfg Config) (*Packer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	p := &Packer{cfg: cfg}
	p.check.hook = cfg.Assert
	p.algo = newAlgorithm(&p.cfg, &p.check)
	if err := p.check.failed(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewDefault 创建使用 DefaultConfig 的打包器
func NewDefault(width int) (*Packer, error) {
	return New(DefaultConfig(width))
}

// Pack 一次性打包：创建打包器、放置所有请求、释放存储。
// 结果只取决于 cfg 和 sizes。
func Pack(cfg Config, sizes []Size) (Result, error) {
	p, err := New(cfg)
	if err != nil {
		return Result{}, err
	}
	defer p.Release()
	return p.Pack(sizes)
}

// Pack 把 sizes 放进箱子。多次调用会继续往同一个箱子里放。
//
// 放不下的请求只会在结果中标记为未放置，不会中断其余请求的处理。
// 返回的错误只可能是 *InvariantError(断言钩子没有 panic 时)或 ErrReleased。
func (p *Packer) Pack(sizes []Size) (Result, error) {
	if p.released {
		return Result{}, ErrReleased
	}
	if err := p.check.failed(); err != nil {
		return Result{}, err
	}

	result := Result{
		Placements: make([]Placement, len(sizes)),
		AllPacked:  true,
	}
	for _, i := range p.order(sizes) {
		size := sizes[i]
		placement := Placement{Rect: Rect{Size: size}}
		switch {
		case size.Width < 0 || size.Height < 0 || size.Width > p.cfg.Width:
		case size.Width == 0 || size.Height == 0:
			placement.Packed = true
		default:
			padded := size
			padSize(&padded, p.cfg.Padding, p.cfg.Width)
			pos, ok := p.algo.insert(padded.Width, padded.Height)
			if err := p.check.failed(); err != nil {
				return Result{}, err
			}
			if ok {
				placement.Point = pos
				placement.Packed = true
				if err := p.place(placement.Rect, padded); err != nil {
					return Result{}, err
				}
			}
		}
		if !placement.Packed {
			result.AllPacked = false
			Logger().Debug("rectpack: request not packed", "id", size.ID, "size", size, "height", p.algo.height())
		}
		result.Placements[i] = placement
	}
	result.Width, result.Height = p.extent.Width, p.extent.Height
	return result, nil
}

// order 返回放置顺序。排序是稳定的，调用方的切片不会被修改。
func (p *Packer) order(sizes []Size) []int {
	order := make([]int, len(sizes))
	for i := range order {
		order[i] = i
	}
	if p.cfg.Sort != nil {
		slices.SortStableFunc(order, func(a, b int) int {
			return p.cfg.Sort(sizes[a], sizes[b])
		})
	}
	return order
}

// place 记录一个已放置的矩形并检查不变量
func (p *Packer) place(rect Rect, padded Size) error {
	if p.cfg.Validate {
		for _, other := range p.packed {
			if !p.check.that(!rect.Intersects(other), "packed rects %v and %v overlap", rect, other) {
				return p.check.failed()
			}
		}
	}
	if !p.check.that(rect.X >= 0 && rect.Y >= 0 && rect.Right() <= p.cfg.Width && rect.Bottom() <= p.algo.height(),
		"packed rect %v outside bin %dx%d", rect, p.cfg.Width, p.algo.height()) {
		return p.check.failed()
	}
	p.algo.validate(p.cfg.Validate)
	if err := p.check.failed(); err != nil {
		return err
	}
	p.packed = append(p.packed, rect)
	p.extent = Rect{Size: p.extent}.Union(Rect{Point: rect.Point, Size: padded}).Size
	return nil
}

// Rects 获取所有已成功放置的矩形
// 返回:
//
//	已放置矩形的切片(由内部管理，如需修改请复制)。Reset 之后新的放置不会写入之前返回的切片
func (p *Packer) Rects() []Rect {
	return p.packed
}

// Map 创建矩形ID到矩形对象的映射
func (p *Packer) Map() map[int]Rect {
	mapping := make(map[int]Rect, len(p.packed))
	for _, rect := range p.packed {
		mapping[rect.ID] = rect
	}
	return mapping
}

// Size 返回包含所有已放置矩形(含间距)所需的最小尺寸
func (p *Packer) Size() Size {
	return p.extent
}

// Height 返回箱子当前的高度额度
func (p *Packer) Height() int {
	return p.algo.height()
}

// FreeRects 返回空闲空间模型的副本，用于调试和可视化
func (p *Packer) FreeRects() []FreeRect {
	if p.released {
		return nil
	}
	return p.algo.freeRects()
}

// Used 计算当前空间利用率
// 参数:
//
//	current - true:相对已覆盖范围计算 false:相对箱子当前高度计算
//
// 返回:
//
//	空间利用率(0.0-1.0)，没有可用面积时为0
func (p *Packer) Used(current bool) float64 {
	used := 0
	for _, rect := range p.packed {
		used += rect.Area()
	}
	total := p.cfg.Width * p.algo.height()
	if current {
		total = p.extent.Area()
	}
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}

// Reset 重置打包器状态(保留配置)，清除所有已放置的矩形
func (p *Packer) Reset() {
	if p.released {
		return
	}
	p.algo.reset(p.cfg.Height)
	p.packed = nil
	p.extent = Size{}
}

// Release 把空闲列表的存储归还给分配器。之后 Pack 返回 ErrReleased。
func (p *Packer) Release() {
	if p.released {
		return
	}
	p.algo.release()
	p.released = true
}
