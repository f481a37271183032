package rectpack

// packAlgorithm 是一个空闲空间模型的接口
type packAlgorithm interface {
	// 重置到初始状态，箱子高度恢复为 height
	reset(height int)

	// 放置一个 w×h 的矩形(已包含间距)，必要且允许时增加箱子高度。
	// 放不下时返回 false
	insert(w, h int) (Point, bool)

	// 返回当前箱子高度
	height() int

	// 返回空闲空间模型的副本
	freeRects() []FreeRect

	// 检查内部不变量，full 为 true 时做两两比较的完整检查
	validate(full bool)

	// 把存储归还给分配器
	release()
}

// algorithmBase 是两种算法共用的状态
type algorithmBase struct {
	cfg      *Config
	check    *asserter
	free     *freeList
	width    int // 箱子的固定宽度
	curH     int // 箱子当前的高度
	usedArea int // 已放置矩形(含间距)的面积
}

func newAlgorithmBase(cfg *Config, check *asserter) algorithmBase {
	return algorithmBase{
		cfg:   cfg,
		check: check,
		free:  newFreeList(cfg.Allocator, check),
		width: cfg.Width,
	}
}

func (p *algorithmBase) height() int {
	return p.curH
}

func (p *algorithmBase) release() {
	p.free.release()
}

// limit 返回本次放置允许达到的最大高度
func (p *algorithmBase) limit() int {
	return p.cfg.heightLimit(p.curH)
}

func newAlgorithm(cfg *Config, check *asserter) packAlgorithm {
	if cfg.Algorithm == Skyline {
		return newSkyline(cfg, check)
	}
	return newGuillotine(cfg, check)
}
