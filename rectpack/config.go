package rectpack

import (
	"errors"
	"fmt"
	"math"
)

// DefaultSize 定义了默认的箱子宽度，基于现代GPU的最大纹理尺寸。
// 如果这个库不是用于创建纹理图集，那么这个值除了提供一个合理的起点外没有特殊意义。
const DefaultSize = 4096

var (
	// ErrInvalidConfig 表示 Config 中的参数不合法
	ErrInvalidConfig = errors.New("rectpack: invalid config")
	// ErrReleased 表示打包器的存储已经归还给分配器
	ErrReleased = errors.New("rectpack: packer has been released")
)

// Config 包含创建打包器所需的全部配置。
// 分配和断言行为以接口/函数的形式注入。
type Config struct {
	// Width 是箱子的固定宽度，必须大于0
	Width int

	// Height 是初始高度额度，可以为0
	Height int

	// AllowGrowth 表示放不下时是否允许按需增加高度
	AllowGrowth bool

	// MaxHeight 是增长的上限。0 表示不限制。
	// 非0时必须不小于 Height
	MaxHeight int

	// Sort 在放置前对请求排序。nil 表示保持调用方的顺序
	//
	// 默认值(DefaultConfig)：SortHeight
	Sort SortFunc

	// Algorithm 是空闲空间模型
	//
	// 默认值：Guillotine
	Algorithm Algorithm

	// Heuristic 是 Guillotine 选择空闲矩形的方法
	//
	// 默认值：BestAreaFit
	Heuristic Heuristic

	// Split 是 Guillotine 切分剩余空间的规则
	//
	// 默认值：SplitShorterLeftoverAxis
	Split SplitRule

	// Padding 定义矩形右侧和下方预留的空隙大小。0 表示紧密排列
	Padding int

	// Allocator 为空闲列表提供存储。nil 表示使用 HeapAllocator
	Allocator Allocator

	// Assert 在内部不变量被破坏时调用。nil 表示直接 panic
	Assert AssertFunc

	// Validate 表示每次放置后都做完整(两两比较)的一致性检查。
	// 关闭时只做线性的廉价检查
	Validate bool
}

// DefaultConfig 返回一个可增长、按高度排序、使用 Guillotine + BestAreaFit 的配置
func DefaultConfig(width int) Config {
	return Config{
		Width:       width,
		AllowGrowth: true,
		Sort:        SortHeight,
		Algorithm:   Guillotine,
		Heuristic:   BestAreaFit,
		Split:       SplitShorterLeftoverAxis,
	}
}

func (c *Config) validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("%w: width must be greater than 0 (given %d)", ErrInvalidConfig, c.Width)
	case c.Height < 0:
		return fmt.Errorf("%w: height must not be negative (given %d)", ErrInvalidConfig, c.Height)
	case c.MaxHeight < 0:
		return fmt.Errorf("%w: max height must not be negative (given %d)", ErrInvalidConfig, c.MaxHeight)
	case c.MaxHeight > 0 && c.MaxHeight < c.Height:
		return fmt.Errorf("%w: max height %d is below initial height %d", ErrInvalidConfig, c.MaxHeight, c.Height)
	case c.Padding < 0:
		return fmt.Errorf("%w: padding must not be negative (given %d)", ErrInvalidConfig, c.Padding)
	case !c.Algorithm.valid():
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Algorithm)
	case !c.Heuristic.valid():
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Heuristic)
	case !c.Split.valid():
		return fmt.Errorf("%w: %v", ErrInvalidConfig, c.Split)
	}
	return nil
}

// heightLimit 返回放置时允许达到的最大高度
func (c *Config) heightLimit(current int) int {
	if !c.AllowGrowth {
		return current
	}
	if c.MaxHeight > 0 {
		return c.MaxHeight
	}
	return math.MaxInt
}
