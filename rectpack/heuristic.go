package rectpack

import (
	"fmt"
)

// Algorithm 选择打包器维护的空闲空间模型
type Algorithm uint8

const (
	// Guillotine 维护一组互不重叠的空闲矩形，每次放置时切分被选中的那个
	Guillotine Algorithm = iota
	// Skyline 是 stb_rect_pack 的 bottom-left 天际线
	Skyline
)

// Heuristic 决定请求放进哪个空闲矩形，只对 Guillotine 有效
type Heuristic uint8

const (
	// BestAreaFit 剩余面积最小，其次较短剩余边最小
	BestAreaFit Heuristic = iota
	// BestShortSideFit 较短剩余边最小，其次较长剩余边最小
	BestShortSideFit
	// BestLongSideFit 较长剩余边最小，其次较短剩余边最小
	BestLongSideFit
	// WorstAreaFit 剩余面积最大
	WorstAreaFit
	// WorstShortSideFit 较短剩余边最大
	WorstShortSideFit
	// WorstLongSideFit 较长剩余边最大
	WorstLongSideFit
)

// SplitRule 决定放置后空闲矩形剩余部分的切法：
// 要么下方的剩余块占满整个宽度，要么右侧的剩余块占满整个高度。
type SplitRule uint8

const (
	SplitShorterLeftoverAxis SplitRule = iota
	SplitLongerLeftoverAxis
	SplitMinimizeArea
	SplitMaximizeArea
	SplitShorterAxis
	SplitLongerAxis
)

var (
	algorithmNames = map[Algorithm]string{
		Guillotine: "Guillotine",
		Skyline:    "Skyline",
	}
	heuristicNames = map[Heuristic]string{
		BestAreaFit:       "BestAreaFit",
		BestShortSideFit:  "BestShortSideFit",
		BestLongSideFit:   "BestLongSideFit",
		WorstAreaFit:      "WorstAreaFit",
		WorstShortSideFit: "WorstShortSideFit",
		WorstLongSideFit:  "WorstLongSideFit",
	}
	splitNames = map[SplitRule]string{
		SplitShorterLeftoverAxis: "ShorterLeftoverAxis",
		SplitLongerLeftoverAxis:  "LongerLeftoverAxis",
		SplitMinimizeArea:        "MinimizeArea",
		SplitMaximizeArea:        "MaximizeArea",
		SplitShorterAxis:         "ShorterAxis",
		SplitLongerAxis:          "LongerAxis",
	}
)

func (a Algorithm) String() string {
	if s, ok := algorithmNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

func (h Heuristic) String() string {
	if s, ok := heuristicNames[h]; ok {
		return s
	}
	return fmt.Sprintf("Heuristic(%d)", uint8(h))
}

func (s SplitRule) String() string {
	if n, ok := splitNames[s]; ok {
		return n
	}
	return fmt.Sprintf("SplitRule(%d)", uint8(s))
}

func (a Algorithm) valid() bool { _, ok := algorithmNames[a]; return ok }
func (h Heuristic) valid() bool { _, ok := heuristicNames[h]; return ok }
func (s SplitRule) valid() bool { _, ok := splitNames[s]; return ok }

// ResolveAlgorithm 把命令行上的算法名和变体名映射为对应的值。Skyline 忽略变体。
func ResolveAlgorithm(algo, variant string) (Algorithm, Heuristic, error) {
	var a Algorithm
	found := false
	for k, name := range algorithmNames {
		if name == algo {
			a, found = k, true
			break
		}
	}
	if !found {
		return 0, 0, fmt.Errorf("unknown algorithm %q", algo)
	}
	if a == Skyline || variant == "" {
		return a, BestAreaFit, nil
	}
	for k, name := range heuristicNames {
		if name == variant {
			return a, k, nil
		}
	}
	return 0, 0, fmt.Errorf("unknown %s variant %q", algo, variant)
}

// ResolveSplit 把切分规则名映射为对应的值，空字符串表示默认规则
func ResolveSplit(name string) (SplitRule, error) {
	if name == "" {
		return SplitShorterLeftoverAxis, nil
	}
	for k, n := range splitNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown split rule %q", name)
}

// fitScore 给空闲矩形 f 中放置 w×h 打分，越小越好。第二个值用于第一个值相同时决胜。
// Worst 系列对 Best 系列的分数取反。
func (h Heuristic) fitScore(w, ht int, f FreeRect) (int, int) {
	leftover := Size{Width: abs(f.Width - w), Height: abs(f.Height - ht)}
	short, long := leftover.MinSide(), leftover.MaxSide()
	area := f.Width*f.Height - w*ht
	switch h {
	case BestShortSideFit:
		return short, long
	case BestLongSideFit:
		return long, short
	case WorstAreaFit:
		return -area, -short
	case WorstShortSideFit:
		return -short, -long
	case WorstLongSideFit:
		return -long, -short
	default:
		return area, short
	}
}

// splitHorizontal 判断放置后下方的剩余块是否占满空闲矩形的整个宽度
func (s SplitRule) splitHorizontal(f FreeRect, w, h int) bool {
	leftW := f.Width - w
	leftH := f.Height - h
	switch s {
	case SplitLongerLeftoverAxis:
		return leftW > leftH
	case SplitMinimizeArea:
		return w*leftH > leftW*h
	case SplitMaximizeArea:
		return w*leftH <= leftW*h
	case SplitShorterAxis:
		return f.Width <= f.Height
	case SplitLongerAxis:
		return f.Width > f.Height
	default:
		return leftW <= leftH
	}
}
