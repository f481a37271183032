package rectpack

import "cmp"

// SortFunc 定义矩形尺寸比较函数的原型
// 返回值:
//
//	-1: a 排在 b 前面
//	 0: 保持原有顺序
//	 1: a 排在 b 后面
type SortFunc func(a, b Size) int

// SortHeight 按高度降序排序，高度相同时按宽度降序
// (stb_rect_pack 的默认顺序)
func SortHeight(a, b Size) int {
	if c := cmp.Compare(b.Height, a.Height); c != 0 {
		return c
	}
	return cmp.Compare(b.Width, a.Width)
}

// SortWidth 按宽度降序排序，宽度相同时按高度降序
func SortWidth(a, b Size) int {
	if c := cmp.Compare(b.Width, a.Width); c != 0 {
		return c
	}
	return cmp.Compare(b.Height, a.Height)
}

// SortArea 按矩形面积降序排序(从大到小)
func SortArea(a, b Size) int {
	return cmp.Compare(b.Area(), a.Area())
}

// SortPerimeter 按矩形周长降序排序(从大到小)
func SortPerimeter(a, b Size) int {
	return cmp.Compare(b.Perimeter(), a.Perimeter())
}

// SortMaxSide 按矩形最长边降序排序(从大到小)
func SortMaxSide(a, b Size) int {
	return cmp.Compare(b.MaxSide(), a.MaxSide())
}

// ResolveSort 把命令行上的名字映射为排序函数，"none" 表示不排序
func ResolveSort(name string) (SortFunc, bool) {
	switch name {
	case "height", "":
		return SortHeight, true
	case "width":
		return SortWidth, true
	case "area":
		return SortArea, true
	case "perimeter":
		return SortPerimeter, true
	case "maxside":
		return SortMaxSide, true
	case "none":
		return nil, true
	}
	return nil, false
}
