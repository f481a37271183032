package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"atlaspack/rectpack"
)

// Options 是命令行工具的全部配置，可以来自 JSON 文件，命令行参数优先
type Options struct {
	UnpackPath            string `json:"-"`           // 解包路径
	InputDir              string `json:"input"`       // 输入目录
	OutputDir             string `json:"output"`      // 输出目录
	AtlasWidth            int    `json:"width"`       // 图集宽度(固定)
	AtlasHeight           int    `json:"height"`      // 初始高度
	AtlasMaxHeight        int    `json:"maxHeight"`   // 最大高度，0 表示不限制
	AllowGrowth           bool   `json:"grow"`        // 是否允许高度增长
	Sort                  string `json:"sort"`        // 打包前的排序方式
	IsFilesSort           bool   `json:"naturalSort"` // 是否按文件名自然排序
	SpritePadding         int    `json:"padding"`     // 填充
	IsTrimTransparent     bool   `json:"trim"`        // 是否修剪透明部分
	TransparencyThreshold uint32 `json:"threshold"`   // 透明度阈值
	Algorithm             string `json:"algorithm"`   // 算法
	Variant               string `json:"variant"`     // 算法变体
	Split                 string `json:"split"`       // Guillotine 的切分规则
	PowerOfTwo            bool   `json:"powerOfTwo"`  // 是否使用2的幂
	Verbose               bool   `json:"verbose"`     // 输出调试日志
}

// DefaultOptions 返回默认配置
func DefaultOptions() Options {
	return Options{
		InputDir:          "input",
		OutputDir:         "output",
		AtlasWidth:        rectpack.DefaultSize,
		AtlasMaxHeight:    rectpack.DefaultSize,
		AllowGrowth:       true,
		Sort:              "height",
		IsFilesSort:       true,
		IsTrimTransparent: true,
		Algorithm:         rectpack.Guillotine.String(),
		Variant:           rectpack.BestAreaFit.String(),
		Split:             rectpack.SplitShorterLeftoverAxis.String(),
	}
}

// LoadOptions 从 JSON 文件读取配置，文件中没有的字段保留默认值。
// 文件不存在时返回默认配置且不报错。
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return Options{}, err
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	if err := checkThreshold(opts.TransparencyThreshold); err != nil {
		return Options{}, fmt.Errorf("配置文件 %s: %w", path, err)
	}
	return opts, nil
}

// checkThreshold 检查透明度阈值在 0-255 之间
func checkThreshold(v uint32) error {
	if v > 255 {
		return fmt.Errorf("无效的透明度阈值 %d (0-255)", v)
	}
	return nil
}

// SaveOptions 把配置写成 JSON，自动创建上级目录
func SaveOptions(path string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// newFlagSet 把命令行参数绑定到 opts 上，参数默认值就是 opts 当前的值
func newFlagSet(opts *Options, configPath *string) *flag.FlagSet {
	fs := flag.NewFlagSet("atlaspack", flag.ContinueOnError)
	fs.StringVar(configPath, "config", *configPath, "JSON 配置文件")
	fs.StringVar(&opts.UnpackPath, "unpack", opts.UnpackPath, "解包路径(atlases.json)")
	fs.StringVar(&opts.InputDir, "input", opts.InputDir, "输入目录")
	fs.StringVar(&opts.OutputDir, "output", opts.OutputDir, "输出目录")
	fs.IntVar(&opts.AtlasWidth, "width", opts.AtlasWidth, "图集宽度")
	fs.IntVar(&opts.AtlasHeight, "height", opts.AtlasHeight, "图集初始高度")
	fs.IntVar(&opts.AtlasMaxHeight, "max-height", opts.AtlasMaxHeight, "图集最大高度(0 不限制)")
	fs.BoolVar(&opts.AllowGrowth, "grow", opts.AllowGrowth, "允许图集高度按需增长")
	fs.StringVar(&opts.Sort, "sort", opts.Sort, "打包前排序 (height, width, area, perimeter, maxside, none)")
	fs.BoolVar(&opts.IsFilesSort, "natural-sort", opts.IsFilesSort, "按文件名自然排序")
	fs.IntVar(&opts.SpritePadding, "padding", opts.SpritePadding, "填充")
	fs.BoolVar(&opts.IsTrimTransparent, "trim", opts.IsTrimTransparent, "修剪透明部分")
	fs.Func("threshold", "透明度阈值 (0-255)", func(s string) error {
		var v uint32
		if _, err := fmt.Sscan(s, &v); err != nil {
			return fmt.Errorf("无效的透明度阈值 %q", s)
		}
		if err := checkThreshold(v); err != nil {
			return err
		}
		opts.TransparencyThreshold = v
		return nil
	})
	fs.StringVar(&opts.Algorithm, "algorithm", opts.Algorithm, "打包算法 (Guillotine, Skyline)")
	fs.StringVar(&opts.Variant, "variant", opts.Variant, "打包算法变体 (BestAreaFit, BestShortSideFit, BestLongSideFit, WorstAreaFit, WorstShortSideFit, WorstLongSideFit)")
	fs.StringVar(&opts.Split, "split", opts.Split, "Guillotine 切分规则 (ShorterLeftoverAxis, LongerLeftoverAxis, MinimizeArea, MaximizeArea, ShorterAxis, LongerAxis)")
	fs.BoolVar(&opts.PowerOfTwo, "pow-of-two", opts.PowerOfTwo, "启用2的幂")
	fs.BoolVar(&opts.Verbose, "v", opts.Verbose, "输出调试日志")
	return fs
}

// parseOptions 解析命令行。指定了 -config 时先读取文件，再让命令行上出现的参数覆盖它。
func parseOptions(args []string) (Options, error) {
	opts := DefaultOptions()
	var configPath string
	if err := newFlagSet(&opts, &configPath).Parse(args); err != nil {
		return Options{}, err
	}
	if configPath == "" {
		return opts, nil
	}
	loaded, err := LoadOptions(configPath)
	if err != nil {
		return Options{}, err
	}
	if err := newFlagSet(&loaded, &configPath).Parse(args); err != nil {
		return Options{}, err
	}
	return loaded, nil
}

// packConfig 把命令行配置转换为打包器配置
func (o *Options) packConfig() (rectpack.Config, error) {
	algo, heuristic, err := rectpack.ResolveAlgorithm(o.Algorithm, o.Variant)
	if err != nil {
		return rectpack.Config{}, err
	}
	split, err := rectpack.ResolveSplit(o.Split)
	if err != nil {
		return rectpack.Config{}, err
	}
	sortFunc, ok := rectpack.ResolveSort(o.Sort)
	if !ok {
		return rectpack.Config{}, fmt.Errorf("未知的排序方式 %q", o.Sort)
	}
	cfg := rectpack.Config{
		Width:       o.AtlasWidth,
		Height:      o.AtlasHeight,
		AllowGrowth: o.AllowGrowth,
		MaxHeight:   o.AtlasMaxHeight,
		Sort:        sortFunc,
		Algorithm:   algo,
		Heuristic:   heuristic,
		Split:       split,
		Padding:     o.SpritePadding,
	}
	if !cfg.AllowGrowth && cfg.Height == 0 {
		// 不增长时，初始高度就是整个图集高度
		cfg.Height = cfg.MaxHeight
	}
	return cfg, nil
}
