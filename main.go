package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"atlaspack/rectpack"

	"github.com/disintegration/imaging"
)

const (
	VERSION = "0.2.0"
)

// Region 是一个整数矩形区域
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// SpriteInfo 存储精灵图的信息
type SpriteInfo struct {
	Filename   string `json:"filename"`
	Region     Region `json:"region"`
	SourceSize struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"sourceSize"`
	SourceRect *Region `json:"sourceRect,omitempty"` // 修剪后保留的区域，仅在 Trimmed 时存在
	Trimmed    bool    `json:"trimmed"`
}

// AtlasInfo 存储一张图集的信息
type AtlasInfo struct {
	AtlasName  string                `json:"atlasName"`
	SpriteList map[string]SpriteInfo `json:"spriteList"`
	TotalSize  struct {
		W int `json:"w"`
		H int `json:"h"`
	} `json:"totalSize"`
}

// MultiAtlasData 存储多个图集的信息
type MultiAtlasData struct {
	Meta struct {
		Version   string `json:"version"`
		Timestamp string `json:"timestamp"`
	} `json:"meta"`
	Atlases []AtlasInfo `json:"atlases"`
}

// generateMultiAtlasJSON 生成包含多个图集信息的JSON元数据
func generateMultiAtlasJSON(atlasMappings []map[string]SpriteInfo, atlasSizes []rectpack.Size, atlasImagePaths []string, outputPath string) error {
	var data MultiAtlasData
	data.Meta.Version = VERSION
	data.Meta.Timestamp = time.Now().Format("2006-01-02 15:04:05")
	data.Atlases = make([]AtlasInfo, len(atlasMappings))

	// 填充每个图集的信息
	for i, mapping := range atlasMappings {
		atlas := &data.Atlases[i]
		atlas.AtlasName = filepath.Base(atlasImagePaths[i])
		atlas.SpriteList = mapping
		atlas.TotalSize.W = atlasSizes[i].Width
		atlas.TotalSize.H = atlasSizes[i].Height
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, jsonData, 0644)
}

// atlasName 返回第 i 张图集的文件名，只有一张时不带编号
func atlasName(i, total int) string {
	if total == 1 {
		return "atlas.png"
	}
	return fmt.Sprintf("atlas_%d.png", i)
}

// timed 在 Debug 级别记录一个步骤的耗时
func timed(logger *slog.Logger, step string) func() {
	start := time.Now()
	return func() {
		logger.Debug("步骤完成", "step", step, "elapsed", time.Since(start))
	}
}

// build 读取输入目录的图片，打包并写出图集和元数据
func build(opts Options, logger *slog.Logger) error {
	defer timed(logger, "总耗时")()

	cfg, err := opts.packConfig()
	if err != nil {
		return err
	}

	done := timed(logger, "文件排序")
	paths, err := listImages(opts.InputDir, opts.IsFilesSort)
	done()
	if err != nil {
		return err
	}

	done = timed(logger, "图片预处理")
	sprites, err := loadSprites(paths, opts.IsTrimTransparent, opts.TransparencyThreshold)
	done()
	if err != nil {
		return err
	}

	done = timed(logger, "打包")
	pages, skipped, err := packSprites(sprites, cfg, logger)
	done()
	if err != nil {
		return err
	}
	for _, i := range skipped {
		logger.Warn("图片无法放入任何图集，已跳过", "file", sprites[i].Path,
			"size", fmt.Sprintf("%dx%d", sprites[i].SourceRect.Dx(), sprites[i].SourceRect.Dy()))
	}
	if len(pages) == 0 {
		return errors.New("没有任何图片被打包")
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	done = timed(logger, "图集创建")
	mappings := make([]map[string]SpriteInfo, len(pages))
	sizes := make([]rectpack.Size, len(pages))
	imagePaths := make([]string, len(pages))
	for i, page := range pages {
		atlasImage, mapping := CreateAtlasImage(page, sprites, opts.PowerOfTwo)
		imagePaths[i] = filepath.Join(opts.OutputDir, atlasName(i, len(pages)))
		if err := imaging.Save(atlasImage, imagePaths[i]); err != nil {
			return fmt.Errorf("保存图集 %s 失败: %w", imagePaths[i], err)
		}
		b := atlasImage.Bounds()
		mappings[i] = mapping
		sizes[i] = rectpack.NewSize(b.Dx(), b.Dy())
		logger.Info("图集已保存", "path", imagePaths[i], "sprites", len(mapping))
	}
	done()

	jsonPath := filepath.Join(opts.OutputDir, "atlases.json")
	if err := generateMultiAtlasJSON(mappings, sizes, imagePaths, jsonPath); err != nil {
		return fmt.Errorf("生成JSON元数据失败: %w", err)
	}
	logger.Info("图集元数据已保存", "path", jsonPath)
	return nil
}

func run(opts Options, logger *slog.Logger) error {
	if opts.UnpackPath != "" {
		return unpack(opts.UnpackPath, opts.OutputDir, logger)
	}
	return build(opts, logger)
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	rectpack.SetLogger(logger)

	if err := run(opts, logger); err != nil {
		logger.Error("运行失败", "err", err)
		os.Exit(1)
	}
}
