package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// readAtlasData 读取 atlases.json
func readAtlasData(path string) (MultiAtlasData, error) {
	var data MultiAtlasData
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return data, fmt.Errorf("读取图集JSON文件失败: %w", err)
	}
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return data, fmt.Errorf("解析JSON失败: %w", err)
	}
	return data, nil
}

// extractSprite 从图集中取出一个精灵，修剪过的精灵恢复到原始尺寸
func extractSprite(atlasImg image.Image, sprite SpriteInfo) *image.NRGBA {
	region := image.Rect(sprite.Region.X, sprite.Region.Y,
		sprite.Region.X+sprite.Region.W, sprite.Region.Y+sprite.Region.H)
	subImg := imaging.Crop(atlasImg, region)
	if !sprite.Trimmed || sprite.SourceRect == nil {
		return subImg
	}
	// 透明画布上把子图绘制到原来的位置
	finalImg := imaging.New(sprite.SourceSize.W, sprite.SourceSize.H, color.NRGBA{0, 0, 0, 0})
	dst := image.Rect(sprite.SourceRect.X, sprite.SourceRect.Y,
		sprite.SourceRect.X+sprite.Region.W, sprite.SourceRect.Y+sprite.Region.H)
	draw.Draw(finalImg, dst, subImg, image.Point{}, draw.Src)
	return finalImg
}

// saveImage 按扩展名编码，imaging 不能编码的格式(webp)写成 PNG
func saveImage(img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.PNG
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(file, img, format); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// unpack 按 atlases.json 把图集拆回单独的图片
func unpack(jsonPath, outputDir string, logger *slog.Logger) error {
	defer timed(logger, "解包")()

	data, err := readAtlasData(jsonPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	atlasDir := filepath.Dir(jsonPath)
	count := 0
	for _, atlas := range data.Atlases {
		atlasImagePath := filepath.Join(atlasDir, atlas.AtlasName)
		atlasImg, err := imaging.Open(atlasImagePath)
		if err != nil {
			return fmt.Errorf("打开图集图片失败: %w", err)
		}
		for name, sprite := range atlas.SpriteList {
			outputPath := filepath.Join(outputDir, filepath.Base(name))
			if err := saveImage(extractSprite(atlasImg, sprite), outputPath); err != nil {
				return fmt.Errorf("保存 %s 失败: %w", outputPath, err)
			}
			count++
		}
	}
	logger.Info("图集解包完成", "output", outputDir, "sprites", count)
	return nil
}
