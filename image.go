package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math/bits"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"atlaspack/rectpack"

	"github.com/disintegration/imaging"
	"github.com/maruel/natural"
	_ "golang.org/x/image/webp"
)

// 支持的输入图片扩展名
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// sprite 是一张待打包的输入图片
type sprite struct {
	Path       string
	Image      image.Image
	SourceSize image.Point     // 原始尺寸
	SourceRect image.Rectangle // 修剪后保留的区域(原图坐标)
}

// Trimmed 判断是否进行了裁剪
func (s *sprite) Trimmed() bool {
	return s.SourceRect != image.Rect(0, 0, s.SourceSize.X, s.SourceSize.Y)
}

// atlasPage 是一张图集中放置的精灵
type atlasPage struct {
	Placements []rectpack.Placement // ID 是精灵的下标
	Size       rectpack.Size
}

// Parallel 把 [start, end) 分批并行执行
func Parallel(start, end int, fn func(i int)) {
	numGoroutines := runtime.NumCPU()
	if end-start < numGoroutines {
		// 如果任务数量少于CPU核心数，直接顺序执行
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	batchSize := (end - start + numGoroutines - 1) / numGoroutines
	for i := start; i < end; i += batchSize {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for j := from; j < to && j < end; j++ {
				fn(j)
			}
		}(i, i+batchSize)
	}
	wg.Wait()
}

// listImages 列出目录中所有支持的图片
func listImages(dir string, naturalSort bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("读取输入目录 %s 失败: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("输入目录 %s 中没有找到任何图片文件", dir)
	}
	// 是否按文件名排序
	if naturalSort {
		sort.Sort(natural.StringSlice(paths))
	}
	return paths, nil
}

// loadSprites 并行解码图片，可选地裁掉透明边框
func loadSprites(paths []string, trim bool, threshold uint32) ([]sprite, error) {
	sprites := make([]sprite, len(paths))
	errs := make([]error, len(paths))
	Parallel(0, len(paths), func(i int) {
		img, err := imaging.Open(paths[i])
		if err != nil {
			errs[i] = fmt.Errorf("无法解码图片 %s: %w", paths[i], err)
			return
		}
		bounds := img.Bounds()
		s := sprite{
			Path:       paths[i],
			Image:      img,
			SourceSize: bounds.Size(),
			SourceRect: bounds.Sub(bounds.Min),
		}
		if trim {
			s.SourceRect = GetImageBBox(img, threshold).Sub(bounds.Min)
		}
		sprites[i] = s
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return sprites, nil
}

// GetImageBBox 返回图像中 alpha 大于阈值的像素的边界。
// 图像完全透明时返回整个图像边界。
func GetImageBBox(img image.Image, alphaThreshold uint32) image.Rectangle {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.Rectangle{}
	}
	var alpha func(x, y int) uint32
	switch src := img.(type) {
	case *image.NRGBA:
		alpha = func(x, y int) uint32 { return uint32(src.Pix[src.PixOffset(x, y)+3]) }
	case *image.RGBA:
		alpha = func(x, y int) uint32 { return uint32(src.Pix[src.PixOffset(x, y)+3]) }
	default:
		alpha = func(x, y int) uint32 {
			_, _, _, a := img.At(x, y).RGBA()
			return a >> 8 // RGBA()返回的是16bit
		}
	}
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if alpha(x, y) <= alphaThreshold {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return bounds
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// packSprites 把精灵打包进一张或多张图集。
// 一张图集放不下的精灵进入下一张；没有任何图集能放下的精灵被跳过并返回其下标。
func packSprites(sprites []sprite, cfg rectpack.Config, logger *slog.Logger) ([]atlasPage, []int, error) {
	remaining := make([]rectpack.Size, len(sprites))
	for i, s := range sprites {
		remaining[i] = rectpack.NewSizeID(i, s.SourceRect.Dx(), s.SourceRect.Dy())
	}

	var pages []atlasPage
	for len(remaining) > 0 {
		result, err := rectpack.Pack(cfg, remaining)
		if err != nil {
			return nil, nil, fmt.Errorf("打包失败: %w", err)
		}
		page := atlasPage{Size: rectpack.NewSize(result.Width, result.Height)}
		for _, pl := range result.Placements {
			if pl.Packed && !pl.IsEmpty() {
				page.Placements = append(page.Placements, pl)
			}
		}
		unpacked := result.Unpacked()
		if len(page.Placements) == 0 {
			// 空图集也放不下，剩下的永远放不下
			remaining = unpacked
			break
		}
		logger.Info("图集打包完成",
			"atlas", len(pages),
			"size", fmt.Sprintf("%dx%d", page.Size.Width, page.Size.Height),
			"sprites", len(page.Placements),
			"unpacked", len(unpacked))
		pages = append(pages, page)
		remaining = unpacked
	}

	skipped := make([]int, 0, len(remaining))
	for _, s := range remaining {
		skipped = append(skipped, s.ID)
	}
	return pages, skipped, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// CreateAtlasImage 创建图集图像，并返回文件名到精灵信息的映射
func CreateAtlasImage(page atlasPage, sprites []sprite, powerOfTwo bool) (*image.NRGBA, map[string]SpriteInfo) {
	atlasSize := page.Size
	if powerOfTwo {
		atlasSize.Width = nextPowerOfTwo(atlasSize.Width)
		atlasSize.Height = nextPowerOfTwo(atlasSize.Height)
	}

	dstImage := imaging.New(atlasSize.Width, atlasSize.Height, color.NRGBA{0, 0, 0, 0})
	spriteInfoMapping := make(map[string]SpriteInfo, len(page.Placements))
	for _, r := range page.Placements {
		s := &sprites[r.ID]
		srcMin := s.SourceRect.Min.Add(s.Image.Bounds().Min)
		dstRect := image.Rect(r.X, r.Y, r.Right(), r.Bottom())
		draw.Draw(dstImage, dstRect, s.Image, srcMin, draw.Src)

		info := SpriteInfo{Filename: filepath.Base(s.Path)}
		info.Region.X, info.Region.Y = r.X, r.Y
		info.Region.W, info.Region.H = r.Width, r.Height
		info.SourceSize.W, info.SourceSize.H = s.SourceSize.X, s.SourceSize.Y
		if s.Trimmed() {
			info.Trimmed = true
			info.SourceRect = &Region{
				X: s.SourceRect.Min.X,
				Y: s.SourceRect.Min.Y,
				W: s.SourceRect.Dx(),
				H: s.SourceRect.Dy(),
			}
		}
		spriteInfoMapping[info.Filename] = info
	}
	return dstImage, spriteInfoMapping
}
