package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"atlaspack/rectpack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Box 是一个测试用例：箱子的尺寸和待放置的矩形
type Box struct {
	W, H  int
	Sizes []rectpack.Size
}

// GetInstance 从文本文件读取测试用例。
// 第一行是箱子的宽和高，之后每行一个矩形的宽和高。
func GetInstance(path string) (*Box, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	box := &Box{}
	isFirstLine := true
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		if len(parts) < 2 {
			return nil, fmt.Errorf("an error in parsing line %q", scanner.Text())
		}
		w, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("an error in parsing width: %w", err)
		}
		h, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("an error in parsing height: %w", err)
		}
		if isFirstLine {
			box.W, box.H = w, h
			isFirstLine = false
			continue
		}
		box.Sizes = append(box.Sizes, rectpack.NewSizeID(len(box.Sizes), w, h))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return box, nil
}

func writeInstance(t testing.TB, box *Box) string {
	t.Helper()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %d\n", box.W, box.H)
	for _, s := range box.Sizes {
		fmt.Fprintf(&sb, "%d %d\n", s.Width, s.Height)
	}
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}

func randomBox(seed int64, n int) *Box {
	rng := rand.New(rand.NewSource(seed))
	box := &Box{W: 400, H: 400}
	for i := 0; i < n; i++ {
		box.Sizes = append(box.Sizes, rectpack.NewSizeID(i, 5+rng.Intn(60), 5+rng.Intn(60)))
	}
	return box
}

func TestGetInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("100 80\n10 20\n\n30 5\n"), 0644))

	box, err := GetInstance(path)
	require.NoError(t, err)
	assert.Equal(t, 100, box.W)
	assert.Equal(t, 80, box.H)
	assert.Equal(t, []rectpack.Size{rectpack.NewSizeID(0, 10, 20), rectpack.NewSizeID(1, 30, 5)}, box.Sizes)

	require.NoError(t, os.WriteFile(path, []byte("100 x\n"), 0644))
	_, err = GetInstance(path)
	assert.Error(t, err)
}

// 固定大小的箱子：每种算法放下的矩形都不重叠，并且不超出箱子
func TestPackInstance(t *testing.T) {
	box, err := GetInstance(writeInstance(t, randomBox(42, 120)))
	require.NoError(t, err)

	for _, name := range []string{"Guillotine/BestAreaFit", "Guillotine/BestShortSideFit", "Guillotine/BestLongSideFit", "Skyline/"} {
		t.Run(name, func(t *testing.T) {
			algo, variant, _ := strings.Cut(name, "/")
			opts := DefaultOptions()
			opts.AtlasWidth = box.W
			opts.AtlasMaxHeight = box.H
			opts.AllowGrowth = false
			opts.Algorithm = algo
			opts.Variant = variant
			cfg, err := opts.packConfig()
			require.NoError(t, err)
			cfg.Validate = true

			result, err := rectpack.Pack(cfg, box.Sizes)
			require.NoError(t, err)

			bin := rectpack.NewRect(0, 0, box.W, box.H)
			var packed []rectpack.Rect
			used := 0
			for i, pl := range result.Placements {
				assert.Equal(t, i, pl.ID)
				if !pl.Packed {
					continue
				}
				assert.True(t, bin.ContainsRect(pl.Rect), "%v", pl.Rect)
				for _, other := range packed {
					require.False(t, pl.Intersects(other), "%v %v", pl.Rect, other)
				}
				packed = append(packed, pl.Rect)
				used += pl.Area()
			}
			assert.NotEmpty(t, packed)
			assert.Equal(t, len(packed) == len(box.Sizes), result.AllPacked)
			t.Logf("packed %d/%d, utilization rate %.2f", len(packed), len(box.Sizes), float64(used)/float64(box.W*box.H))
		})
	}
}

func BenchmarkPack(b *testing.B) {
	box := randomBox(7, 1000)
	for _, algo := range []string{"Guillotine", "Skyline"} {
		b.Run(algo, func(b *testing.B) {
			opts := DefaultOptions()
			opts.AtlasWidth = 2048
			opts.Algorithm = algo
			cfg, err := opts.packConfig()
			require.NoError(b, err)
			cfg.Allocator = &rectpack.PoolAllocator{}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := rectpack.Pack(cfg, box.Sizes); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
