package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSkyline(t *testing.T, cfg Config) *skylinePack {
	t.Helper()
	cfg.Algorithm = Skyline
	require.NoError(t, cfg.validate())
	check := &asserter{hook: func(msg string) { t.Errorf("assertion: %s", msg) }}
	return newSkyline(&cfg, check)
}

func TestSkyline_BottomLeft(t *testing.T) {
	p := newTestSkyline(t, Config{Width: 10, AllowGrowth: true})

	for _, step := range []struct {
		w, h int
		want Point
	}{
		{6, 4, NewPoint(0, 0)},
		{5, 4, NewPoint(0, 4)},
		{4, 4, NewPoint(6, 0)},
		{1, 1, NewPoint(5, 4)},
	} {
		pos, ok := p.insert(step.w, step.h)
		require.True(t, ok)
		assert.Equal(t, step.want, pos, "%dx%d", step.w, step.h)
		p.validate(true)
	}
	assert.Equal(t, 8, p.height())
	assert.Equal(t, []FreeRect{{X: 5, Y: 5, Width: 1, Height: 3}, {X: 6, Y: 4, Width: 4, Height: 4}}, p.freeRects())
}

func TestSkyline_ShadowedSegmentsAreCut(t *testing.T) {
	p := newTestSkyline(t, Config{Width: 10, Height: 10})

	_, ok := p.insert(3, 2)
	require.True(t, ok)
	_, ok = p.insert(3, 5)
	require.True(t, ok)
	// 宽矩形落在它跨过的最高线段上
	pos, ok := p.insert(8, 1)
	require.True(t, ok)
	assert.Equal(t, NewPoint(0, 5), pos)

	nodes := p.free.items()
	assert.Equal(t, []FreeRect{{X: 0, Y: 6, Width: 8}, {X: 8, Y: 0, Width: 2}}, nodes)
	p.validate(true)
}

func TestSkyline_FixedHeight(t *testing.T) {
	p := newTestSkyline(t, Config{Width: 10, Height: 4})
	_, ok := p.insert(10, 5)
	assert.False(t, ok)

	p.reset(4)
	_, ok = p.insert(10, 4)
	assert.True(t, ok)
	_, ok = p.insert(1, 1)
	assert.False(t, ok)
}

func TestSkyline_ValidateDetectsGap(t *testing.T) {
	var messages []string
	check := &asserter{hook: func(msg string) { messages = append(messages, msg) }}
	cfg := Config{Width: 10, Algorithm: Skyline}
	p := newSkyline(&cfg, check)
	p.free.clear()
	p.free.push(FreeRect{X: 0, Y: 0, Width: 4})
	p.free.push(FreeRect{X: 5, Y: 0, Width: 5})

	p.validate(false)

	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "contiguous")
}
