package rectpack

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortHeight(t *testing.T) {
	sizes := []Size{NewSizeID(0, 2, 3), NewSizeID(1, 5, 3), NewSizeID(2, 1, 9), NewSizeID(3, 5, 3)}
	slices.SortStableFunc(sizes, SortHeight)

	ids := make([]int, len(sizes))
	for i, s := range sizes {
		ids[i] = s.ID
	}
	assert.Equal(t, []int{2, 1, 3, 0}, ids)
}

func TestResolveSort(t *testing.T) {
	for _, name := range []string{"height", "width", "area", "perimeter", "maxside"} {
		fn, ok := ResolveSort(name)
		assert.True(t, ok, name)
		assert.NotNil(t, fn, name)
	}
	fn, ok := ResolveSort("none")
	assert.True(t, ok)
	assert.Nil(t, fn)

	_, ok = ResolveSort("random")
	assert.False(t, ok)
}

func TestResolveAlgorithm(t *testing.T) {
	algo, heuristic, err := ResolveAlgorithm("Guillotine", "BestShortSideFit")
	require.NoError(t, err)
	assert.Equal(t, Guillotine, algo)
	assert.Equal(t, BestShortSideFit, heuristic)

	algo, _, err = ResolveAlgorithm("Skyline", "anything")
	require.NoError(t, err)
	assert.Equal(t, Skyline, algo)

	_, _, err = ResolveAlgorithm("MaxRects", "")
	assert.Error(t, err)
	algo, heuristic, err = ResolveAlgorithm("Guillotine", "WorstLongSideFit")
	require.NoError(t, err)
	assert.Equal(t, Guillotine, algo)
	assert.Equal(t, WorstLongSideFit, heuristic)

	_, _, err = ResolveAlgorithm("Guillotine", "MinWaste")
	assert.Error(t, err)
}

func TestResolveSplit(t *testing.T) {
	split, err := ResolveSplit("")
	require.NoError(t, err)
	assert.Equal(t, SplitShorterLeftoverAxis, split)

	split, err = ResolveSplit("MaximizeArea")
	require.NoError(t, err)
	assert.Equal(t, SplitMaximizeArea, split)

	_, err = ResolveSplit("Diagonal")
	assert.Error(t, err)
}

func TestHeuristic_FitScore(t *testing.T) {
	f := FreeRect{Width: 10, Height: 6}
	s1, s2 := BestAreaFit.fitScore(4, 5, f)
	assert.Equal(t, []int{40, 1}, []int{s1, s2})
	s1, s2 = BestShortSideFit.fitScore(4, 5, f)
	assert.Equal(t, []int{1, 6}, []int{s1, s2})
	s1, s2 = BestLongSideFit.fitScore(4, 5, f)
	assert.Equal(t, []int{6, 1}, []int{s1, s2})

	// Worst 系列取反
	s1, s2 = WorstAreaFit.fitScore(4, 5, f)
	assert.Equal(t, []int{-40, -1}, []int{s1, s2})
	s1, s2 = WorstShortSideFit.fitScore(4, 5, f)
	assert.Equal(t, []int{-1, -6}, []int{s1, s2})
	s1, s2 = WorstLongSideFit.fitScore(4, 5, f)
	assert.Equal(t, []int{-6, -1}, []int{s1, s2})
}
