package loop

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		offset float64
		want   int
	}{
		{name: "zero", offset: 0, want: 0},
		{name: "toward end", offset: -150, want: 1},
		{name: "toward start", offset: 150, want: 3},
		{name: "exact boundary", offset: 100, want: 4},
		{name: "far past", offset: -900, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Split(tt.offset, 100, 5))
		})
	}
}

func TestPlaceLoopFormsSeamlessStrip(t *testing.T) {
	t.Parallel()

	const (
		n      = 5
		height = 100.0
		length = n * height
	)
	for _, offset := range []float64{-230, -100, -40, 0, 60, 100, 150, 250} {
		var l Layout
		l.Place(0, n, offset, height, length, true)

		tops := make([]float64, 0, n)
		for i := range n {
			y, ok := l.Table().Lookup(i)
			require.True(t, ok)
			tops = append(tops, float64(i)*height+y)
		}
		slices.Sort(tops)
		for i := 1; i < len(tops); i++ {
			assert.InDelta(t, height, tops[i]-tops[i-1], 1e-9, "offset %v", offset)
		}
		assert.LessOrEqual(t, tops[0], 0.0, "offset %v leaves a gap at the top", offset)
		assert.GreaterOrEqual(t, tops[n-1]+height, length-height, "offset %v", offset)
	}
}

func TestPlaceBoundedTranslatesEverySlotByOffset(t *testing.T) {
	t.Parallel()

	var l Layout
	l.Place(10, 4, -37, 10, 0, false)
	tbl := l.Table()
	assert.Equal(t, 10, tbl.First())
	assert.Equal(t, 4, tbl.Len())
	for i := 10; i < 14; i++ {
		y, ok := tbl.Lookup(i)
		require.True(t, ok)
		assert.Equal(t, -37.0, y)
	}
	_, ok := tbl.Lookup(14)
	assert.False(t, ok)
}

func TestTableResizeKeepsExistingEntries(t *testing.T) {
	t.Parallel()

	var tbl Table
	tbl.Resize(5, 3, 1)
	tbl.fill(0, 3, 7)
	tbl.Resize(4, 5, 2)

	want := map[int]float64{4: 2, 5: 7, 6: 7, 7: 7, 8: 2}
	for index, y := range want {
		got, ok := tbl.Lookup(index)
		require.True(t, ok)
		assert.Equal(t, y, got, "index %d", index)
	}
}
