package loop

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

func newTestPanel(t *testing.T, src Source, f *testFactory, cfg Config) *Panel {
	t.Helper()
	p, err := New(src, f, cfg)
	require.NoError(t, err)
	return p
}

// settle ticks the panel until nothing is in flight.
func settle(t *testing.T, p *Panel) {
	t.Helper()
	for range 1000 {
		if !p.Animating() {
			return
		}
		p.Tick(frame)
	}
	t.Fatal("panel never settled")
}

func TestNewRequiresFactoryAndSource(t *testing.T) {
	t.Parallel()

	_, err := New(countSource(3), nil, DefaultConfig())
	require.ErrorIs(t, err, ErrNoFactory)

	_, err = New(nil, newTestFactory(1, 1), DefaultConfig())
	require.ErrorIs(t, err, ErrNoSource)
}

func TestLayoutCentersSelectedIndex(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SelectedIndex = 3
	p := newTestPanel(t, countSource(10), newTestFactory(8, 10), cfg)
	p.Layout(40, 50)

	h, ok := p.ItemHeight()
	require.True(t, ok)
	assert.Equal(t, 10.0, h)

	pl, ok := indexOf(p.Placements(), 3)
	require.True(t, ok)
	assert.InDelta(t, 20, pl.Y, 1e-9)
	assert.InDelta(t, 16, pl.X, 1e-9, "centered horizontally")
	assert.Equal(t, 8.0, pl.Width)
	assert.False(t, p.Animating(), "the first pass must not animate")
	assert.Equal(t, 3, p.SelectedIndex())
}

func TestHorizontalAlignment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		align Alignment
		x     float64
		width float64
	}{
		{AlignStart, 0, 8},
		{AlignCenter, 16, 8},
		{AlignEnd, 32, 8},
		{AlignStretch, 0, 40},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			cfg.HorizontalAlignment = tt.align
			p := newTestPanel(t, countSource(3), newTestFactory(8, 10), cfg)
			p.Layout(40, 50)
			pl, ok := indexOf(p.Placements(), 0)
			require.True(t, ok)
			assert.Equal(t, tt.x, pl.X)
			assert.Equal(t, tt.width, pl.Width)
		})
	}
}

func TestSetSelectedIndexBeforeLayout(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(10), newTestFactory(8, 10), DefaultConfig())
	p.SetSelectedIndex(4)
	p.ScrollToIndex(6, time.Second)
	assert.False(t, p.Animating())

	p.Layout(40, 50)
	pl, ok := indexOf(p.Placements(), 4)
	require.True(t, ok)
	assert.InDelta(t, 20, pl.Y, 1e-9)
	assert.False(t, p.Animating())
}

func TestSetSelectedIndexLatestWins(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(10), newTestFactory(8, 10), DefaultConfig())
	var changes []int
	p.SetChangedFunc(func(index int) { changes = append(changes, index) })
	p.Layout(40, 50)

	p.SetSelectedIndex(5).SetSelectedIndex(7)
	assert.True(t, p.Animating())
	settle(t, p)

	assert.Equal(t, []int{5, 7}, changes)
	assert.Equal(t, 7, p.SelectedIndex())
	pl, ok := indexOf(p.Placements(), 7)
	require.True(t, ok)
	assert.InDelta(t, 20, pl.Y, 1e-9)
}

func TestSetSelectedIndexOutOfRange(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(10), newTestFactory(8, 10), DefaultConfig())
	p.Layout(40, 50)
	p.SetSelectedIndex(10)
	p.ScrollToIndex(-1, time.Second)
	p.ScrollToIndex(99, time.Second)
	assert.False(t, p.Animating())
	assert.Equal(t, 0, p.SelectedIndex())
}

func TestTap(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.VerticalAlignment = AlignStart
	cfg.SelectedIndex = 1
	p := newTestPanel(t, countSource(3), newTestFactory(10, 100), cfg)
	var taps []int
	p.SetTapFunc(func(index int) { taps = append(taps, index) })
	p.Layout(100, 300)

	tops := make([]float64, 0, 3)
	for _, pl := range p.Placements() {
		tops = append(tops, pl.Y)
	}
	require.Equal(t, []float64{0, 100, 200}, tops)

	assert.Equal(t, 1, p.Tap(150))
	assert.Equal(t, 1, p.Tap(100), "the top edge belongs to the slot")
	assert.Equal(t, 2, p.Tap(250))
	settle(t, p)

	assert.Equal(t, []int{1, 1, 2}, taps)
	assert.Equal(t, 2, p.SelectedIndex())
	pl, ok := indexOf(p.Placements(), 2)
	require.True(t, ok)
	assert.InDelta(t, 100, pl.Y, 1e-9)
	assert.Equal(t, -1, p.Tap(250))
}

func TestDragSnapsToClosest(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(10), newTestFactory(8, 10), DefaultConfig())
	p.Layout(40, 50)

	g := p.Gesture()
	g.DragBy(-24)
	assert.Equal(t, PhaseDragging, p.Phase())
	pl, _ := indexOf(p.Placements(), 1)
	assert.InDelta(t, 18, pl.Y, 1e-9)

	g.Release(0)
	settle(t, p)
	assert.Equal(t, 1, p.SelectedIndex())
	pl, _ = indexOf(p.Placements(), 1)
	assert.InDelta(t, 20, pl.Y, 1e-9)
}

func TestDragPastStartSnapsBack(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(10), newTestFactory(8, 10), DefaultConfig())
	p.Layout(40, 50)

	g := p.Gesture()
	g.DragBy(200)
	require.True(t, g.PastEnd())

	g.Release(0)
	assert.Equal(t, PhaseSnappingBack, p.Phase())
	settle(t, p)

	assert.Equal(t, PhaseIdle, p.Phase())
	assert.False(t, g.PastEnd())
	assert.Equal(t, 0, p.SelectedIndex())
	pl, _ := indexOf(p.Placements(), 0)
	assert.InDelta(t, 20, pl.Y, 1e-9)
}

func TestDragPastEndSnapsToLastItem(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(10), newTestFactory(8, 10), DefaultConfig())
	p.Layout(40, 50)
	p.SetAnimationDuration(50 * time.Millisecond)

	g := p.Gesture()
	g.DragBy(-300)
	g.Release(0)
	settle(t, p)

	assert.Equal(t, 9, p.SelectedIndex())
	pl, _ := indexOf(p.Placements(), 9)
	assert.InDelta(t, 20, pl.Y, 1e-9)
}

func TestDragCancelsAnimation(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(10), newTestFactory(8, 10), DefaultConfig())
	p.Layout(40, 50)
	p.SetSelectedIndex(8)
	p.Tick(frame)

	p.Gesture().Begin()
	assert.False(t, p.Animating())
	before := p.Offset()
	p.Tick(frame)
	assert.Equal(t, before, p.Offset())
}

func TestVirtualizedPanel(t *testing.T) {
	t.Parallel()

	f := newTestFactory(4, 1)
	cfg := DefaultConfig()
	cfg.Virtualize = true
	p := newTestPanel(t, countSource(1000), f, cfg)
	p.Layout(10, 10)

	assert.Equal(t, Range{0, 15}, p.Range())
	assert.Equal(t, 16, p.Counts().ShownCount())
	assert.Equal(t, 1000, p.Counts().LogicalCount())
	assert.Equal(t, 16, f.live)

	p.ScrollToIndex(500, 200*time.Millisecond)
	for p.Animating() {
		p.Tick(10 * time.Millisecond)
	}

	assert.True(t, p.Range().Contains(500))
	assert.Less(t, len(p.Slots()), 40)
	assert.Equal(t, len(p.Slots()), f.live)
	assert.True(t, slices.IsSortedFunc(p.Slots(), func(a, b *Slot) int { return a.Index - b.Index }))

	pl, ok := indexOf(p.Placements(), 500)
	require.True(t, ok)
	assert.InDelta(t, 4.5, pl.Y, 1e-6)
}

func TestLoopPanelKeepsPool(t *testing.T) {
	t.Parallel()

	f := newTestFactory(10, 100)
	cfg := DefaultConfig()
	cfg.Loop = true
	cfg.Virtualize = true
	p := newTestPanel(t, countSource(5), f, cfg)
	p.Layout(100, 300)
	require.Len(t, p.Slots(), 5)

	g := p.Gesture()
	g.Begin()
	for _, d := range []float64{90, 90, 90} {
		g.Delta(d, false)
	}
	assert.Len(t, p.Slots(), 5)
	assert.Equal(t, 5, f.live)
	assert.Greater(t, p.Offset(), -250.0)
	assert.LessOrEqual(t, p.Offset(), 250.0)

	ys := make([]float64, 0, 5)
	for _, pl := range p.Placements() {
		ys = append(ys, pl.Y)
	}
	slices.Sort(ys)
	for i := 1; i < len(ys); i++ {
		assert.InDelta(t, 100, ys[i]-ys[i-1], 1e-9)
	}
}

func TestLoopFullCycleRestoresPlacements(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		count  int
		height float64
		deltas []float64
	}{
		"uneven steps over two cycles": {
			count:  5,
			height: 100,
			deltas: []float64{130, 170, 90, 110, 500, 0},
		},
		"fractional steps backwards": {
			count:  7,
			height: 37.5,
			deltas: slices.Repeat([]float64{-0.5}, 525),
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			cfg.Loop = true
			p := newTestPanel(t, countSource(tt.count), newTestFactory(10, tt.height), cfg)
			p.Layout(100, 300)

			before := make(map[int]float64)
			for _, pl := range p.Placements() {
				before[pl.Index] = pl.Y
			}
			require.Len(t, before, tt.count)

			g := p.Gesture()
			g.Begin()
			for _, d := range tt.deltas {
				g.Delta(d, false)
			}

			after := p.Placements()
			require.Len(t, after, tt.count)
			for _, pl := range after {
				y, ok := before[pl.Index]
				require.True(t, ok, "index %d", pl.Index)
				assert.InDelta(t, y, pl.Y, 1e-9, "index %d", pl.Index)
			}
		})
	}
}

func TestLoopSelectionAcrossSeam(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Loop = true
	cfg.SelectedIndex = 4
	p := newTestPanel(t, countSource(5), newTestFactory(10, 100), cfg)
	p.Layout(100, 300)

	p.Gesture().DragBy(-200)
	p.Gesture().Release(0)
	settle(t, p)

	assert.Equal(t, 0, p.SelectedIndex())
	pl, ok := indexOf(p.Placements(), 0)
	require.True(t, ok)
	assert.InDelta(t, 100, pl.Y, 1e-9)
}

func TestUnusableSizesAreSkipped(t *testing.T) {
	t.Parallel()

	f := newTestFactory(8, 10)
	f.heights = map[int]float64{2: nan}
	p := newTestPanel(t, countSource(5), f, DefaultConfig())
	p.Layout(40, 50)

	assert.Len(t, p.Placements(), 4)
	_, ok := indexOf(p.Placements(), 2)
	assert.False(t, ok)
}

func TestUnmeasurableItemsDeferLayout(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(5), newTestFactory(8, 0), DefaultConfig())
	p.Layout(40, 50)

	_, ok := p.ItemHeight()
	assert.False(t, ok)
	assert.Empty(t, p.Placements())
	assert.Equal(t, -1, p.Tap(10))
}

func TestEmptySource(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(0), newTestFactory(8, 10), DefaultConfig())
	p.Layout(40, 50)
	assert.Empty(t, p.Placements())
	assert.Empty(t, p.Slots())
	p.Gesture().DragBy(10)
	p.Gesture().Release(0)
	assert.False(t, p.Animating())
}

func TestResetRebuildsPool(t *testing.T) {
	t.Parallel()

	src := &mutableSource{n: 3}
	f := newTestFactory(8, 10)
	cfg := DefaultConfig()
	cfg.SelectedIndex = 2
	p := newTestPanel(t, src, f, cfg)
	p.Layout(40, 50)
	require.Len(t, p.Slots(), 3)

	src.n = 6
	p.Reset()
	assert.Len(t, p.Slots(), 6)
	assert.Equal(t, 6, f.live)
	pl, _ := indexOf(p.Placements(), 2)
	assert.InDelta(t, 20, pl.Y, 1e-9)

	src.n = 1
	p.Reset()
	assert.Equal(t, 0, p.SelectedIndex())
	assert.Equal(t, 1, f.live)
}

func TestSetLoopRebuilds(t *testing.T) {
	t.Parallel()

	f := newTestFactory(8, 10)
	cfg := DefaultConfig()
	cfg.Virtualize = true
	p := newTestPanel(t, countSource(100), f, cfg)
	p.Layout(40, 20)
	windowed := len(p.Slots())
	require.Less(t, windowed, 100)

	p.SetLoop(true)
	assert.True(t, p.Config().Loop)
	assert.Len(t, p.Slots(), 100)
	assert.Equal(t, 100, f.live)
}

func TestClose(t *testing.T) {
	t.Parallel()

	f := newTestFactory(8, 10)
	p := newTestPanel(t, countSource(10), f, DefaultConfig())
	p.Layout(40, 50)
	p.SetSelectedIndex(5)

	p.Close()
	assert.True(t, p.Closed())
	assert.Zero(t, f.live)
	assert.False(t, p.Animating())

	p.SetSelectedIndex(2)
	p.Layout(40, 50)
	p.Tick(frame)
	p.Gesture().DragBy(10)
	assert.Equal(t, -1, p.Tap(20))
	assert.Empty(t, p.Placements())
	assert.Zero(t, f.live)
	assert.Equal(t, 5, p.SelectedIndex())
}

func TestProgress(t *testing.T) {
	t.Parallel()

	p := newTestPanel(t, countSource(11), newTestFactory(8, 10), DefaultConfig())
	assert.Zero(t, p.Progress())
	p.Layout(40, 50)
	assert.InDelta(t, 0, p.Progress(), 1e-9)

	p.SetSelectedIndex(5)
	settle(t, p)
	assert.InDelta(t, 0.5, p.Progress(), 1e-9)

	p.SetSelectedIndex(10)
	settle(t, p)
	assert.InDelta(t, 1, p.Progress(), 1e-9)
}
