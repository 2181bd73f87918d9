package loop

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeSub(t *testing.T) {
	t.Parallel()

	r := Range{Start: 10, End: 20}
	assert.Equal(t, []Range{{10, 12}, {18, 20}}, r.Sub(Range{13, 17}))
	assert.Equal(t, []Range{r}, r.Sub(Range{30, 40}))
	assert.Equal(t, []Range{r}, r.Sub(EmptyRange))
	assert.Empty(t, r.Sub(Range{0, 100}))
	assert.Equal(t, []Range{{15, 20}}, r.Sub(Range{5, 14}))
	assert.Nil(t, EmptyRange.Sub(r))
}

func TestRangeClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Range{0, 9}, Range{-5, 30}.Clamp(10))
	assert.Equal(t, EmptyRange, Range{12, 30}.Clamp(10))
	assert.Equal(t, 10, Range{0, 9}.Len())
	assert.Equal(t, "[0:9]", Range{0, 9}.String())
	assert.Equal(t, "[]", EmptyRange.String())
}

func TestNewWindowRequiresFactory(t *testing.T) {
	t.Parallel()

	_, err := NewWindow(nil, 3)
	require.ErrorIs(t, err, ErrNoFactory)
}

func TestWindowHysteresis(t *testing.T) {
	t.Parallel()

	f := newTestFactory(10, 10)
	w, err := NewWindow(f, 4.1)
	require.NoError(t, err)

	g := Geometry{Viewport: 100, Base: -4955, Height: 10, Count: 1000}
	require.True(t, w.Recompute(g))
	require.Equal(t, Range{480, 520}, w.Range())
	require.Equal(t, 41, w.Len())
	f.reset()

	g.Offset = 5
	assert.False(t, w.Track(g), "less than one item height must not recompute")
	assert.Empty(t, f.created)

	g.Offset = 10
	require.True(t, w.Track(g))
	assert.Equal(t, Range{479, 519}, w.Range())
	assert.Equal(t, []int{479}, f.created)
	assert.Equal(t, []int{520}, f.destroyed)
	f.reset()

	g.Offset = 0
	require.True(t, w.Track(g))
	assert.Equal(t, Range{480, 520}, w.Range())
	assert.Equal(t, []int{520}, f.created)
	assert.Equal(t, []int{479}, f.destroyed)
}

func TestWindowReconcileOrder(t *testing.T) {
	t.Parallel()

	f := newTestFactory(1, 1)
	w, err := NewWindow(f, 3)
	require.NoError(t, err)

	w.Fill(Range{0, 9})
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, f.created)
	f.reset()

	realized, virtualized := w.Reconcile(w.Range(), Range{3, 5})
	assert.Equal(t, 0, realized)
	assert.Equal(t, 7, virtualized)
	assert.Equal(t, []int{9, 8, 7, 6, 2, 1, 0}, f.destroyed)

	f.reset()
	w.Reconcile(w.Range(), Range{20, 22})
	assert.Equal(t, []int{20, 21, 22}, f.created)
	assert.Equal(t, []int{5, 4, 3}, f.destroyed)

	indices := make([]int, 0, w.Len())
	for _, s := range w.Slots() {
		indices = append(indices, s.Index)
	}
	assert.Equal(t, []int{20, 21, 22}, indices)
	assert.Equal(t, w.Len(), f.live)
}

func TestWindowRealizeSkips(t *testing.T) {
	t.Parallel()

	f := newTestFactory(1, 1)
	f.fail = map[int]bool{2: true}
	w, err := NewWindow(f, 3)
	require.NoError(t, err)

	assert.Equal(t, 4, w.Realize(Range{0, 4}), "a failed index must not stop the batch")
	_, ok := w.Slot(2)
	assert.False(t, ok)

	assert.Equal(t, 0, w.Realize(Range{3, 3}), "already bound indices are skipped")
	assert.Equal(t, 4, w.Len())

	slot, ok := w.Slot(3)
	require.True(t, ok)
	assert.Equal(t, 3, slot.Index)
}

func TestWindowRetriesFailedIndex(t *testing.T) {
	t.Parallel()

	f := newTestFactory(10, 10)
	f.fail = map[int]bool{500: true}
	w, err := NewWindow(f, 4.1)
	require.NoError(t, err)

	g := Geometry{Viewport: 100, Base: -4955, Height: 10, Count: 1000}
	require.True(t, w.Recompute(g))
	require.Equal(t, Range{480, 520}, w.Range())
	_, ok := w.Slot(500)
	require.False(t, ok)
	assert.Equal(t, 40, w.Len())

	delete(f.fail, 500)
	f.reset()

	g.Offset = 5
	assert.False(t, w.Track(g), "retries wait for the next recompute")

	g.Offset = 10
	require.True(t, w.Track(g))
	assert.Equal(t, Range{479, 519}, w.Range())
	assert.Equal(t, []int{479, 500}, f.created)
	assert.Equal(t, []int{520}, f.destroyed)
	_, ok = w.Slot(500)
	assert.True(t, ok)
	assert.Equal(t, 41, w.Len())

	f.reset()
	assert.False(t, w.Recompute(g), "a complete pool is left alone")
	assert.Empty(t, f.created)
}

func TestWindowVirtualizeRestore(t *testing.T) {
	t.Parallel()

	f := newTestFactory(1, 1)
	w, err := NewWindow(f, 3)
	require.NoError(t, err)

	w.Fill(Range{0, 5})
	first, _ := w.Slot(2)
	w.Virtualize(Range{2, 2})
	_, ok := w.Slot(2)
	require.False(t, ok)

	w.Realize(Range{2, 2})
	again, ok := w.Slot(2)
	require.True(t, ok)
	assert.Equal(t, 2, again.Index)
	assert.NotEqual(t, first.ID, again.ID)

	w.Clear()
	assert.Zero(t, w.Len())
	assert.Zero(t, f.live)
	assert.True(t, w.Range().Empty())
}

func TestComputeRangeCoversViewport(t *testing.T) {
	t.Parallel()

	w, err := NewWindow(newTestFactory(1, 1), 1)
	require.NoError(t, err)

	// 50 tall viewport, items 10 tall, item 0 at the top.
	r := w.ComputeRange(Geometry{Viewport: 50, Height: 10, Count: 100})
	assert.Equal(t, Range{0, 5}, r)

	r = w.ComputeRange(Geometry{Viewport: 50, Height: 10, Count: 100, Offset: -5})
	assert.Equal(t, Range{0, 6}, r)

	// Items aligned to the viewport edges still get one item of margin on
	// each side, so at least ceil(V/H)+1 indices are realized.
	for _, g := range []Geometry{
		{Viewport: 50, Base: -500, Height: 10, Count: 100},
		{Viewport: 50, Base: -500, Offset: 3, Height: 10, Count: 100},
		{Viewport: 45, Base: -500, Offset: -7, Height: 10, Count: 100},
	} {
		r := w.ComputeRange(g)
		assert.GreaterOrEqual(t, r.Len(), int(math.Ceil(g.Viewport/g.Height))+1, "geometry %+v", g)
		first := int(math.Floor((-g.Base - g.Offset) / g.Height))
		last := int(math.Ceil((g.Viewport-g.Base-g.Offset)/g.Height)) - 1
		assert.True(t, r.Contains(first) && r.Contains(last), "geometry %+v range %v", g, r)
	}
	assert.Equal(t, Range{49, 55}, w.ComputeRange(Geometry{Viewport: 50, Base: -500, Height: 10, Count: 100}))

	assert.True(t, w.ComputeRange(Geometry{Viewport: 50, Count: 100}).Empty())
}
