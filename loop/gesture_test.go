package loop

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundedHost models ten items of height 50 centered on offset zero.
func boundedHost(offset float64) *testHost {
	return &testHost{off: offset, neutral: 0, maxAllowed: 250}
}

func TestGestureWithinBounds(t *testing.T) {
	t.Parallel()

	h := boundedHost(0)
	g := newGesture(h, DefaultDragFactor, DefaultViscosity, true)
	g.Begin()
	for range 4 {
		assert.Equal(t, -10.0, g.Delta(-10, false))
	}
	assert.False(t, g.PastEnd())
	assert.Equal(t, -40.0, h.off)
	assert.Equal(t, 1, h.cancelled)
}

func TestGestureViscosity(t *testing.T) {
	t.Parallel()

	h := boundedHost(-260)
	g := newGesture(h, DefaultDragFactor, 2, true)
	g.Begin()
	require.True(t, g.PastEnd())

	assert.InDelta(t, -2, g.Delta(-10, false), 1e-9)

	prev := 2.0
	for range 20 {
		d := -g.Delta(-10, false)
		assert.Less(t, d, prev, "resistance must grow with the overscroll")
		assert.Greater(t, d, 0.0)
		prev = d
	}
}

func TestGestureViscosityGrowsWithOverscroll(t *testing.T) {
	t.Parallel()

	prev := math.Inf(1)
	for _, past := range []float64{0.5, 1, 1.5, 2, 5} {
		h := boundedHost(-250 - past)
		g := newGesture(h, DefaultDragFactor, 2, true)
		g.Begin()
		require.True(t, g.PastEnd())

		d := math.Abs(g.Delta(-10, false))
		assert.InDelta(t, 10/past*2, d, 1e-9)
		assert.Less(t, d, prev, "overscroll %v", past)
		prev = d
	}
}

func TestGestureReturnsInsideBounds(t *testing.T) {
	t.Parallel()

	h := boundedHost(-255)
	g := newGesture(h, DefaultDragFactor, 2, true)
	g.Begin()
	require.True(t, g.PastEnd())

	h.off = -200
	assert.Equal(t, 20.0, g.Delta(20, false))
	assert.False(t, g.PastEnd())
}

func TestGestureInertiaPastEndSnapsBackOnce(t *testing.T) {
	t.Parallel()

	h := boundedHost(-260)
	g := newGesture(h, DefaultDragFactor, 2, true)
	g.Begin()

	assert.Zero(t, g.Delta(-5, true))
	assert.Zero(t, g.Delta(-5, true))
	assert.Equal(t, []bool{false}, h.snapBacks)
	assert.Equal(t, PhaseSnappingBack, g.Phase())
	assert.Equal(t, -260.0, h.off)

	g.settle()
	assert.Equal(t, PhaseIdle, g.Phase())
}

func TestGestureReleasePastEndSnapsBack(t *testing.T) {
	t.Parallel()

	h := boundedHost(240)
	g := newGesture(h, DefaultDragFactor, 2, true)
	g.DragBy(40)
	require.True(t, g.PastEnd())

	g.Release(1000)
	assert.Equal(t, []bool{true}, h.snapBacks)
	assert.Equal(t, PhaseSnappingBack, g.Phase())
	assert.Zero(t, h.snapClosed)

	g.Complete()
	assert.Len(t, h.snapBacks, 1, "completing during a snap back does nothing")
}

func TestGestureSlowReleaseSnapsToClosest(t *testing.T) {
	t.Parallel()

	h := boundedHost(0)
	g := newGesture(h, DefaultDragFactor, 2, true)
	g.DragBy(-30)
	assert.Equal(t, -15.0, h.off)

	g.Release(0)
	assert.Equal(t, PhaseIdle, g.Phase())
	assert.Equal(t, 1, h.snapClosed)
}

func TestGestureGlide(t *testing.T) {
	t.Parallel()

	h := boundedHost(0)
	h.maxAllowed = 1e9
	g := newGesture(h, DefaultDragFactor, 2, false)
	g.DragBy(-10)
	g.Release(-800)
	require.Equal(t, PhaseGliding, g.Phase())

	for range 1000 {
		g.Tick(16 * time.Millisecond)
		if g.Phase() != PhaseGliding {
			break
		}
	}
	assert.Equal(t, PhaseIdle, g.Phase())
	assert.Less(t, h.off, -5.0)
	assert.Zero(t, h.snapClosed, "snapping is disabled")
}

func TestGestureLoopPassesThrough(t *testing.T) {
	t.Parallel()

	h := &testHost{loop: true}
	g := newGesture(h, DefaultDragFactor, 2, true)
	g.Begin()
	assert.Equal(t, 10_000.0, g.Delta(10_000, false))
	assert.Equal(t, 5.0, g.Delta(5, true))
	assert.False(t, g.PastEnd())
}

func TestGestureCancel(t *testing.T) {
	t.Parallel()

	h := boundedHost(0)
	g := newGesture(h, DefaultDragFactor, 2, true)
	g.DragBy(-100)
	g.Release(-800)
	g.Cancel()
	assert.Equal(t, PhaseIdle, g.Phase())
	assert.Zero(t, h.snapClosed)

	before := h.off
	g.Tick(time.Second)
	assert.Equal(t, before, h.off)
}

func TestPhaseString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "snapping back", PhaseSnappingBack.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
