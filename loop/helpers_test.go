package loop

import (
	"errors"
	"math"
)

type countSource int

func (s countSource) Len() int { return int(s) }

type testHandle struct {
	index  int
	width  float64
	height float64
}

func (h *testHandle) Size() (float64, float64) { return h.width, h.height }

// testFactory hands out fixed size handles and records the order of every
// create and destroy call.
type testFactory struct {
	width, height float64
	// Heights overriding the default for single indices.
	heights map[int]float64
	fail    map[int]bool

	created   []int
	destroyed []int
	live      int
}

func newTestFactory(width, height float64) *testFactory {
	return &testFactory{width: width, height: height}
}

func (f *testFactory) CreateAt(index int) (Handle, error) {
	if f.fail[index] {
		return nil, errors.New("create failed")
	}
	h := f.height
	if v, ok := f.heights[index]; ok {
		h = v
	}
	f.created = append(f.created, index)
	f.live++
	return &testHandle{index: index, width: f.width, height: h}, nil
}

func (f *testFactory) Destroy(h Handle) {
	f.destroyed = append(f.destroyed, h.(*testHandle).index)
	f.live--
}

func (f *testFactory) reset() {
	f.created = nil
	f.destroyed = nil
}

// testHost is a gesture host over a plain offset.
type testHost struct {
	off        float64
	loop       bool
	neutral    float64
	maxAllowed float64

	applied    []float64
	cancelled  int
	snapBacks  []bool
	snapClosed int
}

func (h *testHost) offset() float64 { return h.off }
func (h *testHost) looping() bool   { return h.loop }

func (h *testHost) bounds() (float64, float64) { return h.neutral, h.maxAllowed }

func (h *testHost) applyDelta(d float64) {
	h.applied = append(h.applied, d)
	h.off += d
}

func (h *testHost) cancelAnimation()          { h.cancelled++ }
func (h *testHost) snapBack(towardStart bool) { h.snapBacks = append(h.snapBacks, towardStart) }
func (h *testHost) snapToClosest()            { h.snapClosed++ }

func indexOf(placements []Placement, index int) (Placement, bool) {
	for _, pl := range placements {
		if pl.Index == index {
			return pl, true
		}
	}
	return Placement{}, false
}

var nan = math.NaN()

type mutableSource struct{ n int }

func (s *mutableSource) Len() int { return s.n }
