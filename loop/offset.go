package loop

import "math"

// Tracker owns the distance the visible window has scrolled from its neutral
// position. Positive offsets move content toward the end of the viewport,
// revealing earlier items.
type Tracker struct {
	offset float64
	loop   bool
	// Length of one loop cycle. Only used in loop mode.
	length float64
}

// NewTracker returns a tracker in bounded mode at offset zero.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetLoop switches between loop mode, where offsets wrap around a cycle of
// the given length, and bounded mode. Switching into loop mode wraps the
// current offset immediately.
func (t *Tracker) SetLoop(loop bool, length float64) {
	t.loop = loop
	t.length = length
	if t.looping() {
		t.offset = wrap(t.offset, t.length)
	}
}

// Loop returns whether offsets wrap.
func (t *Tracker) Loop() bool {
	return t.loop
}

// Offset returns the current offset.
func (t *Tracker) Offset() float64 {
	return t.offset
}

// Set replaces the offset, wrapping it in loop mode.
func (t *Tracker) Set(offset float64) {
	t.offset = offset
	if t.looping() {
		t.offset = wrap(t.offset, t.length)
	}
}

// Apply moves the offset by d. Bounded mode never clamps; callers damp d
// near the ends themselves.
func (t *Tracker) Apply(d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return
	}
	t.Set(t.offset + d)
}

// MovingTowardStart reports whether the content is shifted so that earlier
// items are revealed.
func (t *Tracker) MovingTowardStart() bool {
	return t.offset > 0
}

// MovingTowardEnd reports whether the content is shifted so that later items
// are revealed.
func (t *Tracker) MovingTowardEnd() bool {
	return t.offset < 0
}

func (t *Tracker) looping() bool {
	return t.loop && t.length > 0 && !math.IsInf(t.length, 0)
}

// wrap maps v into (-length/2, length/2].
func wrap(v, length float64) float64 {
	r := math.Mod(v, length)
	half := length / 2
	if r > half {
		r -= length
	} else if r <= -half {
		r += length
	}
	return r
}
