package loop

import (
	"math"
	"time"
)

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Linear progresses at a constant rate.
func Linear(t float64) float64 {
	return t
}

// EaseInOutExpo accelerates exponentially, then decelerates.
func EaseInOutExpo(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return math.Pow(2, 20*t-10) / 2
	}
	return (2 - math.Pow(2, -20*t+10)) / 2
}

// Driver animates a scalar from one value to another and feeds every step
// into the same delta path that drags use. It keeps its own intermediary
// value, so wrapping of the real offset never disturbs the interpolation.
type Driver struct {
	apply func(d float64)

	from, to float64
	value    float64

	duration time.Duration
	elapsed  time.Duration
	easing   Easing

	running bool
}

// NewDriver returns an idle driver that reports its steps to apply.
func NewDriver(apply func(d float64)) *Driver {
	return &Driver{apply: apply, easing: Linear}
}

// Run starts an animation from from to to. Any animation in flight is
// dropped. A non-positive duration applies the whole distance at once.
func (d *Driver) Run(from, to float64, duration time.Duration, easing Easing) {
	if easing == nil {
		easing = Linear
	}
	d.from, d.to, d.value = from, to, from
	d.duration = duration
	d.elapsed = 0
	d.easing = easing
	d.running = true
	if duration <= 0 {
		d.Advance(0)
	}
}

// Cancel stops the animation where it is.
func (d *Driver) Cancel() {
	d.running = false
}

// Running reports whether an animation is in flight.
func (d *Driver) Running() bool {
	return d.running
}

// Target returns the value the current or last animation heads to.
func (d *Driver) Target() float64 {
	return d.to
}

// Advance moves the animation forward by dt and applies the resulting step.
// It reports whether the animation is still running afterwards.
func (d *Driver) Advance(dt time.Duration) bool {
	if !d.running {
		return false
	}
	d.elapsed += dt

	progress := 1.0
	if d.duration > 0 && d.elapsed < d.duration {
		progress = float64(d.elapsed) / float64(d.duration)
	}

	next := d.to
	if progress < 1 {
		next = d.from + (d.to-d.from)*d.easing(progress)
		lo, hi := min(d.from, d.to), max(d.from, d.to)
		next = min(max(next, lo), hi)
	} else {
		d.running = false
	}

	step := next - d.value
	d.value = next
	if step != 0 && d.apply != nil {
		d.apply(step)
	}
	return d.running
}
