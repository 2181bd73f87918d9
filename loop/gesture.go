package loop

import (
	"math"
	"time"
)

// Phase is the state of the gesture controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseGliding
	PhaseSnappingBack
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseGliding:
		return "gliding"
	case PhaseSnappingBack:
		return "snapping back"
	}
	return "unknown"
}

// gestureHost is the part of the panel a gesture drives.
type gestureHost interface {
	offset() float64
	looping() bool
	// bounds returns the offset of the list middle and the largest distance
	// from it that is allowed before the list counts as past its end.
	bounds() (neutral, maxAllowed float64)
	applyDelta(d float64)
	cancelAnimation()
	snapBack(towardStart bool)
	snapToClosest()
}

// Gesture converts drags into offset deltas. In bounded mode it resists
// dragging past the ends and keeps inertia from dragging on at a boundary.
type Gesture struct {
	host gestureHost

	factor    float64
	viscosity float64
	snap      bool

	phase   Phase
	pastEnd bool
	// Whether the next inertial delta past the end is the first one of the
	// current gesture.
	firstInertial bool

	inertia *Inertia
}

func newGesture(host gestureHost, factor, viscosity float64, snap bool) *Gesture {
	return &Gesture{
		host:          host,
		factor:        factor,
		viscosity:     viscosity,
		snap:          snap,
		firstInertial: true,
		inertia:       NewInertia(),
	}
}

// Phase returns the current state.
func (g *Gesture) Phase() Phase {
	return g.phase
}

// PastEnd reports whether the list is scrolled past one of its ends.
func (g *Gesture) PastEnd() bool {
	return g.pastEnd
}

// Begin starts a drag. Any animation or glide in flight is cancelled.
func (g *Gesture) Begin() {
	g.host.cancelAnimation()
	g.inertia.Stop()
	g.phase = PhaseDragging
	g.firstInertial = true
	g.pastEnd = false
	if !g.host.looping() {
		neutral, maxAllowed := g.host.bounds()
		g.pastEnd = math.Abs(g.host.offset()-neutral) > maxAllowed
	}
}

// DragBy feeds pointer travel into the drag, scaled by the drag factor.
func (g *Gesture) DragBy(dy float64) float64 {
	if g.phase != PhaseDragging {
		g.Begin()
	}
	return g.Delta(dy*g.factor, false)
}

// Delta applies an offset delta produced by the user (inertial false) or by
// inertia, and returns the delta that was actually applied.
func (g *Gesture) Delta(d float64, inertial bool) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	if g.host.looping() {
		g.host.applyDelta(d)
		return d
	}

	neutral, maxAllowed := g.host.bounds()
	if g.pastEnd {
		if inertial {
			// Inertia at the end decays slowly and feels laggy, so the first
			// inertial delta snaps back and the rest are dropped.
			if g.firstInertial {
				g.firstInertial = false
				g.inertia.Stop()
				g.snapBack()
			}
			return 0
		}

		past := math.Abs(g.host.offset()-neutral) - maxAllowed
		if past > 0 {
			d = g.viscous(d, past)
			g.host.applyDelta(d)
			return d
		}
		g.pastEnd = false
	}

	g.pastEnd = math.Abs(g.host.offset()+d-neutral) > maxAllowed
	g.host.applyDelta(d)
	return d
}

// viscous damps d the further the list already is past its end. The damped
// magnitude falls strictly as past grows.
func (g *Gesture) viscous(d, past float64) float64 {
	return d / past * g.viscosity
}

// Release ends the drag with the pointer velocity in units per second. A
// fast enough release glides on; otherwise the gesture completes at once.
func (g *Gesture) Release(velocity float64) {
	if g.phase != PhaseDragging {
		return
	}
	if !g.host.looping() && g.pastEnd {
		g.Complete()
		return
	}
	if g.inertia.Start(velocity * g.factor) {
		g.phase = PhaseGliding
		return
	}
	g.Complete()
}

// Tick advances a glide by dt.
func (g *Gesture) Tick(dt time.Duration) {
	if g.phase != PhaseGliding {
		return
	}
	d, running := g.inertia.Advance(dt)
	if d != 0 {
		g.Delta(d, true)
	}
	if g.phase == PhaseGliding && !running {
		g.Complete()
	}
}

// Complete finishes the gesture: a list past its end snaps back, otherwise
// the item closest to the center is snapped to when snapping is enabled.
func (g *Gesture) Complete() {
	g.inertia.Stop()
	defer func() { g.firstInertial = true }()
	if g.phase == PhaseSnappingBack {
		return
	}
	if g.pastEnd {
		g.snapBack()
		return
	}
	g.phase = PhaseIdle
	if g.snap {
		g.host.snapToClosest()
	}
}

// Cancel abandons the gesture without snapping.
func (g *Gesture) Cancel() {
	g.inertia.Stop()
	g.phase = PhaseIdle
	g.firstInertial = true
}

// settle is called once a snap back animation has finished.
func (g *Gesture) settle() {
	if g.phase == PhaseSnappingBack {
		g.phase = PhaseIdle
		g.pastEnd = false
	}
}

func (g *Gesture) snapBack() {
	neutral, _ := g.host.bounds()
	towardStart := g.host.offset() > neutral
	g.phase = PhaseSnappingBack
	g.host.snapBack(towardStart)
}
