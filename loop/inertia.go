package loop

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	inertiaFPS       = 60
	inertiaFrequency = 4.0
	inertiaDamping   = 1.0
	// Velocities below this, in units per second, end the glide.
	inertiaMinVelocity = 1.0
)

// Inertia turns the velocity of a released drag into a decaying series of
// deltas. The velocity itself is driven to zero by a critically damped
// spring.
type Inertia struct {
	spring harmonica.Spring
	frame  time.Duration

	velocity float64
	// Rate of change of velocity, owned by the spring.
	accel float64
	// Time not yet consumed by a whole frame.
	pending time.Duration

	active bool
}

// NewInertia returns an idle inertia source.
func NewInertia() *Inertia {
	return &Inertia{
		spring: harmonica.NewSpring(harmonica.FPS(inertiaFPS), inertiaFrequency, inertiaDamping),
		frame:  time.Second / inertiaFPS,
	}
}

// Start begins a glide at velocity units per second. Velocities too small to
// matter leave the source idle.
func (in *Inertia) Start(velocity float64) bool {
	in.velocity = velocity
	in.accel = 0
	in.pending = 0
	in.active = !math.IsNaN(velocity) && math.Abs(velocity) >= inertiaMinVelocity
	return in.active
}

// Stop ends the glide.
func (in *Inertia) Stop() {
	in.active = false
	in.velocity = 0
	in.accel = 0
}

// Active reports whether the glide is still producing deltas.
func (in *Inertia) Active() bool {
	return in.active
}

// Advance consumes dt worth of whole frames and returns the distance covered.
// running is false once the velocity has decayed.
func (in *Inertia) Advance(dt time.Duration) (delta float64, running bool) {
	if !in.active {
		return 0, false
	}
	in.pending += dt
	seconds := in.frame.Seconds()
	for in.pending >= in.frame && in.active {
		in.pending -= in.frame
		delta += in.velocity * seconds
		in.velocity, in.accel = in.spring.Update(in.velocity, in.accel, 0)
		if math.Abs(in.velocity) < inertiaMinVelocity {
			in.Stop()
		}
	}
	return delta, in.active
}
