package loop

import "time"

// Alignment positions content along one axis of the viewport.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

// String returns the lower-case name of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	case AlignStretch:
		return "stretch"
	}
	return "unknown"
}

// ParseAlignment converts a name produced by [Alignment.String] back into an
// alignment. Unknown names yield AlignCenter and false.
func ParseAlignment(name string) (Alignment, bool) {
	switch name {
	case "start", "top", "left":
		return AlignStart, true
	case "center", "middle":
		return AlignCenter, true
	case "end", "bottom", "right":
		return AlignEnd, true
	case "stretch":
		return AlignStretch, true
	}
	return AlignCenter, false
}

const (
	// DefaultAnimationDuration is the time it takes to move to a new item.
	DefaultAnimationDuration = 200 * time.Millisecond
	// DefaultRealizationMultiplier sizes the realization window relative to
	// the viewport height.
	DefaultRealizationMultiplier = 3
	// DefaultDragFactor converts pointer travel into offset travel.
	DefaultDragFactor = 0.5
	// DefaultViscosity scales the resistance applied past the end of a
	// bounded list.
	DefaultViscosity = 2
)

// Config holds the options recognized by a [Panel].
type Config struct {
	// Loop wraps item identity endlessly through the backing sequence.
	Loop bool
	// ShownCount overrides the number of items that make up one loop cycle.
	// Values below 1 mean "all items".
	ShownCount int
	// SnapToItem centers the closest item when a drag completes.
	SnapToItem bool

	HorizontalAlignment Alignment
	VerticalAlignment   Alignment

	// SelectedIndex is the item centered on the first layout pass.
	SelectedIndex int

	AnimationDuration time.Duration
	Easing            Easing

	// Virtualize keeps only the items near the viewport materialized. It is
	// ignored in loop mode.
	Virtualize            bool
	RealizationMultiplier float64

	DragFactor float64
	Viscosity  float64
}

// DefaultConfig returns the default options.
func DefaultConfig() Config {
	return Config{
		SnapToItem:            true,
		HorizontalAlignment:   AlignCenter,
		VerticalAlignment:     AlignCenter,
		AnimationDuration:     DefaultAnimationDuration,
		Easing:                Linear,
		RealizationMultiplier: DefaultRealizationMultiplier,
		DragFactor:            DefaultDragFactor,
		Viscosity:             DefaultViscosity,
	}
}

// normalized fills zero values with their defaults.
func (c Config) normalized() Config {
	if c.AnimationDuration <= 0 {
		c.AnimationDuration = DefaultAnimationDuration
	}
	if c.Easing == nil {
		c.Easing = Linear
	}
	if c.RealizationMultiplier < 1 {
		c.RealizationMultiplier = DefaultRealizationMultiplier
	}
	if c.DragFactor <= 0 {
		c.DragFactor = DefaultDragFactor
	}
	if c.Viscosity <= 0 {
		c.Viscosity = DefaultViscosity
	}
	if c.SelectedIndex < 0 {
		c.SelectedIndex = 0
	}
	return c
}
