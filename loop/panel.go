package loop

import (
	"fmt"
	"math"
	"time"
)

// Placement is where one slot is drawn for the current layout pass, in
// viewport coordinates.
type Placement struct {
	Index  int
	Slot   *Slot
	X, Y   float64
	Width  float64
	Height float64
}

// Panel is a virtualized, optionally endless, vertical item strip. It ties the
// offset tracker, layout, realization window, gesture controller and
// animation driver together and is meant to be driven from a single
// goroutine: the host feeds it layout passes, input and frame ticks.
type Panel struct {
	cfg     Config
	source  Source
	factory Factory

	counts  Counts
	window  *Window
	tracker *Tracker
	layout  Layout
	gesture *Gesture
	driver  *Driver

	// Uniform item height. 1 until measured from the first item.
	height   float64
	measured bool

	viewportWidth  float64
	viewportHeight float64

	// Whether a layout pass has completed since construction or reset.
	laidOut bool
	closed  bool

	selected int
	changed  func(index int)
	tapped   func(index int)

	placements []Placement
}

// New returns a panel over source whose items are materialized by factory.
// Both are required.
func New(source Source, factory Factory, cfg Config) (*Panel, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	cfg = cfg.normalized()
	window, err := NewWindow(factory, cfg.RealizationMultiplier)
	if err != nil {
		return nil, fmt.Errorf("create realization window: %w", err)
	}

	p := &Panel{
		cfg:      cfg,
		source:   source,
		factory:  factory,
		window:   window,
		tracker:  NewTracker(),
		height:   1,
		selected: cfg.SelectedIndex,
	}
	p.driver = NewDriver(p.applyDelta)
	p.gesture = newGesture(p, cfg.DragFactor, cfg.Viscosity, cfg.SnapToItem)
	p.counts = p.chooseCounts()
	return p, nil
}

func (p *Panel) windowed() bool {
	return p.cfg.Virtualize && !p.cfg.Loop
}

func (p *Panel) chooseCounts() Counts {
	if p.windowed() {
		return Windowed{Source: p.source, Window: p.window}
	}
	return FullyRealized{Source: p.source, Shown: p.cfg.ShownCount}
}

// Config returns the current options.
func (p *Panel) Config() Config {
	return p.cfg
}

// Counts returns the count capability selected for the current options.
func (p *Panel) Counts() Counts {
	return p.counts
}

// Offset returns the tracker offset.
func (p *Panel) Offset() float64 {
	return p.tracker.Offset()
}

// ItemHeight returns the measured item height and whether it has been
// measured yet.
func (p *Panel) ItemHeight() (float64, bool) {
	return p.height, p.measured
}

// Range returns the range of indices backed by slots.
func (p *Panel) Range() Range {
	return p.window.Range()
}

// Slots returns the materialized slots in ascending index order.
func (p *Panel) Slots() []*Slot {
	return p.window.Slots()
}

// Table returns the translation table of the last layout pass.
func (p *Panel) Table() *Table {
	return p.layout.Table()
}

// Placements returns the slot positions of the last layout pass in pool
// order. Slots with an unusable size are left out.
func (p *Panel) Placements() []Placement {
	return p.placements
}

// Gesture returns the gesture controller that input is fed into.
func (p *Panel) Gesture() *Gesture {
	return p.gesture
}

// Phase returns the gesture phase.
func (p *Panel) Phase() Phase {
	return p.gesture.Phase()
}

// Animating reports whether the panel needs frame ticks.
func (p *Panel) Animating() bool {
	if p.closed {
		return false
	}
	return p.driver.Running() || p.gesture.Phase() == PhaseGliding
}

// Progress returns how far the list is scrolled, from 0 with the first item
// centered to 1 with the last item centered. Overscroll is clamped.
func (p *Panel) Progress() float64 {
	n := p.counts.LogicalCount()
	if !p.laidOut || n < 2 {
		return 0
	}
	v := (p.centerOffset(0) - p.tracker.Offset()) / (float64(n-1) * p.height)
	if p.cfg.Loop {
		v = math.Mod(v, float64(n)/float64(n-1))
		if v < 0 {
			v += float64(n) / float64(n-1)
		}
	}
	return min(max(v, 0), 1)
}

// SelectedIndex returns the index considered centered.
func (p *Panel) SelectedIndex() int {
	return p.selected
}

// SetChangedFunc sets a handler called whenever the selected index changes.
func (p *Panel) SetChangedFunc(handler func(index int)) *Panel {
	p.changed = handler
	return p
}

// SetTapFunc sets a handler called with the index of a tapped item.
func (p *Panel) SetTapFunc(handler func(index int)) *Panel {
	p.tapped = handler
	return p
}

// SetLoop switches loop mode on or off. The pool is rebuilt.
func (p *Panel) SetLoop(loop bool) *Panel {
	if p.cfg.Loop == loop {
		return p
	}
	p.cfg.Loop = loop
	p.Reset()
	return p
}

// SetVirtualize switches windowed realization on or off. The pool is rebuilt.
func (p *Panel) SetVirtualize(virtualize bool) *Panel {
	if p.cfg.Virtualize == virtualize {
		return p
	}
	p.cfg.Virtualize = virtualize
	p.Reset()
	return p
}

// SetSnapToItem sets whether a completed drag centers the closest item.
func (p *Panel) SetSnapToItem(snap bool) *Panel {
	p.cfg.SnapToItem = snap
	p.gesture.snap = snap
	return p
}

// SetShownCount overrides the number of items in one loop cycle. Values below
// 1 mean all items.
func (p *Panel) SetShownCount(count int) *Panel {
	p.cfg.ShownCount = count
	p.counts = p.chooseCounts()
	if p.measured {
		p.tracker.SetLoop(p.cfg.Loop, p.cycle())
		p.place()
	}
	return p
}

// SetAlignment sets how items are aligned in the viewport. The selected item
// is re-centered without animation.
func (p *Panel) SetAlignment(horizontal, vertical Alignment) *Panel {
	p.cfg.HorizontalAlignment = horizontal
	p.cfg.VerticalAlignment = vertical
	if p.laidOut {
		p.jumpTo(p.selected)
	}
	return p
}

// SetAnimationDuration sets the duration of selection animations.
func (p *Panel) SetAnimationDuration(duration time.Duration) *Panel {
	if duration <= 0 {
		duration = DefaultAnimationDuration
	}
	p.cfg.AnimationDuration = duration
	return p
}

// SetEasing sets the easing curve of selection animations.
func (p *Panel) SetEasing(easing Easing) *Panel {
	if easing == nil {
		easing = Linear
	}
	p.cfg.Easing = easing
	return p
}

// SetSelectedIndex selects index and animates it to the center. Before the
// first layout pass the index is only remembered and centered by that pass.
// Out of range indices are ignored.
func (p *Panel) SetSelectedIndex(index int) *Panel {
	if p.closed || index < 0 {
		return p
	}
	if !p.laidOut {
		p.setSelected(index)
		return p
	}
	if index >= p.counts.LogicalCount() {
		return p
	}
	p.setSelected(index)
	p.ScrollToIndex(index, p.cfg.AnimationDuration)
	return p
}

// ScrollToIndex animates item index to the center over duration. It does
// nothing before the first layout pass or for indices out of range.
func (p *Panel) ScrollToIndex(index int, duration time.Duration) {
	if p.closed || !p.laidOut || index < 0 || index >= p.counts.LogicalCount() {
		return
	}
	top, ok := p.slotTop(index)
	if !ok {
		return
	}
	p.animateBy(p.centerTop()-top, duration)
}

// Tap centers and selects the item whose span contains y, in viewport
// coordinates. It returns the index of that item, or -1.
func (p *Panel) Tap(y float64) int {
	if p.closed || !p.laidOut {
		return -1
	}
	for _, pl := range p.placements {
		if y >= pl.Y && y < pl.Y+p.height {
			p.gesture.Cancel()
			p.setSelected(pl.Index)
			if p.tapped != nil {
				p.tapped(pl.Index)
			}
			p.ScrollToIndex(pl.Index, p.cfg.AnimationDuration)
			return pl.Index
		}
	}
	return -1
}

// Tick advances the running animation or glide by dt.
func (p *Panel) Tick(dt time.Duration) {
	if p.closed {
		return
	}
	if p.driver.Running() {
		if !p.driver.Advance(dt) {
			p.animationDone()
		}
		return
	}
	p.gesture.Tick(dt)
}

// Layout runs a layout pass for a viewport of the given size. The first pass
// measures the item height, materializes the pool and centers the selected
// item.
func (p *Panel) Layout(width, height float64) {
	if p.closed {
		return
	}
	resized := width != p.viewportWidth || height != p.viewportHeight
	p.viewportWidth, p.viewportHeight = width, height

	n := p.counts.LogicalCount()
	if n == 0 {
		p.window.Clear()
		p.placements = p.placements[:0]
		return
	}

	if p.window.Len() == 0 {
		if p.windowed() {
			seed := min(p.selected, n-1)
			p.window.Fill(Range{Start: seed, End: seed})
		} else {
			p.window.Fill(Range{Start: 0, End: n - 1})
		}
	}
	if !p.measure() {
		return
	}
	p.tracker.SetLoop(p.cfg.Loop, p.cycle())

	if !p.laidOut {
		p.laidOut = true
		p.selected = min(max(p.selected, 0), n-1)
		p.tracker.Set(p.centerOffset(p.selected))
		resized = true
	}

	if p.windowed() {
		if resized {
			p.window.Recompute(p.geometry())
		} else {
			p.window.Track(p.geometry())
		}
	}
	p.place()
}

// Reset tears the pool down. The next layout pass rebuilds it from scratch,
// which is what a reset of the item source requires.
func (p *Panel) Reset() {
	if p.closed {
		return
	}
	p.driver.Cancel()
	p.gesture.Cancel()
	p.window.Clear()
	p.layout = Layout{}
	p.placements = nil
	p.tracker = NewTracker()
	p.height, p.measured = 1, false
	p.laidOut = false
	p.counts = p.chooseCounts()
	if n := p.counts.LogicalCount(); p.selected >= n {
		p.setSelected(max(n-1, 0))
	}
	if p.viewportHeight > 0 {
		w, h := p.viewportWidth, p.viewportHeight
		p.viewportWidth, p.viewportHeight = 0, 0
		p.Layout(w, h)
	}
}

// Close releases every slot. Every later call on the panel is a no-op.
func (p *Panel) Close() {
	if p.closed {
		return
	}
	p.driver.Cancel()
	p.gesture.Cancel()
	p.window.Clear()
	p.placements = nil
	p.closed = true
}

// Closed reports whether Close was called.
func (p *Panel) Closed() bool {
	return p.closed
}

func (p *Panel) setSelected(index int) {
	if p.selected == index {
		return
	}
	p.selected = index
	if p.changed != nil {
		p.changed(index)
	}
}

// measure takes the item height from the first slot with a usable size.
func (p *Panel) measure() bool {
	if p.measured {
		return true
	}
	for _, slot := range p.window.Slots() {
		_, h := slot.Handle.Size()
		if !usable(h) {
			Logger().Warn("item has no usable height", "index", slot.Index, "height", h)
			continue
		}
		p.height = h
		p.measured = true
		return true
	}
	return false
}

func (p *Panel) cycle() float64 {
	return float64(p.counts.ShownCount()) * p.height
}

// base returns the top of item 0 at offset zero.
func (p *Panel) base() float64 {
	total := float64(p.counts.LogicalCount()) * p.height
	switch p.cfg.VerticalAlignment {
	case AlignCenter:
		return p.viewportHeight/2 - total/2
	case AlignEnd:
		return p.viewportHeight - total
	}
	return 0
}

// centerTop is the top an item has when it is centered.
func (p *Panel) centerTop() float64 {
	return p.viewportHeight/2 - p.height/2
}

func (p *Panel) centerOffset(index int) float64 {
	return p.centerTop() - p.base() - float64(index)*p.height
}

func (p *Panel) geometry() Geometry {
	return Geometry{
		Viewport: p.viewportHeight,
		Base:     p.base(),
		Offset:   p.tracker.Offset(),
		Height:   p.height,
		Count:    p.counts.LogicalCount(),
	}
}

// slotTop returns the top of item index in viewport coordinates.
func (p *Panel) slotTop(index int) (float64, bool) {
	base := p.base() + float64(index)*p.height
	if y, ok := p.layout.Table().Lookup(index); ok {
		if _, realized := p.window.Slot(index); realized {
			return base + y, true
		}
	}
	if p.cfg.Loop {
		return 0, false
	}
	return base + p.tracker.Offset(), true
}

// place runs the layout engine and rebuilds the placements.
func (p *Panel) place() {
	if !p.measured {
		return
	}
	r := p.window.Range()
	p.layout.Place(r.Start, r.Len(), p.tracker.Offset(), p.height, p.cycle(), p.cfg.Loop)

	base := p.base()
	p.placements = p.placements[:0]
	for _, slot := range p.window.Slots() {
		y, ok := p.layout.Table().Lookup(slot.Index)
		if !ok {
			continue
		}
		w, h := slot.Handle.Size()
		if !usable(h) || math.IsNaN(w) || math.IsInf(w, 0) {
			Logger().Warn("skipping item with unusable size", "index", slot.Index, "width", w, "height", h)
			continue
		}
		x, width := p.horizontal(w)
		p.placements = append(p.placements, Placement{
			Index:  slot.Index,
			Slot:   slot,
			X:      x,
			Y:      base + float64(slot.Index)*p.height + y,
			Width:  width,
			Height: p.height,
		})
	}
}

func (p *Panel) horizontal(width float64) (x, w float64) {
	switch p.cfg.HorizontalAlignment {
	case AlignCenter:
		return p.viewportWidth/2 - width/2, width
	case AlignEnd:
		return p.viewportWidth - width, width
	case AlignStretch:
		return 0, p.viewportWidth
	}
	return 0, width
}

// jumpTo centers index without animation.
func (p *Panel) jumpTo(index int) {
	p.driver.Cancel()
	p.tracker.Set(p.centerOffset(index))
	if p.windowed() {
		p.window.Recompute(p.geometry())
	}
	p.place()
}

func (p *Panel) animateBy(delta float64, duration time.Duration) {
	switch p.gesture.Phase() {
	case PhaseDragging, PhaseGliding:
		p.gesture.Cancel()
	}
	from := p.tracker.Offset()
	p.driver.Run(from, from+delta, duration, p.cfg.Easing)
	if !p.driver.Running() {
		p.animationDone()
	}
}

func (p *Panel) animationDone() {
	p.gesture.settle()
}

// gestureHost

func (p *Panel) offset() float64 {
	return p.tracker.Offset()
}

func (p *Panel) looping() bool {
	return p.cfg.Loop
}

func (p *Panel) bounds() (neutral, maxAllowed float64) {
	n := p.counts.LogicalCount()
	if n == 0 {
		return 0, 0
	}
	neutral = (p.centerOffset(0) + p.centerOffset(n-1)) / 2
	extent := float64(n-1) * p.height
	return neutral, extent/2 + p.height/2
}

// applyDelta is the single path through which the offset changes: tracker,
// then layout, then realization once the offset has moved far enough.
func (p *Panel) applyDelta(d float64) {
	if p.closed || !p.measured {
		return
	}
	p.tracker.Apply(d)
	p.place()
	if p.windowed() && p.window.Track(p.geometry()) {
		p.place()
	}
}

func (p *Panel) cancelAnimation() {
	p.driver.Cancel()
}

func (p *Panel) snapBack(towardStart bool) {
	if n := p.counts.LogicalCount(); n > 0 {
		index := n - 1
		if towardStart {
			index = 0
		}
		Logger().Debug("snapping back", "index", index, "offset", p.tracker.Offset())
		p.setSelected(index)
		p.ScrollToIndex(index, p.cfg.AnimationDuration)
	}
	if !p.driver.Running() {
		p.animationDone()
	}
}

func (p *Panel) snapToClosest() {
	closest := -1
	best := math.Inf(1)
	center := p.centerTop()
	for _, pl := range p.placements {
		if d := math.Abs(center - pl.Y); d < best {
			best = d
			closest = pl.Index
		}
	}
	if closest < 0 {
		return
	}
	Logger().Debug("snapping to closest item", "index", closest, "distance", best)
	p.setSelected(closest)
	p.ScrollToIndex(closest, p.cfg.AnimationDuration)
}

func usable(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

var _ gestureHost = (*Panel)(nil)
