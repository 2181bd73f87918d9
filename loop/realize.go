package loop

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"
)

// Source is the backing sequence of items. Its length must stay stable until
// the owner of the panel calls [Panel.Reset].
type Source interface {
	Len() int
}

// Handle is a materialized item. Size reports the measured width and height;
// all items are assumed to share the height of the first one.
type Handle interface {
	Size() (width, height float64)
}

// Factory materializes and releases items. CreateAt is always called in
// ascending index order within one batch and Destroy in descending order.
type Factory interface {
	CreateAt(index int) (Handle, error)
	Destroy(h Handle)
}

// Slot binds one logical index to a materialized item. Slots carry no
// position; translations live in the [Layout] table.
type Slot struct {
	ID     uuid.UUID
	Index  int
	Handle Handle
}

// Range is an inclusive interval of logical indices. A range whose End is
// before its Start is empty.
type Range struct {
	Start int
	End   int
}

// EmptyRange contains no index.
var EmptyRange = Range{Start: 0, End: -1}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start + 1
}

// Empty reports whether the range contains no index.
func (r Range) Empty() bool {
	return r.End < r.Start
}

// Contains reports whether index lies in the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index <= r.End
}

func (r Range) String() string {
	if r.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d:%d]", r.Start, r.End)
}

// Clamp limits the range to [0, count).
func (r Range) Clamp(count int) Range {
	r.Start = max(r.Start, 0)
	r.End = min(r.End, count-1)
	if r.Empty() {
		return EmptyRange
	}
	return r
}

// Sub returns the parts of r that are not in o, in ascending order.
func (r Range) Sub(o Range) []Range {
	if r.Empty() {
		return nil
	}
	if o.Empty() || o.End < r.Start || o.Start > r.End {
		return []Range{r}
	}
	var parts []Range
	if r.Start < o.Start {
		parts = append(parts, Range{Start: r.Start, End: o.Start - 1})
	}
	if r.End > o.End {
		parts = append(parts, Range{Start: o.End + 1, End: r.End})
	}
	return parts
}

// Geometry describes where items sit along the vertical axis for one layout
// pass.
type Geometry struct {
	// Viewport is the height of the visible area.
	Viewport float64
	// Base is the top of item 0 when the offset is zero.
	Base float64
	// Offset is the tracker offset.
	Offset float64
	// Height is the uniform item height.
	Height float64
	// Count is the number of items in the source.
	Count int
}

// Top returns the top of item index for an untranslated strip.
func (g Geometry) Top(index int) float64 {
	return g.Base + g.Offset + float64(index)*g.Height
}

// Window is the realization window manager. It owns the slot pool and keeps
// it covering an extended viewport, creating slots for indices that scroll
// into the window and releasing those that scroll out.
type Window struct {
	factory Factory

	slots []*Slot
	rng   Range

	// Realization height as a multiple of the viewport height.
	multiplier float64

	// Offset at which the range was last computed.
	lastCalc float64
	computed bool
}

// NewWindow returns an empty window. A nil factory is a configuration error.
func NewWindow(factory Factory, multiplier float64) (*Window, error) {
	if factory == nil {
		return nil, ErrNoFactory
	}
	if multiplier < 1 {
		multiplier = DefaultRealizationMultiplier
	}
	return &Window{
		factory:    factory,
		rng:        EmptyRange,
		multiplier: multiplier,
	}, nil
}

// Range returns the range currently backed by slots.
func (w *Window) Range() Range {
	return w.rng
}

// Slots returns the pool in ascending index order. The slice must not be
// modified.
func (w *Window) Slots() []*Slot {
	return w.slots
}

// Len returns the number of materialized slots.
func (w *Window) Len() int {
	return len(w.slots)
}

// Slot returns the slot bound to index.
func (w *Window) Slot(index int) (*Slot, bool) {
	i, ok := w.find(index)
	if !ok {
		return nil, false
	}
	return w.slots[i], true
}

// ComputeRange returns the indices that overlap the realization area, a band
// of viewport × multiplier centered on the viewport. The band reaches at
// least one item height past either edge, the distance the offset may drift
// before [Window.Track] recomputes.
func (w *Window) ComputeRange(g Geometry) Range {
	if g.Height <= 0 || g.Count <= 0 {
		return EmptyRange
	}
	half := max(g.Viewport*w.multiplier, g.Viewport+2*g.Height) / 2
	top := g.Viewport/2 - half
	bottom := g.Viewport/2 + half

	b := g.Base + g.Offset
	first := int(math.Floor(snap((top - b) / g.Height)))
	last := int(math.Ceil(snap((bottom-b)/g.Height))) - 1
	return Range{Start: first, End: last}.Clamp(g.Count)
}

// Track recomputes the range once the offset has moved by at least one item
// height since the last computation, and reconciles the pool against it. It
// reports whether the pool changed.
func (w *Window) Track(g Geometry) bool {
	if g.Height <= 0 {
		return false
	}
	if w.computed && math.Abs(g.Offset-w.lastCalc) < g.Height {
		return false
	}
	return w.Recompute(g)
}

// Recompute unconditionally computes the range for g and reconciles the pool.
func (w *Window) Recompute(g Geometry) bool {
	next := w.ComputeRange(g)
	w.lastCalc = g.Offset
	w.computed = true
	if next == w.rng && w.Len() == next.Len() {
		return false
	}
	Logger().Debug("realization range changed", "old", w.rng.String(), "new", next.String(), "offset", g.Offset)
	w.Reconcile(w.rng, next)
	return true
}

// Reconcile moves the pool from covering old to covering next. Unbound
// indices of next are realized in ascending order, which also retries any
// index a factory failed on earlier; indices only in old are virtualized in
// descending order. It returns how many slots were created and released.
func (w *Window) Reconcile(old, next Range) (realized, virtualized int) {
	if old == next && w.Len() == next.Len() {
		return 0, 0
	}
	for index := next.Start; index <= next.End; index++ {
		if at, exists := w.find(index); !exists && w.realize(index, at) {
			realized++
		}
	}
	stale := old.Sub(next)
	for i := len(stale) - 1; i >= 0; i-- {
		virtualized += w.Virtualize(stale[i])
	}
	w.rng = next
	return realized, virtualized
}

// Realize creates slots for every index in r that is not materialized yet.
// An index that is already bound, or that the factory fails to create, is
// skipped with a warning and the batch continues.
func (w *Window) Realize(r Range) int {
	created := 0
	for index := r.Start; index <= r.End; index++ {
		at, exists := w.find(index)
		if exists {
			Logger().Warn("skipping realization of an index that is already materialized", "index", index)
			continue
		}
		if w.realize(index, at) {
			created++
		}
	}
	if created > 0 {
		Logger().Debug("realized slots", "range", r.String(), "count", created)
	}
	return created
}

// realize binds a new slot for index at pool position at.
func (w *Window) realize(index, at int) bool {
	handle, err := w.factory.CreateAt(index)
	if err != nil || handle == nil {
		Logger().Warn("skipping realization", "index", index, "error", err)
		return false
	}
	slot := &Slot{ID: uuid.New(), Index: index, Handle: handle}
	w.slots = slices.Insert(w.slots, at, slot)
	return true
}

// Virtualize releases the slots bound to indices in r, last index first.
func (w *Window) Virtualize(r Range) int {
	released := 0
	for index := r.End; index >= r.Start; index-- {
		at, ok := w.find(index)
		if !ok {
			continue
		}
		w.factory.Destroy(w.slots[at].Handle)
		w.slots = slices.Delete(w.slots, at, at+1)
		released++
	}
	if released > 0 {
		Logger().Debug("virtualized slots", "range", r.String(), "count", released)
	}
	return released
}

// Fill realizes r and adopts it as the current range without hysteresis.
func (w *Window) Fill(r Range) {
	w.Reconcile(w.rng, r)
}

// Clear releases every slot and forgets the current range.
func (w *Window) Clear() {
	for i := len(w.slots) - 1; i >= 0; i-- {
		w.factory.Destroy(w.slots[i].Handle)
	}
	w.slots = nil
	w.rng = EmptyRange
	w.computed = false
	w.lastCalc = 0
}

// find returns the position of index in the pool, or the position where it
// would be inserted.
func (w *Window) find(index int) (int, bool) {
	return slices.BinarySearchFunc(w.slots, index, func(s *Slot, target int) int {
		return s.Index - target
	})
}

// snap rounds values that are within floating point noise of an integer.
func snap(v float64) float64 {
	if r := math.Round(v); math.Abs(v-r) < 1e-9 {
		return r
	}
	return v
}
