package tumbler

import (
	"fmt"
	"math"
	"time"

	"github.com/ayn2op/tumbler/keybind"
	"github.com/ayn2op/tumbler/loop"
	"github.com/gdamore/tcell/v3"
)

// A release this long after the last pointer movement does not glide.
const releaseStillness = 100 * time.Millisecond

// KeyMap holds the keys a [Tumbler] responds to.
type KeyMap struct {
	Up       keybind.Keybind
	Down     keybind.Keybind
	PageUp   keybind.Keybind
	PageDown keybind.Keybind
	Home     keybind.Keybind
	End      keybind.Keybind
	Select   keybind.Keybind
	Help     keybind.Keybind
	Quit     keybind.Keybind
}

// DefaultKeyMap returns arrow, page and vi style bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       keybind.NewKeybind(keybind.WithKeys("up", "k"), keybind.WithDesc("previous item")),
		Down:     keybind.NewKeybind(keybind.WithKeys("down", "j"), keybind.WithDesc("next item")),
		PageUp:   keybind.NewKeybind(keybind.WithKeys("pgup", "ctrl+b"), keybind.WithDesc("previous page")),
		PageDown: keybind.NewKeybind(keybind.WithKeys("pgdn", "ctrl+f"), keybind.WithDesc("next page")),
		Home:     keybind.NewKeybind(keybind.WithKeys("home", "g"), keybind.WithDesc("first item")),
		End:      keybind.NewKeybind(keybind.WithKeys("end", "G"), keybind.WithDesc("last item")),
		Select:   keybind.NewKeybind(keybind.WithKeys("enter", "space"), keybind.WithDesc("choose item")),
		Help:     keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithDesc("help")),
		Quit:     keybind.NewKeybind(keybind.WithKeys("q", "esc", "ctrl+c"), keybind.WithDesc("quit")),
	}
}

// ShortHelp returns the bindings for a single help line.
func (k KeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Up, k.Down, k.Select, k.Help, k.Quit}
}

// FullHelp returns the bindings grouped into help columns.
func (k KeyMap) FullHelp() [][]keybind.Keybind {
	return [][]keybind.Keybind{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Home, k.End},
		{k.Select, k.Help, k.Quit},
	}
}

type dragState struct {
	// Whether the left button went down inside the tumbler and is still held.
	active bool
	moved  bool
	lastY  int
	last   time.Time
	// Smoothed pointer velocity in rows per second.
	velocity float64
}

// Tumbler is a vertical item picker. The selected item sits in the middle
// and the others scroll past it, either between two ends or, in loop mode,
// endlessly. Items are positioned by a [loop.Panel].
//
// Items are dragged with the mouse, stepped with the wheel and the keys in
// [KeyMap], and chosen with a click or the select key.
type Tumbler struct {
	*Box

	panel *loop.Panel
	keys  KeyMap

	indicator     *ScrollBar
	showIndicator bool
	showCounter   bool

	markers     [2]string
	markerStyle tcell.Style

	drag dragState

	// Called with the chosen index on select key or click.
	selected func(index int)
	// Called on the help key.
	help func()
}

// NewTumbler returns a tumbler over source whose items are created by
// factory.
func NewTumbler(source loop.Source, factory loop.Factory, cfg loop.Config) (*Tumbler, error) {
	panel, err := loop.New(source, factory, cfg)
	if err != nil {
		return nil, fmt.Errorf("create tumbler: %w", err)
	}
	t := &Tumbler{
		Box:           NewBox(),
		panel:         panel,
		keys:          DefaultKeyMap(),
		indicator:     NewScrollBar(),
		showIndicator: true,
		markers:       [2]string{SingleRightPointingAngleQuotationMark, SingleLeftPointingAngleQuotationMark},
		markerStyle:   tcell.StyleDefault.Foreground(Styles.SecondaryTextColor),
	}
	panel.SetTapFunc(func(index int) {
		if t.selected != nil {
			t.selected(index)
		}
	})
	return t, nil
}

// Panel returns the engine positioning the items.
func (t *Tumbler) Panel() *loop.Panel {
	return t.panel
}

// SetSelectedIndex animates index to the center.
func (t *Tumbler) SetSelectedIndex(index int) *Tumbler {
	t.panel.SetSelectedIndex(index)
	return t
}

// SelectedIndex returns the index of the selected item.
func (t *Tumbler) SelectedIndex() int {
	return t.panel.SelectedIndex()
}

// SetChangedFunc sets a handler called whenever the selected index changes.
func (t *Tumbler) SetChangedFunc(handler func(index int)) *Tumbler {
	t.panel.SetChangedFunc(handler)
	return t
}

// SetSelectedFunc sets a handler called when an item is chosen with the
// select key or a click.
func (t *Tumbler) SetSelectedFunc(handler func(index int)) *Tumbler {
	t.selected = handler
	return t
}

// SetHelpFunc sets a handler called when the help key is pressed.
func (t *Tumbler) SetHelpFunc(handler func()) *Tumbler {
	t.help = handler
	return t
}

// SetKeyMap replaces the key bindings.
func (t *Tumbler) SetKeyMap(keys KeyMap) *Tumbler {
	t.keys = keys
	return t
}

// KeyMap returns the key bindings.
func (t *Tumbler) KeyMap() KeyMap {
	return t.keys
}

// SetIndicatorVisible sets whether a position indicator is drawn in the
// right-most column. It is never drawn in loop mode.
func (t *Tumbler) SetIndicatorVisible(visible bool) *Tumbler {
	t.showIndicator = visible
	return t
}

// SetCounterVisible sets whether the footer shows the selected position.
func (t *Tumbler) SetCounterVisible(visible bool) *Tumbler {
	t.showCounter = visible
	if !visible {
		t.SetFooter("")
	}
	return t
}

// SetMarkers sets the glyphs drawn left and right of the center row. Empty
// strings disable a marker.
func (t *Tumbler) SetMarkers(left, right string) *Tumbler {
	t.markers = [2]string{left, right}
	return t
}

// SetLoop switches loop mode on or off.
func (t *Tumbler) SetLoop(loop bool) *Tumbler {
	t.panel.SetLoop(loop)
	return t
}

// SetSnapToItem sets whether a drag ends with the closest item centered.
func (t *Tumbler) SetSnapToItem(snap bool) *Tumbler {
	t.panel.SetSnapToItem(snap)
	return t
}

// SetAnimationDuration sets the duration of selection animations.
func (t *Tumbler) SetAnimationDuration(duration time.Duration) *Tumbler {
	t.panel.SetAnimationDuration(duration)
	return t
}

// Reset rebuilds every item. Call it after the item source changed.
func (t *Tumbler) Reset() *Tumbler {
	t.drag = dragState{}
	t.panel.Reset()
	return t
}

// Close releases every item. The tumbler stays on screen but empty.
func (t *Tumbler) Close() {
	t.panel.Close()
}

// Animating reports whether the tumbler needs frame ticks.
func (t *Tumbler) Animating() bool {
	return t.panel.Animating()
}

// Tick advances animations by dt.
func (t *Tumbler) Tick(dt time.Duration) {
	t.panel.Tick(dt)
}

// Step moves the selection by delta items. Loop mode wraps around, bounded
// mode stops at the ends.
func (t *Tumbler) Step(delta int) {
	n := t.panel.Counts().LogicalCount()
	if n == 0 || delta == 0 {
		return
	}
	index := t.panel.SelectedIndex() + delta
	if t.panel.Config().Loop {
		index = ((index % n) + n) % n
	} else {
		index = min(max(index, 0), n-1)
	}
	t.panel.SetSelectedIndex(index)
}

// pageSize returns the number of items that fit into the viewport.
func (t *Tumbler) pageSize() int {
	_, _, _, height := t.GetInnerRect()
	itemHeight, ok := t.panel.ItemHeight()
	if !ok {
		return 1
	}
	return max(int(float64(height)/itemHeight), 1)
}

// InputHandler handles key events.
func (t *Tumbler) InputHandler(event *tcell.EventKey) Command {
	return t.handleKey(keybind.Name(event))
}

func (t *Tumbler) handleKey(key string) Command {
	switch {
	case t.keys.Up.MatchesKey(key):
		t.Step(-1)
	case t.keys.Down.MatchesKey(key):
		t.Step(1)
	case t.keys.PageUp.MatchesKey(key):
		t.Step(-t.pageSize())
	case t.keys.PageDown.MatchesKey(key):
		t.Step(t.pageSize())
	case t.keys.Home.MatchesKey(key):
		t.panel.SetSelectedIndex(0)
	case t.keys.End.MatchesKey(key):
		t.panel.SetSelectedIndex(t.panel.Counts().LogicalCount() - 1)
	case t.keys.Select.MatchesKey(key):
		if t.selected != nil {
			t.selected(t.panel.SelectedIndex())
		}
		return RedrawCommand{}
	case t.keys.Help.MatchesKey(key):
		if t.help == nil {
			return nil
		}
		t.help()
		return RedrawCommand{}
	case t.keys.Quit.MatchesKey(key):
		return QuitCommand{}
	default:
		return nil
	}
	return AppendCommand(RedrawCommand{}, AnimateCommand{})
}

// MouseHandler handles drags, clicks and the wheel.
func (t *Tumbler) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	switch action {
	case MouseLeftDown:
		if !t.InInnerRect(x, y) {
			return nil, nil
		}
		t.pointerDown(y, event.When())
		return t, AppendCommand(SetFocusCommand{Target: t}, RedrawCommand{})
	case MouseMove:
		if !t.drag.active {
			return nil, nil
		}
		if t.pointerMove(y, event.When()) {
			return t, RedrawCommand{}
		}
		return t, nil
	case MouseLeftUp:
		if !t.drag.active {
			return nil, nil
		}
		t.pointerUp(event.When())
		return nil, AppendCommand(RedrawCommand{}, AnimateCommand{})
	case MouseLeftClick:
		if !t.InInnerRect(x, y) {
			return nil, nil
		}
		return nil, t.tap(y)
	case MouseScrollUp, MouseScrollDown:
		if !t.InRect(x, y) {
			return nil, nil
		}
		if action == MouseScrollUp {
			t.Step(-1)
		} else {
			t.Step(1)
		}
		return nil, AppendCommand(RedrawCommand{}, AnimateCommand{})
	}
	return nil, nil
}

func (t *Tumbler) pointerDown(y int, at time.Time) {
	t.drag = dragState{active: true, lastY: y, last: at}
}

// pointerMove feeds a pointer movement into the drag. The gesture only
// starts with the first movement so a click without one stays a tap.
func (t *Tumbler) pointerMove(y int, at time.Time) bool {
	dy := y - t.drag.lastY
	if dy == 0 {
		return false
	}
	gesture := t.panel.Gesture()
	if !t.drag.moved {
		gesture.Begin()
		t.drag.moved = true
	}
	gesture.DragBy(float64(dy))

	if dt := at.Sub(t.drag.last).Seconds(); dt > 0 {
		t.drag.velocity = 0.6*(float64(dy)/dt) + 0.4*t.drag.velocity
	}
	t.drag.lastY, t.drag.last = y, at
	return true
}

func (t *Tumbler) pointerUp(at time.Time) {
	drag := t.drag
	t.drag = dragState{}
	if !drag.moved {
		return
	}
	velocity := drag.velocity
	if at.Sub(drag.last) > releaseStillness {
		velocity = 0
	}
	t.panel.Gesture().Release(velocity)
}

// tap selects the item under screen row y.
func (t *Tumbler) tap(y int) Command {
	_, innerY, _, _ := t.GetInnerRect()
	if t.panel.Tap(float64(y-innerY)+0.5) < 0 {
		return nil
	}
	return AppendCommand(RedrawCommand{}, AnimateCommand{})
}

// Draw draws the tumbler.
func (t *Tumbler) Draw(screen tcell.Screen) {
	if t.showCounter {
		t.SetFooter(t.counter())
	}
	t.Box.Draw(screen)

	x, y, width, height := t.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	indicator := t.showIndicator && !t.panel.Config().Loop && width > 2
	if indicator {
		width--
	}

	t.panel.Layout(float64(width), float64(height))
	itemHeight, ok := t.panel.ItemHeight()
	if !ok {
		return
	}

	center := float64(height)/2 - itemHeight/2
	clip := newClipScreen(screen, x, y, width, height)
	closest := t.closestToCenter(center)
	for _, pl := range t.panel.Placements() {
		item, ok := pl.Slot.Handle.(Item)
		if !ok {
			continue
		}
		item.Draw(clip,
			x+int(math.Round(pl.X)), y+int(math.Round(pl.Y)),
			int(math.Round(pl.Width)), int(math.Round(pl.Height)),
			pl.Index == closest)
	}

	row := y + int(math.Round(center+itemHeight/2-0.5))
	if left := t.markers[0]; left != "" {
		printWithStyle(clip, left, x, row, 0, 1, AlignmentLeft, t.markerStyle, true)
	}
	if right := t.markers[1]; right != "" {
		printWithStyle(clip, right, x+width-1, row, 0, 1, AlignmentLeft, t.markerStyle, true)
	}

	if indicator {
		n := t.panel.Counts().LogicalCount()
		t.indicator.SetRect(x+width, y, 1, height)
		t.indicator.SetBackgroundColor(t.GetBackgroundColor())
		t.indicator.SetLengths(float64(n)*itemHeight, float64(height))
		t.indicator.SetProgress(t.panel.Progress())
		t.indicator.Draw(screen)
	}
}

// closestToCenter returns the index of the item whose top is closest to
// center, or -1.
func (t *Tumbler) closestToCenter(center float64) int {
	closest, best := -1, math.Inf(1)
	for _, pl := range t.panel.Placements() {
		if d := math.Abs(pl.Y - center); d < best {
			closest, best = pl.Index, d
		}
	}
	return closest
}

func (t *Tumbler) counter() string {
	n := t.panel.Counts().LogicalCount()
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", t.panel.SelectedIndex()+1, n)
}

var (
	_ Primitive = &Tumbler{}
	_ Animator  = &Tumbler{}
)
