// Package layers stacks primitives on top of each other. Each layer is
// placed inside the container by a bounds function, so layers double as a
// simple docking layout.
package layers

import (
	"time"

	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/tumbler"
)

// Bounds maps the inner rectangle of the container to the rectangle of a
// layer.
type Bounds func(x, y, width, height int) (int, int, int, int)

// layer represents one layer of a Layers object.
type layer struct {
	name    string            // The layer's name.
	item    tumbler.Primitive // The layer's primitive.
	bounds  Bounds            // Where the layer goes. Nil fills the container.
	visible bool              // Whether or not this layer is visible.
	enabled bool              // Whether or not this layer can receive focus/input.
	overlay bool              // Whether this layer dims the layers behind it.
}

// Layers is a container for other primitives laid out on top of each other.
// The layers are drawn from back to front. The front-most visible overlay
// layer dims everything behind it and takes all input.
type Layers struct {
	*tumbler.Box

	// Visible layers are drawn from back to front.
	layers []*layer
	// The style applied to layers behind the active overlay layer.
	backgroundLayerStyle tcell.Style

	// Moves the focus to a newly visible layer.
	setFocus func(p tumbler.Primitive)
}

// Option configures a layer on Add.
type Option func(*layer)

// WithName sets the layer's name.
func WithName(name string) Option {
	return func(l *layer) {
		l.name = name
	}
}

// WithBounds sets where the layer is placed.
func WithBounds(bounds Bounds) Option {
	return func(l *layer) {
		l.bounds = bounds
	}
}

// WithVisible sets the initial visibility of the layer.
func WithVisible(visible bool) Option {
	return func(l *layer) {
		l.visible = visible
	}
}

// WithEnabled sets whether the layer can receive focus and input.
func WithEnabled(enabled bool) Option {
	return func(l *layer) {
		l.enabled = enabled
	}
}

// WithOverlay marks this layer as an overlay layer.
func WithOverlay() Option {
	return func(l *layer) {
		l.overlay = true
	}
}

// Bottom returns bounds of the given number of rows at the bottom.
func Bottom(rows int) Bounds {
	return func(x, y, width, height int) (int, int, int, int) {
		rows := min(rows, height)
		return x, y + height - rows, width, rows
	}
}

// Centered returns bounds of at most width by height cells in the middle.
func Centered(width, height int) Bounds {
	return func(x, y, w, h int) (int, int, int, int) {
		width, height := min(width, w), min(height, h)
		return x + (w-width)/2, y + (h-height)/2, width, height
	}
}

// New returns a new Layers object.
func New() *Layers {
	return &Layers{
		Box:                  tumbler.NewBox(),
		backgroundLayerStyle: tcell.StyleDefault.Dim(true),
	}
}

// Count returns the number of layers.
func (l *Layers) Count() int {
	return len(l.layers)
}

// AddLayer adds a new layer for the given primitive in front of the others.
// A layer with the same name is replaced.
func (l *Layers) AddLayer(item tumbler.Primitive, opts ...Option) *Layers {
	hasFocus := l.HasFocus()
	added := &layer{item: item, visible: true, enabled: true}
	for _, opt := range opts {
		if opt != nil {
			opt(added)
		}
	}
	if added.name != "" {
		for index, layer := range l.layers {
			if layer.name == added.name {
				l.layers = append(l.layers[:index], l.layers[index+1:]...)
				break
			}
		}
	}
	l.layers = append(l.layers, added)
	if hasFocus {
		l.Focus(l.setFocus)
	}
	return l
}

// HasLayer returns true if a layer with the given name exists.
func (l *Layers) HasLayer(name string) bool {
	return l.find(name) != nil
}

// Layer returns the primitive of the named layer, or nil.
func (l *Layers) Layer(name string) tumbler.Primitive {
	if layer := l.find(name); layer != nil {
		return layer.item
	}
	return nil
}

// Visible returns whether the named layer is visible.
func (l *Layers) Visible(name string) bool {
	layer := l.find(name)
	return layer != nil && layer.visible
}

// ShowLayer makes the named layer visible.
func (l *Layers) ShowLayer(name string) *Layers {
	return l.setVisible(name, true)
}

// HideLayer hides the named layer.
func (l *Layers) HideLayer(name string) *Layers {
	return l.setVisible(name, false)
}

// ToggleLayer flips the visibility of the named layer.
func (l *Layers) ToggleLayer(name string) *Layers {
	return l.setVisible(name, !l.Visible(name))
}

func (l *Layers) setVisible(name string, visible bool) *Layers {
	layer := l.find(name)
	if layer == nil || layer.visible == visible {
		return l
	}
	hasFocus := l.HasFocus()
	if !visible && layer.item.HasFocus() {
		layer.item.Blur()
	}
	layer.visible = visible
	if hasFocus {
		l.Focus(l.setFocus)
	}
	return l
}

// FrontLayer returns the front-most visible layer. If there are no visible
// layers, ("", nil) is returned.
func (l *Layers) FrontLayer() (name string, item tumbler.Primitive) {
	for index := len(l.layers) - 1; index >= 0; index-- {
		if l.layers[index].visible {
			return l.layers[index].name, l.layers[index].item
		}
	}
	return "", nil
}

// SetBackgroundLayerStyle sets the style applied to layers behind the active
// overlay layer.
func (l *Layers) SetBackgroundLayerStyle(style tcell.Style) *Layers {
	l.backgroundLayerStyle = style
	return l
}

func (l *Layers) find(name string) *layer {
	for _, layer := range l.layers {
		if layer.name == name {
			return layer
		}
	}
	return nil
}

// HasFocus returns whether this primitive or one of its layers has focus.
func (l *Layers) HasFocus() bool {
	for _, layer := range l.layers {
		if layer.enabled && layer.item.HasFocus() {
			return true
		}
	}
	return l.Box.HasFocus()
}

// Focus hands the focus to the front-most visible enabled layer.
func (l *Layers) Focus(delegate func(p tumbler.Primitive)) {
	if delegate == nil {
		return // We cannot delegate so we cannot focus.
	}
	l.setFocus = delegate
	if top := l.topVisibleEnabledLayer(); top != nil {
		delegate(top.item)
		return
	}
	l.Box.Focus(delegate)
}

// Draw draws the visible layers from back to front.
func (l *Layers) Draw(screen tcell.Screen) {
	l.Box.Draw(screen)

	x, y, width, height := l.GetInnerRect()
	overlayIndex := l.topVisibleEnabledOverlayIndex()
	var dimmed *overlayScreen
	if overlayIndex >= 0 {
		dimmed = newOverlayScreen(screen, l.backgroundLayerStyle)
	}
	for index, layer := range l.layers {
		if !layer.visible {
			continue
		}
		layerScreen := screen
		if dimmed != nil && index < overlayIndex {
			layerScreen = dimmed
		}
		if layer.bounds != nil {
			layer.item.SetRect(layer.bounds(x, y, width, height))
		} else {
			layer.item.SetRect(x, y, width, height)
		}
		layer.item.Draw(layerScreen)
	}
}

// MouseHandler passes mouse events to the front-most layer that takes
// them, but never to layers behind an active overlay.
func (l *Layers) MouseHandler(action tumbler.MouseAction, event *tcell.EventMouse) (tumbler.Primitive, tumbler.Command) {
	if !l.InRect(event.Position()) {
		return nil, nil
	}
	overlayIndex := l.topVisibleEnabledOverlayIndex()
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if !layer.visible || !layer.enabled {
			continue
		}
		if overlayIndex >= 0 && index < overlayIndex {
			break
		}
		if capture, cmd := layer.item.MouseHandler(action, event); capture != nil || cmd != nil {
			return capture, cmd
		}
	}
	return nil, nil
}

// InputHandler passes key events to the focused layer.
func (l *Layers) InputHandler(event *tcell.EventKey) tumbler.Command {
	for _, layer := range l.layers {
		if layer.enabled && layer.item.HasFocus() {
			return layer.item.InputHandler(event)
		}
	}
	return nil
}

// Animating reports whether a visible layer is animating.
func (l *Layers) Animating() bool {
	for _, layer := range l.layers {
		if a, ok := layer.item.(tumbler.Animator); ok && layer.visible && a.Animating() {
			return true
		}
	}
	return false
}

// Tick advances the animations of the visible layers.
func (l *Layers) Tick(dt time.Duration) {
	for _, layer := range l.layers {
		if a, ok := layer.item.(tumbler.Animator); ok && layer.visible && a.Animating() {
			a.Tick(dt)
		}
	}
}

func (l *Layers) topVisibleEnabledLayer() *layer {
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if layer.visible && layer.enabled {
			return layer
		}
	}
	return nil
}

// topVisibleEnabledOverlayIndex returns the index of the top-most overlay
// layer that is both visible and enabled, or -1. Only one overlay is applied
// at a time.
func (l *Layers) topVisibleEnabledOverlayIndex() int {
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if layer.visible && layer.enabled && layer.overlay {
			return index
		}
	}
	return -1
}

// overlayScreen applies a style on top of everything drawn through it.
type overlayScreen struct {
	tcell.Screen
	overlay tcell.Style
}

func newOverlayScreen(screen tcell.Screen, overlay tcell.Style) *overlayScreen {
	return &overlayScreen{Screen: screen, overlay: overlay}
}

func (s *overlayScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.Screen.SetContent(x, y, primary, combining, applyOverlay(style, s.overlay))
}

func (s *overlayScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	return s.Screen.Put(x, y, str, applyOverlay(style, s.overlay))
}

func (s *overlayScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	s.Screen.PutStrStyled(x, y, str, applyOverlay(style, s.overlay))
}

// applyOverlay sets the colors the overlay sets explicitly and adds its
// attributes. Attributes of base are never removed.
func applyOverlay(base tcell.Style, overlay tcell.Style) tcell.Style {
	if fg := overlay.GetForeground(); fg != tcell.ColorDefault {
		base = base.Foreground(fg)
	}
	if bg := overlay.GetBackground(); bg != tcell.ColorDefault {
		base = base.Background(bg)
	}
	if overlay.HasBold() {
		base = base.Bold(true)
	}
	if overlay.HasDim() {
		base = base.Dim(true)
	}
	if overlay.HasItalic() {
		base = base.Italic(true)
	}
	if overlay.HasReverse() {
		base = base.Reverse(true)
	}
	return base
}

var (
	_ tumbler.Primitive = (*Layers)(nil)
	_ tumbler.Animator  = (*Layers)(nil)
)
