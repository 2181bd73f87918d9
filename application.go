package tumbler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v3"
)

const (
	// The size of the queued updates channel.
	updatesQueueSize = 100
	// The minimum time between two consecutive redraws on resize.
	redrawPause = 50 * time.Millisecond
	// DefaultFrameRate is the number of animation frames per second.
	DefaultFrameRate = 60
	// Frames lost to a stalled loop are not caught up beyond this many.
	maxFrameCatchUp = 4
)

// DoubleClickInterval specifies the maximum time between clicks to register a
// double click rather than click.
var DoubleClickInterval = 500 * time.Millisecond

// MouseAction indicates one of the actions the mouse is logically doing.
type MouseAction int16

// Available mouse actions.
const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseLeftClick
	MouseLeftDoubleClick
	MouseMiddleDown
	MouseMiddleUp
	MouseMiddleClick
	MouseMiddleDoubleClick
	MouseRightDown
	MouseRightUp
	MouseRightClick
	MouseRightDoubleClick
	MouseScrollUp
	MouseScrollDown
	MouseScrollLeft
	MouseScrollRight
)

// queuedUpdate is a function queued by Application.QueueUpdate(). If done is
// not nil, it receives exactly one element after f has executed.
type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// frameClock ticks while the animator has something in flight and is idle
// otherwise.
type frameClock struct {
	interval time.Duration
	ticker   *time.Ticker
	last     time.Time
}

// C returns the tick channel, nil while stopped.
func (c *frameClock) C() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C
}

func (c *frameClock) start(now time.Time) bool {
	if c.ticker != nil {
		return false
	}
	c.ticker = time.NewTicker(c.interval)
	c.last = now
	return true
}

func (c *frameClock) stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// elapsed returns the time since the previous frame, capped so a stalled
// loop does not make animations jump.
func (c *frameClock) elapsed(now time.Time) time.Duration {
	dt := min(now.Sub(c.last), maxFrameCatchUp*c.interval)
	c.last = now
	return max(dt, 0)
}

// Application represents the top node of an application. It owns the screen,
// runs the event loop and drives a frame clock for animated primitives.
//
// The following displays a primitive p until a QuitCommand is executed:
//
//	if err := tumbler.NewApplication().SetRoot(p).Run(); err != nil {
//	    panic(err)
//	}
type Application struct {
	sync.RWMutex

	screen tcell.Screen

	// The primitive which currently has the keyboard focus.
	focus Primitive

	// The root primitive to be seen on the screen.
	root Primitive

	// Ticked once per frame while it is animating. Defaults to the root
	// primitive when that is an Animator.
	animator Animator
	clock    frameClock

	events chan tcell.Event

	// Functions queued from goroutines, used to serialize updates to primitives.
	updates chan queuedUpdate

	logger *slog.Logger

	mouseCapturingPrimitive Primitive        // Receives mouse events until it releases the capture.
	lastMouseX, lastMouseY  int              // The last position of the mouse.
	mouseDownX, mouseDownY  int              // The position of the mouse when its button was last pressed.
	lastMouseClick          time.Time        // The time when a mouse button was last clicked.
	lastMouseButtons        tcell.ButtonMask // The last mouse button state.

	// forceRedraw requests a full clear before the next frame.
	forceRedraw bool
}

// NewApplication creates and returns a new application.
func NewApplication() *Application {
	return &Application{
		updates: make(chan queuedUpdate, updatesQueueSize),
		clock:   frameClock{interval: time.Second / DefaultFrameRate},
		logger:  slog.New(slog.DiscardHandler),
	}
}

// SetScreen sets the application's screen. It has no effect once a screen
// is set.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
		a.forceRedraw = true
	}
	return a
}

// SetLogger sets the logger for event loop diagnostics.
func (a *Application) SetLogger(logger *slog.Logger) *Application {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a.Lock()
	a.logger = logger
	a.Unlock()
	return a
}

// SetFrameRate sets how many animation frames are drawn per second.
func (a *Application) SetFrameRate(fps int) *Application {
	if fps <= 0 {
		fps = DefaultFrameRate
	}
	a.Lock()
	a.clock.interval = time.Second / time.Duration(fps)
	a.Unlock()
	return a
}

// SetAnimator sets the primitive ticked once per frame while it animates.
func (a *Application) SetAnimator(animator Animator) *Application {
	a.Lock()
	a.animator = animator
	a.Unlock()
	return a
}

func (a *Application) currentAnimator() Animator {
	a.RLock()
	defer a.RUnlock()
	if a.animator != nil {
		return a.animator
	}
	if an, ok := a.root.(Animator); ok {
		return an
	}
	return nil
}

// Run starts the application and thus the event loop. This function returns
// when [Application.Stop] was called.
func (a *Application) Run() error {
	var (
		appErr      error
		lastRedraw  time.Time
		redrawTimer *time.Timer
	)
	a.Lock()

	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.Unlock()
			return err
		}
		if err = screen.Init(); err != nil {
			a.Unlock()
			return err
		}
		a.screen = screen
	}
	screen := a.screen
	a.events = screen.EventQ()
	logger := a.logger
	a.Unlock()

	// We catch panics to clean up because they mess up the terminal.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()
	defer a.clock.stop()

	a.draw()
	a.wake()

EventLoop:
	for {
		select {
		case event := <-a.events:
			if event == nil {
				break EventLoop
			}

			switch event := event.(type) {
			case *tcell.EventKey:
				a.RLock()
				root := a.root
				a.RUnlock()
				if root != nil && root.HasFocus() {
					if a.executeCommand(root.InputHandler(event)) {
						a.draw()
					}
				}
			case *tcell.EventResize:
				a.Lock()
				a.forceRedraw = true
				a.Unlock()
				if time.Since(lastRedraw) < redrawPause {
					if redrawTimer != nil {
						redrawTimer.Stop()
					}
					redrawTimer = time.AfterFunc(redrawPause, func() {
						a.QueueEvent(event)
					})
				}
				lastRedraw = time.Now()
				a.draw()
			case *tcell.EventMouse:
				handled, isMouseDownAction := a.fireMouseActions(event)
				if handled {
					a.draw()
				}
				a.lastMouseButtons = event.Buttons()
				if isMouseDownAction {
					a.mouseDownX, a.mouseDownY = event.Position()
				}
			case *tcell.EventError:
				logger.Error("terminal error", "err", event)
				appErr = event
				a.Stop()
			}
			a.wake()

		case now := <-a.clock.C():
			if a.frame(now) {
				a.draw()
			}

		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}
			a.wake()
		}
	}

	return appErr
}

// wake starts the frame clock when the animator has something in flight.
func (a *Application) wake() {
	an := a.currentAnimator()
	if an == nil || !an.Animating() {
		return
	}
	if a.clock.start(time.Now()) {
		a.logger.Debug("frame clock started")
	}
}

// frame ticks the animator once and reports whether a redraw is due. The
// clock stops as soon as the animator comes to rest.
func (a *Application) frame(now time.Time) bool {
	an := a.currentAnimator()
	if an == nil || !an.Animating() {
		a.clock.stop()
		return false
	}
	an.Tick(a.clock.elapsed(now))
	if !an.Animating() {
		a.clock.stop()
		a.logger.Debug("frame clock stopped")
	}
	return true
}

// fireMouseActions derives mouse actions from event and forwards them to the
// capturing primitive or the root.
func (a *Application) fireMouseActions(event *tcell.EventMouse) (handled, isMouseDownAction bool) {
	// Follow-up actions of the same event go to the same primitive.
	var target Primitive
	fire := func(action MouseAction) {
		switch action {
		case MouseLeftDown, MouseMiddleDown, MouseRightDown:
			isMouseDownAction = true
		}
		if a.dispatchMouse(action, event, &target) {
			handled = true
		}
	}

	x, y := event.Position()
	buttons := event.Buttons()
	clickMoved := x != a.mouseDownX || y != a.mouseDownY
	buttonChanges := buttons ^ a.lastMouseButtons

	if x != a.lastMouseX || y != a.lastMouseY {
		fire(MouseMove)
		a.lastMouseX, a.lastMouseY = x, y
	}

	for _, b := range []struct {
		button                  tcell.ButtonMask
		down, up, click, dclick MouseAction
	}{
		{tcell.ButtonPrimary, MouseLeftDown, MouseLeftUp, MouseLeftClick, MouseLeftDoubleClick},
		{tcell.ButtonMiddle, MouseMiddleDown, MouseMiddleUp, MouseMiddleClick, MouseMiddleDoubleClick},
		{tcell.ButtonSecondary, MouseRightDown, MouseRightUp, MouseRightClick, MouseRightDoubleClick},
	} {
		if buttonChanges&b.button == 0 {
			continue
		}
		if buttons&b.button != 0 {
			fire(b.down)
			continue
		}
		fire(b.up)
		if clickMoved {
			continue
		}
		if a.lastMouseClick.Add(DoubleClickInterval).Before(time.Now()) {
			fire(b.click)
			a.lastMouseClick = time.Now()
		} else {
			fire(b.dclick)
			a.lastMouseClick = time.Time{}
		}
	}

	for _, w := range []struct {
		button tcell.ButtonMask
		action MouseAction
	}{
		{tcell.WheelUp, MouseScrollUp},
		{tcell.WheelDown, MouseScrollDown},
		{tcell.WheelLeft, MouseScrollLeft},
		{tcell.WheelRight, MouseScrollRight},
	} {
		if buttons&w.button != 0 {
			fire(w.action)
		}
	}

	return handled, isMouseDownAction
}

// dispatchMouse sends one mouse action to the capturing primitive, the
// previous target of the same event, or the root, and updates the capture.
func (a *Application) dispatchMouse(action MouseAction, event *tcell.EventMouse, target *Primitive) bool {
	primitive := a.root
	switch {
	case a.mouseCapturingPrimitive != nil:
		primitive = a.mouseCapturingPrimitive
		*target = primitive
	case *target != nil:
		primitive = *target
	}
	if primitive == nil {
		a.mouseCapturingPrimitive = nil
		return false
	}
	capture, cmd := primitive.MouseHandler(action, event)
	a.mouseCapturingPrimitive = capture
	return a.executeCommand(cmd)
}

// Stop stops the application, causing Run() to return.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	screen := a.screen
	if screen == nil {
		return
	}
	screen.Fini()
	a.screen = nil
}

// Draw refreshes the screen during the next update cycle. Never call it from
// the event loop goroutine, e.g. from a widget callback; it would deadlock.
func (a *Application) Draw() *Application {
	a.QueueUpdate(func() {
		a.draw()
	})
	return a
}

// draw lays out the root over the whole screen, draws it and shows the
// result.
func (a *Application) draw() *Application {
	a.Lock()
	screen := a.screen
	root := a.root
	forceRedraw := a.forceRedraw
	a.forceRedraw = false
	a.Unlock()

	if screen == nil || root == nil {
		return a
	}

	width, height := screen.Size()
	root.SetRect(0, 0, width, height)

	// tcell keeps a back buffer and only emits deltas in Show(), so the
	// screen is only cleared for forced redraws.
	if forceRedraw {
		screen.Clear()
	}
	root.Draw(screen)
	screen.Show()
	return a
}

// SetRoot sets the root primitive for this application and focuses it.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	a.root = root
	if a.screen != nil {
		a.forceRedraw = true
	}
	a.Unlock()

	a.SetFocus(root)
	return a
}

// SetFocus sets the focus to a new primitive. Blur() is called on the
// previously focused primitive and Focus() on the new one.
func (a *Application) SetFocus(p Primitive) *Application {
	a.Lock()
	if a.focus != nil {
		a.focus.Blur()
	}
	a.focus = p
	if a.screen != nil {
		a.screen.HideCursor()
	}
	a.Unlock()
	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}
	return a
}

// GetFocus returns the primitive which has the current focus, or nil.
func (a *Application) GetFocus() Primitive {
	a.RLock()
	defer a.RUnlock()
	return a.focus
}

// QueueUpdate runs f on the event loop goroutine and returns once it has
// run. It is the only safe way to touch primitives from other goroutines.
//
// Draw() is not implicitly called after f. Use QueueUpdateDraw() for that.
func (a *Application) QueueUpdate(f func()) *Application {
	ch := make(chan struct{})
	a.updates <- queuedUpdate{f: f, done: ch}
	<-ch
	return a
}

// QueueUpdateDraw works like QueueUpdate() except it refreshes the screen
// immediately after executing f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	a.QueueUpdate(func() {
		f()
		a.draw()
	})
	return a
}

// QueueEvent sends an event to the Application event loop.
func (a *Application) QueueEvent(event tcell.Event) *Application {
	a.RLock()
	events := a.events
	a.RUnlock()
	if events == nil {
		return a
	}
	events <- event
	return a
}

// executeCommand runs cmd and reports whether a redraw is due.
func (a *Application) executeCommand(cmd Command) bool {
	if cmd == nil {
		return false
	}

	a.RLock()
	screen := a.screen
	a.RUnlock()

	switch c := cmd.(type) {
	case BatchCommand:
		redraw := false
		for _, item := range c {
			if a.executeCommand(item) {
				redraw = true
			}
		}
		return redraw
	case RedrawCommand:
		return true
	case AnimateCommand:
		a.wake()
		return true
	case QuitCommand:
		a.Stop()
		return false
	case SetFocusCommand:
		if c.Target == nil {
			return false
		}
		a.RLock()
		changed := a.focus != c.Target
		a.RUnlock()
		a.SetFocus(c.Target)
		return changed
	case SetTitleCommand:
		if screen != nil {
			screen.SetTitle(string(c))
		}
		return false
	}

	a.logger.Warn("unknown command", "type", fmt.Sprintf("%T", cmd))
	return false
}
