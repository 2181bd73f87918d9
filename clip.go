package tumbler

import (
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// clipScreen confines drawing to a rectangle of the wrapped screen. Items
// near the edges of a tumbler are drawn through it so the parts that have
// scrolled out of the viewport are cut off.
type clipScreen struct {
	tcell.Screen
	x, y          int
	width, height int
}

func newClipScreen(screen tcell.Screen, x, y, width, height int) *clipScreen {
	return &clipScreen{Screen: screen, x: x, y: y, width: width, height: height}
}

func (s *clipScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clipScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	if s.inBounds(x, y) {
		s.Screen.SetContent(x, y, primary, combining, style)
	}
}

func (s *clipScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if !s.inBounds(x, y) {
		return str, 0
	}
	return s.Screen.Put(x, y, str, style)
}

func (s *clipScreen) PutStr(x int, y int, str string) {
	s.PutStrStyled(x, y, str, tcell.StyleDefault)
}

// PutStrStyled prints str cluster by cluster, dropping clusters that would
// straddle the clip edge.
func (s *clipScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	if y < s.y || y >= s.y+s.height {
		return
	}
	gr := uniseg.NewGraphemes(str)
	for gr.Next() && x < s.x+s.width {
		width := max(gr.Width(), 1)
		if x >= s.x && x+width <= s.x+s.width {
			s.Screen.Put(x, y, gr.Str(), style)
		}
		x += width
	}
}

func (s *clipScreen) ShowCursor(x int, y int) {
	if !s.inBounds(x, y) {
		s.Screen.HideCursor()
		return
	}
	s.Screen.ShowCursor(x, y)
}
