package tumbler

import (
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

type cell struct {
	str   string
	style tcell.Style
	width int
}

// fakeScreen records what is drawn. Methods the widgets do not use are left
// to the embedded nil interface and panic when called.
type fakeScreen struct {
	tcell.Screen

	width, height int
	cells         map[[2]int]cell

	shows, clears int
	title         string
	finalized     bool
	cursorHidden  bool
}

func newFakeScreen(width, height int) *fakeScreen {
	return &fakeScreen{width: width, height: height, cells: make(map[[2]int]cell)}
}

func (s *fakeScreen) Size() (int, int) {
	return s.width, s.height
}

func (s *fakeScreen) Put(x, y int, str string, style tcell.Style) (string, int) {
	if str == "" || x < 0 || y < 0 || x >= s.width || y >= s.height {
		return str, 0
	}
	cluster, rest, width, _ := uniseg.FirstGraphemeClusterInString(str, -1)
	width = max(width, 1)
	s.cells[[2]int{x, y}] = cell{str: cluster, style: style, width: width}
	return rest, width
}

func (s *fakeScreen) Get(x, y int) (string, tcell.Style, int) {
	c, ok := s.cells[[2]int{x, y}]
	if !ok {
		return " ", tcell.StyleDefault, 1
	}
	return c.str, c.style, c.width
}

func (s *fakeScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	s.Put(x, y, string(append([]rune{primary}, combining...)), style)
}

func (s *fakeScreen) Show() {
	s.shows++
}

func (s *fakeScreen) Clear() {
	s.clears++
	clear(s.cells)
}

func (s *fakeScreen) HideCursor() {
	s.cursorHidden = true
}

func (s *fakeScreen) ShowCursor(x, y int) {
	s.cursorHidden = false
}

func (s *fakeScreen) SetTitle(t string) {
	s.title = t
}

func (s *fakeScreen) Fini() {
	s.finalized = true
}

// row returns the text of row y with empty cells as spaces.
func (s *fakeScreen) row(y int) string {
	var b strings.Builder
	for x := 0; x < s.width; {
		c, ok := s.cells[[2]int{x, y}]
		if !ok || c.str == "" {
			b.WriteByte(' ')
			x++
			continue
		}
		b.WriteString(c.str)
		x += c.width
	}
	return b.String()
}

func (s *fakeScreen) styleAt(x, y int) tcell.Style {
	return s.cells[[2]int{x, y}].style
}
