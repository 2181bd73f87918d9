package tumbler

import (
	"math"

	"github.com/gdamore/tcell/v3"
)

// ScrollBarArrows controls which endcaps are rendered.
type ScrollBarArrows uint8

const (
	ScrollBarArrowsNone ScrollBarArrows = iota
	ScrollBarArrowsStart
	ScrollBarArrowsEnd
	ScrollBarArrowsBoth
)

func (a ScrollBarArrows) hasStart() bool {
	return a == ScrollBarArrowsStart || a == ScrollBarArrowsBoth
}

func (a ScrollBarArrows) hasEnd() bool {
	return a == ScrollBarArrowsEnd || a == ScrollBarArrowsBoth
}

// Cells are split in eighths so the thumb can move smoothly.
const subcell = 8

// GlyphSet defines vertical track, arrow, and fractional thumb glyphs.
type GlyphSet struct {
	TrackVertical string

	ArrowVerticalStart string
	ArrowVerticalEnd   string

	ThumbVerticalLower [subcell]string
	ThumbVerticalUpper [subcell]string
}

// LegacyComputingGlyphSet returns legacy-computing symbols for full 1/8
// fractional fidelity.
func LegacyComputingGlyphSet() GlyphSet {
	return GlyphSet{
		TrackVertical:      BoxDrawingsLightVertical,
		ArrowVerticalStart: BlackUpPointingTriangle,
		ArrowVerticalEnd:   BlackDownPointingTriangle,
		ThumbVerticalLower: [subcell]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbVerticalUpper: [subcell]string{"▔", "\U0001fb82", "\U0001fb83", "▀", "\U0001fb84", "\U0001fb85", "\U0001fb86", "█"},
	}
}

// UnicodeGlyphSet returns a standard-unicode-only approximation.
func UnicodeGlyphSet() GlyphSet {
	g := LegacyComputingGlyphSet()
	g.ThumbVerticalUpper = [subcell]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"}
	return g
}

// MinimalGlyphSet is [UnicodeGlyphSet] with a blank track.
func MinimalGlyphSet() GlyphSet {
	g := UnicodeGlyphSet()
	g.TrackVertical = " "
	return g
}

// ScrollBar is a vertical position indicator. It shows how far a tumbler is
// scrolled through its items and takes no input.
type ScrollBar struct {
	*Box

	autoHide    bool
	contentLen  float64
	viewportLen float64
	// Scroll position from 0 (start) to 1 (end).
	progress float64

	trackStyle tcell.Style
	thumbStyle tcell.Style
	arrowStyle tcell.Style

	glyphSet GlyphSet
	arrows   ScrollBarArrows
}

// NewScrollBar returns a new vertical scroll bar.
func NewScrollBar() *ScrollBar {
	return &ScrollBar{
		Box:        NewBox(),
		autoHide:   true,
		trackStyle: tcell.StyleDefault.Dim(true),
		thumbStyle: tcell.StyleDefault.Foreground(Styles.IndicatorColor),
		arrowStyle: tcell.StyleDefault.Dim(true),
		glyphSet:   UnicodeGlyphSet(),
	}
}

// SetLengths sets the length of the content and of the part of it that is
// visible, in the same unit.
func (s *ScrollBar) SetLengths(content, viewport float64) *ScrollBar {
	s.contentLen = max(content, 0)
	s.viewportLen = max(viewport, 0)
	return s
}

// SetProgress sets the scroll position, clamped to [0, 1].
func (s *ScrollBar) SetProgress(progress float64) *ScrollBar {
	if math.IsNaN(progress) {
		progress = 0
	}
	s.progress = min(max(progress, 0), 1)
	return s
}

// SetGlyphSet applies a glyph set.
func (s *ScrollBar) SetGlyphSet(g GlyphSet) *ScrollBar {
	s.glyphSet = g
	return s
}

// SetArrows sets which arrow endcaps are rendered.
func (s *ScrollBar) SetArrows(arrows ScrollBarArrows) *ScrollBar {
	s.arrows = arrows
	return s
}

// SetAutoHide controls whether the bar is hidden when everything fits.
func (s *ScrollBar) SetAutoHide(autoHide bool) *ScrollBar {
	s.autoHide = autoHide
	return s
}

// SetStyles sets the track, thumb and arrow styles.
func (s *ScrollBar) SetStyles(track, thumb, arrow tcell.Style) *ScrollBar {
	s.trackStyle, s.thumbStyle, s.arrowStyle = track, thumb, arrow
	return s
}

type scrollMetrics struct {
	trackCells int
	thumbLen   int
	thumbStart int
}

// metrics computes the thumb geometry in subcell units for a track of the
// given number of cells.
func (s *ScrollBar) metrics(trackCells int) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen <= 0 {
		return scrollMetrics{}
	}
	content := max(s.contentLen, 1)
	viewport := min(max(s.viewportLen, 1), content)

	thumbLen := int(math.Round(float64(trackLen) * viewport / content))
	thumbLen = min(max(thumbLen, subcell), trackLen)
	thumbStart := int(math.Round(float64(trackLen-thumbLen) * s.progress))
	return scrollMetrics{trackCells: trackCells, thumbLen: thumbLen, thumbStart: thumbStart}
}

// cellFill returns the part of cell cellIndex covered by the thumb as a start
// and length in subcells.
func cellFill(m scrollMetrics, cellIndex int) (start int, fillLen int) {
	cellStart := cellIndex * subcell
	from := max(m.thumbStart, cellStart)
	to := min(m.thumbStart+m.thumbLen, cellStart+subcell)
	if to <= from {
		return 0, 0
	}
	return from - cellStart, to - from
}

func (s *ScrollBar) glyph(start, fillLen int) (string, tcell.Style) {
	switch {
	case fillLen <= 0:
		return s.glyphSet.TrackVertical, s.trackStyle
	case fillLen >= subcell:
		return s.glyphSet.ThumbVerticalLower[subcell-1], s.thumbStyle
	case start == 0:
		return s.glyphSet.ThumbVerticalUpper[fillLen-1], s.thumbStyle
	}
	return s.glyphSet.ThumbVerticalLower[fillLen-1], s.thumbStyle
}

// Draw draws the scroll bar.
func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.Box.Draw(screen)

	x, y, _, height := s.GetInnerRect()
	if height <= 0 || s.contentLen <= 0 {
		return
	}
	if s.autoHide && s.contentLen <= s.viewportLen {
		return
	}

	trackCells := height
	if s.arrows.hasStart() {
		screen.Put(x, y, s.glyphSet.ArrowVerticalStart, s.arrowStyle)
		y++
		trackCells--
	}
	if s.arrows.hasEnd() {
		trackCells--
		screen.Put(x, y+max(trackCells, 0), s.glyphSet.ArrowVerticalEnd, s.arrowStyle)
	}

	m := s.metrics(trackCells)
	for cell := range m.trackCells {
		glyph, style := s.glyph(cellFill(m, cell))
		screen.Put(x, y+cell, glyph, style)
	}
}

var _ Primitive = &ScrollBar{}
