// Package help renders the key bindings of a primitive, either as a single
// line or as a full table of columns.
package help

import (
	"strings"

	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/tumbler"
	"github.com/ayn2op/tumbler/keybind"
)

// KeyMap is implemented by key maps that can describe themselves.
type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

// Help shows the bindings of a [KeyMap]. In full mode it takes input and
// calls its done handler on any key, which makes it usable as a dismissible
// overlay.
type Help struct {
	*tumbler.Box

	styles         Styles
	keyMap         KeyMap
	showAll        bool
	shortSeparator string
	fullSeparator  string

	done func()
}

func New() *Help {
	return &Help{
		Box:            tumbler.NewBox(),
		styles:         DefaultStyles(),
		shortSeparator: " " + tumbler.Bullet + " ",
		fullSeparator:  "    ",
	}
}

// SetKeyMap sets the key map to describe.
func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	return h
}

// SetShowAll switches between the single line and the full table.
func (h *Help) SetShowAll(showAll bool) *Help {
	h.showAll = showAll
	return h
}

func (h *Help) ShowAll() bool {
	return h.showAll
}

// SetSeparators sets the separator between short help items and between
// full help columns.
func (h *Help) SetSeparators(short, full string) *Help {
	h.shortSeparator, h.fullSeparator = short, full
	return h
}

func (h *Help) SetStyles(styles Styles) *Help {
	h.styles = styles
	return h
}

// SetDoneFunc sets the handler called when a key is pressed while the full
// table is shown.
func (h *Help) SetDoneFunc(handler func()) *Help {
	h.done = handler
	return h
}

// Height returns the number of rows the help needs.
func (h *Help) Height() int {
	if h.keyMap == nil {
		return 0
	}
	if !h.showAll {
		return 1
	}
	rows := 0
	for _, group := range h.keyMap.FullHelp() {
		rows = max(rows, len(enabled(group)))
	}
	return rows
}

// InputHandler dismisses the full table.
func (h *Help) InputHandler(event *tcell.EventKey) tumbler.Command {
	if !h.showAll || h.done == nil {
		return nil
	}
	h.done()
	return tumbler.RedrawCommand{}
}

// Draw draws the help.
func (h *Help) Draw(screen tcell.Screen) {
	h.Box.Draw(screen)
	if h.keyMap == nil {
		return
	}

	x, y, width, height := h.GetInnerRect()
	var lines [][]segment
	if h.showAll {
		lines = h.fullLines(h.keyMap.FullHelp(), width)
	} else {
		lines = [][]segment{h.shortLine(h.keyMap.ShortHelp(), width)}
	}
	for row := 0; row < len(lines) && row < height; row++ {
		drawSegments(screen, x, y+row, width, lines[row])
	}
}

// Lines renders the help as plain text lines for the given width, without
// trailing blanks. A width of 0 does not limit the lines.
func (h *Help) Lines(width int) []string {
	if h.keyMap == nil {
		return nil
	}
	var lines [][]segment
	if h.showAll {
		lines = h.fullLines(h.keyMap.FullHelp(), width)
	} else {
		lines = [][]segment{h.shortLine(h.keyMap.ShortHelp(), width)}
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		for _, s := range line {
			b.WriteString(s.text)
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	return out
}

type segment struct {
	text  string
	style tcell.Style
}

func enabled(group []keybind.Keybind) []keybind.Keybind {
	out := make([]keybind.Keybind, 0, len(group))
	for _, kb := range group {
		if kb.Enabled() {
			out = append(out, kb)
		}
	}
	return out
}

// shortLine joins as many bindings as fit into width, ending with an
// ellipsis when some were left out.
func (h *Help) shortLine(bindings []keybind.Keybind, width int) []segment {
	sep := segment{text: h.shortSeparator, style: h.styles.ShortSeparator}
	var line []segment
	for _, kb := range enabled(bindings) {
		item := []segment{
			{text: kb.String(), style: h.styles.ShortKey},
			{text: " " + kb.Desc(), style: h.styles.ShortDesc},
		}
		candidate := line
		if len(candidate) > 0 {
			candidate = append(append([]segment(nil), line...), sep)
		}
		candidate = append(candidate, item...)
		if width > 0 && segmentsWidth(candidate) > width {
			return h.withEllipsis(line, width)
		}
		line = candidate
	}
	return line
}

// fullLines lays the groups out as columns, left to right, until the next
// column would overflow width.
func (h *Help) fullLines(groups [][]keybind.Keybind, width int) [][]segment {
	type column struct {
		bindings   []keybind.Keybind
		keyWidth   int
		totalWidth int
	}

	var columns []column
	for _, group := range groups {
		col := column{bindings: enabled(group)}
		if len(col.bindings) == 0 {
			continue
		}
		for _, kb := range col.bindings {
			col.keyWidth = max(col.keyWidth, tumbler.StringWidth(kb.String()))
		}
		for _, kb := range col.bindings {
			col.totalWidth = max(col.totalWidth, col.keyWidth+1+tumbler.StringWidth(kb.Desc()))
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil
	}

	sepWidth := tumbler.StringWidth(h.fullSeparator)
	included, used := 0, 0
	for i, col := range columns {
		next := col.totalWidth
		if i > 0 {
			next += sepWidth
		}
		if width > 0 && used+next > width {
			break
		}
		included++
		used += next
	}
	if included == 0 {
		return [][]segment{{{text: tumbler.SemigraphicsHorizontalEllipsis, style: h.styles.Ellipsis}}}
	}

	rows := 0
	for _, col := range columns[:included] {
		rows = max(rows, len(col.bindings))
	}

	lines := make([][]segment, rows)
	for row := range lines {
		for i, col := range columns[:included] {
			if i > 0 {
				lines[row] = append(lines[row], segment{text: h.fullSeparator, style: h.styles.FullSeparator})
			}
			cell := col.totalWidth
			if row < len(col.bindings) {
				kb := col.bindings[row]
				key := kb.String()
				lines[row] = append(lines[row],
					segment{text: key + strings.Repeat(" ", col.keyWidth-tumbler.StringWidth(key)), style: h.styles.FullKey},
					segment{text: " " + kb.Desc(), style: h.styles.FullDesc},
				)
				cell -= col.keyWidth + 1 + tumbler.StringWidth(kb.Desc())
			}
			// Pad so the separators of later columns line up.
			if i < included-1 && cell > 0 {
				lines[row] = append(lines[row], segment{text: strings.Repeat(" ", cell), style: h.styles.FullDesc})
			}
		}
	}

	if included < len(columns) {
		lines[0] = h.withEllipsis(lines[0], width)
	}
	return lines
}

// withEllipsis appends " …" to line if it fits into width.
func (h *Help) withEllipsis(line []segment, width int) []segment {
	tail := segment{text: " " + tumbler.SemigraphicsHorizontalEllipsis, style: h.styles.Ellipsis}
	if segmentsWidth(line)+segmentsWidth([]segment{tail}) > width {
		return line
	}
	return append(line, tail)
}

func drawSegments(screen tcell.Screen, x, y, width int, segments []segment) {
	for _, s := range segments {
		if width <= 0 {
			return
		}
		if s.text == "" {
			continue
		}
		_, printed := tumbler.PrintWithStyle(screen, s.text, x, y, width, tumbler.AlignmentLeft, s.style)
		x += printed
		width -= printed
	}
}

func segmentsWidth(segments []segment) int {
	width := 0
	for _, s := range segments {
		width += tumbler.StringWidth(s.text)
	}
	return width
}
