package tumbler

import (
	"github.com/rivo/uniseg"
)

type grapheme struct {
	text  string
	width int
}

// graphemes splits text into user-perceived characters with their width in
// cells.
func graphemes(text string) []grapheme {
	var out []grapheme
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		out = append(out, grapheme{text: gr.Str(), width: gr.Width()})
	}
	return out
}

// StringWidth returns the number of cells text occupies on screen.
func StringWidth(text string) int {
	return uniseg.StringWidth(text)
}

// Truncate shortens text to at most width cells. Text that had to be cut ends
// with an ellipsis.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(text) <= width {
		return text
	}
	var (
		used int
		end  int
	)
	for _, c := range graphemes(text) {
		if used+c.width > width-1 {
			break
		}
		used += c.width
		end += len(c.text)
	}
	return text[:end] + SemigraphicsHorizontalEllipsis
}
