package tumbler

import (
	"github.com/gdamore/tcell/v3"
)

// Alignment positions text within the cells it is printed into.
type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// Print prints text onto the screen into the given box at (x,y,maxWidth,1),
// not exceeding that box. The screen's background color will not be changed.
//
// Returns the number of bytes of text printed and the width used.
func Print(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, color tcell.Color) (int, int) {
	start, end, width := printWithStyle(screen, text, x, y, 0, maxWidth, alignment, tcell.StyleDefault.Foreground(color), true)
	return end - start, width
}

// PrintWithStyle works like [Print] but takes a full style. The style's
// background is replaced by whatever the screen already shows.
func PrintWithStyle(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) (int, int) {
	start, end, width := printWithStyle(screen, text, x, y, 0, maxWidth, alignment, style, true)
	return end - start, width
}

// printWithStyle works like [Print] but takes a full style. skipWidth cells
// are dropped from the beginning of the text. It returns the byte range of
// text that was printed and its width. With maintainBackground the style's
// background is replaced by whatever the screen already shows.
func printWithStyle(screen tcell.Screen, text string, x, y, skipWidth, maxWidth int, alignment Alignment, style tcell.Style, maintainBackground bool) (start, end, printedWidth int) {
	totalWidth, totalHeight := screen.Size()
	if maxWidth <= 0 || text == "" || y < 0 || y >= totalHeight {
		return 0, 0, 0
	}

	clusters := graphemes(text)
	first := 0
	for first < len(clusters) && skipWidth > 0 {
		skipWidth -= clusters[first].width
		start += len(clusters[first].text)
		first++
	}
	textWidth := 0
	for _, c := range clusters[first:] {
		textWidth += c.width
	}

	// Right aligned text keeps its end, centered text loses half the
	// overflow on each side.
	switch alignment {
	case AlignmentRight:
		for first < len(clusters) && textWidth > maxWidth {
			textWidth -= clusters[first].width
			start += len(clusters[first].text)
			first++
		}
		x, maxWidth = x+maxWidth-textWidth, textWidth
	case AlignmentCenter:
		overflow := (textWidth - maxWidth) / 2
		for first < len(clusters) && overflow > 0 {
			overflow -= clusters[first].width
			textWidth -= clusters[first].width
			start += len(clusters[first].text)
			first++
		}
		if textWidth < maxWidth {
			x, maxWidth = x+maxWidth/2-textWidth/2, textWidth
		}
	}

	end = start
	right := min(x+maxWidth, totalWidth)
	for _, c := range clusters[first:] {
		if x+c.width > right {
			break
		}
		if c.width > 0 {
			cellStyle := style
			if maintainBackground {
				_, existing, _ := screen.Get(x, y)
				cellStyle = cellStyle.Background(existing.GetBackground())
			}
			// Wide clusters own every cell they cover.
			for i := c.width - 1; i > 0; i-- {
				screen.Put(x+i, y, " ", cellStyle)
			}
			screen.Put(x, y, c.text, cellStyle)
		}
		x += c.width
		end += len(c.text)
		printedWidth += c.width
	}
	return start, end, printedWidth
}

// fill paints a rectangle with blanks in style.
func fill(screen tcell.Screen, x, y, width, height int, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			screen.Put(col, row, " ", style)
		}
	}
}
