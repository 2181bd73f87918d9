package tumbler

import (
	"github.com/gdamore/tcell/v3"
)

// Box implements the Primitive interface with an empty background and optional
// border, title and footer. Widgets embed it and draw their content into the
// inner rectangle.
type Box struct {
	// The position of the rect.
	x, y, width, height int

	// Padding between the border and the content.
	paddingTop, paddingBottom, paddingLeft, paddingRight int

	backgroundColor tcell.Color

	borders     Borders
	borderSet   BorderSet
	borderStyle tcell.Style

	title          string
	titleStyle     tcell.Style
	titleAlignment Alignment

	footer          string
	footerStyle     tcell.Style
	footerAlignment Alignment

	hasFocus bool

	// Optional callbacks invoked when the primitive receives or loses focus.
	focus, blur func()
}

// NewBox returns a Box without a border.
func NewBox() *Box {
	return &Box{
		width:           15,
		height:          10,
		backgroundColor: Styles.PrimitiveBackgroundColor,
		borderStyle:     tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
		borderSet:       BorderSetPlain(),
		titleStyle:      tcell.StyleDefault.Foreground(Styles.TitleColor),
		titleAlignment:  AlignmentCenter,
		footerStyle:     tcell.StyleDefault.Foreground(Styles.SecondaryTextColor),
		footerAlignment: AlignmentRight,
	}
}

// SetBorderPadding sets the size of the padding inside the border.
func (b *Box) SetBorderPadding(top, bottom, left, right int) *Box {
	b.paddingTop, b.paddingBottom, b.paddingLeft, b.paddingRight = top, bottom, left, right
	return b
}

// GetRect returns the current position of the rectangle, x, y, width, and
// height.
func (b *Box) GetRect() (int, int, int, int) {
	return b.x, b.y, b.width, b.height
}

// SetRect sets a new position of the primitive.
func (b *Box) SetRect(x, y, width, height int) {
	b.x, b.y, b.width, b.height = x, y, width, height
}

// GetInnerRect returns the position of the inner rectangle (x, y, width,
// height), without the border and without any padding. Width and height
// never go below 0.
func (b *Box) GetInnerRect() (int, int, int, int) {
	x, y, width, height := b.GetRect()
	if b.title != "" || b.borders.Has(BordersTop) {
		y++
		height--
	}
	if b.footer != "" || b.borders.Has(BordersBottom) {
		height--
	}
	if b.borders.Has(BordersLeft) {
		x++
		width--
	}
	if b.borders.Has(BordersRight) {
		width--
	}

	x += b.paddingLeft
	y += b.paddingTop
	width -= b.paddingLeft + b.paddingRight
	height -= b.paddingTop + b.paddingBottom
	return x, y, max(width, 0), max(height, 0)
}

// InRect returns true if the given coordinate is within the bounds of the box's
// rectangle.
func (b *Box) InRect(x, y int) bool {
	rectX, rectY, width, height := b.GetRect()
	return x >= rectX && x < rectX+width && y >= rectY && y < rectY+height
}

// InInnerRect returns true if the given coordinate is within the bounds of the
// box's inner rectangle.
func (b *Box) InInnerRect(x, y int) bool {
	rectX, rectY, width, height := b.GetInnerRect()
	return x >= rectX && x < rectX+width && y >= rectY && y < rectY+height
}

// InputHandler ignores every key.
func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

// MouseHandler takes the focus on a left click inside the box.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	if action == MouseLeftDown && b.InRect(event.Position()) {
		return nil, SetFocusCommand{Target: b}
	}
	return nil, nil
}

// SetBackgroundColor sets the box's background color.
func (b *Box) SetBackgroundColor(color tcell.Color) *Box {
	b.backgroundColor = color
	b.borderStyle = b.borderStyle.Background(color)
	return b
}

// GetBackgroundColor returns the box's background color.
func (b *Box) GetBackgroundColor() tcell.Color {
	return b.backgroundColor
}

// SetBorders sets which borders to draw.
func (b *Box) SetBorders(flag Borders) *Box {
	b.borders = flag
	return b
}

// GetBorders returns the borders.
func (b *Box) GetBorders() Borders {
	return b.borders
}

// SetBorderSet sets the glyphs the border is drawn with.
func (b *Box) SetBorderSet(borderSet BorderSet) *Box {
	b.borderSet = borderSet
	return b
}

// SetBorderStyle sets the box's border style.
func (b *Box) SetBorderStyle(style tcell.Style) *Box {
	b.borderStyle = style
	return b
}

// SetTitle sets the box's title.
func (b *Box) SetTitle(title string) *Box {
	b.title = title
	return b
}

// GetTitle returns the box's current title.
func (b *Box) GetTitle() string {
	return b.title
}

// SetTitleAlignment sets the alignment of the title.
func (b *Box) SetTitleAlignment(alignment Alignment) *Box {
	b.titleAlignment = alignment
	return b
}

// SetFooter sets the box's footer.
func (b *Box) SetFooter(footer string) *Box {
	b.footer = footer
	return b
}

// GetFooter returns the box's current footer.
func (b *Box) GetFooter() string {
	return b.footer
}

// SetFooterStyle sets the style of the footer.
func (b *Box) SetFooterStyle(style tcell.Style) *Box {
	b.footerStyle = style
	return b
}

// Draw draws this primitive onto the screen.
func (b *Box) Draw(screen tcell.Screen) {
	if b.width <= 0 || b.height <= 0 {
		return
	}

	background := tcell.StyleDefault.Background(b.backgroundColor)
	for y := b.y; y < b.y+b.height; y++ {
		for x := b.x; x < b.x+b.width; x++ {
			screen.Put(x, y, " ", background)
		}
	}

	if b.borders != BordersNone && b.width >= 2 && b.height >= 2 {
		b.drawBorder(screen)
	}

	b.drawLabel(screen, b.title, b.y, b.titleAlignment, b.titleStyle)
	b.drawLabel(screen, b.footer, b.y+b.height-1, b.footerAlignment, b.footerStyle)
}

func (b *Box) drawBorder(screen tcell.Screen) {
	left, right := b.x, b.x+b.width-1
	top, bottom := b.y, b.y+b.height-1
	set, style := b.borderSet, b.borderStyle

	for x := left + 1; x < right; x++ {
		if b.borders.Has(BordersTop) {
			screen.Put(x, top, set.Top, style)
		}
		if b.borders.Has(BordersBottom) {
			screen.Put(x, bottom, set.Bottom, style)
		}
	}
	for y := top + 1; y < bottom; y++ {
		if b.borders.Has(BordersLeft) {
			screen.Put(left, y, set.Left, style)
		}
		if b.borders.Has(BordersRight) {
			screen.Put(right, y, set.Right, style)
		}
	}

	corners := []struct {
		flag Borders
		x, y int
		str  string
	}{
		{BordersTop | BordersLeft, left, top, set.TopLeft},
		{BordersTop | BordersRight, right, top, set.TopRight},
		{BordersBottom | BordersLeft, left, bottom, set.BottomLeft},
		{BordersBottom | BordersRight, right, bottom, set.BottomRight},
	}
	for _, c := range corners {
		if b.borders&c.flag == c.flag {
			screen.Put(c.x, c.y, c.str, style)
		}
	}
}

// drawLabel prints a title or footer into row y, ending it with an ellipsis
// when it does not fit.
func (b *Box) drawLabel(screen tcell.Screen, text string, y int, alignment Alignment, style tcell.Style) {
	if text == "" || b.width < 4 {
		return
	}
	start, end, _ := printWithStyle(screen, text, b.x+1, y, 0, b.width-2, alignment, style, true)
	printed := end - start
	if printed <= 0 || printed >= len(text) {
		return
	}
	x := b.x + b.width - 2
	if alignment == AlignmentRight {
		x = b.x + 1
	}
	_, existing, _ := screen.Get(x, y)
	Print(screen, SemigraphicsHorizontalEllipsis, x, y, 1, AlignmentLeft, existing.GetForeground())
}

// SetFocusFunc sets a callback invoked when this primitive receives focus.
// Set to nil to remove it.
func (b *Box) SetFocusFunc(callback func()) *Box {
	b.focus = callback
	return b
}

// SetBlurFunc sets a callback invoked when this primitive loses focus. Set to
// nil to remove it.
func (b *Box) SetBlurFunc(callback func()) *Box {
	b.blur = callback
	return b
}

// Focus is called when this primitive receives focus.
func (b *Box) Focus(delegate func(p Primitive)) {
	b.hasFocus = true
	if b.focus != nil {
		b.focus()
	}
}

// Blur is called when this primitive loses focus.
func (b *Box) Blur() {
	b.hasFocus = false
	if b.blur != nil {
		b.blur()
	}
}

// HasFocus returns whether or not this primitive has focus.
func (b *Box) HasFocus() bool {
	return b.hasFocus
}

var _ Primitive = &Box{}
