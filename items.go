package tumbler

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ayn2op/tumbler/loop"
	"github.com/gdamore/tcell/v3"
)

// ErrItemOutOfRange is returned when an item is requested for an index the
// source does not have.
var ErrItemOutOfRange = errors.New("tumbler: item index out of range")

// Item is a materialized entry a [Tumbler] can draw. Handles returned by the
// factory of a tumbler that do not implement Item are laid out but not drawn.
type Item interface {
	loop.Handle
	// Draw draws the item into the given cells. selected is true for the item
	// closest to the center of the tumbler.
	Draw(screen tcell.Screen, x, y, width, height int, selected bool)
}

// TextItems is an item source and factory over a list of labels.
type TextItems struct {
	labels []string
	rows   int

	style         tcell.Style
	selectedStyle tcell.Style

	// Number of items created and not yet destroyed.
	live int
}

// NewTextItems returns one row tall items for labels.
func NewTextItems(labels []string) *TextItems {
	return &TextItems{
		labels:        slices.Clone(labels),
		rows:          1,
		style:         tcell.StyleDefault.Foreground(Styles.PrimaryTextColor),
		selectedStyle: tcell.StyleDefault.Foreground(Styles.SelectedTextColor).Background(Styles.SelectedBackgroundColor).Bold(true),
	}
}

// SetLabels replaces the labels. Call [Tumbler.Reset] afterwards so the
// tumbler rebuilds its items.
func (t *TextItems) SetLabels(labels []string) *TextItems {
	t.labels = slices.Clone(labels)
	return t
}

// Labels returns the labels.
func (t *TextItems) Labels() []string {
	return t.labels
}

// SetItemHeight sets how many rows each item takes.
func (t *TextItems) SetItemHeight(rows int) *TextItems {
	t.rows = max(rows, 1)
	return t
}

// SetStyles sets the style of regular items and of the selected one.
func (t *TextItems) SetStyles(normal, selected tcell.Style) *TextItems {
	t.style, t.selectedStyle = normal, selected
	return t
}

// Live returns the number of items currently materialized.
func (t *TextItems) Live() int {
	return t.live
}

func (t *TextItems) Len() int {
	return len(t.labels)
}

func (t *TextItems) CreateAt(index int) (loop.Handle, error) {
	if index < 0 || index >= len(t.labels) {
		return nil, fmt.Errorf("create item %d: %w", index, ErrItemOutOfRange)
	}
	t.live++
	label := t.labels[index]
	return &TextItem{
		Label:         label,
		width:         StringWidth(label) + 2,
		rows:          t.rows,
		style:         t.style,
		selectedStyle: t.selectedStyle,
	}, nil
}

func (t *TextItems) Destroy(h loop.Handle) {
	if _, ok := h.(*TextItem); ok {
		t.live--
	}
}

// TextItem is a single label with one cell of padding on either side.
type TextItem struct {
	Label string

	width int
	rows  int

	style         tcell.Style
	selectedStyle tcell.Style
}

func (i *TextItem) Size() (float64, float64) {
	return float64(i.width), float64(i.rows)
}

func (i *TextItem) Draw(screen tcell.Screen, x, y, width, height int, selected bool) {
	if width <= 0 || height <= 0 {
		return
	}
	style := i.style
	if selected {
		style = i.selectedStyle
		fill(screen, x, y, width, height, style)
	}
	label := Truncate(i.Label, width-2)
	printWithStyle(screen, label, x+1, y+height/2, 0, width-2, AlignmentCenter, style, !selected)
}

var (
	_ loop.Source  = (*TextItems)(nil)
	_ loop.Factory = (*TextItems)(nil)
	_ Item         = (*TextItem)(nil)
)
