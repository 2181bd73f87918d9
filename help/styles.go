package help

import (
	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/tumbler"
)

// Styles holds the styles of the help parts.
type Styles struct {
	ShortKey       tcell.Style
	ShortDesc      tcell.Style
	ShortSeparator tcell.Style

	FullKey       tcell.Style
	FullDesc      tcell.Style
	FullSeparator tcell.Style

	Ellipsis tcell.Style
}

func DefaultStyles() Styles {
	key := tcell.StyleDefault.Foreground(tumbler.Styles.SecondaryTextColor)
	desc := tcell.StyleDefault.Foreground(tumbler.Styles.PrimaryTextColor)
	dim := tcell.StyleDefault.Dim(true)
	return Styles{
		ShortKey:       key,
		ShortDesc:      desc,
		ShortSeparator: dim,
		FullKey:        key,
		FullDesc:       desc,
		FullSeparator:  dim,
		Ellipsis:       dim,
	}
}
