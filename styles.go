package tumbler

import (
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
)

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	BorderColor              tcell.Color // Box borders.
	TitleColor               tcell.Color // Box titles.
	PrimaryTextColor         tcell.Color // Items away from the center.
	SecondaryTextColor       tcell.Color // Footers and markers.
	SelectedTextColor        tcell.Color // The centered item.
	SelectedBackgroundColor  tcell.Color // Band behind the centered item.
	IndicatorColor           tcell.Color // Position indicator thumb.
}

// Styles defines the theme for applications. The default is for a black
// background with white items and a blue selection band.
var Styles = Theme{
	PrimitiveBackgroundColor: color.Black,
	BorderColor:              color.White,
	TitleColor:               color.White,
	PrimaryTextColor:         color.White,
	SecondaryTextColor:       color.Yellow,
	SelectedTextColor:        color.White,
	SelectedBackgroundColor:  color.Blue,
	IndicatorColor:           color.Green,
}
