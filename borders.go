package tumbler

import "strings"

// BorderSet defines the glyphs a box border is drawn with.
type BorderSet struct {
	Top         string
	Bottom      string
	Left        string
	Right       string
	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string
}

func BorderSetHidden() BorderSet {
	return BorderSet{" ", " ", " ", " ", " ", " ", " ", " "}
}

func BorderSetPlain() BorderSet {
	return BorderSet{
		Top:         BoxDrawingsLightHorizontal,
		Bottom:      BoxDrawingsLightHorizontal,
		Left:        BoxDrawingsLightVertical,
		Right:       BoxDrawingsLightVertical,
		TopLeft:     BoxDrawingsLightDownAndRight,
		TopRight:    BoxDrawingsLightDownAndLeft,
		BottomLeft:  BoxDrawingsLightUpAndRight,
		BottomRight: BoxDrawingsLightUpAndLeft,
	}
}

func BorderSetRound() BorderSet {
	s := BorderSetPlain()
	s.TopLeft = BoxDrawingsLightArcDownAndRight
	s.TopRight = BoxDrawingsLightArcDownAndLeft
	s.BottomLeft = BoxDrawingsLightArcUpAndRight
	s.BottomRight = BoxDrawingsLightArcUpAndLeft
	return s
}

func BorderSetThick() BorderSet {
	return BorderSet{
		Top:         BoxDrawingsHeavyHorizontal,
		Bottom:      BoxDrawingsHeavyHorizontal,
		Left:        BoxDrawingsHeavyVertical,
		Right:       BoxDrawingsHeavyVertical,
		TopLeft:     BoxDrawingsHeavyDownAndRight,
		TopRight:    BoxDrawingsHeavyDownAndLeft,
		BottomLeft:  BoxDrawingsHeavyUpAndRight,
		BottomRight: BoxDrawingsHeavyUpAndLeft,
	}
}

func BorderSetDouble() BorderSet {
	return BorderSet{
		Top:         BoxDrawingsDoubleHorizontal,
		Bottom:      BoxDrawingsDoubleHorizontal,
		Left:        BoxDrawingsDoubleVertical,
		Right:       BoxDrawingsDoubleVertical,
		TopLeft:     BoxDrawingsDoubleDownAndRight,
		TopRight:    BoxDrawingsDoubleDownAndLeft,
		BottomLeft:  BoxDrawingsDoubleUpAndRight,
		BottomRight: BoxDrawingsDoubleUpAndLeft,
	}
}

// ParseBorderSet returns the border set with the given name: plain, round,
// thick, double or hidden. It reports false for unknown names.
func ParseBorderSet(name string) (BorderSet, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain":
		return BorderSetPlain(), true
	case "round", "rounded":
		return BorderSetRound(), true
	case "thick", "heavy":
		return BorderSetThick(), true
	case "double":
		return BorderSetDouble(), true
	case "hidden", "none":
		return BorderSetHidden(), true
	}
	return BorderSetPlain(), false
}

type Borders uint

const (
	BordersTop Borders = 1 << iota
	BordersBottom
	BordersLeft
	BordersRight

	BordersNone Borders = 0
	BordersAll  Borders = BordersTop | BordersBottom | BordersLeft | BordersRight
)

func (b Borders) Has(flag Borders) bool {
	return b&flag != 0
}
