package timer

import (
	"errors"
	"fmt"
)

// ErrUnknownColor is returned by ParseColor for names outside the palette.
var ErrUnknownColor = errors.New("unknown timer color")

// Color is a palette entry name.
type Color string

// Palette colors.
const (
	Red         Color = "red"
	Orange      Color = "orange"
	DarkYellow  Color = "darkYellow"
	JungleGreen Color = "jungleGreen"
	SkyBlue     Color = "skyBlue"
	LapisBlue   Color = "lapisBlue"
	LightPurple Color = "lightPurple"
	HotPink     Color = "hotPink"
)

// Palette is the ordered color cycle for new timers.
var Palette = []Color{
	Red,
	Orange,
	DarkYellow,
	JungleGreen,
	SkyBlue,
	LapisBlue,
	LightPurple,
	HotPink,
}

var colorHex = map[Color]string{
	Red:         "#E74C3C",
	Orange:      "#F39C12",
	DarkYellow:  "#D4AC0D",
	JungleGreen: "#27AE60",
	SkyBlue:     "#5DADE2",
	LapisBlue:   "#2E5C9E",
	LightPurple: "#AF7AC5",
	HotPink:     "#FF69B4",
}

// PaletteColor returns the n-th color of the cycle.
func PaletteColor(n int) Color {
	i := n % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return Palette[i]
}

// ParseColor returns the palette color named s.
func ParseColor(s string) (Color, error) {
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, s)
	}
	return c, nil
}

// Valid reports whether c is in the palette.
func (c Color) Valid() bool {
	_, ok := colorHex[c]
	return ok
}

// Hex returns the color's RGB value as #RRGGBB, or "" for unknown colors.
func (c Color) Hex() string {
	return colorHex[c]
}
