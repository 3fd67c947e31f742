package colorbook

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a named, opaque palette colour.
type Color struct {
	Name  string
	Value color.NRGBA
}

// Hex returns the colour value as "#RRGGBB".
func (c Color) Hex() string {
	return Hex(c.Value)
}

// Palette is the fixed set of colours offered to users, in display order.
var Palette = []Color{
	{Name: "Red", Value: mustHex("#EF4444")},
	{Name: "Orange", Value: mustHex("#F97316")},
	{Name: "Yellow", Value: mustHex("#EAB308")},
	{Name: "Lime", Value: mustHex("#84CC16")},
	{Name: "Green", Value: mustHex("#22C55E")},
	{Name: "Teal", Value: mustHex("#14B8A6")},
	{Name: "Cyan", Value: mustHex("#06B6D4")},
	{Name: "Blue", Value: mustHex("#3B82F6")},
	{Name: "Indigo", Value: mustHex("#6366F1")},
	{Name: "Violet", Value: mustHex("#8B5CF6")},
	{Name: "Purple", Value: mustHex("#A855F7")},
	{Name: "Fuchsia", Value: mustHex("#D946EF")},
	{Name: "Pink", Value: mustHex("#EC4899")},
	{Name: "Rose", Value: mustHex("#F43F5E")},
	{Name: "Black", Value: mustHex("#000000")},
	{Name: "White", Value: mustHex("#FFFFFF")},
	{Name: "Light Gray", Value: mustHex("#D1D5DB")},
	{Name: "Gray", Value: mustHex("#6B7280")},
}

// Common colours.
var (
	// DefaultColor is the colour selected when a session starts.
	DefaultColor = Palette[0].Value

	// White is the canvas background and the export backdrop.
	White = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

// errBadHex is returned by ParseHex for malformed input.
var errBadHex = errors.New("colorbook: malformed hex colour")

// LookupColor returns the palette colour with the given name,
// compared case-insensitively.
func LookupColor(name string) (Color, bool) {
	for _, c := range Palette {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Color{}, false
}

// ParseHex parses "#RGB" or "#RRGGBB" (the leading '#' is optional).
// Unlike gg.Hex, malformed input is reported instead of mapped to black,
// and channels are kept as exact bytes rather than round-tripped through
// floating point.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	for i := 0; i < len(h); i++ {
		if !isHexDigit(h[i]) {
			return color.NRGBA{}, fmt.Errorf("%w: %q", errBadHex, s)
		}
	}
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
	default:
		return color.NRGBA{}, fmt.Errorf("%w: %q", errBadHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", errBadHex, s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// Hex formats a colour as "#RRGGBB", ignoring alpha.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Opaque converts any colour to a fully opaque NRGBA value.
func Opaque(c color.Color) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xFF
	return n
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func mustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
