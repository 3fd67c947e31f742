package svg

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/gogpu/colorbook"
)

var errColor = errors.New("svg: invalid colour")

// Paint is a parsed fill or stroke value.
type Paint struct {
	// None is set for "none" and "transparent".
	None  bool
	Color color.NRGBA
}

// ParsePaint parses a fill or stroke value: "none", a hex colour, an
// rgb()/rgba() function or an SVG named colour.
func ParsePaint(s string) (Paint, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "":
		return Paint{}, errEmpty
	case "none", "transparent":
		return Paint{None: true}, nil
	case "currentcolor":
		// No colour property is tracked; its initial value is black.
		return Paint{Color: color.NRGBA{A: 0xFF}}, nil
	}

	// Paint servers are not rendered; use the fallback if there is one.
	if strings.HasPrefix(v, "url(") {
		end := strings.IndexByte(v, ')')
		if end < 0 {
			return Paint{}, fmt.Errorf("%w: %q", errColor, s)
		}
		if fallback := strings.TrimSpace(v[end+1:]); fallback != "" {
			return ParsePaint(fallback)
		}
		return Paint{None: true}, nil
	}

	if strings.HasPrefix(v, "#") {
		c, err := colorbook.ParseHex(v)
		if err != nil {
			return Paint{}, fmt.Errorf("%w: %q", errColor, s)
		}
		return Paint{Color: c}, nil
	}

	if strings.HasPrefix(v, "rgb") {
		c, err := parseRGBFunc(v)
		if err != nil {
			return Paint{}, err
		}
		return Paint{Color: c}, nil
	}

	if c, ok := colornames.Map[v]; ok {
		return Paint{Color: colorbook.Opaque(c)}, nil
	}
	return Paint{}, fmt.Errorf("%w: %q", errColor, s)
}

// parseRGBFunc parses "rgb(r, g, b)" and "rgba(r, g, b, a)" with integer
// or percentage channels. Alpha is accepted and discarded: region colours
// are opaque.
func parseRGBFunc(v string) (color.NRGBA, error) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return color.NRGBA{}, fmt.Errorf("%w: %q", errColor, v)
	}
	fields := strings.FieldsFunc(v[open+1:len(v)-1], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", errColor, v)
	}

	var ch [3]uint8
	for i := range ch {
		f := fields[i]
		pct := strings.HasSuffix(f, "%")
		f = strings.TrimSuffix(f, "%")
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("%w: %q", errColor, v)
		}
		if pct {
			n = n * 255 / 100
		}
		ch[i] = clampByte(n)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xFF}, nil
}

func clampByte(n float64) uint8 {
	switch {
	case n <= 0:
		return 0
	case n >= 255:
		return 255
	}
	return uint8(n + 0.5)
}

// ParseStyle splits an inline style attribute ("fill:red; stroke:#000")
// into lower-cased property names and trimmed values.
func ParseStyle(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out[name] = strings.TrimSpace(value)
	}
	return out
}
