package svg

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"
)

var errTransform = errors.New("svg: invalid transform")

// ParseTransform parses an SVG transform list such as
// "translate(10 20) rotate(60 50 50)".
//
// The functions are composed left to right, so the rightmost function is
// applied to points first, as in SVG. An empty string yields the identity.
func ParseTransform(s string) (gg.Matrix, error) {
	m := gg.Identity()
	sc := scanner{s: s}
	for {
		sc.skipSep()
		if sc.done() {
			return m, nil
		}

		nameStart := sc.i
		for !sc.done() && sc.peek() != '(' && !isSpace(sc.peek()) {
			sc.i++
		}
		name := sc.s[nameStart:sc.i]
		sc.skipSpace()
		if sc.peek() != '(' {
			return gg.Identity(), fmt.Errorf("%w: expected '(' after %q", errTransform, name)
		}
		sc.i++

		var args []float64
		for {
			sc.skipSep()
			if sc.peek() == ')' {
				sc.i++
				break
			}
			if sc.done() {
				return gg.Identity(), fmt.Errorf("%w: unterminated %q", errTransform, name)
			}
			v, err := sc.number()
			if err != nil {
				return gg.Identity(), fmt.Errorf("%w: %v", errTransform, err)
			}
			args = append(args, v)
		}

		t, err := transformFunc(strings.TrimSpace(name), args)
		if err != nil {
			return gg.Identity(), err
		}
		m = m.Multiply(t)
	}
}

func transformFunc(name string, a []float64) (gg.Matrix, error) {
	bad := func() (gg.Matrix, error) {
		return gg.Identity(), fmt.Errorf("%w: %s with %d arguments", errTransform, name, len(a))
	}

	switch name {
	case "matrix":
		if len(a) != 6 {
			return bad()
		}
		// SVG lists column-major a b c d e f.
		return gg.Matrix{A: a[0], B: a[2], C: a[4], D: a[1], E: a[3], F: a[5]}, nil

	case "translate":
		switch len(a) {
		case 1:
			return gg.Translate(a[0], 0), nil
		case 2:
			return gg.Translate(a[0], a[1]), nil
		}
		return bad()

	case "scale":
		switch len(a) {
		case 1:
			return gg.Scale(a[0], a[0]), nil
		case 2:
			return gg.Scale(a[0], a[1]), nil
		}
		return bad()

	case "rotate":
		switch len(a) {
		case 1:
			return gg.Rotate(a[0] * math.Pi / 180), nil
		case 3:
			return gg.Translate(a[1], a[2]).
				Multiply(gg.Rotate(a[0] * math.Pi / 180)).
				Multiply(gg.Translate(-a[1], -a[2])), nil
		}
		return bad()

	case "skewX":
		if len(a) != 1 {
			return bad()
		}
		return gg.Shear(math.Tan(a[0]*math.Pi/180), 0), nil

	case "skewY":
		if len(a) != 1 {
			return bad()
		}
		return gg.Shear(0, math.Tan(a[0]*math.Pi/180)), nil
	}
	return gg.Identity(), fmt.Errorf("%w: unknown function %q", errTransform, name)
}
