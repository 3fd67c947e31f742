// Package svg parses the SVG attribute grammars used by colouring templates:
// numbers and lengths, number lists, path data, transform lists, colours and
// inline style declarations.
//
// Geometry is produced as gg values (gg.Path, gg.Matrix) so callers can
// rasterize and hit-test it directly.
package svg

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errEmpty  = errors.New("svg: empty value")
	errNumber = errors.New("svg: invalid number")
	errUnit   = errors.New("svg: unsupported unit")
)

// scanner tokenizes the comma/whitespace separated number grammar shared by
// path data, transform lists, viewBox and points attributes.
type scanner struct {
	s string
	i int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// skipSpace advances past whitespace only.
func (sc *scanner) skipSpace() {
	for sc.i < len(sc.s) && isSpace(sc.s[sc.i]) {
		sc.i++
	}
}

// skipSep advances past whitespace and at most one comma.
func (sc *scanner) skipSep() {
	sc.skipSpace()
	if sc.i < len(sc.s) && sc.s[sc.i] == ',' {
		sc.i++
		sc.skipSpace()
	}
}

func (sc *scanner) done() bool {
	return sc.i >= len(sc.s)
}

func (sc *scanner) peek() byte {
	if sc.done() {
		return 0
	}
	return sc.s[sc.i]
}

// atNumber reports whether a number starts at the current position.
func (sc *scanner) atNumber() bool {
	c := sc.peek()
	return isDigit(c) || c == '.' || c == '-' || c == '+'
}

// number scans one number: sign, digits, fraction, exponent.
// "1.5.5" scans as 1.5 followed by .5, as browsers do.
func (sc *scanner) number() (float64, error) {
	start := sc.i
	if c := sc.peek(); c == '-' || c == '+' {
		sc.i++
	}
	digits := 0
	for isDigit(sc.peek()) {
		sc.i++
		digits++
	}
	if sc.peek() == '.' {
		sc.i++
		for isDigit(sc.peek()) {
			sc.i++
			digits++
		}
	}
	if digits == 0 {
		sc.i = start
		return 0, fmt.Errorf("%w at offset %d in %q", errNumber, start, sc.s)
	}
	if c := sc.peek(); c == 'e' || c == 'E' {
		mark := sc.i
		sc.i++
		if c := sc.peek(); c == '-' || c == '+' {
			sc.i++
		}
		if !isDigit(sc.peek()) {
			// Not an exponent; leave "e" for the caller.
			sc.i = mark
		}
		for isDigit(sc.peek()) {
			sc.i++
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:sc.i], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNumber, sc.s[start:sc.i])
	}
	return v, nil
}

// ParseNumber parses a single number.
func ParseNumber(s string) (float64, error) {
	sc := scanner{s: strings.TrimSpace(s)}
	if sc.done() {
		return 0, errEmpty
	}
	v, err := sc.number()
	if err != nil {
		return 0, err
	}
	if !sc.done() {
		return 0, fmt.Errorf("%w: %q", errNumber, s)
	}
	return v, nil
}

// ParseLength parses a length in user units. A trailing "px" is accepted;
// other units and percentages are rejected.
func ParseLength(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, errEmpty
	}
	if strings.HasSuffix(t, "px") {
		t = strings.TrimSpace(t[:len(t)-2])
	}
	sc := scanner{s: t}
	v, err := sc.number()
	if err != nil {
		return 0, err
	}
	if !sc.done() {
		return 0, fmt.Errorf("%w: %q", errUnit, s)
	}
	return v, nil
}

// ParseNumbers parses a comma/whitespace separated list of numbers,
// as used by viewBox and points.
func ParseNumbers(s string) ([]float64, error) {
	sc := scanner{s: s}
	var out []float64
	sc.skipSpace()
	for !sc.done() {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		sc.skipSep()
	}
	return out, nil
}
