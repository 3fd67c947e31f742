package svg

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

var (
	errPathStart   = errors.New("svg: path data must begin with a moveto")
	errPathCommand = errors.New("svg: unknown path command")
	errPathFlag    = errors.New("svg: invalid arc flag")
)

// ParsePath parses SVG path data into a gg.Path.
//
// All commands of SVG 1.1 are supported in absolute and relative form:
// M, L, H, V, C, S, Q, T, A and Z. Elliptical arcs are converted to cubic
// Bezier segments. Subpaths are left open unless the data closes them.
func ParsePath(d string) (*gg.Path, error) {
	sc := scanner{s: d}
	sc.skipSpace()
	if sc.done() {
		return nil, errEmpty
	}

	p := gg.NewPath()
	var (
		cur, start gg.Point
		ctrl       gg.Point // last control point, for S and T reflection
		prev       byte     // previous command, upper case
	)

	for {
		sc.skipSpace()
		if sc.done() {
			break
		}
		cmd := sc.peek()
		if !isCommand(cmd) {
			return nil, fmt.Errorf("%w %q at offset %d", errPathCommand, cmd, sc.i)
		}
		sc.i++
		upper := cmd &^ 0x20
		rel := cmd != upper
		if prev == 0 && upper != 'M' {
			return nil, errPathStart
		}

		if upper == 'Z' {
			p.Close()
			cur = start
			prev = 'Z'
			continue
		}

		for first := true; first || sc.atNumber(); first = false {
			sc.skipSep()
			base := gg.Point{}
			if rel {
				base = cur
			}

			switch upper {
			case 'M':
				pt, err := sc.point(base)
				if err != nil {
					return nil, err
				}
				if first {
					p.MoveTo(pt.X, pt.Y)
					start = pt
				} else {
					// Subsequent pairs are implicit lineto commands.
					p.LineTo(pt.X, pt.Y)
				}
				cur = pt

			case 'L':
				pt, err := sc.point(base)
				if err != nil {
					return nil, err
				}
				p.LineTo(pt.X, pt.Y)
				cur = pt

			case 'H':
				x, err := sc.number()
				if err != nil {
					return nil, err
				}
				cur = gg.Pt(base.X+x, cur.Y)
				p.LineTo(cur.X, cur.Y)

			case 'V':
				y, err := sc.number()
				if err != nil {
					return nil, err
				}
				cur = gg.Pt(cur.X, base.Y+y)
				p.LineTo(cur.X, cur.Y)

			case 'C':
				pts, err := sc.points(base, 3)
				if err != nil {
					return nil, err
				}
				p.CubicTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
				ctrl, cur = pts[1], pts[2]

			case 'S':
				pts, err := sc.points(base, 2)
				if err != nil {
					return nil, err
				}
				c1 := cur
				if prev == 'C' || prev == 'S' {
					c1 = mirror(ctrl, cur)
				}
				p.CubicTo(c1.X, c1.Y, pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
				ctrl, cur = pts[0], pts[1]

			case 'Q':
				pts, err := sc.points(base, 2)
				if err != nil {
					return nil, err
				}
				p.QuadraticTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y)
				ctrl, cur = pts[0], pts[1]

			case 'T':
				pt, err := sc.point(base)
				if err != nil {
					return nil, err
				}
				c := cur
				if prev == 'Q' || prev == 'T' {
					c = mirror(ctrl, cur)
				}
				p.QuadraticTo(c.X, c.Y, pt.X, pt.Y)
				ctrl, cur = c, pt

			case 'A':
				if err := sc.arc(p, &cur, base); err != nil {
					return nil, err
				}
			}
			// Implicit repeats after M continue as L.
			if upper == 'M' {
				prev = 'L'
			} else {
				prev = upper
			}
			sc.skipSep()
		}
	}
	return p, nil
}

func isCommand(c byte) bool {
	switch c &^ 0x20 {
	case 'M', 'L', 'H', 'V', 'C', 'S', 'Q', 'T', 'A', 'Z':
		return true
	}
	return false
}

func mirror(ctrl, about gg.Point) gg.Point {
	return gg.Pt(2*about.X-ctrl.X, 2*about.Y-ctrl.Y)
}

// point scans an x,y pair offset by base.
func (sc *scanner) point(base gg.Point) (gg.Point, error) {
	x, err := sc.number()
	if err != nil {
		return gg.Point{}, err
	}
	sc.skipSep()
	y, err := sc.number()
	if err != nil {
		return gg.Point{}, err
	}
	return gg.Pt(base.X+x, base.Y+y), nil
}

// points scans n coordinate pairs, all relative to the same base.
func (sc *scanner) points(base gg.Point, n int) ([]gg.Point, error) {
	pts := make([]gg.Point, n)
	for i := range pts {
		if i > 0 {
			sc.skipSep()
		}
		pt, err := sc.point(base)
		if err != nil {
			return nil, err
		}
		pts[i] = pt
	}
	return pts, nil
}

// flag scans a single arc flag character. Flags may be written without
// separators ("a5 5 0 01 10 10").
func (sc *scanner) flag() (bool, error) {
	switch sc.peek() {
	case '0':
		sc.i++
		return false, nil
	case '1':
		sc.i++
		return true, nil
	}
	return false, fmt.Errorf("%w at offset %d", errPathFlag, sc.i)
}

func (sc *scanner) arc(p *gg.Path, cur *gg.Point, base gg.Point) error {
	var args [3]float64
	for i := range args {
		if i > 0 {
			sc.skipSep()
		}
		v, err := sc.number()
		if err != nil {
			return err
		}
		args[i] = v
	}
	sc.skipSep()
	large, err := sc.flag()
	if err != nil {
		return err
	}
	sc.skipSep()
	sweep, err := sc.flag()
	if err != nil {
		return err
	}
	sc.skipSep()
	end, err := sc.point(base)
	if err != nil {
		return err
	}
	arcTo(p, *cur, args[0], args[1], args[2]*math.Pi/180, large, sweep, end)
	*cur = end
	return nil
}

// arcTo appends an SVG elliptical arc from p0 to p1 as cubic Beziers,
// following the endpoint-to-center conversion of SVG 1.1 appendix F.6.
func arcTo(p *gg.Path, p0 gg.Point, rx, ry, phi float64, large, sweep bool, p1 gg.Point) {
	if p0 == p1 {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.LineTo(p1.X, p1.Y)
		return
	}

	sinPhi, cosPhi := math.Sincos(phi)
	dx, dy := (p0.X-p1.X)/2, (p0.Y-p1.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	// Scale radii up if they cannot span the endpoints.
	if lambda := (x1*x1)/(rx*rx) + (y1*y1)/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := 0.0
	if den != 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx
	cx := cosPhi*cx1 - sinPhi*cy1 + (p0.X+p1.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (p0.Y+p1.Y)/2

	theta1 := vecAngle(1, 0, (x1-cx1)/rx, (y1-cy1)/ry)
	dtheta := vecAngle((x1-cx1)/rx, (y1-cy1)/ry, (-x1-cx1)/rx, (-y1-cy1)/ry)
	if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	} else if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	}

	n := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	step := dtheta / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4)

	point := func(t float64) (gg.Point, gg.Point) {
		sinT, cosT := math.Sincos(t)
		x, y := rx*cosT, ry*sinT
		tx, ty := -rx*sinT, ry*cosT
		pt := gg.Pt(cosPhi*x-sinPhi*y+cx, sinPhi*x+cosPhi*y+cy)
		tan := gg.Pt(cosPhi*tx-sinPhi*ty, sinPhi*tx+cosPhi*ty)
		return pt, tan
	}

	t := theta1
	from, fromTan := point(t)
	for i := 0; i < n; i++ {
		t += step
		to, toTan := point(t)
		if i == n-1 {
			to = p1
		}
		p.CubicTo(
			from.X+k*fromTan.X, from.Y+k*fromTan.Y,
			to.X-k*toTan.X, to.Y-k*toTan.Y,
			to.X, to.Y,
		)
		from, fromTan = to, toTan
	}
}

// vecAngle returns the signed angle from (ux,uy) to (vx,vy).
func vecAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}
