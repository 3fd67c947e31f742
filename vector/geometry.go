package vector

import (
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/colorbook"
)

// Geometry is the shape primitive of a template element.
// This is a sealed interface: only the types in this package implement it.
//
// Coordinates are local to the element; Shape.Transform maps them into the
// template's intrinsic coordinate space.
type Geometry interface {
	// Element returns the SVG element name, e.g. "rect".
	Element() string

	// Contains reports whether pt lies inside the filled area.
	Contains(pt gg.Point, rule gg.FillRule) bool

	// Outline returns the geometry as a path. The returned path is owned by
	// the caller.
	Outline() (*gg.Path, error)

	isGeometry()
}

// kappa is the cubic Bezier control distance for a quarter circle.
const kappa = 0.5522847498307936

// Rect is an axis-aligned rectangle with optional rounded corners. A
// negative radius is unset and takes the other radius' value.
type Rect struct {
	X, Y, Width, Height float64
	RX, RY              float64
}

func (Rect) isGeometry()     {}
func (Rect) Element() string { return "rect" }

// radii returns the effective corner radii, each limited to half the side
// length.
func (r Rect) radii() (float64, float64) {
	rx, ry := r.RX, r.RY
	if rx < 0 {
		rx = ry
	}
	if ry < 0 {
		ry = rx
	}
	rx, ry = max(rx, 0), max(ry, 0)
	return math.Min(rx, r.Width/2), math.Min(ry, r.Height/2)
}

// Contains implements Geometry.
func (r Rect) Contains(pt gg.Point, _ gg.FillRule) bool {
	if pt.X < r.X || pt.X > r.X+r.Width || pt.Y < r.Y || pt.Y > r.Y+r.Height {
		return false
	}
	rx, ry := r.radii()
	if rx <= 0 || ry <= 0 {
		return true
	}
	// Outside the corner boxes the rectangle test is exact.
	cx := clamp(pt.X, r.X+rx, r.X+r.Width-rx)
	cy := clamp(pt.Y, r.Y+ry, r.Y+r.Height-ry)
	dx, dy := (pt.X-cx)/rx, (pt.Y-cy)/ry
	return dx*dx+dy*dy <= 1
}

// Outline implements Geometry.
func (r Rect) Outline() (*gg.Path, error) {
	p := gg.NewPath()
	rx, ry := r.radii()
	if rx <= 0 || ry <= 0 {
		p.Rectangle(r.X, r.Y, r.Width, r.Height)
		return p, nil
	}
	x, y, w, h := r.X, r.Y, r.Width, r.Height
	kx, ky := kappa*rx, kappa*ry
	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.CubicTo(x+w-rx+kx, y, x+w, y+ry-ky, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.CubicTo(x+w, y+h-ry+ky, x+w-rx+kx, y+h, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.CubicTo(x+rx-kx, y+h, x, y+h-ry+ky, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.CubicTo(x, y+ry-ky, x+rx-kx, y, x+rx, y)
	p.Close()
	return p, nil
}

// Circle is a circle given by centre and radius.
type Circle struct {
	CX, CY, R float64
}

func (Circle) isGeometry()     {}
func (Circle) Element() string { return "circle" }

// Contains implements Geometry.
func (c Circle) Contains(pt gg.Point, _ gg.FillRule) bool {
	dx, dy := pt.X-c.CX, pt.Y-c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

// Outline implements Geometry.
func (c Circle) Outline() (*gg.Path, error) {
	p := gg.NewPath()
	p.Circle(c.CX, c.CY, c.R)
	return p, nil
}

// Ellipse is an axis-aligned ellipse given by centre and radii.
type Ellipse struct {
	CX, CY, RX, RY float64
}

func (Ellipse) isGeometry()     {}
func (Ellipse) Element() string { return "ellipse" }

// Contains implements Geometry.
func (e Ellipse) Contains(pt gg.Point, _ gg.FillRule) bool {
	if e.RX <= 0 || e.RY <= 0 {
		return false
	}
	dx, dy := (pt.X-e.CX)/e.RX, (pt.Y-e.CY)/e.RY
	return dx*dx+dy*dy <= 1
}

// Outline implements Geometry.
func (e Ellipse) Outline() (*gg.Path, error) {
	p := gg.NewPath()
	p.Ellipse(e.CX, e.CY, e.RX, e.RY)
	return p, nil
}

// Line is a straight segment. It has no interior and is never hit.
type Line struct {
	X1, Y1, X2, Y2 float64
}

func (Line) isGeometry()     {}
func (Line) Element() string { return "line" }

// Contains implements Geometry.
func (Line) Contains(gg.Point, gg.FillRule) bool { return false }

// Outline implements Geometry.
func (l Line) Outline() (*gg.Path, error) {
	p := gg.NewPath()
	p.MoveTo(l.X1, l.Y1)
	p.LineTo(l.X2, l.Y2)
	return p, nil
}

// Polyline is a sequence of connected points. Closed polylines come from
// <polygon> elements. Both fill the implied closed polygon.
type Polyline struct {
	Points []gg.Point
	Closed bool
}

func (Polyline) isGeometry() {}

// Element implements Geometry.
func (p Polyline) Element() string {
	if p.Closed {
		return "polygon"
	}
	return "polyline"
}

// Contains implements Geometry.
func (p Polyline) Contains(pt gg.Point, rule gg.FillRule) bool {
	if len(p.Points) < 3 {
		return false
	}
	return windingContains(p.polygon(), pt, rule)
}

// Outline implements Geometry.
func (p Polyline) Outline() (*gg.Path, error) {
	out := gg.NewPath()
	for i, pt := range p.Points {
		if i == 0 {
			out.MoveTo(pt.X, pt.Y)
			continue
		}
		out.LineTo(pt.X, pt.Y)
	}
	if p.Closed && len(p.Points) > 0 {
		out.Close()
	}
	return out, nil
}

// FillOutline returns the implied closed polygon, which is the area a fill
// covers.
func (p Polyline) FillOutline() *gg.Path {
	return p.polygon()
}

func (p Polyline) polygon() *gg.Path {
	out := gg.NewPath()
	for i, pt := range p.Points {
		if i == 0 {
			out.MoveTo(pt.X, pt.Y)
			continue
		}
		out.LineTo(pt.X, pt.Y)
	}
	out.Close()
	return out
}

// Path is arbitrary path data.
type Path struct {
	data *gg.Path
	fill *gg.Path // data with every subpath closed
}

// NewPath wraps parsed path data.
func NewPath(data *gg.Path) Path {
	return Path{data: data, fill: closeSubpaths(data)}
}

func (Path) isGeometry()     {}
func (Path) Element() string { return "path" }

// Contains implements Geometry.
func (p Path) Contains(pt gg.Point, rule gg.FillRule) bool {
	if p.fill == nil {
		return false
	}
	return windingContains(p.fill, pt, rule)
}

// Outline implements Geometry.
func (p Path) Outline() (*gg.Path, error) {
	if p.data == nil {
		return gg.NewPath(), nil
	}
	return p.data.Clone(), nil
}

// FillOutline returns the path with every open subpath closed, which is the
// area a fill covers.
func (p Path) FillOutline() *gg.Path {
	if p.fill == nil {
		return gg.NewPath()
	}
	return p.fill.Clone()
}

// Unsupported stands in for an element that can be parsed but not drawn,
// such as <text> or <image>. It is never hit and fails to rasterize.
type Unsupported struct {
	Name string
}

func (Unsupported) isGeometry() {}

// Element implements Geometry.
func (u Unsupported) Element() string { return u.Name }

// Contains implements Geometry.
func (Unsupported) Contains(gg.Point, gg.FillRule) bool { return false }

// Outline implements Geometry.
func (u Unsupported) Outline() (*gg.Path, error) {
	return nil, &colorbook.RenderError{Element: u.Name, Err: colorbook.ErrUnsupportedShape}
}

// windingContains applies a fill rule to a path's winding number.
// The parity of the winding number equals the parity of the crossing
// count, so even-odd can be derived from it.
func windingContains(p *gg.Path, pt gg.Point, rule gg.FillRule) bool {
	w := p.Winding(pt)
	if rule == gg.FillRuleEvenOdd {
		return w%2 != 0
	}
	return w != 0
}

// closeSubpaths returns a copy of p in which every subpath that draws
// something ends with a Close verb.
func closeSubpaths(p *gg.Path) *gg.Path {
	if p == nil {
		return nil
	}
	out := gg.NewPath()
	open := false
	p.Iterate(func(verb gg.PathVerb, c []float64) {
		switch verb {
		case gg.MoveTo:
			if open {
				out.Close()
			}
			out.MoveTo(c[0], c[1])
			open = false
		case gg.LineTo:
			out.LineTo(c[0], c[1])
			open = true
		case gg.QuadTo:
			out.QuadraticTo(c[0], c[1], c[2], c[3])
			open = true
		case gg.CubicTo:
			out.CubicTo(c[0], c[1], c[2], c[3], c[4], c[5])
			open = true
		case gg.Close:
			out.Close()
			open = false
		}
	})
	if open {
		out.Close()
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
