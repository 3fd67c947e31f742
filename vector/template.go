package vector

import (
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// Paint is a fill or stroke value.
type Paint struct {
	// None disables painting.
	None  bool
	Color color.NRGBA
}

// Style holds the presentation attributes a shape is drawn with.
type Style struct {
	Fill        Paint
	Stroke      Paint
	StrokeWidth float64
	FillRule    gg.FillRule
}

// defaultStyle is the SVG initial style: black fill, no stroke.
func defaultStyle() Style {
	return Style{
		Fill:        Paint{Color: color.NRGBA{A: 0xFF}},
		Stroke:      Paint{None: true},
		StrokeWidth: 1,
		FillRule:    gg.FillRuleNonZero,
	}
}

// Shape is one drawable element of a template in document order.
type Shape struct {
	// ID is the element's id attribute, if any.
	ID       string
	Geometry Geometry

	// Transform maps local coordinates to template coordinates. It is the
	// composition of all ancestor group transforms and the element's own.
	Transform gg.Matrix
	Style     Style

	// Region is the index of the colourable region this shape forms, or -1
	// for decorations.
	Region int
}

// Colorable reports whether the shape is a colourable region.
func (s *Shape) Colorable() bool { return s.Region >= 0 }

// Contains reports whether pt, in template coordinates, lies in the shape's
// filled area. Shapes with a singular transform contain nothing.
func (s *Shape) Contains(pt gg.Point) bool {
	inv, ok := invert(s.Transform)
	if !ok {
		return false
	}
	return s.Geometry.Contains(inv.TransformPoint(pt), s.Style.FillRule)
}

// ViewBox is the template's intrinsic coordinate rectangle.
type ViewBox struct {
	MinX, MinY    float64
	Width, Height float64
}

// Region is a colourable part of a template.
type Region struct {
	// Shape is the index of the region's element in Template.Shapes.
	Shape   int
	ID      string
	Default color.NRGBA
	Current color.NRGBA
}

// Template is a parsed colouring template. It is immutable once parsed;
// colouring state lives in Surface.
type Template struct {
	ViewBox ViewBox
	Shapes  []Shape

	// Regions lists the colourable shapes in document order, each with
	// Current equal to Default.
	Regions []Region
}

// Size returns the intrinsic width and height.
func (t *Template) Size() (float64, float64) {
	return t.ViewBox.Width, t.ViewBox.Height
}

// invert returns the inverse of m. gg.Matrix.Invert falls back to the
// identity for singular matrices, which would make degenerate shapes
// hittable everywhere, so the determinant is checked here.
func invert(m gg.Matrix) (gg.Matrix, bool) {
	det := m.A*m.E - m.B*m.D
	if math.Abs(det) < 1e-10 || math.IsNaN(det) || math.IsInf(det, 0) {
		return gg.Matrix{}, false
	}
	return m.Invert(), true
}

