package vector

import (
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/colorbook"
)

// Surface is the colouring state of a template: one current colour per
// region. The template itself is shared and never modified.
//
// Surface is not safe for concurrent use.
type Surface struct {
	tmpl    *Template
	regions []Region
}

// NewSurface returns a surface with every region at its default colour.
func NewSurface(t *Template) *Surface {
	s := &Surface{tmpl: t, regions: make([]Region, len(t.Regions))}
	s.Reset()
	return s
}

// Load parses a template document and returns a surface for it.
func Load(r io.Reader, opts ...ParseOption) (*Surface, error) {
	t, err := Parse(r, opts...)
	if err != nil {
		return nil, err
	}
	return NewSurface(t), nil
}

// Template returns the template the surface colours.
func (s *Surface) Template() *Template { return s.tmpl }

// Len returns the number of regions.
func (s *Surface) Len() int { return len(s.regions) }

// Region returns region i. It panics if i is out of range.
func (s *Surface) Region(i int) Region { return s.regions[i] }

// Regions returns a copy of all regions in document order.
func (s *Surface) Regions() []Region {
	out := make([]Region, len(s.regions))
	copy(out, s.regions)
	return out
}

// HitTest returns the topmost region whose filled area contains pt, given
// in template coordinates. Later regions are drawn above earlier ones, so
// they are tested first. Decorations never block a hit.
func (s *Surface) HitTest(pt gg.Point) (int, bool) {
	if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
		return -1, false
	}
	for i := len(s.regions) - 1; i >= 0; i-- {
		shape := &s.tmpl.Shapes[s.regions[i].Shape]
		if shape.Contains(pt) {
			return i, true
		}
	}
	return -1, false
}

// ApplyTool applies a tool at pt. Fill sets the hit region's colour to c,
// Eraser restores its default. Brush has no effect on a template. The hit
// region is returned even when the tool leaves it unchanged.
func (s *Surface) ApplyTool(pt gg.Point, tool colorbook.Tool, c color.Color) (int, bool) {
	i, ok := s.HitTest(pt)
	if !ok {
		return -1, false
	}
	switch tool {
	case colorbook.ToolFill:
		s.regions[i].Current = colorbook.Opaque(c)
	case colorbook.ToolEraser:
		s.regions[i].Current = s.regions[i].Default
	default:
		return i, false
	}
	colorbook.Logger().Debug("vector: region updated",
		"region", i, "tool", tool.String(), "color", colorbook.Hex(s.regions[i].Current))
	return i, true
}

// SetColor sets the current colour of region i directly.
func (s *Surface) SetColor(i int, c color.Color) bool {
	if i < 0 || i >= len(s.regions) {
		return false
	}
	s.regions[i].Current = colorbook.Opaque(c)
	return true
}

// Reset returns every region to its default colour.
func (s *Surface) Reset() {
	for i, r := range s.tmpl.Regions {
		r.Current = r.Default
		s.regions[i] = r
	}
}

// Fill returns the paint shape i is filled with: its region's current
// colour for colourable shapes, its own style otherwise.
func (s *Surface) Fill(i int) Paint {
	shape := &s.tmpl.Shapes[i]
	if shape.Region >= 0 {
		return Paint{Color: s.regions[shape.Region].Current}
	}
	return shape.Style.Fill
}
