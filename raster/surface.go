// Package raster implements the free-draw paint surface: a fixed-size
// pixel buffer that brush and eraser strokes are painted onto.
//
// Strokes are rendered with gg: the first point of a stroke paints a disc,
// each further point a round-capped, round-joined segment from the previous
// one, so consecutive samples always form a continuous line.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/gogpu/colorbook"
)

// Surface is a raster paint surface.
//
// Surface is not safe for concurrent use.
type Surface struct {
	dc     *gg.Context
	width  int
	height int
	bg     color.NRGBA

	last     gg.Point
	stroking bool
}

// New returns a surface of the given size filled with background.
// Non-positive dimensions are raised to 1.
func New(width, height int, background color.Color) *Surface {
	width = max(width, 1)
	height = max(height, 1)
	s := &Surface{
		dc:     gg.NewContext(width, height),
		width:  width,
		height: height,
	}
	s.Reset(background)
	return s
}

// Width returns the buffer width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the buffer height in pixels.
func (s *Surface) Height() int { return s.height }

// Background returns the colour the surface is cleared to. The eraser
// paints with it.
func (s *Surface) Background() color.NRGBA { return s.bg }

// Stroking reports whether a stroke is in progress.
func (s *Surface) Stroking() bool { return s.stroking }

// LastPoint returns the last recorded stroke position.
func (s *Surface) LastPoint() (gg.Point, bool) { return s.last, s.stroking }

// BeginStroke starts a stroke at pt and paints a disc of diameter size
// there. The eraser paints the background colour. It reports false, and
// leaves the surface untouched, for the Fill tool and non-finite points.
func (s *Surface) BeginStroke(pt gg.Point, tool colorbook.Tool, c color.Color, size int) bool {
	if !s.paints(tool) || !finite(pt) {
		return false
	}
	r := float64(colorbook.ClampBrushSize(size)) / 2
	if s.reaches(pt, r) {
		s.dc.SetColor(s.ink(tool, c))
		s.dc.DrawCircle(pt.X, pt.Y, r)
		if err := s.dc.Fill(); err != nil {
			colorbook.Logger().Warn("raster: fill failed", "err", err)
		}
	}
	s.last = pt
	s.stroking = true
	return true
}

// ExtendStroke paints a segment from the last position to pt and makes pt
// the last position. It reports false when no stroke is active or the
// input is rejected as in BeginStroke.
func (s *Surface) ExtendStroke(pt gg.Point, tool colorbook.Tool, c color.Color, size int) bool {
	if !s.stroking || !s.paints(tool) || !finite(pt) {
		return false
	}
	from := s.last
	s.last = pt
	if from == pt {
		return true
	}

	w := float64(colorbook.ClampBrushSize(size))
	a, b, ok := clipSegment(from, pt, s.bounds(w/2))
	if !ok {
		return true
	}
	s.dc.SetColor(s.ink(tool, c))
	s.dc.SetStroke(gg.DefaultStroke().
		WithWidth(w).
		WithCap(gg.LineCapRound).
		WithJoin(gg.LineJoinRound))
	s.dc.MoveTo(a.X, a.Y)
	s.dc.LineTo(b.X, b.Y)
	if err := s.dc.Stroke(); err != nil {
		colorbook.Logger().Warn("raster: stroke failed", "err", err)
	}
	return true
}

// EndStroke finishes the current stroke. It is safe to call when no stroke
// is active.
func (s *Surface) EndStroke() {
	s.stroking = false
	s.last = gg.Point{}
}

// Reset fills the whole buffer with background, ends any stroke, and makes
// background the eraser colour.
func (s *Surface) Reset(background color.Color) {
	s.bg = colorbook.Opaque(background)
	s.dc.ClearWithColor(gg.FromColor(s.bg))
	s.EndStroke()
}

// Snapshot returns a copy of the pixel buffer. Later painting does not
// affect it.
func (s *Surface) Snapshot() *image.RGBA {
	if img, ok := s.dc.Image().(*image.RGBA); ok {
		return img
	}
	src := s.dc.Image()
	img := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return img
}

// At returns the colour of pixel (x, y).
func (s *Surface) At(x, y int) color.NRGBA {
	return colorbook.Opaque(s.Snapshot().At(x, y))
}

func (s *Surface) paints(tool colorbook.Tool) bool {
	return tool == colorbook.ToolBrush || tool == colorbook.ToolEraser
}

func (s *Surface) ink(tool colorbook.Tool, c color.Color) color.NRGBA {
	if tool == colorbook.ToolEraser {
		return s.bg
	}
	return colorbook.Opaque(c)
}

// bounds returns the surface rectangle grown by r. Paint centred outside it
// cannot touch a pixel.
func (s *Surface) bounds(r float64) rect {
	return rect{-r, -r, float64(s.width) + r, float64(s.height) + r}
}

func (s *Surface) reaches(pt gg.Point, r float64) bool {
	b := s.bounds(r)
	return pt.X >= b.x0 && pt.X <= b.x1 && pt.Y >= b.y0 && pt.Y <= b.y1
}

func finite(pt gg.Point) bool {
	return !math.IsNaN(pt.X) && !math.IsNaN(pt.Y) && !math.IsInf(pt.X, 0) && !math.IsInf(pt.Y, 0)
}
