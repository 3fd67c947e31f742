// Package export rasterizes paint surfaces and encodes them as image files.
//
// Raster surfaces are exported from a copy of their pixel buffer. Template
// surfaces are re-rendered from their geometry at the template's intrinsic
// size, so the output never depends on how large the template was shown.
// Both paths only read the surface.
//
// Encoders are looked up by name in a registry. png, jpeg, bmp and tiff are
// built in; other formats register themselves when imported:
//
//	import _ "github.com/gogpu/colorbook/export/pdf"
package export

import (
	"bytes"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/gogpu/colorbook"
	"github.com/gogpu/colorbook/raster"
	"github.com/gogpu/colorbook/vector"
)

// RasterizeRaster returns the surface's pixels, resampled when a scale
// other than 1 is requested. The result is owned by the caller.
func RasterizeRaster(s *raster.Surface, opts ...Option) *image.RGBA {
	o := newOptions(opts)
	img := s.Snapshot()
	if o.Scale == 1 {
		return img
	}
	w := max(int(math.Round(float64(s.Width())*o.Scale)), 1)
	h := max(int(math.Round(float64(s.Height())*o.Scale)), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// RasterizeVector renders every shape of the surface's template, using
// each region's current colour, onto a fresh bitmap of the template's
// intrinsic size filled with the background colour.
//
// It fails with a *colorbook.RenderError if the template contains a shape
// that cannot be drawn or the bitmap would be empty or larger than
// MaxPixels. It never returns a partially drawn image.
func RasterizeVector(s *vector.Surface, opts ...Option) (*image.RGBA, error) {
	o := newOptions(opts)
	t := s.Template()

	vb := t.ViewBox
	fw := math.Ceil(vb.Width*o.Scale - 1e-9)
	fh := math.Ceil(vb.Height*o.Scale - 1e-9)
	if !(fw > 0 && fh > 0) {
		return nil, &colorbook.RenderError{Element: "svg", Err: colorbook.ErrEmptyCanvas}
	}
	if fw*fh > MaxPixels {
		return nil, &colorbook.RenderError{
			Element: "svg",
			Err:     fmt.Errorf("%w: %.0fx%.0f", colorbook.ErrCanvasTooLarge, fw, fh),
		}
	}
	w, h := int(fw), int(fh)
	for _, shape := range t.Shapes {
		if _, ok := shape.Geometry.(vector.Unsupported); ok {
			return nil, &colorbook.RenderError{Element: shape.Geometry.Element(), Err: colorbook.ErrUnsupportedShape}
		}
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(o.Background))

	view := gg.Scale(o.Scale, o.Scale).Multiply(gg.Translate(-vb.MinX, -vb.MinY))
	for i := range t.Shapes {
		shape := &t.Shapes[i]
		if err := drawShape(dc, shape, s.Fill(i), view.Multiply(shape.Transform)); err != nil {
			return nil, err
		}
	}

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		src := dc.Image()
		img = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	}
	return img, nil
}

// fillOutliner is implemented by geometries whose filled area differs from
// their stroked outline.
type fillOutliner interface {
	FillOutline() *gg.Path
}

func drawShape(dc *gg.Context, shape *vector.Shape, fill vector.Paint, m gg.Matrix) error {
	outline, err := shape.Geometry.Outline()
	if err != nil {
		return err
	}
	elem := shape.Geometry.Element()

	if _, isLine := shape.Geometry.(vector.Line); !fill.None && !isLine {
		area := outline
		if f, ok := shape.Geometry.(fillOutliner); ok {
			area = f.FillOutline()
		}
		dc.SetFillRule(shape.Style.FillRule)
		dc.SetColor(fill.Color)
		dc.AppendPath(area.Transform(m))
		if err := dc.Fill(); err != nil {
			return &colorbook.RenderError{Element: elem, Err: err}
		}
	}

	st := shape.Style
	if !st.Stroke.None && st.StrokeWidth > 0 {
		dc.SetColor(st.Stroke.Color)
		dc.SetStroke(gg.DefaultStroke().WithWidth(st.StrokeWidth * lengthScale(m)))
		dc.AppendPath(outline.Transform(m))
		if err := dc.Stroke(); err != nil {
			return &colorbook.RenderError{Element: elem, Err: err}
		}
	}
	return nil
}

// lengthScale is the factor m applies to lengths, as the square root of
// its area scale.
func lengthScale(m gg.Matrix) float64 {
	return math.Sqrt(math.Abs(m.A*m.E - m.B*m.D))
}

// Encode encodes img with the configured encoder.
func Encode(img image.Image, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	enc, err := NewEncoder(o.Format, opts...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, &colorbook.RenderError{Err: fmt.Errorf("encode %s: %w", o.Format, err)}
	}
	return buf.Bytes(), nil
}

// ExportRaster rasterizes and encodes a raster surface. The default
// format is PNG.
func ExportRaster(s *raster.Surface, opts ...Option) ([]byte, error) {
	return Encode(RasterizeRaster(s, opts...), opts...)
}

// ExportVector rasterizes and encodes a template surface. The default
// format is PNG.
func ExportVector(s *vector.Surface, opts ...Option) ([]byte, error) {
	img, err := RasterizeVector(s, opts...)
	if err != nil {
		return nil, err
	}
	return Encode(img, opts...)
}
