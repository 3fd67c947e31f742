package vector

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/net/html/charset"

	"github.com/gogpu/colorbook"
	"github.com/gogpu/colorbook/internal/svg"
)

// Default values for ParseOption.
const (
	DefaultColorableClass = "colorable-part"
	DefaultColorAttr      = "data-default-color"
	DefaultWidth          = 600
	DefaultHeight         = 400
)

// ParseOption configures template parsing.
type ParseOption func(*parseOptions)

type parseOptions struct {
	class         string
	colorAttr     string
	width, height float64
}

func defaultParseOptions() parseOptions {
	return parseOptions{
		class:     DefaultColorableClass,
		colorAttr: DefaultColorAttr,
		width:     DefaultWidth,
		height:    DefaultHeight,
	}
}

// WithColorableClass sets the class name that marks an element as a
// colourable region. Empty names are ignored.
func WithColorableClass(name string) ParseOption {
	return func(o *parseOptions) {
		if name != "" {
			o.class = name
		}
	}
}

// WithDefaultColorAttr sets the attribute that carries a region's default
// colour. Empty names are ignored.
func WithDefaultColorAttr(name string) ParseOption {
	return func(o *parseOptions) {
		if name != "" {
			o.colorAttr = name
		}
	}
}

// WithDefaultSize sets the intrinsic size used when the document has
// neither a viewBox nor width and height. Non-positive values are ignored.
func WithDefaultSize(width, height float64) ParseOption {
	return func(o *parseOptions) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// svgNamespace is the SVG XML namespace. Elements in other namespaces
// (editor metadata and the like) are skipped.
const svgNamespace = "http://www.w3.org/2000/svg"

// Elements that hold no drawable content of their own.
var skipped = map[string]bool{
	"title": true, "desc": true, "metadata": true, "defs": true,
	"style": true, "script": true, "clipPath": true, "mask": true,
	"linearGradient": true, "radialGradient": true, "pattern": true,
	"symbol": true, "marker": true, "filter": true,
}

// Drawable elements without geometry support.
var unsupported = map[string]bool{
	"text": true, "image": true, "use": true,
	"foreignObject": true, "switch": true,
}

// frame is the inherited state of an open element.
type frame struct {
	m     gg.Matrix
	style Style
	skip  bool
}

// Parse reads an SVG colouring template.
//
// Elements carrying the colourable class become regions; everything else
// drawable is decoration. Group transforms and presentation attributes are
// inherited. A region's default colour is taken from its default-colour
// attribute, then its fill, then white.
func Parse(r io.Reader, opts ...ParseOption) (*Template, error) {
	o := defaultParseOptions()
	for _, opt := range opts {
		opt(&o)
	}

	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	t := &Template{}
	var stack []frame
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &colorbook.ParseError{Err: fmt.Errorf("%w: %v", colorbook.ErrMalformed, err)}
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			name := tok.Name.Local
			attrs := attrMap(tok.Attr)

			if !sawRoot {
				if name != "svg" {
					return nil, &colorbook.ParseError{Element: name, Err: colorbook.ErrNoRoot}
				}
				sawRoot = true
				vb, err := parseViewBox(attrs, o)
				if err != nil {
					return nil, err
				}
				t.ViewBox = vb
				style, err := inheritStyle(defaultStyle(), "svg", attrs)
				if err != nil {
					return nil, err
				}
				stack = append(stack, frame{m: gg.Identity(), style: style})
				continue
			}

			parent := stack[len(stack)-1]
			if parent.skip || (tok.Name.Space != "" && tok.Name.Space != svgNamespace) || skipped[name] {
				stack = append(stack, frame{skip: true})
				continue
			}

			m, err := elementTransform(parent.m, name, attrs)
			if err != nil {
				return nil, err
			}
			style, err := inheritStyle(parent.style, name, attrs)
			if err != nil {
				return nil, err
			}

			switch {
			case name == "g" || name == "a" || name == "svg":
				// Nested <svg> viewports are treated as plain groups.
				stack = append(stack, frame{m: m, style: style})
				continue
			case unsupported[name]:
				t.Shapes = append(t.Shapes, Shape{
					ID:        attrs["id"],
					Geometry:  Unsupported{Name: name},
					Transform: m,
					Style:     style,
					Region:    -1,
				})
			default:
				geom, err := parseGeometry(name, attrs)
				if err != nil {
					return nil, err
				}
				if geom == nil {
					colorbook.Logger().Debug("vector: skipping unknown element", "element", name)
					stack = append(stack, frame{skip: true})
					continue
				}
				shape := Shape{
					ID:        attrs["id"],
					Geometry:  geom,
					Transform: m,
					Style:     style,
					Region:    -1,
				}
				if hasClass(attrs["class"], o.class) {
					def, err := defaultColor(name, attrs, style, o.colorAttr)
					if err != nil {
						return nil, err
					}
					shape.Region = len(t.Regions)
					t.Regions = append(t.Regions, Region{
						Shape:   len(t.Shapes),
						ID:      shape.ID,
						Default: def,
						Current: def,
					})
				}
				t.Shapes = append(t.Shapes, shape)
			}
			// Children of shapes (titles, animations) are not drawn.
			stack = append(stack, frame{skip: true})

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !sawRoot {
		return nil, &colorbook.ParseError{Err: colorbook.ErrNoRoot}
	}
	colorbook.Logger().Debug("vector: parsed template",
		"shapes", len(t.Shapes), "regions", len(t.Regions),
		"width", t.ViewBox.Width, "height", t.ViewBox.Height)
	return t, nil
}

// attrMap flattens attributes by local name. The unprefixed attribute wins
// over a namespaced one with the same local name.
func attrMap(attrs []xml.Attr) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if _, ok := out[a.Name.Local]; ok && a.Name.Space != "" {
			continue
		}
		out[a.Name.Local] = a.Value
	}
	return out
}

func hasClass(list, class string) bool {
	for _, c := range strings.Fields(list) {
		if c == class {
			return true
		}
	}
	return false
}

func invalid(elem, attr string, err error) error {
	return &colorbook.ParseError{
		Element: elem,
		Attr:    attr,
		Err:     fmt.Errorf("%w: %v", colorbook.ErrInvalidValue, err),
	}
}

func missing(elem, attr string) error {
	return &colorbook.ParseError{Element: elem, Attr: attr, Err: colorbook.ErrMissingAttribute}
}

// parseViewBox determines the intrinsic coordinate space: viewBox, then
// width and height, then the configured default size.
func parseViewBox(attrs map[string]string, o parseOptions) (ViewBox, error) {
	if s, ok := attrs["viewBox"]; ok && strings.TrimSpace(s) != "" {
		v, err := svg.ParseNumbers(s)
		if err != nil {
			return ViewBox{}, invalid("svg", "viewBox", err)
		}
		if len(v) != 4 {
			return ViewBox{}, invalid("svg", "viewBox", fmt.Errorf("want 4 numbers, got %d", len(v)))
		}
		if v[2] <= 0 || v[3] <= 0 {
			return ViewBox{}, invalid("svg", "viewBox", errors.New("non-positive size"))
		}
		return ViewBox{MinX: v[0], MinY: v[1], Width: v[2], Height: v[3]}, nil
	}

	// Percentages and physical units leave the size undetermined.
	w, werr := svg.ParseLength(attrs["width"])
	h, herr := svg.ParseLength(attrs["height"])
	if werr == nil && herr == nil && w > 0 && h > 0 {
		return ViewBox{Width: w, Height: h}, nil
	}
	return ViewBox{Width: o.width, Height: o.height}, nil
}

// elementTransform composes the element's transform attribute onto the
// inherited matrix.
func elementTransform(parent gg.Matrix, elem string, attrs map[string]string) (gg.Matrix, error) {
	s, ok := attrs["transform"]
	if !ok {
		return parent, nil
	}
	m, err := svg.ParseTransform(s)
	if err != nil {
		return gg.Matrix{}, invalid(elem, "transform", err)
	}
	return parent.Multiply(m), nil
}

// inheritStyle applies presentation attributes, then inline style
// declarations, over the inherited style.
func inheritStyle(parent Style, elem string, attrs map[string]string) (Style, error) {
	st := parent
	props := map[string]string{}
	for _, name := range []string{"fill", "stroke", "stroke-width", "fill-rule"} {
		if v, ok := attrs[name]; ok {
			props[name] = v
		}
	}
	if s, ok := attrs["style"]; ok {
		for k, v := range svg.ParseStyle(s) {
			props[k] = v
		}
	}

	for name, v := range props {
		switch name {
		case "fill", "stroke":
			if strings.TrimSpace(v) == "inherit" {
				continue
			}
			p, err := svg.ParsePaint(v)
			if err != nil {
				return Style{}, invalid(elem, name, err)
			}
			if name == "fill" {
				st.Fill = Paint(p)
			} else {
				st.Stroke = Paint(p)
			}
		case "stroke-width":
			w, err := svg.ParseLength(v)
			if err != nil || w < 0 {
				if err == nil {
					err = errors.New("negative width")
				}
				return Style{}, invalid(elem, name, err)
			}
			st.StrokeWidth = w
		case "fill-rule":
			switch strings.TrimSpace(v) {
			case "evenodd":
				st.FillRule = gg.FillRuleEvenOdd
			case "nonzero":
				st.FillRule = gg.FillRuleNonZero
			case "inherit":
			default:
				return Style{}, invalid(elem, name, fmt.Errorf("unknown rule %q", v))
			}
		}
	}
	return st, nil
}

// defaultColor resolves a region's default fill.
func defaultColor(elem string, attrs map[string]string, st Style, attr string) (color.NRGBA, error) {
	if s, ok := attrs[attr]; ok && strings.TrimSpace(s) != "" {
		p, err := svg.ParsePaint(s)
		if err != nil {
			return color.NRGBA{}, invalid(elem, attr, err)
		}
		if !p.None {
			return p.Color, nil
		}
	}
	if !st.Fill.None {
		return st.Fill.Color, nil
	}
	return colorbook.White, nil
}

// parseGeometry builds the geometry of a shape element. It returns nil
// geometry for element names it does not know.
func parseGeometry(elem string, attrs map[string]string) (Geometry, error) {
	// length reads an attribute; required attributes must be present,
	// optional ones default to zero.
	length := func(name string, required, positive bool) (float64, error) {
		s, ok := attrs[name]
		if !ok || strings.TrimSpace(s) == "" {
			if required {
				return 0, missing(elem, name)
			}
			return 0, nil
		}
		v, err := svg.ParseLength(s)
		if err != nil {
			return 0, invalid(elem, name, err)
		}
		if positive && v < 0 {
			return 0, invalid(elem, name, errors.New("negative length"))
		}
		return v, nil
	}

	var (
		vals [4]float64
		err  error
	)
	read := func(names []string, required, positive bool) error {
		for i, n := range names {
			if vals[i], err = length(n, required, positive); err != nil {
				return err
			}
		}
		return nil
	}

	switch elem {
	case "rect":
		if err := read([]string{"x", "y"}, false, false); err != nil {
			return nil, err
		}
		x, y := vals[0], vals[1]
		if err := read([]string{"width", "height"}, true, true); err != nil {
			return nil, err
		}
		w, h := vals[0], vals[1]
		if err := read([]string{"rx", "ry"}, false, true); err != nil {
			return nil, err
		}
		rx, ry := vals[0], vals[1]
		if strings.TrimSpace(attrs["rx"]) == "" {
			rx = -1
		}
		if strings.TrimSpace(attrs["ry"]) == "" {
			ry = -1
		}
		return Rect{X: x, Y: y, Width: w, Height: h, RX: rx, RY: ry}, nil

	case "circle":
		if err := read([]string{"cx", "cy"}, false, false); err != nil {
			return nil, err
		}
		cx, cy := vals[0], vals[1]
		r, err := length("r", true, true)
		if err != nil {
			return nil, err
		}
		return Circle{CX: cx, CY: cy, R: r}, nil

	case "ellipse":
		if err := read([]string{"cx", "cy"}, false, false); err != nil {
			return nil, err
		}
		cx, cy := vals[0], vals[1]
		if err := read([]string{"rx", "ry"}, true, true); err != nil {
			return nil, err
		}
		return Ellipse{CX: cx, CY: cy, RX: vals[0], RY: vals[1]}, nil

	case "line":
		if err := read([]string{"x1", "y1", "x2", "y2"}, false, false); err != nil {
			return nil, err
		}
		return Line{X1: vals[0], Y1: vals[1], X2: vals[2], Y2: vals[3]}, nil

	case "path":
		d, ok := attrs["d"]
		if !ok || strings.TrimSpace(d) == "" {
			return nil, missing(elem, "d")
		}
		p, err := svg.ParsePath(d)
		if err != nil {
			return nil, invalid(elem, "d", err)
		}
		return NewPath(p), nil

	case "polygon", "polyline":
		s, ok := attrs["points"]
		if !ok || strings.TrimSpace(s) == "" {
			return nil, missing(elem, "points")
		}
		nums, err := svg.ParseNumbers(s)
		if err != nil {
			return nil, invalid(elem, "points", err)
		}
		if len(nums)%2 != 0 {
			return nil, invalid(elem, "points", errors.New("odd number of coordinates"))
		}
		pts := make([]gg.Point, 0, len(nums)/2)
		for i := 0; i < len(nums); i += 2 {
			pts = append(pts, gg.Pt(nums[i], nums[i+1]))
		}
		return Polyline{Points: pts, Closed: elem == "polygon"}, nil
	}
	return nil, nil
}
