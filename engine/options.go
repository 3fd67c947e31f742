package engine

import (
	"image/color"

	"github.com/gogpu/colorbook"
	"github.com/gogpu/colorbook/export"
)

// Default canvas size of free-draw mode, in pixels.
const (
	DefaultCanvasWidth  = 600
	DefaultCanvasHeight = 400
)

// Option configures an Engine during creation.
//
// Example:
//
//	e := engine.New(
//	    engine.WithCanvasSize(800, 600),
//	    engine.WithListener(func(ev engine.Event) { log.Println(ev) }),
//	)
type Option func(*options)

type options struct {
	width, height int
	background    color.NRGBA
	brushSize     int
	color         color.NRGBA
	tool          colorbook.Tool
	toolSet       bool
	viewport      Viewport
	listeners     []Listener
	export        []export.Option
}

func defaultOptions() options {
	return options{
		width:      DefaultCanvasWidth,
		height:     DefaultCanvasHeight,
		background: colorbook.White,
		brushSize:  colorbook.DefaultBrushSize,
		color:      colorbook.DefaultColor,
	}
}

// WithCanvasSize sets the free-draw canvas size. Non-positive values are
// ignored.
func WithCanvasSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithBackground sets the free-draw canvas colour, which is also the
// eraser colour.
func WithBackground(c color.Color) Option {
	return func(o *options) {
		o.background = colorbook.Opaque(c)
	}
}

// WithBrushSize sets the initial brush size, clamped to the valid range.
func WithBrushSize(size int) Option {
	return func(o *options) {
		o.brushSize = colorbook.ClampBrushSize(size)
	}
}

// WithColor sets the initial paint colour.
func WithColor(c color.Color) Option {
	return func(o *options) {
		o.color = colorbook.Opaque(c)
	}
}

// WithTool sets the initial tool instead of the free-draw default.
// Invalid tools are ignored.
func WithTool(t colorbook.Tool) Option {
	return func(o *options) {
		if t.Valid() {
			o.tool, o.toolSet = t, true
		}
	}
}

// WithViewport sets the initial on-screen viewport.
func WithViewport(vp Viewport) Option {
	return func(o *options) {
		o.viewport = vp
	}
}

// WithListener registers a listener for engine events.
func WithListener(l Listener) Option {
	return func(o *options) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}

// WithExportOptions sets default options for Export and ExportAsync.
// Options passed to those calls are applied after these.
func WithExportOptions(opts ...export.Option) Option {
	return func(o *options) {
		o.export = append(o.export, opts...)
	}
}
