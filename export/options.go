package export

import (
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/colorbook"
)

// Default option values.
const (
	DefaultFormat      = FormatPNG
	DefaultJPEGQuality = 90
	MaxScale           = 16

	// MaxPixels bounds the bitmap a template is rendered onto.
	MaxPixels = 1 << 26
)

// Option configures an export.
//
// Example:
//
//	data, err := export.ExportVector(s,
//	    export.WithFormat("jpeg"),
//	    export.WithScale(4),
//	)
type Option func(*Options)

// Options holds the resolved export configuration. Encoder factories
// receive it.
type Options struct {
	// Format is the registered encoder name.
	Format string
	// Scale multiplies a template's intrinsic size. Raster surfaces are
	// resampled when it is not 1.
	Scale float64
	// Background is the colour a template is rendered onto.
	Background color.NRGBA
	// JPEGQuality is the quality used by the jpeg encoder (1-100).
	JPEGQuality int
}

func defaultOptions() Options {
	return Options{
		Format:      DefaultFormat,
		Scale:       1,
		Background:  colorbook.White,
		JPEGQuality: DefaultJPEGQuality,
	}
}

func newOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFormat selects the output encoder by name. Empty names are ignored.
func WithFormat(name string) Option {
	return func(o *Options) {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			o.Format = name
		}
	}
}

// WithScale sets the output scale factor. Values outside (0, MaxScale]
// and non-finite values are ignored.
func WithScale(scale float64) Option {
	return func(o *Options) {
		if scale > 0 && scale <= MaxScale && !math.IsNaN(scale) {
			o.Scale = scale
		}
	}
}

// WithBackground sets the backdrop of template exports. The colour is
// made opaque.
func WithBackground(c color.Color) Option {
	return func(o *Options) {
		o.Background = colorbook.Opaque(c)
	}
}

// WithJPEGQuality sets the jpeg quality, clamped to 1-100.
func WithJPEGQuality(q int) Option {
	return func(o *Options) {
		o.JPEGQuality = min(max(q, 1), 100)
	}
}
