package export

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Built-in format names.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

func init() {
	Register(FormatPNG, func(Options) Encoder { return pngEncoder{} })
	Register(FormatJPEG, func(o Options) Encoder { return jpegEncoder{quality: o.JPEGQuality} })
	Register("jpg", func(o Options) Encoder { return jpegEncoder{quality: o.JPEGQuality} })
	Register(FormatBMP, func(Options) Encoder { return bmpEncoder{} })
	Register(FormatTIFF, func(Options) Encoder { return tiffEncoder{} })
}

type pngEncoder struct{}

func (pngEncoder) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, img)
}

func (pngEncoder) Extension() string { return "png" }
func (pngEncoder) MediaType() string { return "image/png" }

type jpegEncoder struct {
	quality int
}

func (e jpegEncoder) Encode(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: e.quality})
}

func (jpegEncoder) Extension() string { return "jpg" }
func (jpegEncoder) MediaType() string { return "image/jpeg" }

type bmpEncoder struct{}

func (bmpEncoder) Encode(w io.Writer, img image.Image) error { return bmp.Encode(w, img) }
func (bmpEncoder) Extension() string                         { return "bmp" }
func (bmpEncoder) MediaType() string                         { return "image/bmp" }

type tiffEncoder struct{}

func (tiffEncoder) Encode(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

func (tiffEncoder) Extension() string { return "tiff" }
func (tiffEncoder) MediaType() string { return "image/tiff" }
