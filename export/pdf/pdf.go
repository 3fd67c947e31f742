// Package pdf registers a "pdf" export format that places the rasterized
// drawing on a single page of the same size.
//
// Import it for its side effect:
//
//	import _ "github.com/gogpu/colorbook/export/pdf"
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gogpu/colorbook/export"
)

// Format is the registered format name.
const Format = "pdf"

func init() {
	export.Register(Format, func(export.Options) export.Encoder { return Encoder{} })
}

// epoch is written as the creation and modification date.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Encoder writes one-page PDF documents. One image pixel maps to one point.
type Encoder struct{}

// Encode implements export.Encoder.
func (Encoder) Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("pdf: empty image")
	}
	wd, ht := float64(b.Dx()), float64(b.Dy())

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("pdf: embed image: %w", err)
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	doc.SetCreationDate(epoch)
	doc.SetModificationDate(epoch)
	doc.SetCatalogSort(true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("drawing", opt, &buf)
	doc.ImageOptions("drawing", 0, 0, wd, ht, false, opt, 0, "")
	if err := doc.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return doc.Output(w)
}

// Extension implements export.Encoder.
func (Encoder) Extension() string { return "pdf" }

// MediaType implements export.Encoder.
func (Encoder) MediaType() string { return "application/pdf" }
