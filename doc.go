// Package colorbook provides the shared vocabulary of a children's drawing
// and colouring engine built on gg.
//
// # Overview
//
// colorbook supports two painting models behind one tool abstraction:
//
//   - Free drawing on a fixed-size raster canvas (package raster)
//   - Colouring the regions of a pre-drawn vector template (package vector)
//
// Either surface can be rasterized into a single bitmap and encoded as PNG,
// JPEG, BMP, TIFF or PDF (package export). The engine package ties the
// pieces together: it routes pointer input to the active surface, exposes
// uniform Clear and Export operations and emits tool-completion
// notifications.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/colorbook"
//	    "github.com/gogpu/colorbook/catalog"
//	    "github.com/gogpu/colorbook/engine"
//	)
//
//	e := engine.New()
//	flower, _ := catalog.Default().Lookup("flower")
//	if err := e.SelectTemplate(flower); err != nil {
//	    // malformed template
//	}
//	e.SetColor(colorbook.Palette[0].Value)
//	e.PointerDown(50, 50) // fills the flower centre
//	data, name, err := e.Export()
//
// # Package Layout
//
// The root package holds the types every other package shares:
//   - Tool: Brush, Fill or Eraser
//   - Color and Palette: the fixed 18-colour palette
//   - Brush size limits and clamping
//   - ParseError and RenderError
//   - Logger configuration
//
// # Coordinate System
//
// Uses the gg coordinate system:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// Raster surfaces are addressed in pixels. Vector surfaces are addressed in
// the template's intrinsic units (its viewBox), independent of how large the
// template is displayed.
package colorbook

import "github.com/gogpu/gg"

// Version is the current version of the library.
const Version = "0.1.0"

// Point is a 2D point in surface-local coordinates.
type Point = gg.Point

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return gg.Pt(x, y)
}
