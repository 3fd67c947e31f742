package engine

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/colorbook/vector"
)

// Viewport is the on-screen size of the displayed surface, in device
// pixels. The zero Viewport means device and surface coordinates agree.
type Viewport struct {
	Width, Height float64
}

// IsZero reports whether the viewport has no usable size.
func (vp Viewport) IsZero() bool {
	return !(vp.Width > 0 && vp.Height > 0)
}

// rasterMatrix maps device points onto a w x h canvas stretched to fill
// the viewport on each axis.
func rasterMatrix(vp Viewport, w, h int) gg.Matrix {
	if vp.IsZero() {
		return gg.Identity()
	}
	return gg.Scale(float64(w)/vp.Width, float64(h)/vp.Height)
}

// vectorMatrix maps device points into template user space. The view box
// is scaled uniformly to fit the viewport and centred on the free axis.
func vectorMatrix(vp Viewport, vb vector.ViewBox) gg.Matrix {
	if vp.IsZero() || vb.Width <= 0 || vb.Height <= 0 {
		return gg.Identity()
	}
	s := min(vp.Width/vb.Width, vp.Height/vb.Height)
	ox := (vp.Width - vb.Width*s) / 2
	oy := (vp.Height - vb.Height*s) / 2

	// device = T(o) * S(s) * T(-min) * user
	toDevice := gg.Translate(ox, oy).Multiply(gg.Scale(s, s)).Multiply(gg.Translate(-vb.MinX, -vb.MinY))
	return toDevice.Invert()
}
