package raster

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/colorbook"
)

var blue = color.NRGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}

// near reports whether two colours differ by at most tol per channel.
func near(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v >= -tol && v <= tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"canvas", 600, 400, 600, 400},
		{"zero", 0, 0, 1, 1},
		{"negative", -5, 10, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.w, tt.h, colorbook.White)
			if s.Width() != tt.wantW || s.Height() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", s.Width(), s.Height(), tt.wantW, tt.wantH)
			}
			if s.Stroking() {
				t.Error("new surface is stroking")
			}
		})
	}
}

func TestSurface_BlueStroke(t *testing.T) {
	s := New(600, 400, colorbook.White)

	if !s.BeginStroke(gg.Pt(100, 100), colorbook.ToolBrush, blue, 5) {
		t.Fatal("BeginStroke rejected brush")
	}
	if !s.ExtendStroke(gg.Pt(200, 100), colorbook.ToolBrush, blue, 5) {
		t.Fatal("ExtendStroke rejected brush")
	}
	s.EndStroke()

	for _, x := range []int{100, 125, 150, 175, 199} {
		if got := s.At(x, 100); !near(got, blue, 2) {
			t.Errorf("pixel (%d,100) = %v, want %v", x, got, blue)
		}
	}
	for _, p := range [][2]int{{150, 110}, {150, 90}, {90, 100}, {210, 100}} {
		if got := s.At(p[0], p[1]); !near(got, colorbook.White, 0) {
			t.Errorf("pixel %v = %v, want white", p, got)
		}
	}
	if s.Stroking() {
		t.Error("still stroking after EndStroke")
	}
}

func TestSurface_TapPaintsDot(t *testing.T) {
	s := New(50, 50, colorbook.White)
	s.BeginStroke(gg.Pt(25, 25), colorbook.ToolBrush, color.Black, 10)
	s.EndStroke()

	if got := s.At(25, 25); !near(got, color.NRGBA{A: 0xFF}, 2) {
		t.Errorf("centre = %v, want black", got)
	}
	if got := s.At(25, 35); !near(got, colorbook.White, 0) {
		t.Errorf("outside dot = %v, want white", got)
	}
}

func TestSurface_Continuity(t *testing.T) {
	s := New(200, 200, colorbook.White)
	pts := []gg.Point{gg.Pt(20, 20), gg.Pt(60, 40), gg.Pt(120, 40), gg.Pt(150, 150)}
	s.BeginStroke(pts[0], colorbook.ToolBrush, blue, 6)
	for _, p := range pts[1:] {
		s.ExtendStroke(p, colorbook.ToolBrush, blue, 6)
	}
	s.EndStroke()

	// Every point along each segment is painted.
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		for k := 0; k <= 10; k++ {
			f := float64(k) / 10
			x := int(math.Round(a.X + (b.X-a.X)*f))
			y := int(math.Round(a.Y + (b.Y-a.Y)*f))
			if got := s.At(x, y); near(got, colorbook.White, 10) {
				t.Errorf("gap at (%d,%d) on segment %d", x, y, i)
			}
		}
	}
}

func TestSurface_Eraser(t *testing.T) {
	bg := color.NRGBA{R: 0xFA, G: 0xF0, B: 0xE6, A: 0xFF}
	s := New(100, 100, bg)
	s.BeginStroke(gg.Pt(10, 50), colorbook.ToolBrush, color.Black, 20)
	s.ExtendStroke(gg.Pt(90, 50), colorbook.ToolBrush, color.Black, 20)
	s.EndStroke()

	// The eraser ignores the colour argument.
	s.BeginStroke(gg.Pt(10, 50), colorbook.ToolEraser, color.Black, 40)
	s.ExtendStroke(gg.Pt(90, 50), colorbook.ToolEraser, color.Black, 40)
	s.EndStroke()

	for x := 20; x <= 80; x += 10 {
		if got := s.At(x, 50); !near(got, bg, 2) {
			t.Errorf("pixel (%d,50) = %v, want background %v", x, got, bg)
		}
	}
}

func TestSurface_RejectedInput(t *testing.T) {
	s := New(100, 100, colorbook.White)
	before := s.Snapshot()

	if s.BeginStroke(gg.Pt(50, 50), colorbook.ToolFill, blue, 5) {
		t.Error("BeginStroke accepted Fill")
	}
	if s.BeginStroke(gg.Pt(math.NaN(), 50), colorbook.ToolBrush, blue, 5) {
		t.Error("BeginStroke accepted NaN")
	}
	if s.ExtendStroke(gg.Pt(60, 60), colorbook.ToolBrush, blue, 5) {
		t.Error("ExtendStroke accepted input without a stroke")
	}
	s.EndStroke()
	s.EndStroke()

	if !bytes.Equal(before.Pix, s.Snapshot().Pix) {
		t.Error("rejected input changed the surface")
	}
}

func TestSurface_OffSurface(t *testing.T) {
	s := New(400, 300, colorbook.White)

	if !s.BeginStroke(gg.Pt(-100, -100), colorbook.ToolBrush, blue, 5) {
		t.Fatal("BeginStroke rejected off-surface point")
	}
	s.ExtendStroke(gg.Pt(300, 200), colorbook.ToolBrush, blue, 5)
	s.ExtendStroke(gg.Pt(1e9, 200), colorbook.ToolBrush, blue, 5)
	s.EndStroke()

	if got := s.At(100, 50); !near(got, blue, 2) {
		t.Errorf("pixel on clipped segment = %v, want %v", got, blue)
	}
	if got := s.At(350, 200); !near(got, blue, 2) {
		t.Errorf("pixel on segment leaving the surface = %v, want %v", got, blue)
	}
	if got := s.At(0, 299); !near(got, colorbook.White, 0) {
		t.Errorf("corner = %v, want white", got)
	}
}

func TestSurface_BrushSizeClamped(t *testing.T) {
	s := New(200, 200, colorbook.White)
	s.BeginStroke(gg.Pt(100, 100), colorbook.ToolBrush, color.Black, 1000)
	s.EndStroke()

	// Clamped to 50: radius 25.
	if got := s.At(100, 120); near(got, colorbook.White, 10) {
		t.Errorf("pixel inside clamped disc = %v, want painted", got)
	}
	if got := s.At(100, 130); !near(got, colorbook.White, 0) {
		t.Errorf("pixel outside clamped disc = %v, want white", got)
	}
}

func TestSurface_ResetMatchesFresh(t *testing.T) {
	s := New(120, 80, colorbook.White)
	s.BeginStroke(gg.Pt(10, 10), colorbook.ToolBrush, blue, 8)
	s.ExtendStroke(gg.Pt(110, 70), colorbook.ToolBrush, blue, 8)
	s.Reset(colorbook.White)

	if s.Stroking() {
		t.Error("Reset left a stroke active")
	}
	if !bytes.Equal(s.Snapshot().Pix, New(120, 80, colorbook.White).Snapshot().Pix) {
		t.Error("Reset surface differs from a fresh surface")
	}
}

func TestSurface_SnapshotIsolated(t *testing.T) {
	s := New(20, 20, colorbook.White)
	snap := s.Snapshot()
	s.BeginStroke(gg.Pt(10, 10), colorbook.ToolBrush, color.Black, 10)

	if got := colorbook.Opaque(snap.At(10, 10)); got != colorbook.White {
		t.Errorf("snapshot changed after painting: %v", got)
	}
}

func TestClipSegment(t *testing.T) {
	r := rect{0, 0, 10, 10}
	tests := []struct {
		name   string
		a, b   gg.Point
		wantA  gg.Point
		wantB  gg.Point
		wantOK bool
	}{
		{"inside", gg.Pt(1, 1), gg.Pt(9, 9), gg.Pt(1, 1), gg.Pt(9, 9), true},
		{"crossing", gg.Pt(-10, 5), gg.Pt(20, 5), gg.Pt(0, 5), gg.Pt(10, 5), true},
		{"diagonal in", gg.Pt(-5, -5), gg.Pt(5, 5), gg.Pt(0, 0), gg.Pt(5, 5), true},
		{"outside", gg.Pt(-10, -10), gg.Pt(-1, 20), gg.Point{}, gg.Point{}, false},
		{"parallel outside", gg.Pt(-1, 0), gg.Pt(-1, 10), gg.Point{}, gg.Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := clipSegment(tt.a, tt.b, r)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(a.X-tt.wantA.X) > 1e-9 || math.Abs(a.Y-tt.wantA.Y) > 1e-9 ||
				math.Abs(b.X-tt.wantB.X) > 1e-9 || math.Abs(b.Y-tt.wantB.Y) > 1e-9 {
				t.Errorf("clip = %v-%v, want %v-%v", a, b, tt.wantA, tt.wantB)
			}
		})
	}
}
