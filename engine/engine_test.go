package engine_test

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/h2non/filetype"

	"github.com/gogpu/colorbook"
	"github.com/gogpu/colorbook/catalog"
	"github.com/gogpu/colorbook/engine"
	"github.com/gogpu/colorbook/export"
)

func near(c color.Color, want color.NRGBA, tol int) bool {
	got := colorbook.Opaque(c)
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v >= -tol && v <= tol
	}
	return d(got.R, want.R) && d(got.G, want.G) && d(got.B, want.B)
}

func hex(t *testing.T, s string) color.NRGBA {
	t.Helper()
	c, err := colorbook.ParseHex(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// recorder collects emitted events.
type recorder struct {
	events []engine.Event
}

func (r *recorder) listen(ev engine.Event) { r.events = append(r.events, ev) }

func (r *recorder) kinds() []engine.EventKind {
	out := make([]engine.EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func (r *recorder) last() engine.Event {
	if len(r.events) == 0 {
		return engine.Event{Kind: 255}
	}
	return r.events[len(r.events)-1]
}

func newTemplateEngine(t *testing.T, id string, opts ...engine.Option) (*engine.Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	e := engine.New(append(opts, engine.WithListener(rec.listen))...)
	tmpl, err := catalog.Default().Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.SelectTemplate(tmpl); err != nil {
		t.Fatal(err)
	}
	rec.events = nil
	return e, rec
}

func TestNew_Defaults(t *testing.T) {
	e := engine.New()
	if e.Mode() != engine.ModeFreeDraw || e.State() != engine.StateIdle {
		t.Errorf("mode/state = %v/%v, want FreeDraw/Idle", e.Mode(), e.State())
	}
	if e.Tool() != colorbook.ToolBrush {
		t.Errorf("Tool() = %v, want Brush", e.Tool())
	}
	if e.Color() != colorbook.DefaultColor {
		t.Errorf("Color() = %v, want %v", e.Color(), colorbook.DefaultColor)
	}
	if e.BrushSize() != colorbook.DefaultBrushSize {
		t.Errorf("BrushSize() = %d", e.BrushSize())
	}
	r, ok := e.Raster()
	if !ok {
		t.Fatal("no raster surface in free-draw mode")
	}
	if r.Width() != engine.DefaultCanvasWidth || r.Height() != engine.DefaultCanvasHeight {
		t.Errorf("canvas = %dx%d", r.Width(), r.Height())
	}
	if _, ok := e.Vector(); ok {
		t.Error("vector surface in free-draw mode")
	}
	if e.ID() == engine.New().ID() {
		t.Error("sessions share an id")
	}
}

func TestNew_Options(t *testing.T) {
	bg := hex(t, "#101010")
	e := engine.New(
		engine.WithCanvasSize(64, 32),
		engine.WithBackground(bg),
		engine.WithBrushSize(500),
		engine.WithColor(color.NRGBA{R: 1, G: 2, B: 3, A: 10}),
		engine.WithTool(colorbook.ToolEraser),
	)
	r, _ := e.Raster()
	if r.Width() != 64 || r.Height() != 32 || r.Background() != bg {
		t.Errorf("canvas = %dx%d bg %v", r.Width(), r.Height(), r.Background())
	}
	if e.BrushSize() != colorbook.MaxBrushSize {
		t.Errorf("BrushSize() = %d, want %d", e.BrushSize(), colorbook.MaxBrushSize)
	}
	if want := (color.NRGBA{R: 1, G: 2, B: 3, A: 255}); e.Color() != want {
		t.Errorf("Color() = %v, want %v", e.Color(), want)
	}
	if e.Tool() != colorbook.ToolEraser {
		t.Errorf("Tool() = %v, want Eraser", e.Tool())
	}
}

func TestEngine_StrokeStates(t *testing.T) {
	rec := &recorder{}
	e := engine.New(engine.WithListener(rec.listen))

	e.PointerMove(10, 10)
	e.PointerUp()
	if e.State() != engine.StateIdle || len(rec.events) != 0 {
		t.Fatalf("idle move/up changed state: %v, %d events", e.State(), len(rec.events))
	}

	e.PointerDown(100, 100)
	if e.State() != engine.StateStroking {
		t.Fatalf("after down: %v, want Stroking", e.State())
	}
	e.PointerMove(150, 120)
	e.PointerUp()
	if e.State() != engine.StateIdle {
		t.Fatalf("after up: %v, want Idle", e.State())
	}
	if ev := rec.last(); ev.Kind != engine.EventStroke || ev.Point != gg.Pt(150, 120) || ev.Region != -1 {
		t.Errorf("stroke event = %+v", ev)
	}

	// A second press while stroking ends the first stroke.
	rec.events = nil
	e.PointerDown(10, 10)
	e.PointerDown(20, 20)
	if e.State() != engine.StateStroking || len(rec.events) != 1 {
		t.Errorf("re-press: %v with %d events, want Stroking with 1", e.State(), len(rec.events))
	}
	e.PointerLeave()
	if e.State() != engine.StateIdle || len(rec.events) != 2 {
		t.Errorf("leave: %v with %d events, want Idle with 2", e.State(), len(rec.events))
	}
}

func TestEngine_RejectedPress(t *testing.T) {
	e := engine.New()
	for _, p := range [][2]float64{{math.NaN(), 5}, {5, math.Inf(1)}} {
		e.PointerDown(p[0], p[1])
		if e.State() != engine.StateIdle {
			t.Errorf("press at %v started a stroke", p)
		}
	}
}

func TestEngine_OffCanvasPress(t *testing.T) {
	e := engine.New()
	e.PointerDown(-1000, -1000)
	if e.State() != engine.StateStroking {
		t.Fatalf("off-canvas press: state %v, want Stroking", e.State())
	}
	img, err := e.Rasterize()
	if err != nil {
		t.Fatal(err)
	}
	if got := colorbook.Opaque(img.At(0, 0)); got != colorbook.White {
		t.Errorf("off-canvas press painted the corner: %v", got)
	}

	// Dragging onto the canvas paints the part of the segment inside it.
	e.PointerMove(1000, 1000)
	e.PointerUp()
	img, err = e.Rasterize()
	if err != nil {
		t.Fatal(err)
	}
	if got := colorbook.Opaque(img.At(200, 200)); got == colorbook.White {
		t.Error("segment entering the canvas was not painted")
	}
}

func TestEngine_BlueStroke(t *testing.T) {
	e := engine.New()
	if !e.SetColorHex("#3B82F6") {
		t.Fatal("SetColorHex rejected a valid colour")
	}
	e.PointerDown(100, 100)
	e.PointerMove(200, 100)
	e.PointerUp()

	r, _ := e.Raster()
	blue := hex(t, "#3B82F6")
	for _, x := range []int{100, 150, 200} {
		if got := r.At(x, 100); !near(got, blue, 2) {
			t.Errorf("pixel (%d,100) = %v, want blue", x, got)
		}
	}
	if got := r.At(150, 110); got != colorbook.White {
		t.Errorf("pixel (150,110) = %v, want white", got)
	}
}

func TestEngine_RasterViewport(t *testing.T) {
	e := engine.New(engine.WithViewport(engine.Viewport{Width: 300, Height: 100}))
	tests := []struct {
		x, y float64
		want gg.Point
	}{
		{0, 0, gg.Pt(0, 0)},
		{150, 50, gg.Pt(300, 200)},
		{300, 100, gg.Pt(600, 400)},
		{50, 25, gg.Pt(100, 100)},
	}
	for _, tt := range tests {
		if got := e.ToSurface(tt.x, tt.y); got != tt.want {
			t.Errorf("ToSurface(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	e.SetViewport(engine.Viewport{})
	if got := e.ToSurface(7, 9); got != gg.Pt(7, 9) {
		t.Errorf("zero viewport: ToSurface = %v, want identity", got)
	}
}

func TestEngine_VectorViewport(t *testing.T) {
	e, _ := newTemplateEngine(t, "flower", engine.WithViewport(engine.Viewport{Width: 600, Height: 400}))
	tests := []struct {
		x, y float64
		want gg.Point
	}{
		{300, 200, gg.Pt(50, 50)},
		{100, 0, gg.Pt(0, 0)},
		{500, 400, gg.Pt(100, 100)},
		{0, 0, gg.Pt(-25, 0)},
	}
	for _, tt := range tests {
		got := e.ToSurface(tt.x, tt.y)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
			t.Errorf("ToSurface(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	// A press in the letterbox misses every region.
	e.PointerDown(20, 200)
	s, _ := e.Vector()
	for i, r := range s.Regions() {
		if r.Current != r.Default {
			t.Errorf("region %d changed by a letterbox press", i)
		}
	}
}

func TestEngine_FlowerScenario(t *testing.T) {
	e, rec := newTemplateEngine(t, "flower")
	if e.Mode() != engine.ModeTemplate || e.Tool() != colorbook.ToolFill {
		t.Fatalf("mode/tool = %v/%v, want Template/Fill", e.Mode(), e.Tool())
	}
	s, _ := e.Vector()

	e.PointerDown(50, 50)
	if got := s.Region(0).Current; got != hex(t, "#EF4444") {
		t.Fatalf("centre after fill = %v, want #EF4444", got)
	}
	ev := rec.last()
	if ev.Kind != engine.EventFill || ev.Region != 0 || ev.Template != "flower" || ev.Color != hex(t, "#EF4444") {
		t.Errorf("fill event = %+v", ev)
	}
	if e.State() != engine.StateIdle {
		t.Errorf("state after template press = %v", e.State())
	}

	e.SetTool(colorbook.ToolEraser)
	e.PointerDown(50, 50)
	if got := s.Region(0).Current; got != hex(t, "#FFEB3B") {
		t.Fatalf("centre after erase = %v, want #FFEB3B", got)
	}
	if ev := rec.last(); ev.Kind != engine.EventErase || ev.Color != hex(t, "#FFEB3B") {
		t.Errorf("erase event = %+v", ev)
	}
	for i := 1; i < s.Len(); i++ {
		if r := s.Region(i); r.Current != r.Default {
			t.Errorf("region %d changed", i)
		}
	}
}

func TestEngine_FillRegion(t *testing.T) {
	e, rec := newTemplateEngine(t, "flower")
	s, _ := e.Vector()
	e.SetColorHex("#3B82F6")

	tests := []struct {
		region int
		want   bool
	}{
		{3, true},
		{-1, false},
		{s.Len(), false},
	}
	for _, tt := range tests {
		if got := e.FillRegion(tt.region); got != tt.want {
			t.Errorf("FillRegion(%d) = %v, want %v", tt.region, got, tt.want)
		}
	}
	if got := s.Region(3).Current; got != hex(t, "#3B82F6") {
		t.Errorf("region 3 = %v, want #3B82F6", got)
	}
	if len(rec.events) != 1 {
		t.Fatalf("events = %v, want one fill", rec.kinds())
	}
	if ev := rec.last(); ev.Kind != engine.EventFill || ev.Region != 3 || ev.Tool != colorbook.ToolFill {
		t.Errorf("fill event = %+v", ev)
	}

	e.EnterFreeDraw(0, 0)
	if e.FillRegion(0) {
		t.Error("FillRegion succeeded in free-draw mode")
	}
}

func TestEngine_TemplateIgnoresDrag(t *testing.T) {
	e, rec := newTemplateEngine(t, "car")
	e.SetTool(colorbook.ToolBrush)
	e.PointerDown(100, 50)
	e.PointerMove(120, 50)
	e.PointerUp()
	if e.State() != engine.StateIdle || len(rec.events) != 0 {
		t.Errorf("brush on a template: %v, events %v", e.State(), rec.kinds())
	}
	s, _ := e.Vector()
	if r := s.Region(0); r.Current != r.Default {
		t.Error("brush changed a region")
	}

	// Misses produce no event.
	e.SetTool(colorbook.ToolFill)
	e.PointerDown(2, 2)
	if len(rec.events) != 0 {
		t.Errorf("miss emitted %v", rec.kinds())
	}
}

func TestEngine_ModeSwitchDiscardsTemplate(t *testing.T) {
	e, rec := newTemplateEngine(t, "flower")
	e.PointerDown(50, 50)

	e.EnterFreeDraw(0, 0)
	if e.Mode() != engine.ModeFreeDraw || e.Tool() != colorbook.ToolBrush {
		t.Fatalf("mode/tool = %v/%v", e.Mode(), e.Tool())
	}
	if _, ok := e.Template(); ok {
		t.Error("template kept after EnterFreeDraw")
	}
	if ev := rec.last(); ev.Kind != engine.EventModeChange || ev.Mode != engine.ModeFreeDraw {
		t.Errorf("mode event = %+v", ev)
	}

	tmpl, _ := catalog.Default().Get("flower")
	if err := e.SelectTemplate(tmpl); err != nil {
		t.Fatal(err)
	}
	s, _ := e.Vector()
	if got := s.Region(0).Current; got != hex(t, "#FFEB3B") {
		t.Errorf("centre after reselect = %v, want default", got)
	}
}

func TestEngine_EnterFreeDrawSize(t *testing.T) {
	e := engine.New()
	e.EnterFreeDraw(120, 80)
	r, _ := e.Raster()
	if r.Width() != 120 || r.Height() != 80 {
		t.Errorf("canvas = %dx%d, want 120x80", r.Width(), r.Height())
	}
}

func TestEngine_FailedLoadKeepsSurface(t *testing.T) {
	e, rec := newTemplateEngine(t, "butterfly")
	before, _ := e.Vector()
	e.PointerDown(35, 30)

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"malformed", `<svg viewBox="0 0 1 1"><rect`, colorbook.ErrMalformed},
		{"no root", `<html/>`, colorbook.ErrNoRoot},
		{"missing attr", `<svg viewBox="0 0 1 1"><circle cx="1"/></svg>`, colorbook.ErrMissingAttribute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec.events = nil
			err := e.LoadTemplate(tt.name, tt.doc)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			var pe *colorbook.ParseError
			if !errors.As(err, &pe) {
				t.Errorf("err = %T, want a ParseError", err)
			}
			after, _ := e.Vector()
			if after != before || e.Mode() != engine.ModeTemplate {
				t.Error("failed load replaced the surface")
			}
			if after.Region(1).Current != colorbook.DefaultColor {
				t.Error("failed load reset the surface")
			}
			if len(rec.events) != 0 {
				t.Errorf("failed load emitted %v", rec.kinds())
			}
		})
	}
}

func TestEngine_Settings(t *testing.T) {
	e := engine.New()

	if e.SetColorHex("#12345") || e.SetColorHex("red") {
		t.Error("malformed colour accepted")
	}
	if e.Color() != colorbook.DefaultColor {
		t.Errorf("Color() = %v after malformed input", e.Color())
	}
	if !e.SetColorHex("#abc") || e.Color() != hex(t, "#AABBCC") {
		t.Errorf("short hex: Color() = %v", e.Color())
	}

	sizes := []struct{ in, want int }{{0, 1}, {-5, 1}, {1, 1}, {12, 12}, {50, 50}, {51, 50}}
	for _, tt := range sizes {
		e.SetBrushSize(tt.in)
		if e.BrushSize() != tt.want {
			t.Errorf("SetBrushSize(%d): %d, want %d", tt.in, e.BrushSize(), tt.want)
		}
	}

	e.SetTool(colorbook.ToolFill)
	e.SetTool(colorbook.Tool(42))
	if e.Tool() != colorbook.ToolFill {
		t.Errorf("Tool() = %v after invalid tool", e.Tool())
	}
}

func TestEngine_Clear(t *testing.T) {
	rec := &recorder{}
	e := engine.New(engine.WithListener(rec.listen))
	e.PointerDown(50, 50)
	e.PointerMove(80, 50)
	e.Clear()
	if e.State() != engine.StateIdle {
		t.Errorf("state after clear = %v", e.State())
	}
	r, _ := e.Raster()
	if got := r.At(60, 50); got != colorbook.White {
		t.Errorf("pixel after clear = %v, want white", got)
	}
	if ev := rec.last(); ev.Kind != engine.EventClear {
		t.Errorf("last event = %v, want Clear", ev.Kind)
	}

	e2, _ := newTemplateEngine(t, "car")
	e2.PointerDown(100, 50)
	e2.Clear()
	s, _ := e2.Vector()
	for i, reg := range s.Regions() {
		if reg.Current != reg.Default {
			t.Errorf("region %d not reset", i)
		}
	}
}

func TestEngine_Export(t *testing.T) {
	e, rec := newTemplateEngine(t, "flower")
	e.PointerDown(50, 50)

	data, name, err := e.Export()
	if err != nil {
		t.Fatal(err)
	}
	if name != "pretty_flower_colored.png" {
		t.Errorf("name = %q", name)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.At(50, 50); !near(got, hex(t, "#EF4444"), 2) {
		t.Errorf("exported centre = %v", got)
	}
	ev := rec.last()
	if ev.Kind != engine.EventExport || ev.FileName != name || ev.Template != "flower" || ev.Pending {
		t.Errorf("export event = %+v", ev)
	}

	s, _ := e.Vector()
	if s.Region(0).Current != hex(t, "#EF4444") || e.State() != engine.StateIdle {
		t.Error("export changed the session")
	}
}

func TestEngine_ExportFreeDraw(t *testing.T) {
	e := engine.New(engine.WithExportOptions(export.WithFormat("bmp")))
	e.PointerDown(10, 10)
	e.PointerUp()

	tests := []struct {
		opts     []export.Option
		wantName string
		wantExt  string
	}{
		{nil, "my_drawing.bmp", "bmp"},
		{[]export.Option{export.WithFormat("jpeg")}, "my_drawing.jpg", "jpg"},
		{[]export.Option{export.WithFormat("tiff")}, "my_drawing.tiff", "tif"},
	}
	for _, tt := range tests {
		data, name, err := e.Export(tt.opts...)
		if err != nil {
			t.Fatal(err)
		}
		if name != tt.wantName {
			t.Errorf("name = %q, want %q", name, tt.wantName)
		}
		if kind, _ := filetype.Match(data); kind.Extension != tt.wantExt {
			t.Errorf("%s: detected %q", name, kind.Extension)
		}
	}
}

func TestEngine_ExportErrors(t *testing.T) {
	rec := &recorder{}
	e := engine.New(engine.WithListener(rec.listen))
	if _, _, err := e.Export(export.WithFormat("webp")); !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}

	doc := `<svg viewBox="0 0 10 10"><rect class="colorable-part" width="5" height="5"/><text>x</text></svg>`
	if err := e.LoadTemplate("Label", doc); err != nil {
		t.Fatal(err)
	}
	rec.events = nil
	if _, _, err := e.Export(); !errors.Is(err, colorbook.ErrUnsupportedShape) {
		t.Errorf("err = %v, want ErrUnsupportedShape", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("failed export emitted %v", rec.kinds())
	}
}

func TestEngine_ExportAsync(t *testing.T) {
	rec := &recorder{}
	e := engine.New(engine.WithCanvasSize(40, 40), engine.WithListener(rec.listen))

	req, results, err := e.ExportAsync(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ev := rec.last(); ev.Kind != engine.EventExport || ev.ExportID != req.ID || !ev.Pending {
		t.Errorf("export event = %+v, want pending export %v", ev, req.ID)
	}

	// Drawing after the request does not reach the encoded image.
	e.SetColor(color.Black)
	e.PointerDown(20, 20)
	e.PointerUp()

	res := <-results
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.ID != req.ID {
		t.Errorf("result id = %v, want %v", res.ID, req.ID)
	}
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.At(20, 20); !near(got, colorbook.White, 0) {
		t.Errorf("async export saw a later stroke: %v", got)
	}
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{engine.ModeFreeDraw.String(), "FreeDraw"},
		{engine.ModeTemplate.String(), "Template"},
		{engine.StateIdle.String(), "Idle"},
		{engine.StateStroking.String(), "Stroking"},
		{engine.EventFill.String(), "Fill"},
		{engine.EventModeChange.String(), "ModeChange"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
