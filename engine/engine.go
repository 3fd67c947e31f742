// Package engine coordinates a colouring session: it owns the active
// surface, the selected tool, colour and brush size, and turns pointer
// input from a viewport into drawing operations.
//
// A session is in exactly one mode at a time. In free-draw mode the
// surface is a raster canvas and pointer drags paint strokes. In template
// mode the surface is a vector template and a pointer press fills or
// erases the region under it. Switching mode discards the previous
// surface.
//
// An Engine is not safe for concurrent use. Listeners run synchronously
// on the calling goroutine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/colorbook"
	"github.com/gogpu/colorbook/catalog"
	"github.com/gogpu/colorbook/export"
	"github.com/gogpu/colorbook/raster"
	"github.com/gogpu/colorbook/vector"
)

// Mode is the kind of the active surface.
type Mode uint8

const (
	// ModeFreeDraw paints strokes on a raster canvas.
	ModeFreeDraw Mode = iota
	// ModeTemplate fills regions of a vector template.
	ModeTemplate
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeFreeDraw:
		return "FreeDraw"
	case ModeTemplate:
		return "Template"
	default:
		return "Unknown"
	}
}

// State is the pointer interaction state.
type State uint8

const (
	// StateIdle means no stroke is in progress.
	StateIdle State = iota
	// StateStroking means a raster stroke is in progress.
	StateStroking
)

// String returns the state name.
func (s State) String() string {
	if s == StateStroking {
		return "Stroking"
	}
	return "Idle"
}

// target is the active surface: exactly one of *rasterTarget or
// *vectorTarget.
type target interface {
	mode() Mode
	isTarget()
}

type rasterTarget struct {
	s *raster.Surface
}

func (*rasterTarget) mode() Mode { return ModeFreeDraw }
func (*rasterTarget) isTarget()  {}

type vectorTarget struct {
	s    *vector.Surface
	tmpl catalog.Template
}

func (*vectorTarget) mode() Mode { return ModeTemplate }
func (*vectorTarget) isTarget()  {}

var errNoSurface = errors.New("engine: no surface")

// Engine is a colouring session.
type Engine struct {
	id   uuid.UUID
	opts options

	target target
	mode   Mode
	state  State

	tool      colorbook.Tool
	color     color.NRGBA
	brushSize int
	viewport  Viewport

	listeners []Listener
}

// New returns an engine in free-draw mode with a blank canvas.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		id:        uuid.New(),
		opts:      o,
		color:     o.color,
		brushSize: o.brushSize,
		viewport:  o.viewport,
		listeners: o.listeners,
	}
	e.setTarget(&rasterTarget{s: raster.New(o.width, o.height, o.background)})
	if o.toolSet {
		e.tool = o.tool
	}
	colorbook.Logger().Debug("engine: new session", "id", e.id.String(), "width", o.width, "height", o.height)
	return e
}

// ID returns the session id.
func (e *Engine) ID() uuid.UUID { return e.id }

// Mode returns the current mode.
func (e *Engine) Mode() Mode { return e.mode }

// State returns the pointer interaction state.
func (e *Engine) State() State { return e.state }

// Tool returns the selected tool.
func (e *Engine) Tool() colorbook.Tool { return e.tool }

// Color returns the selected colour.
func (e *Engine) Color() color.NRGBA { return e.color }

// BrushSize returns the brush size.
func (e *Engine) BrushSize() int { return e.brushSize }

// Viewport returns the current viewport.
func (e *Engine) Viewport() Viewport { return e.viewport }

// Raster returns the free-draw canvas, or false in template mode.
func (e *Engine) Raster() (*raster.Surface, bool) {
	t, ok := e.target.(*rasterTarget)
	if !ok {
		return nil, false
	}
	return t.s, true
}

// Vector returns the template surface, or false in free-draw mode.
func (e *Engine) Vector() (*vector.Surface, bool) {
	t, ok := e.target.(*vectorTarget)
	if !ok {
		return nil, false
	}
	return t.s, true
}

// Template returns the active template, or false in free-draw mode.
func (e *Engine) Template() (catalog.Template, bool) {
	t, ok := e.target.(*vectorTarget)
	if !ok {
		return catalog.Template{}, false
	}
	return t.tmpl, true
}

// setTarget replaces the surface, ends any stroke and selects the mode's
// default tool.
func (e *Engine) setTarget(t target) {
	e.target = t
	e.mode = t.mode()
	e.state = StateIdle
	if e.mode == ModeTemplate {
		e.tool = colorbook.ToolFill
	} else {
		e.tool = colorbook.ToolBrush
	}
}

// EnterFreeDraw discards the current surface and starts a blank canvas.
// A non-positive width or height selects the configured canvas size.
func (e *Engine) EnterFreeDraw(width, height int) {
	if width <= 0 || height <= 0 {
		width, height = e.opts.width, e.opts.height
	}
	e.setTarget(&rasterTarget{s: raster.New(width, height, e.opts.background)})
	colorbook.Logger().Info("engine: free draw", "width", width, "height", height)
	e.emit(Event{Kind: EventModeChange, Tool: e.tool})
}

// SelectTemplate parses t and makes it the active surface, with every
// region in its default colour. On error the current surface is kept.
func (e *Engine) SelectTemplate(t catalog.Template, opts ...vector.ParseOption) error {
	tmpl, err := t.Parse(opts...)
	if err != nil {
		colorbook.Logger().Warn("engine: template rejected", "id", t.ID, "err", err)
		return fmt.Errorf("engine: template %q: %w", t.Name, err)
	}
	e.setTarget(&vectorTarget{s: vector.NewSurface(tmpl), tmpl: t})
	colorbook.Logger().Info("engine: template selected", "id", t.ID, "regions", len(tmpl.Regions))
	e.emit(Event{Kind: EventModeChange, Tool: e.tool})
	return nil
}

// LoadTemplate is SelectTemplate for a document outside any catalog.
func (e *Engine) LoadTemplate(name, document string, opts ...vector.ParseOption) error {
	return e.SelectTemplate(catalog.Template{Name: name, Document: document}, opts...)
}

// SetTool selects a tool. Invalid tools are ignored.
func (e *Engine) SetTool(t colorbook.Tool) {
	if !t.Valid() {
		colorbook.Logger().Debug("engine: invalid tool ignored", "tool", int(t))
		return
	}
	e.tool = t
}

// SetColor selects the paint colour. Alpha is forced to opaque.
func (e *Engine) SetColor(c color.Color) {
	e.color = colorbook.Opaque(c)
}

// SetColorHex selects the paint colour from "#RRGGBB" or "#RGB" text. It
// reports false and keeps the previous colour when s is malformed.
func (e *Engine) SetColorHex(s string) bool {
	c, err := colorbook.ParseHex(s)
	if err != nil {
		colorbook.Logger().Debug("engine: colour ignored", "value", s, "err", err)
		return false
	}
	e.color = c
	return true
}

// SetBrushSize sets the brush size, clamped to the valid range.
func (e *Engine) SetBrushSize(size int) {
	e.brushSize = colorbook.ClampBrushSize(size)
}

// SetViewport sets the on-screen size used to map pointer positions.
func (e *Engine) SetViewport(vp Viewport) {
	e.viewport = vp
}

// ToSurface maps a device point to surface coordinates.
func (e *Engine) ToSurface(x, y float64) gg.Point {
	var m gg.Matrix
	switch t := e.target.(type) {
	case *rasterTarget:
		m = rasterMatrix(e.viewport, t.s.Width(), t.s.Height())
	case *vectorTarget:
		m = vectorMatrix(e.viewport, t.s.Template().ViewBox)
	}
	return m.TransformPoint(gg.Pt(x, y))
}

// PointerDown handles a press at device position (x, y). In free-draw mode
// it starts a stroke, ending one already in progress. In template mode it
// applies the tool to the region under the point.
func (e *Engine) PointerDown(x, y float64) {
	pt := e.ToSurface(x, y)
	switch t := e.target.(type) {
	case *rasterTarget:
		if e.state == StateStroking {
			e.endStroke(t)
		}
		if t.s.BeginStroke(pt, e.tool, e.color, e.brushSize) {
			e.state = StateStroking
		}
	case *vectorTarget:
		i, ok := t.s.ApplyTool(pt, e.tool, e.color)
		if !ok {
			return
		}
		ev := Event{Kind: EventFill, Tool: e.tool, Color: e.color, Point: pt, Region: i}
		if e.tool == colorbook.ToolEraser {
			ev.Kind = EventErase
			ev.Color = t.s.Region(i).Default
		}
		e.emit(ev)
	}
}

// FillRegion sets template region i to the current colour without a
// pointer, as a keyboard or scripted fill does. It reports false in
// free-draw mode and for an index out of range.
func (e *Engine) FillRegion(i int) bool {
	t, ok := e.target.(*vectorTarget)
	if !ok || !t.s.SetColor(i, e.color) {
		return false
	}
	e.emit(Event{Kind: EventFill, Tool: colorbook.ToolFill, Color: e.color, Region: i})
	return true
}

// PointerMove extends the stroke in progress. It does nothing otherwise.
func (e *Engine) PointerMove(x, y float64) {
	t, ok := e.target.(*rasterTarget)
	if !ok || e.state != StateStroking {
		return
	}
	t.s.ExtendStroke(e.ToSurface(x, y), e.tool, e.color, e.brushSize)
}

// PointerUp ends the stroke in progress.
func (e *Engine) PointerUp() {
	if t, ok := e.target.(*rasterTarget); ok && e.state == StateStroking {
		e.endStroke(t)
	}
}

// PointerLeave ends the stroke in progress, as when the pointer leaves the
// viewport.
func (e *Engine) PointerLeave() {
	e.PointerUp()
}

func (e *Engine) endStroke(t *rasterTarget) {
	last, _ := t.s.LastPoint()
	t.s.EndStroke()
	e.state = StateIdle
	e.emit(Event{Kind: EventStroke, Tool: e.tool, Color: e.color, Point: last})
}

// Clear returns the active surface to its initial look: a blank canvas,
// or every template region in its default colour.
func (e *Engine) Clear() {
	switch t := e.target.(type) {
	case *rasterTarget:
		t.s.Reset(t.s.Background())
	case *vectorTarget:
		t.s.Reset()
	}
	e.state = StateIdle
	e.emit(Event{Kind: EventClear})
}

// FileName returns the suggested export file name for the extension.
func (e *Engine) FileName(ext string) string {
	var name string
	if t, ok := e.target.(*vectorTarget); ok {
		name = t.tmpl.Name
	}
	return export.FileName(name, ext)
}

// Rasterize renders the active surface. The session is not modified.
func (e *Engine) Rasterize(opts ...export.Option) (*image.RGBA, error) {
	return e.rasterize(e.exportOptions(opts))
}

func (e *Engine) rasterize(opts []export.Option) (*image.RGBA, error) {
	switch t := e.target.(type) {
	case *rasterTarget:
		return export.RasterizeRaster(t.s, opts...), nil
	case *vectorTarget:
		return export.RasterizeVector(t.s, opts...)
	}
	return nil, errNoSurface
}

// Export renders and encodes the active surface. It returns the encoded
// image and its suggested file name.
func (e *Engine) Export(opts ...export.Option) ([]byte, string, error) {
	opts = e.exportOptions(opts)
	img, err := e.rasterize(opts)
	if err != nil {
		colorbook.Logger().Warn("engine: export failed", "err", err)
		return nil, "", err
	}
	enc, err := export.NewEncoder(formatOf(opts), opts...)
	if err != nil {
		return nil, "", err
	}
	data, err := export.Encode(img, opts...)
	if err != nil {
		colorbook.Logger().Warn("engine: export failed", "err", err)
		return nil, "", err
	}
	name := e.FileName(enc.Extension())
	colorbook.Logger().Info("engine: exported", "file", name, "bytes", len(data))
	e.emit(Event{Kind: EventExport, ExportID: uuid.New(), FileName: name})
	return data, name, nil
}

// ExportAsync renders the active surface now and encodes it on another
// goroutine. The returned request identifies the export; its single
// Result arrives on the channel. Rendering errors are returned directly.
//
// The EventExport emitted here has Pending set: encoding has not finished
// and may still fail, so only the Result confirms a saved file.
func (e *Engine) ExportAsync(ctx context.Context, opts ...export.Option) (*export.Request, <-chan export.Result, error) {
	opts = e.exportOptions(opts)
	img, err := e.rasterize(opts)
	if err != nil {
		colorbook.Logger().Warn("engine: export failed", "err", err)
		return nil, nil, err
	}
	enc, err := export.NewEncoder(formatOf(opts), opts...)
	if err != nil {
		return nil, nil, err
	}
	req := export.NewRequest(img, opts...)
	e.emit(Event{Kind: EventExport, ExportID: req.ID, FileName: e.FileName(enc.Extension()), Pending: true})
	return req, req.Start(ctx), nil
}

func (e *Engine) exportOptions(opts []export.Option) []export.Option {
	if len(e.opts.export) == 0 {
		return opts
	}
	out := make([]export.Option, 0, len(e.opts.export)+len(opts))
	out = append(out, e.opts.export...)
	return append(out, opts...)
}

func formatOf(opts []export.Option) string {
	o := export.Options{Format: export.DefaultFormat}
	for _, opt := range opts {
		opt(&o)
	}
	return o.Format
}
