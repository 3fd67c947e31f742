package engine

import (
	"image/color"

	"github.com/gogpu/gg"
	"github.com/google/uuid"

	"github.com/gogpu/colorbook"
)

// EventKind identifies what happened.
type EventKind uint8

const (
	// EventStroke is emitted when a raster stroke ends.
	EventStroke EventKind = iota
	// EventFill is emitted when a template region is filled.
	EventFill
	// EventErase is emitted when a template region is restored.
	EventErase
	// EventClear is emitted when the active surface is cleared.
	EventClear
	// EventExport is emitted when the drawing has been rasterized for
	// export. For ExportAsync it is emitted before encoding finishes, with
	// Pending set; the outcome arrives as the request's export.Result.
	EventExport
	// EventModeChange is emitted when a new surface replaces the old one.
	EventModeChange
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventStroke:
		return "Stroke"
	case EventFill:
		return "Fill"
	case EventErase:
		return "Erase"
	case EventClear:
		return "Clear"
	case EventExport:
		return "Export"
	case EventModeChange:
		return "ModeChange"
	default:
		return "Unknown"
	}
}

// Event describes a completed action. Fields that do not apply to the
// kind are zero.
type Event struct {
	Kind    EventKind
	Session uuid.UUID
	Mode    Mode
	Tool    colorbook.Tool
	Color   color.NRGBA

	// Point is the action position in surface coordinates: the stroke end
	// or the fill point.
	Point gg.Point

	// Region is the affected template region, or -1.
	Region int

	// Template is the catalog id of the active template, if any.
	Template string

	// ExportID and FileName describe an export. Pending is set when the
	// encoded file is still being produced and may yet fail.
	ExportID uuid.UUID
	FileName string
	Pending  bool
}

// Listener receives engine events. It is called synchronously, in order,
// on the goroutine that caused the event.
type Listener func(Event)

// AddListener registers a listener.
func (e *Engine) AddListener(l Listener) {
	if l != nil {
		e.listeners = append(e.listeners, l)
	}
}

func (e *Engine) emit(ev Event) {
	ev.Session = e.id
	ev.Mode = e.mode
	if ev.Kind != EventFill && ev.Kind != EventErase {
		ev.Region = -1
	}
	if t, ok := e.target.(*vectorTarget); ok {
		ev.Template = t.tmpl.ID
	}
	colorbook.Logger().Debug("engine: event", "kind", ev.Kind.String(), "mode", ev.Mode.String())
	for _, l := range e.listeners {
		l(ev)
	}
}
