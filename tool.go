package colorbook

import "strings"

// Tool determines how pointer input is interpreted by a surface.
type Tool uint8

const (
	// ToolBrush paints freehand strokes on a raster surface.
	ToolBrush Tool = iota
	// ToolFill sets the colour of a template region.
	ToolFill
	// ToolEraser paints the background colour on a raster surface, or
	// restores a template region to its default colour.
	ToolEraser
)

// String returns the tool name.
func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "Brush"
	case ToolFill:
		return "Fill"
	case ToolEraser:
		return "Eraser"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is one of the defined tools.
func (t Tool) Valid() bool {
	return t <= ToolEraser
}

// ParseTool parses a tool name case-insensitively.
func ParseTool(s string) (Tool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brush":
		return ToolBrush, true
	case "fill":
		return ToolFill, true
	case "eraser":
		return ToolEraser, true
	}
	return ToolBrush, false
}
