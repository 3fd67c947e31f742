package colorbook

// Brush size limits in pixels.
const (
	MinBrushSize     = 1
	MaxBrushSize     = 50
	DefaultBrushSize = 5
)

// ClampBrushSize restricts a brush size to [MinBrushSize, MaxBrushSize].
func ClampBrushSize(size int) int {
	if size < MinBrushSize {
		return MinBrushSize
	}
	if size > MaxBrushSize {
		return MaxBrushSize
	}
	return size
}
