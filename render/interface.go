// Package render draws published snapshots onto a tcell screen as a top-down chart
package render

// SystemRenderer is implemented by layers with visual output
type SystemRenderer interface {
	Render(ctx RenderContext, buf *RenderBuffer)
}

// VisibilityToggle is optionally implemented for runtime enable/disable
type VisibilityToggle interface {
	IsVisible() bool
}
