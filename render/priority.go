package render

// RenderPriority determines render order, lower values render first
type RenderPriority int

const (
	PrioritySea RenderPriority = iota
	PriorityWake
	PriorityHulls
	PriorityProjectiles
	PriorityUI
	PriorityOverlay
)
