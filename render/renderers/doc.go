// Package renderers holds the chart layers registered with the render orchestrator
package renderers

import (
	"github.com/lixenwraith/broadside/render"
)

// RegisterDefaults installs the chart layers and returns the label layer for toggling
func RegisterDefaults(o *render.RenderOrchestrator) *LabelRenderer {
	labels := NewLabelRenderer()
	o.Register(NewSeaRenderer(), render.PrioritySea)
	o.Register(NewHullRenderer(), render.PriorityHulls)
	o.Register(NewProjectileRenderer(), render.PriorityProjectiles)
	o.Register(NewHUDRenderer(), render.PriorityUI)
	o.Register(labels, render.PriorityOverlay)
	return labels
}
