package renderers

import (
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/broadside/render"
)

// LabelRenderer writes ship names and health under each hull
// Toggled from the input goroutine, read by the render goroutine
type LabelRenderer struct {
	visible atomic.Bool
}

func NewLabelRenderer() *LabelRenderer {
	r := &LabelRenderer{}
	r.visible.Store(true)
	return r
}

// IsVisible implements render.VisibilityToggle
func (r *LabelRenderer) IsVisible() bool {
	return r.visible.Load()
}

// Toggle flips visibility and returns the new state
func (r *LabelRenderer) Toggle() bool {
	for {
		old := r.visible.Load()
		if r.visible.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Render implements render.SystemRenderer
func (r *LabelRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	if ctx.Snapshot == nil {
		return
	}
	for _, o := range ctx.Snapshot.Objects {
		if !isHull(o) {
			continue
		}
		x, y, ok := ctx.WorldToScreen(o.Position)
		if !ok || y+1 >= ctx.ChartHeight() {
			continue
		}
		label := fmt.Sprintf("%s %d", o.Name, o.Health)
		for i, ch := range []rune(label) {
			buf.SetFg(x-len(label)/2+i, y+1, ch, render.ColorLabel)
		}
	}
}
