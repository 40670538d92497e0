package renderers

import (
	"fmt"

	"github.com/lixenwraith/broadside/render"
)

// HUDRenderer draws the status line below the chart
type HUDRenderer struct{}

func NewHUDRenderer() *HUDRenderer {
	return &HUDRenderer{}
}

// Render implements render.SystemRenderer
func (r *HUDRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	y := ctx.ScreenHeight - render.HUDRows
	if y < 0 {
		return
	}
	for x := 0; x < ctx.ScreenWidth; x++ {
		buf.Set(x, y, ' ', render.StyleHUD)
	}
	if ctx.Snapshot == nil {
		buf.Text(1, y, "waiting for first tick", render.StyleHUD)
		return
	}

	snap := ctx.Snapshot
	x := buf.Text(1, y, fmt.Sprintf("tick %d  %.1fs", snap.Tick, snap.GameTime.Seconds()), render.StyleHUD)

	for _, o := range snap.Objects {
		if !isHull(o) {
			continue
		}
		x = buf.Text(x, y, "  ", render.StyleHUD)
		if o.Sunk {
			x = buf.Text(x, y, o.Name+" sunk", render.StyleHUDAlert)
			continue
		}
		x = buf.Text(x, y, fmt.Sprintf("%s %d", o.Name, o.Health), render.StyleHUD)
	}

	if snap.Paused {
		x = buf.Text(x, y, "  PAUSED", render.StyleHUDAlert)
	}
	if ctx.Muted {
		buf.Text(x, y, "  muted", render.StyleHUD)
	}
}
