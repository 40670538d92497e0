package renderers

import (
	"github.com/lixenwraith/broadside/render"
)

// swellPeriod is the column spacing of the swell pattern
const swellPeriod = 7

// SeaRenderer fills the chart with water and a slow moving swell
type SeaRenderer struct{}

func NewSeaRenderer() *SeaRenderer {
	return &SeaRenderer{}
}

// Render implements render.SystemRenderer
func (r *SeaRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	var drift int
	if ctx.Snapshot != nil {
		drift = int(ctx.Snapshot.Tick / 16)
	}
	for y := 0; y < ctx.ChartHeight(); y++ {
		for x := 0; x < ctx.ScreenWidth; x++ {
			ch := ' '
			if (x+2*y+drift)%swellPeriod == 0 {
				ch = '~'
			}
			buf.Set(x, y, ch, render.StyleSea)
		}
	}
}
