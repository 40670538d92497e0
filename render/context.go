package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/broadside/engine"
)

// HUDRows is the number of screen rows reserved below the chart
const HUDRows = 1

// DefaultScale is chart rows per world unit
const DefaultScale = 0.5

// RenderContext provides frame state for renderers, passed by value
type RenderContext struct {
	Snapshot *engine.Snapshot

	// Screen dimensions (terminal size)
	ScreenWidth  int
	ScreenHeight int

	// Scale is rows per world unit, columns use twice that to square up terminal cells
	Scale float64

	// Camera centre on the water plane
	CenterX float64
	CenterZ float64

	Muted bool
}

// NewRenderContext creates a context centred on the player ship, or the origin without one
func NewRenderContext(snap *engine.Snapshot, width, height int, scale float64) RenderContext {
	if scale <= 0 {
		scale = DefaultScale
	}
	ctx := RenderContext{
		Snapshot:     snap,
		ScreenWidth:  width,
		ScreenHeight: height,
		Scale:        scale,
	}
	if snap != nil {
		for _, o := range snap.Objects {
			if o.Kind == "player" && finite(o.Position) {
				ctx.CenterX, ctx.CenterZ = o.Position[0], o.Position[2]
				break
			}
		}
	}
	return ctx
}

// ChartHeight returns the rows available to the chart above the HUD
func (rc *RenderContext) ChartHeight() int {
	if rc.ScreenHeight <= HUDRows {
		return 0
	}
	return rc.ScreenHeight - HUDRows
}

// WorldToScreen projects a world position onto the x/z chart
// Returns visible=false for positions off screen or parked at infinity
func (rc *RenderContext) WorldToScreen(p mgl64.Vec3) (int, int, bool) {
	if !finite(p) {
		return 0, 0, false
	}
	sx := int(math.Floor((p[0]-rc.CenterX)*rc.Scale*2)) + rc.ScreenWidth/2
	sy := int(math.Floor((p[2]-rc.CenterZ)*rc.Scale)) + rc.ChartHeight()/2
	visible := sx >= 0 && sx < rc.ScreenWidth && sy >= 0 && sy < rc.ChartHeight()
	return sx, sy, visible
}

func finite(p mgl64.Vec3) bool {
	for _, v := range p {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
