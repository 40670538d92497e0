package renderers

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/broadside/game"
	"github.com/lixenwraith/broadside/render"
)

// Hull glyphs
const (
	GlyphPlayer = '@'
	GlyphEnemy  = '#'
	GlyphWreck  = '%'
	GlyphShot   = 'o'
)

// HullRenderer draws ships with a bow marker in their heading
type HullRenderer struct{}

func NewHullRenderer() *HullRenderer {
	return &HullRenderer{}
}

// Render implements render.SystemRenderer
func (r *HullRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	if ctx.Snapshot == nil {
		return
	}
	for _, o := range ctx.Snapshot.Objects {
		if !isHull(o) {
			continue
		}
		x, y, ok := ctx.WorldToScreen(o.Position)
		if !ok {
			continue
		}

		glyph, color := hullGlyph(o)
		buf.SetFg(x, y, glyph, color)
		if o.Sunk {
			continue
		}
		dx, dy, bow := bowMarker(o.Heading)
		buf.SetFg(x+dx, y+dy, bow, color)
	}
}

func isHull(o game.ObjectState) bool {
	return o.Kind == "player" || o.Kind == "enemy"
}

func hullGlyph(o game.ObjectState) (rune, tcell.Color) {
	switch {
	case o.Sunk:
		return GlyphWreck, render.ColorWreck
	case o.Kind == "player":
		return GlyphPlayer, render.ColorPlayer
	default:
		// Hit feedback tints the hull
		if o.Diffuse[1] < 0.5 && o.Diffuse[0] > 0.5 {
			return GlyphEnemy, render.DiffuseColor(o.Diffuse)
		}
		return GlyphEnemy, render.ColorEnemy
	}
}

// bowMarker returns the cell offset and rune for the dominant heading axis
// Screen rows grow with +z
func bowMarker(h mgl64.Vec3) (int, int, rune) {
	if math.Abs(h[0]) >= math.Abs(h[2]) {
		if h[0] >= 0 {
			return 1, 0, '>'
		}
		return -1, 0, '<'
	}
	if h[2] > 0 {
		return 0, 1, 'v'
	}
	return 0, -1, '^'
}

// ProjectileRenderer draws cannonballs in flight
type ProjectileRenderer struct{}

func NewProjectileRenderer() *ProjectileRenderer {
	return &ProjectileRenderer{}
}

// Render implements render.SystemRenderer
func (r *ProjectileRenderer) Render(ctx render.RenderContext, buf *render.RenderBuffer) {
	if ctx.Snapshot == nil {
		return
	}
	for _, o := range ctx.Snapshot.Objects {
		if o.Kind != "cannonball" || !o.Active {
			continue
		}
		if x, y, ok := ctx.WorldToScreen(o.Position); ok {
			buf.SetFg(x, y, GlyphShot, render.ColorShot)
		}
	}
}
