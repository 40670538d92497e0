// Package drawable holds the render-side transform handle that physics writes into
package drawable

import (
	"github.com/go-gl/mathgl/mgl64"
)

// NoBody marks a drawable without a bound rigidbody
const NoBody int32 = -1

// Default diffuse colours used as damage feedback
var (
	DiffuseDefault = mgl64.Vec3{0.6, 0.6, 0.6}
	DiffuseHit     = mgl64.Vec3{1, 0, 0}
)

// Drawable is the transform and material hint owned by the renderer
// Position is the single source of truth for where a body is
type Drawable struct {
	Name     string
	Position mgl64.Vec3
	Rotation mgl64.Mat4
	Scale    mgl64.Vec3
	Diffuse  mgl64.Vec3

	// Vertices are mesh positions in model space
	Vertices []mgl64.Vec3

	// Body is the id of the rigidbody bound to this drawable, NoBody if none
	Body int32
}

// New creates a drawable at pos with identity rotation and unit scale
func New(name string, pos mgl64.Vec3) *Drawable {
	return &Drawable{
		Name:     name,
		Position: pos,
		Rotation: mgl64.Ident4(),
		Scale:    mgl64.Vec3{1, 1, 1},
		Diffuse:  DiffuseDefault,
		Body:     NoBody,
	}
}

// BoxVertices returns the eight corners of a width x height x depth box centred at the origin
func BoxVertices(width, height, depth float64) []mgl64.Vec3 {
	hx, hy, hz := width/2, height/2, depth/2
	return []mgl64.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {-hx, hy, hz}, {hx, hy, hz},
	}
}

// Bound reports whether a rigidbody has been attached
func (d *Drawable) Bound() bool {
	return d.Body != NoBody
}

// ResetDiffuse restores the default material hint
func (d *Drawable) ResetDiffuse() {
	d.Diffuse = DiffuseDefault
}
