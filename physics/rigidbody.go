package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/drawable"
	"github.com/lixenwraith/broadside/vmath"
)

// BodyID indexes a rigidbody in its World, ids follow registration order
type BodyID int32

// IntersectionFunc receives the body being notified first and the body it overlaps second
type IntersectionFunc func(self, other *Rigidbody)

// Rigidbody binds a drawable, a collider and kinematic state
// Position lives in the drawable, physics writes it back every step
type Rigidbody struct {
	ID       BodyID
	Owner    core.Handle
	Drawable *drawable.Drawable

	Velocity         mgl64.Vec3
	Drag             mgl64.Vec3
	GravityDirection mgl64.Vec3
	GravityStrength  float64

	Collider       Collider
	OnIntersection IntersectionFunc

	// Box corners relative to the position, kept so a parked body restores exactly
	boxMinOffset mgl64.Vec3
	boxMaxOffset mgl64.Vec3
}

// Position returns the drawable position
func (rb *Rigidbody) Position() mgl64.Vec3 {
	return rb.Drawable.Position
}

// Parked reports whether the body sits at the non-finite sentinel position
func (rb *Rigidbody) Parked() bool {
	return !vmath.IsFinite3(rb.Drawable.Position)
}

// syncCollider moves the collider to follow the drawable position
func (rb *Rigidbody) syncCollider() {
	pos := rb.Drawable.Position
	switch rb.Collider.Kind {
	case KindSphere:
		rb.Collider.Sphere.Center = pos
	case KindBox:
		rb.Collider.Box.Min = pos.Add(rb.boxMinOffset)
		rb.Collider.Box.Max = pos.Add(rb.boxMaxOffset)
	}
}
