package physics

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/drawable"
	"github.com/lixenwraith/broadside/status"
	"github.com/lixenwraith/broadside/vmath"
)

const (
	// DefaultGravity is the gravity strength of new bodies and the sinking value for ships
	DefaultGravity = 9.81

	// VelocityCap is the per-axis terminal velocity, applied as an upper bound only
	VelocityCap = 30.0
)

var (
	ErrNoDrawable   = errors.New("rigidbody needs a drawable")
	ErrAlreadyBound = errors.New("drawable already has a rigidbody")
	ErrUnplaced     = errors.New("drawable position is not finite")
)

// World owns the rigidbody registry of one scene
// Step is the only mutator of kinematic state and is never called re-entrantly
type World struct {
	bodies      []*Rigidbody
	velocityCap mgl64.Vec3
	contacts    int

	statBodies   *atomic.Int64
	statContacts *atomic.Int64
	statSteps    *atomic.Int64
}

// NewWorld creates an empty simulation
func NewWorld() *World {
	return &World{
		bodies:      make([]*Rigidbody, 0, 32),
		velocityCap: vmath.Splat(VelocityCap),
	}
}

// AttachStatus caches metric pointers for step bookkeeping
func (w *World) AttachStatus(reg *status.Registry) {
	w.statBodies = reg.Ints.Get("physics.bodies")
	w.statContacts = reg.Ints.Get("physics.contacts")
	w.statSteps = reg.Ints.Get("physics.steps")
	w.statBodies.Store(int64(len(w.bodies)))
}

// SetVelocityCap overrides the per-axis terminal velocity
func (w *World) SetVelocityCap(limit mgl64.Vec3) {
	w.velocityCap = limit
}

// CreateRigidbody registers a body whose position aliases d and binds d to it
func (w *World) CreateRigidbody(d *drawable.Drawable, owner core.Handle, c Collider, onIntersection IntersectionFunc) (*Rigidbody, error) {
	if d == nil {
		return nil, ErrNoDrawable
	}
	if d.Bound() {
		return nil, errors.Wrapf(ErrAlreadyBound, "drawable %q", d.Name)
	}
	if !vmath.IsFinite3(d.Position) {
		return nil, errors.Wrapf(ErrUnplaced, "drawable %q", d.Name)
	}
	if err := c.validate(); err != nil {
		return nil, errors.Wrapf(err, "drawable %q", d.Name)
	}

	rb := &Rigidbody{
		ID:               BodyID(len(w.bodies)),
		Owner:            owner,
		Drawable:         d,
		GravityDirection: vmath.Down,
		GravityStrength:  DefaultGravity,
		Collider:         c,
		OnIntersection:   onIntersection,
	}
	if c.Kind == KindBox {
		rb.boxMinOffset = c.Box.Min.Sub(d.Position)
		rb.boxMaxOffset = c.Box.Max.Sub(d.Position)
	}
	rb.syncCollider()

	d.Body = int32(rb.ID)
	w.bodies = append(w.bodies, rb)
	if w.statBodies != nil {
		w.statBodies.Store(int64(len(w.bodies)))
	}
	return rb, nil
}

// Body returns the body registered under id
func (w *World) Body(id BodyID) (*Rigidbody, bool) {
	if id < 0 || int(id) >= len(w.bodies) {
		return nil, false
	}
	return w.bodies[id], true
}

// Bodies returns the registry in registration order, callers must not modify it
func (w *World) Bodies() []*Rigidbody {
	return w.bodies
}

// Len returns the number of registered bodies
func (w *World) Len() int {
	return len(w.bodies)
}

// Contacts returns the number of overlapping pairs found by the last Step
func (w *World) Contacts() int {
	return w.contacts
}

// SetPosition teleports a body, its drawable and its collider
func (w *World) SetPosition(rb *Rigidbody, pos mgl64.Vec3) {
	rb.Drawable.Position = pos
	rb.syncCollider()
}

// Park moves a body to the +Inf sentinel so it can no longer meaningfully collide
func (w *World) Park(rb *Rigidbody) {
	w.SetPosition(rb, vmath.Inf3())
}

// Reset unbinds every drawable and empties the registry
func (w *World) Reset() {
	for _, rb := range w.bodies {
		rb.Drawable.Body = drawable.NoBody
	}
	w.bodies = w.bodies[:0]
	w.contacts = 0
	if w.statBodies != nil {
		w.statBodies.Store(0)
	}
}

// Step advances every body by dtMs milliseconds then runs the all-pairs sweep
// The sweep is O(n^2) with no partitioning, sized for a few dozen bodies
func (w *World) Step(dtMs float64) {
	if dtMs <= 0 || len(w.bodies) == 0 {
		return
	}
	dt := dtMs / 1000

	for _, rb := range w.bodies {
		w.integrate(rb, dt)
	}

	w.contacts = 0
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if !Intersects(a.Collider, b.Collider) {
				continue
			}
			w.contacts++
			if a.OnIntersection != nil {
				a.OnIntersection(a, b)
			}
			if b.OnIntersection != nil {
				b.OnIntersection(b, a)
			}
		}
	}

	if w.statSteps != nil {
		w.statSteps.Add(1)
		w.statContacts.Store(int64(w.contacts))
	}
}

func (w *World) integrate(rb *Rigidbody, dt float64) {
	accel := rb.GravityDirection.Mul(rb.GravityStrength * dt)
	rb.Velocity = rb.Velocity.Add(accel).Sub(rb.Drag.Mul(dt))
	rb.Velocity = vmath.MinPerAxis(rb.Velocity, w.velocityCap)

	rb.Drawable.Position = rb.Drawable.Position.Add(rb.Velocity.Mul(dt))
	rb.syncCollider()
}
