package fleet

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/drawable"
	"github.com/lixenwraith/broadside/event"
	"github.com/lixenwraith/broadside/game"
	"github.com/lixenwraith/broadside/physics"
	"github.com/lixenwraith/broadside/vmath"
)

var ErrZeroDirection = errors.New("cannonball fired with zero direction")

// CannonballConfig describes one pooled projectile
type CannonballConfig struct {
	Name    string
	Radius  float64
	Gravity float64
	Damage  int
	// Floor of zero selects DefaultWorldFloor
	Floor float64
}

// Cannonball is a pooled projectile, inactive until fired
type Cannonball struct {
	name     string
	handle   core.Handle
	roster   *Roster
	body     *physics.Rigidbody
	drawable *drawable.Drawable

	active bool
	damage int
	floor  float64

	shooter      Team
	colliding    bool
	collidedShip core.Handle
	// ships already damaged during the current flight
	struck []core.Handle
}

// NewCannonball builds the sphere body at the origin, callers add it to a pool which parks it
func NewCannonball(w *physics.World, h core.Handle, dispatch physics.IntersectionFunc, roster *Roster, cfg CannonballConfig) (*Cannonball, error) {
	if cfg.Radius == 0 {
		cfg.Radius = DefaultCannonballRadius
	}
	if cfg.Damage == 0 {
		cfg.Damage = DefaultDamage
	}
	if cfg.Floor == 0 {
		cfg.Floor = DefaultWorldFloor
	}

	d := drawable.New(cfg.Name, mgl64.Vec3{})
	collider, err := physics.NewSphere(d.Position, cfg.Radius)
	if err != nil {
		return nil, errors.Wrapf(err, "cannonball %q", cfg.Name)
	}
	body, err := w.CreateRigidbody(d, h, collider, dispatch)
	if err != nil {
		return nil, errors.Wrapf(err, "cannonball %q", cfg.Name)
	}
	body.GravityStrength = cfg.Gravity

	return &Cannonball{
		name:         cfg.Name,
		handle:       h,
		roster:       roster,
		body:         body,
		drawable:     d,
		damage:       cfg.Damage,
		floor:        cfg.Floor,
		collidedShip: core.NoHandle,
		struck:       make([]core.Handle, 0, 4),
	}, nil
}

func (c *Cannonball) Name() string                 { return c.name }
func (c *Cannonball) ActivateOnStart() bool        { return false }
func (c *Cannonball) IsActive() bool               { return c.active }
func (c *Cannonball) Body() *physics.Rigidbody     { return c.body }
func (c *Cannonball) Drawable() *drawable.Drawable { return c.drawable }
func (c *Cannonball) Shooter() Team                { return c.shooter }
func (c *Cannonball) Colliding() bool              { return c.colliding }

// CollidedShip returns the handle of the last ship struck, NoHandle if none
func (c *Cannonball) CollidedShip() core.Handle {
	return c.collidedShip
}

// Activate clears flight state, the ball stays parked until Fire
func (c *Cannonball) Activate(*game.Context) {
	c.active = true
	c.body.Velocity = mgl64.Vec3{}
	c.drawable.ResetDiffuse()
	c.shooter = NoTeam
	c.colliding = false
	c.collidedShip = core.NoHandle
	c.struck = c.struck[:0]
}

// Deactivate parks the ball at infinity so its pool can reclaim it
func (c *Cannonball) Deactivate(ctx *game.Context) {
	c.active = false
	ctx.Physics.Park(c.body)
}

// Fire places the ball at start and launches it along direction
func (c *Cannonball) Fire(ctx *game.Context, start, direction mgl64.Vec3, speed float64, shooter Team) error {
	dir, ok := vmath.NormalizeOrZero(direction)
	if !ok {
		return ErrZeroDirection
	}

	ctx.Physics.SetPosition(c.body, start)
	c.body.Velocity = dir.Mul(speed)
	c.drawable.Rotation = vmath.YawMatrix(vmath.YawTowards(dir))
	c.shooter = shooter
	c.colliding = false
	c.collidedShip = core.NoHandle
	c.struck = c.struck[:0]
	return nil
}

func (c *Cannonball) OnStart(*game.Context) {}

func (c *Cannonball) OnEarlyUpdate(*game.Context, time.Duration) {
	c.colliding = false
}

// OnUpdate returns the ball to its pool once it drops below the world floor
func (c *Cannonball) OnUpdate(ctx *game.Context, _ time.Duration) {
	if c.active && c.drawable.Position[1] < c.floor {
		c.Deactivate(ctx)
	}
}

func (c *Cannonball) OnIntersection(ctx *game.Context, _, other *physics.Rigidbody) {
	if !c.active || other.Collider.Kind == physics.KindSphere {
		return
	}
	obj, ok := ctx.Scene.Get(other.Owner)
	if !ok {
		return
	}
	ship, ok := obj.(Vessel)
	if !ok || ship.Team() == c.shooter {
		return
	}

	c.colliding = true
	c.collidedShip = other.Owner
	c.drawable.Diffuse = drawable.DiffuseHit
	ship.Drawable().Diffuse = drawable.DiffuseHit

	if !ship.Afloat() || c.hasStruck(other.Owner) {
		return
	}
	c.struck = append(c.struck, other.Owner)
	left := ship.TakeDamage(c.damage)

	ctx.Emit(event.GameEvent{
		Type:     event.EventShipHit,
		Subject:  c.roster.Name(c.shooter),
		Target:   ship.Name(),
		Value:    left,
		Position: c.drawable.Position,
	})
}

func (c *Cannonball) hasStruck(h core.Handle) bool {
	for _, s := range c.struck {
		if s == h {
			return true
		}
	}
	return false
}

// Report builds the snapshot view of the ball
func (c *Cannonball) Report() game.ObjectState {
	return game.ObjectState{
		Name:     c.name,
		Kind:     "cannonball",
		Team:     c.roster.Name(c.shooter),
		Position: c.drawable.Position,
		Heading:  vmath.Facing(c.drawable.Rotation),
		Diffuse:  c.drawable.Diffuse,
		Active:   c.active,
	}
}
