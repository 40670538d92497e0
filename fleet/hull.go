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

// Vessel is the view of a ship that cannonballs and other ships act on
type Vessel interface {
	game.GameObject
	Team() Team
	Health() int
	Afloat() bool
	TakeDamage(n int) int
	Scuttle() bool
	Drawable() *drawable.Drawable
}

// HullConfig describes a ship at scene build
type HullConfig struct {
	Name     string
	Position mgl64.Vec3

	// Vertices take precedence over Size when both are set
	Vertices []mgl64.Vec3
	Size     mgl64.Vec3

	Health int

	PatrolSpeed    float64
	PatrolInterval time.Duration
	// PatrolReversed starts the patrol heading +x instead of the hull's forward
	PatrolReversed bool
}

// Patrol flips horizontal heading every Interval of game time
type Patrol struct {
	Speed    float64
	Interval time.Duration

	dir      float64
	lastFlip time.Duration
}

// Direction returns +1 while heading forward (-x), -1 while heading +x
func (p *Patrol) Direction() float64 {
	return p.dir
}

// advance flips the direction when the interval has elapsed, reports whether it did
func (p *Patrol) advance(now time.Duration) bool {
	if p.Interval <= 0 || now-p.lastFlip < p.Interval {
		return false
	}
	p.dir = -p.dir
	p.lastFlip = now
	return true
}

// Hull is the state shared by player and enemy ships
type Hull struct {
	name     string
	kind     string
	handle   core.Handle
	team     Team
	roster   *Roster
	body     *physics.Rigidbody
	drawable *drawable.Drawable

	active bool
	health int
	sunk   bool

	patrol Patrol
}

func newHull(w *physics.World, h core.Handle, dispatch physics.IntersectionFunc, roster *Roster, kind string, cfg HullConfig) (Hull, error) {
	team, ok := roster.Resolve(cfg.Name)
	if !ok {
		return Hull{}, errors.Errorf("ship %q missing from roster", cfg.Name)
	}

	d := drawable.New(cfg.Name, cfg.Position)
	d.Vertices = cfg.Vertices
	if len(d.Vertices) == 0 {
		d.Vertices = drawable.BoxVertices(cfg.Size[0], cfg.Size[1], cfg.Size[2])
	}

	collider, err := physics.BoundingBoxFromVertices(d)
	if err != nil {
		return Hull{}, errors.Wrapf(err, "ship %q", cfg.Name)
	}
	body, err := w.CreateRigidbody(d, h, collider, dispatch)
	if err != nil {
		return Hull{}, errors.Wrapf(err, "ship %q", cfg.Name)
	}
	// Ships float until sunk
	body.GravityStrength = 0

	interval := cfg.PatrolInterval
	if interval == 0 {
		interval = PatrolInterval
	}
	dir := 1.0
	if cfg.PatrolReversed {
		dir = -1
	}

	hull := Hull{
		name:     cfg.Name,
		kind:     kind,
		handle:   h,
		team:     team,
		roster:   roster,
		body:     body,
		drawable: d,
		health:   cfg.Health,
		patrol:   Patrol{Speed: cfg.PatrolSpeed, Interval: interval, dir: dir},
	}
	hull.face(dir)
	return hull, nil
}

func (h *Hull) Name() string                 { return h.name }
func (h *Hull) ActivateOnStart() bool        { return true }
func (h *Hull) IsActive() bool               { return h.active }
func (h *Hull) Team() Team                   { return h.team }
func (h *Hull) Health() int                  { return h.health }
func (h *Hull) Afloat() bool                 { return h.health > 0 }
func (h *Hull) Sunk() bool                   { return h.sunk }
func (h *Hull) Handle() core.Handle          { return h.handle }
func (h *Hull) Body() *physics.Rigidbody     { return h.body }
func (h *Hull) Drawable() *drawable.Drawable { return h.drawable }
func (h *Hull) Patrol() *Patrol              { return &h.patrol }

// Activate clears run state, position is left alone
func (h *Hull) Activate(*game.Context) {
	h.active = true
	h.body.Velocity = mgl64.Vec3{}
	h.drawable.ResetDiffuse()
}

// Deactivate parks the hull out of reach
func (h *Hull) Deactivate(ctx *game.Context) {
	h.active = false
	ctx.Physics.Park(h.body)
}

// TakeDamage subtracts n from health and returns what is left
func (h *Hull) TakeDamage(n int) int {
	h.health -= n
	return h.health
}

// Scuttle drops health to zero, false when the ship was already done for
func (h *Hull) Scuttle() bool {
	if h.health <= 0 {
		return false
	}
	h.health = 0
	return true
}

func (h *Hull) OnStart(ctx *game.Context) {
	h.patrol.lastFlip = ctx.GameTime
}

func (h *Hull) OnEarlyUpdate(*game.Context, time.Duration) {}

// OnIntersection handles ship-on-ship contact: both hulls are scuttled
// Whichever callback of the pair scuttles first publishes the ram, so one event
// fires even when one of the ships was already at zero health
func (h *Hull) OnIntersection(ctx *game.Context, _, other *physics.Rigidbody) {
	obj, ok := ctx.Scene.Get(other.Owner)
	if !ok {
		return
	}
	rammed, ok := obj.(Vessel)
	if !ok {
		return
	}

	h.drawable.Diffuse = drawable.DiffuseHit
	self := h.Scuttle()
	theirs := rammed.Scuttle()
	if self || theirs {
		ctx.Emit(event.GameEvent{
			Type:     event.EventShipsRammed,
			Subject:  h.name,
			Target:   rammed.Name(),
			Position: h.drawable.Position,
		})
	}
}

// updateSink restores gravity once health is gone, reports whether the ship is sunk
func (h *Hull) updateSink(ctx *game.Context) bool {
	if h.sunk {
		return true
	}
	if h.health > 0 {
		return false
	}

	h.sunk = true
	h.body.GravityStrength = SinkGravity
	h.body.Velocity[0] = 0
	h.body.Velocity[2] = 0
	ctx.Emit(event.GameEvent{
		Type:     event.EventShipSunk,
		Subject:  h.name,
		Value:    h.health,
		Position: h.drawable.Position,
	})
	return true
}

// steerPatrol drives the hull along x using the patrol timer
func (h *Hull) steerPatrol(ctx *game.Context) {
	if h.patrol.Speed <= 0 {
		return
	}
	if h.patrol.advance(ctx.GameTime) {
		h.face(h.patrol.dir)
	}
	h.body.Velocity[0] = -h.patrol.dir * h.patrol.Speed
}

// face turns the drawable to match a patrol direction
func (h *Hull) face(dir float64) {
	if dir >= 0 {
		h.drawable.Rotation = vmath.YawMatrix(0)
	} else {
		h.drawable.Rotation = vmath.YawMatrix(180)
	}
}

// fire launches one cannonball from pool along dir, false when no shot was made
func (h *Hull) fire(ctx *game.Context, pool *game.Pool[*Cannonball], dir mgl64.Vec3, cannon CannonConfig) bool {
	if pool == nil {
		return false
	}
	ball, ok := pool.Get(ctx)
	if !ok {
		return false
	}

	start := h.drawable.Position.Add(mgl64.Vec3{0, cannon.MuzzleHeight, 0})
	aim := dir.Add(mgl64.Vec3{0, cannon.Lift, 0})
	if err := ball.Fire(ctx, start, aim, cannon.Speed, h.team); err != nil {
		ball.Deactivate(ctx)
		return false
	}

	ctx.Emit(event.GameEvent{
		Type:     event.EventCannonFired,
		Subject:  h.name,
		Position: start,
	})
	return true
}

// Report builds the snapshot view of the hull
func (h *Hull) Report() game.ObjectState {
	return game.ObjectState{
		Name:     h.name,
		Kind:     h.kind,
		Team:     h.roster.Name(h.team),
		Position: h.drawable.Position,
		Heading:  vmath.Facing(h.drawable.Rotation),
		Diffuse:  h.drawable.Diffuse,
		Health:   h.health,
		Active:   h.active,
		Sunk:     h.sunk,
	}
}
