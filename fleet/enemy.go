package fleet

import (
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/game"
	"github.com/lixenwraith/broadside/physics"
	"github.com/lixenwraith/broadside/vmath"
)

// EnemyConfig adds gunnery to a hull
type EnemyConfig struct {
	HullConfig
	Target       string
	Cannon       CannonConfig
	FireInterval time.Duration
}

// EnemyShip patrols along x and shells its target on a timer
type EnemyShip struct {
	Hull

	ammo         *game.Pool[*Cannonball]
	cannon       CannonConfig
	fireInterval time.Duration
	targetName   string
	target       Vessel
	lastShot     time.Duration
}

// NewEnemyShip builds and registers the hull body
func NewEnemyShip(w *physics.World, h core.Handle, dispatch physics.IntersectionFunc, roster *Roster, cfg EnemyConfig) (*EnemyShip, error) {
	if cfg.Health == 0 {
		cfg.Health = DefaultEnemyHealth
	}
	hull, err := newHull(w, h, dispatch, roster, "enemy", cfg.HullConfig)
	if err != nil {
		return nil, err
	}
	return &EnemyShip{
		Hull:         hull,
		cannon:       cfg.Cannon,
		fireInterval: cfg.FireInterval,
		targetName:   cfg.Target,
	}, nil
}

// Arm gives the ship a cannonball pool
func (e *EnemyShip) Arm(pool *game.Pool[*Cannonball]) {
	e.ammo = pool
}

// Target returns the resolved target, nil before OnStart or when the name was not found
func (e *EnemyShip) Target() Vessel {
	return e.target
}

func (e *EnemyShip) OnStart(ctx *game.Context) {
	e.Hull.OnStart(ctx)
	e.lastShot = ctx.GameTime
	if e.targetName == "" {
		return
	}

	obj, ok := ctx.Scene.FindByName(e.targetName)
	if !ok {
		log.Printf("[fleet] %s: target %q not in scene", e.name, e.targetName)
		return
	}
	v, ok := obj.(Vessel)
	if !ok {
		log.Printf("[fleet] %s: target %q is not a ship", e.name, e.targetName)
		return
	}
	e.target = v
}

func (e *EnemyShip) OnUpdate(ctx *game.Context, _ time.Duration) {
	if e.updateSink(ctx) {
		return
	}
	e.steerPatrol(ctx)
	e.gunnery(ctx)
}

func (e *EnemyShip) gunnery(ctx *game.Context) {
	if e.target == nil || e.ammo == nil || e.fireInterval <= 0 || !e.target.Afloat() {
		return
	}
	if ctx.GameTime-e.lastShot < e.fireInterval {
		return
	}

	delta := e.target.Drawable().Position.Sub(e.drawable.Position)
	dir, ok := vmath.NormalizeOrZero(mgl64.Vec3{delta[0], 0, delta[2]})
	if !ok {
		return
	}
	if e.fire(ctx, e.ammo, dir, e.cannon) {
		e.lastShot = ctx.GameTime
	}
}
