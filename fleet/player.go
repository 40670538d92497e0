package fleet

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/game"
	"github.com/lixenwraith/broadside/input"
	"github.com/lixenwraith/broadside/physics"
	"github.com/lixenwraith/broadside/vmath"
)

// PlayerConfig adds helm and gun settings to a hull
type PlayerConfig struct {
	HullConfig
	MoveSpeed float64
	Cannon    CannonConfig
}

// PlayerShip is steered and fired from the keyboard
type PlayerShip struct {
	Hull

	ammo      *game.Pool[*Cannonball]
	cannon    CannonConfig
	moveSpeed float64
}

// NewPlayerShip builds and registers the hull body
func NewPlayerShip(w *physics.World, h core.Handle, dispatch physics.IntersectionFunc, roster *Roster, cfg PlayerConfig) (*PlayerShip, error) {
	if cfg.Health == 0 {
		cfg.Health = DefaultPlayerHealth
	}
	if cfg.MoveSpeed == 0 {
		cfg.MoveSpeed = DefaultMoveSpeed
	}
	hull, err := newHull(w, h, dispatch, roster, "player", cfg.HullConfig)
	if err != nil {
		return nil, err
	}
	return &PlayerShip{
		Hull:      hull,
		cannon:    cfg.Cannon,
		moveSpeed: cfg.MoveSpeed,
	}, nil
}

// Arm gives the ship a cannonball pool
func (p *PlayerShip) Arm(pool *game.Pool[*Cannonball]) {
	p.ammo = pool
}

func (p *PlayerShip) OnUpdate(ctx *game.Context, _ time.Duration) {
	if p.updateSink(ctx) {
		return
	}
	keys := ctx.Keys()

	if helm, ok := vmath.NormalizeOrZero(helmInput(keys)); ok {
		p.body.Velocity[0] = helm[0] * p.moveSpeed
		p.body.Velocity[2] = helm[2] * p.moveSpeed
		p.drawable.Rotation = vmath.YawMatrix(vmath.YawTowards(helm))
	} else if p.patrol.Speed > 0 {
		p.steerPatrol(ctx)
	} else {
		p.body.Velocity[0] = 0
		p.body.Velocity[2] = 0
	}

	if keys.WasPressed(input.KeyFire) || keys.WasPressed(input.KeyFireAlt) {
		p.Fire(ctx)
	}
}

// Fire shoots along the current heading, an empty pool is a silent no-op
func (p *PlayerShip) Fire(ctx *game.Context) bool {
	return p.fire(ctx, p.ammo, vmath.Facing(p.drawable.Rotation), p.cannon)
}

// helmInput sums the held movement keys into an xz direction
func helmInput(keys input.Reader) mgl64.Vec3 {
	var v mgl64.Vec3
	if keys.IsDown(input.KeyPort) || keys.IsDown(input.KeyLeft) {
		v[0]--
	}
	if keys.IsDown(input.KeyStarboard) || keys.IsDown(input.KeyRight) {
		v[0]++
	}
	if keys.IsDown(input.KeyForward) || keys.IsDown(input.KeyUp) {
		v[2]--
	}
	if keys.IsDown(input.KeyBack) || keys.IsDown(input.KeyDown) {
		v[2]++
	}
	return v
}
