package fleet

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/event"
	"github.com/lixenwraith/broadside/game"
	"github.com/lixenwraith/broadside/input"
	"github.com/lixenwraith/broadside/physics"
)

const tick = 16 * time.Millisecond

// rig is a minimal scene driven tick by tick
type rig struct {
	world  *physics.World
	scene  *game.Scene
	ctx    *game.Context
	roster *Roster
	events *event.Queue
	keys   *input.State
}

func newRig(t *testing.T, ships ...string) *rig {
	t.Helper()
	roster, err := NewRoster(ships...)
	if err != nil {
		t.Fatalf("NewRoster: %v", err)
	}
	r := &rig{
		world:  physics.NewWorld(),
		scene:  game.NewScene(),
		roster: roster,
		events: event.NewQueue(),
		keys:   input.NewState(time.Second),
	}
	r.ctx = &game.Context{Physics: r.world, Input: r.keys, Events: r.events}
	r.scene.Bind(r.ctx)
	return r
}

func (r *rig) enemy(t *testing.T, cfg EnemyConfig) *EnemyShip {
	t.Helper()
	if cfg.Size == (mgl64.Vec3{}) {
		cfg.Size = mgl64.Vec3{2, 2, 2}
	}
	obj, err := r.scene.Spawn(cfg.Name, func(h core.Handle) (game.GameObject, error) {
		return NewEnemyShip(r.world, h, r.scene.Dispatcher(), r.roster, cfg)
	})
	if err != nil {
		t.Fatalf("NewEnemyShip(%s): %v", cfg.Name, err)
	}
	return obj.(*EnemyShip)
}

func (r *rig) player(t *testing.T, cfg PlayerConfig) *PlayerShip {
	t.Helper()
	if cfg.Size == (mgl64.Vec3{}) {
		cfg.Size = mgl64.Vec3{2, 2, 2}
	}
	obj, err := r.scene.Spawn(cfg.Name, func(h core.Handle) (game.GameObject, error) {
		return NewPlayerShip(r.world, h, r.scene.Dispatcher(), r.roster, cfg)
	})
	if err != nil {
		t.Fatalf("NewPlayerShip(%s): %v", cfg.Name, err)
	}
	return obj.(*PlayerShip)
}

func (r *rig) pool(t *testing.T, prefix string, n int, gravity float64) *game.Pool[*Cannonball] {
	t.Helper()
	pool := game.NewPool[*Cannonball](n)
	for i := 0; i < n; i++ {
		name := prefix + string(rune('a'+i))
		obj, err := r.scene.Spawn(name, func(h core.Handle) (game.GameObject, error) {
			return NewCannonball(r.world, h, r.scene.Dispatcher(), r.roster, CannonballConfig{Name: name, Gravity: gravity})
		})
		if err != nil {
			t.Fatalf("NewCannonball(%s): %v", name, err)
		}
		pool.Add(r.ctx, obj.(*Cannonball))
	}
	return pool
}

func (r *rig) step(n int, pools ...game.Reclaimer) {
	for i := 0; i < n; i++ {
		r.ctx.Tick++
		r.keys.Snapshot(time.Unix(0, 0).Add(r.ctx.GameTime))
		for _, obj := range r.scene.Objects() {
			if obj.IsActive() {
				obj.OnEarlyUpdate(r.ctx, tick)
			}
		}
		r.world.Step(float64(tick.Milliseconds()))
		for _, obj := range r.scene.Objects() {
			obj.OnUpdate(r.ctx, tick)
		}
		for _, p := range pools {
			p.Reclaim()
		}
		r.ctx.GameTime += tick
	}
}

func (r *rig) drain(typ event.Type) []event.GameEvent {
	var out []event.GameEvent
	for _, ev := range r.events.Consume() {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func TestRosterResolve(t *testing.T) {
	r, err := NewRoster("mainShip", "Ship1")
	if err != nil {
		t.Fatalf("NewRoster: %v", err)
	}
	team, ok := r.Resolve("Ship1")
	if !ok || r.Name(team) != "Ship1" {
		t.Errorf("Resolve(Ship1) = (%v, %v), name %q", team, ok, r.Name(team))
	}
	if _, ok := r.Resolve("Ship9"); ok {
		t.Error("Resolve(Ship9) succeeded")
	}
	if r.Name(NoTeam) != "" {
		t.Errorf("Name(NoTeam) = %q, want empty", r.Name(NoTeam))
	}
	if _, err := NewRoster("a", "a"); !errors.Is(err, ErrDuplicateTeam) {
		t.Errorf("duplicate roster err = %v, want ErrDuplicateTeam", err)
	}
}

func TestCannonballShooterImmunity(t *testing.T) {
	r := newRig(t, "A", "B")
	a := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "A", Position: mgl64.Vec3{0, 0, 0}}})
	b := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "B", Position: mgl64.Vec3{20, 0, 0}}})
	pool := r.pool(t, "ball", 1, 0)
	r.scene.Start(r.ctx)

	ball, ok := pool.Get(r.ctx)
	if !ok {
		t.Fatal("pool empty")
	}
	if err := ball.Fire(r.ctx, a.Drawable().Position, mgl64.Vec3{1, 0, 0}, 10, a.Team()); err != nil {
		t.Fatalf("Fire: %v", err)
	}

	r.step(1, pool)
	if a.Health() != DefaultEnemyHealth {
		t.Errorf("shooter health = %d, want %d", a.Health(), DefaultEnemyHealth)
	}
	if ball.Colliding() {
		t.Error("ball reports a collision with its own ship")
	}

	r.world.SetPosition(ball.Body(), b.Drawable().Position)
	r.step(1, pool)
	if b.Health() != DefaultEnemyHealth-DefaultDamage {
		t.Errorf("target health = %d, want %d", b.Health(), DefaultEnemyHealth-DefaultDamage)
	}
	hb, _ := r.scene.HandleOf("B")
	if ball.CollidedShip() != hb {
		t.Errorf("CollidedShip = %d, want %d", ball.CollidedShip(), hb)
	}

	hits := r.drain(event.EventShipHit)
	if len(hits) != 1 || hits[0].Subject != "A" || hits[0].Target != "B" {
		t.Errorf("hit events = %+v, want one A->B", hits)
	}
}

func TestCannonballDamagesOncePerFlight(t *testing.T) {
	r := newRig(t, "A", "B")
	a := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "A", Position: mgl64.Vec3{-50, 0, 0}}})
	b := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "B", Position: mgl64.Vec3{0, 0, 0}, Size: mgl64.Vec3{10, 2, 2}}})
	pool := r.pool(t, "ball", 1, 0)
	r.scene.Start(r.ctx)

	ball, _ := pool.Get(r.ctx)
	if err := ball.Fire(r.ctx, mgl64.Vec3{-4, 0, 0}, mgl64.Vec3{1, 0, 0}, 1, a.Team()); err != nil {
		t.Fatalf("Fire: %v", err)
	}

	r.step(10, pool)
	if b.Health() != DefaultEnemyHealth-DefaultDamage {
		t.Errorf("health after 10 ticks inside hull = %d, want %d", b.Health(), DefaultEnemyHealth-DefaultDamage)
	}
}

func TestCannonballIgnoresOtherBalls(t *testing.T) {
	r := newRig(t, "A")
	a := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "A", Position: mgl64.Vec3{100, 0, 0}}})
	pool := r.pool(t, "ball", 2, 0)
	r.scene.Start(r.ctx)

	b1, _ := pool.Get(r.ctx)
	b2, _ := pool.Get(r.ctx)
	_ = b1.Fire(r.ctx, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 0.001, a.Team())
	_ = b2.Fire(r.ctx, mgl64.Vec3{0.1, 0, 0}, mgl64.Vec3{1, 0, 0}, 0.001, NoTeam)

	r.step(1, pool)
	if b1.Colliding() || b2.Colliding() || b1.CollidedShip() != core.NoHandle {
		t.Error("ball-ball contact treated as a ship hit")
	}
}

func TestCannonballZeroDirection(t *testing.T) {
	r := newRig(t, "A")
	pool := r.pool(t, "ball", 1, 0)
	ball, _ := pool.Get(r.ctx)
	if err := ball.Fire(r.ctx, mgl64.Vec3{}, mgl64.Vec3{}, 10, NoTeam); !errors.Is(err, ErrZeroDirection) {
		t.Errorf("Fire err = %v, want ErrZeroDirection", err)
	}
}

func TestCannonballDespawnsBelowFloor(t *testing.T) {
	r := newRig(t, "A")
	pool := r.pool(t, "ball", 1, 0)
	r.scene.Start(r.ctx)

	ball, _ := pool.Get(r.ctx)
	_ = ball.Fire(r.ctx, mgl64.Vec3{0, DefaultWorldFloor + 0.1, 0}, mgl64.Vec3{0, -1, 0}, 10, NoTeam)

	r.step(1, pool)
	if ball.IsActive() {
		t.Fatal("ball still active below the floor")
	}
	if !ball.Body().Parked() {
		t.Error("deactivated ball not parked")
	}
	if pool.Free() != 1 {
		t.Errorf("pool Free() = %d, want 1", pool.Free())
	}
}

func TestSinkTrigger(t *testing.T) {
	r := newRig(t, "A")
	a := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "A"}})
	r.scene.Start(r.ctx)

	a.TakeDamage(a.Health())
	if a.Body().GravityStrength != 0 {
		t.Fatal("gravity changed before OnUpdate")
	}

	r.step(1)
	if a.Body().GravityStrength != SinkGravity {
		t.Errorf("gravity = %v, want %v", a.Body().GravityStrength, SinkGravity)
	}
	if !a.Sunk() {
		t.Error("Sunk() = false")
	}
	y1 := a.Drawable().Position[1]

	r.step(1)
	if a.Health() != 0 {
		t.Errorf("health = %d after an undamaged tick, want 0", a.Health())
	}
	if y2 := a.Drawable().Position[1]; !(y2 < y1) {
		t.Errorf("y = %v after second tick, want below %v", y2, y1)
	}
	if sunk := r.drain(event.EventShipSunk); len(sunk) != 1 {
		t.Errorf("sunk events = %d, want 1", len(sunk))
	}
}

func TestPatrolFlipsEveryInterval(t *testing.T) {
	r := newRig(t, "A")
	a := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "A", PatrolSpeed: 2, PatrolInterval: 160 * time.Millisecond}})
	r.scene.Start(r.ctx)

	r.step(1)
	if v := a.Body().Velocity[0]; v != -2 {
		t.Fatalf("initial vx = %v, want -2", v)
	}
	r.step(10)
	if v := a.Body().Velocity[0]; v != 2 {
		t.Errorf("vx after one interval = %v, want 2", v)
	}
	if a.Patrol().Direction() != -1 {
		t.Errorf("Direction() = %v, want -1", a.Patrol().Direction())
	}
	r.step(10)
	if v := a.Body().Velocity[0]; v != -2 {
		t.Errorf("vx after two intervals = %v, want -2", v)
	}
}

func TestRammingSinksBoth(t *testing.T) {
	r := newRig(t, "A", "B")
	a := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "A", Position: mgl64.Vec3{0, 0, 0}}})
	b := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "B", Position: mgl64.Vec3{1.5, 0, 0}}})
	r.scene.Start(r.ctx)

	r.step(1)
	if a.Health() != 0 || b.Health() != 0 {
		t.Errorf("health A=%d B=%d, want 0 0", a.Health(), b.Health())
	}
	if !a.Sunk() || !b.Sunk() {
		t.Error("rammed ships not sinking")
	}
	if rams := r.drain(event.EventShipsRammed); len(rams) != 1 {
		t.Errorf("ram events = %d, want 1", len(rams))
	}
}

func TestRamAgainstWreckPublishesOnce(t *testing.T) {
	tests := []struct {
		name   string
		wrecks string
	}{
		{"lower handle already at zero", "A"},
		{"higher handle already at zero", "B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, "A", "B")
			a := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "A", Position: mgl64.Vec3{0, 0, 0}}})
			b := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "B", Position: mgl64.Vec3{1.5, 0, 0}}})
			r.scene.Start(r.ctx)

			wreck, afloat := a, b
			if tt.wrecks == "B" {
				wreck, afloat = b, a
			}
			wreck.TakeDamage(wreck.Health())

			r.step(1)
			if afloat.Health() != 0 {
				t.Errorf("%s health = %d, want 0", afloat.Name(), afloat.Health())
			}
			if rams := r.drain(event.EventShipsRammed); len(rams) != 1 {
				t.Errorf("ram events = %d, want 1", len(rams))
			}

			// Contact persists while both sink
			r.step(1)
			if rams := r.drain(event.EventShipsRammed); len(rams) != 0 {
				t.Errorf("ram events on second contact = %d, want 0", len(rams))
			}
		})
	}
}

func TestPlayerHelmAndFire(t *testing.T) {
	r := newRig(t, "mainShip")
	p := r.player(t, PlayerConfig{HullConfig: HullConfig{Name: "mainShip"}, Cannon: CannonConfig{Speed: 10}})
	pool := r.pool(t, "shot", 1, 0)
	p.Arm(pool)
	r.scene.Start(r.ctx)

	r.keys.Press(input.KeyStarboard, time.Unix(0, 0))
	r.keys.Press(input.KeyFire, time.Unix(0, 0))
	r.step(1, pool)

	if v := p.Body().Velocity; v[0] != DefaultMoveSpeed || v[2] != 0 {
		t.Errorf("velocity = %v, want x=%v", v, DefaultMoveSpeed)
	}
	if pool.Active() != 1 {
		t.Fatalf("pool Active() = %d, want 1", pool.Active())
	}
	shots := r.drain(event.EventCannonFired)
	if len(shots) != 1 || shots[0].Subject != "mainShip" {
		t.Errorf("fired events = %+v, want one from mainShip", shots)
	}

	// Held fire key does not refire, empty pool is a no-op
	r.step(1, pool)
	if p.Fire(r.ctx) {
		t.Error("Fire succeeded on an exhausted pool")
	}
}

func TestPlayerStopsWithoutHelm(t *testing.T) {
	r := newRig(t, "mainShip")
	p := r.player(t, PlayerConfig{HullConfig: HullConfig{Name: "mainShip"}})
	r.scene.Start(r.ctx)

	p.Body().Velocity = mgl64.Vec3{3, 0, 3}
	r.step(1)
	if v := p.Body().Velocity; v[0] != 0 || v[2] != 0 {
		t.Errorf("velocity = %v, want zero on x and z", v)
	}
	if p.Health() != DefaultPlayerHealth {
		t.Errorf("health = %d, want %d", p.Health(), DefaultPlayerHealth)
	}
}

func TestEnemyGunnery(t *testing.T) {
	r := newRig(t, "mainShip", "Ship1", "Ship2")
	r.player(t, PlayerConfig{HullConfig: HullConfig{Name: "mainShip", Position: mgl64.Vec3{0, 0, 0}}})
	e := r.enemy(t, EnemyConfig{
		HullConfig:   HullConfig{Name: "Ship1", Position: mgl64.Vec3{0, 0, 30}},
		Target:       "mainShip",
		Cannon:       CannonConfig{Speed: 10},
		FireInterval: 160 * time.Millisecond,
	})
	lost := r.enemy(t, EnemyConfig{HullConfig: HullConfig{Name: "Ship2", Position: mgl64.Vec3{50, 0, 0}}, Target: "Ship9"})
	pool := r.pool(t, "e", 2, 0)
	e.Arm(pool)
	r.scene.Start(r.ctx)

	if e.Target() == nil || e.Target().Name() != "mainShip" {
		t.Fatalf("Target() = %v, want mainShip", e.Target())
	}
	if lost.Target() != nil {
		t.Error("unknown target resolved to a ship")
	}

	r.step(10, pool)
	if pool.Active() != 0 {
		t.Fatalf("pool Active() = %d before the first interval, want 0", pool.Active())
	}
	r.step(1, pool)
	if pool.Active() != 1 {
		t.Fatalf("pool Active() = %d after one interval, want 1", pool.Active())
	}
	for _, obj := range r.scene.Objects() {
		if ball, ok := obj.(*Cannonball); ok && ball.IsActive() {
			if v := ball.Body().Velocity; v[2] >= 0 {
				t.Errorf("ball velocity %v does not head towards the target", v)
			}
		}
	}
}
