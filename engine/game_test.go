package engine

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/drawable"
	"github.com/lixenwraith/broadside/event"
	"github.com/lixenwraith/broadside/fleet"
	"github.com/lixenwraith/broadside/game"
	"github.com/lixenwraith/broadside/input"
	"github.com/lixenwraith/broadside/physics"
	"github.com/lixenwraith/broadside/scene"
	"github.com/lixenwraith/broadside/status"
)

const tick = 16 * time.Millisecond

// counter records lifecycle calls
type counter struct {
	name    string
	onStart bool
	active  bool
	early   int
	update  int
}

func (c *counter) Name() string                                                         { return c.name }
func (c *counter) ActivateOnStart() bool                                                { return c.onStart }
func (c *counter) Activate(*game.Context)                                               { c.active = true }
func (c *counter) Deactivate(*game.Context)                                             { c.active = false }
func (c *counter) IsActive() bool                                                       { return c.active }
func (c *counter) OnStart(*game.Context)                                                {}
func (c *counter) OnEarlyUpdate(*game.Context, time.Duration)                           { c.early++ }
func (c *counter) OnUpdate(*game.Context, time.Duration)                                { c.update++ }
func (c *counter) OnIntersection(*game.Context, *physics.Rigidbody, *physics.Rigidbody) {}

func newCounterGame(t *testing.T, objs ...*counter) (*Game, *physics.World) {
	t.Helper()
	w := physics.NewWorld()
	s := game.NewScene()
	for _, c := range objs {
		if _, err := s.Spawn(c.name, func(core.Handle) (game.GameObject, error) { return c, nil }); err != nil {
			t.Fatalf("Spawn: %v", err)
		}
	}
	g := NewGame(Config{Scene: s, Context: &game.Context{Physics: w}})
	return g, w
}

func TestEarlyUpdateGatedUpdateNot(t *testing.T) {
	active := &counter{name: "active", onStart: true}
	dormant := &counter{name: "dormant"}
	g, _ := newCounterGame(t, active, dormant)

	for i := 0; i < 3; i++ {
		g.FixedUpdate(tick)
	}

	if active.early != 3 || active.update != 3 {
		t.Errorf("active early/update = %d/%d, want 3/3", active.early, active.update)
	}
	if dormant.early != 0 {
		t.Errorf("dormant early = %d, want 0", dormant.early)
	}
	if dormant.update != 3 {
		t.Errorf("dormant update = %d, want 3", dormant.update)
	}
	if g.Context().GameTime != 3*tick {
		t.Errorf("GameTime = %v, want %v", g.Context().GameTime, 3*tick)
	}
}

func TestPauseSkipsSimulation(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockTimeProvider(start)
	keys := input.NewState(input.DefaultHold)
	reg := status.NewRegistry()

	obj := &counter{name: "obj", onStart: true}
	w := physics.NewWorld()
	s := game.NewScene()
	if _, err := s.Spawn(obj.name, func(core.Handle) (game.GameObject, error) { return obj, nil }); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	col, _ := physics.NewSphere(mgl64.Vec3{}, 0.5)
	rb, err := w.CreateRigidbody(drawable.New("drifter", mgl64.Vec3{}), core.NoHandle, col, nil)
	if err != nil {
		t.Fatalf("CreateRigidbody: %v", err)
	}
	rb.GravityStrength = 0
	rb.Velocity = mgl64.Vec3{10, 0, 0}

	pool := game.NewPool[*counter](1)
	g := NewGame(Config{
		Scene:   s,
		Context: &game.Context{Physics: w},
		Pools:   []game.Reclaimer{pool},
		Input:   keys,
		Clock:   clock,
		Status:  reg,
	})

	keys.Press(input.KeyPause, clock.Now())
	g.FixedUpdate(tick)
	if !g.IsPaused() || !g.Latest().Paused {
		t.Fatal("not paused after pressing p")
	}
	if !reg.Bools.Get("engine.paused").Load() {
		t.Error("engine.paused metric not set")
	}

	pos := rb.Position()
	for i := 0; i < 5; i++ {
		clock.Advance(tick)
		g.FixedUpdate(tick)
	}
	if rb.Position() != pos {
		t.Errorf("body moved while paused: %v -> %v", pos, rb.Position())
	}
	if obj.early != 0 || obj.update != 0 {
		t.Errorf("hooks ran while paused: early %d update %d", obj.early, obj.update)
	}
	if g.Context().GameTime != 0 {
		t.Errorf("GameTime = %v while paused, want 0", g.Context().GameTime)
	}

	keys.Release(input.KeyPause)
	g.FixedUpdate(tick)
	keys.Press(input.KeyPause, clock.Now())
	g.FixedUpdate(tick)
	if g.IsPaused() {
		t.Fatal("still paused after second press")
	}
	if obj.update != 1 || rb.Position() == pos {
		t.Errorf("simulation did not resume: update %d, position %v", obj.update, rb.Position())
	}
}

func TestEndToEndBroadside(t *testing.T) {
	weightless := 0.0
	desc := &scene.Description{
		Cannonball: scene.CannonballSpec{Gravity: &weightless, Speed: 10},
		Ships: []scene.ShipSpec{
			{Name: "A", Kind: scene.KindEnemy, Position: mgl64.Vec3{0, 0, 0}, Size: mgl64.Vec3{2, 2, 2}, Ammo: 1},
			{Name: "B", Kind: scene.KindEnemy, Position: mgl64.Vec3{20, 0, 0}, Size: mgl64.Vec3{2, 2, 2}},
		},
	}
	reg := status.NewRegistry()
	m, err := scene.Build(desc, physics.NewWorld(), reg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	g := NewGame(Config{Scene: m.Scene, Context: m.Context, Pools: m.Pools, Status: reg})

	objA, _ := m.Scene.FindByName("A")
	objB, _ := m.Scene.FindByName("B")
	a := objA.(*fleet.EnemyShip)
	b := objB.(*fleet.EnemyShip)
	hB, _ := m.Scene.HandleOf("B")
	startHealth := b.Health()

	ball, ok := m.Ammo["A"].Get(g.Context())
	if !ok {
		t.Fatal("A has no ammo")
	}
	if err := ball.Fire(g.Context(), a.Drawable().Position, mgl64.Vec3{1, 0, 0}, 10, a.Team()); err != nil {
		t.Fatalf("Fire: %v", err)
	}

	n := int(math.Ceil(20.0 / 10 * 1000 / 16))
	if n != 125 {
		t.Fatalf("tick count = %d, want 125", n)
	}

	var hits []event.GameEvent
	g.RegisterEventHandler(event.HandlerFunc{
		Types: []event.Type{event.EventShipHit},
		Fn:    func(ev event.GameEvent) { hits = append(hits, ev) },
	})

	for i := 0; i < n; i++ {
		g.FixedUpdate(tick)
	}

	if !physics.Intersects(ball.Body().Collider, b.Body().Collider) {
		t.Errorf("ball at %v does not overlap B", ball.Drawable().Position)
	}
	if got := b.Health(); got != startHealth-fleet.DefaultDamage {
		t.Errorf("B health = %d, want %d", got, startHealth-fleet.DefaultDamage)
	}
	if a.Health() != startHealth {
		t.Errorf("A health = %d, want %d", a.Health(), startHealth)
	}
	if ball.CollidedShip() != hB {
		t.Errorf("CollidedShip = %d, want %d", ball.CollidedShip(), hB)
	}
	if len(hits) != 1 || hits[0].Target != "B" {
		t.Errorf("hit events = %+v, want one on B", hits)
	}
	if got := reg.Ints.Get("fleet.hits").Load(); got != 1 {
		t.Errorf("fleet.hits = %d, want 1", got)
	}

	snap := g.Latest()
	if snap.Tick != uint64(n) {
		t.Errorf("snapshot tick = %d, want %d", snap.Tick, n)
	}
	var sawB bool
	for _, o := range snap.Objects {
		if o.Name == "B" {
			sawB = true
			if o.Health != b.Health() {
				t.Errorf("snapshot B health = %d, want %d", o.Health, b.Health())
			}
		}
	}
	if !sawB {
		t.Error("B missing from snapshot")
	}
}

func TestSubscribeReceivesEverySnapshot(t *testing.T) {
	g, _ := newCounterGame(t, &counter{name: "x", onStart: true})

	var ticks []uint64
	g.Subscribe(func(s *Snapshot) { ticks = append(ticks, s.Tick) })

	for i := 0; i < 3; i++ {
		g.FixedUpdate(tick)
	}
	if len(ticks) != 3 || ticks[2] != 3 {
		t.Errorf("ticks = %v, want [1 2 3]", ticks)
	}
}
