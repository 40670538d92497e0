package engine

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/broadside/event"
	"github.com/lixenwraith/broadside/game"
	"github.com/lixenwraith/broadside/input"
	"github.com/lixenwraith/broadside/status"
)

// Snapshot is the immutable view of the scene published after every tick
type Snapshot struct {
	Tick     uint64             `msgpack:"tick"`
	GameTime time.Duration      `msgpack:"game_time"`
	Paused   bool               `msgpack:"paused"`
	Objects  []game.ObjectState `msgpack:"objects"`
}

// Config wires a built scene into a Game
type Config struct {
	Scene   *game.Scene
	Context *game.Context
	Pools   []game.Reclaimer

	// Input is optional, a nil collector leaves the scene without key state
	Input *input.State
	Clock TimeSource

	Status *status.Registry
}

// Game runs the fixed-step tick: input snapshot, early-update, physics, update, pool reclaim
// FixedUpdate belongs to the scheduler goroutine, Latest and Subscribe are safe from any goroutine
type Game struct {
	scene  *game.Scene
	ctx    *game.Context
	pools  []game.Reclaimer
	input  *input.State
	clock  TimeSource
	queue  *event.Queue
	router *event.Router

	paused atomic.Bool

	latest      atomic.Pointer[Snapshot]
	subMu       sync.RWMutex
	subscribers []func(*Snapshot)

	statPaused   *atomic.Bool
	statContacts *atomic.Int64
	statHits     *atomic.Int64
	statSunk     *atomic.Int64
	statEvents   *atomic.Int64
}

// NewGame attaches input and an event queue to the scene context and starts the scene
func NewGame(cfg Config) *Game {
	if cfg.Clock == nil {
		cfg.Clock = NewTimeProvider()
	}
	if cfg.Status == nil {
		cfg.Status = status.NewRegistry()
	}

	queue := event.NewQueue()
	g := &Game{
		scene:        cfg.Scene,
		ctx:          cfg.Context,
		pools:        cfg.Pools,
		input:        cfg.Input,
		clock:        cfg.Clock,
		queue:        queue,
		router:       event.NewRouter(queue),
		statPaused:   cfg.Status.Bools.Get("engine.paused"),
		statContacts: cfg.Status.Ints.Get("physics.contacts_total"),
		statHits:     cfg.Status.Ints.Get("fleet.hits"),
		statSunk:     cfg.Status.Ints.Get("fleet.sunk"),
		statEvents:   cfg.Status.Ints.Get("engine.events"),
	}

	g.ctx.Events = queue
	if cfg.Input != nil {
		g.ctx.Input = cfg.Input
	}
	g.scene.Bind(g.ctx)

	g.router.Register(event.HandlerFunc{
		Types: []event.Type{event.EventShipHit, event.EventShipSunk, event.EventShipsRammed},
		Fn:    g.tally,
	})

	g.scene.Start(g.ctx)
	g.publish()
	return g
}

// RegisterEventHandler adds a handler to the router, call before the scheduler starts
func (g *Game) RegisterEventHandler(h event.Handler) {
	g.router.Register(h)
}

// Context returns the scene context
func (g *Game) Context() *game.Context {
	return g.ctx
}

// Events returns the queue hooks emit into
func (g *Game) Events() *event.Queue {
	return g.queue
}

// IsPaused reports the pause state
func (g *Game) IsPaused() bool {
	return g.paused.Load()
}

// SetPaused forces the pause state, used by hosts without a keyboard
func (g *Game) SetPaused(p bool) {
	g.paused.Store(p)
	g.statPaused.Store(p)
}

// FixedUpdate runs one tick of length dt
func (g *Game) FixedUpdate(dt time.Duration) {
	if g.input != nil {
		g.input.Snapshot(g.clock.Now())
	}
	keys := g.ctx.Keys()
	if keys.WasPressed(input.KeyPause) {
		g.SetPaused(!g.IsPaused())
		g.ctx.Emit(event.GameEvent{Type: event.EventPauseToggled, Value: boolToInt(g.IsPaused())})
	}

	if !g.IsPaused() {
		g.simulate(dt)
	}

	// Pools reclaim even while paused so the active sets stay exact
	for _, p := range g.pools {
		p.Reclaim()
	}

	n := g.router.DispatchAll()
	g.statEvents.Add(int64(n))

	g.publish()
}

func (g *Game) simulate(dt time.Duration) {
	g.ctx.Tick++
	objects := g.scene.Objects()

	for _, obj := range objects {
		if obj.IsActive() {
			obj.OnEarlyUpdate(g.ctx, dt)
		}
	}

	g.ctx.Physics.Step(float64(dt) / float64(time.Millisecond))
	g.statContacts.Add(int64(g.ctx.Physics.Contacts()))

	// Update runs for every object, inactive ones included
	for _, obj := range objects {
		obj.OnUpdate(g.ctx, dt)
	}

	g.ctx.GameTime += dt
}

func (g *Game) tally(ev event.GameEvent) {
	switch ev.Type {
	case event.EventShipHit:
		g.statHits.Add(1)
		log.Printf("[engine] tick %d: %s hit %s, health %d", ev.Tick, ev.Subject, ev.Target, ev.Value)
	case event.EventShipSunk:
		g.statSunk.Add(1)
		log.Printf("[engine] tick %d: %s sinking", ev.Tick, ev.Subject)
	case event.EventShipsRammed:
		log.Printf("[engine] tick %d: %s rammed %s", ev.Tick, ev.Subject, ev.Target)
	}
}

// Latest returns the most recent snapshot
func (g *Game) Latest() *Snapshot {
	return g.latest.Load()
}

// Subscribe registers fn to receive every snapshot on the tick goroutine
// Snapshots are never mutated after publish, fn must not block
func (g *Game) Subscribe(fn func(*Snapshot)) {
	g.subMu.Lock()
	g.subscribers = append(g.subscribers, fn)
	g.subMu.Unlock()
}

func (g *Game) publish() {
	objects := g.scene.Objects()
	snap := &Snapshot{
		Tick:     g.ctx.Tick,
		GameTime: g.ctx.GameTime,
		Paused:   g.IsPaused(),
		Objects:  make([]game.ObjectState, 0, len(objects)),
	}
	for _, obj := range objects {
		if r, ok := obj.(game.Reporter); ok {
			snap.Objects = append(snap.Objects, r.Report())
		}
	}
	g.latest.Store(snap)

	g.subMu.RLock()
	for _, fn := range g.subscribers {
		fn(snap)
	}
	g.subMu.RUnlock()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
