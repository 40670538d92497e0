// Package game defines the game object lifecycle, the scene arena and object pools
package game

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/broadside/event"
	"github.com/lixenwraith/broadside/input"
	"github.com/lixenwraith/broadside/physics"
)

// GameObject is the capability set every scene entity implements
//
// Lifecycle:
//  1. Construction at scene build
//  2. Activate for objects with ActivateOnStart, then OnStart for every object
//  3. Per tick: OnEarlyUpdate (active only), physics step, OnUpdate (all objects)
//  4. Activate/Deactivate any number of times, objects are never destroyed
type GameObject interface {
	Name() string
	ActivateOnStart() bool

	Activate(ctx *Context)
	Deactivate(ctx *Context)
	IsActive() bool

	OnStart(ctx *Context)
	OnEarlyUpdate(ctx *Context, dt time.Duration)
	OnUpdate(ctx *Context, dt time.Duration)

	// OnIntersection is called by the physics sweep only
	OnIntersection(ctx *Context, self, other *physics.Rigidbody)
}

// ObjectState is the render and network view of one object
type ObjectState struct {
	Name     string     `msgpack:"name"`
	Kind     string     `msgpack:"kind"`
	Team     string     `msgpack:"team,omitempty"`
	Position mgl64.Vec3 `msgpack:"pos"`
	Heading  mgl64.Vec3 `msgpack:"heading"`
	Diffuse  mgl64.Vec3 `msgpack:"diffuse"`
	Health   int        `msgpack:"health"`
	Active   bool       `msgpack:"active"`
	Sunk     bool       `msgpack:"sunk,omitempty"`
}

// Reporter is implemented by objects that appear in snapshots
type Reporter interface {
	Report() ObjectState
}

// Context is handed to every lifecycle hook
// It replaces globals: one Context per running scene
type Context struct {
	Physics *physics.World
	Scene   *Scene
	Input   input.Reader
	Events  *event.Queue

	// GameTime only advances while the simulation is unpaused
	GameTime time.Duration
	Tick     uint64
}

// Emit stamps the current tick and queues ev, a nil queue drops it
func (c *Context) Emit(ev event.GameEvent) {
	if c.Events == nil {
		return
	}
	ev.Tick = c.Tick
	c.Events.Push(ev)
}

// noInput is used when a Context has no input source attached
type noInput struct{}

func (noInput) IsDown(input.Key) bool      { return false }
func (noInput) WasPressed(input.Key) bool  { return false }
func (noInput) WasReleased(input.Key) bool { return false }

// Keys returns the attached input reader or one that reports nothing
func (c *Context) Keys() input.Reader {
	if c.Input == nil {
		return noInput{}
	}
	return c.Input
}
