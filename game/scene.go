package game

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/broadside/core"
	"github.com/lixenwraith/broadside/physics"
)

var (
	ErrDuplicateName = errors.New("duplicate object name")
	ErrNameMismatch  = errors.New("object name differs from spawn name")
)

// Scene is the arena of game objects, indexed by Handle and by name
type Scene struct {
	// slots is indexed by handle, nil marks a handle retired by a failed spawn
	slots   []GameObject
	objects []GameObject
	byName  map[string]core.Handle
	ctx     *Context
	started bool
}

// NewScene creates an empty arena
func NewScene() *Scene {
	return &Scene{
		byName: make(map[string]core.Handle),
	}
}

// Spawn reserves the next handle for name and builds the object with it
// A taken name is rejected before build runs. A failed build retires its handle,
// bodies the constructor already registered under it resolve to no object
func (s *Scene) Spawn(name string, build func(h core.Handle) (GameObject, error)) (GameObject, error) {
	if _, exists := s.byName[name]; exists {
		return nil, errors.Wrap(ErrDuplicateName, name)
	}

	h := core.Handle(len(s.slots))
	s.slots = append(s.slots, nil)

	obj, err := build(h)
	if err != nil {
		return nil, err
	}
	if obj.Name() != name {
		return nil, errors.Wrapf(ErrNameMismatch, "spawned %q as %q", obj.Name(), name)
	}
	s.slots[h] = obj
	s.objects = append(s.objects, obj)
	s.byName[name] = h
	return obj, nil
}

// Get resolves a handle
func (s *Scene) Get(h core.Handle) (GameObject, bool) {
	if !h.Valid() || int(h) >= len(s.slots) || s.slots[h] == nil {
		return nil, false
	}
	return s.slots[h], true
}

// FindByName returns the object registered under name
func (s *Scene) FindByName(name string) (GameObject, bool) {
	h, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.slots[h], true
}

// HandleOf returns the handle registered under name
func (s *Scene) HandleOf(name string) (core.Handle, bool) {
	h, ok := s.byName[name]
	return h, ok
}

// Objects returns every object in spawn order, callers must not modify it
func (s *Scene) Objects() []GameObject {
	return s.objects
}

// Len returns the number of objects
func (s *Scene) Len() int {
	return len(s.objects)
}

// Bind attaches the context that the intersection dispatcher passes to hooks
func (s *Scene) Bind(ctx *Context) {
	s.ctx = ctx
	ctx.Scene = s
}

// Dispatcher routes a body contact to the owning object of self
func (s *Scene) Dispatcher() physics.IntersectionFunc {
	return func(self, other *physics.Rigidbody) {
		if s.ctx == nil {
			return
		}
		if obj, ok := s.Get(self.Owner); ok {
			obj.OnIntersection(s.ctx, self, other)
		}
	}
}

// Start activates objects flagged ActivateOnStart and then runs OnStart on all of them
// Only the first call has any effect
func (s *Scene) Start(ctx *Context) {
	if s.started {
		return
	}
	s.started = true
	for _, obj := range s.objects {
		if obj.ActivateOnStart() {
			obj.Activate(ctx)
		}
	}
	for _, obj := range s.objects {
		obj.OnStart(ctx)
	}
}

// Started reports whether Start has run
func (s *Scene) Started() bool {
	return s.started
}
