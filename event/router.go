package event

// Handler receives the event types it declares
type Handler interface {
	HandleEvent(ev GameEvent)
	EventTypes() []Type
}

// HandlerFunc adapts a function to Handler for the given types
type HandlerFunc struct {
	Types []Type
	Fn    func(ev GameEvent)
}

func (h HandlerFunc) HandleEvent(ev GameEvent) { h.Fn(ev) }
func (h HandlerFunc) EventTypes() []Type       { return h.Types }

// Router fans queued events out to handlers in registration order
// Dispatch is single-threaded and runs at the end of each tick
type Router struct {
	handlers map[Type][]Handler
	queue    *Queue
}

// NewRouter creates a router attached to the given queue
func NewRouter(queue *Queue) *Router {
	return &Router{
		handlers: make(map[Type][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(h Handler) {
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// DispatchAll consumes pending events and returns how many were routed
func (r *Router) DispatchAll() int {
	events := r.queue.Consume()
	for _, ev := range events {
		for _, h := range r.handlers[ev.Type] {
			h.HandleEvent(ev)
		}
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for t
func (r *Router) HandlerCount(t Type) int {
	return len(r.handlers[t])
}
