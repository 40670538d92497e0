package game

// Reclaimer is implemented by pools compacted once per tick
type Reclaimer interface {
	Reclaim()
}

// Pool recycles game objects through a free list and two active buffers
// At every tick boundary an object is in exactly one of free or active
type Pool[T GameObject] struct {
	free   []T
	active []T
	next   []T
}

// NewPool creates a pool sized for capacity objects
func NewPool[T GameObject](capacity int) *Pool[T] {
	return &Pool[T]{
		free:   make([]T, 0, capacity),
		active: make([]T, 0, capacity),
		next:   make([]T, 0, capacity),
	}
}

// Add deactivates obj and stores it in the free list, used during initial population
func (p *Pool[T]) Add(ctx *Context, obj T) {
	obj.Deactivate(ctx)
	p.free = append(p.free, obj)
}

// Get activates and returns a free object, false when the pool is exhausted
func (p *Pool[T]) Get(ctx *Context) (T, bool) {
	n := len(p.free)
	if n == 0 {
		var zero T
		return zero, false
	}
	obj := p.free[n-1]
	p.free = p.free[:n-1]

	obj.Activate(ctx)
	p.active = append(p.active, obj)
	return obj, true
}

// Reclaim moves objects that deactivated themselves back to the free list
// Survivors keep their order in the other buffer, then the buffers swap
func (p *Pool[T]) Reclaim() {
	for _, obj := range p.active {
		if obj.IsActive() {
			p.next = append(p.next, obj)
		} else {
			p.free = append(p.free, obj)
		}
	}
	p.active, p.next = p.next, p.active[:0]
}

// Free returns the number of objects ready to hand out
func (p *Pool[T]) Free() int {
	return len(p.free)
}

// Active returns the number of objects handed out and not yet reclaimed
func (p *Pool[T]) Active() int {
	return len(p.active)
}

// Len returns the total number of pooled objects
func (p *Pool[T]) Len() int {
	return len(p.free) + len(p.active)
}
