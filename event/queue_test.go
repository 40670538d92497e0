package event

import (
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(GameEvent{Type: EventShipHit, Value: i})
	}
	if q.Len() != 5 {
		t.Errorf("Len() = %d, want 5", q.Len())
	}

	got := q.Consume()
	if len(got) != 5 {
		t.Fatalf("Consume() returned %d events, want 5", len(got))
	}
	for i, ev := range got {
		if ev.Value != i {
			t.Errorf("event %d Value = %d, want %d", i, ev.Value, i)
		}
	}
	if q.Consume() != nil {
		t.Error("second Consume() returned events")
	}
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := NewQueue()
	total := QueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(GameEvent{Type: EventCannonFired, Value: i})
	}

	got := q.Consume()
	if len(got) != QueueSize {
		t.Fatalf("Consume() returned %d events, want %d", len(got), QueueSize)
	}
	if got[0].Value != 10 {
		t.Errorf("oldest surviving Value = %d, want 10", got[0].Value)
	}
	if q.Dropped() != 10 {
		t.Errorf("Dropped() = %d, want 10", q.Dropped())
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for p := 0; p < 4; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 32; i++ {
				q.Push(GameEvent{Type: EventShipHit})
			}
		}()
	}
	wg.Wait()

	if got := len(q.Consume()); got != 128 {
		t.Errorf("Consume() returned %d events, want 128", got)
	}
}

func TestRouterDispatch(t *testing.T) {
	q := NewQueue()
	r := NewRouter(q)

	var hits, sinks int
	r.Register(HandlerFunc{Types: []Type{EventShipHit}, Fn: func(GameEvent) { hits++ }})
	r.Register(HandlerFunc{Types: []Type{EventShipHit, EventShipSunk}, Fn: func(ev GameEvent) {
		if ev.Type == EventShipSunk {
			sinks++
		}
	}})

	q.Push(GameEvent{Type: EventShipHit})
	q.Push(GameEvent{Type: EventShipSunk})
	q.Push(GameEvent{Type: EventCannonFired})

	if n := r.DispatchAll(); n != 3 {
		t.Errorf("DispatchAll() = %d, want 3", n)
	}
	if hits != 1 || sinks != 1 {
		t.Errorf("hits=%d sinks=%d, want 1 1", hits, sinks)
	}
	if r.HandlerCount(EventShipHit) != 2 {
		t.Errorf("HandlerCount(ShipHit) = %d, want 2", r.HandlerCount(EventShipHit))
	}
}
