package event

import (
	"sync/atomic"
)

const (
	// QueueSize must be a power of two
	QueueSize  = 256
	bufferMask = QueueSize - 1
)

// Queue is a lock-free MPSC ring buffer of game events
// Push is safe for concurrent producers, Consume belongs to the tick goroutine
// When full the oldest events are overwritten
type Queue struct {
	events    [QueueSize]GameEvent
	published [QueueSize]atomic.Bool
	head      atomic.Uint64
	tail      atomic.Uint64
	dropped   atomic.Uint64
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event, claiming a slot by CAS on tail
func (q *Queue) Push(ev GameEvent) {
	for {
		tail := q.tail.Load()
		next := tail + 1
		if !q.tail.CompareAndSwap(tail, next) {
			continue
		}

		idx := tail & bufferMask
		q.events[idx] = ev
		q.published[idx].Store(true) // after the write

		head := q.head.Load()
		if next-head > QueueSize {
			if q.head.CompareAndSwap(head, next-QueueSize) {
				q.dropped.Add(1)
			}
		}
		return
	}
}

// Consume drains published events in FIFO order
func (q *Queue) Consume() []GameEvent {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if tail == head {
			return nil
		}

		n := tail - head
		if n > QueueSize {
			n = QueueSize
			head = tail - QueueSize
		}

		out := make([]GameEvent, 0, n)
		for i := uint64(0); i < n; i++ {
			idx := (head + i) & bufferMask
			if !q.published[idx].Load() {
				break // writer still filling the slot
			}
			out = append(out, q.events[idx])
			q.published[idx].Store(false)
		}

		if q.head.CompareAndSwap(head, head+uint64(len(out))) {
			if len(out) == 0 {
				return nil
			}
			return out
		}
	}
}

// Len returns the approximate pending count
func (q *Queue) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail <= head {
		return 0
	}
	if d := tail - head; d < QueueSize {
		return int(d)
	}
	return QueueSize
}

// Dropped returns how many events were overwritten before being consumed
func (q *Queue) Dropped() uint64 {
	return q.dropped.Load()
}
