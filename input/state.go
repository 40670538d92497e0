// Package input keeps a double-buffered key state read once per tick
package input

import (
	"sync"
	"time"
)

// Key identifies a key, printable keys use their lower-case rune
type Key rune

// Non-printable keys live above the Unicode range
const (
	KeyUp Key = 0x110000 + iota
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyEnter
	KeyQuit
)

// DefaultHold is how long a key counts as held after its last press event
// Terminals report presses only, auto-repeat keeps a held key alive
const DefaultHold = 250 * time.Millisecond

// Reader is the per-tick query surface used by gameplay code
type Reader interface {
	IsDown(k Key) bool
	WasPressed(k Key) bool
	WasReleased(k Key) bool
}

// State collects key events from the host and exposes tick snapshots
// Press/Release may be called from any goroutine, Snapshot and the Reader methods belong to the tick
type State struct {
	mu       sync.Mutex
	lastSeen map[Key]time.Time
	hold     time.Duration

	down map[Key]bool
	last map[Key]bool
}

// NewState creates a State with the given hold window, zero selects DefaultHold
func NewState(hold time.Duration) *State {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &State{
		lastSeen: make(map[Key]time.Time),
		hold:     hold,
		down:     make(map[Key]bool),
		last:     make(map[Key]bool),
	}
}

// Press records a key press or auto-repeat at the given time
func (s *State) Press(k Key, at time.Time) {
	s.mu.Lock()
	s.lastSeen[k] = at
	s.mu.Unlock()
}

// Release forgets a key immediately
func (s *State) Release(k Key) {
	s.mu.Lock()
	delete(s.lastSeen, k)
	s.mu.Unlock()
}

// Snapshot rotates the buffers and captures which keys are held at now
func (s *State) Snapshot(now time.Time) {
	s.last, s.down = s.down, s.last
	clear(s.down)

	s.mu.Lock()
	for k, at := range s.lastSeen {
		if now.Sub(at) < s.hold {
			s.down[k] = true
		} else {
			delete(s.lastSeen, k)
		}
	}
	s.mu.Unlock()
}

// IsDown reports whether k is held in the current snapshot
func (s *State) IsDown(k Key) bool {
	return s.down[k]
}

// WasPressed reports whether k went down between the last two snapshots
func (s *State) WasPressed(k Key) bool {
	return s.down[k] && !s.last[k]
}

// WasReleased reports whether k went up between the last two snapshots
func (s *State) WasReleased(k Key) bool {
	return !s.down[k] && s.last[k]
}
