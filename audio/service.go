package audio

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/broadside/event"
)

// Service plays combat sounds in response to game events
// Degrades to silence when no speaker can be opened
type Service struct {
	cfg      *Config
	mixer    *beep.Mixer
	output   func(beep.Streamer)
	disabled atomic.Bool
	muted    atomic.Bool
	played   atomic.Int64

	mu      sync.Mutex
	running bool
}

// NewService creates an audio service, Init decides whether it can play
func NewService() *Service {
	return &Service{mixer: &beep.Mixer{}}
}

func (s *Service) Name() string           { return "audio" }
func (s *Service) Dependencies() []string { return nil }

// Init reads the configuration and opens the speaker
// args[0] may be a *Config overriding the environment
// A missing audio device disables the service without failing Init
func (s *Service) Init(args ...any) error {
	s.cfg = LoadConfig()
	if len(args) > 0 {
		if cfg, ok := args[0].(*Config); ok && cfg != nil {
			s.cfg = cfg
		}
	}

	if !s.cfg.Enabled {
		s.disabled.Store(true)
		return nil
	}

	rate := beep.SampleRate(s.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		log.Printf("[audio] speaker unavailable, running silent: %v", err)
		s.disabled.Store(true)
		return nil
	}
	s.output = func(st beep.Streamer) {
		speaker.Lock()
		s.mixer.Add(st)
		speaker.Unlock()
	}
	return nil
}

// Start hands the mixer to the speaker
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disabled.Load() || s.running {
		return nil
	}
	speaker.Play(s.mixer)
	s.running = true
	return nil
}

// Stop silences everything, safe to call more than once
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	speaker.Clear()
	s.running = false
	return nil
}

// IsDisabled reports whether the service is running silent
func (s *Service) IsDisabled() bool {
	return s.disabled.Load()
}

// ToggleMute flips the mute state and returns the new one
func (s *Service) ToggleMute() bool {
	for {
		old := s.muted.Load()
		if s.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Played returns how many effects were queued
func (s *Service) Played() int64 {
	return s.played.Load()
}

// Play queues one effect, false when disabled, muted or unknown
func (s *Service) Play(snd Sound) bool {
	if s.disabled.Load() || s.muted.Load() || s.output == nil {
		return false
	}
	st := Effect(snd, s.cfg)
	if st == nil {
		return false
	}
	s.output(st)
	s.played.Add(1)
	return true
}

// EventTypes implements event.Handler
func (s *Service) EventTypes() []event.Type {
	return []event.Type{
		event.EventCannonFired,
		event.EventShipHit,
		event.EventShipSunk,
		event.EventShipsRammed,
	}
}

// HandleEvent implements event.Handler
func (s *Service) HandleEvent(ev event.GameEvent) {
	if snd, ok := soundFor(ev.Type); ok {
		s.Play(snd)
	}
}

func soundFor(t event.Type) (Sound, bool) {
	switch t {
	case event.EventCannonFired:
		return SoundCannon, true
	case event.EventShipHit:
		return SoundImpact, true
	case event.EventShipSunk:
		return SoundSink, true
	case event.EventShipsRammed:
		return SoundRam, true
	}
	return 0, false
}
