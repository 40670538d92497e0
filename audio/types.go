// Package audio plays synthesized combat sounds through the beep speaker
package audio

import (
	"github.com/pkg/errors"
)

// Sound identifies a combat sound effect
type Sound int

const (
	SoundCannon Sound = iota // Broadside fired
	SoundImpact              // Cannonball struck a hull
	SoundSink                // Ship lost its last health
	SoundRam                 // Two hulls collided
	soundCount
)

var soundNames = [soundCount]string{"cannon", "impact", "sink", "ram"}

func (s Sound) String() string {
	if s < 0 || s >= soundCount {
		return "unknown"
	}
	return soundNames[s]
}

// ParseSound resolves a sound by its config name
func ParseSound(name string) (Sound, bool) {
	for i, n := range soundNames {
		if n == name {
			return Sound(i), true
		}
	}
	return 0, false
}

var ErrAudioDisabled = errors.New("audio disabled")
