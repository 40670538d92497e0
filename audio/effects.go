package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Effect timings
const (
	cannonDuration = 350 * time.Millisecond
	cannonAttack   = 5 * time.Millisecond
	cannonRelease  = 280 * time.Millisecond

	impactDuration = 120 * time.Millisecond
	impactAttack   = 2 * time.Millisecond
	impactRelease  = 90 * time.Millisecond

	sinkNoteDuration = 300 * time.Millisecond
	sinkAttack       = 20 * time.Millisecond
	sinkRelease      = 200 * time.Millisecond

	ramDuration = 500 * time.Millisecond
	ramAttack   = 10 * time.Millisecond
	ramRelease  = 400 * time.Millisecond
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite wave streamer
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies a linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope shapes s with attack and release ramps over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a gain stage, zero or less is silent since Log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CreateCannonSound is a low boom over a noise crack
func CreateCannonSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	boom := NewEnvelope(NewOscillator(55, cannonDuration, WaveSine, rate), cannonDuration, cannonAttack, cannonRelease, rate)
	crack := NewEnvelope(NewOscillator(0, cannonDuration, WaveNoise, rate), cannonDuration, cannonAttack, cannonRelease/2, rate)

	mixed := beep.Mix(newVolume(boom, 0.7), newVolume(crack, 0.4))
	return newVolume(mixed, cfg.Volume(SoundCannon))
}

// CreateImpactSound is a short splintering thud
func CreateImpactSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	thud := NewEnvelope(NewOscillator(180, impactDuration, WaveSquare, rate), impactDuration, impactAttack, impactRelease, rate)
	splinter := NewEnvelope(NewOscillator(0, impactDuration, WaveNoise, rate), impactDuration, impactAttack, impactRelease, rate)

	mixed := beep.Mix(newVolume(thud, 0.5), newVolume(splinter, 0.5))
	return newVolume(mixed, cfg.Volume(SoundImpact))
}

// CreateSinkSound is three falling saw notes
func CreateSinkSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	notes := make([]beep.Streamer, 0, 3)
	for _, freq := range []float64{220, 165, 110} {
		osc := NewOscillator(freq, sinkNoteDuration, WaveSaw, rate)
		notes = append(notes, NewEnvelope(osc, sinkNoteDuration, sinkAttack, sinkRelease, rate))
	}
	return newVolume(beep.Seq(notes...), cfg.Volume(SoundSink))
}

// CreateRamSound is a long grinding crash
func CreateRamSound(cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)

	grind := NewEnvelope(NewOscillator(70, ramDuration, WaveSaw, rate), ramDuration, ramAttack, ramRelease, rate)
	crash := NewEnvelope(NewOscillator(0, ramDuration, WaveNoise, rate), ramDuration, ramAttack, ramRelease, rate)

	mixed := beep.Mix(newVolume(grind, 0.6), newVolume(crash, 0.6))
	return newVolume(mixed, cfg.Volume(SoundRam))
}

// Effect returns a fresh streamer for s, nil for unknown sounds
func Effect(s Sound, cfg *Config) beep.Streamer {
	switch s {
	case SoundCannon:
		return CreateCannonSound(cfg)
	case SoundImpact:
		return CreateImpactSound(cfg)
	case SoundSink:
		return CreateSinkSound(cfg)
	case SoundRam:
		return CreateRamSound(cfg)
	default:
		return nil
	}
}
