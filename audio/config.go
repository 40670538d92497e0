package audio

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Environment variables read by LoadConfig
const (
	EnvEnabled      = "BROADSIDE_AUDIO_ENABLED"
	EnvMasterVolume = "BROADSIDE_MASTER_VOLUME"
	EnvSFXVolumes   = "BROADSIDE_SFX_VOLUMES"
	EnvSampleRate   = "BROADSIDE_SAMPLE_RATE"
)

// Config holds audio settings
type Config struct {
	Enabled       bool
	MasterVolume  float64
	EffectVolumes [soundCount]float64
	SampleRate    int
}

// DefaultConfig returns audio off with every effect at full volume
func DefaultConfig() *Config {
	cfg := &Config{
		Enabled:      false,
		MasterVolume: 0.5,
		SampleRate:   44100,
	}
	for i := range cfg.EffectVolumes {
		cfg.EffectVolumes[i] = 1.0
	}
	cfg.EffectVolumes[SoundCannon] = 0.8
	return cfg
}

// LoadConfig loads audio configuration from environment variables
func LoadConfig() *Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) *Config {
	cfg := DefaultConfig()

	if enabled := getenv(EnvEnabled); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume is given as 0-100
	if volume := getenv(EnvMasterVolume); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = clamp01(float64(val) / 100.0)
		}
	}

	// Effect volumes are a JSON object keyed by sound name
	if effectVols := getenv(EnvSFXVolumes); effectVols != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(effectVols), &volumes); err != nil {
			log.Printf("[audio] ignoring %s: %v", EnvSFXVolumes, err)
		} else {
			for name, v := range volumes {
				if s, ok := ParseSound(name); ok {
					cfg.EffectVolumes[s] = clamp01(v)
				}
			}
		}
	}

	if sampleRate := getenv(EnvSampleRate); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}

// Volume returns the effective volume of s
func (c *Config) Volume(s Sound) float64 {
	if s < 0 || s >= soundCount {
		return 0
	}
	return c.EffectVolumes[s] * c.MasterVolume
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
