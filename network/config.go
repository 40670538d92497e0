// Package network streams simulation snapshots to WebSocket spectators
package network

import (
	"os"
	"time"
)

// EnvAddress enables the spectator feed when set, e.g. ":7777"
const EnvAddress = "BROADSIDE_SPECTATE_ADDR"

// Config holds spectator feed settings
type Config struct {
	// Address to bind, empty disables the service
	Address string
	Path    string

	MaxClients int

	// Timing
	WriteTimeout time.Duration
	PingInterval time.Duration
	PongTimeout  time.Duration

	// Buffer sizes
	ReadBufferSize  int
	WriteBufferSize int
	// SendQueueSize is the per-client backlog, the oldest snapshot is dropped when full
	SendQueueSize int
}

// DefaultConfig returns a disabled feed with sane limits
func DefaultConfig() *Config {
	return &Config{
		Path:            "/spectate",
		MaxClients:      16,
		WriteTimeout:    5 * time.Second,
		PingInterval:    10 * time.Second,
		PongTimeout:     30 * time.Second,
		ReadBufferSize:  1024,
		WriteBufferSize: 64 * 1024,
		SendQueueSize:   8,
	}
}

// ConfigFromEnv applies EnvAddress over the defaults
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	cfg.Address = os.Getenv(EnvAddress)
	return cfg
}
