// Package service runs the long-lived subsystems around the simulation
package service

// Service is the lifecycle of a host subsystem: audio, spectator feed
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration from flags or environment
//  3. Start() - launch background goroutines
//  4. [runtime operation]
//  5. Stop() - halt goroutines, release resources, idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init before this one
	Dependencies() []string

	Init(args ...any) error
	Start() error
	Stop() error
}
