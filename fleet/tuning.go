// Package fleet implements the ships and cannonballs of a naval engagement
package fleet

import (
	"time"

	"github.com/lixenwraith/broadside/physics"
)

// Canonical tuning values, scene files override them per ship
const (
	DefaultDamage       = 5
	DefaultEnemyHealth  = 15
	DefaultPlayerHealth = 5

	// SinkGravity is restored on a ship whose health reaches zero
	SinkGravity = physics.DefaultGravity

	PatrolInterval     = 12 * time.Second
	DefaultPatrolSpeed = 2.0
	DefaultMoveSpeed   = 4.0

	DefaultFireInterval = 3 * time.Second

	DefaultCannonballRadius = 0.125
	DefaultCannonSpeed      = 10.0

	// DefaultWorldFloor is the height below which cannonballs return to their pool
	DefaultWorldFloor = -10.0
)

// CannonConfig describes how a ship launches cannonballs
type CannonConfig struct {
	Speed float64
	// Lift is added to the y component of the aim before normalizing
	Lift float64
	// Muzzle offsets the launch point from the ship position
	MuzzleHeight float64
}

// DefaultCannon fires flat at DefaultCannonSpeed
func DefaultCannon() CannonConfig {
	return CannonConfig{Speed: DefaultCannonSpeed}
}
