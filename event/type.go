// Package event carries combat events from the simulation to services
package event

import "github.com/go-gl/mathgl/mgl64"

// Type identifies what happened
type Type uint8

const (
	EventNone Type = iota
	EventCannonFired
	EventShipHit
	EventShipSunk
	EventShipsRammed
	EventPauseToggled
)

func (t Type) String() string {
	switch t {
	case EventCannonFired:
		return "CannonFired"
	case EventShipHit:
		return "ShipHit"
	case EventShipSunk:
		return "ShipSunk"
	case EventShipsRammed:
		return "ShipsRammed"
	case EventPauseToggled:
		return "PauseToggled"
	default:
		return "None"
	}
}

// GameEvent is a flat value so the ring buffer never allocates per event
type GameEvent struct {
	Type Type
	Tick uint64

	// Subject is the acting ship, Target the one affected
	Subject string
	Target  string

	// Value carries damage dealt or remaining health depending on Type
	Value int

	Position mgl64.Vec3
}
