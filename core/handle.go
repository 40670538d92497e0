package core

// Handle identifies a game object inside its scene arena
// Rigidbodies refer to their owner through a Handle, never a pointer
type Handle int32

// NoHandle marks a body with no owning object
const NoHandle Handle = -1

// Valid reports whether h can index an arena
func (h Handle) Valid() bool {
	return h >= 0
}
