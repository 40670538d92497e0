package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Forward is the facing of an unrotated hull, ships point down negative x
var Forward = mgl64.Vec3{-1, 0, 0}

// Down is the default gravity direction
var Down = mgl64.Vec3{0, -1, 0}

// Inf3 returns the parking position used for deactivated bodies
func Inf3() mgl64.Vec3 {
	inf := math.Inf(1)
	return mgl64.Vec3{inf, inf, inf}
}

// IsFinite3 reports whether every component is a finite number
func IsFinite3(v mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsInf(v[i], 0) || math.IsNaN(v[i]) {
			return false
		}
	}
	return true
}

// MinPerAxis caps each component of v at the matching component of limit
// Values below the limit, including large negatives, pass through untouched
func MinPerAxis(v, limit mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Min(v[0], limit[0]),
		math.Min(v[1], limit[1]),
		math.Min(v[2], limit[2]),
	}
}

// Clamp3 clamps v into the box [lo, hi] per axis
func Clamp3(v, lo, hi mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(v[0], lo[0], hi[0]),
		mgl64.Clamp(v[1], lo[1], hi[1]),
		mgl64.Clamp(v[2], lo[2], hi[2]),
	}
}

// NormalizeOrZero returns the unit vector of v, false when v has no length
func NormalizeOrZero(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// Splat returns a vector with all three components set to s
func Splat(s float64) mgl64.Vec3 {
	return mgl64.Vec3{s, s, s}
}

// MulPerAxis is the Hadamard product
func MulPerAxis(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
