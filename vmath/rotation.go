package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// YawMatrix builds a rotation about +y from an angle in degrees
func YawMatrix(degrees float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DY(mgl64.DegToRad(degrees))
}

// Facing rotates Forward by the rotation part of m
func Facing(m mgl64.Mat4) mgl64.Vec3 {
	return m.Mul4x1(Forward.Vec4(0)).Vec3()
}

// YawTowards returns the yaw in degrees that turns Forward onto the xz projection of dir
func YawTowards(dir mgl64.Vec3) float64 {
	if dir[0] == 0 && dir[2] == 0 {
		return 0
	}
	// Forward is -x, HomogRotate3DY maps -x to (-cos, 0, sin)
	return mgl64.RadToDeg(math.Atan2(dir[2], -dir[0]))
}
