// Package geom holds the vector, rotation, ray and camera math shared by the
// beam projection and selection code. Rotations follow the Euler XYZ convention
// used by the browser renderer: R = Rx * Ry * Rz.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Down is the local "down" axis of every fixture. A fixture with identity
// orientation points straight at the floor.
var Down = mgl64.Vec3{0, -1, 0}

// Up is the world up axis and the stage top normal.
var Up = mgl64.Vec3{0, 1, 0}

// QuatFromEuler builds an orientation from Euler angles (radians) in XYZ order.
func QuatFromEuler(x, y, z float64) mgl64.Quat {
	qx := mgl64.QuatRotate(x, mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(y, mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(z, mgl64.Vec3{0, 0, 1})
	return qx.Mul(qy).Mul(qz).Normalize()
}

// EulerFromQuat decomposes an orientation into XYZ Euler angles (radians).
// Near gimbal lock (|y| = pi/2) z is pinned to 0.
func EulerFromQuat(q mgl64.Quat) mgl64.Vec3 {
	m := q.Normalize().Mat4()
	m11, m12, m13 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m22, m23 := m.At(1, 1), m.At(1, 2)
	m32, m33 := m.At(2, 1), m.At(2, 2)

	y := math.Asin(mgl64.Clamp(m13, -1, 1))
	var x, z float64
	if math.Abs(m13) < 0.9999999 {
		x = math.Atan2(-m23, m33)
		z = math.Atan2(-m12, m11)
	} else {
		x = math.Atan2(m32, m22)
		z = 0
	}
	return mgl64.Vec3{x, y, z}
}

// DownOf returns the world direction a fixture with the given orientation points at.
func DownOf(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(Down).Normalize()
}

// AimAt returns the minimal rotation that maps Down onto the direction from
// origin to target. ok is false when target coincides with origin.
func AimAt(origin, target mgl64.Vec3) (q mgl64.Quat, ok bool) {
	dir := target.Sub(origin)
	if dir.Len() < 1e-9 {
		return mgl64.QuatIdent(), false
	}
	return mgl64.QuatBetweenVectors(Down, dir.Normalize()).Normalize(), true
}

// SameOrientation reports whether two quaternions describe the same rotation
// (q and -q are equal rotations).
func SameOrientation(a, b mgl64.Quat) bool {
	return math.Abs(a.Normalize().Dot(b.Normalize())) > 1-1e-12
}
