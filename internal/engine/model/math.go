package model

import (
	gomath "math"

	"github.com/Faultbox/quiet-measure/pkg/math"
)

// Cross computes the cross product of two 3D vectors.
func Cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize returns a unit vector in the same direction as v.
func Normalize(v [3]float32) [3]float32 {
	length := sqrtf(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if length < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / length, v[1] / length, v[2] / length}
}

// Decompose splits an affine column-major matrix into translation, rotation and scale.
// Shear is discarded.
func Decompose(m math.Mat4) (math.Vec3, math.Quat, math.Vec3) {
	t := math.Vec3{X: m[12], Y: m[13], Z: m[14]}
	s := math.Vec3{
		X: sqrtf(m[0]*m[0] + m[1]*m[1] + m[2]*m[2]),
		Y: sqrtf(m[4]*m[4] + m[5]*m[5] + m[6]*m[6]),
		Z: sqrtf(m[8]*m[8] + m[9]*m[9] + m[10]*m[10]),
	}
	if s.X == 0 || s.Y == 0 || s.Z == 0 {
		return t, math.QuatIdentity(), s
	}

	// Rotation matrix elements r[row][col].
	r00, r10, r20 := m[0]/s.X, m[1]/s.X, m[2]/s.X
	r01, r11, r21 := m[4]/s.Y, m[5]/s.Y, m[6]/s.Y
	r02, r12, r22 := m[8]/s.Z, m[9]/s.Z, m[10]/s.Z

	var q math.Quat
	trace := r00 + r11 + r22
	switch {
	case trace > 0:
		k := 0.5 / sqrtf(trace+1)
		q = math.Quat{W: 0.25 / k, X: (r21 - r12) * k, Y: (r02 - r20) * k, Z: (r10 - r01) * k}
	case r00 > r11 && r00 > r22:
		k := 2 * sqrtf(1+r00-r11-r22)
		q = math.Quat{W: (r21 - r12) / k, X: 0.25 * k, Y: (r01 + r10) / k, Z: (r02 + r20) / k}
	case r11 > r22:
		k := 2 * sqrtf(1+r11-r00-r22)
		q = math.Quat{W: (r02 - r20) / k, X: (r01 + r10) / k, Y: 0.25 * k, Z: (r12 + r21) / k}
	default:
		k := 2 * sqrtf(1+r22-r00-r11)
		q = math.Quat{W: (r10 - r01) / k, X: (r02 + r20) / k, Y: (r12 + r21) / k, Z: 0.25 * k}
	}
	return t, q.Normalize(), s
}

func sqrtf(x float32) float32 {
	return float32(gomath.Sqrt(float64(x)))
}
