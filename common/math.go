// Package common holds small math helpers shared by the tools.
package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// LerpVec3 interpolates each component.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

// EulerToQuat converts X, Y, Z angles in degrees, applied in that order.
func EulerToQuat(deg mgl32.Vec3) mgl32.Quat {
	q := mgl32.AnglesToQuat(
		mgl32.DegToRad(deg[0]),
		mgl32.DegToRad(deg[1]),
		mgl32.DegToRad(deg[2]),
		mgl32.XYZ,
	)
	return q.Normalize()
}

// approx is an absolute compare. mgl32.FloatEqualThreshold switches to
// eps*eps when either side is zero, which float noise around 0 fails.
func approx(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

// ApproxVec3 compares with an absolute per-component tolerance.
func ApproxVec3(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if !approx(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

// ApproxMat4 compares all sixteen entries with an absolute tolerance.
func ApproxMat4(a, b mgl32.Mat4, eps float32) bool {
	for i := range a {
		if !approx(a[i], b[i], eps) {
			return false
		}
	}
	return true
}

// ApproxQuat treats q and -q as the same rotation.
func ApproxQuat(a, b mgl32.Quat, eps float32) bool {
	same := func(p, q mgl32.Quat) bool {
		return approx(p.W, q.W, eps) && ApproxVec3(p.V, q.V, eps)
	}
	return same(a, b) || same(a, b.Scale(-1))
}
