package transform

import "github.com/go-gl/mathgl/mgl32"

// Decompose splits an affine translate·rotate·scale matrix into its parts.
// A negative determinant is folded into the X scale. Degenerate axes yield an
// identity rotation rather than NaNs.
func Decompose(m mgl32.Mat4) (translation, scale mgl32.Vec3, rotation mgl32.Quat) {
	translation = m.Col(3).Vec3()

	c0 := m.Col(0).Vec3()
	c1 := m.Col(1).Vec3()
	c2 := m.Col(2).Vec3()
	scale = mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Mat3().Det() < 0 {
		scale[0] = -scale[0]
	}

	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return translation, scale, mgl32.QuatIdent()
	}

	basis := mgl32.Mat4FromCols(
		c0.Mul(1/scale[0]).Vec4(0),
		c1.Mul(1/scale[1]).Vec4(0),
		c2.Mul(1/scale[2]).Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	rotation = mgl32.Mat4ToQuat(basis).Normalize()
	return translation, scale, rotation
}
