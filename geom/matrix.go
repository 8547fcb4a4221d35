package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AffineMatrix is a 2D affine transform stored as a homogeneous 3x3 matrix.
type AffineMatrix struct {
	m mgl64.Mat3
}

// Identity returns the identity transform.
func Identity() AffineMatrix {
	return AffineMatrix{m: mgl64.Ident3()}
}

// NewAffineMatrix composes translate * rotate * scale.
func NewAffineMatrix(pos Vector, rotation float64, scale Vector) AffineMatrix {
	t := mgl64.Translate2D(pos.X, pos.Y)
	r := mgl64.HomogRotate2D(rotation)
	s := mgl64.Scale2D(scale.X, scale.Y)
	return AffineMatrix{m: t.Mul3(r).Mul3(s)}
}

// Translation returns a pure translation matrix.
func Translation(v Vector) AffineMatrix {
	return AffineMatrix{m: mgl64.Translate2D(v.X, v.Y)}
}

// Apply transforms a point.
func (a AffineMatrix) Apply(v Vector) Vector {
	out := a.m.Mul3x1(mgl64.Vec3{v.X, v.Y, 1})
	return Vector{X: out[0], Y: out[1]}
}

// ApplyVector transforms a direction, ignoring translation.
func (a AffineMatrix) ApplyVector(v Vector) Vector {
	out := a.m.Mul3x1(mgl64.Vec3{v.X, v.Y, 0})
	return Vector{X: out[0], Y: out[1]}
}

// Multiply returns a * other (other is applied first).
func (a AffineMatrix) Multiply(other AffineMatrix) AffineMatrix {
	return AffineMatrix{m: a.m.Mul3(other.m)}
}

// Inverse returns the inverse transform. A singular matrix (zero scale)
// inverts to the zero matrix.
func (a AffineMatrix) Inverse() AffineMatrix {
	return AffineMatrix{m: a.m.Inv()}
}

// ApplyInverse maps a world point back into this matrix's local space.
func (a AffineMatrix) ApplyInverse(v Vector) Vector {
	return a.Inverse().Apply(v)
}

// Position is the translation component.
func (a AffineMatrix) Position() Vector {
	return Vector{X: a.m.At(0, 2), Y: a.m.At(1, 2)}
}

// Rotation is the rotation angle in radians.
func (a AffineMatrix) Rotation() float64 {
	return math.Atan2(a.m.At(1, 0), a.m.At(0, 0))
}

// Scale is the per-axis scale magnitude.
func (a AffineMatrix) Scale() Vector {
	sx := math.Hypot(a.m.At(0, 0), a.m.At(1, 0))
	sy := math.Hypot(a.m.At(0, 1), a.m.At(1, 1))
	return Vector{X: sx, Y: sy}
}
