package geom

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Vector is the chipmunk vector type. Screen space: +Y points down.
type Vector = cp.Vector

var (
	Zero  = Vector{}
	One   = Vector{X: 1, Y: 1}
	Up    = Vector{X: 0, Y: -1}
	Down  = Vector{X: 0, Y: 1}
	Left  = Vector{X: -1, Y: 0}
	Right = Vector{X: 1, Y: 0}
)

// V is shorthand for a vector literal.
func V(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Normalize returns the unit vector of v, or the zero vector when v has no length.
func Normalize(v Vector) Vector {
	l := v.Length()
	if l == 0 {
		return Zero
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Perpendicular rotates v by -90 degrees: (y, -x).
func Perpendicular(v Vector) Vector {
	return Vector{X: v.Y, Y: -v.X}
}

// Normal is the unit perpendicular of v. For counter-clockwise polygon sides
// this points out of the shape.
func Normal(v Vector) Vector {
	return Normalize(Perpendicular(v))
}

// CrossScalar is the 2D cross product of a scalar (angular quantity) and a vector.
func CrossScalar(s float64, v Vector) Vector {
	return Vector{X: -s * v.Y, Y: s * v.X}
}

// Rotate rotates v by angle radians around the origin.
func Rotate(v Vector, angle float64) Vector {
	sin, cos := math.Sincos(angle)
	return Vector{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// IsValid reports whether both components are finite numbers.
func IsValid(v Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Equals compares two vectors within tolerance.
func Equals(a, b Vector, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance
}

// Average returns the centroid of the points, or zero for an empty slice.
func Average(points []Vector) Vector {
	if len(points) == 0 {
		return Zero
	}
	var sum Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mult(1 / float64(len(points)))
}
