package collision

import (
	"math"

	"github.com/milk9111/collide2d/geom"
)

// Side is the face of a collider that was hit.
type Side string

const (
	SideNone   Side = "None"
	SideTop    Side = "Top"
	SideBottom Side = "Bottom"
	SideLeft   Side = "Left"
	SideRight  Side = "Right"
)

// Opposite returns the facing side.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideNone
	}
}

// SideFromDirection picks the side whose axis best matches direction.
func SideFromDirection(direction geom.Vector) Side {
	directions := [...]geom.Vector{geom.Left, geom.Right, geom.Up, geom.Down}
	sides := [...]Side{SideLeft, SideRight, SideTop, SideBottom}

	max := -math.MaxFloat64
	idx := -1
	for i, d := range directions {
		if dot := d.Dot(direction); dot > max {
			max = dot
			idx = i
		}
	}
	if idx < 0 {
		return SideNone
	}
	return sides[idx]
}
