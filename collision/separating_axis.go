package collision

import (
	"math"

	"github.com/milk9111/collide2d/geom"
)

// findPolygonPolygonSeparation looks for the side of a that b penetrates
// least. A positive separation means the polygons are apart.
func findPolygonPolygonSeparation(a, b *Polygon) SeparationInfo {
	best := SeparationInfo{Collider: a, Separation: -math.MaxFloat64, SideID: -1}
	for i, side := range a.sides {
		axis := side.Normal()
		vert := b.FurthestPoint(axis.Neg())
		if s := side.DistanceToPoint(vert, true); s > best.Separation {
			best.Separation = s
			best.Side = side
			best.Axis = axis
			best.SideID = i
			best.Point = vert
		}
	}
	if best.SideID < 0 {
		best.Separation = math.MaxFloat64
		return best
	}

	best.HasSide = true
	best.LocalSide = a.localSides[best.SideID]
	best.LocalAxis = best.LocalSide.Normal()
	best.LocalPoint = b.toLocal(best.Point)
	return best
}

// findCirclePolygonSeparation runs SAT over the polygon normals plus the axis
// from the nearest vertex to the circle center. It returns the minimum
// translation along the axis of least overlap.
func findCirclePolygonSeparation(circle *Circle, poly *Polygon) (geom.Vector, bool) {
	axes := poly.Axes()

	center := circle.Center()
	if len(poly.transformed) > 0 {
		closest := poly.transformed[0]
		for _, pt := range poly.transformed[1:] {
			if pt.DistanceSq(center) < closest.DistanceSq(center) {
				closest = pt
			}
		}
		axis := geom.Normalize(center.Sub(closest))
		if axis == geom.Zero {
			axis = geom.Right
		}
		axes = append(axes, axis)
	}

	minOverlap := math.MaxFloat64
	var minAxis geom.Vector
	found := false
	for _, axis := range axes {
		overlap := poly.Project(axis).Overlap(circle.Project(axis))
		if overlap <= 0 {
			return geom.Zero, false
		}
		if overlap < minOverlap {
			minOverlap = overlap
			minAxis = axis
			found = true
		}
	}
	if !found {
		return geom.Zero, false
	}
	return minAxis.Mult(minOverlap), true
}
