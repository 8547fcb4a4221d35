package collision

import (
	"fmt"
	"math"

	"github.com/milk9111/collide2d/geom"
)

type closestLineFunc func(a, b Collider) geom.LineSegment

// closestLineTable mirrors collideTable. Results run from A to B.
var closestLineTable = newClosestLineTable()

func newClosestLineTable() [kindCount][kindCount]closestLineFunc {
	var t [kindCount][kindCount]closestLineFunc

	t[KindCircle][KindCircle] = func(a, b Collider) geom.LineSegment {
		return circleCircleClosestLine(a.(*Circle), b.(*Circle))
	}
	t[KindCircle][KindPolygon] = func(a, b Collider) geom.LineSegment {
		return circlePolygonClosestLine(a.(*Circle), b.(*Polygon))
	}
	t[KindCircle][KindEdge] = func(a, b Collider) geom.LineSegment {
		return circleEdgeClosestLine(a.(*Circle), b.(*Edge))
	}
	t[KindPolygon][KindPolygon] = func(a, b Collider) geom.LineSegment {
		return shortestBetweenSides(a.(*Polygon).Sides(), b.(*Polygon).Sides())
	}
	t[KindPolygon][KindEdge] = func(a, b Collider) geom.LineSegment {
		return shortestBetweenSides(a.(*Polygon).Sides(), []geom.LineSegment{b.(*Edge).AsLine()})
	}
	t[KindEdge][KindEdge] = func(a, b Collider) geom.LineSegment {
		return shortestBetweenSides([]geom.LineSegment{a.(*Edge).AsLine()}, []geom.LineSegment{b.(*Edge).AsLine()})
	}

	t[KindPolygon][KindCircle] = reversedLine(t[KindCircle][KindPolygon])
	t[KindEdge][KindCircle] = reversedLine(t[KindCircle][KindEdge])
	t[KindEdge][KindPolygon] = reversedLine(t[KindPolygon][KindEdge])
	return t
}

func reversedLine(fn closestLineFunc) closestLineFunc {
	return func(a, b Collider) geom.LineSegment {
		line := fn(b, a)
		return geom.LineSegment{Begin: line.End, End: line.Begin}
	}
}

func closestLineShapes(a, b Collider) (geom.LineSegment, error) {
	ka, kb := a.Kind(), b.Kind()
	if ka < 0 || ka >= kindCount || kb < 0 || kb >= kindCount || closestLineTable[ka][kb] == nil {
		return geom.LineSegment{}, fmt.Errorf("collision: closest line %s to %s: %w", ka, kb, ErrUnknownShape)
	}
	return closestLineTable[ka][kb](a, b), nil
}

func circleCircleClosestLine(a, b *Circle) geom.LineSegment {
	dir := geom.Normalize(b.Center().Sub(a.Center()))
	if dir == geom.Zero {
		dir = geom.Right
	}
	return geom.LineSegment{
		Begin: a.Center().Add(dir.Mult(a.Radius())),
		End:   b.Center().Sub(dir.Mult(b.Radius())),
	}
}

func circlePolygonClosestLine(circle *Circle, poly *Polygon) geom.LineSegment {
	center := circle.Center()
	closest := geom.Zero
	best := math.MaxFloat64
	for _, side := range poly.Sides() {
		p := side.ClosestPoint(center)
		if d := p.DistanceSq(center); d < best {
			best = d
			closest = p
		}
	}
	return circleToPoint(circle, closest)
}

func circleEdgeClosestLine(circle *Circle, edge *Edge) geom.LineSegment {
	return circleToPoint(circle, edge.AsLine().ClosestPoint(circle.Center()))
}

func circleToPoint(circle *Circle, p geom.Vector) geom.LineSegment {
	dir := geom.Normalize(p.Sub(circle.Center()))
	if dir == geom.Zero {
		dir = geom.Right
	}
	return geom.LineSegment{Begin: circle.Center().Add(dir.Mult(circle.Radius())), End: p}
}

func shortestBetweenSides(as, bs []geom.LineSegment) geom.LineSegment {
	var best geom.LineSegment
	bestLength := math.MaxFloat64
	for _, a := range as {
		for _, b := range bs {
			line := geom.ClosestLine(a.Begin, a.Edge(), b.Begin, b.Edge())
			if l := line.Length(); l < bestLength {
				bestLength = l
				best = line
			}
		}
	}
	return best
}
