package collision

import (
	"fmt"
	"math"

	"github.com/milk9111/collide2d/geom"
)

// edgeExtrusion is how far an edge is thickened into a polygon for SAT.
const edgeExtrusion = 100

type collideFunc func(a, b Collider) []*Contact

// collideTable is indexed by [kind of A][kind of B]. Entries below the
// diagonal run the canonical routine with the arguments swapped and flip the
// result, so collide(a, b) and collide(b, a) are exact negations.
var collideTable = newCollideTable()

func newCollideTable() [kindCount][kindCount]collideFunc {
	var t [kindCount][kindCount]collideFunc

	t[KindCircle][KindCircle] = func(a, b Collider) []*Contact {
		return circleCircle(a.(*Circle), b.(*Circle))
	}
	t[KindCircle][KindPolygon] = func(a, b Collider) []*Contact {
		return circlePolygon(a.(*Circle), b.(*Polygon))
	}
	t[KindCircle][KindEdge] = func(a, b Collider) []*Contact {
		return circleEdge(a.(*Circle), b.(*Edge))
	}
	t[KindPolygon][KindPolygon] = func(a, b Collider) []*Contact {
		return polygonPolygon(a.(*Polygon), b.(*Polygon))
	}
	t[KindPolygon][KindEdge] = func(a, b Collider) []*Contact {
		return polygonEdge(a.(*Polygon), b.(*Edge))
	}
	t[KindEdge][KindEdge] = func(a, b Collider) []*Contact {
		return edgeEdge(a.(*Edge), b.(*Edge))
	}

	t[KindPolygon][KindCircle] = flipped(t[KindCircle][KindPolygon])
	t[KindEdge][KindCircle] = flipped(t[KindCircle][KindEdge])
	t[KindEdge][KindPolygon] = flipped(t[KindPolygon][KindEdge])
	return t
}

func flipped(fn collideFunc) collideFunc {
	return func(a, b Collider) []*Contact {
		return FlipContacts(fn(b, a))
	}
}

func collideShapes(a, b Collider) ([]*Contact, error) {
	ka, kb := a.Kind(), b.Kind()
	if ka < 0 || ka >= kindCount || kb < 0 || kb >= kindCount || collideTable[ka][kb] == nil {
		return nil, fmt.Errorf("collision: collide %s with %s: %w", ka, kb, ErrUnknownShape)
	}
	fn := collideTable[ka][kb]
	if ka == kb && a.ID() > b.ID() {
		return FlipContacts(fn(b, a)), nil
	}
	return fn(a, b), nil
}

func circleCircle(a, b *Circle) []*Contact {
	posA := a.Center()
	posB := b.Center()
	combined := a.Radius() + b.Radius()
	distance := posA.Distance(posB)
	if distance > combined {
		return nil
	}

	overlap := combined - distance
	normal := geom.Normalize(posB.Sub(posA))
	if normal == geom.Zero {
		normal = geom.Right
	}
	tangent := geom.Perpendicular(normal)
	mtv := normal.Mult(overlap)

	point := a.FurthestPoint(normal)
	local := a.toLocal(point)
	info := SeparationInfo{
		Collider:   a,
		Separation: -overlap,
		Axis:       normal,
		Point:      point,
		LocalPoint: local,
	}
	return []*Contact{NewContact(a, b, mtv, normal, tangent, []geom.Vector{point}, []geom.Vector{local}, info)}
}

func circlePolygon(circle *Circle, poly *Polygon) []*Contact {
	mtv, ok := findCirclePolygonSeparation(circle, poly)
	if !ok {
		return nil
	}
	// point away from the circle
	if mtv.Dot(poly.Center().Sub(circle.Center())) < 0 {
		mtv = mtv.Neg()
	}
	normal := geom.Normalize(mtv)

	point := circle.FurthestPoint(normal)
	local := circle.toLocal(point)
	info := SeparationInfo{
		Collider:   poly,
		Separation: -mtv.Length(),
		Axis:       normal,
		Point:      point,
		LocalPoint: local,
	}
	if i := findSide(poly.sides, normal.Neg()); i >= 0 {
		info.HasSide = true
		info.SideID = i
		info.Side = poly.sides[i]
		info.LocalSide = poly.localSides[i]
	}
	return []*Contact{NewContact(circle, poly, mtv, normal, geom.Perpendicular(normal), []geom.Vector{point}, []geom.Vector{local}, info)}
}

// circleEdge splits the plane into the regions past each end of the edge
// and the band alongside it.
func circleEdge(circle *Circle, edge *Edge) []*Contact {
	line := edge.AsLine()
	begin := line.Begin
	end := line.End
	center := circle.Center()
	r := circle.Radius()
	e := line.Edge()

	u := e.Dot(end.Sub(center))
	v := center.Sub(begin).Dot(e)

	info := SeparationInfo{
		Collider:  edge,
		Side:      line,
		LocalSide: edge.AsLocalLine(),
		HasSide:   true,
	}

	endpoint := func(p geom.Vector) []*Contact {
		d := p.Sub(center)
		dd := d.Dot(d)
		if dd > r*r {
			return nil
		}
		overlap := r - math.Sqrt(dd)
		normal := geom.Normalize(d)
		if normal == geom.Zero {
			normal = line.Normal()
		}
		info.Separation = -overlap
		info.Axis = normal
		info.Point = p
		info.LocalPoint = circle.toLocal(p)
		return []*Contact{NewContact(circle, edge, normal.Mult(overlap), normal, geom.Perpendicular(normal),
			[]geom.Vector{p}, []geom.Vector{info.LocalPoint}, info)}
	}

	if v <= 0 {
		return endpoint(begin)
	}
	if u <= 0 {
		return endpoint(end)
	}

	den := e.Dot(e)
	pointOnEdge := begin.Mult(u).Add(end.Mult(v)).Mult(1 / den)
	d := center.Sub(pointOnEdge)
	dd := d.Dot(d)
	if dd > r*r {
		return nil
	}

	n := geom.Perpendicular(e)
	if n.Dot(center.Sub(begin)) < 0 {
		n = n.Neg()
	}
	// n points from the edge to the circle; contacts point circle to edge
	normal := geom.Normalize(n).Neg()
	overlap := r - math.Sqrt(dd)

	info.Separation = -overlap
	info.Axis = normal
	info.Point = pointOnEdge
	info.LocalPoint = circle.toLocal(pointOnEdge)
	return []*Contact{NewContact(circle, edge, normal.Mult(overlap), normal, geom.Perpendicular(normal),
		[]geom.Vector{pointOnEdge}, []geom.Vector{info.LocalPoint}, info)}
}

// polygonPolygon finds the least-penetrated side of either polygon and clips
// the most opposed side of the other against it, giving up to two points.
func polygonPolygon(a, b *Polygon) []*Contact {
	sepA := findPolygonPolygonSeparation(a, b)
	if sepA.Separation > 0 {
		return nil
	}
	sepB := findPolygonPolygonSeparation(b, a)
	if sepB.Separation > 0 {
		return nil
	}

	// both negative, pick the least movement
	sep := sepA
	if sepB.Separation > sepA.Separation {
		sep = sepB
	}
	other := b
	if sep.Collider != Collider(a) {
		other = a
	}

	incident := other.FindSide(sep.Axis.Neg())
	reference := sep.Side
	refDir := reference.Slope()

	clipRight, ok := incident.Clip(refDir.Neg(), -refDir.Dot(reference.Begin))
	if !ok {
		return nil
	}
	clipLeft, ok := clipRight.Clip(refDir, refDir.Dot(reference.End))
	if !ok {
		return nil
	}

	points := make([]geom.Vector, 0, 2)
	for _, p := range clipLeft.Points() {
		if reference.Below(p) {
			points = append(points, p)
		}
	}

	normal := sep.Axis
	if b.Center().Sub(a.Center()).Dot(normal) < 0 {
		normal = normal.Neg()
	}
	tangent := geom.Perpendicular(normal)

	// points come from the incident side, store them in its space
	localPoints := make([]geom.Vector, len(points))
	for i, p := range points {
		localPoints[i] = other.toLocal(p)
	}

	return []*Contact{NewContact(a, b, normal.Mult(-sep.Separation), normal, tangent, points, localPoints, sep)}
}

// polygonEdge extrudes the edge away from the polygon into a temporary quad
// and reuses the polygon routine.
func polygonEdge(poly *Polygon, edge *Edge) []*Contact {
	line := edge.AsLine()
	if line.Length() == 0 {
		return nil
	}
	dir := line.Normal()
	if dir.Dot(edge.Center().Sub(poly.Center())) < 0 {
		dir = dir.Neg()
	}

	extrusion := dir.Mult(edgeExtrusion)
	quad := scratchPolygon([]geom.Vector{
		line.Begin,
		line.End,
		line.End.Add(extrusion),
		line.Begin.Add(extrusion),
	})

	contacts := polygonPolygon(poly, quad)
	if len(contacts) == 0 {
		return nil
	}
	c := contacts[0]

	info := c.Info
	localPoints := c.LocalPoints
	if info.Collider == Collider(quad) {
		info.Collider = edge
		info.LocalSide = info.Side
	} else {
		localPoints = make([]geom.Vector, len(c.Points))
		for i, p := range c.Points {
			localPoints[i] = edge.toLocal(p)
		}
		info.LocalPoint = edge.toLocal(info.Point)
	}
	return []*Contact{NewContact(poly, edge, c.MTV, c.Normal, c.Tangent, c.Points, localPoints, info)}
}

// edgeEdge never reports contact. Edges are treated as static boundaries.
func edgeEdge(a, b *Edge) []*Contact {
	return nil
}

// FindContactSeparation recomputes the signed separation at a stored local
// contact point from the bodies' current transforms. Negative means overlap.
func FindContactSeparation(contact *Contact, localPoint geom.Vector) (float64, error) {
	a, b := contact.ColliderA, contact.ColliderB
	ka, kb := a.Kind(), b.Kind()
	info := contact.Info

	switch {
	case ka == KindCircle && kb == KindCircle:
		ca := liveTransform(a).Apply(a.Offset())
		cb := liveTransform(b).Apply(b.Offset())
		return ca.Distance(cb) - (a.(*Circle).Radius() + b.(*Circle).Radius()), nil

	case ka == KindPolygon && kb == KindPolygon:
		if !info.HasSide {
			break
		}
		ref, other := a, b
		if info.Collider != a {
			ref, other = b, a
		}
		side := info.LocalSide.Transform(liveTransform(ref).Matrix())
		return side.DistanceToPoint(liveTransform(other).Apply(localPoint), true), nil

	case ka == KindCircle && kb == KindPolygon, ka == KindPolygon && kb == KindCircle:
		if !info.HasSide {
			break
		}
		circle, poly := a, b
		if ka == KindPolygon {
			circle, poly = b, a
		}
		side := info.LocalSide.Transform(liveTransform(poly).Matrix())
		return side.DistanceToPoint(liveTransform(circle).Apply(localPoint), true), nil

	case ka == KindPolygon && kb == KindEdge, ka == KindEdge && kb == KindPolygon:
		if !info.HasSide {
			break
		}
		poly, edge := a, b
		if ka == KindEdge {
			poly, edge = b, a
		}
		if info.Collider == edge {
			// reference side came from the extruded quad, already world space
			return info.Side.DistanceToPoint(liveTransform(poly).Apply(localPoint), true), nil
		}
		side := info.LocalSide.Transform(liveTransform(poly).Matrix())
		return side.DistanceToPoint(liveTransform(edge).Apply(localPoint), true), nil

	case ka == KindCircle && kb == KindEdge, ka == KindEdge && kb == KindCircle:
		circle, edge := a, b
		if ka == KindEdge {
			circle, edge = b, a
		}
		center := liveTransform(circle).Apply(circle.Offset())
		line := edge.(*Edge).AsLocalLine().Transform(liveTransform(edge).Matrix())
		return line.ClosestPoint(center).Distance(center) - circle.(*Circle).Radius(), nil
	}

	return 0, fmt.Errorf("collision: separation between %s and %s: %w", ka, kb, ErrUnknownShape)
}
