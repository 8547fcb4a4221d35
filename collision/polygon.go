package collision

import (
	"image/color"
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collide2d/geom"
)

// Polygon is a convex polygon with points stored counter-clockwise, relative
// to the collider offset.
type Polygon struct {
	colliderBase

	points []geom.Vector

	transformed []geom.Vector
	sides       []geom.LineSegment
	localSides  []geom.LineSegment
	bounds      geom.BoundingBox
}

// NewPolygon winds points counter-clockwise. Concave input is kept but logged,
// since SAT assumes convexity.
func NewPolygon(points []geom.Vector, offset geom.Vector) *Polygon {
	p := &Polygon{colliderBase: newColliderBase(offset)}
	p.setPoints(points)
	p.Update(nil)
	return p
}

// NewBox builds a width x height rectangle with anchor in 0..1 on each axis.
func NewBox(width, height float64, anchor, offset geom.Vector) *Polygon {
	return NewPolygon(geom.FromDimension(width, height, anchor, geom.Zero).Points(), offset)
}

func (p *Polygon) setPoints(points []geom.Vector) {
	pts := make([]geom.Vector, len(points))
	copy(pts, points)
	if !isCounterClockwise(pts) {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	p.points = pts
	if len(pts) >= 3 && !p.IsConvex() {
		log.Printf("collision: polygon %d is not convex, collisions may be wrong; consider Triangulate", p.id)
	}
	p.buildLocalSides()
}

func (p *Polygon) buildLocalSides() {
	p.localSides = make([]geom.LineSegment, len(p.points))
	for i := range p.points {
		next := p.points[(i+1)%len(p.points)]
		p.localSides[i] = geom.NewLineSegment(p.points[i].Add(p.offset), next.Add(p.offset))
	}
}

// scratchPolygon builds an id-less polygon for intermediate computations.
// It never emits events or logs.
func scratchPolygon(points []geom.Vector) *Polygon {
	p := &Polygon{}
	pts := make([]geom.Vector, len(points))
	copy(pts, points)
	if !isCounterClockwise(pts) {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	p.points = pts
	p.localSides = make([]geom.LineSegment, len(pts))
	for i := range pts {
		p.localSides[i] = geom.NewLineSegment(pts[i], pts[(i+1)%len(pts)])
	}
	p.Update(nil)
	return p
}

func isCounterClockwise(points []geom.Vector) bool {
	sum := 0.0
	for i := range points {
		a := points[i]
		b := points[(i+1)%len(points)]
		sum += (b.X - a.X) * (b.Y + a.Y)
	}
	return sum < 0
}

func (p *Polygon) Kind() ShapeKind {
	return KindPolygon
}

// Points returns the local points.
func (p *Polygon) Points() []geom.Vector {
	return p.points
}

func (p *Polygon) SetPoints(points []geom.Vector) {
	p.setPoints(points)
	p.Update(p.transform)
	if p.owner != nil {
		p.owner.InvalidateInertia()
	}
}

func (p *Polygon) SetOffset(offset geom.Vector) {
	p.offset = offset
	p.buildLocalSides()
	p.Update(p.transform)
}

func (p *Polygon) Update(tx *Transform) {
	p.transform = tx
	m := tx.Matrix()

	if cap(p.transformed) < len(p.points) {
		p.transformed = make([]geom.Vector, len(p.points))
	}
	p.transformed = p.transformed[:len(p.points)]
	for i, pt := range p.points {
		p.transformed[i] = m.Apply(pt.Add(p.offset))
	}

	if cap(p.sides) < len(p.points) {
		p.sides = make([]geom.LineSegment, len(p.points))
	}
	p.sides = p.sides[:len(p.points)]
	for i := range p.transformed {
		p.sides[i] = geom.NewLineSegment(p.transformed[i], p.transformed[(i+1)%len(p.transformed)])
	}
	p.bounds = geom.FromPoints(p.transformed)
}

// TransformedPoints returns the world points.
func (p *Polygon) TransformedPoints() []geom.Vector {
	return p.transformed
}

// Sides returns the world sides. Side i runs from point i to point i+1.
func (p *Polygon) Sides() []geom.LineSegment {
	return p.sides
}

// LocalSides returns the sides in the owner's local space.
func (p *Polygon) LocalSides() []geom.LineSegment {
	return p.localSides
}

func (p *Polygon) Center() geom.Vector {
	return geom.Average(p.transformed)
}

func (p *Polygon) Bounds() geom.BoundingBox {
	return p.bounds
}

func (p *Polygon) LocalBounds() geom.BoundingBox {
	return geom.FromPoints(p.points).Translate(p.offset)
}

// FurthestPoint returns the first world point with the largest projection.
func (p *Polygon) FurthestPoint(direction geom.Vector) geom.Vector {
	return furthest(p.transformed, direction)
}

func (p *Polygon) FurthestLocalPoint(direction geom.Vector) geom.Vector {
	return furthest(p.points, direction).Add(p.offset)
}

func furthest(points []geom.Vector, direction geom.Vector) geom.Vector {
	if len(points) == 0 {
		return geom.Zero
	}
	best := points[0]
	max := best.Dot(direction)
	for _, pt := range points[1:] {
		if d := pt.Dot(direction); d > max {
			max = d
			best = pt
		}
	}
	return best
}

// FindSide returns the world side whose normal best matches direction.
func (p *Polygon) FindSide(direction geom.Vector) geom.LineSegment {
	if i := findSide(p.sides, direction); i >= 0 {
		return p.sides[i]
	}
	return geom.LineSegment{}
}

// FindLocalSide is FindSide in the owner's local space; direction is local
// too.
func (p *Polygon) FindLocalSide(direction geom.Vector) geom.LineSegment {
	if i := findSide(p.localSides, direction); i >= 0 {
		return p.localSides[i]
	}
	return geom.LineSegment{}
}

func findSide(sides []geom.LineSegment, direction geom.Vector) int {
	best := -1
	max := -math.MaxFloat64
	for i, side := range sides {
		if mag := side.Normal().Dot(direction); mag > max {
			max = mag
			best = i
		}
	}
	return best
}

// ClosestFace returns the side nearest to point and the vector from that
// side's line to the point along its normal.
func (p *Polygon) ClosestFace(point geom.Vector) (geom.Vector, geom.LineSegment, bool) {
	min := math.MaxFloat64
	idx := -1
	for i, side := range p.sides {
		if d := side.DistanceToPoint(point, false); d < min {
			min = d
			idx = i
		}
	}
	if idx < 0 {
		return geom.Zero, geom.LineSegment{}, false
	}
	return p.sides[idx].Normal().Mult(min), p.sides[idx], true
}

// Contains counts crossings of a ray cast to +X.
func (p *Polygon) Contains(point geom.Vector) bool {
	ray := geom.NewRay(point, geom.Right)
	crossings := 0
	for _, side := range p.sides {
		if ray.Intersect(side) >= 0 {
			crossings++
		}
	}
	return crossings%2 != 0
}

func (p *Polygon) RayCast(ray geom.Ray, max float64) (geom.Vector, bool) {
	minDistance := math.MaxFloat64
	hit := false
	for _, side := range p.sides {
		t := ray.Intersect(side)
		if t >= 0 && t < minDistance && t <= max {
			minDistance = t
			hit = true
		}
	}
	if !hit {
		return geom.Zero, false
	}
	return ray.Point(minDistance), true
}

func (p *Polygon) Project(axis geom.Vector) geom.Projection {
	return projectPoints(p.transformed, axis)
}

func projectPoints(points []geom.Vector, axis geom.Vector) geom.Projection {
	proj := geom.Projection{Min: math.MaxFloat64, Max: -math.MaxFloat64}
	for _, pt := range points {
		d := pt.Dot(axis)
		proj.Min = math.Min(proj.Min, d)
		proj.Max = math.Max(proj.Max, d)
	}
	return proj
}

// Axes returns the outward side normals in world space.
func (p *Polygon) Axes() []geom.Vector {
	axes := make([]geom.Vector, len(p.sides))
	for i, side := range p.sides {
		axes[i] = side.Normal()
	}
	return axes
}

func (p *Polygon) Inertia(mass float64) float64 {
	if len(p.points) < 3 {
		return 0
	}
	return cp.MomentForPoly(mass, len(p.points), p.points, p.offset, 0)
}

// IsConvex walks the turning angles; a simple convex polygon turns one way
// and sums to a single revolution.
func (p *Polygon) IsConvex() bool {
	n := len(p.points)
	if n < 3 {
		return false
	}

	oldPoint := p.points[n-2]
	newPoint := p.points[n-1]
	direction := math.Atan2(newPoint.Y-oldPoint.Y, newPoint.X-oldPoint.X)
	orientation := 0.0
	angleSum := 0.0

	for i, point := range p.points {
		oldPoint = newPoint
		oldDirection := direction
		newPoint = point
		if oldPoint == newPoint {
			return false
		}
		direction = math.Atan2(newPoint.Y-oldPoint.Y, newPoint.X-oldPoint.X)

		angle := direction - oldDirection
		if angle <= -math.Pi {
			angle += 2 * math.Pi
		} else if angle > math.Pi {
			angle -= 2 * math.Pi
		}

		if i == 0 {
			if angle == 0 {
				return false
			}
			orientation = 1
			if angle < 0 {
				orientation = -1
			}
		} else if orientation*angle <= 0 {
			return false
		}
		angleSum += angle
	}
	return math.Abs(math.Round(angleSum/(2*math.Pi))) == 1
}

// Triangulate splits the polygon into triangles by ear clipping. It works for
// concave simple polygons.
func (p *Polygon) Triangulate() (*Composite, error) {
	if len(p.points) < 3 {
		return nil, ErrTooFewPoints
	}

	indices := make([]int, len(p.points))
	for i := range indices {
		indices[i] = i
	}

	var triangles [][3]int
	for len(indices) > 3 {
		clipped := false
		for i := range indices {
			prev := indices[(i-1+len(indices))%len(indices)]
			cur := indices[i]
			next := indices[(i+1)%len(indices)]
			if !p.isEar(indices, prev, cur, next) {
				continue
			}
			triangles = append(triangles, [3]int{prev, cur, next})
			indices = append(indices[:i], indices[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			// degenerate input, fan out what is left
			for i := 1; i < len(indices)-1; i++ {
				triangles = append(triangles, [3]int{indices[0], indices[i], indices[i+1]})
			}
			indices = indices[:0]
			break
		}
	}
	if len(indices) == 3 {
		triangles = append(triangles, [3]int{indices[0], indices[1], indices[2]})
	}

	return p.toComposite(triangles), nil
}

func (p *Polygon) isEar(indices []int, prev, cur, next int) bool {
	a, b, c := p.points[prev], p.points[cur], p.points[next]
	if b.Sub(a).Cross(c.Sub(b)) <= 0 {
		return false
	}
	for _, idx := range indices {
		if idx == prev || idx == cur || idx == next {
			continue
		}
		if pointInTriangle(p.points[idx], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(pt, a, b, c geom.Vector) bool {
	d1 := b.Sub(a).Cross(pt.Sub(a))
	d2 := c.Sub(b).Cross(pt.Sub(b))
	d3 := a.Sub(c).Cross(pt.Sub(c))
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}

// Tessellate fans triangles out from the first point. Only valid for convex
// polygons.
func (p *Polygon) Tessellate() *Composite {
	var triangles [][3]int
	for i := 1; i < len(p.points)-1; i++ {
		triangles = append(triangles, [3]int{0, i, i + 1})
	}
	return p.toComposite(triangles)
}

func (p *Polygon) toComposite(triangles [][3]int) *Composite {
	children := make([]Collider, 0, len(triangles))
	for _, tri := range triangles {
		children = append(children, NewPolygon([]geom.Vector{
			p.points[tri[0]],
			p.points[tri[1]],
			p.points[tri[2]],
		}, p.offset))
	}
	comp := NewComposite(children...)
	if p.transform != nil {
		comp.Update(p.transform)
	}
	return comp
}

func (p *Polygon) Collide(other Collider) ([]*Contact, error) {
	return Collide(p, other)
}

func (p *Polygon) ClosestLineBetween(other Collider) (geom.LineSegment, error) {
	return ClosestLineBetween(p, other)
}

func (p *Polygon) Debug(r DebugRenderer, col color.Color) {
	for _, side := range p.sides {
		r.DrawLine(side.Begin, side.End, col)
	}
}
