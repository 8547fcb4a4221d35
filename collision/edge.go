package collision

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collide2d/geom"
)

// Edge is a one-sided thin segment, usually static level geometry.
type Edge struct {
	colliderBase

	begin geom.Vector
	end   geom.Vector

	worldBegin geom.Vector
	worldEnd   geom.Vector
}

func NewEdge(begin, end, offset geom.Vector) *Edge {
	e := &Edge{
		colliderBase: newColliderBase(offset),
		begin:        begin,
		end:          end,
	}
	e.Update(nil)
	return e
}

func (e *Edge) Kind() ShapeKind {
	return KindEdge
}

func (e *Edge) SetOffset(offset geom.Vector) {
	e.offset = offset
	e.Update(e.transform)
}

func (e *Edge) Update(tx *Transform) {
	e.transform = tx
	m := tx.Matrix()
	e.worldBegin = m.Apply(e.begin.Add(e.offset))
	e.worldEnd = m.Apply(e.end.Add(e.offset))
}

// AsLine returns the world segment.
func (e *Edge) AsLine() geom.LineSegment {
	return geom.NewLineSegment(e.worldBegin, e.worldEnd)
}

// AsLocalLine returns the segment in the owner's local space.
func (e *Edge) AsLocalLine() geom.LineSegment {
	return geom.NewLineSegment(e.begin.Add(e.offset), e.end.Add(e.offset))
}

func (e *Edge) Slope() geom.Vector {
	return e.AsLine().Slope()
}

func (e *Edge) Length() float64 {
	return e.worldBegin.Distance(e.worldEnd)
}

func (e *Edge) Center() geom.Vector {
	return e.worldBegin.Add(e.worldEnd).Mult(0.5)
}

func (e *Edge) Bounds() geom.BoundingBox {
	return geom.FromPoints([]geom.Vector{e.worldBegin, e.worldEnd})
}

func (e *Edge) LocalBounds() geom.BoundingBox {
	return geom.FromPoints([]geom.Vector{e.begin, e.end}).Translate(e.offset)
}

func (e *Edge) FurthestPoint(direction geom.Vector) geom.Vector {
	if direction.Dot(e.worldBegin) > direction.Dot(e.worldEnd) {
		return e.worldBegin
	}
	return e.worldEnd
}

func (e *Edge) FurthestLocalPoint(direction geom.Vector) geom.Vector {
	if direction.Dot(e.begin) > direction.Dot(e.end) {
		return e.begin.Add(e.offset)
	}
	return e.end.Add(e.offset)
}

// Contains is always false; an edge has no interior.
func (e *Edge) Contains(point geom.Vector) bool {
	return false
}

func (e *Edge) RayCast(ray geom.Ray, max float64) (geom.Vector, bool) {
	t := ray.Intersect(e.AsLine())
	if t < 0 || t > max {
		return geom.Zero, false
	}
	return ray.Point(t), true
}

func (e *Edge) Project(axis geom.Vector) geom.Projection {
	a := e.worldBegin.Dot(axis)
	b := e.worldEnd.Dot(axis)
	return geom.Projection{Min: math.Min(a, b), Max: math.Max(a, b)}
}

// Axes returns the edge normal, its perpendicular and their negations.
func (e *Edge) Axes() []geom.Vector {
	normal := e.AsLine().Normal()
	along := geom.Normal(normal)
	return []geom.Vector{normal, normal.Neg(), along, along.Neg()}
}

func (e *Edge) Inertia(mass float64) float64 {
	return cp.MomentForSegment(mass, e.begin.Add(e.offset), e.end.Add(e.offset), 0)
}

func (e *Edge) Collide(other Collider) ([]*Contact, error) {
	return Collide(e, other)
}

func (e *Edge) ClosestLineBetween(other Collider) (geom.LineSegment, error) {
	return ClosestLineBetween(e, other)
}

func (e *Edge) Debug(r DebugRenderer, col color.Color) {
	r.DrawLine(e.worldBegin, e.worldEnd, col)
	r.DrawPoint(e.worldBegin, col)
	r.DrawPoint(e.worldEnd, col)
}
