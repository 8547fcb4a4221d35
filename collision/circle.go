package collision

import (
	"image/color"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/collide2d/geom"
)

// Circle is a circle around the owner position plus offset.
type Circle struct {
	colliderBase

	radius      float64
	worldRadius float64
	center      geom.Vector
	rotation    float64
}

func NewCircle(radius float64, offset geom.Vector) *Circle {
	c := &Circle{
		colliderBase: newColliderBase(offset),
		radius:       radius,
	}
	c.Update(nil)
	return c
}

func (c *Circle) Kind() ShapeKind {
	return KindCircle
}

// Radius is the world radius, scaled by the smaller scale component.
func (c *Circle) Radius() float64 {
	return c.worldRadius
}

func (c *Circle) LocalRadius() float64 {
	return c.radius
}

func (c *Circle) SetRadius(r float64) {
	c.radius = r
	c.Update(c.transform)
	if c.owner != nil {
		c.owner.InvalidateInertia()
	}
}

func (c *Circle) SetOffset(offset geom.Vector) {
	c.offset = offset
	c.Update(c.transform)
}

func (c *Circle) Update(tx *Transform) {
	c.transform = tx
	c.center = tx.Apply(c.offset)
	c.worldRadius = c.radius
	c.rotation = 0
	if tx != nil {
		scale := tx.Scale()
		c.worldRadius = c.radius * math.Min(math.Abs(scale.X), math.Abs(scale.Y))
		c.rotation = tx.Rotation()
	}
}

func (c *Circle) Center() geom.Vector {
	return c.center
}

func (c *Circle) WorldPos() geom.Vector {
	return c.center
}

func (c *Circle) Bounds() geom.BoundingBox {
	r := c.worldRadius
	return geom.NewBoundingBox(c.center.X-r, c.center.Y-r, c.center.X+r, c.center.Y+r)
}

func (c *Circle) LocalBounds() geom.BoundingBox {
	r := c.radius
	return geom.NewBoundingBox(c.offset.X-r, c.offset.Y-r, c.offset.X+r, c.offset.Y+r)
}

func (c *Circle) FurthestPoint(direction geom.Vector) geom.Vector {
	return c.center.Add(geom.Normalize(direction).Mult(c.worldRadius))
}

func (c *Circle) FurthestLocalPoint(direction geom.Vector) geom.Vector {
	return c.offset.Add(geom.Normalize(direction).Mult(c.radius))
}

func (c *Circle) Contains(point geom.Vector) bool {
	return c.center.Distance(point) <= c.worldRadius
}

// RayCast solves |pos + t*dir - center| = r for the nearest t >= 0.
func (c *Circle) RayCast(ray geom.Ray, max float64) (geom.Vector, bool) {
	toOrigin := ray.Pos.Sub(c.center)
	dot := ray.Dir.Dot(toOrigin)
	discriminant := dot*dot - (toOrigin.LengthSq() - c.worldRadius*c.worldRadius)
	if discriminant < 0 {
		return geom.Zero, false
	}

	root := math.Sqrt(discriminant)
	toi := math.Inf(1)
	for _, t := range [2]float64{-dot + root, -dot - root} {
		if t >= 0 && t < toi {
			toi = t
		}
	}
	if math.IsInf(toi, 1) || toi > max {
		return geom.Zero, false
	}
	return ray.Point(toi), true
}

func (c *Circle) Project(axis geom.Vector) geom.Projection {
	d := c.center.Dot(axis)
	return geom.Projection{Min: d - c.worldRadius, Max: d + c.worldRadius}
}

// Axes is empty; circle axes depend on the other shape.
func (c *Circle) Axes() []geom.Vector {
	return nil
}

func (c *Circle) Inertia(mass float64) float64 {
	return cp.MomentForCircle(mass, 0, c.worldRadius, geom.Zero)
}

func (c *Circle) Collide(other Collider) ([]*Contact, error) {
	return Collide(c, other)
}

func (c *Circle) ClosestLineBetween(other Collider) (geom.LineSegment, error) {
	return ClosestLineBetween(c, other)
}

func (c *Circle) Debug(r DebugRenderer, col color.Color) {
	r.DrawCircle(c.center, c.worldRadius, col)
	r.DrawLine(c.center, c.center.Add(geom.Rotate(geom.Right, c.rotation).Mult(c.worldRadius)), col)
}
