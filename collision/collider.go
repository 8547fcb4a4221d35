package collision

import (
	"image/color"
	"sync/atomic"

	"github.com/milk9111/collide2d/geom"
)

// ShapeKind tags the closed set of collider variants.
type ShapeKind int

const (
	KindCircle ShapeKind = iota
	KindPolygon
	KindEdge
	KindComposite
	kindCount
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "Circle"
	case KindPolygon:
		return "Polygon"
	case KindEdge:
		return "Edge"
	case KindComposite:
		return "Composite"
	default:
		return "Unknown"
	}
}

// Collider is implemented by *Circle, *Polygon, *Edge and *Composite only.
type Collider interface {
	ID() int
	Kind() ShapeKind

	// Owner is a lookup-only back-reference. Nil when detached.
	Owner() *Body
	SetOwner(b *Body)
	Offset() geom.Vector
	SetOffset(offset geom.Vector)
	// CompositeID is the id of the composite holding this collider, or 0.
	CompositeID() int
	Events() *EventEmitter

	Bounds() geom.BoundingBox
	LocalBounds() geom.BoundingBox
	Center() geom.Vector
	WorldPos() geom.Vector
	FurthestPoint(direction geom.Vector) geom.Vector
	FurthestLocalPoint(direction geom.Vector) geom.Vector

	RayCast(ray geom.Ray, max float64) (geom.Vector, bool)
	Contains(point geom.Vector) bool
	Project(axis geom.Vector) geom.Projection
	Axes() []geom.Vector
	Inertia(mass float64) float64

	// Update refreshes world-space caches from the owner's transform.
	Update(tx *Transform)
	Collide(other Collider) ([]*Contact, error)
	ClosestLineBetween(other Collider) (geom.LineSegment, error)
	Debug(r DebugRenderer, c color.Color)

	base() *colliderBase
}

var lastColliderID atomic.Int64

func nextColliderID() int {
	return int(lastColliderID.Add(1))
}

type colliderBase struct {
	id          int
	owner       *Body
	offset      geom.Vector
	compositeID int
	events      *EventEmitter
	transform   *Transform
}

func newColliderBase(offset geom.Vector) colliderBase {
	return colliderBase{
		id:     nextColliderID(),
		offset: offset,
		events: NewEventEmitter(),
	}
}

func (c *colliderBase) base() *colliderBase {
	return c
}

func (c *colliderBase) ID() int {
	return c.id
}

func (c *colliderBase) Owner() *Body {
	return c.owner
}

func (c *colliderBase) SetOwner(b *Body) {
	c.owner = b
}

func (c *colliderBase) Offset() geom.Vector {
	return c.offset
}

func (c *colliderBase) CompositeID() int {
	return c.compositeID
}

func (c *colliderBase) Events() *EventEmitter {
	return c.events
}

// WorldPos is the owner position plus the transformed offset.
func (c *colliderBase) WorldPos() geom.Vector {
	return c.transform.Apply(c.offset)
}

// toLocal maps a world point into the collider's owner space.
func (c *colliderBase) toLocal(p geom.Vector) geom.Vector {
	return c.transform.ApplyInverse(p)
}

// liveTransform prefers the owner's transform over the one cached at the
// last Update, since solvers move bodies mid-tick.
func liveTransform(c Collider) *Transform {
	if owner := c.Owner(); owner != nil && owner.Transform != nil {
		return owner.Transform
	}
	return c.base().transform
}

// Collide runs the narrowphase for any two colliders.
func Collide(a, b Collider) ([]*Contact, error) {
	if a == nil || b == nil {
		return nil, nil
	}
	if a.Kind() == KindComposite {
		return a.Collide(b)
	}
	if b.Kind() == KindComposite {
		contacts, err := b.Collide(a)
		if err != nil {
			return nil, err
		}
		return FlipContacts(contacts), nil
	}
	return collideShapes(a, b)
}

// ClosestLineBetween returns the shortest segment from a to b.
func ClosestLineBetween(a, b Collider) (geom.LineSegment, error) {
	if a.Kind() == KindComposite {
		return a.ClosestLineBetween(b)
	}
	if b.Kind() == KindComposite {
		line, err := b.ClosestLineBetween(a)
		if err != nil {
			return geom.LineSegment{}, err
		}
		return geom.LineSegment{Begin: line.End, End: line.Begin}, nil
	}
	return closestLineShapes(a, b)
}
