package collision

import (
	"image/color"
	"math"

	"github.com/milk9111/collide2d/geom"
)

// Composite groups child colliders that act as one for contact identity.
// Children are indexed in a private tree; nested composites are flattened.
type Composite struct {
	colliderBase

	children []Collider
	tree     *DynamicTree
	forwards map[int]func()
}

func NewComposite(children ...Collider) *Composite {
	c := &Composite{
		colliderBase: newColliderBase(geom.Zero),
		tree:         NewDynamicTree(DefaultConfig().DynamicTree, InfiniteBounds()),
		forwards:     make(map[int]func()),
	}
	for _, child := range children {
		c.Add(child)
	}
	return c
}

func (c *Composite) Kind() ShapeKind {
	return KindComposite
}

// Add attaches child. Its events are forwarded to the composite until it is
// removed.
func (c *Composite) Add(child Collider) {
	if child == nil {
		return
	}
	if nested, ok := child.(*Composite); ok {
		for _, grandchild := range nested.Colliders() {
			nested.Remove(grandchild)
			c.Add(grandchild)
		}
		return
	}

	events := c.events
	c.forwards[child.ID()] = child.Events().OnAll(func(ev Event) {
		events.Emit(ev)
	})
	b := child.base()
	b.compositeID = c.id
	b.owner = c.owner
	if c.transform != nil {
		child.Update(c.transform)
	}
	c.children = append(c.children, child)
	c.tree.TrackCollider(child)
	if c.owner != nil {
		c.owner.InvalidateInertia()
	}
}

// Remove detaches child and tears down its event forwarding.
func (c *Composite) Remove(child Collider) {
	for i, existing := range c.children {
		if existing.ID() != child.ID() {
			continue
		}
		if off, ok := c.forwards[child.ID()]; ok {
			off()
			delete(c.forwards, child.ID())
		}
		c.tree.UntrackCollider(child)
		b := child.base()
		b.compositeID = 0
		b.owner = nil
		c.children = append(c.children[:i], c.children[i+1:]...)
		if c.owner != nil {
			c.owner.InvalidateInertia()
		}
		return
	}
}

// Colliders returns a copy of the children.
func (c *Composite) Colliders() []Collider {
	out := make([]Collider, len(c.children))
	copy(out, c.children)
	return out
}

func (c *Composite) SetOwner(b *Body) {
	c.owner = b
	for _, child := range c.children {
		child.SetOwner(b)
	}
}

// SetOffset shifts every child by the change in offset.
func (c *Composite) SetOffset(offset geom.Vector) {
	delta := offset.Sub(c.offset)
	c.offset = offset
	for _, child := range c.children {
		child.SetOffset(child.Offset().Add(delta))
	}
}

func (c *Composite) Update(tx *Transform) {
	c.transform = tx
	for _, child := range c.children {
		child.Update(tx)
		c.tree.UpdateCollider(child)
	}
}

func (c *Composite) Bounds() geom.BoundingBox {
	if len(c.children) == 0 {
		return geom.BoundingBox{}
	}
	bounds := c.children[0].Bounds()
	for _, child := range c.children[1:] {
		bounds = bounds.Combine(child.Bounds())
	}
	return bounds
}

func (c *Composite) LocalBounds() geom.BoundingBox {
	if len(c.children) == 0 {
		return geom.BoundingBox{}
	}
	bounds := c.children[0].LocalBounds()
	for _, child := range c.children[1:] {
		bounds = bounds.Combine(child.LocalBounds())
	}
	return bounds
}

func (c *Composite) Center() geom.Vector {
	return c.Bounds().Center()
}

func (c *Composite) FurthestPoint(direction geom.Vector) geom.Vector {
	best := geom.Zero
	max := -math.MaxFloat64
	for _, child := range c.children {
		p := child.FurthestPoint(direction)
		if d := p.Dot(direction); d > max {
			max = d
			best = p
		}
	}
	return best
}

func (c *Composite) FurthestLocalPoint(direction geom.Vector) geom.Vector {
	best := geom.Zero
	max := -math.MaxFloat64
	for _, child := range c.children {
		p := child.FurthestLocalPoint(direction)
		if d := p.Dot(direction); d > max {
			max = d
			best = p
		}
	}
	return best
}

func (c *Composite) Contains(point geom.Vector) bool {
	for _, child := range c.children {
		if child.Contains(point) {
			return true
		}
	}
	return false
}

// RayCast returns the nearest hit over all children.
func (c *Composite) RayCast(ray geom.Ray, max float64) (geom.Vector, bool) {
	var best geom.Vector
	bestDistance := math.MaxFloat64
	found := false
	c.tree.RayCastQuery(ray, max, func(child Collider) bool {
		if p, ok := child.RayCast(ray, max); ok {
			if d := p.Distance(ray.Pos); d < bestDistance {
				bestDistance = d
				best = p
				found = true
			}
		}
		return false
	})
	return best, found
}

func (c *Composite) Project(axis geom.Vector) geom.Projection {
	if len(c.children) == 0 {
		return geom.Projection{}
	}
	proj := c.children[0].Project(axis)
	for _, child := range c.children[1:] {
		p := child.Project(axis)
		proj.Min = math.Min(proj.Min, p.Min)
		proj.Max = math.Max(proj.Max, p.Max)
	}
	return proj
}

func (c *Composite) Axes() []geom.Vector {
	var axes []geom.Vector
	for _, child := range c.children {
		axes = append(axes, child.Axes()...)
	}
	return axes
}

// Inertia sums the children.
func (c *Composite) Inertia(mass float64) float64 {
	total := 0.0
	for _, child := range c.children {
		total += child.Inertia(mass)
	}
	return total
}

// Collide pairs every child of other with the children whose boxes it
// overlaps. Contacts have one of this composite's children as ColliderA.
func (c *Composite) Collide(other Collider) ([]*Contact, error) {
	others := []Collider{other}
	if oc, ok := other.(*Composite); ok {
		others = oc.children
	}

	var pairs []*Pair
	for _, o := range others {
		c.tree.Query(o, func(own Collider) bool {
			pairs = append(pairs, NewPair(own, o))
			return false
		})
	}

	var contacts []*Contact
	for _, p := range pairs {
		found, err := collideShapes(p.ColliderA, p.ColliderB)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, found...)
	}
	return contacts, nil
}

// ClosestLineBetween returns the shortest line from any child to other.
func (c *Composite) ClosestLineBetween(other Collider) (geom.LineSegment, error) {
	var best geom.LineSegment
	bestLength := math.MaxFloat64
	for _, child := range c.children {
		line, err := ClosestLineBetween(child, other)
		if err != nil {
			return geom.LineSegment{}, err
		}
		if l := line.Length(); l < bestLength {
			bestLength = l
			best = line
		}
	}
	return best, nil
}

func (c *Composite) Debug(r DebugRenderer, col color.Color) {
	for _, child := range c.children {
		child.Debug(r, col)
	}
}
