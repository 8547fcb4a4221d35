package component

import (
	"errors"

	"github.com/milk9111/collide2d/collision"
)

var ErrNoCollider = errors.New("ecs: collider component is empty")

// Collider holds one collision.Collider for an entity. Its emitter outlives
// the wrapped collider, so handlers survive a Set with new geometry.
type Collider struct {
	collider collision.Collider
	events   *collision.EventEmitter
	off      func()
}

var ColliderComponent = NewComponent[Collider]()

func NewCollider(c collision.Collider) *Collider {
	col := &Collider{events: collision.NewEventEmitter()}
	if c != nil {
		col.Set(c, nil)
	}
	return col
}

// Get returns the wrapped collider, or nil.
func (c *Collider) Get() collision.Collider {
	if c == nil {
		return nil
	}
	return c.collider
}

// Owner returns the body the collider is attached to.
func (c *Collider) Owner() *collision.Body {
	if c == nil || c.collider == nil {
		return nil
	}
	return c.collider.Owner()
}

// Events re-broadcasts every event of the wrapped collider.
func (c *Collider) Events() *collision.EventEmitter {
	if c.events == nil {
		c.events = collision.NewEventEmitter()
	}
	return c.events
}

// Set replaces the wrapped collider and attaches it to body, which may be
// nil. The previous collider is cleared first.
func (c *Collider) Set(col collision.Collider, body *collision.Body) {
	c.Clear()
	c.collider = col
	if col == nil {
		return
	}
	events := c.Events()
	c.off = col.Events().OnAll(func(ev collision.Event) {
		events.Emit(ev)
	})
	c.Attach(body)
}

// Attach points the collider's owner at body and refreshes body inertia.
func (c *Collider) Attach(body *collision.Body) {
	if c.collider == nil {
		return
	}
	c.collider.SetOwner(body)
	if body == nil {
		return
	}
	body.SetCollider(c.collider)
	c.collider.Update(body.Transform)
}

// Clear detaches the wrapped collider from its body and drops it.
func (c *Collider) Clear() {
	if c.collider == nil {
		return
	}
	if c.off != nil {
		c.off()
		c.off = nil
	}
	if body := c.collider.Owner(); body != nil {
		if body.Collider() == c.collider {
			body.SetCollider(nil)
		}
		body.InvalidateInertia()
	}
	c.collider.SetOwner(nil)
	c.collider = nil
}

// Collide returns contacts with this collider as A. When only the other side
// is a composite the composite is collided first and the result flipped.
func (c *Collider) Collide(other *Collider) ([]*collision.Contact, error) {
	a, b := c.Get(), other.Get()
	if a == nil || b == nil {
		return nil, ErrNoCollider
	}
	if b.Kind() == collision.KindComposite && a.Kind() != collision.KindComposite {
		contacts, err := b.Collide(a)
		if err != nil {
			return nil, err
		}
		return collision.FlipContacts(contacts), nil
	}
	return a.Collide(b)
}

// Update refreshes the world caches from tx.
func (c *Collider) Update(tx *collision.Transform) {
	if c.collider != nil {
		c.collider.Update(tx)
	}
}
