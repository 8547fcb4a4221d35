package collision

import (
	"strings"

	"github.com/milk9111/collide2d/geom"
)

// ContactState tracks how far a contact got through the solver. The arcade
// solver walks the stages in declaration order; the realistic solver reports
// VelocitySolved before PositionSolved because it solves velocity first.
type ContactState int

const (
	ContactCreated ContactState = iota
	ContactPreSolved
	ContactPositionSolved
	ContactVelocitySolved
	ContactPostSolved
	ContactCanceled
)

func (s ContactState) String() string {
	switch s {
	case ContactCreated:
		return "Created"
	case ContactPreSolved:
		return "PreSolved"
	case ContactPositionSolved:
		return "PositionSolved"
	case ContactVelocitySolved:
		return "VelocitySolved"
	case ContactPostSolved:
		return "PostSolved"
	case ContactCanceled:
		return "Canceled"
	default:
		return "Unknown"
	}
}

// SeparationInfo describes the axis of least penetration found by the
// narrowphase. Collider owns the reference side, when there is one.
type SeparationInfo struct {
	Collider   Collider
	Separation float64
	Axis       geom.Vector
	LocalAxis  geom.Vector
	Side       geom.LineSegment
	LocalSide  geom.LineSegment
	HasSide    bool
	SideID     int
	Point      geom.Vector
	LocalPoint geom.Vector
}

// Contact is one narrowphase result. MTV and Normal point from A to B.
type Contact struct {
	ID          string
	ColliderA   Collider
	ColliderB   Collider
	MTV         geom.Vector
	Normal      geom.Vector
	Tangent     geom.Vector
	Points      []geom.Vector
	LocalPoints []geom.Vector
	Info        SeparationInfo

	state    ContactState
	distance float64
}

// NewContact builds a contact. When either collider is part of a composite
// the id gains a "|" and the composite-level pair hash.
func NewContact(a, b Collider, mtv, normal, tangent geom.Vector, points, localPoints []geom.Vector, info SeparationInfo) *Contact {
	id := PairHash(a.ID(), b.ID())
	if a.CompositeID() != 0 || b.CompositeID() != 0 {
		id += "|" + PairHash(compositeLevelID(a), compositeLevelID(b))
	}
	return &Contact{
		ID:          id,
		ColliderA:   a,
		ColliderB:   b,
		MTV:         mtv,
		Normal:      normal,
		Tangent:     tangent,
		Points:      points,
		LocalPoints: localPoints,
		Info:        info,
	}
}

func compositeLevelID(c Collider) int {
	if id := c.CompositeID(); id != 0 {
		return id
	}
	return c.ID()
}

// CompositeID is the id used for start/end bookkeeping: the part after "|"
// for composite contacts, the plain id otherwise.
func (c *Contact) CompositeID() string {
	if idx := strings.IndexByte(c.ID, '|'); idx > 0 {
		return c.ID[idx+1:]
	}
	return c.ID
}

func (c *Contact) BodyA() *Body {
	return c.ColliderA.Owner()
}

func (c *Contact) BodyB() *Body {
	return c.ColliderB.Owner()
}

func (c *Contact) State() ContactState {
	return c.state
}

// advance moves to s unless the contact was canceled.
func (c *Contact) advance(s ContactState) {
	if c.state != ContactCanceled {
		c.state = s
	}
}

// Cancel skips the remaining solver stages for this contact.
func (c *Contact) Cancel() {
	c.state = ContactCanceled
}

func (c *Contact) IsCanceled() bool {
	return c.state == ContactCanceled
}

// Distance is the squared distance between the colliders' world positions,
// cached during pre-solve.
func (c *Contact) Distance() float64 {
	return c.distance
}

// Flip swaps A and B and negates the directions, keeping the id.
func (c *Contact) Flip() {
	c.ColliderA, c.ColliderB = c.ColliderB, c.ColliderA
	c.MTV = c.MTV.Neg()
	c.Normal = c.Normal.Neg()
	c.Tangent = c.Tangent.Neg()
}

// FlipContacts flips every contact in place and returns the slice.
func FlipContacts(contacts []*Contact) []*Contact {
	for _, c := range contacts {
		c.Flip()
	}
	return contacts
}

// MatchAwake wakes a sleeping participant when the other one is moving
// enough.
func (c *Contact) MatchAwake(cfg Config) {
	bodyA := c.BodyA()
	bodyB := c.BodyB()
	if bodyA == nil || bodyB == nil || bodyA.Sleeping() == bodyB.Sleeping() {
		return
	}
	if bodyA.Sleeping() && bodyA.CollisionType != Fixed && bodyB.SleepMotion() >= cfg.WakeThreshold {
		bodyA.Wake(cfg)
	}
	if bodyB.Sleeping() && bodyB.CollisionType != Fixed && bodyA.SleepMotion() >= cfg.WakeThreshold {
		bodyB.Wake(cfg)
	}
}
