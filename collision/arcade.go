package collision

import (
	"sort"

	"github.com/milk9111/collide2d/geom"
)

// arcadeEpsilon is the overlap below which a contact is ignored.
const arcadeEpsilon = 0.0001

// ArcadeSolver pushes Active bodies out of each other along the MTV and
// removes inbound velocity. No rotation, no bounce.
type ArcadeSolver struct {
	cfg Config
}

func NewArcadeSolver(cfg Config) *ArcadeSolver {
	return &ArcadeSolver{cfg: cfg}
}

func (s *ArcadeSolver) SetConfig(cfg Config) {
	s.cfg = cfg
}

// Solve resolves contacts nearest-first. Contacts canceled before resolution
// are dropped from the result; contacts canceled while resolving are kept.
func (s *ArcadeSolver) Solve(contacts []*Contact) []*Contact {
	s.preSolve(contacts)

	live := make([]*Contact, 0, len(contacts))
	for _, c := range contacts {
		if !c.IsCanceled() {
			live = append(live, c)
		}
	}

	sort.SliceStable(live, func(i, j int) bool {
		return live[i].distance < live[j].distance
	})

	for _, c := range live {
		s.solvePosition(c)
		s.solveVelocity(c)
	}

	s.postSolve(live)
	return live
}

func (s *ArcadeSolver) preSolve(contacts []*Contact) {
	for _, c := range contacts {
		if nearlyZeroVector(c.MTV, arcadeEpsilon) {
			c.Cancel()
			continue
		}
		c.distance = c.ColliderA.WorldPos().DistanceSq(c.ColliderB.WorldPos())
		emitPreCollision(c)
		c.advance(ContactPreSolved)
	}
}

func (s *ArcadeSolver) solvePosition(c *Contact) {
	if c.IsCanceled() {
		return
	}
	// an earlier contact may already have separated this pair
	if !c.ColliderA.Bounds().Overlaps(c.ColliderB.Bounds(), arcadeEpsilon) {
		c.Cancel()
		return
	}
	if nearlyZeroVector(c.MTV, arcadeEpsilon) {
		c.Cancel()
		return
	}

	bodyA := c.BodyA()
	bodyB := c.BodyB()
	if bodyA == nil || bodyB == nil {
		return
	}
	defer c.advance(ContactPositionSolved)
	if isPassivePair(bodyA, bodyB) {
		return
	}

	mtv := c.MTV
	if bodyA.CollisionType == Active && bodyB.CollisionType == Active {
		mtv = mtv.Mult(0.5)
	}
	if bodyA.CollisionType == Active {
		bodyA.SetPos(bodyA.Pos().Sub(mtv))
		c.ColliderA.Update(bodyA.Transform)
	}
	if bodyB.CollisionType == Active {
		bodyB.SetPos(bodyB.Pos().Add(mtv))
		c.ColliderB.Update(bodyB.Transform)
	}
}

func (s *ArcadeSolver) solveVelocity(c *Contact) {
	if c.IsCanceled() {
		return
	}
	bodyA := c.BodyA()
	bodyB := c.BodyB()
	if bodyA == nil || bodyB == nil {
		return
	}
	defer c.advance(ContactVelocitySolved)
	if isPassivePair(bodyA, bodyB) {
		return
	}

	normal := c.Normal
	opposite := normal.Neg()

	// only cancel velocity heading into the contact
	if bodyA.CollisionType == Active {
		vel := bodyA.Vel()
		if geom.Normalize(vel).Dot(opposite) < 0 {
			bodyA.SetVel(vel.Add(normal.Mult(normal.Dot(vel.Neg()))))
		}
	}
	if bodyB.CollisionType == Active {
		vel := bodyB.Vel()
		if geom.Normalize(vel).Dot(normal) < 0 {
			bodyB.SetVel(vel.Add(opposite.Mult(opposite.Dot(vel.Neg()))))
		}
	}
}

func (s *ArcadeSolver) postSolve(contacts []*Contact) {
	for _, c := range contacts {
		if c.IsCanceled() {
			continue
		}
		bodyA := c.BodyA()
		bodyB := c.BodyB()
		if bodyA != nil && bodyB != nil && isPassivePair(bodyA, bodyB) {
			continue
		}
		emitPostCollision(c)
		c.advance(ContactPostSolved)
	}
}
