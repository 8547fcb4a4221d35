package collision

import (
	"math"

	"github.com/milk9111/collide2d/common"
	"github.com/milk9111/collide2d/geom"
)

const (
	// restitutionThreshold is the closing speed below which nothing bounces.
	restitutionThreshold = 0.1
	// maxCorrection caps one position iteration's push.
	maxCorrection = -5
	// reuseDistanceSq is how close a new point must be to an old one to
	// inherit its accumulated impulses.
	reuseDistanceSq = 4
)

// ContactConstraintPoint is one solver point of a contact, kept across
// frames for warm starting.
type ContactConstraintPoint struct {
	Point geom.Vector
	Local geom.Vector

	NormalImpulse  float64
	TangentImpulse float64
	NormalMass     float64
	TangentMass    float64
	VelocityBias   float64

	AToContact geom.Vector
	BToContact geom.Vector

	contact *Contact
}

// RelativeVelocity is the velocity of B relative to A at the point.
func (p *ContactConstraintPoint) RelativeVelocity() geom.Vector {
	bodyA := p.contact.BodyA()
	bodyB := p.contact.BodyB()
	if bodyA == nil || bodyB == nil {
		return geom.Zero
	}
	velA := bodyA.Vel().Add(geom.CrossScalar(bodyA.AngularVelocity(), p.AToContact))
	velB := bodyB.Vel().Add(geom.CrossScalar(bodyB.AngularVelocity(), p.BToContact))
	return velB.Sub(velA)
}

// RealisticSolver is an impulse solver with friction, restitution, warm
// starting and sleeping.
type RealisticSolver struct {
	cfg         Config
	constraints map[string][]*ContactConstraintPoint
}

func NewRealisticSolver(cfg Config) *RealisticSolver {
	return &RealisticSolver{
		cfg:         cfg,
		constraints: make(map[string][]*ContactConstraintPoint),
	}
}

func (s *RealisticSolver) SetConfig(cfg Config) {
	s.cfg = cfg
}

// Constraints returns the solver points for a contact id.
func (s *RealisticSolver) Constraints(id string) []*ContactConstraintPoint {
	return s.constraints[id]
}

// Solve runs velocity iterations before position iterations, so its
// contacts pass VelocitySolved and then PositionSolved.
func (s *RealisticSolver) Solve(contacts []*Contact) []*Contact {
	s.preSolve(contacts)

	live := make([]*Contact, 0, len(contacts))
	for _, c := range contacts {
		if !c.IsCanceled() {
			live = append(live, c)
		}
	}

	s.solveVelocity(live)
	s.solvePosition(live)
	s.postSolve(live)
	return live
}

func (s *RealisticSolver) preSolve(contacts []*Contact) {
	for _, c := range contacts {
		c.distance = c.ColliderA.WorldPos().DistanceSq(c.ColliderB.WorldPos())
		emitPreCollision(c)
		c.MatchAwake(s.cfg)
		c.advance(ContactPreSolved)
	}

	seen := make(map[string]struct{}, len(contacts))
	for _, c := range contacts {
		if c.IsCanceled() {
			continue
		}
		seen[c.ID] = struct{}{}

		bodyA := c.BodyA()
		bodyB := c.BodyB()
		if bodyA == nil || bodyB == nil {
			continue
		}

		points := s.constraints[c.ID]
		restitution := math.Max(bodyA.Bounciness, bodyB.Bounciness)
		for i, point := range c.Points {
			aToContact := point.Sub(bodyA.Pos())
			bToContact := point.Sub(bodyB.Pos())

			an := aToContact.Cross(c.Normal)
			bn := bToContact.Cross(c.Normal)
			normalMass := bodyA.InverseMass() + bodyB.InverseMass() +
				bodyA.InverseInertia()*an*an + bodyB.InverseInertia()*bn*bn

			at := aToContact.Cross(c.Tangent)
			bt := bToContact.Cross(c.Tangent)
			tangentMass := bodyA.InverseMass() + bodyB.InverseMass() +
				bodyA.InverseInertia()*at*at + bodyB.InverseInertia()*bt*bt

			local := point
			if i < len(c.LocalPoints) {
				local = c.LocalPoints[i]
			}

			// keep accumulated impulses when the point barely moved
			if i < len(points) && points[i].Point.DistanceSq(point) < reuseDistanceSq {
				points[i].Point = point
				points[i].Local = local
				points[i].contact = c
			} else {
				constraint := &ContactConstraintPoint{Point: point, Local: local, contact: c}
				if i < len(points) {
					points[i] = constraint
				} else {
					points = append(points, constraint)
				}
			}

			constraint := points[i]
			constraint.NormalMass = normalMass
			constraint.TangentMass = tangentMass
			constraint.AToContact = aToContact
			constraint.BToContact = bToContact

			constraint.VelocityBias = 0
			if vn := constraint.RelativeVelocity().Dot(c.Normal); vn < -restitutionThreshold {
				constraint.VelocityBias = -restitution * vn
			}
		}
		if len(points) > len(c.Points) {
			points = points[:len(c.Points)]
		}
		s.constraints[c.ID] = points
	}

	for id := range s.constraints {
		if _, ok := seen[id]; !ok {
			delete(s.constraints, id)
		}
	}

	s.warmStart(contacts)
}

func (s *RealisticSolver) warmStart(contacts []*Contact) {
	for _, c := range contacts {
		if c.IsCanceled() {
			continue
		}
		bodyA := c.BodyA()
		bodyB := c.BodyB()
		if bodyA == nil || bodyB == nil {
			continue
		}
		for _, p := range s.constraints[c.ID] {
			if !s.cfg.WarmStart {
				p.NormalImpulse = 0
				p.TangentImpulse = 0
				continue
			}
			impulse := c.Normal.Mult(p.NormalImpulse).Add(c.Tangent.Mult(p.TangentImpulse))
			bodyA.ApplyImpulse(p.Point, impulse.Neg())
			bodyB.ApplyImpulse(p.Point, impulse)
		}
	}
}

func (s *RealisticSolver) solveVelocity(contacts []*Contact) {
	for i := 0; i < s.cfg.VelocityIterations; i++ {
		for _, c := range contacts {
			bodyA := c.BodyA()
			bodyB := c.BodyB()
			if bodyA == nil || bodyB == nil || isPassivePair(bodyA, bodyB) {
				continue
			}

			friction := math.Min(bodyA.Friction, bodyB.Friction)
			points := s.constraints[c.ID]

			for _, p := range points {
				if p.TangentMass == 0 {
					continue
				}
				tangentVelocity := -p.RelativeVelocity().Dot(c.Tangent)
				delta := tangentVelocity / p.TangentMass

				// accumulated friction stays within the friction cone
				maxFriction := friction * p.NormalImpulse
				newImpulse := common.Clamp(p.TangentImpulse+delta, -maxFriction, maxFriction)
				delta = newImpulse - p.TangentImpulse
				p.TangentImpulse = newImpulse

				impulse := c.Tangent.Mult(delta)
				bodyA.ApplyImpulse(p.Point, impulse.Neg())
				bodyB.ApplyImpulse(p.Point, impulse)
			}

			for _, p := range points {
				if p.NormalMass == 0 {
					continue
				}
				normalVelocity := p.RelativeVelocity().Dot(c.Normal)
				delta := (-normalVelocity + p.VelocityBias) / p.NormalMass

				// accumulated normal impulse never pulls
				newImpulse := math.Max(p.NormalImpulse+delta, 0)
				delta = newImpulse - p.NormalImpulse
				p.NormalImpulse = newImpulse

				impulse := c.Normal.Mult(delta)
				bodyA.ApplyImpulse(p.Point, impulse.Neg())
				bodyB.ApplyImpulse(p.Point, impulse)
			}
			c.advance(ContactVelocitySolved)
		}
	}
}

func (s *RealisticSolver) solvePosition(contacts []*Contact) {
	for i := 0; i < s.cfg.PositionIterations; i++ {
		for _, c := range contacts {
			bodyA := c.BodyA()
			bodyB := c.BodyB()
			if bodyA == nil || bodyB == nil || isPassivePair(bodyA, bodyB) {
				continue
			}

			for _, p := range s.constraints[c.ID] {
				if p.NormalMass == 0 {
					continue
				}
				separation, err := FindContactSeparation(c, p.Local)
				if err != nil {
					continue
				}

				steering := common.Clamp(s.cfg.SteeringFactor*(separation+s.cfg.Slop), maxCorrection, 0)
				impulse := c.Normal.Mult(-steering / p.NormalMass)

				// pseudo impulse: moves position and rotation directly
				if bodyA.CollisionType == Active && !bodyA.Sleeping() {
					movePseudo(bodyA, impulse.Neg().Mult(bodyA.InverseMass()))
					if !bodyA.IsLocked(LockRotation) {
						bodyA.SetRotation(bodyA.Rotation() - p.AToContact.Cross(impulse)*bodyA.InverseInertia())
					}
				}
				if bodyB.CollisionType == Active && !bodyB.Sleeping() {
					movePseudo(bodyB, impulse.Mult(bodyB.InverseMass()))
					if !bodyB.IsLocked(LockRotation) {
						bodyB.SetRotation(bodyB.Rotation() + p.BToContact.Cross(impulse)*bodyB.InverseInertia())
					}
				}
			}
			c.advance(ContactPositionSolved)
		}
	}
}

func movePseudo(b *Body, delta geom.Vector) {
	if b.IsLocked(LockX) {
		delta.X = 0
	}
	if b.IsLocked(LockY) {
		delta.Y = 0
	}
	b.SetPos(b.Pos().Add(delta))
}

func (s *RealisticSolver) postSolve(contacts []*Contact) {
	for _, c := range contacts {
		bodyA := c.BodyA()
		bodyB := c.BodyB()
		if bodyA != nil && bodyB != nil {
			if isPassivePair(bodyA, bodyB) {
				continue
			}
			bodyA.UpdateMotion(s.cfg)
			bodyB.UpdateMotion(s.cfg)
		}
		emitPostCollision(c)
		c.advance(ContactPostSolved)
	}
}
