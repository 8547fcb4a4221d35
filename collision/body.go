package collision

import (
	"github.com/milk9111/collide2d/common"
	"github.com/milk9111/collide2d/geom"
)

// CollisionType decides how a body takes part in collision resolution.
type CollisionType int

const (
	// PreventCollision bodies are skipped entirely by the broadphase.
	PreventCollision CollisionType = iota
	// Passive bodies raise events but are never moved by the solver.
	Passive
	// Active bodies are moved by the solver.
	Active
	// Fixed bodies push Active bodies and never move.
	Fixed
)

func (c CollisionType) String() string {
	switch c {
	case PreventCollision:
		return "PreventCollision"
	case Passive:
		return "Passive"
	case Active:
		return "Active"
	case Fixed:
		return "Fixed"
	default:
		return "Unknown"
	}
}

// DegreeOfFreedom is a bit set of locked axes.
type DegreeOfFreedom uint8

const (
	LockX DegreeOfFreedom = 1 << iota
	LockY
	LockRotation
)

// Body is the rigid-body state of one entity. Transform and Motion are
// shared with the entity's components.
type Body struct {
	Transform *Transform
	Motion    *Motion

	CollisionType CollisionType
	Group         CollisionGroup

	Bounciness float64
	Friction   float64
	UseGravity bool
	CanSleep   bool
	Locked     DegreeOfFreedom

	OldPos      geom.Vector
	OldVel      geom.Vector
	OldAcc      geom.Vector
	OldRotation float64
	OldScale    geom.Vector

	mass        float64
	inverseMass float64

	collider     Collider
	inertia      float64
	inertiaDirty bool

	sleeping    bool
	sleepMotion float64

	active bool
}

// NewBody returns an Active body with the default mass.
func NewBody(tx *Transform, motion *Motion) *Body {
	if tx == nil {
		tx = NewTransform(geom.Zero, 0)
	}
	if motion == nil {
		motion = NewMotion()
	}
	b := &Body{
		Transform:     tx,
		Motion:        motion,
		CollisionType: Active,
		Group:         CollisionGroupAll,
		Bounciness:    0.2,
		Friction:      0.99,
		UseGravity:    true,
		inertiaDirty:  true,
		active:        true,
	}
	b.SetMass(DefaultConfig().DefaultMass)
	b.CaptureOldTransform()
	return b
}

func (b *Body) Mass() float64 {
	return b.mass
}

// SetMass updates the mass and its cached inverse.
func (b *Body) SetMass(mass float64) {
	b.mass = mass
	if mass > 0 {
		b.inverseMass = 1 / mass
	} else {
		b.inverseMass = 0
	}
	b.inertiaDirty = true
}

// InverseMass is zero for Fixed bodies.
func (b *Body) InverseMass() float64 {
	if b.CollisionType == Fixed {
		return 0
	}
	return b.inverseMass
}

// Collider returns the geometry used for inertia.
func (b *Body) Collider() Collider {
	return b.collider
}

// SetCollider records the body's geometry and invalidates the cached inertia.
func (b *Body) SetCollider(c Collider) {
	b.collider = c
	b.inertiaDirty = true
}

// InvalidateInertia forces the next Inertia call to recompute from geometry.
func (b *Body) InvalidateInertia() {
	b.inertiaDirty = true
}

// Inertia is derived from the collider geometry and cached until the collider
// or mass changes.
func (b *Body) Inertia() float64 {
	if b.inertiaDirty {
		b.inertia = 0
		if b.collider != nil {
			b.inertia = b.collider.Inertia(b.mass)
		}
		b.inertiaDirty = false
	}
	return b.inertia
}

// InverseInertia is zero for Fixed bodies and bodies without geometry.
func (b *Body) InverseInertia() float64 {
	if b.CollisionType == Fixed {
		return 0
	}
	inertia := b.Inertia()
	if inertia == 0 {
		return 0
	}
	return 1 / inertia
}

// Active reports whether the owning entity is alive and attached.
func (b *Body) Active() bool {
	return b != nil && b.active
}

func (b *Body) SetActive(active bool) {
	b.active = active
}

func (b *Body) Pos() geom.Vector {
	return b.Transform.Pos()
}

func (b *Body) SetPos(p geom.Vector) {
	b.Transform.SetPos(p)
}

func (b *Body) Rotation() float64 {
	return b.Transform.Rotation()
}

func (b *Body) SetRotation(r float64) {
	b.Transform.SetRotation(r)
}

func (b *Body) Vel() geom.Vector {
	return b.Motion.Vel
}

func (b *Body) SetVel(v geom.Vector) {
	b.Motion.Vel = v
}

func (b *Body) Acc() geom.Vector {
	return b.Motion.Acc
}

func (b *Body) AngularVelocity() float64 {
	return b.Motion.AngularVelocity
}

func (b *Body) IsLocked(dof DegreeOfFreedom) bool {
	return b.Locked&dof != 0
}

// CaptureOldTransform snapshots the current state for interpolation and the
// fast-body check.
func (b *Body) CaptureOldTransform() {
	b.OldPos = b.Transform.Pos()
	b.OldRotation = b.Transform.Rotation()
	b.OldScale = b.Transform.Scale()
	b.OldVel = b.Motion.Vel
	b.OldAcc = b.Motion.Acc
}

// ApplyImpulse changes linear and angular velocity as if impulse hit the body
// at world point. Only awake Active bodies respond.
func (b *Body) ApplyImpulse(point, impulse geom.Vector) {
	if b.CollisionType != Active || b.sleeping {
		return
	}

	final := impulse.Mult(b.InverseMass())
	if b.IsLocked(LockX) {
		final.X = 0
	}
	if b.IsLocked(LockY) {
		final.Y = 0
	}
	b.Motion.Vel = b.Motion.Vel.Add(final)

	if !b.IsLocked(LockRotation) {
		distanceFromCenter := point.Sub(b.Pos())
		b.Motion.AngularVelocity += b.InverseInertia() * distanceFromCenter.Cross(impulse)
	}
}

// ApplyLinearImpulse changes velocity only.
func (b *Body) ApplyLinearImpulse(impulse geom.Vector) {
	if b.CollisionType != Active || b.sleeping {
		return
	}
	final := impulse.Mult(b.InverseMass())
	if b.IsLocked(LockX) {
		final.X = 0
	}
	if b.IsLocked(LockY) {
		final.Y = 0
	}
	b.Motion.Vel = b.Motion.Vel.Add(final)
}

// ApplyAngularImpulse changes angular velocity only.
func (b *Body) ApplyAngularImpulse(point geom.Vector, impulse geom.Vector) {
	if b.CollisionType != Active || b.sleeping || b.IsLocked(LockRotation) {
		return
	}
	distanceFromCenter := point.Sub(b.Pos())
	b.Motion.AngularVelocity += b.InverseInertia() * distanceFromCenter.Cross(impulse)
}

func (b *Body) Sleeping() bool {
	return b.sleeping
}

func (b *Body) SleepMotion() float64 {
	return b.sleepMotion
}

// Sleep stops the body and zeroes its motion.
func (b *Body) Sleep() {
	b.sleeping = true
	b.sleepMotion = 0
	b.Motion.Vel = geom.Zero
	b.Motion.Acc = geom.Zero
	b.Motion.AngularVelocity = 0
}

// Wake resumes simulation with enough motion energy to stay awake for a few
// ticks.
func (b *Body) Wake(cfg Config) {
	b.sleeping = false
	b.sleepMotion = cfg.SleepEpsilon * 5
}

// UpdateMotion folds this tick's kinetic energy into the smoothed sleep
// estimate and puts the body to sleep when it stays under the threshold.
func (b *Body) UpdateMotion(cfg Config) {
	if b.sleeping {
		return
	}
	vel := b.Motion.Vel
	currentMotion := vel.LengthSq() + b.Motion.AngularVelocity*b.Motion.AngularVelocity
	bias := cfg.SleepBias
	b.sleepMotion = bias*b.sleepMotion + (1-bias)*currentMotion
	b.sleepMotion = common.Clamp(b.sleepMotion, 0, 10*cfg.SleepEpsilon)
	if b.CanSleep && b.sleepMotion < cfg.SleepEpsilon {
		b.Sleep()
	}
}
