package collision

import (
	"github.com/milk9111/collide2d/common"
	"github.com/milk9111/collide2d/geom"
)

// Solver resolves a frame's contacts and returns the ones that should count
// for start/end bookkeeping.
type Solver interface {
	Solve(contacts []*Contact) []*Contact
	SetConfig(cfg Config)
}

// NewSolver picks the solver named by cfg.Solver, defaulting to arcade.
func NewSolver(cfg Config) Solver {
	if cfg.Solver == SolverRealistic {
		return NewRealisticSolver(cfg)
	}
	return NewArcadeSolver(cfg)
}

func emitPreCollision(contact *Contact) {
	EmitContactEvent(EventPreCollision, contact)
}

func emitPostCollision(contact *Contact) {
	EmitContactEvent(EventPostCollision, contact)
}

// EmitContactEvent emits kind on both colliders of contact, each seeing the
// other as Other and an MTV pointing toward that other collider.
func EmitContactEvent(kind EventKind, contact *Contact) {
	side := SideFromDirection(contact.MTV)
	contact.ColliderA.Events().Emit(Event{
		Kind:    kind,
		Self:    contact.ColliderA,
		Other:   contact.ColliderB,
		Side:    side,
		MTV:     contact.MTV,
		Contact: contact,
	})
	contact.ColliderB.Events().Emit(Event{
		Kind:    kind,
		Self:    contact.ColliderB,
		Other:   contact.ColliderA,
		Side:    side.Opposite(),
		MTV:     contact.MTV.Neg(),
		Contact: contact,
	})
}

func isPassivePair(a, b *Body) bool {
	return a.CollisionType == Passive || b.CollisionType == Passive
}

func nearlyZeroVector(v geom.Vector, epsilon float64) bool {
	return common.NearlyZero(v.X, epsilon) && common.NearlyZero(v.Y, epsilon)
}
