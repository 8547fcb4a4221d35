package collision

import "fmt"

// Pair is an unordered broadphase candidate.
type Pair struct {
	ID        string
	ColliderA Collider
	ColliderB Collider
}

func NewPair(a, b Collider) *Pair {
	return &Pair{
		ID:        PairHash(a.ID(), b.ID()),
		ColliderA: a,
		ColliderB: b,
	}
}

// PairHash is the same for (a, b) and (b, a).
func PairHash(a, b int) string {
	if a < b {
		return fmt.Sprintf("#%d+%d", a, b)
	}
	return fmt.Sprintf("#%d+%d", b, a)
}

// CanCollide filters pairs the narrowphase must never see.
func CanCollide(a, b Collider) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ID() == b.ID() {
		return false
	}

	bodyA := a.Owner()
	bodyB := b.Owner()
	if bodyA == nil || bodyB == nil {
		return false
	}
	// parts of one body never collide with each other
	if bodyA == bodyB {
		return false
	}
	if a.LocalBounds().HasZeroDimensions() || b.LocalBounds().HasZeroDimensions() {
		return false
	}
	if !bodyA.Group.CanCollide(bodyB.Group) {
		return false
	}
	if bodyA.CollisionType == Fixed && bodyB.CollisionType == Fixed {
		return false
	}
	if bodyA.CollisionType == PreventCollision || bodyB.CollisionType == PreventCollision {
		return false
	}
	if !bodyA.Active() || !bodyB.Active() {
		return false
	}
	return true
}

// Collide runs the narrowphase for this pair.
func (p *Pair) Collide() ([]*Contact, error) {
	return Collide(p.ColliderA, p.ColliderB)
}
