package collision

import (
	"math"
	"testing"

	"github.com/milk9111/collide2d/geom"
)

const testTolerance = 1e-6

func attach(body *Body, c Collider) {
	c.SetOwner(body)
	body.SetCollider(c)
	c.Update(body.Transform)
}

func newCircleBody(radius float64, pos geom.Vector, ct CollisionType) (*Body, *Circle) {
	body := NewBody(NewTransform(pos, 0), NewMotion())
	body.CollisionType = ct
	circle := NewCircle(radius, geom.Zero)
	attach(body, circle)
	return body, circle
}

func newBoxBody(width, height float64, pos geom.Vector, ct CollisionType) (*Body, *Polygon) {
	body := NewBody(NewTransform(pos, 0), NewMotion())
	body.CollisionType = ct
	box := NewBox(width, height, geom.V(0.5, 0.5), geom.Zero)
	attach(body, box)
	return body, box
}

func assertVector(t *testing.T, name string, got, want geom.Vector) {
	t.Helper()
	if math.Abs(got.X-want.X) > testTolerance || math.Abs(got.Y-want.Y) > testTolerance {
		t.Fatalf("%s: expected %v, got %v", name, want, got)
	}
}
