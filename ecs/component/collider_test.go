package component

import (
	"errors"
	"testing"

	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/geom"
)

func newBodyAt(pos geom.Vector) *collision.Body {
	return collision.NewBody(collision.NewTransform(pos, 0), collision.NewMotion())
}

func TestColliderSetAndClear(t *testing.T) {
	body := newBodyAt(geom.Zero)
	first := collision.NewCircle(10, geom.Zero)
	c := NewCollider(first)
	if c.Owner() != nil {
		t.Fatalf("collider built without a body should be detached")
	}

	c.Attach(body)
	if first.Owner() != body || body.Collider() != first {
		t.Fatalf("attach should wire owner and body collider")
	}

	second := collision.NewCircle(5, geom.Zero)
	c.Set(second, body)
	if first.Owner() != nil {
		t.Fatalf("replaced collider should be detached")
	}
	if c.Get() != second || body.Collider() != second || second.Owner() != body {
		t.Fatalf("set should attach the new collider")
	}

	c.Clear()
	if c.Get() != nil || second.Owner() != nil || body.Collider() != nil {
		t.Fatalf("clear should drop the collider and detach it")
	}
}

func TestColliderRebroadcastsEvents(t *testing.T) {
	first := collision.NewCircle(10, geom.Zero)
	c := NewCollider(first)

	var kinds []collision.EventKind
	c.Events().OnAll(func(ev collision.Event) { kinds = append(kinds, ev.Kind) })

	first.Events().Emit(collision.Event{Kind: collision.EventPreCollision, Self: first})
	if len(kinds) != 1 {
		t.Fatalf("expected one forwarded event, got %d", len(kinds))
	}

	second := collision.NewCircle(5, geom.Zero)
	c.Set(second, nil)
	first.Events().Emit(collision.Event{Kind: collision.EventPostCollision, Self: first})
	if len(kinds) != 1 {
		t.Fatalf("old collider events should no longer be forwarded")
	}
	second.Events().Emit(collision.Event{Kind: collision.EventCollisionStart, Self: second})
	if len(kinds) != 2 || kinds[1] != collision.EventCollisionStart {
		t.Fatalf("expected handlers to survive Set, got %v", kinds)
	}
}

func TestColliderCollide(t *testing.T) {
	tests := []struct {
		name      string
		build     func() (*Collider, *Collider)
		wantErr   error
		wantCount int
	}{
		{
			name: "empty",
			build: func() (*Collider, *Collider) {
				return NewCollider(nil), NewCollider(collision.NewCircle(5, geom.Zero))
			},
			wantErr: ErrNoCollider,
		},
		{
			name: "circle_circle",
			build: func() (*Collider, *Collider) {
				a := NewCollider(collision.NewCircle(10, geom.Zero))
				a.Attach(newBodyAt(geom.Zero))
				b := NewCollider(collision.NewCircle(10, geom.Zero))
				b.Attach(newBodyAt(geom.V(15, 0)))
				return a, b
			},
			wantCount: 1,
		},
		{
			name: "circle_composite_flipped",
			build: func() (*Collider, *Collider) {
				a := NewCollider(collision.NewCircle(5, geom.Zero))
				a.Attach(newBodyAt(geom.V(20, 8)))
				b := NewCollider(collision.NewComposite(
					collision.NewCircle(10, geom.V(-10, 0)),
					collision.NewCircle(10, geom.V(10, 0)),
				))
				b.Attach(newBodyAt(geom.Zero))
				return a, b
			},
			wantCount: 1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, b := tc.build()
			contacts, err := a.Collide(b)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if len(contacts) != tc.wantCount {
				t.Fatalf("expected %d contacts, got %d", tc.wantCount, len(contacts))
			}
			for _, contact := range contacts {
				if contact.ColliderA != a.Get() {
					t.Fatalf("receiver should be collider A")
				}
				toB := contact.ColliderB.WorldPos().Sub(contact.ColliderA.WorldPos())
				if contact.Normal.Dot(toB) <= 0 {
					t.Fatalf("normal %v should point from A to B", contact.Normal)
				}
			}
		})
	}
}
