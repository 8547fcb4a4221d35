package collision

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/milk9111/collide2d/geom"
)

func TestTreeEnclosingQuery(t *testing.T) {
	cases := []struct {
		name  string
		count int
	}{
		{"one", 1},
		{"few", 5},
		{"many", 64},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree := NewDynamicTree(DefaultConfig().DynamicTree, InfiniteBounds())
			ids := make(map[int]bool, c.count)
			for i := 0; i < c.count; i++ {
				_, circle := newCircleBody(2, geom.V(float64(i%8)*10, float64(i/8)*10), Active)
				tree.TrackCollider(circle)
				ids[circle.ID()] = true
			}
			if tree.Len() != c.count {
				t.Fatalf("expected %d leaves, got %d", c.count, tree.Len())
			}

			_, enclosing := newCircleBody(1000, geom.Zero, Active)
			seen := make(map[int]int)
			tree.Query(enclosing, func(other Collider) bool {
				seen[other.ID()]++
				return false
			})
			if len(seen) != c.count {
				t.Fatalf("expected %d colliders, got %d", c.count, len(seen))
			}
			for id, n := range seen {
				if !ids[id] || n != 1 {
					t.Fatalf("collider %d visited %d times", id, n)
				}
			}
		})
	}
}

func TestTreeUntrack(t *testing.T) {
	tree := NewDynamicTree(DefaultConfig().DynamicTree, InfiniteBounds())
	var circles []*Circle
	for i := 0; i < 10; i++ {
		_, circle := newCircleBody(2, geom.V(float64(i)*5, 0), Active)
		tree.TrackCollider(circle)
		circles = append(circles, circle)
	}
	for _, circle := range circles[:5] {
		tree.UntrackCollider(circle)
	}
	if tree.Len() != 5 {
		t.Fatalf("expected 5 leaves, got %d", tree.Len())
	}
	for _, circle := range circles[:5] {
		if tree.Tracks(circle) {
			t.Fatalf("collider %d should be untracked", circle.ID())
		}
	}
}

func TestTreeFattensTrackedLeaves(t *testing.T) {
	cfg := DefaultConfig().DynamicTree
	cases := []struct {
		name string
		vel  geom.Vector
		want geom.BoundingBox
	}{
		{"resting", geom.Zero, geom.NewBoundingBox(-15, -15, 15, 15)},
		// 32ms of travel scaled by the velocity multiplier
		{"moving_right", geom.V(100, 0), geom.NewBoundingBox(-15, -15, 15+100*0.032*cfg.VelocityMultiplier, 15)},
		{"moving_up", geom.V(0, -100), geom.NewBoundingBox(-15, -15-100*0.032*cfg.VelocityMultiplier, 15, 15)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree := NewDynamicTree(cfg, InfiniteBounds())
			body, circle := newCircleBody(10, geom.Zero, Active)
			body.SetVel(c.vel)
			tree.TrackCollider(circle)

			got := tree.nodes[circle.ID()].Bounds
			for _, side := range []struct {
				name      string
				got, want float64
			}{
				{"left", got.Left, c.want.Left},
				{"top", got.Top, c.want.Top},
				{"right", got.Right, c.want.Right},
				{"bottom", got.Bottom, c.want.Bottom},
			} {
				if math.Abs(side.got-side.want) > testTolerance {
					t.Fatalf("%s: expected %v, got %v", side.name, side.want, side.got)
				}
			}
		})
	}
}

func TestTreeRayCastRejectsZeroDirection(t *testing.T) {
	tree := NewDynamicTree(DefaultConfig().DynamicTree, InfiniteBounds())
	err := tree.RayCastQuery(geom.Ray{Pos: geom.Zero, Dir: geom.Zero}, 10, func(Collider) bool { return false })
	if !errors.Is(err, ErrDegenerateRay) {
		t.Fatalf("expected ErrDegenerateRay, got %v", err)
	}
}

func TestCanCollide(t *testing.T) {
	cases := []struct {
		name         string
		typeA, typeB CollisionType
		sameBody     bool
		want         bool
	}{
		{"active_active", Active, Active, false, true},
		{"fixed_fixed", Fixed, Fixed, false, false},
		{"fixed_active", Fixed, Active, false, true},
		{"prevent", PreventCollision, Active, false, false},
		{"passive_active", Passive, Active, false, true},
		{"same_body", Active, Active, true, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bodyA, a := newCircleBody(5, geom.Zero, c.typeA)
			_, b := newCircleBody(5, geom.V(5, 0), c.typeB)
			if c.sameBody {
				b.SetOwner(bodyA)
			}
			if got := CanCollide(a, b); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestGroupFiltering(t *testing.T) {
	groups := NewGroupManager()
	players, err := groups.Create("players")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	enemies, err := groups.Create("enemies")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if players.CanCollide(players) {
		t.Fatalf("a group should not collide with itself")
	}
	if !players.CanCollide(enemies) {
		t.Fatalf("different groups should collide")
	}
	if !CollisionGroupAll.CanCollide(players) {
		t.Fatalf("the all group should collide with anything")
	}
}

func TestBroadphasePairs(t *testing.T) {
	proc := NewDynamicTreeProcessor(DefaultConfig())
	_, a := newCircleBody(10, geom.V(0, 0), Active)
	_, b := newCircleBody(10, geom.V(15, 0), Active)
	_, c := newCircleBody(10, geom.V(200, 0), Active)
	colliders := []Collider{a, b, c}
	for _, col := range colliders {
		proc.Track(col)
	}

	stats := NewStats()
	pairs := proc.Broadphase(colliders, 16*time.Millisecond, stats)
	if len(pairs) != 1 {
		t.Fatalf("expected one pair, got %d", len(pairs))
	}
	if pairs[0].ID != PairHash(a.ID(), b.ID()) {
		t.Fatalf("unexpected pair %s", pairs[0].ID)
	}

	contacts, err := proc.Narrowphase(pairs, stats)
	if err != nil {
		t.Fatalf("narrowphase failed: %v", err)
	}
	if len(contacts) != 1 || stats.Collisions != 1 {
		t.Fatalf("expected one contact, got %d (stats %d)", len(contacts), stats.Collisions)
	}
}

func TestBroadphaseFastBody(t *testing.T) {
	cfg := DefaultConfig()
	proc := NewDynamicTreeProcessor(cfg)

	bullet, circle := newCircleBody(5, geom.V(0, 0), Active)
	bullet.OldPos = geom.V(-36, 0)
	bullet.SetVel(geom.V(1000, 0))
	_, wall := newBoxBody(2, 100, geom.V(-29, 0), Fixed)

	colliders := []Collider{circle, wall}
	for _, c := range colliders {
		proc.Track(c)
	}

	stats := NewStats()
	pairs := proc.Broadphase(colliders, 16*time.Millisecond, stats)
	if len(pairs) != 1 {
		t.Fatalf("expected a synthesized pair, got %d", len(pairs))
	}
	if pairs[0].ID != PairHash(circle.ID(), wall.ID()) {
		t.Fatalf("unexpected pair %s", pairs[0].ID)
	}
	if stats.FastBodyCollisions != 1 {
		t.Fatalf("expected one fast body collision, got %d", stats.FastBodyCollisions)
	}
	// moved back to just inside the wall's near face
	assertVector(t, "bullet", bullet.Pos(), geom.V(-34, 0))
}

func TestProcessorRayCast(t *testing.T) {
	proc := NewDynamicTreeProcessor(DefaultConfig())
	_, near := newCircleBody(5, geom.V(20, 0), Fixed)
	_, far := newCircleBody(5, geom.V(40, 0), Fixed)
	proc.Track(near)
	proc.Track(far)

	ray := geom.NewRay(geom.Zero, geom.Right)
	cases := []struct {
		name     string
		opts     RayCastOptions
		wantHits int
		wantNear float64
	}{
		{"nearest", RayCastOptions{}, 1, 15},
		{"all", RayCastOptions{SearchAllColliders: true}, 2, 15},
		{"too_short", RayCastOptions{MaxDistance: 10}, 0, 0},
		{"filtered", RayCastOptions{Filter: func(h RayCastHit) bool { return h.Collider != near }}, 1, 35},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hits, err := proc.RayCast(ray, c.opts)
			if err != nil {
				t.Fatalf("ray cast failed: %v", err)
			}
			if len(hits) != c.wantHits {
				t.Fatalf("expected %d hits, got %d", c.wantHits, len(hits))
			}
			if c.wantHits > 0 && math.Abs(hits[0].Distance-c.wantNear) > testTolerance {
				t.Fatalf("expected nearest at %v, got %v", c.wantNear, hits[0].Distance)
			}
		})
	}
}

func TestEventEmitterOff(t *testing.T) {
	emitter := NewEventEmitter()
	got := map[EventKind]int{}
	off := emitter.On(EventContactStart, func(ev Event) { got[ev.Kind]++ })
	offAll := emitter.OnAll(func(ev Event) { got["all"]++ })

	emitter.Emit(Event{Kind: EventContactStart})
	emitter.Emit(Event{Kind: EventContactEnd})
	if got[EventContactStart] != 1 || got["all"] != 2 {
		t.Fatalf("unexpected counts %v", got)
	}

	off()
	offAll()
	emitter.Emit(Event{Kind: EventContactStart})
	if got[EventContactStart] != 1 || got["all"] != 2 {
		t.Fatalf("handlers should be gone, got %v", got)
	}
	if emitter.Len() != 0 {
		t.Fatalf("expected no subscriptions, got %d", emitter.Len())
	}
}
