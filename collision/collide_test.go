package collision

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/milk9111/collide2d/geom"
)

func TestPairHashSymmetric(t *testing.T) {
	cases := []struct {
		name string
		a, b int
		want string
	}{
		{"ordered", 1, 2, "#1+2"},
		{"reversed", 7, 3, "#3+7"},
		{"large", 1000, 42, "#42+1000"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PairHash(c.a, c.b); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
			if PairHash(c.a, c.b) != PairHash(c.b, c.a) {
				t.Fatalf("hash should not depend on argument order")
			}
		})
	}
}

func TestCircleCircle(t *testing.T) {
	cases := []struct {
		name     string
		posB     geom.Vector
		wantHit  bool
		wantMTV  geom.Vector
		wantNorm geom.Vector
	}{
		{"overlap_x", geom.V(15, 0), true, geom.V(5, 0), geom.V(1, 0)},
		{"overlap_y", geom.V(0, -12), true, geom.V(0, -8), geom.V(0, -1)},
		{"coincident", geom.V(0, 0), true, geom.V(20, 0), geom.V(1, 0)},
		{"apart", geom.V(25, 0), false, geom.Zero, geom.Zero},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, a := newCircleBody(10, geom.Zero, Active)
			_, b := newCircleBody(10, c.posB, Active)

			ab, err := Collide(a, b)
			if err != nil {
				t.Fatalf("collide failed: %v", err)
			}
			ba, err := Collide(b, a)
			if err != nil {
				t.Fatalf("collide failed: %v", err)
			}
			if !c.wantHit {
				if len(ab) != 0 || len(ba) != 0 {
					t.Fatalf("expected no contacts, got %d and %d", len(ab), len(ba))
				}
				return
			}
			if len(ab) != 1 || len(ba) != 1 {
				t.Fatalf("expected one contact each way, got %d and %d", len(ab), len(ba))
			}
			assertVector(t, "mtv", ab[0].MTV, c.wantMTV)
			assertVector(t, "normal", ab[0].Normal, c.wantNorm)
			if ba[0].MTV != ab[0].MTV.Neg() || ba[0].Normal != ab[0].Normal.Neg() {
				t.Fatalf("reverse contact should be the exact negation: %v vs %v", ab[0].MTV, ba[0].MTV)
			}
			if ab[0].ColliderA != a || ba[0].ColliderA != b {
				t.Fatalf("ColliderA should be the first argument")
			}
			if ab[0].ID != ba[0].ID {
				t.Fatalf("ids differ: %s vs %s", ab[0].ID, ba[0].ID)
			}
		})
	}
}

func TestMixedShapesAreNegations(t *testing.T) {
	cases := []struct {
		name string
		a, b func() Collider
	}{
		{
			name: "circle_polygon",
			a: func() Collider {
				_, c := newCircleBody(10, geom.V(0, -9), Active)
				return c
			},
			b: func() Collider {
				_, p := newBoxBody(100, 20, geom.V(0, 10), Fixed)
				return p
			},
		},
		{
			name: "polygon_polygon",
			a: func() Collider {
				_, p := newBoxBody(20, 20, geom.V(0, 0), Active)
				return p
			},
			b: func() Collider {
				_, p := newBoxBody(20, 20, geom.V(15, 2), Active)
				return p
			},
		},
		{
			name: "circle_edge",
			a: func() Collider {
				_, c := newCircleBody(10, geom.V(5, -8), Active)
				return c
			},
			b: func() Collider {
				body := NewBody(NewTransform(geom.Zero, 0), NewMotion())
				body.CollisionType = Fixed
				e := NewEdge(geom.V(-50, 0), geom.V(50, 0), geom.Zero)
				attach(body, e)
				return e
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, b := c.a(), c.b()
			ab, err := Collide(a, b)
			if err != nil {
				t.Fatalf("collide failed: %v", err)
			}
			ba, err := Collide(b, a)
			if err != nil {
				t.Fatalf("collide failed: %v", err)
			}
			if len(ab) == 0 || len(ab) != len(ba) {
				t.Fatalf("expected matching non-empty results, got %d and %d", len(ab), len(ba))
			}
			for i := range ab {
				if ba[i].MTV != ab[i].MTV.Neg() {
					t.Fatalf("mtv %v is not the negation of %v", ba[i].MTV, ab[i].MTV)
				}
				if ba[i].Normal != ab[i].Normal.Neg() {
					t.Fatalf("normal %v is not the negation of %v", ba[i].Normal, ab[i].Normal)
				}
			}
		})
	}
}

func TestCompositeFlip(t *testing.T) {
	cases := []struct {
		name  string
		other func() Collider
	}{
		{"circle", func() Collider {
			_, c := newCircleBody(5, geom.V(20, 8), Active)
			return c
		}},
		{"polygon", func() Collider {
			_, p := newBoxBody(10, 10, geom.V(22, 0), Active)
			return p
		}},
		{"edge", func() Collider {
			body := NewBody(NewTransform(geom.Zero, 0), NewMotion())
			e := NewEdge(geom.V(18, -20), geom.V(18, 20), geom.Zero)
			attach(body, e)
			return e
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body := NewBody(NewTransform(geom.Zero, 0), NewMotion())
			comp := NewComposite(
				NewCircle(10, geom.V(-10, 0)),
				NewCircle(10, geom.V(10, 0)),
			)
			attach(body, comp)
			other := c.other()

			forward, err := Collide(comp, other)
			if err != nil {
				t.Fatalf("collide failed: %v", err)
			}
			backward, err := Collide(other, comp)
			if err != nil {
				t.Fatalf("collide failed: %v", err)
			}
			if len(forward) != 1 || len(backward) != 1 {
				t.Fatalf("expected one contact each way, got %d and %d", len(forward), len(backward))
			}
			f, b := forward[0], backward[0]
			if b.ColliderA != other || b.ColliderA != f.ColliderB || b.ColliderB != f.ColliderA {
				t.Fatalf("flipped contact should swap colliders")
			}
			if b.MTV != f.MTV.Neg() {
				t.Fatalf("mtv: expected %v, got %v", f.MTV.Neg(), b.MTV)
			}
			if b.Normal != f.Normal.Neg() {
				t.Fatalf("normal: expected %v, got %v", f.Normal.Neg(), b.Normal)
			}
			if b.Tangent != f.Tangent.Neg() {
				t.Fatalf("tangent: expected %v, got %v", f.Tangent.Neg(), b.Tangent)
			}
			if b.ID != f.ID {
				t.Fatalf("id: expected %s, got %s", f.ID, b.ID)
			}
			if !strings.Contains(f.ID, "|") {
				t.Fatalf("composite contact id should carry the composite pair, got %s", f.ID)
			}
			if want := PairHash(comp.ID(), other.ID()); f.CompositeID() != want {
				t.Fatalf("expected composite id %s, got %s", want, f.CompositeID())
			}
		})
	}
}

func TestCompositeForwardsEvents(t *testing.T) {
	child := NewCircle(5, geom.Zero)
	comp := NewComposite(child)

	got := 0
	comp.Events().On(EventCollisionStart, func(Event) { got++ })
	child.Events().Emit(Event{Kind: EventCollisionStart})
	if got != 1 {
		t.Fatalf("expected forwarded event, got %d", got)
	}

	comp.Remove(child)
	child.Events().Emit(Event{Kind: EventCollisionStart})
	if got != 1 {
		t.Fatalf("removed child should no longer forward, got %d", got)
	}
	if child.CompositeID() != 0 {
		t.Fatalf("removed child should forget its composite")
	}
}

func TestEdgeEdgeHasNoContact(t *testing.T) {
	a := NewEdge(geom.V(-10, 0), geom.V(10, 0), geom.Zero)
	b := NewEdge(geom.V(0, -10), geom.V(0, 10), geom.Zero)
	contacts, err := Collide(a, b)
	if err != nil {
		t.Fatalf("collide failed: %v", err)
	}
	if len(contacts) != 0 {
		t.Fatalf("expected no contacts, got %d", len(contacts))
	}
}

func TestPolygonWinding(t *testing.T) {
	clockwise := []geom.Vector{geom.V(0, 10), geom.V(10, 10), geom.V(10, 0), geom.V(0, 0)}
	p := NewPolygon(clockwise, geom.Zero)
	if !isCounterClockwise(p.Points()) {
		t.Fatalf("points should be stored counter-clockwise: %v", p.Points())
	}
	if !p.IsConvex() {
		t.Fatalf("square should be convex")
	}
	for i, side := range p.Sides() {
		if side.Normal().Dot(side.Midpoint().Sub(p.Center())) <= 0 {
			t.Fatalf("normal of side %d should point outward", i)
		}
	}
}

func TestPolygonSetOffsetKeepsWarningQuiet(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	l := []geom.Vector{
		geom.V(0, 0), geom.V(20, 0), geom.V(20, 10),
		geom.V(10, 10), geom.V(10, 20), geom.V(0, 20),
	}
	p := NewPolygon(l, geom.Zero)
	if n := strings.Count(buf.String(), "not convex"); n != 1 {
		t.Fatalf("expected one convexity warning, got %d", n)
	}

	p.SetOffset(geom.V(5, 0))
	if n := strings.Count(buf.String(), "not convex"); n != 1 {
		t.Fatalf("SetOffset should not warn again, got %d warnings", n)
	}
	if got := p.LocalSides()[0].Begin; got != geom.V(5, 0) {
		t.Fatalf("local sides should follow the offset, got %v", got)
	}
}

func TestPolygonTriangulate(t *testing.T) {
	t.Run("too_few_points", func(t *testing.T) {
		p := NewPolygon([]geom.Vector{geom.V(0, 0), geom.V(1, 0)}, geom.Zero)
		if _, err := p.Triangulate(); !errors.Is(err, ErrTooFewPoints) {
			t.Fatalf("expected ErrTooFewPoints, got %v", err)
		}
	})
	t.Run("concave", func(t *testing.T) {
		l := []geom.Vector{
			geom.V(0, 0), geom.V(20, 0), geom.V(20, 10),
			geom.V(10, 10), geom.V(10, 20), geom.V(0, 20),
		}
		p := NewPolygon(l, geom.Zero)
		if p.IsConvex() {
			t.Fatalf("L shape should not be convex")
		}
		comp, err := p.Triangulate()
		if err != nil {
			t.Fatalf("triangulate failed: %v", err)
		}
		if got := len(comp.Colliders()); got != len(l)-2 {
			t.Fatalf("expected %d triangles, got %d", len(l)-2, got)
		}
	})
}
