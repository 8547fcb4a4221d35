package system

import (
	"math"
	"testing"
	"time"

	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/component"
	"github.com/milk9111/collide2d/geom"
)

func near(a, b geom.Vector) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

// spawnCircle adds an entity whose Transform, Motion and Body share state.
func spawnCircle(t *testing.T, w *ecs.World, pos geom.Vector, radius float64, ct collision.CollisionType) (ecs.Entity, *collision.Body) {
	t.Helper()
	e := ecs.CreateEntity(w)
	tx := collision.NewTransform(pos, 0)
	motion := collision.NewMotion()
	body := collision.NewBody(tx, motion)
	body.CollisionType = ct
	for _, err := range []error{
		ecs.Add(w, e, component.TransformComponent.Kind(), tx),
		ecs.Add(w, e, component.MotionComponent.Kind(), motion),
		ecs.Add(w, e, component.BodyComponent.Kind(), body),
		ecs.Add(w, e, component.ColliderComponent.Kind(), component.NewCollider(collision.NewCircle(radius, geom.Zero))),
	} {
		if err != nil {
			t.Fatalf("spawn failed: %v", err)
		}
	}
	return e, body
}

func collisionEvents(w *ecs.World, kind ecs.CollisionEventKind) []ecs.CollisionEvent {
	var out []ecs.CollisionEvent
	for _, ev := range w.Events().Drain() {
		ce, ok := ev.Data.(ecs.CollisionEvent)
		if ok && ce.Kind == kind {
			out = append(out, ce)
		}
	}
	return out
}

func TestMotionSystem(t *testing.T) {
	gravity := collision.DefaultConfig()
	gravity.Gravity = geom.V(0, 100)
	disabled := gravity
	disabled.Enabled = false

	tests := []struct {
		name    string
		cfg     collision.Config
		ct      collision.CollisionType
		noBody  bool
		sleep   bool
		vel     geom.Vector
		acc     geom.Vector
		wantPos geom.Vector
		wantVel geom.Vector
	}{
		{name: "active_gravity", cfg: gravity, ct: collision.Active, wantPos: geom.V(0, 50), wantVel: geom.V(0, 100)},
		{name: "fixed_ignores_gravity", cfg: gravity, ct: collision.Fixed, vel: geom.V(10, 0), wantPos: geom.V(10, 0), wantVel: geom.V(10, 0)},
		{name: "sleeping_skipped", cfg: gravity, ct: collision.Active, sleep: true, wantPos: geom.Zero, wantVel: geom.Zero},
		{name: "disabled", cfg: disabled, ct: collision.Active, vel: geom.V(5, 5), wantPos: geom.Zero, wantVel: geom.V(5, 5)},
		{name: "no_body", cfg: gravity, noBody: true, acc: geom.V(2, 0), wantPos: geom.V(1, 0), wantVel: geom.V(2, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e := ecs.CreateEntity(w)
			tx := collision.NewTransform(geom.Zero, 0)
			motion := collision.NewMotion()
			motion.Vel = tc.vel
			motion.Acc = tc.acc
			ecs.Add(w, e, component.TransformComponent.Kind(), tx)
			ecs.Add(w, e, component.MotionComponent.Kind(), motion)
			if !tc.noBody {
				body := collision.NewBody(tx, motion)
				body.CollisionType = tc.ct
				if tc.sleep {
					body.Sleep()
				}
				ecs.Add(w, e, component.BodyComponent.Kind(), body)
			}

			NewMotionSystem(StaticConfig(tc.cfg), time.Second).Update(w)

			if !near(tx.Pos(), tc.wantPos) {
				t.Fatalf("expected pos %v, got %v", tc.wantPos, tx.Pos())
			}
			if !near(motion.Vel, tc.wantVel) {
				t.Fatalf("expected vel %v, got %v", tc.wantVel, motion.Vel)
			}
		})
	}
}

func TestCollisionSystemSeparatesActiveBodies(t *testing.T) {
	w := ecs.NewWorld()
	_, a := spawnCircle(t, w, geom.V(0, 0), 10, collision.Active)
	_, b := spawnCircle(t, w, geom.V(15, 0), 10, collision.Active)

	sys := NewCollisionSystem(StaticConfig(collision.DefaultConfig()), DefaultStep)
	sys.Update(w)

	if !near(a.Pos(), geom.V(-2.5, 0)) || !near(b.Pos(), geom.V(17.5, 0)) {
		t.Fatalf("expected bodies pushed apart, got %v and %v", a.Pos(), b.Pos())
	}
	if sys.Stats().Pairs != 1 || sys.Stats().Collisions != 1 {
		t.Fatalf("expected one pair and one collision, got %+v", sys.Stats())
	}
	if post := collisionEvents(w, ecs.CollisionEventPost); len(post) != 2 {
		t.Fatalf("expected a postcollision event per entity, got %d", len(post))
	}
}

func TestCollisionSystemStartEndOnce(t *testing.T) {
	w := ecs.NewWorld()
	ea, _ := spawnCircle(t, w, geom.V(0, 0), 10, collision.Passive)
	eb, b := spawnCircle(t, w, geom.V(15, 0), 10, collision.Passive)

	sys := NewCollisionSystem(StaticConfig(collision.DefaultConfig()), DefaultStep)

	sys.Update(w)
	starts := collisionEvents(w, ecs.CollisionEventStart)
	if len(starts) != 2 {
		t.Fatalf("expected collisionstart on both entities, got %d", len(starts))
	}
	for _, ev := range starts {
		if !(ev.Entity == ea && ev.Other == eb) && !(ev.Entity == eb && ev.Other == ea) {
			t.Fatalf("event does not map back to the pair: %+v", ev)
		}
		if ev.ContactID == "" {
			t.Fatalf("expected a contact id")
		}
	}
	if len(sys.Contacts()) != 1 {
		t.Fatalf("expected one live contact, got %d", len(sys.Contacts()))
	}

	sys.Update(w)
	events := w.Events().Drain()
	for _, ev := range events {
		ce := ev.Data.(ecs.CollisionEvent)
		if ce.Kind == ecs.CollisionEventStart || ce.Kind == ecs.CollisionEventEnd {
			t.Fatalf("persisting contact should not restart, got %s", ce.Kind)
		}
	}

	b.SetPos(geom.V(100, 0))
	sys.Update(w)
	all := w.Events().Drain()
	ends, contactEnds := 0, 0
	for _, ev := range all {
		ce, ok := ev.Data.(ecs.CollisionEvent)
		if !ok {
			continue
		}
		switch ce.Kind {
		case ecs.CollisionEventEnd:
			ends++
		case ecs.CollisionEventContactEnd:
			contactEnds++
		}
	}
	if ends != 2 || contactEnds != 2 {
		t.Fatalf("expected collisionend and contactend on both entities, got %d and %d", ends, contactEnds)
	}
	if len(sys.Contacts()) != 0 {
		t.Fatalf("expected no live contacts, got %d", len(sys.Contacts()))
	}
}

func TestCollisionSystemEventOrderIsStable(t *testing.T) {
	run := func() (starts, ends []ecs.Entity) {
		w := ecs.NewWorld()
		var movers []*collision.Body
		for i := 0; i < 6; i++ {
			x := float64(i) * 100
			spawnCircle(t, w, geom.V(x, 0), 10, collision.Passive)
			_, b := spawnCircle(t, w, geom.V(x+15, 0), 10, collision.Passive)
			movers = append(movers, b)
		}
		sys := NewCollisionSystem(StaticConfig(collision.DefaultConfig()), DefaultStep)

		sys.Update(w)
		for _, ev := range collisionEvents(w, ecs.CollisionEventStart) {
			starts = append(starts, ev.Entity)
		}

		for i, b := range movers {
			b.SetPos(geom.V(float64(i)*100+15, 500))
		}
		sys.Update(w)
		for _, ev := range collisionEvents(w, ecs.CollisionEventEnd) {
			ends = append(ends, ev.Entity)
		}
		return starts, ends
	}

	wantStarts, wantEnds := run()
	if len(wantStarts) != 12 || len(wantEnds) != 12 {
		t.Fatalf("expected 12 starts and 12 ends, got %d and %d", len(wantStarts), len(wantEnds))
	}
	for i := range wantStarts {
		if wantEnds[i] != wantStarts[i] {
			t.Fatalf("ends should follow the order contacts started in: %v vs %v", wantEnds, wantStarts)
		}
	}

	for i := 0; i < 20; i++ {
		starts, ends := run()
		for j := range wantStarts {
			if starts[j] != wantStarts[j] || ends[j] != wantEnds[j] {
				t.Fatalf("run %d: event order changed: starts %v want %v, ends %v want %v", i, starts, wantStarts, ends, wantEnds)
			}
		}
	}
}

func TestCollisionSystemUntracksRemovedColliders(t *testing.T) {
	w := ecs.NewWorld()
	_, _ = spawnCircle(t, w, geom.V(0, 0), 10, collision.Active)
	eb, b := spawnCircle(t, w, geom.V(15, 0), 10, collision.Active)
	comp, _ := ecs.Get(w, eb, component.ColliderComponent.Kind())
	col := comp.Get()

	sys := NewCollisionSystem(nil, DefaultStep)
	sys.Update(w)
	if e, ok := sys.EntityFor(col); !ok || e != eb {
		t.Fatalf("expected collider to map to %v, got %v", eb, e)
	}

	ecs.Remove(w, eb, component.ColliderComponent.Kind())
	sys.Update(w)

	if col.Owner() != nil {
		t.Fatalf("removed collider should be detached")
	}
	if b.Active() || b.Collider() != nil {
		t.Fatalf("body without a collider should be inactive and empty")
	}
	if sys.Stats().Pairs != 0 {
		t.Fatalf("expected no pairs after removal, got %d", sys.Stats().Pairs)
	}
	if _, ok := sys.EntityFor(col); ok {
		t.Fatalf("removed collider should not map to an entity")
	}
}

func TestCollisionSystemSwitchesSolver(t *testing.T) {
	cfg := collision.DefaultConfig()
	src := &mutableConfig{cfg: cfg}
	sys := NewCollisionSystem(src, DefaultStep)
	if _, ok := sys.solver.(*collision.ArcadeSolver); !ok {
		t.Fatalf("expected arcade solver, got %T", sys.solver)
	}

	src.cfg.Solver = collision.SolverRealistic
	sys.Update(ecs.NewWorld())
	if _, ok := sys.solver.(*collision.RealisticSolver); !ok {
		t.Fatalf("expected realistic solver after config change, got %T", sys.solver)
	}
}

type mutableConfig struct {
	cfg collision.Config
}

func (m *mutableConfig) Config() collision.Config {
	return m.cfg
}

func TestControlSystem(t *testing.T) {
	w := ecs.NewWorld()
	e, body := spawnCircle(t, w, geom.Zero, 5, collision.Active)
	body.Sleep()
	ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{MoveX: 1, JumpPressed: true})
	ecs.Add(w, e, component.ControllableComponent.Kind(), &component.Controllable{Speed: 100, JumpSpeed: 200})

	NewControlSystem(nil).Update(w)

	if !near(body.Vel(), geom.V(100, -200)) {
		t.Fatalf("expected vel (100,-200), got %v", body.Vel())
	}
	if body.Sleeping() {
		t.Fatalf("input should wake the body")
	}
}

func TestCameraSystemFollowsTarget(t *testing.T) {
	tests := []struct {
		name       string
		smoothness float64
		want       geom.Vector
	}{
		{name: "snap", smoothness: 0, want: geom.V(60, 40)},
		{name: "smoothed", smoothness: 0.5, want: geom.V(30, 20)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			target := ecs.CreateEntity(w)
			ecs.Add(w, target, component.NameComponent.Kind(), &component.Name{Value: "ball"})
			ecs.Add(w, target, component.TransformComponent.Kind(), collision.NewTransform(geom.V(700, 400), 0))

			cam := ecs.CreateEntity(w)
			camTx := collision.NewTransform(geom.Zero, 0)
			ecs.Add(w, cam, component.TransformComponent.Kind(), camTx)
			ecs.Add(w, cam, component.CameraComponent.Kind(), &component.Camera{Zoom: 1, Target: "ball", Smoothness: tc.smoothness})

			sys := &CameraSystem{ScreenWidth: 1280, ScreenHeight: 720}
			sys.Update(w)

			if !near(camTx.Pos(), tc.want) {
				t.Fatalf("expected camera at %v, got %v", tc.want, camTx.Pos())
			}
		})
	}
}
