package prefabs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/component"
	"github.com/milk9111/collide2d/geom"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		check   func(t *testing.T, cfg collision.Config)
	}{
		{
			name: "empty_keeps_defaults",
			yaml: "",
			check: func(t *testing.T, cfg collision.Config) {
				if cfg != collision.DefaultConfig() {
					t.Fatalf("expected defaults, got %+v", cfg)
				}
			},
		},
		{
			name: "overlay",
			yaml: "solver: Realistic\ngravity: {x: 0, y: 10}\nsleep:\n  by_default: true\n",
			check: func(t *testing.T, cfg collision.Config) {
				if cfg.Solver != collision.SolverRealistic {
					t.Fatalf("expected realistic solver, got %q", cfg.Solver)
				}
				if cfg.Gravity != geom.V(0, 10) || !cfg.BodiesCanSleepByDefault {
					t.Fatalf("overlay not applied: %+v", cfg)
				}
				if cfg.Slop != 1 || cfg.SleepEpsilon != 0.07 {
					t.Fatalf("untouched keys should keep defaults: %+v", cfg)
				}
			},
		},
		{
			name:    "unknown_solver",
			yaml:    "solver: verlet\n",
			wantErr: ErrUnknownSolver,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tc.yaml))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			tc.check(t, cfg)
		})
	}
}

func TestLoadEmbeddedConfig(t *testing.T) {
	cfg, err := LoadConfig(DefaultConfigFile)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Gravity != geom.V(0, 800) || cfg.Solver != collision.SolverArcade {
		t.Fatalf("unexpected embedded config %+v", cfg)
	}
}

func TestScenePath(t *testing.T) {
	for _, in := range []string{"boxes", "boxes.yaml", "scenes/boxes", "prefabs/scenes/boxes.yaml"} {
		if got := ScenePath(in); got != "scenes/boxes.yaml" {
			t.Fatalf("ScenePath(%q) = %q", in, got)
		}
	}
}

func TestColliderSpecBuild(t *testing.T) {
	tests := []struct {
		name     string
		spec     ColliderSpec
		wantKind collision.ShapeKind
		wantErr  error
	}{
		{name: "circle", spec: ColliderSpec{Shape: "circle", Radius: 5}, wantKind: collision.KindCircle},
		{name: "box", spec: ColliderSpec{Shape: "Box", Width: 10, Height: 4}, wantKind: collision.KindPolygon},
		{name: "edge", spec: ColliderSpec{Shape: "edge", End: VectorSpec{X: 10}}, wantKind: collision.KindEdge},
		{
			name:    "polygon_too_few_points",
			spec:    ColliderSpec{Shape: "polygon", Points: []VectorSpec{{X: 0}, {X: 1}}},
			wantErr: collision.ErrTooFewPoints,
		},
		{
			name: "composite",
			spec: ColliderSpec{Shape: "composite", Children: []ColliderSpec{
				{Shape: "circle", Radius: 2},
				{Shape: "circle", Radius: 2, Offset: VectorSpec{X: 5}},
			}},
			wantKind: collision.KindComposite,
		},
		{
			name: "composite_bad_child",
			spec: ColliderSpec{Shape: "composite", Children: []ColliderSpec{
				{Shape: "capsule"},
			}},
			wantErr: ErrUnknownShape,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := tc.spec.Build()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			if c.Kind() != tc.wantKind {
				t.Fatalf("expected %s, got %s", tc.wantKind, c.Kind())
			}
		})
	}
}

func TestBuildScene(t *testing.T) {
	spec, err := LoadSceneSpec("boxes")
	if err != nil {
		t.Fatalf("load scene failed: %v", err)
	}
	w := ecs.NewWorld()
	scene, err := BuildScene(w, spec, collision.DefaultConfig())
	if err != nil {
		t.Fatalf("build scene failed: %v", err)
	}
	if len(scene.Entities) != len(spec.Entities) || len(ecs.Entities(w)) != len(spec.Entities) {
		t.Fatalf("expected %d entities, got %d", len(spec.Entities), len(scene.Entities))
	}

	crates, ok := scene.Groups.Group("crates")
	if !ok {
		t.Fatalf("expected crates group")
	}

	byName := map[string]ecs.Entity{}
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		byName[n.Value] = e
	})

	tests := []struct {
		name  string
		check func(t *testing.T, e ecs.Entity)
	}{
		{
			name: "ground",
			check: func(t *testing.T, e ecs.Entity) {
				body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
				if !ok || body.CollisionType != collision.Fixed {
					t.Fatalf("ground should be a fixed body")
				}
			},
		},
		{
			name: "crate_a",
			check: func(t *testing.T, e ecs.Entity) {
				body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
				tx, _ := ecs.Get(w, e, component.TransformComponent.Kind())
				if body.Transform != tx {
					t.Fatalf("body should share the entity transform")
				}
				if body.Group != crates {
					t.Fatalf("expected crates group, got %+v", body.Group)
				}
				col, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
				if col.Owner() != body || body.Collider() != col.Get() {
					t.Fatalf("collider should be attached to the body")
				}
			},
		},
		{
			name: "ball",
			check: func(t *testing.T, e ecs.Entity) {
				motion, _ := ecs.Get(w, e, component.MotionComponent.Kind())
				body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
				if motion.Vel != geom.V(150, 0) || body.Bounciness != 0.6 || body.Motion != motion {
					t.Fatalf("ball motion not built from the scene")
				}
			},
		},
		{
			name: "dumbbell",
			check: func(t *testing.T, e ecs.Entity) {
				body, _ := ecs.Get(w, e, component.BodyComponent.Kind())
				col, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
				if !body.IsLocked(collision.LockRotation) || col.Get().Kind() != collision.KindComposite {
					t.Fatalf("dumbbell should be a rotation-locked composite")
				}
			},
		},
		{
			name: "camera",
			check: func(t *testing.T, e ecs.Entity) {
				if !ecs.Has(w, e, component.CameraComponent.Kind()) || ecs.Has(w, e, component.BodyComponent.Kind()) {
					t.Fatalf("camera should have a camera and no body")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := byName[tc.name]
			if !ok {
				t.Fatalf("entity %s missing", tc.name)
			}
			tc.check(t, e)
		})
	}
}

func TestBuildSceneRollsBack(t *testing.T) {
	spec := SceneSpec{
		Name:   "broken",
		Groups: []string{"a"},
		Entities: []EntityBuildSpec{
			{Name: "ok", Components: map[string]any{"body": map[string]any{"group": "a"}}},
			{Name: "bad", Components: map[string]any{"body": map[string]any{"group": "missing"}}},
		},
	}
	w := ecs.NewWorld()
	_, err := BuildScene(w, spec, collision.DefaultConfig())
	if !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("failed build should leave no entities, got %d", n)
	}
}

func TestConfigStore(t *testing.T) {
	var zero ConfigStore
	if zero.Config() != collision.DefaultConfig() {
		t.Fatalf("empty store should hand out defaults")
	}

	cfg := collision.DefaultConfig()
	cfg.Solver = collision.SolverRealistic
	store := NewConfigStore(collision.DefaultConfig())
	store.Store(cfg)
	if store.Config().Solver != collision.SolverRealistic {
		t.Fatalf("expected stored config")
	}

	if err := store.Reload("does-not-exist.yaml"); err == nil {
		t.Fatalf("expected reload of a missing file to fail")
	}
	if store.Config().Solver != collision.SolverRealistic {
		t.Fatalf("failed reload should keep the previous config")
	}
}

func TestWatcherReportsYAML(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	target := filepath.Join(dir, "physics.yaml")
	if err := os.WriteFile(target, []byte("solver: arcade\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case got := <-w.Events:
		if filepath.Base(got) != "physics.yaml" {
			t.Fatalf("expected physics.yaml, got %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a watcher event")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	for range w.Events {
	}
}
