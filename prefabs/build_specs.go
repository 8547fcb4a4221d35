package prefabs

import (
	"fmt"

	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/component"
	"github.com/milk9111/collide2d/geom"
	"gopkg.in/yaml.v3"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type MotionComponentSpec struct {
	Vel             VectorSpec `yaml:"vel"`
	Acc             VectorSpec `yaml:"acc"`
	AngularVelocity float64    `yaml:"angular_velocity"`
}

type BodyComponentSpec struct {
	Type         string   `yaml:"type"`
	Mass         float64  `yaml:"mass"`
	Bounciness   *float64 `yaml:"bounciness"`
	Friction     *float64 `yaml:"friction"`
	UseGravity   *bool    `yaml:"use_gravity"`
	CanSleep     *bool    `yaml:"can_sleep"`
	Group        string   `yaml:"group"`
	CollidesWith []string `yaml:"collides_with"`
	Lock         []string `yaml:"lock"`
}

type CameraComponentSpec struct {
	Zoom       float64 `yaml:"zoom"`
	Target     string  `yaml:"target"`
	Smoothness float64 `yaml:"smoothness"`
}

type ControllableComponentSpec struct {
	Speed     float64 `yaml:"speed"`
	JumpSpeed float64 `yaml:"jump_speed"`
}

// Scene holds what BuildScene created.
type Scene struct {
	Name     string
	Entities []ecs.Entity
	Groups   *collision.GroupManager
}

// BuildScene registers the scene's groups and spawns every entity into w.
func BuildScene(w *ecs.World, spec SceneSpec, cfg collision.Config) (*Scene, error) {
	scene := &Scene{Name: spec.Name, Groups: collision.NewGroupManager()}
	for _, name := range spec.Groups {
		if _, err := scene.Groups.Create(name); err != nil {
			return nil, fmt.Errorf("prefabs: scene %s: %w", spec.Name, err)
		}
	}
	for i, es := range spec.Entities {
		e, err := BuildEntity(w, es, cfg, scene.Groups)
		if err != nil {
			for _, built := range scene.Entities {
				ecs.DestroyEntity(w, built)
			}
			return nil, fmt.Errorf("prefabs: scene %s entity %d (%s): %w", spec.Name, i, es.Name, err)
		}
		scene.Entities = append(scene.Entities, e)
	}
	return scene, nil
}

// BuildEntity spawns one entity. A body always gets a transform and motion,
// and they are the same values stored as the entity's components.
func BuildEntity(w *ecs.World, spec EntityBuildSpec, cfg collision.Config, groups *collision.GroupManager) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := buildComponents(w, e, spec, cfg, groups); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}
	return e, nil
}

func buildComponents(w *ecs.World, e ecs.Entity, spec EntityBuildSpec, cfg collision.Config, groups *collision.GroupManager) error {
	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
			return err
		}
	}

	raw := spec.Components
	_, hasBody := raw["body"]

	var tx *collision.Transform
	if rawTx, ok := raw["transform"]; ok || hasBody {
		ts, err := DecodeComponentSpec[TransformComponentSpec](rawTx)
		if err != nil {
			return fmt.Errorf("transform: %w", err)
		}
		tx = collision.NewTransform(geom.V(ts.X, ts.Y), ts.Rotation)
		if ts.ScaleX != 0 || ts.ScaleY != 0 {
			tx.SetScale(geom.V(ts.ScaleX, ts.ScaleY))
		}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), tx); err != nil {
			return err
		}
	}

	var motion *collision.Motion
	if rawMotion, ok := raw["motion"]; ok || hasBody {
		ms, err := DecodeComponentSpec[MotionComponentSpec](rawMotion)
		if err != nil {
			return fmt.Errorf("motion: %w", err)
		}
		motion = collision.NewMotion()
		motion.Vel = ms.Vel.Vector()
		motion.Acc = ms.Acc.Vector()
		motion.AngularVelocity = ms.AngularVelocity
		if err := ecs.Add(w, e, component.MotionComponent.Kind(), motion); err != nil {
			return err
		}
	}

	var body *collision.Body
	if hasBody {
		bs, err := DecodeComponentSpec[BodyComponentSpec](raw["body"])
		if err != nil {
			return fmt.Errorf("body: %w", err)
		}
		body, err = buildBody(bs, tx, motion, cfg, groups)
		if err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.BodyComponent.Kind(), body); err != nil {
			return err
		}
	}

	if rawCollider, ok := raw["collider"]; ok {
		if body == nil {
			return fmt.Errorf("collider without a body")
		}
		cs, err := DecodeComponentSpec[ColliderSpec](rawCollider)
		if err != nil {
			return fmt.Errorf("collider: %w", err)
		}
		col, err := cs.Build()
		if err != nil {
			return err
		}
		comp := component.NewCollider(nil)
		comp.Set(col, body)
		if err := ecs.Add(w, e, component.ColliderComponent.Kind(), comp); err != nil {
			return err
		}
	}

	if rawCam, ok := raw["camera"]; ok {
		cs, err := DecodeComponentSpec[CameraComponentSpec](rawCam)
		if err != nil {
			return fmt.Errorf("camera: %w", err)
		}
		if cs.Zoom <= 0 {
			cs.Zoom = 1
		}
		camera := &component.Camera{Zoom: cs.Zoom, Target: cs.Target, Smoothness: cs.Smoothness}
		if err := ecs.Add(w, e, component.CameraComponent.Kind(), camera); err != nil {
			return err
		}
	}

	if rawCtrl, ok := raw["controllable"]; ok {
		if body == nil {
			return fmt.Errorf("controllable without a body")
		}
		cs, err := DecodeComponentSpec[ControllableComponentSpec](rawCtrl)
		if err != nil {
			return fmt.Errorf("controllable: %w", err)
		}
		ctrl := &component.Controllable{Speed: cs.Speed, JumpSpeed: cs.JumpSpeed}
		if err := ecs.Add(w, e, component.ControllableComponent.Kind(), ctrl); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
			return err
		}
	}
	return nil
}

func buildBody(spec BodyComponentSpec, tx *collision.Transform, motion *collision.Motion, cfg collision.Config, groups *collision.GroupManager) (*collision.Body, error) {
	ct, err := ParseCollisionType(spec.Type)
	if err != nil {
		return nil, err
	}
	locked, err := ParseLocks(spec.Lock)
	if err != nil {
		return nil, err
	}

	body := collision.NewBody(tx, motion)
	body.CollisionType = ct
	body.Locked = locked
	body.CanSleep = cfg.BodiesCanSleepByDefault

	mass := cfg.DefaultMass
	if spec.Mass > 0 {
		mass = spec.Mass
	}
	body.SetMass(mass)
	if spec.Bounciness != nil {
		body.Bounciness = *spec.Bounciness
	}
	if spec.Friction != nil {
		body.Friction = *spec.Friction
	}
	if spec.UseGravity != nil {
		body.UseGravity = *spec.UseGravity
	}
	if spec.CanSleep != nil {
		body.CanSleep = *spec.CanSleep
	}

	if spec.Group != "" {
		g, ok := groups.Group(spec.Group)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, spec.Group)
		}
		body.Group = g
	}
	if len(spec.CollidesWith) > 0 {
		with := make([]collision.CollisionGroup, 0, len(spec.CollidesWith))
		for _, name := range spec.CollidesWith {
			g, ok := groups.Group(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
			}
			with = append(with, g)
		}
		mask := collision.CollidesWith(with...).Mask
		if spec.Group == "" {
			body.Group = collision.CollidesWith(with...)
		} else {
			body.Group.Mask = mask
		}
	}
	return body, nil
}
