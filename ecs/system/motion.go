package system

import (
	"time"

	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/component"
)

// DefaultStep is one tick at ebiten's default 60 TPS.
const DefaultStep = time.Second / 60

// ConfigSource hands out the physics config for the current tick.
type ConfigSource interface {
	Config() collision.Config
}

// StaticConfig is a ConfigSource that never changes.
type StaticConfig collision.Config

func (c StaticConfig) Config() collision.Config {
	return collision.Config(c)
}

func loadConfig(src ConfigSource) collision.Config {
	if src == nil {
		return collision.DefaultConfig()
	}
	return src.Config()
}

// MotionSystem integrates every entity with a Transform and Motion. Bodies
// get gravity and are skipped while asleep.
type MotionSystem struct {
	config     ConfigSource
	step       time.Duration
	integrator *collision.EulerIntegrator
}

func NewMotionSystem(config ConfigSource, step time.Duration) *MotionSystem {
	if step <= 0 {
		step = DefaultStep
	}
	return &MotionSystem{
		config:     config,
		step:       step,
		integrator: collision.NewEulerIntegrator(),
	}
}

func (s *MotionSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	cfg := loadConfig(s.config)
	if !cfg.Enabled {
		return
	}

	ecs.ForEach2(w, component.TransformComponent.Kind(), component.MotionComponent.Kind(), func(e ecs.Entity, tx *component.Transform, motion *component.Motion) {
		totalAcc := motion.Acc
		if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			if body.Sleeping() {
				return
			}
			body.CaptureOldTransform()
			if body.CollisionType == collision.Active && body.UseGravity {
				totalAcc = totalAcc.Add(cfg.Gravity)
			}
		}
		s.integrator.Integrate(tx, motion, totalAcc, s.step)
	})
}
