package system

import (
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/component"
)

// ControlSystem turns Input into velocity on controllable bodies. It runs
// before MotionSystem so the new velocity is integrated the same tick.
type ControlSystem struct {
	config ConfigSource
}

func NewControlSystem(config ConfigSource) *ControlSystem {
	return &ControlSystem{config: config}
}

func (s *ControlSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	cfg := loadConfig(s.config)

	ecs.ForEach3(w, component.InputComponent.Kind(), component.ControllableComponent.Kind(), component.BodyComponent.Kind(), func(e ecs.Entity, input *component.Input, ctrl *component.Controllable, body *component.Body) {
		vel := body.Vel()
		vel.X = input.MoveX * ctrl.Speed
		if input.JumpPressed && ctrl.JumpSpeed > 0 {
			vel.Y = -ctrl.JumpSpeed
		}
		if vel != body.Vel() && body.Sleeping() {
			body.Wake(cfg)
		}
		body.SetVel(vel)
	})
}
