package system

import (
	"github.com/milk9111/collide2d/common"
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/component"
	"github.com/milk9111/collide2d/geom"
)

// CameraSystem eases each camera toward its target so the target sits in
// the middle of the screen.
type CameraSystem struct {
	ScreenWidth  float64
	ScreenHeight float64
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{ScreenWidth: common.BaseWidth, ScreenHeight: common.BaseHeight}
}

func (s *CameraSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.CameraComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, cam *component.Camera, tx *component.Transform) {
		if cam.Target == "" {
			return
		}
		target, ok := findByName(w, cam.Target)
		if !ok {
			return
		}
		targetTx, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			return
		}

		zoom := cam.Zoom
		if zoom <= 0 {
			zoom = 1
		}
		goal := targetTx.Pos().Sub(geom.V(s.ScreenWidth/2/zoom, s.ScreenHeight/2/zoom))

		t := 1.0
		if cam.Smoothness > 0 {
			t = common.Clamp(1-cam.Smoothness, 0, 1)
		}
		pos := tx.Pos()
		tx.SetPos(geom.V(common.Lerp(pos.X, goal.X, t), common.Lerp(pos.Y, goal.Y, t)))
	})
}

func findByName(w *ecs.World, name string) (ecs.Entity, bool) {
	var found ecs.Entity
	ok := false
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		if !ok && n.Value == name {
			found, ok = e, true
		}
	})
	return found, ok
}
