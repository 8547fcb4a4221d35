package system

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/collide2d/collision"
	"github.com/milk9111/collide2d/ecs"
	"github.com/milk9111/collide2d/ecs/component"
	"github.com/milk9111/collide2d/geom"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// Draw renders colliders and contacts. The tree and stats are added when
// Debug is set.
func (s *CollisionSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	DrawPhysicsDebug(s, w, screen, s.Debug)
}

func DrawPhysicsDebug(s *CollisionSystem, w *ecs.World, screen *ebiten.Image, verbose bool) {
	if s == nil || w == nil || screen == nil {
		return
	}

	camX, camY, zoom := debugCameraTransform(w)
	drawer := &physicsDebugDrawer{
		screen: screen,
		camX:   camX,
		camY:   camY,
		zoom:   zoom,
	}

	if verbose {
		s.processor.Debug(drawer)
	}
	for _, t := range s.tracked {
		col := collision.ColorCollider
		if t.body.Sleeping() {
			col = collision.ColorSleeping
		}
		t.collider.Debug(drawer, col)
	}
	for _, c := range s.last {
		collision.DrawContact(drawer, c)
	}
	if verbose {
		DrawPhysicsStats(s.stats, screen)
	}
}

func DrawPhysicsStats(stats *collision.Stats, screen *ebiten.Image) {
	if stats == nil || screen == nil {
		return
	}
	text := fmt.Sprintf("Pairs: %d\nCollisions: %d\nFast bodies: %d (%d hit)\nTree updates: %d\nBroadphase: %s\nNarrowphase: %s\nSolve: %s",
		stats.Pairs, stats.Collisions, stats.FastBodies, stats.FastBodyCollisions, stats.TreeUpdates,
		stats.Broadphase, stats.Narrowphase, stats.Solve)
	ebitenutil.DebugPrintAt(screen, text, 10, 30)
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	camX   float64
	camY   float64
	zoom   float64
}

func (d *physicsDebugDrawer) DrawRect(b geom.BoundingBox, c color.Color) {
	d.drawPolygon([]geom.Vector{
		geom.V(b.Left, b.Top),
		geom.V(b.Right, b.Top),
		geom.V(b.Right, b.Bottom),
		geom.V(b.Left, b.Bottom),
	}, c)
}

func (d *physicsDebugDrawer) DrawLine(a, b geom.Vector, c color.Color) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	ebitenutil.DrawLine(d.screen, x1, y1, x2, y2, c)
}

func (d *physicsDebugDrawer) DrawCircle(center geom.Vector, radius float64, c color.Color) {
	if radius <= 0 {
		return
	}
	points := make([]geom.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, geom.V(center.X+math.Cos(t)*radius, center.Y+math.Sin(t)*radius))
	}
	d.drawPolygon(points, c)
}

func (d *physicsDebugDrawer) DrawPoint(p geom.Vector, c color.Color) {
	half := debugDotSize / 2.0
	d.DrawLine(geom.V(p.X-half, p.Y), geom.V(p.X+half, p.Y), c)
	d.DrawLine(geom.V(p.X, p.Y-half), geom.V(p.X, p.Y+half), c)
}

func (d *physicsDebugDrawer) drawPolygon(verts []geom.Vector, c color.Color) {
	for i := 0; i < len(verts); i++ {
		d.DrawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) toScreen(v geom.Vector) (float64, float64) {
	return (v.X - d.camX) * d.zoom, (v.Y - d.camY) * d.zoom
}

// ScreenToWorld maps a screen position through the camera.
func ScreenToWorld(w *ecs.World, x, y float64) geom.Vector {
	camX, camY, zoom := debugCameraTransform(w)
	return geom.V(x/zoom+camX, y/zoom+camY)
}

func debugCameraTransform(w *ecs.World) (float64, float64, float64) {
	camX, camY := 0.0, 0.0
	zoom := 1.0
	camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
	if !ok {
		return camX, camY, zoom
	}
	if camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind()); ok {
		pos := camTransform.Pos()
		camX = pos.X
		camY = pos.Y
	}
	if camComp, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind()); ok {
		if camComp.Zoom > 0 {
			zoom = camComp.Zoom
		}
	}
	return camX, camY, zoom
}
