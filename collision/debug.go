package collision

import (
	"image/color"

	"github.com/milk9111/collide2d/geom"
)

// DebugRenderer receives draw calls from the tree, processor and colliders.
// Coordinates are world space.
type DebugRenderer interface {
	DrawRect(bounds geom.BoundingBox, c color.Color)
	DrawLine(a, b geom.Vector, c color.Color)
	DrawCircle(center geom.Vector, radius float64, c color.Color)
	DrawPoint(p geom.Vector, c color.Color)
}

var (
	ColorTreeNode = color.NRGBA{R: 0, G: 255, B: 0, A: 120}
	ColorCollider = color.NRGBA{R: 0, G: 200, B: 255, A: 255}
	ColorContact  = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	ColorNormal   = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
	ColorSleeping = color.NRGBA{R: 128, G: 128, B: 128, A: 255}
)

// DrawContact draws every contact point and its normal.
func DrawContact(r DebugRenderer, contact *Contact) {
	for _, p := range contact.Points {
		r.DrawPoint(p, ColorContact)
		r.DrawLine(p, p.Add(contact.Normal.Mult(30)), ColorNormal)
	}
}
