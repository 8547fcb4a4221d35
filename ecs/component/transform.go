package component

import "github.com/milk9111/collide2d/collision"

// Transform is the entity's world placement. Bodies point at the same value.
type Transform = collision.Transform

var TransformComponent = NewComponent[Transform]()

// Motion holds velocity, acceleration and their angular counterparts.
type Motion = collision.Motion

var MotionComponent = NewComponent[Motion]()

// Body is the physical state the solvers read and write.
type Body = collision.Body

var BodyComponent = NewComponent[Body]()

// Name labels an entity for debugging and scene lookups.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
