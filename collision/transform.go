package collision

import "github.com/milk9111/collide2d/geom"

// Transform is an entity's world placement. The matrix is rebuilt lazily
// after any setter runs.
type Transform struct {
	pos      geom.Vector
	rotation float64
	scale    geom.Vector

	dirty  bool
	matrix geom.AffineMatrix
}

func NewTransform(pos geom.Vector, rotation float64) *Transform {
	return &Transform{pos: pos, rotation: rotation, scale: geom.One, dirty: true}
}

func (t *Transform) Pos() geom.Vector {
	return t.pos
}

func (t *Transform) SetPos(p geom.Vector) {
	t.pos = p
	t.dirty = true
}

func (t *Transform) Rotation() float64 {
	return t.rotation
}

func (t *Transform) SetRotation(r float64) {
	t.rotation = r
	t.dirty = true
}

func (t *Transform) Scale() geom.Vector {
	return t.scale
}

func (t *Transform) SetScale(s geom.Vector) {
	t.scale = s
	t.dirty = true
}

// Matrix returns the cached world matrix.
func (t *Transform) Matrix() geom.AffineMatrix {
	if t == nil {
		return geom.Identity()
	}
	if t.dirty {
		t.matrix = geom.NewAffineMatrix(t.pos, t.rotation, t.scale)
		t.dirty = false
	}
	return t.matrix
}

// Apply maps a local point to world space.
func (t *Transform) Apply(p geom.Vector) geom.Vector {
	return t.Matrix().Apply(p)
}

// ApplyInverse maps a world point to local space.
func (t *Transform) ApplyInverse(p geom.Vector) geom.Vector {
	return t.Matrix().ApplyInverse(p)
}

// Motion is the rate-of-change state integrated every tick.
type Motion struct {
	Vel             geom.Vector
	Acc             geom.Vector
	AngularVelocity float64
	Torque          float64
	ScaleFactor     geom.Vector
	// Inertia is the rotational inertia used for torque integration.
	Inertia float64
}

func NewMotion() *Motion {
	return &Motion{Inertia: 1}
}
