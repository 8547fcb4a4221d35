package geom

import "math"

// BoundingBox is an axis-aligned box. Top is the smaller Y.
type BoundingBox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func NewBoundingBox(left, top, right, bottom float64) BoundingBox {
	return BoundingBox{Left: left, Top: top, Right: right, Bottom: bottom}
}

// FromPoints returns the tightest box around points.
func FromPoints(points []Vector) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{
		Left:   math.Inf(1),
		Top:    math.Inf(1),
		Right:  math.Inf(-1),
		Bottom: math.Inf(-1),
	}
	for _, p := range points {
		bb.Left = math.Min(bb.Left, p.X)
		bb.Top = math.Min(bb.Top, p.Y)
		bb.Right = math.Max(bb.Right, p.X)
		bb.Bottom = math.Max(bb.Bottom, p.Y)
	}
	return bb
}

// FromDimension builds a box of width x height positioned so that anchor
// (0..1 on each axis) sits at pos.
func FromDimension(width, height float64, anchor, pos Vector) BoundingBox {
	return BoundingBox{
		Left:   -width*anchor.X + pos.X,
		Top:    -height*anchor.Y + pos.Y,
		Right:  width - width*anchor.X + pos.X,
		Bottom: height - height*anchor.Y + pos.Y,
	}
}

func (b BoundingBox) Width() float64 {
	return b.Right - b.Left
}

func (b BoundingBox) Height() float64 {
	return b.Bottom - b.Top
}

func (b BoundingBox) Center() Vector {
	return Vector{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

func (b BoundingBox) Perimeter() float64 {
	return 2 * (b.Width() + b.Height())
}

// HasZeroDimensions reports a degenerate box with no extent on either axis.
func (b BoundingBox) HasZeroDimensions() bool {
	return b.Width() == 0 && b.Height() == 0
}

func (b BoundingBox) Translate(v Vector) BoundingBox {
	return BoundingBox{Left: b.Left + v.X, Top: b.Top + v.Y, Right: b.Right + v.X, Bottom: b.Bottom + v.Y}
}

// Pad grows the box by amount on every side.
func (b BoundingBox) Pad(amount float64) BoundingBox {
	return BoundingBox{Left: b.Left - amount, Top: b.Top - amount, Right: b.Right + amount, Bottom: b.Bottom + amount}
}

// Points returns the corners clockwise from top-left.
func (b BoundingBox) Points() []Vector {
	return []Vector{
		{X: b.Left, Y: b.Top},
		{X: b.Right, Y: b.Top},
		{X: b.Right, Y: b.Bottom},
		{X: b.Left, Y: b.Bottom},
	}
}

// Transform returns the axis-aligned box around the transformed corners.
func (b BoundingBox) Transform(m AffineMatrix) BoundingBox {
	corners := b.Points()
	for i := range corners {
		corners[i] = m.Apply(corners[i])
	}
	return FromPoints(corners)
}

func (b BoundingBox) Combine(other BoundingBox) BoundingBox {
	return BoundingBox{
		Left:   math.Min(b.Left, other.Left),
		Top:    math.Min(b.Top, other.Top),
		Right:  math.Max(b.Right, other.Right),
		Bottom: math.Max(b.Bottom, other.Bottom),
	}
}

// Contains reports whether other lies entirely inside b.
func (b BoundingBox) Contains(other BoundingBox) bool {
	return b.Left <= other.Left && b.Top <= other.Top && b.Right >= other.Right && b.Bottom >= other.Bottom
}

func (b BoundingBox) ContainsPoint(p Vector) bool {
	return b.Left <= p.X && b.Top <= p.Y && b.Right >= p.X && b.Bottom >= p.Y
}

// Overlaps reports whether the boxes touch, allowing epsilon slack.
func (b BoundingBox) Overlaps(other BoundingBox, epsilon float64) bool {
	if other.Left > b.Right+epsilon ||
		other.Right < b.Left-epsilon ||
		other.Top > b.Bottom+epsilon ||
		other.Bottom < b.Top-epsilon {
		return false
	}
	return true
}

// RayCast reports whether the ray enters the box before farClip.
func (b BoundingBox) RayCast(ray Ray, farClip float64) bool {
	tmin, tmax := b.slabs(ray)
	return tmax >= math.Max(0, tmin) && tmin < farClip
}

// RayCastTime returns the entry distance of the ray, or -1 on a miss.
func (b BoundingBox) RayCastTime(ray Ray, farClip float64) float64 {
	tmin, tmax := b.slabs(ray)
	if tmax >= math.Max(0, tmin) && tmin < farClip {
		return tmin
	}
	return -1
}

func (b BoundingBox) slabs(ray Ray) (float64, float64) {
	xinv := math.MaxFloat64
	if ray.Dir.X != 0 {
		xinv = 1 / ray.Dir.X
	}
	yinv := math.MaxFloat64
	if ray.Dir.Y != 0 {
		yinv = 1 / ray.Dir.Y
	}

	tx1 := (b.Left - ray.Pos.X) * xinv
	tx2 := (b.Right - ray.Pos.X) * xinv
	tmin := math.Min(tx1, tx2)
	tmax := math.Max(tx1, tx2)

	ty1 := (b.Top - ray.Pos.Y) * yinv
	ty2 := (b.Bottom - ray.Pos.Y) * yinv
	tmin = math.Max(tmin, math.Min(ty1, ty2))
	tmax = math.Min(tmax, math.Max(ty1, ty2))
	return tmin, tmax
}

// Intersect returns the minimum translation that pushes other out of b, or
// false when the boxes do not overlap.
func (b BoundingBox) Intersect(other BoundingBox) (Vector, bool) {
	totalBoundingBox := b.Combine(other)

	if totalBoundingBox.Width() < other.Width()+b.Width() &&
		totalBoundingBox.Height() < other.Height()+b.Height() &&
		!totalBoundingBox.HasZeroDimensions() {

		overlapX := 0.0
		if b.Right >= other.Left && b.Right <= other.Right {
			overlapX = other.Left - b.Right
		} else {
			overlapX = other.Right - b.Left
		}

		overlapY := 0.0
		if b.Top <= other.Bottom && b.Top >= other.Top {
			overlapY = other.Bottom - b.Top
		} else {
			overlapY = other.Top - b.Bottom
		}

		if math.Abs(overlapX) < math.Abs(overlapY) {
			return Vector{X: overlapX, Y: 0}, true
		}
		return Vector{X: 0, Y: overlapY}, true
	}
	return Zero, false
}
