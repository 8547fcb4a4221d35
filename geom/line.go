package geom

import "math"

// LineSegment is a directed segment from Begin to End.
type LineSegment struct {
	Begin Vector
	End   Vector
}

func NewLineSegment(begin, end Vector) LineSegment {
	return LineSegment{Begin: begin, End: end}
}

// Edge is the vector End - Begin.
func (l LineSegment) Edge() Vector {
	return l.End.Sub(l.Begin)
}

// Slope is the unit direction of the segment.
func (l LineSegment) Slope() Vector {
	return Normalize(l.Edge())
}

// Normal is the unit normal. For the sides of a counter-clockwise polygon it
// points outward.
func (l LineSegment) Normal() Vector {
	return Normal(l.Edge())
}

func (l LineSegment) Length() float64 {
	return l.Begin.Distance(l.End)
}

func (l LineSegment) Midpoint() Vector {
	return l.Begin.Add(l.End).Mult(0.5)
}

// Below reports whether point is on the inner (right-hand) side of the
// segment, or on it.
func (l LineSegment) Below(point Vector) bool {
	above := (l.End.X-l.Begin.X)*(point.Y-l.Begin.Y) - (l.End.Y-l.Begin.Y)*(point.X-l.Begin.X)
	return above >= 0
}

// DistanceToPoint is the distance from point to the infinite line through the
// segment. Signed distances are positive on the Normal side.
func (l LineSegment) DistanceToPoint(point Vector, signed bool) float64 {
	length := l.Length()
	if length == 0 {
		return point.Distance(l.Begin)
	}
	dy := l.End.Y - l.Begin.Y
	dx := l.End.X - l.Begin.X
	distance := (dy*point.X - dx*point.Y + l.End.X*l.Begin.Y - l.End.Y*l.Begin.X) / length
	if signed {
		return distance
	}
	return math.Abs(distance)
}

// ClosestPoint returns the point on the segment nearest to point.
func (l LineSegment) ClosestPoint(point Vector) Vector {
	edge := l.Edge()
	den := edge.Dot(edge)
	if den == 0 {
		return l.Begin
	}
	t := point.Sub(l.Begin).Dot(edge) / den
	t = math.Max(0, math.Min(1, t))
	return l.Begin.Add(edge.Mult(t))
}

// Clip keeps the part of the segment where dot(dir, p) <= length. It returns
// false when fewer than two points survive.
func (l LineSegment) Clip(sideVector Vector, length float64) (LineSegment, bool) {
	dir := Normalize(sideVector)

	near := dir.Dot(l.Begin) - length
	far := dir.Dot(l.End) - length

	results := make([]Vector, 0, 2)
	if near <= 0 {
		results = append(results, l.Begin)
	}
	if far <= 0 {
		results = append(results, l.End)
	}
	if near*far < 0 {
		clipTime := near / (near - far)
		results = append(results, l.Begin.Add(l.Edge().Mult(clipTime)))
	}

	if len(results) != 2 {
		return LineSegment{}, false
	}
	return LineSegment{Begin: results[0], End: results[1]}, true
}

// Intersect returns the point where two segments cross.
func (l LineSegment) Intersect(other LineSegment) (Vector, bool) {
	r := l.Edge()
	s := other.Edge()
	den := r.Cross(s)
	if den == 0 {
		return Zero, false
	}
	qp := other.Begin.Sub(l.Begin)
	t := qp.Cross(s) / den
	u := qp.Cross(r) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Zero, false
	}
	return l.Begin.Add(r.Mult(t)), true
}

// HasPoint reports whether point lies on the segment within threshold.
func (l LineSegment) HasPoint(point Vector, threshold float64) bool {
	return l.ClosestPoint(point).Distance(point) <= threshold
}

// Points returns Begin and End.
func (l LineSegment) Points() []Vector {
	return []Vector{l.Begin, l.End}
}

// Transform applies a matrix to both ends.
func (l LineSegment) Transform(m AffineMatrix) LineSegment {
	return LineSegment{Begin: m.Apply(l.Begin), End: m.Apply(l.End)}
}

// ClosestLine returns the shortest segment between the segments
// p0 + s*u and q0 + t*v, s and t in [0, 1].
func ClosestLine(p0, u, q0, v Vector) LineSegment {
	w0 := p0.Sub(q0)
	a := u.Dot(u)
	b := u.Dot(v)
	c := v.Dot(v)
	d := u.Dot(w0)
	e := v.Dot(w0)

	denom := a*c - b*b
	sDenom := denom
	tDenom := denom

	sn := b*e - c*d
	tn := a*e - b*d

	if sn < 0 {
		sn = 0
		tn = e
		tDenom = c
	} else if sn > sDenom {
		sn = sDenom
		tn = e + b
		tDenom = c
	}

	if tn < 0 {
		tn = 0
		switch {
		case -d < 0:
			sn = 0
		case -d > a:
			sn = sDenom
		default:
			sn = -d
			sDenom = a
		}
	} else if tn > tDenom {
		tn = tDenom
		switch {
		case -d+b < 0:
			sn = 0
		case -d+b > a:
			sn = sDenom
		default:
			sn = -d + b
			sDenom = a
		}
	}

	sc := 0.0
	if math.Abs(sn) >= 0.001 && sDenom != 0 {
		sc = sn / sDenom
	}
	tc := 0.0
	if math.Abs(tn) >= 0.001 && tDenom != 0 {
		tc = tn / tDenom
	}

	return LineSegment{Begin: p0.Add(u.Mult(sc)), End: q0.Add(v.Mult(tc))}
}
