package geom

// Ray is a half-line starting at Pos heading along the unit vector Dir.
type Ray struct {
	Pos Vector
	Dir Vector
}

// NewRay builds a ray, normalizing dir.
func NewRay(pos, dir Vector) Ray {
	return Ray{Pos: pos, Dir: Normalize(dir)}
}

// Intersect returns the distance along the ray where it crosses the segment,
// or -1 when it does not.
func (r Ray) Intersect(line LineSegment) float64 {
	numerator := line.Begin.Sub(r.Pos)
	slope := line.Slope()

	divisor := r.Dir.Cross(slope)
	if divisor == 0 {
		// parallel or collinear
		return -1
	}

	t := numerator.Cross(slope) / divisor
	if t < 0 {
		return -1
	}
	length := line.Length()
	if length == 0 {
		return -1
	}
	u := numerator.Cross(r.Dir) / divisor / length
	if u >= 0 && u <= 1 {
		return t
	}
	return -1
}

// Point returns the point at distance t along the ray.
func (r Ray) Point(t float64) Vector {
	return r.Pos.Add(r.Dir.Mult(t))
}
