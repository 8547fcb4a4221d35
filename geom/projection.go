package geom

// Projection is the interval a shape covers on an axis.
type Projection struct {
	Min float64
	Max float64
}

func (p Projection) Overlaps(other Projection) bool {
	return p.Max > other.Min && other.Max > p.Min
}

// Overlap returns the overlapping length of the two intervals, or 0.
func (p Projection) Overlap(other Projection) float64 {
	if !p.Overlaps(other) {
		return 0
	}
	if p.Max > other.Max {
		return other.Max - p.Min
	}
	return p.Max - other.Min
}

// Contains reports whether other lies entirely within p.
func (p Projection) Contains(other Projection) bool {
	return p.Min <= other.Min && p.Max >= other.Max
}
