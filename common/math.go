package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// NearlyZero reports |v| < epsilon.
func NearlyZero(v, epsilon float64) bool {
	return math.Abs(v) < epsilon
}
