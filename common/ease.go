package common

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Smoothstep returns 3p²-2p³ for p clamped to [0, 1].
func Smoothstep(p float64) float64 {
	p = Clamp(p, 0, 1)
	return p * p * (3 - 2*p)
}

// Pan maps a horizontal position across width to a stereo pan in [-1, 1].
func Pan(x, width float64) float64 {
	if width <= 0 {
		return 0
	}
	return Clamp((x/width)*2-1, -1, 1)
}

// Dist returns the euclidean distance between two points.
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
