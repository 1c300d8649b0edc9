package easel

import "math"

// CPU reference implementation of the signed-distance math the fragment
// shaders in package render evaluate per pixel. The render package's
// software evaluator and the shader tests compare against these functions,
// so any change here must be mirrored in the WGSL sources.

// RoundedBoxSDF computes the signed distance from p to a rounded rectangle
// centered at the origin with the given half extents. Per-corner radii are
// selected by the quadrant p falls in. Negative values are inside.
func RoundedBoxSDF(p Point, halfW, halfH float32, radii CornerRadii) float32 {
	var r float32
	if p.X >= 0 {
		if p.Y >= 0 {
			r = radii.BottomRight
		} else {
			r = radii.TopRight
		}
	} else {
		if p.Y >= 0 {
			r = radii.BottomLeft
		} else {
			r = radii.TopLeft
		}
	}
	qx := absF(p.X) - halfW + r
	qy := absF(p.Y) - halfH + r
	outside := float32(math.Hypot(float64(maxF(qx, 0)), float64(maxF(qy, 0))))
	inside := minF(maxF(qx, qy), 0)
	return outside + inside - r
}

// CircleSDF computes the signed distance from p to a circle. Negative
// values are inside.
func CircleSDF(p, center Point, radius float32) float32 {
	d := p.Sub(center)
	return float32(math.Hypot(float64(d.X), float64(d.Y))) - radius
}

// EdgeCoverage converts a signed distance to an anti-aliased coverage value
// in [0, 1]: smoothstep(0.5, -0.5, d). Distances at or beyond half a pixel
// outside yield 0, half a pixel inside yield 1, with a Hermite ramp between.
func EdgeCoverage(d float32) float32 {
	return smoothstep(0.5, -0.5, d)
}

// GradientT computes the normalized position of pos along the gradient axis
// from p0 to p1, clamped to [0, 1]. A degenerate axis (shorter than 1e-2)
// yields 0 so the blend collapses to the first color.
func GradientT(pos, p0, p1 Point) float32 {
	dir := p1.Sub(p0)
	denom := dir.LengthSq()
	if denom < 1e-4 {
		return 0
	}
	return clamp01(pos.Sub(p0).Dot(dir) / denom)
}

// smoothstep is the WGSL builtin: a Hermite interpolation from edge0 to
// edge1. Edges may be given in descending order.
func smoothstep(edge0, edge1, x float32) float32 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
