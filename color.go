package easel

import "math"

// Color is a premultiplied linear RGBA color: the R, G, and B channels are
// already scaled by A. The renderer's additive border compositing and the
// One/OneMinusSrcAlpha blend state are only correct under premultiplication,
// so every color handed to the renderer must satisfy 0 <= channel <= A <= 1.
//
// The invariant is producer-enforced: the renderer does not clamp. Use
// FromStraight to build valid colors from straight-alpha inputs, or Clamped
// to repair a color of unknown provenance.
type Color struct {
	R, G, B, A float32
}

// Transparent is fully transparent black, the zero Color.
var Transparent = Color{}

// FromStraight converts straight-alpha components to a premultiplied Color.
// Inputs are clamped to [0, 1] before the RGB channels are multiplied by A.
func FromStraight(r, g, b, a float32) Color {
	r = clamp01(r)
	g = clamp01(g)
	b = clamp01(b)
	a = clamp01(a)
	return Color{R: r * a, G: g * a, B: b * a, A: a}
}

// RGB returns an opaque premultiplied color. With A = 1 the premultiplied
// and straight encodings coincide.
func RGB(r, g, b float32) Color {
	return FromStraight(r, g, b, 1)
}

// ToStraight converts back to straight-alpha components by dividing the RGB
// channels by A. When A <= 0 the color channels are zero.
func (c Color) ToStraight() (r, g, b, a float32) {
	if c.A <= 0 {
		return 0, 0, 0, 0
	}
	return c.R / c.A, c.G / c.A, c.B / c.A, c.A
}

// Clamped returns the color with A clamped to [0, 1] and each RGB channel
// clamped to [0, A], restoring the premultiplication invariant.
func (c Color) Clamped() Color {
	a := clamp01(c.A)
	clampCh := func(v float32) float32 {
		if v < 0 {
			return 0
		}
		if v > a {
			return a
		}
		return v
	}
	return Color{R: clampCh(c.R), G: clampCh(c.G), B: clampCh(c.B), A: a}
}

// IsFinite reports whether all four channels are finite numbers.
func (c Color) IsFinite() bool {
	return isFinite(c.R) && isFinite(c.G) && isFinite(c.B) && isFinite(c.A)
}

// IsOpaque reports whether the color is fully opaque.
func (c Color) IsOpaque() bool { return c.A >= 1 }

// Lerp linearly interpolates between c and other in premultiplied space.
// Interpolating premultiplied colors is the correct way to blend gradient
// stops; interpolating straight-alpha colors darkens translucent midpoints.
func (c Color) Lerp(other Color, t float32) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func clamp01(v float32) float32 {
	if v < 0 || math.IsNaN(float64(v)) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
