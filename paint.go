package easel

// ColorStop pairs a premultiplied color with its position along a gradient
// axis.
type ColorStop struct {
	Offset float32
	Color  Color
}

// LinearGradient paints a linear blend between color stops along the axis
// from Start to End, in the shape's local coordinates (logical pixels
// relative to the shape's top-left corner).
type LinearGradient struct {
	Start, End Point
	Stops      []ColorStop
}

// ResolvedPaint is the two-color form the instanced shaders consume. For a
// solid paint Color0 == Color1 and the axis is degenerate, which the
// fragment shaders detect and short-circuit to Color0.
type ResolvedPaint struct {
	Color0, Color1 Color
	P0, P1         Point
}

// Paint is either a solid color or a linear gradient.
type Paint struct {
	gradient *LinearGradient
	color    Color
}

// SolidPaint returns a paint filling with a single premultiplied color.
func SolidPaint(c Color) Paint { return Paint{color: c} }

// GradientPaint returns a paint filling with a linear gradient.
func GradientPaint(g LinearGradient) Paint { return Paint{gradient: &g} }

// IsGradient reports whether the paint carries a gradient.
func (p Paint) IsGradient() bool { return p.gradient != nil }

// IsOpaque reports whether every color the paint can produce is opaque.
func (p Paint) IsOpaque() bool {
	if p.gradient == nil {
		return p.color.IsOpaque()
	}
	if len(p.gradient.Stops) == 0 {
		return false
	}
	for _, s := range p.gradient.Stops {
		if !s.Color.IsOpaque() {
			return false
		}
	}
	return true
}

// Resolve reduces the paint to the two-color instance encoding.
//
// The shaders evaluate a single linear span, so gradients with more than
// two stops are clamped to their outermost stops with a one-time debug log.
// A single stop degrades to a solid fill of that color, an empty stop list
// to transparent, and a non-finite axis to the first stop's color alone.
func (p Paint) Resolve() ResolvedPaint {
	if p.gradient == nil {
		return ResolvedPaint{Color0: p.color, Color1: p.color}
	}
	g := p.gradient
	if len(g.Stops) == 0 {
		return ResolvedPaint{}
	}
	c0 := g.Stops[0].Color
	if len(g.Stops) == 1 {
		return ResolvedPaint{Color0: c0, Color1: c0}
	}
	if len(g.Stops) > 2 {
		warnGradientStops(len(g.Stops))
	}
	c1 := g.Stops[len(g.Stops)-1].Color
	start, end := g.Start, g.End
	if !start.IsFinite() || !end.IsFinite() {
		return ResolvedPaint{Color0: c0, Color1: c0}
	}
	return ResolvedPaint{Color0: c0, Color1: c1, P0: start, P1: end}
}

// Border describes a stroke drawn inward from a shape's edge. A zero or
// negative width disables the border.
type Border struct {
	Width float32
	Color Color
}

// IsVisible reports whether the border contributes any pixels.
func (b Border) IsVisible() bool { return b.Width > 0 && b.Color.A > 0 }
