package easel

// Point is a position or offset in logical pixels (top-left origin, +Y down).
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Mul returns the point scaled by s.
func (p Point) Mul(s float32) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Dot returns the dot product p . q.
func (p Point) Dot(q Point) float32 { return p.X*q.X + p.Y*q.Y }

// LengthSq returns the squared length of p treated as a vector.
func (p Point) LengthSq() float32 { return p.Dot(p) }

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool { return isFinite(p.X) && isFinite(p.Y) }

// Size is a width/height pair in logical pixels.
type Size struct {
	W, H float32
}

// IsFinite reports whether both dimensions are finite numbers.
func (s Size) IsFinite() bool { return isFinite(s.W) && isFinite(s.H) }

// Rect is an axis-aligned rectangle given by origin and size.
type Rect struct {
	Origin Point
	Size   Size
}

// RectXYWH builds a Rect from origin coordinates and dimensions.
func RectXYWH(x, y, w, h float32) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// Normalized returns the rectangle with non-negative extents, flipping the
// origin across any axis whose size is negative.
func (r Rect) Normalized() Rect {
	if r.Size.W < 0 {
		r.Origin.X += r.Size.W
		r.Size.W = -r.Size.W
	}
	if r.Size.H < 0 {
		r.Origin.Y += r.Size.H
		r.Size.H = -r.Size.H
	}
	return r
}

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool { return r.Size.W <= 0 || r.Size.H <= 0 }

// IsFinite reports whether origin and size are finite.
func (r Rect) IsFinite() bool { return r.Origin.IsFinite() && r.Size.IsFinite() }

// MaxX returns the right edge.
func (r Rect) MaxX() float32 { return r.Origin.X + r.Size.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float32 { return r.Origin.Y + r.Size.H }

// Inset returns the rectangle shrunk by d on every side. A negative d
// grows it.
func (r Rect) Inset(d float32) Rect {
	return RectXYWH(r.Origin.X+d, r.Origin.Y+d, r.Size.W-2*d, r.Size.H-2*d)
}

// Intersect returns the overlap of r and q. When the rectangles do not
// overlap the result is a zero-area rect and ok is false.
func (r Rect) Intersect(q Rect) (Rect, bool) {
	x0 := maxF(r.Origin.X, q.Origin.X)
	y0 := maxF(r.Origin.Y, q.Origin.Y)
	x1 := minF(r.MaxX(), q.MaxX())
	y1 := minF(r.MaxY(), q.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return RectXYWH(x0, y0, x1-x0, y1-y0), true
}

// Overlaps reports whether r and q share any area.
func (r Rect) Overlaps(q Rect) bool {
	_, ok := r.Intersect(q)
	return ok
}

// CornerRadii holds the four corner radii of a rounded rectangle in CSS
// order: top-left, top-right, bottom-right, bottom-left.
type CornerRadii struct {
	TopLeft, TopRight, BottomRight, BottomLeft float32
}

// UniformRadii returns equal radii on all four corners.
func UniformRadii(r float32) CornerRadii {
	return CornerRadii{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
}

// Clamped limits each radius to min(halfW, halfH) and floors it at zero.
// Radii larger than the shape's smaller half-dimension would produce a
// self-intersecting corner arc.
func (cr CornerRadii) Clamped(halfW, halfH float32) CornerRadii {
	limit := minF(halfW, halfH)
	if limit < 0 {
		limit = 0
	}
	clampR := func(v float32) float32 {
		if v < 0 || !isFinite(v) {
			return 0
		}
		if v > limit {
			return limit
		}
		return v
	}
	return CornerRadii{
		TopLeft:     clampR(cr.TopLeft),
		TopRight:    clampR(cr.TopRight),
		BottomRight: clampR(cr.BottomRight),
		BottomLeft:  clampR(cr.BottomLeft),
	}
}

// Viewport is the logical-pixel size of the frame's target surface.
type Viewport struct {
	Width, Height float32
}

// Floored returns the viewport with each dimension floored at 1, so the
// NDC transform never divides by zero on a collapsed surface.
func (v Viewport) Floored() Viewport {
	return Viewport{Width: maxF(v.Width, 1), Height: maxF(v.Height, 1)}
}

// ToNDC maps a logical-pixel point to normalized device coordinates:
// (0,0) maps to (-1,1) and (Width,Height) maps to (1,-1). The viewport is
// floored at 1 per axis first. Every shape's vertex stage applies this same
// mapping on the GPU; the two must agree exactly.
func (v Viewport) ToNDC(p Point) Point {
	f := v.Floored()
	return Point{
		X: p.X/f.Width*2 - 1,
		Y: 1 - p.Y/f.Height*2,
	}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
