package render

import (
	"math"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/scene"
	"github.com/gogpu/easel/text"
)

// Software renders a command list on the CPU with the same shading math
// as the GPU pipelines: SDF edge coverage, linear gradients, and
// premultiplied source-over compositing. It is the fallback when no GPU
// is available and the reference the pipeline tests compare against.
//
// Clip behavior matches the GPU path: rects intersect their clip exactly,
// other shapes are culled whole when their bounds miss the clip.
type Software struct {
	w, h  int
	pix   []easel.Color
	fonts *text.System
	atlas *text.Atlas
}

// NewSoftware creates a CPU renderer with a transparent-black backing
// store. The same options as NewRenderer apply; text commands need a
// font system.
func NewSoftware(w, h int, opts ...Option) *Software {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.fonts != nil && o.atlas == nil {
		o.atlas = text.NewAtlas(0)
	}
	return &Software{
		w:     w,
		h:     h,
		pix:   make([]easel.Color, w*h),
		fonts: o.fonts,
		atlas: o.atlas,
	}
}

// Width returns the framebuffer width in pixels.
func (s *Software) Width() int { return s.w }

// Height returns the framebuffer height in pixels.
func (s *Software) Height() int { return s.h }

// Clear fills the framebuffer with a premultiplied color.
func (s *Software) Clear(color easel.Color) {
	for i := range s.pix {
		s.pix[i] = color
	}
}

// At returns the premultiplied color at a pixel. Out-of-range pixels are
// transparent black.
func (s *Software) At(x, y int) easel.Color {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return easel.Color{}
	}
	return s.pix[y*s.w+x]
}

// RGBA returns the framebuffer as 8-bit premultiplied RGBA bytes in row
// order.
func (s *Software) RGBA() []byte {
	out := make([]byte, len(s.pix)*4)
	for i, c := range s.pix {
		out[i*4+0] = byteOf(c.R)
		out[i*4+1] = byteOf(c.G)
		out[i*4+2] = byteOf(c.B)
		out[i*4+3] = byteOf(c.A)
	}
	return out
}

// Render composites the list's commands in paint order.
func (s *Software) Render(list *scene.List) error {
	for _, it := range list.InPaintOrder() {
		var err error
		switch cmd := it.Cmd.(type) {
		case scene.Rect:
			s.renderRect(cmd, it.Clip, it.HasClip)
		case scene.RoundedRect:
			s.renderRoundedRect(cmd, it.Clip, it.HasClip)
		case scene.Circle:
			s.renderCircle(cmd, it.Clip, it.HasClip)
		case scene.Text:
			err = s.renderText(cmd, it.Clip, it.HasClip)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Software) renderRect(cmd scene.Rect, clip easel.Rect, hasClip bool) {
	r := cmd.Rect.Normalized()
	if !r.IsFinite() || r.IsEmpty() {
		return
	}
	paint := cmd.Paint.Resolve()
	if hasClip {
		if clip.IsEmpty() {
			return
		}
		clipped, ok := r.Intersect(clip)
		if !ok {
			return
		}
		delta := clipped.Origin.Sub(r.Origin)
		paint.P0 = paint.P0.Sub(delta)
		paint.P1 = paint.P1.Sub(delta)
		r = clipped
	}

	x0, y0, x1, y1 := s.pixelSpan(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := easel.Pt(float32(x)+0.5, float32(y)+0.5)
			if p.X < r.Origin.X || p.Y < r.Origin.Y || p.X >= r.MaxX() || p.Y >= r.MaxY() {
				continue
			}
			local := p.Sub(r.Origin)
			s.blend(x, y, gradientAt(paint, local), 1)
		}
	}
}

func (s *Software) renderRoundedRect(cmd scene.RoundedRect, clip easel.Rect, hasClip bool) {
	r := cmd.Rect.Normalized()
	if !r.IsFinite() || r.IsEmpty() {
		return
	}
	if !clipAllows(hasClip, clip, r) {
		return
	}
	halfW, halfH := r.Size.W/2, r.Size.H/2
	radii := cmd.Radii.Clamped(halfW, halfH)
	bw := borderWidth(cmd.Border, minF32(halfW, halfH))
	paint := cmd.Paint.Resolve()
	center := easel.Pt(r.Origin.X+halfW, r.Origin.Y+halfH)

	x0, y0, x1, y1 := s.pixelSpan(r.Inset(-1))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := easel.Pt(float32(x)+0.5, float32(y)+0.5)
			d := easel.RoundedBoxSDF(p.Sub(center), halfW, halfH, radii)
			outer := easel.EdgeCoverage(d)
			if outer <= 0 {
				continue
			}
			fill := easel.EdgeCoverage(d + bw)
			local := p.Sub(r.Origin)
			src := addColor(
				mulColor(gradientAt(paint, local), fill),
				mulColor(cmd.Border.Color, outer-fill),
			)
			s.blend(x, y, src, 1)
		}
	}
}

func (s *Software) renderCircle(cmd scene.Circle, clip easel.Rect, hasClip bool) {
	if !cmd.Center.IsFinite() || !isFiniteF32(cmd.Radius) || cmd.Radius <= 0 {
		return
	}
	bounds := cmd.Bounds()
	if !clipAllows(hasClip, clip, bounds) {
		return
	}
	bw := borderWidth(cmd.Border, cmd.Radius)
	paint := cmd.Paint.Resolve()

	x0, y0, x1, y1 := s.pixelSpan(bounds.Inset(-1))
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			p := easel.Pt(float32(x)+0.5, float32(y)+0.5)
			local := p.Sub(cmd.Center)
			d := easel.CircleSDF(p, cmd.Center, cmd.Radius)
			outer := easel.EdgeCoverage(d)
			if outer <= 0 {
				continue
			}
			fill := easel.EdgeCoverage(d + bw)
			// Gradient space has its origin at the bounds' top-left corner.
			gpos := local.Add(easel.Pt(cmd.Radius, cmd.Radius))
			src := addColor(
				mulColor(gradientAt(paint, gpos), fill),
				mulColor(cmd.Border.Color, outer-fill),
			)
			s.blend(x, y, src, 1)
		}
	}
}

func (s *Software) renderText(cmd scene.Text, clip easel.Rect, hasClip bool) error {
	if s.fonts == nil || s.atlas == nil {
		return ErrNoFontSystem
	}
	quads, err := s.fonts.Shape(s.atlas, text.Run{
		Text:     cmd.Text,
		Font:     cmd.Font,
		Size:     cmd.Size,
		Origin:   cmd.Origin,
		MaxWidth: cmd.MaxWidth,
	})
	if err != nil {
		return err
	}
	size := s.atlas.Size()
	pixels := s.atlas.Pixels()

	for _, q := range quads {
		bounds := easel.Rect{
			Origin: q.DstMin,
			Size:   easel.Size{W: q.DstMax.X - q.DstMin.X, H: q.DstMax.Y - q.DstMin.Y},
		}
		if bounds.IsEmpty() || !clipAllows(hasClip, clip, bounds) {
			continue
		}
		x0, y0, x1, y1 := s.pixelSpan(bounds)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				p := easel.Pt(float32(x)+0.5, float32(y)+0.5)
				if p.X < bounds.Origin.X || p.Y < bounds.Origin.Y || p.X >= bounds.MaxX() || p.Y >= bounds.MaxY() {
					continue
				}
				u := q.UVMin.X + (p.X-q.DstMin.X)/bounds.Size.W*(q.UVMax.X-q.UVMin.X)
				v := q.UVMin.Y + (p.Y-q.DstMin.Y)/bounds.Size.H*(q.UVMax.Y-q.UVMin.Y)
				tx := int(u * float32(size))
				ty := int(v * float32(size))
				if tx < 0 || ty < 0 || tx >= size || ty >= size {
					continue
				}
				coverage := float32(pixels[ty*size+tx]) / 255
				if coverage <= 0 {
					continue
				}
				s.blend(x, y, cmd.Color, coverage)
			}
		}
	}
	return nil
}

// blend composites a premultiplied source scaled by coverage over the
// destination pixel.
func (s *Software) blend(x, y int, src easel.Color, coverage float32) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	src = mulColor(src, coverage)
	d := &s.pix[y*s.w+x]
	inv := 1 - src.A
	d.R = src.R + d.R*inv
	d.G = src.G + d.G*inv
	d.B = src.B + d.B*inv
	d.A = src.A + d.A*inv
}

// pixelSpan returns the half-open integer pixel range covering a rect,
// clamped to the framebuffer.
func (s *Software) pixelSpan(r easel.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(float64(r.Origin.X)))
	y0 = int(math.Floor(float64(r.Origin.Y)))
	x1 = int(math.Ceil(float64(r.MaxX())))
	y1 = int(math.Ceil(float64(r.MaxY())))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > s.w {
		x1 = s.w
	}
	if y1 > s.h {
		y1 = s.h
	}
	return x0, y0, x1, y1
}

// gradientAt evaluates a resolved paint at a shape-local position.
func gradientAt(paint easel.ResolvedPaint, local easel.Point) easel.Color {
	t := easel.GradientT(local, paint.P0, paint.P1)
	return paint.Color0.Lerp(paint.Color1, t)
}

// borderWidth clamps a border to [0, limit], dropping invisible borders.
func borderWidth(b easel.Border, limit float32) float32 {
	bw := b.Width
	if bw < 0 || !isFiniteF32(bw) || b.Color.A <= 0 {
		return 0
	}
	if bw > limit {
		return limit
	}
	return bw
}

func mulColor(c easel.Color, f float32) easel.Color {
	if f <= 0 {
		return easel.Color{}
	}
	return easel.Color{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A * f}
}

func addColor(a, b easel.Color) easel.Color {
	return easel.Color{R: a.R + b.R, G: a.G + b.G, B: a.B + b.B, A: a.A + b.A}
}

func byteOf(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
