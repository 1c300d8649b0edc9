package render

import (
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/scene"
)

// Rounded rect instance layout, 104 bytes:
//
//	origin       vec2<f32>  offset  0  location 1
//	size         vec2<f32>  offset  8  location 2
//	radii        vec4<f32>  offset 16  location 3  (tl, tr, br, bl)
//	color0       vec4<f32>  offset 32  location 4
//	color1       vec4<f32>  offset 48  location 5
//	grad_p0      vec2<f32>  offset 64  location 6
//	grad_p1      vec2<f32>  offset 72  location 7
//	border       vec2<f32>  offset 80  location 8  (width, pad)
//	border_color vec4<f32>  offset 88  location 9
const roundedRectInstanceStride = 104

func roundedRectAttributes() []gputypes.VertexAttribute {
	return []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 64, ShaderLocation: 6},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 72, ShaderLocation: 7},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 80, ShaderLocation: 8},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 88, ShaderLocation: 9},
	}
}

// roundedRectRenderer draws rounded rectangles with optional inward
// borders via the rounded-box SDF shader.
type roundedRectRenderer struct {
	pipe shapePipeline
}

func newRoundedRectRenderer() *roundedRectRenderer {
	return &roundedRectRenderer{pipe: shapePipeline{cfg: pipelineConfig{
		label:          "easel_rounded_rect",
		source:         roundedRectShaderSource,
		instanceStride: roundedRectInstanceStride,
		attributes:     roundedRectAttributes(),
	}}}
}

// appendRoundedRectInstance encodes one rounded rect command into dst.
// Radii are clamped to the half extents; the border width is clamped to
// the smaller half extent. Clipped-out shapes are culled whole: the SDF
// cannot be shrunk geometrically.
func appendRoundedRectInstance(dst []byte, cmd scene.RoundedRect, clip easel.Rect, hasClip bool) []byte {
	r := cmd.Rect.Normalized()
	if !r.IsFinite() || r.IsEmpty() {
		return dst
	}
	if !clipAllows(hasClip, clip, r) {
		return dst
	}
	halfW, halfH := r.Size.W/2, r.Size.H/2
	radii := cmd.Radii.Clamped(halfW, halfH)

	bw := cmd.Border.Width
	if bw < 0 || !isFiniteF32(bw) || cmd.Border.Color.A <= 0 {
		bw = 0
	}
	if limit := minF32(halfW, halfH); bw > limit {
		bw = limit
	}
	paint := cmd.Paint.Resolve()

	off := len(dst)
	dst = append(dst, make([]byte, roundedRectInstanceStride)...)
	off = putPoint(dst, off, r.Origin)
	off = putF32(dst, off, r.Size.W)
	off = putF32(dst, off, r.Size.H)
	off = putF32(dst, off, radii.TopLeft)
	off = putF32(dst, off, radii.TopRight)
	off = putF32(dst, off, radii.BottomRight)
	off = putF32(dst, off, radii.BottomLeft)
	off = putColor(dst, off, paint.Color0)
	off = putColor(dst, off, paint.Color1)
	off = putPoint(dst, off, paint.P0)
	off = putPoint(dst, off, paint.P1)
	off = putF32(dst, off, bw)
	off = putF32(dst, off, 0) // pad
	putColor(dst, off, cmd.Border.Color)
	return dst
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func isFiniteF32(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
