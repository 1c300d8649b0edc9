package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/scene"
)

// Rect instance layout, 64 bytes:
//
//	origin  vec2<f32>  offset  0  location 1
//	size    vec2<f32>  offset  8  location 2
//	color0  vec4<f32>  offset 16  location 3
//	color1  vec4<f32>  offset 32  location 4
//	grad_p0 vec2<f32>  offset 48  location 5
//	grad_p1 vec2<f32>  offset 56  location 6
const rectInstanceStride = 64

func rectAttributes() []gputypes.VertexAttribute {
	return []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 48, ShaderLocation: 5},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 56, ShaderLocation: 6},
	}
}

// rectRenderer draws plain axis-aligned rectangles. Rects have no border
// and no curved edge, so clipping shrinks them geometrically instead of
// culling whole shapes.
type rectRenderer struct {
	pipe shapePipeline
}

func newRectRenderer() *rectRenderer {
	return &rectRenderer{pipe: shapePipeline{cfg: pipelineConfig{
		label:          "easel_rect",
		source:         rectShaderSource,
		instanceStride: rectInstanceStride,
		attributes:     rectAttributes(),
	}}}
}

// appendRectInstance encodes one rect command into dst. Non-finite
// geometry and empty or fully clipped rects are skipped.
func appendRectInstance(dst []byte, cmd scene.Rect, clip easel.Rect, hasClip bool) []byte {
	r := cmd.Rect.Normalized()
	if !r.IsFinite() || r.IsEmpty() {
		return dst
	}
	paint := cmd.Paint.Resolve()
	if hasClip {
		if clip.IsEmpty() {
			return dst
		}
		clipped, ok := r.Intersect(clip)
		if !ok {
			return dst
		}
		// Gradient control points are relative to the shape's top-left
		// corner; shrinking the rect shifts that corner.
		delta := clipped.Origin.Sub(r.Origin)
		paint.P0 = paint.P0.Sub(delta)
		paint.P1 = paint.P1.Sub(delta)
		r = clipped
	}

	off := len(dst)
	dst = append(dst, make([]byte, rectInstanceStride)...)
	off = putPoint(dst, off, r.Origin)
	off = putF32(dst, off, r.Size.W)
	off = putF32(dst, off, r.Size.H)
	off = putColor(dst, off, paint.Color0)
	off = putColor(dst, off, paint.Color1)
	off = putPoint(dst, off, paint.P0)
	putPoint(dst, off, paint.P1)
	return dst
}
