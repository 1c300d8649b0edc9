package render

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/scene"
)

// Circle instance layout, 80 bytes:
//
//	center       vec2<f32>  offset  0  location 1
//	radius_bw    vec2<f32>  offset  8  location 2  (radius, border width)
//	color0       vec4<f32>  offset 16  location 3
//	color1       vec4<f32>  offset 32  location 4
//	grad_p0      vec2<f32>  offset 48  location 5
//	grad_p1      vec2<f32>  offset 56  location 6
//	border_color vec4<f32>  offset 64  location 7
const circleInstanceStride = 80

func circleAttributes() []gputypes.VertexAttribute {
	return []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 48, ShaderLocation: 5},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 56, ShaderLocation: 6},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 7},
	}
}

// circleRenderer draws circles with optional inward borders via the
// circle SDF shader.
type circleRenderer struct {
	pipe shapePipeline
}

func newCircleRenderer() *circleRenderer {
	return &circleRenderer{pipe: shapePipeline{cfg: pipelineConfig{
		label:          "easel_circle",
		source:         circleShaderSource,
		instanceStride: circleInstanceStride,
		attributes:     circleAttributes(),
	}}}
}

// appendCircleInstance encodes one circle command into dst. The border
// width is clamped to the radius. Clipped-out circles are culled whole.
func appendCircleInstance(dst []byte, cmd scene.Circle, clip easel.Rect, hasClip bool) []byte {
	if !cmd.Center.IsFinite() || !isFiniteF32(cmd.Radius) || cmd.Radius <= 0 {
		return dst
	}
	if !clipAllows(hasClip, clip, cmd.Bounds()) {
		return dst
	}
	bw := cmd.Border.Width
	if bw < 0 || !isFiniteF32(bw) || cmd.Border.Color.A <= 0 {
		bw = 0
	}
	if bw > cmd.Radius {
		bw = cmd.Radius
	}
	paint := cmd.Paint.Resolve()

	off := len(dst)
	dst = append(dst, make([]byte, circleInstanceStride)...)
	off = putPoint(dst, off, cmd.Center)
	off = putF32(dst, off, cmd.Radius)
	off = putF32(dst, off, bw)
	off = putColor(dst, off, paint.Color0)
	off = putColor(dst, off, paint.Color1)
	off = putPoint(dst, off, paint.P0)
	off = putPoint(dst, off, paint.P1)
	putColor(dst, off, cmd.Border.Color)
	return dst
}
