package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/text"
)

// Glyph instance layout, 48 bytes:
//
//	dst_min vec2<f32>  offset  0  location 1
//	dst_max vec2<f32>  offset  8  location 2
//	uv_min  vec2<f32>  offset 16  location 3
//	uv_max  vec2<f32>  offset 24  location 4
//	color   vec4<f32>  offset 32  location 5
const glyphInstanceStride = 48

func glyphAttributes() []gputypes.VertexAttribute {
	return []gputypes.VertexAttribute{
		{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 2},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 16, ShaderLocation: 3},
		{Format: gputypes.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 4},
		{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5},
	}
}

// glyphRenderer draws positioned glyph quads sampling the coverage atlas.
// It mirrors the CPU atlas into an R8 texture, uploading dirty regions
// incrementally and recreating the texture when the atlas generation or
// size changes.
type glyphRenderer struct {
	pipe shapePipeline

	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	generation uint64
	texSize    int
}

func newGlyphRenderer() *glyphRenderer {
	return &glyphRenderer{pipe: shapePipeline{cfg: pipelineConfig{
		label:          "easel_glyph",
		source:         textShaderSource,
		instanceStride: glyphInstanceStride,
		attributes:     glyphAttributes(),
		samplesAtlas:   true,
	}}}
}

// syncAtlas brings the GPU coverage texture up to date with the CPU atlas.
// A generation or size change recreates the texture and re-uploads the
// whole store; otherwise only dirty regions are written.
func (g *glyphRenderer) syncAtlas(ctx *Context, atlas *text.Atlas) error {
	if g.sampler == nil {
		samp, err := ctx.Device.CreateSampler(&hal.SamplerDescriptor{
			Label:        "easel_glyph_sampler",
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    gputypes.FilterModeLinear,
			MinFilter:    gputypes.FilterModeLinear,
			MipmapFilter: gputypes.FilterModeLinear,
		})
		if err != nil {
			return fmt.Errorf("render: create glyph sampler: %w", err)
		}
		g.sampler = samp
	}

	size := atlas.Size()
	gen := atlas.Generation()
	if g.texture == nil || gen != g.generation || size != g.texSize {
		if g.view != nil {
			ctx.Device.DestroyTextureView(g.view)
			g.view = nil
		}
		if g.texture != nil {
			ctx.Device.DestroyTexture(g.texture)
			g.texture = nil
		}

		tex, err := ctx.Device.CreateTexture(&hal.TextureDescriptor{
			Label:         "easel_glyph_atlas",
			Size:          hal.Extent3D{Width: uint32(size), Height: uint32(size), DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatR8Unorm,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("render: create glyph atlas texture: %w", err)
		}
		g.texture = tex

		view, err := ctx.Device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:         "easel_glyph_atlas_view",
			Format:        gputypes.TextureFormatR8Unorm,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			return fmt.Errorf("render: create glyph atlas view: %w", err)
		}
		g.view = view
		g.generation = gen
		g.texSize = size

		// Full upload; per-region dirt is subsumed.
		atlas.TakeDirty()
		ctx.Queue.WriteTexture(
			&hal.ImageCopyTexture{Texture: g.texture, MipLevel: 0},
			atlas.Pixels(),
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(size),
				RowsPerImage: uint32(size),
			},
			&hal.Extent3D{Width: uint32(size), Height: uint32(size), DepthOrArrayLayers: 1},
		)

		// The bind group references the old view.
		g.pipe.dropBindGroup()
		return nil
	}

	for _, region := range atlas.TakeDirty() {
		r := region.Rect
		w := r.Dx()
		h := r.Dy()
		if w <= 0 || h <= 0 {
			continue
		}
		// Rather than a buffer offset, slice the store at the region's
		// first pixel; the row stride still spans the full atlas.
		ctx.Queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture:  g.texture,
				MipLevel: 0,
				Origin:   hal.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y)},
			},
			atlas.Pixels()[r.Min.Y*size+r.Min.X:],
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(size),
				RowsPerImage: uint32(h),
			},
			&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		)
	}
	return nil
}

// appendGlyphInstance encodes one positioned glyph quad into dst. Quads
// that miss the clip are culled whole.
func appendGlyphInstance(dst []byte, quad text.GlyphQuad, color easel.Color, clip easel.Rect, hasClip bool) []byte {
	bounds := easel.Rect{
		Origin: quad.DstMin,
		Size: easel.Size{
			W: quad.DstMax.X - quad.DstMin.X,
			H: quad.DstMax.Y - quad.DstMin.Y,
		},
	}
	if !bounds.IsFinite() || bounds.IsEmpty() {
		return dst
	}
	if !clipAllows(hasClip, clip, bounds) {
		return dst
	}

	off := len(dst)
	dst = append(dst, make([]byte, glyphInstanceStride)...)
	off = putPoint(dst, off, quad.DstMin)
	off = putPoint(dst, off, quad.DstMax)
	off = putPoint(dst, off, quad.UVMin)
	off = putPoint(dst, off, quad.UVMax)
	putColor(dst, off, color)
	return dst
}

// destroy releases the atlas mirror and the glyph pipeline.
func (g *glyphRenderer) destroy(device hal.Device) {
	g.pipe.destroy()
	if device == nil {
		return
	}
	if g.view != nil {
		device.DestroyTextureView(g.view)
		g.view = nil
	}
	if g.texture != nil {
		device.DestroyTexture(g.texture)
		g.texture = nil
	}
	if g.sampler != nil {
		device.DestroySampler(g.sampler)
		g.sampler = nil
	}
	g.generation = 0
	g.texSize = 0
}
