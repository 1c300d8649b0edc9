package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/internal/shader"
)

// pipelineConfig describes one shape pipeline: its shader, the instance
// layout, and whether the fragment stage samples the glyph atlas.
type pipelineConfig struct {
	label          string
	source         string
	instanceStride uint64
	attributes     []gputypes.VertexAttribute
	samplesAtlas   bool
}

// shapePipeline owns the GPU objects shared by every shape kind: the
// shader module, bind group and pipeline layouts, the format-keyed render
// pipeline, the unit quad buffers, the viewport uniform, and a growable
// instance buffer.
//
// The pipeline is rebuilt when the target surface format changes; shader
// and layouts survive rebuilds. The instance buffer grows to the next
// power of two and never shrinks. Buffers replaced mid-frame are retired
// rather than destroyed, because earlier encoded draws still reference
// them; retirees are freed when the next frame begins.
type shapePipeline struct {
	cfg pipelineConfig

	device hal.Device

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	format     gputypes.TextureFormat

	vertexBuf  hal.Buffer
	indexBuf   hal.Buffer
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup

	instanceBuf hal.Buffer
	capacity    int    // instances
	frameBytes  []byte // instance bytes accumulated this frame
	retired     []hal.Buffer
}

// instanceCount returns the number of instances uploaded this frame.
func (p *shapePipeline) instanceCount() int {
	if p.cfg.instanceStride == 0 {
		return 0
	}
	return len(p.frameBytes) / int(p.cfg.instanceStride)
}

// beginFrame frees buffers retired by the previous frame, resets the
// frame's instance accumulation, and rewrites the viewport uniform.
func (p *shapePipeline) beginFrame(ctx *Context) error {
	for _, b := range p.retired {
		ctx.Device.DestroyBuffer(b)
	}
	p.retired = p.retired[:0]
	p.frameBytes = p.frameBytes[:0]

	if err := p.ensureStatics(ctx); err != nil {
		return err
	}
	ctx.Queue.WriteBuffer(p.uniformBuf, 0, viewportUniformData(ctx.Viewport))
	return nil
}

// ensurePipeline builds the render pipeline for the context's surface
// format, rebuilding on a format change. Bind state is reset on rebuild.
func (p *shapePipeline) ensurePipeline(ctx *Context) error {
	if ctx.Device == nil {
		return ErrNilDevice
	}
	p.device = ctx.Device
	if p.pipeline != nil && p.format == ctx.SurfaceFormat {
		return nil
	}

	if p.shader == nil {
		mod, err := shader.NewModule(ctx.Device, p.cfg.label, p.cfg.source)
		if err != nil {
			return err
		}
		p.shader = mod
	}
	if p.bindLayout == nil {
		layout, err := ctx.Device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   p.cfg.label + "_bind_layout",
			Entries: p.bindLayoutEntries(),
		})
		if err != nil {
			return fmt.Errorf("render: create %s bind group layout: %w", p.cfg.label, err)
		}
		p.bindLayout = layout
	}
	if p.pipeLayout == nil {
		layout, err := ctx.Device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
			Label:            p.cfg.label + "_pipe_layout",
			BindGroupLayouts: []hal.BindGroupLayout{p.bindLayout},
		})
		if err != nil {
			return fmt.Errorf("render: create %s pipeline layout: %w", p.cfg.label, err)
		}
		p.pipeLayout = layout
	}

	if p.pipeline != nil {
		ctx.Device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
		if p.bindGroup != nil {
			ctx.Device.DestroyBindGroup(p.bindGroup)
			p.bindGroup = nil
		}
		easel.Logger().Debug("rebuilding pipeline for new surface format",
			"pipeline", p.cfg.label, "format", ctx.SurfaceFormat)
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := ctx.Device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  p.cfg.label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    p.vertexLayouts(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    ctx.SurfaceFormat,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("render: create %s pipeline: %w", p.cfg.label, err)
	}
	p.pipeline = pipeline
	p.format = ctx.SurfaceFormat
	return nil
}

// bindLayoutEntries returns the bind group layout: the viewport uniform,
// plus the atlas texture and sampler for glyph pipelines.
func (p *shapePipeline) bindLayoutEntries() []gputypes.BindGroupLayoutEntry {
	entries := []gputypes.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		},
	}
	if p.cfg.samplesAtlas {
		entries = append(entries,
			gputypes.BindGroupLayoutEntry{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			gputypes.BindGroupLayoutEntry{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		)
	}
	return entries
}

// vertexLayouts describes slot 0 (the shared unit quad, per vertex) and
// slot 1 (the shape's instance stream, per instance).
func (p *shapePipeline) vertexLayouts() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
		{
			ArrayStride: p.cfg.instanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes:  p.cfg.attributes,
		},
	}
}

// ensureStatics creates the quad vertex/index buffers and the viewport
// uniform buffer once per pipeline.
func (p *shapePipeline) ensureStatics(ctx *Context) error {
	if p.vertexBuf != nil {
		return nil
	}
	vbuf, err := ctx.Device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.cfg.label + "_quad_vertices",
		Size:  uint64(4 * quadVertexStride),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("render: create %s vertex buffer: %w", p.cfg.label, err)
	}
	p.vertexBuf = vbuf
	ctx.Queue.WriteBuffer(vbuf, 0, quadVertexData())

	ibuf, err := ctx.Device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.cfg.label + "_quad_indices",
		Size:  uint64(quadIndexCount * 2),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("render: create %s index buffer: %w", p.cfg.label, err)
	}
	p.indexBuf = ibuf
	ctx.Queue.WriteBuffer(ibuf, 0, quadIndexData())

	ubuf, err := ctx.Device.CreateBuffer(&hal.BufferDescriptor{
		Label: p.cfg.label + "_viewport",
		Size:  viewportUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("render: create %s uniform buffer: %w", p.cfg.label, err)
	}
	p.uniformBuf = ubuf
	return nil
}

// ensureBindings builds the bind group. Glyph pipelines pass the atlas
// view and sampler; other shapes pass nil.
func (p *shapePipeline) ensureBindings(ctx *Context, atlasView hal.TextureView, atlasSampler hal.Sampler) error {
	if p.bindGroup != nil {
		return nil
	}
	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: p.uniformBuf.NativeHandle(), Offset: 0, Size: viewportUniformSize,
		}},
	}
	if p.cfg.samplesAtlas {
		entries = append(entries,
			gputypes.BindGroupEntry{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: atlasView.NativeHandle(),
			}},
			gputypes.BindGroupEntry{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: atlasSampler.NativeHandle(),
			}},
		)
	}
	bg, err := ctx.Device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   p.cfg.label + "_bind",
		Layout:  p.bindLayout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("render: create %s bind group: %w", p.cfg.label, err)
	}
	p.bindGroup = bg
	return nil
}

// dropBindGroup destroys the current bind group so the next ensureBindings
// rebuilds it, used when a bound resource (the atlas texture) is replaced.
func (p *shapePipeline) dropBindGroup() {
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
}

// upload appends instance bytes for this frame and returns the run's first
// instance index and count. Growth allocates a next-power-of-two buffer,
// re-uploads the frame's accumulated bytes, and retires the old buffer
// until the frame is submitted.
func (p *shapePipeline) upload(ctx *Context, data []byte) (first, count uint32, err error) {
	stride := int(p.cfg.instanceStride)
	if len(data) == 0 || stride == 0 {
		return 0, 0, nil
	}
	firstIdx := len(p.frameBytes) / stride
	needed := firstIdx + len(data)/stride

	if p.instanceBuf == nil || needed > p.capacity {
		newCap := nextPowerOfTwo(needed)
		buf, berr := ctx.Device.CreateBuffer(&hal.BufferDescriptor{
			Label: p.cfg.label + "_instances",
			Size:  uint64(newCap) * p.cfg.instanceStride,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if berr != nil {
			return 0, 0, fmt.Errorf("render: grow %s instance buffer: %w", p.cfg.label, berr)
		}
		if p.instanceBuf != nil {
			p.retired = append(p.retired, p.instanceBuf)
			easel.Logger().Debug("instance buffer grown",
				"pipeline", p.cfg.label, "capacity", newCap)
		}
		p.instanceBuf = buf
		p.capacity = newCap
		if len(p.frameBytes) > 0 {
			ctx.Queue.WriteBuffer(buf, 0, p.frameBytes)
		}
	}

	ctx.Queue.WriteBuffer(p.instanceBuf, uint64(len(p.frameBytes)), data)
	p.frameBytes = append(p.frameBytes, data...)
	return uint32(firstIdx), uint32(len(data) / stride), nil
}

// draw records one render pass over the run [first, first+count). The
// pass loads the existing target contents so earlier runs show through.
func (p *shapePipeline) draw(target *Target, first, count uint32) {
	if count == 0 {
		return
	}
	rp := target.Encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: p.cfg.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:    target.View,
				LoadOp:  gputypes.LoadOpLoad,
				StoreOp: gputypes.StoreOpStore,
			},
		},
	})
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)
	rp.SetVertexBuffer(0, p.vertexBuf, 0)
	rp.SetVertexBuffer(1, p.instanceBuf, 0)
	rp.SetIndexBuffer(p.indexBuf, gputypes.IndexFormatUint16, 0)
	rp.DrawIndexed(quadIndexCount, count, 0, 0, first)
	rp.End()
}

// destroy releases all GPU objects in reverse creation order. Safe to call
// more than once or before anything was created.
func (p *shapePipeline) destroy() {
	if p.device == nil {
		return
	}
	for _, b := range p.retired {
		p.device.DestroyBuffer(b)
	}
	p.retired = nil
	if p.instanceBuf != nil {
		p.device.DestroyBuffer(p.instanceBuf)
		p.instanceBuf = nil
		p.capacity = 0
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.indexBuf != nil {
		p.device.DestroyBuffer(p.indexBuf)
		p.indexBuf = nil
	}
	if p.vertexBuf != nil {
		p.device.DestroyBuffer(p.vertexBuf)
		p.vertexBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		p.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
	p.frameBytes = nil
	p.device = nil
}
