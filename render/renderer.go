package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/scene"
	"github.com/gogpu/easel/text"
)

// Option configures a Renderer during creation.
type Option func(*rendererOptions)

type rendererOptions struct {
	fonts *text.System
	atlas *text.Atlas
}

// WithFontSystem supplies the font system used for text commands. Without
// one, rendering a list containing text fails with ErrNoFontSystem.
func WithFontSystem(fonts *text.System) Option {
	return func(o *rendererOptions) {
		o.fonts = fonts
	}
}

// WithAtlas supplies a glyph coverage atlas. When a font system is set and
// no atlas is given, a default-sized atlas is created.
func WithAtlas(atlas *text.Atlas) Option {
	return func(o *rendererOptions) {
		o.atlas = atlas
	}
}

// Shape kinds, in no particular order. Consecutive commands of the same
// kind form one instanced draw.
const (
	kindNone = iota
	kindRect
	kindRoundedRect
	kindCircle
	kindText
)

// Renderer turns a command list into GPU draws: one instanced pipeline
// per shape kind, runs split only where the paint order changes kind so
// overlaps composite correctly.
//
// A Renderer is bound to a single device via the Context it renders with;
// it owns its pipelines and buffers but never the device itself.
type Renderer struct {
	rect   *rectRenderer
	rrect  *roundedRectRenderer
	circle *circleRenderer
	glyph  *glyphRenderer

	fonts *text.System
	atlas *text.Atlas

	began   [5]bool
	scratch []byte
}

// NewRenderer creates a renderer. GPU objects are created lazily on the
// first frame.
func NewRenderer(opts ...Option) *Renderer {
	var o rendererOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.fonts != nil && o.atlas == nil {
		o.atlas = text.NewAtlas(0)
	}
	return &Renderer{
		rect:   newRectRenderer(),
		rrect:  newRoundedRectRenderer(),
		circle: newCircleRenderer(),
		glyph:  newGlyphRenderer(),
		fonts:  o.fonts,
		atlas:  o.atlas,
	}
}

// Atlas returns the glyph atlas, or nil when the renderer has no font
// system.
func (r *Renderer) Atlas() *text.Atlas { return r.atlas }

// Clear records a render pass that clears the target to the given color.
// The color is premultiplied, matching what the shape passes blend over.
func (r *Renderer) Clear(ctx *Context, target *Target, color easel.Color) error {
	if ctx == nil || ctx.Device == nil {
		return ErrNilDevice
	}
	if target == nil || target.Encoder == nil || target.View == nil {
		return ErrNilTarget
	}
	rp := target.Encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "easel_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:    target.View,
				LoadOp:  gputypes.LoadOpClear,
				StoreOp: gputypes.StoreOpStore,
				ClearValue: gputypes.Color{
					R: float64(color.R),
					G: float64(color.G),
					B: float64(color.B),
					A: float64(color.A),
				},
			},
		},
	})
	rp.End()
	return nil
}

// RenderFrame encodes the list's commands onto the target in paint order.
// Consecutive same-kind commands become a single instanced draw; a kind
// change ends the run, so stacking order between kinds is preserved.
//
// The first run of each kind begins that pipeline's frame: retired
// buffers from the previous frame are freed and the viewport uniform is
// rewritten. Any error aborts the frame.
func (r *Renderer) RenderFrame(ctx *Context, target *Target, list *scene.List) error {
	if ctx == nil || ctx.Device == nil {
		return ErrNilDevice
	}
	if target == nil || target.Encoder == nil || target.View == nil {
		return ErrNilTarget
	}

	r.began = [5]bool{}
	items := list.InPaintOrder()
	for i := 0; i < len(items); {
		kind := commandKind(items[i].Cmd)
		if kind == kindNone {
			i++
			continue
		}
		j := i + 1
		for j < len(items) && commandKind(items[j].Cmd) == kind {
			j++
		}
		if err := r.renderRun(ctx, target, kind, items[i:j]); err != nil {
			return err
		}
		i = j
	}
	return nil
}

// renderRun uploads and draws one maximal same-kind run.
func (r *Renderer) renderRun(ctx *Context, target *Target, kind int, run []*scene.Item) error {
	data, err := r.encodeRun(ctx, run)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	pipe := r.pipelineFor(kind)
	if err := pipe.ensurePipeline(ctx); err != nil {
		return err
	}
	if !r.began[kind] {
		if err := pipe.beginFrame(ctx); err != nil {
			return err
		}
		r.began[kind] = true
	}
	var view hal.TextureView
	var sampler hal.Sampler
	if kind == kindText {
		if err := r.glyph.syncAtlas(ctx, r.atlas); err != nil {
			return err
		}
		view = r.glyph.view
		sampler = r.glyph.sampler
	}
	if err := pipe.ensureBindings(ctx, view, sampler); err != nil {
		return err
	}
	first, count, err := pipe.upload(ctx, data)
	if err != nil {
		return err
	}
	pipe.draw(target, first, count)
	return nil
}

// encodeRun builds the instance bytes for a run, applying each item's
// captured clip.
func (r *Renderer) encodeRun(ctx *Context, run []*scene.Item) ([]byte, error) {
	data := r.scratch[:0]
	for _, it := range run {
		switch cmd := it.Cmd.(type) {
		case scene.Rect:
			data = appendRectInstance(data, cmd, it.Clip, it.HasClip)
		case scene.RoundedRect:
			data = appendRoundedRectInstance(data, cmd, it.Clip, it.HasClip)
		case scene.Circle:
			data = appendCircleInstance(data, cmd, it.Clip, it.HasClip)
		case scene.Text:
			var err error
			data, err = r.encodeText(ctx, data, cmd, it.Clip, it.HasClip)
			if err != nil {
				return nil, err
			}
		}
	}
	r.scratch = data
	return data, nil
}

// encodeText shapes one text command and appends its glyph quads. Glyphs
// are shaped at the physical pixel size so hinting and atlas rasterization
// match the display, then mapped back to logical coordinates.
func (r *Renderer) encodeText(ctx *Context, data []byte, cmd scene.Text, clip easel.Rect, hasClip bool) ([]byte, error) {
	if r.fonts == nil || r.atlas == nil {
		return nil, ErrNoFontSystem
	}
	scale := ctx.Scale()
	quads, err := r.fonts.Shape(r.atlas, text.Run{
		Text:     cmd.Text,
		Font:     cmd.Font,
		Size:     cmd.Size * scale,
		Origin:   cmd.Origin.Mul(scale),
		MaxWidth: cmd.MaxWidth * scale,
	})
	if err != nil {
		return nil, err
	}
	inv := 1 / scale
	for _, q := range quads {
		q.DstMin = q.DstMin.Mul(inv)
		q.DstMax = q.DstMax.Mul(inv)
		data = appendGlyphInstance(data, q, cmd.Color, clip, hasClip)
	}
	return data, nil
}

// pipelineFor returns the pipeline serving a kind.
func (r *Renderer) pipelineFor(kind int) *shapePipeline {
	switch kind {
	case kindRect:
		return &r.rect.pipe
	case kindRoundedRect:
		return &r.rrect.pipe
	case kindCircle:
		return &r.circle.pipe
	default:
		return &r.glyph.pipe
	}
}

// Destroy releases every GPU object the renderer owns. Safe to call
// before the first frame or more than once.
func (r *Renderer) Destroy() {
	r.rect.pipe.destroy()
	r.rrect.pipe.destroy()
	r.circle.pipe.destroy()
	r.glyph.destroy(r.glyph.pipe.device)
}

func commandKind(c scene.Command) int {
	switch c.(type) {
	case scene.Rect:
		return kindRect
	case scene.RoundedRect:
		return kindRoundedRect
	case scene.Circle:
		return kindCircle
	case scene.Text:
		return kindText
	default:
		return kindNone
	}
}
