package surface

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/render"
)

// copyPitchAlignment is the row alignment texture-to-buffer copies
// require on WebGPU and DX12.
const copyPitchAlignment = 256

// fenceTimeout bounds readback waits so a hung driver fails instead of
// blocking forever.
const fenceTimeout = 5 * time.Second

// Frame is one offscreen render target: a render-attachment texture, its
// view, and an open command encoder the renderer records into. Finish a
// frame with Readback or Submit, then Destroy it.
type Frame struct {
	arena *Arena
	w, h  uint32

	texture  hal.Texture
	view     hal.TextureView
	encoder  hal.CommandEncoder
	encoding bool
}

// NewFrame creates an offscreen frame in the arena's surface format.
// Dimensions floor at 1.
func (a *Arena) NewFrame(w, h uint32) (*Frame, error) {
	if a.closed || a.device == nil {
		return nil, ErrClosed
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "easel_frame",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        a.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("surface: create frame texture: %w", err)
	}
	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "easel_frame_view",
		Format:        a.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		a.device.DestroyTexture(tex)
		return nil, fmt.Errorf("surface: create frame view: %w", err)
	}
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "easel_frame_encoder"})
	if err != nil {
		a.device.DestroyTextureView(view)
		a.device.DestroyTexture(tex)
		return nil, fmt.Errorf("surface: create frame encoder: %w", err)
	}
	if err := encoder.BeginEncoding("easel_frame"); err != nil {
		a.device.DestroyTextureView(view)
		a.device.DestroyTexture(tex)
		return nil, fmt.Errorf("surface: begin frame encoding: %w", err)
	}

	return &Frame{
		arena:    a,
		w:        w,
		h:        h,
		texture:  tex,
		view:     view,
		encoder:  encoder,
		encoding: true,
	}, nil
}

// Target returns the encoder and view the renderer records into.
func (f *Frame) Target() *render.Target {
	return &render.Target{Encoder: f.encoder, View: f.view}
}

// Context builds a render context for this frame: the viewport is the
// frame's pixel size at scale 1.
func (f *Frame) Context() *render.Context {
	return &render.Context{
		Device:        f.arena.device,
		Queue:         f.arena.queue,
		SurfaceFormat: f.arena.format,
		Viewport:      easel.Viewport{Width: float32(f.w), Height: float32(f.h)},
		ScaleFactor:   1,
	}
}

// Submit finishes encoding, submits the frame's commands, and waits for
// the GPU. The frame cannot be encoded into afterwards.
func (f *Frame) Submit() error {
	if !f.encoding {
		return ErrFrameFinished
	}
	f.encoding = false
	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("surface: end encoding: %w", err)
	}
	defer f.arena.device.FreeCommandBuffer(cmdBuf)
	return f.submitAndWait(cmdBuf)
}

// Readback finishes the frame and copies its pixels into tightly packed
// 8-bit RGBA bytes. BGRA surface formats are swizzled on the CPU after
// the copy.
func (f *Frame) Readback() ([]byte, error) {
	if !f.encoding {
		return nil, ErrFrameFinished
	}
	f.encoding = false
	device := f.arena.device

	// The texture ends the last render pass as an attachment; the copy
	// needs it in the transfer-source layout, and the next frame expects
	// it back.
	f.encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: f.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	bytesPerRow := f.w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(f.h)

	staging, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "easel_frame_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		f.encoder.DiscardEncoding()
		return nil, fmt.Errorf("surface: create staging buffer: %w", err)
	}
	defer device.DestroyBuffer(staging)

	f.encoder.CopyTextureToBuffer(f.texture, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: f.h},
		TextureBase:  hal.ImageCopyTexture{Texture: f.texture, MipLevel: 0},
		Size:         hal.Extent3D{Width: f.w, Height: f.h, DepthOrArrayLayers: 1},
	}})
	f.encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: f.texture,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("surface: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if err := f.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	raw := make([]byte, stagingSize)
	if err := f.arena.queue.ReadBuffer(staging, 0, raw); err != nil {
		return nil, fmt.Errorf("surface: readback: %w", err)
	}

	out := make([]byte, uint64(bytesPerRow)*uint64(f.h))
	if alignedBytesPerRow == bytesPerRow {
		copy(out, raw)
	} else {
		for row := uint32(0); row < f.h; row++ {
			src := raw[uint64(row)*uint64(alignedBytesPerRow):]
			copy(out[row*bytesPerRow:(row+1)*bytesPerRow], src[:bytesPerRow])
		}
	}
	if isBGRA(f.arena.format) {
		swapBGRA(out)
	}
	return out, nil
}

func (f *Frame) submitAndWait(cmdBuf hal.CommandBuffer) error {
	device := f.arena.device
	fence, err := device.CreateFence()
	if err != nil {
		return fmt.Errorf("surface: create fence: %w", err)
	}
	defer device.DestroyFence(fence)

	if err := f.arena.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("surface: submit: %w", err)
	}
	ok, err := device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("surface: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("surface: wait for GPU timed out")
	}
	return nil
}

// Width returns the frame's pixel width.
func (f *Frame) Width() uint32 { return f.w }

// Height returns the frame's pixel height.
func (f *Frame) Height() uint32 { return f.h }

// Destroy releases the frame's texture and view, discarding any
// unfinished encoding. Safe to call more than once.
func (f *Frame) Destroy() {
	if f.encoding {
		f.encoder.DiscardEncoding()
		f.encoding = false
	}
	device := f.arena.device
	if device == nil {
		return
	}
	if f.view != nil {
		device.DestroyTextureView(f.view)
		f.view = nil
	}
	if f.texture != nil {
		device.DestroyTexture(f.texture)
		f.texture = nil
	}
}

// swapBGRA converts BGRA bytes to RGBA in place.
func swapBGRA(p []byte) {
	for i := 0; i+3 < len(p); i += 4 {
		p[i], p[i+2] = p[i+2], p[i]
	}
}
