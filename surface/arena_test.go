//go:build !nogpu

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/render"
)

// noopProvider implements render.DeviceHandle plus the HalDevice/HalQueue
// bridge over a noop device.
type noopProvider struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
}

func (p *noopProvider) Device() gpucontext.Device             { return nil }
func (p *noopProvider) Queue() gpucontext.Queue               { return nil }
func (p *noopProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *noopProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *noopProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}
func (p *noopProvider) HalDevice() any                        { return p.device }
func (p *noopProvider) HalQueue() any                         { return p.queue }

// openNoopDevice opens a noop device for provider tests.
func openNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// newNoopArena creates an arena over an adopted noop device.
func newNoopArena(t *testing.T, opts ...Option) (*Arena, func()) {
	t.Helper()
	device, queue, release := openNoopDevice(t)

	opts = append([]Option{WithDeviceProvider(&noopProvider{device: device, queue: queue})}, opts...)
	arena, err := New(opts...)
	if err != nil {
		release()
		t.Fatalf("New failed: %v", err)
	}
	cleanup := func() {
		arena.Close()
		release()
	}
	return arena, cleanup
}

func TestArenaAdopt(t *testing.T) {
	arena, cleanup := newNoopArena(t)
	defer cleanup()

	if arena.Device() == nil || arena.Queue() == nil {
		t.Fatal("adopted device or queue is nil")
	}
	if arena.AdapterName() != "external" {
		t.Errorf("AdapterName = %q, want %q", arena.AdapterName(), "external")
	}
	if arena.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want BGRA8Unorm", arena.Format())
	}
}

func TestArenaAdoptsProviderFormat(t *testing.T) {
	device, queue, release := openNoopDevice(t)
	defer release()
	provider := &noopProvider{device: device, queue: queue, format: gputypes.TextureFormatRGBA8UnormSrgb}

	arena, err := New(WithDeviceProvider(provider))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer arena.Close()
	if arena.Format() != gputypes.TextureFormatRGBA8UnormSrgb {
		t.Errorf("Format = %v, want the provider's RGBA8UnormSrgb", arena.Format())
	}

	// An explicit format beats the provider's.
	arena2, err := New(WithDeviceProvider(provider), WithFormat(gputypes.TextureFormatRGBA8Unorm))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer arena2.Close()
	if arena2.Format() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want the explicit RGBA8Unorm", arena2.Format())
	}
}

func TestArenaAdoptBadProvider(t *testing.T) {
	// The null handle carries no HAL device to share.
	if _, err := New(WithDeviceProvider(render.NullDeviceHandle{})); !errors.Is(err, ErrNilProvider) {
		t.Errorf("err = %v, want ErrNilProvider", err)
	}
}

func TestArenaCloseIdempotent(t *testing.T) {
	arena, cleanup := newNoopArena(t)
	defer cleanup()
	arena.Close()
	arena.Close()
	if _, err := arena.NewFrame(8, 8); !errors.Is(err, ErrClosed) {
		t.Errorf("NewFrame after Close: err = %v, want ErrClosed", err)
	}
}

type fakeWindow struct {
	w, h  uint32
	scale float32
}

func (f fakeWindow) Size() (uint32, uint32) { return f.w, f.h }
func (f fakeWindow) ScaleFactor() float32   { return f.scale }

func TestArenaContextFromWindow(t *testing.T) {
	arena, cleanup := newNoopArena(t)
	defer cleanup()

	arena.Attach(fakeWindow{w: 1600, h: 1200, scale: 2})
	ctx := arena.Context()
	want := easel.Viewport{Width: 800, Height: 600}
	if ctx.Viewport != want {
		t.Errorf("Viewport = %+v, want %+v", ctx.Viewport, want)
	}
	if ctx.ScaleFactor != 2 {
		t.Errorf("ScaleFactor = %v, want 2", ctx.ScaleFactor)
	}
}

func TestFrameReadback(t *testing.T) {
	arena, cleanup := newNoopArena(t)
	defer cleanup()

	frame, err := arena.NewFrame(64, 48)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	defer frame.Destroy()

	target := frame.Target()
	if target.Encoder == nil || target.View == nil {
		t.Fatal("frame target incomplete")
	}
	ctx := frame.Context()
	if ctx.Viewport.Width != 64 || ctx.Viewport.Height != 48 {
		t.Errorf("Viewport = %+v, want 64x48", ctx.Viewport)
	}

	pixels, err := frame.Readback()
	if err != nil {
		t.Fatalf("Readback failed: %v", err)
	}
	if len(pixels) != 64*48*4 {
		t.Errorf("len(pixels) = %d, want %d", len(pixels), 64*48*4)
	}

	if _, err := frame.Readback(); !errors.Is(err, ErrFrameFinished) {
		t.Errorf("second Readback: err = %v, want ErrFrameFinished", err)
	}
}

func TestFrameSubmit(t *testing.T) {
	arena, cleanup := newNoopArena(t)
	defer cleanup()

	frame, err := arena.NewFrame(8, 8)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	defer frame.Destroy()

	if err := frame.Submit(); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := frame.Submit(); !errors.Is(err, ErrFrameFinished) {
		t.Errorf("second Submit: err = %v, want ErrFrameFinished", err)
	}
}

func TestFrameFloorsDimensions(t *testing.T) {
	arena, cleanup := newNoopArena(t)
	defer cleanup()

	frame, err := arena.NewFrame(0, 0)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	defer frame.Destroy()
	if frame.Width() != 1 || frame.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", frame.Width(), frame.Height())
	}
}
