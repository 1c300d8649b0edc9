// Package surface owns the GPU objects whose lifetimes outlast a frame:
// the backend instance, the opened device and queue, and the window the
// application renders into. Teardown runs in strict reverse creation
// order; the window handle is released last.
//
// Offscreen rendering goes through Frame, which wraps a render-attachment
// texture and its command encoder and reads pixels back through a staging
// buffer.
package surface

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/render"
)

// WindowHandle is the platform window an arena renders into. It stays
// opaque to the arena beyond its size and scale.
type WindowHandle interface {
	// Size returns the window's physical pixel dimensions.
	Size() (width, height uint32)

	// ScaleFactor returns physical pixels per logical pixel.
	ScaleFactor() float32
}

// Option configures an Arena during creation.
type Option func(*arenaOptions)

type arenaOptions struct {
	provider render.DeviceHandle
	format   gputypes.TextureFormat
}

// WithDeviceProvider adopts the host application's GPU device instead of
// opening one. The handle must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue; a handle without
// them (render.NullDeviceHandle included) fails with ErrNilProvider.
// Adopted devices are not destroyed on Close.
func WithDeviceProvider(provider render.DeviceHandle) Option {
	return func(o *arenaOptions) {
		o.provider = provider
	}
}

// WithFormat overrides the surface format used for frames and pipelines.
func WithFormat(format gputypes.TextureFormat) Option {
	return func(o *arenaOptions) {
		o.format = format
	}
}

// Arena owns backend, instance, device, and queue in creation order and
// tears them down in reverse. All frames and render contexts derive from
// it.
type Arena struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	format   gputypes.TextureFormat

	adapterName string
	external    bool
	window      WindowHandle
	closed      bool
}

// New opens a GPU device and returns the arena owning it. With a device
// provider the external device is adopted instead and no instance is
// created.
func New(opts ...Option) (*Arena, error) {
	var o arenaOptions
	for _, opt := range opts {
		opt(&o)
	}

	a := &Arena{format: o.format}
	if o.provider != nil {
		if err := a.adopt(o.provider); err != nil {
			return nil, err
		}
	} else if err := a.open(); err != nil {
		return nil, err
	}
	if a.format == gputypes.TextureFormatUndefined {
		a.format = gputypes.TextureFormatBGRA8Unorm
	}
	return a, nil
}

// adopt wires the host's device and queue into the arena. Without an
// explicit WithFormat, the host's surface format is used.
func (a *Arena) adopt(provider render.DeviceHandle) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return ErrNilProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("%w: HalDevice is not hal.Device", ErrNilProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNilProvider)
	}
	if a.format == gputypes.TextureFormatUndefined {
		a.format = provider.SurfaceFormat()
	}
	a.device = device
	a.queue = queue
	a.external = true
	a.adapterName = "external"
	easel.Logger().Info("adopted shared GPU device")
	return nil
}

// open acquires backend, instance, adapter, and device. The adapter
// preference is discrete, then integrated, then whatever enumerates
// first.
func (a *Arena) open() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return ErrNoBackend
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("surface: create instance: %w", err)
	}
	a.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		a.instance = nil
		return ErrNoAdapter
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		for i := range adapters {
			if adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
				selected = &adapters[i]
				break
			}
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		a.instance = nil
		return fmt.Errorf("surface: open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	a.adapterName = selected.Info.Name
	easel.Logger().Info("GPU device opened", "adapter", a.adapterName)
	return nil
}

// Attach associates a platform window with the arena. The handle is
// released on Close, after every GPU object.
func (a *Arena) Attach(w WindowHandle) {
	a.window = w
}

// Window returns the attached window handle, or nil.
func (a *Arena) Window() WindowHandle { return a.window }

// Device returns the arena's device.
func (a *Arena) Device() hal.Device { return a.device }

// Queue returns the arena's queue.
func (a *Arena) Queue() hal.Queue { return a.queue }

// Format returns the surface format frames and pipelines are built for.
func (a *Arena) Format() gputypes.TextureFormat { return a.format }

// AdapterName returns the name of the opened adapter, or "external" for
// an adopted device.
func (a *Arena) AdapterName() string { return a.adapterName }

// Context builds a render context sized to the attached window. The
// viewport is the window's logical size; without a window it is 1x1.
func (a *Arena) Context() *render.Context {
	vp := easel.Viewport{Width: 1, Height: 1}
	scale := float32(1)
	if a.window != nil {
		w, h := a.window.Size()
		if s := a.window.ScaleFactor(); s > 0 {
			scale = s
		}
		vp = easel.Viewport{Width: float32(w) / scale, Height: float32(h) / scale}
	}
	return &render.Context{
		Device:        a.device,
		Queue:         a.queue,
		SurfaceFormat: a.format,
		Viewport:      vp,
		ScaleFactor:   scale,
	}
}

// Close tears the arena down in reverse creation order: device, then
// instance, then the window handle. Adopted devices are left alive.
// Close is idempotent.
func (a *Arena) Close() {
	if a.closed {
		return
	}
	if a.device != nil && !a.external {
		a.device.Destroy()
	}
	a.device = nil
	a.queue = nil
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}
	a.window = nil
	a.closed = true
}
