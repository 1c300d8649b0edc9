// Package render draws scene command streams on the GPU.
//
// Each shape kind (rect, rounded rect, circle, glyph) has its own instanced
// render pipeline over a shared unit quad; the fragment shaders evaluate
// signed-distance fields for anti-aliased edges and borders. Frames are
// composited with premultiplied One/OneMinusSrcAlpha blending onto the
// caller's texture view.
package render

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/easel"
)

// Context carries the per-frame GPU state the renderers borrow. The caller
// owns every field; renderers never destroy them.
type Context struct {
	Device        hal.Device
	Queue         hal.Queue
	SurfaceFormat gputypes.TextureFormat
	Viewport      easel.Viewport

	// ScaleFactor converts logical pixels to physical pixels for glyph
	// rasterization. Values <= 0 are treated as 1.
	ScaleFactor float32
}

// Scale returns the effective scale factor, floored at 1 for non-positive
// values.
func (c *Context) Scale() float32 {
	if c.ScaleFactor > 0 {
		return c.ScaleFactor
	}
	return 1
}

// Target is the frame's output: a command encoder in the recording state
// and the texture view render passes attach to.
type Target struct {
	Encoder hal.CommandEncoder
	View    hal.TextureView
}
