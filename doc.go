// Package easel provides the coordinate, color, and paint primitives for a
// GPU draw-list renderer for 2-D UI scenes.
//
// Geometry is expressed in logical pixels with a top-left origin and +Y down.
// Colors are premultiplied linear RGBA. The root package also carries the
// CPU reference implementation of the signed-distance-field math that the
// GPU fragment shaders in package render evaluate per pixel.
//
// Subpackages:
//   - scene:  per-frame draw-command stream with stable z ordering
//   - render: GPU shape renderers and frame orchestration (gogpu/wgpu HAL)
//   - text:   font loading, glyph layout, and the coverage atlas
//   - surface: device acquisition and offscreen frame targets
package easel
