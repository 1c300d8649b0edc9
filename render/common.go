package render

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/gogpu/easel"
)

// Shared wire contract between the Go instance builders and the WGSL
// shaders. All scalars are little-endian float32.
const (
	// quadVertexStride is one unit-quad vertex: position (vec2<f32>).
	quadVertexStride = 8

	// quadIndexCount indexes the two triangles of the unit quad.
	quadIndexCount = 6

	// viewportUniformSize is vec2 size + vec2 padding.
	viewportUniformSize = 16

	// minInstanceCapacity is the smallest instance buffer allocation, in
	// instances.
	minInstanceCapacity = 64
)

// quadVertexData returns the shared unit quad: (0,0) (1,0) (1,1) (0,1).
func quadVertexData() []byte {
	buf := make([]byte, 4*quadVertexStride)
	off := 0
	for _, v := range [8]float32{0, 0, 1, 0, 1, 1, 0, 1} {
		off = putF32(buf, off, v)
	}
	return buf
}

// quadIndexData returns the quad's triangle list indices [0 1 2 0 2 3].
func quadIndexData() []byte {
	buf := make([]byte, quadIndexCount*2)
	for i, idx := range [quadIndexCount]uint16{0, 1, 2, 0, 2, 3} {
		binary.LittleEndian.PutUint16(buf[i*2:], idx)
	}
	return buf
}

// viewportUniformData encodes the frame's viewport with both dimensions
// floored at 1, matching the to_ndc transform in every vertex shader.
func viewportUniformData(v easel.Viewport) []byte {
	f := v.Floored()
	buf := make([]byte, viewportUniformSize)
	off := putF32(buf, 0, f.Width)
	putF32(buf, off, f.Height)
	return buf
}

// putF32 writes one little-endian float32 and returns the next offset.
func putF32(buf []byte, off int, v float32) int {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	return off + 4
}

// putColor writes a premultiplied color as four float32s, zeroing any
// non-finite channel.
func putColor(buf []byte, off int, c easel.Color) int {
	off = putF32(buf, off, finiteOrZero(c.R))
	off = putF32(buf, off, finiteOrZero(c.G))
	off = putF32(buf, off, finiteOrZero(c.B))
	return putF32(buf, off, finiteOrZero(c.A))
}

// putPoint writes a point as two float32s.
func putPoint(buf []byte, off int, p easel.Point) int {
	off = putF32(buf, off, p.X)
	return putF32(buf, off, p.Y)
}

func finiteOrZero(v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return v
}

// nextPowerOfTwo rounds n up to the next power of two, flooring at
// minInstanceCapacity. Instance buffers grow by powers of two and never
// shrink within a frame.
func nextPowerOfTwo(n int) int {
	if n < minInstanceCapacity {
		return minInstanceCapacity
	}
	return 1 << bits.Len(uint(n-1))
}

// clipAllows reports whether a shape with the given bounds survives the
// item's clip. Zero-area clips and disjoint bounds cull the instance; this
// is the whole-shape test used by shapes that cannot be shrunk
// geometrically.
func clipAllows(hasClip bool, clip, bounds easel.Rect) bool {
	if !hasClip {
		return true
	}
	if clip.IsEmpty() {
		return false
	}
	return bounds.Overlaps(clip)
}
