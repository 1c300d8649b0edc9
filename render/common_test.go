package render

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/easel"
)

// f32At decodes the little-endian float32 at a byte offset.
func f32At(t *testing.T, buf []byte, off int) float32 {
	t.Helper()
	if off+4 > len(buf) {
		t.Fatalf("offset %d out of range (len %d)", off, len(buf))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestQuadVertexData(t *testing.T) {
	data := quadVertexData()
	if len(data) != 4*quadVertexStride {
		t.Fatalf("len = %d, want %d", len(data), 4*quadVertexStride)
	}
	want := [8]float32{0, 0, 1, 0, 1, 1, 0, 1}
	for i, v := range want {
		if got := f32At(t, data, i*4); got != v {
			t.Errorf("vertex float %d = %v, want %v", i, got, v)
		}
	}
}

func TestQuadIndexData(t *testing.T) {
	data := quadIndexData()
	if len(data) != quadIndexCount*2 {
		t.Fatalf("len = %d, want %d", len(data), quadIndexCount*2)
	}
	want := [6]uint16{0, 1, 2, 0, 2, 3}
	for i, v := range want {
		if got := binary.LittleEndian.Uint16(data[i*2:]); got != v {
			t.Errorf("index %d = %d, want %d", i, got, v)
		}
	}
}

func TestViewportUniformData(t *testing.T) {
	data := viewportUniformData(easel.Viewport{Width: 800, Height: 600})
	if len(data) != viewportUniformSize {
		t.Fatalf("len = %d, want %d", len(data), viewportUniformSize)
	}
	if got := f32At(t, data, 0); got != 800 {
		t.Errorf("width = %v, want 800", got)
	}
	if got := f32At(t, data, 4); got != 600 {
		t.Errorf("height = %v, want 600", got)
	}

	// Collapsed viewports floor at 1 so the shader never divides by zero.
	data = viewportUniformData(easel.Viewport{Width: 0, Height: -5})
	if got := f32At(t, data, 0); got != 1 {
		t.Errorf("collapsed width = %v, want 1", got)
	}
	if got := f32At(t, data, 4); got != 1 {
		t.Errorf("collapsed height = %v, want 1", got)
	}
}

func TestPutColorZeroesNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	buf := make([]byte, 16)
	putColor(buf, 0, easel.Color{R: nan, G: inf, B: 0.5, A: 1})
	if got := f32At(t, buf, 0); got != 0 {
		t.Errorf("NaN channel = %v, want 0", got)
	}
	if got := f32At(t, buf, 4); got != 0 {
		t.Errorf("Inf channel = %v, want 0", got)
	}
	if got := f32At(t, buf, 8); got != 0.5 {
		t.Errorf("finite channel = %v, want 0.5", got)
	}
	if got := f32At(t, buf, 12); got != 1 {
		t.Errorf("alpha = %v, want 1", got)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, minInstanceCapacity},
		{1, minInstanceCapacity},
		{64, 64},
		{65, 128},
		{128, 128},
		{129, 256},
		{1000, 1024},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestClipAllows(t *testing.T) {
	bounds := easel.RectXYWH(10, 10, 20, 20)
	tests := []struct {
		name    string
		hasClip bool
		clip    easel.Rect
		want    bool
	}{
		{"no clip", false, easel.Rect{}, true},
		{"overlapping clip", true, easel.RectXYWH(0, 0, 15, 15), true},
		{"containing clip", true, easel.RectXYWH(0, 0, 100, 100), true},
		{"disjoint clip", true, easel.RectXYWH(100, 100, 10, 10), false},
		{"zero-area clip", true, easel.RectXYWH(10, 10, 0, 0), false},
		{"touching edge", true, easel.RectXYWH(30, 10, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clipAllows(tt.hasClip, tt.clip, bounds); got != tt.want {
				t.Errorf("clipAllows = %v, want %v", got, tt.want)
			}
		})
	}
}
