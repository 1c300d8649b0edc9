package render

import (
	"testing"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/text"
)

func TestAppendGlyphInstance(t *testing.T) {
	quad := text.GlyphQuad{
		DstMin: easel.Pt(10, 20),
		DstMax: easel.Pt(18, 32),
		UVMin:  easel.Pt(0.1, 0.2),
		UVMax:  easel.Pt(0.15, 0.3),
	}
	color := easel.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}
	data := appendGlyphInstance(nil, quad, color, easel.Rect{}, false)
	if len(data) != glyphInstanceStride {
		t.Fatalf("len = %d, want %d", len(data), glyphInstanceStride)
	}

	want := [8]float32{10, 20, 18, 32, 0.1, 0.2, 0.15, 0.3}
	for i, v := range want {
		if got := f32At(t, data, i*4); got != v {
			t.Errorf("float %d = %v, want %v", i, got, v)
		}
	}
	if got := f32At(t, data, 32); got != 0.25 {
		t.Errorf("color.r = %v, want 0.25", got)
	}
	if got := f32At(t, data, 44); got != 1 {
		t.Errorf("color.a = %v, want 1", got)
	}
}

func TestAppendGlyphInstanceSkips(t *testing.T) {
	color := easel.Color{A: 1}

	// Degenerate quad.
	empty := text.GlyphQuad{DstMin: easel.Pt(5, 5), DstMax: easel.Pt(5, 10)}
	if data := appendGlyphInstance(nil, empty, color, easel.Rect{}, false); len(data) != 0 {
		t.Errorf("degenerate quad: len = %d, want 0", len(data))
	}

	// Quad outside the clip.
	quad := text.GlyphQuad{DstMin: easel.Pt(10, 10), DstMax: easel.Pt(20, 20)}
	if data := appendGlyphInstance(nil, quad, color, easel.RectXYWH(50, 50, 10, 10), true); len(data) != 0 {
		t.Errorf("clipped quad: len = %d, want 0", len(data))
	}
	if data := appendGlyphInstance(nil, quad, color, easel.RectXYWH(5, 5, 10, 10), true); len(data) == 0 {
		t.Error("overlapping clip culled the quad")
	}
}
