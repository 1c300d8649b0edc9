package render

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/scene"
	"github.com/gogpu/easel/text"
)

func TestSoftwareSolidRect(t *testing.T) {
	s := NewSoftware(100, 100)
	list := scene.NewList()
	list.PushSolidRect(0, easel.RectXYWH(10, 10, 20, 20), easel.Color{R: 1, A: 1})
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := s.At(15, 15); got.R != 1 || got.A != 1 {
		t.Errorf("inside = %+v, want opaque red", got)
	}
	if got := s.At(5, 5); got.A != 0 {
		t.Errorf("outside = %+v, want transparent", got)
	}
	// The rect is half-open: its max edge excludes the boundary pixel.
	if got := s.At(30, 15); got.A != 0 {
		t.Errorf("max edge = %+v, want transparent", got)
	}
}

func TestSoftwarePaintOrder(t *testing.T) {
	s := NewSoftware(50, 50)
	list := scene.NewList()
	// Pushed first but z=1: red draws over blue.
	list.PushSolidRect(1, easel.RectXYWH(0, 0, 50, 50), easel.Color{R: 1, A: 1})
	list.PushSolidRect(0, easel.RectXYWH(0, 0, 50, 50), easel.Color{B: 1, A: 1})
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := s.At(25, 25); got.R != 1 || got.B != 0 {
		t.Errorf("pixel = %+v, want red on top", got)
	}
}

func TestSoftwarePaintOrderAcrossKinds(t *testing.T) {
	s := NewSoftware(50, 50)
	list := scene.NewList()
	// The rounded rect is pushed first but sits above the plain rect.
	list.PushRoundedRect(2, easel.RectXYWH(5, 5, 40, 40), easel.UniformRadii(12),
		easel.SolidPaint(easel.Color{B: 1, A: 1}), easel.Border{})
	list.PushSolidRect(1, easel.RectXYWH(0, 0, 50, 50), easel.Color{R: 1, A: 1})
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := s.At(25, 25); got.B != 1 || got.R != 0 {
		t.Errorf("center = %+v, want the rounded rect on top", got)
	}
	// The rounded corner is cut away, so the rect below shows through.
	if got := s.At(6, 6); got.R != 1 || got.B != 0 {
		t.Errorf("corner = %+v, want the rect below", got)
	}
}

func TestSoftwareCompositing(t *testing.T) {
	s := NewSoftware(10, 10)
	s.Clear(easel.Color{R: 1, A: 1})
	list := scene.NewList()
	// Premultiplied half-transparent blue over opaque red.
	list.PushSolidRect(0, easel.RectXYWH(0, 0, 10, 10), easel.Color{B: 0.5, A: 0.5})
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	got := s.At(5, 5)
	if !approxEq(got.R, 0.5) || !approxEq(got.B, 0.5) || !approxEq(got.A, 1) {
		t.Errorf("pixel = %+v, want {R:0.5 B:0.5 A:1}", got)
	}
}

func TestSoftwareGradientEndpoints(t *testing.T) {
	s := NewSoftware(100, 10)
	list := scene.NewList()
	list.PushRect(0, easel.RectXYWH(0, 0, 100, 10), easel.GradientPaint(easel.LinearGradient{
		Start: easel.Pt(0, 0),
		End:   easel.Pt(100, 0),
		Stops: []easel.ColorStop{
			{Offset: 0, Color: easel.Color{R: 1, A: 1}},
			{Offset: 1, Color: easel.Color{B: 1, A: 1}},
		},
	}))
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	left := s.At(0, 5)
	right := s.At(99, 5)
	if left.R < 0.98 || left.B > 0.02 {
		t.Errorf("left = %+v, want nearly pure red", left)
	}
	if right.B < 0.98 || right.R > 0.02 {
		t.Errorf("right = %+v, want nearly pure blue", right)
	}
	mid := s.At(50, 5)
	if mid.R < 0.4 || mid.R > 0.6 || mid.B < 0.4 || mid.B > 0.6 {
		t.Errorf("mid = %+v, want roughly even blend", mid)
	}
}

func TestSoftwareCircle(t *testing.T) {
	s := NewSoftware(100, 100)
	list := scene.NewList()
	list.PushCircle(0, easel.Pt(50, 50), 20,
		easel.SolidPaint(easel.Color{G: 1, A: 1}),
		easel.Border{Width: 4, Color: easel.Color{R: 1, A: 1}})
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := s.At(50, 50); got.G != 1 {
		t.Errorf("center = %+v, want green fill", got)
	}
	// A pixel just inside the rim sits in the border band.
	if got := s.At(50+18, 50); got.R < 0.9 || got.G > 0.1 {
		t.Errorf("border band = %+v, want red border", got)
	}
	if got := s.At(50, 50+30); got.A != 0 {
		t.Errorf("outside = %+v, want transparent", got)
	}
}

func TestSoftwareRoundedRectCorners(t *testing.T) {
	s := NewSoftware(60, 60)
	list := scene.NewList()
	list.PushRoundedRect(0, easel.RectXYWH(10, 10, 40, 40),
		easel.CornerRadii{TopLeft: 15},
		easel.SolidPaint(easel.Color{B: 1, A: 1}), easel.Border{})
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// The rounded top-left corner pixel is cut away.
	if got := s.At(11, 11); got.A > 0.1 {
		t.Errorf("rounded corner = %+v, want cut away", got)
	}
	// The sharp bottom-right corner remains filled.
	if got := s.At(48, 48); got.B < 0.9 {
		t.Errorf("sharp corner = %+v, want filled", got)
	}
	if got := s.At(30, 30); got.B != 1 {
		t.Errorf("center = %+v, want filled", got)
	}
}

func TestSoftwareClip(t *testing.T) {
	s := NewSoftware(100, 100)
	list := scene.NewList()
	list.PushClip(easel.RectXYWH(0, 0, 50, 100))
	list.PushSolidRect(0, easel.RectXYWH(0, 0, 100, 100), easel.Color{R: 1, A: 1})
	list.PopClip()
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if got := s.At(25, 50); got.R != 1 {
		t.Errorf("inside clip = %+v, want red", got)
	}
	if got := s.At(75, 50); got.A != 0 {
		t.Errorf("outside clip = %+v, want transparent", got)
	}
}

func TestSoftwareText(t *testing.T) {
	fonts := text.NewSystem()
	font, err := fonts.LoadFont(goregular.TTF)
	if err != nil {
		t.Fatalf("LoadFont failed: %v", err)
	}

	s := NewSoftware(200, 60, WithFontSystem(fonts))
	list := scene.NewList()
	list.PushText(0, "Easel", font, 24, easel.Color{A: 1}, easel.Pt(10, 10), 0)
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var covered int
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			if s.At(x, y).A > 0.5 {
				covered++
			}
		}
	}
	if covered == 0 {
		t.Error("text drew no pixels")
	}
}

func TestSoftwareTextCoverageDiscard(t *testing.T) {
	fonts := text.NewSystem()
	font, err := fonts.LoadFont(goregular.TTF)
	if err != nil {
		t.Fatalf("LoadFont failed: %v", err)
	}
	atlas := text.NewAtlas(0)

	backdrop := easel.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}
	s := NewSoftware(60, 100, WithFontSystem(fonts), WithAtlas(atlas))
	s.Clear(backdrop)

	// The lowercase i holds a fully transparent band between its dot and
	// its stem, so its quad is guaranteed to cover zero-coverage texels.
	list := scene.NewList()
	list.PushText(0, "i", font, 48, easel.Color{A: 1}, easel.Pt(10, 10), 0)
	if err := s.Render(list); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	quads, err := fonts.Shape(atlas, text.Run{Text: "i", Font: font, Size: 48, Origin: easel.Pt(10, 10)})
	if err != nil {
		t.Fatalf("Shape failed: %v", err)
	}
	if len(quads) != 1 {
		t.Fatalf("quad count = %d, want 1", len(quads))
	}
	q := quads[0]

	// Scan strictly interior pixels so every sample maps into the quad.
	var untouched, drawn int
	for y := int(q.DstMin.Y) + 1; y < int(q.DstMax.Y)-1; y++ {
		for x := int(q.DstMin.X) + 1; x < int(q.DstMax.X)-1; x++ {
			if s.At(x, y) == backdrop {
				untouched++
			} else {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("glyph drew no pixels")
	}
	// Zero-coverage texels leave the destination bit-identical: the pixel
	// is skipped, not blended with a transparent source.
	if untouched == 0 {
		t.Error("no pixel inside the quad kept the exact backdrop color")
	}
}

func TestSoftwareTextWithoutFonts(t *testing.T) {
	s := NewSoftware(10, 10)
	list := scene.NewList()
	list.PushText(0, "x", 0, 12, easel.Color{A: 1}, easel.Pt(0, 0), 0)
	if err := s.Render(list); err == nil {
		t.Error("expected ErrNoFontSystem")
	}
}

func approxEq(a, b float32) bool {
	d := a - b
	return d > -0.01 && d < 0.01
}
