//go:build !nogpu

package render

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/scene"
	"github.com/gogpu/easel/text"
)

func TestClearValidation(t *testing.T) {
	r := NewRenderer()
	if err := r.Clear(nil, nil, easel.Color{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil ctx: err = %v, want ErrNilDevice", err)
	}

	ctx, cleanup := newTestContext(t)
	defer cleanup()
	if err := r.Clear(ctx, nil, easel.Color{}); !errors.Is(err, ErrNilTarget) {
		t.Errorf("nil target: err = %v, want ErrNilTarget", err)
	}
	if err := r.Clear(ctx, &Target{}, easel.Color{}); !errors.Is(err, ErrNilTarget) {
		t.Errorf("empty target: err = %v, want ErrNilTarget", err)
	}
}

func TestClear(t *testing.T) {
	ctx, cleanup := newTestContext(t)
	defer cleanup()
	target, done := newTestTarget(t, ctx)
	defer done()

	r := NewRenderer()
	defer r.Destroy()
	if err := r.Clear(ctx, target, easel.Color{R: 0.1, G: 0.2, B: 0.3, A: 1}); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
}

func TestRenderFrameEmptyList(t *testing.T) {
	ctx, cleanup := newTestContext(t)
	defer cleanup()
	target, done := newTestTarget(t, ctx)
	defer done()

	r := NewRenderer()
	defer r.Destroy()
	if err := r.RenderFrame(ctx, target, scene.NewList()); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
}

func TestRenderFrameShapes(t *testing.T) {
	ctx, cleanup := newTestContext(t)
	defer cleanup()
	target, done := newTestTarget(t, ctx)
	defer done()

	fonts := text.NewSystem()
	font, err := fonts.LoadFont(goregular.TTF)
	if err != nil {
		t.Fatalf("LoadFont failed: %v", err)
	}

	r := NewRenderer(WithFontSystem(fonts))
	defer r.Destroy()

	list := scene.NewList()
	list.PushSolidRect(0, easel.RectXYWH(10, 10, 100, 50), easel.Color{R: 1, A: 1})
	list.PushRoundedRect(1, easel.RectXYWH(20, 20, 80, 40), easel.UniformRadii(8),
		easel.SolidPaint(easel.Color{G: 1, A: 1}), easel.Border{})
	list.PushCircle(2, easel.Pt(200, 100), 30,
		easel.SolidPaint(easel.Color{B: 1, A: 1}), easel.Border{})
	list.PushText(3, "hello", font, 16, easel.Color{A: 1}, easel.Pt(10, 200), 0)
	// A second rect at a higher z forces a fifth run: the rect pipeline
	// draws twice with distinct instance ranges.
	list.PushSolidRect(4, easel.RectXYWH(50, 50, 10, 10), easel.Color{R: 1, G: 1, A: 1})

	if err := r.RenderFrame(ctx, target, list); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}

	if got := r.rect.pipe.instanceCount(); got != 2 {
		t.Errorf("rect instances = %d, want 2", got)
	}
	if got := r.rrect.pipe.instanceCount(); got != 1 {
		t.Errorf("rounded rect instances = %d, want 1", got)
	}
	if got := r.circle.pipe.instanceCount(); got != 1 {
		t.Errorf("circle instances = %d, want 1", got)
	}
	if got := r.glyph.pipe.instanceCount(); got != 5 {
		t.Errorf("glyph instances = %d, want 5", got)
	}

	// A second frame resets per-frame accumulation.
	list.Clear()
	list.PushSolidRect(0, easel.RectXYWH(0, 0, 10, 10), easel.Color{A: 1})
	if err := r.RenderFrame(ctx, target, list); err != nil {
		t.Fatalf("second RenderFrame failed: %v", err)
	}
	if got := r.rect.pipe.instanceCount(); got != 1 {
		t.Errorf("rect instances after second frame = %d, want 1", got)
	}
}

func TestRenderFrameTextWithoutFonts(t *testing.T) {
	ctx, cleanup := newTestContext(t)
	defer cleanup()
	target, done := newTestTarget(t, ctx)
	defer done()

	r := NewRenderer()
	defer r.Destroy()

	list := scene.NewList()
	list.PushText(0, "x", 0, 12, easel.Color{A: 1}, easel.Pt(0, 0), 0)
	if err := r.RenderFrame(ctx, target, list); !errors.Is(err, ErrNoFontSystem) {
		t.Errorf("err = %v, want ErrNoFontSystem", err)
	}
}

func TestRenderFrameScaleFactor(t *testing.T) {
	ctx, cleanup := newTestContext(t)
	defer cleanup()
	target, done := newTestTarget(t, ctx)
	defer done()

	fonts := text.NewSystem()
	font, err := fonts.LoadFont(goregular.TTF)
	if err != nil {
		t.Fatalf("LoadFont failed: %v", err)
	}
	ctx.ScaleFactor = 2

	r := NewRenderer(WithFontSystem(fonts))
	defer r.Destroy()

	list := scene.NewList()
	list.PushText(0, "Hi", font, 16, easel.Color{A: 1}, easel.Pt(10, 30), 0)
	if err := r.RenderFrame(ctx, target, list); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if got := r.glyph.pipe.instanceCount(); got != 2 {
		t.Errorf("glyph instances = %d, want 2", got)
	}
}

func TestCommandKind(t *testing.T) {
	if k := commandKind(scene.Rect{}); k != kindRect {
		t.Errorf("Rect kind = %d", k)
	}
	if k := commandKind(scene.RoundedRect{}); k != kindRoundedRect {
		t.Errorf("RoundedRect kind = %d", k)
	}
	if k := commandKind(scene.Circle{}); k != kindCircle {
		t.Errorf("Circle kind = %d", k)
	}
	if k := commandKind(scene.Text{}); k != kindText {
		t.Errorf("Text kind = %d", k)
	}
	if k := commandKind(nil); k != kindNone {
		t.Errorf("nil kind = %d", k)
	}
}
