package scene

import (
	"github.com/gogpu/easel"
	"github.com/gogpu/easel/text"
)

// Command is one recorded draw operation. Commands are immutable after
// recording; the renderer reads them exactly once per frame.
type Command interface {
	// Bounds returns the shape's axis-aligned extent in logical pixels,
	// before any border expansion. Used for clip culling.
	Bounds() easel.Rect
}

// Rect fills an axis-aligned rectangle with a paint.
type Rect struct {
	Rect  easel.Rect
	Paint easel.Paint
}

func (r Rect) Bounds() easel.Rect { return r.Rect.Normalized() }

// RoundedRect fills a rounded rectangle with a paint and an optional
// inward border.
type RoundedRect struct {
	Rect   easel.Rect
	Radii  easel.CornerRadii
	Paint  easel.Paint
	Border easel.Border
}

func (r RoundedRect) Bounds() easel.Rect { return r.Rect.Normalized() }

// Circle fills a circle with a paint and an optional inward border.
type Circle struct {
	Center easel.Point
	Radius float32
	Paint  easel.Paint
	Border easel.Border
}

func (c Circle) Bounds() easel.Rect {
	return easel.RectXYWH(c.Center.X-c.Radius, c.Center.Y-c.Radius, 2*c.Radius, 2*c.Radius)
}

// Text draws a string with a registered font. Origin is the top-left
// corner of the first line; the baseline sits at Origin.Y + ascent.
// MaxWidth of 0 disables wrapping.
type Text struct {
	Text     string
	Font     text.FontID
	Size     float32
	Color    easel.Color
	Origin   easel.Point
	MaxWidth float32
}

func (t Text) Bounds() easel.Rect {
	// Glyph extents are not known until layout; clip culling for text
	// happens per glyph quad at upload.
	w := t.MaxWidth
	if w <= 0 {
		w = float32(len(t.Text)) * t.Size
	}
	return easel.RectXYWH(t.Origin.X, t.Origin.Y, w, t.Size*2)
}
