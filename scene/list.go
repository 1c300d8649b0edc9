package scene

import (
	"slices"

	"github.com/gogpu/easel"
	"github.com/gogpu/easel/text"
)

// Item is one recorded command with its sort key and captured clip.
type Item struct {
	Key SortKey
	Cmd Command

	// Clip is the clip rect active when the command was recorded. It is
	// meaningful only when HasClip is true; a zero-area Clip means the
	// command is fully clipped out.
	Clip    easel.Rect
	HasClip bool
}

// List accumulates a frame's draw commands.
//
// List is not safe for concurrent use; a frame records from one goroutine.
type List struct {
	items []Item
	seq   uint32

	// order caches the sorted view handed out by InPaintOrder. It is
	// invalidated by Push and Clear.
	order []*Item

	clips []easel.Rect
}

// NewList returns an empty draw list.
func NewList() *List { return &List{} }

// Len returns the number of recorded commands.
func (l *List) Len() int { return len(l.items) }

// Push records cmd on layer z. The command captures the next sequence
// number and the clip rect currently in effect. The sequence counter wraps
// at 2^32; frames are cleared long before that matters.
func (l *List) Push(z ZIndex, cmd Command) {
	item := Item{
		Key: SortKey{Z: z, Seq: l.seq},
		Cmd: cmd,
	}
	if n := len(l.clips); n > 0 {
		item.Clip = l.clips[n-1]
		item.HasClip = true
	}
	l.seq++
	l.items = append(l.items, item)
	l.order = nil
}

// Clear resets the list for the next frame: items, sequence counter, the
// sorted cache, and the clip stack. Backing storage is retained.
func (l *List) Clear() {
	l.items = l.items[:0]
	l.seq = 0
	l.order = nil
	l.clips = l.clips[:0]
}

// InPaintOrder returns the recorded items sorted by (z, seq) ascending.
// The slice is cached until the next Push or Clear; callers must not
// retain it across frames.
func (l *List) InPaintOrder() []*Item {
	if l.order == nil {
		l.order = make([]*Item, len(l.items))
		for i := range l.items {
			l.order[i] = &l.items[i]
		}
		slices.SortFunc(l.order, func(a, b *Item) int {
			if a.Key.Less(b.Key) {
				return -1
			}
			return 1
		})
	}
	return l.order
}

// PushClip narrows the active clip to r intersected with the parent clip.
// A disjoint intersection leaves a zero-area clip: commands recorded under
// it are skipped at upload.
func (l *List) PushClip(r easel.Rect) {
	r = r.Normalized()
	if n := len(l.clips); n > 0 {
		clipped, ok := l.clips[n-1].Intersect(r)
		if !ok {
			clipped = easel.Rect{Origin: r.Origin}
		}
		r = clipped
	}
	l.clips = append(l.clips, r)
}

// PopClip restores the clip in effect before the matching PushClip. Popping
// an empty stack is a no-op.
func (l *List) PopClip() {
	if n := len(l.clips); n > 0 {
		l.clips = l.clips[:n-1]
	}
}

// CurrentClip returns the active clip rect, if any clip is in effect.
func (l *List) CurrentClip() (easel.Rect, bool) {
	if n := len(l.clips); n > 0 {
		return l.clips[n-1], true
	}
	return easel.Rect{}, false
}

// PushRect records a paint-filled rectangle.
func (l *List) PushRect(z ZIndex, r easel.Rect, p easel.Paint) {
	l.Push(z, Rect{Rect: r, Paint: p})
}

// PushSolidRect records a rectangle filled with a single color.
func (l *List) PushSolidRect(z ZIndex, r easel.Rect, c easel.Color) {
	l.Push(z, Rect{Rect: r, Paint: easel.SolidPaint(c)})
}

// PushRoundedRect records a rounded rectangle with optional border.
func (l *List) PushRoundedRect(z ZIndex, r easel.Rect, radii easel.CornerRadii, p easel.Paint, b easel.Border) {
	l.Push(z, RoundedRect{Rect: r, Radii: radii, Paint: p, Border: b})
}

// PushCircle records a circle with optional border.
func (l *List) PushCircle(z ZIndex, center easel.Point, radius float32, p easel.Paint, b easel.Border) {
	l.Push(z, Circle{Center: center, Radius: radius, Paint: p, Border: b})
}

// PushText records a text run. MaxWidth of 0 disables wrapping.
func (l *List) PushText(z ZIndex, s string, font text.FontID, size float32, c easel.Color, origin easel.Point, maxWidth float32) {
	l.Push(z, Text{Text: s, Font: font, Size: size, Color: c, Origin: origin, MaxWidth: maxWidth})
}
