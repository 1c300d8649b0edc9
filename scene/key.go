// Package scene records a frame's draw commands and replays them in stable
// paint order.
//
// A List is write-once-read-once per frame: commands are pushed during
// layout/paint, iterated once by the renderer, then cleared. Ordering is
// by (z, sequence): explicit z layers first, recording order within a
// layer. The list also carries a clip-rect stack; each command captures the
// clip active when it was pushed.
package scene

// ZIndex is an explicit paint layer. Higher values paint later (on top).
type ZIndex int32

// SortKey orders commands within a frame. Z is the explicit layer; Seq is
// the per-frame recording sequence that breaks ties, so two commands never
// compare equal.
type SortKey struct {
	Z   ZIndex
	Seq uint32
}

// Less reports whether k paints before other: lower Z first, then lower
// sequence number.
func (k SortKey) Less(other SortKey) bool {
	if k.Z != other.Z {
		return k.Z < other.Z
	}
	return k.Seq < other.Seq
}
