package text

import (
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/easel"
)

// DefaultAtlasSize is the edge length of the coverage atlas in pixels.
const DefaultAtlasSize = 2048

// glyphPadding keeps one transparent pixel between packed glyphs so the
// linear sampler never bleeds a neighbor in.
const glyphPadding = 1

// glyphKey identifies a cached glyph: font, rune, and size in quarter
// pixels.
type glyphKey struct {
	font  FontID
	r     rune
	qsize uint32
}

// Entry locates a packed glyph. Offsets position the bitmap relative to
// the baseline dot; UVs are normalized atlas coordinates.
type Entry struct {
	OffsetX, OffsetY int
	W, H             int
	UVMin, UVMax     easel.Point
}

// shelf is one horizontal packing row.
type shelf struct {
	y, h, x int
}

// DirtyRegion is an atlas area awaiting GPU upload.
type DirtyRegion struct {
	Rect image.Rectangle
}

// Atlas is the CPU side of the glyph coverage texture: an R8 pixel store
// with shelf packing, a glyph cache, and dirty-region tracking for the
// renderer's texture uploads. The generation counter changes whenever the
// backing store is recreated, signalling the renderer to rebuild its bind
// group.
//
// Atlas is safe for concurrent use.
type Atlas struct {
	mu         sync.Mutex
	size       int
	pixels     []byte
	shelves    []shelf
	entries    map[glyphKey]Entry
	failed     map[glyphKey]struct{}
	dirty      []DirtyRegion
	generation uint64
	full       bool
	warnedFull bool
}

// NewAtlas returns an empty atlas with the given edge length. Sizes below
// 1 fall back to DefaultAtlasSize.
func NewAtlas(size int) *Atlas {
	if size < 1 {
		size = DefaultAtlasSize
	}
	return &Atlas{
		size:       size,
		pixels:     make([]byte, size*size),
		entries:    make(map[glyphKey]Entry),
		failed:     make(map[glyphKey]struct{}),
		generation: 1,
	}
}

// Size returns the atlas edge length in pixels.
func (a *Atlas) Size() int { return a.size }

// Generation returns the backing-store generation. It starts at 1 and is
// bumped by Reset.
func (a *Atlas) Generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

// Full reports whether the atlas has latched full.
func (a *Atlas) Full() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.full
}

// Occupancy returns the fraction of atlas area consumed by shelves.
func (a *Atlas) Occupancy() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	used := 0
	for _, s := range a.shelves {
		used += s.h * a.size
	}
	return float64(used) / float64(a.size*a.size)
}

// Pixels returns the backing coverage store, one byte per pixel with
// stride Size(). The renderer slices upload regions out of it; callers
// must not mutate.
func (a *Atlas) Pixels() []byte { return a.pixels }

// TakeDirty returns and clears the regions written since the last call.
func (a *Atlas) TakeDirty() []DirtyRegion {
	a.mu.Lock()
	defer a.mu.Unlock()
	d := a.dirty
	a.dirty = nil
	return d
}

// Reset drops every cached glyph, clears the store, and bumps the
// generation so renderers recreate their texture state.
func (a *Atlas) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.pixels)
	a.shelves = a.shelves[:0]
	a.entries = make(map[glyphKey]Entry)
	a.failed = make(map[glyphKey]struct{})
	a.dirty = nil
	a.full = false
	a.warnedFull = false
	a.generation++
}

// ensure returns the atlas entry for a glyph, rasterizing and packing it
// on first use. ok is false when the glyph has no outline or the atlas is
// full.
func (a *Atlas) ensure(key glyphKey, face font.Face, r rune) (Entry, bool) {
	a.mu.Lock()
	if e, ok := a.entries[key]; ok {
		a.mu.Unlock()
		return e, true
	}
	if _, bad := a.failed[key]; bad || a.full {
		a.mu.Unlock()
		return Entry{}, false
	}
	a.mu.Unlock()

	mask, offset, ok := rasterize(face, r)
	if !ok {
		a.mu.Lock()
		a.failed[key] = struct{}{}
		a.mu.Unlock()
		return Entry{}, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.entries[key]; ok {
		return e, true
	}
	e, err := a.insert(mask, offset)
	if err != nil {
		a.full = true
		if !a.warnedFull {
			a.warnedFull = true
			easel.Logger().Warn("glyph atlas full, further glyphs are dropped",
				"size", a.size)
		}
		return Entry{}, false
	}
	a.entries[key] = e
	return e, true
}

// insert shelf-packs a coverage mask. Callers hold a.mu.
func (a *Atlas) insert(mask *image.Alpha, offset image.Point) (Entry, error) {
	w := mask.Bounds().Dx()
	h := mask.Bounds().Dy()
	x, y, err := a.allocate(w+glyphPadding, h+glyphPadding)
	if err != nil {
		return Entry{}, err
	}

	for row := 0; row < h; row++ {
		src := mask.Pix[row*mask.Stride : row*mask.Stride+w]
		dst := a.pixels[(y+row)*a.size+x:]
		copy(dst[:w], src)
	}
	a.dirty = append(a.dirty, DirtyRegion{Rect: image.Rect(x, y, x+w, y+h)})

	inv := 1 / float32(a.size)
	return Entry{
		OffsetX: offset.X,
		OffsetY: offset.Y,
		W:       w,
		H:       h,
		UVMin:   easel.Pt(float32(x)*inv, float32(y)*inv),
		UVMax:   easel.Pt(float32(x+w)*inv, float32(y+h)*inv),
	}, nil
}

// allocate finds room for a w x h block, opening a new shelf when no
// existing shelf fits. Callers hold a.mu.
func (a *Atlas) allocate(w, h int) (x, y int, err error) {
	if w > a.size {
		return 0, 0, ErrAtlasFull
	}
	for i := range a.shelves {
		s := &a.shelves[i]
		if h <= s.h && s.x+w <= a.size {
			x = s.x
			s.x += w
			return x, s.y, nil
		}
	}
	nextY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		nextY = last.y + last.h
	}
	if nextY+h > a.size {
		return 0, 0, ErrAtlasFull
	}
	a.shelves = append(a.shelves, shelf{y: nextY, h: h, x: w})
	return 0, nextY, nil
}

// rasterize renders a glyph's coverage mask with the dot at the origin.
// The returned offset positions the mask relative to the baseline dot.
func rasterize(face font.Face, r rune) (*image.Alpha, image.Point, bool) {
	bounds, _, ok := face.GlyphBounds(r)
	if !ok {
		return nil, image.Point{}, false
	}
	minX := bounds.Min.X.Floor()
	minY := bounds.Min.Y.Floor()
	maxX := bounds.Max.X.Ceil()
	maxY := bounds.Max.Y.Ceil()
	w := maxX - minX
	h := maxY - minY
	if w <= 0 || h <= 0 {
		return nil, image.Point{}, false
	}

	// Draw with the dot shifted so the outline lands at (0, 0).
	dot := fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y}
	dr, maskImg, maskp, _, ok := face.Glyph(dot, r)
	if !ok || maskImg == nil {
		return nil, image.Point{}, false
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	draw.Draw(mask, dr, maskImg, maskp, draw.Src)
	return mask, image.Pt(minX, minY), true
}
