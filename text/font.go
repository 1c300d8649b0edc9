// Package text loads fonts, lays out glyph runs, and maintains the
// single-channel coverage atlas the glyph renderer samples.
//
// Layout is simple left-to-right pen advance with kerning and greedy word
// wrap. Complex scripts and right-to-left paragraphs are rendered with the
// same simple advances and reported once through the package logger.
package text

import (
	"bytes"
	"sync"

	tsfont "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontID is a handle to a font registered with a System.
type FontID uint32

// faceKey caches faces per font and quantized size (quarter pixels).
type faceKey struct {
	id    FontID
	qsize uint32
}

type loadedFont struct {
	ot *opentype.Font
}

// System is the font registry and face cache. A System is shared by the
// scene recorder (FontIDs), the layout routines, and the glyph renderer.
//
// System is safe for concurrent use.
type System struct {
	mu    sync.RWMutex
	fonts []*loadedFont
	faces map[faceKey]font.Face
}

// NewSystem returns an empty font registry.
func NewSystem() *System {
	return &System{faces: make(map[faceKey]font.Face)}
}

// LoadFont registers TTF/OTF font data and returns its handle. The data is
// validated with go-text/typesetting and parsed with x/image opentype; both
// must accept it.
func (s *System) LoadFont(data []byte) (FontID, error) {
	if len(data) == 0 {
		return 0, ErrEmptyFontData
	}
	if _, err := tsfont.ParseTTF(bytes.NewReader(data)); err != nil {
		return 0, err
	}
	ot, err := opentype.Parse(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.fonts = append(s.fonts, &loadedFont{ot: ot})
	return FontID(len(s.fonts) - 1), nil
}

// NumFonts returns the number of registered fonts.
func (s *System) NumFonts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fonts)
}

// quantizeSize maps a font size to quarter-pixel steps, the granularity at
// which faces and atlas glyphs are cached.
func quantizeSize(size float32) uint32 {
	if size <= 0 {
		return 0
	}
	return uint32(size*4 + 0.5)
}

// Face returns a cached face for the font at the given size. Sizes are
// quantized to quarter pixels.
func (s *System) Face(id FontID, size float32) (font.Face, error) {
	key := faceKey{id: id, qsize: quantizeSize(size)}

	s.mu.RLock()
	if f, ok := s.faces[key]; ok {
		s.mu.RUnlock()
		return f, nil
	}
	lf := s.font(id)
	s.mu.RUnlock()
	if lf == nil {
		return nil, ErrUnknownFont
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(lf.ot, &opentype.FaceOptions{
		Size:    float64(key.qsize) / 4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	s.faces[key] = f
	return f, nil
}

// font returns the loaded font for id. Callers hold s.mu.
func (s *System) font(id FontID) *loadedFont {
	if int(id) >= len(s.fonts) {
		return nil
	}
	return s.fonts[id]
}
