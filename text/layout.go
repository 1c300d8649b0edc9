package text

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/easel"
)

// Run describes a text run to lay out.
type Run struct {
	Text     string
	Font     FontID
	Size     float32
	Origin   easel.Point
	MaxWidth float32 // 0 = unbounded
}

// GlyphQuad is one positioned glyph: a destination rect in logical pixels
// and the glyph's normalized coverage-atlas coordinates.
type GlyphQuad struct {
	DstMin, DstMax easel.Point
	UVMin, UVMax   easel.Point
}

// Shape lays out a run and returns the positioned glyph quads, inserting
// any missing glyphs into the atlas. The baseline of the first line sits at
// Origin.Y + ascent; lines advance by the face's line height. Glyphs the
// atlas cannot hold are dropped (the atlas warns once when it fills).
func (s *System) Shape(atlas *Atlas, run Run) ([]GlyphQuad, error) {
	reportScripts(run.Text)
	face, err := s.Face(run.Font, run.Size)
	if err != nil {
		return nil, err
	}
	qsize := quantizeSize(run.Size)

	var quads []GlyphQuad
	walk(face, run.Text, run.Origin, run.MaxWidth, func(r rune, dot fixed.Point26_6) {
		entry, ok := atlas.ensure(glyphKey{font: run.Font, r: r, qsize: qsize}, face, r)
		if !ok || entry.W == 0 || entry.H == 0 {
			return
		}
		// Glyph origins snap to whole pixels; subpixel positioning is not
		// carried in the atlas key.
		px := float32(dot.X.Round())
		py := float32(dot.Y.Round())
		quads = append(quads, GlyphQuad{
			DstMin: easel.Pt(px+float32(entry.OffsetX), py+float32(entry.OffsetY)),
			DstMax: easel.Pt(px+float32(entry.OffsetX+entry.W), py+float32(entry.OffsetY+entry.H)),
			UVMin:  entry.UVMin,
			UVMax:  entry.UVMax,
		})
	})
	return quads, nil
}

// Measure returns the laid-out extent of a run in logical pixels, using
// the same pen walk as Shape but touching no atlas.
func (s *System) Measure(str string, id FontID, size, maxWidth float32) (w, h float32, err error) {
	face, ferr := s.Face(id, size)
	if ferr != nil {
		return 0, 0, ferr
	}
	w, h = walk(face, str, easel.Point{}, maxWidth, nil)
	return w, h, nil
}

// walk advances a pen over the run, invoking yield with the baseline dot
// for every non-space rune. It handles newlines, kerning, and greedy word
// wrap at maxWidth, and returns the occupied extent relative to origin.
func walk(face font.Face, str string, origin easel.Point, maxWidth float32, yield func(r rune, dot fixed.Point26_6)) (w, h float32) {
	if str == "" {
		return 0, 0
	}
	m := face.Metrics()
	lineHeight := m.Height
	startX := floatToFixed(origin.X)
	var limit fixed.Int26_6
	if maxWidth > 0 {
		limit = floatToFixed(maxWidth)
	}

	runes := []rune(str)
	dot := fixed.Point26_6{X: startX, Y: floatToFixed(origin.Y) + m.Ascent}
	maxX := startX
	var prev rune
	atWordStart := true

	for i, r := range runes {
		if r == '\n' {
			dot.X = startX
			dot.Y += lineHeight
			prev = 0
			atWordStart = true
			continue
		}
		if r == ' ' || r == '\t' {
			adv, _ := face.GlyphAdvance(r)
			dot.X += adv
			prev = r
			atWordStart = true
			continue
		}
		// The wrap limit is a line width, so it holds for any origin.
		if atWordStart && limit > 0 && dot.X > startX {
			if dot.X-startX+wordWidth(face, runes[i:]) > limit {
				dot.X = startX
				dot.Y += lineHeight
				prev = 0
			}
		}
		atWordStart = false

		if prev != 0 {
			dot.X += face.Kern(prev, r)
		}
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			prev = r
			continue
		}
		if yield != nil {
			yield(r, dot)
		}
		dot.X += adv
		if dot.X > maxX {
			maxX = dot.X
		}
		prev = r
	}

	w = fixedToFloat(maxX - startX)
	h = fixedToFloat(dot.Y-floatToFixed(origin.Y)) + fixedToFloat(m.Descent)
	return w, h
}

// wordWidth sums advances from the start of runes until the next break
// opportunity. Used for greedy wrap decisions.
func wordWidth(face font.Face, runes []rune) fixed.Int26_6 {
	var width fixed.Int26_6
	var prev rune
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' {
			break
		}
		if prev != 0 {
			width += face.Kern(prev, r)
		}
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			continue
		}
		width += adv
		prev = r
	}
	return width
}

// floatToFixed converts a float32 to fixed.Int26_6 (6 fractional bits).
func floatToFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// fixedToFloat converts a fixed.Int26_6 value to float32.
func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
