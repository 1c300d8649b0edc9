package text

import "errors"

// Sentinel errors for the text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrUnknownFont is returned when a FontID was not issued by this System.
	ErrUnknownFont = errors.New("text: unknown font id")

	// ErrAtlasFull is returned when the coverage atlas has no room for a
	// new glyph. The atlas latches full; further inserts fail until Reset.
	ErrAtlasFull = errors.New("text: glyph atlas full")
)
