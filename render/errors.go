package render

import "errors"

// Sentinel errors for the render package.
var (
	// ErrNilDevice is returned when a Context carries no device.
	ErrNilDevice = errors.New("render: nil device")

	// ErrNilTarget is returned when a Target lacks its encoder or view.
	ErrNilTarget = errors.New("render: nil target encoder or view")

	// ErrNoFontSystem is returned when a frame contains text commands but
	// the renderer was built without a font system.
	ErrNoFontSystem = errors.New("render: no font system configured")
)
