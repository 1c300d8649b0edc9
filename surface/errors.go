package surface

import "errors"

var (
	// ErrNoBackend is returned when no GPU backend is available on this
	// platform.
	ErrNoBackend = errors.New("surface: no GPU backend available")

	// ErrNoAdapter is returned when the instance exposes no adapters.
	ErrNoAdapter = errors.New("surface: no GPU adapters found")

	// ErrNilProvider is returned when a device provider does not expose
	// HAL types.
	ErrNilProvider = errors.New("surface: provider does not expose HAL device and queue")

	// ErrClosed is returned when the arena is used after Close.
	ErrClosed = errors.New("surface: arena closed")

	// ErrFrameFinished is returned when a frame is encoded after its
	// command buffer was submitted or discarded.
	ErrFrameFinished = errors.New("surface: frame already finished")

	// ErrSurfaceTimeout reports a transient acquisition timeout.
	ErrSurfaceTimeout = errors.New("surface: acquisition timed out")

	// ErrSurfaceOutdated reports a surface whose configuration no longer
	// matches the window.
	ErrSurfaceOutdated = errors.New("surface: outdated")

	// ErrSurfaceLost reports a surface that must be recreated.
	ErrSurfaceLost = errors.New("surface: lost")
)

// ErrorAction tells the caller how to react to an acquisition failure.
type ErrorAction int

const (
	// ActionFatal means the error is unrecoverable; stop rendering.
	ActionFatal ErrorAction = iota

	// ActionSkipFrame means drop this frame and try again.
	ActionSkipFrame

	// ActionReconfigure means recreate the surface, then try again.
	ActionReconfigure

	// ActionProceed means there was no error; keep rendering.
	ActionProceed
)

// Classify maps an acquisition error to the action that recovers from it.
// A nil error proceeds, timeouts skip the frame, outdated or lost
// surfaces reconfigure, and everything else is fatal.
func Classify(err error) ErrorAction {
	switch {
	case err == nil:
		return ActionProceed
	case errors.Is(err, ErrSurfaceTimeout):
		return ActionSkipFrame
	case errors.Is(err, ErrSurfaceOutdated), errors.Is(err, ErrSurfaceLost):
		return ActionReconfigure
	default:
		return ActionFatal
	}
}
