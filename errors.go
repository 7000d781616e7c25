package ink

import "errors"

// Error kinds returned by ink operations. Errors are wrapped with
// fmt.Errorf("%w: ...") to carry context; test with errors.Is.
var (
	// ErrInvalidArgument reports a rejected parameter value, such as a
	// non-positive blur sigma or an out-of-range resolution.
	ErrInvalidArgument = errors.New("ink: invalid argument")

	// ErrInvalidHandle reports a nil or unusable canvas, path, pixmap,
	// or font.
	ErrInvalidHandle = errors.New("ink: invalid handle")

	// ErrAllocFailed reports that a buffer could not be sized, for
	// example when a blur scratch surface would exceed the pixel limit.
	ErrAllocFailed = errors.New("ink: allocation failed")

	// ErrRenderFailed reports a failure while rendering into an
	// offscreen surface.
	ErrRenderFailed = errors.New("ink: render failed")

	// ErrCompositeFailed reports a failure while compositing a rendered
	// result onto the destination canvas.
	ErrCompositeFailed = errors.New("ink: composite failed")

	// ErrMalformedPath reports a path whose command stream is
	// inconsistent, such as a curve command without its trailing
	// on-curve vertex.
	ErrMalformedPath = errors.New("ink: malformed path")

	// ErrConvertFailed reports a pixel format conversion failure.
	ErrConvertFailed = errors.New("ink: pixel format conversion failed")
)
