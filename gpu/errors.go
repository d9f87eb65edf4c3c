package gpu

import "errors"

var (
	// ErrDeviceLost is returned when the underlying GPU device is gone.
	// Callers must tear down and reinitialize the device; no operation
	// on the lost device will succeed again.
	ErrDeviceLost = errors.New("gpu: device lost")

	// ErrSwapUnavailable is returned by BeginFrame when the swap target
	// cannot be acquired. The frame is dropped, not retried.
	ErrSwapUnavailable = errors.New("gpu: swap target unavailable")

	// ErrFrameNotStarted is returned when Draw or EndFrame is called
	// outside a BeginFrame/EndFrame pair.
	ErrFrameNotStarted = errors.New("gpu: no frame in progress")

	// ErrFrameInProgress is returned by BeginFrame when the previous
	// frame was never ended.
	ErrFrameInProgress = errors.New("gpu: frame already in progress")

	// ErrUnknownBuffer is returned for operations on a buffer ID that
	// was never created or has been destroyed.
	ErrUnknownBuffer = errors.New("gpu: unknown buffer")

	// ErrUnknownTexture is returned for operations on a texture ID that
	// was never created or has been destroyed.
	ErrUnknownTexture = errors.New("gpu: unknown texture")
)
