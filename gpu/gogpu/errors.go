package gogpu

import "errors"

var (
	// ErrNoHALDevice is returned when the device provider does not
	// expose hal.Device and hal.Queue handles.
	ErrNoHALDevice = errors.New("gogpu: provider does not expose HAL device")

	// ErrNilTarget is returned when New is called without a swap target.
	ErrNilTarget = errors.New("gogpu: nil target")
)
