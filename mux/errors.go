package mux

import (
	"errors"

	"hidmux/hid"
)

var (
	// ErrInvalidDevice indicates a virtual device index outside the
	// configured range. A configuration or programming error; never expected
	// during correct operation.
	ErrInvalidDevice = errors.New("virtual device index out of range")

	// ErrInvalidPosition indicates a key position at or beyond the
	// configured matrix size. Same class as ErrInvalidDevice.
	ErrInvalidPosition = errors.New("key position out of range")

	// ErrInactive indicates a press or modifier change while the
	// multiplexer is deactivated. Benign; callers may ignore it.
	ErrInactive = errors.New("multiplexer is inactive")

	// ErrAlwaysOn indicates an attempt to deactivate a multiplexer
	// configured as always-on.
	ErrAlwaysOn = errors.New("multiplexer is configured always-on")

	// ErrCapacityExceeded indicates that a device's key slots were all
	// occupied and the press was dropped. Expected and benign; the dropped
	// key cannot borrow capacity from another device.
	ErrCapacityExceeded = hid.ErrNoFreeSlot
)
