package inventory

import "errors"

var (
	// ErrRackNotFound is returned when a rack ID does not exist.
	ErrRackNotFound = errors.New("rack not found")

	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrPortNotFound is returned when a port ID does not exist.
	ErrPortNotFound = errors.New("port not found")

	// ErrSelfConnection is returned when connecting a port to itself.
	ErrSelfConnection = errors.New("cannot connect a port to itself")

	// ErrInvalidName is returned for empty or over-long names.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidHeight is returned for a non-positive rack height.
	ErrInvalidHeight = errors.New("invalid rack height")

	// ErrInvalidPlacement is returned for a non-positive device position or height.
	ErrInvalidPlacement = errors.New("invalid device placement")
)
