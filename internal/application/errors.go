package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNoInfoProvided: a room references a required device but the
	// provider returned nothing for it.
	ErrNoInfoProvided = errors.New("no info provided")

	// ErrNotFoundDevice: no room references a required device.
	ErrNotFoundDevice = errors.New("device not found")

	ErrUnknownProvider = errors.New("unknown provider")
)

// ReportError carries the device that stopped report generation.
// Kind is ErrNoInfoProvided or ErrNotFoundDevice.
type ReportError struct {
	Kind   error
	Device string
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Device)
}

func (e *ReportError) Unwrap() error {
	return e.Kind
}

func noInfoProvided(device string) error {
	return &ReportError{Kind: ErrNoInfoProvided, Device: device}
}

func notFoundDevice(device string) error {
	return &ReportError{Kind: ErrNotFoundDevice, Device: device}
}
