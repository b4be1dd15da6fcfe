package native

import (
	"errors"
	"fmt"
)

// Package errors for the native backend.
var (
	// ErrNoAdapter is returned when no HAL backend exposes an adapter.
	ErrNoAdapter = errors.New("native: no GPU adapter available")

	// ErrNilDevice is returned by OpenDevice without a device or queue.
	ErrNilDevice = errors.New("native: HAL device is nil")

	// ErrUnsupportedFormat is returned for vertex layouts WebGPU cannot express.
	ErrUnsupportedFormat = errors.New("native: unsupported vertex format")

	// ErrNoEntryPoint is returned when a shader lacks a vertex or fragment entry point.
	ErrNoEntryPoint = errors.New("native: missing shader entry point")

	// ErrForeignObject is returned when an object from another device is used.
	ErrForeignObject = errors.New("native: object does not belong to this device")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("native: device closed")
)

// CallError records the HAL call that failed and the driver error it returned.
type CallError struct {
	Call string
	Err  error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("native: %s: %v", e.Call, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

func callErr(call string, err error) error {
	if err == nil {
		return nil
	}
	return &CallError{Call: call, Err: err}
}
