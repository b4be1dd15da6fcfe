package gfx

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Errors returned by resource creation and backend selection.
var (
	// ErrBackendNotAvailable is returned when no registered backend matches.
	ErrBackendNotAvailable = errors.New("gfx: backend not available")

	// ErrBackendMismatch is returned when a second backend is selected in a
	// process that already runs a different one.
	ErrBackendMismatch = errors.New("gfx: a different backend is already active")

	// ErrInvalidDescriptor is returned for descriptors that cannot describe a resource.
	ErrInvalidDescriptor = errors.New("gfx: invalid descriptor")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("gfx: invalid dimensions")

	// ErrForeignObject is returned when a device object created by one
	// backend is handed to another.
	ErrForeignObject = errors.New("gfx: device object belongs to another backend")

	// ErrClosed is returned when using a context or device after Close.
	ErrClosed = errors.New("gfx: context closed")

	// ErrReleased is returned when using a handle whose last reference was released.
	ErrReleased = errors.New("gfx: resource released")

	// ErrFormatMismatch is returned when vertex data does not match the
	// format a buffer was created with.
	ErrFormatMismatch = errors.New("gfx: vertex format mismatch")

	// ErrOutOfRange is returned for offsets or regions outside a resource.
	ErrOutOfRange = errors.New("gfx: range out of bounds")

	// ErrInvalidAttribute is returned by VertexFormat.Set for bad slots,
	// element counts or datatypes.
	ErrInvalidAttribute = errors.New("gfx: invalid vertex attribute")

	// ErrStateStackUnderflow is the panic value cause when PopState is called
	// on the base state.
	ErrStateStackUnderflow = errors.New("gfx: state stack underflow")

	// ErrMatrixStackFloor is returned by PopMatrix when only the base matrix remains.
	ErrMatrixStackFloor = errors.New("gfx: matrix stack at its floor")
)

// DeviceError describes a fatal failure while submitting work to a device.
// Context operations panic with a *DeviceError because the device state is
// undefined afterwards. File and Line locate the client call that failed.
type DeviceError struct {
	Op   string
	File string
	Line int
	Err  error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("gfx: %s at %s:%d: %v", e.Op, e.File, e.Line, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// fatal logs err and panics with a *DeviceError located at the first
// caller outside this package.
func fatal(op string, err error) {
	file, line := callSite()
	derr := &DeviceError{Op: op, File: filepath.Base(file), Line: line, Err: err}
	Logger().Error("gfx: fatal device error", "op", op, "file", derr.File, "line", line, "err", err)
	panic(derr)
}

func callSite() (string, int) {
	_, self, _, _ := runtime.Caller(0)
	pkgDir := filepath.Dir(self)

	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if filepath.Dir(f.File) != pkgDir || strings.HasSuffix(f.File, "_test.go") {
			return f.File, f.Line
		}
		if !more {
			return "unknown", 0
		}
	}
}
