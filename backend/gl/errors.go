package gl

import (
	"errors"
	"fmt"
)

// Errors returned by the GL backend.
var (
	// ErrNoDriver is returned when a device is opened without a driver.
	ErrNoDriver = errors.New("gl: no driver")

	// ErrCompile is returned when a shader stage fails to compile.
	ErrCompile = errors.New("gl: shader compilation failed")

	// ErrLink is returned when a program fails to link.
	ErrLink = errors.New("gl: program link failed")

	// ErrIncompleteFramebuffer is returned when a render target's
	// framebuffer is not complete.
	ErrIncompleteFramebuffer = errors.New("gl: framebuffer incomplete")
)

// CallError reports a GL error flag raised by a call. It is only produced
// when the device was opened with debug checks.
type CallError struct {
	Call string
	Code uint32
}

func (e *CallError) Error() string {
	return fmt.Sprintf("gl: %s: %s", e.Call, errorName(e.Code))
}

func errorName(code uint32) string {
	switch code {
	case INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("GL error 0x%04X", code)
	}
}
