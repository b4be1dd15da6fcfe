package gfx

import (
	"math"

	"github.com/gogpu/gpucontext"
)

// Window is the host window a context renders into. Size is in logical
// points; the back buffer is Size scaled by ScaleFactor.
// gpucontext.NullWindowProvider is a valid headless window.
type Window interface {
	gpucontext.WindowProvider
}

// NativeWindow is implemented by windows that expose OS handles for
// surface creation. Backends run offscreen for windows that do not.
type NativeWindow interface {
	Window
	NativeHandles() (display, window uintptr)
}

// SwapWindow is implemented by windows that own a GL-style swap chain.
type SwapWindow interface {
	Window
	SwapBuffers()
	SwapInterval(interval int)
}

// FramebufferSize returns the back buffer size of win in pixels.
func FramebufferSize(win Window) (int, int) {
	w, h := win.Size()
	sf := win.ScaleFactor()
	if sf <= 0 {
		sf = 1
	}
	return int(math.Round(float64(w) * sf)), int(math.Round(float64(h) * sf))
}
