//go:build (linux || freebsd) && !wayland

package main

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gfx"
)

// nativeWindow exposes the X11 display and window to surface creation.
type nativeWindow struct{ *window }

func (w nativeWindow) NativeHandles() (uintptr, uintptr) {
	return uintptr(unsafe.Pointer(glfw.GetX11Display())), uintptr(w.win.GetX11Window())
}

func gfxWindow(w *window) gfx.Window { return nativeWindow{w} }
