package main

import (
	"unsafe"

	"github.com/gogpu/gfx"
)

// nativeWindow exposes the Win32 window handle to surface creation.
type nativeWindow struct{ *window }

func (w nativeWindow) NativeHandles() (uintptr, uintptr) {
	return 0, uintptr(unsafe.Pointer(w.win.GetWin32Window()))
}

func gfxWindow(w *window) gfx.Window { return nativeWindow{w} }
