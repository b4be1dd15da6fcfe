//go:build !windows && !((linux || freebsd) && !wayland)

package main

import "github.com/gogpu/gfx"

// gfxWindow returns the window without native handles; the native backend
// renders offscreen on these platforms.
func gfxWindow(w *window) gfx.Window { return w }
