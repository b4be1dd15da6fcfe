package main

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gfx"
	"github.com/gogpu/gpucontext"
)

// window adapts a GLFW window to gfx.Window, gfx.SwapWindow and the
// resize and key events of gpucontext.EventSource.
type window struct {
	gpucontext.NullEventSource

	win      *glfw.Window
	onResize []func(width, height int)
	onKey    []func(gpucontext.Key, gpucontext.Modifiers)
}

func openWindow(backend string, width, height int, title string) (*window, error) {
	glfw.DefaultWindowHints()
	if backend == gfx.BackendGL {
		glfw.WindowHint(glfw.ContextVersionMajor, 3)
		glfw.WindowHint(glfw.ContextVersionMinor, 3)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	} else {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	if backend == gfx.BackendGL {
		win.MakeContextCurrent()
	}

	w := &window{win: win}
	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		for _, fn := range w.onResize {
			fn(width, height)
		}
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		k := translateKey(key)
		m := translateMods(mods)
		for _, fn := range w.onKey {
			fn(k, m)
		}
	})
	return w, nil
}

func (w *window) Size() (int, int) { return w.win.GetSize() }

func (w *window) ScaleFactor() float64 {
	fw, _ := w.win.GetFramebufferSize()
	ww, _ := w.win.GetSize()
	if ww == 0 {
		return 1
	}
	return float64(fw) / float64(ww)
}

func (w *window) RequestRedraw() {
	glfw.PostEmptyEvent()
}

func (w *window) SwapBuffers() { w.win.SwapBuffers() }

func (w *window) SwapInterval(interval int) { glfw.SwapInterval(interval) }

func (w *window) OnResize(fn func(width, height int)) {
	w.onResize = append(w.onResize, fn)
}

func (w *window) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	w.onKey = append(w.onKey, fn)
}

func (w *window) ShouldClose() bool { return w.win.ShouldClose() }

func (w *window) Close() { w.win.Destroy() }

func translateKey(k glfw.Key) gpucontext.Key {
	switch {
	case k == glfw.KeyEscape:
		return gpucontext.KeyEscape
	case k == glfw.KeySpace:
		return gpucontext.KeySpace
	case k >= glfw.Key1 && k <= glfw.Key9:
		return gpucontext.Key1 + gpucontext.Key(k-glfw.Key1)
	default:
		return gpucontext.KeyUnknown
	}
}

func translateMods(m glfw.ModifierKey) gpucontext.Modifiers {
	var mods gpucontext.Modifiers
	if m&glfw.ModShift != 0 {
		mods |= gpucontext.ModShift
	}
	if m&glfw.ModControl != 0 {
		mods |= gpucontext.ModControl
	}
	if m&glfw.ModAlt != 0 {
		mods |= gpucontext.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		mods |= gpucontext.ModSuper
	}
	return mods
}
