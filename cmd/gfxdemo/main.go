// Command gfxdemo opens a window and renders a few scenes through the gfx
// context on the native or GL backend.
//
// Keys 1 to 3 switch scenes; Escape quits.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gogpu/gfx"
	_ "github.com/gogpu/gfx/backend/gl/gogl"
	_ "github.com/gogpu/gfx/backend/native"
	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		backend    = flag.String("backend", gfx.BackendNative, "rendering backend (native or gl)")
		width      = flag.Int("width", 800, "window width")
		height     = flag.Int("height", 600, "window height")
		sceneName  = flag.String("scene", "triangle", "initial scene (triangle, target or shader)")
		vsync      = flag.Bool("vsync", true, "synchronize presentation to the display")
		debug      = flag.Bool("debug", false, "enable backend validation and debug logging")
		logFile    = flag.String("log-file", "", "write logs to this file instead of stderr")
		screenshot = flag.String("screenshot", "", "save the first frame as PNG and exit")
	)
	flag.Parse()

	setupLogging(*logFile, *debug)

	if err := run(*backend, *width, *height, *sceneName, *vsync, *debug, *screenshot); err != nil {
		log.Fatalf("gfxdemo: %v", err)
	}
}

func setupLogging(path string, debug bool) {
	var w io.Writer = os.Stderr
	if path != "" {
		w = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    16, // MB
			MaxBackups: 2,
		}
	}
	lvl := slog.LevelInfo
	if debug {
		lvl = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	gfx.SetLogger(l)
	hal.SetLogger(l)
}

func run(backend string, width, height int, sceneName string, vsync, debug bool, screenshot string) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	win, err := openWindow(backend, width, height, "gfxdemo ("+backend+")")
	if err != nil {
		return err
	}
	defer win.Close()

	ctx, err := gfx.New(gfxWindow(win),
		gfx.WithBackend(backend),
		gfx.WithVSync(vsync),
		gfx.WithDebug(debug),
		gfx.WithClearColor(gfx.RGB(0.1, 0.1, 0.15)))
	if err != nil {
		return err
	}
	defer ctx.Close()
	ctx.Attach(win)

	scenes := []scene{&triangleScene{}, &targetScene{}, &shaderScene{}}
	current := 0
	for i, s := range scenes {
		if err := s.init(ctx); err != nil {
			return fmt.Errorf("scene %s: %w", s.name(), err)
		}
		defer s.release()
		if s.name() == sceneName {
			current = i
		}
	}

	win.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) {
		switch {
		case k == gpucontext.KeyEscape:
			win.win.SetShouldClose(true)
		case k >= gpucontext.Key1 && int(k-gpucontext.Key1) < len(scenes):
			current = int(k - gpucontext.Key1)
			gfx.Logger().Info("gfxdemo: scene", "name", scenes[current].name())
		}
	})

	start := time.Now()
	for !win.ShouldClose() {
		glfw.PollEvents()
		elapsed := time.Since(start)
		if screenshot != "" {
			scenes[current].draw(ctx, 1, elapsed)
			pm, err := ctx.Screenshot()
			if err != nil {
				return err
			}
			ctx.Present()
			return pm.SavePNG(screenshot)
		}
		ctx.Frame(scenes[current].draw, 1, elapsed)
	}
	return nil
}
