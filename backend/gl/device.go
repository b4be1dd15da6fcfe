package gl

import (
	"fmt"

	"github.com/gogpu/gfx"
)

const defaultGLSLVersion = "330 core"

// Options configures the GL backend.
type Options struct {
	// GLSLVersion is written after #version in the built-in shader.
	// Default: "330 core".
	GLSLVersion string

	// Debug checks the GL error flag after every call sequence and turns a
	// raised flag into a *CallError.
	Debug bool
}

func (o Options) withDefaults() Options {
	if o.GLSLVersion == "" {
		o.GLSLVersion = defaultGLSLVersion
	}
	return o
}

// Device implements gfx.Device on a Driver. GL state is global: the device
// sets what a draw needs immediately before issuing it and keeps no
// per-object state beyond GL names and validation metadata.
type Device struct {
	drv  Driver
	opts Options
	win  gfx.SwapWindow

	width, height int

	caps      [gfx.CapWireframe + 1]bool
	scissor   gfx.Rect
	scissorOn bool
	viewport  gfx.Rect
	target    *renderTargetObject

	vao, vbo, ibo uint32
	program       uint32
	passthrough   *shaderObject
	white         *textureObject

	draws  int
	closed bool
}

var _ gfx.Device = (*Device)(nil)

// Open creates a device for win on drv. The GL context must be current on
// the calling thread. Windows implementing gfx.SwapWindow are presented with
// SwapBuffers and honor CapVSync.
func Open(drv Driver, win gfx.Window, cfg gfx.Config, opts Options) (*Device, error) {
	if drv == nil {
		return nil, ErrNoDriver
	}
	if err := drv.Init(); err != nil {
		return nil, fmt.Errorf("gl: init: %w", err)
	}
	opts.Debug = opts.Debug || cfg.Debug
	w, h := gfx.FramebufferSize(win)
	d, err := NewDevice(drv, w, h, opts)
	if err != nil {
		return nil, err
	}
	if sw, ok := win.(gfx.SwapWindow); ok {
		d.win = sw
	}
	if cfg.VSync {
		d.Enable(gfx.CapVSync)
	} else {
		d.Disable(gfx.CapVSync)
	}
	gfx.Logger().Info("gl: device opened", "version", drv.Version(), "width", w, "height", h)
	return d, nil
}

// NewDevice creates a device on an initialized driver with a default
// framebuffer of width×height pixels. Tests pass a FakeDriver.
func NewDevice(drv Driver, width, height int, opts Options) (*Device, error) {
	if drv == nil {
		return nil, ErrNoDriver
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gl: back buffer %dx%d: %w", width, height, gfx.ErrInvalidDimensions)
	}
	d := &Device{
		drv:      drv,
		opts:     opts.withDefaults(),
		width:    width,
		height:   height,
		viewport: gfx.Rect{Width: width, Height: height},
	}

	d.vao = drv.GenVertexArray()
	drv.BindVertexArray(d.vao)
	d.vbo = drv.GenBuffer()
	d.ibo = drv.GenBuffer()
	drv.DepthFunc(LESS)
	drv.CullFace(BACK)
	drv.FrontFace(CCW)
	d.applyViewport()
	if err := d.check("init"); err != nil {
		d.release()
		return nil, err
	}

	white := gfx.NewPixmap(1, 1)
	white.Clear(gfx.White)
	tex, err := d.newTexture(gfx.TextureDesc{Label: "gfx_white", Pixmap: white})
	if err != nil {
		d.release()
		return nil, fmt.Errorf("gl: white texture: %w", err)
	}
	d.white = tex

	s, err := d.newPassthrough()
	if err != nil {
		d.release()
		return nil, err
	}
	d.passthrough = s
	return d, nil
}

// Name returns gfx.BackendGL.
func (d *Device) Name() string { return gfx.BackendGL }

// Driver returns the driver the device renders through.
func (d *Device) Driver() Driver { return d.drv }

// DrawCount returns the number of draws issued since the device was opened.
func (d *Device) DrawCount() int { return d.draws }

// check turns a raised GL error flag into a *CallError in debug mode.
func (d *Device) check(call string) error {
	if !d.opts.Debug {
		return nil
	}
	if code := d.drv.GetError(); code != NO_ERROR {
		return &CallError{Call: call, Code: code}
	}
	return nil
}

func (d *Device) Enable(c gfx.Capability)  { d.setCap(c, true) }
func (d *Device) Disable(c gfx.Capability) { d.setCap(c, false) }

func (d *Device) IsEnabled(c gfx.Capability) bool {
	if int(c) >= len(d.caps) {
		return false
	}
	return d.caps[c]
}

func (d *Device) setCap(c gfx.Capability, on bool) {
	if int(c) >= len(d.caps) {
		gfx.Logger().Warn("gl: unknown capability", "cap", c)
		return
	}
	d.caps[c] = on
	switch c {
	case gfx.CapVSync:
		if d.win != nil {
			interval := 0
			if on {
				interval = 1
			}
			d.win.SwapInterval(interval)
		}
		return
	case gfx.CapWireframe:
		mode := uint32(FILL)
		if on {
			mode = LINE
		}
		d.drv.PolygonMode(FRONT_AND_BACK, mode)
		return
	}
	var glcap uint32
	switch c {
	case gfx.CapBlend:
		glcap = BLEND
	case gfx.CapDepthTest:
		glcap = DEPTH_TEST
	case gfx.CapFaceCulling:
		glcap = CULL_FACE
	case gfx.CapLineSmooth:
		glcap = LINE_SMOOTH
	case gfx.CapPolygonSmooth:
		glcap = POLYGON_SMOOTH
	case gfx.CapMultisample:
		glcap = MULTISAMPLE
	}
	if on {
		d.drv.Enable(glcap)
	} else {
		d.drv.Disable(glcap)
	}
}

// targetSize returns the size of the bound framebuffer.
func (d *Device) targetSize() (int, int) {
	if d.target != nil {
		return d.target.width, d.target.height
	}
	return d.width, d.height
}

// glRect converts a top-left origin rectangle to window coordinates. Render
// targets are drawn Y-flipped, so their rows already run top to bottom.
func (d *Device) glRect(r gfx.Rect) (x, y, w, h int32) {
	if d.target != nil {
		return int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height)
	}
	return int32(r.X), int32(d.height - r.Y - r.Height), int32(r.Width), int32(r.Height)
}

func (d *Device) EnableScissor(r gfx.Rect) {
	d.scissor = r
	d.scissorOn = true
	d.drv.Enable(SCISSOR_TEST)
	d.drv.Scissor(d.glRect(r))
}

func (d *Device) DisableScissor() {
	d.scissorOn = false
	d.drv.Disable(SCISSOR_TEST)
}

func (d *Device) SetPointSize(size float32) { d.drv.PointSize(size) }

func (d *Device) SetLineWidth(width float32) { d.drv.LineWidth(width) }

func (d *Device) SetViewport(r gfx.Rect) {
	d.viewport = r
	d.applyViewport()
}

func (d *Device) applyViewport() {
	d.drv.Viewport(d.glRect(d.viewport))
}

func (d *Device) Clear(mask gfx.BufferMask, v gfx.ClearValues) error {
	if d.closed {
		return gfx.ErrClosed
	}
	bits := clearMask(mask)
	if bits == 0 {
		return nil
	}
	if bits&COLOR_BUFFER_BIT != 0 {
		c := v.Color.Floats()
		d.drv.ClearColor(c[0], c[1], c[2], c[3])
	}
	if bits&DEPTH_BUFFER_BIT != 0 {
		d.drv.ClearDepth(float64(v.Depth))
	}
	if bits&STENCIL_BUFFER_BIT != 0 {
		d.drv.ClearStencil(int32(v.Stencil))
	}
	d.drv.Clear(bits)
	return d.check("Clear")
}

func (d *Device) BindRenderTarget(obj gfx.RenderTargetObject) error {
	if d.closed {
		return gfx.ErrClosed
	}
	var rt *renderTargetObject
	if obj != nil {
		var ok bool
		rt, ok = obj.(*renderTargetObject)
		if !ok || rt.d != d {
			return fmt.Errorf("gl: render target: %w", gfx.ErrForeignObject)
		}
	}
	d.bindFramebuffer(rt)
	return d.check("BindRenderTarget")
}

// bindFramebuffer makes rt current. Y-flipped drawing into a render target
// reverses the winding, so the front face follows the target.
func (d *Device) bindFramebuffer(rt *renderTargetObject) {
	d.target = rt
	if rt == nil {
		d.drv.BindFramebuffer(FRAMEBUFFER, 0)
		d.drv.FrontFace(CCW)
	} else {
		d.drv.BindFramebuffer(FRAMEBUFFER, rt.fbo)
		d.drv.FrontFace(CW)
	}
	d.applyViewport()
	if d.scissorOn {
		d.drv.Scissor(d.glRect(d.scissor))
	}
}

func (d *Device) NewTexture(desc gfx.TextureDesc) (gfx.TextureObject, error) {
	if d.closed {
		return nil, gfx.ErrClosed
	}
	return d.newTexture(desc)
}

// ReadBackBuffer reads the default framebuffer. GL rows run bottom to top,
// so the result is flipped.
func (d *Device) ReadBackBuffer() (*gfx.Pixmap, error) {
	if d.closed {
		return nil, gfx.ErrClosed
	}
	bound := d.target
	if bound != nil {
		d.drv.BindFramebuffer(FRAMEBUFFER, 0)
	}
	p := gfx.NewPixmap(d.width, d.height)
	d.drv.ReadPixels(0, 0, int32(d.width), int32(d.height), RGBA, UNSIGNED_BYTE, p.Data())
	if bound != nil {
		d.drv.BindFramebuffer(FRAMEBUFFER, bound.fbo)
	}
	if err := d.check("ReadPixels"); err != nil {
		return nil, err
	}
	p.FlipVertical()
	return p, nil
}

// Resize records the new default framebuffer size. The window system owns
// the framebuffer itself.
func (d *Device) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("gl: resize %dx%d: %w", width, height, gfx.ErrInvalidDimensions)
	}
	d.width, d.height = width, height
	if d.target == nil {
		d.applyViewport()
		if d.scissorOn {
			d.drv.Scissor(d.glRect(d.scissor))
		}
	}
	return nil
}

// Present swaps the window's buffers. Headless devices have nothing to show.
func (d *Device) Present() error {
	if d.closed {
		return gfx.ErrClosed
	}
	if d.win != nil {
		d.win.SwapBuffers()
	}
	return d.check("Present")
}

// Close deletes the device's GL objects. Objects handed out earlier must be
// destroyed before; the GL context itself belongs to the window.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.release()
	return nil
}

func (d *Device) release() {
	if d.passthrough != nil {
		d.passthrough.Destroy()
		d.passthrough = nil
	}
	if d.white != nil {
		d.white.Destroy()
		d.white = nil
	}
	if d.target != nil {
		d.bindFramebuffer(nil)
	}
	d.drv.BindVertexArray(0)
	d.drv.DeleteBuffer(d.vbo)
	d.drv.DeleteBuffer(d.ibo)
	d.drv.DeleteVertexArray(d.vao)
	d.closed = true
}
