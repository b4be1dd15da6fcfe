package gfx

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gpucontext"
)

// Context is the rendering context: a stack of rendering states and the
// drawing API, dispatching to one Device.
//
// The state stack always holds the base state created by New. Resource
// handles referenced by stack entries are shared references.
type Context struct {
	dev    Device
	win    Window
	cfg    Config
	states []State
	temp   *VertexArray
	closed bool
}

var (
	_ gpucontext.TextureCreator = (*Context)(nil)
	_ gpucontext.TextureDrawer  = (*Context)(nil)
)

// New creates a rendering context for win on the configured backend.
func New(win Window, opts ...Option) (*Context, error) {
	if win == nil {
		return nil, fmt.Errorf("gfx: nil window: %w", ErrInvalidDescriptor)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	dev, err := openDevice(win, cfg)
	if err != nil {
		return nil, err
	}

	w, h := FramebufferSize(win)
	c := &Context{
		dev:    dev,
		win:    win,
		cfg:    cfg,
		states: []State{newBaseState(w, h)},
	}
	dev.SetViewport(Rect{Width: w, Height: h})
	dev.Enable(CapBlend)
	if cfg.VSync {
		dev.Enable(CapVSync)
	} else {
		dev.Disable(CapVSync)
	}
	return c, nil
}

// Device returns the active backend device.
func (c *Context) Device() Device { return c.dev }

// Window returns the host window.
func (c *Context) Window() Window { return c.win }

// Config returns the creation settings.
func (c *Context) Config() Config { return c.cfg }

func (c *Context) top() *State { return &c.states[len(c.states)-1] }

// State returns a copy of the current state. The copy shares the
// transform slice and handles with the stack and must not be modified.
func (c *Context) State() State { return *c.top() }

// StateDepth returns the number of entries on the state stack.
func (c *Context) StateDepth() int { return len(c.states) }

// Width returns the width of the current target.
func (c *Context) Width() int { return c.top().Width }

// Height returns the height of the current target.
func (c *Context) Height() int { return c.top().Height }

// PushState saves a copy of the current state.
func (c *Context) PushState() {
	c.states = append(c.states, c.top().clone())
}

// PopState restores the state saved by the matching PushState. Popping the
// base state panics with ErrStateStackUnderflow.
func (c *Context) PopState() {
	if len(c.states) == 1 {
		fatal("PopState", ErrStateStackUnderflow)
	}
	c.popState()
}

func (c *Context) popState() {
	popped := c.top()
	rt := popped.RenderTarget
	c.states = c.states[:len(c.states)-1]
	s := c.top()
	if rt != s.RenderTarget {
		c.bind(s.RenderTarget)
	}
	popped.release()
	c.dev.SetViewport(Rect{Width: s.Width, Height: s.Height})
}

func (c *Context) bind(rt *RenderTarget2D) {
	if err := c.dev.BindRenderTarget(rt.Object()); err != nil {
		fatal("BindRenderTarget", err)
	}
}

// SetTexture sets the texture sampled by the default shader. nil selects
// the built-in white texture.
func (c *Context) SetTexture(t *Texture2D) {
	s := c.top()
	old := s.Texture
	s.Texture = t.Retain()
	old.Release()
}

// Texture returns the current texture.
func (c *Context) Texture() *Texture2D { return c.top().Texture }

// SetShader sets the shader used by subsequent draws. nil selects the
// backend's passthrough shader.
func (c *Context) SetShader(sh *Shader) {
	s := c.top()
	old := s.Shader
	s.Shader = sh.Retain()
	old.Release()
}

// Shader returns the current shader.
func (c *Context) Shader() *Shader { return c.top().Shader }

// SetBlendState sets the blend factors.
func (c *Context) SetBlendState(b BlendState) { c.top().Blend = b }

// BlendState returns the current blend factors.
func (c *Context) BlendState() BlendState { return c.top().Blend }

// SetProjectionMatrix replaces the projection matrix.
func (c *Context) SetProjectionMatrix(m mgl32.Mat4) { c.top().Projection = m }

// ProjectionMatrix returns the projection matrix.
func (c *Context) ProjectionMatrix() mgl32.Mat4 { return c.top().Projection }

// SetSize sets the size of the current state and the device viewport.
func (c *Context) SetSize(width, height int) {
	s := c.top()
	s.Width, s.Height = width, height
	c.dev.SetViewport(Rect{Width: width, Height: height})
}

// PushMatrix replaces the top transform with top × m, applying m in the
// current local frame.
func (c *Context) PushMatrix(m mgl32.Mat4) {
	s := c.top()
	s.Transforms = append(s.Transforms, s.Transform().Mul4(m))
}

// PopMatrix removes the top transform. It returns ErrMatrixStackFloor and
// leaves the stack unchanged when only the base transform remains.
func (c *Context) PopMatrix() error {
	s := c.top()
	if len(s.Transforms) == 1 {
		Logger().Warn("gfx: PopMatrix at stack floor")
		return ErrMatrixStackFloor
	}
	s.Transforms = s.Transforms[:len(s.Transforms)-1]
	return nil
}

// TopMatrix returns the current transform.
func (c *Context) TopMatrix() mgl32.Mat4 { return c.top().Transform() }

// ClearMatrixStack pops transforms until the base transform remains.
func (c *Context) ClearMatrixStack() {
	s := c.top()
	s.Transforms = s.Transforms[:1]
}

// PushRenderTarget pushes the state and redirects drawing into rt. The
// projection and viewport are derived from rt so that (0,0) is its
// top-left and (width,height) its bottom-right pixel corner.
func (c *Context) PushRenderTarget(rt *RenderTarget2D) {
	if rt.Object() == nil {
		Logger().Warn("gfx: PushRenderTarget with nil or released target")
		return
	}
	c.PushState()
	s := c.top()
	old := s.RenderTarget
	s.RenderTarget = rt.Retain()
	s.targetPushed = true
	old.Release()
	c.bind(rt)
	s.Projection = PixelProjection(rt.Width(), rt.Height())
	c.SetSize(rt.Width(), rt.Height())
}

// PopRenderTarget restores the state saved by the matching
// PushRenderTarget, rebinding the parent target or the back buffer. The top
// entry must come from PushRenderTarget; a PushState above it has to be
// popped first.
func (c *Context) PopRenderTarget() {
	if !c.top().targetPushed || len(c.states) == 1 {
		Logger().Warn("gfx: PopRenderTarget without a matching PushRenderTarget", "depth", len(c.states))
		return
	}
	c.popState()
}

// Resize updates the back buffer size in pixels after the window changed.
// States drawing to the back buffer follow the new size.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 || c.closed {
		return
	}
	for i := range c.states {
		s := &c.states[i]
		if s.RenderTarget != nil {
			continue
		}
		if s.Projection == PixelProjection(s.Width, s.Height) {
			s.Projection = PixelProjection(width, height)
		}
		s.Width, s.Height = width, height
	}
	if err := c.dev.Resize(width, height); err != nil {
		fatal("Resize", err)
	}
	s := c.top()
	c.dev.SetViewport(Rect{Width: s.Width, Height: s.Height})
}

// Attach subscribes the context to window resize events.
func (c *Context) Attach(events gpucontext.EventSource) {
	events.OnResize(func(w, h int) {
		sf := c.win.ScaleFactor()
		if sf <= 0 {
			sf = 1
		}
		c.Resize(int(float64(w)*sf+0.5), int(float64(h)*sf+0.5))
	})
}

// Enable turns a capability on.
func (c *Context) Enable(cp Capability) { c.dev.Enable(cp) }

// Disable turns a capability off.
func (c *Context) Disable(cp Capability) { c.dev.Disable(cp) }

// IsEnabled reports whether a capability is on.
func (c *Context) IsEnabled(cp Capability) bool { return c.dev.IsEnabled(cp) }

// EnableScissor restricts drawing to r in pixels of the current target.
func (c *Context) EnableScissor(r Rect) { c.dev.EnableScissor(r) }

// DisableScissor removes the scissor rectangle.
func (c *Context) DisableScissor() { c.dev.DisableScissor() }

// SetPointSize sets the rasterized size of points.
func (c *Context) SetPointSize(size float32) { c.dev.SetPointSize(size) }

// SetLineWidth sets the rasterized width of lines.
func (c *Context) SetLineWidth(width float32) { c.dev.SetLineWidth(width) }

// Clear fills the selected buffers with the configured clear color, depth
// 1 and stencil 0.
func (c *Context) Clear(mask BufferMask) {
	v := DefaultClearValues
	v.Color = c.cfg.ClearColor
	if err := c.dev.Clear(mask, v); err != nil {
		fatal("Clear", err)
	}
}

// ClearWith fills the selected buffers with explicit values.
func (c *Context) ClearWith(mask BufferMask, v ClearValues) {
	if err := c.dev.Clear(mask, v); err != nil {
		fatal("Clear", err)
	}
}

// Screenshot reads the back buffer.
func (c *Context) Screenshot() (*Pixmap, error) {
	if c.closed {
		return nil, ErrClosed
	}
	return c.dev.ReadBackBuffer()
}

// Present ends the frame and shows the back buffer.
func (c *Context) Present() {
	if c.closed {
		return
	}
	if err := c.dev.Present(); err != nil {
		fatal("Present", err)
	}
}

// DrawFunc draws one frame. alpha is the interpolation factor between
// fixed updates and elapsed the time since the previous frame.
type DrawFunc func(c *Context, alpha float64, elapsed time.Duration)

// Frame runs draw and presents the result.
func (c *Context) Frame(draw DrawFunc, alpha float64, elapsed time.Duration) {
	draw(c, alpha, elapsed)
	c.Present()
}

// Close releases every state reference and closes the device. Handles
// still held by the caller must be released before Close.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	for i := len(c.states) - 1; i >= 0; i-- {
		c.states[i].release()
	}
	c.states = c.states[:1]
	c.temp = nil
	return c.dev.Close()
}

// TextureCreator implements gpucontext.TextureDrawer.
func (c *Context) TextureCreator() gpucontext.TextureCreator { return c }

// NewTextureFromRGBA implements gpucontext.TextureCreator.
func (c *Context) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	pm, err := NewPixmapFromData(width, height, RGBA8, data)
	if err != nil {
		return nil, err
	}
	t, err := c.NewTexture2D(TextureDesc{Pixmap: pm, Filtering: FilterLinear})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DrawTexture implements gpucontext.TextureDrawer. tex must be a
// *Texture2D created by this package.
func (c *Context) DrawTexture(tex gpucontext.Texture, x, y float32) error {
	t, ok := tex.(*Texture2D)
	if !ok || t.Object() == nil {
		return fmt.Errorf("gfx: DrawTexture with %T: %w", tex, ErrForeignObject)
	}
	c.PushState()
	c.SetTexture(t)
	c.drawRectangle("DrawTexture", x, y, float32(t.Width()), float32(t.Height()), White, FullRegion)
	c.popState()
	return nil
}
