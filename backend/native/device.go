package native

import (
	"fmt"
	"strings"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

func init() {
	gfx.Register(gfx.BackendNative, func(win gfx.Window, cfg gfx.Config) (gfx.Device, error) {
		d, err := Open(win, cfg, Options{})
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}

const depthFormat = gputypes.TextureFormatDepth24Plus

// Device implements gfx.Device on a WebGPU HAL device.
//
// Commands are recorded into one encoder per frame. Each draw gets its own
// bind group and upload buffers, which stay alive until the GPU finishes
// the frame. Device is not safe for concurrent use.
type Device struct {
	dev   hal.Device
	queue hal.Queue
	opts  Options

	instance hal.Instance
	surface  hal.Surface
	owned    bool
	vsync    bool

	width, height int
	back          *gpuTexture
	frame         *gpuTexture
	acquired      hal.SurfaceTexture
	depth         *gpuTexture

	caps      [gfx.CapWireframe + 1]bool
	scissor   gfx.Rect
	scissorOn bool
	viewport  gfx.Rect
	target    *renderTargetObject

	pipelines    *PipelineCache
	samplers     map[samplerKey]hal.Sampler
	defaults     map[defaultVariant]*shaderObject
	white        *textureObject
	nextShaderID uint64

	enc         hal.CommandEncoder
	pass        hal.RenderPassEncoder
	passFormat  gputypes.TextureFormat
	passTargets int
	cur         *transient
	inflight    []*transient
	lastSubmit  uint64
	pool        *bufferPool
	draws       int

	closed bool
}

var _ gfx.Device = (*Device)(nil)

// Open creates a device for win. A window implementing gfx.NativeWindow
// gets a presentable surface; any other window, or nil, renders into an
// offscreen back buffer.
func Open(win gfx.Window, cfg gfx.Config, opts Options) (*Device, error) {
	backend, err := selectBackend(opts.Adapter)
	if err != nil {
		return nil, err
	}
	inst, err := backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return nil, callErr("CreateInstance", err)
	}

	var surface hal.Surface
	if nw, ok := win.(gfx.NativeWindow); ok {
		display, handle := nw.NativeHandles()
		surface, err = inst.CreateSurface(display, handle)
		if err != nil {
			inst.Destroy()
			return nil, callErr("CreateSurface", err)
		}
	}

	adapter, info, err := pickAdapter(inst, surface)
	if err != nil {
		if surface != nil {
			surface.Destroy()
		}
		inst.Destroy()
		return nil, err
	}
	od, err := adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		if surface != nil {
			surface.Destroy()
		}
		inst.Destroy()
		return nil, callErr("Open", err)
	}
	gfx.Logger().Info("native: device opened",
		"backend", backend.Variant().String(),
		"adapter", info.Name,
		"type", info.DeviceType,
		"surface", surface != nil)

	w, h := 1, 1
	if win != nil {
		w, h = gfx.FramebufferSize(win)
	}
	d, err := newDevice(od.Device, od.Queue, max(w, 1), max(h, 1), opts, surface, cfg.VSync)
	if err != nil {
		od.Device.Destroy()
		if surface != nil {
			surface.Destroy()
		}
		inst.Destroy()
		return nil, err
	}
	d.instance = inst
	d.owned = true
	return d, nil
}

// OpenDevice wraps an existing HAL device and queue with an offscreen back
// buffer of the given size. The caller keeps ownership of dev.
func OpenDevice(dev hal.Device, queue hal.Queue, width, height int, opts Options) (*Device, error) {
	if dev == nil || queue == nil {
		return nil, ErrNilDevice
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("native: back buffer %dx%d: %w", width, height, gfx.ErrInvalidDimensions)
	}
	return newDevice(dev, queue, width, height, opts, nil, false)
}

func selectBackend(name string) (hal.Backend, error) {
	if name == "" {
		b, err := hal.SelectBestBackend()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoAdapter, err)
		}
		return b, nil
	}
	for _, v := range []gputypes.Backend{
		gputypes.BackendVulkan,
		gputypes.BackendMetal,
		gputypes.BackendDX12,
		gputypes.BackendGL,
		gputypes.BackendEmpty,
	} {
		if !strings.EqualFold(v.String(), name) {
			continue
		}
		if b, ok := hal.GetBackend(v); ok {
			return b, nil
		}
		break
	}
	return nil, fmt.Errorf("%w: backend %q not registered", ErrNoAdapter, name)
}

// pickAdapter prefers a discrete GPU, then an integrated one, then
// whatever the instance exposes first.
func pickAdapter(inst hal.Instance, surface hal.Surface) (hal.Adapter, gputypes.AdapterInfo, error) {
	adapters := inst.EnumerateAdapters(surface)
	if len(adapters) == 0 {
		return nil, gputypes.AdapterInfo{}, ErrNoAdapter
	}
	best := adapters[0]
	for _, a := range adapters {
		if a.Info.DeviceType == gputypes.DeviceTypeDiscreteGPU {
			best = a
			break
		}
		if a.Info.DeviceType == gputypes.DeviceTypeIntegratedGPU && best.Info.DeviceType != gputypes.DeviceTypeIntegratedGPU {
			best = a
		}
	}
	return best.Adapter, best.Info, nil
}

func newDevice(dev hal.Device, queue hal.Queue, w, h int, opts Options, surface hal.Surface, vsync bool) (*Device, error) {
	d := &Device{
		dev:       dev,
		queue:     queue,
		opts:      opts.withDefaults(surface == nil),
		surface:   surface,
		vsync:     vsync,
		width:     w,
		height:    h,
		pipelines: newPipelineCache(),
		samplers:  make(map[samplerKey]hal.Sampler),
		defaults:  make(map[defaultVariant]*shaderObject),
		cur:       &transient{},
		pool:      newBufferPool(dev),
	}
	d.caps[gfx.CapVSync] = vsync
	if err := d.createBackBuffer(); err != nil {
		d.release()
		return nil, err
	}
	white := gfx.NewPixmap(1, 1)
	white.Clear(gfx.White)
	t, err := d.NewTexture(gfx.TextureDesc{Label: "gfx_white", Pixmap: white})
	if err != nil {
		d.release()
		return nil, err
	}
	d.white = t.(*textureObject)
	if _, err := d.defaultShader(gfx.DefaultVertexFormat()); err != nil {
		d.release()
		return nil, err
	}
	return d, nil
}

// createBackBuffer configures the surface, or allocates the offscreen back
// buffer, and the matching depth buffer.
func (d *Device) createBackBuffer() error {
	if d.surface != nil {
		if err := d.configure(); err != nil {
			return err
		}
	} else {
		bb, err := d.createTexture("gfx_backbuffer", d.width, d.height, d.opts.Format, textureUsage)
		if err != nil {
			return err
		}
		d.back = bb
	}
	depth, err := d.createTexture("gfx_depth", d.width, d.height, depthFormat, gputypes.TextureUsageRenderAttachment)
	if err != nil {
		return err
	}
	d.depth = depth
	return nil
}

func (d *Device) configure() error {
	mode := gputypes.PresentModeImmediate
	if d.vsync {
		mode = gputypes.PresentModeFifo
	}
	err := d.surface.Configure(d.dev, &hal.SurfaceConfiguration{
		Width:       uint32(d.width),
		Height:      uint32(d.height),
		Format:      d.opts.Format,
		Usage:       gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
		PresentMode: mode,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	})
	return callErr("Configure", err)
}

// backBuffer returns the texture the back buffer is drawn into, acquiring
// the next surface texture when needed.
func (d *Device) backBuffer() (*gpuTexture, error) {
	if d.surface == nil {
		return d.back, nil
	}
	if d.frame != nil {
		return d.frame, nil
	}
	at, err := d.surface.AcquireTexture(nil)
	if err != nil {
		return nil, callErr("AcquireTexture", err)
	}
	if at.Suboptimal {
		gfx.Logger().Debug("native: surface suboptimal")
	}
	view, err := d.dev.CreateTextureView(at.Texture, &hal.TextureViewDescriptor{
		Label:           "gfx_surface_view",
		Format:          d.opts.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		d.surface.DiscardTexture(at.Texture)
		return nil, callErr("CreateTextureView", err)
	}
	d.acquired = at.Texture
	d.frame = &gpuTexture{
		tex:    at.Texture,
		view:   view,
		width:  d.width,
		height: d.height,
		format: d.opts.Format,
		state:  gputypes.TextureUsageRenderAttachment,
	}
	return d.frame, nil
}

// attachments returns the color and depth attachments of the bound target.
func (d *Device) attachments() ([]*gpuTexture, *gpuTexture, error) {
	if d.target != nil {
		colors := make([]*gpuTexture, len(d.target.colors))
		for i, c := range d.target.colors {
			colors[i] = &c.gpuTexture
		}
		return colors, d.target.depth, nil
	}
	bb, err := d.backBuffer()
	if err != nil {
		return nil, nil, err
	}
	return []*gpuTexture{bb}, d.depth, nil
}

func (d *Device) targetSize() (int, int) {
	if d.target != nil {
		return d.target.width, d.target.height
	}
	return d.width, d.height
}

func (d *Device) Name() string { return gfx.BackendNative }

// PipelineCache returns the device's render pipeline cache.
func (d *Device) PipelineCache() *PipelineCache { return d.pipelines }

// DrawCount returns the number of draws recorded since the device opened.
func (d *Device) DrawCount() int { return d.draws }

func (d *Device) Enable(c gfx.Capability) { d.setCap(c, true) }

func (d *Device) Disable(c gfx.Capability) { d.setCap(c, false) }

func (d *Device) setCap(c gfx.Capability, on bool) {
	if int(c) >= len(d.caps) || d.caps[c] == on {
		return
	}
	d.caps[c] = on
	switch c {
	case gfx.CapVSync:
		d.vsync = on
		if d.surface != nil {
			if err := d.flush(); err != nil {
				gfx.Logger().Warn("native: flush before reconfigure failed", "err", err)
			}
			d.discardFrame()
			if err := d.configure(); err != nil {
				gfx.Logger().Warn("native: vsync change failed", "err", err)
			}
		}
	case gfx.CapWireframe, gfx.CapLineSmooth, gfx.CapPolygonSmooth, gfx.CapMultisample:
		if on {
			gfx.Logger().Debug("native: capability not supported", "cap", c)
		}
	}
}

func (d *Device) IsEnabled(c gfx.Capability) bool {
	return int(c) < len(d.caps) && d.caps[c]
}

// EnableScissor takes effect on the next pass or draw.
func (d *Device) EnableScissor(r gfx.Rect) {
	d.scissor, d.scissorOn = r, true
	d.applyScissor()
}

func (d *Device) DisableScissor() {
	d.scissorOn = false
	d.applyScissor()
}

func (d *Device) applyScissor() {
	if d.pass == nil {
		return
	}
	w, h := d.targetSize()
	sc := gfx.Rect{Width: w, Height: h}
	if d.scissorOn {
		sc = clampRect(d.scissor, w, h)
	}
	d.pass.SetScissorRect(uint32(sc.X), uint32(sc.Y), uint32(sc.Width), uint32(sc.Height))
}

func (d *Device) SetPointSize(size float32) {
	if size != 1 {
		gfx.Logger().Debug("native: point size not supported", "size", size)
	}
}

func (d *Device) SetLineWidth(width float32) {
	if width != 1 {
		gfx.Logger().Debug("native: line width not supported", "width", width)
	}
}

func (d *Device) SetViewport(r gfx.Rect) {
	d.viewport = r
	if d.pass != nil && r.Width > 0 && r.Height > 0 {
		d.pass.SetViewport(float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), 0, 1)
	}
}

// Clear starts a new render pass that clears the selected buffers of the
// bound target. The whole target is cleared regardless of the scissor.
func (d *Device) Clear(mask gfx.BufferMask, v gfx.ClearValues) error {
	if d.closed {
		return ErrClosed
	}
	if mask&(gfx.ColorBuffer|gfx.DepthBuffer) == 0 {
		return nil
	}
	return d.beginPass(&passClear{mask: mask, values: v})
}

func (d *Device) BindRenderTarget(rt gfx.RenderTargetObject) error {
	if d.closed {
		return ErrClosed
	}
	var next *renderTargetObject
	if rt != nil {
		t, ok := rt.(*renderTargetObject)
		if !ok || t.d != d {
			return fmt.Errorf("render target: %w", ErrForeignObject)
		}
		next = t
	}
	if next == d.target {
		return nil
	}
	d.endPass()
	d.target = next
	return nil
}

func (d *Device) NewTexture(desc gfx.TextureDesc) (gfx.TextureObject, error) {
	w, h := desc.Width, desc.Height
	if desc.Pixmap != nil {
		w, h = desc.Pixmap.Width(), desc.Pixmap.Height()
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("texture %q %dx%d: %w", desc.Label, w, h, gfx.ErrInvalidDimensions)
	}
	g, err := d.createTexture(desc.Label, w, h, gputypes.TextureFormatRGBA8Unorm, textureUsage)
	if err != nil {
		return nil, err
	}
	t := &textureObject{d: d, gpuTexture: *g, label: desc.Label, filter: desc.Filtering, wrap: desc.Wrapping}
	p := desc.Pixmap
	if p == nil {
		p = gfx.NewPixmap(w, h)
	}
	if err := t.Upload(p); err != nil {
		d.destroyTexture(&t.gpuTexture)
		return nil, err
	}
	return t, nil
}

// ReadBackBuffer copies the current back buffer. Pending draws are
// submitted and waited for first.
func (d *Device) ReadBackBuffer() (*gfx.Pixmap, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if err := d.flush(); err != nil {
		return nil, err
	}
	bb, err := d.backBuffer()
	if err != nil {
		return nil, err
	}
	return d.readTexture(bb, gputypes.TextureUsageRenderAttachment)
}

func (d *Device) Resize(width, height int) error {
	if d.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("native: resize %dx%d: %w", width, height, gfx.ErrInvalidDimensions)
	}
	if width == d.width && height == d.height {
		return nil
	}
	if err := d.flush(); err != nil {
		return err
	}
	d.discardFrame()
	if d.back != nil {
		d.destroyTexture(d.back)
		d.back = nil
	}
	if d.depth != nil {
		d.destroyTexture(d.depth)
		d.depth = nil
	}
	d.width, d.height = width, height
	gfx.Logger().Debug("native: resize", "width", width, "height", height)
	return d.createBackBuffer()
}

// discardFrame drops an acquired but unpresented surface texture.
func (d *Device) discardFrame() {
	if d.frame == nil {
		return
	}
	d.dev.DestroyTextureView(d.frame.view)
	d.surface.DiscardTexture(d.acquired)
	d.frame, d.acquired = nil, nil
}

// Present submits the frame, presents the surface texture, if any, and then
// retires finished frames. With HeapRetention zero it waits for the queue,
// so nothing is in flight once Present returns.
func (d *Device) Present() error {
	if d.closed {
		return ErrClosed
	}
	if d.surface != nil {
		if _, err := d.backBuffer(); err != nil {
			return err
		}
	}
	if err := d.endFrame(); err != nil {
		return err
	}
	if d.surface != nil {
		err := d.queue.Present(d.surface, d.acquired, nil)
		d.dev.DestroyTextureView(d.frame.view)
		d.frame, d.acquired = nil, nil
		if err != nil {
			return callErr("Present", err)
		}
	}
	return d.retireFrames(d.opts.HeapRetention)
}

// Pending returns the number of presented frames whose transient resources
// have not been recycled yet.
func (d *Device) Pending() int { return len(d.inflight) }

// Close waits for the GPU and releases every object the device owns.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	err := d.flush()
	if werr := d.dev.WaitIdle(); err == nil {
		err = callErr("WaitIdle", werr)
	}
	d.release()
	return err
}

func (d *Device) release() {
	for _, f := range d.inflight {
		d.recycle(f)
	}
	d.inflight = nil
	if d.cur != nil {
		d.recycle(d.cur)
		d.cur = &transient{}
	}
	d.closed = true
	if d.surface != nil {
		d.discardFrame()
	}
	for _, s := range d.defaults {
		s.Destroy()
	}
	if d.white != nil {
		d.white.Destroy()
	}
	d.pipelines.destroyAll(d.dev)
	for _, s := range d.samplers {
		d.dev.DestroySampler(s)
	}
	d.pool.destroy()
	if d.depth != nil {
		d.destroyTexture(d.depth)
	}
	if d.back != nil {
		d.destroyTexture(d.back)
	}
	if !d.owned {
		return
	}
	if d.surface != nil {
		d.surface.Unconfigure(d.dev)
	}
	d.dev.Destroy()
	if d.surface != nil {
		d.surface.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
}
