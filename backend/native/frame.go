package native

import (
	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// transient collects what one frame's commands reference. It is recycled
// once the GPU has finished the frame's last submission.
type transient struct {
	index      uint64
	bindGroups []hal.BindGroup
	buffers    []*pooledBuffer
	cmdBuffers []hal.CommandBuffer
	release    []func()
}

// retire runs fn once the current frame has completed on the GPU.
func (d *Device) retire(fn func()) {
	if d.closed {
		fn()
		return
	}
	d.cur.release = append(d.cur.release, fn)
}

// encoder returns the open command encoder, creating one on demand.
func (d *Device) encoder() (hal.CommandEncoder, error) {
	if d.enc != nil {
		return d.enc, nil
	}
	enc, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gfx_frame"})
	if err != nil {
		return nil, callErr("CreateCommandEncoder", err)
	}
	if err := enc.BeginEncoding("gfx_frame"); err != nil {
		return nil, callErr("BeginEncoding", err)
	}
	d.enc = enc
	return enc, nil
}

// endPass closes the open render pass, if any.
func (d *Device) endPass() {
	if d.pass != nil {
		d.pass.End()
		d.pass = nil
	}
}

// submit ends encoding and submits the recorded commands without waiting.
func (d *Device) submit() error {
	d.endPass()
	if d.enc == nil {
		return nil
	}
	enc := d.enc
	d.enc = nil
	cmd, err := enc.EndEncoding()
	if err != nil {
		return callErr("EndEncoding", err)
	}
	d.cur.cmdBuffers = append(d.cur.cmdBuffers, cmd)
	idx, err := d.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		return callErr("Submit", err)
	}
	d.lastSubmit = idx
	d.cur.index = idx
	return nil
}

// flush submits pending commands and waits for them, so queue writes that
// follow cannot overtake recorded draws.
func (d *Device) flush() error {
	if d.enc == nil {
		return nil
	}
	if err := d.submit(); err != nil {
		return err
	}
	return d.waitFor(d.lastSubmit)
}

// submitNow records fn into its own command buffer after flushing pending
// work, submits it and waits for completion.
func (d *Device) submitNow(label string, fn func(enc hal.CommandEncoder)) error {
	if err := d.flush(); err != nil {
		return err
	}
	enc, err := d.dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return callErr("CreateCommandEncoder", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return callErr("BeginEncoding", err)
	}
	fn(enc)
	cmd, err := enc.EndEncoding()
	if err != nil {
		return callErr("EndEncoding", err)
	}
	idx, err := d.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		d.dev.FreeCommandBuffer(cmd)
		return callErr("Submit", err)
	}
	d.lastSubmit = idx
	err = d.waitFor(idx)
	d.dev.FreeCommandBuffer(cmd)
	return err
}

// waitFor blocks until submission idx has completed.
func (d *Device) waitFor(idx uint64) error {
	if idx == 0 || d.queue.PollCompleted() >= idx {
		return nil
	}
	return callErr("WaitIdle", d.dev.WaitIdle())
}

// beginPass opens a render pass on the bound target. A nil clear loads
// the existing contents.
func (d *Device) beginPass(clear *passClear) error {
	if d.pass != nil && clear == nil {
		return nil
	}
	d.endPass()
	enc, err := d.encoder()
	if err != nil {
		return err
	}
	colors, depth, err := d.attachments()
	if err != nil {
		return err
	}

	d.passFormat, d.passTargets = colors[0].format, len(colors)

	desc := &hal.RenderPassDescriptor{Label: "gfx_pass"}
	for _, c := range colors {
		c.transition(enc, gputypes.TextureUsageRenderAttachment)
		att := hal.RenderPassColorAttachment{
			View:    c.view,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}
		if clear != nil && clear.mask&gfx.ColorBuffer != 0 {
			att.LoadOp = gputypes.LoadOpClear
			att.ClearValue = clearColor(clear.values.Color)
		}
		desc.ColorAttachments = append(desc.ColorAttachments, att)
	}
	if depth != nil {
		ds := &hal.RenderPassDepthStencilAttachment{
			View:            depth.view,
			DepthLoadOp:     gputypes.LoadOpLoad,
			DepthStoreOp:    gputypes.StoreOpStore,
			StencilLoadOp:   gputypes.LoadOpLoad,
			StencilStoreOp:  gputypes.StoreOpStore,
			StencilReadOnly: true,
		}
		if clear != nil && clear.mask&gfx.DepthBuffer != 0 {
			ds.DepthLoadOp = gputypes.LoadOpClear
			ds.DepthClearValue = clear.values.Depth
		}
		desc.DepthStencilAttachment = ds
	}

	d.pass = enc.BeginRenderPass(desc)
	w, h := d.targetSize()
	vp := d.viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = gfx.Rect{Width: w, Height: h}
	}
	d.pass.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.Width), float32(vp.Height), 0, 1)
	sc := gfx.Rect{Width: w, Height: h}
	if d.scissorOn {
		sc = clampRect(d.scissor, w, h)
	}
	d.pass.SetScissorRect(uint32(sc.X), uint32(sc.Y), uint32(sc.Width), uint32(sc.Height))
	return nil
}

type passClear struct {
	mask   gfx.BufferMask
	values gfx.ClearValues
}

func clampRect(r gfx.Rect, w, h int) gfx.Rect {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.Width, w), min(r.Y+r.Height, h)
	if x1 <= x0 || y1 <= y0 {
		return gfx.Rect{}
	}
	return gfx.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// endFrame submits the frame's commands and queues its transient
// resources for recycling.
func (d *Device) endFrame() error {
	if err := d.submit(); err != nil {
		return err
	}
	d.inflight = append(d.inflight, d.cur)
	d.cur = &transient{}
	return nil
}

// retireFrames waits until at most keep frames are in flight and recycles
// the rest. Zero flushes the queue.
func (d *Device) retireFrames(keep int) error {
	for len(d.inflight) > keep {
		f := d.inflight[0]
		if err := d.waitFor(f.index); err != nil {
			return err
		}
		d.recycle(f)
		d.inflight = d.inflight[1:]
	}
	// Frames completed early are released without waiting.
	done := d.queue.PollCompleted()
	for len(d.inflight) > 0 && d.inflight[0].index <= done {
		d.recycle(d.inflight[0])
		d.inflight = d.inflight[1:]
	}
	return nil
}

func (d *Device) recycle(f *transient) {
	for _, bg := range f.bindGroups {
		d.dev.DestroyBindGroup(bg)
	}
	for _, b := range f.buffers {
		d.pool.put(b)
	}
	for _, cmd := range f.cmdBuffers {
		d.dev.FreeCommandBuffer(cmd)
	}
	for _, fn := range f.release {
		fn()
	}
	gfx.Logger().Debug("native: frame recycled", "index", f.index, "bindGroups", len(f.bindGroups), "buffers", len(f.buffers))
}
