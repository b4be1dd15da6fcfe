package gl

import (
	"fmt"

	"github.com/gogpu/gfx"
)

// renderTargetObject is a framebuffer object with one color attachment per
// target texture and a depth-stencil renderbuffer.
type renderTargetObject struct {
	d      *Device
	label  string
	fbo    uint32
	depth  uint32
	width  int
	height int
	colors []*textureObject
}

func (d *Device) NewRenderTarget(label string, width, height int, targets []gfx.TextureObject) (gfx.RenderTargetObject, error) {
	if d.closed {
		return nil, gfx.ErrClosed
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("gl: render target %q has no targets: %w", label, gfx.ErrInvalidDescriptor)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gl: render target %q %dx%d: %w", label, width, height, gfx.ErrInvalidDimensions)
	}
	colors := make([]*textureObject, len(targets))
	for i, obj := range targets {
		t, ok := obj.(*textureObject)
		if !ok || t.d != d {
			return nil, fmt.Errorf("gl: render target %q target %d: %w", label, i, gfx.ErrForeignObject)
		}
		if t.width != width || t.height != height {
			return nil, fmt.Errorf("gl: render target %q is %dx%d, target %d is %dx%d: %w",
				label, width, height, i, t.width, t.height, gfx.ErrInvalidDimensions)
		}
		colors[i] = t
	}

	rt := &renderTargetObject{
		d:      d,
		label:  label,
		fbo:    d.drv.GenFramebuffer(),
		depth:  d.drv.GenRenderbuffer(),
		width:  width,
		height: height,
		colors: colors,
	}
	d.drv.BindRenderbuffer(RENDERBUFFER, rt.depth)
	d.drv.RenderbufferStorage(RENDERBUFFER, DEPTH24_STENCIL8, int32(width), int32(height))
	d.drv.BindRenderbuffer(RENDERBUFFER, 0)

	d.drv.BindFramebuffer(FRAMEBUFFER, rt.fbo)
	buffers := make([]uint32, len(colors))
	for i, t := range colors {
		buffers[i] = COLOR_ATTACHMENT0 + uint32(i)
		d.drv.FramebufferTexture2D(FRAMEBUFFER, buffers[i], TEXTURE_2D, t.name, 0)
	}
	d.drv.FramebufferRenderbuffer(FRAMEBUFFER, DEPTH_STENCIL_ATTACHMENT, RENDERBUFFER, rt.depth)
	d.drv.DrawBuffers(buffers)
	status := d.drv.CheckFramebufferStatus(FRAMEBUFFER)
	d.bindFramebuffer(d.target)

	if status != FRAMEBUFFER_COMPLETE {
		rt.Destroy()
		return nil, fmt.Errorf("%w: %q status 0x%04X", ErrIncompleteFramebuffer, label, status)
	}
	if err := d.check("NewRenderTarget"); err != nil {
		rt.Destroy()
		return nil, err
	}
	return rt, nil
}

func (rt *renderTargetObject) Backend() string { return gfx.BackendGL }

// Destroy deletes the framebuffer and its depth buffer. The color textures
// belong to their own handles.
func (rt *renderTargetObject) Destroy() {
	if rt.d.target == rt {
		rt.d.bindFramebuffer(nil)
	}
	rt.d.drv.DeleteFramebuffer(rt.fbo)
	rt.d.drv.DeleteRenderbuffer(rt.depth)
	rt.fbo, rt.depth = 0, 0
}
