package native

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
)

// renderTargetObject implements gfx.RenderTargetObject. The color textures
// belong to their Texture2D handles; the depth buffer belongs to the target.
type renderTargetObject struct {
	d             *Device
	label         string
	width, height int
	colors        []*textureObject
	depth         *gpuTexture
}

func (d *Device) NewRenderTarget(label string, width, height int, targets []gfx.TextureObject) (gfx.RenderTargetObject, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("render target %q: no color targets: %w", label, gfx.ErrInvalidDescriptor)
	}
	rt := &renderTargetObject{d: d, label: label, width: width, height: height}
	for i, obj := range targets {
		t, ok := obj.(*textureObject)
		if !ok || t.d != d {
			return nil, fmt.Errorf("render target %q: target %d: %w", label, i, ErrForeignObject)
		}
		if t.width != width || t.height != height {
			return nil, fmt.Errorf("render target %q: target %d is %dx%d: %w", label, i, t.width, t.height, gfx.ErrInvalidDimensions)
		}
		rt.colors = append(rt.colors, t)
	}
	depth, err := d.createTexture(label+"_depth", width, height, depthFormat, gputypes.TextureUsageRenderAttachment)
	if err != nil {
		return nil, err
	}
	rt.depth = depth
	return rt, nil
}

func (rt *renderTargetObject) Backend() string { return gfx.BackendNative }

func (rt *renderTargetObject) Destroy() {
	d := rt.d
	if d.target == rt {
		d.endPass()
		d.target = nil
	}
	depth := rt.depth
	d.retire(func() { d.destroyTexture(depth) })
}
