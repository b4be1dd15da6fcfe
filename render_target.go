package gfx

import "fmt"

// RenderTarget2D is an offscreen draw target with one or more color
// textures. The textures are shared handles and may be sampled elsewhere.
type RenderTarget2D struct {
	rc      refCount
	obj     RenderTargetObject
	label   string
	width   int
	height  int
	targets []*Texture2D
}

// NewRenderTarget2D creates a render target on the context's device.
func (c *Context) NewRenderTarget2D(desc RenderTargetDesc) (*RenderTarget2D, error) {
	return createNew[RenderTarget2D](c, desc)
}

func (rt *RenderTarget2D) initialize(c *Context, desc RenderTargetDesc) error {
	if desc.Width <= 0 || desc.Height <= 0 {
		return fmt.Errorf("render target %q %dx%d: %w", desc.Label, desc.Width, desc.Height, ErrInvalidDimensions)
	}
	count := desc.Count
	if count <= 0 {
		count = 1
	}
	if len(desc.Targets) > count {
		count = len(desc.Targets)
	}
	rt.label = desc.Label
	rt.width, rt.height = desc.Width, desc.Height

	objs := make([]TextureObject, 0, count)
	for i := 0; i < count; i++ {
		var tex *Texture2D
		if i < len(desc.Targets) && desc.Targets[i] != nil {
			tex = desc.Targets[i].Retain()
			if tex.Width() != desc.Width || tex.Height() != desc.Height {
				rt.targets = append(rt.targets, tex)
				return fmt.Errorf("render target %q: target %d is %dx%d: %w",
					desc.Label, i, tex.Width(), tex.Height(), ErrInvalidDimensions)
			}
		} else {
			var err error
			tex, err = c.NewTexture2D(TextureDesc{
				Label:        fmt.Sprintf("%s/target%d", desc.Label, i),
				Width:        desc.Width,
				Height:       desc.Height,
				RenderTarget: true,
			})
			if err != nil {
				return fmt.Errorf("render target %q: %w", desc.Label, err)
			}
		}
		rt.targets = append(rt.targets, tex)
		objs = append(objs, tex.Object())
	}

	obj, err := c.dev.NewRenderTarget(desc.Label, desc.Width, desc.Height, objs)
	if err != nil {
		return fmt.Errorf("render target %q: %w", desc.Label, err)
	}
	rt.obj = obj
	rt.rc.init()
	return nil
}

func (rt *RenderTarget2D) destroy() {
	if rt.obj != nil {
		rt.obj.Destroy()
		rt.obj = nil
	}
	for _, t := range rt.targets {
		t.Release()
	}
	rt.targets = nil
}

// Retain adds a reference.
func (rt *RenderTarget2D) Retain() *RenderTarget2D {
	if rt != nil && !rt.rc.retain() {
		Logger().Warn("gfx: retain of released render target", "label", rt.label)
	}
	return rt
}

// Release drops a reference. The last release destroys the target and
// drops its references to the color textures.
func (rt *RenderTarget2D) Release() {
	if rt != nil && rt.rc.release() {
		rt.destroy()
	}
}

// Object returns the device object, nil after the last release.
func (rt *RenderTarget2D) Object() RenderTargetObject {
	if rt == nil || !rt.rc.alive() {
		return nil
	}
	return rt.obj
}

// Label returns the debug name.
func (rt *RenderTarget2D) Label() string { return rt.label }

// Width returns the width in pixels.
func (rt *RenderTarget2D) Width() int { return rt.width }

// Height returns the height in pixels.
func (rt *RenderTarget2D) Height() int { return rt.height }

// Count returns the number of color textures.
func (rt *RenderTarget2D) Count() int { return len(rt.targets) }

// Target returns color texture i, or nil when out of range.
func (rt *RenderTarget2D) Target(i int) *Texture2D {
	if i < 0 || i >= len(rt.targets) {
		return nil
	}
	return rt.targets[i]
}
