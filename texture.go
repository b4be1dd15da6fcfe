package gfx

import (
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Texture2D is a reference-counted 2D RGBA8 texture.
//
// Width, height, filtering and wrapping are mirrored on the CPU so reading
// them never touches the device.
type Texture2D struct {
	rc        refCount
	obj       TextureObject
	label     string
	width     int
	height    int
	filtering TextureFilter
	wrapping  TextureWrap
}

var (
	_ gpucontext.Texture              = (*Texture2D)(nil)
	_ gpucontext.TextureUpdater       = (*Texture2D)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture2D)(nil)
)

// NewTexture2D creates a texture on the context's device.
func (c *Context) NewTexture2D(desc TextureDesc) (*Texture2D, error) {
	return createNew[Texture2D](c, desc)
}

func (t *Texture2D) initialize(c *Context, desc TextureDesc) error {
	w, h := desc.size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("texture %q %dx%d: %w", desc.Label, w, h, ErrInvalidDimensions)
	}
	if desc.Pixmap != nil {
		pm, err := desc.Pixmap.ToRGBA8()
		if err != nil {
			return fmt.Errorf("texture %q: %w", desc.Label, err)
		}
		desc.Pixmap = pm
	}
	desc.Width, desc.Height = w, h

	obj, err := c.dev.NewTexture(desc)
	if err != nil {
		return fmt.Errorf("texture %q: %w", desc.Label, err)
	}
	t.obj = obj
	t.label = desc.Label
	t.width, t.height = w, h
	t.filtering = desc.Filtering
	t.wrapping = desc.Wrapping
	t.rc.init()
	return nil
}

func (t *Texture2D) destroy() {
	if t.obj != nil {
		t.obj.Destroy()
		t.obj = nil
	}
}

// Retain adds a reference.
func (t *Texture2D) Retain() *Texture2D {
	if t != nil && !t.rc.retain() {
		Logger().Warn("gfx: retain of released texture", "label", t.label)
	}
	return t
}

// Release drops a reference and destroys the device object with the last one.
func (t *Texture2D) Release() {
	if t != nil && t.rc.release() {
		t.destroy()
	}
}

// Object returns the device object, nil after the last release.
func (t *Texture2D) Object() TextureObject {
	if t == nil || !t.rc.alive() {
		return nil
	}
	return t.obj
}

// Label returns the debug name.
func (t *Texture2D) Label() string { return t.label }

// Width returns the width in pixels.
func (t *Texture2D) Width() int { return t.width }

// Height returns the height in pixels.
func (t *Texture2D) Height() int { return t.height }

// Format returns the pixel format, always RGBA8.
func (t *Texture2D) Format() PixelFormat { return RGBA8 }

// Filtering returns the current filter.
func (t *Texture2D) Filtering() TextureFilter { return t.filtering }

// Wrapping returns the current wrap mode.
func (t *Texture2D) Wrapping() TextureWrap { return t.wrapping }

// SetFiltering changes the filter.
func (t *Texture2D) SetFiltering(f TextureFilter) error {
	obj := t.Object()
	if obj == nil {
		return ErrReleased
	}
	if err := obj.SetFiltering(f); err != nil {
		return err
	}
	t.filtering = f
	return nil
}

// SetWrapping changes the wrap mode.
func (t *Texture2D) SetWrapping(w TextureWrap) error {
	obj := t.Object()
	if obj == nil {
		return ErrReleased
	}
	if err := obj.SetWrapping(w); err != nil {
		return err
	}
	t.wrapping = w
	return nil
}

// Update replaces the whole image. The pixmap must match the texture size.
func (t *Texture2D) Update(p *Pixmap) error {
	obj := t.Object()
	if obj == nil {
		return ErrReleased
	}
	if p == nil || p.Width() != t.width || p.Height() != t.height {
		return fmt.Errorf("texture %q update: %w", t.label, ErrInvalidDimensions)
	}
	pm, err := p.ToRGBA8()
	if err != nil {
		return err
	}
	return obj.Upload(pm)
}

// UpdateSubImage replaces the rectangle at (x, y) with p.
func (t *Texture2D) UpdateSubImage(x, y int, p *Pixmap) error {
	obj := t.Object()
	if obj == nil {
		return ErrReleased
	}
	if p == nil || x < 0 || y < 0 || x+p.Width() > t.width || y+p.Height() > t.height {
		return fmt.Errorf("texture %q region: %w", t.label, ErrOutOfRange)
	}
	pm, err := p.ToRGBA8()
	if err != nil {
		return err
	}
	return obj.UploadRegion(x, y, pm)
}

// UpdateData implements gpucontext.TextureUpdater with tightly packed RGBA8 data.
func (t *Texture2D) UpdateData(data []byte) error {
	pm, err := NewPixmapFromData(t.width, t.height, RGBA8, data)
	if err != nil {
		return err
	}
	return t.Update(pm)
}

// UpdateRegion implements gpucontext.TextureRegionUpdater.
func (t *Texture2D) UpdateRegion(x, y, w, h int, data []byte) error {
	pm, err := NewPixmapFromData(w, h, RGBA8, data)
	if err != nil {
		return err
	}
	return t.UpdateSubImage(x, y, pm)
}

// Pixmap reads the texture back to the CPU.
func (t *Texture2D) Pixmap() (*Pixmap, error) {
	obj := t.Object()
	if obj == nil {
		return nil, ErrReleased
	}
	return obj.ReadPixels()
}

// Clear zero-fills the texture.
func (t *Texture2D) Clear() error {
	obj := t.Object()
	if obj == nil {
		return ErrReleased
	}
	return obj.Clear()
}
