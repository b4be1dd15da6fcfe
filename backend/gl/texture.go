package gl

import (
	"fmt"

	"github.com/gogpu/gfx"
)

// textureObject implements gfx.TextureObject on a GL texture name.
type textureObject struct {
	d      *Device
	label  string
	name   uint32
	width  int
	height int
}

func (d *Device) newTexture(desc gfx.TextureDesc) (*textureObject, error) {
	w, h := desc.Width, desc.Height
	if desc.Pixmap != nil {
		w, h = desc.Pixmap.Width(), desc.Pixmap.Height()
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gl: texture %q %dx%d: %w", desc.Label, w, h, gfx.ErrInvalidDimensions)
	}
	var pixels []byte
	if desc.Pixmap != nil {
		p, err := desc.Pixmap.ToRGBA8()
		if err != nil {
			return nil, fmt.Errorf("gl: texture %q: %w", desc.Label, err)
		}
		pixels = p.Data()
	} else {
		pixels = make([]byte, 4*w*h)
	}

	t := &textureObject{d: d, label: desc.Label, name: d.drv.GenTexture(), width: w, height: h}
	d.drv.BindTexture(TEXTURE_2D, t.name)
	d.drv.TexImage2D(TEXTURE_2D, 0, RGBA8, int32(w), int32(h), RGBA, UNSIGNED_BYTE, pixels)
	d.drv.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, filterMode(desc.Filtering))
	d.drv.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, filterMode(desc.Filtering))
	d.drv.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, wrapMode(desc.Wrapping))
	d.drv.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, wrapMode(desc.Wrapping))
	if err := d.check("TexImage2D"); err != nil {
		d.drv.DeleteTexture(t.name)
		return nil, err
	}
	return t, nil
}

func (t *textureObject) Backend() string { return gfx.BackendGL }

func (t *textureObject) Destroy() {
	t.d.drv.DeleteTexture(t.name)
	t.name = 0
}

func (t *textureObject) Upload(p *gfx.Pixmap) error {
	if p.Width() != t.width || p.Height() != t.height {
		return fmt.Errorf("gl: texture %q is %dx%d, pixmap %dx%d: %w",
			t.label, t.width, t.height, p.Width(), p.Height(), gfx.ErrInvalidDimensions)
	}
	return t.UploadRegion(0, 0, p)
}

func (t *textureObject) UploadRegion(x, y int, p *gfx.Pixmap) error {
	if x < 0 || y < 0 || x+p.Width() > t.width || y+p.Height() > t.height {
		return fmt.Errorf("gl: texture %q region (%d,%d) %dx%d: %w",
			t.label, x, y, p.Width(), p.Height(), gfx.ErrOutOfRange)
	}
	p, err := p.ToRGBA8()
	if err != nil {
		return err
	}
	t.d.drv.BindTexture(TEXTURE_2D, t.name)
	t.d.drv.TexSubImage2D(TEXTURE_2D, 0, int32(x), int32(y), int32(p.Width()), int32(p.Height()), RGBA, UNSIGNED_BYTE, p.Data())
	return t.d.check("TexSubImage2D")
}

func (t *textureObject) ReadPixels() (*gfx.Pixmap, error) {
	p := gfx.NewPixmap(t.width, t.height)
	t.d.drv.BindTexture(TEXTURE_2D, t.name)
	t.d.drv.GetTexImage(TEXTURE_2D, 0, RGBA, UNSIGNED_BYTE, p.Data())
	if err := t.d.check("GetTexImage"); err != nil {
		return nil, err
	}
	return p, nil
}

func (t *textureObject) SetFiltering(f gfx.TextureFilter) error {
	t.d.drv.BindTexture(TEXTURE_2D, t.name)
	t.d.drv.TexParameteri(TEXTURE_2D, TEXTURE_MIN_FILTER, filterMode(f))
	t.d.drv.TexParameteri(TEXTURE_2D, TEXTURE_MAG_FILTER, filterMode(f))
	return t.d.check("TexParameteri")
}

func (t *textureObject) SetWrapping(w gfx.TextureWrap) error {
	t.d.drv.BindTexture(TEXTURE_2D, t.name)
	t.d.drv.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_S, wrapMode(w))
	t.d.drv.TexParameteri(TEXTURE_2D, TEXTURE_WRAP_T, wrapMode(w))
	return t.d.check("TexParameteri")
}

func (t *textureObject) Clear() error {
	return t.Upload(gfx.NewPixmap(t.width, t.height))
}
