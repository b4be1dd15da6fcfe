package native

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const textureUsage = gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageRenderAttachment |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageCopyDst

// gpuTexture is a HAL texture with its default view and tracked usage.
type gpuTexture struct {
	tex    hal.Texture
	view   hal.TextureView
	width  int
	height int
	format gputypes.TextureFormat
	// state is the usage the last recorded command left the texture in.
	state gputypes.TextureUsage
}

func (d *Device) createTexture(label string, w, h int, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*gpuTexture, error) {
	tex, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, callErr("CreateTexture", err)
	}
	view, err := d.dev.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:           label + "_view",
		Format:          format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		d.dev.DestroyTexture(tex)
		return nil, callErr("CreateTextureView", err)
	}
	return &gpuTexture{tex: tex, view: view, width: w, height: h, format: format}, nil
}

func (d *Device) destroyTexture(t *gpuTexture) {
	d.dev.DestroyTextureView(t.view)
	d.dev.DestroyTexture(t.tex)
}

// transition records a barrier moving t to usage. It must not be called
// inside a render pass.
func (t *gpuTexture) transition(enc hal.CommandEncoder, usage gputypes.TextureUsage) {
	if t.state == usage {
		return
	}
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Range:   hal.TextureRange{Aspect: gputypes.TextureAspectAll, MipLevelCount: 1, ArrayLayerCount: 1},
		Usage:   hal.TextureUsageTransition{OldUsage: t.state, NewUsage: usage},
	}})
	t.state = usage
}

// textureObject implements gfx.TextureObject.
type textureObject struct {
	d *Device
	gpuTexture
	label  string
	filter gfx.TextureFilter
	wrap   gfx.TextureWrap
}

func (t *textureObject) Backend() string { return gfx.BackendNative }

// Destroy defers the release to the end of the frame because recorded
// commands may still sample the texture.
func (t *textureObject) Destroy() {
	g := t.gpuTexture
	t.d.retire(func() { t.d.destroyTexture(&g) })
}

func (t *textureObject) Upload(p *gfx.Pixmap) error {
	return t.UploadRegion(0, 0, p)
}

// UploadRegion copies p through a staging buffer, or through the queue
// when the HAL cannot record buffer copies, and waits for the GPU.
func (t *textureObject) UploadRegion(x, y int, p *gfx.Pixmap) error {
	if x < 0 || y < 0 || x+p.Width() > t.width || y+p.Height() > t.height {
		return fmt.Errorf("texture %q: %w", t.label, gfx.ErrOutOfRange)
	}
	p, err := p.ToRGBA8()
	if err != nil {
		return err
	}
	if err := t.d.flush(); err != nil {
		return err
	}
	w, h := p.Width(), p.Height()
	rowBytes := w * 4
	dst := hal.ImageCopyTexture{
		Texture: t.tex,
		Origin:  hal.Origin3D{X: uint32(x), Y: uint32(y)},
		Aspect:  gputypes.TextureAspectAll,
	}
	size := hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}

	if !t.d.queue.SupportsCommandBufferCopies() {
		err := t.d.queue.WriteTexture(&dst, p.Data(), &hal.ImageDataLayout{
			BytesPerRow:  uint32(rowBytes),
			RowsPerImage: uint32(h),
		}, &size)
		if err != nil {
			return callErr("WriteTexture", err)
		}
		return t.d.waitFor(t.d.lastSubmit)
	}

	pitch := alignUp(rowBytes, t.d.opts.CopyPitchAlignment)
	staging := make([]byte, pitch*h)
	for row := 0; row < h; row++ {
		copy(staging[row*pitch:], p.Data()[row*rowBytes:(row+1)*rowBytes])
	}
	buf, err := t.d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: t.label + "_staging",
		Size:  uint64(len(staging)),
		Usage: gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return callErr("CreateBuffer", err)
	}
	defer t.d.dev.DestroyBuffer(buf)
	if err := t.d.queue.WriteBuffer(buf, 0, staging); err != nil {
		return callErr("WriteBuffer", err)
	}
	return t.d.submitNow(t.label+"_upload", func(enc hal.CommandEncoder) {
		t.transition(enc, gputypes.TextureUsageCopyDst)
		enc.CopyBufferToTexture(buf, t.tex, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{BytesPerRow: uint32(pitch), RowsPerImage: uint32(h)},
			TextureBase:  dst,
			Size:         size,
		}})
		t.transition(enc, gputypes.TextureUsageTextureBinding)
	})
}

func (t *textureObject) ReadPixels() (*gfx.Pixmap, error) {
	if err := t.d.flush(); err != nil {
		return nil, err
	}
	return t.d.readTexture(&t.gpuTexture, gputypes.TextureUsageTextureBinding)
}

func (t *textureObject) SetFiltering(f gfx.TextureFilter) error {
	t.filter = f
	return nil
}

func (t *textureObject) SetWrapping(w gfx.TextureWrap) error {
	t.wrap = w
	return nil
}

func (t *textureObject) Clear() error {
	return t.Upload(gfx.NewPixmap(t.width, t.height))
}

// readTexture copies t into a mappable buffer and strips the row padding.
// The texture is left in the after usage.
func (d *Device) readTexture(t *gpuTexture, after gputypes.TextureUsage) (*gfx.Pixmap, error) {
	w, h := t.width, t.height
	rowBytes := w * 4
	pitch := alignUp(rowBytes, d.opts.CopyPitchAlignment)
	size := uint64(pitch * h)

	buf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "gfx_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, callErr("CreateBuffer", err)
	}
	defer d.dev.DestroyBuffer(buf)

	err = d.submitNow("gfx_readback", func(enc hal.CommandEncoder) {
		t.transition(enc, gputypes.TextureUsageCopySrc)
		enc.CopyTextureToBuffer(t.tex, buf, []hal.BufferTextureCopy{{
			BufferLayout: hal.ImageDataLayout{BytesPerRow: uint32(pitch), RowsPerImage: uint32(h)},
			TextureBase:  hal.ImageCopyTexture{Texture: t.tex, Aspect: gputypes.TextureAspectAll},
			Size:         hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		}})
		t.transition(enc, after)
	})
	if err != nil {
		return nil, err
	}

	m, err := d.dev.MapBuffer(buf, 0, size)
	if err != nil {
		return nil, callErr("MapBuffer", err)
	}
	src := unsafe.Slice((*byte)(m.Ptr), size)
	pm := gfx.NewPixmap(w, h)
	out := pm.Data()
	for row := 0; row < h; row++ {
		copy(out[row*rowBytes:(row+1)*rowBytes], src[row*pitch:row*pitch+rowBytes])
	}
	if err := d.dev.UnmapBuffer(buf); err != nil {
		return nil, callErr("UnmapBuffer", err)
	}
	if t.format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i+3 < len(out); i += 4 {
			out[i], out[i+2] = out[i+2], out[i]
		}
	}
	return pm, nil
}

// samplerKey selects one of the device's static samplers.
type samplerKey struct {
	filter gfx.TextureFilter
	wrap   gfx.TextureWrap
}

func (d *Device) sampler(k samplerKey) (hal.Sampler, error) {
	if s, ok := d.samplers[k]; ok {
		return s, nil
	}
	mode := addressMode(k.wrap)
	filter := filterMode(k.filter)
	s, err := d.dev.CreateSampler(&hal.SamplerDescriptor{
		Label:        "gfx_sampler",
		AddressModeU: mode,
		AddressModeV: mode,
		AddressModeW: mode,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
		LodMaxClamp:  32,
	})
	if err != nil {
		return nil, callErr("CreateSampler", err)
	}
	d.samplers[k] = s
	return s, nil
}
