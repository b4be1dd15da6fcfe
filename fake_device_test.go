package gfx

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
)

const fakeBackend = "fake"

// fakeDevice records the calls a Context makes.
type fakeDevice struct {
	caps      map[Capability]bool
	viewport  Rect
	bound     []RenderTargetObject
	draws     []DrawCall
	clears    int
	presents  int
	resized   [2]int
	destroyed map[string]int
	drawErr   error
	texErr    error
	closed    bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		caps:      make(map[Capability]bool),
		destroyed: make(map[string]int),
	}
}

type fakeObject struct {
	dev   *fakeDevice
	label string
	name  string
}

func (o *fakeObject) Backend() string {
	if o.name != "" {
		return o.name
	}
	return fakeBackend
}

func (o *fakeObject) Destroy() { o.dev.destroyed[o.label]++ }

type fakeTexture struct {
	fakeObject
	pm *Pixmap
}

func (t *fakeTexture) Upload(p *Pixmap) error {
	copy(t.pm.Data(), p.Data())
	return nil
}

func (t *fakeTexture) UploadRegion(x, y int, p *Pixmap) error {
	for j := 0; j < p.Height(); j++ {
		for i := 0; i < p.Width(); i++ {
			t.pm.SetPixel(x+i, y+j, p.GetPixel(i, j))
		}
	}
	return nil
}

func (t *fakeTexture) ReadPixels() (*Pixmap, error) {
	out := NewPixmap(t.pm.Width(), t.pm.Height())
	copy(out.Data(), t.pm.Data())
	return out, nil
}

func (t *fakeTexture) SetFiltering(TextureFilter) error { return nil }
func (t *fakeTexture) SetWrapping(TextureWrap) error    { return nil }
func (t *fakeTexture) Clear() error                     { t.pm.Clear(Transparent); return nil }

type fakeShader struct {
	fakeObject
	uniforms map[string]Uniform
}

func (s *fakeShader) SetUniform(name string, u Uniform)     { s.uniforms[name] = u }
func (s *fakeShader) SetSampler(string, TextureObject)     {}
func (b *fakeBuffer) Update(offset int, data []byte) error { return nil }

type fakeBuffer struct{ fakeObject }

type fakeIndexBuffer struct{ fakeObject }

func (b *fakeIndexBuffer) Update(int, []uint32) error { return nil }

func (d *fakeDevice) Name() string                  { return fakeBackend }
func (d *fakeDevice) Enable(c Capability)           { d.caps[c] = true }
func (d *fakeDevice) Disable(c Capability)          { d.caps[c] = false }
func (d *fakeDevice) IsEnabled(c Capability) bool   { return d.caps[c] }
func (d *fakeDevice) EnableScissor(Rect)            {}
func (d *fakeDevice) DisableScissor()               {}
func (d *fakeDevice) SetPointSize(float32)          {}
func (d *fakeDevice) SetLineWidth(float32)          {}
func (d *fakeDevice) SetViewport(r Rect)            { d.viewport = r }
func (d *fakeDevice) Clear(BufferMask, ClearValues) error {
	d.clears++
	return nil
}

func (d *fakeDevice) BindRenderTarget(rt RenderTargetObject) error {
	d.bound = append(d.bound, rt)
	return nil
}

func (d *fakeDevice) Draw(dc *DrawCall) error {
	if d.drawErr != nil {
		return d.drawErr
	}
	c := *dc
	c.Vertices = append([]byte(nil), dc.Vertices...)
	d.draws = append(d.draws, c)
	return nil
}

func (d *fakeDevice) NewTexture(desc TextureDesc) (TextureObject, error) {
	if d.texErr != nil {
		return nil, d.texErr
	}
	t := &fakeTexture{fakeObject: fakeObject{dev: d, label: desc.Label}, pm: NewPixmap(desc.Width, desc.Height)}
	if desc.Pixmap != nil {
		copy(t.pm.Data(), desc.Pixmap.Data())
	}
	return t, nil
}

func (d *fakeDevice) NewShader(desc ShaderDesc) (ShaderObject, error) {
	return &fakeShader{fakeObject: fakeObject{dev: d, label: desc.Label}, uniforms: make(map[string]Uniform)}, nil
}

func (d *fakeDevice) NewRenderTarget(label string, _, _ int, _ []TextureObject) (RenderTargetObject, error) {
	return &fakeObject{dev: d, label: label}, nil
}

func (d *fakeDevice) NewVertexBuffer(desc VertexBufferDesc) (VertexBufferObject, error) {
	return &fakeBuffer{fakeObject{dev: d, label: desc.Label}}, nil
}

func (d *fakeDevice) NewIndexBuffer(desc IndexBufferDesc) (IndexBufferObject, error) {
	return &fakeIndexBuffer{fakeObject{dev: d, label: desc.Label}}, nil
}

func (d *fakeDevice) ReadBackBuffer() (*Pixmap, error) {
	return NewPixmap(d.viewport.Width, d.viewport.Height), nil
}

func (d *fakeDevice) Resize(w, h int) error {
	d.resized = [2]int{w, h}
	return nil
}

func (d *fakeDevice) Present() error {
	d.presents++
	return nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

var errFakeDraw = errors.New("fake draw failure")

// newTestContext returns an 800x600 context on a fake device.
func newTestContext(t *testing.T) (*Context, *fakeDevice) {
	t.Helper()
	dev := newFakeDevice()
	win := gpucontext.NullWindowProvider{W: 800, H: 600, SF: 1}
	c, err := New(win, WithDevice(dev))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, dev
}
