package gfx

import (
	"errors"
	"sync"
	"testing"
)

func TestRefCount(t *testing.T) {
	var rc refCount
	if rc.alive() || rc.retain() {
		t.Fatal("zero refCount is alive or retainable")
	}
	rc.init()
	if !rc.retain() {
		t.Fatal("retain failed on live count")
	}
	if rc.release() {
		t.Fatal("first of two releases reported last")
	}
	if !rc.release() {
		t.Fatal("last release not reported")
	}
	if rc.release() || rc.alive() {
		t.Error("extra release revived the count")
	}
}

func TestRefCountConcurrent(t *testing.T) {
	var rc refCount
	rc.init()
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc.retain()
		}()
	}
	wg.Wait()
	last := 0
	for range 65 {
		if rc.release() {
			last++
		}
	}
	if last != 1 {
		t.Errorf("last release reported %d times, want 1", last)
	}
}

func TestHandleDestroyedOnce(t *testing.T) {
	c, dev := newTestContext(t)
	tex, err := c.NewTexture2D(TextureDesc{Label: "once", Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	tex.Retain()
	tex.Release()
	if dev.destroyed["once"] != 0 {
		t.Fatal("destroyed while referenced")
	}
	tex.Release()
	tex.Release()
	if dev.destroyed["once"] != 1 {
		t.Errorf("destroyed %d times, want 1", dev.destroyed["once"])
	}
	if tex.Object() != nil {
		t.Error("Object() not nil after last release")
	}
	if err := tex.Update(NewPixmap(4, 4)); !errors.Is(err, ErrReleased) {
		t.Errorf("Update after release = %v, want ErrReleased", err)
	}
}

func TestCreateFailureReturnsNil(t *testing.T) {
	c, dev := newTestContext(t)
	if tex, err := c.NewTexture2D(TextureDesc{Width: 0, Height: 4}); tex != nil || !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: %v, %v", tex, err)
	}
	dev.texErr = errors.New("out of memory")
	tex, err := c.NewTexture2D(TextureDesc{Width: 4, Height: 4})
	if tex != nil || !errors.Is(err, dev.texErr) {
		t.Errorf("device failure: %v, %v", tex, err)
	}
	rt, err := c.NewRenderTarget2D(RenderTargetDesc{Width: 4, Height: 4})
	if rt != nil || err == nil {
		t.Errorf("render target with failing texture: %v, %v", rt, err)
	}
	if sh, err := c.NewShader(ShaderDesc{}); sh != nil || !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("empty shader: %v, %v", sh, err)
	}
}

func TestTextureUpdates(t *testing.T) {
	c, _ := newTestContext(t)
	tex := mustTexture(t, c, 4, 4)

	if err := tex.Update(NewPixmap(2, 2)); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("wrong size Update = %v", err)
	}
	if err := tex.UpdateSubImage(3, 3, NewPixmap(2, 2)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("out of range UpdateSubImage = %v", err)
	}
	px := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := tex.UpdateRegion(1, 2, 2, 1, px); err != nil {
		t.Fatal(err)
	}
	pm, err := tex.Pixmap()
	if err != nil {
		t.Fatal(err)
	}
	if got := pm.GetPixel(2, 2); got != (Color{5, 6, 7, 8}) {
		t.Errorf("pixel (2,2) = %v", got)
	}
	if err := tex.SetFiltering(FilterLinear); err != nil || tex.Filtering() != FilterLinear {
		t.Errorf("SetFiltering: %v", err)
	}
}

func TestBufferUpdateValidation(t *testing.T) {
	c, _ := newTestContext(t)
	vb, err := c.NewVertexBuffer(VertexBufferDesc{Vertices: NewVertexArray(DefaultVertexFormat(), 4)})
	if err != nil {
		t.Fatal(err)
	}
	defer vb.Release()

	var other VertexFormat
	_ = other.Set(AttribPosition, 3, Float32)
	if err := vb.Update(0, NewVertexArray(other, 1)); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("format mismatch = %v", err)
	}
	if err := vb.Update(3, NewVertexArray(DefaultVertexFormat(), 2)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("overflow = %v", err)
	}
	if err := vb.Update(2, NewVertexArray(DefaultVertexFormat(), 2)); err != nil {
		t.Errorf("valid update = %v", err)
	}

	if _, err := c.NewIndexBuffer(IndexBufferDesc{}); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("empty index buffer = %v", err)
	}
}

func TestShaderUniformEncoding(t *testing.T) {
	c, _ := newTestContext(t)
	sh, err := c.NewShader(ShaderDesc{Vertex: "v"})
	if err != nil {
		t.Fatal(err)
	}
	sh.SetUniform1f("u_Time", 1)
	sh.SetUniform2fv("u_Pairs", []float32{1, 2, 3})
	u := sh.Object().(*fakeShader).uniforms

	if got := u["u_Time"]; got.Type != UniformFloat || got.Count != 1 || string(got.Data) != "\x00\x00\x80\x3f" {
		t.Errorf("u_Time = %+v", got)
	}
	if got := u["u_Pairs"]; got.Components != 2 || got.Count != 1 || len(got.Data) != 8 {
		t.Errorf("u_Pairs = %+v", got)
	}
	sh.Release()
	sh.SetUniform1f("u_Time", 2)
}

func TestShaderHoldsSamplerTexture(t *testing.T) {
	c, dev := newTestContext(t)
	sh, err := c.NewShader(ShaderDesc{Label: "sh", Vertex: "v"})
	if err != nil {
		t.Fatal(err)
	}
	mask, err := c.NewTexture2D(TextureDesc{Label: "mask", Width: 2, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	other, err := c.NewTexture2D(TextureDesc{Label: "other", Width: 2, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	defer other.Release()

	sh.SetSampler2D("u_Mask", mask)
	sh.SetSampler2D("u_Mask", mask)
	mask.Release()
	if dev.destroyed["mask"] != 0 || mask.Object() == nil {
		t.Fatal("texture destroyed while bound to a sampler")
	}

	sh.SetSampler2D("u_Mask", other)
	if dev.destroyed["mask"] != 1 {
		t.Errorf("rebinding destroyed mask %d times, want 1", dev.destroyed["mask"])
	}

	sh.Release()
	if dev.destroyed["other"] != 0 {
		t.Error("shader release destroyed a texture the caller still holds")
	}
	other.Release()
	if dev.destroyed["other"] != 1 {
		t.Errorf("other destroyed %d times, want 1", dev.destroyed["other"])
	}
}
