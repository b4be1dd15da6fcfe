package native

import (
	"bytes"
	"testing"

	"github.com/gogpu/gfx"
)

func TestTextureUploadReadback(t *testing.T) {
	d := newSoftwareDevice(t, 4, 4)
	src := gfx.NewPixmap(2, 2)
	src.SetPixel(0, 0, gfx.Red)
	src.SetPixel(1, 0, gfx.Green)
	src.SetPixel(0, 1, gfx.Blue)
	src.SetPixel(1, 1, gfx.Color{R: 10, G: 20, B: 30, A: 40})

	obj, err := d.NewTexture(gfx.TextureDesc{Label: "checker", Pixmap: src})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	got, err := obj.ReadPixels()
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if !bytes.Equal(got.Data(), src.Data()) {
		t.Errorf("ReadPixels() = %v, want %v", got.Data(), src.Data())
	}
}

func TestTextureUploadRegion(t *testing.T) {
	d := newSoftwareDevice(t, 4, 4)
	obj, err := d.NewTexture(gfx.TextureDesc{Label: "region", Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	patch := gfx.NewPixmap(1, 1)
	patch.Clear(gfx.Yellow)
	if err := obj.UploadRegion(1, 1, patch); err != nil {
		t.Fatalf("UploadRegion: %v", err)
	}
	if err := obj.UploadRegion(2, 0, patch); err == nil {
		t.Error("UploadRegion outside the texture succeeded")
	}
	got, err := obj.ReadPixels()
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if c := got.GetPixel(1, 1); c != gfx.Yellow {
		t.Errorf("pixel (1,1) = %v, want yellow", c)
	}
	if c := got.GetPixel(0, 0); c != gfx.Transparent {
		t.Errorf("pixel (0,0) = %v, want transparent", c)
	}
}

func TestClearBackBuffer(t *testing.T) {
	d := newSoftwareDevice(t, 4, 3)
	if err := d.Clear(gfx.ColorBuffer|gfx.DepthBuffer, gfx.ClearValues{Color: gfx.Red, Depth: 1}); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	pm, err := d.ReadBackBuffer()
	if err != nil {
		t.Fatalf("ReadBackBuffer: %v", err)
	}
	if pm.Width() != 4 || pm.Height() != 3 {
		t.Fatalf("back buffer is %dx%d, want 4x3", pm.Width(), pm.Height())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if c := pm.GetPixel(x, y); c != gfx.Red {
				t.Fatalf("pixel (%d,%d) = %v, want red", x, y, c)
			}
		}
	}
}

func TestRenderTargetClear(t *testing.T) {
	d := newSoftwareDevice(t, 8, 8)
	tex, err := d.NewTexture(gfx.TextureDesc{Label: "offscreen", Width: 4, Height: 4, RenderTarget: true})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	rt, err := d.NewRenderTarget("offscreen", 4, 4, []gfx.TextureObject{tex})
	if err != nil {
		t.Fatalf("NewRenderTarget: %v", err)
	}
	if err := d.BindRenderTarget(rt); err != nil {
		t.Fatalf("BindRenderTarget: %v", err)
	}
	if err := d.Clear(gfx.ColorBuffer, gfx.ClearValues{Color: gfx.Green}); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := d.BindRenderTarget(nil); err != nil {
		t.Fatalf("BindRenderTarget(nil): %v", err)
	}

	got, err := tex.ReadPixels()
	if err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if c := got.GetPixel(3, 3); c != gfx.Green {
		t.Errorf("target pixel = %v, want green", c)
	}
	back, err := d.ReadBackBuffer()
	if err != nil {
		t.Fatalf("ReadBackBuffer: %v", err)
	}
	if c := back.GetPixel(0, 0); c == gfx.Green {
		t.Error("clearing the render target reached the back buffer")
	}

	rt.Destroy()
	if d.target != nil {
		t.Error("destroyed target is still bound")
	}
}

func TestNewRenderTargetSizeMismatch(t *testing.T) {
	d := newSoftwareDevice(t, 8, 8)
	tex, err := d.NewTexture(gfx.TextureDesc{Label: "small", Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	if _, err := d.NewRenderTarget("bad", 4, 4, []gfx.TextureObject{tex}); err == nil {
		t.Error("NewRenderTarget accepted a texture of the wrong size")
	}
}

func TestResizeBackBuffer(t *testing.T) {
	d := newSoftwareDevice(t, 4, 4)
	if err := d.Resize(6, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	pm, err := d.ReadBackBuffer()
	if err != nil {
		t.Fatalf("ReadBackBuffer: %v", err)
	}
	if pm.Width() != 6 || pm.Height() != 2 {
		t.Errorf("back buffer is %dx%d after resize, want 6x2", pm.Width(), pm.Height())
	}
	if err := d.Resize(0, 2); err == nil {
		t.Error("Resize(0, 2) succeeded")
	}
}
