package gfx

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
)

func TestPixmapFromData(t *testing.T) {
	if _, err := NewPixmapFromData(2, 2, RGBA8, make([]byte, 15)); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("short data: %v", err)
	}
	if _, err := NewPixmapFromData(0, 2, RGBA8, nil); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("zero width: %v", err)
	}
	gray := PixelFormat{Components: 1, Type: Uint8}
	p, err := NewPixmapFromData(2, 1, gray, []byte{10, 200})
	if err != nil {
		t.Fatal(err)
	}
	rgba, err := p.ToRGBA8()
	if err != nil {
		t.Fatal(err)
	}
	if got := rgba.GetPixel(1, 0); got != (Color{200, 200, 200, 255}) {
		t.Errorf("expanded gray = %v", got)
	}
	if _, err := NewPixmapFromData(1, 1, PixelFormat{Components: 4, Type: Float32}, make([]byte, 16)); err != nil {
		t.Fatal(err)
	}
}

func TestPixmapFlipVertical(t *testing.T) {
	p := NewPixmap(1, 3)
	p.SetPixel(0, 0, Red)
	p.SetPixel(0, 2, Blue)
	p.FlipVertical()
	if p.GetPixel(0, 0) != Blue || p.GetPixel(0, 2) != Red {
		t.Error("rows not reversed")
	}
}

func TestPixmapImageRoundTrip(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.Set(6, 5, color.RGBA{0, 255, 0, 255})
	p := PixmapFromImage(img)
	if p.Width() != 2 || p.Height() != 1 {
		t.Fatalf("size %dx%d", p.Width(), p.Height())
	}
	if p.GetPixel(1, 0) != Green {
		t.Errorf("pixel = %v, want green", p.GetPixel(1, 0))
	}
	if p.ToImage().NRGBAAt(1, 0) != Green.NRGBA() {
		t.Error("ToImage lost the pixel")
	}
	if err := p.SavePNG(filepath.Join(t.TempDir(), "p.png")); err != nil {
		t.Fatal(err)
	}
}

func TestPixmapOutOfBounds(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetPixel(5, 5, Red)
	if p.GetPixel(5, 5) != Transparent {
		t.Error("out-of-bounds read not transparent")
	}
}

func TestRegionFromPixels(t *testing.T) {
	r := RegionFromPixels(16, 0, 16, 32, 64, 32)
	if r != (TextureRegion{0.25, 0, 0.5, 1}) {
		t.Errorf("region = %+v", r)
	}
	if f := r.FlipY(); f.V0 != 1 || f.V1 != 0 {
		t.Errorf("FlipY = %+v", f)
	}
}
