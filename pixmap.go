package gfx

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// PixelFormat describes the component layout of pixel data.
type PixelFormat struct {
	Components int
	Type       Datatype
}

// RGBA8 is four uint8 components per pixel, the native texture format.
var RGBA8 = PixelFormat{Components: 4, Type: Uint8}

// BytesPerPixel returns the size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	return f.Components * f.Type.Size()
}

func (f PixelFormat) String() string {
	return fmt.Sprintf("%dx%s", f.Components, f.Type)
}

// Pixmap is a rectangular, row-major pixel buffer with row 0 at the top.
type Pixmap struct {
	width  int
	height int
	format PixelFormat
	data   []byte
}

// NewPixmap creates a zeroed RGBA8 pixmap.
func NewPixmap(width, height int) *Pixmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Pixmap{
		width:  width,
		height: height,
		format: RGBA8,
		data:   make([]byte, width*height*4),
	}
}

// NewPixmapFromData wraps decoded pixel data. The slice is used directly.
func NewPixmapFromData(width, height int, format PixelFormat, data []byte) (*Pixmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pixmap %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	if format.Components < 1 || format.Components > 4 || format.Type.Size() == 0 {
		return nil, fmt.Errorf("pixmap format %s: %w", format, ErrInvalidDescriptor)
	}
	if want := width * height * format.BytesPerPixel(); len(data) != want {
		return nil, fmt.Errorf("pixmap data is %d bytes, want %d: %w", len(data), want, ErrInvalidDescriptor)
	}
	return &Pixmap{width: width, height: height, format: format, data: data}, nil
}

// PixmapFromImage converts any image to an RGBA8 pixmap.
func PixmapFromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &Pixmap{width: b.Dx(), height: b.Dy(), format: RGBA8, data: dst.Pix}
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int { return p.width }

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int { return p.height }

// Format returns the pixel format.
func (p *Pixmap) Format() PixelFormat { return p.format }

// Data returns the raw pixel data.
func (p *Pixmap) Data() []byte { return p.data }

// Stride returns the number of bytes per row.
func (p *Pixmap) Stride() int { return p.width * p.format.BytesPerPixel() }

// SetPixel sets a pixel of an RGBA8 pixmap. Out-of-bounds writes are ignored.
func (p *Pixmap) SetPixel(x, y int, c Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height || p.format != RGBA8 {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = c.A
}

// GetPixel returns a pixel of an RGBA8 pixmap.
func (p *Pixmap) GetPixel(x, y int) Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height || p.format != RGBA8 {
		return Transparent
	}
	i := (y*p.width + x) * 4
	return Color{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Clear fills an RGBA8 pixmap with a color.
func (p *Pixmap) Clear(c Color) {
	if p.format != RGBA8 {
		return
	}
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = c.A
	}
}

// ToRGBA8 returns p expanded to RGBA8. Missing color components are zero
// and a missing alpha is opaque. Only uint8 sources are supported.
func (p *Pixmap) ToRGBA8() (*Pixmap, error) {
	if p.format == RGBA8 {
		return p, nil
	}
	if p.format.Type != Uint8 {
		return nil, fmt.Errorf("convert %s pixmap: %w", p.format, ErrInvalidDescriptor)
	}
	out := NewPixmap(p.width, p.height)
	n := p.format.Components
	for i, j := 0, 0; i < len(p.data); i, j = i+n, j+4 {
		switch n {
		case 1:
			out.data[j], out.data[j+1], out.data[j+2] = p.data[i], p.data[i], p.data[i]
			out.data[j+3] = 255
		case 2:
			out.data[j], out.data[j+1], out.data[j+2] = p.data[i], p.data[i], p.data[i]
			out.data[j+3] = p.data[i+1]
		case 3:
			copy(out.data[j:j+3], p.data[i:i+3])
			out.data[j+3] = 255
		}
	}
	return out, nil
}

// FlipVertical reverses the row order in place.
func (p *Pixmap) FlipVertical() {
	stride := p.Stride()
	tmp := make([]byte, stride)
	for top, bottom := 0, p.height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := p.data[top*stride : (top+1)*stride]
		b := p.data[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}

// ToImage converts an RGBA8 pixmap to an image.NRGBA sharing no memory.
func (p *Pixmap) ToImage() *image.NRGBA {
	src := p
	if p.format != RGBA8 {
		var err error
		if src, err = p.ToRGBA8(); err != nil {
			return image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, src.data)
	return img
}

// SavePNG saves the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, p.ToImage())
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.GetPixel(x, y).NRGBA()
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.NRGBAModel
}
