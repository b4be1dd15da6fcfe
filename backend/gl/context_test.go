package gl

import (
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx"
	"github.com/gogpu/gpucontext"
)

func newTestContext(t *testing.T, w, h int) (*gfx.Context, *Device, *FakeDriver) {
	t.Helper()
	drv := NewFakeDriver(w, h)
	d, err := NewDevice(drv, w, h, Options{Debug: true})
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	ctx, err := gfx.New(gpucontext.NullWindowProvider{W: w, H: h, SF: 1}, gfx.WithDevice(d))
	if err != nil {
		t.Fatalf("gfx.New: %v", err)
	}
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return ctx, d, drv
}

func TestContextDrawsThroughDevice(t *testing.T) {
	ctx, d, drv := newTestContext(t, 8, 8)
	if !drv.IsEnabled(BLEND) {
		t.Error("context did not enable blending")
	}
	ctx.ClearWith(gfx.ColorBuffer, gfx.ClearValues{Color: gfx.Blue})
	ctx.DrawRectangle(1, 1, 4, 4, gfx.White, gfx.FullRegion)

	got := lastDraw(t, drv)
	if got.Mode != TRIANGLE_STRIP || got.Count != 4 {
		t.Errorf("rectangle drawn as mode %d count %d", got.Mode, got.Count)
	}
	want := gfx.PixelProjection(8, 8)
	if u := drv.UniformFloats(d.passthrough.program, mvpUniform); !reflect.DeepEqual(u, want[:]) {
		t.Errorf("MVP = %v, want the pixel projection", u)
	}

	pm, err := ctx.Screenshot()
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if c := pm.GetPixel(7, 7); c != gfx.Blue {
		t.Errorf("screenshot pixel = %v, want blue", c)
	}
}

func TestContextRenderTargetAndShader(t *testing.T) {
	ctx, d, drv := newTestContext(t, 8, 8)
	rt, err := ctx.NewRenderTarget2D(gfx.RenderTargetDesc{Label: "offscreen", Width: 4, Height: 4, Count: 1})
	if err != nil {
		t.Fatalf("NewRenderTarget2D: %v", err)
	}
	defer rt.Release()
	sh, err := ctx.NewShader(gfx.ShaderDesc{Label: "uniforms", Vertex: uniformVertex, Fragment: uniformFragment})
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	defer sh.Release()

	ctx.PushRenderTarget(rt)
	if drv.ViewportBox != [4]int32{0, 0, 4, 4} {
		t.Errorf("viewport inside the target = %v", drv.ViewportBox)
	}
	ctx.ClearWith(gfx.ColorBuffer, gfx.ClearValues{Color: gfx.Red})
	ctx.SetShader(sh)
	sh.SetUniform1f("u_Scale", 0.5)
	sh.SetSampler2D("u_Mask", rt.Target(0))
	ctx.DrawRectangle(0, 0, 4, 4, gfx.White, gfx.FullRegion)
	ctx.PopRenderTarget()

	prog := sh.Object().(*shaderObject).program
	if got := drv.UniformFloats(prog, "u_Scale"); len(got) != 1 || got[0] != 0.5 {
		t.Errorf("u_Scale = %v", got)
	}
	draw := lastDraw(t, drv)
	target := rt.Target(0).Object().(*textureObject)
	if draw.Program != prog || draw.Textures[1] != target.name {
		t.Errorf("draw program %d units %v", draw.Program, draw.Textures)
	}
	flipped := gfx.FlipY.Mul4(gfx.PixelProjection(4, 4))
	if u := drv.UniformFloats(prog, mvpUniform); !reflect.DeepEqual(u, flipped[:]) {
		t.Errorf("target MVP = %v, want the flipped pixel projection", u)
	}
	if d.target != nil || drv.ViewportBox != [4]int32{0, 0, 8, 8} {
		t.Errorf("back buffer not restored: viewport %v", drv.ViewportBox)
	}

	pm, err := rt.Target(0).Pixmap()
	if err != nil {
		t.Fatalf("Pixmap: %v", err)
	}
	if c := pm.GetPixel(0, 0); c != gfx.Red {
		t.Errorf("target pixel = %v, want red", c)
	}
}

func TestSamplerOutlivesCallerRelease(t *testing.T) {
	ctx, _, drv := newTestContext(t, 8, 8)
	sh, err := ctx.NewShader(gfx.ShaderDesc{Label: "uniforms", Vertex: uniformVertex, Fragment: uniformFragment})
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	defer sh.Release()
	mask, err := ctx.NewTexture2D(gfx.TextureDesc{Label: "mask", Width: 2, Height: 2})
	if err != nil {
		t.Fatalf("NewTexture2D: %v", err)
	}
	name := mask.Object().(*textureObject).name

	ctx.SetShader(sh)
	sh.SetSampler2D("u_Mask", mask)
	mask.Release()
	ctx.DrawRectangle(0, 0, 4, 4, gfx.White, gfx.FullRegion)

	if got := lastDraw(t, drv).Textures[1]; got == 0 || got != name {
		t.Errorf("u_Mask unit = %d after the caller released, want texture %d", got, name)
	}
}

// randomFormat builds a format with a position and any mix of the other
// attributes.
func randomFormat(r *rand.Rand) gfx.VertexFormat {
	types := []gfx.Datatype{gfx.Float32, gfx.Uint32, gfx.Int32, gfx.Uint16, gfx.Int16, gfx.Uint8, gfx.Int8}
	var f gfx.VertexFormat
	_ = f.Set(gfx.AttribPosition, 1+r.Intn(4), gfx.Float32)
	for a := gfx.AttribColor; a < gfx.NumAttributes; a++ {
		_ = f.Set(a, r.Intn(gfx.MaxElementCount+1), types[r.Intn(len(types))])
	}
	return f
}

type formatCase struct{ f gfx.VertexFormat }

func (formatCase) Generate(r *rand.Rand, _ int) reflect.Value {
	return reflect.ValueOf(formatCase{randomFormat(r)})
}

func TestAttributePointersMatchFormat(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	check := func(fc formatCase) bool {
		f := fc.f
		va := gfx.NewVertexArray(f, 3)
		err := d.Draw(&gfx.DrawCall{Primitive: gfx.Triangles, Format: f, Vertices: va.Bytes(), VertexCount: 3, MVP: mgl32.Ident4()})
		if err != nil {
			t.Logf("Draw(%s): %v", f, err)
			return false
		}
		got := drv.Draws[len(drv.Draws)-1]
		if len(got.Vertices) != 3*f.VertexSize() {
			return false
		}
		for a := range gfx.NumAttributes {
			attr := got.Attribs[a]
			if attr.Enabled != f.Enabled(a) {
				return false
			}
			if !attr.Enabled {
				continue
			}
			if attr.Size != int32(f.ElementCount(a)) || attr.Type != dataType(f.Datatype(a)) ||
				attr.Offset != f.Offset(a) || attr.Stride != int32(f.VertexSize()) ||
				attr.Normalized != f.Normalized(a) {
				return false
			}
			if attr.Offset+f.AttributeSize(a) > f.VertexSize() {
				return false
			}
		}
		return true
	}
	if err := quick.Check(check, &quick.Config{MaxCount: 200}); err != nil {
		t.Error(err)
	}
}

func TestFlipYInvolution(t *testing.T) {
	check := func(m [16]float32) bool {
		mat := mgl32.Mat4(m)
		return gfx.FlipY.Mul4(gfx.FlipY.Mul4(mat)) == mat
	}
	if err := quick.Check(check, nil); err != nil {
		t.Error(err)
	}
}
