package gl

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx"
	"github.com/gogpu/gpucontext"
)

func newFakeDevice(t *testing.T, w, h int) (*Device, *FakeDriver) {
	t.Helper()
	drv := NewFakeDriver(w, h)
	d, err := NewDevice(drv, w, h, Options{Debug: true})
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return d, drv
}

func triangle() *gfx.DrawCall {
	va := gfx.NewVertexArray(gfx.DefaultVertexFormat(), 3)
	va.Vertex(0).SetPosition(0, 0)
	va.Vertex(1).SetPosition(10, 0)
	va.Vertex(2).SetPosition(0, 10)
	return &gfx.DrawCall{
		Primitive:   gfx.Triangles,
		Format:      va.Format(),
		Vertices:    va.Bytes(),
		VertexCount: va.Len(),
		Blend:       gfx.AlphaBlend,
		MVP:         mgl32.Ident4(),
	}
}

func mustTexture(t *testing.T, d *Device, label string, w, h int) *textureObject {
	t.Helper()
	obj, err := d.NewTexture(gfx.TextureDesc{Label: label, Width: w, Height: h})
	if err != nil {
		t.Fatalf("NewTexture(%s): %v", label, err)
	}
	return obj.(*textureObject)
}

func lastDraw(t *testing.T, drv *FakeDriver) FakeDraw {
	t.Helper()
	if len(drv.Draws) == 0 {
		t.Fatal("no draw recorded")
	}
	return drv.Draws[len(drv.Draws)-1]
}

type swapWindow struct {
	gpucontext.NullWindowProvider
	swaps    int
	interval int
}

func (w *swapWindow) SwapBuffers() { w.swaps++ }

func (w *swapWindow) SwapInterval(interval int) { w.interval = interval }

func TestNewDeviceRejects(t *testing.T) {
	if _, err := NewDevice(nil, 4, 4, Options{}); !errors.Is(err, ErrNoDriver) {
		t.Errorf("NewDevice(nil) error = %v, want ErrNoDriver", err)
	}
	if _, err := NewDevice(NewFakeDriver(4, 4), 0, 4, Options{}); !errors.Is(err, gfx.ErrInvalidDimensions) {
		t.Errorf("NewDevice(0x4) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestPassthroughShader(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	s := d.passthrough
	for i, name := range attribNames {
		if loc, ok := drv.AttribLocation(s.program, name); !ok || loc != uint32(i) {
			t.Errorf("attribute %s at %d (bound %v), want %d", name, loc, ok, i)
		}
	}
	for _, name := range []string{mvpUniform, textureUniform} {
		if _, ok := s.uniforms[name]; !ok {
			t.Errorf("uniform %s not reflected", name)
		}
	}
	if got := drv.UniformInts(s.program, textureUniform); !slices.Equal(got, []int32{0}) {
		t.Errorf("u_Texture unit = %v, want [0]", got)
	}
}

func TestDrawImmediate(t *testing.T) {
	d, drv := newFakeDevice(t, 16, 16)
	dc := triangle()
	if err := d.Draw(dc); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	got := lastDraw(t, drv)
	if got.Mode != TRIANGLES || got.Count != 3 || got.Indexed {
		t.Errorf("draw = mode %d count %d indexed %v", got.Mode, got.Count, got.Indexed)
	}
	if !bytes.Equal(got.Vertices, dc.Vertices) {
		t.Error("streamed vertices differ from the draw call")
	}
	if got.Program != d.passthrough.program {
		t.Error("draw did not use the passthrough program")
	}
	if got.Textures[0] != d.white.name {
		t.Errorf("unit 0 = %d, want white texture %d", got.Textures[0], d.white.name)
	}
	mvp := mgl32.Ident4()
	if u := drv.UniformFloats(got.Program, mvpUniform); !slices.Equal(u, mvp[:]) {
		t.Errorf("u_ModelViewProj = %v, want identity", u)
	}

	f := dc.Format
	for a := range gfx.NumAttributes {
		attr := got.Attribs[a]
		if attr.Enabled != f.Enabled(a) {
			t.Errorf("%s enabled = %v", a, attr.Enabled)
			continue
		}
		if !attr.Enabled {
			continue
		}
		if attr.Size != int32(f.ElementCount(a)) || attr.Offset != f.Offset(a) ||
			attr.Stride != int32(f.VertexSize()) || attr.Normalized != f.Normalized(a) {
			t.Errorf("%s pointer = %+v", a, attr)
		}
	}
	if got.Attribs[gfx.AttribColor].Type != UNSIGNED_BYTE || !got.Attribs[gfx.AttribColor].Normalized {
		t.Errorf("color pointer = %+v, want normalized unsigned bytes", got.Attribs[gfx.AttribColor])
	}
	if d.DrawCount() != 1 {
		t.Errorf("DrawCount() = %d, want 1", d.DrawCount())
	}
}

func TestDisabledColorReadsWhite(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	var f gfx.VertexFormat
	if err := f.Set(gfx.AttribPosition, 3, gfx.Float32); err != nil {
		t.Fatal(err)
	}
	va := gfx.NewVertexArray(f, 3)
	err := d.Draw(&gfx.DrawCall{Primitive: gfx.Points, Format: f, Vertices: va.Bytes(), VertexCount: 3, MVP: mgl32.Ident4()})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	got := lastDraw(t, drv)
	if got.Mode != POINTS {
		t.Errorf("mode = %d, want POINTS", got.Mode)
	}
	color := got.Attribs[gfx.AttribColor]
	if color.Enabled || color.Value != [4]float32{1, 1, 1, 1} {
		t.Errorf("color attribute = %+v, want disabled opaque white", color)
	}
	if tc := got.Attribs[gfx.AttribTexCoord]; tc.Enabled || tc.Value != [4]float32{0, 0, 0, 1} {
		t.Errorf("texcoord attribute = %+v, want disabled zero", tc)
	}
}

func TestDrawRequiresPosition(t *testing.T) {
	d, _ := newFakeDevice(t, 4, 4)
	var f gfx.VertexFormat
	if err := f.Set(gfx.AttribColor, 4, gfx.Uint8); err != nil {
		t.Fatal(err)
	}
	err := d.Draw(&gfx.DrawCall{Primitive: gfx.Points, Format: f, Vertices: make([]byte, 4), VertexCount: 1})
	if !errors.Is(err, gfx.ErrFormatMismatch) {
		t.Errorf("Draw without position error = %v, want ErrFormatMismatch", err)
	}
}

func TestDrawTopologiesPassThrough(t *testing.T) {
	tests := []struct {
		prim gfx.PrimitiveType
		mode uint32
	}{
		{gfx.Points, POINTS},
		{gfx.Lines, LINES},
		{gfx.LineStrip, LINE_STRIP},
		{gfx.LineLoop, LINE_LOOP},
		{gfx.Triangles, TRIANGLES},
		{gfx.TriangleStrip, TRIANGLE_STRIP},
		{gfx.TriangleFan, TRIANGLE_FAN},
	}
	d, drv := newFakeDevice(t, 4, 4)
	for _, tt := range tests {
		t.Run(tt.prim.String(), func(t *testing.T) {
			dc := triangle()
			dc.Primitive = tt.prim
			if err := d.Draw(dc); err != nil {
				t.Fatalf("Draw: %v", err)
			}
			if got := lastDraw(t, drv); got.Mode != tt.mode || got.Count != 3 {
				t.Errorf("mode %d count %d, want %d and 3", got.Mode, got.Count, tt.mode)
			}
		})
	}
}

func TestDrawIndexedImmediate(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	dc := triangle()
	dc.Indices = []uint32{2, 1, 0, 0}
	dc.IndexCount = 3
	if err := d.Draw(dc); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	got := lastDraw(t, drv)
	if !got.Indexed || !slices.Equal(got.Indices, []uint32{2, 1, 0}) {
		t.Errorf("indexed draw = %v %v", got.Indexed, got.Indices)
	}

	dc.IndexCount = 5
	if err := d.Draw(dc); !errors.Is(err, gfx.ErrOutOfRange) {
		t.Errorf("Draw past the index list error = %v, want ErrOutOfRange", err)
	}
}

func TestDrawPersistentBuffers(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	va := gfx.NewVertexArray(gfx.DefaultVertexFormat(), 4)
	vbo, err := d.NewVertexBuffer(gfx.VertexBufferDesc{Label: "quad", Vertices: va, Format: va.Format()})
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	ibo, err := d.NewIndexBuffer(gfx.IndexBufferDesc{Label: "quad", Indices: []uint32{0, 1, 2, 2, 1, 3}})
	if err != nil {
		t.Fatalf("NewIndexBuffer: %v", err)
	}
	if err := ibo.Update(3, []uint32{3, 3, 3}); err != nil {
		t.Fatalf("index Update: %v", err)
	}
	if err := ibo.Update(4, []uint32{0, 0, 0}); !errors.Is(err, gfx.ErrOutOfRange) {
		t.Errorf("index Update past the end error = %v, want ErrOutOfRange", err)
	}
	patch := []byte{1, 2, 3, 4}
	if err := vbo.Update(va.Format().VertexSize(), patch); err != nil {
		t.Fatalf("vertex Update: %v", err)
	}
	data, _ := drv.Buffer(vbo.(*vertexBufferObject).name)
	if !bytes.Equal(data[va.Format().VertexSize():][:4], patch) {
		t.Error("vertex Update did not reach the buffer")
	}

	err = d.Draw(&gfx.DrawCall{
		Primitive:    gfx.Triangles,
		Format:       va.Format(),
		VertexBuffer: vbo,
		VertexCount:  4,
		IndexBuffer:  ibo,
		IndexCount:   6,
		MVP:          mgl32.Ident4(),
	})
	if err != nil {
		t.Fatalf("indexed Draw: %v", err)
	}
	if got := lastDraw(t, drv); !slices.Equal(got.Indices, []uint32{0, 1, 2, 3, 3, 3}) {
		t.Errorf("indices = %v", got.Indices)
	}

	err = d.Draw(&gfx.DrawCall{
		Primitive:    gfx.Triangles,
		Format:       va.Format(),
		VertexBuffer: vbo,
		FirstVertex:  1,
		VertexCount:  3,
		MVP:          mgl32.Ident4(),
	})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if got := lastDraw(t, drv); got.First != 1 || got.Count != 3 || got.Indexed {
		t.Errorf("draw = first %d count %d indexed %v", got.First, got.Count, got.Indexed)
	}
}

func TestDrawRejectsForeignObjects(t *testing.T) {
	d, _ := newFakeDevice(t, 4, 4)
	other, _ := newFakeDevice(t, 4, 4)
	tex := mustTexture(t, other, "other", 1, 1)

	dc := triangle()
	dc.Texture = tex
	if err := d.Draw(dc); !errors.Is(err, gfx.ErrForeignObject) {
		t.Errorf("Draw with another device's texture error = %v, want ErrForeignObject", err)
	}
	if _, err := d.NewRenderTarget("rt", 1, 1, []gfx.TextureObject{tex}); !errors.Is(err, gfx.ErrForeignObject) {
		t.Errorf("NewRenderTarget with another device's texture error = %v", err)
	}

	var f gfx.VertexFormat
	_ = f.Set(gfx.AttribPosition, 2, gfx.Float32)
	vbo, err := d.NewVertexBuffer(gfx.VertexBufferDesc{Vertices: gfx.NewVertexArray(f, 3), Format: f})
	if err != nil {
		t.Fatalf("NewVertexBuffer: %v", err)
	}
	dc = triangle()
	dc.Vertices = nil
	dc.VertexBuffer = vbo
	if err := d.Draw(dc); !errors.Is(err, gfx.ErrFormatMismatch) {
		t.Errorf("Draw with mismatched buffer format error = %v, want ErrFormatMismatch", err)
	}
}

func TestBlendSetOnlyWhenEnabled(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	dc := triangle()
	dc.Blend = gfx.Additive
	if err := d.Draw(dc); err != nil {
		t.Fatal(err)
	}
	if n := drv.CallCount("BlendFuncSeparate"); n != 0 {
		t.Errorf("BlendFuncSeparate called %d times with blending off", n)
	}

	d.Enable(gfx.CapBlend)
	if !drv.IsEnabled(BLEND) {
		t.Error("GL_BLEND not enabled")
	}
	if err := d.Draw(dc); err != nil {
		t.Fatal(err)
	}
	want := [4]uint32{
		blendFactor(gfx.Additive.SrcColor), blendFactor(gfx.Additive.DstColor),
		blendFactor(gfx.Additive.SrcAlpha), blendFactor(gfx.Additive.DstAlpha),
	}
	if drv.Blend != want {
		t.Errorf("blend func = %v, want %v", drv.Blend, want)
	}
}

func TestCapabilities(t *testing.T) {
	drv := NewFakeDriver(8, 8)
	win := &swapWindow{NullWindowProvider: gpucontext.NullWindowProvider{W: 8, H: 8, SF: 1}}
	d, err := Open(drv, win, gfx.Config{VSync: true}, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if win.interval != 1 || !d.IsEnabled(gfx.CapVSync) {
		t.Errorf("vsync interval = %d, want 1", win.interval)
	}
	d.Disable(gfx.CapVSync)
	if win.interval != 0 {
		t.Errorf("vsync interval = %d after Disable, want 0", win.interval)
	}

	d.Enable(gfx.CapWireframe)
	if drv.PolygonModeValue != LINE {
		t.Errorf("polygon mode = 0x%X, want GL_LINE", drv.PolygonModeValue)
	}
	d.Disable(gfx.CapWireframe)
	if drv.PolygonModeValue != FILL {
		t.Errorf("polygon mode = 0x%X, want GL_FILL", drv.PolygonModeValue)
	}

	caps := map[gfx.Capability]uint32{
		gfx.CapDepthTest:     DEPTH_TEST,
		gfx.CapFaceCulling:   CULL_FACE,
		gfx.CapLineSmooth:    LINE_SMOOTH,
		gfx.CapPolygonSmooth: POLYGON_SMOOTH,
		gfx.CapMultisample:   MULTISAMPLE,
	}
	for c, glcap := range caps {
		d.Enable(c)
		if !d.IsEnabled(c) || !drv.IsEnabled(glcap) {
			t.Errorf("%s not enabled", c)
		}
		d.Disable(c)
		if d.IsEnabled(c) || drv.IsEnabled(glcap) {
			t.Errorf("%s still enabled", c)
		}
	}

	d.SetPointSize(4)
	d.SetLineWidth(2)
	if drv.PointSizeValue != 4 || drv.LineWidthValue != 2 {
		t.Errorf("point size %v line width %v", drv.PointSizeValue, drv.LineWidthValue)
	}

	if err := d.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if win.swaps != 1 {
		t.Errorf("swaps = %d, want 1", win.swaps)
	}
}

func TestViewportAndScissorOrigin(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	d.SetViewport(gfx.Rect{X: 1, Width: 2, Height: 1})
	if drv.ViewportBox != [4]int32{1, 3, 2, 1} {
		t.Errorf("viewport = %v, want [1 3 2 1]", drv.ViewportBox)
	}

	d.EnableScissor(gfx.Rect{Width: 4, Height: 1})
	if drv.ScissorBox != [4]int32{0, 3, 4, 1} {
		t.Errorf("scissor = %v, want [0 3 4 1]", drv.ScissorBox)
	}
	if err := d.Clear(gfx.ColorBuffer, gfx.ClearValues{Color: gfx.Red}); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	d.DisableScissor()
	if drv.IsEnabled(SCISSOR_TEST) {
		t.Error("scissor test still enabled")
	}

	pm, err := d.ReadBackBuffer()
	if err != nil {
		t.Fatalf("ReadBackBuffer: %v", err)
	}
	for x := range 4 {
		if c := pm.GetPixel(x, 0); c != gfx.Red {
			t.Errorf("top row pixel %d = %v, want red", x, c)
		}
		if c := pm.GetPixel(x, 3); c != gfx.Transparent {
			t.Errorf("bottom row pixel %d = %v, want transparent", x, c)
		}
	}
}

func TestClearEmptyMask(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	if err := d.Clear(0, gfx.DefaultClearValues); err != nil {
		t.Fatal(err)
	}
	if n := drv.CallCount("Clear"); n != 0 {
		t.Errorf("Clear called %d times for an empty mask", n)
	}
}

func TestDebugReportsGLErrors(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	drv.Raise(OUT_OF_MEMORY)
	err := d.Clear(gfx.ColorBuffer, gfx.DefaultClearValues)
	var ce *CallError
	if !errors.As(err, &ce) || ce.Code != OUT_OF_MEMORY || ce.Call != "Clear" {
		t.Fatalf("Clear error = %v, want *CallError GL_OUT_OF_MEMORY", err)
	}

	quiet, err := NewDevice(NewFakeDriver(4, 4), 4, 4, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer quiet.Close()
	quiet.drv.(*FakeDriver).Raise(OUT_OF_MEMORY)
	if err := quiet.Clear(gfx.ColorBuffer, gfx.DefaultClearValues); err != nil {
		t.Errorf("Clear without debug checks = %v, want nil", err)
	}
}

func TestResize(t *testing.T) {
	d, drv := newFakeDevice(t, 4, 4)
	if err := d.Resize(8, 6); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	d.SetViewport(gfx.Rect{Width: 8, Height: 2})
	if drv.ViewportBox != [4]int32{0, 4, 8, 2} {
		t.Errorf("viewport after resize = %v, want [0 4 8 2]", drv.ViewportBox)
	}
	if err := d.Resize(-1, 6); !errors.Is(err, gfx.ErrInvalidDimensions) {
		t.Errorf("Resize(-1, 6) error = %v", err)
	}
}

func TestCloseDeletesEverything(t *testing.T) {
	drv := NewFakeDriver(4, 4)
	d, err := NewDevice(drv, 4, 4, Options{})
	if err != nil {
		t.Fatal(err)
	}
	tex := mustTexture(t, d, "t", 2, 2)
	tex.Destroy()
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := drv.Live(); n != 0 {
		t.Errorf("%d GL objects alive after Close", n)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := d.Draw(triangle()); !errors.Is(err, gfx.ErrClosed) {
		t.Errorf("Draw after Close error = %v, want ErrClosed", err)
	}
	if _, err := d.NewTexture(gfx.TextureDesc{Width: 1, Height: 1}); !errors.Is(err, gfx.ErrClosed) {
		t.Errorf("NewTexture after Close error = %v, want ErrClosed", err)
	}
}
