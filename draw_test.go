package gfx

import (
	"errors"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestDrawZeroCountIsNoop(t *testing.T) {
	c, dev := newTestContext(t)
	va := NewVertexArray(DefaultVertexFormat(), 0)
	c.DrawPrimitives(Triangles, va, 0)
	c.DrawPrimitives(Triangles, NewVertexArray(DefaultVertexFormat(), 3), 0)
	c.DrawIndexedPrimitives(Triangles, va, nil)
	c.DrawPrimitives(Triangles, nil, 3)
	if len(dev.draws) != 0 {
		t.Errorf("got %d draws, want 0", len(dev.draws))
	}
}

func TestDrawPrimitivesResolvesState(t *testing.T) {
	c, dev := newTestContext(t)
	sh, err := c.NewShader(ShaderDesc{Label: "s", Vertex: "v"})
	if err != nil {
		t.Fatal(err)
	}
	defer sh.Release()
	c.SetShader(sh)
	c.SetBlendState(Additive)
	c.PushMatrix(mgl32.Translate3D(1, 2, 0))

	va := NewVertexArray(DefaultVertexFormat(), 5)
	c.DrawPrimitives(Points, va, 3)

	if len(dev.draws) != 1 {
		t.Fatalf("got %d draws, want 1", len(dev.draws))
	}
	dc := dev.draws[0]
	if dc.VertexCount != 3 || len(dc.Vertices) != 3*va.Format().VertexSize() {
		t.Errorf("vertex count %d, %d bytes", dc.VertexCount, len(dc.Vertices))
	}
	if dc.Shader != sh.Object() || dc.Blend != Additive {
		t.Error("shader or blend not taken from the current state")
	}
	if want := PixelProjection(800, 600).Mul4(mgl32.Translate3D(1, 2, 0)); dc.MVP != want {
		t.Errorf("MVP = %v, want %v", dc.MVP, want)
	}
	if dc.Indexed() {
		t.Error("plain draw reported as indexed")
	}
}

func TestDrawCountClampedToLength(t *testing.T) {
	c, dev := newTestContext(t)
	c.DrawPrimitives(Lines, NewVertexArray(DefaultVertexFormat(), 2), 10)
	if len(dev.draws) != 1 || dev.draws[0].VertexCount != 2 {
		t.Fatalf("draws = %+v", dev.draws)
	}
}

func TestDrawIndexedRejectsOutOfRange(t *testing.T) {
	c, dev := newTestContext(t)
	va := NewVertexArray(DefaultVertexFormat(), 3)
	c.DrawIndexedPrimitives(Triangles, va, []uint32{0, 1, 3})
	if len(dev.draws) != 0 {
		t.Fatal("out-of-range index was submitted")
	}
	c.DrawIndexedPrimitives(Triangles, va, []uint32{0, 1, 2})
	if len(dev.draws) != 1 || !dev.draws[0].Indexed() || dev.draws[0].IndexCount != 3 {
		t.Errorf("draws = %+v", dev.draws)
	}
}

func TestDrawBuffers(t *testing.T) {
	c, dev := newTestContext(t)
	vb, err := c.NewVertexBuffer(VertexBufferDesc{Label: "vb", Format: DefaultVertexFormat(), Count: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer vb.Release()
	ib, err := c.NewIndexBuffer(IndexBufferDesc{Label: "ib", Indices: []uint32{0, 1, 2, 2, 1, 3}})
	if err != nil {
		t.Fatal(err)
	}
	defer ib.Release()

	c.DrawBuffer(Triangles, vb, 5, 3)
	if len(dev.draws) != 0 {
		t.Fatal("out-of-range buffer draw was submitted")
	}
	c.DrawBuffer(Triangles, vb, 1, 3)
	c.DrawIndexedBuffer(Triangles, vb, ib, 6)
	if len(dev.draws) != 2 {
		t.Fatalf("got %d draws, want 2", len(dev.draws))
	}
	if d := dev.draws[0]; d.VertexBuffer != vb.Object() || d.FirstVertex != 1 || d.VertexCount != 3 {
		t.Errorf("DrawBuffer call = %+v", d)
	}
	if d := dev.draws[1]; d.IndexBuffer != ib.Object() || d.IndexCount != 6 {
		t.Errorf("DrawIndexedBuffer call = %+v", d)
	}
}

func TestDrawIndexedBufferRejectsOutOfRange(t *testing.T) {
	c, dev := newTestContext(t)
	vb, err := c.NewVertexBuffer(VertexBufferDesc{Label: "vb", Format: DefaultVertexFormat(), Count: 3})
	if err != nil {
		t.Fatal(err)
	}
	defer vb.Release()
	ib, err := c.NewIndexBuffer(IndexBufferDesc{Label: "ib", Indices: []uint32{0, 1, 2, 5}})
	if err != nil {
		t.Fatal(err)
	}
	defer ib.Release()

	c.DrawIndexedBuffer(Triangles, vb, ib, 4)
	if len(dev.draws) != 0 {
		t.Fatal("index 5 was submitted against 3 vertices")
	}
	c.DrawIndexedBuffer(Triangles, vb, ib, 3)
	if len(dev.draws) != 1 {
		t.Fatalf("got %d draws, want 1 for the in-range prefix", len(dev.draws))
	}
	if err := ib.Update(0, []uint32{7}); err != nil {
		t.Fatal(err)
	}
	c.DrawIndexedBuffer(Triangles, vb, ib, 3)
	if len(dev.draws) != 1 {
		t.Error("updated out-of-range index was submitted")
	}
}

func TestDrawRectangleVertices(t *testing.T) {
	c, dev := newTestContext(t)
	c.DrawRectangle(10, 20, 30, 40, Red, FullRegion)
	if len(dev.draws) != 1 {
		t.Fatalf("got %d draws, want 1", len(dev.draws))
	}
	dc := dev.draws[0]
	if dc.Primitive != TriangleStrip || dc.VertexCount != 4 {
		t.Fatalf("primitive %v count %d", dc.Primitive, dc.VertexCount)
	}
	va := NewVertexArray(dc.Format, 4)
	copy(va.Bytes(), dc.Vertices)
	want := [][4]float32{{10, 20, 0, 0}, {10, 60, 0, 1}, {40, 20, 1, 0}, {40, 60, 1, 1}}
	for i, w := range want {
		v := va.Vertex(i)
		got := [4]float32{
			v.Float32(AttribPosition, 0), v.Float32(AttribPosition, 1),
			v.Float32(AttribTexCoord, 0), v.Float32(AttribTexCoord, 1),
		}
		if got != w {
			t.Errorf("vertex %d = %v, want %v", i, got, w)
		}
		if v.Uint8(AttribColor, 0) != 255 || v.Uint8(AttribColor, 1) != 0 {
			t.Errorf("vertex %d color not red", i)
		}
	}
}

func TestDrawHelpersVertexCounts(t *testing.T) {
	c, dev := newTestContext(t)
	c.DrawRectangleOutline(0, 0, 10, 10, White, FullRegion)
	c.DrawCircle(50, 50, 10, 16, White)
	c.DrawCircleGradient(50, 50, 10, 1, White, Transparent)
	c.DrawArrow(mgl32.Vec2{0, 0}, mgl32.Vec2{100, 0}, White, 0)

	want := []struct {
		prim  PrimitiveType
		count int
	}{
		{Lines, 8},
		{TriangleFan, 18},
		{TriangleFan, 5},
		{Lines, 6},
	}
	if len(dev.draws) != len(want) {
		t.Fatalf("got %d draws, want %d", len(dev.draws), len(want))
	}
	for i, w := range want {
		if dev.draws[i].Primitive != w.prim || dev.draws[i].VertexCount != w.count {
			t.Errorf("draw %d = %v/%d, want %v/%d", i, dev.draws[i].Primitive, dev.draws[i].VertexCount, w.prim, w.count)
		}
	}
}

func TestDrawArrowHead(t *testing.T) {
	c, dev := newTestContext(t)
	c.DrawArrow(mgl32.Vec2{0, 0}, mgl32.Vec2{100, 0}, White, 10)
	va := NewVertexArray(dev.draws[0].Format, 6)
	copy(va.Bytes(), dev.draws[0].Vertices)
	for _, i := range []int{3, 5} {
		v := va.Vertex(i)
		x, y := v.Float32(AttribPosition, 0), v.Float32(AttribPosition, 1)
		if x >= 100 || x < 90 {
			t.Errorf("head vertex %d x = %v, want behind the tip", i, x)
		}
		if mgl32.Abs(y) < 4 || mgl32.Abs(y) > 6 {
			t.Errorf("head vertex %d y = %v, want about ±5", i, y)
		}
	}
}

func TestTempVertexArrayGrowOnly(t *testing.T) {
	c, _ := newTestContext(t)
	a := c.TempVertexArray(16)
	b := c.TempVertexArray(4)
	if a != b || b.Len() != 4 || b.Cap() < 16 {
		t.Errorf("TempVertexArray shrank: len %d cap %d", b.Len(), b.Cap())
	}
	if d := c.TempVertexArray(32); d.Cap() < 32 || d.Len() != 32 {
		t.Errorf("TempVertexArray did not grow: len %d cap %d", d.Len(), d.Cap())
	}
}

func TestDrawTexture(t *testing.T) {
	c, dev := newTestContext(t)
	tex, err := c.NewTextureFromRGBA(2, 3, make([]byte, 2*3*4))
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DrawTexture(tex, 5, 5); err != nil {
		t.Fatal(err)
	}
	if len(dev.draws) != 1 || dev.draws[0].Texture != tex.(*Texture2D).Object() {
		t.Fatal("DrawTexture did not draw with the texture")
	}
	if c.Texture() != nil || c.StateDepth() != 1 {
		t.Error("DrawTexture leaked state")
	}
	tex.(*Texture2D).Release()
}

func TestDrawForeignObjectPanics(t *testing.T) {
	c, dev := newTestContext(t)
	foreign := &fakeTexture{fakeObject: fakeObject{dev: dev, name: "other"}, pm: NewPixmap(1, 1)}
	tex := &Texture2D{obj: foreign, width: 1, height: 1}
	tex.rc.init()
	c.SetTexture(tex)

	defer func() {
		derr, ok := recover().(*DeviceError)
		if !ok || !errors.Is(derr, ErrForeignObject) {
			t.Fatalf("recovered %v, want ErrForeignObject", derr)
		}
		if derr.File != "draw_test.go" {
			t.Errorf("call site file = %s", derr.File)
		}
	}()
	c.DrawRectangle(0, 0, 1, 1, White, FullRegion)
}

func TestDrawDeviceErrorPanics(t *testing.T) {
	c, dev := newTestContext(t)
	dev.drawErr = errFakeDraw
	defer func() {
		derr, ok := recover().(*DeviceError)
		if !ok || !errors.Is(derr, errFakeDraw) || derr.Op != "DrawCircle" {
			t.Fatalf("recovered %v", derr)
		}
	}()
	c.DrawCircle(0, 0, 1, 8, White)
}

func TestListTopology(t *testing.T) {
	tests := []struct {
		name     string
		prim     PrimitiveType
		indices  []uint32
		count    int
		wantPrim PrimitiveType
		want     []uint32
		changed  bool
	}{
		{"fan", TriangleFan, nil, 5, Triangles, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}, true},
		{"indexed fan", TriangleFan, []uint32{7, 8, 9, 6}, 0, Triangles, []uint32{7, 8, 9, 7, 9, 6}, true},
		{"degenerate fan", TriangleFan, nil, 2, Triangles, nil, true},
		{"loop", LineLoop, nil, 3, Lines, []uint32{0, 1, 1, 2, 2, 0}, true},
		{"strip unchanged", TriangleStrip, nil, 4, TriangleStrip, nil, false},
		{"lines unchanged", Lines, []uint32{1, 0}, 0, Lines, []uint32{1, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prim, got, changed := ListTopology(tt.prim, tt.indices, tt.count)
			if prim != tt.wantPrim || changed != tt.changed || !slices.Equal(got, tt.want) {
				t.Errorf("ListTopology() = %v %v %v, want %v %v %v", prim, got, changed, tt.wantPrim, tt.want, tt.changed)
			}
		})
	}
}
