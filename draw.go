package gfx

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultArrowHeadSize is the length of arrow head strokes in pixels.
const DefaultArrowHeadSize = 10

// TempVertexArray returns the scratch array used by the drawing helpers,
// resized to n vertices of DefaultVertexFormat. The scratch buffer grows
// but never shrinks, and its contents are overwritten by the next helper.
func (c *Context) TempVertexArray(n int) *VertexArray {
	if c.temp == nil || c.temp.Cap() < n {
		c.temp = NewVertexArray(DefaultVertexFormat(), n)
		return c.temp
	}
	c.temp.Resize(n)
	return c.temp
}

// DrawPrimitives draws the first count vertices of va. A count of zero is a no-op.
func (c *Context) DrawPrimitives(prim PrimitiveType, va *VertexArray, count int) {
	c.drawArray("DrawPrimitives", prim, va, count)
}

// DrawIndexedPrimitives draws vertices of va selected by indices.
// An empty index list is a no-op.
func (c *Context) DrawIndexedPrimitives(prim PrimitiveType, va *VertexArray, indices []uint32) {
	if va == nil || va.Len() == 0 || len(indices) == 0 {
		return
	}
	for _, i := range indices {
		if int(i) >= va.Len() {
			Logger().Warn("gfx: index out of range", "index", i, "vertices", va.Len())
			return
		}
	}
	c.submit("DrawIndexedPrimitives", &DrawCall{
		Primitive:   prim,
		Format:      va.Format(),
		Vertices:    va.Bytes(),
		VertexCount: va.Len(),
		Indices:     indices,
		IndexCount:  len(indices),
	})
}

// DrawBuffer draws count vertices of vb starting at first.
func (c *Context) DrawBuffer(prim PrimitiveType, vb *VertexBuffer, first, count int) {
	if count <= 0 {
		return
	}
	obj := vb.Object()
	if obj == nil || first < 0 || first+count > vb.Len() {
		Logger().Warn("gfx: DrawBuffer range invalid", "first", first, "count", count)
		return
	}
	c.submit("DrawBuffer", &DrawCall{
		Primitive:    prim,
		Format:       vb.Format(),
		VertexBuffer: obj,
		FirstVertex:  first,
		VertexCount:  count,
	})
}

// DrawIndexedBuffer draws the first count indices of ib over vb.
func (c *Context) DrawIndexedBuffer(prim PrimitiveType, vb *VertexBuffer, ib *IndexBuffer, count int) {
	if count <= 0 {
		return
	}
	vobj, iobj := vb.Object(), ib.Object()
	if vobj == nil || iobj == nil || count > ib.Len() {
		Logger().Warn("gfx: DrawIndexedBuffer range invalid", "count", count)
		return
	}
	if m := ib.maxIndex(count); int(m) >= vb.Len() {
		Logger().Warn("gfx: index out of range", "index", m, "vertices", vb.Len())
		return
	}
	c.submit("DrawIndexedBuffer", &DrawCall{
		Primitive:    prim,
		Format:       vb.Format(),
		VertexBuffer: vobj,
		VertexCount:  vb.Len(),
		IndexBuffer:  iobj,
		IndexCount:   count,
	})
}

func (c *Context) drawArray(op string, prim PrimitiveType, va *VertexArray, count int) {
	if va == nil || count <= 0 {
		return
	}
	count = min(count, va.Len())
	if count == 0 {
		return
	}
	c.submit(op, &DrawCall{
		Primitive:   prim,
		Format:      va.Format(),
		Vertices:    va.Bytes()[:count*va.Format().VertexSize()],
		VertexCount: count,
	})
}

// submit completes dc from the current state and hands it to the device.
// Device failures are fatal.
func (c *Context) submit(op string, dc *DrawCall) {
	if c.closed {
		Logger().Warn("gfx: draw after Close", "op", op)
		return
	}
	s := c.top()
	dc.Blend = s.Blend
	dc.Shader = s.Shader.Object()
	dc.Texture = s.Texture.Object()
	dc.MVP = s.Projection.Mul4(s.Transform())

	for _, obj := range []DeviceObject{dc.Shader, dc.Texture, dc.VertexBuffer, dc.IndexBuffer} {
		if !ownedBy(c.dev, obj) {
			fatal(op, fmt.Errorf("%w: %s object on %s device", ErrForeignObject, obj.Backend(), c.dev.Name()))
		}
	}
	if err := c.dev.Draw(dc); err != nil {
		fatal(op, err)
	}
}

func (c *Context) setVertex(v Vertex, x, y float32, col Color, u, t float32) {
	v.SetPosition(x, y)
	v.SetColor(col)
	v.SetTexCoord(u, t)
}

// DrawRectangle draws a filled rectangle textured with region of the
// current texture.
func (c *Context) DrawRectangle(x, y, w, h float32, col Color, region TextureRegion) {
	c.drawRectangle("DrawRectangle", x, y, w, h, col, region)
}

func (c *Context) drawRectangle(op string, x, y, w, h float32, col Color, r TextureRegion) {
	va := c.TempVertexArray(4)
	c.setVertex(va.Vertex(0), x, y, col, r.U0, r.V0)
	c.setVertex(va.Vertex(1), x, y+h, col, r.U0, r.V1)
	c.setVertex(va.Vertex(2), x+w, y, col, r.U1, r.V0)
	c.setVertex(va.Vertex(3), x+w, y+h, col, r.U1, r.V1)
	c.drawArray(op, TriangleStrip, va, 4)
}

// DrawRectangleOutline draws the four edges of a rectangle as separate
// line segments, so each corner keeps its own texture coordinate.
func (c *Context) DrawRectangleOutline(x, y, w, h float32, col Color, r TextureRegion) {
	va := c.TempVertexArray(8)
	c.setVertex(va.Vertex(0), x, y, col, r.U0, r.V0)
	c.setVertex(va.Vertex(1), x+w, y, col, r.U1, r.V0)
	c.setVertex(va.Vertex(2), x+w, y, col, r.U1, r.V0)
	c.setVertex(va.Vertex(3), x+w, y+h, col, r.U1, r.V1)
	c.setVertex(va.Vertex(4), x+w, y+h, col, r.U1, r.V1)
	c.setVertex(va.Vertex(5), x, y+h, col, r.U0, r.V1)
	c.setVertex(va.Vertex(6), x, y+h, col, r.U0, r.V1)
	c.setVertex(va.Vertex(7), x, y, col, r.U0, r.V0)
	c.drawArray("DrawRectangleOutline", Lines, va, 8)
}

// DrawCircle draws a filled circle tessellated into segments wedges.
func (c *Context) DrawCircle(x, y, radius float32, segments int, col Color) {
	c.drawCircle("DrawCircle", x, y, radius, segments, col, col)
}

// DrawCircleGradient draws a filled circle whose color fades from center
// to outer along the radius.
func (c *Context) DrawCircleGradient(x, y, radius float32, segments int, center, outer Color) {
	c.drawCircle("DrawCircleGradient", x, y, radius, segments, center, outer)
}

func (c *Context) drawCircle(op string, x, y, radius float32, segments int, center, outer Color) {
	if segments < 3 {
		segments = 3
	}
	va := c.TempVertexArray(segments + 2)
	c.setVertex(va.Vertex(0), x, y, center, 0.5, 0.5)
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		cos, sin := float32(math.Cos(a)), float32(math.Sin(a))
		c.setVertex(va.Vertex(i+1), x+radius*cos, y+radius*sin, outer, (1+cos)/2, (1+sin)/2)
	}
	c.drawArray(op, TriangleFan, va, segments+2)
}

// DrawArrow draws a line from p0 to p1 with a two-stroke head at p1.
// A headSize of zero or less uses DefaultArrowHeadSize.
func (c *Context) DrawArrow(p0, p1 mgl32.Vec2, col Color, headSize float32) {
	if headSize <= 0 {
		headSize = DefaultArrowHeadSize
	}
	dir := p0.Sub(p1)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(headSize / l)
	}
	left := mgl32.Rotate2D(math.Pi / 6).Mul2x1(dir)
	right := mgl32.Rotate2D(-math.Pi / 6).Mul2x1(dir)

	va := c.TempVertexArray(6)
	c.setVertex(va.Vertex(0), p0.X(), p0.Y(), col, 0, 0)
	c.setVertex(va.Vertex(1), p1.X(), p1.Y(), col, 0, 0)
	c.setVertex(va.Vertex(2), p1.X(), p1.Y(), col, 0, 0)
	c.setVertex(va.Vertex(3), p1.X()+left.X(), p1.Y()+left.Y(), col, 0, 0)
	c.setVertex(va.Vertex(4), p1.X(), p1.Y(), col, 0, 0)
	c.setVertex(va.Vertex(5), p1.X()+right.X(), p1.Y()+right.Y(), col, 0, 0)
	c.drawArray("DrawArrow", Lines, va, 6)
}
