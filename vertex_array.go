package gfx

import (
	"encoding/binary"
	"math"
)

// VertexArray is contiguous, format-tagged vertex storage.
//
// All Vertex views returned by Vertex point into a single backing buffer.
// Resize within capacity never reallocates; growing past capacity
// reallocates and copies the existing vertices. Assigning a VertexArray
// value shares storage, use Clone for an independent copy.
type VertexArray struct {
	format VertexFormat
	data   []byte
	count  int
	cap    int
}

// NewVertexArray returns an array of n zeroed vertices in format f.
func NewVertexArray(f VertexFormat, n int) *VertexArray {
	if n < 0 {
		n = 0
	}
	return &VertexArray{
		format: f,
		data:   make([]byte, n*f.VertexSize()),
		count:  n,
		cap:    n,
	}
}

// Format returns the vertex format of the array.
func (va *VertexArray) Format() VertexFormat { return va.format }

// Len returns the number of vertices.
func (va *VertexArray) Len() int { return va.count }

// Cap returns the number of vertices the array can hold without reallocating.
func (va *VertexArray) Cap() int { return va.cap }

// Resize sets the vertex count to n. Vertices added by growing are zeroed.
func (va *VertexArray) Resize(n int) {
	if n < 0 {
		n = 0
	}
	stride := va.format.VertexSize()
	if n <= va.cap {
		if n > va.count {
			clear(va.data[va.count*stride : n*stride])
		}
		va.count = n
		return
	}
	data := make([]byte, n*stride)
	copy(data, va.data[:va.count*stride])
	va.data = data
	va.count = n
	va.cap = n
}

// Bytes returns the raw bytes of the live vertices. The slice aliases the
// array storage and is invalidated by a reallocating Resize.
func (va *VertexArray) Bytes() []byte {
	return va.data[:va.count*va.format.VertexSize()]
}

// Clone returns an independent copy holding the live vertices.
func (va *VertexArray) Clone() *VertexArray {
	c := NewVertexArray(va.format, va.count)
	copy(c.data, va.Bytes())
	return c
}

// Vertex returns a view of vertex i. An index outside [0, Len) is logged
// and yields a detached zeroed vertex whose writes are discarded.
func (va *VertexArray) Vertex(i int) Vertex {
	stride := va.format.VertexSize()
	if i < 0 || i >= va.count {
		Logger().Warn("gfx: vertex index out of range", "index", i, "len", va.count)
		return Vertex{format: va.format, buf: make([]byte, stride)}
	}
	return Vertex{format: va.format, buf: va.data[i*stride : (i+1)*stride : (i+1)*stride]}
}

// Vertex is a view of one vertex inside a VertexArray.
//
// Setters write at most ElementCount components and ignore writes whose
// datatype differs from the format.
type Vertex struct {
	format VertexFormat
	buf    []byte
}

func (v Vertex) field(attr VertexAttribute, dt Datatype) []byte {
	if attr >= NumAttributes || !v.format.Enabled(attr) {
		return nil
	}
	if v.format.Datatype(attr) != dt {
		Logger().Warn("gfx: vertex datatype mismatch", "attr", attr,
			"have", v.format.Datatype(attr), "write", dt)
		return nil
	}
	off := v.format.Offset(attr)
	return v.buf[off : off+v.format.AttributeSize(attr)]
}

// SetFloat32 writes float components of attr.
func (v Vertex) SetFloat32(attr VertexAttribute, vals ...float32) {
	b := v.field(attr, Float32)
	for i := 0; i < len(vals) && 4*i < len(b); i++ {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(vals[i]))
	}
}

// SetUint32 writes uint32 components of attr.
func (v Vertex) SetUint32(attr VertexAttribute, vals ...uint32) {
	b := v.field(attr, Uint32)
	for i := 0; i < len(vals) && 4*i < len(b); i++ {
		binary.LittleEndian.PutUint32(b[4*i:], vals[i])
	}
}

// SetInt32 writes int32 components of attr.
func (v Vertex) SetInt32(attr VertexAttribute, vals ...int32) {
	b := v.field(attr, Int32)
	for i := 0; i < len(vals) && 4*i < len(b); i++ {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(vals[i]))
	}
}

// SetUint16 writes uint16 components of attr.
func (v Vertex) SetUint16(attr VertexAttribute, vals ...uint16) {
	b := v.field(attr, Uint16)
	for i := 0; i < len(vals) && 2*i < len(b); i++ {
		binary.LittleEndian.PutUint16(b[2*i:], vals[i])
	}
}

// SetInt16 writes int16 components of attr.
func (v Vertex) SetInt16(attr VertexAttribute, vals ...int16) {
	b := v.field(attr, Int16)
	for i := 0; i < len(vals) && 2*i < len(b); i++ {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(vals[i]))
	}
}

// SetUint8 writes uint8 components of attr.
func (v Vertex) SetUint8(attr VertexAttribute, vals ...uint8) {
	b := v.field(attr, Uint8)
	copy(b, vals)
}

// SetInt8 writes int8 components of attr.
func (v Vertex) SetInt8(attr VertexAttribute, vals ...int8) {
	b := v.field(attr, Int8)
	for i := 0; i < len(vals) && i < len(b); i++ {
		b[i] = byte(vals[i])
	}
}

// Float32 returns component i of a float attribute, 0 when absent.
func (v Vertex) Float32(attr VertexAttribute, i int) float32 {
	b := v.field(attr, Float32)
	if i < 0 || 4*i+4 > len(b) {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
}

// Uint8 returns component i of a uint8 attribute, 0 when absent.
func (v Vertex) Uint8(attr VertexAttribute, i int) uint8 {
	b := v.field(attr, Uint8)
	if i < 0 || i >= len(b) {
		return 0
	}
	return b[i]
}

// SetPosition writes the x and y position components.
func (v Vertex) SetPosition(x, y float32) {
	v.SetFloat32(AttribPosition, x, y)
}

// SetTexCoord writes the texture coordinates.
func (v Vertex) SetTexCoord(u, t float32) {
	v.SetFloat32(AttribTexCoord, u, t)
}

// SetNormal writes the normal vector.
func (v Vertex) SetNormal(x, y, z float32) {
	v.SetFloat32(AttribNormal, x, y, z)
}

// SetColor writes an RGBA color, converting to the attribute's datatype.
func (v Vertex) SetColor(c Color) {
	switch v.format.Datatype(AttribColor) {
	case Float32:
		v.SetFloat32(AttribColor, float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
	default:
		v.SetUint8(AttribColor, c.R, c.G, c.B, c.A)
	}
}
