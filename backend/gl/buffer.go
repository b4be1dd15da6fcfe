package gl

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gfx"
)

// bufferObject is a GL buffer name with the size it was allocated with.
type bufferObject struct {
	d      *Device
	label  string
	name   uint32
	target uint32
	size   int
}

func (d *Device) newBuffer(label string, target uint32, data []byte, usage gfx.BufferUsage) (*bufferObject, error) {
	b := &bufferObject{d: d, label: label, name: d.drv.GenBuffer(), target: target, size: len(data)}
	d.drv.BindBuffer(target, b.name)
	d.drv.BufferData(target, len(data), data, usageHint(usage))
	if err := d.check("BufferData"); err != nil {
		d.drv.DeleteBuffer(b.name)
		return nil, err
	}
	return b, nil
}

func (b *bufferObject) write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("gl: buffer %q write [%d,%d) of %d: %w",
			b.label, offset, offset+len(data), b.size, gfx.ErrOutOfRange)
	}
	b.d.drv.BindBuffer(b.target, b.name)
	b.d.drv.BufferSubData(b.target, offset, data)
	return b.d.check("BufferSubData")
}

func (b *bufferObject) Backend() string { return gfx.BackendGL }

func (b *bufferObject) Destroy() {
	b.d.drv.DeleteBuffer(b.name)
	b.name = 0
}

// vertexBufferObject implements gfx.VertexBufferObject.
type vertexBufferObject struct {
	*bufferObject
	format gfx.VertexFormat
	count  int
}

func (v *vertexBufferObject) Update(offset int, data []byte) error {
	return v.write(offset, data)
}

// indexBufferObject implements gfx.IndexBufferObject. Indices are 32-bit.
type indexBufferObject struct {
	*bufferObject
	count int
}

func (ib *indexBufferObject) Update(start int, indices []uint32) error {
	return ib.write(4*start, indexBytes(indices))
}

func indexBytes(indices []uint32) []byte {
	out := make([]byte, 4*len(indices))
	for i, v := range indices {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out
}

func (d *Device) NewVertexBuffer(desc gfx.VertexBufferDesc) (gfx.VertexBufferObject, error) {
	if d.closed {
		return nil, gfx.ErrClosed
	}
	if desc.Vertices == nil || desc.Format.VertexSize() == 0 {
		return nil, fmt.Errorf("gl: vertex buffer %q: %w", desc.Label, gfx.ErrInvalidDescriptor)
	}
	if !desc.Vertices.Format().Equal(desc.Format) {
		return nil, fmt.Errorf("gl: vertex buffer %q: %w", desc.Label, gfx.ErrFormatMismatch)
	}
	b, err := d.newBuffer(desc.Label, ARRAY_BUFFER, desc.Vertices.Bytes(), desc.Usage)
	if err != nil {
		return nil, err
	}
	return &vertexBufferObject{bufferObject: b, format: desc.Format, count: desc.Vertices.Len()}, nil
}

func (d *Device) NewIndexBuffer(desc gfx.IndexBufferDesc) (gfx.IndexBufferObject, error) {
	if d.closed {
		return nil, gfx.ErrClosed
	}
	indices := desc.Indices
	if indices == nil {
		indices = make([]uint32, desc.Count)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("gl: index buffer %q: %w", desc.Label, gfx.ErrInvalidDescriptor)
	}
	b, err := d.newBuffer(desc.Label, ELEMENT_ARRAY_BUFFER, indexBytes(indices), desc.Usage)
	if err != nil {
		return nil, err
	}
	return &indexBufferObject{bufferObject: b, count: len(indices)}, nil
}
