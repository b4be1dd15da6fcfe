package gfx

import (
	"fmt"
	"slices"
)

// VertexBuffer is a reference-counted persistent vertex buffer.
type VertexBuffer struct {
	rc     refCount
	obj    VertexBufferObject
	label  string
	usage  BufferUsage
	format VertexFormat
	count  int
}

// NewVertexBuffer creates a vertex buffer on the context's device.
func (c *Context) NewVertexBuffer(desc VertexBufferDesc) (*VertexBuffer, error) {
	return createNew[VertexBuffer](c, desc)
}

func (vb *VertexBuffer) initialize(c *Context, desc VertexBufferDesc) error {
	if desc.Vertices == nil {
		if desc.Count <= 0 {
			return fmt.Errorf("vertex buffer %q: no vertices: %w", desc.Label, ErrInvalidDescriptor)
		}
		desc.Vertices = NewVertexArray(desc.Format, desc.Count)
	}
	desc.Format = desc.Vertices.Format()
	desc.Count = desc.Vertices.Len()
	if desc.Count == 0 || desc.Format.VertexSize() == 0 {
		return fmt.Errorf("vertex buffer %q: empty: %w", desc.Label, ErrInvalidDescriptor)
	}
	obj, err := c.dev.NewVertexBuffer(desc)
	if err != nil {
		return fmt.Errorf("vertex buffer %q: %w", desc.Label, err)
	}
	vb.obj = obj
	vb.label = desc.Label
	vb.usage = desc.Usage
	vb.format = desc.Format
	vb.count = desc.Count
	vb.rc.init()
	return nil
}

func (vb *VertexBuffer) destroy() {
	if vb.obj != nil {
		vb.obj.Destroy()
		vb.obj = nil
	}
}

// Retain adds a reference.
func (vb *VertexBuffer) Retain() *VertexBuffer {
	if vb != nil && !vb.rc.retain() {
		Logger().Warn("gfx: retain of released vertex buffer", "label", vb.label)
	}
	return vb
}

// Release drops a reference and frees the buffer with the last one.
func (vb *VertexBuffer) Release() {
	if vb != nil && vb.rc.release() {
		vb.destroy()
	}
}

// Object returns the device object, nil after the last release.
func (vb *VertexBuffer) Object() VertexBufferObject {
	if vb == nil || !vb.rc.alive() {
		return nil
	}
	return vb.obj
}

// Format returns the vertex format the buffer was created with.
func (vb *VertexBuffer) Format() VertexFormat { return vb.format }

// Len returns the number of vertices.
func (vb *VertexBuffer) Len() int { return vb.count }

// Usage returns the usage hint.
func (vb *VertexBuffer) Usage() BufferUsage { return vb.usage }

// Update writes the vertices of va starting at vertex start.
func (vb *VertexBuffer) Update(start int, va *VertexArray) error {
	obj := vb.Object()
	if obj == nil {
		return ErrReleased
	}
	if !va.Format().Equal(vb.format) {
		return fmt.Errorf("vertex buffer %q: %s vs %s: %w", vb.label, va.Format(), vb.format, ErrFormatMismatch)
	}
	if start < 0 || start+va.Len() > vb.count {
		return fmt.Errorf("vertex buffer %q: vertices [%d,%d) of %d: %w",
			vb.label, start, start+va.Len(), vb.count, ErrOutOfRange)
	}
	if va.Len() == 0 {
		return nil
	}
	return obj.Update(start*vb.format.VertexSize(), va.Bytes())
}

// IndexBuffer is a reference-counted persistent 32-bit index buffer.
//
// The indices are mirrored on the CPU so draws can be range checked against
// the vertex buffer.
type IndexBuffer struct {
	rc      refCount
	obj     IndexBufferObject
	label   string
	usage   BufferUsage
	count   int
	indices []uint32
}

// NewIndexBuffer creates an index buffer on the context's device.
func (c *Context) NewIndexBuffer(desc IndexBufferDesc) (*IndexBuffer, error) {
	return createNew[IndexBuffer](c, desc)
}

func (ib *IndexBuffer) initialize(c *Context, desc IndexBufferDesc) error {
	if desc.Indices == nil && desc.Count > 0 {
		desc.Indices = make([]uint32, desc.Count)
	}
	desc.Count = len(desc.Indices)
	if desc.Count == 0 {
		return fmt.Errorf("index buffer %q: no indices: %w", desc.Label, ErrInvalidDescriptor)
	}
	obj, err := c.dev.NewIndexBuffer(desc)
	if err != nil {
		return fmt.Errorf("index buffer %q: %w", desc.Label, err)
	}
	ib.obj = obj
	ib.label = desc.Label
	ib.usage = desc.Usage
	ib.count = desc.Count
	ib.indices = slices.Clone(desc.Indices)
	ib.rc.init()
	return nil
}

func (ib *IndexBuffer) destroy() {
	if ib.obj != nil {
		ib.obj.Destroy()
		ib.obj = nil
	}
}

// Retain adds a reference.
func (ib *IndexBuffer) Retain() *IndexBuffer {
	if ib != nil && !ib.rc.retain() {
		Logger().Warn("gfx: retain of released index buffer", "label", ib.label)
	}
	return ib
}

// Release drops a reference and frees the buffer with the last one.
func (ib *IndexBuffer) Release() {
	if ib != nil && ib.rc.release() {
		ib.destroy()
	}
}

// Object returns the device object, nil after the last release.
func (ib *IndexBuffer) Object() IndexBufferObject {
	if ib == nil || !ib.rc.alive() {
		return nil
	}
	return ib.obj
}

// Len returns the number of indices.
func (ib *IndexBuffer) Len() int { return ib.count }

// Update writes indices starting at index start.
func (ib *IndexBuffer) Update(start int, indices []uint32) error {
	obj := ib.Object()
	if obj == nil {
		return ErrReleased
	}
	if start < 0 || start+len(indices) > ib.count {
		return fmt.Errorf("index buffer %q: indices [%d,%d) of %d: %w",
			ib.label, start, start+len(indices), ib.count, ErrOutOfRange)
	}
	if len(indices) == 0 {
		return nil
	}
	if err := obj.Update(start, indices); err != nil {
		return err
	}
	copy(ib.indices[start:], indices)
	return nil
}

// maxIndex returns the largest of the first count indices.
func (ib *IndexBuffer) maxIndex(count int) uint32 {
	return slices.Max(ib.indices[:count])
}
