package gl

import (
	"fmt"

	"github.com/gogpu/gfx"
)

// Draw sets the global state the call needs and issues it: blend function,
// program, matrix, textures, vertex attributes, then the draw itself.
func (d *Device) Draw(dc *gfx.DrawCall) error {
	if d.closed {
		return gfx.ErrClosed
	}
	count := dc.VertexCount
	if dc.Indexed() {
		count = dc.IndexCount
	}
	if count <= 0 {
		return nil
	}
	f := dc.Format
	if !f.Enabled(gfx.AttribPosition) {
		return fmt.Errorf("gl: draw %s without position: %w", f, gfx.ErrFormatMismatch)
	}

	s := d.passthrough
	if dc.Shader != nil {
		obj, ok := dc.Shader.(*shaderObject)
		if !ok || obj.d != d {
			return fmt.Errorf("gl: draw shader: %w", gfx.ErrForeignObject)
		}
		s = obj
	}
	tex := d.white
	if dc.Texture != nil {
		obj, ok := dc.Texture.(*textureObject)
		if !ok || obj.d != d {
			return fmt.Errorf("gl: draw texture: %w", gfx.ErrForeignObject)
		}
		tex = obj
	}
	var vb *vertexBufferObject
	if dc.VertexBuffer != nil {
		obj, ok := dc.VertexBuffer.(*vertexBufferObject)
		if !ok || obj.d != d {
			return fmt.Errorf("gl: draw vertex buffer: %w", gfx.ErrForeignObject)
		}
		if !obj.format.Equal(f) {
			return fmt.Errorf("gl: draw vertex buffer %q: %w", obj.label, gfx.ErrFormatMismatch)
		}
		vb = obj
	}
	var ib *indexBufferObject
	if dc.IndexBuffer != nil {
		obj, ok := dc.IndexBuffer.(*indexBufferObject)
		if !ok || obj.d != d {
			return fmt.Errorf("gl: draw index buffer: %w", gfx.ErrForeignObject)
		}
		if count > obj.count {
			return fmt.Errorf("gl: draw %d indices of %d: %w", count, obj.count, gfx.ErrOutOfRange)
		}
		ib = obj
	}
	if dc.Indices != nil && count > len(dc.Indices) {
		return fmt.Errorf("gl: draw %d indices of %d: %w", count, len(dc.Indices), gfx.ErrOutOfRange)
	}

	if d.caps[gfx.CapBlend] {
		b := dc.Blend
		d.drv.BlendFuncSeparate(blendFactor(b.SrcColor), blendFactor(b.DstColor), blendFactor(b.SrcAlpha), blendFactor(b.DstAlpha))
	}

	s.use()
	if info, ok := s.uniforms[mvpUniform]; ok {
		mvp := dc.MVP
		if d.target != nil {
			mvp = gfx.FlipY.Mul4(mvp)
		}
		d.drv.UniformMatrix4fv(info.location, 1, mvp[:])
	}
	s.bindTextures(tex)

	stride := f.VertexSize()
	if vb != nil {
		d.drv.BindBuffer(ARRAY_BUFFER, vb.name)
	} else {
		size := dc.VertexCount * stride
		if size > len(dc.Vertices) {
			return fmt.Errorf("gl: draw %d vertices from %d bytes: %w", dc.VertexCount, len(dc.Vertices), gfx.ErrOutOfRange)
		}
		d.drv.BindBuffer(ARRAY_BUFFER, d.vbo)
		d.drv.BufferData(ARRAY_BUFFER, size, dc.Vertices[:size], STREAM_DRAW)
	}
	d.setAttributes(f)

	mode := primitiveMode(dc.Primitive)
	switch {
	case ib != nil:
		d.drv.BindBuffer(ELEMENT_ARRAY_BUFFER, ib.name)
		d.drv.DrawElements(mode, int32(count), UNSIGNED_INT, 0)
	case dc.Indices != nil:
		data := indexBytes(dc.Indices[:count])
		d.drv.BindBuffer(ELEMENT_ARRAY_BUFFER, d.ibo)
		d.drv.BufferData(ELEMENT_ARRAY_BUFFER, len(data), data, STREAM_DRAW)
		d.drv.DrawElements(mode, int32(count), UNSIGNED_INT, 0)
	default:
		d.drv.DrawArrays(mode, int32(dc.FirstVertex), int32(count))
	}
	d.draws++
	return d.check("Draw")
}

// setAttributes enables the slots f carries and points them into the bound
// array buffer. Disabled slots read a constant: opaque white for color and
// zero for the rest.
func (d *Device) setAttributes(f gfx.VertexFormat) {
	stride := int32(f.VertexSize())
	for i := range gfx.NumAttributes {
		a := gfx.VertexAttribute(i)
		loc := uint32(i)
		if f.Enabled(a) {
			d.drv.EnableVertexAttribArray(loc)
			d.drv.VertexAttribPointer(loc, int32(f.ElementCount(a)), dataType(f.Datatype(a)), f.Normalized(a), stride, f.Offset(a))
			continue
		}
		d.drv.DisableVertexAttribArray(loc)
		if a == gfx.AttribColor {
			d.drv.VertexAttrib4f(loc, 1, 1, 1, 1)
		} else {
			d.drv.VertexAttrib4f(loc, 0, 0, 0, 1)
		}
	}
}
