package gfx

import (
	"fmt"
	"strings"
)

// Datatype is the scalar type of a vertex attribute component.
type Datatype uint8

// Scalar datatypes.
const (
	Float32 Datatype = iota
	Uint32
	Int32
	Uint16
	Int16
	Uint8
	Int8
)

// Size returns the size of one component in bytes.
func (d Datatype) Size() int {
	switch d {
	case Float32, Uint32, Int32:
		return 4
	case Uint16, Int16:
		return 2
	case Uint8, Int8:
		return 1
	default:
		return 0
	}
}

// Integer reports whether d is an integer type.
func (d Datatype) Integer() bool {
	return d != Float32 && d.Size() != 0
}

func (d Datatype) String() string {
	switch d {
	case Float32:
		return "float32"
	case Uint32:
		return "uint32"
	case Int32:
		return "int32"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Uint8:
		return "uint8"
	case Int8:
		return "int8"
	default:
		return fmt.Sprintf("Datatype(%d)", uint8(d))
	}
}

// VertexAttribute identifies an attribute slot. Slots are laid out in
// declaration order.
type VertexAttribute uint8

// Attribute slots.
const (
	AttribPosition VertexAttribute = iota
	AttribColor
	AttribTexCoord
	AttribNormal

	// NumAttributes is the number of attribute slots.
	NumAttributes
)

func (a VertexAttribute) String() string {
	switch a {
	case AttribPosition:
		return "position"
	case AttribColor:
		return "color"
	case AttribTexCoord:
		return "texcoord"
	case AttribNormal:
		return "normal"
	default:
		return fmt.Sprintf("VertexAttribute(%d)", uint8(a))
	}
}

// MaxElementCount is the largest number of components an attribute can have.
const MaxElementCount = 4

type attribLayout struct {
	count  uint8
	dt     Datatype
	offset uint16
}

// VertexFormat describes the per-vertex attribute layout.
//
// The zero value has every attribute disabled. VertexFormat is a comparable
// value; two formats are equal exactly when they describe the same layout.
type VertexFormat struct {
	attrs [NumAttributes]attribLayout
	size  uint16
}

// DefaultVertexFormat returns the format used by the drawing helpers:
// 2D float position, RGBA8 color and float texture coordinates.
func DefaultVertexFormat() VertexFormat {
	var f VertexFormat
	_ = f.Set(AttribPosition, 2, Float32)
	_ = f.Set(AttribColor, 4, Uint8)
	_ = f.Set(AttribTexCoord, 2, Float32)
	return f
}

// Set configures an attribute. A count of zero disables it. Offsets of all
// enabled attributes are recomputed densely in slot order.
func (f *VertexFormat) Set(attr VertexAttribute, count int, dt Datatype) error {
	if attr >= NumAttributes {
		Logger().Warn("gfx: vertex format: unknown attribute", "attr", attr)
		return fmt.Errorf("%w: slot %d", ErrInvalidAttribute, attr)
	}
	if count < 0 || count > MaxElementCount {
		Logger().Warn("gfx: vertex format: element count out of range", "attr", attr, "count", count)
		return fmt.Errorf("%w: %s has %d elements", ErrInvalidAttribute, attr, count)
	}
	if count > 0 && dt.Size() == 0 {
		return fmt.Errorf("%w: %s has datatype %s", ErrInvalidAttribute, attr, dt)
	}
	if count == 0 {
		f.attrs[attr] = attribLayout{}
	} else {
		f.attrs[attr] = attribLayout{count: uint8(count), dt: dt}
	}
	f.layout()
	return nil
}

func (f *VertexFormat) layout() {
	offset := 0
	for i := range f.attrs {
		a := &f.attrs[i]
		if a.count == 0 {
			continue
		}
		a.offset = uint16(offset)
		offset += int(a.count) * a.dt.Size()
	}
	f.size = uint16(offset)
}

// ElementCount returns the number of components of attr, 0 when disabled.
func (f VertexFormat) ElementCount(attr VertexAttribute) int {
	if attr >= NumAttributes {
		return 0
	}
	return int(f.attrs[attr].count)
}

// Datatype returns the component type of attr.
func (f VertexFormat) Datatype(attr VertexAttribute) Datatype {
	if attr >= NumAttributes {
		return Float32
	}
	return f.attrs[attr].dt
}

// Offset returns the byte offset of attr within a vertex.
func (f VertexFormat) Offset(attr VertexAttribute) int {
	if attr >= NumAttributes {
		return 0
	}
	return int(f.attrs[attr].offset)
}

// Enabled reports whether attr has at least one component.
func (f VertexFormat) Enabled(attr VertexAttribute) bool {
	return f.ElementCount(attr) > 0
}

// AttributeSize returns the byte size of attr.
func (f VertexFormat) AttributeSize(attr VertexAttribute) int {
	return f.ElementCount(attr) * f.Datatype(attr).Size()
}

// Normalized reports whether integer data of attr maps to [0,1] or [-1,1]
// in the shader. Only integer colors are normalized.
func (f VertexFormat) Normalized(attr VertexAttribute) bool {
	return attr == AttribColor && f.Enabled(attr) && f.Datatype(attr).Integer()
}

// VertexSize returns the byte size of one vertex.
func (f VertexFormat) VertexSize() int {
	return int(f.size)
}

// Equal reports whether f and o describe the same layout.
func (f VertexFormat) Equal(o VertexFormat) bool {
	return f == o
}

func (f VertexFormat) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i := VertexAttribute(0); i < NumAttributes; i++ {
		if !f.Enabled(i) {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%s:%dx%s@%d", i, f.ElementCount(i), f.Datatype(i), f.Offset(i))
	}
	b.WriteByte('}')
	return b.String()
}
