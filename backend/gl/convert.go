package gl

import "github.com/gogpu/gfx"

// attribNames are bound to the attribute slot indices before every link, so
// any program reads position at 0, color at 1, texcoord at 2 and normal at 3.
var attribNames = [gfx.NumAttributes]string{
	gfx.AttribPosition: "in_Position",
	gfx.AttribColor:    "in_VertexColor",
	gfx.AttribTexCoord: "in_TexCoord",
	gfx.AttribNormal:   "in_Normal",
}

func blendFactor(f gfx.BlendFactor) uint32 {
	switch f {
	case gfx.BlendZero:
		return ZERO
	case gfx.BlendOne:
		return ONE
	case gfx.BlendSrcColor:
		return SRC_COLOR
	case gfx.BlendOneMinusSrcColor:
		return ONE_MINUS_SRC_COLOR
	case gfx.BlendSrcAlpha:
		return SRC_ALPHA
	case gfx.BlendOneMinusSrcAlpha:
		return ONE_MINUS_SRC_ALPHA
	case gfx.BlendDstColor:
		return DST_COLOR
	case gfx.BlendOneMinusDstColor:
		return ONE_MINUS_DST_COLOR
	case gfx.BlendDstAlpha:
		return DST_ALPHA
	case gfx.BlendOneMinusDstAlpha:
		return ONE_MINUS_DST_ALPHA
	case gfx.BlendSrcAlphaSaturated:
		return SRC_ALPHA_SATURATE
	default:
		return ONE
	}
}

func primitiveMode(p gfx.PrimitiveType) uint32 {
	switch p {
	case gfx.Points:
		return POINTS
	case gfx.Lines:
		return LINES
	case gfx.LineStrip:
		return LINE_STRIP
	case gfx.LineLoop:
		return LINE_LOOP
	case gfx.TriangleStrip:
		return TRIANGLE_STRIP
	case gfx.TriangleFan:
		return TRIANGLE_FAN
	default:
		return TRIANGLES
	}
}

func dataType(d gfx.Datatype) uint32 {
	switch d {
	case gfx.Uint32:
		return UNSIGNED_INT
	case gfx.Int32:
		return INT
	case gfx.Uint16:
		return UNSIGNED_SHORT
	case gfx.Int16:
		return SHORT
	case gfx.Uint8:
		return UNSIGNED_BYTE
	case gfx.Int8:
		return BYTE
	default:
		return FLOAT
	}
}

func filterMode(f gfx.TextureFilter) int32 {
	if f == gfx.FilterLinear {
		return LINEAR
	}
	return NEAREST
}

func wrapMode(w gfx.TextureWrap) int32 {
	switch w {
	case gfx.WrapClampToBorder:
		return CLAMP_TO_BORDER
	case gfx.WrapRepeat:
		return REPEAT
	case gfx.WrapMirroredRepeat:
		return MIRRORED_REPEAT
	default:
		return CLAMP_TO_EDGE
	}
}

func usageHint(u gfx.BufferUsage) uint32 {
	switch u {
	case gfx.UsageDynamic:
		return DYNAMIC_DRAW
	case gfx.UsageStream:
		return STREAM_DRAW
	default:
		return STATIC_DRAW
	}
}

// clearMask converts a gfx buffer mask to GL clear bits.
func clearMask(m gfx.BufferMask) uint32 {
	var bits uint32
	if m&gfx.ColorBuffer != 0 {
		bits |= COLOR_BUFFER_BIT
	}
	if m&gfx.DepthBuffer != 0 {
		bits |= DEPTH_BUFFER_BIT
	}
	if m&gfx.StencilBuffer != 0 {
		bits |= STENCIL_BUFFER_BIT
	}
	return bits
}
