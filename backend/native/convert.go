package native

import (
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
)

// Shader locations of the fixed attribute slots. The gl backend binds the
// same slots to the same locations.
const (
	locationPosition = 0
	locationColor    = 1
	locationTexCoord = 2
	locationNormal   = 3
)

var attributeLocations = [gfx.NumAttributes]uint32{
	gfx.AttribPosition: locationPosition,
	gfx.AttribColor:    locationColor,
	gfx.AttribTexCoord: locationTexCoord,
	gfx.AttribNormal:   locationNormal,
}

type vertexFormatKey struct {
	dt         gfx.Datatype
	count      int
	normalized bool
}

// WebGPU has no 1- or 3-component 8/16-bit formats.
var vertexFormats = map[vertexFormatKey]gputypes.VertexFormat{
	{gfx.Float32, 1, false}: gputypes.VertexFormatFloat32,
	{gfx.Float32, 2, false}: gputypes.VertexFormatFloat32x2,
	{gfx.Float32, 3, false}: gputypes.VertexFormatFloat32x3,
	{gfx.Float32, 4, false}: gputypes.VertexFormatFloat32x4,
	{gfx.Uint32, 1, false}:  gputypes.VertexFormatUint32,
	{gfx.Uint32, 2, false}:  gputypes.VertexFormatUint32x2,
	{gfx.Uint32, 3, false}:  gputypes.VertexFormatUint32x3,
	{gfx.Uint32, 4, false}:  gputypes.VertexFormatUint32x4,
	{gfx.Int32, 1, false}:   gputypes.VertexFormatSint32,
	{gfx.Int32, 2, false}:   gputypes.VertexFormatSint32x2,
	{gfx.Int32, 3, false}:   gputypes.VertexFormatSint32x3,
	{gfx.Int32, 4, false}:   gputypes.VertexFormatSint32x4,
	{gfx.Uint16, 2, false}:  gputypes.VertexFormatUint16x2,
	{gfx.Uint16, 4, false}:  gputypes.VertexFormatUint16x4,
	{gfx.Int16, 2, false}:   gputypes.VertexFormatSint16x2,
	{gfx.Int16, 4, false}:   gputypes.VertexFormatSint16x4,
	{gfx.Uint16, 2, true}:   gputypes.VertexFormatUnorm16x2,
	{gfx.Uint16, 4, true}:   gputypes.VertexFormatUnorm16x4,
	{gfx.Int16, 2, true}:    gputypes.VertexFormatSnorm16x2,
	{gfx.Int16, 4, true}:    gputypes.VertexFormatSnorm16x4,
	{gfx.Uint8, 2, false}:   gputypes.VertexFormatUint8x2,
	{gfx.Uint8, 4, false}:   gputypes.VertexFormatUint8x4,
	{gfx.Int8, 2, false}:    gputypes.VertexFormatSint8x2,
	{gfx.Int8, 4, false}:    gputypes.VertexFormatSint8x4,
	{gfx.Uint8, 2, true}:    gputypes.VertexFormatUnorm8x2,
	{gfx.Uint8, 4, true}:    gputypes.VertexFormatUnorm8x4,
	{gfx.Int8, 2, true}:     gputypes.VertexFormatSnorm8x2,
	{gfx.Int8, 4, true}:     gputypes.VertexFormatSnorm8x4,
}

// vertexLayout converts f to a single interleaved WebGPU buffer layout.
func vertexLayout(f gfx.VertexFormat) (gputypes.VertexBufferLayout, error) {
	layout := gputypes.VertexBufferLayout{
		ArrayStride: uint64(f.VertexSize()),
		StepMode:    gputypes.VertexStepModeVertex,
	}
	for a := gfx.VertexAttribute(0); a < gfx.NumAttributes; a++ {
		if !f.Enabled(a) {
			continue
		}
		key := vertexFormatKey{f.Datatype(a), f.ElementCount(a), f.Normalized(a)}
		vf, ok := vertexFormats[key]
		if !ok {
			return layout, fmt.Errorf("%w: %s %dx%s", ErrUnsupportedFormat, a, key.count, key.dt)
		}
		layout.Attributes = append(layout.Attributes, gputypes.VertexAttribute{
			Format:         vf,
			Offset:         uint64(f.Offset(a)),
			ShaderLocation: attributeLocations[a],
		})
	}
	return layout, nil
}

func blendFactor(f gfx.BlendFactor) gputypes.BlendFactor {
	switch f {
	case gfx.BlendZero:
		return gputypes.BlendFactorZero
	case gfx.BlendOne:
		return gputypes.BlendFactorOne
	case gfx.BlendSrcColor:
		return gputypes.BlendFactorSrc
	case gfx.BlendOneMinusSrcColor:
		return gputypes.BlendFactorOneMinusSrc
	case gfx.BlendSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case gfx.BlendOneMinusSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case gfx.BlendDstColor:
		return gputypes.BlendFactorDst
	case gfx.BlendOneMinusDstColor:
		return gputypes.BlendFactorOneMinusDst
	case gfx.BlendDstAlpha:
		return gputypes.BlendFactorDstAlpha
	case gfx.BlendOneMinusDstAlpha:
		return gputypes.BlendFactorOneMinusDstAlpha
	case gfx.BlendSrcAlphaSaturated:
		return gputypes.BlendFactorSrcAlphaSaturated
	default:
		return gputypes.BlendFactorOne
	}
}

// blendState returns nil when blending is disabled.
func blendState(b gfx.BlendState, enabled bool) *gputypes.BlendState {
	if !enabled {
		return nil
	}
	return &gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: blendFactor(b.SrcColor),
			DstFactor: blendFactor(b.DstColor),
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: blendFactor(b.SrcAlpha),
			DstFactor: blendFactor(b.DstAlpha),
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

// topology maps list and strip topologies. Fans and loops are expanded by
// gfx.ListTopology before they get here.
func topology(p gfx.PrimitiveType) gputypes.PrimitiveTopology {
	switch p {
	case gfx.Points:
		return gputypes.PrimitiveTopologyPointList
	case gfx.Lines:
		return gputypes.PrimitiveTopologyLineList
	case gfx.LineStrip:
		return gputypes.PrimitiveTopologyLineStrip
	case gfx.TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

func filterMode(f gfx.TextureFilter) gputypes.FilterMode {
	if f == gfx.FilterLinear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// addressMode maps wrap modes. WebGPU has no border color, so
// WrapClampToBorder clamps to the edge.
func addressMode(w gfx.TextureWrap) gputypes.AddressMode {
	switch w {
	case gfx.WrapRepeat:
		return gputypes.AddressModeRepeat
	case gfx.WrapMirroredRepeat:
		return gputypes.AddressModeMirrorRepeat
	default:
		return gputypes.AddressModeClampToEdge
	}
}

func clearColor(c gfx.Color) gputypes.Color {
	return gputypes.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}
