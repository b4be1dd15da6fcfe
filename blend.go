package gfx

// BlendFactor scales the source or destination color in a blend equation.
type BlendFactor uint8

// Blend factors.
const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendSrcAlphaSaturated
)

// BlendState holds separate color and alpha blend factors. The blend
// operation is always addition.
type BlendState struct {
	SrcColor, DstColor BlendFactor
	SrcAlpha, DstAlpha BlendFactor
}

// Blend presets.
var (
	AlphaBlend         = NewBlendState(BlendSrcAlpha, BlendOneMinusSrcAlpha)
	Opaque             = NewBlendState(BlendOne, BlendZero)
	Additive           = NewBlendState(BlendSrcAlpha, BlendOne)
	Multiply           = NewBlendState(BlendDstColor, BlendZero)
	PremultipliedAlpha = NewBlendState(BlendOne, BlendOneMinusSrcAlpha)
)

// NewBlendState returns a state using the same factors for color and alpha.
func NewBlendState(src, dst BlendFactor) BlendState {
	return BlendState{SrcColor: src, DstColor: dst, SrcAlpha: src, DstAlpha: dst}
}
