package gfx

// TextureRegion is a rectangle in normalized texture coordinates.
type TextureRegion struct {
	U0, V0, U1, V1 float32
}

// FullRegion covers the whole texture.
var FullRegion = TextureRegion{U0: 0, V0: 0, U1: 1, V1: 1}

// RegionFromPixels converts a pixel rectangle of a w×h texture.
func RegionFromPixels(x, y, width, height, w, h int) TextureRegion {
	if w <= 0 || h <= 0 {
		return FullRegion
	}
	return TextureRegion{
		U0: float32(x) / float32(w),
		V0: float32(y) / float32(h),
		U1: float32(x+width) / float32(w),
		V1: float32(y+height) / float32(h),
	}
}

// FlipX returns the region mirrored horizontally.
func (r TextureRegion) FlipX() TextureRegion {
	r.U0, r.U1 = r.U1, r.U0
	return r
}

// FlipY returns the region mirrored vertically.
func (r TextureRegion) FlipY() TextureRegion {
	r.V0, r.V1 = r.V1, r.V0
	return r
}
