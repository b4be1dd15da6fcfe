package gfx

import "github.com/go-gl/mathgl/mgl32"

// Matrices are mgl32 column-major values applied to column vectors, so
// Mul4 composes right to left. View space is right-handed and the
// projection builders produce clip-space depth in [-1, 1]. Backends whose
// native depth range is [0, 1] correct it when drawing.

// OrthoMatrix returns an orthographic projection.
func OrthoMatrix(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	return mgl32.Ortho(left, right, bottom, top, near, far)
}

// PerspectiveMatrix returns a perspective projection. fovy is in radians.
func PerspectiveMatrix(fovy, aspect, near, far float32) mgl32.Mat4 {
	return mgl32.Perspective(fovy, aspect, near, far)
}

// LookAtMatrix returns a view matrix looking from eye towards center.
func LookAtMatrix(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(eye, center, up)
}

// PixelProjection maps (0,0) to the top-left and (width,height) to the
// bottom-right of a width×height target.
func PixelProjection(width, height int) mgl32.Mat4 {
	return OrthoMatrix(0, float32(width), float32(height), 0, -1, 1)
}

// ZeroToOneDepth converts clip space with depth in [-1, 1] to depth in [0, 1].
var ZeroToOneDepth = mgl32.Translate3D(0, 0, 0.5).Mul4(mgl32.Scale3D(1, 1, 0.5))

// FlipY mirrors clip space vertically.
var FlipY = mgl32.Scale3D(1, -1, 1)
