package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DeviceObject is the backend-owned payload of a resource handle.
// Destroy is called exactly once, when the owning handle is released.
type DeviceObject interface {
	// Backend returns the name of the backend that created the object.
	Backend() string
	Destroy()
}

// TextureObject is the device object of a Texture2D.
type TextureObject interface {
	DeviceObject

	// Upload replaces the whole image. p is RGBA8 and matches the texture size.
	Upload(p *Pixmap) error

	// UploadRegion replaces the rectangle at (x, y) with p.
	UploadRegion(x, y int, p *Pixmap) error

	// ReadPixels copies the texture back to the CPU, row 0 at the top.
	ReadPixels() (*Pixmap, error)

	SetFiltering(f TextureFilter) error
	SetWrapping(w TextureWrap) error

	// Clear zero-fills the texture.
	Clear() error
}

// UniformType is the scalar class of a uniform value.
type UniformType uint8

// Uniform types.
const (
	UniformFloat UniformType = iota
	UniformInt
	UniformUint
	UniformMat4
)

// Uniform is a uniform value ready for a backend. Data holds Count elements
// of Components little-endian 4-byte scalars each, packed without padding.
// For UniformMat4 an element is a column-major 4x4 float matrix.
type Uniform struct {
	Type       UniformType
	Components int
	Count      int
	Data       []byte
}

// ShaderObject is the device object of a Shader.
//
// Uniforms are resolved by name at run time. Setting a name the shader does
// not declare is a no-op.
type ShaderObject interface {
	DeviceObject
	SetUniform(name string, u Uniform)
	SetSampler(name string, tex TextureObject)
}

// RenderTargetObject is the device object of a RenderTarget2D.
type RenderTargetObject interface {
	DeviceObject
}

// VertexBufferObject is the device object of a VertexBuffer.
type VertexBufferObject interface {
	DeviceObject

	// Update writes data starting at byte offset.
	Update(offset int, data []byte) error
}

// IndexBufferObject is the device object of an IndexBuffer.
type IndexBufferObject interface {
	DeviceObject

	// Update writes indices starting at index start.
	Update(start int, indices []uint32) error
}

// DrawCall is one primitive submission, fully resolved by the Context.
//
// Exactly one of Vertices or VertexBuffer is set. For indexed draws either
// Indices or IndexBuffer is set. A nil Shader selects the backend's
// passthrough shader; a nil Texture with a nil Shader selects a 1x1 white
// texture.
type DrawCall struct {
	Primitive PrimitiveType
	Format    VertexFormat

	Vertices     []byte
	VertexBuffer VertexBufferObject
	FirstVertex  int
	VertexCount  int

	Indices     []uint32
	IndexBuffer IndexBufferObject
	IndexCount  int

	Shader  ShaderObject
	Texture TextureObject
	Blend   BlendState

	// MVP is projection × model-view in the package clip convention.
	MVP mgl32.Mat4
}

// Indexed reports whether the call uses an index list or buffer.
func (dc *DrawCall) Indexed() bool {
	return dc.Indices != nil || dc.IndexBuffer != nil
}

// Device is the closed set of operations a backend implements.
type Device interface {
	// Name returns the registry name of the backend.
	Name() string

	Enable(c Capability)
	Disable(c Capability)
	IsEnabled(c Capability) bool
	EnableScissor(r Rect)
	DisableScissor()
	SetPointSize(size float32)
	SetLineWidth(width float32)
	SetViewport(r Rect)

	// Clear fills the selected buffers of the bound target.
	Clear(mask BufferMask, v ClearValues) error

	// BindRenderTarget makes rt the draw target. nil selects the back buffer.
	BindRenderTarget(rt RenderTargetObject) error

	// Draw submits one draw call.
	Draw(dc *DrawCall) error

	NewTexture(desc TextureDesc) (TextureObject, error)
	NewShader(desc ShaderDesc) (ShaderObject, error)
	NewRenderTarget(label string, width, height int, targets []TextureObject) (RenderTargetObject, error)
	NewVertexBuffer(desc VertexBufferDesc) (VertexBufferObject, error)
	NewIndexBuffer(desc IndexBufferDesc) (IndexBufferObject, error)

	// ReadBackBuffer copies the current back buffer, row 0 at the top.
	ReadBackBuffer() (*Pixmap, error)

	// Resize reacts to a new back buffer size in pixels.
	Resize(width, height int) error

	// Present ends the frame and shows the back buffer.
	Present() error

	Close() error
}
