package gfx

// TextureFilter selects texel filtering.
type TextureFilter uint8

// Filters.
const (
	FilterNearest TextureFilter = iota
	FilterLinear
)

// TextureWrap selects the addressing mode outside [0,1].
type TextureWrap uint8

// Wrapping modes.
const (
	WrapClampToEdge TextureWrap = iota
	WrapClampToBorder
	WrapRepeat
	WrapMirroredRepeat
)

// BufferUsage hints how often a buffer is updated.
type BufferUsage uint8

// Buffer usages.
const (
	UsageStatic BufferUsage = iota
	UsageDynamic
	UsageStream
)

// TextureDesc describes a 2D texture. Either Pixmap or Width and Height
// must be set; a texture without a pixmap starts zero-filled.
type TextureDesc struct {
	Label     string
	Pixmap    *Pixmap
	Width     int
	Height    int
	Filtering TextureFilter
	Wrapping  TextureWrap

	// RenderTarget marks a texture that can be attached to a render target.
	RenderTarget bool
}

func (d TextureDesc) size() (int, int) {
	if d.Pixmap != nil {
		return d.Pixmap.Width(), d.Pixmap.Height()
	}
	return d.Width, d.Height
}

// ShaderDesc holds backend-native shader source.
//
// For the gl backend Vertex and Fragment are GLSL stages. For the native
// backend they are WGSL modules; a single module holding both entry points
// may be passed in Vertex alone.
type ShaderDesc struct {
	Label    string
	Vertex   string
	Fragment string

	// VertexEntry and FragmentEntry name the WGSL entry points.
	// They default to "vs_main" and "fs_main".
	VertexEntry   string
	FragmentEntry string
}

// RenderTargetDesc describes an offscreen render target with Count color
// attachments. Targets may supply existing textures; missing ones are
// created with the target's size.
type RenderTargetDesc struct {
	Label   string
	Width   int
	Height  int
	Count   int
	Targets []*Texture2D
}

// VertexBufferDesc describes a persistent vertex buffer. When Vertices is
// nil, Count zeroed vertices of Format are allocated.
type VertexBufferDesc struct {
	Label    string
	Usage    BufferUsage
	Vertices *VertexArray
	Format   VertexFormat
	Count    int
}

// IndexBufferDesc describes a persistent 32-bit index buffer. When Indices
// is nil, Count zeroed indices are allocated.
type IndexBufferDesc struct {
	Label   string
	Usage   BufferUsage
	Indices []uint32
	Count   int
}
