package gl

// Driver is the OpenGL call surface the backend renders through. Each method
// maps to the GL entry point of the same name; enums are the raw GL values
// declared in this package. Implementations must be called on the thread that
// owns the GL context.
//
// github.com/gogpu/gfx/backend/gl/gogl implements Driver on go-gl. FakeDriver
// is an in-memory implementation for tests.
type Driver interface {
	// Init loads the GL entry points for the current context.
	Init() error

	// Version returns the GL_VERSION string.
	Version() string

	GetError() uint32

	Enable(capability uint32)
	Disable(capability uint32)
	BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32)
	DepthFunc(fn uint32)
	CullFace(mode uint32)
	FrontFace(mode uint32)
	PolygonMode(face, mode uint32)
	PointSize(size float32)
	LineWidth(width float32)
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	ClearDepth(depth float64)
	ClearStencil(s int32)
	Clear(mask uint32)

	GenTexture() uint32
	DeleteTexture(texture uint32)
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte)
	TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, pixels []byte)
	GetTexImage(target uint32, level int32, format, xtype uint32, pixels []byte)
	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte)

	CreateShader(kind uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	// ShaderInfo reports COMPILE_STATUS and the info log.
	ShaderInfo(shader uint32) (ok bool, log string)
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	LinkProgram(program uint32)
	// ProgramInfo reports LINK_STATUS and the info log.
	ProgramInfo(program uint32) (ok bool, log string)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	// ActiveUniforms lists the program's active uniforms as reported by
	// GetActiveUniform.
	ActiveUniforms(program uint32) []ActiveUniform
	GetUniformLocation(program uint32, name string) int32
	Uniformfv(location int32, components int, v []float32)
	Uniformiv(location int32, components int, v []int32)
	Uniformuiv(location int32, components int, v []uint32)
	UniformMatrix4fv(location int32, count int32, v []float32)

	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, size int, data []byte, usage uint32)
	BufferSubData(target uint32, offset int, data []byte)

	GenVertexArray() uint32
	DeleteVertexArray(array uint32)
	BindVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int)
	VertexAttrib4f(index uint32, x, y, z, w float32)

	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset int)

	GenFramebuffer() uint32
	DeleteFramebuffer(fb uint32)
	BindFramebuffer(target, fb uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	FramebufferRenderbuffer(target, attachment, rbtarget, rb uint32)
	CheckFramebufferStatus(target uint32) uint32
	DrawBuffers(buffers []uint32)
	GenRenderbuffer() uint32
	DeleteRenderbuffer(rb uint32)
	BindRenderbuffer(target, rb uint32)
	RenderbufferStorage(target, internalFormat uint32, width, height int32)
}

// ActiveUniform describes one active uniform of a linked program. Arrays are
// reported once with Size elements; Name keeps any "[0]" suffix the GL adds.
type ActiveUniform struct {
	Name string
	Type uint32
	Size int32
}
