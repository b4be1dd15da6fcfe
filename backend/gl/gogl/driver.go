// Package gogl implements the GL backend's Driver on go-gl's OpenGL 3.3 core
// bindings and registers it as the "gl" gfx backend.
//
// The window's GL context must be current on the calling thread when the
// gfx context is created; Init loads the entry points for that context.
package gogl

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/gogpu/gfx"
	gfxgl "github.com/gogpu/gfx/backend/gl"
)

func init() {
	gfx.Register(gfx.BackendGL, func(win gfx.Window, cfg gfx.Config) (gfx.Device, error) {
		d, err := gfxgl.Open(New(), win, cfg, gfxgl.Options{})
		if err != nil {
			return nil, err
		}
		return d, nil
	})
}

// Driver forwards every call to the current GL context.
type Driver struct{}

var _ gfxgl.Driver = (*Driver)(nil)

// New returns a go-gl driver.
func New() *Driver { return &Driver{} }

func (*Driver) Init() error { return gl.Init() }

func (*Driver) Version() string {
	if v := gl.GetString(gl.VERSION); v != nil {
		return gl.GoStr(v)
	}
	return ""
}

func (*Driver) GetError() uint32 { return gl.GetError() }

func (*Driver) Enable(capability uint32)  { gl.Enable(capability) }
func (*Driver) Disable(capability uint32) { gl.Disable(capability) }

func (*Driver) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	gl.BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha)
}

func (*Driver) DepthFunc(fn uint32)                { gl.DepthFunc(fn) }
func (*Driver) CullFace(mode uint32)               { gl.CullFace(mode) }
func (*Driver) FrontFace(mode uint32)              { gl.FrontFace(mode) }
func (*Driver) PolygonMode(face, mode uint32)      { gl.PolygonMode(face, mode) }
func (*Driver) PointSize(size float32)             { gl.PointSize(size) }
func (*Driver) LineWidth(width float32)            { gl.LineWidth(width) }
func (*Driver) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (*Driver) Scissor(x, y, width, height int32)  { gl.Scissor(x, y, width, height) }
func (*Driver) ClearColor(r, g, b, a float32)      { gl.ClearColor(r, g, b, a) }
func (*Driver) ClearDepth(depth float64)           { gl.ClearDepth(depth) }
func (*Driver) ClearStencil(s int32)               { gl.ClearStencil(s) }
func (*Driver) Clear(mask uint32)                  { gl.Clear(mask) }

func (*Driver) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (*Driver) DeleteTexture(texture uint32)       { gl.DeleteTextures(1, &texture) }
func (*Driver) ActiveTexture(unit uint32)          { gl.ActiveTexture(unit) }
func (*Driver) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }

func (*Driver) TexParameteri(target, pname uint32, param int32) {
	gl.TexParameteri(target, pname, param)
}

func (*Driver) TexImage2D(target uint32, level, internalFormat, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr(pixels))
}

func (*Driver) TexSubImage2D(target uint32, level, x, y, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexSubImage2D(target, level, x, y, width, height, format, xtype, ptr(pixels))
}

func (*Driver) GetTexImage(target uint32, level int32, format, xtype uint32, pixels []byte) {
	gl.GetTexImage(target, level, format, xtype, ptr(pixels))
}

func (*Driver) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels []byte) {
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, format, xtype, ptr(pixels))
}

func (*Driver) CreateShader(kind uint32) uint32 { return gl.CreateShader(kind) }

func (*Driver) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (*Driver) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (*Driver) ShaderInfo(shader uint32) (bool, string) {
	var status, logLength int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := ""
	if logLength > 0 {
		buf := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(buf))
		log = strings.TrimRight(buf, "\x00")
	}
	return status != gl.FALSE, log
}

func (*Driver) DeleteShader(shader uint32)          { gl.DeleteShader(shader) }
func (*Driver) CreateProgram() uint32               { return gl.CreateProgram() }
func (*Driver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (*Driver) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, gl.Str(name+"\x00"))
}

func (*Driver) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (*Driver) ProgramInfo(program uint32) (bool, string) {
	var status, logLength int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := ""
	if logLength > 0 {
		buf := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(buf))
		log = strings.TrimRight(buf, "\x00")
	}
	return status != gl.FALSE, log
}

func (*Driver) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (*Driver) UseProgram(program uint32)    { gl.UseProgram(program) }

func (*Driver) ActiveUniforms(program uint32) []gfxgl.ActiveUniform {
	var count, maxLength int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)
	if count <= 0 {
		return nil
	}
	buf := make([]uint8, maxLength+1)
	uniforms := make([]gfxgl.ActiveUniform, 0, count)
	for i := range uint32(count) {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		uniforms = append(uniforms, gfxgl.ActiveUniform{
			Name: string(buf[:length]),
			Type: xtype,
			Size: size,
		})
	}
	return uniforms
}

func (*Driver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*Driver) Uniformfv(location int32, components int, v []float32) {
	n := int32(len(v) / components)
	if n == 0 {
		return
	}
	switch components {
	case 1:
		gl.Uniform1fv(location, n, &v[0])
	case 2:
		gl.Uniform2fv(location, n, &v[0])
	case 3:
		gl.Uniform3fv(location, n, &v[0])
	case 4:
		gl.Uniform4fv(location, n, &v[0])
	}
}

func (*Driver) Uniformiv(location int32, components int, v []int32) {
	n := int32(len(v) / components)
	if n == 0 {
		return
	}
	switch components {
	case 1:
		gl.Uniform1iv(location, n, &v[0])
	case 2:
		gl.Uniform2iv(location, n, &v[0])
	case 3:
		gl.Uniform3iv(location, n, &v[0])
	case 4:
		gl.Uniform4iv(location, n, &v[0])
	}
}

func (*Driver) Uniformuiv(location int32, components int, v []uint32) {
	n := int32(len(v) / components)
	if n == 0 {
		return
	}
	switch components {
	case 1:
		gl.Uniform1uiv(location, n, &v[0])
	case 2:
		gl.Uniform2uiv(location, n, &v[0])
	case 3:
		gl.Uniform3uiv(location, n, &v[0])
	case 4:
		gl.Uniform4uiv(location, n, &v[0])
	}
}

func (*Driver) UniformMatrix4fv(location int32, count int32, v []float32) {
	if count <= 0 || len(v) < int(count)*16 {
		return
	}
	gl.UniformMatrix4fv(location, count, false, &v[0])
}

func (*Driver) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (*Driver) DeleteBuffer(buffer uint32)        { gl.DeleteBuffers(1, &buffer) }
func (*Driver) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (*Driver) BufferData(target uint32, size int, data []byte, usage uint32) {
	gl.BufferData(target, size, ptr(data), usage)
}

func (*Driver) BufferSubData(target uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(target, offset, len(data), ptr(data))
}

func (*Driver) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (*Driver) DeleteVertexArray(array uint32)        { gl.DeleteVertexArrays(1, &array) }
func (*Driver) BindVertexArray(array uint32)          { gl.BindVertexArray(array) }
func (*Driver) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (*Driver) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (*Driver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
}

func (*Driver) VertexAttrib4f(index uint32, x, y, z, w float32) { gl.VertexAttrib4f(index, x, y, z, w) }

func (*Driver) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (*Driver) DrawElements(mode uint32, count int32, xtype uint32, offset int) {
	gl.DrawElementsWithOffset(mode, count, xtype, uintptr(offset))
}

func (*Driver) GenFramebuffer() uint32 {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return fb
}

func (*Driver) DeleteFramebuffer(fb uint32)        { gl.DeleteFramebuffers(1, &fb) }
func (*Driver) BindFramebuffer(target, fb uint32) { gl.BindFramebuffer(target, fb) }

func (*Driver) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, textarget, texture, level)
}

func (*Driver) FramebufferRenderbuffer(target, attachment, rbtarget, rb uint32) {
	gl.FramebufferRenderbuffer(target, attachment, rbtarget, rb)
}

func (*Driver) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}

func (*Driver) DrawBuffers(buffers []uint32) {
	if len(buffers) == 0 {
		return
	}
	gl.DrawBuffers(int32(len(buffers)), &buffers[0])
}

func (*Driver) GenRenderbuffer() uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return rb
}

func (*Driver) DeleteRenderbuffer(rb uint32)        { gl.DeleteRenderbuffers(1, &rb) }
func (*Driver) BindRenderbuffer(target, rb uint32) { gl.BindRenderbuffer(target, rb) }

func (*Driver) RenderbufferStorage(target, internalFormat uint32, width, height int32) {
	gl.RenderbufferStorage(target, internalFormat, width, height)
}

// ptr returns a pointer to the first byte of b, or nil for an empty slice.
func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
