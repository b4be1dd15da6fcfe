package gfx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Shader is a reference-counted shader program.
//
// Uniforms are set by name and resolved through the backend's reflection
// data. A name the program does not declare is silently ignored, which
// means a misspelled name fails without an error; enable debug logging to
// see dropped names.
type Shader struct {
	rc       refCount
	obj      ShaderObject
	label    string
	samplers map[string]*Texture2D
}

// NewShader compiles a shader on the context's device.
func (c *Context) NewShader(desc ShaderDesc) (*Shader, error) {
	return createNew[Shader](c, desc)
}

func (s *Shader) initialize(c *Context, desc ShaderDesc) error {
	if desc.Vertex == "" {
		return fmt.Errorf("shader %q: empty vertex source: %w", desc.Label, ErrInvalidDescriptor)
	}
	obj, err := c.dev.NewShader(desc)
	if err != nil {
		return fmt.Errorf("shader %q: %w", desc.Label, err)
	}
	s.obj = obj
	s.label = desc.Label
	s.rc.init()
	return nil
}

func (s *Shader) destroy() {
	for name, tex := range s.samplers {
		tex.Release()
		delete(s.samplers, name)
	}
	if s.obj != nil {
		s.obj.Destroy()
		s.obj = nil
	}
}

// Retain adds a reference.
func (s *Shader) Retain() *Shader {
	if s != nil && !s.rc.retain() {
		Logger().Warn("gfx: retain of released shader", "label", s.label)
	}
	return s
}

// Release drops a reference and destroys the program with the last one.
func (s *Shader) Release() {
	if s != nil && s.rc.release() {
		s.destroy()
	}
}

// Object returns the device object, nil after the last release.
func (s *Shader) Object() ShaderObject {
	if s == nil || !s.rc.alive() {
		return nil
	}
	return s.obj
}

// Label returns the debug name.
func (s *Shader) Label() string { return s.label }

func (s *Shader) set(name string, typ UniformType, comps, count int, data []byte) {
	obj := s.Object()
	if obj == nil {
		Logger().Warn("gfx: uniform set on released shader", "label", s.label, "uniform", name)
		return
	}
	obj.SetUniform(name, Uniform{Type: typ, Components: comps, Count: count, Data: data})
}

func floatBytes(v []float32) []byte {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(f))
	}
	return b
}

func intBytes(v []int32) []byte {
	b := make([]byte, 4*len(v))
	for i, n := range v {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(n))
	}
	return b
}

func uintBytes(v []uint32) []byte {
	b := make([]byte, 4*len(v))
	for i, n := range v {
		binary.LittleEndian.PutUint32(b[4*i:], n)
	}
	return b
}

// SetUniform1f sets a float uniform.
func (s *Shader) SetUniform1f(name string, v0 float32) {
	s.set(name, UniformFloat, 1, 1, floatBytes([]float32{v0}))
}

// SetUniform2f sets a vec2 uniform.
func (s *Shader) SetUniform2f(name string, v0, v1 float32) {
	s.set(name, UniformFloat, 2, 1, floatBytes([]float32{v0, v1}))
}

// SetUniform3f sets a vec3 uniform.
func (s *Shader) SetUniform3f(name string, v0, v1, v2 float32) {
	s.set(name, UniformFloat, 3, 1, floatBytes([]float32{v0, v1, v2}))
}

// SetUniform4f sets a vec4 uniform.
func (s *Shader) SetUniform4f(name string, v0, v1, v2, v3 float32) {
	s.set(name, UniformFloat, 4, 1, floatBytes([]float32{v0, v1, v2, v3}))
}

// SetUniform1i sets an int uniform.
func (s *Shader) SetUniform1i(name string, v0 int32) {
	s.set(name, UniformInt, 1, 1, intBytes([]int32{v0}))
}

// SetUniform2i sets an ivec2 uniform.
func (s *Shader) SetUniform2i(name string, v0, v1 int32) {
	s.set(name, UniformInt, 2, 1, intBytes([]int32{v0, v1}))
}

// SetUniform3i sets an ivec3 uniform.
func (s *Shader) SetUniform3i(name string, v0, v1, v2 int32) {
	s.set(name, UniformInt, 3, 1, intBytes([]int32{v0, v1, v2}))
}

// SetUniform4i sets an ivec4 uniform.
func (s *Shader) SetUniform4i(name string, v0, v1, v2, v3 int32) {
	s.set(name, UniformInt, 4, 1, intBytes([]int32{v0, v1, v2, v3}))
}

// SetUniform1ui sets a uint uniform.
func (s *Shader) SetUniform1ui(name string, v0 uint32) {
	s.set(name, UniformUint, 1, 1, uintBytes([]uint32{v0}))
}

// SetUniform2ui sets a uvec2 uniform.
func (s *Shader) SetUniform2ui(name string, v0, v1 uint32) {
	s.set(name, UniformUint, 2, 1, uintBytes([]uint32{v0, v1}))
}

// SetUniform3ui sets a uvec3 uniform.
func (s *Shader) SetUniform3ui(name string, v0, v1, v2 uint32) {
	s.set(name, UniformUint, 3, 1, uintBytes([]uint32{v0, v1, v2}))
}

// SetUniform4ui sets a uvec4 uniform.
func (s *Shader) SetUniform4ui(name string, v0, v1, v2, v3 uint32) {
	s.set(name, UniformUint, 4, 1, uintBytes([]uint32{v0, v1, v2, v3}))
}

// SetUniform1fv sets a float array uniform.
func (s *Shader) SetUniform1fv(name string, v []float32) {
	s.set(name, UniformFloat, 1, len(v), floatBytes(v))
}

// SetUniform2fv sets a vec2 array uniform from consecutive pairs.
func (s *Shader) SetUniform2fv(name string, v []float32) {
	s.set(name, UniformFloat, 2, len(v)/2, floatBytes(v[:len(v)/2*2]))
}

// SetUniform4fv sets a vec4 array uniform from consecutive quadruples.
func (s *Shader) SetUniform4fv(name string, v []float32) {
	s.set(name, UniformFloat, 4, len(v)/4, floatBytes(v[:len(v)/4*4]))
}

// SetUniform1iv sets an int array uniform.
func (s *Shader) SetUniform1iv(name string, v []int32) {
	s.set(name, UniformInt, 1, len(v), intBytes(v))
}

// SetUniform1uiv sets a uint array uniform.
func (s *Shader) SetUniform1uiv(name string, v []uint32) {
	s.set(name, UniformUint, 1, len(v), uintBytes(v))
}

// SetUniformMatrix4f sets a mat4 uniform.
func (s *Shader) SetUniformMatrix4f(name string, m mgl32.Mat4) {
	s.set(name, UniformMat4, 16, 1, floatBytes(m[:]))
}

// SetUniformColor sets a vec4 uniform from a color scaled to [0, 1].
func (s *Shader) SetUniformColor(name string, c Color) {
	f := c.Floats()
	s.SetUniform4f(name, f[0], f[1], f[2], f[3])
}

// SetSampler2D binds tex to the sampler uniform name. A nil texture unbinds it.
// The shader holds a reference on the bound texture until it is rebound or
// the shader is destroyed.
func (s *Shader) SetSampler2D(name string, tex *Texture2D) {
	obj := s.Object()
	if obj == nil {
		return
	}
	texObj := tex.Object()
	if tex != nil && texObj == nil {
		Logger().Warn("gfx: released texture bound to sampler", "label", s.label, "sampler", name)
		tex = nil
	}
	if prev := s.samplers[name]; prev != tex {
		tex.Retain()
		prev.Release()
	}
	if tex == nil {
		delete(s.samplers, name)
	} else {
		if s.samplers == nil {
			s.samplers = make(map[string]*Texture2D)
		}
		s.samplers[name] = tex
	}
	obj.SetSampler(name, texObj)
}
