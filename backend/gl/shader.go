package gl

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/gogpu/gfx"
)

const (
	mvpUniform     = "u_ModelViewProj"
	textureUniform = "u_Texture"
)

type uniformInfo struct {
	location int32
	kind     uint32
	size     int32
}

// shaderObject implements gfx.ShaderObject on a linked GL program. Uniform
// values live in the program, so SetUniform writes them immediately.
type shaderObject struct {
	d        *Device
	label    string
	program  uint32
	uniforms map[string]uniformInfo

	// samplers lists the sampler uniforms; a sampler's texture unit is its
	// index. u_Texture always takes unit 0.
	samplers []string
	bound    map[string]*textureObject
}

func (d *Device) NewShader(desc gfx.ShaderDesc) (gfx.ShaderObject, error) {
	if d.closed {
		return nil, gfx.ErrClosed
	}
	return d.newShader(desc)
}

func (d *Device) newShader(desc gfx.ShaderDesc) (*shaderObject, error) {
	if desc.Vertex == "" || desc.Fragment == "" {
		return nil, fmt.Errorf("gl: shader %q needs vertex and fragment source: %w", desc.Label, gfx.ErrInvalidDescriptor)
	}
	vs, err := d.compile(VERTEX_SHADER, desc.Label, desc.Vertex)
	if err != nil {
		return nil, err
	}
	defer d.drv.DeleteShader(vs)
	fs, err := d.compile(FRAGMENT_SHADER, desc.Label, desc.Fragment)
	if err != nil {
		return nil, err
	}
	defer d.drv.DeleteShader(fs)

	prog := d.drv.CreateProgram()
	d.drv.AttachShader(prog, vs)
	d.drv.AttachShader(prog, fs)
	for i, name := range attribNames {
		d.drv.BindAttribLocation(prog, uint32(i), name)
	}
	d.drv.LinkProgram(prog)
	if ok, log := d.drv.ProgramInfo(prog); !ok {
		d.drv.DeleteProgram(prog)
		return nil, fmt.Errorf("%w: %q: %s", ErrLink, desc.Label, strings.TrimSpace(log))
	}

	s := &shaderObject{
		d:        d,
		label:    desc.Label,
		program:  prog,
		uniforms: make(map[string]uniformInfo),
		bound:    make(map[string]*textureObject),
	}
	s.reflect()
	if err := d.check("LinkProgram"); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (d *Device) compile(kind uint32, label, source string) (uint32, error) {
	sh := d.drv.CreateShader(kind)
	d.drv.ShaderSource(sh, source)
	d.drv.CompileShader(sh)
	if ok, log := d.drv.ShaderInfo(sh); !ok {
		d.drv.DeleteShader(sh)
		stage := "vertex"
		if kind == FRAGMENT_SHADER {
			stage = "fragment"
		}
		return 0, fmt.Errorf("%w: %q %s stage: %s", ErrCompile, label, stage, strings.TrimSpace(log))
	}
	return sh, nil
}

// reflect builds the uniform map and assigns texture units to samplers.
func (s *shaderObject) reflect() {
	for _, u := range s.d.drv.ActiveUniforms(s.program) {
		name := strings.TrimSuffix(u.Name, "[0]")
		loc := s.d.drv.GetUniformLocation(s.program, name)
		if loc < 0 {
			continue
		}
		s.uniforms[name] = uniformInfo{location: loc, kind: u.Type, size: u.Size}
		if u.Type == SAMPLER_2D {
			s.samplers = append(s.samplers, name)
		}
	}
	slices.SortFunc(s.samplers, func(a, b string) int {
		switch {
		case a == textureUniform:
			return -1
		case b == textureUniform:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	if len(s.samplers) == 0 {
		return
	}
	s.use()
	for unit, name := range s.samplers {
		s.d.drv.Uniformiv(s.uniforms[name].location, 1, []int32{int32(unit)})
	}
}

func (s *shaderObject) use() {
	if s.d.program != s.program {
		s.d.drv.UseProgram(s.program)
		s.d.program = s.program
	}
}

func (s *shaderObject) Backend() string { return gfx.BackendGL }

func (s *shaderObject) Destroy() {
	if s.d.program == s.program {
		s.d.drv.UseProgram(0)
		s.d.program = 0
	}
	s.d.drv.DeleteProgram(s.program)
	s.program = 0
}

func (s *shaderObject) SetUniform(name string, u gfx.Uniform) {
	info, ok := s.uniforms[name]
	if !ok {
		gfx.Logger().Debug("gl: unknown uniform", "shader", s.label, "name", name)
		return
	}
	elem := 4 * u.Components
	if u.Type == gfx.UniformMat4 {
		elem = 64
	}
	if elem == 0 {
		return
	}
	count := min(u.Count, int(info.size), len(u.Data)/elem)
	if count <= 0 {
		return
	}
	s.use()
	switch u.Type {
	case gfx.UniformFloat:
		s.d.drv.Uniformfv(info.location, u.Components, floats(u.Data, count*u.Components))
	case gfx.UniformInt:
		s.d.drv.Uniformiv(info.location, u.Components, ints(u.Data, count*u.Components))
	case gfx.UniformUint:
		s.d.drv.Uniformuiv(info.location, u.Components, uints(u.Data, count*u.Components))
	case gfx.UniformMat4:
		s.d.drv.UniformMatrix4fv(info.location, int32(count), floats(u.Data, 16*count))
	}
}

func (s *shaderObject) SetSampler(name string, tex gfx.TextureObject) {
	if info, ok := s.uniforms[name]; !ok || info.kind != SAMPLER_2D {
		gfx.Logger().Debug("gl: unknown sampler", "shader", s.label, "name", name)
		return
	}
	if tex == nil {
		delete(s.bound, name)
		return
	}
	t, ok := tex.(*textureObject)
	if !ok || t.d != s.d {
		gfx.Logger().Warn("gl: sampler texture from another device", "shader", s.label, "name", name)
		return
	}
	s.bound[name] = t
}

// bindTextures binds every sampler's texture to its unit. Unbound samplers
// read dflt on unit 0 and the white texture elsewhere.
func (s *shaderObject) bindTextures(dflt *textureObject) {
	for unit, name := range s.samplers {
		t := s.bound[name]
		if t == nil {
			t = s.d.white
			if unit == 0 {
				t = dflt
			}
		}
		s.d.drv.ActiveTexture(TEXTURE0 + uint32(unit))
		s.d.drv.BindTexture(TEXTURE_2D, t.name)
	}
}

func floats(b []byte, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

func ints(b []byte, n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

func uints(b []byte, n int) []uint32 {
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return out
}
