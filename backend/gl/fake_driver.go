package gl

import (
	"encoding/binary"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// FakeDriver is an in-memory Driver for tests. It records every call by
// name, keeps texture, buffer and framebuffer storage, parses uniform
// declarations out of shader sources and clears framebuffers in memory.
// Draws are recorded, not rasterized.
//
// Like the GL, the first error raised is kept until GetError reads it.
type FakeDriver struct {
	// Calls lists the entry points in call order.
	Calls []string

	// Draws lists every DrawArrays and DrawElements call.
	Draws []FakeDraw

	ViewportBox      [4]int32
	ScissorBox       [4]int32
	Blend            [4]uint32
	FrontFaceMode    uint32
	PolygonModeValue uint32
	PointSizeValue   float32
	LineWidthValue   float32

	width, height int
	pixels        []byte // default framebuffer, bottom row first

	next  uint32
	err   uint32
	caps  map[uint32]bool
	clear [4]float32

	textures   map[uint32]*fakeTexture
	activeUnit uint32
	units      map[uint32]uint32

	buffers  map[uint32][]byte
	bindings map[uint32]uint32

	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram
	program  uint32

	arrays  map[uint32]bool
	vao     uint32
	attribs [16]FakeAttrib

	framebuffers  map[uint32]*fakeFramebuffer
	fbo           uint32
	renderbuffers map[uint32]bool
}

// FakeDraw is one recorded draw.
type FakeDraw struct {
	Mode    uint32
	First   int32
	Count   int32
	Indexed bool
	Program uint32

	// Textures maps texture units to the bound texture names.
	Textures map[uint32]uint32

	// Vertices is a copy of the bound array buffer; Indices holds the
	// indices of indexed draws.
	Vertices []byte
	Indices  []uint32

	Attribs     [16]FakeAttrib
	Framebuffer uint32
}

// FakeAttrib is the state of one vertex attribute slot.
type FakeAttrib struct {
	Enabled    bool
	Size       int32
	Type       uint32
	Normalized bool
	Stride     int32
	Offset     int
	Value      [4]float32
}

type fakeTexture struct {
	width, height int
	data          []byte
	params        map[uint32]int32
}

type fakeShader struct {
	kind   uint32
	source string
	ok     bool
	log    string
}

type fakeProgram struct {
	shaders   []uint32
	attribs   map[string]uint32
	linked    bool
	log       string
	uniforms  []ActiveUniform
	locations map[string]int32
	floats    map[int32][]float32
	ints      map[int32][]int32
	uints     map[int32][]uint32
}

type fakeFramebuffer struct {
	colors map[uint32]uint32
	depth  uint32
}

var _ Driver = (*FakeDriver)(nil)

// NewFakeDriver returns a driver whose default framebuffer is width×height.
func NewFakeDriver(width, height int) *FakeDriver {
	return &FakeDriver{
		FrontFaceMode:    CCW,
		PolygonModeValue: FILL,
		width:            width,
		height:           height,
		pixels:           make([]byte, 4*width*height),
		caps:             make(map[uint32]bool),
		textures:         make(map[uint32]*fakeTexture),
		units:            make(map[uint32]uint32),
		buffers:          make(map[uint32][]byte),
		bindings:         make(map[uint32]uint32),
		shaders:          make(map[uint32]*fakeShader),
		programs:         make(map[uint32]*fakeProgram),
		arrays:           make(map[uint32]bool),
		framebuffers:     make(map[uint32]*fakeFramebuffer),
		renderbuffers:    make(map[uint32]bool),
	}
}

func (f *FakeDriver) call(name string) { f.Calls = append(f.Calls, name) }

func (f *FakeDriver) fail(code uint32) {
	if f.err == NO_ERROR {
		f.err = code
	}
}

func (f *FakeDriver) gen() uint32 {
	f.next++
	return f.next
}

// Raise sets the GL error flag as if the last call had failed.
func (f *FakeDriver) Raise(code uint32) { f.fail(code) }

// CallCount returns how many times the named entry point was called.
func (f *FakeDriver) CallCount(name string) int {
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// ResetCalls clears the call and draw logs.
func (f *FakeDriver) ResetCalls() {
	f.Calls = f.Calls[:0]
	f.Draws = f.Draws[:0]
}

// IsEnabled reports a capability toggled with Enable.
func (f *FakeDriver) IsEnabled(capability uint32) bool { return f.caps[capability] }

// Texture returns the size and RGBA8 contents of a texture name.
func (f *FakeDriver) Texture(name uint32) (width, height int, data []byte, ok bool) {
	t, ok := f.textures[name]
	if !ok {
		return 0, 0, nil, false
	}
	return t.width, t.height, t.data, true
}

// TextureParam returns a parameter set with TexParameteri.
func (f *FakeDriver) TextureParam(name, pname uint32) int32 {
	if t, ok := f.textures[name]; ok {
		return t.params[pname]
	}
	return 0
}

// Buffer returns the contents of a buffer name.
func (f *FakeDriver) Buffer(name uint32) ([]byte, bool) {
	b, ok := f.buffers[name]
	return b, ok
}

// Program returns the name of the program in use.
func (f *FakeDriver) Program() uint32 { return f.program }

// Framebuffer returns the bound framebuffer name.
func (f *FakeDriver) Framebuffer() uint32 { return f.fbo }

// Live returns the number of live GL objects of every kind.
func (f *FakeDriver) Live() int {
	return len(f.textures) + len(f.buffers) + len(f.shaders) + len(f.programs) +
		len(f.arrays) + len(f.framebuffers) + len(f.renderbuffers)
}

// UniformFloats returns the float values last written to a uniform of program.
func (f *FakeDriver) UniformFloats(program uint32, name string) []float32 {
	p, ok := f.programs[program]
	if !ok {
		return nil
	}
	return p.floats[p.locations[name]]
}

// UniformInts returns the int values last written to a uniform of program.
func (f *FakeDriver) UniformInts(program uint32, name string) []int32 {
	p, ok := f.programs[program]
	if !ok {
		return nil
	}
	return p.ints[p.locations[name]]
}

// UniformUints returns the uint values last written to a uniform of program.
func (f *FakeDriver) UniformUints(program uint32, name string) []uint32 {
	p, ok := f.programs[program]
	if !ok {
		return nil
	}
	return p.uints[p.locations[name]]
}

func (f *FakeDriver) Init() error {
	f.call("Init")
	return nil
}

func (f *FakeDriver) Version() string { return "3.3.0 FakeDriver" }

func (f *FakeDriver) GetError() uint32 {
	code := f.err
	f.err = NO_ERROR
	return code
}

func (f *FakeDriver) Enable(capability uint32) {
	f.call("Enable")
	f.caps[capability] = true
}

func (f *FakeDriver) Disable(capability uint32) {
	f.call("Disable")
	f.caps[capability] = false
}

func (f *FakeDriver) BlendFuncSeparate(srcRGB, dstRGB, srcAlpha, dstAlpha uint32) {
	f.call("BlendFuncSeparate")
	f.Blend = [4]uint32{srcRGB, dstRGB, srcAlpha, dstAlpha}
}

func (f *FakeDriver) DepthFunc(uint32) { f.call("DepthFunc") }
func (f *FakeDriver) CullFace(uint32)  { f.call("CullFace") }

func (f *FakeDriver) FrontFace(mode uint32) {
	f.call("FrontFace")
	f.FrontFaceMode = mode
}

func (f *FakeDriver) PolygonMode(_, mode uint32) {
	f.call("PolygonMode")
	f.PolygonModeValue = mode
}

func (f *FakeDriver) PointSize(size float32) {
	f.call("PointSize")
	f.PointSizeValue = size
}

func (f *FakeDriver) LineWidth(width float32) {
	f.call("LineWidth")
	f.LineWidthValue = width
}

func (f *FakeDriver) Viewport(x, y, width, height int32) {
	f.call("Viewport")
	f.ViewportBox = [4]int32{x, y, width, height}
}

func (f *FakeDriver) Scissor(x, y, width, height int32) {
	f.call("Scissor")
	f.ScissorBox = [4]int32{x, y, width, height}
}

func (f *FakeDriver) ClearColor(r, g, b, a float32) {
	f.call("ClearColor")
	f.clear = [4]float32{r, g, b, a}
}

func (f *FakeDriver) ClearDepth(float64) { f.call("ClearDepth") }
func (f *FakeDriver) ClearStencil(int32) { f.call("ClearStencil") }

// Clear fills the color buffer of the bound framebuffer, honoring the
// scissor box. Depth and stencil have no storage.
func (f *FakeDriver) Clear(mask uint32) {
	f.call("Clear")
	if mask&COLOR_BUFFER_BIT == 0 {
		return
	}
	var px [4]byte
	for i, c := range f.clear {
		px[i] = uint8(math.Round(float64(min(max(c, 0), 1)) * 255))
	}
	data, w, h := f.colorBuffer()
	if data == nil {
		f.fail(INVALID_FRAMEBUFFER_OPERATION)
		return
	}
	x0, y0, x1, y1 := 0, 0, w, h
	if f.caps[SCISSOR_TEST] {
		b := f.ScissorBox
		x0, y0 = max(int(b[0]), 0), max(int(b[1]), 0)
		x1, y1 = min(int(b[0]+b[2]), w), min(int(b[1]+b[3]), h)
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			copy(data[4*(y*w+x):], px[:])
		}
	}
}

// colorBuffer returns the storage of color attachment 0 of the bound
// framebuffer.
func (f *FakeDriver) colorBuffer() ([]byte, int, int) {
	if f.fbo == 0 {
		return f.pixels, f.width, f.height
	}
	fb := f.framebuffers[f.fbo]
	t, ok := f.textures[fb.colors[COLOR_ATTACHMENT0]]
	if !ok {
		return nil, 0, 0
	}
	return t.data, t.width, t.height
}

func (f *FakeDriver) GenTexture() uint32 {
	f.call("GenTexture")
	name := f.gen()
	f.textures[name] = &fakeTexture{params: make(map[uint32]int32)}
	return name
}

func (f *FakeDriver) DeleteTexture(texture uint32) {
	f.call("DeleteTexture")
	delete(f.textures, texture)
	for unit, t := range f.units {
		if t == texture {
			delete(f.units, unit)
		}
	}
}

func (f *FakeDriver) ActiveTexture(unit uint32) {
	f.call("ActiveTexture")
	f.activeUnit = unit - TEXTURE0
}

func (f *FakeDriver) BindTexture(_, texture uint32) {
	f.call("BindTexture")
	if _, ok := f.textures[texture]; !ok && texture != 0 {
		f.fail(INVALID_VALUE)
		return
	}
	f.units[f.activeUnit] = texture
}

func (f *FakeDriver) bound() *fakeTexture {
	t, ok := f.textures[f.units[f.activeUnit]]
	if !ok {
		f.fail(INVALID_OPERATION)
		return nil
	}
	return t
}

func (f *FakeDriver) TexParameteri(_, pname uint32, param int32) {
	f.call("TexParameteri")
	if t := f.bound(); t != nil {
		t.params[pname] = param
	}
}

func (f *FakeDriver) TexImage2D(_ uint32, _, _, width, height int32, _, _ uint32, pixels []byte) {
	f.call("TexImage2D")
	t := f.bound()
	if t == nil {
		return
	}
	t.width, t.height = int(width), int(height)
	t.data = make([]byte, 4*t.width*t.height)
	copy(t.data, pixels)
}

func (f *FakeDriver) TexSubImage2D(_ uint32, _, x, y, width, height int32, _, _ uint32, pixels []byte) {
	f.call("TexSubImage2D")
	t := f.bound()
	if t == nil {
		return
	}
	if x < 0 || y < 0 || int(x+width) > t.width || int(y+height) > t.height {
		f.fail(INVALID_VALUE)
		return
	}
	row := 4 * int(width)
	for r := 0; r < int(height); r++ {
		dst := 4 * ((int(y)+r)*t.width + int(x))
		copy(t.data[dst:dst+row], pixels[r*row:])
	}
}

func (f *FakeDriver) GetTexImage(_ uint32, _ int32, _, _ uint32, pixels []byte) {
	f.call("GetTexImage")
	if t := f.bound(); t != nil {
		copy(pixels, t.data)
	}
}

func (f *FakeDriver) ReadPixels(x, y, width, height int32, _, _ uint32, pixels []byte) {
	f.call("ReadPixels")
	data, w, h := f.colorBuffer()
	if data == nil || x < 0 || y < 0 || int(x+width) > w || int(y+height) > h {
		f.fail(INVALID_OPERATION)
		return
	}
	row := 4 * int(width)
	for r := 0; r < int(height); r++ {
		src := 4 * ((int(y)+r)*w + int(x))
		copy(pixels[r*row:(r+1)*row], data[src:])
	}
}

func (f *FakeDriver) CreateShader(kind uint32) uint32 {
	f.call("CreateShader")
	name := f.gen()
	f.shaders[name] = &fakeShader{kind: kind}
	return name
}

func (f *FakeDriver) ShaderSource(shader uint32, source string) {
	f.call("ShaderSource")
	if s, ok := f.shaders[shader]; ok {
		s.source = source
	}
}

// CompileShader accepts any source with a main function and no #error
// directive.
func (f *FakeDriver) CompileShader(shader uint32) {
	f.call("CompileShader")
	s, ok := f.shaders[shader]
	if !ok {
		f.fail(INVALID_VALUE)
		return
	}
	switch {
	case strings.Contains(s.source, "#error"):
		s.ok, s.log = false, "0:1(1): error: #error directive"
	case !strings.Contains(s.source, "void main"):
		s.ok, s.log = false, "0:1(1): error: no main function"
	default:
		s.ok, s.log = true, ""
	}
}

func (f *FakeDriver) ShaderInfo(shader uint32) (bool, string) {
	f.call("ShaderInfo")
	s, ok := f.shaders[shader]
	if !ok {
		return false, "no such shader"
	}
	return s.ok, s.log
}

func (f *FakeDriver) DeleteShader(shader uint32) {
	f.call("DeleteShader")
	delete(f.shaders, shader)
}

func (f *FakeDriver) CreateProgram() uint32 {
	f.call("CreateProgram")
	name := f.gen()
	f.programs[name] = &fakeProgram{
		attribs:   make(map[string]uint32),
		locations: make(map[string]int32),
		floats:    make(map[int32][]float32),
		ints:      make(map[int32][]int32),
		uints:     make(map[int32][]uint32),
	}
	return name
}

func (f *FakeDriver) AttachShader(program, shader uint32) {
	f.call("AttachShader")
	if p, ok := f.programs[program]; ok {
		p.shaders = append(p.shaders, shader)
	}
}

func (f *FakeDriver) BindAttribLocation(program, index uint32, name string) {
	f.call("BindAttribLocation")
	if p, ok := f.programs[program]; ok {
		p.attribs[name] = index
	}
}

// AttribLocation returns the location bound to an attribute before linking.
func (f *FakeDriver) AttribLocation(program uint32, name string) (uint32, bool) {
	p, ok := f.programs[program]
	if !ok {
		return 0, false
	}
	i, ok := p.attribs[name]
	return i, ok
}

var uniformDecl = regexp.MustCompile(`uniform\s+(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)

var glslTypes = map[string]uint32{
	"float":     FLOAT,
	"vec2":      FLOAT_VEC2,
	"vec3":      FLOAT_VEC3,
	"vec4":      FLOAT_VEC4,
	"int":       INT,
	"ivec2":     INT_VEC2,
	"ivec3":     INT_VEC3,
	"ivec4":     INT_VEC4,
	"uint":      UNSIGNED_INT,
	"uvec2":     UNSIGNED_INT_VEC2,
	"uvec3":     UNSIGNED_INT_VEC3,
	"uvec4":     UNSIGNED_INT_VEC4,
	"bool":      BOOL,
	"mat4":      FLOAT_MAT4,
	"sampler2D": SAMPLER_2D,
}

// LinkProgram links a vertex and a fragment stage. Every uniform declared
// in either stage is treated as active; locations follow declaration order.
func (f *FakeDriver) LinkProgram(program uint32) {
	f.call("LinkProgram")
	p, ok := f.programs[program]
	if !ok {
		f.fail(INVALID_VALUE)
		return
	}
	var stages []uint32
	p.uniforms, p.locations = nil, make(map[string]int32)
	for _, name := range p.shaders {
		s, ok := f.shaders[name]
		if !ok || !s.ok {
			p.linked, p.log = false, "error: attached shader is not compiled"
			return
		}
		stages = append(stages, s.kind)
		for _, m := range uniformDecl.FindAllStringSubmatch(s.source, -1) {
			typ, ok := glslTypes[m[1]]
			if !ok {
				continue
			}
			name := m[2]
			if _, dup := p.locations[name]; dup {
				continue
			}
			size := int32(1)
			if m[3] != "" {
				n, _ := strconv.Atoi(m[3])
				size = int32(n)
				name += "[0]"
			}
			p.uniforms = append(p.uniforms, ActiveUniform{Name: name, Type: typ, Size: size})
			p.locations[m[2]] = int32(len(p.locations))
		}
	}
	if !slices.Contains(stages, VERTEX_SHADER) || !slices.Contains(stages, FRAGMENT_SHADER) {
		p.linked, p.log = false, "error: program needs a vertex and a fragment shader"
		return
	}
	p.linked, p.log = true, ""
}

func (f *FakeDriver) ProgramInfo(program uint32) (bool, string) {
	f.call("ProgramInfo")
	p, ok := f.programs[program]
	if !ok {
		return false, "no such program"
	}
	return p.linked, p.log
}

func (f *FakeDriver) DeleteProgram(program uint32) {
	f.call("DeleteProgram")
	delete(f.programs, program)
	if f.program == program {
		f.program = 0
	}
}

func (f *FakeDriver) UseProgram(program uint32) {
	f.call("UseProgram")
	if p, ok := f.programs[program]; program != 0 && (!ok || !p.linked) {
		f.fail(INVALID_OPERATION)
		return
	}
	f.program = program
}

func (f *FakeDriver) ActiveUniforms(program uint32) []ActiveUniform {
	f.call("ActiveUniforms")
	if p, ok := f.programs[program]; ok {
		return slices.Clone(p.uniforms)
	}
	return nil
}

func (f *FakeDriver) GetUniformLocation(program uint32, name string) int32 {
	f.call("GetUniformLocation")
	p, ok := f.programs[program]
	if !ok {
		return -1
	}
	if loc, ok := p.locations[strings.TrimSuffix(name, "[0]")]; ok {
		return loc
	}
	return -1
}

func (f *FakeDriver) current() *fakeProgram {
	p, ok := f.programs[f.program]
	if !ok {
		f.fail(INVALID_OPERATION)
		return nil
	}
	return p
}

func (f *FakeDriver) Uniformfv(location int32, _ int, v []float32) {
	f.call("Uniformfv")
	if p := f.current(); p != nil {
		p.floats[location] = slices.Clone(v)
	}
}

func (f *FakeDriver) Uniformiv(location int32, _ int, v []int32) {
	f.call("Uniformiv")
	if p := f.current(); p != nil {
		p.ints[location] = slices.Clone(v)
	}
}

func (f *FakeDriver) Uniformuiv(location int32, _ int, v []uint32) {
	f.call("Uniformuiv")
	if p := f.current(); p != nil {
		p.uints[location] = slices.Clone(v)
	}
}

func (f *FakeDriver) UniformMatrix4fv(location int32, count int32, v []float32) {
	f.call("UniformMatrix4fv")
	if p := f.current(); p != nil {
		p.floats[location] = slices.Clone(v[:16*count])
	}
}

func (f *FakeDriver) GenBuffer() uint32 {
	f.call("GenBuffer")
	name := f.gen()
	f.buffers[name] = nil
	return name
}

func (f *FakeDriver) DeleteBuffer(buffer uint32) {
	f.call("DeleteBuffer")
	delete(f.buffers, buffer)
	for target, b := range f.bindings {
		if b == buffer {
			delete(f.bindings, target)
		}
	}
}

func (f *FakeDriver) BindBuffer(target, buffer uint32) {
	f.call("BindBuffer")
	if _, ok := f.buffers[buffer]; !ok && buffer != 0 {
		f.fail(INVALID_VALUE)
		return
	}
	f.bindings[target] = buffer
}

func (f *FakeDriver) boundBuffer(target uint32) (uint32, bool) {
	name, ok := f.bindings[target]
	if !ok || name == 0 {
		f.fail(INVALID_OPERATION)
		return 0, false
	}
	return name, true
}

func (f *FakeDriver) BufferData(target uint32, size int, data []byte, _ uint32) {
	f.call("BufferData")
	if name, ok := f.boundBuffer(target); ok {
		buf := make([]byte, size)
		copy(buf, data)
		f.buffers[name] = buf
	}
}

func (f *FakeDriver) BufferSubData(target uint32, offset int, data []byte) {
	f.call("BufferSubData")
	name, ok := f.boundBuffer(target)
	if !ok {
		return
	}
	buf := f.buffers[name]
	if offset < 0 || offset+len(data) > len(buf) {
		f.fail(INVALID_VALUE)
		return
	}
	copy(buf[offset:], data)
}

func (f *FakeDriver) GenVertexArray() uint32 {
	f.call("GenVertexArray")
	name := f.gen()
	f.arrays[name] = true
	return name
}

func (f *FakeDriver) DeleteVertexArray(array uint32) {
	f.call("DeleteVertexArray")
	delete(f.arrays, array)
	if f.vao == array {
		f.vao = 0
	}
}

func (f *FakeDriver) BindVertexArray(array uint32) {
	f.call("BindVertexArray")
	if !f.arrays[array] && array != 0 {
		f.fail(INVALID_OPERATION)
		return
	}
	f.vao = array
}

func (f *FakeDriver) EnableVertexAttribArray(index uint32) {
	f.call("EnableVertexAttribArray")
	f.attribs[index].Enabled = true
}

func (f *FakeDriver) DisableVertexAttribArray(index uint32) {
	f.call("DisableVertexAttribArray")
	f.attribs[index].Enabled = false
}

func (f *FakeDriver) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset int) {
	f.call("VertexAttribPointer")
	if _, ok := f.boundBuffer(ARRAY_BUFFER); !ok {
		return
	}
	a := &f.attribs[index]
	a.Size, a.Type, a.Normalized, a.Stride, a.Offset = size, xtype, normalized, stride, offset
}

func (f *FakeDriver) VertexAttrib4f(index uint32, x, y, z, w float32) {
	f.call("VertexAttrib4f")
	f.attribs[index].Value = [4]float32{x, y, z, w}
}

func (f *FakeDriver) record(mode uint32, first, count int32, indexed bool) (*FakeDraw, bool) {
	if f.vao == 0 || f.program == 0 {
		f.fail(INVALID_OPERATION)
		return nil, false
	}
	textures := make(map[uint32]uint32, len(f.units))
	for unit, t := range f.units {
		textures[unit] = t
	}
	f.Draws = append(f.Draws, FakeDraw{
		Mode:        mode,
		First:       first,
		Count:       count,
		Indexed:     indexed,
		Program:     f.program,
		Textures:    textures,
		Vertices:    slices.Clone(f.buffers[f.bindings[ARRAY_BUFFER]]),
		Attribs:     f.attribs,
		Framebuffer: f.fbo,
	})
	return &f.Draws[len(f.Draws)-1], true
}

func (f *FakeDriver) DrawArrays(mode uint32, first, count int32) {
	f.call("DrawArrays")
	f.record(mode, first, count, false)
}

func (f *FakeDriver) DrawElements(mode uint32, count int32, _ uint32, offset int) {
	f.call("DrawElements")
	name, ok := f.boundBuffer(ELEMENT_ARRAY_BUFFER)
	if !ok {
		return
	}
	buf := f.buffers[name]
	if offset+4*int(count) > len(buf) {
		f.fail(INVALID_OPERATION)
		return
	}
	d, ok := f.record(mode, 0, count, true)
	if !ok {
		return
	}
	d.Indices = make([]uint32, count)
	for i := range d.Indices {
		d.Indices[i] = binary.LittleEndian.Uint32(buf[offset+4*i:])
	}
}

func (f *FakeDriver) GenFramebuffer() uint32 {
	f.call("GenFramebuffer")
	name := f.gen()
	f.framebuffers[name] = &fakeFramebuffer{colors: make(map[uint32]uint32)}
	return name
}

func (f *FakeDriver) DeleteFramebuffer(fb uint32) {
	f.call("DeleteFramebuffer")
	delete(f.framebuffers, fb)
	if f.fbo == fb {
		f.fbo = 0
	}
}

func (f *FakeDriver) BindFramebuffer(_, fb uint32) {
	f.call("BindFramebuffer")
	if _, ok := f.framebuffers[fb]; !ok && fb != 0 {
		f.fail(INVALID_OPERATION)
		return
	}
	f.fbo = fb
}

func (f *FakeDriver) FramebufferTexture2D(_, attachment, _, texture uint32, _ int32) {
	f.call("FramebufferTexture2D")
	fb, ok := f.framebuffers[f.fbo]
	if !ok {
		f.fail(INVALID_OPERATION)
		return
	}
	fb.colors[attachment] = texture
}

func (f *FakeDriver) FramebufferRenderbuffer(_, _, _, rb uint32) {
	f.call("FramebufferRenderbuffer")
	fb, ok := f.framebuffers[f.fbo]
	if !ok {
		f.fail(INVALID_OPERATION)
		return
	}
	fb.depth = rb
}

// CheckFramebufferStatus reports complete when every color attachment is a
// live texture of one size.
func (f *FakeDriver) CheckFramebufferStatus(uint32) uint32 {
	f.call("CheckFramebufferStatus")
	const incomplete = 0x8CD6 // GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT
	fb, ok := f.framebuffers[f.fbo]
	if !ok || len(fb.colors) == 0 {
		return incomplete
	}
	w, h := -1, -1
	for _, name := range fb.colors {
		t, ok := f.textures[name]
		if !ok || t.width == 0 {
			return incomplete
		}
		if w >= 0 && (t.width != w || t.height != h) {
			return incomplete
		}
		w, h = t.width, t.height
	}
	return FRAMEBUFFER_COMPLETE
}

func (f *FakeDriver) DrawBuffers([]uint32) { f.call("DrawBuffers") }

func (f *FakeDriver) GenRenderbuffer() uint32 {
	f.call("GenRenderbuffer")
	name := f.gen()
	f.renderbuffers[name] = true
	return name
}

func (f *FakeDriver) DeleteRenderbuffer(rb uint32) {
	f.call("DeleteRenderbuffer")
	delete(f.renderbuffers, rb)
}

func (f *FakeDriver) BindRenderbuffer(uint32, uint32) { f.call("BindRenderbuffer") }

func (f *FakeDriver) RenderbufferStorage(uint32, uint32, int32, int32) {
	f.call("RenderbufferStorage")
}
