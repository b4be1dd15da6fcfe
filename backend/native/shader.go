package native

import (
	"fmt"
	"strings"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Default entry points when ShaderDesc leaves them empty.
const (
	defaultVertexEntry   = "vs_main"
	defaultFragmentEntry = "fs_main"
)

// mvpUniform receives projection × model-view before each draw.
const mvpUniform = "u_ModelViewProj"

// Constant buffer shadows are rounded up to this size.
const uniformAlignment = 16

type uniformSlot struct {
	buffer int
	member
}

// shaderObject implements gfx.ShaderObject.
type shaderObject struct {
	d     *Device
	id    uint64
	label string

	vs, fs           hal.ShaderModule
	vsEntry, fsEntry string
	refl             *reflection
	layout           hal.BindGroupLayout
	pipelineLayout   hal.PipelineLayout
	shadows          [][]byte
	uniforms         map[string]uniformSlot
	bound            map[string]*textureObject
	samplerTexture   []string
}

func (d *Device) NewShader(desc gfx.ShaderDesc) (gfx.ShaderObject, error) {
	if strings.TrimSpace(desc.Vertex) == "" {
		return nil, fmt.Errorf("shader %q: empty source: %w", desc.Label, gfx.ErrInvalidDescriptor)
	}
	refl, err := reflectWGSL(desc.Vertex)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", desc.Label, err)
	}
	if desc.Fragment != "" {
		fr, err := reflectWGSL(desc.Fragment)
		if err != nil {
			return nil, fmt.Errorf("shader %q fragment: %w", desc.Label, err)
		}
		refl.merge(fr)
	}

	s := &shaderObject{
		d:        d,
		label:    desc.Label,
		refl:     refl,
		uniforms: make(map[string]uniformSlot),
		bound:    make(map[string]*textureObject),
		vsEntry:  entryPoint(desc.VertexEntry, refl.vertex, defaultVertexEntry),
		fsEntry:  entryPoint(desc.FragmentEntry, refl.fragment, defaultFragmentEntry),
	}
	if refl.vertex == "" && refl.fragment == "" {
		return nil, fmt.Errorf("shader %q: %w", desc.Label, ErrNoEntryPoint)
	}
	if err := s.build(desc); err != nil {
		s.release()
		return nil, fmt.Errorf("shader %q: %w", desc.Label, err)
	}
	d.nextShaderID++
	s.id = d.nextShaderID
	return s, nil
}

func entryPoint(requested, reflected, fallback string) string {
	switch {
	case requested != "":
		return requested
	case reflected != "":
		return reflected
	default:
		return fallback
	}
}

func (s *shaderObject) build(desc gfx.ShaderDesc) error {
	d := s.d
	var err error
	s.vs, err = d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label + "_vs",
		Source: hal.ShaderSource{WGSL: desc.Vertex},
	})
	if err != nil {
		return callErr("CreateShaderModule", err)
	}
	s.fs = s.vs
	if desc.Fragment != "" {
		s.fs, err = d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
			Label:  desc.Label + "_fs",
			Source: hal.ShaderSource{WGSL: desc.Fragment},
		})
		if err != nil {
			return callErr("CreateShaderModule", err)
		}
	}

	// Shadow buffers and the member table.
	for i, cb := range s.refl.buffers {
		s.shadows = append(s.shadows, make([]byte, alignUp(max(cb.size, uniformAlignment), uniformAlignment)))
		for name, m := range cb.members {
			if _, dup := s.uniforms[name]; dup {
				gfx.Logger().Warn("native: uniform declared twice", "shader", s.label, "uniform", name)
				continue
			}
			s.uniforms[name] = uniformSlot{buffer: i, member: m}
		}
	}

	// Samplers pair with the texture whose name prefixes theirs, or the
	// first texture.
	for _, sm := range s.refl.samplers {
		paired := ""
		for _, t := range s.refl.textures {
			if strings.HasPrefix(sm.name, t.name) {
				paired = t.name
				break
			}
		}
		if paired == "" && len(s.refl.textures) > 0 {
			paired = s.refl.textures[0].name
		}
		s.samplerTexture = append(s.samplerTexture, paired)
	}

	entries := make([]gputypes.BindGroupLayoutEntry, 0, s.refl.maxBinding()+1)
	for _, cb := range s.refl.buffers {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    cb.binding,
			Visibility: gputypes.ShaderStagesVertexFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	for _, t := range s.refl.textures {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    t.binding,
			Visibility: gputypes.ShaderStagesVertexFragment,
			Texture: &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			},
		})
	}
	for _, sm := range s.refl.samplers {
		entries = append(entries, gputypes.BindGroupLayoutEntry{
			Binding:    sm.binding,
			Visibility: gputypes.ShaderStagesVertexFragment,
			Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
		})
	}
	gfx.Logger().Debug("native: descriptor table", "shader", s.label, "entries", len(entries), "bindPoints", s.refl.maxBinding()+1)

	s.layout, err = d.dev.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label + "_bgl",
		Entries: entries,
	})
	if err != nil {
		return callErr("CreateBindGroupLayout", err)
	}
	s.pipelineLayout, err = d.dev.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: []hal.BindGroupLayout{s.layout},
	})
	if err != nil {
		return callErr("CreatePipelineLayout", err)
	}
	return nil
}

func (s *shaderObject) Backend() string { return gfx.BackendNative }

func (s *shaderObject) Destroy() {
	pipelines := s.d.pipelines.evictShader(s.id)
	s.d.retire(func() {
		for _, p := range pipelines {
			s.d.dev.DestroyRenderPipeline(p)
		}
		s.release()
	})
}

func (s *shaderObject) release() {
	d := s.d
	if s.pipelineLayout != nil {
		d.dev.DestroyPipelineLayout(s.pipelineLayout)
	}
	if s.layout != nil {
		d.dev.DestroyBindGroupLayout(s.layout)
	}
	if s.fs != nil && s.fs != s.vs {
		d.dev.DestroyShaderModule(s.fs)
	}
	if s.vs != nil {
		d.dev.DestroyShaderModule(s.vs)
	}
}

// SetUniform copies u into the shadow of the constant buffer that declares
// name. Array elements are written at the reflected stride.
func (s *shaderObject) SetUniform(name string, u gfx.Uniform) {
	slot, ok := s.uniforms[name]
	if !ok {
		gfx.Logger().Debug("native: unknown uniform", "shader", s.label, "uniform", name)
		return
	}
	dst := s.shadows[slot.buffer][slot.offset : slot.offset+slot.size]
	elem := 4 * u.Components
	if u.Type == gfx.UniformMat4 {
		elem = 64
	}
	if slot.stride == 0 || slot.stride == elem || u.Count <= 1 {
		copy(dst, u.Data)
		return
	}
	for i := 0; i < u.Count && i*slot.stride < len(dst); i++ {
		copy(dst[i*slot.stride:], u.Data[i*elem:(i+1)*elem])
	}
}

// SetSampler binds tex to the texture variable name, or to the texture a
// sampler variable name is paired with.
func (s *shaderObject) SetSampler(name string, tex gfx.TextureObject) {
	for i, sm := range s.refl.samplers {
		if sm.name == name {
			name = s.samplerTexture[i]
			break
		}
	}
	if !s.hasTexture(name) {
		gfx.Logger().Debug("native: unknown sampler", "shader", s.label, "sampler", name)
		return
	}
	if tex == nil {
		delete(s.bound, name)
		return
	}
	t, ok := tex.(*textureObject)
	if !ok || t.d != s.d {
		gfx.Logger().Warn("native: sampler bound to a foreign texture", "shader", s.label, "sampler", name)
		return
	}
	s.bound[name] = t
}

func (s *shaderObject) hasTexture(name string) bool {
	for _, t := range s.refl.textures {
		if t.name == name {
			return true
		}
	}
	return false
}

// uniformBytes returns the shadow bytes of name.
func (s *shaderObject) uniformBytes(name string) ([]byte, bool) {
	slot, ok := s.uniforms[name]
	if !ok {
		return nil, false
	}
	return s.shadows[slot.buffer][slot.offset : slot.offset+slot.size], true
}

// bindGroup builds the per-draw bind group. dflt fills texture bindings
// that SetSampler did not assign.
func (s *shaderObject) bindGroup(dflt *textureObject) (hal.BindGroup, error) {
	d := s.d
	entries := make([]gputypes.BindGroupEntry, 0, len(s.refl.buffers)+len(s.refl.textures)+len(s.refl.samplers))
	for i, cb := range s.refl.buffers {
		b, err := d.upload(s.shadows[i], gputypes.BufferUsageUniform)
		if err != nil {
			return nil, err
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  cb.binding,
			Resource: gputypes.BufferBinding{Buffer: b.buf.NativeHandle(), Size: uint64(len(s.shadows[i]))},
		})
	}
	for _, t := range s.refl.textures {
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  t.binding,
			Resource: gputypes.TextureViewBinding{TextureView: s.textureFor(t.name, dflt).view.NativeHandle()},
		})
	}
	for i, sm := range s.refl.samplers {
		tex := s.textureFor(s.samplerTexture[i], dflt)
		smp, err := d.sampler(samplerKey{filter: tex.filter, wrap: tex.wrap})
		if err != nil {
			return nil, err
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  sm.binding,
			Resource: gputypes.SamplerBinding{Sampler: smp.NativeHandle()},
		})
	}
	bg, err := d.dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   s.label + "_draw",
		Layout:  s.layout,
		Entries: entries,
	})
	if err != nil {
		return nil, callErr("CreateBindGroup", err)
	}
	d.cur.bindGroups = append(d.cur.bindGroups, bg)
	return bg, nil
}

// textureFor resolves the texture sampled through binding name.
func (s *shaderObject) textureFor(name string, dflt *textureObject) *textureObject {
	if t, ok := s.bound[name]; ok {
		return t
	}
	if dflt != nil {
		return dflt
	}
	return s.d.white
}

// textures lists every texture the next draw samples.
func (s *shaderObject) textures(dflt *textureObject) []*textureObject {
	out := make([]*textureObject, 0, len(s.refl.textures))
	for _, t := range s.refl.textures {
		out = append(out, s.textureFor(t.name, dflt))
	}
	return out
}
