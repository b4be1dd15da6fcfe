package native

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gfx"
)

const reflectSource = `
struct Globals {
    u_ModelViewProj: mat4x4<f32>,
    u_Tint: vec4<f32>,
}

@group(0) @binding(0) var<uniform> globals: Globals;
@group(0) @binding(3) var<uniform> u_Time: f32;
@group(0) @binding(1) var u_Texture: texture_2d<f32>;
@group(0) @binding(2) var u_TextureSampler: sampler;

@vertex
fn main_vs(@location(0) p: vec2<f32>) -> @builtin(position) vec4<f32> {
    return globals.u_ModelViewProj * vec4<f32>(p, u_Time, 1.0);
}

@fragment
fn main_fs(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
    return textureSample(u_Texture, u_TextureSampler, pos.xy) * globals.u_Tint;
}
`

func TestReflectWGSL(t *testing.T) {
	r, err := reflectWGSL(reflectSource)
	if err != nil {
		t.Fatalf("reflectWGSL: %v", err)
	}
	if r.vertex != "main_vs" || r.fragment != "main_fs" {
		t.Errorf("entry points = %q, %q; want main_vs, main_fs", r.vertex, r.fragment)
	}
	if len(r.buffers) != 2 {
		t.Fatalf("buffers = %d, want 2", len(r.buffers))
	}
	g := r.buffers[0]
	if g.binding != 0 || g.size != 80 {
		t.Errorf("globals binding %d size %d, want 0 and 80", g.binding, g.size)
	}
	if m := g.members["u_Tint"]; m.offset != 64 || m.size != 16 {
		t.Errorf("u_Tint = %+v, want offset 64 size 16", m)
	}
	if m, ok := r.buffers[1].members["u_Time"]; !ok || m.size != 4 {
		t.Errorf("bare uniform u_Time = %+v (found %v), want size 4", m, ok)
	}
	if len(r.textures) != 1 || r.textures[0].name != "u_Texture" || r.textures[0].binding != 1 {
		t.Errorf("textures = %+v", r.textures)
	}
	if len(r.samplers) != 1 || r.samplers[0].binding != 2 {
		t.Errorf("samplers = %+v", r.samplers)
	}
	if got := r.maxBinding(); got != 3 {
		t.Errorf("maxBinding() = %d, want 3", got)
	}
}

func TestReflectWGSLRejectsOtherGroups(t *testing.T) {
	src := strings.Replace(reflectSource, "@group(0) @binding(3)", "@group(1) @binding(0)", 1)
	if _, err := reflectWGSL(src); err == nil {
		t.Error("a resource in group 1 was accepted")
	}
}

func TestReflectWGSLRejectsUnboundSpaces(t *testing.T) {
	src := strings.Replace(reflectSource, "var<uniform> u_Time: f32;", "var<storage, read> u_Time: f32;", 1)
	_, err := reflectWGSL(src)
	if !errors.Is(err, errUnsupportedBinding) || !strings.Contains(err.Error(), "u_Time") {
		t.Errorf("storage binding error = %v, want one naming u_Time", err)
	}
}

func TestReflectionMerge(t *testing.T) {
	a := &reflection{
		buffers: []constantBuffer{{name: "a", binding: 0}},
		vertex:  "vs",
	}
	b := &reflection{
		buffers:  []constantBuffer{{name: "dup", binding: 0}},
		textures: []resourceBinding{{"tex", 1}},
		fragment: "fs",
	}
	a.merge(b)
	if len(a.buffers) != 1 || a.buffers[0].name != "a" {
		t.Errorf("buffers after merge = %+v", a.buffers)
	}
	if len(a.textures) != 1 || a.fragment != "fs" || a.vertex != "vs" {
		t.Errorf("merge = %+v", a)
	}
}

func TestSamplerPairing(t *testing.T) {
	d := newNoopDevice(t)
	obj, err := d.NewShader(gfx.ShaderDesc{Label: "reflect", Vertex: reflectSource})
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	s := obj.(*shaderObject)
	if len(s.samplerTexture) != 1 || s.samplerTexture[0] != "u_Texture" {
		t.Fatalf("sampler pairing = %v, want [u_Texture]", s.samplerTexture)
	}
	tex := mustTexture(t, d, "t", 2, 2)
	s.SetSampler("u_TextureSampler", tex)
	if s.bound["u_Texture"] != tex {
		t.Error("binding through the sampler name did not reach its texture")
	}
	s.SetSampler("u_Texture", nil)
	if _, ok := s.bound["u_Texture"]; ok {
		t.Error("nil texture did not unbind")
	}
}
