package main

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gfx"
)

type scene interface {
	name() string
	init(ctx *gfx.Context) error
	draw(ctx *gfx.Context, alpha float64, elapsed time.Duration)
	release()
}

// triangleScene spins a vertex-colored triangle around the window center.
type triangleScene struct{}

func (*triangleScene) name() string { return "triangle" }

func (*triangleScene) init(*gfx.Context) error { return nil }

func (*triangleScene) release() {}

func (*triangleScene) draw(ctx *gfx.Context, _ float64, elapsed time.Duration) {
	ctx.Clear(gfx.ColorBuffer | gfx.DepthBuffer)

	w, h := float32(ctx.Width()), float32(ctx.Height())
	size := min(w, h) * 0.4
	angle := float32(elapsed.Seconds())
	ctx.PushMatrix(mgl32.Translate3D(w/2, h/2, 0).Mul4(mgl32.HomogRotate3DZ(angle)))
	defer func() { _ = ctx.PopMatrix() }()

	va := ctx.TempVertexArray(3)
	colors := []gfx.Color{gfx.Red, gfx.Green, gfx.Blue}
	for i, col := range colors {
		a := float64(i)*2*math.Pi/3 - math.Pi/2
		v := va.Vertex(i)
		v.SetPosition(size*float32(math.Cos(a)), size*float32(math.Sin(a)))
		v.SetColor(col)
		v.SetTexCoord(0, 0)
	}
	ctx.DrawPrimitives(gfx.Triangles, va, 3)
}

// targetScene renders a gradient disc into an offscreen target and then
// tiles the target's texture across the window.
type targetScene struct {
	rt *gfx.RenderTarget2D
}

const targetSize = 256

func (s *targetScene) name() string { return "target" }

func (s *targetScene) init(ctx *gfx.Context) error {
	rt, err := ctx.NewRenderTarget2D(gfx.RenderTargetDesc{Label: "demo", Width: targetSize, Height: targetSize})
	if err != nil {
		return err
	}
	s.rt = rt
	return nil
}

func (s *targetScene) release() { s.rt.Release() }

func (s *targetScene) draw(ctx *gfx.Context, _ float64, elapsed time.Duration) {
	pulse := float32(0.75 + 0.25*math.Sin(elapsed.Seconds()*2))

	ctx.PushRenderTarget(s.rt)
	ctx.ClearWith(gfx.ColorBuffer, gfx.ClearValues{Color: gfx.Transparent, Depth: 1})
	ctx.DrawCircleGradient(targetSize/2, targetSize/2, targetSize/2*pulse, 48, gfx.White, gfx.Blue)
	ctx.DrawRectangleOutline(1, 1, targetSize-2, targetSize-2, gfx.Yellow, gfx.FullRegion)
	ctx.PopRenderTarget()

	ctx.Clear(gfx.ColorBuffer | gfx.DepthBuffer)
	ctx.SetTexture(s.rt.Target(0))
	defer ctx.SetTexture(nil)
	for y := float32(0); y < float32(ctx.Height()); y += targetSize / 2 {
		for x := float32(0); x < float32(ctx.Width()); x += targetSize / 2 {
			ctx.DrawRectangle(x, y, targetSize/2, targetSize/2, gfx.White, gfx.FullRegion)
		}
	}
}

// shaderScene fills the window with a custom shader animated by a time
// uniform.
type shaderScene struct {
	sh *gfx.Shader
}

const plasmaGLSLVertex = `#version 330 core
in vec4 in_Position;
in vec4 in_VertexColor;
uniform mat4 u_ModelViewProj;
out vec4 v_Color;
void main() {
    v_Color = in_VertexColor;
    gl_Position = u_ModelViewProj * in_Position;
}
`

const plasmaGLSLFragment = `#version 330 core
uniform float u_Time;
in vec4 v_Color;
out vec4 out_Color;
void main() {
    vec2 p = gl_FragCoord.xy / 64.0;
    float v = sin(p.x + u_Time) + sin(p.y + u_Time * 0.7) + sin(p.x + p.y + u_Time * 1.3);
    out_Color = vec4(0.5 + 0.5 * sin(v), 0.5 + 0.5 * sin(v + 2.1), 0.5 + 0.5 * sin(v + 4.2), 1.0) * v_Color;
}
`

const plasmaWGSL = `
struct Params {
    u_ModelViewProj: mat4x4<f32>,
    u_Time: f32,
}

@group(0) @binding(0) var<uniform> params: Params;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
}

@vertex
fn vs_main(@location(0) position: vec2<f32>, @location(1) color: vec4<f32>) -> VertexOutput {
    var output: VertexOutput;
    output.position = params.u_ModelViewProj * vec4<f32>(position, 0.0, 1.0);
    output.color = color;
    return output;
}

@fragment
fn fs_main(input: VertexOutput) -> @location(0) vec4<f32> {
    let p = input.position.xy / 64.0;
    let t = params.u_Time;
    let v = sin(p.x + t) + sin(p.y + t * 0.7) + sin(p.x + p.y + t * 1.3);
    return vec4<f32>(0.5 + 0.5 * sin(v), 0.5 + 0.5 * sin(v + 2.1), 0.5 + 0.5 * sin(v + 4.2), 1.0) * input.color;
}
`

func (s *shaderScene) name() string { return "shader" }

func (s *shaderScene) init(ctx *gfx.Context) error {
	desc := gfx.ShaderDesc{Label: "plasma", Vertex: plasmaWGSL}
	if ctx.Device().Name() == gfx.BackendGL {
		desc = gfx.ShaderDesc{Label: "plasma", Vertex: plasmaGLSLVertex, Fragment: plasmaGLSLFragment}
	}
	sh, err := ctx.NewShader(desc)
	if err != nil {
		return err
	}
	s.sh = sh
	return nil
}

func (s *shaderScene) release() { s.sh.Release() }

func (s *shaderScene) draw(ctx *gfx.Context, _ float64, elapsed time.Duration) {
	ctx.Clear(gfx.ColorBuffer | gfx.DepthBuffer)
	ctx.SetShader(s.sh)
	defer ctx.SetShader(nil)
	s.sh.SetUniform1f("u_Time", float32(elapsed.Seconds()))
	ctx.DrawRectangle(0, 0, float32(ctx.Width()), float32(ctx.Height()), gfx.White, gfx.FullRegion)
}
