// Package native implements the gfx device on the WebGPU HAL of
// github.com/gogpu/wgpu.
//
// Importing the package registers the "native" backend:
//
//	import _ "github.com/gogpu/gfx/backend/native"
//
//	ctx, err := gfx.NewContext(win, gfx.WithBackend(gfx.BackendNative))
//
// The HAL is explicit: state the gfx context treats as global is folded
// into render pipelines, which are cached by a hash of everything they are
// built from (shader, vertex layout, topology, blend, depth test and cull
// mode, attachment formats). Shader resources are bound through one bind
// group per draw, built from uniform values shadowed on the CPU. Immediate
// vertex and index data is copied into pooled buffers that are recycled
// once the frame that used them has completed on the GPU.
//
// Shaders are WGSL. Uniforms, textures and samplers must live in bind group
// 0; their names and layouts are found by reflection. A sampler is paired
// with the texture whose name prefixes its own, else with the first texture.
//
// Point size, line width, wireframe and smoothing are not available on the
// HAL and are ignored.
//
// The HAL backends themselves are registered by importing
// github.com/gogpu/wgpu/hal/allbackends or a single backend package.
package native
