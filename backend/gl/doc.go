// Package gl implements the gfx device on OpenGL 3.3 core.
//
// The device talks to the GL through the Driver interface. The go-gl driver
// in github.com/gogpu/gfx/backend/gl/gogl registers the "gl" backend:
//
//	import _ "github.com/gogpu/gfx/backend/gl/gogl"
//
//	ctx, err := gfx.New(win, gfx.WithBackend(gfx.BackendGL))
//
// The window must make its GL context current before the context is
// created and keep it current on the rendering thread.
//
// GL state is global and persistent. Each draw sets the blend function,
// program, matrix, textures and vertex attribute pointers it needs and then
// issues the draw; one vertex array object and a pair of streaming buffers
// serve every immediate draw. Device objects only carry GL names and the
// metadata needed to validate their use.
//
// Shaders are GLSL. Attributes are bound by name before linking:
// in_Position, in_VertexColor, in_TexCoord and in_Normal take locations 0
// to 3. Uniforms are looked up by name after linking; sampler uniforms get
// texture units in name order, with u_Texture on unit 0 receiving the
// context's current texture.
//
// Render targets are framebuffer objects. Drawing into them is flipped
// vertically so that row 0 of a target texture is the top of the image,
// as it is for uploaded pixmaps.
package gl
