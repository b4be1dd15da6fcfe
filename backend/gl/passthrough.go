package gl

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gfx"
)

var (
	//go:embed shaders/passthrough.vert
	passthroughVertex string

	//go:embed shaders/passthrough.frag
	passthroughFragment string
)

// newPassthrough compiles the shader used by draws without one. It reads
// position, color and texcoord and multiplies the sampled texture by the
// vertex color.
func (d *Device) newPassthrough() (*shaderObject, error) {
	header := fmt.Sprintf("#version %s\n", d.opts.GLSLVersion)
	s, err := d.newShader(gfx.ShaderDesc{
		Label:    "gfx_passthrough",
		Vertex:   header + passthroughVertex,
		Fragment: header + passthroughFragment,
	})
	if err != nil {
		return nil, fmt.Errorf("gl: passthrough shader: %w", err)
	}
	return s, nil
}
