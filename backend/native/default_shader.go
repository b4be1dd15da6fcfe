package native

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/gogpu/gfx"
)

//go:embed shaders/default.wgsl
var defaultShaderSource string

var defaultShaderTemplate = template.Must(template.New("default.wgsl").Parse(defaultShaderSource))

// defaultVariant selects the passthrough shader for a vertex format. Only
// the attributes the shader reads take part.
type defaultVariant struct {
	Position    string
	Expand      string
	Color       string
	ColorExpand string
	TexCoord    string
	TexExpand   string
}

// wgslVec returns the WGSL type the vertex fetch produces for attribute a.
func wgslVec(f gfx.VertexFormat, a gfx.VertexAttribute) string {
	scalar := "f32"
	if !f.Normalized(a) {
		switch f.Datatype(a) {
		case gfx.Int8, gfx.Int16, gfx.Int32:
			scalar = "i32"
		case gfx.Uint8, gfx.Uint16, gfx.Uint32:
			scalar = "u32"
		}
	}
	if n := f.ElementCount(a); n > 1 {
		return fmt.Sprintf("vec%d<%s>", n, scalar)
	}
	return scalar
}

// widen converts the input field to vec4<f32>, filling missing components
// from fill.
func widen(field string, n int, fill [4]string) string {
	args := []string{fmt.Sprintf("vec%d<f32>(input.%s)", n, field)}
	if n == 1 {
		args[0] = fmt.Sprintf("f32(input.%s)", field)
	}
	args = append(args, fill[n:]...)
	return "vec4<f32>(" + strings.Join(args, ", ") + ")"
}

func variantFor(f gfx.VertexFormat) defaultVariant {
	v := defaultVariant{
		Position: wgslVec(f, gfx.AttribPosition),
		Expand:   widen("position", f.ElementCount(gfx.AttribPosition), [4]string{"0.0", "0.0", "0.0", "1.0"}),
	}
	if f.Enabled(gfx.AttribColor) {
		v.Color = wgslVec(f, gfx.AttribColor)
		v.ColorExpand = widen("color", f.ElementCount(gfx.AttribColor), [4]string{"0.0", "0.0", "0.0", "1.0"})
	}
	if f.Enabled(gfx.AttribTexCoord) {
		v.TexCoord = wgslVec(f, gfx.AttribTexCoord)
		switch n := f.ElementCount(gfx.AttribTexCoord); n {
		case 1:
			v.TexExpand = "vec2<f32>(f32(input.texcoord), 0.0)"
		case 2:
			v.TexExpand = "vec2<f32>(input.texcoord)"
		default:
			v.TexExpand = "vec2<f32>(input.texcoord.xy)"
		}
	}
	return v
}

// defaultShader returns the passthrough shader for f, compiling it on
// first use.
func (d *Device) defaultShader(f gfx.VertexFormat) (*shaderObject, error) {
	v := variantFor(f)
	if s, ok := d.defaults[v]; ok {
		return s, nil
	}
	var sb strings.Builder
	if err := defaultShaderTemplate.Execute(&sb, v); err != nil {
		return nil, fmt.Errorf("default shader: %w", err)
	}
	obj, err := d.NewShader(gfx.ShaderDesc{Label: "gfx_default", Vertex: sb.String()})
	if err != nil {
		return nil, err
	}
	s := obj.(*shaderObject)
	d.defaults[v] = s
	return s, nil
}
