package native

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// member locates one named value inside a constant buffer.
type member struct {
	offset int
	size   int
	// stride is the array element stride, zero for non-arrays.
	stride int
}

// constantBuffer is a reflected var<uniform>.
type constantBuffer struct {
	name    string
	binding uint32
	size    int
	members map[string]member
}

// resourceBinding is a reflected texture or sampler.
type resourceBinding struct {
	name    string
	binding uint32
}

// reflection is what a shader module exposes in bind group 0.
type reflection struct {
	buffers  []constantBuffer
	textures []resourceBinding
	samplers []resourceBinding
	vertex   string
	fragment string
}

var errUnsupportedBinding = errors.New("unsupported resource binding")

// reflectWGSL parses src and collects its group 0 resources. Resources in
// other groups are reported as errors because the device binds a single
// table per draw.
func reflectWGSL(src string) (*reflection, error) {
	ast, err := naga.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	mod, err := naga.LowerWithSource(ast, src)
	if err != nil {
		return nil, fmt.Errorf("lower: %w", err)
	}

	r := &reflection{}
	for _, gv := range mod.GlobalVariables {
		if gv.Binding == nil {
			continue
		}
		if gv.Binding.Group != 0 {
			return nil, fmt.Errorf("%s uses bind group %d, only group 0 is bound", gv.Name, gv.Binding.Group)
		}
		switch gv.Space {
		case ir.SpaceUniform:
			r.buffers = append(r.buffers, reflectBuffer(mod, gv))
		case ir.SpaceHandle:
			switch mod.Types[gv.Type].Inner.(type) {
			case ir.SamplerType:
				r.samplers = append(r.samplers, resourceBinding{gv.Name, gv.Binding.Binding})
			case ir.ImageType:
				r.textures = append(r.textures, resourceBinding{gv.Name, gv.Binding.Binding})
			default:
				return nil, fmt.Errorf("%s at binding %d: %w: handle is not a texture or sampler", gv.Name, gv.Binding.Binding, errUnsupportedBinding)
			}
		default:
			return nil, fmt.Errorf("%s at binding %d: %w: address space %d", gv.Name, gv.Binding.Binding, errUnsupportedBinding, gv.Space)
		}
	}
	for _, ep := range mod.EntryPoints {
		switch ep.Stage {
		case ir.StageVertex:
			if r.vertex == "" {
				r.vertex = ep.Name
			}
		case ir.StageFragment:
			if r.fragment == "" {
				r.fragment = ep.Name
			}
		}
	}

	sort.Slice(r.buffers, func(i, j int) bool { return r.buffers[i].binding < r.buffers[j].binding })
	sort.Slice(r.textures, func(i, j int) bool { return r.textures[i].binding < r.textures[j].binding })
	sort.Slice(r.samplers, func(i, j int) bool { return r.samplers[i].binding < r.samplers[j].binding })
	return r, nil
}

func reflectBuffer(mod *ir.Module, gv ir.GlobalVariable) constantBuffer {
	cb := constantBuffer{
		name:    gv.Name,
		binding: gv.Binding.Binding,
		size:    int(ir.TypeSize(mod, gv.Type)),
		members: make(map[string]member),
	}
	if st, ok := mod.Types[gv.Type].Inner.(ir.StructType); ok {
		if int(st.Span) > cb.size {
			cb.size = int(st.Span)
		}
		for _, m := range st.Members {
			cb.members[m.Name] = member{
				offset: int(m.Offset),
				size:   int(ir.TypeSize(mod, m.Type)),
				stride: arrayStride(mod, m.Type),
			}
		}
		return cb
	}
	// A bare uniform value is addressed by the variable name.
	cb.members[gv.Name] = member{size: cb.size, stride: arrayStride(mod, gv.Type)}
	return cb
}

func arrayStride(mod *ir.Module, h ir.TypeHandle) int {
	if at, ok := mod.Types[h].Inner.(ir.ArrayType); ok {
		return int(at.Stride)
	}
	return 0
}

// merge combines the reflection of a second module, used when the vertex
// and fragment stages come from separate sources. Bindings present in both
// are kept once.
func (r *reflection) merge(o *reflection) {
	seen := make(map[uint32]bool)
	for _, b := range r.buffers {
		seen[b.binding] = true
	}
	for _, t := range r.textures {
		seen[t.binding] = true
	}
	for _, s := range r.samplers {
		seen[s.binding] = true
	}
	for _, b := range o.buffers {
		if !seen[b.binding] {
			r.buffers = append(r.buffers, b)
		}
	}
	for _, t := range o.textures {
		if !seen[t.binding] {
			r.textures = append(r.textures, t)
		}
	}
	for _, s := range o.samplers {
		if !seen[s.binding] {
			r.samplers = append(r.samplers, s)
		}
	}
	if r.fragment == "" {
		r.fragment = o.fragment
	}
	if r.vertex == "" {
		r.vertex = o.vertex
	}
}

// maxBinding returns the highest bind point used, or -1 for none.
func (r *reflection) maxBinding() int {
	m := -1
	for _, b := range r.buffers {
		m = max(m, int(b.binding))
	}
	for _, t := range r.textures {
		m = max(m, int(t.binding))
	}
	for _, s := range r.samplers {
		m = max(m, int(s.binding))
	}
	return m
}
