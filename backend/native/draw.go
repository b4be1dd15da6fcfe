package native

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Draw records dc into the current render pass, opening one if needed.
func (d *Device) Draw(dc *gfx.DrawCall) error {
	if d.closed {
		return ErrClosed
	}
	count := dc.VertexCount
	if dc.Indexed() {
		count = dc.IndexCount
	}
	if count <= 0 {
		return nil
	}
	if !dc.Format.Enabled(gfx.AttribPosition) {
		return fmt.Errorf("%w: no position attribute", ErrUnsupportedFormat)
	}
	layout, err := vertexLayout(dc.Format)
	if err != nil {
		return err
	}

	var (
		shader *shaderObject
		tex    *textureObject
	)
	if dc.Shader != nil {
		s, ok := dc.Shader.(*shaderObject)
		if !ok || s.d != d {
			return fmt.Errorf("shader: %w", ErrForeignObject)
		}
		shader = s
	} else if shader, err = d.defaultShader(dc.Format); err != nil {
		return err
	}
	if dc.Texture != nil {
		t, ok := dc.Texture.(*textureObject)
		if !ok || t.d != d {
			return fmt.Errorf("texture: %w", ErrForeignObject)
		}
		tex = t
	}

	var vb *vertexBufferObject
	if dc.VertexBuffer != nil {
		b, ok := dc.VertexBuffer.(*vertexBufferObject)
		if !ok || b.d != d {
			return fmt.Errorf("vertex buffer: %w", ErrForeignObject)
		}
		vb = b
	}
	var ib *indexBufferObject
	if dc.IndexBuffer != nil {
		b, ok := dc.IndexBuffer.(*indexBufferObject)
		if !ok || b.d != d {
			return fmt.Errorf("index buffer: %w", ErrForeignObject)
		}
		ib = b
	}

	// Fans and loops have no list equivalent on the GPU; expand them to
	// index lists on the CPU.
	prim := dc.Primitive
	indices := dc.Indices
	if indices != nil {
		indices = indices[:dc.IndexCount]
	}
	if prim == gfx.TriangleFan || prim == gfx.LineLoop {
		if ib != nil {
			indices = ib.indices(dc.IndexCount)
			ib = nil
		}
		prim, indices, _ = gfx.ListTopology(prim, indices, dc.VertexCount)
		if len(indices) == 0 {
			return nil
		}
	}

	// Sampled textures leave render-attachment use outside the pass.
	sampled := shader.textures(tex)
	for _, t := range sampled {
		if t.state != gputypes.TextureUsageTextureBinding {
			d.endPass()
			enc, err := d.encoder()
			if err != nil {
				return err
			}
			for _, t := range sampled {
				t.transition(enc, gputypes.TextureUsageTextureBinding)
			}
			break
		}
	}
	if err := d.beginPass(nil); err != nil {
		return err
	}

	pipe, err := d.pipelines.getOrCreate(&pipelineDesc{
		shader:      shader,
		format:      dc.Format,
		topology:    topology(prim),
		blend:       dc.Blend,
		blendOn:     d.caps[gfx.CapBlend],
		colorFormat: d.passFormat,
		targets:     d.passTargets,
		depthTest:   d.caps[gfx.CapDepthTest],
		cull:        d.caps[gfx.CapFaceCulling],
	}, func(p *pipelineDesc) (hal.RenderPipeline, error) {
		return d.buildPipeline(p, layout)
	})
	if err != nil {
		return err
	}

	shader.SetUniform(mvpUniform, gfx.Uniform{
		Type:       gfx.UniformMat4,
		Components: 16,
		Count:      1,
		Data:       matrixBytes(gfx.ZeroToOneDepth.Mul4(dc.MVP)),
	})
	bg, err := shader.bindGroup(tex)
	if err != nil {
		return err
	}

	d.pass.SetPipeline(pipe)
	d.pass.SetBindGroup(0, bg, nil)

	stride := dc.Format.VertexSize()
	if vb != nil {
		d.pass.SetVertexBuffer(0, vb.buf, uint64(dc.FirstVertex*stride))
	} else {
		start, end := dc.FirstVertex*stride, (dc.FirstVertex+dc.VertexCount)*stride
		if start < 0 || end > len(dc.Vertices) {
			return fmt.Errorf("vertices: %w", gfx.ErrOutOfRange)
		}
		b, err := d.upload(dc.Vertices[start:end], gputypes.BufferUsageVertex)
		if err != nil {
			return err
		}
		d.pass.SetVertexBuffer(0, b.buf, 0)
	}

	switch {
	case ib != nil:
		d.pass.SetIndexBuffer(ib.buf, gputypes.IndexFormatUint32, 0)
		d.pass.DrawIndexed(uint32(dc.IndexCount), 1, 0, 0, 0)
	case indices != nil:
		b, err := d.upload(indexBytes(indices), gputypes.BufferUsageIndex)
		if err != nil {
			return err
		}
		d.pass.SetIndexBuffer(b.buf, gputypes.IndexFormatUint32, 0)
		d.pass.DrawIndexed(uint32(len(indices)), 1, 0, 0, 0)
	default:
		d.pass.Draw(uint32(dc.VertexCount), 1, 0, 0)
	}
	d.draws++
	return nil
}

func (d *Device) buildPipeline(p *pipelineDesc, layout gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	depth := &hal.DepthStencilState{
		Format:       depthFormat,
		DepthCompare: gputypes.CompareFunctionAlways,
		StencilFront: keep,
		StencilBack:  keep,
	}
	if p.depthTest {
		depth.DepthWriteEnabled = true
		depth.DepthCompare = gputypes.CompareFunctionLess
	}
	cull := gputypes.CullModeNone
	if p.cull {
		cull = gputypes.CullModeBack
	}
	targets := make([]gputypes.ColorTargetState, p.targets)
	for i := range targets {
		targets[i] = gputypes.ColorTargetState{
			Format:    p.colorFormat,
			Blend:     blendState(p.blend, p.blendOn),
			WriteMask: gputypes.ColorWriteMaskAll,
		}
	}
	s := p.shader
	pipe, err := d.dev.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  s.label + "_pipeline",
		Layout: s.pipelineLayout,
		Vertex: hal.VertexState{
			Module:     s.vs,
			EntryPoint: s.vsEntry,
			Buffers:    []gputypes.VertexBufferLayout{layout},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  p.topology,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  cull,
		},
		DepthStencil: depth,
		Multisample:  gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     s.fs,
			EntryPoint: s.fsEntry,
			Targets:    targets,
		},
	})
	if err != nil {
		return nil, callErr("CreateRenderPipeline", err)
	}
	return pipe, nil
}

func matrixBytes(m [16]float32) []byte {
	out := make([]byte, 64)
	for i, v := range m {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

// indices decodes the first n indices from the CPU copy of the buffer.
func (ib *indexBufferObject) indices(n int) []uint32 {
	n = min(n, ib.count)
	out := make([]uint32, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(ib.shadow[4*i:])
	}
	return out
}
