package gfx

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// State is one entry of the context's state stack.
//
// Transforms is never empty: its first entry is the identity. Handles are
// shared references owned by the stack entry.
type State struct {
	Width, Height int
	Texture       *Texture2D
	Shader        *Shader
	Blend         BlendState
	RenderTarget  *RenderTarget2D
	Transforms    []mgl32.Mat4
	Projection    mgl32.Mat4

	// targetPushed marks an entry created by PushRenderTarget.
	targetPushed bool
}

func newBaseState(width, height int) State {
	return State{
		Width:      width,
		Height:     height,
		Blend:      AlphaBlend,
		Transforms: []mgl32.Mat4{mgl32.Ident4()},
		Projection: PixelProjection(width, height),
	}
}

// Transform returns the top of the transform stack.
func (s *State) Transform() mgl32.Mat4 {
	return s.Transforms[len(s.Transforms)-1]
}

// clone copies s, taking new references to its handles.
func (s *State) clone() State {
	c := *s
	c.Transforms = slices.Clone(s.Transforms)
	c.targetPushed = false
	c.Texture.Retain()
	c.Shader.Retain()
	c.RenderTarget.Retain()
	return c
}

func (s *State) release() {
	s.Texture.Release()
	s.Shader.Release()
	s.RenderTarget.Release()
	s.Texture, s.Shader, s.RenderTarget = nil, nil, nil
}
