package gfx

import "fmt"

// Capability is a fixed-function toggle.
type Capability uint8

// Capabilities.
const (
	CapBlend Capability = iota
	CapDepthTest
	CapFaceCulling
	CapLineSmooth
	CapPolygonSmooth
	CapMultisample
	CapVSync
	CapWireframe
)

func (c Capability) String() string {
	switch c {
	case CapBlend:
		return "blend"
	case CapDepthTest:
		return "depth-test"
	case CapFaceCulling:
		return "face-culling"
	case CapLineSmooth:
		return "line-smooth"
	case CapPolygonSmooth:
		return "polygon-smooth"
	case CapMultisample:
		return "multisample"
	case CapVSync:
		return "vsync"
	case CapWireframe:
		return "wireframe"
	default:
		return fmt.Sprintf("Capability(%d)", uint8(c))
	}
}

// BufferMask selects the buffers affected by Clear.
type BufferMask uint8

// Buffer bits.
const (
	ColorBuffer BufferMask = 1 << iota
	DepthBuffer
	StencilBuffer

	AllBuffers = ColorBuffer | DepthBuffer | StencilBuffer
)

// ClearValues holds the fill value for each buffer group.
type ClearValues struct {
	Color   Color
	Depth   float32
	Stencil uint8
}

// DefaultClearValues clears to transparent black, far depth and zero stencil.
var DefaultClearValues = ClearValues{Color: Transparent, Depth: 1}

// PrimitiveType is the topology of submitted vertices.
type PrimitiveType uint8

// Primitive topologies.
const (
	Points PrimitiveType = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
)

func (p PrimitiveType) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line-strip"
	case LineLoop:
		return "line-loop"
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleFan:
		return "triangle-fan"
	default:
		return fmt.Sprintf("PrimitiveType(%d)", uint8(p))
	}
}

// Rect is an integer rectangle in pixels, origin at the top-left.
type Rect struct {
	X, Y, Width, Height int
}
