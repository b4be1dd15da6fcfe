package gfx

// ListTopology converts prim to an equivalent topology that explicit
// command-list APIs can draw: triangle fans become triangle lists and line
// loops become line lists. Other topologies are returned unchanged and
// reports false.
//
// indices selects the source vertices; a nil slice means 0..count-1. The
// returned indices draw the converted topology.
func ListTopology(prim PrimitiveType, indices []uint32, count int) (PrimitiveType, []uint32, bool) {
	if indices == nil && (prim == TriangleFan || prim == LineLoop) {
		indices = make([]uint32, count)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	switch prim {
	case TriangleFan:
		if len(indices) < 3 {
			return Triangles, nil, true
		}
		out := make([]uint32, 0, 3*(len(indices)-2))
		for i := 1; i+1 < len(indices); i++ {
			out = append(out, indices[0], indices[i], indices[i+1])
		}
		return Triangles, out, true
	case LineLoop:
		if len(indices) < 2 {
			return Lines, nil, true
		}
		out := make([]uint32, 0, 2*len(indices))
		for i := range indices {
			out = append(out, indices[i], indices[(i+1)%len(indices)])
		}
		return Lines, out, true
	default:
		return prim, indices, false
	}
}
