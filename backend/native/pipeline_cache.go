package native

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// pipelineDesc is everything a render pipeline is built from.
//
// The texture and the transform of a draw are bound through bind groups and
// uniforms, so they never appear here.
type pipelineDesc struct {
	shader      *shaderObject
	format      gfx.VertexFormat
	topology    gputypes.PrimitiveTopology
	blend       gfx.BlendState
	blendOn     bool
	colorFormat gputypes.TextureFormat
	targets     int
	depthTest   bool
	cull        bool
}

// hashPipelineDesc computes an FNV-1a hash of desc.
func hashPipelineDesc(d *pipelineDesc) uint64 {
	h := fnv.New64a()

	if d.shader != nil {
		hashWriteUint64(h, d.shader.id)
	} else {
		hashWriteUint64(h, 0)
	}

	for a := gfx.VertexAttribute(0); a < gfx.NumAttributes; a++ {
		n := d.format.ElementCount(a)
		hashWriteUint32(h, uint32(n))
		if n == 0 {
			continue
		}
		hashWriteUint32(h, uint32(d.format.Datatype(a)))
		hashWriteUint32(h, uint32(d.format.Offset(a)))
	}
	hashWriteUint32(h, uint32(d.format.VertexSize()))

	hashWriteUint32(h, uint32(d.topology))

	hashWriteBool(h, d.blendOn)
	if d.blendOn {
		hashWriteUint32(h, uint32(d.blend.SrcColor))
		hashWriteUint32(h, uint32(d.blend.DstColor))
		hashWriteUint32(h, uint32(d.blend.SrcAlpha))
		hashWriteUint32(h, uint32(d.blend.DstAlpha))
	}

	hashWriteUint32(h, uint32(d.colorFormat))
	hashWriteUint32(h, uint32(d.targets))
	hashWriteBool(h, d.depthTest)
	hashWriteBool(h, d.cull)

	return h.Sum64()
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteBool(h hash.Hash64, v bool) {
	if v {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}

// PipelineCache caches render pipelines by descriptor hash.
//
// Building a pipeline compiles shaders for the target, so draws look
// pipelines up here first. Entries are never invalidated; they live until
// the device is closed or the shader they were built from is destroyed.
//
// PipelineCache is safe for concurrent use. It uses RWMutex with
// double-check locking for reads and writes.
type PipelineCache struct {
	mu        sync.RWMutex
	pipelines map[uint64]hal.RenderPipeline
	byShader  map[uint64][]uint64

	hits   uint64
	misses uint64
}

func newPipelineCache() *PipelineCache {
	return &PipelineCache{
		pipelines: make(map[uint64]hal.RenderPipeline),
		byShader:  make(map[uint64][]uint64),
	}
}

// getOrCreate returns the cached pipeline for desc, calling build on a miss.
func (c *PipelineCache) getOrCreate(desc *pipelineDesc, build func(*pipelineDesc) (hal.RenderPipeline, error)) (hal.RenderPipeline, error) {
	key := hashPipelineDesc(desc)

	// Fast path: read lock
	c.mu.RLock()
	if p, ok := c.pipelines[key]; ok {
		c.mu.RUnlock()
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pipelines[key]; ok {
		atomic.AddUint64(&c.hits, 1)
		return p, nil
	}

	p, err := build(desc)
	if err != nil {
		return nil, err
	}
	c.pipelines[key] = p
	if desc.shader != nil {
		c.byShader[desc.shader.id] = append(c.byShader[desc.shader.id], key)
	}
	atomic.AddUint64(&c.misses, 1)
	gfx.Logger().Debug("native: pipeline created", "key", key, "topology", desc.topology, "targets", desc.targets)
	return p, nil
}

// Stats returns cache hits and misses.
func (c *PipelineCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// Len returns the number of cached pipelines.
func (c *PipelineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// evictShader removes the pipelines built from shader id and returns them.
func (c *PipelineCache) evictShader(id uint64) []hal.RenderPipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := c.byShader[id]
	out := make([]hal.RenderPipeline, 0, len(keys))
	for _, k := range keys {
		if p, ok := c.pipelines[k]; ok {
			out = append(out, p)
			delete(c.pipelines, k)
		}
	}
	delete(c.byShader, id)
	return out
}

// destroyAll destroys every cached pipeline and empties the cache.
func (c *PipelineCache) destroyAll(dev hal.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.pipelines {
		dev.DestroyRenderPipeline(p)
	}
	c.pipelines = make(map[uint64]hal.RenderPipeline)
	c.byShader = make(map[uint64][]uint64)
}
