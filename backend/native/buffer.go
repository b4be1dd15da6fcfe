package native

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gfx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Queue writes must be 4-byte aligned in offset and size.
const writeAlignment = 4

type poolKey struct {
	size  uint64
	usage gputypes.BufferUsage
}

// pooledBuffer is an upload buffer borrowed for one draw.
type pooledBuffer struct {
	buf hal.Buffer
	key poolKey
}

// bufferPool recycles transient buffers by size and usage. Buffers are
// taken per draw and returned once the frame that used them completes.
type bufferPool struct {
	dev     hal.Device
	free    map[poolKey][]*pooledBuffer
	created int
}

func newBufferPool(dev hal.Device) *bufferPool {
	return &bufferPool{dev: dev, free: make(map[poolKey][]*pooledBuffer)}
}

func (p *bufferPool) get(size int, usage gputypes.BufferUsage) (*pooledBuffer, error) {
	key := poolKey{size: uint64(alignUp(size, writeAlignment)), usage: usage | gputypes.BufferUsageCopyDst}
	if list := p.free[key]; len(list) > 0 {
		b := list[len(list)-1]
		p.free[key] = list[:len(list)-1]
		return b, nil
	}
	buf, err := p.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "gfx_immediate",
		Size:  key.size,
		Usage: key.usage,
	})
	if err != nil {
		return nil, callErr("CreateBuffer", err)
	}
	p.created++
	return &pooledBuffer{buf: buf, key: key}, nil
}

func (p *bufferPool) put(b *pooledBuffer) {
	p.free[b.key] = append(p.free[b.key], b)
}

// idle returns the number of pooled buffers.
func (p *bufferPool) idle() int {
	n := 0
	for _, list := range p.free {
		n += len(list)
	}
	return n
}

func (p *bufferPool) destroy() {
	for _, list := range p.free {
		for _, b := range list {
			p.dev.DestroyBuffer(b.buf)
		}
	}
	p.free = make(map[poolKey][]*pooledBuffer)
}

// upload copies data into a pooled buffer, padding it to the write alignment.
func (d *Device) upload(data []byte, usage gputypes.BufferUsage) (*pooledBuffer, error) {
	b, err := d.pool.get(len(data), usage)
	if err != nil {
		return nil, err
	}
	d.cur.buffers = append(d.cur.buffers, b)
	if len(data)%writeAlignment != 0 {
		padded := make([]byte, b.key.size)
		copy(padded, data)
		data = padded
	}
	if err := d.queue.WriteBuffer(b.buf, 0, data); err != nil {
		return nil, callErr("WriteBuffer", err)
	}
	return b, nil
}

func indexBytes(indices []uint32) []byte {
	out := make([]byte, 4*len(indices))
	for i, v := range indices {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out
}

// gpuBuffer is a persistent buffer with a CPU copy used to widen partial
// writes to the queue alignment.
type gpuBuffer struct {
	d      *Device
	label  string
	buf    hal.Buffer
	shadow []byte
}

func (d *Device) createBuffer(label string, data []byte, size int, usage gputypes.BufferUsage) (*gpuBuffer, error) {
	shadow := make([]byte, alignUp(max(size, writeAlignment), writeAlignment))
	copy(shadow, data)
	buf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(shadow)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, callErr("CreateBuffer", err)
	}
	b := &gpuBuffer{d: d, label: label, buf: buf, shadow: shadow}
	if err := d.queue.WriteBuffer(buf, 0, shadow); err != nil {
		d.dev.DestroyBuffer(buf)
		return nil, callErr("WriteBuffer", err)
	}
	return b, nil
}

// write updates bytes [offset, offset+len(data)) of the buffer. Pending
// draws are submitted first so they see the old contents.
func (b *gpuBuffer) write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > len(b.shadow) {
		return fmt.Errorf("buffer %q: %w", b.label, gfx.ErrOutOfRange)
	}
	if err := b.d.flush(); err != nil {
		return err
	}
	copy(b.shadow[offset:], data)
	start := offset &^ (writeAlignment - 1)
	end := min(alignUp(offset+len(data), writeAlignment), len(b.shadow))
	if err := b.d.queue.WriteBuffer(b.buf, uint64(start), b.shadow[start:end]); err != nil {
		return callErr("WriteBuffer", err)
	}
	return nil
}

func (b *gpuBuffer) Backend() string { return gfx.BackendNative }

func (b *gpuBuffer) Destroy() {
	buf := b.buf
	b.d.retire(func() { b.d.dev.DestroyBuffer(buf) })
}

// vertexBufferObject implements gfx.VertexBufferObject.
type vertexBufferObject struct {
	*gpuBuffer
	format gfx.VertexFormat
	count  int
}

func (v *vertexBufferObject) Update(offset int, data []byte) error {
	return v.write(offset, data)
}

// indexBufferObject implements gfx.IndexBufferObject.
type indexBufferObject struct {
	*gpuBuffer
	count int
}

func (ib *indexBufferObject) Update(start int, indices []uint32) error {
	return ib.write(4*start, indexBytes(indices))
}

func (d *Device) NewVertexBuffer(desc gfx.VertexBufferDesc) (gfx.VertexBufferObject, error) {
	if _, err := vertexLayout(desc.Format); err != nil {
		return nil, err
	}
	var data []byte
	count := desc.Count
	if desc.Vertices != nil {
		data = desc.Vertices.Bytes()
		count = desc.Vertices.Len()
	}
	b, err := d.createBuffer(desc.Label, data, count*desc.Format.VertexSize(), gputypes.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	return &vertexBufferObject{gpuBuffer: b, format: desc.Format, count: count}, nil
}

func (d *Device) NewIndexBuffer(desc gfx.IndexBufferDesc) (gfx.IndexBufferObject, error) {
	count := desc.Count
	if desc.Indices != nil {
		count = len(desc.Indices)
	}
	b, err := d.createBuffer(desc.Label, indexBytes(desc.Indices), 4*count, gputypes.BufferUsageIndex)
	if err != nil {
		return nil, err
	}
	return &indexBufferObject{gpuBuffer: b, count: count}, nil
}
