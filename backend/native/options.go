package native

import "github.com/gogpu/gputypes"

// Options configures a native device.
type Options struct {
	// CopyPitchAlignment is the row alignment of buffer/texture copies.
	// Zero selects the WebGPU value of 256 bytes.
	CopyPitchAlignment int

	// HeapRetention is the number of presented frames allowed in flight
	// while their transient bind groups and immediate buffers wait to be
	// recycled. Zero flushes the queue at every Present.
	HeapRetention int

	// Adapter selects a HAL backend by variant name ("vulkan", "metal",
	// "dx12", "gl", "empty"). Empty picks the most capable registered backend.
	Adapter string

	// Format is the back buffer format. Zero selects BGRA8Unorm for window
	// surfaces and RGBA8Unorm offscreen.
	Format gputypes.TextureFormat
}

const defaultCopyPitchAlignment = 256

func (o Options) withDefaults(offscreen bool) Options {
	if o.CopyPitchAlignment <= 0 {
		o.CopyPitchAlignment = defaultCopyPitchAlignment
	}
	if o.HeapRetention < 0 {
		o.HeapRetention = 0
	}
	if o.Format == gputypes.TextureFormatUndefined {
		if offscreen {
			o.Format = gputypes.TextureFormatRGBA8Unorm
		} else {
			o.Format = gputypes.TextureFormatBGRA8Unorm
		}
	}
	return o
}

// alignUp rounds n up to a multiple of align.
func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
