package gfx

import (
	"sync/atomic"
)

// refCount tracks shared ownership of a handle. A handle starts with one
// reference owned by its creator.
type refCount struct {
	refs atomic.Int32
}

func (r *refCount) init() { r.refs.Store(1) }

func (r *refCount) retain() bool {
	for {
		n := r.refs.Load()
		if n <= 0 {
			return false
		}
		if r.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// release drops a reference and reports whether it was the last one.
func (r *refCount) release() bool {
	n := r.refs.Add(-1)
	if n < 0 {
		r.refs.Store(0)
		return false
	}
	return n == 0
}

func (r *refCount) alive() bool { return r.refs.Load() > 0 }

// initializer is implemented by pointer-to-handle types. initialize builds
// the device object from desc; destroy tears down whatever initialize
// managed to build.
type initializer[D any] interface {
	initialize(c *Context, desc D) error
	destroy()
}

// createNew builds a handle of type T from desc. On failure the partially
// built object is destroyed and a nil handle is returned.
func createNew[T any, D any, PT interface {
	*T
	initializer[D]
}](c *Context, desc D) (PT, error) {
	if c.closed {
		return nil, ErrClosed
	}
	h := PT(new(T))
	if err := h.initialize(c, desc); err != nil {
		h.destroy()
		return nil, err
	}
	return h, nil
}

// ownedBy reports whether obj was created by dev.
func ownedBy(dev Device, obj DeviceObject) bool {
	return obj == nil || obj.Backend() == dev.Name()
}
