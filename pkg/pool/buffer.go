package pool

import "sync"

// BufferPool hands out reusable byte slices of a fixed size for I/O copies.
// Reusing buffers between compressor invocations relieves pressure on the
// garbage collector. It is safe for concurrent use.
type BufferPool struct {
	size int
	pool sync.Pool
}

// NewBufferPool creates a pool of buffers of the given size in bytes.
// Sizes below 4KB are raised to 4KB; a too-small copy buffer only adds
// syscall overhead.
func NewBufferPool(size int) *BufferPool {
	const minSize = 4 * 1024
	if size < minSize {
		size = minSize
	}
	bp := &BufferPool{size: size}
	bp.pool.New = func() any {
		b := make([]byte, bp.size)
		return &b
	}
	return bp
}

// Get retrieves a pointer to a byte slice of the pool's buffer size.
// Returning a pointer avoids an allocation on every Get/Put round trip.
func (bp *BufferPool) Get() *[]byte {
	return bp.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool. Buffers of the wrong size are dropped.
func (bp *BufferPool) Put(b *[]byte) {
	if b == nil || len(*b) != bp.size {
		return
	}
	bp.pool.Put(b)
}

// Size returns the size in bytes of the buffers handed out by the pool.
func (bp *BufferPool) Size() int {
	return bp.size
}
