package image

import "sync"

// Pool recycles PixelBuffers of identical dimensions.
//
// A decoder owner releases its previous result into the pool before the
// next decode, so a stream of same-sized decodes keeps reusing the same
// allocation instead of growing the heap.
//
// A nil *Pool is valid: Get allocates and Put discards.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*PixelBuffer
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identical buffer sizes.
type poolKey struct {
	width  int
	height int
}

// NewPool creates a buffer pool that keeps at most maxPerBucket buffers of
// each size. A maxPerBucket of 0 or less means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*PixelBuffer),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed buffer with the given dimensions, reusing a pooled
// one when available.
func (p *Pool) Get(width, height int) (*PixelBuffer, error) {
	if p == nil {
		return NewPixelBuffer(width, height)
	}
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		bucket[n-1] = nil
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		return buf, nil
	}
	p.mu.Unlock()

	return NewPixelBuffer(width, height)
}

// Put returns a buffer to the pool. The buffer is cleared before it is
// stored; callers must not use it afterwards.
// If buf is nil or its bucket is full, the buffer is dropped for the GC.
func (p *Pool) Put(buf *PixelBuffer) {
	if p == nil || buf == nil {
		return
	}

	buf.Clear()
	key := poolKey{width: buf.width, height: buf.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of buffers currently held by the pool.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, bucket := range p.buckets {
		n += len(bucket)
	}
	return n
}
