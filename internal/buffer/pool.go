package buffer

import "sync"

// Pool is a thread-safe pool for reusing Buffer instances.
//
// Pool groups buffers by their dimensions and format. The motion-blur
// pipeline leases five temporaries per invocation with the same handful of
// shapes every frame, so after the first invocation every Get is a reuse.
//
// An optional byte budget bounds the total bytes leased out at any moment;
// Get fails with ErrBudgetExceeded instead of allocating past it. The
// outstanding-lease counters let callers verify that every Get was paired
// with a Put.
//
// Thread safety: all methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buffer
	maxSize int // max buffers retained per bucket

	budget      int // max outstanding bytes, 0 = unlimited
	leased      int // buffers currently leased out
	leasedBytes int // bytes currently leased out
}

// poolKey identifies a bucket of identical buffer specifications.
type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a buffer pool retaining at most maxPerBucket buffers of
// each shape. A maxPerBucket of 0 means unlimited retention.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buffer),
		maxSize: maxPerBucket,
	}
}

// SetBudget limits the total bytes that may be leased out concurrently.
// A budget of 0 (the default) means unlimited.
func (p *Pool) SetBudget(bytes int) {
	p.mu.Lock()
	p.budget = bytes
	p.mu.Unlock()
}

// Get leases a cleared buffer with the given shape, reusing a pooled one
// when available. Fails with ErrBudgetExceeded when the lease would push
// outstanding bytes past the budget, and with the Buffer constructor's
// error for invalid shapes.
func (p *Pool) Get(width, height int, format Format) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	size := format.RowBytes(width) * height
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	if p.budget > 0 && p.leasedBytes+size > p.budget {
		p.mu.Unlock()
		return nil, ErrBudgetExceeded
	}

	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.leased++
		p.leasedBytes += size
		p.mu.Unlock()

		buf.Clear()
		return buf, nil
	}
	p.leased++
	p.leasedBytes += size
	p.mu.Unlock()

	buf, err := New(width, height, format)
	if err != nil {
		p.mu.Lock()
		p.leased--
		p.leasedBytes -= size
		p.mu.Unlock()
		return nil, err
	}
	return buf, nil
}

// Put returns a leased buffer to the pool. Nil buffers are ignored.
// Buffers beyond the bucket's retention limit are discarded.
func (p *Pool) Put(buf *Buffer) {
	if buf == nil {
		return
	}

	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.leased--
	p.leasedBytes -= buf.ByteSize()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Outstanding returns the number of buffers currently leased out.
func (p *Pool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leased
}

// OutstandingBytes returns the bytes currently leased out.
func (p *Pool) OutstandingBytes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leasedBytes
}
