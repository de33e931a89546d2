package pixel

import "sync"

// Pool is a thread-safe pool for reusing Buffer and Mask instances.
//
// Pool groups entries by their dimensions. Snapshots are large and
// short-lived, so the history returns them here on release instead of
// leaving them to the GC.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buffers map[poolKey][]*Buffer
	masks   map[poolKey][]*Mask
	maxSize int // max entries per bucket
}

// poolKey identifies a bucket of identically sized entries.
type poolKey struct {
	width  int
	height int
}

// NewPool creates a pool retaining at most maxPerBucket entries of each size.
// A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buffers: make(map[poolKey][]*Buffer),
		masks:   make(map[poolKey][]*Mask),
		maxSize: maxPerBucket,
	}
}

// Buffer retrieves a zeroed buffer from the pool or allocates a new one.
func (p *Pool) Buffer(width, height int) (*Buffer, error) {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buffers[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buffers[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		buf.Clear()
		return buf, nil
	}
	p.mu.Unlock()

	return NewBuffer(width, height)
}

// PutBuffer returns a buffer to the pool. Nil buffers and buffers that would
// overflow their bucket are discarded.
func (p *Pool) PutBuffer(buf *Buffer) {
	if buf == nil {
		return
	}
	key := poolKey{width: buf.width, height: buf.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buffers[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buffers[key] = append(bucket, buf)
}

// Mask retrieves a cleared mask from the pool or allocates a new one.
func (p *Pool) Mask(width, height int) (*Mask, error) {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.masks[key]
	if len(bucket) > 0 {
		m := bucket[len(bucket)-1]
		p.masks[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		m.Clear()
		return m, nil
	}
	p.mu.Unlock()

	return NewMask(width, height)
}

// PutMask returns a mask to the pool.
func (p *Pool) PutMask(m *Mask) {
	if m == nil {
		return
	}
	key := poolKey{width: m.width, height: m.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.masks[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.masks[key] = append(bucket, m)
}

// CloneBuffer returns a pooled deep copy of src.
func (p *Pool) CloneBuffer(src *Buffer) (*Buffer, error) {
	dst, err := p.Buffer(src.width, src.height)
	if err != nil {
		return nil, err
	}
	copy(dst.pix, src.pix)
	return dst, nil
}

// CloneMask returns a pooled deep copy of src.
func (p *Pool) CloneMask(src *Mask) (*Mask, error) {
	dst, err := p.Mask(src.width, src.height)
	if err != nil {
		return nil, err
	}
	copy(dst.alpha, src.alpha)
	return dst, nil
}
