package buffer

import (
	"fmt"
	"sync"
)

// Allocator hands out zeroed pixel storage and keeps count of what is live.
//
// Released storage goes back to an internal pool and may be handed to a later
// allocation, which is why a released Buffer refuses to expose its bytes.
type Allocator struct {
	pool sync.Pool

	mu        sync.Mutex
	live      int
	liveBytes int
	limit     int
}

// NewAllocator creates an Allocator with no memory limit.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// SetLimit caps the total bytes that may be live at once. Zero removes the cap.
// Allocations that would exceed it fail with ErrAllocation.
func (a *Allocator) SetLimit(bytes int) {
	a.mu.Lock()
	a.limit = bytes
	a.mu.Unlock()
}

// Live returns the number of buffers allocated and not yet released.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

// LiveBytes returns the storage held by live buffers.
func (a *Allocator) LiveBytes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.liveBytes
}

// Allocate returns a zero-initialized buffer of the given size and format.
//
// The row stride is the packed row length rounded up to RowAlignment. The
// caller owns the result and must hand it back with Release exactly once.
func (a *Allocator) Allocate(width, height int, format Format) (*Buffer, error) {
	if err := checkGeometry(width, height, format); err != nil {
		return nil, err
	}
	stride := alignedStride(width, format)
	size := stride * height

	a.mu.Lock()
	if a.limit > 0 && a.liveBytes+size > a.limit {
		a.mu.Unlock()
		return nil, fmt.Errorf("%w: %d bytes requested, %d of %d in use", ErrAllocation, size, a.liveBytes, a.limit)
	}
	a.live++
	a.liveBytes += size
	a.mu.Unlock()

	return &Buffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
		pix:    a.take(size),
		owner:  a,
	}, nil
}

// Release gives b's storage back to the allocator.
//
// Only buffers returned by this allocator's Allocate may be released here.
// Buffers owned by a Scope, wrapped buffers and buffers from another
// allocator fail with ErrNotOwned; a second release fails with ErrReleased.
func (a *Allocator) Release(b *Buffer) error {
	if b.owner != a || b.scoped {
		return ErrNotOwned
	}
	return a.release(b)
}

func (a *Allocator) release(b *Buffer) error {
	if b.released {
		return ErrReleased
	}
	size := len(b.pix)
	a.put(b.pix)
	b.pix = nil
	b.released = true

	a.mu.Lock()
	a.live--
	a.liveBytes -= size
	a.mu.Unlock()
	return nil
}

func (a *Allocator) take(size int) []byte {
	if p, ok := a.pool.Get().(*[]byte); ok && cap(*p) >= size {
		buf := (*p)[:size]
		clear(buf)
		return buf
	}
	return make([]byte, size)
}

func (a *Allocator) put(buf []byte) {
	a.pool.Put(&buf)
}

// Scope owns every buffer allocated through it and releases them together.
type Scope struct {
	alloc  *Allocator
	bufs   []*Buffer
	closed bool
}

// NewScope starts an empty ownership scope backed by a.
func (a *Allocator) NewScope() *Scope {
	return &Scope{alloc: a}
}

// Allocate allocates a buffer owned by the scope. The buffer stays valid
// until Close and cannot be released on its own.
func (s *Scope) Allocate(width, height int, format Format) (*Buffer, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: scope closed", ErrAllocation)
	}
	b, err := s.alloc.Allocate(width, height, format)
	if err != nil {
		return nil, err
	}
	b.scoped = true
	s.bufs = append(s.bufs, b)
	return b, nil
}

// Len returns the number of buffers the scope owns.
func (s *Scope) Len() int {
	return len(s.bufs)
}

// Close releases every buffer owned by the scope. Calling Close on a closed
// scope does nothing.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	for _, b := range s.bufs {
		// Scoped buffers are only ever released here, so this cannot fail.
		_ = s.alloc.release(b)
	}
	s.bufs = nil
	s.closed = true
}
