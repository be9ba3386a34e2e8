// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package bitarray

// Allocator is the seam through which all buffer storage is obtained.
// Embedders can supply arena, pooled or bump allocation; the default is
// plain heap allocation.
type Allocator interface {
	// Allocate returns a zeroed buffer of at least size bytes.
	Allocate(size, align int) ([]byte, error)

	// Reallocate grows buf to at least size bytes, preserving its
	// contents. The original buffer is left untouched on failure.
	Reallocate(buf []byte, size, align int) ([]byte, error)

	// Release returns a buffer to the allocator.
	Release(buf []byte)
}

// DefaultAllocator is used by buffers constructed with a nil allocator.
var DefaultAllocator Allocator = HeapAllocator{}

// HeapAllocator allocates from the regular heap
type HeapAllocator struct{}

// roundUp rounds size up to the next multiple of align
func roundUp(size, align int) int {
	if align > 1 {
		size = (size + align - 1) / align * align
	}
	return size
}

// Allocate returns a zeroed heap buffer
func (HeapAllocator) Allocate(size, align int) ([]byte, error) {
	return make([]byte, roundUp(size, align)), nil
}

// Reallocate grows a heap buffer, copying the old contents
func (HeapAllocator) Reallocate(buf []byte, size, align int) ([]byte, error) {
	size = roundUp(size, align)
	if size <= len(buf) {
		return buf, nil
	}
	next := make([]byte, size)
	copy(next, buf)
	return next, nil
}

// Release is a no-op for heap buffers
func (HeapAllocator) Release(buf []byte) {}

// WordAlignedAllocator rounds every capacity up to an 8-byte multiple so
// that word-at-a-time operations never touch a partial word. Useful for
// throughput-critical buffers.
type WordAlignedAllocator struct {
	heap HeapAllocator
}

// Allocate returns a zeroed buffer rounded up to a word multiple
func (w WordAlignedAllocator) Allocate(size, align int) ([]byte, error) {
	return w.heap.Allocate(size, 8)
}

// Reallocate grows a buffer, keeping the word-multiple capacity
func (w WordAlignedAllocator) Reallocate(buf []byte, size, align int) ([]byte, error) {
	return w.heap.Reallocate(buf, size, 8)
}

// Release returns the buffer to the underlying allocator
func (w WordAlignedAllocator) Release(buf []byte) {
	w.heap.Release(buf)
}
