// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package bitarray implements a dynamic bit-packed buffer for cryptography.
//
// A BitArray owns a byte buffer and a logical bit count. Bits are addressed
// MSB-first: bit 0 is the most significant bit of the first byte, bit i
// lives at byte i>>3, bit position (i^7)&7 from the least significant bit
// of that byte. Every permutation table in this module is defined against
// that ordering.
//
// Bits in the last byte beyond the logical count are always zero; all
// mutating operations re-establish this.
package bitarray

import (
	"bytes"
	"fmt"
)

// BitArray is a dynamic bit-packed buffer. The zero value is an empty
// buffer using the default allocator. A BitArray is exclusively owned and
// must not be used from multiple goroutines.
type BitArray struct {
	alloc Allocator
	data  []byte
	count int
}

// bytesFor returns the storage needed for count bits
func bytesFor(count int) int {
	return (count + 7) >> 3
}

// New returns a zeroed buffer of count bits. A nil allocator selects
// DefaultAllocator.
func New(alloc Allocator, count int) (*BitArray, error) {
	if count < 0 {
		return nil, fmt.Errorf("bitarray: negative bit count %d", count)
	}
	a := &BitArray{alloc: alloc, count: count}
	if count > 0 {
		buf, err := a.allocator().Allocate(bytesFor(count), 1)
		if err != nil {
			return nil, fmt.Errorf("bitarray: allocate %d bits: %w", count, err)
		}
		a.data = buf
	}
	return a, nil
}

// FromBytes returns a buffer holding the first count bits of src. The
// source is deep-copied; src must hold at least ceil(count/8) bytes.
func FromBytes(alloc Allocator, src []byte, count int) (*BitArray, error) {
	if count < 0 {
		return nil, fmt.Errorf("bitarray: negative bit count %d", count)
	}
	if len(src) < bytesFor(count) {
		return nil, fmt.Errorf("bitarray: source holds %d bits, need %d", len(src)*8, count)
	}
	a, err := New(alloc, count)
	if err != nil {
		return nil, err
	}
	copy(a.data, src[:bytesFor(count)])
	a.clearPad()
	return a, nil
}

// allocator returns the buffer's allocator, falling back to the default
func (a *BitArray) allocator() Allocator {
	if a.alloc == nil {
		return DefaultAllocator
	}
	return a.alloc
}

// resizeIfNecessary grows the backing storage to at least size bytes,
// preserving contents. Capacity is monotonically non-decreasing; shrink is
// a no-op. The old storage is kept until the new allocation succeeds.
func (a *BitArray) resizeIfNecessary(size int) error {
	if size <= len(a.data) {
		return nil
	}
	if a.data == nil {
		buf, err := a.allocator().Allocate(size, 1)
		if err != nil {
			return fmt.Errorf("bitarray: allocate %d bytes: %w", size, err)
		}
		a.data = buf
		return nil
	}
	buf, err := a.allocator().Reallocate(a.data, size, 1)
	if err != nil {
		return fmt.Errorf("bitarray: grow to %d bytes: %w", size, err)
	}
	a.data = buf
	return nil
}

// clearPad zeroes the bits of the last byte beyond the logical count
func (a *BitArray) clearPad() {
	if a.count == 0 || a.count&7 == 0 {
		return
	}
	a.data[(a.count-1)>>3] &= ^byte(0) << (8 - a.count&7)
}

// Count returns the buffer length in bits
func (a *BitArray) Count() int {
	return a.count
}

// Bytes returns the underlying storage. The slice must be treated as
// read-only; it remains valid until the next growing operation.
func (a *BitArray) Bytes() []byte {
	return a.data
}

// SetBytes overwrites the buffer contents with the first Count bits of
// src, keeping the current length.
func (a *BitArray) SetBytes(src []byte) error {
	n := bytesFor(a.count)
	if len(src) < n {
		return fmt.Errorf("bitarray: source holds %d bits, need %d", len(src)*8, a.count)
	}
	copy(a.data[:n], src[:n])
	a.clearPad()
	return nil
}

// Clone returns an independent deep copy of the buffer
func (a *BitArray) Clone() (*BitArray, error) {
	return FromBytes(a.alloc, a.data, a.count)
}

// CopyFrom overwrites the buffer with the contents of other, growing the
// storage when needed. The buffers remain independent.
func (a *BitArray) CopyFrom(other *BitArray) error {
	n := bytesFor(other.count)
	if err := a.resizeIfNecessary(n); err != nil {
		return err
	}
	copy(a.data[:n], other.data[:n])
	a.count = other.count
	a.clearPad()
	return nil
}

// Equal reports whether both buffers hold the same bit count and content.
// Buffers of different lengths are never equal.
func (a *BitArray) Equal(other *BitArray) bool {
	if a.count != other.count {
		return false
	}
	n := bytesFor(a.count)
	return bytes.Equal(a.data[:n], other.data[:n])
}

// Free zeroes the contents and releases the storage back to the
// allocator, leaving an empty buffer.
func (a *BitArray) Free() {
	if a.data != nil {
		for i := range a.data {
			a.data[i] = 0
		}
		a.allocator().Release(a.data)
	}
	a.data = nil
	a.count = 0
}

// Slice returns a new buffer holding the n bits starting at byte offset
// of the source.
func (a *BitArray) Slice(n, byteOffset int) (*BitArray, error) {
	if byteOffset < 0 || byteOffset > len(a.data) {
		panic(fmt.Sprintf("bitarray: slice offset %d out of range for %d bytes", byteOffset, len(a.data)))
	}
	return FromBytes(a.alloc, a.data[byteOffset:], n)
}

// SliceBits returns a new buffer holding the bit range [begin, end) of
// the source, merging across byte boundaries for arbitrary bit offsets.
func (a *BitArray) SliceBits(begin, end int) (*BitArray, error) {
	a.checkRange(begin, end)
	out, err := New(a.alloc, end-begin)
	if err != nil {
		return nil, err
	}
	a.copyRange(out, begin, end)
	return out, nil
}

// CopyRange overwrites dst with the bit range [begin, end) of the source.
// This is the non-allocating form of SliceBits for preallocated scratch
// buffers; dst must not alias the source.
func (a *BitArray) CopyRange(dst *BitArray, begin, end int) error {
	a.checkRange(begin, end)
	if err := dst.resizeIfNecessary(bytesFor(end - begin)); err != nil {
		return err
	}
	a.copyRange(dst, begin, end)
	return nil
}

// checkRange panics when [begin, end) is not a valid bit range
func (a *BitArray) checkRange(begin, end int) {
	if begin < 0 || end < begin || end > a.count {
		panic(fmt.Sprintf("bitarray: range [%d, %d) out of range for %d bits", begin, end, a.count))
	}
}

// copyRange shifts the range [begin, end) into dst, which has capacity
func (a *BitArray) copyRange(dst *BitArray, begin, end int) {
	dst.count = end - begin
	o := begin & 7
	b := begin >> 3
	for i := 0; i < bytesFor(dst.count); i++ {
		v := a.data[b+i] << o
		if o != 0 && b+i+1 < len(a.data) {
			v |= a.data[b+i+1] >> (8 - o)
		}
		dst.data[i] = v
	}
	dst.clearPad()
}

// Append extends the buffer in place by other.Count bits, placing other's
// bits immediately after the current last bit regardless of byte
// alignment. Storage grows first; on allocation failure the buffer is
// left unchanged.
func (a *BitArray) Append(other *BitArray) error {
	if other.count == 0 {
		return nil
	}
	if a.count == 0 {
		return a.CopyFrom(other)
	}
	newCount := a.count + other.count
	if err := a.resizeIfNecessary(bytesFor(newCount)); err != nil {
		return err
	}

	src := other.data[:bytesFor(other.count)]
	base := a.count >> 3
	r := a.count & 7
	if r == 0 {
		copy(a.data[base:], src)
	} else {
		s := 8 - r

		// Merge into the boundary byte, then shift the rest
		a.data[base] = a.data[base]&(^byte(0)<<s) | src[0]>>r
		for i := 1; i <= len(src); i++ {
			v := src[i-1] << s
			if i < len(src) {
				v |= src[i] >> r
			}
			if base+i < bytesFor(newCount) {
				a.data[base+i] = v
			}
		}
	}

	a.count = newCount
	a.clearPad()
	return nil
}

// Merge returns a new buffer holding the source followed by other
func (a *BitArray) Merge(other *BitArray) (*BitArray, error) {
	out, err := a.Clone()
	if err != nil {
		return nil, err
	}
	if err := out.Append(other); err != nil {
		return nil, err
	}
	return out, nil
}
