// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package bitarray

import (
	"fmt"
)

const (
	// maxSBoxInBits is the widest supported substitution group
	maxSBoxInBits = 16

	// maxSBoxOutBits is the widest supported substitution output
	maxSBoxOutBits = 8
)

// SBox is a validated substitution table mapping inBits-bit groups to
// outBits-bit values. Construction checks the table shape once; lookups
// during substitution are unchecked.
type SBox struct {
	inBits  int
	outBits int
	entries []uint32
}

// NewSBox builds a substitution table. The table must hold exactly
// 2^inBits entries, each representable in outBits bits, with
// 1 <= inBits <= 16 and 1 <= outBits <= 8.
func NewSBox(inBits, outBits int, entries []uint32) (*SBox, error) {
	if inBits < 1 || inBits > maxSBoxInBits {
		return nil, fmt.Errorf("bitarray: sbox input width %d out of range [1, %d]", inBits, maxSBoxInBits)
	}
	if outBits < 1 || outBits > maxSBoxOutBits {
		return nil, fmt.Errorf("bitarray: sbox output width %d out of range [1, %d]", outBits, maxSBoxOutBits)
	}
	if len(entries) != 1<<inBits {
		return nil, fmt.Errorf("bitarray: sbox holds %d entries, want %d", len(entries), 1<<inBits)
	}
	for i, e := range entries {
		if e >= 1<<outBits {
			return nil, fmt.Errorf("bitarray: sbox entry %d = %d exceeds %d bits", i, e, outBits)
		}
	}
	s := &SBox{inBits: inBits, outBits: outBits}
	s.entries = append(s.entries, entries...)
	return s, nil
}

// MustSBox is like NewSBox but panics on a malformed table. Intended for
// compile-time constant tables.
func MustSBox(inBits, outBits int, entries []uint32) *SBox {
	s, err := NewSBox(inBits, outBits, entries)
	if err != nil {
		panic(err)
	}
	return s
}

// InBits returns the substitution group width
func (s *SBox) InBits() int {
	return s.inBits
}

// OutBits returns the substitution output width
func (s *SBox) OutBits() int {
	return s.outBits
}

// Substitute maps fixed-width bit groups of the source through the given
// tables, cycling the tables round-robin across groups. Groups are
// consumed strictly in order from bit 0; the i-th group is looked up in
// boxes[i mod len(boxes)] and the result packed contiguously MSB-first
// into dst. Group and output boundaries may straddle bytes. Substitution
// stops once dst.Count bits have been produced or fewer than a full group
// of source bits remains; any unproduced destination bits are zero. All
// boxes must share the same input and output widths.
func (a *BitArray) Substitute(dst *BitArray, boxes []*SBox) *BitArray {
	if len(boxes) == 0 {
		panic("bitarray: substitute with no tables")
	}
	in, out := boxes[0].inBits, boxes[0].outBits
	for _, b := range boxes[1:] {
		if b.inBits != in || b.outBits != out {
			panic(fmt.Sprintf("bitarray: mixed sbox widths %d/%d and %d/%d", in, out, b.inBits, b.outBits))
		}
	}

	for i := range dst.data {
		dst.data[i] = 0
	}

	pos, w := 0, 0
	for s := 0; w < dst.count && pos+in <= a.count; s++ {
		g := a.readBits(pos, in)
		x := boxes[s%len(boxes)].entries[g]

		take := out
		if w+take > dst.count {
			take = dst.count - w
			x >>= out - take
		}
		dst.writeBits(w, take, x)

		pos += in
		w += take
	}
	return dst
}
