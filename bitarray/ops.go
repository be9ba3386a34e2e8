// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package bitarray

import (
	"crypto/subtle"
	"fmt"
)

// Bit returns the value of the bit at index i
func (a *BitArray) Bit(i int) byte {
	if i < 0 || i >= a.count {
		panic(fmt.Sprintf("bitarray: bit index %d out of range for %d bits", i, a.count))
	}
	return (a.data[i>>3] >> ((i ^ 7) & 7)) & 1
}

// Uint32 returns the bit range [begin, end) as an unsigned integer, most
// significant bit first. The range may span at most 32 bits.
func (a *BitArray) Uint32(begin, end int) uint32 {
	a.checkRange(begin, end)
	if end-begin > 32 {
		panic(fmt.Sprintf("bitarray: range [%d, %d) wider than 32 bits", begin, end))
	}
	return a.readBits(begin, end-begin)
}

// readBits reads width bits starting at pos, MSB-first. All multi-bit
// reads go through here so the bit ordering lives in one place.
func (a *BitArray) readBits(pos, width int) uint32 {
	var out uint32
	for width > 0 {
		off := pos & 7
		take := 8 - off
		if take > width {
			take = width
		}
		chunk := a.data[pos>>3] >> (8 - off - take) & (1<<take - 1)
		out = out<<take | uint32(chunk)
		pos += take
		width -= take
	}
	return out
}

// writeBits stores the low width bits of val starting at pos, MSB-first
func (a *BitArray) writeBits(pos, width int, val uint32) {
	for width > 0 {
		off := pos & 7
		take := 8 - off
		if take > width {
			take = width
		}
		shift := 8 - off - take
		mask := byte(1<<take-1) << shift
		chunk := byte(val>>(width-take)) & (1<<take - 1)
		a.data[pos>>3] = a.data[pos>>3]&^mask | chunk<<shift
		pos += take
		width -= take
	}
}

// XorAssign xors other into the buffer in place, word-at-a-time, over the
// overlapping storage range. Callers must match bit counts for
// cryptographic use; with mismatched counts only the shorter capacity is
// touched and the rest of the longer operand is unchanged.
func (a *BitArray) XorAssign(other *BitArray) *BitArray {
	n := len(a.data)
	if len(other.data) < n {
		n = len(other.data)
	}
	subtle.XORBytes(a.data[:n], a.data[:n], other.data[:n])
	a.clearPad()
	return a
}

// Xor returns a new buffer holding the xor of both operands
func (a *BitArray) Xor(other *BitArray) (*BitArray, error) {
	out, err := a.Clone()
	if err != nil {
		return nil, err
	}
	return out.XorAssign(other), nil
}

// RotateLeft circularly shifts the buffer left by n bits in place, within
// the logical bit width. Bits shifted out of the most significant position
// wrap to the end of the logical range; pad bits never leak into the
// result. Shifts of any magnitude are decomposed into byte-sized steps.
func (a *BitArray) RotateLeft(n int) *BitArray {
	if a.count == 0 {
		return a
	}
	n %= a.count
	if n < 0 {
		n += a.count
	}
	for n > 0 {
		s := n
		if s > 8 {
			s = 8
		}
		a.rotateLeftSmall(s)
		n -= s
	}
	return a
}

// rotateLeftSmall rotates by s bits, 1 <= s <= 8. The byte loop shifts the
// whole physical bit string; the carry out of the first byte is then
// written back into the tail of the logical range.
func (a *BitArray) rotateLeftSmall(s int) {
	var u, v byte
	for i := (a.count - 1) >> 3; i >= 0; i-- {
		v = u
		u = a.data[i] >> (8 - s)
		a.data[i] = a.data[i]<<s | v
	}
	a.writeBits(a.count-s, s, uint32(u))
}

// Permute reorders bits into dst according to a permutation table: for
// each destination index k, dst bit k is set to source bit table[k]. The
// destination length is independent of the source length, so the same
// primitive serves expansion and compression permutations. Trailing bits
// of dst beyond its count are zero after the call. An out-of-range table
// index is a programming error and panics.
func (a *BitArray) Permute(dst *BitArray, table []uint32) *BitArray {
	if len(table) < dst.count {
		panic(fmt.Sprintf("bitarray: permutation table holds %d entries, destination wants %d", len(table), dst.count))
	}
	for i := range dst.data {
		dst.data[i] = 0
	}
	for k := 0; k < dst.count; k++ {
		r := int(table[k])
		if r < 0 || r >= a.count {
			panic(fmt.Sprintf("bitarray: permutation index %d out of range for %d-bit source", r, a.count))
		}
		if a.Bit(r) != 0 {
			dst.data[k>>3] |= 1 << ((k ^ 7) & 7)
		}
	}
	return dst
}
