// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package bitarray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBit(t *testing.T) {
	a := fromBits(t, "100101")
	want := []byte{1, 0, 0, 1, 0, 1}
	for i, w := range want {
		require.Equal(t, w, a.Bit(i))
	}
	require.Panics(t, func() { a.Bit(6) })
	require.Panics(t, func() { a.Bit(-1) })
}

func TestUint32(t *testing.T) {
	a, err := FromBytes(nil, []byte{0xAB, 0xCD, 0xEF}, 24)
	require.NoError(t, err)

	require.Equal(t, uint32(0xAB), a.Uint32(0, 8))
	require.Equal(t, uint32(0xBC), a.Uint32(4, 12))
	require.Equal(t, uint32(0xABCDEF), a.Uint32(0, 24))
	require.Equal(t, uint32(0x3), a.Uint32(5, 8))
	require.Equal(t, uint32(0), a.Uint32(8, 8))

	require.Panics(t, func() { a.Uint32(0, 25) })
}

func TestXorInvolution(t *testing.T) {
	a, err := FromBytes(nil, []byte{0x01, 0x23, 0x45, 0x67, 0x89}, 40)
	require.NoError(t, err)
	b, err := FromBytes(nil, []byte{0xFE, 0xDC, 0xBA, 0x98, 0x76}, 40)
	require.NoError(t, err)

	x, err := a.Xor(b)
	require.NoError(t, err)
	require.False(t, x.Equal(a))

	x.XorAssign(b)
	require.True(t, x.Equal(a))
}

func TestXorMismatchedCounts(t *testing.T) {
	a, err := FromBytes(nil, []byte{0x11, 0x22, 0x33}, 24)
	require.NoError(t, err)
	b, err := FromBytes(nil, []byte{0xFF}, 8)
	require.NoError(t, err)

	// Only the shorter operand's capacity is touched
	a.XorAssign(b)
	require.Equal(t, []byte{0xEE, 0x22, 0x33}, a.Bytes())
}

func TestRotateLeftKnown(t *testing.T) {
	a := fromBits(t, "10000001")
	a.RotateLeft(1)
	require.Equal(t, "00000011", bitString(a))

	b := fromBits(t, "101010111100")
	b.RotateLeft(4)
	require.Equal(t, "101111001010", bitString(b))
	require.Equal(t, []byte{0xBC, 0xA0}, b.Bytes())
}

func TestRotateLeftIdentity(t *testing.T) {
	a := fromBits(t, "1011001110001111001")
	b, err := a.Clone()
	require.NoError(t, err)

	a.RotateLeft(0)
	require.True(t, a.Equal(b))
	a.RotateLeft(a.Count())
	require.True(t, a.Equal(b))
}

func TestRotateLeftComposition(t *testing.T) {
	patterns := []string{
		"1011010011010111100110100101",            // 28 bits, the key-schedule width
		"10110",                                   // shorter than a byte
		"1100110010110100101011110001101000011111", // 40 bits
	}
	for _, p := range patterns {
		count := len(p)
		for _, mn := range [][2]int{{1, 2}, {3, 3}, {7, 1}, {9, 5}, {8, 8}, {13, 21}} {
			m, n := mn[0]%count, mn[1]%count
			x := fromBits(t, p)
			y := fromBits(t, p)

			x.RotateLeft(m)
			x.RotateLeft(n)
			y.RotateLeft((m + n) % count)
			require.True(t, x.Equal(y), "count=%d m=%d n=%d", count, m, n)
		}
	}
}

func TestRotateLeftMultiByteShift(t *testing.T) {
	// Shifts wider than 8 bits span multiple bytes in one call
	p := "1011010011010111100110100101"
	x := fromBits(t, p)
	x.RotateLeft(19)
	require.Equal(t, p[19:]+p[:19], bitString(x))
}

func TestRotateLeftPadBitsDoNotLeak(t *testing.T) {
	// 28 logical bits in 4 bytes; the 4 trailing pad bits must stay out
	// of the rotated result
	a, err := FromBytes(nil, []byte{0xFF, 0xFF, 0xFF, 0xF0}, 28)
	require.NoError(t, err)
	a.RotateLeft(2)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xF0}, a.Bytes())

	b, err := FromBytes(nil, []byte{0x80, 0x00, 0x00, 0x00}, 28)
	require.NoError(t, err)
	b.RotateLeft(1)
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x10}, b.Bytes())
}

func TestPermuteInverse(t *testing.T) {
	reverse := make([]uint32, 16)
	for i := range reverse {
		reverse[i] = uint32(15 - i)
	}

	a, err := FromBytes(nil, []byte{0x3C, 0x5A}, 16)
	require.NoError(t, err)
	u, err := New(nil, 16)
	require.NoError(t, err)
	v, err := New(nil, 16)
	require.NoError(t, err)

	a.Permute(u, reverse)
	u.Permute(v, reverse)
	require.True(t, a.Equal(v))
}

func TestPermuteExpansionAndCompression(t *testing.T) {
	a := fromBits(t, "10")

	// Duplicated indices expand the source
	wide, err := New(nil, 4)
	require.NoError(t, err)
	a.Permute(wide, []uint32{0, 0, 1, 1})
	require.Equal(t, "1100", bitString(wide))

	// Omitted indices compress it
	narrow, err := New(nil, 1)
	require.NoError(t, err)
	a.Permute(narrow, []uint32{1})
	require.Equal(t, "0", bitString(narrow))
}

func TestPermuteZeroesDestinationTail(t *testing.T) {
	a := fromBits(t, "1111")
	dst := fromBits(t, "111")
	dst.data[0] = 0xFF

	a.Permute(dst, []uint32{3, 2, 1})
	require.Equal(t, byte(0xE0), dst.Bytes()[0])
}

func TestPermuteBadIndexPanics(t *testing.T) {
	a := fromBits(t, "1010")
	dst, err := New(nil, 2)
	require.NoError(t, err)

	require.Panics(t, func() { a.Permute(dst, []uint32{0, 4}) })
	require.Panics(t, func() { a.Permute(dst, []uint32{0}) })
}
