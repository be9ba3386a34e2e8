// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package bitarray

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// identitySBox maps every width-bit group to itself
func identitySBox(t *testing.T, width int) *SBox {
	t.Helper()
	entries := make([]uint32, 1<<width)
	for i := range entries {
		entries[i] = uint32(i)
	}
	s, err := NewSBox(width, width, entries)
	require.NoError(t, err)
	return s
}

func TestNewSBoxValidation(t *testing.T) {
	_, err := NewSBox(0, 4, nil)
	require.Error(t, err)
	_, err = NewSBox(17, 4, make([]uint32, 1<<17))
	require.Error(t, err)
	_, err = NewSBox(4, 0, make([]uint32, 16))
	require.Error(t, err)
	_, err = NewSBox(4, 9, make([]uint32, 16))
	require.Error(t, err)

	// Wrong entry count
	_, err = NewSBox(6, 4, make([]uint32, 32))
	require.Error(t, err)

	// Entry wider than the output
	bad := make([]uint32, 16)
	bad[7] = 16
	_, err = NewSBox(4, 4, bad)
	require.Error(t, err)

	require.Panics(t, func() { MustSBox(6, 4, nil) })
}

func TestSubstituteIdentity(t *testing.T) {
	a, err := FromBytes(nil, []byte{0xAB, 0xCD}, 16)
	require.NoError(t, err)
	dst, err := New(nil, 16)
	require.NoError(t, err)

	a.Substitute(dst, []*SBox{identitySBox(t, 4)})
	require.True(t, a.Equal(dst))
}

func TestSubstituteDeterminism(t *testing.T) {
	box := MustSBox(6, 4, desLikeEntries())
	a, err := FromBytes(nil, []byte{0x13, 0x57, 0x9B, 0xDF, 0x02, 0x46}, 48)
	require.NoError(t, err)
	d1, err := New(nil, 32)
	require.NoError(t, err)
	d2, err := New(nil, 32)
	require.NoError(t, err)

	a.Substitute(d1, []*SBox{box})
	a.Substitute(d2, []*SBox{box})
	require.True(t, d1.Equal(d2))
}

// desLikeEntries returns a 64-entry table of 4-bit values
func desLikeEntries() []uint32 {
	entries := make([]uint32, 64)
	for i := range entries {
		entries[i] = uint32((i*7 + 3) & 0xF)
	}
	return entries
}

func TestSubstituteCycling(t *testing.T) {
	id := identitySBox(t, 4)
	flip := make([]uint32, 16)
	for i := range flip {
		flip[i] = uint32(15 - i)
	}
	comp := MustSBox(4, 4, flip)

	a, err := FromBytes(nil, []byte{0x12, 0x34}, 16)
	require.NoError(t, err)
	dst, err := New(nil, 16)
	require.NoError(t, err)

	// Groups 1, 2, 3, 4 through id, comp, id, comp
	a.Substitute(dst, []*SBox{id, comp})
	require.Equal(t, []byte{0x1D, 0x3B}, dst.Bytes())
}

func TestSubstituteStraddlingWidths(t *testing.T) {
	// 6-bit groups straddle source bytes; entries keep the group's top
	// four bits so the result is easy to state
	entries := make([]uint32, 64)
	for i := range entries {
		entries[i] = uint32(i >> 2)
	}
	box := MustSBox(6, 4, entries)

	a := fromBits(t, "101010111100")
	dst, err := New(nil, 8)
	require.NoError(t, err)

	a.Substitute(dst, []*SBox{box})
	require.Equal(t, []byte{0xAF}, dst.Bytes())
}

func TestSubstituteStopsAtDestination(t *testing.T) {
	a, err := FromBytes(nil, []byte{0xAB, 0xCD}, 16)
	require.NoError(t, err)
	dst, err := New(nil, 6)
	require.NoError(t, err)

	// Only the first six output bits are produced: 0xA then the top
	// half of 0xB
	a.Substitute(dst, []*SBox{identitySBox(t, 4)})
	require.Equal(t, "101010", bitString(dst))
}

func TestSubstituteShortSourceLeavesTailZero(t *testing.T) {
	a := fromBits(t, "10101")
	dst, err := New(nil, 8)
	require.NoError(t, err)

	// One full 4-bit group, the trailing bit is never consumed
	a.Substitute(dst, []*SBox{identitySBox(t, 4)})
	require.Equal(t, "10100000", bitString(dst))
}

func TestSubstituteMixedWidthsPanics(t *testing.T) {
	a := fromBits(t, "10101010")
	dst, err := New(nil, 8)
	require.NoError(t, err)

	require.Panics(t, func() {
		a.Substitute(dst, []*SBox{identitySBox(t, 4), identitySBox(t, 2)})
	})
	require.Panics(t, func() { a.Substitute(dst, nil) })
}
