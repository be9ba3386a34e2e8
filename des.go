// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package feistel

import (
	"github.com/complex-gh/feistel_go/bitarray"
)

const (
	// DESBlockSize is the DES block length in bytes
	DESBlockSize = 8

	// DESKeySize is the DES master key length in bytes
	DESKeySize = 8

	// DESRounds is the number of DES rounds
	DESRounds = 16
)

// All tables below use 0-based bit indices counted MSB-first from the
// start of their source buffer.

// desIP is the initial permutation
var desIP = []uint32{
	57, 49, 41, 33, 25, 17, 9, 1, 59, 51, 43, 35, 27, 19, 11, 3,
	61, 53, 45, 37, 29, 21, 13, 5, 63, 55, 47, 39, 31, 23, 15, 7,
	56, 48, 40, 32, 24, 16, 8, 0, 58, 50, 42, 34, 26, 18, 10, 2,
	60, 52, 44, 36, 28, 20, 12, 4, 62, 54, 46, 38, 30, 22, 14, 6,
}

// desFP is the final permutation, the inverse of desIP
var desFP = []uint32{
	39, 7, 47, 15, 55, 23, 63, 31, 38, 6, 46, 14, 54, 22, 62, 30,
	37, 5, 45, 13, 53, 21, 61, 29, 36, 4, 44, 12, 52, 20, 60, 28,
	35, 3, 43, 11, 51, 19, 59, 27, 34, 2, 42, 10, 50, 18, 58, 26,
	33, 1, 41, 9, 49, 17, 57, 25, 32, 0, 40, 8, 48, 16, 56, 24,
}

// desExpansion widens the 32-bit right half to 48 bits
var desExpansion = []uint32{
	31, 0, 1, 2, 3, 4,
	3, 4, 5, 6, 7, 8,
	7, 8, 9, 10, 11, 12,
	11, 12, 13, 14, 15, 16,
	15, 16, 17, 18, 19, 20,
	19, 20, 21, 22, 23, 24,
	23, 24, 25, 26, 27, 28,
	27, 28, 29, 30, 31, 0,
}

// desRoundPerm mixes the substituted 32-bit half
var desRoundPerm = []uint32{
	15, 6, 19, 20,
	28, 11, 27, 16,
	0, 14, 22, 25,
	4, 17, 30, 9,
	1, 7, 23, 13,
	31, 26, 2, 8,
	18, 12, 29, 5,
	21, 10, 3, 24,
}

// desKeyPermC selects the C half of the key schedule (PC-1, first 28 bits)
var desKeyPermC = []uint32{
	56, 48, 40, 32, 24, 16, 8, 0,
	57, 49, 41, 33, 25, 17, 9, 1,
	58, 50, 42, 34, 26, 18, 10, 2,
	59, 51, 43, 35,
}

// desKeyPermD selects the D half of the key schedule (PC-1, last 28 bits)
var desKeyPermD = []uint32{
	62, 54, 46, 38, 30, 22, 14, 6,
	61, 53, 45, 37, 29, 21, 13, 5,
	60, 52, 44, 36, 28, 20, 12, 4,
	27, 19, 11, 3,
}

// desRoundKeyPerm compresses the merged 56-bit halves into a 48-bit
// subkey (PC-2)
var desRoundKeyPerm = []uint32{
	13, 16, 10, 23, 0, 4, 2, 27, 14, 5, 20, 9,
	22, 18, 11, 3, 25, 7, 15, 6, 26, 19, 12, 1,
	40, 51, 30, 36, 46, 54, 29, 39, 50, 44, 32, 47,
	43, 48, 38, 55, 33, 52, 45, 41, 49, 35, 28, 31,
}

// desShifts is the per-round rotation of each key half
var desShifts = []int{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}

// desSBoxes are the eight 6-in/4-out boxes in flat form: the index is the
// raw 6-bit group value, with the row/column selection folded in.
var desSBoxes = []*bitarray.SBox{
	bitarray.MustSBox(6, 4, []uint32{
		14, 0, 4, 15, 13, 7, 1, 4, 2, 14, 15, 2, 11, 13, 8, 1,
		3, 10, 10, 6, 6, 12, 12, 11, 5, 9, 9, 5, 0, 3, 7, 8,
		4, 15, 1, 12, 14, 8, 8, 2, 13, 4, 6, 9, 2, 1, 11, 7,
		15, 5, 12, 11, 9, 3, 7, 14, 3, 10, 10, 0, 5, 6, 0, 13,
	}),
	bitarray.MustSBox(6, 4, []uint32{
		15, 3, 1, 13, 8, 4, 14, 7, 6, 15, 11, 2, 3, 8, 4, 14,
		9, 12, 7, 0, 2, 1, 13, 10, 12, 6, 0, 9, 5, 11, 10, 5,
		0, 13, 14, 8, 7, 10, 11, 1, 10, 3, 4, 15, 13, 4, 1, 2,
		5, 11, 8, 6, 12, 7, 6, 12, 9, 0, 3, 5, 2, 14, 15, 9,
	}),
	bitarray.MustSBox(6, 4, []uint32{
		10, 13, 0, 7, 9, 0, 14, 9, 6, 3, 3, 4, 15, 6, 5, 10,
		1, 2, 13, 8, 12, 5, 7, 14, 11, 12, 4, 11, 2, 15, 8, 1,
		13, 1, 6, 10, 4, 13, 9, 0, 8, 6, 15, 9, 3, 8, 0, 7,
		11, 4, 1, 15, 2, 14, 12, 3, 5, 11, 10, 5, 14, 2, 7, 12,
	}),
	bitarray.MustSBox(6, 4, []uint32{
		7, 13, 13, 8, 14, 11, 3, 5, 0, 6, 6, 15, 9, 0, 10, 3,
		1, 4, 2, 7, 8, 2, 5, 12, 11, 1, 12, 10, 4, 14, 15, 9,
		10, 3, 6, 15, 9, 0, 0, 6, 12, 10, 11, 1, 7, 13, 13, 8,
		15, 9, 1, 4, 3, 5, 14, 11, 5, 12, 2, 7, 8, 2, 4, 14,
	}),
	bitarray.MustSBox(6, 4, []uint32{
		2, 14, 12, 11, 4, 2, 1, 12, 7, 4, 10, 7, 11, 13, 6, 1,
		8, 5, 5, 0, 3, 15, 15, 10, 13, 3, 0, 9, 14, 8, 9, 6,
		4, 11, 2, 8, 1, 12, 11, 7, 10, 1, 13, 14, 7, 2, 8, 13,
		15, 6, 9, 15, 12, 0, 5, 9, 6, 10, 3, 4, 0, 5, 14, 3,
	}),
	bitarray.MustSBox(6, 4, []uint32{
		12, 10, 1, 15, 10, 4, 15, 2, 9, 7, 2, 12, 6, 9, 8, 5,
		0, 6, 13, 1, 3, 13, 4, 14, 14, 0, 7, 11, 5, 3, 11, 8,
		9, 4, 14, 3, 15, 2, 5, 12, 2, 9, 8, 5, 12, 15, 3, 10,
		7, 11, 0, 14, 4, 1, 10, 7, 1, 6, 13, 0, 11, 8, 6, 13,
	}),
	bitarray.MustSBox(6, 4, []uint32{
		4, 13, 11, 0, 2, 11, 14, 7, 15, 4, 0, 9, 8, 1, 13, 10,
		3, 14, 12, 3, 9, 5, 7, 12, 5, 2, 10, 15, 6, 8, 1, 6,
		1, 6, 4, 11, 11, 13, 13, 8, 12, 1, 3, 4, 7, 10, 14, 7,
		10, 9, 15, 5, 6, 0, 8, 15, 0, 14, 5, 2, 9, 3, 2, 12,
	}),
	bitarray.MustSBox(6, 4, []uint32{
		13, 1, 2, 15, 8, 13, 4, 8, 6, 10, 15, 3, 11, 7, 1, 4,
		10, 12, 9, 5, 3, 6, 14, 11, 5, 0, 0, 14, 12, 9, 7, 2,
		7, 2, 11, 1, 4, 14, 1, 7, 9, 4, 12, 10, 14, 8, 2, 13,
		0, 15, 6, 12, 10, 9, 13, 0, 15, 3, 3, 5, 5, 6, 8, 11,
	}),
}

// DES returns the DES parameter set. The returned value may be shared;
// callers must not mutate the tables.
func DES() *Params {
	return &Params{
		BlockBits:    DESBlockSize * 8,
		KeyBits:      DESKeySize * 8,
		Rounds:       DESRounds,
		InitialPerm:  desIP,
		FinalPerm:    desFP,
		KeyPermC:     desKeyPermC,
		KeyPermD:     desKeyPermD,
		Shifts:       desShifts,
		RoundKeyPerm: desRoundKeyPerm,
		Expansion:    desExpansion,
		SBoxes:       desSBoxes,
		RoundPerm:    desRoundPerm,
	}
}

// NewDES returns a DES cipher for an 8-byte master key
func NewDES(key []byte) (*Cipher, error) {
	return New(DES(), key)
}
