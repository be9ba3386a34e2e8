// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package feistel implements a generic Feistel block-cipher engine on top
// of the bitarray package, instantiated here as DES.
//
// The engine is table-driven: a Params value supplies the permutation
// tables, substitution boxes and per-round shifts, and the engine derives
// the round-key schedule and executes the round loop. DES serves as the
// reference protocol; this is not a hardened cryptographic library (no
// constant-time guarantees, no authenticated modes).
package feistel

import (
	"fmt"

	"github.com/complex-gh/feistel_go/bitarray"
)

// Params describes a Feistel network. All tables use 0-based bit indices
// in MSB-first order and are treated as immutable after cipher
// construction.
type Params struct {
	// BlockBits is the cipher block width; must be a positive multiple of 8
	BlockBits int

	// KeyBits is the master key width
	KeyBits int

	// Rounds is the number of Feistel rounds
	Rounds int

	// InitialPerm reorders the input block before the rounds
	InitialPerm []uint32

	// FinalPerm reorders the pre-output block; the inverse of InitialPerm
	FinalPerm []uint32

	// KeyPermC and KeyPermD compress the master key into the two
	// rotating key-schedule halves
	KeyPermC []uint32
	KeyPermD []uint32

	// Shifts holds the per-round left-rotation of each key half
	Shifts []int

	// RoundKeyPerm compresses the merged halves into a round subkey
	RoundKeyPerm []uint32

	// Expansion widens the right half to the subkey width
	Expansion []uint32

	// SBoxes are cycled in order across the expanded half's groups
	SBoxes []*bitarray.SBox

	// RoundPerm reorders the substituted half
	RoundPerm []uint32

	// Allocator backs every buffer the cipher creates; nil selects the
	// default heap allocator
	Allocator bitarray.Allocator
}

// checkTable verifies a permutation table's length and index range
func checkTable(name string, table []uint32, length, sourceBits int) error {
	if len(table) != length {
		return fmt.Errorf("feistel: %w: %s holds %d entries, want %d", StatusErrParams, name, len(table), length)
	}
	for i, r := range table {
		if int(r) >= sourceBits {
			return fmt.Errorf("feistel: %w: %s entry %d = %d exceeds %d-bit source", StatusErrParams, name, i, r, sourceBits)
		}
	}
	return nil
}

// validate checks the parameter set once, before any rounds run.
// Malformed tables are caller programming errors surfaced here rather
// than at round time.
func (p *Params) validate() error {
	if p.BlockBits <= 0 || p.BlockBits%8 != 0 {
		return fmt.Errorf("feistel: %w: block width %d is not a positive multiple of 8", StatusErrParams, p.BlockBits)
	}
	if p.KeyBits <= 0 {
		return fmt.Errorf("feistel: %w: key width %d", StatusErrParams, p.KeyBits)
	}
	if p.Rounds <= 0 {
		return fmt.Errorf("feistel: %w: round count %d", StatusErrParams, p.Rounds)
	}
	if len(p.Shifts) != p.Rounds {
		return fmt.Errorf("feistel: %w: %d shifts for %d rounds", StatusErrParams, len(p.Shifts), p.Rounds)
	}

	half := p.BlockBits / 2
	subkeyBits := len(p.RoundKeyPerm)
	mergedBits := len(p.KeyPermC) + len(p.KeyPermD)

	if err := checkTable("initial permutation", p.InitialPerm, p.BlockBits, p.BlockBits); err != nil {
		return err
	}
	if err := checkTable("final permutation", p.FinalPerm, p.BlockBits, p.BlockBits); err != nil {
		return err
	}
	if err := checkTable("key permutation C", p.KeyPermC, len(p.KeyPermC), p.KeyBits); err != nil {
		return err
	}
	if err := checkTable("key permutation D", p.KeyPermD, len(p.KeyPermD), p.KeyBits); err != nil {
		return err
	}
	if err := checkTable("round key permutation", p.RoundKeyPerm, subkeyBits, mergedBits); err != nil {
		return err
	}
	if err := checkTable("expansion permutation", p.Expansion, subkeyBits, half); err != nil {
		return err
	}
	if err := checkTable("round permutation", p.RoundPerm, half, half); err != nil {
		return err
	}

	if len(p.SBoxes) == 0 {
		return fmt.Errorf("feistel: %w: no substitution boxes", StatusErrParams)
	}
	in, out := p.SBoxes[0].InBits(), p.SBoxes[0].OutBits()
	for i, s := range p.SBoxes {
		if s == nil {
			return fmt.Errorf("feistel: %w: substitution box %d is nil", StatusErrParams, i)
		}
		if s.InBits() != in || s.OutBits() != out {
			return fmt.Errorf("feistel: %w: substitution box %d has widths %d/%d, want %d/%d",
				StatusErrParams, i, s.InBits(), s.OutBits(), in, out)
		}
	}
	if subkeyBits%in != 0 || (subkeyBits/in)*out != half {
		return fmt.Errorf("feistel: %w: substitution maps %d bits to %d, want %d to %d",
			StatusErrParams, subkeyBits, (subkeyBits/in)*out, subkeyBits, half)
	}

	return nil
}

// Cipher executes a Feistel network over fixed-width blocks. The round-key
// schedule is computed once at construction and shared read-only between
// clones; the scratch buffers are per-instance, so a Cipher must not be
// used from multiple goroutines. Use Clone for parallel workers.
type Cipher struct {
	p    *Params
	keys []*bitarray.BitArray

	// Per-block scratch, reused across calls
	in, out, pre  *bitarray.BitArray
	l, r, u, v, e *bitarray.BitArray
}

// New builds a cipher from a parameter set and a master key, deriving the
// full round-key schedule.
func New(p *Params, key []byte) (*Cipher, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if len(key) != (p.KeyBits+7)/8 {
		return nil, fmt.Errorf("feistel: %w: got %d bytes, want %d bits", StatusErrKeySize, len(key), p.KeyBits)
	}

	c := &Cipher{p: p}

	var err error
	mk := func(bits int) *bitarray.BitArray {
		if err != nil {
			return nil
		}
		var b *bitarray.BitArray
		b, err = bitarray.New(p.Allocator, bits)
		return b
	}

	half := p.BlockBits / 2
	subkeyBits := len(p.RoundKeyPerm)
	c.in = mk(p.BlockBits)
	c.out = mk(p.BlockBits)
	c.pre = mk(p.BlockBits)
	c.l = mk(half)
	c.r = mk(half)
	c.u = mk(half)
	c.v = mk(half)
	c.e = mk(subkeyBits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", StatusErrMemory, err)
	}

	if err := c.schedule(key); err != nil {
		return nil, err
	}
	return c, nil
}

// schedule derives the per-round subkeys from the master key: compress
// the key into two rotating halves, then per round rotate both by the
// shift table entry, merge and compress into the subkey.
func (c *Cipher) schedule(key []byte) error {
	p := c.p

	k0, err := bitarray.FromBytes(p.Allocator, key, p.KeyBits)
	if err != nil {
		return fmt.Errorf("%w: %v", StatusErrMemory, err)
	}
	defer k0.Free()

	ch, err := bitarray.New(p.Allocator, len(p.KeyPermC))
	if err != nil {
		return fmt.Errorf("%w: %v", StatusErrMemory, err)
	}
	defer ch.Free()
	dh, err := bitarray.New(p.Allocator, len(p.KeyPermD))
	if err != nil {
		return fmt.Errorf("%w: %v", StatusErrMemory, err)
	}
	defer dh.Free()
	cd, err := bitarray.New(p.Allocator, len(p.KeyPermC)+len(p.KeyPermD))
	if err != nil {
		return fmt.Errorf("%w: %v", StatusErrMemory, err)
	}
	defer cd.Free()

	k0.Permute(ch, p.KeyPermC)
	k0.Permute(dh, p.KeyPermD)

	c.keys = make([]*bitarray.BitArray, p.Rounds)
	for i := 0; i < p.Rounds; i++ {
		ch.RotateLeft(p.Shifts[i])
		dh.RotateLeft(p.Shifts[i])

		if err := cd.CopyFrom(ch); err != nil {
			return fmt.Errorf("%w: %v", StatusErrMemory, err)
		}
		if err := cd.Append(dh); err != nil {
			return fmt.Errorf("%w: %v", StatusErrMemory, err)
		}

		ki, err := bitarray.New(p.Allocator, len(p.RoundKeyPerm))
		if err != nil {
			return fmt.Errorf("%w: %v", StatusErrMemory, err)
		}
		cd.Permute(ki, p.RoundKeyPerm)
		c.keys[i] = ki
	}

	return nil
}

// Clone returns a cipher sharing the immutable round-key schedule and
// tables with fresh scratch buffers, for use on another goroutine.
func (c *Cipher) Clone() (*Cipher, error) {
	out := &Cipher{p: c.p, keys: c.keys}

	var err error
	mk := func(bits int) *bitarray.BitArray {
		if err != nil {
			return nil
		}
		var b *bitarray.BitArray
		b, err = bitarray.New(c.p.Allocator, bits)
		return b
	}

	half := c.p.BlockBits / 2
	out.in = mk(c.p.BlockBits)
	out.out = mk(c.p.BlockBits)
	out.pre = mk(c.p.BlockBits)
	out.l = mk(half)
	out.r = mk(half)
	out.u = mk(half)
	out.v = mk(half)
	out.e = mk(len(c.p.RoundKeyPerm))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", StatusErrMemory, err)
	}
	return out, nil
}

// BlockSize returns the block length in bytes
func (c *Cipher) BlockSize() int {
	return c.p.BlockBits / 8
}

// round computes v = roundPerm(substitute(expand(r) ^ key)) ^ l
func (c *Cipher) round(l, r, v *bitarray.BitArray, key *bitarray.BitArray) {
	r.Permute(c.e, c.p.Expansion).
		XorAssign(key).
		Substitute(c.u, c.p.SBoxes).
		Permute(v, c.p.RoundPerm).
		XorAssign(l)
}

// EncryptBlock encrypts one block from src into dst. Both must hold
// exactly BlockSize bytes; dst and src may overlap.
func (c *Cipher) EncryptBlock(dst, src []byte) error {
	return c.crypt(dst, src, func(i int) *bitarray.BitArray {
		return c.keys[i]
	})
}

// DecryptBlock decrypts one block from src into dst; the same network
// with the subkey order reversed.
func (c *Cipher) DecryptBlock(dst, src []byte) error {
	return c.crypt(dst, src, func(i int) *bitarray.BitArray {
		return c.keys[len(c.keys)-1-i]
	})
}

// crypt runs the full network over one block with the given subkey order
func (c *Cipher) crypt(dst, src []byte, keyAt func(i int) *bitarray.BitArray) error {
	n := c.BlockSize()
	if len(src) != n {
		return fmt.Errorf("feistel: %w: got %d source bytes, want %d", StatusErrBlockSize, len(src), n)
	}
	if len(dst) != n {
		return fmt.Errorf("feistel: %w: got %d destination bytes, want %d", StatusErrBlockSize, len(dst), n)
	}

	if err := c.in.SetBytes(src); err != nil {
		return err
	}
	c.in.Permute(c.out, c.p.InitialPerm)

	// Split into the two half-width working buffers
	half := c.p.BlockBits / 2
	l, r, v := c.l, c.r, c.v
	if err := c.out.CopyRange(l, 0, half); err != nil {
		return err
	}
	if err := c.out.CopyRange(r, half, c.p.BlockBits); err != nil {
		return err
	}

	for i := 0; i < c.p.Rounds-1; i++ {
		c.round(l, r, v, keyAt(i))
		l, r, v = r, v, l
	}

	// Final round omits the swap: the pre-output halves are
	// l ^ f(r, k) followed by r unchanged.
	c.round(l, r, v, keyAt(c.p.Rounds-1))
	if err := c.pre.CopyFrom(v); err != nil {
		return err
	}
	if err := c.pre.Append(r); err != nil {
		return err
	}

	c.pre.Permute(c.out, c.p.FinalPerm)
	copy(dst, c.out.Bytes()[:n])
	return nil
}
