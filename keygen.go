// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package feistel

import (
	"crypto/sha256"
	"math/bits"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/text/unicode/norm"
)

const (
	kdfNumIterations = 10000

	kdfDomain = "FEISTEL key"
)

// utf8NFKD converts a UTF8 string to the decomposed canonical form (NFKD)
func utf8NFKD(str string) string {
	return norm.NFKD.String(str)
}

// KeyFromPassphrase derives a master key of the given size from a
// passphrase. The passphrase is canonically decomposed before hashing so
// that visually identical phrases derive the same key; the salt is domain
// separated from other uses of the passphrase.
func KeyFromPassphrase(passphrase string, salt []byte, size int) []byte {
	pass := []byte(utf8NFKD(passphrase))

	s := make([]byte, 0, len(kdfDomain)+2+len(salt))
	s = append(s, kdfDomain...)
	s = append(s, 0xFF, 0xFF)
	s = append(s, salt...)

	return pbkdf2.Key(pass, s, kdfNumIterations, size, sha256.New)
}

// SetOddParity adjusts the least significant bit of every key byte so the
// byte has odd parity, as DES key material conventionally carries.
func SetOddParity(key []byte) {
	for i, b := range key {
		if bits.OnesCount8(b)%2 == 0 {
			key[i] ^= 1
		}
	}
}
