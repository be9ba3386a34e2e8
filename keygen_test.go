// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package feistel

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyFromPassphraseDeterministic(t *testing.T) {
	salt := []byte("unit test")
	k1 := KeyFromPassphrase("open sesame", salt, DESKeySize)
	k2 := KeyFromPassphrase("open sesame", salt, DESKeySize)
	require.Len(t, k1, DESKeySize)
	require.Equal(t, k1, k2)

	k3 := KeyFromPassphrase("open sesame", []byte("other salt"), DESKeySize)
	require.NotEqual(t, k1, k3)

	k4 := KeyFromPassphrase("open sesame!", salt, DESKeySize)
	require.NotEqual(t, k1, k4)
}

func TestKeyFromPassphraseNormalizes(t *testing.T) {
	salt := []byte("unit test")

	// U+FB01 (the fi ligature) decomposes to "fi" under NFKD
	k1 := KeyFromPassphrase("ﬁsh", salt, DESKeySize)
	k2 := KeyFromPassphrase("fish", salt, DESKeySize)
	require.Equal(t, k1, k2)
}

func TestSetOddParity(t *testing.T) {
	key := []byte{0x00, 0x01, 0xFE, 0xFF, 0x12, 0x34, 0x56, 0x78}
	SetOddParity(key)
	for i, b := range key {
		require.Equal(t, 1, bits.OnesCount8(b)%2, "byte %d = %#x", i, b)
	}

	// Already odd-parity bytes are unchanged
	fixed := append([]byte(nil), key...)
	SetOddParity(fixed)
	require.Equal(t, key, fixed)
}

func TestDerivedKeyEncrypts(t *testing.T) {
	key := KeyFromPassphrase("correct horse battery staple", []byte("unit test"), DESKeySize)
	SetOddParity(key)

	c, err := NewDES(key)
	require.NoError(t, err)

	ct := make([]byte, DESBlockSize)
	pt := make([]byte, DESBlockSize)
	require.NoError(t, c.EncryptBlock(ct, desTestPlaintext))
	require.NotEqual(t, desTestPlaintext, ct)
	require.NoError(t, c.DecryptBlock(pt, ct))
	require.Equal(t, desTestPlaintext, pt)
}
