package main

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/complex-gh/feistel_go"
)

func main() {
	// Derive an odd-parity DES key from a passphrase
	key := feistel.KeyFromPassphrase("correct horse battery staple", []byte("example"), feistel.DESKeySize)
	feistel.SetOddParity(key)
	fmt.Printf("key:        %s\n", hex.EncodeToString(key))

	cipher, err := feistel.NewDES(key)
	if err != nil {
		panic(err)
	}

	plaintext := []byte("Go DES!!")
	ciphertext := make([]byte, feistel.DESBlockSize)
	if err := cipher.EncryptBlock(ciphertext, plaintext); err != nil {
		panic(err)
	}
	fmt.Printf("plaintext:  %s\n", hex.EncodeToString(plaintext))
	fmt.Printf("ciphertext: %s\n", hex.EncodeToString(ciphertext))

	recovered := make([]byte, feistel.DESBlockSize)
	if err := cipher.DecryptBlock(recovered, ciphertext); err != nil {
		panic(err)
	}
	fmt.Printf("recovered:  %s\n", hex.EncodeToString(recovered))

	// Throughput loop over a single block
	const blocks = 1 << 18
	start := time.Now()
	for i := 0; i < blocks; i++ {
		if err := cipher.EncryptBlock(ciphertext, plaintext); err != nil {
			panic(err)
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("%d blocks in %v (%.2f us/block)\n",
		blocks, elapsed, float64(elapsed.Microseconds())/blocks)
}
