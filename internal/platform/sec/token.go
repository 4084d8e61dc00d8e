// Copyright (c) 2026 MerchantDesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// RandomString returns n characters drawn uniformly from the base62 alphabet
// using the OS CSPRNG.
func RandomString(n int) (string, error) {
	alphabetSize := big.NewInt(int64(len(base62Alphabet)))
	out := make([]byte, n)

	for i := range out {
		index, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("sec: random source failed: %w", err)
		}
		out[i] = base62Alphabet[index.Int64()]
	}

	return string(out), nil
}
