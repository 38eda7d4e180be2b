package utils

import (
	"crypto/rand"
	"math/big"
)

const randAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandSeq returns n random alphanumeric characters (handshake keys).
func RandSeq(n int) string {
	b := make([]byte, n)
	maxIdx := big.NewInt(int64(len(randAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, maxIdx)
		if err != nil {
			b[i] = randAlphabet[0]
			continue
		}
		b[i] = randAlphabet[idx.Int64()]
	}
	return string(b)
}
