package internal

import (
	"crypto/rand"
	"math/big"
	"time"
)

const nonceAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomNonce produces alphanumeric nonces from crypto/rand.
type RandomNonce struct{}

func NewRandomNonce() *RandomNonce {
	return &RandomNonce{}
}

func (n *RandomNonce) RandomString(length int) string {
	if length <= 0 {
		length = 16
	}
	limit := big.NewInt(int64(len(nonceAlphabet)))
	result := make([]byte, length)
	for i := range result {
		index, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// Fallback to a clock-based character if random generation fails
			result[i] = nonceAlphabet[(time.Now().UnixNano()+int64(i))%int64(len(nonceAlphabet))]
			continue
		}
		result[i] = nonceAlphabet[index.Int64()]
	}
	return string(result)
}
