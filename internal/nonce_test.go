package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomNonce(t *testing.T) {
	nonce := NewRandomNonce()

	value := nonce.RandomString(32)
	assert.Len(t, value, 32)
	assert.Regexp(t, "^[a-zA-Z0-9]+$", value)
	assert.NotEqual(t, value, nonce.RandomString(32))
	assert.Len(t, nonce.RandomString(0), 16)
}
