package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignPayload(t *testing.T) {
	// RFC 4231 test case 2
	sig := SignPayload([]byte("what do ya want for nothing?"), "Jefe")
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", sig)
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"overdraft_risk"}`)
	sig := SignPayload(body, "secret")

	assert.True(t, VerifySignature(body, sig, "secret"))
	assert.False(t, VerifySignature(body, sig, "other"))
	assert.False(t, VerifySignature([]byte(`{}`), sig, "secret"))
	assert.False(t, VerifySignature(body, "not-hex", "secret"))
}
