package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"event":"payment.updated","transaction":{"pk":"abc"}}`)
	secret := "webhook-secret"

	sig := GenerateSignature(payload, secret)
	assert.True(t, VerifySignature(payload, sig, secret))

	assert.False(t, VerifySignature(payload, sig, "other-secret"), "wrong secret must not verify")
	assert.False(t, VerifySignature([]byte("tampered"), sig, secret), "tampered payload must not verify")
	assert.False(t, VerifySignature(payload, "", secret), "empty signature must not verify")
}

func TestGenerateSignatureDeterministic(t *testing.T) {
	a := GenerateSignature([]byte("payload"), "key")
	b := GenerateSignature([]byte("payload"), "key")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}
