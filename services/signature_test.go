package services

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSignatureKnownVector(t *testing.T) {
	// RFC 4231 test case 2.
	got := ComputeSignature("Jefe", []byte("what do ya want for nothing?"))
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", got)
}

func TestVerifySignature(t *testing.T) {
	msg := PaymentSignatureMessage("order_123", "pay_456")
	assert.Equal(t, "order_123|pay_456", string(msg))

	sig := ComputeSignature("secret", msg)
	assert.True(t, VerifySignature("secret", msg, sig))
	assert.False(t, VerifySignature("other", msg, sig))
	assert.False(t, VerifySignature("secret", PaymentSignatureMessage("order_123", "pay_457"), sig))
	assert.False(t, VerifySignature("secret", msg, ""))
	assert.False(t, VerifySignature("", msg, sig))
	assert.False(t, VerifySignature("secret", msg, sig[:len(sig)-2]))
}

func TestVerifySignatureRejectsEverySingleBitFlip(t *testing.T) {
	msg := PaymentSignatureMessage("order_123", "pay_456")
	raw, err := hex.DecodeString(ComputeSignature("secret", msg))
	require.NoError(t, err)

	for bit := 0; bit < len(raw)*8; bit++ {
		mutated := append([]byte(nil), raw...)
		mutated[bit/8] ^= 1 << uint(bit%8)
		assert.False(t, VerifySignature("secret", msg, hex.EncodeToString(mutated)), "bit %d", bit)
	}
}
