package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns the hex HMAC-SHA256 of message keyed by secret.
func ComputeSignature(secret string, message []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(message)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature compares signature against the expected HMAC in constant time.
func VerifySignature(secret string, message []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := ComputeSignature(secret, message)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// PaymentSignatureMessage is the byte string the checkout callback is signed over.
func PaymentSignatureMessage(providerOrderID, providerPaymentID string) []byte {
	return []byte(providerOrderID + "|" + providerPaymentID)
}
