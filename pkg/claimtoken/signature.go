package claimtoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
)

// SignatureSize is the number of HMAC-SHA256 bytes kept in a token.
// It is part of the wire format and must not change.
const SignatureSize = 16

// Sign returns the truncated HMAC-SHA256 of payload under key.
func Sign(payload, key []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(payload)
	return h.Sum(nil)[:SignatureSize]
}

// Verify reports whether sig is the signature of payload under key.
// A signature of the wrong length is simply not valid.
func Verify(payload, sig, key []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}
	return subtle.ConstantTimeCompare(Sign(payload, key), sig) == 1
}
