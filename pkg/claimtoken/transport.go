package claimtoken

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxTokenLength bounds the token text accepted by FromToken.
const MaxTokenLength = 1024

const separator = "."

// ToToken frames payload and signature as base64url(payload).base64url(sig), unpadded.
func ToToken(payload, sig []byte) string {
	return base64.RawURLEncoding.EncodeToString(payload) + separator + base64.RawURLEncoding.EncodeToString(sig)
}

// FromToken splits a token into its raw payload and signature.
// It checks structure only; use Verify or DecodeAndVerify to authenticate.
func FromToken(token string) (payload, sig []byte, err error) {
	if len(token) > MaxTokenLength {
		return nil, nil, malformedToken("token is %d bytes", len(token))
	}
	if n := strings.Count(token, separator); n != 1 {
		return nil, nil, malformedToken("expected one separator, found %d", n)
	}

	encPayload, encSig, _ := strings.Cut(token, separator)
	if encPayload == "" || encSig == "" {
		return nil, nil, malformedToken("empty segment")
	}

	if payload, err = decodeSegment(encPayload); err != nil {
		return nil, nil, malformedToken("payload: %v", err)
	}
	if sig, err = decodeSegment(encSig); err != nil {
		return nil, nil, malformedToken("signature: %v", err)
	}
	return payload, sig, nil
}

// segmentEncoding rejects non-zero trailing bits so each payload has one text form.
var segmentEncoding = base64.RawURLEncoding.Strict()

// decodeSegment accepts base64url with or without trailing padding.
func decodeSegment(s string) ([]byte, error) {
	s = strings.TrimRight(s, "=")
	for i := 0; i < len(s); i++ {
		if !isURLAlphabet(s[i]) {
			return nil, fmt.Errorf("illegal base64url byte at offset %d", i)
		}
	}
	return segmentEncoding.DecodeString(s)
}

func isURLAlphabet(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func malformedToken(format string, args ...any) error {
	return invalid(fmt.Errorf("%w: %s", ErrMalformedToken, fmt.Sprintf(format, args...)))
}
