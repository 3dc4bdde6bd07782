package claimtoken

import "errors"

var (
	// ErrInvalidToken is the generic class every rejected token matches.
	ErrInvalidToken = errors.New("invalid claim token")

	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("signature mismatch")
	ErrMissingField     = errors.New("missing required field")
	ErrMalformedField   = errors.New("malformed field")
	ErrInvalidRecord    = errors.New("invalid claim record")

	// ErrMissingKey is a configuration error: no secret key was supplied.
	ErrMissingKey = errors.New("claim signing key is empty")

	// ErrFieldTooLong is returned by Encode and Validate when a text field exceeds MaxTextLength bytes.
	ErrFieldTooLong = errors.New("field exceeds maximum encodable length")
)

func invalid(cause error) error {
	return errors.Join(ErrInvalidToken, cause)
}
