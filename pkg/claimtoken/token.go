package claimtoken

import "errors"

// Issue encodes and signs the record and returns the transport token.
func Issue(r ClaimRecord, key []byte) (string, error) {
	if len(key) == 0 {
		return "", ErrMissingKey
	}
	if err := r.Validate(); err != nil {
		return "", err
	}
	payload, err := Encode(r)
	if err != nil {
		return "", err
	}
	return ToToken(payload, Sign(payload, key)), nil
}

// DecodeAndVerify authenticates a token and returns the record it carries.
// The payload is not parsed until the signature has been checked.
// Any rejection matches ErrInvalidToken.
func DecodeAndVerify(token string, key []byte) (ClaimRecord, error) {
	if len(key) == 0 {
		return ClaimRecord{}, ErrMissingKey
	}

	payload, sig, err := FromToken(token)
	if err != nil {
		return ClaimRecord{}, err
	}
	if !Verify(payload, sig, key) {
		return ClaimRecord{}, invalid(ErrInvalidSignature)
	}

	rec, err := Decode(payload)
	if err != nil {
		return ClaimRecord{}, err
	}
	if err := rec.Validate(); err != nil {
		return ClaimRecord{}, errors.Join(ErrInvalidToken, err)
	}
	return rec, nil
}
