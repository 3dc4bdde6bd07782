// Package claimtoken issues and verifies compact, URL-embeddable claim tokens
// that authorize minting of a collectible tied to a physical product.
//
// A token binds three facts: a serial number, a color and a product type. The
// record is packed into a small MessagePack-compatible map, signed with
// HMAC-SHA256 truncated to 16 bytes and framed for transport:
//
//	base64url(payload).base64url(signature)
//
// Both segments are written without padding; padded input is accepted on
// redemption because intermediaries sometimes add it back.
//
// # Wire format
//
// The payload is a fixmap with exactly three entries in fixed order:
//
//	0x83                       map, 3 entries
//	0xa1 'n' <uint>            serial number
//	0xa1 'c' <str>             color
//	0xa1 't' <str>             product type
//
// Unsigned integers use the smallest of: positive fixint (0x00-0x7f),
// 0xcc+uint8, 0xcd+uint16, 0xce+uint32, 0xcf+uint64, all big-endian.
// Strings use fixstr (0xa0|len, up to 31 bytes) or str8 (0xd9 len, up to 255
// bytes). Encoding is deterministic: the same record always yields the same
// bytes, so issuers and verifiers agree on what was signed.
//
// # Usage
//
//	import "github.com/hugmug/claimkit/pkg/claimtoken"
//
//	key := []byte(os.Getenv("CLAIM_SECRET"))
//
//	tok, err := claimtoken.Issue(claimtoken.ClaimRecord{
//	    SerialNumber: 42,
//	    Color:        "Black",
//	    ProductType:  "HUGMUG",
//	}, key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rec, err := claimtoken.DecodeAndVerify(tok, key)
//	if errors.Is(err, claimtoken.ErrInvalidToken) {
//	    // reject without telling the caller which check failed
//	}
//
// The lower-level Encode, Decode, Sign, Verify, ToToken and FromToken functions
// are exported for issuers that need to compose the steps themselves.
//
// # Signature size
//
// The signature is the first 16 bytes (128 bits) of the HMAC-SHA256 output.
// This is part of the wire contract: changing it invalidates every token
// already printed on a product.
//
// # Errors
//
// Every rejection of a presented token matches ErrInvalidToken under
// errors.Is. The specific cause (ErrMalformedToken, ErrInvalidSignature,
// ErrMissingField, ErrMalformedField, ErrInvalidRecord) is joined to it for
// logging and tests; callers facing the public should only report the generic
// class.
//
// All functions are pure and safe for concurrent use.
package claimtoken
