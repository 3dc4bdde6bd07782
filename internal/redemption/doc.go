// Package redemption turns verified claim tokens into mints.
//
// Service verifies a token with the process signing key, optionally reserves
// the claimed item in a Ledger so the same physical item cannot be minted
// twice, hands the record to a Minter and records the outcome.
//
// Single-use enforcement is a policy of this package, not of the token format:
// tokens carry no nonce or expiry and remain cryptographically valid forever.
// With SingleUse disabled the service relies on the contract to reject
// duplicate serials.
package redemption
