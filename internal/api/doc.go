// Package api exposes claim token inspection, redemption, minted token lookup
// and ENS name lookup over HTTP.
//
// Every JSON body uses one envelope:
//
//	{"data": {...}}
//	{"error": {"code": "invalid_token", "message": "Invalid token"}}
//
// Token failures are never described beyond invalid_token so that callers
// cannot learn which check rejected a forged or damaged token.
package api
