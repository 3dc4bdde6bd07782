package api

import (
	"errors"
	"net/http"

	"github.com/hugmug/claimkit/internal/ens"
	"github.com/hugmug/claimkit/internal/mint"
	"github.com/hugmug/claimkit/internal/nftindex"
	"github.com/hugmug/claimkit/internal/redemption"
	"github.com/hugmug/claimkit/pkg/claimtoken"
)

// HTTPError is an error with a fixed status and machine-readable code.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

func (e HTTPError) Error() string {
	return e.Code
}

var (
	ErrBadRequest       = HTTPError{Status: http.StatusBadRequest, Code: "bad_request", Message: "Bad request"}
	ErrTokenRequired    = HTTPError{Status: http.StatusBadRequest, Code: "token_required", Message: "Token is required"}
	ErrInvalidSerial    = HTTPError{Status: http.StatusBadRequest, Code: "invalid_serial_number", Message: "Serial number must be a positive integer"}
	ErrInvalidAddress   = HTTPError{Status: http.StatusBadRequest, Code: "invalid_address", Message: "Address is not a valid account"}
	ErrNotFound         = HTTPError{Status: http.StatusNotFound, Code: "not_found", Message: "Not found"}
	ErrMethodNotAllowed = HTTPError{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed", Message: "Method not allowed"}
	ErrInternal         = HTTPError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "Internal server error"}
)

// errorMapping is checked in order; the first match wins.
var errorMapping = []struct {
	target error
	resp   HTTPError
}{
	{claimtoken.ErrInvalidToken, HTTPError{http.StatusUnauthorized, "invalid_token", "Invalid token"}},
	{redemption.ErrAlreadyRedeemed, HTTPError{http.StatusConflict, "already_redeemed", "This item has already been claimed"}},
	{redemption.ErrRedemptionPending, HTTPError{http.StatusConflict, "redemption_pending", "A claim for this item is in progress"}},
	{redemption.ErrInvalidRecipient, HTTPError{http.StatusBadRequest, "invalid_recipient", "Recipient is not a valid address"}},
	{mint.ErrInvalidRecipient, HTTPError{http.StatusBadRequest, "invalid_recipient", "Recipient is not a valid address"}},
	{mint.ErrMintingDisabled, HTTPError{http.StatusServiceUnavailable, "minting_disabled", "Minting is not available"}},
	{mint.ErrUnknownCollection, HTTPError{http.StatusUnprocessableEntity, "unknown_product", "Product is not mintable"}},
	{mint.ErrUnknownColor, HTTPError{http.StatusUnprocessableEntity, "unknown_product", "Product is not mintable"}},
	{redemption.ErrMintFailed, HTTPError{http.StatusBadGateway, "mint_failed", "Failed to mint"}},
	{redemption.ErrLedgerUnavailable, HTTPError{http.StatusServiceUnavailable, "ledger_unavailable", "Claims are temporarily unavailable"}},
	{nftindex.ErrNotFound, HTTPError{http.StatusNotFound, "nft_not_found", "NFT not found"}},
	{nftindex.ErrNotConfigured, HTTPError{http.StatusServiceUnavailable, "index_unavailable", "Token lookup is not available"}},
	{nftindex.ErrUpstream, HTTPError{http.StatusBadGateway, "index_failed", "Error fetching token data"}},
	{ens.ErrInvalidAddress, HTTPError{http.StatusBadRequest, "invalid_address", "Address is not a valid account"}},
	{ens.ErrNotConfigured, HTTPError{http.StatusServiceUnavailable, "ens_unavailable", "Name lookup is not available"}},
	{ens.ErrLookupFailed, HTTPError{http.StatusBadGateway, "ens_failed", "Failed to resolve ENS name"}},
}

// toHTTPError maps a domain error to its public response. Unknown errors
// become ErrInternal.
func toHTTPError(err error) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.resp
		}
	}
	return ErrInternal
}
