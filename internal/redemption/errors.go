package redemption

import "errors"

var (
	ErrAlreadyRedeemed   = errors.New("claim has already been redeemed")
	ErrRedemptionPending = errors.New("claim redemption is in progress")
	ErrInvalidRecipient  = errors.New("recipient is not a valid address")
	ErrMintFailed        = errors.New("mint failed")
	ErrMintUnconfirmed   = errors.New("mint transaction sent but not confirmed")
	ErrLedgerUnavailable = errors.New("redemption ledger unavailable")
	ErrUnknownLedger     = errors.New("unknown ledger backend")
)
