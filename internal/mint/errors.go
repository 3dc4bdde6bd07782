package mint

import "errors"

var (
	ErrUnknownCollection   = errors.New("product type is not mapped to a collection id")
	ErrUnknownColor        = errors.New("color is not mapped to a color id")
	ErrInvalidRecipient    = errors.New("recipient is not a valid address")
	ErrInvalidConfig       = errors.New("invalid mint configuration")
	ErrConnectFailed       = errors.New("failed to connect to chain")
	ErrChainMismatch       = errors.New("rpc endpoint serves a different chain")
	ErrTransactionFailed   = errors.New("mint transaction failed")
	ErrTransactionReverted = errors.New("mint transaction reverted")
	ErrReceiptTimeout      = errors.New("mint transaction sent but not yet confirmed")
	ErrMintingDisabled     = errors.New("minting is not configured")
)
