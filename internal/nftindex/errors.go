package nftindex

import "errors"

var (
	ErrNotConfigured = errors.New("nft index is not configured")
	ErrNotFound      = errors.New("no token with that serial number")
	ErrUpstream      = errors.New("nft index request failed")
)
