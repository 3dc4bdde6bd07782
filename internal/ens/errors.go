package ens

import "errors"

var (
	ErrNotConfigured  = errors.New("ens resolver is not configured")
	ErrInvalidAddress = errors.New("address is not a valid account")
	ErrInvalidConfig  = errors.New("invalid ens configuration")
	ErrLookupFailed   = errors.New("ens lookup failed")
)
