package models

import "errors"

var (
	// ErrAccountNotFound is returned when an account id does not resolve
	// to a live row.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAPIKeyInvalid is returned when a presented API key is unknown
	// or has been revoked.
	ErrAPIKeyInvalid = errors.New("invalid or revoked API key")
)
