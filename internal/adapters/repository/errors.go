package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("grant not found")
	ErrDuplicateBid  = errors.New("duplicate bid for grant and organization")
	ErrIntegrity     = errors.New("integrity violation")
	ErrNoRowReturned = errors.New("insert returned no row")
)
