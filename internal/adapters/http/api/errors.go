package api

import "errors"

// Sentinel kinds for request validation errors. The client sees only the
// fixed contract messages; these carry the precise cause into logs.
var (
	ErrMissingField = errors.New("missing required field")
)
