package service

import "errors"

// Sentinel kinds surfaced to the HTTP layer.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrNotStarted = errors.New("service not started")
)
