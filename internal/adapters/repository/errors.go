package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed        = errors.New("store closed")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrSchema        = errors.New("apply schema")
)
