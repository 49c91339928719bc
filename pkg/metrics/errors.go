package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUpdateFailed = errors.New("metrics update failed")
)
