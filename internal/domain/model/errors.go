package model

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for domain validation errors.
var (
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrUnknownAggregate  = errors.New("unknown aggregate")
)

// KeySetError reports a submission whose keys differ from the accepted set.
type KeySetError struct {
	Missing []string
	Extra   []string
}

func (e *KeySetError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Extra, ", "))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidSubmission, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalidSubmission.
func (e *KeySetError) Unwrap() error { return ErrInvalidSubmission }
