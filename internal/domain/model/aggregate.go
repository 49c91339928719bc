package model

import (
	"fmt"
	"strings"
)

// AggregateKind selects the petal count aggregate.
type AggregateKind string

// Supported aggregates.
const (
	AggregateAvg AggregateKind = "avg"
	AggregateMin AggregateKind = "min"
	AggregateMax AggregateKind = "max"
)

// ParseAggregateKind matches avg, min or max case-insensitively.
func ParseAggregateKind(s string) (AggregateKind, error) {
	switch k := AggregateKind(strings.ToLower(strings.TrimSpace(s))); k {
	case AggregateAvg, AggregateMin, AggregateMax:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAggregate, s)
	}
}

// SQLFunc is the SQL aggregate function name for k.
func (k AggregateKind) SQLFunc() string {
	return strings.ToUpper(string(k))
}
