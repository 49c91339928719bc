// Package repository persists flower observations.
package repository

import (
	"context"

	"github.com/okian/floradex/internal/domain/model"
)

// Filter narrows a query. Empty fields match everything.
type Filter struct {
	Genus   string
	Species string
}

// operation names the filter shape for metrics labels.
func (f Filter) operation(prefix string) string {
	switch {
	case f.Genus != "" && f.Species != "":
		return prefix + "_species"
	case f.Genus != "":
		return prefix + "_genus"
	case f.Species != "":
		return prefix + "_species"
	default:
		return prefix + "_all"
	}
}

// Store provides read/write access to flower observations.
type Store interface {
	// Insert persists obs and returns it with its assigned id.
	// The id is max(existing id) + 1, or 1 for an empty store.
	Insert(ctx context.Context, obs model.Observation) (model.Observation, error)

	// List returns observations matching f ordered by id ascending.
	// An empty result is not an error.
	List(ctx context.Context, f Filter) ([]model.Observation, error)

	// Aggregate computes kind over petal counts matching f.
	// Returns nil when no rows match.
	Aggregate(ctx context.Context, f Filter, kind model.AggregateKind) (*float64, error)

	// Count returns the number of stored observations.
	Count(ctx context.Context) (int64, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying handle.
	Close() error
}
