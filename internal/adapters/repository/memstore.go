package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/floradex/internal/domain/model"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps observations in insertion order. Used for tests and the
// "memory" driver; nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   []model.Observation
	lastID int64
	closed bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Insert implements Store.Insert.
func (s *MemoryStore) Insert(_ context.Context, obs model.Observation) (model.Observation, error) {
	start := time.Now()
	defer func() { observe("insert", start, nil) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return model.Observation{}, ErrClosed
	}
	s.lastID++
	obs.ID = s.lastID
	s.rows = append(s.rows, obs)
	return obs, nil
}

// List implements Store.List.
func (s *MemoryStore) List(_ context.Context, f Filter) ([]model.Observation, error) {
	start := time.Now()
	defer func() { observe(f.operation("list"), start, nil) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	var out []model.Observation
	for _, o := range s.rows {
		if matches(o, f) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Aggregate implements Store.Aggregate.
func (s *MemoryStore) Aggregate(_ context.Context, f Filter, kind model.AggregateKind) (*float64, error) {
	start := time.Now()
	defer func() { observe("aggregate_"+string(kind), start, nil) }()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var (
		n      int
		sum    float64
		lo, hi int64
	)
	for _, o := range s.rows {
		if !matches(o, f) {
			continue
		}
		if n == 0 || o.PetalCount < lo {
			lo = o.PetalCount
		}
		if n == 0 || o.PetalCount > hi {
			hi = o.PetalCount
		}
		sum += float64(o.PetalCount)
		n++
	}
	if n == 0 {
		return nil, nil
	}

	var v float64
	switch kind {
	case model.AggregateMin:
		v = float64(lo)
	case model.AggregateMax:
		v = float64(hi)
	default:
		v = sum / float64(n)
	}
	return &v, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return int64(len(s.rows)), nil
}

// Ping implements Store.Ping.
func (s *MemoryStore) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close implements Store.Close. Later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func matches(o model.Observation, f Filter) bool {
	if f.Genus != "" && o.Genus != f.Genus {
		return false
	}
	if f.Species != "" && o.Species != f.Species {
		return false
	}
	return true
}
