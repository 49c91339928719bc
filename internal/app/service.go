// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	repository "github.com/okian/floradex/internal/adapters/repository"
	"github.com/okian/floradex/internal/domain/model"
	"github.com/okian/floradex/internal/domain/types"
	"github.com/okian/floradex/pkg/logger"
	"github.com/okian/floradex/pkg/metrics"
)

// Service implements the API dependencies for the flower observation store.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	driver string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDriverName labels the store in stats and logs.
func WithDriverName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.driver = name
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		driver: "memory",
		logger: nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start verifies the store and publishes initial metrics.
// Without WithStore the service runs on an in-memory store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting flower service...")

	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.driver = "memory"
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	s.started = true
	if err := refreshMetrics(ctx, s.store); err != nil {
		s.logger.Warn(ctx, "initial metrics refresh failed", logger.Error(err))
	}

	s.logger.Info(ctx, "flower service started", logger.String("driver", s.driver))
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping flower service...")

	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "failed to close store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "flower service stopped")
}

// repo returns the store if the service is running.
func (s *Service) repo() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Welcome returns the root greeting.
func (s *Service) Welcome() types.Welcome {
	return types.Welcome{Hello: "World"}
}

// ListAll returns every observation in id order, or ErrNotFound when empty.
func (s *Service) ListAll(ctx context.Context) ([]types.Record, error) {
	return s.list(ctx, repository.Filter{})
}

// ListByGenus returns observations whose genus matches exactly.
func (s *Service) ListByGenus(ctx context.Context, genus string) ([]types.Record, error) {
	return s.list(ctx, repository.Filter{Genus: genus})
}

// ListBySpecies returns observations matching both genus and species.
func (s *Service) ListBySpecies(ctx context.Context, genus, species string) ([]types.Record, error) {
	return s.list(ctx, repository.Filter{Genus: genus, Species: species})
}

func (s *Service) list(ctx context.Context, f repository.Filter) ([]types.Record, error) {
	store, err := s.repo()
	if err != nil {
		return nil, err
	}
	rows, err := store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return types.FromObservations(rows), nil
}

// Aggregate computes avg, min or max petal count for a species.
// A nil result means no rows matched and is not an error.
func (s *Service) Aggregate(ctx context.Context, genus, species, kind string) (*float64, error) {
	k, err := model.ParseAggregateKind(kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	store, err := s.repo()
	if err != nil {
		return nil, err
	}
	v, err := store.Aggregate(ctx, repository.Filter{Genus: genus, Species: species}, k)
	if err != nil {
		return nil, err
	}
	metrics.RecordAggregateQuery(string(k), v != nil)
	return v, nil
}

// Insert validates body, stores the observation and returns the payload as submitted.
func (s *Service) Insert(ctx context.Context, body []byte) (map[string]any, error) {
	sub, err := model.ParseSubmission(body)
	if err != nil {
		metrics.RecordObservationRejected(rejectReason(err))
		return nil, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	store, err := s.repo()
	if err != nil {
		return nil, err
	}

	obs, err := store.Insert(ctx, sub.Observation())
	if err != nil {
		return nil, err
	}
	metrics.RecordObservationInserted()

	s.logger.Debug(ctx, "observation stored",
		logger.Int64("id", obs.ID),
		logger.String("genus", obs.Genus),
		logger.String("species", obs.Species),
	)
	return sub.Payload, nil
}

func rejectReason(err error) string {
	var keyErr *model.KeySetError
	if errors.As(err, &keyErr) {
		return "key_set"
	}
	return "invalid_field"
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	store, err := s.repo()
	if err != nil {
		return err
	}
	return store.Ping(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{
		Started: s.started,
		Driver:  s.driver,
	}

	if s.started {
		count, err := s.store.Count(context.Background())
		if err != nil {
			stats.Error = err.Error()
			return stats
		}
		stats.Observations = count
		metrics.UpdateObservationsTotal(int(count))
	}

	return stats
}

// refreshMetrics publishes the stored observation count.
func refreshMetrics(ctx context.Context, store repository.Store) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("%w: observations total: %w", metrics.ErrUpdateFailed, err)
	}
	metrics.UpdateObservationsTotal(int(count))
	return nil
}
