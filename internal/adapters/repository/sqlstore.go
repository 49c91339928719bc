package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okian/floradex/internal/domain/model"
	"github.com/okian/floradex/pkg/metrics"
)

var _ Store = (*SQLStore)(nil)

// SQLStore is a Store over database/sql. One instance owns one *sql.DB.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// DB exposes the handle for schema tooling and tests.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Dialect returns the dialect the store was opened with.
func (s *SQLStore) Dialect() Dialect { return s.dialect }

// observe records latency for op and counts a failure when err is non-nil.
func observe(op string, start time.Time, err error) {
	metrics.RecordStoreQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, context.Canceled) {
		metrics.RecordStoreError(op)
	}
}

// Insert implements Store.Insert. The id comes from the table's primary key.
func (s *SQLStore) Insert(ctx context.Context, obs model.Observation) (_ model.Observation, err error) {
	start := time.Now()
	defer func() { observe("insert", start, err) }()

	q := s.dialect.insertQuery()
	args := []any{obs.Genus, obs.Species, obs.PetalCount, obs.Color}

	if s.dialect.returning {
		if err = s.db.QueryRowContext(ctx, q, args...).Scan(&obs.ID); err != nil {
			return model.Observation{}, fmt.Errorf("insert observation: %w", err)
		}
		return obs, nil
	}

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return model.Observation{}, fmt.Errorf("insert observation: %w", err)
	}
	if obs.ID, err = res.LastInsertId(); err != nil {
		return model.Observation{}, fmt.Errorf("insert observation: last id: %w", err)
	}
	return obs, nil
}

// List implements Store.List.
func (s *SQLStore) List(ctx context.Context, f Filter) (_ []model.Observation, err error) {
	start := time.Now()
	op := f.operation("list")
	defer func() { observe(op, start, err) }()

	q, args := s.dialect.listQuery(f)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Observation
	for rows.Next() {
		var o model.Observation
		if err = rows.Scan(&o.ID, &o.Genus, &o.Species, &o.PetalCount, &o.Color); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	return out, nil
}

// Aggregate implements Store.Aggregate.
func (s *SQLStore) Aggregate(ctx context.Context, f Filter, kind model.AggregateKind) (_ *float64, err error) {
	start := time.Now()
	op := "aggregate_" + string(kind)
	defer func() { observe(op, start, err) }()

	q, args := s.dialect.aggregateQuery(f, kind)
	var v sql.NullFloat64
	if err = s.db.QueryRowContext(ctx, q, args...).Scan(&v); err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", kind, err)
	}
	if !v.Valid {
		return nil, nil
	}
	return &v.Float64, nil
}

// Count implements Store.Count.
func (s *SQLStore) Count(ctx context.Context) (n int64, err error) {
	start := time.Now()
	defer func() { observe("count", start, err) }()

	if err = s.db.QueryRowContext(ctx, s.dialect.countQuery()).Scan(&n); err != nil {
		return 0, fmt.Errorf("count observations: %w", err)
	}
	return n, nil
}

// Ping implements Store.Ping.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", s.dialect.Name, err)
	}
	return nil
}

// Close implements Store.Close.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
