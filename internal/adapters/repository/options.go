package repository

import "time"

type sqlOptions struct {
	maxOpenConns int
	busyTimeout  time.Duration
}

// Option configures a SQL-backed store.
type Option func(*sqlOptions)

// WithMaxOpenConns caps the connection pool. Ignored for SQLite, which is
// pinned to one connection.
func WithMaxOpenConns(n int) Option {
	return func(o *sqlOptions) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}

// WithBusyTimeout sets how long SQLite waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *sqlOptions) {
		if d > 0 {
			o.busyTimeout = d
		}
	}
}

func applyOptions(opts []Option) sqlOptions {
	o := sqlOptions{
		maxOpenConns: 4,
		busyTimeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
