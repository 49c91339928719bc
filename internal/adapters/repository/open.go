package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/floradex/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // register sqlite as a database/sql driver
)

// Open builds the store selected by cfg.StorageDriver. The schema must exist
// already; see cmd/floradex-dbinit. The memory store needs none.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return NewMemoryStore(), nil
	}

	d, err := DialectFor(cfg.StorageDriver)
	if err != nil {
		return nil, err
	}
	dsn := cfg.SQLitePath
	if d.Name == Postgres.Name {
		dsn = cfg.PostgresDSN
	}
	db, err := OpenDB(ctx, d, dsn, WithMaxOpenConns(cfg.MaxOpenConns))
	if err != nil {
		return nil, err
	}
	return NewSQLStore(db, d), nil
}

// OpenDB opens and pings a raw handle for dialect d.
func OpenDB(ctx context.Context, d Dialect, dsn string, opts ...Option) (*sql.DB, error) {
	o := applyOptions(opts)

	if d.Name == SQLite.Name {
		if dir := filepath.Dir(dsn); dir != "." && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open(d.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}

	if d.Name == SQLite.Name {
		// One connection serializes writers and keeps PRAGMAs in effect.
		db.SetMaxOpenConns(1)
		pragmas := []string{
			`PRAGMA journal_mode=WAL;`,
			fmt.Sprintf(`PRAGMA busy_timeout=%d;`, o.busyTimeout.Milliseconds()),
		}
		for _, p := range pragmas {
			if _, err := db.ExecContext(ctx, p); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("sqlite pragma: %w", err)
			}
		}
	} else {
		db.SetMaxOpenConns(o.maxOpenConns)
		db.SetMaxIdleConns(o.maxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}
	return db, nil
}

// OpenSQLite opens the database file at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLStore, error) {
	db, err := OpenDB(ctx, SQLite, path, opts...)
	if err != nil {
		return nil, err
	}
	return NewSQLStore(db, SQLite), nil
}

// OpenPostgres connects to dsn through pgx.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*SQLStore, error) {
	db, err := OpenDB(ctx, Postgres, dsn, opts...)
	if err != nil {
		return nil, err
	}
	return NewSQLStore(db, Postgres), nil
}

// DialectFor maps a configured driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case config.DriverSQLite:
		return SQLite, nil
	case config.DriverPostgres:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
