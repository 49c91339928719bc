// Command floradex-dbinit creates the Flowers table for the sqlite or
// postgres driver. It is safe to run repeatedly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	repository "github.com/okian/floradex/internal/adapters/repository"
	"github.com/okian/floradex/internal/config"
	"github.com/okian/floradex/pkg/logger"
)

const defaultInitTimeout = 30 * time.Second

// options are the command-line overrides applied on top of config.Load.
type options struct {
	driver     string
	sqlitePath string
	dsn        string
	drop       bool
	timeout    time.Duration
}

func main() {
	var opts options
	flag.StringVar(&opts.driver, "driver", "", "Storage driver: sqlite or postgres (default from FLORADEX_STORAGE_DRIVER)")
	flag.StringVar(&opts.sqlitePath, "sqlite-path", "", "SQLite database file (default from FLORADEX_SQLITE_PATH)")
	flag.StringVar(&opts.dsn, "dsn", "", "Postgres connection string (default from FLORADEX_POSTGRES_DSN)")
	flag.BoolVar(&opts.drop, "drop", false, "Drop the Flowers table before creating it")
	flag.DurationVar(&opts.timeout, "timeout", defaultInitTimeout, "Overall timeout")
	flag.Parse()

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := initialize(ctx, cfg, opts); err != nil {
		logger.Get().Error(ctx, "schema init failed", logger.Error(err))
		os.Exit(1)
	}
}

// initialize applies the flag overrides to cfg and creates the schema.
func initialize(ctx context.Context, cfg *config.Config, opts options) error {
	if opts.driver != "" {
		cfg.StorageDriver = opts.driver
	}
	if opts.sqlitePath != "" {
		cfg.SQLitePath = opts.sqlitePath
	}
	if opts.dsn != "" {
		cfg.PostgresDSN = opts.dsn
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	if cfg.StorageDriver == config.DriverMemory {
		return fmt.Errorf("%w: the memory driver has no schema", repository.ErrUnknownDriver)
	}
	d, err := repository.DialectFor(cfg.StorageDriver)
	if err != nil {
		return err
	}
	dsn := cfg.SQLitePath
	if d.Name == repository.Postgres.Name {
		dsn = cfg.PostgresDSN
	}

	log := logger.Named("dbinit")
	db, err := repository.OpenDB(ctx, d, dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if opts.drop {
		if err := repository.DropSchema(ctx, db); err != nil {
			return err
		}
		log.Warn(ctx, "dropped Flowers table", logger.String("driver", d.Name))
	}
	if err := repository.ApplySchema(ctx, db, d); err != nil {
		return err
	}
	log.Info(ctx, "schema ready", logger.String("driver", d.Name))
	return nil
}
