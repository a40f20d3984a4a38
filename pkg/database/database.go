package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver      string        `split_words:"true" default:"sqlite"`
	DSN         string        `envconfig:"DSN" default:"data/schedbot.db"`
	DialTimeout time.Duration `split_words:"true" default:"5s"`
	LogQueries  bool          `split_words:"true" default:"false"`
}

// Open connects to the configured database and returns a bun handle.
// For sqlite, pass ":memory:" as DSN for a throwaway database (used by tests).
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("database dsn is required")
	}

	var (
		db  *bun.DB
		err error
	)
	switch driver {
	case DriverPostgres, "pg":
		db = openPostgres(dsn, cfg.DialTimeout)
	case DriverSQLite, "":
		db, err = openSQLite(dsn)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver=%q", cfg.Driver)
	}

	if cfg.LogQueries {
		db.AddQueryHook(QueryLogger{})
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}
	return db, nil
}

func openPostgres(dsn string, dialTimeout time.Duration) *bun.DB {
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithDialTimeout(dialTimeout),
	))
	return bun.NewDB(sqldb, pgdialect.New())
}

func openSQLite(dsn string) (*bun.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory: %w", err)
			}
		}
	}

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Single connection: ":memory:" is per-connection and sqlite serializes writers anyway.
	sqldb.SetMaxOpenConns(1)

	if _, err := sqldb.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
