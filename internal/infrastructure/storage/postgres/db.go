package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sentrix/internal/app/port"
)

// Options configures the connection pool.
type Options struct {
	URL          string
	MaxConns     int32
	MinConns     int32
	QueryTimeout time.Duration
}

// DB wraps a pgx pool shared by all repositories.
type DB struct {
	pool         *pgxpool.Pool
	queryTimeout time.Duration
	logger       port.Logger
}

// New opens a pool and verifies connectivity. The caller owns Close.
func New(ctx context.Context, opts Options, l port.Logger) (*DB, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("database url is empty")
	}
	cfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		cfg.MinConns = opts.MinConns
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	cfg.ConnConfig.ConnectTimeout = 10 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	timeout := opts.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	l.Info("Database pool ready", "maxConns", cfg.MaxConns, "minConns", cfg.MinConns)
	return &DB{pool: pool, queryTimeout: timeout, logger: l}, nil
}

// Ping checks the datastore is reachable and the schema is installed.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var ok bool
	err := db.pool.QueryRow(ctx, `SELECT to_regclass('public.user_wallets') IS NOT NULL`).Scan(&ok)
	if err != nil {
		return mapError("ping", err)
	}
	if !ok {
		return mapError("ping", errSchemaMissing)
	}
	return nil
}

func (db *DB) Close() {
	db.pool.Close()
}

func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, db.queryTimeout)
}
