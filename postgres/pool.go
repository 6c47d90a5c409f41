// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package postgres

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-api-kit/apperrors"
	"github.com/MKhiriev/go-api-kit/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the read/write surface a unit of work operates on. It is
// satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx, so the same unit of
// work runs unchanged inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is the minimal pool abstraction the executor is built on.
// It is implemented by *pgxpool.Pool and by pgxmock.PgxPoolIface in tests.
type Pool interface {
	Querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// DB wraps the connection pool together with the retry policy and error
// classification behaviour. It is the single shared mutable resource of the
// database layer; individual connections are never shared across tasks.
type DB struct {
	pool    Pool
	pgxPool *pgxpool.Pool // non-nil only when backed by a real pool
	cfg     Config
	logger  *logger.Logger
}

// Connect builds the connection pool from cfg and verifies connectivity
// with a ping before returning.
func Connect(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	if cfg.DSN == "" {
		return nil, ErrNoDSN
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Err(err).Str("func", "Connect").Msg("error connecting database (ping)")
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	log.Info().
		Str("host", poolCfg.ConnConfig.Host).
		Str("database", poolCfg.ConnConfig.Database).
		Msg("connected to database")

	return &DB{
		pool:    pool,
		pgxPool: pool,
		cfg:     cfg,
		logger:  log,
	}, nil
}

// NewFromPool wraps an existing pool. Intended for tests and for callers
// that manage the pool lifecycle themselves.
func NewFromPool(pool Pool, cfg Config, log *logger.Logger) *DB {
	db := &DB{pool: pool, cfg: cfg, logger: log}
	if p, ok := pool.(*pgxpool.Pool); ok {
		db.pgxPool = p
	}
	return db
}

// Acquire leases a connection from the pool, waiting at most the configured
// AcquireTimeout. The returned connection is exclusively owned by the caller
// until Release; exhausting the pool within the timeout yields an upstream
// error.
func (db *DB) Acquire(ctx context.Context) (*pgxpool.Conn, error) {
	if db.pgxPool == nil {
		return nil, apperrors.NewUpstream("database pool is not available", nil)
	}

	acquireCtx := ctx
	if db.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, db.cfg.AcquireTimeout)
		defer cancel()
	}

	conn, err := db.pgxPool.Acquire(acquireCtx)
	if err != nil {
		if acquireCtx.Err() != nil && ctx.Err() == nil {
			return nil, apperrors.NewUpstream("timed out waiting for a database connection", err)
		}
		return nil, Classify(ctx, err)
	}

	return conn, nil
}

// Stat exposes pool statistics, or nil when no real pool is attached.
func (db *DB) Stat() *pgxpool.Stat {
	if db.pgxPool == nil {
		return nil
	}
	return db.pgxPool.Stat()
}

// Close shuts the pool down and frees all connections.
func (db *DB) Close() {
	db.pool.Close()
	if db.logger != nil {
		db.logger.Info().Msg("database connection pool closed")
	}
}
