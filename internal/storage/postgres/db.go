// Package postgres provides a PostgreSQL-backed implementation of the storage.Store interface.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Options configures the connection pool.
type Options struct {
	DatabaseURL string
	MaxConns    int

	// ConnectTimeout bounds how long New keeps retrying the first connection.
	ConnectTimeout time.Duration
}

const defaultConnectTimeout = 30 * time.Second

// NewPool creates a PostgreSQL connection pool, retrying with exponential
// backoff until the server answers a ping or ConnectTimeout elapses.
func NewPool(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = int32(opts.MaxConns)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = opts.ConnectTimeout
	if b.MaxElapsedTime <= 0 {
		b.MaxElapsedTime = defaultConnectTimeout
	}

	var pool *pgxpool.Pool
	connect := func() error {
		p, err := pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create connection pool: %w", err))
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return fmt.Errorf("failed to ping database: %w", err)
		}
		pool = p
		return nil
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("database not ready, retrying", "error", err, "retry_in", wait)
	}

	if err := backoff.RetryNotify(connect, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}

	return pool, nil
}
