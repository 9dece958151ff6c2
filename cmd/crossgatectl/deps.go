// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ddx2x/crossgate/config"
	"github.com/ddx2x/crossgate/logging"
	"github.com/ddx2x/crossgate/store"
)

// Deps are the driver's runtime collaborators, constructed once in
// root.go's PersistentPreRunE and threaded to every subcommand
// explicitly rather than read back out of global state.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	Driver *store.Driver
}

// PoolFactory builds a connection pool from a database URL and
// maximum pool size. Overridable in tests.
var PoolFactory = func(ctx context.Context, databaseURL string, maxPoolSize int) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	if maxPoolSize > 0 {
		poolCfg.MaxConns = int32(maxPoolSize)
	}
	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// buildDeps wires a Config into a logger, connection pool, and
// driver (spec.md §9: explicit dependency injection over global
// process state).
func buildDeps(ctx context.Context, cfg *config.Config) (*Deps, error) {
	logger := logging.Setup("crossgatectl", cfg.ServiceVersion, cfg.LogFormat, nil)

	pool, err := PoolFactory(ctx, cfg.DatabaseURL, cfg.MaxPoolSize)
	if err != nil {
		return nil, err
	}

	driver := store.NewDriver(pool, "")

	return &Deps{Config: cfg, Logger: logger, Pool: pool, Driver: driver}, nil
}

// Close releases the connection pool.
func (d *Deps) Close() {
	if d.Pool != nil {
		d.Pool.Close()
	}
}
