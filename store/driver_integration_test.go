// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/store"
)

// TestDriverAgainstRealPostgres exercises the bootstrap migration and
// the Driver's CRUD surface end-to-end against a disposable Postgres
// container, mirroring the teacher's world-model integration suite.
func TestDriverAgainstRealPostgres(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("crossgate_test"),
		postgres.WithUsername("crossgate"),
		postgres.WithPassword("crossgate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	migrator, err := store.NewMigrator(connStr)
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	defer migrator.Close()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	d := store.NewDriver(pool, "")
	require.NoError(t, d.EnsureTable(ctx, "widgets"))

	cond := condition.New().WithTable("widgets")
	stored, err := d.Save(ctx, map[string]any{"name": "gear", "level": float64(1)}, cond)
	require.NoError(t, err)
	id, _ := stored.Get("_id")
	require.NotEmpty(t, id)

	getCond, err := condition.New().WithTable("widgets").Wheres("name='gear'")
	require.NoError(t, err)
	fetched, err := d.Get(ctx, getCond)
	require.NoError(t, err)
	name, _ := fetched.Get("name")
	require.Equal(t, "gear", name)

	applyCond, err := condition.New().WithTable("widgets").WithFields("level").Wheres("name='sprocket'")
	require.NoError(t, err)
	applied, err := d.Apply(ctx, map[string]any{"name": "sprocket", "level": float64(2)}, applyCond)
	require.NoError(t, err)
	appliedName, _ := applied.Get("name")
	require.Equal(t, "sprocket", appliedName)
}
