// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx2x/crossgate/config"
)

func TestBuildDepsWiresConfigIntoPoolFactory(t *testing.T) {
	originalFactory := PoolFactory
	defer func() { PoolFactory = originalFactory }()

	var gotURL string
	var gotMaxPoolSize int
	PoolFactory = func(_ context.Context, databaseURL string, maxPoolSize int) (*pgxpool.Pool, error) {
		gotURL = databaseURL
		gotMaxPoolSize = maxPoolSize
		return nil, nil
	}

	cfg := &config.Config{
		DatabaseURL:    "postgres://example/db",
		MaxPoolSize:    42,
		LogFormat:      "text",
		ServiceVersion: "test",
	}

	d, err := buildDeps(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "postgres://example/db", gotURL)
	assert.Equal(t, 42, gotMaxPoolSize)
	assert.NotNil(t, d.Logger)
	assert.NotNil(t, d.Driver)
	assert.Same(t, cfg, d.Config)
}
