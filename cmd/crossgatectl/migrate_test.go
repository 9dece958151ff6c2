// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateCommandHasNoPositionalArgsRequirement(t *testing.T) {
	cmd := NewMigrateCmd()
	assert.Equal(t, "migrate", cmd.Use)
	assert.Nil(t, cmd.Args)
	assert.NotNil(t, cmd.RunE)
}
