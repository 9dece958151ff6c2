// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package validatedsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ddx2x/crossgate/validatedsl"
)

func TestCheckCompatibilityAcceptsCurrentVersion(t *testing.T) {
	assert.NoError(t, validatedsl.CheckCompatibility(validatedsl.GrammarSemVer))
}

func TestCheckCompatibilityRejectsIncompatibleMajorVersion(t *testing.T) {
	assert.Error(t, validatedsl.CheckCompatibility("2.0.0"))
}
