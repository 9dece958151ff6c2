// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package filterdsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ddx2x/crossgate/filterdsl"
)

func TestCheckCompatibilityAcceptsCurrentVersion(t *testing.T) {
	assert.NoError(t, filterdsl.CheckCompatibility(filterdsl.GrammarSemVer))
	assert.NoError(t, filterdsl.CheckCompatibility("1.2.3"))
}

func TestCheckCompatibilityRejectsIncompatibleMajorVersion(t *testing.T) {
	assert.Error(t, filterdsl.CheckCompatibility("2.0.0"))
}

func TestCheckCompatibilityRejectsMalformedVersion(t *testing.T) {
	assert.Error(t, filterdsl.CheckCompatibility("not-a-version"))
}
