// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package validatedsl

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// GrammarSemVer is GrammarVersion expressed as a semantic version,
// mirroring filterdsl.GrammarSemVer.
const GrammarSemVer = "1.0.0"

// SupportedGrammarRange is the range of grammar versions this build's
// parser/compiler can safely evaluate.
const SupportedGrammarRange = "^1.0.0"

// CheckCompatibility reports whether a validator recorded against
// persistedVersion can be safely parsed by this build, mirroring
// filterdsl.CheckCompatibility.
func CheckCompatibility(persistedVersion string) error {
	v, err := semver.NewVersion(persistedVersion)
	if err != nil {
		return fmt.Errorf("validatedsl: invalid grammar version %q: %w", persistedVersion, err)
	}
	constraint, err := semver.NewConstraint(SupportedGrammarRange)
	if err != nil {
		return fmt.Errorf("validatedsl: invalid supported grammar range %q: %w", SupportedGrammarRange, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("validatedsl: grammar version %s is not supported by this build (requires %s)",
			persistedVersion, SupportedGrammarRange)
	}
	return nil
}
