// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package filterdsl

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// GrammarSemVer is GrammarVersion expressed as a semantic version, for
// comparison against a persisted filter's recorded version.
const GrammarSemVer = "1.0.0"

// SupportedGrammarRange is the range of grammar versions this build's
// parser/compiler can safely evaluate.
const SupportedGrammarRange = "^1.0.0"

// CheckCompatibility reports whether a filter recorded against
// persistedVersion (e.g. a saved search or a stored aggregation
// pipeline's Match stage) can be safely parsed and compiled by this
// build. A filter's stored version that falls outside
// SupportedGrammarRange would otherwise risk silent misinterpretation
// by a parser that has since changed the grammar's meaning.
func CheckCompatibility(persistedVersion string) error {
	v, err := semver.NewVersion(persistedVersion)
	if err != nil {
		return fmt.Errorf("filterdsl: invalid grammar version %q: %w", persistedVersion, err)
	}
	constraint, err := semver.NewConstraint(SupportedGrammarRange)
	if err != nil {
		return fmt.Errorf("filterdsl: invalid supported grammar range %q: %w", SupportedGrammarRange, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("filterdsl: grammar version %s is not supported by this build (requires %s)",
			persistedVersion, SupportedGrammarRange)
	}
	return nil
}
