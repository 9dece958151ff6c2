// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package validatedsl

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"
)

var participleParser *participle.Parser[orNode]

func init() {
	var err error
	participleParser, err = participle.Build[orNode](
		participle.Lexer(dslLexer),
		participle.Unquote("String"),
		participle.Elide("whitespace"),
		participle.UseLookahead(participle.MaxLookahead),
	)
	if err != nil {
		panic(fmt.Sprintf("validatedsl: failed to build parser: %v", err))
	}
}

// Parse compiles validate DSL text into an Expr AST (spec.md §4.5).
func Parse(text string) (*Expr, error) {
	if text == "" {
		return nil, nil
	}
	tree, err := participleParser.ParseString("", text)
	if err != nil {
		return nil, oops.
			Code("VALIDATE_PARSE_ERROR").
			With("text", text).
			Wrapf(err, "parsing validate expression %q", text)
	}
	return buildOr(tree), nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}
