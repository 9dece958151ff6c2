// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package filterdsl

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/samber/oops"
)

// participleParser is the singleton participle parser instance for the
// filter grammar; building it is expensive enough to do once.
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
		panic(fmt.Sprintf("filterdsl: failed to build parser: %v", err))
	}
}

// Parse compiles filter DSL text into an Expr AST (spec.md §4.1). On
// failure the returned error reproduces the offending text and the
// parser's expected-token set, per the contract's diagnostic
// requirement; callers should not attempt to recover a partial AST.
func Parse(text string) (*Expr, error) {
	if text == "" {
		return nil, nil
	}
	tree, err := participleParser.ParseString("", text)
	if err != nil {
		return nil, oops.
			Code("FILTER_PARSE_ERROR").
			With("text", text).
			Wrapf(err, "parsing filter expression %q", text)
	}
	return buildOr(tree), nil
}

// MustParse is like Parse but panics on error; intended for tests and
// for compiling statically known filter text at init time.
func MustParse(text string) *Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}
