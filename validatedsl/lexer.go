// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package validatedsl implements the lexer, grammar and AST for the
// validate DSL (spec.md §4.5): admission-control predicates evaluated
// against a (src?, tag) document pair, extending the filter DSL's
// comparison vocabulary with type predicates and cross-document
// comparisons. Grounded on the reference implementation's
// condition::Validate / Model nodes.
package validatedsl

import "github.com/alecthomas/participle/v2/lexer"

// GrammarVersion is the validate grammar's version number, mirroring
// filterdsl.GrammarVersion. A parsed Expr does not carry it.
const GrammarVersion = 1

// dslLexer shares the filter DSL's operator vocabulary and adds the
// keywords is_number/is_string/cross plus the src/tag side selectors,
// all of which simply lex as Ident and are matched by literal text in
// the grammar (participle matches a literal token pattern against any
// token whose value equals it, regardless of token type).
var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "OpAnd", Pattern: `&&`},
	{Name: "OpOr", Pattern: `\|\|`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpGte", Pattern: `>=`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "OpLte", Pattern: `<=`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "OpIsNotNull", Pattern: `\^\^`},
	{Name: "OpIsNull", Pattern: `\^`},
	{Name: "OpNotIn", Pattern: `~~`},
	{Name: "OpIn", Pattern: `~`},
	{Name: "OpEq", Pattern: `=`},
	{Name: "Bang", Pattern: `!`},
	{Name: "LenKw", Pattern: `len\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "whitespace", Pattern: `\s+`},
})
