// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package filterdsl implements the lexer, grammar and AST for the filter
// DSL (spec.md §4.1, §6): the expression language used to build query
// Conditions, e.g. `active=true && level ~ (1,2,3) && len(name)>0`.
package filterdsl

import "github.com/alecthomas/participle/v2/lexer"

// GrammarVersion is the filter grammar's version number; GrammarSemVer
// gives it in semantic-version form. A compiled Filter does not carry
// it: a caller that persists filter text records the version itself
// and checks it with CheckCompatibility before re-parsing.
const GrammarVersion = 1

// dslLexer tokenises filter DSL text. Order matters: a multi-character
// operator must be listed before any shorter operator that shares its
// prefix (">=" before ">>" before ">", "!=" before "!!" before "!", …)
// or the simple lexer would greedily match the shorter rule first.
var dslLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "OpAnd", Pattern: `&&`},
	{Name: "OpOr", Pattern: `\|\|`},
	{Name: "OpNe", Pattern: `!=`},
	{Name: "OpNotLike", Pattern: `!!`},
	{Name: "OpLike", Pattern: `!`},
	{Name: "OpGte", Pattern: `>=`},
	{Name: "OpNoBelong", Pattern: `>>`},
	{Name: "OpGt", Pattern: `>`},
	{Name: "OpLte", Pattern: `<=`},
	{Name: "OpBelong", Pattern: `<<`},
	{Name: "OpLt", Pattern: `<`},
	{Name: "OpNotIn", Pattern: `~~`},
	{Name: "OpIn", Pattern: `~`},
	{Name: "OpIsNotNull", Pattern: `\^\^`},
	{Name: "OpIsNull", Pattern: `\^`},
	{Name: "OpEq", Pattern: `=`},
	{Name: "LenKw", Pattern: `len\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-]*`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "whitespace", Pattern: `\s+`},
})
