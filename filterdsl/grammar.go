// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package filterdsl

import "github.com/alecthomas/participle/v2/lexer"

// The structs below are the raw participle parse tree. build.go folds
// them into the exported Expr AST. Grammar (see spec.md §6):
//
//	expr   := or
//	or     := and ('||' and)*
//	and    := primary ('&&' primary)*
//	primary:= '(' or ')' | compare
//	compare:= field op value
//	        | 'len(' field ')' numop value
//	        | field '~'  list   | field '~~' list
//	        | field '<<' list   | field '>>' list
//	        | field '!'  string | field '!!' string
//	        | field '^'  'null' | field '^^' 'null'

type orNode struct {
	Pos  lexer.Position `parser:""`
	Ands []*andNode     `parser:"@@ (OpOr @@)*"`
}

type andNode struct {
	Pos       lexer.Position `parser:""`
	Primaries []*primaryNode `parser:"@@ (OpAnd @@)*"`
}

type primaryNode struct {
	Pos     lexer.Position `parser:""`
	Paren   *orNode        `parser:"  '(' @@ ')'"`
	Compare *compareNode   `parser:"| @@"`
}

// compareNode is an ordered choice over every terminal predicate shape.
// All non-len alternatives share the leading Ident (field) token, so
// the parser must be built with participle.UseLookahead(MaxLookahead)
// to backtrack across alternatives.
type compareNode struct {
	Pos     lexer.Position   `parser:""`
	Len     *lenCompareNode  `parser:"  @@"`
	Like    *likeCompareNode `parser:"| @@"`
	In      *inCompareNode   `parser:"| @@"`
	Belong  *belongNode      `parser:"| @@"`
	Null    *nullNode        `parser:"| @@"`
	Compare *cmpNode         `parser:"| @@"`
}

type lenCompareNode struct {
	Pos   lexer.Position `parser:""`
	Field string         `parser:"LenKw '(' @Ident ')'"`
	Op    string         `parser:"@(OpEq | OpNe | OpGt | OpGte | OpLt | OpLte)"`
	Value *literalNode   `parser:"@@"`
}

type likeCompareNode struct {
	Pos     lexer.Position `parser:""`
	Field   string         `parser:"@Ident"`
	Op      string         `parser:"@(OpNotLike | OpLike)"`
	Pattern string         `parser:"@String"`
}

type inCompareNode struct {
	Pos   lexer.Position `parser:""`
	Field string         `parser:"@Ident"`
	Op    string         `parser:"@(OpNotIn | OpIn)"`
	List  *listNode      `parser:"@@"`
}

type belongNode struct {
	Pos   lexer.Position `parser:""`
	Field string         `parser:"@Ident"`
	Op    string         `parser:"@(OpNoBelong | OpBelong)"`
	List  *listNode      `parser:"@@"`
}

type nullNode struct {
	Pos     lexer.Position `parser:""`
	Field   string         `parser:"@Ident"`
	Op      string         `parser:"@(OpIsNotNull | OpIsNull)"`
	NullLit string         `parser:"'null'" json:"-"`
}

type cmpNode struct {
	Pos   lexer.Position `parser:""`
	Field string         `parser:"@Ident"`
	Op    string         `parser:"@(OpEq | OpNe | OpGte | OpGt | OpLte | OpLt)"`
	Value *literalNode   `parser:"@@"`
}

type listNode struct {
	Pos    lexer.Position `parser:""`
	Values []*literalNode `parser:"'(' @@ (',' @@)* ')'"`
}

type literalNode struct {
	Pos   lexer.Position `parser:""`
	Str   *string        `parser:"  @String"`
	Num   *string        `parser:"| @Number"`
	True  bool           `parser:"| @'true'"`
	False bool           `parser:"| @'false'"`
	Null  bool           `parser:"| @'null'"`
}
