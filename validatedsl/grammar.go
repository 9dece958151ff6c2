// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package validatedsl

import "github.com/alecthomas/participle/v2/lexer"

// Grammar (extends filterdsl's comparison shapes with type predicates
// and cross-document comparisons; every non-cross node binds to tag):
//
//	expr    := or
//	or      := and ('||' and)*
//	and     := primary ('&&' primary)*
//	primary := '(' or ')' | compare
//	compare := field op value
//	         | 'len(' field ')' numop value
//	         | field '~' list | field '~~' list
//	         | field '^' 'null' | field '^^' 'null'
//	         | '!'? ('is_number'|'is_string') '(' field ')'
//	         | 'cross' '(' cross_args ')'
//	cross_args := side_ref ',' side_ref ',' op             // FieldPair
//	            | side_ref ',' op ',' cross_value           // SideValue
//	side_ref   := ('src'|'tag') '.' IDENT      // single Ident token
//	cross_value:= value | side_ref

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

// compareNode is an ordered choice; participle.UseLookahead(MaxLookahead)
// backtracks across alternatives that share leading tokens, as in
// filterdsl.compareNode.
type compareNode struct {
	Pos     lexer.Position `parser:""`
	Len     *lenNode       `parser:"  @@"`
	IsType  *isTypeNode    `parser:"| @@"`
	Cross   *crossNode     `parser:"| @@"`
	In      *inNode        `parser:"| @@"`
	Null    *nullNode      `parser:"| @@"`
	Compare *cmpNode       `parser:"| @@"`
}

type lenNode struct {
	Pos   lexer.Position `parser:""`
	Field string         `parser:"LenKw '(' @Ident ')'"`
	Op    string         `parser:"@(OpEq | OpNe | OpGt | OpGte | OpLt | OpLte)"`
	Value *literalNode   `parser:"@@"`
}

type isTypeNode struct {
	Pos   lexer.Position `parser:""`
	Neg   bool           `parser:"@Bang?"`
	Kind  string         `parser:"@('is_number' | 'is_string')"`
	Field string         `parser:"'(' @Ident ')'"`
}

type inNode struct {
	Pos   lexer.Position `parser:""`
	Field string         `parser:"@Ident"`
	Op    string         `parser:"@(OpNotIn | OpIn)"`
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

// crossNode: 'cross' '(' side_ref ',' crossTail ')'. The first side_ref
// is shared by both FieldPair and SideValue forms; crossTail's two
// alternatives are distinguished by a single token of lookahead (the
// next token after the first comma is either another side_ref Ident or
// a comparison operator).
type crossNode struct {
	Pos   lexer.Position `parser:""`
	Kw    string         `parser:"'cross' '('"`
	First string         `parser:"@Ident ','"`
	Tail  *crossTailNode `parser:"@@ ')'"`
}

type crossTailNode struct {
	Pos       lexer.Position  `parser:""`
	FieldPair *fieldPairTail  `parser:"  @@"`
	SideValue *sideValueTail  `parser:"| @@"`
}

type fieldPairTail struct {
	Pos    lexer.Position `parser:""`
	Second string         `parser:"@Ident ','"`
	Op     string         `parser:"@(OpEq | OpNe | OpGte | OpGt | OpLte | OpLt)"`
}

type sideValueTail struct {
	Pos   lexer.Position `parser:""`
	Op    string         `parser:"@(OpEq | OpNe | OpGte | OpGt | OpLte | OpLt) ','"`
	Value *crossValueNode `parser:"@@"`
}

// crossValueNode is a literal, or a side_ref (e.g. "tag.status") which
// resolves to a Field(g) literal against tag at build time.
type crossValueNode struct {
	Pos   lexer.Position `parser:""`
	Str   *string        `parser:"  @String"`
	Num   *string        `parser:"| @Number"`
	True  bool           `parser:"| @'true'"`
	False bool           `parser:"| @'false'"`
	Null  bool           `parser:"| @'null'"`
	Ref   *string        `parser:"| @Ident"`
}
