// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package filterdsl

import (
	"fmt"

	"github.com/ddx2x/crossgate/value"
)

// Op identifies an Expr node's operator.
type Op int

// Operator kinds, one per filter DSL node shape (spec.md §4.1, §6).
const (
	OpAnd Op = iota
	OpOr
	OpEq
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpLike
	OpNotLike
	OpIn
	OpNotIn
	OpIsNull
	OpIsNotNull
	OpLen
	OpBelong
	OpNoBelong
)

func (o Op) String() string {
	switch o {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpLike:
		return "!"
	case OpNotLike:
		return "!!"
	case OpIn:
		return "~"
	case OpNotIn:
		return "~~"
	case OpIsNull:
		return "^"
	case OpIsNotNull:
		return "^^"
	case OpLen:
		return "len"
	case OpBelong:
		return "<<"
	case OpNoBelong:
		return ">>"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Expr is the filter DSL's AST node. It is an immutable sum type:
// exactly the fields relevant to Op are populated. Left/Right hold
// child nodes for And/Or; Field/Value hold the operand of every other
// node. LenCmp additionally carries the inner comparison operator for
// Len nodes (the node itself is always "length compared to a number").
type Expr struct {
	Op Op

	Left  *Expr
	Right *Expr

	Field string
	Value value.Value

	// LenCmp is only meaningful when Op == OpLen: the comparison
	// applied between the field's length and Value.
	LenCmp Op

	// Pos is the 0-based byte offset into the source text where this
	// node's leading token began, used for diagnostics. Only And/Or
	// nodes built by Parse set it; leaf nodes leave it zero.
	Pos int
}

// And builds an OpAnd node.
func And(l, r *Expr) *Expr { return &Expr{Op: OpAnd, Left: l, Right: r} }

// Or builds an OpOr node.
func Or(l, r *Expr) *Expr { return &Expr{Op: OpOr, Left: l, Right: r} }

// Compare builds a field-operator-value node (Eq/Ne/Gt/Gte/Lt/Lte).
func Compare(op Op, field string, v value.Value) *Expr {
	return &Expr{Op: op, Field: field, Value: v}
}

// Like builds an OpLike or OpNotLike node.
func Like(negate bool, field string, pattern string) *Expr {
	op := OpLike
	if negate {
		op = OpNotLike
	}
	return &Expr{Op: op, Field: field, Value: value.Text(pattern)}
}

// InList builds an OpIn or OpNotIn node.
func InList(negate bool, field string, list value.Value) *Expr {
	op := OpIn
	if negate {
		op = OpNotIn
	}
	return &Expr{Op: op, Field: field, Value: list}
}

// Belong builds an OpBelong or OpNoBelong node.
func Belong(negate bool, field string, list value.Value) *Expr {
	op := OpBelong
	if negate {
		op = OpNoBelong
	}
	return &Expr{Op: op, Field: field, Value: list}
}

// Null builds an OpIsNull or OpIsNotNull node.
func Null(negate bool, field string) *Expr {
	op := OpIsNull
	if negate {
		op = OpIsNotNull
	}
	return &Expr{Op: op, Field: field}
}

// Len builds an OpLen node: the length of field, compared via cmp to n.
func Len(field string, cmp Op, n value.Value) *Expr {
	return &Expr{Op: OpLen, Field: field, LenCmp: cmp, Value: n}
}

// Clone deep-copies e, including descendants and the Value payload.
func (e *Expr) Clone() *Expr {
	if e == nil {
		return nil
	}
	out := *e
	out.Left = e.Left.Clone()
	out.Right = e.Right.Clone()
	out.Value = e.Value.Clone()
	return &out
}

func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Op {
	case OpAnd, OpOr:
		return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
	case OpLike, OpNotLike:
		return fmt.Sprintf("%s %s %s", e.Field, e.Op, e.Value)
	case OpIn, OpNotIn, OpBelong, OpNoBelong:
		return fmt.Sprintf("%s %s %s", e.Field, e.Op, e.Value)
	case OpIsNull, OpIsNotNull:
		return fmt.Sprintf("%s %s", e.Field, e.Op)
	case OpLen:
		return fmt.Sprintf("len(%s) %s %s", e.Field, e.LenCmp, e.Value)
	default:
		return fmt.Sprintf("%s %s %s", e.Field, e.Op, e.Value)
	}
}
