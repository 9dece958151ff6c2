// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package validatedsl

import (
	"fmt"

	"github.com/ddx2x/crossgate/value"
)

// Op identifies an Expr node's operator. The first block mirrors
// filterdsl.Op so the two matchers share semantics for common nodes;
// the remainder are validate-only additions.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpEq
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpNotIn
	OpIsNull
	OpIsNotNull
	OpLen
	OpIsNumber
	OpIsString
	OpCrossFieldPair
	OpCrossSideValue
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
	case OpIsNumber:
		return "is_number"
	case OpIsString:
		return "is_string"
	case OpCrossFieldPair:
		return "cross(field_pair)"
	case OpCrossSideValue:
		return "cross(side_value)"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Side selects which document of a (src, tag) pair a cross-document
// comparison reads from.
type Side int

const (
	SideSrc Side = iota
	SideTag
)

func (s Side) String() string {
	if s == SideSrc {
		return "src"
	}
	return "tag"
}

// Expr is the validate DSL's AST node, an immutable sum type. Every
// node except And/Or/Cross* evaluates exclusively against the tag
// document (spec.md §4.5); only Cross nodes ever consult src.
type Expr struct {
	Op Op

	Left  *Expr
	Right *Expr

	// Field/Value are populated for Eq/Ne/Gt/Gte/Lt/Lte/In/NotIn/
	// IsNull/IsNotNull/Len/IsNumber/IsString.
	Field string
	Value value.Value
	// LenCmp carries the inner comparison for Len nodes.
	LenCmp Op
	// Expect carries the expected boolean for IsNumber/IsString
	// ("expect=true means must be this type").
	Expect bool

	// FieldPair: compares src.get(SrcField) to tag.get(TagField) by
	// LenCmp (reused as the comparator for this node too).
	SrcField string
	TagField string

	// SideValue: compares that-side's Field to Value (with a Field
	// literal in Value resolved against tag) by LenCmp.
	CrossSide Side

	Pos int
}

// And builds an OpAnd node.
func And(l, r *Expr) *Expr { return &Expr{Op: OpAnd, Left: l, Right: r} }

// Or builds an OpOr node.
func Or(l, r *Expr) *Expr { return &Expr{Op: OpOr, Left: l, Right: r} }

// Compare builds an Eq/Ne/Gt/Gte/Lt/Lte node against tag.
func Compare(op Op, field string, v value.Value) *Expr {
	return &Expr{Op: op, Field: field, Value: v}
}

// InList builds an In/NotIn node against tag.
func InList(negate bool, field string, list value.Value) *Expr {
	op := OpIn
	if negate {
		op = OpNotIn
	}
	return &Expr{Op: op, Field: field, Value: list}
}

// Null builds an IsNull/IsNotNull node against tag.
func Null(negate bool, field string) *Expr {
	op := OpIsNull
	if negate {
		op = OpIsNotNull
	}
	return &Expr{Op: op, Field: field}
}

// Len builds a Len node against tag.
func Len(field string, cmp Op, n value.Value) *Expr {
	return &Expr{Op: OpLen, Field: field, LenCmp: cmp, Value: n}
}

// IsType builds an IsNumber/IsString node against tag.
func IsType(str bool, field string, expect bool) *Expr {
	op := OpIsNumber
	if str {
		op = OpIsString
	}
	return &Expr{Op: op, Field: field, Expect: expect}
}

// CrossFieldPair builds a Cross(FieldPair(sf, tf, cmp)) node.
func CrossFieldPair(srcField, tagField string, cmp Op) *Expr {
	return &Expr{Op: OpCrossFieldPair, SrcField: srcField, TagField: tagField, LenCmp: cmp}
}

// CrossSideValue builds a Cross(SideValue(side, field, cmp, v)) node.
func CrossSideValue(side Side, field string, cmp Op, v value.Value) *Expr {
	return &Expr{Op: OpCrossSideValue, CrossSide: side, Field: field, LenCmp: cmp, Value: v}
}

// Clone deep-copies e.
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
	case OpIsNull, OpIsNotNull:
		return fmt.Sprintf("%s %s", e.Field, e.Op)
	case OpLen:
		return fmt.Sprintf("len(%s) %s %s", e.Field, e.LenCmp, e.Value)
	case OpIsNumber, OpIsString:
		return fmt.Sprintf("%s(%s)=%v", e.Op, e.Field, e.Expect)
	case OpCrossFieldPair:
		return fmt.Sprintf("cross(src.%s, tag.%s, %s)", e.SrcField, e.TagField, e.LenCmp)
	case OpCrossSideValue:
		return fmt.Sprintf("cross(%s.%s, %s, %s)", e.CrossSide, e.Field, e.LenCmp, e.Value)
	default:
		return fmt.Sprintf("%s %s %s", e.Field, e.Op, e.Value)
	}
}
