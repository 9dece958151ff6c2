// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package validate evaluates the validate DSL (spec.md §4.5):
// admission-control predicates checked against a pending tag document
// and, for Cross nodes, an optional previously-persisted src document.
package validate

import (
	"github.com/ddx2x/crossgate/unstructed"
	"github.com/ddx2x/crossgate/validatedsl"
	"github.com/ddx2x/crossgate/value"
)

// Match evaluates expr against the (src, tag) pair. src may be nil,
// in which case every Cross node evaluates to false (spec.md §4.5 via
// _examples/original_source's validate_match: "if src is None, return
// false").
func Match(src, tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	if e == nil {
		return true
	}
	switch e.Op {
	case validatedsl.OpAnd:
		return Match(src, tag, e.Left) && Match(src, tag, e.Right)
	case validatedsl.OpOr:
		return Match(src, tag, e.Left) || Match(src, tag, e.Right)
	case validatedsl.OpCrossFieldPair:
		return evalCrossFieldPair(src, tag, e)
	case validatedsl.OpCrossSideValue:
		return evalCrossSideValue(src, tag, e)
	case validatedsl.OpIsNumber, validatedsl.OpIsString:
		return evalIsType(tag, e)
	default:
		return basicMatch(tag, e)
	}
}

// evalCrossFieldPair compares src.get(SrcField) to tag.get(TagField).
// Absent src makes every Cross node false regardless of operator.
func evalCrossFieldPair(src, tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	if src == nil {
		return false
	}
	lhs, lok := src.Get(e.SrcField)
	rhs, rok := tag.Get(e.TagField)
	if !lok || !rok {
		return false
	}
	return cmpValues(lhs, rhs, e.LenCmp)
}

// evalCrossSideValue compares the selected side's field to a literal
// value (with a Field(g) literal in the value resolved against tag).
func evalCrossSideValue(src, tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	if src == nil {
		return false
	}
	doc := tag
	if e.CrossSide == validatedsl.SideSrc {
		doc = src
	}
	lhs, ok := doc.Get(e.Field)
	if !ok {
		return false
	}
	rhs, ok := resolveValue(tag, e.Value)
	if !ok {
		return false
	}
	return cmpValues(lhs, rhs, e.LenCmp)
}

func evalIsType(tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	v, ok := tag.Get(e.Field)
	if !ok {
		return !e.Expect
	}
	var is bool
	if e.Op == validatedsl.OpIsNumber {
		_, is = asFloat(v)
	} else {
		_, is = v.(string)
	}
	return is == e.Expect
}

// basicMatch evaluates every node that binds exclusively to tag
// (spec.md §4.5: "nodes in common with Expr resolve exclusively
// against tag").
func basicMatch(tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	switch e.Op {
	case validatedsl.OpEq, validatedsl.OpNe:
		return evalEq(tag, e)
	case validatedsl.OpGt, validatedsl.OpGte, validatedsl.OpLt, validatedsl.OpLte:
		return evalOrder(tag, e)
	case validatedsl.OpIn, validatedsl.OpNotIn:
		return evalInList(tag, e)
	case validatedsl.OpIsNull, validatedsl.OpIsNotNull:
		return evalNull(tag, e)
	case validatedsl.OpLen:
		return evalLen(tag, e)
	default:
		return false
	}
}

func evalEq(tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	raw, ok := tag.Get(e.Field)
	if !ok {
		return false
	}
	eq, typed := sameTypeEqual(raw, e.Value)
	if !typed {
		return e.Op == validatedsl.OpNe
	}
	if e.Op == validatedsl.OpEq {
		return eq
	}
	return !eq
}

func evalOrder(tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	raw, ok := tag.Get(e.Field)
	if !ok {
		return false
	}
	if e.Value.Kind != value.KindNumber {
		return false
	}
	f, ok := asFloat(raw)
	if !ok {
		return false
	}
	return orderOp(f, e.Value.Num.Float64(), e.Op)
}

func evalInList(tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	raw, ok := tag.Get(e.Field)
	if !ok {
		return false
	}
	found := false
	for _, item := range e.Value.List {
		if eq, typed := sameTypeEqual(raw, item); typed && eq {
			found = true
			break
		}
	}
	if e.Op == validatedsl.OpIn {
		return found
	}
	return !found
}

func evalNull(tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	raw, ok := tag.Get(e.Field)
	isNull := !ok || raw == nil
	if e.Op == validatedsl.OpIsNull {
		return isNull
	}
	return !isNull
}

func evalLen(tag unstructed.Unstructed, e *validatedsl.Expr) bool {
	raw, ok := tag.Get(e.Field)
	if !ok {
		return false
	}
	var n int
	switch v := raw.(type) {
	case string:
		n = len(v)
	case []any:
		n = len(v)
	case map[string]any:
		n = len(v)
	default:
		return false
	}
	if e.Value.Kind != value.KindNumber {
		return false
	}
	return orderOp(float64(n), e.Value.Num.Float64(), e.LenCmp)
}

// resolveValue converts a value.Value literal to a native Go value,
// resolving a KindField reference against doc (Cross's "Field(g)
// literals resolved against tag").
func resolveValue(doc unstructed.Unstructed, v value.Value) (any, bool) {
	if v.Kind == value.KindField {
		return doc.Get(v.Field)
	}
	return v.Native()
}

func cmpValues(lhs, rhs any, op validatedsl.Op) bool {
	switch op {
	case validatedsl.OpEq:
		return lhs == rhs
	case validatedsl.OpNe:
		return lhs != rhs
	default:
		lf, lok := asFloat(lhs)
		rf, rok := asFloat(rhs)
		if !lok || !rok {
			return false
		}
		return orderOp(lf, rf, op)
	}
}

func orderOp(a, b float64, op validatedsl.Op) bool {
	switch op {
	case validatedsl.OpGt:
		return a > b
	case validatedsl.OpGte:
		return a >= b
	case validatedsl.OpLt:
		return a < b
	case validatedsl.OpLte:
		return a <= b
	default:
		return false
	}
}

func sameTypeEqual(raw any, v value.Value) (equal bool, sameType bool) {
	switch v.Kind {
	case value.KindText:
		s, ok := raw.(string)
		if !ok {
			return false, false
		}
		return s == v.Text, true
	case value.KindNumber:
		f, ok := asFloat(raw)
		if !ok {
			return false, false
		}
		return f == v.Num.Float64(), true
	case value.KindBool:
		b, ok := raw.(bool)
		if !ok {
			return false, false
		}
		return b == v.Bool, true
	default:
		return false, false
	}
}

func asFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
