// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package match implements the in-memory filter matcher (spec.md
// §4.4): evaluating a filterdsl.Expr directly against decoded records,
// used for watch-stream local rechecking and for backends that cannot
// push a filter down to storage.
package match

import (
	"regexp"

	"github.com/ddx2x/crossgate/filterdsl"
	"github.com/ddx2x/crossgate/unstructed"
	"github.com/ddx2x/crossgate/value"
)

// Matchs returns only the records satisfying expr, preserving the
// original relative order. A nil expr matches every record.
func Matchs(records []unstructed.Unstructed, expr *filterdsl.Expr) []unstructed.Unstructed {
	if expr == nil {
		out := make([]unstructed.Unstructed, len(records))
		copy(out, records)
		return out
	}
	out := make([]unstructed.Unstructed, 0, len(records))
	for _, r := range records {
		if Eval(r, expr) {
			out = append(out, r)
		}
	}
	return out
}

// MatchByPredicate parses text and matches it against a single record;
// lives here rather than as an Unstructed method to avoid an import
// cycle (unstructed cannot depend on filterdsl/match without one).
func MatchByPredicate(r unstructed.Unstructed, text string) (bool, error) {
	expr, err := filterdsl.Parse(text)
	if err != nil {
		return false, err
	}
	return Eval(r, expr), nil
}

// Eval evaluates a single Expr node against record r.
func Eval(r unstructed.Unstructed, e *filterdsl.Expr) bool {
	if e == nil {
		return true
	}
	switch e.Op {
	case filterdsl.OpAnd:
		return Eval(r, e.Left) && Eval(r, e.Right)
	case filterdsl.OpOr:
		return Eval(r, e.Left) || Eval(r, e.Right)
	case filterdsl.OpEq:
		return evalEq(r, e, true)
	case filterdsl.OpNe:
		return evalEq(r, e, false)
	case filterdsl.OpGt, filterdsl.OpGte, filterdsl.OpLt, filterdsl.OpLte:
		return evalOrder(r, e)
	case filterdsl.OpLike, filterdsl.OpNotLike:
		return evalLike(r, e)
	case filterdsl.OpIn, filterdsl.OpNotIn:
		return evalInList(r, e)
	case filterdsl.OpIsNull, filterdsl.OpIsNotNull:
		return evalNull(r, e)
	case filterdsl.OpLen:
		return evalLen(r, e)
	case filterdsl.OpBelong, filterdsl.OpNoBelong:
		return evalBelong(r, e)
	default:
		return false
	}
}

// evalEq implements Eq (wantEqual=true) / Ne (wantEqual=false) per
// spec.md §4.4: exact equality when the decoded field and the literal
// share a kind; a kind mismatch evaluates false for Eq and true for Ne
// (this is the spec's own stated contract, not the reference Rust
// implementation's — see DESIGN.md).
func evalEq(r unstructed.Unstructed, e *filterdsl.Expr, wantEqual bool) bool {
	raw, ok := r.Get(e.Field)
	if !ok {
		return false
	}
	eq, typed := sameTypeEqual(raw, e.Value)
	if !typed {
		return !wantEqual
	}
	if wantEqual {
		return eq
	}
	return !eq
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

func evalOrder(r unstructed.Unstructed, e *filterdsl.Expr) bool {
	raw, ok := r.Get(e.Field)
	if !ok {
		return false
	}
	if e.Value.Kind == value.KindNumber {
		f, ok := asFloat(raw)
		if !ok {
			return false
		}
		return compareOrdered(f, e.Value.Num.Float64(), e.Op)
	}
	if e.Value.Kind == value.KindText {
		s, ok := raw.(string)
		if !ok {
			return false
		}
		return compareOrdered(s, e.Value.Text, e.Op)
	}
	return false
}

func compareOrdered[T int | float64 | string](a, b T, op filterdsl.Op) bool {
	switch op {
	case filterdsl.OpGt:
		return a > b
	case filterdsl.OpGte:
		return a >= b
	case filterdsl.OpLt:
		return a < b
	case filterdsl.OpLte:
		return a <= b
	default:
		return false
	}
}

func evalLike(r unstructed.Unstructed, e *filterdsl.Expr) bool {
	raw, ok := r.Get(e.Field)
	if !ok {
		return false
	}
	s, ok := raw.(string)
	if !ok {
		return false
	}
	re, err := regexp.Compile(e.Value.Text)
	if err != nil {
		return false
	}
	matched := re.MatchString(s)
	if e.Op == filterdsl.OpNotLike {
		return !matched
	}
	return matched
}

func evalInList(r unstructed.Unstructed, e *filterdsl.Expr) bool {
	raw, ok := r.Get(e.Field)
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
	if e.Op == filterdsl.OpIn {
		return found
	}
	return !found
}

func evalNull(r unstructed.Unstructed, e *filterdsl.Expr) bool {
	raw, ok := r.Get(e.Field)
	isNull := !ok || raw == nil
	if e.Op == filterdsl.OpIsNull {
		return isNull
	}
	return !isNull
}

func evalLen(r unstructed.Unstructed, e *filterdsl.Expr) bool {
	raw, ok := r.Get(e.Field)
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
	return compareOrdered(float64(n), e.Value.Num.Float64(), e.LenCmp)
}

// evalBelong implements Belong/NoBelong. Per spec.md §4.4, an empty
// lhs or rhs list makes both Belong and NoBelong false.
func evalBelong(r unstructed.Unstructed, e *filterdsl.Expr) bool {
	lhs, ok := r.Get(e.Field)
	if !ok {
		return false
	}
	lhsList, ok := lhs.([]any)
	if !ok || len(lhsList) == 0 || len(e.Value.List) == 0 {
		return false
	}
	for _, item := range lhsList {
		member := false
		for _, rhs := range e.Value.List {
			if eq, typed := sameTypeEqual(item, rhs); typed && eq {
				member = true
				break
			}
		}
		if !member {
			if e.Op == filterdsl.OpBelong {
				return false
			}
			return true
		}
	}
	if e.Op == filterdsl.OpBelong {
		return true
	}
	return false
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
