// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package value defines the literal-value sum type shared by the filter
// and validate DSLs.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies which alternative of Value is populated.
type Kind int

// Value kinds. Exactly one of Value's typed fields is meaningful for a
// given Kind.
const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
	KindLenOf
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindLenOf:
		return "len_of"
	case KindField:
		return "field"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Number preserves the integer-vs-floating distinction of a numeric
// literal so downstream compilers can pick native integer encodings.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

// NewInt builds an integer Number.
func NewInt(n int64) Number { return Number{Int: n} }

// NewFloat builds a floating-point Number.
func NewFloat(f float64) Number { return Number{IsFloat: true, Float: f} }

// Float64 returns the Number as a float64 regardless of representation.
func (n Number) Float64() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

func (n Number) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'g', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

// Value is the literal-value sum type used throughout the AST:
// Text(s) | Number(n) | Bool(b) | Null | List(Value*) | LenOf(field) | Field(f).
type Value struct {
	Kind Kind

	Text   string
	Num    Number
	Bool   bool
	List   []Value
	LenOf  string // field name whose length is referenced
	Field  string // field name whose value is referenced
}

// Null is the shared null literal value.
var Null = Value{Kind: KindNull}

// Text builds a text literal.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Int builds an integer literal.
func Int(n int64) Value { return Value{Kind: KindNumber, Num: NewInt(n)} }

// Float builds a floating-point literal.
func Float(f float64) Value { return Value{Kind: KindNumber, Num: NewFloat(f)} }

// Bool builds a boolean literal.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List builds a list literal.
func List(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

// LenOf builds a length-accessor literal (the lhs of `len(field) op value`).
func LenOf(field string) Value { return Value{Kind: KindLenOf, LenOf: field} }

// Field builds a cross-field reference literal ("the value of another
// field in the record").
func Field(field string) Value { return Value{Kind: KindField, Field: field} }

// IsNull reports whether v is the null literal.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Clone returns a deep, independent copy of v.
func (v Value) Clone() Value {
	out := v
	if v.Kind == KindList {
		out.List = make([]Value, len(v.List))
		for i, e := range v.List {
			out.List[i] = e.Clone()
		}
	}
	return out
}

// Homogeneous reports whether every element of a KindList value shares
// the same literal kind. Used by In/NotIn compilation (spec invariant:
// "List operands in In/NotIn are homogeneously typed").
func (v Value) Homogeneous() bool {
	if v.Kind != KindList || len(v.List) == 0 {
		return true
	}
	first := v.List[0].Kind
	for _, e := range v.List[1:] {
		if e.Kind != first {
			return false
		}
	}
	return true
}

// Native converts v into a plain Go value suitable for comparisons
// against decoded record fields: string, int64/float64, bool, nil,
// or []any for lists. KindLenOf/KindField are not resolvable without a
// record and return (nil, false).
func (v Value) Native() (any, bool) {
	switch v.Kind {
	case KindNull:
		return nil, true
	case KindText:
		return v.Text, true
	case KindBool:
		return v.Bool, true
	case KindNumber:
		if v.Num.IsFloat {
			return v.Num.Float, true
		}
		return v.Num.Int, true
	case KindList:
		out := make([]any, 0, len(v.List))
		for _, e := range v.List {
			n, ok := e.Native()
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	default:
		return nil, false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindText:
		return "'" + v.Text + "'"
	case KindNumber:
		return v.Num.String()
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindLenOf:
		return "len(" + v.LenOf + ")"
	case KindField:
		return v.Field
	default:
		return "<invalid>"
	}
}
