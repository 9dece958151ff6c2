// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package compile translates a filter DSL Expr (spec.md §4.7) into a
// parameterized PostgreSQL predicate over a JSONB document column.
// Nodes outside the supported set fail compilation explicitly; the
// matcher package covers the remainder for watch-stream filtering.
package compile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ddx2x/crossgate/errs"
	"github.com/ddx2x/crossgate/filterdsl"
	"github.com/ddx2x/crossgate/value"
)

// Column is the name of the JSONB document column every compiled
// predicate addresses fields within.
const Column = "data"

// isoDateLayout is the timestamp format recognised inside
// ISODate(...) literals (spec.md §4.1: "ISODate(YYYY-MM-DD HH:MM:SS)").
const isoDateLayout = "2006-01-02 15:04:05"

// Filter is the compiled form of an Expr: a parameterized SQL
// predicate plus the original source text. Watch-stream delivery
// (spec.md §4.8) replays SourceText through the in-memory matcher to
// filter a tailing change feed the backend itself cannot filter.
type Filter struct {
	SQL        string
	Args       []any
	SourceText string
}

// Options configures identifier/timestamp coercion (spec.md §4.7).
type Options struct {
	// EnableConvert turns on string-literal coercion for IDField and
	// ISODate(...) literals.
	EnableConvert bool
	// IDField is the reserved identifier field name; only meaningful
	// when EnableConvert is set.
	IDField string
}

// Compile translates expr into a PostgreSQL predicate against Column.
// sourceText is retained verbatim on the result for watch-stream reuse.
func Compile(expr *filterdsl.Expr, sourceText string, opts Options) (*Filter, error) {
	if expr == nil {
		return &Filter{SQL: "TRUE", SourceText: sourceText}, nil
	}
	c := &compiler{opts: opts}
	sql, err := c.compile(expr)
	if err != nil {
		return nil, err
	}
	return &Filter{SQL: sql, Args: c.args, SourceText: sourceText}, nil
}

type compiler struct {
	opts Options
	args []any
}

func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return "$" + strconv.Itoa(len(c.args))
}

func (c *compiler) compile(e *filterdsl.Expr) (string, error) {
	switch e.Op {
	case filterdsl.OpAnd:
		return c.compileBool(e, "AND")
	case filterdsl.OpOr:
		return c.compileBool(e, "OR")
	case filterdsl.OpEq, filterdsl.OpNe, filterdsl.OpGt, filterdsl.OpGte, filterdsl.OpLt, filterdsl.OpLte:
		return c.compileCompare(e)
	case filterdsl.OpLike:
		return c.compileLike(e)
	case filterdsl.OpIn, filterdsl.OpNotIn:
		return c.compileInList(e)
	case filterdsl.OpNotLike:
		return "", compileErr(e, "NotLike is not supported by the PostgreSQL compiler")
	default:
		return "", compileErr(e, fmt.Sprintf("operator %s is not supported by the PostgreSQL compiler; use the in-memory matcher for watch filtering", e.Op))
	}
}

func (c *compiler) compileBool(e *filterdsl.Expr, joiner string) (string, error) {
	left, err := c.compile(e.Left)
	if err != nil {
		return "", err
	}
	right, err := c.compile(e.Right)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s %s %s)", left, joiner, right), nil
}

func (c *compiler) compileCompare(e *filterdsl.Expr) (string, error) {
	lit, extractor, err := c.literal(e.Field, e.Value)
	if err != nil {
		return "", err
	}
	placeholder := c.bind(lit)
	op := sqlCompareOp(e.Op)
	return fmt.Sprintf("(%s %s %s)", extractor, op, placeholder), nil
}

func (c *compiler) compileLike(e *filterdsl.Expr) (string, error) {
	pattern, ok := e.Value.Native()
	if !ok {
		return "", compileErr(e, "Like requires a text literal")
	}
	placeholder := c.bind(pattern)
	return fmt.Sprintf("(%s->>%s ~ %s)", Column, quoteLit(e.Field), placeholder), nil
}

func (c *compiler) compileInList(e *filterdsl.Expr) (string, error) {
	if !e.Value.Homogeneous() {
		return "", compileErr(e, "In/NotIn list elements must share one literal kind")
	}
	extractor, pgType, err := c.extractorFor(e.Field, e.Value.List)
	if err != nil {
		return "", err
	}
	native, ok := e.Value.Native()
	if !ok {
		return "", compileErr(e, "In/NotIn list must be fully literal")
	}
	placeholder := c.bind(native)
	op := "="
	keyword := "ANY"
	if e.Op == filterdsl.OpNotIn {
		op = "<>"
		keyword = "ALL"
	}
	return fmt.Sprintf("(%s %s %s(%s::%s[]))", extractor, op, keyword, placeholder, pgType), nil
}

// literal resolves a single-value comparison operand, returning the
// coerced native value and the JSONB extraction expression to compare
// it against.
func (c *compiler) literal(field string, v value.Value) (any, string, error) {
	if c.opts.EnableConvert && c.opts.IDField != "" && field == c.opts.IDField && v.Kind == value.KindText {
		return v.Text, fmt.Sprintf("%s->>%s", Column, quoteLit(field)), nil
	}
	if v.Kind == value.KindText {
		if c.opts.EnableConvert {
			if t, ok := parseISODate(v.Text); ok {
				return t, fmt.Sprintf("(%s->>%s)::timestamptz", Column, quoteLit(field)), nil
			}
		}
		return v.Text, fmt.Sprintf("%s->>%s", Column, quoteLit(field)), nil
	}
	if v.Kind == value.KindNumber {
		return v.Num.Float64(), fmt.Sprintf("(%s->>%s)::numeric", Column, quoteLit(field)), nil
	}
	if v.Kind == value.KindBool {
		return v.Bool, fmt.Sprintf("(%s->>%s)::boolean", Column, quoteLit(field)), nil
	}
	return nil, "", compileErr(&filterdsl.Expr{Field: field, Value: v}, "unsupported literal kind for comparison")
}

// extractorFor picks the JSONB extraction expression and PostgreSQL
// array element type for a homogeneous list of literals.
func (c *compiler) extractorFor(field string, elems []value.Value) (extractor, pgType string, err error) {
	if c.opts.EnableConvert && c.opts.IDField != "" && field == c.opts.IDField {
		return fmt.Sprintf("%s->>%s", Column, quoteLit(field)), "text", nil
	}
	kind := value.KindText
	if len(elems) > 0 {
		kind = elems[0].Kind
	}
	switch kind {
	case value.KindNumber:
		return fmt.Sprintf("(%s->>%s)::numeric", Column, quoteLit(field)), "numeric", nil
	case value.KindBool:
		return fmt.Sprintf("(%s->>%s)::boolean", Column, quoteLit(field)), "boolean", nil
	default:
		return fmt.Sprintf("%s->>%s", Column, quoteLit(field)), "text", nil
	}
}

func sqlCompareOp(op filterdsl.Op) string {
	switch op {
	case filterdsl.OpEq:
		return "="
	case filterdsl.OpNe:
		return "<>"
	case filterdsl.OpGt:
		return ">"
	case filterdsl.OpGte:
		return ">="
	case filterdsl.OpLt:
		return "<"
	case filterdsl.OpLte:
		return "<="
	default:
		return "="
	}
}

func parseISODate(text string) (time.Time, bool) {
	if !strings.HasPrefix(text, "ISODate(") || !strings.HasSuffix(text, ")") {
		return time.Time{}, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "ISODate("), ")")
	t, err := time.Parse(isoDateLayout, inner)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// quoteLit renders a JSONB field key as a single-quoted SQL literal.
// Field names come from parsed DSL text, never from raw user input
// concatenated into SQL, but are still quote-escaped defensively.
func quoteLit(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func compileErr(e *filterdsl.Expr, msg string) error {
	return errs.CompileError(e.Field, e.Op.String(), msg)
}
