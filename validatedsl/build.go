// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package validatedsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ddx2x/crossgate/value"
)

func buildOr(n *orNode) *Expr {
	expr := buildAnd(n.Ands[0])
	for _, a := range n.Ands[1:] {
		expr = &Expr{Op: OpOr, Left: expr, Right: buildAnd(a), Pos: n.Pos.Offset}
	}
	return expr
}

func buildAnd(n *andNode) *Expr {
	expr := buildPrimary(n.Primaries[0])
	for _, p := range n.Primaries[1:] {
		expr = &Expr{Op: OpAnd, Left: expr, Right: buildPrimary(p), Pos: n.Pos.Offset}
	}
	return expr
}

func buildPrimary(n *primaryNode) *Expr {
	if n.Paren != nil {
		return buildOr(n.Paren)
	}
	return buildCompare(n.Compare)
}

func buildCompare(n *compareNode) *Expr {
	switch {
	case n.Len != nil:
		return Len(n.Len.Field, opFromLexeme(n.Len.Op), buildLiteral(n.Len.Value))
	case n.IsType != nil:
		return IsType(n.IsType.Kind == "is_string", n.IsType.Field, !n.IsType.Neg)
	case n.Cross != nil:
		return buildCross(n.Cross)
	case n.In != nil:
		return InList(n.In.Op == "~~", n.In.Field, buildList(n.In.List))
	case n.Null != nil:
		return Null(n.Null.Op == "^^", n.Null.Field)
	default:
		return Compare(opFromLexeme(n.Compare.Op), n.Compare.Field, buildLiteral(n.Compare.Value))
	}
}

func buildCross(n *crossNode) *Expr {
	side, field := splitSideRef(n.First)
	switch {
	case n.Tail.FieldPair != nil:
		_, tagField := splitSideRef(n.Tail.FieldPair.Second)
		return CrossFieldPair(field, tagField, opFromLexeme(n.Tail.FieldPair.Op))
	default:
		sv := n.Tail.SideValue
		return CrossSideValue(side, field, opFromLexeme(sv.Op), buildCrossValue(sv.Value))
	}
}

// splitSideRef splits a lexed "src.field" / "tag.field" token into its
// side selector and dotted field path (which may itself contain dots,
// e.g. "tag.meta.level").
func splitSideRef(ref string) (Side, string) {
	idx := strings.IndexByte(ref, '.')
	if idx < 0 {
		return SideTag, ref
	}
	prefix, rest := ref[:idx], ref[idx+1:]
	if prefix == "src" {
		return SideSrc, rest
	}
	return SideTag, rest
}

func buildCrossValue(n *crossValueNode) value.Value {
	switch {
	case n.Str != nil:
		return value.Text(*n.Str)
	case n.Num != nil:
		return parseNumber(*n.Num)
	case n.True:
		return value.Bool(true)
	case n.False:
		return value.Bool(false)
	case n.Ref != nil:
		_, field := splitSideRef(*n.Ref)
		return value.Field(field)
	default:
		return value.Null
	}
}

func buildList(n *listNode) value.Value {
	vs := make([]value.Value, len(n.Values))
	for i, lit := range n.Values {
		vs[i] = buildLiteral(lit)
	}
	return value.List(vs...)
}

func buildLiteral(n *literalNode) value.Value {
	switch {
	case n.Str != nil:
		return value.Text(*n.Str)
	case n.Num != nil:
		return parseNumber(*n.Num)
	case n.True:
		return value.Bool(true)
	case n.False:
		return value.Bool(false)
	default:
		return value.Null
	}
}

func parseNumber(text string) value.Value {
	if strings.Contains(text, ".") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return value.Null
		}
		return value.Float(f)
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return value.Null
		}
		return value.Float(f)
	}
	return value.Int(i)
}

func opFromLexeme(lexeme string) Op {
	switch lexeme {
	case "=":
		return OpEq
	case "!=":
		return OpNe
	case ">":
		return OpGt
	case ">=":
		return OpGte
	case "<":
		return OpLt
	case "<=":
		return OpLte
	default:
		panic(fmt.Sprintf("validatedsl: unrecognized comparator lexeme %q", lexeme))
	}
}
