// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package filterdsl

import (
	"strconv"
	"strings"

	"github.com/ddx2x/crossgate/value"
)

// buildOr folds a left-to-right chain of Ands into binary Or nodes:
// "a || b || c" becomes Or(Or(a,b),c), matching the grammar's
// left-associative reading and Testable Property S1.
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
		return buildLen(n.Len)
	case n.Like != nil:
		return buildLike(n.Like)
	case n.In != nil:
		return buildIn(n.In)
	case n.Belong != nil:
		return buildBelong(n.Belong)
	case n.Null != nil:
		return buildNull(n.Null)
	default:
		return buildCmp(n.Compare)
	}
}

func buildLen(n *lenCompareNode) *Expr {
	return Len(n.Field, opFromLexeme(n.Op), buildLiteral(n.Value))
}

func buildLike(n *likeCompareNode) *Expr {
	return Like(n.Op == "!!", n.Field, n.Pattern)
}

func buildIn(n *inCompareNode) *Expr {
	return InList(n.Op == "~~", n.Field, buildList(n.List))
}

func buildBelong(n *belongNode) *Expr {
	return Belong(n.Op == ">>", n.Field, buildList(n.List))
}

func buildNull(n *nullNode) *Expr {
	return Null(n.Op == "^^", n.Field)
}

func buildCmp(n *cmpNode) *Expr {
	return Compare(opFromLexeme(n.Op), n.Field, buildLiteral(n.Value))
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
		return OpEq
	}
}
