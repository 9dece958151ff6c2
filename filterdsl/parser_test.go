// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package filterdsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx2x/crossgate/filterdsl"
	"github.com/ddx2x/crossgate/value"
)

// TestSeedS1 verifies Testable Property S1: the And/Or fold is
// left-associative and Or binds loosest, matching the grammar's
// or := and ('||' and)* shape.
func TestSeedS1(t *testing.T) {
	expr, err := filterdsl.Parse("a=1 && b=2 || c=3")
	require.NoError(t, err)

	require.Equal(t, filterdsl.OpOr, expr.Op)
	require.Equal(t, filterdsl.OpAnd, expr.Left.Op)
	require.Equal(t, filterdsl.OpEq, expr.Right.Op)
	assert.Equal(t, "c", expr.Right.Field)

	and := expr.Left
	require.Equal(t, filterdsl.OpEq, and.Left.Op)
	assert.Equal(t, "a", and.Left.Field)
	require.Equal(t, filterdsl.OpEq, and.Right.Op)
	assert.Equal(t, "b", and.Right.Field)
}

func TestParseComparisons(t *testing.T) {
	cases := []struct {
		text string
		op   filterdsl.Op
	}{
		{"a=1", filterdsl.OpEq},
		{"a!=1", filterdsl.OpNe},
		{"a>1", filterdsl.OpGt},
		{"a>=1", filterdsl.OpGte},
		{"a<1", filterdsl.OpLt},
		{"a<=1", filterdsl.OpLte},
	}
	for _, c := range cases {
		expr, err := filterdsl.Parse(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.op, expr.Op, c.text)
		assert.Equal(t, "a", expr.Field, c.text)
	}
}

func TestParseLikeNotLike(t *testing.T) {
	expr, err := filterdsl.Parse(`name ! '^b.'`)
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpLike, expr.Op)
	assert.Equal(t, "^b.", expr.Value.Text)

	expr, err = filterdsl.Parse(`name !! '^b.'`)
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpNotLike, expr.Op)
}

func TestParseInNotIn(t *testing.T) {
	expr, err := filterdsl.Parse("a ~ (1,3)")
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpIn, expr.Op)
	assert.Len(t, expr.Value.List, 2)

	expr, err = filterdsl.Parse("a ~~ (1,3)")
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpNotIn, expr.Op)
}

func TestParseBelongNoBelong(t *testing.T) {
	expr, err := filterdsl.Parse("alist<<(1,2,3)")
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpBelong, expr.Op)

	expr, err = filterdsl.Parse("alist>>(1,2,3)")
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpNoBelong, expr.Op)
}

func TestParseNull(t *testing.T) {
	expr, err := filterdsl.Parse("active ^ null")
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpIsNull, expr.Op)

	expr, err = filterdsl.Parse("active ^^ null")
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpIsNotNull, expr.Op)
}

func TestParseLen(t *testing.T) {
	expr, err := filterdsl.Parse("len(name)>0")
	require.NoError(t, err)
	assert.Equal(t, filterdsl.OpLen, expr.Op)
	assert.Equal(t, "name", expr.Field)
	assert.Equal(t, filterdsl.OpGt, expr.LenCmp)
	assert.Equal(t, int64(0), expr.Value.Num.Int)
}

func TestParseParenAndPrecedence(t *testing.T) {
	expr, err := filterdsl.Parse("(a=1 || b=2) && c=3")
	require.NoError(t, err)
	require.Equal(t, filterdsl.OpAnd, expr.Op)
	require.Equal(t, filterdsl.OpOr, expr.Left.Op)
}

func TestParseNumberRepresentation(t *testing.T) {
	expr, err := filterdsl.Parse("a=1.5")
	require.NoError(t, err)
	assert.True(t, expr.Value.Num.IsFloat)

	expr, err = filterdsl.Parse("a=1")
	require.NoError(t, err)
	assert.False(t, expr.Value.Num.IsFloat)
}

func TestParseLiteralsBoolAndString(t *testing.T) {
	expr, err := filterdsl.Parse("a=true")
	require.NoError(t, err)
	assert.Equal(t, value.Bool(true), expr.Value)

	expr, err = filterdsl.Parse(`a='hello'`)
	require.NoError(t, err)
	assert.Equal(t, "hello", expr.Value.Text)
}

func TestParseErrorReportsOffendingText(t *testing.T) {
	_, err := filterdsl.Parse("a=@@@")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a=@@@")
}

func TestParseEmptyTextIsMatchAll(t *testing.T) {
	expr, err := filterdsl.Parse("")
	require.NoError(t, err)
	assert.Nil(t, expr)
}

func TestCloneIsIndependent(t *testing.T) {
	expr := filterdsl.MustParse("a ~ (1,2)")
	clone := expr.Clone()
	clone.Value.List[0] = value.Int(99)
	assert.Equal(t, int64(1), expr.Value.List[0].Num.Int)
}
