// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package unstructed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx2x/crossgate/unstructed"
)

func TestGetMissingPath(t *testing.T) {
	u := unstructed.New(map[string]any{"a": map[string]any{"b": 1}})
	_, ok := u.Get("a.c")
	assert.False(t, ok)
	_, ok = u.Get("x.y")
	assert.False(t, ok)
}

func TestGetTraversesNestedMaps(t *testing.T) {
	u := unstructed.New(map[string]any{"a": map[string]any{"b": map[string]any{"c": 42}}})
	v, ok := u.Get("a.b.c")
	require.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestGetNonMappingInteriorFails(t *testing.T) {
	u := unstructed.New(map[string]any{"a": "scalar"})
	_, ok := u.Get("a.b")
	assert.False(t, ok)
}

func TestSetAutoVivifies(t *testing.T) {
	u := unstructed.New(map[string]any{})
	u.Set("a.b.c", 1)
	v, ok := u.Get("a.b.c")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestSetReplacesNonMappingInterior(t *testing.T) {
	u := unstructed.New(map[string]any{"a": "scalar"})
	u.Set("a.b", 2)
	v, ok := u.Get("a.b")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestRemoveIsNoOpWhenAbsent(t *testing.T) {
	u := unstructed.New(map[string]any{"a": 1})
	u.Remove("missing.path")
	assert.Equal(t, 1, u["a"])
}

func TestRemoveTerminalSegmentOnly(t *testing.T) {
	u := unstructed.New(map[string]any{"a": map[string]any{"b": 1, "c": 2}})
	u.Remove("a.b")
	_, ok := u.Get("a.b")
	assert.False(t, ok)
	v, ok := u.Get("a.c")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCutKeepsOnlyListedFields(t *testing.T) {
	u := unstructed.New(map[string]any{"a": 1, "b": 2, "c": 3})
	cut := u.Cut([]string{"a", "c", "missing"})
	assert.Equal(t, unstructed.Unstructed{"a": 1, "c": 3}, cut)
}

func TestRenameFieldsSkipsAbsent(t *testing.T) {
	u := unstructed.New(map[string]any{"old": 1})
	u.RenameFields([][2]string{{"old", "new"}, {"missing", "ignored"}})
	_, hasOld := u["old"]
	assert.False(t, hasOld)
	assert.Equal(t, 1, u["new"])
}

func TestCopyFieldNoOpWhenSrcAbsent(t *testing.T) {
	u := unstructed.New(map[string]any{"a": 1})
	u.CopyField("b", "missing")
	_, ok := u["b"]
	assert.False(t, ok)
}

func TestGetTypedCoercesAndFallsBack(t *testing.T) {
	u := unstructed.New(map[string]any{"n": float64(3)})
	assert.Equal(t, 3.0, unstructed.GetTyped(u, "n", 0.0))
	assert.Equal(t, "fallback", unstructed.GetTyped(u, "missing", "fallback"))
}

func TestCloneIsIndependent(t *testing.T) {
	u := unstructed.New(map[string]any{"a": map[string]any{"b": 1}})
	clone := u.Clone()
	clone.Set("a.b", 99)
	v, _ := u.Get("a.b")
	assert.EqualValues(t, 1, v)
}
