// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package unstructed implements dotted-path operations over a
// semi-structured JSON-shaped document (spec.md §4.3): the record
// representation shared by the matcher, validator, and storage driver.
package unstructed

import (
	"encoding/json"
	"strings"
)

// Unstructed is a mapping from field name to arbitrary JSON-shaped
// value (string, float64/int64, bool, nil, []any, or nested
// Unstructed/map[string]any).
type Unstructed map[string]any

// New wraps a plain map as an Unstructed without copying.
func New(m map[string]any) Unstructed {
	if m == nil {
		return Unstructed{}
	}
	return Unstructed(m)
}

// splitPath splits a dotted path left-to-right into its head segment
// and the remaining path; the leaf segment retains any further dots
// only in the sense that there are none left after a full split.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// Get resolves a dotted path, returning (value, true) if every segment
// along the way exists and traverses only mapping nodes; returns
// (nil, false) if any segment is missing or traverses a non-mapping
// node, per spec.md §4.3.
func (u Unstructed) Get(path string) (any, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, false
	}
	var cur any = map[string]any(u)
	for i, seg := range segs {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		v, present := m[seg]
		if !present {
			return nil, false
		}
		if i == len(segs)-1 {
			return v, true
		}
		cur = v
	}
	return nil, false
}

// GetOr is Get with a fallback for a missing or non-traversable path.
func (u Unstructed) GetOr(path string, fallback any) any {
	v, ok := u.Get(path)
	if !ok {
		return fallback
	}
	return v
}

// GetTyped coerces the JSON-shaped value at path into T via a
// marshal/unmarshal round-trip, returning def if the path is absent or
// the value cannot be coerced into T.
func GetTyped[T any](u Unstructed, path string, def T) T {
	v, ok := u.Get(path)
	if !ok {
		return def
	}
	if typed, ok := v.(T); ok {
		return typed
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return def
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return def
	}
	return out
}

// Set inserts or replaces the value at path, auto-vivifying any
// missing interior segment as an empty mapping and replacing a
// non-mapping interior node with an empty mapping before descending
// (spec.md §4.3).
func (u Unstructed) Set(path string, v any) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return
	}
	cur := map[string]any(u)
	for i, seg := range segs {
		if i == len(segs)-1 {
			cur[seg] = v
			return
		}
		next, ok := asMap(cur[seg])
		if !ok {
			next = map[string]any{}
			cur[seg] = next
		}
		cur = next
	}
}

// Remove deletes the terminal segment of path; a no-op if the path (or
// any interior segment) is absent.
func (u Unstructed) Remove(path string) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return
	}
	cur := map[string]any(u)
	for i, seg := range segs {
		if i == len(segs)-1 {
			delete(cur, seg)
			return
		}
		next, ok := asMap(cur[seg])
		if !ok {
			return
		}
		cur = next
	}
}

// Keys returns the top-level field names, in no particular order.
func (u Unstructed) Keys() []string {
	out := make([]string, 0, len(u))
	for k := range u {
		out = append(out, k)
	}
	return out
}

// Cut returns a new Unstructed containing only the listed top-level
// fields (fields absent from u are simply absent from the result).
func (u Unstructed) Cut(fields []string) Unstructed {
	out := make(Unstructed, len(fields))
	for _, f := range fields {
		if v, ok := u[f]; ok {
			out[f] = v
		}
	}
	return out
}

// RemoveFields deletes the listed top-level fields in place.
func (u Unstructed) RemoveFields(fields []string) {
	for _, f := range fields {
		delete(u, f)
	}
}

// RenameFields renames top-level fields in place per (old, new) pairs;
// a pair whose old name is absent is skipped.
func (u Unstructed) RenameFields(pairs [][2]string) {
	for _, p := range pairs {
		old, newName := p[0], p[1]
		if v, ok := u[old]; ok {
			delete(u, old)
			u[newName] = v
		}
	}
}

// CopyField copies the top-level field src to dst in place; a no-op if
// src is absent.
func (u Unstructed) CopyField(dst, src string) {
	if v, ok := u[src]; ok {
		u[dst] = v
	}
}

// Clone returns a deep copy of u via a JSON round-trip (sufficient for
// the JSON-shaped value space this package operates over).
func (u Unstructed) Clone() Unstructed {
	raw, err := json.Marshal(map[string]any(u))
	if err != nil {
		return Unstructed{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return Unstructed{}
	}
	return Unstructed(out)
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Unstructed:
		return map[string]any(m), true
	default:
		return nil, false
	}
}
