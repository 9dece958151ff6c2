// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package entity implements the reserved envelope fields every record
// persisted through the service facade carries (spec.md DATA MODEL):
// an identifier field, a version counter, and a lowercase kind tag.
package entity

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/ddx2x/crossgate/unstructed"
)

// IDField is the default name of the reserved identifier field.
const IDField = "_id"

// VersionField is the name of the reserved version field.
const VersionField = "version"

// KindField is the name of the reserved kind tag field.
const KindField = "kind"

// NewID generates a fresh, lexically-sortable identifier.
func NewID() string {
	return ulid.Make().String()
}

// KindOf derives the lowercase kind tag for a Go type name, e.g.
// "Widget" -> "widget". Callers pass the unqualified type name.
// Neither the service facade nor the store calls it: store.Driver's
// save tags a record lacking a kind with the Condition's table name.
func KindOf(typeName string) string {
	return strings.ToLower(typeName)
}

// EnsureEnvelope assigns an identifier if absent, sets kind if absent,
// and returns whether an identifier was freshly assigned.
func EnsureEnvelope(r unstructed.Unstructed, idField, kind string) (assignedID bool) {
	if idField == "" {
		idField = IDField
	}
	if v, ok := r.Get(idField); !ok || v == nil || v == "" {
		r.Set(idField, NewID())
		assignedID = true
	}
	if _, ok := r.Get(KindField); !ok {
		r.Set(KindField, kind)
	}
	return assignedID
}

// StampVersion sets the version field to ordinal when updateVersion is
// true; a no-op otherwise. ordinal is typically the current Unix epoch
// seconds, but callers may supply a monotonic counter instead
// (spec.md: "current Unix epoch seconds (or a caller-supplied
// ordinal)").
func StampVersion(r unstructed.Unstructed, updateVersion bool, ordinal int64) {
	if !updateVersion {
		return
	}
	r.Set(VersionField, ordinal)
}

// ID extracts the reserved identifier field as a string, empty if
// absent or not a string.
func ID(r unstructed.Unstructed, idField string) string {
	if idField == "" {
		idField = IDField
	}
	s, _ := r.Get(idField)
	v, _ := s.(string)
	return v
}
