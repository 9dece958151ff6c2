// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ddx2x/crossgate/entity"
	"github.com/ddx2x/crossgate/unstructed"
)

func TestEnsureEnvelopeAssignsIDWhenAbsent(t *testing.T) {
	r := unstructed.New(map[string]any{})
	assigned := entity.EnsureEnvelope(r, "", "widget")
	assert.True(t, assigned)

	id := entity.ID(r, "")
	assert.NotEmpty(t, id)

	kind, _ := r.Get(entity.KindField)
	assert.Equal(t, "widget", kind)
}

func TestEnsureEnvelopeKeepsCallerSuppliedID(t *testing.T) {
	r := unstructed.New(map[string]any{"_id": "caller-id"})
	assigned := entity.EnsureEnvelope(r, "", "widget")
	assert.False(t, assigned)
	assert.Equal(t, "caller-id", entity.ID(r, ""))
}

func TestEnsureEnvelopeHonorsRenamedIDField(t *testing.T) {
	r := unstructed.New(map[string]any{})
	entity.EnsureEnvelope(r, "uuid", "gadget")
	assert.NotEmpty(t, entity.ID(r, "uuid"))
	_, hasDefault := r.Get(entity.IDField)
	assert.False(t, hasDefault)
}

func TestEnsureEnvelopeDoesNotOverwriteExistingKind(t *testing.T) {
	r := unstructed.New(map[string]any{"kind": "custom"})
	entity.EnsureEnvelope(r, "", "widget")
	kind, _ := r.Get(entity.KindField)
	assert.Equal(t, "custom", kind)
}

func TestStampVersionNoOpWhenDisabled(t *testing.T) {
	r := unstructed.New(map[string]any{})
	entity.StampVersion(r, false, 12345)
	_, ok := r.Get(entity.VersionField)
	assert.False(t, ok)
}

func TestStampVersionSetsOrdinal(t *testing.T) {
	r := unstructed.New(map[string]any{})
	entity.StampVersion(r, true, 1700000000)
	v, _ := r.Get(entity.VersionField)
	assert.EqualValues(t, 1700000000, v)
}

func TestKindOfLowercases(t *testing.T) {
	assert.Equal(t, "widget", entity.KindOf("Widget"))
}
