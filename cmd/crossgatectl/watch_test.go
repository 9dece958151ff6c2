// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx2x/crossgate/store"
	"github.com/ddx2x/crossgate/unstructed"
)

func TestWatchCommandRequiresExactlyOneTableArg(t *testing.T) {
	cmd := NewWatchCmd()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"widgets"}))
}

func TestWatchEventRendersObjectForAddedAndUpdated(t *testing.T) {
	ev := store.Event{Type: store.EventAdded, Object: unstructed.New(map[string]any{"name": "sprocket"})}

	out := watchEvent{Type: ev.Type.String(), Key: ev.Key, Msg: ev.Msg}
	if ev.Object != nil {
		out.Object = ev.Object
	}

	require.Equal(t, "ADDED", out.Type)
	assert.Equal(t, "sprocket", out.Object["name"])
	assert.Nil(t, out.Key)
}

func TestWatchEventRendersKeyForDeleted(t *testing.T) {
	ev := store.Event{Type: store.EventDeleted, Key: map[string]any{"_id": "abc"}}

	out := watchEvent{Type: ev.Type.String(), Key: ev.Key, Msg: ev.Msg}
	if ev.Object != nil {
		out.Object = ev.Object
	}

	assert.Equal(t, "DELETED", out.Type)
	assert.Equal(t, "abc", out.Key["_id"])
	assert.Nil(t, out.Object)
}
