// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import "github.com/ddx2x/crossgate/unstructed"

// EventType identifies one of watch's four event variants (spec.md §3).
type EventType int

const (
	EventAdded EventType = iota
	EventUpdated
	EventDeleted
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "ADDED"
	case EventUpdated:
		return "MODIFIED"
	case EventDeleted:
		return "DELETED"
	case EventError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is one item of a watch stream. Object is populated for
// Added/Updated, Key for Deleted (the backend no longer has the full
// document), and Msg for Error.
type Event struct {
	Type   EventType
	Object unstructed.Unstructed
	Key    map[string]any
	Msg    string
}
