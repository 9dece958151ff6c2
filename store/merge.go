// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"reflect"

	"github.com/ddx2x/crossgate/unstructed"
)

// StructuralMerge implements the field-merge algorithm used by Apply
// (spec.md §4.8): for each path in fields, compare the deep-equal
// values at that path in old vs new; if different, overwrite old's
// subtree with new's and record that a change occurred. Paths not
// listed are preserved from old unchanged. Returns the (possibly
// mutated) old record and whether any path actually changed.
func StructuralMerge(old, newRecord unstructed.Unstructed, fields []string) (unstructed.Unstructed, bool) {
	merged := old.Clone()
	changed := false
	for _, path := range fields {
		oldVal, oldOK := merged.Get(path)
		newVal, newOK := newRecord.Get(path)
		if !newOK {
			continue
		}
		if oldOK && reflect.DeepEqual(oldVal, newVal) {
			continue
		}
		merged.Set(path, newVal)
		changed = true
	}
	return merged, changed
}
