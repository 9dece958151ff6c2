// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package condition implements the fluent, value-typed query/mutation
// descriptor (spec.md §3/§4.6) that callers build up and hand to a
// storage driver: database name, table name, a compiled filter, paging,
// sort keys, a field-selection projection, and behavior flags.
package condition

import (
	"github.com/gobwas/glob"

	"github.com/ddx2x/crossgate/errs"
	"github.com/ddx2x/crossgate/filterdsl"
)

// SortDirection selects ascending or descending order for a sort key.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// SortKey is one (field, direction) pair in a Condition's sort sequence.
type SortKey struct {
	Field     string
	Direction SortDirection
}

// Condition bundles everything a driver needs to run one operation.
// It is a plain value: every With* method returns a new Condition, and
// no two Conditions ever share a mutable backing slice or filter tree
// (spec.md §3: "never share mutable state with earlier copies").
type Condition struct {
	db     string
	table  string
	filter *filterdsl.Expr
	// filterText is the filter's original source text, retained
	// alongside the compiled Expr so watch-stream delivery can replay
	// it through the in-memory matcher (spec.md §4.7).
	filterText string

	page int
	size int

	sort   []SortKey
	fields []string

	pageable      bool
	updateVersion bool
	enableConvert bool
}

// New returns a Condition with spec.md's documented defaults:
// page=0, size=10, pageable=false, update_version=true,
// enable_convert=false.
func New() Condition {
	return Condition{
		page:          0,
		size:          10,
		pageable:      false,
		updateVersion: true,
		enableConvert: false,
	}
}

// WithDB returns a copy naming the database.
func (c Condition) WithDB(db string) Condition {
	c.db = db
	return c
}

// WithTable returns a copy naming the collection/table.
func (c Condition) WithTable(table string) Condition {
	c.table = table
	return c
}

// WithPage returns a copy with the 0-based page index and page size
// set and pageable enabled; the store driver skips page*size records
// and returns at most size.
func (c Condition) WithPage(page, size int) Condition {
	c.page = page
	c.size = size
	c.pageable = true
	return c
}

// WithSort returns a copy whose sort sequence is replaced (not
// appended to) by keys.
func (c Condition) WithSort(keys ...SortKey) Condition {
	c.sort = append([]SortKey(nil), keys...)
	return c
}

// WithFields returns a copy whose projection is replaced by fields.
func (c Condition) WithFields(fields ...string) Condition {
	c.fields = append([]string(nil), fields...)
	return c
}

// WithUpdateVersion returns a copy with the update_version flag set.
func (c Condition) WithUpdateVersion(enabled bool) Condition {
	c.updateVersion = enabled
	return c
}

// EnableConvert returns a copy with the enable_convert flag set.
func (c Condition) EnableConvert(enabled bool) Condition {
	c.enableConvert = enabled
	return c
}

// Wheres parses text into the builder's compiled filter. Repeated
// calls replace the prior filter; they never accumulate (spec.md
// §4.6).
func (c Condition) Wheres(text string) (Condition, error) {
	expr, err := filterdsl.Parse(text)
	if err != nil {
		return Condition{}, errs.ParseError(text, err)
	}
	c.filter = expr
	c.filterText = text
	return c, nil
}

// WheresVersioned parses text the same way Wheres does, but first
// checks persistedVersion (the grammar version recorded alongside a
// stored aggregation pipeline or saved search) against this build's
// filterdsl.SupportedGrammarRange. A filter saved under an
// incompatible grammar version fails fast as a CompileError instead
// of being silently re-parsed under a grammar whose meaning has since
// changed.
func (c Condition) WheresVersioned(text, persistedVersion string) (Condition, error) {
	if err := filterdsl.CheckCompatibility(persistedVersion); err != nil {
		return Condition{}, errs.CompileError("", "", err.Error())
	}
	return c.Wheres(text)
}

// Clone returns an independent deep copy: mutating the clone's sort,
// fields, or filter never affects the receiver.
func (c Condition) Clone() Condition {
	out := c
	out.sort = append([]SortKey(nil), c.sort...)
	out.fields = append([]string(nil), c.fields...)
	if c.filter != nil {
		out.filter = c.filter.Clone()
	}
	return out
}

// DB returns the configured database name.
func (c Condition) DB() string { return c.db }

// Table returns the configured table/collection name.
func (c Condition) Table() string { return c.table }

// Filter exposes the compiled filter to drivers. Not part of the
// builder's fluent surface — callers hold only opaque Conditions
// (spec.md §4.6: "exposes its filter to drivers but not to callers").
func (c Condition) Filter() *filterdsl.Expr { return c.filter }

// FilterText returns the filter's original source text, or "" if no
// Wheres call has been made (match-all).
func (c Condition) FilterText() string { return c.filterText }

// Page returns the configured page index and page size.
func (c Condition) Page() (page, size int) { return c.page, c.size }

// Sort returns the configured sort sequence.
func (c Condition) Sort() []SortKey { return append([]SortKey(nil), c.sort...) }

// Fields returns the configured projection field list.
func (c Condition) Fields() []string { return append([]string(nil), c.fields...) }

// Pageable reports whether paging has been configured.
func (c Condition) Pageable() bool { return c.pageable }

// UpdateVersion reports whether mutating operations should auto-stamp
// a version.
func (c Condition) UpdateVersion() bool { return c.updateVersion }

// EnableConvertEnabled reports whether ID/time string coercion is
// enabled during compilation.
func (c Condition) EnableConvertEnabled() bool { return c.enableConvert }

// ExpandFields resolves the configured projection against known,
// expanding any glob-style entry (e.g. "meta.*") into the matching
// subset of known. Non-glob entries pass through unchanged whether or
// not they appear in known, so a projection can still name a field the
// caller hasn't declared up front. Literal entries come first, in
// projection order; glob matches follow in the order of known.
func (c Condition) ExpandFields(known []string) []string {
	if len(c.fields) == 0 {
		return nil
	}
	var literals []string
	var globs []glob.Glob
	for _, f := range c.fields {
		if isGlobPattern(f) {
			if g, err := glob.Compile(f, '.'); err == nil {
				globs = append(globs, g)
			}
			continue
		}
		literals = append(literals, f)
	}
	if len(globs) == 0 {
		return literals
	}
	seen := make(map[string]bool, len(literals))
	out := append([]string(nil), literals...)
	for _, f := range literals {
		seen[f] = true
	}
	for _, k := range known {
		if seen[k] {
			continue
		}
		for _, g := range globs {
			if g.Match(k) {
				out = append(out, k)
				seen[k] = true
				break
			}
		}
	}
	return out
}

func isGlobPattern(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
