// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package service implements the L9 service facade (spec.md §4.9): a
// thin, generic wrapper that namespaces a driver to one (db, table)
// pair and forwards every operation to it, optionally mapping
// DataNotFound from Get/List into an empty result instead of
// propagating the error.
package service

import (
	"context"

	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/errs"
	"github.com/ddx2x/crossgate/store"
	"github.com/ddx2x/crossgate/unstructed"
)

// Driver is the subset of store.Driver's surface the facade forwards
// to, narrowed so callers can substitute a fake in tests.
type Driver interface {
	List(ctx context.Context, cond condition.Condition) ([]unstructed.Unstructed, error)
	Get(ctx context.Context, cond condition.Condition) (unstructed.Unstructed, error)
	Count(ctx context.Context, cond condition.Condition) (int64, error)
	Save(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error)
	Apply(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error)
	Update(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error)
	UpdateMany(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (int64, error)
	Delete(ctx context.Context, cond condition.Condition) error
	BatchRemove(ctx context.Context, cond condition.Condition) (int64, error)
	Incr(ctx context.Context, pairs map[string]int64, cond condition.Condition) (unstructed.Unstructed, error)
	Watch(ctx context.Context, cond condition.Condition, listener store.Listener) (<-chan store.Event, error)
}

// Service[T] owns a (db, table) pair plus a driver and presents every
// storage operation as a thin pass-through that stamps the caller's
// Condition with its own identity first (spec.md §4.9: "Every
// operation clones the caller's Condition, stamps it with the owner's
// schema/table, and forwards to the driver"). T is a marker type
// parameter only — the facade carries no T-typed state, matching
// spec §4.9/§9's "generic operation methods... plus a separately
// parameterised Condition/Filter pair" redesign note.
type Service[T any] struct {
	db              string
	table           string
	driver          Driver
	notFoundAsEmpty bool
}

// New returns a Service bound to (db, table) and driver.
func New[T any](db, table string, driver Driver) *Service[T] {
	return &Service[T]{db: db, table: table, driver: driver}
}

// WithNotFoundAsEmpty returns a copy whose Get/List map DataNotFound
// into an empty result instead of propagating it, mirroring the
// original's per-service configurable NotFound-to-empty policy
// (SPEC_FULL.md §6).
func (s *Service[T]) WithNotFoundAsEmpty(enabled bool) *Service[T] {
	clone := *s
	clone.notFoundAsEmpty = enabled
	return &clone
}

// own returns a copy of cond stamped with this service's db/table,
// regardless of whatever the caller had set.
func (s *Service[T]) own(cond condition.Condition) condition.Condition {
	c := cond.Clone()
	c = c.WithDB(s.db).WithTable(s.table)
	return c
}

// List forwards to the driver with cond stamped to this service's
// table.
func (s *Service[T]) List(ctx context.Context, cond condition.Condition) ([]unstructed.Unstructed, error) {
	recs, err := s.driver.List(ctx, s.own(cond))
	if err != nil {
		if s.notFoundAsEmpty && errs.IsDataNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return recs, nil
}

// Get forwards to the driver with cond stamped to this service's
// table. When notFoundAsEmpty is set, DataNotFound returns (nil, nil)
// instead of propagating.
func (s *Service[T]) Get(ctx context.Context, cond condition.Condition) (unstructed.Unstructed, error) {
	rec, err := s.driver.Get(ctx, s.own(cond))
	if err != nil {
		if s.notFoundAsEmpty && errs.IsDataNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Count forwards to the driver with cond stamped to this service's
// table.
func (s *Service[T]) Count(ctx context.Context, cond condition.Condition) (int64, error) {
	return s.driver.Count(ctx, s.own(cond))
}

// Save forwards to the driver with cond stamped to this service's
// table.
func (s *Service[T]) Save(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	return s.driver.Save(ctx, record, s.own(cond))
}

// Apply forwards to the driver with cond stamped to this service's
// table.
func (s *Service[T]) Apply(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	return s.driver.Apply(ctx, record, s.own(cond))
}

// Update forwards to the driver with cond stamped to this service's
// table.
func (s *Service[T]) Update(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	return s.driver.Update(ctx, record, s.own(cond))
}

// UpdateMany forwards to the driver with cond stamped to this
// service's table.
func (s *Service[T]) UpdateMany(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (int64, error) {
	return s.driver.UpdateMany(ctx, record, s.own(cond))
}

// Delete forwards to the driver with cond stamped to this service's
// table.
func (s *Service[T]) Delete(ctx context.Context, cond condition.Condition) error {
	return s.driver.Delete(ctx, s.own(cond))
}

// BatchRemove forwards to the driver with cond stamped to this
// service's table.
func (s *Service[T]) BatchRemove(ctx context.Context, cond condition.Condition) (int64, error) {
	return s.driver.BatchRemove(ctx, s.own(cond))
}

// Incr forwards to the driver with cond stamped to this service's
// table.
func (s *Service[T]) Incr(ctx context.Context, pairs map[string]int64, cond condition.Condition) (unstructed.Unstructed, error) {
	return s.driver.Incr(ctx, pairs, s.own(cond))
}

// Watch forwards to the driver with cond stamped to this service's
// table.
func (s *Service[T]) Watch(ctx context.Context, cond condition.Condition, listener store.Listener) (<-chan store.Event, error) {
	return s.driver.Watch(ctx, s.own(cond), listener)
}
