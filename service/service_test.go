// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/errs"
	"github.com/ddx2x/crossgate/service"
	"github.com/ddx2x/crossgate/store"
	"github.com/ddx2x/crossgate/unstructed"
)

type fakeDriver struct {
	lastCond condition.Condition
	getErr   error
	listErr  error
	record   unstructed.Unstructed
}

func (f *fakeDriver) List(_ context.Context, cond condition.Condition) ([]unstructed.Unstructed, error) {
	f.lastCond = cond
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []unstructed.Unstructed{f.record}, nil
}

func (f *fakeDriver) Get(_ context.Context, cond condition.Condition) (unstructed.Unstructed, error) {
	f.lastCond = cond
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.record, nil
}

func (f *fakeDriver) Count(_ context.Context, cond condition.Condition) (int64, error) {
	f.lastCond = cond
	return 1, nil
}

func (f *fakeDriver) Save(_ context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	f.lastCond = cond
	return record, nil
}

func (f *fakeDriver) Apply(_ context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	f.lastCond = cond
	return record, nil
}

func (f *fakeDriver) Update(_ context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	f.lastCond = cond
	return record, nil
}

func (f *fakeDriver) UpdateMany(_ context.Context, _ unstructed.Unstructed, cond condition.Condition) (int64, error) {
	f.lastCond = cond
	return 2, nil
}

func (f *fakeDriver) Delete(_ context.Context, cond condition.Condition) error {
	f.lastCond = cond
	return nil
}

func (f *fakeDriver) BatchRemove(_ context.Context, cond condition.Condition) (int64, error) {
	f.lastCond = cond
	return 3, nil
}

func (f *fakeDriver) Incr(_ context.Context, _ map[string]int64, cond condition.Condition) (unstructed.Unstructed, error) {
	f.lastCond = cond
	return f.record, nil
}

func (f *fakeDriver) Watch(_ context.Context, cond condition.Condition, _ store.Listener) (<-chan store.Event, error) {
	f.lastCond = cond
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func TestServiceStampsCallersConditionWithOwnIdentity(t *testing.T) {
	driver := &fakeDriver{record: unstructed.New(map[string]any{"name": "gear"})}
	svc := service.New[any]("primary", "widgets", driver)

	callerCond, err := condition.New().WithTable("something-else").Wheres("name='gear'")
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), callerCond)
	require.NoError(t, err)

	assert.Equal(t, "primary", driver.lastCond.DB())
	assert.Equal(t, "widgets", driver.lastCond.Table())
	assert.Equal(t, "name='gear'", driver.lastCond.FilterText())
}

func TestServicePropagatesDataNotFoundByDefault(t *testing.T) {
	driver := &fakeDriver{getErr: errs.DataNotFound("widgets")}
	svc := service.New[any]("primary", "widgets", driver)

	_, err := svc.Get(context.Background(), condition.New())
	require.Error(t, err)
	assert.True(t, errs.IsDataNotFound(err))
}

func TestServiceWithNotFoundAsEmptyMapsGetToNil(t *testing.T) {
	driver := &fakeDriver{getErr: errs.DataNotFound("widgets")}
	svc := service.New[any]("primary", "widgets", driver).WithNotFoundAsEmpty(true)

	rec, err := svc.Get(context.Background(), condition.New())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestServiceWithNotFoundAsEmptyMapsListToNil(t *testing.T) {
	driver := &fakeDriver{listErr: errs.DataNotFound("widgets")}
	svc := service.New[any]("primary", "widgets", driver).WithNotFoundAsEmpty(true)

	recs, err := svc.List(context.Background(), condition.New())
	require.NoError(t, err)
	assert.Nil(t, recs)
}

func TestServiceWithNotFoundAsEmptyDoesNotSwallowOtherErrors(t *testing.T) {
	driver := &fakeDriver{getErr: errs.OtherError("get", assert.AnError)}
	svc := service.New[any]("primary", "widgets", driver).WithNotFoundAsEmpty(true)

	_, err := svc.Get(context.Background(), condition.New())
	require.Error(t, err)
}

func TestServiceDoesNotMutateOriginalServiceWhenCloningNotFoundFlag(t *testing.T) {
	driver := &fakeDriver{getErr: errs.DataNotFound("widgets")}
	base := service.New[any]("primary", "widgets", driver)
	lenient := base.WithNotFoundAsEmpty(true)

	_, err := base.Get(context.Background(), condition.New())
	assert.True(t, errs.IsDataNotFound(err))

	rec, err := lenient.Get(context.Background(), condition.New())
	require.NoError(t, err)
	assert.Nil(t, rec)
}
