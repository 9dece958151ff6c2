// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/store"
)

func newMockDriver(t *testing.T) (*store.Driver, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return store.NewDriver(mock, ""), mock
}

func TestGetReturnsDecodedRecord(t *testing.T) {
	d, mock := newMockDriver(t)
	cond, err := condition.New().WithTable("widgets").Wheres("name='gear'")
	require.NoError(t, err)

	raw, _ := json.Marshal(map[string]any{"_id": "w1", "name": "gear"})
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM "widgets" WHERE (data->>'name' = $1) LIMIT 1`)).
		WithArgs("gear").
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(raw))

	rec, err := d.Get(context.Background(), cond)
	require.NoError(t, err)
	name, _ := rec.Get("name")
	assert.Equal(t, "gear", name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReturnsDataNotFound(t *testing.T) {
	d, mock := newMockDriver(t)
	cond, err := condition.New().WithTable("widgets").Wheres("name='missing'")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM "widgets" WHERE (data->>'name' = $1) LIMIT 1`)).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"data"}))

	_, err = d.Get(context.Background(), cond)
	require.Error(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveInsertsAssignedRecord(t *testing.T) {
	d, mock := newMockDriver(t)
	cond := condition.New().WithTable("widgets")

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "widgets" (id, kind, data, version) VALUES ($1, $2, $3, $4)`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec := map[string]any{"name": "gear"}
	stored, err := d.Save(context.Background(), rec, cond)
	require.NoError(t, err)

	id, _ := stored.Get("_id")
	assert.NotEmpty(t, id)
	kind, _ := stored.Get("kind")
	assert.Equal(t, "widgets", kind)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountReturnsMatchingCount(t *testing.T) {
	d, mock := newMockDriver(t)
	cond, err := condition.New().WithTable("widgets").Wheres("level>=2")
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "widgets" WHERE ((data->>'level')::numeric >= $1)`)).
		WithArgs(float64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	n, err := d.Count(context.Background(), cond)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrBuildsNestedPathJSONBSet(t *testing.T) {
	d, mock := newMockDriver(t)
	cond, err := condition.New().WithTable("widgets").WithUpdateVersion(false).Wheres("name='gear'")
	require.NoError(t, err)

	expected := `UPDATE "widgets" SET data = jsonb_set(jsonb_set(data, '{"meta","count"}', ` +
		`to_jsonb(coalesce((data#>>'{"meta","count"}')::numeric,0) + $2::numeric)), '{"score"}', ` +
		`to_jsonb(coalesce((jsonb_set(data, '{"meta","count"}', to_jsonb(coalesce((data#>>'{"meta","count"}')::numeric,0) + $2::numeric))#>>'{"score"}')::numeric,0) + $3::numeric)), ` +
		`updated_at = now() WHERE (data->>'name' = $1) RETURNING data`

	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs("gear", int64(1), int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow([]byte(`{"name":"gear","meta":{"count":1},"score":2}`)))

	out, err := d.Incr(context.Background(), map[string]int64{"meta.count": 1, "score": 2}, cond)
	require.NoError(t, err)

	name, _ := out.Get("name")
	assert.Equal(t, "gear", name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureTableInvokesBootstrapFunctions(t *testing.T) {
	d, mock := newMockDriver(t)

	mock.ExpectExec(regexp.QuoteMeta(`SELECT crossgate_ensure_document_table($1)`)).
		WithArgs("widgets").
		WillReturnResult(pgxmock.NewResult("SELECT", 0))
	mock.ExpectExec(regexp.QuoteMeta(`SELECT crossgate_ensure_change_trigger($1)`)).
		WithArgs("widgets").
		WillReturnResult(pgxmock.NewResult("SELECT", 0))

	require.NoError(t, d.EnsureTable(context.Background(), "widgets"))
	require.NoError(t, mock.ExpectationsWereMet())
}
