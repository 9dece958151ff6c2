// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package store implements the L8 storage driver (spec.md §4.8): a
// thin wrapper over a PostgreSQL connection pool that executes
// Condition-described list/get/count/save/apply/update/delete/incr/
// aggregate operations against one JSONB-backed document table per
// Condition table name (the Condition's db name is not used), plus a
// LISTEN/NOTIFY-driven watch stream.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/ddx2x/crossgate/compile"
	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/entity"
	"github.com/ddx2x/crossgate/errs"
	"github.com/ddx2x/crossgate/metrics"
	"github.com/ddx2x/crossgate/unstructed"
)

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Driver is the PostgreSQL document driver. It is Send+Sync and
// freely cloneable (spec.md §5): the pool is a handle, not owned
// mutable state.
type Driver struct {
	pool    Pool
	idField string
	metrics *metrics.Collectors
}

// NewDriver wraps pool. idField overrides the reserved identifier
// field name ("_id" if empty).
func NewDriver(pool Pool, idField string) *Driver {
	if idField == "" {
		idField = entity.IDField
	}
	return &Driver{pool: pool, idField: idField}
}

// WithMetrics attaches Prometheus collectors recording per-operation
// latency and outcome. Safe to skip entirely; nil collectors are a
// no-op.
func (d *Driver) WithMetrics(c *metrics.Collectors) *Driver {
	d.metrics = c
	return d
}

// observe records one operation's latency/outcome if metrics are
// attached; start should be time.Now() taken at the call's entry.
func (d *Driver) observe(table, operation string, start time.Time, err error) {
	if d.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	d.metrics.ObserveOperation(table, operation, outcome, time.Since(start).Seconds())
}

// EnsureTable creates table (and its change-notification trigger) if
// it does not already exist, via the bootstrap migration's
// crossgate_ensure_document_table/crossgate_ensure_change_trigger
// functions.
func (d *Driver) EnsureTable(ctx context.Context, table string) error {
	ident, err := tableIdent(table)
	if err != nil {
		return err
	}
	if _, err := d.pool.Exec(ctx, `SELECT crossgate_ensure_document_table($1)`, ident.bare); err != nil {
		return errs.ClassifyPG("ensure_table", table, err)
	}
	if _, err := d.pool.Exec(ctx, `SELECT crossgate_ensure_change_trigger($1)`, ident.bare); err != nil {
		return errs.ClassifyPG("ensure_table", table, err)
	}
	return nil
}

type tableIdentifier struct {
	bare   string // unquoted, validated identifier
	quoted string // quoted for direct SQL interpolation
}

func tableIdent(table string) (tableIdentifier, error) {
	if !identPattern.MatchString(table) {
		return tableIdentifier{}, oops.Code(errs.CodeOtherError).
			With("table", table).
			Errorf("table name %q is not a valid SQL identifier", table)
	}
	return tableIdentifier{bare: table, quoted: `"` + table + `"`}, nil
}

// List applies cond's filter, sort, paging, and projection, returning
// every matching record.
func (d *Driver) List(ctx context.Context, cond condition.Condition) (out []unstructed.Unstructed, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "list", start, err) }()
	out, err = d.list(ctx, cond)
	return
}

func (d *Driver) list(ctx context.Context, cond condition.Condition) ([]unstructed.Unstructed, error) {
	ident, err := tableIdent(cond.Table())
	if err != nil {
		return nil, err
	}
	f, err := compile.Compile(cond.Filter(), cond.FilterText(), d.convertOpts(cond))
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE %s", ident.quoted, f.SQL)
	query += orderByClause(cond)
	if cond.Pageable() {
		page, size := cond.Page()
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", size, page*size)
	}

	rows, err := d.pool.Query(ctx, query, f.Args...)
	if err != nil {
		return nil, errs.ClassifyPG("list", cond.Table(), err)
	}
	defer rows.Close()

	var out []unstructed.Unstructed
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errs.OtherError("list", err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, projectFields(rec, cond))
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ClassifyPG("list", cond.Table(), err)
	}
	return out, nil
}

// Get returns the first matching record, or DataNotFound if none.
func (d *Driver) Get(ctx context.Context, cond condition.Condition) (out unstructed.Unstructed, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "get", start, err) }()
	out, err = d.get(ctx, cond)
	return
}

func (d *Driver) get(ctx context.Context, cond condition.Condition) (unstructed.Unstructed, error) {
	ident, err := tableIdent(cond.Table())
	if err != nil {
		return nil, err
	}
	f, err := compile.Compile(cond.Filter(), cond.FilterText(), d.convertOpts(cond))
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT data FROM %s WHERE %s", ident.quoted, f.SQL)
	query += orderByClause(cond) + " LIMIT 1"

	var raw []byte
	err = d.pool.QueryRow(ctx, query, f.Args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.DataNotFound(cond.Table())
	}
	if err != nil {
		return nil, errs.ClassifyPG("get", cond.Table(), err)
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, err
	}
	return projectFields(rec, cond), nil
}

// Count returns the number of records matching cond's filter.
func (d *Driver) Count(ctx context.Context, cond condition.Condition) (out int64, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "count", start, err) }()
	out, err = d.count(ctx, cond)
	return
}

func (d *Driver) count(ctx context.Context, cond condition.Condition) (int64, error) {
	ident, err := tableIdent(cond.Table())
	if err != nil {
		return 0, err
	}
	f, err := compile.Compile(cond.Filter(), cond.FilterText(), d.convertOpts(cond))
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s", ident.quoted, f.SQL)
	var n int64
	if err := d.pool.QueryRow(ctx, query, f.Args...).Scan(&n); err != nil {
		return 0, errs.ClassifyPG("count", cond.Table(), err)
	}
	return n, nil
}

// Save assigns a fresh identifier if record's ID is empty, inserts,
// and returns the freshly-stored record.
func (d *Driver) Save(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (out unstructed.Unstructed, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "save", start, err) }()
	out, err = d.save(ctx, record, cond)
	return
}

func (d *Driver) save(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	ident, err := tableIdent(cond.Table())
	if err != nil {
		return nil, err
	}
	rec := record.Clone()
	entity.EnsureEnvelope(rec, d.idField, cond.Table())
	entity.StampVersion(rec, cond.UpdateVersion(), time.Now().Unix())

	data, err := json.Marshal(map[string]any(rec))
	if err != nil {
		return nil, errs.OtherError("save", err)
	}
	kind, _ := rec.Get(entity.KindField)
	version, _ := rec.Get(entity.VersionField)

	query := fmt.Sprintf(`INSERT INTO %s (id, kind, data, version) VALUES ($1, $2, $3, $4)`, ident.quoted)
	if _, err := d.pool.Exec(ctx, query, entity.ID(rec, d.idField), kind, data, toInt64(version)); err != nil {
		return nil, errs.ClassifyPG("save", cond.Table(), err)
	}
	return rec, nil
}

// Apply is upsert-with-merge: fetch the current record by filter; if
// absent, insert and return the new record; if present, structurally
// merge the listed projection fields, stamp version, replace, and
// return the updated record.
func (d *Driver) Apply(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (out unstructed.Unstructed, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "apply", start, err) }()

	existing, getErr := d.get(ctx, cond)
	if errs.IsDataNotFound(getErr) {
		out, err = d.save(ctx, record, cond)
		return
	}
	if getErr != nil {
		err = getErr
		return
	}

	merged, changed := StructuralMerge(existing, record, cond.Fields())
	if !changed {
		out = existing
		return
	}
	entity.StampVersion(merged, cond.UpdateVersion(), time.Now().Unix())
	out, err = d.replace(ctx, merged, cond)
	return
}

// Update performs a partial update: for each projection field, extract
// the value from record and set it on the stored document; returns
// the post-update record.
func (d *Driver) Update(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (out unstructed.Unstructed, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "update", start, err) }()

	existing, err := d.get(ctx, cond)
	if err != nil {
		return nil, err
	}
	copyFields(existing, record, cond.Fields())
	entity.StampVersion(existing, cond.UpdateVersion(), time.Now().Unix())
	out, err = d.replace(ctx, existing, cond)
	return
}

// UpdateMany applies Update's field-copy to every matching document
// and returns the modified count.
func (d *Driver) UpdateMany(ctx context.Context, record unstructed.Unstructed, cond condition.Condition) (n int64, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "update_many", start, err) }()

	matches, err := d.list(ctx, cond)
	if err != nil {
		return 0, err
	}
	for _, existing := range matches {
		copyFields(existing, record, cond.Fields())
		entity.StampVersion(existing, cond.UpdateVersion(), time.Now().Unix())
		if _, replaceErr := d.replaceByID(ctx, existing, cond); replaceErr != nil {
			err = replaceErr
			return n, err
		}
		n++
	}
	return n, nil
}

// Delete removes every document matching cond's filter.
func (d *Driver) Delete(ctx context.Context, cond condition.Condition) (err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "delete", start, err) }()

	ident, err := tableIdent(cond.Table())
	if err != nil {
		return err
	}
	f, err := compile.Compile(cond.Filter(), cond.FilterText(), d.convertOpts(cond))
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", ident.quoted, f.SQL)
	if _, err = d.pool.Exec(ctx, query, f.Args...); err != nil {
		return errs.ClassifyPG("delete", cond.Table(), err)
	}
	return nil
}

// BatchRemove is an alias for Delete returning the deleted count.
func (d *Driver) BatchRemove(ctx context.Context, cond condition.Condition) (n int64, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "batch_remove", start, err) }()

	ident, err := tableIdent(cond.Table())
	if err != nil {
		return 0, err
	}
	f, err := compile.Compile(cond.Filter(), cond.FilterText(), d.convertOpts(cond))
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", ident.quoted, f.SQL)
	tag, err := d.pool.Exec(ctx, query, f.Args...)
	if err != nil {
		return 0, errs.ClassifyPG("batch_remove", cond.Table(), err)
	}
	return tag.RowsAffected(), nil
}

// Incr atomically increments the named numeric fields by signed
// integer deltas, stamps version, and returns the updated document.
func (d *Driver) Incr(ctx context.Context, pairs map[string]int64, cond condition.Condition) (out unstructed.Unstructed, err error) {
	start := time.Now()
	defer func() { d.observe(cond.Table(), "incr", start, err) }()
	out, err = d.incr(ctx, pairs, cond)
	return
}

func (d *Driver) incr(ctx context.Context, pairs map[string]int64, cond condition.Condition) (unstructed.Unstructed, error) {
	ident, err := tableIdent(cond.Table())
	if err != nil {
		return nil, err
	}
	f, err := compile.Compile(cond.Filter(), cond.FilterText(), d.convertOpts(cond))
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, len(pairs))
	for field := range pairs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	setExpr := "data"
	args := append([]any(nil), f.Args...)
	for _, field := range fields {
		args = append(args, pairs[field])
		path := jsonbPathLiteral(field)
		setExpr = fmt.Sprintf("jsonb_set(%s, %s, to_jsonb(coalesce((%s#>>%s)::numeric,0) + $%d::numeric))",
			setExpr, path, setExpr, path, len(args))
	}
	if cond.UpdateVersion() {
		args = append(args, time.Now().Unix())
		setExpr = fmt.Sprintf("jsonb_set(%s, %s, to_jsonb($%d::bigint))", setExpr, jsonbPathLiteral("version"), len(args))
	}

	query := fmt.Sprintf(
		"UPDATE %s SET data = %s, updated_at = now() WHERE %s RETURNING data",
		ident.quoted, setExpr, f.SQL,
	)
	var raw []byte
	if err := d.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.DataNotFound(cond.Table())
		}
		return nil, errs.ClassifyPG("incr", cond.Table(), err)
	}
	return decodeRecord(raw)
}

func (d *Driver) replace(ctx context.Context, rec unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	return d.replaceByID(ctx, rec, cond)
}

func (d *Driver) replaceByID(ctx context.Context, rec unstructed.Unstructed, cond condition.Condition) (unstructed.Unstructed, error) {
	ident, err := tableIdent(cond.Table())
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(map[string]any(rec))
	if err != nil {
		return nil, errs.OtherError("replace", err)
	}
	version, _ := rec.Get(entity.VersionField)
	kind, _ := rec.Get(entity.KindField)
	id := entity.ID(rec, d.idField)

	query := fmt.Sprintf(`UPDATE %s SET data = $2, kind = $3, version = $4, updated_at = now() WHERE id = $1`, ident.quoted)
	if _, err := d.pool.Exec(ctx, query, id, data, kind, toInt64(version)); err != nil {
		return nil, errs.ClassifyPG("replace", cond.Table(), err)
	}
	return rec, nil
}

func (d *Driver) convertOpts(cond condition.Condition) compile.Options {
	return compile.Options{EnableConvert: cond.EnableConvertEnabled(), IDField: d.idField}
}

// copyFields extracts each field's value from src and sets it on dst,
// leaving dst unchanged for any field absent from src (spec.md §4.8:
// "for each projection field, extract the value from the supplied
// record and emit {$set: {field: value}}").
func copyFields(dst, src unstructed.Unstructed, fields []string) {
	for _, field := range fields {
		if v, ok := src.Get(field); ok {
			dst.Set(field, v)
		}
	}
}

func decodeRecord(raw []byte) (unstructed.Unstructed, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errs.OtherError("decode", err)
	}
	return unstructed.New(m), nil
}

func projectFields(rec unstructed.Unstructed, cond condition.Condition) unstructed.Unstructed {
	fields := cond.Fields()
	if len(fields) == 0 {
		return rec
	}
	return rec.Cut(fields)
}

func orderByClause(cond condition.Condition) string {
	sort := cond.Sort()
	if len(sort) == 0 {
		return ""
	}
	parts := make([]string, len(sort))
	for i, key := range sort {
		dir := "ASC"
		if key.Direction == condition.Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("data->>%s %s", quoteJSONLit(key.Field), dir)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func quoteJSONLit(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// jsonbPathLiteral renders a dotted field path as a PostgreSQL text[]
// literal for jsonb_set/#>> (e.g. "meta.count" -> '{"meta","count"}'),
// so Incr can atomically increment a nested field, not just a
// top-level one.
func jsonbPathLiteral(field string) string {
	segments := strings.Split(field, ".")
	quoted := make([]string, len(segments))
	for i, seg := range segments {
		seg = strings.ReplaceAll(seg, `\`, `\\`)
		seg = strings.ReplaceAll(seg, `"`, `\"`)
		quoted[i] = `"` + seg + `"`
	}
	return "'{" + strings.Join(quoted, ",") + "}'"
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case int:
		return int64(n)
	default:
		return 0
	}
}
