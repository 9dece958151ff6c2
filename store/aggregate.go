// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ddx2x/crossgate/compile"
	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/errs"
	"github.com/ddx2x/crossgate/filterdsl"
	"github.com/ddx2x/crossgate/unstructed"
)

var placeholderPattern = regexp.MustCompile(`\$(\d+)`)

// renumberPlaceholders shifts every $N placeholder in sql by offset,
// so successive Match stages' independently-compiled predicates can be
// concatenated into one parameterized query.
func renumberPlaceholders(sql string, offset int) string {
	return placeholderPattern.ReplaceAllStringFunc(sql, func(m string) string {
		n, _ := strconv.Atoi(m[1:])
		return "$" + strconv.Itoa(n+offset)
	})
}

// StageKind selects one of the explicit aggregation stage kinds this
// driver supports (match/group/sort/limit/skip), a deliberately
// narrower replacement for a free-form native pipeline passthrough
// (SPEC_FULL.md §6: "reimplemented as a small, explicit stage DSL").
type StageKind int

const (
	StageMatch StageKind = iota
	StageGroup
	StageSort
	StageLimit
	StageSkip
)

// GroupAccumulator names one output field of a Group stage and the
// aggregate function that produces it. On is the source field path;
// ignored for Count.
type GroupAccumulator struct {
	Field string
	Op    AccumulatorOp
	On    string
}

// AccumulatorOp is a supported SQL aggregate function.
type AccumulatorOp int

const (
	AccCount AccumulatorOp = iota
	AccSum
	AccAvg
	AccMin
	AccMax
)

func (op AccumulatorOp) sql() string {
	switch op {
	case AccSum:
		return "sum"
	case AccAvg:
		return "avg"
	case AccMin:
		return "min"
	case AccMax:
		return "max"
	default:
		return "count"
	}
}

// Stage is one step of an aggregation pipeline. Exactly one of its
// fields is meaningful, selected by Kind.
type Stage struct {
	Kind StageKind

	FilterText string // StageMatch

	GroupBy string             // StageGroup
	Accs    []GroupAccumulator // StageGroup

	Sort []condition.SortKey // StageSort

	N int // StageLimit / StageSkip
}

func MatchStage(filterText string) Stage { return Stage{Kind: StageMatch, FilterText: filterText} }

func GroupStage(groupBy string, accs ...GroupAccumulator) Stage {
	return Stage{Kind: StageGroup, GroupBy: groupBy, Accs: accs}
}

func SortStage(keys ...condition.SortKey) Stage { return Stage{Kind: StageSort, Sort: keys} }

func LimitStage(n int) Stage { return Stage{Kind: StageLimit, N: n} }

func SkipStage(n int) Stage { return Stage{Kind: StageSkip, N: n} }

// Aggregate compiles stages into a single SQL query over table and
// returns the decoded result documents. Each result document is
// exactly the stored document (no Group stage present) or a
// jsonb_build_object of the group key plus every accumulator's output
// field (Group stage present).
func (d *Driver) Aggregate(ctx context.Context, table string, stages []Stage) ([]unstructed.Unstructed, error) {
	ident, err := tableIdent(table)
	if err != nil {
		return nil, err
	}

	query, args, err := compileStages(ident.quoted, stages)
	if err != nil {
		return nil, err
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errs.ClassifyPG("aggregate", table, err)
	}
	defer rows.Close()

	var out []unstructed.Unstructed
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, errs.OtherError("aggregate", err)
		}
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.ClassifyPG("aggregate", table, err)
	}
	return out, nil
}

func compileStages(tableIdentQuoted string, stages []Stage) (string, []any, error) {
	var (
		whereClauses []string
		args         []any
		group        *Stage
		sortKeys     []condition.SortKey
		limit, skip  int
		hasLimit     bool
	)

	for i := range stages {
		s := &stages[i]
		switch s.Kind {
		case StageMatch:
			expr, err := filterdsl.Parse(s.FilterText)
			if err != nil {
				return "", nil, errs.ParseError(s.FilterText, err)
			}
			f, err := compile.Compile(expr, s.FilterText, compile.Options{})
			if err != nil {
				return "", nil, err
			}
			whereClauses = append(whereClauses, renumberPlaceholders(f.SQL, len(args)))
			args = append(args, f.Args...)
		case StageGroup:
			g := *s
			group = &g
		case StageSort:
			sortKeys = append(sortKeys, s.Sort...)
		case StageLimit:
			limit = s.N
			hasLimit = true
		case StageSkip:
			skip = s.N
		}
	}

	var sb strings.Builder
	if group != nil {
		sb.WriteString("SELECT jsonb_build_object(")
		sb.WriteString(quoteJSONLit("_id") + ", data->>" + quoteJSONLit(group.GroupBy))
		for _, acc := range group.Accs {
			sb.WriteString(", " + quoteJSONLit(acc.Field) + ", ")
			if acc.Op == AccCount {
				sb.WriteString("count(*)")
			} else {
				sb.WriteString(fmt.Sprintf("%s((data->>%s)::numeric)", acc.Op.sql(), quoteJSONLit(acc.On)))
			}
		}
		sb.WriteString(") AS data FROM ")
		sb.WriteString(tableIdentQuoted)
	} else {
		sb.WriteString("SELECT data FROM ")
		sb.WriteString(tableIdentQuoted)
	}

	if len(whereClauses) > 0 {
		sb.WriteString(" WHERE " + strings.Join(whereClauses, " AND "))
	}
	if group != nil {
		sb.WriteString(" GROUP BY data->>" + quoteJSONLit(group.GroupBy))
	}
	if len(sortKeys) > 0 {
		parts := make([]string, len(sortKeys))
		for i, key := range sortKeys {
			dir := "ASC"
			if key.Direction == condition.Descending {
				dir = "DESC"
			}
			parts[i] = "data->>" + quoteJSONLit(key.Field) + " " + dir
		}
		sb.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}
	if hasLimit {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", limit))
	}
	if skip > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", skip))
	}

	return sb.String(), args, nil
}
