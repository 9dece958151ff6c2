// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errs defines the small error taxonomy surfaced by the core
// (spec.md §7): ParseError, CompileError, DataNotFound, DuplicateKey,
// ConnectionError, and OtherError. Every helper wraps samber/oops so
// callers keep structured context (codes, key/value attributes)
// alongside the wrapped cause.
package errs

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"
)

// Error codes used across the oops.Code(...) taxonomy. Driver code
// inspects these via oops.AsOops + Code() rather than sentinel values,
// matching the teacher's own POLICY_* code convention.
const (
	CodeParseError      = "PARSE_ERROR"
	CodeCompileError    = "COMPILE_ERROR"
	CodeDataNotFound    = "DATA_NOT_FOUND"
	CodeDuplicateKey    = "DUPLICATE_KEY"
	CodeConnectionError = "CONNECTION_ERROR"
	CodeOtherError      = "OTHER_ERROR"
)

// ParseError wraps a filter/validate DSL syntax failure. text is the
// offending source so the caller can surface it without re-deriving
// which Condition builder call failed.
func ParseError(text string, cause error) error {
	return oops.Code(CodeParseError).
		With("text", text).
		Wrap(cause)
}

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	return hasCode(err, CodeParseError)
}

// CompileError wraps an AST node a target compiler cannot translate:
// an unsupported operator (e.g. NotLike against PostgreSQL) or a
// type-mixing literal list.
func CompileError(field, op, reason string) error {
	return oops.Code(CodeCompileError).
		With("field", field).
		With("op", op).
		Errorf("%s", reason)
}

// IsCompileError reports whether err is a CompileError.
func IsCompileError(err error) bool {
	return hasCode(err, CodeCompileError)
}

// DataNotFound reports the DataNotFound error kind: get found nothing.
func DataNotFound(table string) error {
	return oops.Code(CodeDataNotFound).
		With("table", table).
		Errorf("no record found in %q matching the supplied condition", table)
}

// IsDataNotFound reports whether err (or a wrapped cause) is a
// DataNotFound error.
func IsDataNotFound(err error) bool {
	return hasCode(err, CodeDataNotFound)
}

// DuplicateKey wraps a backend unique-constraint violation.
func DuplicateKey(table string, cause error) error {
	return oops.Code(CodeDuplicateKey).
		With("table", table).
		Wrapf(cause, "insert into %q conflicts with an existing unique key", table)
}

// IsDuplicateKey reports whether err is a DuplicateKey error.
func IsDuplicateKey(err error) bool {
	return hasCode(err, CodeDuplicateKey)
}

// ConnectionError wraps a backend-unreachable or cursor-aborted
// failure.
func ConnectionError(operation string, cause error) error {
	return oops.Code(CodeConnectionError).
		With("operation", operation).
		Wrapf(cause, "connection error during %s", operation)
}

// OtherError wraps a serialization failure or anything else not
// covered by a more specific kind.
func OtherError(operation string, cause error) error {
	return oops.Code(CodeOtherError).
		With("operation", operation).
		Wrapf(cause, "%s failed", operation)
}

// ClassifyPG inspects a PostgreSQL driver error and returns the
// taxonomy-appropriate wrapped error: DuplicateKey for a
// unique_violation (pgerrcode.UniqueViolation), ConnectionError for
// anything that looks like a connection failure, OtherError
// otherwise. Grounded on the teacher's pgerrcode.UniqueViolation check
// in cmd/holomush/seed.go, generalized into a reusable classifier.
func ClassifyPG(operation, table string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return DuplicateKey(table, err)
		case pgerrcode.ConnectionException,
			pgerrcode.ConnectionDoesNotExist,
			pgerrcode.ConnectionFailure,
			pgerrcode.SQLClientUnableToEstablishSQLConnection,
			pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection:
			return ConnectionError(operation, err)
		}
	}
	return OtherError(operation, err)
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	return oopsErr.Code() == code
}
