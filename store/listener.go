// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ddx2x/crossgate/errs"
)

// Listener abstracts the PostgreSQL LISTEN/NOTIFY mechanism so the
// watch producer's reconnect logic can be exercised without a live
// database. The returned channel emits raw NOTIFY payloads and closes
// when the underlying connection is lost or ctx is cancelled.
type Listener interface {
	Listen(ctx context.Context) (<-chan string, error)
}

// PGListener listens on "<table>_changed" using a dedicated
// (non-pooled) connection, since LISTEN state is per-connection and
// would otherwise be lost when a pooled connection is recycled.
type PGListener struct {
	connString string
	table      string
}

// NewPGListener builds a PGListener for table, using connString to
// open its own dedicated connection.
func NewPGListener(connString, table string) *PGListener {
	return &PGListener{connString: connString, table: table}
}

// Listen opens a dedicated connection, issues LISTEN, and returns a
// channel fed by a background goroutine that calls
// WaitForNotification in a loop until ctx is cancelled or the
// connection fails.
func (l *PGListener) Listen(ctx context.Context) (<-chan string, error) {
	conn, err := pgx.Connect(ctx, l.connString)
	if err != nil {
		return nil, errs.ConnectionError("listen", err)
	}
	channel := l.table + "_changed"
	if _, err := conn.Exec(ctx, fmt.Sprintf("LISTEN %q", channel)); err != nil {
		_ = conn.Close(ctx)
		return nil, errs.ConnectionError("listen", err)
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		defer conn.Close(context.Background()) //nolint:errcheck // best-effort cleanup
		for {
			notification, err := conn.WaitForNotification(ctx)
			if err != nil {
				return
			}
			select {
			case out <- notification.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
