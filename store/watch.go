// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/match"
)

// Default reconnect backoff parameters, generalized from the teacher's
// hand-rolled cache reconnect loop into sethvargo/go-retry's
// exponential backoff.
const (
	defaultReconnectInitial = 100 * time.Millisecond
	defaultReconnectMax     = 30 * time.Second
)

type changePayload struct {
	Op   string          `json:"op"`
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Watch produces an unbounded stream of Events (spec.md §4.8): an
// initial scan emitted as Added, followed by a LISTEN/NOTIFY-fed
// change feed reclassified through listener. The channel closes when
// ctx is cancelled or an unrecoverable feed error occurs (after
// emitting one EventError). A consumer that stops receiving without
// cancelling ctx is not detected: the producer blocks on its next send
// until ctx is cancelled.
func (d *Driver) Watch(ctx context.Context, cond condition.Condition, listener Listener) (<-chan Event, error) {
	out := make(chan Event, 1)
	go d.watchLoop(ctx, cond, listener, out)
	return out, nil
}

func (d *Driver) watchLoop(ctx context.Context, cond condition.Condition, listener Listener, out chan<- Event) {
	defer close(out)

	initial, err := d.List(ctx, cond)
	if err != nil {
		sendEvent(ctx, out, Event{Type: EventError, Msg: err.Error()})
		return
	}
	for _, rec := range initial {
		if !sendEvent(ctx, out, Event{Type: EventAdded, Object: rec}) {
			return
		}
	}

	for attempt := 0; ; attempt++ {
		if attempt > 0 && d.metrics != nil {
			d.metrics.ObserveReconnect(cond.Table())
		}
		ch, err := connectWithBackoff(ctx, listener)
		if err != nil {
			sendEvent(ctx, out, Event{Type: EventError, Msg: err.Error()})
			return
		}
		if !drainFeed(ctx, cond, ch, out) {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// connectWithBackoff retries listener.Listen with exponential backoff
// until it succeeds or ctx is cancelled.
func connectWithBackoff(ctx context.Context, listener Listener) (<-chan string, error) {
	b := retry.NewExponential(defaultReconnectInitial)
	b = retry.WithCappedDuration(defaultReconnectMax, b)

	var ch <-chan string
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		c, err := listener.Listen(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}
		ch = c
		return nil
	})
	return ch, err
}

// drainFeed relays notifications from ch until it closes (signalling
// a lost connection that warrants reconnecting, returns true) or ctx is
// cancelled, including while blocked on a send (returns false).
func drainFeed(ctx context.Context, cond condition.Condition, ch <-chan string, out chan<- Event) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case payload, ok := <-ch:
			if !ok {
				return true
			}
			ev, matched := classifyPayload(cond, payload)
			if !matched {
				continue
			}
			if !sendEvent(ctx, out, ev) {
				return false
			}
		}
	}
}

// classifyPayload decodes one trigger notification and reports
// whether it should be emitted: Deletes are always emitted (spec.md
// §4.8: "no matcher recheck"); Insert/Update are rechecked against
// the local matcher unless the filter's source text is empty.
func classifyPayload(cond condition.Condition, payload string) (Event, bool) {
	var p changePayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return Event{Type: EventError, Msg: err.Error()}, true
	}
	if p.Op == "DELETE" {
		return Event{Type: EventDeleted, Key: map[string]any{"_id": p.ID}}, true
	}

	rec, err := decodeRecord(p.Data)
	if err != nil {
		return Event{Type: EventError, Msg: err.Error()}, true
	}
	if cond.FilterText() != "" {
		ok, err := match.MatchByPredicate(rec, cond.FilterText())
		if err != nil {
			return Event{Type: EventError, Msg: err.Error()}, true
		}
		if !ok {
			return Event{}, false
		}
	}

	evType := EventUpdated
	if p.Op == "INSERT" {
		evType = EventAdded
	}
	return Event{Type: evType, Object: rec}, true
}

func sendEvent(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
