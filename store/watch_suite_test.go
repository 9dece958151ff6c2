// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package store_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/pashagolub/pgxmock/v4"
	"go.uber.org/goleak"

	"github.com/ddx2x/crossgate/condition"
	"github.com/ddx2x/crossgate/store"
)

func TestWatch(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Watch Stream Suite")
}

// fakeListener hands out a scripted sequence of channels (and optional
// errors) per call to Listen, letting the reconnect loop be exercised
// without a live database, mirroring the teacher's cache.Listener
// fakes.
type fakeListener struct {
	calls   int
	scripts []func() (<-chan string, error)
}

func (f *fakeListener) Listen(_ context.Context) (<-chan string, error) {
	i := f.calls
	f.calls++
	if i >= len(f.scripts) {
		ch := make(chan string)
		close(ch)
		return ch, nil
	}
	return f.scripts[i]()
}

func scriptedChannel(payloads ...string) func() (<-chan string, error) {
	return func() (<-chan string, error) {
		ch := make(chan string, len(payloads))
		for _, p := range payloads {
			ch <- p
		}
		close(ch)
		return ch, nil
	}
}

func changePayload(op, id string, data map[string]any) string {
	raw, _ := json.Marshal(data)
	m := map[string]any{"op": op, "id": id, "data": json.RawMessage(raw)}
	b, _ := json.Marshal(m)
	return string(b)
}

var _ = Describe("Driver.Watch", func() {
	var mock pgxmock.PgxPoolIface
	var d *store.Driver
	var cond condition.Condition

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())
		d = store.NewDriver(mock, "")
		cond = condition.New().WithTable("widgets")

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM "widgets" WHERE TRUE`)).
			WillReturnRows(pgxmock.NewRows([]string{"data"}))
	})

	AfterEach(func() {
		mock.Close()
	})

	It("emits an Added event for each document returned by the initial scan", func() {
		mock2, err := pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())
		defer mock2.Close()
		raw, _ := json.Marshal(map[string]any{"_id": "w1", "name": "gear"})
		mock2.ExpectQuery(regexp.QuoteMeta(`SELECT data FROM "widgets" WHERE TRUE`)).
			WillReturnRows(pgxmock.NewRows([]string{"data"}).AddRow(raw))

		d2 := store.NewDriver(mock2, "")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		listener := &fakeListener{}
		events, err := d2.Watch(ctx, cond, listener)
		Expect(err).NotTo(HaveOccurred())

		var ev store.Event
		Eventually(events).Should(Receive(&ev))
		Expect(ev.Type).To(Equal(store.EventAdded))
		name, _ := ev.Object.Get("name")
		Expect(name).To(Equal("gear"))
	})

	It("classifies INSERT/UPDATE/DELETE notifications after the initial scan", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		listener := &fakeListener{scripts: []func() (<-chan string, error){
			scriptedChannel(
				changePayload("INSERT", "w2", map[string]any{"_id": "w2", "name": "new"}),
				changePayload("UPDATE", "w1", map[string]any{"_id": "w1", "name": "renamed"}),
				changePayload("DELETE", "w1", nil),
			),
		}}

		events, err := d.Watch(ctx, cond, listener)
		Expect(err).NotTo(HaveOccurred())

		var seen []store.EventType
		for i := 0; i < 3; i++ {
			var ev store.Event
			Eventually(events, time.Second).Should(Receive(&ev))
			seen = append(seen, ev.Type)
		}
		Expect(seen).To(Equal([]store.EventType{store.EventAdded, store.EventUpdated, store.EventDeleted}))
	})

	It("closes the channel without leaking goroutines once ctx is cancelled", func() {
		defer goleak.VerifyNone(GinkgoT())

		ctx, cancel := context.WithCancel(context.Background())
		listener := &fakeListener{}
		events, err := d.Watch(ctx, cond, listener)
		Expect(err).NotTo(HaveOccurred())

		cancel()
		Eventually(events, time.Second).Should(BeClosed())
	})
})
