package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zombie-01/tire/internal/orders"
)

type mockSource struct {
	m         sync.Mutex
	events    []*orders.OutboxEvent
	fetchErr  error
	processed []int64
}

func (s *mockSource) GetUnprocessedEvents(_ context.Context, _ int) ([]*orders.OutboxEvent, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	var pending []*orders.OutboxEvent
	for _, e := range s.events {
		if !contains(s.processed, e.ID) {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (s *mockSource) MarkEventAsProcessed(_ context.Context, id int64) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.processed = append(s.processed, id)
	return nil
}

func (s *mockSource) processedIDs() []int64 {
	s.m.Lock()
	defer s.m.Unlock()
	out := make([]int64, len(s.processed))
	copy(out, s.processed)
	return out
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type mockWriter struct {
	m        sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.m.Lock()
	defer w.m.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *mockWriter) Close() error { return nil }

func (w *mockWriter) written() []kafka.Message {
	w.m.Lock()
	defer w.m.Unlock()
	out := make([]kafka.Message, len(w.messages))
	copy(out, w.messages)
	return out
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestPoller(repo OutboxSource, writer MessageWriter) *OutboxPoller {
	return &OutboxPoller{
		tick:   5 * time.Millisecond,
		repo:   repo,
		writer: writer,
		log:    testLogger(),
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	source := &mockSource{events: []*orders.OutboxEvent{
		{ID: 1, AggregateID: "inv-1", EventType: "order_created", Payload: []byte(`{"order_id":"inv-1"}`)},
		{ID: 2, AggregateID: "inv-2", EventType: "order_created", Payload: []byte(`{"order_id":"inv-2"}`)},
	}}
	writer := &mockWriter{}
	sut := newTestPoller(source, writer)

	sut.processUnpublishedEvents(context.Background())

	written := writer.written()
	require.Len(t, written, 2)
	assert.Equal(t, []byte("inv-1"), written[0].Key)
	assert.Equal(t, "event_type", written[0].Headers[0].Key)
	assert.Equal(t, []int64{1, 2}, source.processedIDs())
}

func TestProcessUnpublishedEvents_WriteFailureLeavesEventPending(t *testing.T) {
	source := &mockSource{events: []*orders.OutboxEvent{
		{ID: 1, AggregateID: "inv-1", Payload: []byte(`{}`)},
	}}
	writer := &mockWriter{err: errors.New("broker unreachable")}
	sut := newTestPoller(source, writer)

	sut.processUnpublishedEvents(context.Background())

	assert.Empty(t, source.processedIDs())
}

func TestProcessUnpublishedEvents_FetchFailureIsLoggedOnly(t *testing.T) {
	source := &mockSource{fetchErr: errors.New("db down")}
	writer := &mockWriter{}
	sut := newTestPoller(source, writer)

	assert.NotPanics(t, func() {
		sut.processUnpublishedEvents(context.Background())
	})
	assert.Empty(t, writer.written())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	source := &mockSource{events: []*orders.OutboxEvent{
		{ID: 1, AggregateID: "inv-1", Payload: []byte(`{}`)},
	}}
	writer := &mockWriter{}
	sut := newTestPoller(source, writer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sut.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(source.processedIDs()) == 1
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancel")
	}
}
