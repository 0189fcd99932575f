package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	UserID int64 `json:"user_id"`
}

func TestPublishAndConsume(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	conn := setupBroker(ctx, t)

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()
	_, err = ch.QueuePurge(LinksAssignedQueue, false)
	require.NoError(t, err)

	var mu sync.Mutex
	var got []int64
	done := make(chan struct{}, 3)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err = ConsumerMessage(ctx, ch, LinksAssignedQueue, 2, log, func(_ context.Context, body []byte) error {
		var ev testEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return err
		}
		mu.Lock()
		got = append(got, ev.UserID)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	pubCh, err := conn.Channel()
	require.NoError(t, err)
	defer func() { _ = pubCh.Close() }()
	publisher := NewPublisher(pubCh)
	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, publisher.Publish(ctx, LinksAssignedRoutingKey, testEvent{UserID: id}))
	}

	for range 3 {
		select {
		case <-done:
		case <-ctx.Done():
			t.Fatal("timeout waiting for messages")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []int64{1, 2, 3}, got)
}

func TestConsumerMessage_RequeuesOnce(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	conn := setupBroker(ctx, t)

	ch, err := SetupChannel(conn, GetNotificationQueues())
	require.NoError(t, err)
	defer func() { _ = ch.Close() }()
	_, err = ch.QueuePurge(LinksAssignedQueue, false)
	require.NoError(t, err)

	calls := make(chan struct{}, 4)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err = ConsumerMessage(ctx, ch, LinksAssignedQueue, 1, log, func(context.Context, []byte) error {
		calls <- struct{}{}
		return errors.New("always fails")
	})
	require.NoError(t, err)

	require.NoError(t, PublishMessage(ch, NotificationsExchange, LinksAssignedRoutingKey, testEvent{UserID: 7}))

	for range 2 {
		select {
		case <-calls:
		case <-ctx.Done():
			t.Fatal("timeout waiting for delivery")
		}
	}

	select {
	case <-calls:
		t.Fatal("message was delivered a third time")
	case <-time.After(2 * time.Second):
	}
}

func TestPublisher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPublisher(nil)
	err := p.Publish(ctx, LinksAssignedRoutingKey, testEvent{UserID: 1})
	require.ErrorIs(t, err, context.Canceled)
}

type ackRecord struct {
	tag     uint64
	ack     bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	records []ackRecord
}

func (f *fakeAcknowledger) Ack(tag uint64, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, ackRecord{tag: tag, ack: true})
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, _ bool, requeue bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, ackRecord{tag: tag, requeue: requeue})
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func (f *fakeAcknowledger) snapshot() []ackRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ackRecord(nil), f.records...)
}

func TestConsume_WaitsForInFlightHandlers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	acker := &fakeAcknowledger{}
	delivery := make(chan amqp.Delivery, 1)
	delivery <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: []byte(`{}`)}

	started := make(chan struct{})
	release := make(chan struct{})
	var handlerCtxErr error
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		consume(ctx, delivery, LinksAssignedQueue, 2, log, func(hctx context.Context, _ []byte) error {
			close(started)
			<-release
			handlerCtxErr = hctx.Err()
			return nil
		})
	}()

	<-started
	cancel()

	select {
	case <-finished:
		t.Fatal("consume returned before the handler finished")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not return after the handler finished")
	}

	assert.NoError(t, handlerCtxErr)
	assert.Equal(t, []ackRecord{{tag: 1, ack: true}}, acker.snapshot())
}

func TestConsume_CancelWhileWorkersBusy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	acker := &fakeAcknowledger{}
	delivery := make(chan amqp.Delivery, 2)
	delivery <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 1}
	delivery <- amqp.Delivery{Acknowledger: acker, DeliveryTag: 2}

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		consume(ctx, delivery, LinksAssignedQueue, 1, log, func(context.Context, []byte) error {
			started <- struct{}{}
			<-release
			return nil
		})
	}()

	<-started
	require.Eventually(t, func() bool { return len(delivery) == 0 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	require.Eventually(t, func() bool { return len(acker.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []ackRecord{{tag: 2, requeue: true}}, acker.snapshot())

	close(release)
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not return after cancellation")
	}

	assert.Len(t, started, 0)
	assert.Equal(t, []ackRecord{{tag: 2, requeue: true}, {tag: 1, ack: true}}, acker.snapshot())
}

func TestConsume_StopsWhenDeliveryClosed(t *testing.T) {
	delivery := make(chan amqp.Delivery)
	close(delivery)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		consume(context.Background(), delivery, LinksAssignedQueue, 1, log, func(context.Context, []byte) error {
			t.Error("handler must not be called")
			return nil
		})
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("consume did not return on closed delivery channel")
	}
}
