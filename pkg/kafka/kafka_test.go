package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gite/pkg/logger"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type fakeReader struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.pending) > 0 {
		m := r.pending[0]
		r.pending = r.pending[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("r1").
		WithValue(map[string]string{"status": "pending"}).
		WithEventType("reservation.created").
		WithSource("reservations").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "r1", msg.Key)
	assert.JSONEq(t, `{"status":"pending"}`, string(msg.Value))
	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "reservation.created", msg.GetEventType())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])

	_, err = NewMessage().WithKey("r1").WithValue(make(chan int)).Build()
	assert.Error(t, err)
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	assert.Equal(t, 0, msg.GetRetryCount())
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "reservations.events", "", logger.NewNop())

	var seen []string
	p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		seen = append(seen, msg.Topic)
		return next(ctx, msg)
	})

	msg, err := NewMessage().WithKey("r1").WithValue("x").Build()
	require.NoError(t, err)
	require.NoError(t, p.Publish(context.Background(), msg))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "r1", string(w.messages[0].Key))
	assert.Equal(t, []string{"reservations.events"}, seen)

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("x")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), msg), ErrProducerClosed)
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("connection refused")
	w := &fakeWriter{err: writeErr}
	dlq := &fakeWriter{}
	p := newProducer(w, dlq, "reservations.events", "reservations.events.dlq", logger.NewNop())

	msg, err := NewMessage().WithKey("r1").WithValue("x").Build()
	require.NoError(t, err)

	err = p.Publish(context.Background(), msg)
	assert.ErrorIs(t, err, writeErr)

	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "reservations.events", header(dlq.messages[0], HeaderOriginalTopic))
	assert.Equal(t, "connection refused", header(dlq.messages[0], HeaderDLQError))
	assert.Empty(t, msg.Headers[HeaderOriginalTopic], "caller's headers must not be mutated")
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Key: []byte("r1"), Value: []byte(`{}`), Offset: 7}}}

	var mu sync.Mutex
	calls := 0
	handler := func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls < 3 {
			return NewTransientError("smtp", errors.New("timeout"))
		}
		return nil
	}

	c := newConsumer(reader, nil, "reservations.events", "notifier", handler, logger.NewNop())
	c.retryBackoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool {
		reader.mu.Lock()
		defer reader.mu.Unlock()
		return len(reader.committed) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	assert.Equal(t, 3, calls)
	mu.Unlock()
	assert.Equal(t, int64(7), reader.committed[0].Offset)
}

func TestConsumer_PermanentErrorGoesToDLQ(t *testing.T) {
	reader := &fakeReader{pending: []kafka.Message{{Key: []byte("r1"), Value: []byte(`not json`)}}}
	dlq := &fakeWriter{}

	calls := 0
	handler := func(ctx context.Context, msg Message) error {
		calls++
		return NewPermanentError("bad payload", errors.New("invalid character"))
	}

	c := newConsumer(reader, dlq, "reservations.events", "notifier", handler, logger.NewNop())
	c.retryBackoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool {
		reader.mu.Lock()
		defer reader.mu.Unlock()
		return len(reader.committed) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 1, calls)
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, "notifier", header(dlq.messages[0], HeaderDLQGroup))
	require.NoError(t, c.Close())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"tagged transient", NewTransientError("x", nil), ErrorTypeTransient},
		{"tagged permanent", NewPermanentError("x", nil), ErrorTypePermanent},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"network text", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown", errors.New("schema mismatch"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}

	assert.False(t, ShouldRetry(errors.New("timeout"), 3, 3))
	assert.True(t, ShouldRetry(errors.New("timeout"), 0, 3))
}

func TestConfig_Validate(t *testing.T) {
	cfg, err := LoadConfig([]string{"localhost:9092"})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), cfg.ConsumerStartOffset)

	_, err = LoadConfig(nil)
	assert.Error(t, err)

	cfg.ProducerCompression = "brotli"
	assert.Error(t, cfg.Validate())
}
