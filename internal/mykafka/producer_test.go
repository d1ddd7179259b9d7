package mykafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishEvent(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := NewProducerWithWriter(w)

	err := p.PublishEvent(context.Background(), "order_events", "req-1", map[string]int{"n": 1})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "order_events", msg.Topic)
	assert.Equal(t, []byte("req-1"), msg.Key)

	var body map[string]int
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, 1, body["n"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishEvent_Errors(t *testing.T) {
	t.Parallel()

	boom := errors.New("broker down")
	p := NewProducerWithWriter(&fakeWriter{err: boom})

	err := p.PublishEvent(context.Background(), "t", "k", struct{}{})
	assert.ErrorIs(t, err, boom)

	err = p.PublishEvent(context.Background(), "t", "k", make(chan int))
	assert.Error(t, err)
}

func TestNewProducer_NoBrokers(t *testing.T) {
	t.Parallel()
	_, err := NewProducer(nil)
	assert.Error(t, err)
}
