package kafka_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/infrastructure/kafka"
	pkgevents "github.com/bibbank/collections/pkg/events"
	pkgkafka "github.com/bibbank/collections/pkg/kafka"
	"github.com/bibbank/collections/pkg/testutil"
)

type fakeProducer struct {
	publishErr error
	topic      string
	messages   []pkgkafka.Message
	calls      int
}

func (f *fakeProducer) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	f.calls++
	f.topic = topic
	f.messages = append(f.messages, messages...)
	return f.publishErr
}

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestEventPublisher_Publish(t *testing.T) {
	producer := &fakeProducer{}
	var buf bytes.Buffer
	pub := kafka.NewEventPublisher(producer, "collections.events", newLogger(&buf))

	evt := event.NewDebtCaseDeleted(testutil.TestCaseID, testutil.TestActor, testutil.TestNow)
	require.NoError(t, pub.Publish(context.Background(), evt))

	assert.Equal(t, "collections.events", producer.topic)
	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, []byte(testutil.TestCaseID), msg.Key)
	assert.Equal(t, evt.EventType(), msg.Headers["event_type"])
	assert.Equal(t, evt.EventID(), msg.Headers["event_id"])

	var env pkgevents.Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, evt.EventID(), env.EventID)
	assert.Equal(t, testutil.TestCaseID, env.AggregateID)
	assert.NotEmpty(t, env.Data)

	assert.Contains(t, buf.String(), "publishing domain event")
}

func TestEventPublisher_NoEventsIsNoop(t *testing.T) {
	producer := &fakeProducer{}
	pub := kafka.NewEventPublisher(producer, "collections.events", slog.New(slog.DiscardHandler))

	require.NoError(t, pub.Publish(context.Background()))
	assert.Zero(t, producer.calls)
}

func TestEventPublisher_ProducerError(t *testing.T) {
	producer := &fakeProducer{publishErr: errors.New("broker down")}
	pub := kafka.NewEventPublisher(producer, "collections.events", slog.New(slog.DiscardHandler))

	err := pub.Publish(context.Background(), event.NewDebtCaseDeleted(testutil.TestCaseID, testutil.TestActor, testutil.TestNow))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collections.events")
	assert.Contains(t, err.Error(), "broker down")
}
