package kafka

import (
	"context"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:  []string{"localhost:9092", "localhost:9093"},
		ClientID: "collectionsd",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %d", len(p.brokers))
	}
	if p.transport.ClientID != "collectionsd" {
		t.Errorf("expected client id collectionsd, got %q", p.transport.ClientID)
	}
	if p.transport.TLS != nil {
		t.Error("TLS should be nil when not enabled")
	}
	if len(p.writers) != 0 {
		t.Errorf("expected empty writers map, got %d entries", len(p.writers))
	}
}

func TestNewProducerTLSAndPlainSASL(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:      []string{"kafka:9093"},
		TLS:          true,
		SASLEnabled:  true,
		SASLUsername: "svc",
		SASLPassword: "pw",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.transport.TLS == nil {
		t.Fatal("expected TLS config")
	}
	mech, ok := p.transport.SASL.(plain.Mechanism)
	if !ok {
		t.Fatalf("expected plain mechanism, got %T", p.transport.SASL)
	}
	if mech.Username != "svc" {
		t.Errorf("expected username svc, got %q", mech.Username)
	}
}

func TestNewProducerScram(t *testing.T) {
	p, err := NewProducer(Config{
		SASLEnabled:   true,
		SASLMechanism: "SCRAM-SHA-512",
		SASLUsername:  "svc",
		SASLPassword:  "pw",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.transport.SASL == nil {
		t.Fatal("expected SASL mechanism")
	}
	if p.transport.SASL.Name() != "SCRAM-SHA-512" {
		t.Errorf("expected SCRAM-SHA-512, got %s", p.transport.SASL.Name())
	}
}

func TestNewProducerUnsupportedMechanism(t *testing.T) {
	_, err := NewProducer(Config{SASLEnabled: true, SASLMechanism: "GSSAPI"})
	if err == nil {
		t.Fatal("expected error for unsupported mechanism")
	}
}

func TestGetOrCreateWriter(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w1 := p.getOrCreateWriter("collections.case-events")
	w2 := p.getOrCreateWriter("collections.case-events")
	if w1 != w2 {
		t.Error("expected same writer instance for same topic")
	}
	if _, ok := w1.Balancer.(*kafkago.Hash); !ok {
		t.Errorf("expected hash balancer, got %T", w1.Balancer)
	}

	w3 := p.getOrCreateWriter("collections.rule-events")
	if w1 == w3 {
		t.Error("expected different writer instance for different topic")
	}
	if len(p.writers) != 2 {
		t.Errorf("expected 2 writers, got %d", len(p.writers))
	}
}

func TestPublishWithoutMessagesIsNoop(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := p.Publish(context.Background(), "collections.case-events"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.writers) != 0 {
		t.Error("no writer should be created for an empty publish")
	}
}

func TestProducerClose(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_ = p.getOrCreateWriter("topic-a")
	_ = p.getOrCreateWriter("topic-b")

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected 0 writers after close, got %d", len(p.writers))
	}
}
