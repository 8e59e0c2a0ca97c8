// Package events publishes ledger mutations to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// Event types.
const (
	TypeBuy    = "buy"
	TypeSell   = "sell"
	TypeDelete = "delete"
	TypeReset  = "reset"
)

// Event describes one ledger mutation.
type Event struct {
	Type          string    `json:"type"`
	UserID        string    `json:"userId"`
	TransactionID string    `json:"transactionId,omitempty"`
	Symbol        string    `json:"symbol,omitempty"`
	Shares        float64   `json:"shares,omitempty"`
	Price         float64   `json:"price,omitempty"`
	Date          string    `json:"date,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// FromTransaction builds an event of type typ for a ledger row.
func FromTransaction(typ string, t *model.Transaction, at time.Time) Event {
	return Event{
		Type:          typ,
		UserID:        t.UserID,
		TransactionID: t.ID,
		Symbol:        t.Symbol,
		Shares:        t.Shares,
		Price:         t.Price,
		Date:          t.Date.Format("2006-01-02"),
		OccurredAt:    at.UTC(),
	}
}

// Publisher delivers events. Publish failures are reported to the caller, who
// decides whether they matter; ledger writes never depend on them.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to a Kafka topic, keyed by user so that
// one user's events stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher creates a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 200 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		MaxAttempts:  3,
		WriteTimeout: 2 * time.Second,
		Async:        false,
	}
	return &KafkaPublisher{writer: w}
}

// Publish writes e to the topic. It returns once the broker acknowledges the
// write or ctx is done.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	msg, err := encode(e)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"type":   e.Type,
		"userId": e.UserID,
		"symbol": e.Symbol,
	}).Debug("ledger event published")
	return nil
}

// Close flushes pending writes and releases the connection.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encode(e Event) (kafka.Message, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(e.UserID),
		Value: b,
		Time:  e.OccurredAt,
	}, nil
}
