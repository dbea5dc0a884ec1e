package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/segmentio/kafka-go"
)

type Message = kafka.Message

type Config struct {
	Brokers        []string
	Topic          string
	GroupID        string
	MinBytes       int           // default 1KB
	MaxBytes       int           // default 10MB
	CommitInterval time.Duration // default 1s
	MaxWait        time.Duration // default 50ms
}

func (c Config) validate() error {
	switch {
	case len(c.Brokers) == 0:
		return errors.New("kafka: no brokers")
	case c.Topic == "":
		return errors.New("kafka: empty topic")
	case c.GroupID == "":
		return errors.New("kafka: empty consumer group")
	}
	return nil
}

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads the notifications topic for the mailer worker. Offsets are
// only committed through Commit, after the mail outcome is known.
type Consumer struct {
	r     messageReader
	topic string
}

func NewConsumer(c Config) (*Consumer, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if c.MinBytes <= 0 {
		c.MinBytes = 1 << 10
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 << 20
	}
	if c.CommitInterval <= 0 {
		c.CommitInterval = time.Second
	}
	if c.MaxWait <= 0 {
		c.MaxWait = 50 * time.Millisecond
	}

	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        c.Brokers,
			GroupID:        c.GroupID,
			Topic:          c.Topic,
			MinBytes:       c.MinBytes,
			MaxBytes:       c.MaxBytes,
			CommitInterval: c.CommitInterval,
			MaxWait:        c.MaxWait,
			StartOffset:    kafka.FirstOffset,
		}),
		topic: c.Topic,
	}, nil
}

func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	m, err := c.r.FetchMessage(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("fetch from %s: %w", c.topic, err)
	}
	return m, nil
}

func (c *Consumer) Commit(ctx context.Context, m Message) error {
	if err := c.r.CommitMessages(ctx, m); err != nil {
		return fmt.Errorf("commit %s@%d: %w", c.topic, m.Offset, err)
	}
	return nil
}

func (c *Consumer) Close() error { return c.r.Close() }

// DecodeNotification parses a message written by Producer. A message without
// an id or template cannot be delivered and is reported as an error.
func DecodeNotification(m Message) (model.Notification, error) {
	var n model.Notification
	if err := json.Unmarshal(m.Value, &n); err != nil {
		return model.Notification{}, fmt.Errorf("decode notification at offset %d: %w", m.Offset, err)
	}
	if n.ID == "" || n.Template == "" {
		return model.Notification{}, fmt.Errorf("notification at offset %d has no id or template", m.Offset)
	}
	return n, nil
}
