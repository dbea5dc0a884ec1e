package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
)

type stubReader struct {
	next      []kafka.Message
	fetchErr  error
	committed []int64
	commitErr error
}

func (r *stubReader) FetchMessage(context.Context) (kafka.Message, error) {
	if r.fetchErr != nil {
		return kafka.Message{}, r.fetchErr
	}
	m := r.next[0]
	r.next = r.next[1:]
	return m, nil
}

func (r *stubReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return r.commitErr
}

func (r *stubReader) Close() error { return nil }

func TestNewConsumer_Validates(t *testing.T) {
	for name, cfg := range map[string]Config{
		"no brokers": {Topic: "notifications", GroupID: "g"},
		"no topic":   {Brokers: []string{"k:9092"}, GroupID: "g"},
		"no group":   {Brokers: []string{"k:9092"}, Topic: "notifications"},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := NewConsumer(cfg); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestConsumer_FetchAndCommit(t *testing.T) {
	r := &stubReader{next: []kafka.Message{{Offset: 11}, {Offset: 12}}}
	c := &Consumer{r: r, topic: "notifications"}

	m, err := c.Fetch(context.Background())
	if err != nil || m.Offset != 11 {
		t.Fatalf("fetch: %v %v", m.Offset, err)
	}
	if err := c.Commit(context.Background(), m); err != nil {
		t.Fatal(err)
	}
	if len(r.committed) != 1 || r.committed[0] != 11 {
		t.Errorf("committed: %v", r.committed)
	}

	cause := errors.New("rebalance in progress")
	r.commitErr = cause
	if err := c.Commit(context.Background(), m); !errors.Is(err, cause) {
		t.Errorf("commit error: got %v", err)
	}

	r.fetchErr = context.Canceled
	if _, err := c.Fetch(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("fetch error: got %v", err)
	}
}

func TestDecodeNotification_Rejects(t *testing.T) {
	for name, value := range map[string]string{
		"garbage":     "{not json",
		"no id":       `{"template":"investActivated","recipient":"bob@example.com"}`,
		"no template": `{"id":"01HX","recipient":"bob@example.com"}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeNotification(kafka.Message{Value: []byte(value), Offset: 7}); err == nil {
				t.Error("want error")
			}
		})
	}
}
