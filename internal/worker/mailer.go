package worker

import (
	"context"
	"sync"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/kafka"
	"github.com/jmehdipour/invest-backoffice/internal/metrics"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/repository"
	"go.uber.org/zap"
)

// MessageSource is satisfied by *kafka.Consumer.
type MessageSource interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

// Deliverer is satisfied by *mailer.Mailer.
type Deliverer interface {
	Deliver(ctx context.Context, n model.Notification) (provider string, err error)
}

// MailerKafka:
// - fetches notifications from Kafka,
// - renders and sends them through the mail providers,
// - batches delivery outcomes into notification_deliveries.
// Every message is committed whatever the outcome; a failed mail is recorded, not retried.
// Offsets are committed per partition in fetch order, so a crash never skips
// a message that a slower worker was still sending.
type MailerKafka struct {
	Consumer   MessageSource
	Mailer     Deliverer
	Deliveries repository.DeliveriesRepository
	Log        *zap.Logger

	Workers     int           // goroutines sending mail
	BatchSize   int           // max buffered outcomes per flush
	BatchWait   time.Duration // max time before a flush
	SendTimeout time.Duration // per mail

	offsets *offsetTracker
}

func NewMailerKafka(consumer MessageSource, m Deliverer, deliveries repository.DeliveriesRepository, log *zap.Logger) *MailerKafka {
	return &MailerKafka{
		Consumer:    consumer,
		Mailer:      m,
		Deliveries:  deliveries,
		Log:         log,
		Workers:     8,
		BatchSize:   100,
		BatchWait:   500 * time.Millisecond,
		SendTimeout: 10 * time.Second,
	}
}

// Run blocks until ctx is cancelled, then drains in-flight mail and flushes
// the last batch.
func (w *MailerKafka) Run(ctx context.Context) error {
	if w.Log == nil {
		w.Log = zap.NewNop()
	}
	if w.Workers <= 0 {
		w.Workers = 8
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 100
	}
	if w.BatchWait <= 0 {
		w.BatchWait = 500 * time.Millisecond
	}
	if w.SendTimeout <= 0 {
		w.SendTimeout = 10 * time.Second
	}

	outcomes := make(chan model.NotificationDelivery, w.BatchSize*2)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		w.runBatchWriter(outcomes)
	}()

	w.offsets = newOffsetTracker()
	msgCh := make(chan kafka.Message, w.Workers*2)
	go w.fetch(ctx, msgCh)

	var wg sync.WaitGroup
	for i := 0; i < w.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range msgCh {
				w.processOne(ctx, m, outcomes)
			}
		}()
	}

	wg.Wait()
	close(outcomes)
	<-writerDone
	return nil
}

func (w *MailerKafka) fetch(ctx context.Context, out chan<- kafka.Message) {
	defer close(out)
	for {
		m, err := w.Consumer.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.Log.Warn("kafka fetch failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(200 * time.Millisecond):
			}
			continue
		}
		w.offsets.add(m)
		select {
		case out <- m:
		case <-ctx.Done():
			return
		}
	}
}

func (w *MailerKafka) processOne(ctx context.Context, m kafka.Message, out chan<- model.NotificationDelivery) {
	n, err := kafka.DecodeNotification(m)
	if err != nil {
		w.Log.Warn("poison notification skipped", zap.Int64("offset", m.Offset), zap.Error(err))
		w.offsets.done(m, w.commit)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.Background(), w.SendTimeout)
	provider, derr := w.Mailer.Deliver(sendCtx, n)
	cancel()

	d := model.NotificationDelivery{
		NotificationID: n.ID,
		Template:       n.Template,
		Recipient:      n.Recipient,
		Status:         model.DeliverySent,
		Provider:       provider,
		CreatedAt:      time.Now().UTC(),
	}
	if derr != nil {
		d.Status = model.DeliveryFailed
		d.Error = derr.Error()
		w.Log.Error("mail delivery failed",
			zap.String("notification_id", n.ID), zap.String("template", n.Template), zap.Error(derr))
	}
	metrics.NotificationsTotal.WithLabelValues(d.Status.String(), n.Template).Inc()
	out <- d

	w.offsets.done(m, w.commit)
}

// commit uses its own context so messages processed during shutdown are still committed.
func (w *MailerKafka) commit(m kafka.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.Consumer.Commit(ctx, m); err != nil {
		w.Log.Warn("kafka commit failed",
			zap.Int("partition", m.Partition), zap.Int64("offset", m.Offset), zap.Error(err))
	}
}

// runBatchWriter does size/time based flushes of delivery outcomes until in is closed.
func (w *MailerKafka) runBatchWriter(in <-chan model.NotificationDelivery) {
	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	batch := make([]model.NotificationDelivery, 0, w.BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := w.Deliveries.InsertBatch(ctx, batch); err != nil {
			w.Log.Error("delivery batch insert failed", zap.Int("rows", len(batch)), zap.Error(err))
		} else {
			w.Log.Debug("delivery batch flushed", zap.Int("rows", len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case d, ok := <-in:
			if !ok {
				flush()
				return
			}
			batch = append(batch, d)
			if len(batch) >= w.BatchSize {
				flush()
			}
		case <-tick.C:
			flush()
		}
	}
}
