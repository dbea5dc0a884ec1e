// Package notify delivers notifications off the request path. Scheduling
// never blocks the caller and a failed delivery is logged, never retried.
package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/metrics"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("notifier closed")

// Sender is implemented by the Kafka producer and by the mailer.
type Sender interface {
	Send(ctx context.Context, n model.Notification) error
}

type Config struct {
	QueueSize   int           // default 256
	Workers     int           // default 4
	SendTimeout time.Duration // default 10s
}

// DeliveryError is what the error channel carries for a failed send.
type DeliveryError struct {
	Notification model.Notification
	Err          error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s to %s: %v", e.Notification.Template, e.Notification.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

type Scheduler struct {
	sender Sender
	log    *zap.Logger
	cfg    Config

	queue  chan model.Notification
	errs   chan *DeliveryError
	wg     sync.WaitGroup
	errWg  sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewScheduler(sender Sender, log *zap.Logger, cfg Config) *Scheduler {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		sender: sender,
		log:    log,
		cfg:    cfg,
		queue:  make(chan model.Notification, cfg.QueueSize),
		errs:   make(chan *DeliveryError, cfg.Workers),
	}
}

// Start launches the workers and the error reporter. Call it once.
func (s *Scheduler) Start() {
	s.errWg.Add(1)
	go s.reportErrors()

	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.work()
	}
}

// Schedule enqueues n and returns immediately. A full queue or a closed
// scheduler drops n with a log line.
func (s *Scheduler) Schedule(n model.Notification) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.drop(n, ErrClosed)
		return
	}

	select {
	case s.queue <- n:
		metrics.NotificationsTotal.WithLabelValues("scheduled", n.Template).Inc()
	default:
		s.drop(n, errors.New("queue full"))
	}
}

func (s *Scheduler) drop(n model.Notification, reason error) {
	metrics.NotificationsTotal.WithLabelValues("dropped", n.Template).Inc()
	s.log.Warn("notification dropped",
		zap.String("notification_id", n.ID),
		zap.String("template", n.Template),
		zap.String("username", n.Username),
		zap.Error(reason))
}

func (s *Scheduler) work() {
	defer s.wg.Done()
	for n := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SendTimeout)
		err := s.sender.Send(ctx, n)
		cancel()

		if err != nil {
			s.errs <- &DeliveryError{Notification: n, Err: err}
			continue
		}
		metrics.NotificationsTotal.WithLabelValues("published", n.Template).Inc()
	}
}

func (s *Scheduler) reportErrors() {
	defer s.errWg.Done()
	for e := range s.errs {
		metrics.NotificationsTotal.WithLabelValues("failed", e.Notification.Template).Inc()
		s.log.Error("notification delivery failed",
			zap.String("notification_id", e.Notification.ID),
			zap.String("template", e.Notification.Template),
			zap.String("recipient", e.Notification.Recipient),
			zap.Error(e.Err))
	}
}

// Close stops accepting notifications and waits for the queued ones to be
// sent, or for ctx to expire.
func (s *Scheduler) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(s.errs)
		s.errWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
