// Package transition applies operator decisions to pending investment and
// withdrawal requests: it validates the decision, commits the request and
// customer mutations in one transaction and hands the resulting
// notification to a detached notifier.
package transition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/lock"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/util"
	"go.uber.org/zap"
)

const statusDeleted = "deleted"

// Result describes an accepted transition.
type Result struct {
	Kind   model.RequestKind
	ID     string
	Action Action
	Status string // stored status afterwards, "deleted" for removals
}

type Engine struct {
	store    Store
	locker   lock.Locker
	notifier Notifier
	log      *zap.Logger

	lockTTL time.Duration
	now     func() time.Time
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl > 0 {
			e.lockTTL = ttl
		}
	}
}

func New(store Store, locker lock.Locker, notifier Notifier, log *zap.Logger, opts ...Option) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		store:    store,
		locker:   locker,
		notifier: notifier,
		log:      log,
		lockTTL:  10 * time.Second,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// run holds the per-request lock for the whole read-validate-mutate sequence
// and schedules the notification produced by fn once the transaction committed.
func (e *Engine) run(ctx context.Context, kind model.RequestKind, id string, fn func(tx Tx) (*model.Notification, error)) error {
	release, err := e.locker.Acquire(ctx, kind.String()+":"+id, e.lockTTL)
	if errors.Is(err, lock.ErrBusy) {
		return fmt.Errorf("%w: %s %s is already being processed", ErrConflict, kind, id)
	}
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer release()

	var note *model.Notification
	err = e.store.InTx(ctx, func(tx Tx) error {
		n, err := fn(tx)
		note = n
		return err
	})
	if err != nil {
		return err
	}

	if note != nil {
		e.notifier.Schedule(*note)
	}
	return nil
}

func (e *Engine) record(ctx context.Context, tx Tx, kind model.RequestKind, id, username, from, to, comment, actor string) error {
	ev := model.TransitionEvent{
		ID:         util.New(),
		Kind:       kind,
		RequestID:  id,
		Username:   username,
		FromStatus: from,
		ToStatus:   to,
		Comment:    comment,
		Actor:      actor,
		CreatedAt:  e.now(),
	}
	if err := tx.InsertTransition(ctx, ev); err != nil {
		return fmt.Errorf("insert transition log: %w", err)
	}
	return nil
}

func (e *Engine) notification(template string, to *model.Customer, payload map[string]string) *model.Notification {
	if strings.TrimSpace(to.Email) == "" {
		e.log.Warn("customer has no email; notification skipped",
			zap.String("template", template), zap.String("username", to.Username))
		return nil
	}
	return &model.Notification{
		ID:        util.New(),
		Template:  template,
		Recipient: to.Email,
		Username:  to.Username,
		Payload:   payload,
		CreatedAt: e.now(),
	}
}

// credit writes the ledger row that guards a customer increment.
func (e *Engine) credit(ctx context.Context, tx Tx, entry model.LedgerEntry) error {
	inserted, err := tx.InsertLedger(ctx, entry)
	if err != nil {
		return fmt.Errorf("insert ledger %s: %w", entry.IdempotencyKey, err)
	}
	if !inserted {
		return fmt.Errorf("%w: %s was already credited", ErrConflict, entry.IdempotencyKey)
	}
	return nil
}

func actionLabel(a Action, ok bool) string {
	if !ok {
		return "unknown"
	}
	return a.String()
}

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }
