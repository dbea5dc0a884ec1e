package transition_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/lock"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/service/transition"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

type memState struct {
	investments map[string]model.Investment
	withdrawals map[string]model.Withdrawal
	customers   map[int64]model.Customer
	ledger      map[string]model.LedgerEntry
	events      []model.TransitionEvent
}

func (s memState) clone() memState {
	c := memState{
		investments: make(map[string]model.Investment, len(s.investments)),
		withdrawals: make(map[string]model.Withdrawal, len(s.withdrawals)),
		customers:   make(map[int64]model.Customer, len(s.customers)),
		ledger:      make(map[string]model.LedgerEntry, len(s.ledger)),
		events:      append([]model.TransitionEvent(nil), s.events...),
	}
	for k, v := range s.investments {
		c.investments[k] = v
	}
	for k, v := range s.withdrawals {
		c.withdrawals[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.ledger {
		c.ledger[k] = v
	}
	return c
}

// memStore serializes transactions and commits a working copy only when fn succeeds.
type memStore struct {
	mu     sync.Mutex
	state  memState
	failOn string
}

func newMemStore() *memStore {
	return &memStore{state: memState{
		investments: map[string]model.Investment{},
		withdrawals: map[string]model.Withdrawal{},
		customers:   map[int64]model.Customer{},
		ledger:      map[string]model.LedgerEntry{},
	}}
}

func (m *memStore) InTx(ctx context.Context, fn func(tx transition.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	work := m.state.clone()
	if err := fn(&memTx{s: &work, failOn: m.failOn}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) addCustomer(c model.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.customers[c.ID] = c
}

func (m *memStore) addInvestment(i model.Investment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.investments[i.ID] = i
}

func (m *memStore) addWithdrawal(w model.Withdrawal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.withdrawals[w.ID] = w
}

func (m *memStore) customer(id int64) model.Customer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.customers[id]
}

func (m *memStore) investment(id string) (model.Investment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.state.investments[id]
	return i, ok
}

func (m *memStore) withdrawal(id string) (model.Withdrawal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.state.withdrawals[id]
	return w, ok
}

func (m *memStore) snapshot() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

type memTx struct {
	s      *memState
	failOn string
}

func (t *memTx) fail(op string) error {
	if t.failOn == op {
		return errBoom
	}
	return nil
}

func (t *memTx) InvestmentForUpdate(_ context.Context, id string) (*model.Investment, error) {
	if err := t.fail("InvestmentForUpdate"); err != nil {
		return nil, err
	}
	i, ok := t.s.investments[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (t *memTx) SetInvestmentStatus(_ context.Context, id string, st model.InvestmentStatus, comment string, acceptDate *time.Time) error {
	if err := t.fail("SetInvestmentStatus"); err != nil {
		return err
	}
	i := t.s.investments[id]
	i.Status = st
	i.Comment = &comment
	if acceptDate != nil {
		i.AcceptDate = acceptDate
	}
	t.s.investments[id] = i
	return nil
}

func (t *memTx) DeleteInvestment(_ context.Context, id string) error {
	delete(t.s.investments, id)
	return nil
}

func (t *memTx) WithdrawalForUpdate(_ context.Context, id string) (*model.Withdrawal, error) {
	w, ok := t.s.withdrawals[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (t *memTx) SetWithdrawalStatus(_ context.Context, id string, st model.WithdrawalStatus, comment string, acceptDate, rejectDate *time.Time) error {
	w := t.s.withdrawals[id]
	w.Status = st
	w.Comment = &comment
	if acceptDate != nil {
		w.AcceptDate = acceptDate
	}
	if rejectDate != nil {
		w.RejectDate = rejectDate
	}
	t.s.withdrawals[id] = w
	return nil
}

func (t *memTx) DeleteWithdrawal(_ context.Context, id string) error {
	delete(t.s.withdrawals, id)
	return nil
}

func (t *memTx) CustomerByUsername(_ context.Context, username string, _ bool) (*model.Customer, error) {
	if err := t.fail("CustomerByUsername"); err != nil {
		return nil, err
	}
	for _, c := range t.s.customers {
		if c.Username == username {
			return &c, nil
		}
	}
	return nil, nil
}

func (t *memTx) ActivateCustomer(_ context.Context, id int64, accrual decimal.Decimal) error {
	c := t.s.customers[id]
	c.Active = true
	c.PPD = c.PPD.Add(accrual)
	t.s.customers[id] = c
	return nil
}

func (t *memTx) MarkReferralPaid(_ context.Context, id int64) (bool, error) {
	c := t.s.customers[id]
	if c.ReferralPaid {
		return false, nil
	}
	c.ReferralPaid = true
	t.s.customers[id] = c
	return true, nil
}

func (t *memTx) CreditReferrer(_ context.Context, id int64, bonus decimal.Decimal) error {
	c := t.s.customers[id]
	c.ReferralBonus = c.ReferralBonus.Add(bonus)
	c.ReferralCount++
	t.s.customers[id] = c
	return nil
}

func (t *memTx) CreditProfit(_ context.Context, id int64, amount decimal.Decimal) error {
	c := t.s.customers[id]
	c.Profit = c.Profit.Add(amount)
	t.s.customers[id] = c
	return nil
}

func (t *memTx) InsertLedger(_ context.Context, e model.LedgerEntry) (bool, error) {
	if _, ok := t.s.ledger[e.IdempotencyKey]; ok {
		return false, nil
	}
	t.s.ledger[e.IdempotencyKey] = e
	return true, nil
}

func (t *memTx) InsertTransition(_ context.Context, ev model.TransitionEvent) error {
	t.s.events = append(t.s.events, ev)
	return nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []model.Notification
}

func (r *recordingNotifier) Schedule(n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) all() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.notes...)
}

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return nil, lock.ErrBusy
}
