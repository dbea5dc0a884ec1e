package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/service/transition"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// TransitionStore runs transitions over the MySQL repositories, one
// database transaction per call.
type TransitionStore struct {
	db          *sqlx.DB
	customers   CustomersRepository
	investments InvestmentsRepository
	withdrawals WithdrawalsRepository
	ledger      LedgerRepository
	audit       TransitionLogRepository
}

func NewTransitionStore(db *sqlx.DB) *TransitionStore {
	return &TransitionStore{
		db:          db,
		customers:   NewCustomersRepository(db),
		investments: NewInvestmentsRepository(db),
		withdrawals: NewWithdrawalsRepository(db),
		ledger:      NewLedgerRepository(db),
		audit:       NewTransitionLogRepository(db),
	}
}

var _ transition.Store = (*TransitionStore)(nil)

func (s *TransitionStore) InTx(ctx context.Context, fn func(tx transition.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&storeTx{s: s, tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type storeTx struct {
	s  *TransitionStore
	tx *sqlx.Tx
}

func (t *storeTx) InvestmentForUpdate(ctx context.Context, id string) (*model.Investment, error) {
	return t.s.investments.GetForUpdate(ctx, t.tx, id)
}

func (t *storeTx) SetInvestmentStatus(ctx context.Context, id string, st model.InvestmentStatus, comment string, acceptDate *time.Time) error {
	return t.s.investments.SetStatus(ctx, t.tx, id, st, comment, acceptDate)
}

func (t *storeTx) DeleteInvestment(ctx context.Context, id string) error {
	return t.s.investments.Delete(ctx, t.tx, id)
}

func (t *storeTx) WithdrawalForUpdate(ctx context.Context, id string) (*model.Withdrawal, error) {
	return t.s.withdrawals.GetForUpdate(ctx, t.tx, id)
}

func (t *storeTx) SetWithdrawalStatus(ctx context.Context, id string, st model.WithdrawalStatus, comment string, acceptDate, rejectDate *time.Time) error {
	return t.s.withdrawals.SetStatus(ctx, t.tx, id, st, comment, acceptDate, rejectDate)
}

func (t *storeTx) DeleteWithdrawal(ctx context.Context, id string) error {
	return t.s.withdrawals.Delete(ctx, t.tx, id)
}

func (t *storeTx) CustomerByUsername(ctx context.Context, username string, forUpdate bool) (*model.Customer, error) {
	return t.s.customers.GetByUsername(ctx, t.tx, username, forUpdate)
}

func (t *storeTx) ActivateCustomer(ctx context.Context, customerID int64, accrual decimal.Decimal) error {
	return t.s.customers.Activate(ctx, t.tx, customerID, accrual)
}

func (t *storeTx) MarkReferralPaid(ctx context.Context, customerID int64) (bool, error) {
	return t.s.customers.MarkReferralPaid(ctx, t.tx, customerID)
}

func (t *storeTx) CreditReferrer(ctx context.Context, customerID int64, bonus decimal.Decimal) error {
	return t.s.customers.CreditReferrer(ctx, t.tx, customerID, bonus)
}

func (t *storeTx) CreditProfit(ctx context.Context, customerID int64, amount decimal.Decimal) error {
	return t.s.customers.CreditProfit(ctx, t.tx, customerID, amount)
}

func (t *storeTx) InsertLedger(ctx context.Context, e model.LedgerEntry) (bool, error) {
	return t.s.ledger.Insert(ctx, t.tx, e)
}

func (t *storeTx) InsertTransition(ctx context.Context, ev model.TransitionEvent) error {
	return t.s.audit.Insert(ctx, t.tx, ev)
}
