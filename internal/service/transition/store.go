package transition

import (
	"context"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/shopspring/decimal"
)

// Store runs fn inside one database transaction; fn's error rolls it back.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the record store as seen from inside a transition. Lookups return
// (nil, nil) when nothing matches. Increments are applied by the store, never
// computed here.
type Tx interface {
	InvestmentForUpdate(ctx context.Context, id string) (*model.Investment, error)
	SetInvestmentStatus(ctx context.Context, id string, st model.InvestmentStatus, comment string, acceptDate *time.Time) error
	DeleteInvestment(ctx context.Context, id string) error

	WithdrawalForUpdate(ctx context.Context, id string) (*model.Withdrawal, error)
	SetWithdrawalStatus(ctx context.Context, id string, st model.WithdrawalStatus, comment string, acceptDate, rejectDate *time.Time) error
	DeleteWithdrawal(ctx context.Context, id string) error

	CustomerByUsername(ctx context.Context, username string, forUpdate bool) (*model.Customer, error)
	// ActivateCustomer sets active and adds accrual to ppd.
	ActivateCustomer(ctx context.Context, customerID int64, accrual decimal.Decimal) error
	// MarkReferralPaid flips referral_paid false->true and reports whether this call did it.
	MarkReferralPaid(ctx context.Context, customerID int64) (bool, error)
	CreditReferrer(ctx context.Context, customerID int64, bonus decimal.Decimal) error
	CreditProfit(ctx context.Context, customerID int64, amount decimal.Decimal) error

	// InsertLedger reports false when the idempotency key already exists.
	InsertLedger(ctx context.Context, e model.LedgerEntry) (bool, error)
	InsertTransition(ctx context.Context, ev model.TransitionEvent) error
}

// Notifier schedules a notification without waiting for it.
type Notifier interface {
	Schedule(n model.Notification)
}
