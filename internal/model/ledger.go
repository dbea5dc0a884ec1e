package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type LedgerOp string

const (
	LedgerAccrual       LedgerOp = "accrual"
	LedgerReferralBonus LedgerOp = "referral_bonus"
	LedgerRefund        LedgerOp = "refund"
)

// LedgerEntry records one increment applied to a customer account.
// IdempotencyKey is unique; a second entry with the same key means the
// credit was already applied.
type LedgerEntry struct {
	ID             int64           `db:"id"`
	CustomerID     int64           `db:"customer_id"`
	Op             LedgerOp        `db:"op"`
	Amount         decimal.Decimal `db:"amount"`
	IdempotencyKey string          `db:"idempotency_key"`
	RefID          string          `db:"ref_id"`
	CreatedAt      time.Time       `db:"created_at"`
}
