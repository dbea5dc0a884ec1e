package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a platform account. Requests reference it by Username, not ID.
type Customer struct {
	ID            int64           `db:"id"             json:"id"`
	Username      string          `db:"username"       json:"username"`
	Email         string          `db:"email"          json:"email"`
	PPD           decimal.Decimal `db:"ppd"            json:"ppd"`    // accrual rate
	Profit        decimal.Decimal `db:"profit"         json:"profit"` // withdrawable profit balance
	Active        bool            `db:"active"         json:"active"`
	ReferralCode  string          `db:"referral_code"  json:"referralCode"` // referrer's username, may be empty
	ReferralPaid  bool            `db:"referral_paid"  json:"referralPaid"`
	ReferralBonus decimal.Decimal `db:"referral_bonus" json:"referralBonus"`
	ReferralCount int             `db:"referral_count" json:"referralCount"`
	CreatedAt     time.Time       `db:"created_at"     json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at"     json:"updatedAt"`
}
