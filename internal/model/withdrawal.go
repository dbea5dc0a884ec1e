package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

// A fulfilled withdrawal is stored as "completed" even though operators
// request it with the "active" action.
const (
	WithdrawalPending   WithdrawalStatus = "pending"
	WithdrawalCompleted WithdrawalStatus = "completed"
	WithdrawalRejected  WithdrawalStatus = "rejected"
)

func (s WithdrawalStatus) String() string { return string(s) }

func (s WithdrawalStatus) Valid() bool {
	return s == WithdrawalPending || s == WithdrawalCompleted || s == WithdrawalRejected
}

func ParseWithdrawalStatus(s string) (WithdrawalStatus, bool) {
	st := WithdrawalStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

type Withdrawal struct {
	ID         string           `db:"id"          json:"id"`
	Username   string           `db:"username"    json:"username"`
	Amount     decimal.Decimal  `db:"amount"      json:"amount"`
	Wallet     string           `db:"wallet"      json:"wallet"`
	TID        string           `db:"tid"         json:"TID"`
	Status     WithdrawalStatus `db:"status"      json:"status"`
	Comment    *string          `db:"comment"     json:"comment,omitempty"`
	AcceptDate *time.Time       `db:"accept_date" json:"acceptDate,omitempty"`
	RejectDate *time.Time       `db:"reject_date" json:"rejectDate,omitempty"`
	CreatedAt  time.Time        `db:"created_at"  json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at"  json:"updatedAt"`
}
