package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvestmentStatus string

const (
	InvestmentPending  InvestmentStatus = "pending"
	InvestmentActive   InvestmentStatus = "active"
	InvestmentRejected InvestmentStatus = "rejected"
)

func (s InvestmentStatus) String() string { return string(s) }

func (s InvestmentStatus) Valid() bool {
	return s == InvestmentPending || s == InvestmentActive || s == InvestmentRejected
}

// ParseInvestmentStatus is used by list filters; empty input is not valid.
func ParseInvestmentStatus(s string) (InvestmentStatus, bool) {
	st := InvestmentStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

// Investment is a customer's request to fund a plan.
type Investment struct {
	ID         string           `db:"id"          json:"id"`
	Username   string           `db:"username"    json:"username"`
	Plan       Plan             `db:"plan"        json:"plan"`
	Amount     decimal.Decimal  `db:"amount"      json:"amount"`
	TID        string           `db:"tid"         json:"TID"`
	Status     InvestmentStatus `db:"status"      json:"status"`
	Comment    *string          `db:"comment"     json:"comment,omitempty"`
	AcceptDate *time.Time       `db:"accept_date" json:"acceptDate,omitempty"`
	CreatedAt  time.Time        `db:"created_at"  json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at"  json:"updatedAt"`
}
