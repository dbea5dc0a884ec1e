package model

import "time"

type RequestKind string

const (
	KindInvestment RequestKind = "investment"
	KindWithdrawal RequestKind = "withdrawal"
)

func (k RequestKind) String() string { return string(k) }

// TransitionEvent is the audit row written with every accepted transition.
// It is mirrored to ClickHouse for reporting.
type TransitionEvent struct {
	ID         string      `db:"id"          json:"id"`
	Kind       RequestKind `db:"kind"        json:"kind"`
	RequestID  string      `db:"request_id"  json:"requestId"`
	Username   string      `db:"username"    json:"username"`
	FromStatus string      `db:"from_status" json:"fromStatus"`
	ToStatus   string      `db:"to_status"   json:"toStatus"`
	Comment    string      `db:"comment"     json:"comment"`
	Actor      string      `db:"actor"       json:"actor"`
	CreatedAt  time.Time   `db:"created_at"  json:"createdAt"`
}
