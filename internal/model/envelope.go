package model

import "time"

// Template tags understood by the mailer.
const (
	TemplateInvestRejected    = "investRejected"
	TemplateInvestActivated   = "investActivated"
	TemplateWithdrawFulfilled = "withdrawFulfilled"
	TemplateWithdrawRejected  = "withdrawRejected"
)

// Notification is the envelope published to Kafka and consumed by the mailer worker.
type Notification struct {
	ID        string            `json:"id"` // ULID
	Template  string            `json:"template"`
	Recipient string            `json:"recipient"`
	Username  string            `json:"username"`
	Payload   map[string]string `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
}
