package model

import "time"

type TicketStatus string

const (
	TicketOpen     TicketStatus = "Open"
	TicketPending  TicketStatus = "Pending"
	TicketResolved TicketStatus = "Resolved"
)

func (s TicketStatus) Valid() bool {
	return s == TicketOpen || s == TicketPending || s == TicketResolved
}

type Ticket struct {
	TicketNo     string          `db:"ticket_no"  json:"ticketNo"`
	Username     string          `db:"username"   json:"username"`
	Subject      string          `db:"subject"    json:"subject"`
	Status       TicketStatus    `db:"status"     json:"status"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
	Conversation []TicketMessage `db:"-"          json:"conversation,omitempty"`
}

type TicketMessage struct {
	ID        int64     `db:"id"         json:"-"`
	TicketNo  string    `db:"ticket_no"  json:"-"`
	Sender    string    `db:"sender"     json:"sender"`
	Message   string    `db:"message"    json:"message"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}
