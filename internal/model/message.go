package model

import "time"

type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) Valid() bool {
	return s == DeliverySent || s == DeliveryFailed
}

// NotificationDelivery is one mail attempt outcome recorded by the mailer worker.
type NotificationDelivery struct {
	NotificationID string         `db:"notification_id"`
	Template       string         `db:"template"`
	Recipient      string         `db:"recipient"`
	Status         DeliveryStatus `db:"status"`
	Provider       string         `db:"provider"`
	Error          string         `db:"error"`
	CreatedAt      time.Time      `db:"created_at"`
}
