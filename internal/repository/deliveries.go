package repository

import (
	"context"
	"strings"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
)

type DeliveriesRepository interface {
	InsertBatch(ctx context.Context, rows []model.NotificationDelivery) error
}

type deliveriesRepo struct {
	db *sqlx.DB
}

func NewDeliveriesRepository(db *sqlx.DB) DeliveriesRepository { return &deliveriesRepo{db: db} }

// InsertBatch writes all outcomes in one statement. A redelivered Kafka
// message overwrites the earlier outcome of the same notification.
func (r *deliveriesRepo) InsertBatch(ctx context.Context, rows []model.NotificationDelivery) error {
	if len(rows) == 0 {
		return nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(rows)*7)

	sb.WriteString(`INSERT INTO notification_deliveries (notification_id, template, recipient, status, provider, error, created_at) VALUES `)
	for i, d := range rows {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, d.NotificationID, d.Template, d.Recipient, d.Status.String(), d.Provider, d.Error, d.CreatedAt)
	}
	sb.WriteString(` ON DUPLICATE KEY UPDATE status = VALUES(status), provider = VALUES(provider), error = VALUES(error)`)

	_, err := r.db.ExecContext(ctx, sb.String(), args...)
	return err
}
