package repository

import (
	"context"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
)

type LedgerRepository interface {
	Insert(ctx context.Context, tx *sqlx.Tx, e model.LedgerEntry) (bool, error)
	ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]model.LedgerEntry, error)
}

type ledgerRepo struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) LedgerRepository { return &ledgerRepo{db: db} }

// Insert reports false when a row with the same idempotency key already exists.
// With ON DUPLICATE KEY UPDATE id = id MySQL reports 0 affected rows for the duplicate.
func (r *ledgerRepo) Insert(ctx context.Context, tx *sqlx.Tx, e model.LedgerEntry) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO customer_ledger (customer_id, op, amount, idempotency_key, ref_id, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE id = id
	`, e.CustomerID, string(e.Op), e.Amount, e.IdempotencyKey, e.RefID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *ledgerRepo) ListByCustomer(ctx context.Context, customerID int64, limit, offset int) ([]model.LedgerEntry, error) {
	limit, offset = page(limit, offset)
	rows := []model.LedgerEntry{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, customer_id, op, amount, idempotency_key, ref_id, created_at
		FROM customer_ledger
		WHERE customer_id = ?
		ORDER BY id DESC LIMIT ? OFFSET ?
	`, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
