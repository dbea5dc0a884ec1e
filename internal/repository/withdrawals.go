package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
)

type WithdrawalsRepository interface {
	Get(ctx context.Context, id string) (*model.Withdrawal, error)
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Withdrawal, error)
	List(ctx context.Context, status model.WithdrawalStatus, limit, offset int) ([]model.Withdrawal, error)

	SetStatus(ctx context.Context, tx *sqlx.Tx, id string, status model.WithdrawalStatus, comment string, acceptDate, rejectDate *time.Time) error
	Delete(ctx context.Context, tx *sqlx.Tx, id string) error
}

type WithdrawalsRepositoryImpl struct {
	db *sqlx.DB
}

func NewWithdrawalsRepository(db *sqlx.DB) *WithdrawalsRepositoryImpl {
	return &WithdrawalsRepositoryImpl{db: db}
}

var _ WithdrawalsRepository = (*WithdrawalsRepositoryImpl)(nil)

const withdrawalColumns = `id, username, amount, wallet, tid, status, comment, accept_date, reject_date, created_at, updated_at`

func (r *WithdrawalsRepositoryImpl) Get(ctx context.Context, id string) (*model.Withdrawal, error) {
	var wd model.Withdrawal
	err := r.db.GetContext(ctx, &wd, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wd, nil
}

func (r *WithdrawalsRepositoryImpl) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Withdrawal, error) {
	var wd model.Withdrawal
	err := tx.GetContext(ctx, &wd, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = ? FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wd, nil
}

func (r *WithdrawalsRepositoryImpl) List(ctx context.Context, status model.WithdrawalStatus, limit, offset int) ([]model.Withdrawal, error) {
	limit, offset = page(limit, offset)

	q := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status.String())
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows := []model.Withdrawal{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *WithdrawalsRepositoryImpl) SetStatus(ctx context.Context, tx *sqlx.Tx, id string, status model.WithdrawalStatus, comment string, acceptDate, rejectDate *time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE withdrawals
		SET status = ?, comment = ?,
		    accept_date = COALESCE(?, accept_date),
		    reject_date = COALESCE(?, reject_date),
		    updated_at = NOW()
		WHERE id = ?
	`, status.String(), comment, acceptDate, rejectDate, id)
	return err
}

func (r *WithdrawalsRepositoryImpl) Delete(ctx context.Context, tx *sqlx.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM withdrawals WHERE id = ?`, id)
	return err
}
