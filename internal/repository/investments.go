package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
)

type InvestmentsRepository interface {
	Get(ctx context.Context, id string) (*model.Investment, error)
	GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Investment, error)
	List(ctx context.Context, status model.InvestmentStatus, limit, offset int) ([]model.Investment, error)

	SetStatus(ctx context.Context, tx *sqlx.Tx, id string, status model.InvestmentStatus, comment string, acceptDate *time.Time) error
	Delete(ctx context.Context, tx *sqlx.Tx, id string) error
}

type InvestmentsRepositoryImpl struct {
	db *sqlx.DB
}

func NewInvestmentsRepository(db *sqlx.DB) *InvestmentsRepositoryImpl {
	return &InvestmentsRepositoryImpl{db: db}
}

var _ InvestmentsRepository = (*InvestmentsRepositoryImpl)(nil)

const investmentColumns = `id, username, plan, amount, tid, status, comment, accept_date, created_at, updated_at`

func (r *InvestmentsRepositoryImpl) Get(ctx context.Context, id string) (*model.Investment, error) {
	var inv model.Investment
	err := r.db.GetContext(ctx, &inv, `SELECT `+investmentColumns+` FROM investments WHERE id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetForUpdate locks the investment row until tx ends.
func (r *InvestmentsRepositoryImpl) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*model.Investment, error) {
	var inv model.Investment
	err := tx.GetContext(ctx, &inv, `SELECT `+investmentColumns+` FROM investments WHERE id = ? FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// List returns investments newest first; an empty status lists all of them.
func (r *InvestmentsRepositoryImpl) List(ctx context.Context, status model.InvestmentStatus, limit, offset int) ([]model.Investment, error) {
	limit, offset = page(limit, offset)

	q := `SELECT ` + investmentColumns + ` FROM investments`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status.String())
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows := []model.Investment{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// SetStatus keeps the stored accept_date when acceptDate is nil.
func (r *InvestmentsRepositoryImpl) SetStatus(ctx context.Context, tx *sqlx.Tx, id string, status model.InvestmentStatus, comment string, acceptDate *time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE investments
		SET status = ?, comment = ?, accept_date = COALESCE(?, accept_date), updated_at = NOW()
		WHERE id = ?
	`, status.String(), comment, acceptDate, id)
	return err
}

func (r *InvestmentsRepositoryImpl) Delete(ctx context.Context, tx *sqlx.Tx, id string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id)
	return err
}
