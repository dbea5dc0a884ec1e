package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type CustomersRepository interface {
	GetByUsername(ctx context.Context, tx *sqlx.Tx, username string, forUpdate bool) (*model.Customer, error)
	List(ctx context.Context, limit, offset int) ([]model.Customer, error)

	Activate(ctx context.Context, tx *sqlx.Tx, customerID int64, accrual decimal.Decimal) error
	MarkReferralPaid(ctx context.Context, tx *sqlx.Tx, customerID int64) (bool, error)
	CreditReferrer(ctx context.Context, tx *sqlx.Tx, customerID int64, bonus decimal.Decimal) error
	CreditProfit(ctx context.Context, tx *sqlx.Tx, customerID int64, amount decimal.Decimal) error
}

type CustomersRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomersRepository(db *sqlx.DB) *CustomersRepositoryImpl {
	return &CustomersRepositoryImpl{db: db}
}

var _ CustomersRepository = (*CustomersRepositoryImpl)(nil)

const customerColumns = `id, username, email, ppd, profit, active, referral_code, referral_paid,
		       referral_bonus, referral_count, created_at, updated_at`

// GetByUsername returns (nil, nil) when no customer has that username.
// forUpdate locks the row until tx ends and requires a non-nil tx.
func (r *CustomersRepositoryImpl) GetByUsername(ctx context.Context, tx *sqlx.Tx, username string, forUpdate bool) (*model.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers WHERE username = ? LIMIT 1`
	if forUpdate {
		q += ` FOR UPDATE`
	}

	var c model.Customer
	var err error
	if tx != nil {
		err = tx.GetContext(ctx, &c, q, username)
	} else {
		err = r.db.GetContext(ctx, &c, q, username)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomersRepositoryImpl) List(ctx context.Context, limit, offset int) ([]model.Customer, error) {
	limit, offset = page(limit, offset)
	rows := []model.Customer{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+customerColumns+` FROM customers ORDER BY id DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Activate sets active and adds accrual to ppd in one statement.
func (r *CustomersRepositoryImpl) Activate(ctx context.Context, tx *sqlx.Tx, customerID int64, accrual decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET active = 1, ppd = ppd + ?, updated_at = NOW()
		WHERE id = ?
	`, accrual, customerID)
	return err
}

// MarkReferralPaid is a compare-and-set: it reports true only for the call
// that flipped referral_paid.
func (r *CustomersRepositoryImpl) MarkReferralPaid(ctx context.Context, tx *sqlx.Tx, customerID int64) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET referral_paid = 1, updated_at = NOW()
		WHERE id = ? AND referral_paid = 0
	`, customerID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *CustomersRepositoryImpl) CreditReferrer(ctx context.Context, tx *sqlx.Tx, customerID int64, bonus decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET referral_bonus = referral_bonus + ?, referral_count = referral_count + 1, updated_at = NOW()
		WHERE id = ?
	`, bonus, customerID)
	return err
}

func (r *CustomersRepositoryImpl) CreditProfit(ctx context.Context, tx *sqlx.Tx, customerID int64, amount decimal.Decimal) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET profit = profit + ?, updated_at = NOW()
		WHERE id = ?
	`, amount, customerID)
	return err
}
