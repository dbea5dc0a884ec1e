package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
)

type AdminsRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
	Upsert(ctx context.Context, a model.Admin) error
}

type AdminsRepositoryImpl struct {
	db *sqlx.DB
}

func NewAdminsRepository(db *sqlx.DB) *AdminsRepositoryImpl {
	return &AdminsRepositoryImpl{db: db}
}

var _ AdminsRepository = (*AdminsRepositoryImpl)(nil)

func (r *AdminsRepositoryImpl) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return r.get(ctx, `SELECT id, username, email, password_hash, created_at FROM admins WHERE username = ? LIMIT 1`, username)
}

func (r *AdminsRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	return r.get(ctx, `SELECT id, username, email, password_hash, created_at FROM admins WHERE id = ? LIMIT 1`, id)
}

func (r *AdminsRepositoryImpl) get(ctx context.Context, q string, arg any) (*model.Admin, error) {
	var a model.Admin
	err := r.db.GetContext(ctx, &a, q, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Upsert is used by the seed command; an existing admin gets the new hash and email.
func (r *AdminsRepositoryImpl) Upsert(ctx context.Context, a model.Admin) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (username, email, password_hash, created_at)
		VALUES (?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE email = VALUES(email), password_hash = VALUES(password_hash)
	`, a.Username, a.Email, a.PasswordHash)
	return err
}
