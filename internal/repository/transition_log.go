package repository

import (
	"context"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
)

// TransitionLogRepository persists the audit trail of accepted transitions.
type TransitionLogRepository interface {
	// Insert writes a single event. If tx is nil it opens and commits its own
	// transaction; otherwise the row commits with tx.
	Insert(ctx context.Context, tx *sqlx.Tx, ev model.TransitionEvent) error
}

type TransitionLogRepositoryImpl struct {
	db *sqlx.DB
}

func NewTransitionLogRepository(db *sqlx.DB) *TransitionLogRepositoryImpl {
	return &TransitionLogRepositoryImpl{db: db}
}

var _ TransitionLogRepository = (*TransitionLogRepositoryImpl)(nil)

func (r *TransitionLogRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}

	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}

	return t.Commit()
}

// Insert adds an audit row. Debezium streams transition_log into ClickHouse
// where the reports endpoint reads it back.
func (r *TransitionLogRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, ev model.TransitionEvent) error {
	const q = `
		INSERT INTO transition_log
		    (id, kind, request_id, username, from_status, to_status, comment, actor, created_at)
		VALUES
		    (?,  ?,    ?,          ?,        ?,           ?,         ?,       ?,     ?)
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			ev.ID, ev.Kind.String(), ev.RequestID, ev.Username,
			ev.FromStatus, ev.ToStatus, ev.Comment, ev.Actor, ev.CreatedAt,
		)
		return err
	})
}
