package repository

import (
	"context"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
)

// TransitionFilter narrows a report; zero fields match everything.
type TransitionFilter struct {
	Kind     model.RequestKind
	Username string
	Limit    int
	Offset   int
}

// CHTransitionsRepository lists audit events from ClickHouse (final view).
type CHTransitionsRepository interface {
	List(ctx context.Context, f TransitionFilter) ([]model.TransitionEvent, error)
}

type chTransitionsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHTransitionsRepository(ch *sqlx.DB) CHTransitionsRepository {
	return &chTransitionsRepository{ch: ch}
}

func (r *chTransitionsRepository) List(ctx context.Context, f TransitionFilter) ([]model.TransitionEvent, error) {
	limit, offset := page(f.Limit, f.Offset)

	q := `
		SELECT id, kind, request_id, username, from_status, to_status, comment, actor, created_at
		FROM backoffice.transitions_latest
		WHERE 1 = 1
	`
	args := []any{}

	if f.Kind != "" {
		q += " AND kind = ?"
		args = append(args, f.Kind.String())
	}
	if f.Username != "" {
		q += " AND username = ?"
		args = append(args, f.Username)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows := []model.TransitionEvent{}
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
