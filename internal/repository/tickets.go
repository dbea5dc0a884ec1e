package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmoiron/sqlx"
)

type TicketsRepository interface {
	List(ctx context.Context, status model.TicketStatus, limit, offset int) ([]model.Ticket, error)
	Get(ctx context.Context, ticketNo string) (*model.Ticket, error)
	// AddMessage appends to the conversation and reopens the ticket.
	// It reports false when the ticket does not exist.
	AddMessage(ctx context.Context, ticketNo, sender, message string) (bool, error)
	// SetStatus reports false when the ticket does not exist or already has status.
	SetStatus(ctx context.Context, ticketNo string, status model.TicketStatus) (bool, error)
}

type TicketsRepositoryImpl struct {
	db *sqlx.DB
}

func NewTicketsRepository(db *sqlx.DB) *TicketsRepositoryImpl {
	return &TicketsRepositoryImpl{db: db}
}

var _ TicketsRepository = (*TicketsRepositoryImpl)(nil)

func (r *TicketsRepositoryImpl) List(ctx context.Context, status model.TicketStatus, limit, offset int) ([]model.Ticket, error) {
	limit, offset = page(limit, offset)

	q := `SELECT ticket_no, username, subject, status, created_at, updated_at FROM tickets`
	args := []any{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY updated_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows := []model.Ticket{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Get loads the ticket with its conversation, oldest message first.
func (r *TicketsRepositoryImpl) Get(ctx context.Context, ticketNo string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.GetContext(ctx, &t, `
		SELECT ticket_no, username, subject, status, created_at, updated_at
		FROM tickets WHERE ticket_no = ? LIMIT 1
	`, ticketNo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.SelectContext(ctx, &t.Conversation, `
		SELECT id, ticket_no, sender, message, created_at
		FROM ticket_messages WHERE ticket_no = ? ORDER BY id
	`, ticketNo); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketsRepositoryImpl) AddMessage(ctx context.Context, ticketNo, sender, message string) (bool, error) {
	found := false
	err := r.withTicket(ctx, ticketNo, func(tx *sqlx.Tx, _ model.TicketStatus) error {
		found = true
		if err := setTicketStatus(ctx, tx, ticketNo, model.TicketOpen); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ticket_messages (ticket_no, sender, message, created_at)
			VALUES (?, ?, ?, NOW())
		`, ticketNo, sender, message)
		return err
	})
	return found, err
}

func (r *TicketsRepositoryImpl) SetStatus(ctx context.Context, ticketNo string, status model.TicketStatus) (bool, error) {
	changed := false
	err := r.withTicket(ctx, ticketNo, func(tx *sqlx.Tx, current model.TicketStatus) error {
		if current == status {
			return nil
		}
		changed = true
		return setTicketStatus(ctx, tx, ticketNo, status)
	})
	return changed, err
}

// withTicket locks the ticket row and runs fn with its current status in the
// same transaction. fn is not called when the ticket does not exist.
func (r *TicketsRepositoryImpl) withTicket(ctx context.Context, ticketNo string, fn func(*sqlx.Tx, model.TicketStatus) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowxContext(ctx, `SELECT status FROM tickets WHERE ticket_no = ? FOR UPDATE`, ticketNo).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := fn(tx, model.TicketStatus(current)); err != nil {
		return err
	}
	return tx.Commit()
}

func setTicketStatus(ctx context.Context, tx *sqlx.Tx, ticketNo string, status model.TicketStatus) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE tickets SET status = ?, updated_at = NOW() WHERE ticket_no = ?
	`, string(status), ticketNo)
	return err
}
