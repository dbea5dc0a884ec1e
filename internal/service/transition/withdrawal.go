package transition

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmehdipour/invest-backoffice/internal/metrics"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"go.uber.org/zap"
)

// TransitionWithdrawal applies status (active, rejected or delete) to a withdrawal.
// "active" fulfils the withdrawal, which is stored as completed.
func (e *Engine) TransitionWithdrawal(ctx context.Context, id, status, comment, actor string) (res Result, err error) {
	action, ok := ParseAction(status)
	defer func() {
		metrics.TransitionsTotal.WithLabelValues(model.KindWithdrawal.String(), actionLabel(action, ok), outcome(err)).Inc()
	}()
	if !ok {
		return Result{}, fmt.Errorf("%w: status %q must be one of active, rejected or delete", ErrInvalidArgument, status)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Result{}, fmt.Errorf("%w: empty withdrawal id", ErrInvalidArgument)
	}

	res = Result{Kind: model.KindWithdrawal, ID: id, Action: action}
	err = e.run(ctx, model.KindWithdrawal, id, func(tx Tx) (*model.Notification, error) {
		wd, err := tx.WithdrawalForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load withdrawal: %w", err)
		}
		if wd == nil {
			return nil, fmt.Errorf("%w: withdrawal %s", ErrNotFound, id)
		}

		switch action {
		case ActionDelete:
			res.Status = statusDeleted
			return nil, e.deleteWithdrawal(ctx, tx, wd, comment, actor)
		case ActionReject:
			res.Status = model.WithdrawalRejected.String()
			return e.rejectWithdrawal(ctx, tx, wd, comment, actor)
		default:
			res.Status = model.WithdrawalCompleted.String()
			return e.fulfilWithdrawal(ctx, tx, wd, comment, actor)
		}
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (e *Engine) deleteWithdrawal(ctx context.Context, tx Tx, wd *model.Withdrawal, comment, actor string) error {
	if err := tx.DeleteWithdrawal(ctx, wd.ID); err != nil {
		return fmt.Errorf("delete withdrawal: %w", err)
	}
	return e.record(ctx, tx, model.KindWithdrawal, wd.ID, wd.Username, wd.Status.String(), statusDeleted, comment, actor)
}

func (e *Engine) fulfilWithdrawal(ctx context.Context, tx Tx, wd *model.Withdrawal, comment, actor string) (*model.Notification, error) {
	if wd.Status != model.WithdrawalPending {
		return nil, fmt.Errorf("%w: withdrawal %s is already %s", ErrConflict, wd.ID, wd.Status)
	}

	now := e.now()
	if err := tx.SetWithdrawalStatus(ctx, wd.ID, model.WithdrawalCompleted, comment, &now, nil); err != nil {
		return nil, fmt.Errorf("update withdrawal: %w", err)
	}
	if err := e.record(ctx, tx, model.KindWithdrawal, wd.ID, wd.Username, wd.Status.String(), model.WithdrawalCompleted.String(), comment, actor); err != nil {
		return nil, err
	}

	owner, err := tx.CustomerByUsername(ctx, wd.Username, false)
	if err != nil || owner == nil {
		e.log.Warn("owner lookup failed; fulfilment mail skipped",
			zap.String("withdrawal_id", wd.ID), zap.String("username", wd.Username), zap.Error(err))
		return nil, nil
	}

	return e.notification(model.TemplateWithdrawFulfilled, owner, map[string]string{
		"amount":     wd.Amount.String(),
		"TID":        wd.TID,
		"wallet":     wd.Wallet,
		"comment":    comment,
		"acceptDate": formatTime(now),
	}), nil
}

func (e *Engine) rejectWithdrawal(ctx context.Context, tx Tx, wd *model.Withdrawal, comment, actor string) (*model.Notification, error) {
	if wd.Status != model.WithdrawalPending {
		return nil, fmt.Errorf("%w: withdrawal %s is already %s", ErrConflict, wd.ID, wd.Status)
	}

	owner, err := tx.CustomerByUsername(ctx, wd.Username, true)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, wd.Username)
	}

	if err := e.credit(ctx, tx, model.LedgerEntry{
		CustomerID:     owner.ID,
		Op:             model.LedgerRefund,
		Amount:         wd.Amount,
		IdempotencyKey: "refund-" + wd.ID,
		RefID:          wd.ID,
	}); err != nil {
		return nil, err
	}
	if err := tx.CreditProfit(ctx, owner.ID, wd.Amount); err != nil {
		return nil, fmt.Errorf("refund profit: %w", err)
	}

	now := e.now()
	if err := tx.SetWithdrawalStatus(ctx, wd.ID, model.WithdrawalRejected, comment, nil, &now); err != nil {
		return nil, fmt.Errorf("update withdrawal: %w", err)
	}
	if err := e.record(ctx, tx, model.KindWithdrawal, wd.ID, wd.Username, wd.Status.String(), model.WithdrawalRejected.String(), comment, actor); err != nil {
		return nil, err
	}

	return e.notification(model.TemplateWithdrawRejected, owner, map[string]string{
		"amount":     wd.Amount.String(),
		"TID":        wd.TID,
		"wallet":     wd.Wallet,
		"comment":    comment,
		"rejectDate": formatTime(now),
	}), nil
}
