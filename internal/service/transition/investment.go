package transition

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmehdipour/invest-backoffice/internal/metrics"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransitionInvestment applies status (active, rejected or delete) to an investment.
func (e *Engine) TransitionInvestment(ctx context.Context, id, status, comment, actor string) (res Result, err error) {
	action, ok := ParseAction(status)
	defer func() {
		metrics.TransitionsTotal.WithLabelValues(model.KindInvestment.String(), actionLabel(action, ok), outcome(err)).Inc()
	}()
	if !ok {
		return Result{}, fmt.Errorf("%w: status %q must be one of active, rejected or delete", ErrInvalidArgument, status)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Result{}, fmt.Errorf("%w: empty investment id", ErrInvalidArgument)
	}

	res = Result{Kind: model.KindInvestment, ID: id, Action: action}
	err = e.run(ctx, model.KindInvestment, id, func(tx Tx) (*model.Notification, error) {
		inv, err := tx.InvestmentForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load investment: %w", err)
		}
		if inv == nil {
			return nil, fmt.Errorf("%w: investment %s", ErrNotFound, id)
		}

		switch action {
		case ActionDelete:
			res.Status = statusDeleted
			return nil, e.deleteInvestment(ctx, tx, inv, comment, actor)
		case ActionReject:
			res.Status = model.InvestmentRejected.String()
			return e.rejectInvestment(ctx, tx, inv, comment, actor)
		default:
			res.Status = model.InvestmentActive.String()
			return e.activateInvestment(ctx, tx, inv, comment, actor)
		}
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func (e *Engine) deleteInvestment(ctx context.Context, tx Tx, inv *model.Investment, comment, actor string) error {
	if err := tx.DeleteInvestment(ctx, inv.ID); err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	return e.record(ctx, tx, model.KindInvestment, inv.ID, inv.Username, inv.Status.String(), statusDeleted, comment, actor)
}

func (e *Engine) rejectInvestment(ctx context.Context, tx Tx, inv *model.Investment, comment, actor string) (*model.Notification, error) {
	if inv.Status != model.InvestmentPending {
		return nil, fmt.Errorf("%w: investment %s is already %s", ErrConflict, inv.ID, inv.Status)
	}

	now := e.now()
	if err := tx.SetInvestmentStatus(ctx, inv.ID, model.InvestmentRejected, comment, nil); err != nil {
		return nil, fmt.Errorf("update investment: %w", err)
	}
	if err := e.record(ctx, tx, model.KindInvestment, inv.ID, inv.Username, inv.Status.String(), model.InvestmentRejected.String(), comment, actor); err != nil {
		return nil, err
	}

	// the owner is only needed for the mail; a missing owner does not fail the rejection
	owner, err := tx.CustomerByUsername(ctx, inv.Username, false)
	if err != nil || owner == nil {
		e.log.Warn("owner lookup failed; rejection mail skipped",
			zap.String("investment_id", inv.ID), zap.String("username", inv.Username), zap.Error(err))
		return nil, nil
	}

	return e.notification(model.TemplateInvestRejected, owner, map[string]string{
		"plan":      inv.Plan.String(),
		"amount":    inv.Amount.String(),
		"TID":       inv.TID,
		"comment":   comment,
		"timestamp": formatTime(now),
	}), nil
}

func (e *Engine) activateInvestment(ctx context.Context, tx Tx, inv *model.Investment, comment, actor string) (*model.Notification, error) {
	if inv.Status != model.InvestmentPending {
		return nil, fmt.Errorf("%w: investment %s is already %s", ErrConflict, inv.ID, inv.Status)
	}

	owner, err := tx.CustomerByUsername(ctx, inv.Username, true)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, inv.Username)
	}

	terms := model.PlanTerms(inv.Plan)
	if err := e.payReferral(ctx, tx, owner, terms.ReferralBonus, inv.ID); err != nil {
		return nil, err
	}

	if err := e.credit(ctx, tx, model.LedgerEntry{
		CustomerID:     owner.ID,
		Op:             model.LedgerAccrual,
		Amount:         terms.Accrual,
		IdempotencyKey: "accrual-" + inv.ID,
		RefID:          inv.ID,
	}); err != nil {
		return nil, err
	}
	if err := tx.ActivateCustomer(ctx, owner.ID, terms.Accrual); err != nil {
		return nil, fmt.Errorf("activate customer: %w", err)
	}

	now := e.now()
	if err := tx.SetInvestmentStatus(ctx, inv.ID, model.InvestmentActive, comment, &now); err != nil {
		return nil, fmt.Errorf("update investment: %w", err)
	}
	if err := e.record(ctx, tx, model.KindInvestment, inv.ID, inv.Username, inv.Status.String(), model.InvestmentActive.String(), comment, actor); err != nil {
		return nil, err
	}

	return e.notification(model.TemplateInvestActivated, owner, map[string]string{
		"plan":       inv.Plan.String(),
		"amount":     inv.Amount.String(),
		"TID":        inv.TID,
		"comment":    comment,
		"acceptDate": formatTime(now),
	}), nil
}

// payReferral credits the owner's referrer once per owner. The paid flag is
// consumed even when the referrer does not exist.
func (e *Engine) payReferral(ctx context.Context, tx Tx, owner *model.Customer, bonus decimal.Decimal, investID string) error {
	code := strings.TrimSpace(owner.ReferralCode)
	if code == "" || owner.ReferralPaid {
		return nil
	}

	won, err := tx.MarkReferralPaid(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("mark referral paid: %w", err)
	}
	if !won {
		return nil
	}

	if strings.EqualFold(code, owner.Username) {
		e.log.Warn("self referral ignored", zap.String("username", owner.Username))
		return nil
	}

	referrer, err := tx.CustomerByUsername(ctx, code, false)
	if err != nil {
		return fmt.Errorf("load referrer: %w", err)
	}
	if referrer == nil {
		e.log.Info("referrer not found; bonus skipped",
			zap.String("username", owner.Username), zap.String("referral_code", code))
		return nil
	}

	inserted, err := tx.InsertLedger(ctx, model.LedgerEntry{
		CustomerID:     referrer.ID,
		Op:             model.LedgerReferralBonus,
		Amount:         bonus,
		IdempotencyKey: "refbonus-" + owner.Username,
		RefID:          investID,
	})
	if err != nil {
		return fmt.Errorf("insert referral ledger: %w", err)
	}
	if !inserted {
		e.log.Warn("referral bonus already in ledger; not credited again",
			zap.String("referrer", referrer.Username), zap.String("referee", owner.Username))
		return nil
	}

	if err := tx.CreditReferrer(ctx, referrer.ID, bonus); err != nil {
		return fmt.Errorf("credit referrer: %w", err)
	}
	return nil
}
