package transition_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/lock"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/service/transition"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	store  *memStore
	notes  *recordingNotifier
	engine *transition.Engine
}

func newHarness(t *testing.T) harness {
	t.Helper()
	store := newMemStore()
	notes := &recordingNotifier{}
	engine := transition.New(store, lock.NewLocal(), notes, zap.NewNop(),
		transition.WithClock(func() time.Time { return fixedNow }))
	return harness{store: store, notes: notes, engine: engine}
}

func dec(i int64) decimal.Decimal { return decimal.NewFromInt(i) }

func bob() model.Customer {
	return model.Customer{ID: 1, Username: "bob", Email: "bob@example.com", PPD: dec(0), Profit: dec(0)}
}

func alice() model.Customer {
	return model.Customer{ID: 2, Username: "alice", Email: "alice@example.com", PPD: dec(0), Profit: dec(0)}
}

func pendingInvestment(id, username string, plan model.Plan, amount int64) model.Investment {
	return model.Investment{
		ID: id, Username: username, Plan: plan, Amount: dec(amount), TID: "tx-" + id,
		Status: model.InvestmentPending,
	}
}

func pendingWithdrawal(id, username string, amount int64) model.Withdrawal {
	return model.Withdrawal{
		ID: id, Username: username, Amount: dec(amount), Wallet: "bc1-wallet", TID: "tx-" + id,
		Status: model.WithdrawalPending,
	}
}

func TestTransition_RejectsUnknownStatus(t *testing.T) {
	for name, status := range map[string]string{
		"empty":      "",
		"completed":  "completed",
		"pending":    "pending",
		"garbage":    "approve!",
		"upper case": "ACTIVE",
		"padded":     " active",
		"title case": "Rejected",
		"capital":    "Delete",
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t)
			h.store.addCustomer(bob())
			h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanGold, 100))
			h.store.addWithdrawal(pendingWithdrawal("W1", "bob", 50))
			before := h.store.snapshot()

			if _, err := h.engine.TransitionInvestment(ctx, "I1", status, "c", "ops"); !errors.Is(err, transition.ErrInvalidArgument) {
				t.Errorf("investment: got %v, want ErrInvalidArgument", err)
			}
			if _, err := h.engine.TransitionWithdrawal(ctx, "W1", status, "c", "ops"); !errors.Is(err, transition.ErrInvalidArgument) {
				t.Errorf("withdrawal: got %v, want ErrInvalidArgument", err)
			}

			after := h.store.snapshot()
			if after.investments["I1"].Status != before.investments["I1"].Status ||
				after.withdrawals["W1"].Status != before.withdrawals["W1"].Status ||
				!after.customers[1].PPD.Equal(before.customers[1].PPD) ||
				len(after.events) != 0 {
				t.Error("state changed on invalid status")
			}
			if n := len(h.notes.all()); n != 0 {
				t.Errorf("notifications: got %d, want 0", n)
			}
		})
	}
}

func TestTransition_UnknownIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.store.addCustomer(bob())

	for _, status := range []string{"active", "rejected", "delete"} {
		if _, err := h.engine.TransitionInvestment(ctx, "missing", status, "", "ops"); !errors.Is(err, transition.ErrNotFound) {
			t.Errorf("investment %s: got %v, want ErrNotFound", status, err)
		}
		if _, err := h.engine.TransitionWithdrawal(ctx, "missing", status, "", "ops"); !errors.Is(err, transition.ErrNotFound) {
			t.Errorf("withdrawal %s: got %v, want ErrNotFound", status, err)
		}
	}
}

func TestActivateInvestment(t *testing.T) {
	t.Run("gold adds exactly 20 to ppd and activates regardless of the previous flag", func(t *testing.T) {
		for name, wasActive := range map[string]bool{"inactive owner": false, "active owner": true} {
			t.Run(name, func(t *testing.T) {
				ctx := context.Background()
				h := newHarness(t)
				owner := bob()
				owner.PPD = dec(7)
				owner.Active = wasActive
				h.store.addCustomer(owner)
				h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanGold, 1000))

				res, err := h.engine.TransitionInvestment(ctx, "I1", "active", "ok", "ops")
				if err != nil {
					t.Fatal(err)
				}
				if res.Status != "active" || res.ID != "I1" || res.Action != transition.ActionActivate {
					t.Errorf("unexpected result: %+v", res)
				}

				got := h.store.customer(1)
				if !got.PPD.Equal(dec(27)) {
					t.Errorf("ppd: got %s, want 27", got.PPD)
				}
				if !got.Active {
					t.Error("owner should be active")
				}

				inv, _ := h.store.investment("I1")
				if inv.Status != model.InvestmentActive {
					t.Errorf("status: got %s", inv.Status)
				}
				if inv.AcceptDate == nil || !inv.AcceptDate.Equal(fixedNow) {
					t.Errorf("acceptDate: got %v", inv.AcceptDate)
				}
				if inv.Comment == nil || *inv.Comment != "ok" {
					t.Errorf("comment: got %v", inv.Comment)
				}

				notes := h.notes.all()
				if len(notes) != 1 {
					t.Fatalf("notifications: got %d, want 1", len(notes))
				}
				n := notes[0]
				if n.Template != model.TemplateInvestActivated || n.Recipient != "bob@example.com" {
					t.Errorf("unexpected notification: %+v", n)
				}
				for k, want := range map[string]string{
					"plan": "gold", "amount": "1000", "TID": "tx-I1", "comment": "ok",
					"acceptDate": "2024-04-01T12:00:00Z",
				} {
					if n.Payload[k] != want {
						t.Errorf("payload[%s]: got %q, want %q", k, n.Payload[k], want)
					}
				}
			})
		}
	})

	t.Run("silver with a referrer credits the referrer once and marks the referral paid", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		referee := bob()
		referee.ReferralCode = "alice"
		h.store.addCustomer(referee)
		h.store.addCustomer(alice())
		h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanSilver, 100))

		if _, err := h.engine.TransitionInvestment(ctx, "I1", "active", "ok", "ops"); err != nil {
			t.Fatal(err)
		}

		b := h.store.customer(1)
		if !b.PPD.Equal(dec(4)) || !b.ReferralPaid {
			t.Errorf("bob: ppd=%s paid=%v", b.PPD, b.ReferralPaid)
		}
		a := h.store.customer(2)
		if !a.ReferralBonus.Equal(dec(10)) || a.ReferralCount != 1 {
			t.Errorf("alice: bonus=%s count=%d", a.ReferralBonus, a.ReferralCount)
		}
		if _, ok := h.store.snapshot().ledger["refbonus-bob"]; !ok {
			t.Error("referral bonus ledger row missing")
		}
	})

	t.Run("a second investment of the same referee does not pay the referrer again", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		referee := bob()
		referee.ReferralCode = " alice "
		h.store.addCustomer(referee)
		h.store.addCustomer(alice())
		h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanGold, 100))
		h.store.addInvestment(pendingInvestment("I2", "bob", model.PlanElite, 100))

		for _, id := range []string{"I1", "I2"} {
			if _, err := h.engine.TransitionInvestment(ctx, id, "active", "", "ops"); err != nil {
				t.Fatal(err)
			}
		}

		a := h.store.customer(2)
		if !a.ReferralBonus.Equal(dec(50)) || a.ReferralCount != 1 {
			t.Errorf("alice: bonus=%s count=%d, want 50/1", a.ReferralBonus, a.ReferralCount)
		}
		if b := h.store.customer(1); !b.PPD.Equal(dec(345)) {
			t.Errorf("bob ppd: got %s, want 345", b.PPD)
		}
	})

	t.Run("two referees sharing a code each pay the referrer once", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		b := bob()
		b.ReferralCode = "alice"
		c := model.Customer{ID: 3, Username: "carol", Email: "carol@example.com", ReferralCode: "alice"}
		h.store.addCustomer(b)
		h.store.addCustomer(c)
		h.store.addCustomer(alice())
		h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanSilver, 100))
		h.store.addInvestment(pendingInvestment("I2", "carol", model.PlanPlatinum, 100))

		for _, id := range []string{"I1", "I2"} {
			if _, err := h.engine.TransitionInvestment(ctx, id, "active", "", "ops"); err != nil {
				t.Fatal(err)
			}
		}
		// retry is refused and pays nothing
		if _, err := h.engine.TransitionInvestment(ctx, "I1", "active", "", "ops"); !errors.Is(err, transition.ErrConflict) {
			t.Errorf("retry: got %v, want ErrConflict", err)
		}

		a := h.store.customer(2)
		if !a.ReferralBonus.Equal(dec(160)) || a.ReferralCount != 2 {
			t.Errorf("alice: bonus=%s count=%d, want 160/2", a.ReferralBonus, a.ReferralCount)
		}
	})

	t.Run("a missing referrer still consumes the referral", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		referee := bob()
		referee.ReferralCode = "ghost"
		h.store.addCustomer(referee)
		h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanDiamond, 100))

		if _, err := h.engine.TransitionInvestment(ctx, "I1", "active", "", "ops"); err != nil {
			t.Fatal(err)
		}
		got := h.store.customer(1)
		if !got.ReferralPaid || !got.PPD.Equal(dec(130)) {
			t.Errorf("bob: paid=%v ppd=%s", got.ReferralPaid, got.PPD)
		}
	})

	t.Run("self referral is never credited", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		referee := bob()
		referee.ReferralCode = "bob"
		h.store.addCustomer(referee)
		h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanGold, 100))

		if _, err := h.engine.TransitionInvestment(ctx, "I1", "active", "", "ops"); err != nil {
			t.Fatal(err)
		}
		got := h.store.customer(1)
		if !got.ReferralBonus.IsZero() || got.ReferralCount != 0 || !got.ReferralPaid {
			t.Errorf("bob: bonus=%s count=%d paid=%v", got.ReferralBonus, got.ReferralCount, got.ReferralPaid)
		}
	})

	t.Run("an already paid referral is left alone", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		referee := bob()
		referee.ReferralCode = "alice"
		referee.ReferralPaid = true
		h.store.addCustomer(referee)
		h.store.addCustomer(alice())
		h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanGold, 100))

		if _, err := h.engine.TransitionInvestment(ctx, "I1", "active", "", "ops"); err != nil {
			t.Fatal(err)
		}
		if a := h.store.customer(2); a.ReferralCount != 0 {
			t.Errorf("alice count: got %d", a.ReferralCount)
		}
	})

	t.Run("an unknown plan activates without accrual", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addCustomer(bob())
		h.store.addInvestment(pendingInvestment("I1", "bob", model.Plan("bronze"), 100))

		if _, err := h.engine.TransitionInvestment(ctx, "I1", "active", "", "ops"); err != nil {
			t.Fatal(err)
		}
		got := h.store.customer(1)
		if !got.PPD.IsZero() || !got.Active {
			t.Errorf("bob: ppd=%s active=%v", got.PPD, got.Active)
		}
	})

	t.Run("a missing owner fails before anything is written", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addInvestment(pendingInvestment("I1", "nobody", model.PlanGold, 100))

		if _, err := h.engine.TransitionInvestment(ctx, "I1", "active", "", "ops"); !errors.Is(err, transition.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
		inv, _ := h.store.investment("I1")
		if inv.Status != model.InvestmentPending || inv.AcceptDate != nil {
			t.Errorf("investment was mutated: %+v", inv)
		}
		if len(h.store.snapshot().events) != 0 || len(h.notes.all()) != 0 {
			t.Error("side effects recorded for a failed activation")
		}
	})

	t.Run("store failures are internal errors and roll back", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addCustomer(bob())
		h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanGold, 100))
		h.store.failOn = "SetInvestmentStatus"

		_, err := h.engine.TransitionInvestment(ctx, "I1", "active", "", "ops")
		if !errors.Is(err, errBoom) {
			t.Fatalf("got %v, want boom", err)
		}
		for _, sentinel := range []error{transition.ErrNotFound, transition.ErrInvalidArgument, transition.ErrConflict} {
			if errors.Is(err, sentinel) {
				t.Errorf("store failure must not look like %v", sentinel)
			}
		}
		if got := h.store.customer(1); !got.PPD.IsZero() || got.Active {
			t.Error("customer increments were not rolled back")
		}
	})
}

func TestRejectInvestment(t *testing.T) {
	t.Run("it only touches the request and notifies the owner", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addCustomer(bob())
		h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanGold, 100))

		res, err := h.engine.TransitionInvestment(ctx, "I1", "Rejected", "bad TID", "ops")
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != "rejected" {
			t.Errorf("result status: got %s", res.Status)
		}

		inv, _ := h.store.investment("I1")
		if inv.Status != model.InvestmentRejected || inv.AcceptDate != nil {
			t.Errorf("investment: %+v", inv)
		}
		if inv.Comment == nil || *inv.Comment != "bad TID" {
			t.Errorf("comment: got %v", inv.Comment)
		}
		if got := h.store.customer(1); !got.PPD.IsZero() || got.Active {
			t.Error("rejection must not touch the customer")
		}

		notes := h.notes.all()
		if len(notes) != 1 || notes[0].Template != model.TemplateInvestRejected {
			t.Fatalf("notifications: %+v", notes)
		}
		if notes[0].Payload["timestamp"] != "2024-04-01T12:00:00Z" || notes[0].Payload["comment"] != "bad TID" {
			t.Errorf("payload: %+v", notes[0].Payload)
		}
	})

	t.Run("a missing owner still rejects, without a mail", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addInvestment(pendingInvestment("I1", "nobody", model.PlanGold, 100))

		if _, err := h.engine.TransitionInvestment(ctx, "I1", "rejected", "", "ops"); err != nil {
			t.Fatal(err)
		}
		if inv, _ := h.store.investment("I1"); inv.Status != model.InvestmentRejected {
			t.Errorf("status: got %s", inv.Status)
		}
		if n := len(h.notes.all()); n != 0 {
			t.Errorf("notifications: got %d", n)
		}
	})

	t.Run("terminal requests cannot be rejected", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addCustomer(bob())
		inv := pendingInvestment("I1", "bob", model.PlanGold, 100)
		inv.Status = model.InvestmentActive
		h.store.addInvestment(inv)

		if _, err := h.engine.TransitionInvestment(ctx, "I1", "rejected", "", "ops"); !errors.Is(err, transition.ErrConflict) {
			t.Errorf("got %v, want ErrConflict", err)
		}
	})
}

func TestDelete(t *testing.T) {
	for name, status := range map[string]model.InvestmentStatus{
		"pending":  model.InvestmentPending,
		"active":   model.InvestmentActive,
		"rejected": model.InvestmentRejected,
	} {
		t.Run("investment in "+name, func(t *testing.T) {
			ctx := context.Background()
			h := newHarness(t)
			h.store.addCustomer(bob())
			inv := pendingInvestment("I1", "bob", model.PlanGold, 100)
			inv.Status = status
			h.store.addInvestment(inv)

			res, err := h.engine.TransitionInvestment(ctx, "I1", "delete", "", "ops")
			if err != nil {
				t.Fatal(err)
			}
			if res.Status != "deleted" {
				t.Errorf("result status: got %s", res.Status)
			}
			if _, ok := h.store.investment("I1"); ok {
				t.Error("investment still present")
			}
			if got := h.store.customer(1); !got.PPD.IsZero() || got.Active {
				t.Error("delete touched the customer")
			}
			if n := len(h.notes.all()); n != 0 {
				t.Errorf("notifications: got %d", n)
			}
			if _, err := h.engine.TransitionInvestment(ctx, "I1", "delete", "", "ops"); !errors.Is(err, transition.ErrNotFound) {
				t.Errorf("second delete: got %v, want ErrNotFound", err)
			}
		})
	}

	t.Run("withdrawal", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addCustomer(bob())
		h.store.addWithdrawal(pendingWithdrawal("W1", "bob", 50))

		if _, err := h.engine.TransitionWithdrawal(ctx, "W1", "delete", "", "ops"); err != nil {
			t.Fatal(err)
		}
		if _, ok := h.store.withdrawal("W1"); ok {
			t.Error("withdrawal still present")
		}
		if got := h.store.customer(1); !got.Profit.IsZero() {
			t.Error("delete touched the customer")
		}
		if n := len(h.notes.all()); n != 0 {
			t.Errorf("notifications: got %d", n)
		}
	})
}

func TestFulfilWithdrawal(t *testing.T) {
	t.Run("active is stored as completed", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addCustomer(bob())
		h.store.addWithdrawal(pendingWithdrawal("W1", "bob", 50))

		res, err := h.engine.TransitionWithdrawal(ctx, "W1", "active", "paid", "ops")
		if err != nil {
			t.Fatal(err)
		}
		if res.Status != "completed" {
			t.Errorf("result status: got %s", res.Status)
		}
		wd, _ := h.store.withdrawal("W1")
		if wd.Status != model.WithdrawalCompleted || wd.AcceptDate == nil || wd.RejectDate != nil {
			t.Errorf("withdrawal: %+v", wd)
		}
		if got := h.store.customer(1); !got.Profit.IsZero() {
			t.Error("fulfilment must not credit profit")
		}
		notes := h.notes.all()
		if len(notes) != 1 || notes[0].Template != model.TemplateWithdrawFulfilled {
			t.Fatalf("notifications: %+v", notes)
		}
		if notes[0].Payload["wallet"] != "bc1-wallet" || notes[0].Payload["amount"] != "50" {
			t.Errorf("payload: %+v", notes[0].Payload)
		}
	})

	t.Run("a missing owner still completes, without a mail", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addWithdrawal(pendingWithdrawal("W1", "nobody", 50))

		if _, err := h.engine.TransitionWithdrawal(ctx, "W1", "active", "", "ops"); err != nil {
			t.Fatal(err)
		}
		if n := len(h.notes.all()); n != 0 {
			t.Errorf("notifications: got %d", n)
		}
	})
}

func TestRejectWithdrawal(t *testing.T) {
	t.Run("it refunds exactly the amount", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		owner := bob()
		owner.Profit = decimal.RequireFromString("12.50")
		h.store.addCustomer(owner)
		wd := pendingWithdrawal("W1", "bob", 0)
		wd.Amount = decimal.RequireFromString("37.25")
		h.store.addWithdrawal(wd)

		if _, err := h.engine.TransitionWithdrawal(ctx, "W1", "rejected", "wrong wallet", "ops"); err != nil {
			t.Fatal(err)
		}
		if got := h.store.customer(1); !got.Profit.Equal(decimal.RequireFromString("49.75")) {
			t.Errorf("profit: got %s, want 49.75", got.Profit)
		}
		stored, _ := h.store.withdrawal("W1")
		if stored.Status != model.WithdrawalRejected || stored.RejectDate == nil || stored.AcceptDate != nil {
			t.Errorf("withdrawal: %+v", stored)
		}
		notes := h.notes.all()
		if len(notes) != 1 || notes[0].Template != model.TemplateWithdrawRejected {
			t.Fatalf("notifications: %+v", notes)
		}
		if notes[0].Payload["rejectDate"] != "2024-04-01T12:00:00Z" {
			t.Errorf("payload: %+v", notes[0].Payload)
		}
	})

	t.Run("a missing owner fails before anything is written", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addWithdrawal(pendingWithdrawal("W1", "nobody", 50))

		if _, err := h.engine.TransitionWithdrawal(ctx, "W1", "rejected", "", "ops"); !errors.Is(err, transition.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
		if wd, _ := h.store.withdrawal("W1"); wd.Status != model.WithdrawalPending || wd.RejectDate != nil {
			t.Errorf("withdrawal was mutated: %+v", wd)
		}
	})

	t.Run("concurrent rejections credit once", func(t *testing.T) {
		ctx := context.Background()
		h := newHarness(t)
		h.store.addCustomer(bob())
		h.store.addWithdrawal(pendingWithdrawal("W1", "bob", 50))

		const callers = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := h.engine.TransitionWithdrawal(ctx, "W1", "rejected", "", "ops")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, transition.ErrConflict):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if successes != 1 || conflicts != callers-1 {
			t.Errorf("successes=%d conflicts=%d", successes, conflicts)
		}
		if got := h.store.customer(1); !got.Profit.Equal(dec(50)) {
			t.Errorf("profit: got %s, want 50", got.Profit)
		}
		if n := len(h.notes.all()); n != 1 {
			t.Errorf("notifications: got %d, want 1", n)
		}
	})
}

func TestTransition_BusyLockIsConflict(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.addCustomer(bob())
	store.addWithdrawal(pendingWithdrawal("W1", "bob", 50))
	notes := &recordingNotifier{}
	engine := transition.New(store, busyLocker{}, notes, zap.NewNop())

	if _, err := engine.TransitionWithdrawal(ctx, "W1", "rejected", "", "ops"); !errors.Is(err, transition.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if got := store.customer(1); !got.Profit.IsZero() {
		t.Error("profit credited while the lock was busy")
	}
}

func TestTransition_RecordsAuditEvents(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.store.addCustomer(bob())
	h.store.addInvestment(pendingInvestment("I1", "bob", model.PlanGold, 100))

	if _, err := h.engine.TransitionInvestment(ctx, "I1", "active", "ok", "ops"); err != nil {
		t.Fatal(err)
	}
	events := h.store.snapshot().events
	if len(events) != 1 {
		t.Fatalf("events: got %d", len(events))
	}
	ev := events[0]
	if ev.Kind != model.KindInvestment || ev.FromStatus != "pending" || ev.ToStatus != "active" ||
		ev.Actor != "ops" || ev.Comment != "ok" || ev.ID == "" || !ev.CreatedAt.Equal(fixedNow) {
		t.Errorf("unexpected event: %+v", ev)
	}
}
