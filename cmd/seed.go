package cmd

import (
	"context"
	"fmt"

	"github.com/jmehdipour/invest-backoffice/internal/config"
	"github.com/jmehdipour/invest-backoffice/internal/logger"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/repository"
	"github.com/jmehdipour/invest-backoffice/internal/util"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	seedAdminUser     string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with an admin, demo customers and pending requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logger.Init(cfg.Log.Level, cfg.Log.Format)
		defer logger.Sync()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		// 2) connect MySQL
		sqlDB, err := openMySQL(cfg)
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		// 3) admin
		hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admins := repository.NewAdminsRepository(sqlDB)
		if err := admins.Upsert(ctx, model.Admin{
			Username:     seedAdminUser,
			Email:        seedAdminUser + "@example.com",
			PasswordHash: string(hash),
		}); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}

		// 4) customers, requests, tickets
		if err := seedCustomers(ctx, sqlDB); err != nil {
			return err
		}
		n, err := seedRequests(ctx, sqlDB)
		if err != nil {
			return err
		}
		if err := seedTickets(ctx, sqlDB); err != nil {
			return err
		}

		log.Info("seed completed", zap.String("admin", seedAdminUser), zap.Int("pending_requests", n))
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminUser, "admin-user", "admin", "admin username")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "admin123", "admin password")
}

// seedCustomers upserts a small referral chain: carol referred bob, bob referred alice.
func seedCustomers(ctx context.Context, dbx *sqlx.DB) error {
	customers := []model.Customer{
		{Username: "carol", Email: "carol@example.com", Active: true, PPD: decimal.RequireFromString("4.5"), ReferralPaid: true},
		{Username: "bob", Email: "bob@example.com", ReferralCode: "carol"},
		{Username: "alice", Email: "alice@example.com", ReferralCode: "bob"},
		{Username: "dave", Email: "dave@example.com", Profit: decimal.RequireFromString("250")},
	}

	// idempotent upsert based on username (UNIQUE)
	const q = `
INSERT INTO customers
    (username, email, ppd, profit, active, referral_code, referral_paid, created_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
ON DUPLICATE KEY UPDATE
    email         = VALUES(email),
    referral_code = VALUES(referral_code),
    updated_at    = VALUES(updated_at)
`
	tx, err := dbx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range customers {
		if _, err := tx.ExecContext(ctx, q, c.Username, c.Email, c.PPD, c.Profit, c.Active, c.ReferralCode, c.ReferralPaid); err != nil {
			return fmt.Errorf("insert customer %q: %w", c.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit customers: %w", err)
	}
	return nil
}

// seedRequests adds fresh pending requests on every run.
func seedRequests(ctx context.Context, dbx *sqlx.DB) (int, error) {
	investments := []model.Investment{
		{Username: "alice", Plan: model.PlanSilver, Amount: decimal.RequireFromString("500")},
		{Username: "bob", Plan: model.PlanGold, Amount: decimal.RequireFromString("1000")},
		{Username: "bob", Plan: model.PlanElite, Amount: decimal.RequireFromString("25000")},
	}
	withdrawals := []model.Withdrawal{
		{Username: "dave", Amount: decimal.RequireFromString("100"), Wallet: "bc1qdemo0dave"},
		{Username: "carol", Amount: decimal.RequireFromString("12.5"), Wallet: "bc1qdemo0carol"},
	}

	tx, err := dbx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, inv := range investments {
		id := util.New()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO investments (id, username, plan, amount, tid, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 'pending', NOW(), NOW())`,
			id, inv.Username, string(inv.Plan), inv.Amount, "tx-"+id,
		); err != nil {
			return 0, fmt.Errorf("insert investment for %s: %w", inv.Username, err)
		}
	}
	for _, wd := range withdrawals {
		id := util.New()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO withdrawals (id, username, amount, wallet, tid, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 'pending', NOW(), NOW())`,
			id, wd.Username, wd.Amount, wd.Wallet, "tx-"+id,
		); err != nil {
			return 0, fmt.Errorf("insert withdrawal for %s: %w", wd.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit requests: %w", err)
	}
	return len(investments) + len(withdrawals), nil
}

func seedTickets(ctx context.Context, dbx *sqlx.DB) error {
	no := util.New()
	if _, err := dbx.ExecContext(ctx, `
		INSERT INTO tickets (ticket_no, username, subject, status, created_at, updated_at)
		VALUES (?, 'alice', 'Deposit not showing', ?, NOW(), NOW())`,
		no, string(model.TicketOpen),
	); err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	if _, err := dbx.ExecContext(ctx, `
		INSERT INTO ticket_messages (ticket_no, sender, message, created_at)
		VALUES (?, 'alice', 'I sent 500 USDT an hour ago and the plan is still pending.', NOW())`,
		no,
	); err != nil {
		return fmt.Errorf("insert ticket message: %w", err)
	}
	return nil
}
