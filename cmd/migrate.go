package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmehdipour/invest-backoffice/internal/config"
	"github.com/jmehdipour/invest-backoffice/internal/logger"
	"github.com/jmehdipour/invest-backoffice/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipClickHouse bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations (dev: DROP & CREATE tables)",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		sqlDB, err := openMySQL(cfg)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		scripts, err := migrations.MySQL()
		if err != nil {
			return fmt.Errorf("read migrations: %w", err)
		}
		if _, err := sqlDB.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 0"); err != nil {
			return fmt.Errorf("disable fk checks: %w", err)
		}
		for i, q := range scripts {
			if _, err := sqlDB.ExecContext(ctx, q); err != nil {
				_, _ = sqlDB.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1")
				return fmt.Errorf("exec mysql migration %d: %w", i+1, err)
			}
		}
		if _, err := sqlDB.ExecContext(ctx, "SET FOREIGN_KEY_CHECKS = 1"); err != nil {
			return fmt.Errorf("enable fk checks: %w", err)
		}
		log.Info("mysql migrations applied", zap.Int("files", len(scripts)))

		if skipClickHouse {
			return nil
		}

		chDB, err := openClickHouse(cfg)
		if err != nil {
			return fmt.Errorf("open clickhouse: %w", err)
		}
		defer func() { _ = chDB.Close() }()

		chScripts, err := migrations.ClickHouse()
		if err != nil {
			return fmt.Errorf("read clickhouse migrations: %w", err)
		}
		if _, err := chDB.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS backoffice"); err != nil {
			return fmt.Errorf("create clickhouse database: %w", err)
		}
		// clickhouse runs one statement per call
		for i, q := range chScripts {
			if _, err := chDB.ExecContext(ctx, strings.TrimSpace(q)); err != nil {
				return fmt.Errorf("exec clickhouse migration %d: %w", i+1, err)
			}
		}
		log.Info("clickhouse migrations applied", zap.Int("files", len(chScripts)))
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&skipClickHouse, "skip-clickhouse", false, "only migrate MySQL")
}
