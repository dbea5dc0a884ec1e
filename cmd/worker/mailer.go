package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/config"
	"github.com/jmehdipour/invest-backoffice/internal/db"
	"github.com/jmehdipour/invest-backoffice/internal/dispatcher"
	"github.com/jmehdipour/invest-backoffice/internal/kafka"
	"github.com/jmehdipour/invest-backoffice/internal/logger"
	"github.com/jmehdipour/invest-backoffice/internal/mailer"
	"github.com/jmehdipour/invest-backoffice/internal/metrics"
	"github.com/jmehdipour/invest-backoffice/internal/repository"
	"github.com/jmehdipour/invest-backoffice/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mailerCmd = &cobra.Command{
	Use:   "mailer",
	Short: "Consume notifications from Kafka and mail them",
	RunE:  runMailer,
}

func runMailer(cmd *cobra.Command, args []string) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer logger.Sync()

	metrics.MustRegister(prometheus.DefaultRegisterer)

	if !cfg.Kafka.Enabled() {
		return fmt.Errorf("kafka brokers are not configured")
	}

	// 2) DB connection (MySQL) for delivery records
	dbx, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
		PingTimeout:     cfg.MySQL.PingTimeout,
	})
	if err != nil {
		return fmt.Errorf("mysql connect: %w", err)
	}
	defer dbx.Close()

	// 3) providers → dispatcher → mailer
	disp, err := dispatcher.FromConfig(cfg.Mailer)
	if err != nil {
		return err
	}
	m, err := mailer.New(cfg.Mailer.From, cfg.Mailer.Brand, disp)
	if err != nil {
		return err
	}

	// 4) kafka consumer
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "backoffice-mailer"
	}
	consumer, err := kafka.NewConsumer(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.NotificationsTopic,
		GroupID:        groupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	defer consumer.Close()

	w := worker.NewMailerKafka(consumer, m, repository.NewDeliveriesRepository(dbx), log)

	// tune knobs
	if cfg.Mailer.Workers > 0 {
		w.Workers = cfg.Mailer.Workers
	}
	if cfg.Mailer.BatchSize > 0 {
		w.BatchSize = cfg.Mailer.BatchSize
	}
	if cfg.Mailer.BatchWait > 0 {
		w.BatchWait = cfg.Mailer.BatchWait
	}

	// 5) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("mailer worker started",
		zap.String("topic", cfg.Kafka.NotificationsTopic),
		zap.String("group", groupID),
		zap.Strings("providers", disp.Providers()),
		zap.Int("workers", w.Workers),
		zap.Int("batch_size", w.BatchSize),
		zap.Duration("batch_wait", w.BatchWait),
	)

	return w.Run(ctx)
}
