package cmd

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmehdipour/invest-backoffice/internal/config"
	"github.com/jmehdipour/invest-backoffice/internal/dispatcher"
	httpSrv "github.com/jmehdipour/invest-backoffice/internal/http"
	"github.com/jmehdipour/invest-backoffice/internal/kafka"
	"github.com/jmehdipour/invest-backoffice/internal/lock"
	"github.com/jmehdipour/invest-backoffice/internal/logger"
	"github.com/jmehdipour/invest-backoffice/internal/mailer"
	"github.com/jmehdipour/invest-backoffice/internal/notify"
	"github.com/jmehdipour/invest-backoffice/internal/repository"
	"github.com/jmehdipour/invest-backoffice/internal/service/transition"
	"github.com/jmehdipour/invest-backoffice/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log := logger.Init(cfg.Log.Level, cfg.Log.Format)
		defer logger.Sync()

		mysqlDB, err := openMySQL(cfg)
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer mysqlDB.Close()

		redisClient, err := openRedis(cfg)
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		// reports are optional; the rest of the API works without ClickHouse
		var reports repository.CHTransitionsRepository
		if chDB, err := openClickHouse(cfg); err != nil {
			log.Warn("clickhouse unavailable, reports disabled", zap.Error(err))
		} else {
			defer func() { _ = chDB.Close() }()
			reports = repository.NewCHTransitionsRepository(chDB)
		}

		sender, closeSender, err := notificationSender(cfg, log)
		if err != nil {
			return err
		}
		defer closeSender()

		scheduler := notify.NewScheduler(sender, log, notify.Config{
			QueueSize:   cfg.Notifier.QueueSize,
			Workers:     cfg.Notifier.Workers,
			SendTimeout: cfg.Notifier.SendTimeout,
		})
		scheduler.Start()

		engine := transition.New(
			repository.NewTransitionStore(mysqlDB),
			lock.NewRedisLocker(redisClient, "lock:"),
			scheduler,
			log,
			transition.WithLockTTL(cfg.Lock.TTL),
		)

		server := httpSrv.NewServer(cfg, httpSrv.Deps{
			Engine:      engine,
			Sessions:    session.NewRedisStore(redisClient, cfg.Session.TTL),
			Admins:      repository.NewAdminsRepository(mysqlDB),
			Customers:   repository.NewCustomersRepository(mysqlDB),
			Investments: repository.NewInvestmentsRepository(mysqlDB),
			Withdrawals: repository.NewWithdrawalsRepository(mysqlDB),
			Ledger:      repository.NewLedgerRepository(mysqlDB),
			Tickets:     repository.NewTicketsRepository(mysqlDB),
			Reports:     reports,
			Redis:       redisClient,
			Health: func(ctx context.Context) error {
				if err := mysqlDB.PingContext(ctx); err != nil {
					return fmt.Errorf("mysql: %w", err)
				}
				return redisClient.Ping(ctx).Err()
			},
		}, log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			log.Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				log.Error("http server exited", zap.Error(err))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		if err := scheduler.Close(ctx); err != nil {
			log.Warn("notifier did not drain", zap.Error(err))
		}
		return nil
	},
}

// notificationSender publishes to Kafka when brokers are configured and
// mails directly from this process otherwise.
func notificationSender(cfg config.Config, log *zap.Logger) (notify.Sender, func(), error) {
	if cfg.Kafka.Enabled() {
		p := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic)
		log.Info("notifications via kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.NotificationsTopic))
		return p, func() { _ = p.Close() }, nil
	}

	disp, err := dispatcher.FromConfig(cfg.Mailer)
	if err != nil {
		return nil, nil, fmt.Errorf("mail dispatcher: %w", err)
	}
	m, err := mailer.New(cfg.Mailer.From, cfg.Mailer.Brand, disp)
	if err != nil {
		return nil, nil, err
	}
	log.Info("notifications via direct mail", zap.Strings("providers", disp.Providers()))
	return m, func() {}, nil
}
