package db

import (
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jmoiron/sqlx"
)

type ClickHouseOpts struct {
	DSN             string // e.g. clickhouse://default:@localhost:9000/backoffice?dial_timeout=5s
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration // default 3s
	MaxQuerySeconds int           // server-side max_execution_time, default 30
}

// NewClickHouseConnection opens the reporting store that holds the CDC copy
// of transition_log. Report queries are bounded server side.
func NewClickHouseConnection(opts ClickHouseOpts) (*sqlx.DB, error) {
	chOpts, err := clickhouse.ParseDSN(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	if opts.MaxQuerySeconds <= 0 {
		opts.MaxQuerySeconds = 30
	}
	if chOpts.Settings == nil {
		chOpts.Settings = clickhouse.Settings{}
	}
	chOpts.Settings["max_execution_time"] = opts.MaxQuerySeconds

	db := sqlx.NewDb(clickhouse.OpenDB(chOpts), "clickhouse")

	applyPool(db, poolOpts{
		maxOpen:     opts.MaxOpenConns,
		maxIdle:     opts.MaxIdleConns,
		maxLifetime: opts.ConnMaxLifetime,
		maxIdleTime: opts.ConnMaxIdleTime,
	})

	if err := ping(db, opts.PingTimeout, 3*time.Second); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	return db, nil
}
