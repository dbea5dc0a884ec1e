package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

type MySQLOpts struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// NewMySQLConnection opens the record store. DATETIME columns always scan into
// UTC time.Time and multi-statement scripts are allowed for migrations.
func NewMySQLConnection(dsn string, opts MySQLOpts) (*sqlx.DB, error) {
	normalized, err := normalizeMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open("mysql", normalized)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	applyPool(db, poolOpts{
		maxOpen:     opts.MaxOpenConns,
		maxIdle:     opts.MaxIdleConns,
		maxLifetime: opts.ConnMaxLifetime,
		maxIdleTime: opts.ConnMaxIdleTime,
	})

	if err := ping(db, opts.PingTimeout, 5*time.Second); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func normalizeMySQLDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("empty MySQL DSN")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}

type poolOpts struct {
	maxOpen, maxIdle         int
	maxLifetime, maxIdleTime time.Duration
}

func applyPool(db *sqlx.DB, o poolOpts) {
	if o.maxOpen > 0 {
		db.SetMaxOpenConns(o.maxOpen)
	}
	if o.maxIdle > 0 {
		db.SetMaxIdleConns(o.maxIdle)
	}
	if o.maxLifetime > 0 {
		db.SetConnMaxLifetime(o.maxLifetime)
	}
	if o.maxIdleTime > 0 {
		db.SetConnMaxIdleTime(o.maxIdleTime)
	}
}

// ping closes db when it cannot be reached within timeout (or def when timeout is unset).
func ping(db *sqlx.DB, timeout, def time.Duration) error {
	if timeout <= 0 {
		timeout = def
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	return nil
}
