package cmd

import (
	"github.com/jmehdipour/invest-backoffice/internal/config"
	"github.com/jmehdipour/invest-backoffice/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func openMySQL(cfg config.Config) (*sqlx.DB, error) {
	return db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
		MaxOpenConns:    cfg.MySQL.MaxOpenConns,
		MaxIdleConns:    cfg.MySQL.MaxIdleConns,
		ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
		PingTimeout:     cfg.MySQL.PingTimeout,
	})
}

func openClickHouse(cfg config.Config) (*sqlx.DB, error) {
	return db.NewClickHouseConnection(db.ClickHouseOpts{
		DSN:             cfg.ClickHouse.DSN,
		MaxOpenConns:    cfg.ClickHouse.MaxOpenConns,
		MaxIdleConns:    cfg.ClickHouse.MaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouse.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ClickHouse.ConnMaxIdleTime,
		PingTimeout:     cfg.ClickHouse.PingTimeout,
		MaxQuerySeconds: cfg.ClickHouse.MaxQuerySeconds,
	})
}

func openRedis(cfg config.Config) (*redis.Client, error) {
	return db.NewRedisClient(db.RedisOpts{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
}
