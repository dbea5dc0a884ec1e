package config

import (
	"bytes"
	_ "embed"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

type Config struct {
	HTTP       HTTPConfig      `mapstructure:"http"`
	Log        LogConfig       `mapstructure:"log"`
	MySQL      DatabaseConfig  `mapstructure:"mysql"`
	ClickHouse DatabaseConfig  `mapstructure:"clickhouse"`
	Redis      RedisConfig     `mapstructure:"redis"`
	Kafka      KafkaConfig     `mapstructure:"kafka"`
	Session    SessionConfig   `mapstructure:"session"`
	Lock       LockConfig      `mapstructure:"lock"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
	Notifier   NotifierConfig  `mapstructure:"notifier"`
	Mailer     MailerConfig    `mapstructure:"mailer"`
}

// ---- Leaf structs ----

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
	MaxQuerySeconds int           `mapstructure:"max_query_seconds"` // clickhouse only
}

type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

type KafkaConfig struct {
	Brokers            []string `mapstructure:"brokers"`
	GroupID            string   `mapstructure:"group_id"`
	NotificationsTopic string   `mapstructure:"notifications_topic"`
	MinBytes           int      `mapstructure:"min_bytes"`
	MaxBytes           int      `mapstructure:"max_bytes"`
	CommitInterval     int      `mapstructure:"commit_interval_ms"`
}

// Enabled reports whether notifications go through Kafka instead of
// being mailed directly from the API process.
func (k KafkaConfig) Enabled() bool {
	for _, b := range k.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

type SessionConfig struct {
	CookieName   string        `mapstructure:"cookie_name"`
	TTL          time.Duration `mapstructure:"ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type LockConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type RateLimitConfig struct {
	RPS   int `mapstructure:"rps"`
	Burst int `mapstructure:"burst"`
}

type NotifierConfig struct {
	QueueSize   int           `mapstructure:"queue_size"`
	Workers     int           `mapstructure:"workers"`
	SendTimeout time.Duration `mapstructure:"send_timeout"`
}

type BreakerConfig struct {
	FailThreshold int `mapstructure:"fail_threshold" yaml:"fail_threshold"`
	OpenForMs     int `mapstructure:"open_for_ms"    yaml:"open_for_ms"`
}

type SMTPConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Breaker  BreakerConfig `mapstructure:"breaker"`
}

// ProviderConfig describes an HTTP transactional mail API.
type ProviderConfig struct {
	Name      string        `mapstructure:"name"`
	Enabled   bool          `mapstructure:"enabled"`
	BaseURL   string        `mapstructure:"base_url"`
	SendPath  string        `mapstructure:"send_path"`
	APIKey    string        `mapstructure:"api_key"`
	TimeoutMs int           `mapstructure:"timeout_ms"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

type MailerConfig struct {
	From        string           `mapstructure:"from"`
	Brand       string           `mapstructure:"brand"`
	MaxAttempts int              `mapstructure:"max_attempts"`
	BatchSize   int              `mapstructure:"batch_size"`
	BatchWait   time.Duration    `mapstructure:"batch_wait"`
	Workers     int              `mapstructure:"workers"`
	SMTP        SMTPConfig       `mapstructure:"smtp"`
	Providers   []ProviderConfig `mapstructure:"providers"`
}

// Load reads embedded defaults, merges user YAML (if provided), and applies env overrides (BACKOFFICE_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (BACKOFFICE_MYSQL_DSN, BACKOFFICE_MAILER_SMTP_PASSWORD, ...)
	v.SetEnvPrefix("BACKOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
