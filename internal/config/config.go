package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Log         LogConfig
	Auth        AuthConfig
	AMQP        AMQPConfig
	Transaction TransactionConfig
	Stats       StatsConfig
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrateOnStart  bool
}

type LogConfig struct {
	Level string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AMQPConfig is optional; an empty URL disables event forwarding.
type AMQPConfig struct {
	URL      string
	Exchange string
}

type TransactionConfig struct {
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

type StatsConfig struct {
	RecomputeConcurrency int
}

// Load reads configuration from the environment, optionally layered over a
// YAML file. Environment variables win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "dokon")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "dokon")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_MIGRATE_ON_START", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TOKEN_TTL", "24h")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "dokon.events")
	v.SetDefault("TX_TIMEOUT", "5s")
	v.SetDefault("TX_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("STATS_RECOMPUTE_CONCURRENCY", 4)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	shutdownTimeout, err := time.ParseDuration(v.GetString("SERVER_SHUTDOWN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}

	connMaxLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
	}

	txTimeout, err := time.ParseDuration(v.GetString("TX_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing TX_TIMEOUT: %w", err)
	}

	tokenTTL, err := time.ParseDuration(v.GetString("JWT_TOKEN_TTL"))
	if err != nil {
		return nil, fmt.Errorf("parsing JWT_TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetInt("SERVER_PORT"),
			ShutdownTimeout: shutdownTimeout,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			MigrateOnStart:  v.GetBool("DB_MIGRATE_ON_START"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		AMQP: AMQPConfig{
			URL:      v.GetString("AMQP_URL"),
			Exchange: v.GetString("AMQP_EXCHANGE"),
		},
		Transaction: TransactionConfig{
			TxTimeout:        txTimeout,
			MaxRetryAttempts: v.GetInt("TX_MAX_RETRY_ATTEMPTS"),
		},
		Stats: StatsConfig{
			RecomputeConcurrency: v.GetInt("STATS_RECOMPUTE_CONCURRENCY"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Transaction.MaxRetryAttempts < 1 {
		return fmt.Errorf("TX_MAX_RETRY_ATTEMPTS must be at least 1")
	}
	if c.Stats.RecomputeConcurrency < 1 {
		return fmt.Errorf("STATS_RECOMPUTE_CONCURRENCY must be at least 1")
	}
	return nil
}
