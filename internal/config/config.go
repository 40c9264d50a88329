package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	BcryptCost            int  `env:"BCRYPT_COST" envDefault:"10"`
	AccountNumberAttempts int  `env:"ACCOUNT_NUMBER_ATTEMPTS" envDefault:"5"`
	AutoRejectOverdraft   bool `env:"AUTO_REJECT_OVERDRAFT" envDefault:"false"`

	// Empty disables the bank list cache.
	RedisAddr    string        `env:"REDIS_ADDR"`
	BankCacheTTL time.Duration `env:"BANK_CACHE_TTL" envDefault:"5m"`

	// Empty disables decision events.
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"bankdesk"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.AccountNumberAttempts < 1 {
		return nil, fmt.Errorf("config.Load: ACCOUNT_NUMBER_ATTEMPTS must be at least 1")
	}
	return &cfg, nil
}
