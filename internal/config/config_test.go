package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/bankdesk")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.AccountNumberAttempts)
	assert.False(t, cfg.AutoRejectOverdraft)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 5*time.Minute, cfg.BankCacheTTL)
	assert.Empty(t, cfg.NATSURL)
	assert.Equal(t, "bankdesk", cfg.NATSSubjectPrefix)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "missing database url",
			env:     map[string]string{"DATABASE_URL": ""},
			wantErr: true,
		},
		{
			name: "overrides",
			env: map[string]string{
				"DATABASE_URL":          "postgres://db/bank",
				"PORT":                  "9090",
				"AUTO_REJECT_OVERDRAFT": "true",
				"REDIS_ADDR":            "redis:6379",
				"BANK_CACHE_TTL":        "30s",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Port)
				assert.True(t, cfg.AutoRejectOverdraft)
				assert.Equal(t, "redis:6379", cfg.RedisAddr)
				assert.Equal(t, 30*time.Second, cfg.BankCacheTTL)
			},
		},
		{
			name: "cors origins list",
			env: map[string]string{
				"DATABASE_URL":         "postgres://db/bank",
				"CORS_ALLOWED_ORIGINS": "http://localhost:3000,https://app.bankdesk.test",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"http://localhost:3000", "https://app.bankdesk.test"}, cfg.CORSAllowedOrigins)
			},
		},
		{
			name: "zero account number attempts",
			env: map[string]string{
				"DATABASE_URL":            "postgres://db/bank",
				"ACCOUNT_NUMBER_ATTEMPTS": "0",
			},
			wantErr: true,
		},
		{
			name: "malformed port",
			env: map[string]string{
				"DATABASE_URL": "postgres://db/bank",
				"PORT":         "eighty",
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}
