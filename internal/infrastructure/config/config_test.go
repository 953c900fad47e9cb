package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"VAREJO_APP_NAME":                    os.Getenv("VAREJO_APP_NAME"),
		"VAREJO_APP_ENV":                     os.Getenv("VAREJO_APP_ENV"),
		"VAREJO_APP_PORT":                    os.Getenv("VAREJO_APP_PORT"),
		"VAREJO_DATABASE_HOST":               os.Getenv("VAREJO_DATABASE_HOST"),
		"VAREJO_DATABASE_PORT":               os.Getenv("VAREJO_DATABASE_PORT"),
		"VAREJO_DATABASE_USER":               os.Getenv("VAREJO_DATABASE_USER"),
		"VAREJO_DATABASE_PASSWORD":           os.Getenv("VAREJO_DATABASE_PASSWORD"),
		"VAREJO_DATABASE_DBNAME":             os.Getenv("VAREJO_DATABASE_DBNAME"),
		"VAREJO_DATABASE_SSLMODE":            os.Getenv("VAREJO_DATABASE_SSLMODE"),
		"VAREJO_DATABASE_MAX_OPEN_CONNS":     os.Getenv("VAREJO_DATABASE_MAX_OPEN_CONNS"),
		"VAREJO_DATABASE_MAX_IDLE_CONNS":     os.Getenv("VAREJO_DATABASE_MAX_IDLE_CONNS"),
		"VAREJO_FISCAL_ENVIRONMENT":          os.Getenv("VAREJO_FISCAL_ENVIRONMENT"),
		"VAREJO_FISCAL_ISSUER_TAX_ID":        os.Getenv("VAREJO_FISCAL_ISSUER_TAX_ID"),
		"VAREJO_FISCAL_CERTIFICATE_PATH":     os.Getenv("VAREJO_FISCAL_CERTIFICATE_PATH"),
		"VAREJO_FISCAL_CERTIFICATE_PASSWORD": os.Getenv("VAREJO_FISCAL_CERTIFICATE_PASSWORD"),
		"VAREJO_TELEMETRY_SAMPLING_RATIO":    os.Getenv("VAREJO_TELEMETRY_SAMPLING_RATIO"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "varejo-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "varejo", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, "homologation", cfg.Fiscal.Environment)
		assert.Equal(t, "1", cfg.Fiscal.ReceiptSeries)
		assert.False(t, cfg.Telemetry.Enabled)
		assert.Equal(t, "localhost:4317", cfg.Telemetry.CollectorEndpoint)
		assert.Equal(t, 1.0, cfg.Telemetry.SamplingRatio)
		assert.Equal(t, "varejo-backend", cfg.Telemetry.ServiceName)
	})

	t.Run("rejects sampling ratio outside the unit interval", func(t *testing.T) {
		clearEnv()
		os.Setenv("VAREJO_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("loads values from environment variables with VAREJO prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("VAREJO_APP_NAME", "test-app")
		os.Setenv("VAREJO_APP_PORT", "9000")
		os.Setenv("VAREJO_DATABASE_HOST", "testdb.local")
		os.Setenv("VAREJO_DATABASE_PORT", "5433")
		os.Setenv("VAREJO_FISCAL_ISSUER_TAX_ID", "12345678000190")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "12345678000190", cfg.Fiscal.IssuerTaxID)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("VAREJO_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("VAREJO_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown fiscal environment", func(t *testing.T) {
		clearEnv()
		os.Setenv("VAREJO_FISCAL_ENVIRONMENT", "staging")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fiscal.environment")
	})

	t.Run("production requires issuer and certificate", func(t *testing.T) {
		clearEnv()
		os.Setenv("VAREJO_APP_ENV", "production")
		os.Setenv("VAREJO_DATABASE_PASSWORD", "secret")
		os.Setenv("VAREJO_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "issuer_tax_id")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "varejo",
		Password: "p@ss/word",
		DBName:   "varejo",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Special characters in the password must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
