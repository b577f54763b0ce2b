package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvKeys = []string{
	"AGRO_APP_NAME",
	"AGRO_APP_ENV",
	"AGRO_APP_PORT",
	"AGRO_DATABASE_HOST",
	"AGRO_DATABASE_PORT",
	"AGRO_DATABASE_USER",
	"AGRO_DATABASE_PASSWORD",
	"AGRO_DATABASE_DBNAME",
	"AGRO_DATABASE_SSLMODE",
	"AGRO_DATABASE_MAX_OPEN_CONNS",
	"AGRO_DATABASE_MAX_IDLE_CONNS",
	"AGRO_REDIS_ENABLED",
	"AGRO_REDIS_PORT",
	"AGRO_JWT_SECRET",
	"AGRO_TELEMETRY_SAMPLING_RATIO",
	"AGRO_IDEMPOTENCY_TTL",
}

func TestLoad(t *testing.T) {
	originalEnv := make(map[string]string, len(testEnvKeys))
	for _, k := range testEnvKeys {
		originalEnv[k] = os.Getenv(k)
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
		for _, k := range testEnvKeys {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "agrotrade-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "agrotrade", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
		assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Equal(t, "agrotrade-backend", cfg.Telemetry.ServiceName)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
		assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
		assert.Equal(t, 10, cfg.HTTP.AuthRateLimit)
		assert.Equal(t, time.Minute, cfg.HTTP.AuthRateWindow)
	})

	t.Run("loads values from environment variables with AGRO prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGRO_APP_NAME", "test-app")
		os.Setenv("AGRO_APP_PORT", "9000")
		os.Setenv("AGRO_DATABASE_HOST", "testdb.local")
		os.Setenv("AGRO_DATABASE_PORT", "5433")
		os.Setenv("AGRO_DATABASE_PASSWORD", "testpass")
		os.Setenv("AGRO_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("AGRO_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("AGRO_REDIS_ENABLED", "true")
		os.Setenv("AGRO_IDEMPOTENCY_TTL", "30m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 30*time.Minute, cfg.Idempotency.TTL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGRO_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("AGRO_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects out of range ports", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGRO_DATABASE_PORT", "70000")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.port")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGRO_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})

	t.Run("production requires a long jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("AGRO_APP_ENV", "production")
		os.Setenv("AGRO_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required")

		os.Setenv("AGRO_JWT_SECRET", "short")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")

		os.Setenv("AGRO_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "agro",
		Password: "p@ss word",
		DBName:   "agrotrade",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://agro:p%40ss%20word@db:5432/agrotrade?sslmode=disable", d.DSN())
}
