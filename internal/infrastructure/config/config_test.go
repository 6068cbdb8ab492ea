package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"TICKETFLOW_APP_NAME":          os.Getenv("TICKETFLOW_APP_NAME"),
		"TICKETFLOW_APP_ENV":           os.Getenv("TICKETFLOW_APP_ENV"),
		"TICKETFLOW_APP_PORT":          os.Getenv("TICKETFLOW_APP_PORT"),
		"TICKETFLOW_DATABASE_HOST":     os.Getenv("TICKETFLOW_DATABASE_HOST"),
		"TICKETFLOW_DATABASE_PORT":     os.Getenv("TICKETFLOW_DATABASE_PORT"),
		"TICKETFLOW_DATABASE_PASSWORD": os.Getenv("TICKETFLOW_DATABASE_PASSWORD"),
		"TICKETFLOW_JWT_SECRET":        os.Getenv("TICKETFLOW_JWT_SECRET"),
		"TICKETFLOW_LLM_BASE_URL":      os.Getenv("TICKETFLOW_LLM_BASE_URL"),
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

		assert.Equal(t, "ticketflow-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "ticketflow", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenExpiration)
		assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
		assert.Equal(t, int64(1<<20), cfg.HTTP.MaxBodySize)
	})

	t.Run("loads values from environment variables with TICKETFLOW prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("TICKETFLOW_APP_NAME", "test-app")
		os.Setenv("TICKETFLOW_APP_ENV", "testing")
		os.Setenv("TICKETFLOW_APP_PORT", "9000")
		os.Setenv("TICKETFLOW_DATABASE_HOST", "testdb.local")
		os.Setenv("TICKETFLOW_DATABASE_PORT", "5433")
		os.Setenv("TICKETFLOW_LLM_BASE_URL", "https://llm.internal/v1")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "https://llm.internal/v1", cfg.LLM.BaseURL)
	})

	t.Run("falls back to a development jwt secret outside production", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)
		assert.NotEmpty(t, cfg.JWT.Secret)
	})

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("TICKETFLOW_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("rejects non-http llm base url", func(t *testing.T) {
		clearEnv()
		os.Setenv("TICKETFLOW_LLM_BASE_URL", "ftp://llm.internal")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm.base_url")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "user=testuser")
	assert.Contains(t, dsn, "dbname=testdb")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestDatabaseConfig_URL(t *testing.T) {
	cfg := DatabaseConfig{
		Host:    "db.local",
		Port:    5433,
		User:    "app",
		DBName:  "ticketflow",
		SSLMode: "require",
	}

	assert.Equal(t, "postgres://app:@db.local:5433/ticketflow?sslmode=require", cfg.URL())
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}
