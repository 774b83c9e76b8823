package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("GMP_URL", "https://gsa.example.com/gmp")
	t.Setenv("GMP_TIMEOUT", "45s")
	t.Setenv("JWT_TTL", "7200")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "gsa-reports", cfg.MinIO.Bucket)
	assert.Equal(t, "https://gsa.example.com/gmp", cfg.GMP.URL)
	assert.Equal(t, 45*time.Second, cfg.GMP.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TTL)
	assert.Equal(t, "gsa", cfg.Auth.Issuer)
}

func TestValidate(t *testing.T) {
	valid := func() *AppConfig {
		return &AppConfig{
			Timezone: "UTC",
			GMP:      GMPConfig{URL: "http://localhost:9392/gmp", Timeout: time.Second},
			Database: DatabaseConfig{Host: "db", Name: "gsa"},
			MinIO:    MinIOConfig{Endpoint: "minio:9000"},
			Auth:     AuthConfig{JWTSecret: "s", TTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"no secret", func(c *AppConfig) { c.Auth.JWTSecret = "" }, "JWT_SECRET is required"},
		{"bad url", func(c *AppConfig) { c.GMP.URL = "localhost:9392" }, "must be an http(s) url"},
		{"no timeout", func(c *AppConfig) { c.GMP.Timeout = 0 }, "GMP_TIMEOUT must be positive"},
		{"no database", func(c *AppConfig) { c.Database.Name = "" }, "DB_HOST and DB_NAME are required"},
		{"no minio", func(c *AppConfig) { c.MinIO.Endpoint = "" }, "MINIO_ENDPOINT is required"},
		{"bad timezone", func(c *AppConfig) { c.Timezone = "Mars/Olympus" }, "APP_TIMEZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, (&AppConfig{Timezone: "nowhere"}).Location())
	assert.Equal(t, "Europe/Berlin", (&AppConfig{Timezone: "Europe/Berlin"}).Location().String())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.False(t, getEnvBool(key, false))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"1m30s", 90 * time.Second},
		{"20", 20 * time.Second},
		{"soon", 5 * time.Second},
		{"", 5 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_DURATION_VAR", tt.value)
			assert.Equal(t, tt.want, getEnvDuration("TEST_DURATION_VAR", 5*time.Second))
		})
	}
}
