package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, TokenBackendJWT, cfg.Auth.TokenBackend)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenDuration)
}

func TestLoadJWTRequiresSecret(t *testing.T) {
	t.Setenv("TOKEN_BACKEND", TokenBackendJWT)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadPasetoRequires32ByteKey(t *testing.T) {
	t.Setenv("TOKEN_BACKEND", TokenBackendPaseto)

	t.Setenv("PASETO_KEY", "too-short")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PASETO_KEY", "0123456789abcdef0123456789abcdef")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TokenBackendPaseto, cfg.Auth.TokenBackend)
}

func TestLoadUnknownBackendRejected(t *testing.T) {
	t.Setenv("TOKEN_BACKEND", "sessions")

	_, err := Load()
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "fitcoach",
		Password: "pw",
		DBName:   "fitcoach",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=fitcoach password=pw dbname=fitcoach sslmode=require",
		cfg.ConnectionString(),
	)
}
