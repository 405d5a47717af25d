package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{"DATABASE_URL", "STORE_BACKEND", "MONGODB_URI", "MATCH_SERVICE_PORT", "JWT_SECRET_KEY", "MATCH_HISTORY_TTL", "RATE_LIMIT"} {
		t.Setenv(key, env[key])
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":   "postgres://u:p@localhost:5432/arcade",
		"JWT_SECRET_KEY": "secret",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, 30*24*time.Hour, cfg.HistoryTTL)
	assert.Empty(t, cfg.MongoURI)
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"STORE_BACKEND":      "memory",
		"JWT_SECRET_KEY":     "secret",
		"MATCH_SERVICE_PORT": "9000",
		"MATCH_HISTORY_TTL":  "48h",
		"RATE_LIMIT":         "20",
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 48*time.Hour, cfg.HistoryTTL)
	assert.Equal(t, 20, cfg.RateLimit)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without url", env: map[string]string{"JWT_SECRET_KEY": "s"}},
		{name: "unknown backend", env: map[string]string{"STORE_BACKEND": "redis", "JWT_SECRET_KEY": "s"}},
		{name: "missing jwt secret", env: map[string]string{"STORE_BACKEND": "memory"}},
		{name: "bad ttl", env: map[string]string{"STORE_BACKEND": "memory", "JWT_SECRET_KEY": "s", "MATCH_HISTORY_TTL": "soon"}},
		{name: "bad rate limit", env: map[string]string{"STORE_BACKEND": "memory", "JWT_SECRET_KEY": "s", "RATE_LIMIT": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
