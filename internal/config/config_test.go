package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "BACKEND", "CACHE_TTL", "COOKIE_SECURE", "GATEWAY_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("BACKEND", BackendREST)
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("GATEWAY_TIMEOUT", "nonsense")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, BackendREST, cfg.Backend)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	assert.True(t, cfg.CookieSecure)
	assert.Contains(t, cfg.Notes, `bad GATEWAY_TIMEOUT="nonsense", using 10s`)
}
