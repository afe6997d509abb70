package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.ContextTokenBudget)
	assert.Equal(t, 400, cfg.KnowledgeDocBudget)
	assert.Equal(t, 30, cfg.KeepVerbatimMessages)
	assert.Equal(t, 50, cfg.MaxContextMessages)
	assert.Equal(t, 3, cfg.RetrievalTopK)
	assert.Equal(t, 5, cfg.AmbiguityWindow)
	assert.Equal(t, 2, cfg.ConfirmationRetryLimit)
	assert.Equal(t, "BD", cfg.NIDCountry)
	assert.Equal(t, 15*time.Second, cfg.ExternalCallTimeout)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CONTEXT_TOKEN_BUDGET", "4000")
	t.Setenv("NID_COUNTRY", "us")
	t.Setenv("CONFIRMATION_RETRY_LIMIT", "4")
	t.Setenv("EXTERNAL_CALL_TIMEOUT", "30s")
	t.Setenv("REDIS_TLS", "true")

	cfg := Load()

	assert.Equal(t, 4000, cfg.ContextTokenBudget)
	assert.Equal(t, "US", cfg.NIDCountry)
	assert.Equal(t, 4, cfg.ConfirmationRetryLimit)
	assert.Equal(t, 30*time.Second, cfg.ExternalCallTimeout)
	assert.True(t, cfg.RedisTLS)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RETRY_MAX_ATTEMPTS", "lots")
	t.Setenv("RETRY_BASE_DELAY", "soon")

	cfg := Load()

	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBaseDelay)
}
