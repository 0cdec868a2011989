package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, QuoteModeSimulated, cfg.QuoteMode)
	assert.Equal(t, "10s", cfg.QuoteTickInterval.String())
	assert.False(t, cfg.BankMirror)
	assert.True(t, cfg.SeedDemoUser)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STOCKVERSE_DATA_DIR", "/tmp/sv")
	t.Setenv("PORT", "9090")
	t.Setenv("QUOTE_MODE", "static")
	t.Setenv("QUOTE_TICK_INTERVAL", "30s")
	t.Setenv("BANK_MIRROR", "true")
	t.Setenv("SEED_DEMO_USER", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/sv", cfg.DataDir)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, QuoteModeStatic, cfg.QuoteMode)
	assert.Equal(t, "30s", cfg.QuoteTickInterval.String())
	assert.True(t, cfg.BankMirror)
	assert.False(t, cfg.SeedDemoUser)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad port", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad quote mode", func(t *testing.T) {
		t.Setenv("QUOTE_MODE", "psychic")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("tick interval too short", func(t *testing.T) {
		t.Setenv("QUOTE_TICK_INTERVAL", "100ms")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("alphavantage without key", func(t *testing.T) {
		t.Setenv("QUOTE_MODE", "alphavantage")
		t.Setenv("ALPHA_VANTAGE_API_KEY", "")
		_, err := Load()
		assert.Error(t, err)
	})
}
