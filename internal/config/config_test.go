package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeSimulated, cfg.Mode())
	assert.Equal(t, 100.0, cfg.Trading.MaxNotional)
	assert.Equal(t, 5, cfg.Trading.Aggression)
	assert.Equal(t, 0.04, cfg.Trading.PositionFraction)
	assert.Equal(t, 5.0, cfg.Trading.PositionFloor)
	assert.Equal(t, 15.0, cfg.Trading.PositionCeiling)
	assert.Equal(t, 8*time.Second, cfg.PulseInterval())
	assert.Equal(t, "binance", cfg.Venue.Name)
	assert.Equal(t, ":9991", cfg.App.HTTPAddr)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VORTEX_MODE", "sandbox")
	t.Setenv("VORTEX_MAX_NOTIONAL", "250")
	t.Setenv("VORTEX_AGGRESSION", "0")
	t.Setenv("VORTEX_POSITION_CEILING", "40")
	t.Setenv("VORTEX_PULSE_INTERVAL", "2")
	t.Setenv("VORTEX_API_KEY", "real-key-abc")
	t.Setenv("VORTEX_SECRET", "real-secret-def")
	t.Setenv("VORTEX_SYMBOLS", "btc/usdt,eth/usdt")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ModeSandbox, cfg.Mode())
	assert.Equal(t, 250.0, cfg.Trading.MaxNotional)
	// An explicit zero survives the defaults pass.
	assert.Equal(t, 0, cfg.Trading.Aggression)
	assert.Equal(t, 40.0, cfg.Trading.PositionCeiling)
	assert.Equal(t, 2*time.Second, cfg.PulseInterval())
	assert.Equal(t, []string{"BTC/USDT", "ETH/USDT"}, cfg.Trading.Symbols)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vortex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
trading:
  mode: SIMULATED
  aggression: 7
  max_notional: 500
  position_ceiling: 80
venue:
  name: mexc
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Trading.Aggression)
	assert.Equal(t, 500.0, cfg.Trading.MaxNotional)
	assert.Equal(t, "mexc", cfg.Venue.Name)
}

func TestPlaceholderCredentialsRejected(t *testing.T) {
	for _, key := range []string{"PLACEHOLDER_KEY", "YOUR_API_KEY", "EXAMPLE_KEY_123", "TEST_KEY"} {
		t.Run(key, func(t *testing.T) {
			t.Setenv("VORTEX_MODE", "LIVE")
			t.Setenv("VORTEX_API_KEY", key)
			t.Setenv("VORTEX_SECRET", "real-secret")

			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "placeholder")
		})
	}
}

func TestCredentialsRequiredOutsideSimulated(t *testing.T) {
	t.Setenv("VORTEX_MODE", "LIVE")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials")
}

func TestNumericRangeValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"aggression too high": {"VORTEX_AGGRESSION": "11"},
		"aggression negative": {"VORTEX_AGGRESSION": "-1"},
		"floor above ceiling": {"VORTEX_POSITION_FLOOR": "20", "VORTEX_POSITION_CEILING": "10"},
		"ceiling above cap":   {"VORTEX_POSITION_CEILING": "150"},
		"zero interval":       {"VORTEX_PULSE_INTERVAL": "0", "VORTEX_AGGRESSION": "5"},
		// Explicit zeros must fail validation, not fall back to defaults.
		"zero max notional": {"VORTEX_MAX_NOTIONAL": "0"},
		"zero fraction":     {"VORTEX_POSITION_FRACTION": "0"},
		"zero floor":        {"VORTEX_POSITION_FLOOR": "0"},
		"zero ceiling":      {"VORTEX_POSITION_CEILING": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestHandleSwapValidates(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	h := NewHandle(cfg)

	next := *cfg
	next.Trading.Aggression = 9
	require.NoError(t, h.Swap(&next))
	assert.Equal(t, 9, h.Active().Trading.Aggression)

	bad := *cfg
	bad.Trading.Aggression = 42
	require.Error(t, h.Swap(&bad))
	// Active record untouched after a rejected swap.
	assert.Equal(t, 9, h.Active().Trading.Aggression)
}
