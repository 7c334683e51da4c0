package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vortex/internal/config"
)

func resolveConfig(mode, venue string) *config.Config {
	return &config.Config{
		Trading: config.TradingConfig{Mode: mode},
		Venue:   config.VenueConfig{Name: venue, APIKey: "k", Secret: "s"},
	}
}

func TestResolveSimulatedIgnoresVenue(t *testing.T) {
	v, err := Resolve(resolveConfig("SIMULATED", "binance"))
	require.NoError(t, err)
	assert.Equal(t, "simulated", v.Name())

	// Even a bogus venue name resolves: nothing is contacted.
	v, err = Resolve(resolveConfig("SIMULATED", "no-such-venue"))
	require.NoError(t, err)
	assert.Equal(t, "simulated", v.Name())
}

func TestResolveWrapsRealVenues(t *testing.T) {
	v, err := Resolve(resolveConfig("SANDBOX", "binance"))
	require.NoError(t, err)
	assert.IsType(t, &Guard{}, v)
	assert.Equal(t, "binance", v.Name())

	v, err = Resolve(resolveConfig("LIVE", "mexc"))
	require.NoError(t, err)
	assert.IsType(t, &Guard{}, v)
	assert.Equal(t, "mexc", v.Name())
}

func TestResolveMexcHasNoSandbox(t *testing.T) {
	_, err := Resolve(resolveConfig("SANDBOX", "mexc"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "test environment")
}

func TestResolveUnknownVenue(t *testing.T) {
	_, err := Resolve(resolveConfig("LIVE", "kraken"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown venue")
}
