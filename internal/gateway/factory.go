package gateway

import (
	"fmt"
	"strings"

	"vortex/internal/config"
	"vortex/internal/gateway/binance"
	"vortex/internal/gateway/exchange"
	"vortex/internal/gateway/mexc"
	"vortex/internal/gateway/simulated"
	"vortex/internal/logger"
)

// Resolve picks the venue backend from mode and declared venue, once at
// startup. Routing lives here so no caller can reach a live endpoint in
// simulated mode: in SIMULATED the declared venue is ignored entirely and the
// in-process backend is returned.
func Resolve(cfg *config.Config) (exchange.Exchange, error) {
	mode := cfg.Mode()
	if mode == config.ModeSimulated {
		logger.Infof("gateway: simulated venue (declared venue %q not contacted)", cfg.Venue.Name)
		return simulated.New(cfg.Venue.HasCredentials()), nil
	}

	name := strings.ToLower(strings.TrimSpace(cfg.Venue.Name))
	switch name {
	case "binance":
		v, err := binance.New(binance.Config{
			APIKey:  cfg.Venue.APIKey,
			Secret:  cfg.Venue.Secret,
			Sandbox: mode == config.ModeSandbox,
		})
		if err != nil {
			return nil, fmt.Errorf("init binance venue: %w", err)
		}
		logger.Infof("gateway: binance venue (mode=%s)", mode)
		return NewGuard(v), nil
	case "mexc":
		if mode == config.ModeSandbox {
			return nil, fmt.Errorf("mexc has no spot test environment; use SIMULATED or LIVE")
		}
		v, err := mexc.New(mexc.Config{
			APIKey: cfg.Venue.APIKey,
			Secret: cfg.Venue.Secret,
		})
		if err != nil {
			return nil, fmt.Errorf("init mexc venue: %w", err)
		}
		logger.Infof("gateway: mexc venue (mode=%s)", mode)
		return NewGuard(v), nil
	default:
		return nil, fmt.Errorf("unknown venue %q", cfg.Venue.Name)
	}
}
