package config

import (
	"fmt"
	"strings"

	"vortex/internal/pkg/symbol"
)

// placeholderMarkers are substrings that identify template credentials copied
// from documentation. Orders must never reach a venue signed with these.
var placeholderMarkers = []string{"PLACEHOLDER", "YOUR_", "EXAMPLE_", "TEST_KEY"}

func validate(c *Config) error {
	if err := c.Trading.validate(); err != nil {
		return err
	}
	if err := c.Venue.validate(c.Mode()); err != nil {
		return err
	}
	return nil
}

func (t *TradingConfig) validate() error {
	switch ParseMode(t.Mode) {
	case ModeSimulated, ModeSandbox, ModeLive:
	default:
		return fmt.Errorf("trading.mode must be SIMULATED, SANDBOX or LIVE")
	}
	if t.Aggression < 0 || t.Aggression > 10 {
		return fmt.Errorf("trading.aggression must be in [0,10], got %d", t.Aggression)
	}
	if t.MaxNotional <= 0 {
		return fmt.Errorf("trading.max_notional must be > 0")
	}
	if t.PositionFraction <= 0 {
		return fmt.Errorf("trading.position_fraction must be > 0")
	}
	if t.PositionFloor <= 0 || t.PositionCeiling <= 0 {
		return fmt.Errorf("trading.position_floor and position_ceiling must be > 0")
	}
	if t.PositionFloor > t.PositionCeiling {
		return fmt.Errorf("trading.position_floor (%.2f) must not exceed position_ceiling (%.2f)",
			t.PositionFloor, t.PositionCeiling)
	}
	if t.PositionCeiling > t.MaxNotional {
		return fmt.Errorf("trading.position_ceiling (%.2f) must not exceed max_notional (%.2f)",
			t.PositionCeiling, t.MaxNotional)
	}
	if t.PulseIntervalSeconds <= 0 {
		return fmt.Errorf("trading.pulse_interval must be > 0")
	}
	for _, s := range t.Symbols {
		if !symbol.IsTradable(s) {
			return fmt.Errorf("trading.symbols contains invalid pair %q (want BASE/USDT)", s)
		}
	}
	return nil
}

func (v *VenueConfig) validate(mode Mode) error {
	name := strings.ToLower(strings.TrimSpace(v.Name))
	switch name {
	case "binance", "mexc":
	default:
		return fmt.Errorf("venue.name must be binance or mexc, got %q", v.Name)
	}
	if mode == ModeSimulated {
		return nil
	}
	if !v.HasCredentials() {
		return fmt.Errorf("venue credentials are required in %s mode", mode)
	}
	for _, cred := range []string{v.APIKey, v.Secret} {
		upper := strings.ToUpper(cred)
		for _, marker := range placeholderMarkers {
			if strings.Contains(upper, marker) {
				return fmt.Errorf("venue credentials look like a placeholder (%s); refusing %s mode", marker, mode)
			}
		}
	}
	return nil
}
