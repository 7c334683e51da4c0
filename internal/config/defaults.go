package config

import "strings"

const (
	defaultLogLevel         = "info"
	defaultHTTPAddr         = ":9991"
	defaultMode             = "SIMULATED"
	defaultVenue            = "binance"
	defaultMaxNotional      = 100.0
	defaultAggression       = 5
	defaultPositionFraction = 0.04
	defaultPositionFloor    = 5.0
	defaultPositionCeiling  = 15.0
	defaultPulseSeconds     = 8.0
	defaultTimeframe        = "1h"
)

// applyDefaults fills unset fields. isSet distinguishes an explicit zero from
// an absent key, which matters for aggression where 0 is a legal value.
func (c *Config) applyDefaults(isSet func(string) bool) {
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(c.App.HTTPAddr) == "" {
		c.App.HTTPAddr = defaultHTTPAddr
	}
	if strings.TrimSpace(c.Trading.Mode) == "" {
		c.Trading.Mode = defaultMode
	}
	if strings.TrimSpace(c.Venue.Name) == "" {
		c.Venue.Name = defaultVenue
	}
	if c.Trading.MaxNotional == 0 && !isSet("trading.max_notional") {
		c.Trading.MaxNotional = defaultMaxNotional
	}
	if c.Trading.Aggression == 0 && !isSet("trading.aggression") {
		c.Trading.Aggression = defaultAggression
	}
	if c.Trading.PositionFraction == 0 && !isSet("trading.position_fraction") {
		c.Trading.PositionFraction = defaultPositionFraction
	}
	if c.Trading.PositionFloor == 0 && !isSet("trading.position_floor") {
		c.Trading.PositionFloor = defaultPositionFloor
	}
	if c.Trading.PositionCeiling == 0 && !isSet("trading.position_ceiling") {
		c.Trading.PositionCeiling = defaultPositionCeiling
	}
	if c.Trading.PulseIntervalSeconds == 0 && !isSet("trading.pulse_interval") {
		c.Trading.PulseIntervalSeconds = defaultPulseSeconds
	}
	if strings.TrimSpace(c.Trading.Timeframe) == "" {
		c.Trading.Timeframe = defaultTimeframe
	}
	c.Trading.Symbols = splitSymbols(c.Trading.Symbols)
}

// splitSymbols tolerates a single comma-joined entry, which is how a symbol
// list arrives from an environment variable.
func splitSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
