package config

import (
	"strings"
	"time"
)

// Mode selects how orders are routed: never to a venue (simulated), to the
// venue's test environment (sandbox), or to production (live).
type Mode string

const (
	ModeSimulated Mode = "SIMULATED"
	ModeSandbox   Mode = "SANDBOX"
	ModeLive      Mode = "LIVE"
)

func ParseMode(s string) Mode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SANDBOX":
		return ModeSandbox
	case "LIVE":
		return ModeLive
	default:
		return ModeSimulated
	}
}

// Config is the frozen runtime policy record. It is validated on construction
// and shared read-only; live adjustments go through Handle.Swap.
type Config struct {
	App     AppConfig     `toml:"app"`
	Trading TradingConfig `toml:"trading"`
	Venue   VenueConfig   `toml:"venue"`
	Archive ArchiveConfig `toml:"archive"`
}

type AppConfig struct {
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	HTTPAddr string `toml:"http_addr"`
}

type TradingConfig struct {
	Mode                 string   `toml:"mode"`
	MaxNotional          float64  `toml:"max_notional"`
	Aggression           int      `toml:"aggression"`
	PositionFraction     float64  `toml:"position_fraction"`
	PositionFloor        float64  `toml:"position_floor"`
	PositionCeiling      float64  `toml:"position_ceiling"`
	PulseIntervalSeconds float64  `toml:"pulse_interval"`
	Symbols              []string `toml:"symbols"`
	Timeframe            string   `toml:"timeframe"`
}

type VenueConfig struct {
	Name   string `toml:"name"`
	APIKey string `toml:"api_key"`
	Secret string `toml:"secret"`
}

type ArchiveConfig struct {
	Path string `toml:"path"`
}

func (c *Config) Mode() Mode {
	return ParseMode(c.Trading.Mode)
}

func (c *Config) PulseInterval() time.Duration {
	return time.Duration(c.Trading.PulseIntervalSeconds * float64(time.Second))
}

// HasCredentials reports whether both key and secret are set.
func (v VenueConfig) HasCredentials() bool {
	return strings.TrimSpace(v.APIKey) != "" && strings.TrimSpace(v.Secret) != ""
}
