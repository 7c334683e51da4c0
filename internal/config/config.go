package config

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const envPrefix = "VORTEX"

// Load builds a Config from an optional YAML file merged under environment
// variables, applies defaults, and validates the result. path may be empty.
func Load(path string) (*Config, error) {
	v := newViper(path)
	if strings.TrimSpace(path) != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}
	return decode(v)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvAliases(v)
	return v
}

// bindEnvAliases exposes the short, documented variable names alongside the
// fully qualified VORTEX_SECTION_KEY form.
func bindEnvAliases(v *viper.Viper) {
	aliases := map[string][]string{
		"trading.mode":              {"VORTEX_MODE"},
		"trading.max_notional":      {"VORTEX_MAX_NOTIONAL"},
		"trading.aggression":        {"VORTEX_AGGRESSION"},
		"trading.position_fraction": {"VORTEX_POSITION_FRACTION"},
		"trading.position_floor":    {"VORTEX_POSITION_FLOOR"},
		"trading.position_ceiling":  {"VORTEX_POSITION_CEILING"},
		"trading.pulse_interval":    {"VORTEX_PULSE_INTERVAL"},
		"trading.symbols":           {"VORTEX_SYMBOLS"},
		"trading.timeframe":         {"VORTEX_TIMEFRAME"},
		"venue.name":                {"VORTEX_VENUE"},
		"venue.api_key":             {"VORTEX_API_KEY"},
		"venue.secret":              {"VORTEX_SECRET"},
		"app.http_addr":             {"VORTEX_HTTP_ADDR"},
		"app.log_level":             {"VORTEX_LOG_LEVEL"},
		"app.log_path":              {"VORTEX_LOG_PATH"},
		"archive.path":              {"VORTEX_ARCHIVE_PATH"},
	}
	for key, envs := range aliases {
		keys := append([]string{key}, envs...)
		_ = v.BindEnv(keys...)
	}
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults(v.IsSet)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
