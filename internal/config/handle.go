package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"vortex/internal/logger"
)

// Handle holds the active Config behind an atomic pointer so the aggression
// knob (and the rest of the policy record) can be swapped at runtime without
// locking readers. In-flight pulse loops observe a swap on their next tick.
type Handle struct {
	ptr atomic.Pointer[Config]
}

func NewHandle(cfg *Config) *Handle {
	h := &Handle{}
	h.ptr.Store(cfg)
	return h
}

// Active returns the current record. The returned value must be treated as
// read-only.
func (h *Handle) Active() *Config {
	return h.ptr.Load()
}

// Swap validates the candidate and, if it passes, makes it the active record.
func (h *Handle) Swap(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config swap requires a record")
	}
	if err := validate(cfg); err != nil {
		return err
	}
	h.ptr.Store(cfg)
	return nil
}

// Watch reloads the file on change and swaps the record in. Mode changes are
// refused: execution routing is fixed for the process lifetime.
func (h *Handle) Watch(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config watch requires a file path")
	}
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config for watch failed: %w", err)
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			logger.Errorf("config reload rejected: %v", err)
			return
		}
		if next.Mode() != h.Active().Mode() {
			logger.Errorf("config reload rejected: mode change %s -> %s requires restart",
				h.Active().Mode(), next.Mode())
			return
		}
		if err := h.Swap(next); err != nil {
			logger.Errorf("config reload rejected: %v", err)
			return
		}
		logger.Infof("config reloaded (aggression=%d max_notional=%.2f)",
			next.Trading.Aggression, next.Trading.MaxNotional)
	})
	v.WatchConfig()
	return nil
}
