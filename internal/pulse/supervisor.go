package pulse

import (
	"context"
	"strings"
	"sync"
	"time"

	"vortex/internal/config"
	"vortex/internal/gateway/exchange"
	"vortex/internal/ledger"
	"vortex/internal/logger"
	"vortex/internal/order"
	"vortex/internal/pkg/symbol"
)

// Supervisor owns the set of pulse loops, keyed by symbol. Start is
// idempotent; StopAll cancels every loop and waits for the flatten passes.
type Supervisor struct {
	cfg     *config.Handle
	venue   exchange.Exchange
	manager *order.Manager
	led     *ledger.Ledger

	ctx context.Context

	mu    sync.Mutex
	loops map[string]*Loop
}

func NewSupervisor(ctx context.Context, cfg *config.Handle, venue exchange.Exchange, manager *order.Manager, led *ledger.Ledger) *Supervisor {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Supervisor{
		cfg:     cfg,
		venue:   venue,
		manager: manager,
		led:     led,
		ctx:     ctx,
		loops:   make(map[string]*Loop),
	}
}

// Start spawns a loop for the symbol. A second Start for a running symbol is
// a no-op; restarting an idle symbol replaces the loop, resetting its cycle
// counter.
func (s *Supervisor) Start(sym string) error {
	sym = strings.ToUpper(strings.TrimSpace(sym))
	if !symbol.IsTradable(sym) {
		return errInvalidSymbol(sym)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.loops[sym]; ok {
		st := existing.Status().State
		if st == StateRunning || st == StateStopping {
			logger.Debugf("pulse %s: already %s, start ignored", sym, st)
			return nil
		}
	}
	l := newLoop(sym, s.cfg, s.venue, s.manager, s.led)
	ctx, cancel := context.WithCancel(s.ctx)
	l.cancel = cancel
	s.loops[sym] = l
	go l.run(ctx)
	return nil
}

// Stop cancels one symbol's loop and waits for it to flatten and park.
func (s *Supervisor) Stop(sym string, timeout time.Duration) {
	sym = strings.ToUpper(strings.TrimSpace(sym))
	s.mu.Lock()
	l, ok := s.loops[sym]
	s.mu.Unlock()
	if !ok {
		return
	}
	s.stopLoop(l, timeout)
}

// StopAll stops every loop. Flatten passes run inside each loop before it
// parks.
func (s *Supervisor) StopAll(timeout time.Duration) {
	s.mu.Lock()
	loops := make([]*Loop, 0, len(s.loops))
	for _, l := range s.loops {
		loops = append(loops, l)
	}
	s.mu.Unlock()

	var wg sync.WaitGroup
	for _, l := range loops {
		wg.Add(1)
		go func(l *Loop) {
			defer wg.Done()
			s.stopLoop(l, timeout)
		}(l)
	}
	wg.Wait()
}

func (s *Supervisor) stopLoop(l *Loop, timeout time.Duration) {
	if l.cancel != nil {
		l.cancel()
	}
	select {
	case <-l.done:
	case <-time.After(timeout):
		logger.Warnf("pulse %s: stop timed out after %s", l.symbol, timeout)
	}
}

// Status reports every known loop, including parked ones.
func (s *Supervisor) Status() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Status, len(s.loops))
	for sym, l := range s.loops {
		out[sym] = l.Status()
	}
	return out
}

type errInvalidSymbol string

func (e errInvalidSymbol) Error() string {
	return "invalid symbol " + string(e) + " (want BASE/USDT)"
}
