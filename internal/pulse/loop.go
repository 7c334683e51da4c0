// Package pulse runs the periodic market-polling loops, one per symbol:
// fetch a candle window, compute the signal, hand non-neutral signals to the
// order manager, sleep, repeat.
package pulse

import (
	"context"
	"sync"
	"time"

	"vortex/internal/config"
	"vortex/internal/gateway/exchange"
	"vortex/internal/ledger"
	"vortex/internal/logger"
	"vortex/internal/order"
	"vortex/internal/strategy"
)

type State string

const (
	StateIdle     State = "IDLE"
	StateRunning  State = "RUNNING"
	StateStopping State = "STOPPING"
)

const (
	// candleWindow covers the long SMA plus the previous row the crossing
	// test needs, with headroom.
	candleWindow = 100

	// maxErrorStreak stops a loop after this many consecutive ERROR order
	// results.
	maxErrorStreak = 5

	// cooldownPulses are skipped after any non-rejected order so one
	// crossover does not fire repeatedly.
	cooldownPulses = 2

	// maxBackoff caps the transient-failure sleep.
	maxBackoff = 60 * time.Second
)

type Status struct {
	State      State           `json:"state"`
	Cycles     int             `json:"cycles"`
	LastSignal strategy.Signal `json:"last_signal"`
}

// Loop owns a single symbol's cursor state. Nothing else reads or writes it.
type Loop struct {
	symbol  string
	cfg     *config.Handle
	venue   exchange.Exchange
	manager *order.Manager
	led     *ledger.Ledger

	mu         sync.Mutex
	state      State
	cycles     int
	lastSignal strategy.Signal
	cooldown   int
	errStreak  int

	cancel context.CancelFunc
	done   chan struct{}
}

func newLoop(symbol string, cfg *config.Handle, venue exchange.Exchange, manager *order.Manager, led *ledger.Ledger) *Loop {
	return &Loop{
		symbol:     symbol,
		cfg:        cfg,
		venue:      venue,
		manager:    manager,
		led:        led,
		state:      StateIdle,
		lastSignal: strategy.SignalNeutral,
		done:       make(chan struct{}),
	}
}

func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status{State: l.state, Cycles: l.cycles, LastSignal: l.lastSignal}
}

func (l *Loop) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// run drives the tick loop until ctx is canceled or the loop gives up. The
// stop request is observed at the next sleep or venue call.
func (l *Loop) run(ctx context.Context) {
	defer close(l.done)
	l.setState(StateRunning)
	logger.Infof("pulse %s: running", l.symbol)

	transientStreak := 0
	for {
		if ctx.Err() != nil {
			break
		}
		cfg := l.cfg.Active()
		interval := cfg.PulseInterval()

		candles, err := l.venue.FetchOHLCV(ctx, l.symbol, cfg.Trading.Timeframe, candleWindow)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if exchange.IsPermanent(err) {
				logger.Errorf("pulse %s: permanent data error, stopping: %v", l.symbol, err)
				l.manager.NoteError(l.symbol, err.Error())
				break
			}
			transientStreak++
			wait := backoff(interval, transientStreak)
			logger.Warnf("pulse %s: transient data error (streak=%d), backing off %s: %v",
				l.symbol, transientStreak, wait, err)
			if !sleep(ctx, wait) {
				break
			}
			continue
		}
		transientStreak = 0

		sig := strategy.Crossover(candles)
		l.mu.Lock()
		l.cycles++
		l.lastSignal = sig
		inCooldown := l.cooldown > 0
		if inCooldown {
			l.cooldown--
		}
		l.mu.Unlock()

		if sig != strategy.SignalNeutral && !inCooldown {
			side := exchange.SideBuy
			if sig == strategy.SignalSell {
				side = exchange.SideSell
			}
			res := l.manager.Place(ctx, l.symbol, side, 0, sig)
			l.mu.Lock()
			if res.Status == exchange.StatusError {
				l.errStreak++
			} else {
				l.errStreak = 0
			}
			if res.Status != exchange.StatusRejected {
				l.cooldown = cooldownPulses
			}
			streak := l.errStreak
			l.mu.Unlock()
			if streak >= maxErrorStreak {
				logger.Errorf("pulse %s: %d consecutive order errors, stopping", l.symbol, streak)
				break
			}
		}

		if !sleep(ctx, interval) {
			break
		}
	}

	l.setState(StateStopping)
	l.flatten()
	l.setState(StateIdle)
	logger.Infof("pulse %s: idle", l.symbol)
}

// flatten closes any open position recorded in the ledger with an offsetting
// market order. Simulated mode holds nothing real, so it is a no-op there.
func (l *Loop) flatten() {
	cfg := l.cfg.Active()
	if cfg.Mode() == config.ModeSimulated {
		return
	}
	net := openBaseAmount(l.led, l.symbol)
	if net == 0 {
		return
	}
	side := exchange.SideSell
	if net < 0 {
		side = exchange.SideBuy
		net = -net
	}
	// The loop context is already canceled at this point; the flatten pass
	// gets its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	logger.Infof("pulse %s: flattening %.8f via %s", l.symbol, net, side)
	l.manager.Offset(ctx, l.symbol, side, net)
}

// openBaseAmount nets the filled amounts for a symbol across the resident
// ledger window. Positive means long base currency.
func openBaseAmount(led *ledger.Ledger, symbol string) float64 {
	net := 0.0
	for _, e := range led.Tail(ledger.DefaultCapacity) {
		if e.Result.Symbol != symbol || e.Result.Status != exchange.StatusFilled {
			continue
		}
		if e.Result.Side == exchange.SideBuy {
			net += e.Result.Amount
		} else {
			net -= e.Result.Amount
		}
	}
	return net
}

// backoff returns min(interval * 2^streak, 60s) for the streak-th consecutive
// transient failure.
func backoff(interval time.Duration, streak int) time.Duration {
	if streak < 1 {
		streak = 1
	}
	if streak > 30 {
		return maxBackoff
	}
	wait := interval * time.Duration(1<<uint(streak))
	if wait > maxBackoff {
		return maxBackoff
	}
	return wait
}

// sleep waits for d or until ctx is canceled. Returns false on cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
