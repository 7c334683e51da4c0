// Package order is the single entry point for placing an order. The manager
// composes the sizing gate and the venue gateway, and guarantees exactly one
// ledger entry per invocation, whatever the outcome.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vortex/internal/config"
	"vortex/internal/gateway/exchange"
	"vortex/internal/ledger"
	"vortex/internal/logger"
	"vortex/internal/pkg/symbol"
	"vortex/internal/risk"
	"vortex/internal/strategy"
)

type Manager struct {
	cfg    *config.Handle
	venue  exchange.Exchange
	ledger *ledger.Ledger
}

func NewManager(cfg *config.Handle, venue exchange.Exchange, led *ledger.Ledger) *Manager {
	return &Manager{cfg: cfg, venue: venue, ledger: led}
}

// Place sizes, gates, and routes one market order. requestedNotional <= 0
// means "size from equity". The method never returns a Go error: every
// failure mode is folded into the OrderResult status, and exactly one ledger
// entry is appended per call. Retry policy belongs to the caller.
func (m *Manager) Place(ctx context.Context, sym string, side exchange.Side, requestedNotional float64, sig strategy.Signal) exchange.OrderResult {
	cfg := m.cfg.Active()
	sym = strings.ToUpper(strings.TrimSpace(sym))
	clamp := risk.EffectiveCeiling(cfg.Trading.MaxNotional, cfg.Trading.Aggression)

	if side != exchange.SideBuy && side != exchange.SideSell {
		return m.record(exchange.OrderResult{
			ID:     uuid.NewString(),
			Symbol: sym,
			Side:   side,
			Type:   exchange.TypeMarket,
			Status: exchange.StatusRejected,
			Reason: "side must be BUY or SELL",
		}, sig, 0, clamp)
	}

	// Reject malformed symbols before the venue is touched at all: an
	// invalid pair must not cost an equity or price call.
	if !symbol.IsTradable(sym) {
		return m.record(exchange.OrderResult{
			ID:     uuid.NewString(),
			Symbol: sym,
			Side:   side,
			Type:   exchange.TypeMarket,
			Status: exchange.StatusRejected,
			Reason: fmt.Sprintf("symbol %q is not a tradable BASE/USDT pair", sym),
		}, sig, 0, clamp)
	}

	equity, err := m.venue.FetchEquity(ctx, "USDT")
	if err != nil {
		// Zero equity sizes at the floor; a requested notional does not
		// need equity at all.
		logger.Debugf("order: equity fetch failed, assuming 0: %v", err)
		equity = 0
	}
	notional := requestedNotional
	if notional <= 0 {
		notional = risk.SizedNotional(equity, cfg.Trading)
	}

	price, err := m.venue.FetchLastPrice(ctx, sym)
	if err != nil {
		// Never attempt an order with unknown price.
		return m.record(exchange.OrderResult{
			ID:     uuid.NewString(),
			Symbol: sym,
			Side:   side,
			Type:   exchange.TypeMarket,
			Status: exchange.StatusRejected,
			Reason: "price unavailable",
		}, sig, equity, clamp)
	}

	if err := risk.Gate(sym, notional, cfg.Trading); err != nil {
		return m.record(exchange.OrderResult{
			ID:     uuid.NewString(),
			Symbol: sym,
			Side:   side,
			Type:   exchange.TypeMarket,
			Price:  price,
			Status: exchange.StatusRejected,
			Reason: err.Error(),
		}, sig, equity, clamp)
	}

	amount, _ := decimal.NewFromFloat(notional).
		Div(decimal.NewFromFloat(price)).
		Round(8).
		Float64()

	res, err := m.venue.PlaceMarketOrder(ctx, sym, side, amount, price)
	if err != nil {
		return m.record(exchange.OrderResult{
			ID:     uuid.NewString(),
			Symbol: sym,
			Side:   side,
			Type:   exchange.TypeMarket,
			Amount: amount,
			Price:  price,
			Status: exchange.StatusError,
			Reason: err.Error(),
		}, sig, equity, clamp)
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.Symbol == "" {
		res.Symbol = sym
	}
	return m.record(res, sig, equity, clamp)
}

func (m *Manager) record(res exchange.OrderResult, sig strategy.Signal, equity, clamp float64) exchange.OrderResult {
	entry := ledger.Entry{
		ID:           uuid.NewString(),
		Time:         time.Now().UTC(),
		Result:       res,
		Signal:       sig,
		Equity:       equity,
		AppliedClamp: clamp,
	}
	m.ledger.Append(entry)
	switch res.Status {
	case exchange.StatusRejected:
		logger.Infof("order rejected: %s %s: %s", res.Side, res.Symbol, res.Reason)
	case exchange.StatusError:
		logger.Warnf("order error: %s %s: %s", res.Side, res.Symbol, res.Reason)
	default:
		logger.Infof("order %s: %s %s amount=%.8f price=%.4f id=%s",
			strings.ToLower(string(res.Status)), res.Side, res.Symbol, res.Amount, res.Price, res.ID)
	}
	return res
}
