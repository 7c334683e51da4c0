package order

import (
	"context"

	"github.com/google/uuid"

	"vortex/internal/gateway/exchange"
	"vortex/internal/strategy"
)

// NoteError records a failure that happened outside an order attempt (for
// example a permanent data error in a pulse loop) as an ERROR ledger entry.
// Ledger writes stay behind the manager so observers see a single stream.
func (m *Manager) NoteError(sym, reason string) {
	m.record(exchange.OrderResult{
		ID:     uuid.NewString(),
		Symbol: sym,
		Type:   exchange.TypeMarket,
		Status: exchange.StatusError,
		Reason: reason,
	}, strategy.SignalNeutral, 0, 0)
}

// Offset closes out an open base amount with an offsetting market order. It
// bypasses the sizing gate: a flatten pass must be able to close a position
// whose value exceeds the per-order ceiling. The result is still recorded.
func (m *Manager) Offset(ctx context.Context, sym string, side exchange.Side, baseAmount float64) exchange.OrderResult {
	price, err := m.venue.FetchLastPrice(ctx, sym)
	if err != nil {
		price = 0
	}
	res, err := m.venue.PlaceMarketOrder(ctx, sym, side, baseAmount, price)
	if err != nil {
		return m.record(exchange.OrderResult{
			ID:     uuid.NewString(),
			Symbol: sym,
			Side:   side,
			Type:   exchange.TypeMarket,
			Amount: baseAmount,
			Price:  price,
			Status: exchange.StatusError,
			Reason: "flatten: " + err.Error(),
		}, strategy.SignalNeutral, 0, 0)
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if res.Symbol == "" {
		res.Symbol = sym
	}
	res.Reason = "flatten"
	return m.record(res, strategy.SignalNeutral, 0, 0)
}
