// Package gateway resolves the configured venue and wraps it with the call
// discipline every consumer relies on: wall-clock deadlines per call and a
// circuit breaker over the data endpoints.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vortex/internal/gateway/exchange"
	"vortex/internal/market"
	"vortex/internal/pkg/circuit"
)

const (
	dataDeadline  = 10 * time.Second
	orderDeadline = 20 * time.Second

	breakerThreshold = 5
	breakerTimeout   = 30 * time.Second
)

var errBreakerOpen = errors.New("data circuit open")

// Guard decorates a venue with deadlines and a breaker. Order placement is
// deliberately not breaker-gated: a flatten pass must still be able to try.
type Guard struct {
	inner   exchange.Exchange
	breaker *circuit.Breaker
}

func NewGuard(inner exchange.Exchange) *Guard {
	return &Guard{
		inner:   inner,
		breaker: circuit.NewBreaker(inner.Name()+"-data", breakerThreshold, breakerTimeout),
	}
}

func (g *Guard) Name() string { return g.inner.Name() }

func (g *Guard) FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]market.Candle, error) {
	var out []market.Candle
	err := g.data(ctx, func(ctx context.Context) error {
		var err error
		out, err = g.inner.FetchOHLCV(ctx, symbol, timeframe, limit)
		return err
	})
	return out, err
}

func (g *Guard) FetchLastPrice(ctx context.Context, symbol string) (float64, error) {
	var px float64
	err := g.data(ctx, func(ctx context.Context) error {
		var err error
		px, err = g.inner.FetchLastPrice(ctx, symbol)
		return err
	})
	return px, err
}

func (g *Guard) FetchEquity(ctx context.Context, quote string) (float64, error) {
	var eq float64
	err := g.data(ctx, func(ctx context.Context) error {
		var err error
		eq, err = g.inner.FetchEquity(ctx, quote)
		return err
	})
	return eq, err
}

func (g *Guard) PlaceMarketOrder(ctx context.Context, symbol string, side exchange.Side, baseAmount, priceRef float64) (exchange.OrderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, orderDeadline)
	defer cancel()
	res, err := g.inner.PlaceMarketOrder(ctx, symbol, side, baseAmount, priceRef)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !exchange.IsPermanent(err) {
		err = exchange.Transient(err)
	}
	return res, err
}

func (g *Guard) Close() error { return g.inner.Close() }

func (g *Guard) data(ctx context.Context, call func(context.Context) error) error {
	if !g.breaker.Allow() {
		return exchange.Transient(fmt.Errorf("%w (%s)", errBreakerOpen, g.inner.Name()))
	}
	ctx, cancel := context.WithTimeout(ctx, dataDeadline)
	defer cancel()
	err := call(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && !exchange.IsPermanent(err) {
		err = exchange.Transient(err)
	}
	if err == nil {
		g.breaker.RecordSuccess()
		return nil
	}
	if exchange.IsTransient(err) {
		g.breaker.RecordFailure()
	}
	return err
}
