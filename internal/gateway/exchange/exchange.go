// Package exchange defines the venue-neutral capability set the execution
// core needs from a trading venue: candles, last price, equity, and market
// order placement. Venue backends (binance, mexc, simulated) implement it;
// callers never talk to a venue SDK directly.
package exchange

import (
	"context"

	"vortex/internal/market"
)

type Exchange interface {
	Name() string

	// FetchOHLCV returns up to limit closed candles, oldest first.
	FetchOHLCV(ctx context.Context, symbol, timeframe string, limit int) ([]market.Candle, error)

	// FetchLastPrice returns the last traded price for the pair.
	FetchLastPrice(ctx context.Context, symbol string) (float64, error)

	// FetchEquity returns the account total for the given quote currency.
	FetchEquity(ctx context.Context, quote string) (float64, error)

	// PlaceMarketOrder places a market order for baseAmount of the base
	// currency. priceRef is the price the caller sized against, used by
	// backends that fill synthetically.
	PlaceMarketOrder(ctx context.Context, symbol string, side Side, baseAmount, priceRef float64) (OrderResult, error)

	Close() error
}
