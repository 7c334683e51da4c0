// Package simulated implements the exchange capability set without any venue
// session. Candles are synthesized deterministically from the symbol, equity
// is a fixed stub, and orders fill instantly at the reference price with
// status SIMULATED. Nothing here ever opens a network connection, which is
// what makes simulated mode safe by construction.
package simulated

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vortex/internal/gateway/exchange"
	"vortex/internal/market"
	symbolpkg "vortex/internal/pkg/symbol"
)

// StubEquity is the deterministic account total reported when credentials are
// present but no venue is attached.
const StubEquity = 1000.0

type Venue struct {
	hasCredentials bool
	nowFn          func() time.Time

	mu     sync.Mutex
	orders int
}

func New(hasCredentials bool) *Venue {
	return &Venue{hasCredentials: hasCredentials, nowFn: time.Now}
}

func (v *Venue) Name() string { return "simulated" }

// FetchOHLCV synthesizes a candle series. The walk is a slow sine drift
// seeded by the symbol so different pairs see different but stable prices.
func (v *Venue) FetchOHLCV(_ context.Context, symbol, timeframe string, limit int) ([]market.Candle, error) {
	if !symbolpkg.IsTradable(strings.ToUpper(strings.TrimSpace(symbol))) {
		return nil, exchange.ErrSymbolUnknown
	}
	if limit <= 0 {
		limit = 100
	}
	step := timeframeDuration(timeframe)
	base := basePrice(symbol)
	end := v.nowFn().Truncate(step)
	out := make([]market.Candle, 0, limit)
	for i := limit; i > 0; i-- {
		openAt := end.Add(-time.Duration(i) * step)
		prev := syntheticPrice(base, openAt.Add(-step).Unix())
		close := syntheticPrice(base, openAt.Unix())
		high := math.Max(prev, close) * 1.001
		low := math.Min(prev, close) * 0.999
		out = append(out, market.Candle{
			OpenTime:  openAt.UnixMilli(),
			CloseTime: openAt.Add(step).UnixMilli() - 1,
			Open:      prev,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    base / 10,
		})
	}
	return out, nil
}

func (v *Venue) FetchLastPrice(_ context.Context, symbol string) (float64, error) {
	if !symbolpkg.IsTradable(strings.ToUpper(strings.TrimSpace(symbol))) {
		return 0, exchange.ErrSymbolUnknown
	}
	return syntheticPrice(basePrice(symbol), v.nowFn().Unix()), nil
}

func (v *Venue) FetchEquity(_ context.Context, _ string) (float64, error) {
	if !v.hasCredentials {
		return 0, nil
	}
	return StubEquity, nil
}

func (v *Venue) PlaceMarketOrder(_ context.Context, symbol string, side exchange.Side, baseAmount, priceRef float64) (exchange.OrderResult, error) {
	price := priceRef
	if price <= 0 {
		price = syntheticPrice(basePrice(symbol), v.nowFn().Unix())
	}
	v.mu.Lock()
	v.orders++
	v.mu.Unlock()
	return exchange.OrderResult{
		ID:     uuid.NewString(),
		Symbol: symbol,
		Side:   side,
		Type:   exchange.TypeMarket,
		Amount: baseAmount,
		Price:  price,
		Status: exchange.StatusSimulated,
	}, nil
}

// Orders returns how many synthetic fills were produced.
func (v *Venue) Orders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orders
}

func (v *Venue) Close() error { return nil }

func basePrice(symbol string) float64 {
	h := fnv.New32a()
	fmt.Fprint(h, symbolpkg.Parse(symbol).Base)
	// Spread bases over [100, 51300) so BTC-like and DOGE-like pairs both
	// exist in the synthetic universe.
	return 100 + float64(h.Sum32()%512)*100
}

func syntheticPrice(base float64, unix int64) float64 {
	phase := float64(unix%86400) / 86400 * 2 * math.Pi
	return base * (1 + 0.02*math.Sin(phase))
}

func timeframeDuration(tf string) time.Duration {
	tf = strings.ToLower(strings.TrimSpace(tf))
	if tf == "" {
		return time.Hour
	}
	unit := tf[len(tf)-1]
	n := 0
	fmt.Sscanf(tf[:len(tf)-1], "%d", &n)
	if n <= 0 {
		n = 1
	}
	switch unit {
	case 'm':
		return time.Duration(n) * time.Minute
	case 'h':
		return time.Duration(n) * time.Hour
	case 'd':
		return time.Duration(n) * 24 * time.Hour
	default:
		return time.Hour
	}
}
