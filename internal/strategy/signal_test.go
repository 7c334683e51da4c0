package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vortex/internal/market"
)

func series(closes ...float64) []market.Candle {
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{
			OpenTime:  int64(i) * 60_000,
			CloseTime: int64(i+1)*60_000 - 1,
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1,
		}
	}
	return out
}

func flat(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestCrossoverInsufficientData(t *testing.T) {
	assert.Equal(t, SignalNeutral, Crossover(nil))
	assert.Equal(t, SignalNeutral, Crossover(series(flat(10, 100)...)))
	assert.Equal(t, SignalNeutral, Crossover(series(flat(49, 100)...)))
	assert.Equal(t, SignalNeutral, Crossover(series(flat(50, 100)...)))
}

func TestCrossoverGoldenCross(t *testing.T) {
	// 59 flat candles, then a spike: SMA20 jumps above SMA50 at the final
	// row while the previous rows were tied.
	closes := append(flat(59, 100), 200)
	assert.Equal(t, SignalBuy, Crossover(series(closes...)))
}

func TestCrossoverDeathCross(t *testing.T) {
	closes := append(flat(59, 100), 10)
	assert.Equal(t, SignalSell, Crossover(series(closes...)))
}

func TestCrossoverFlatIsNeutral(t *testing.T) {
	assert.Equal(t, SignalNeutral, Crossover(series(flat(60, 100)...)))
}

func TestCrossoverNoRefire(t *testing.T) {
	// One pulse after the golden cross the short SMA is already above the
	// long one; without a fresh crossing no signal fires.
	closes := append(flat(58, 100), 200, 200)
	assert.Equal(t, SignalNeutral, Crossover(series(closes...)))
}

func TestCrossoverExclusive(t *testing.T) {
	// Arbitrary wavy data never yields both directions at once; the switch
	// makes that structural, this guards the strict-inequality tie break.
	closes := flat(60, 100)
	for i := range closes {
		closes[i] += float64(i%7) - 3
	}
	sig := Crossover(series(closes...))
	assert.Contains(t, []Signal{SignalBuy, SignalSell, SignalNeutral}, sig)
}
