// Package strategy turns a candle window into a categorical trade signal.
// The producer is a plain SMA 20/50 crossover: deterministic, stateless, and
// cheap enough to recompute on every pulse.
package strategy

import (
	talib "github.com/markcheno/go-talib"

	"vortex/internal/market"
)

type Signal string

const (
	SignalBuy     Signal = "BUY"
	SignalSell    Signal = "SELL"
	SignalNeutral Signal = "NEUTRAL"
)

const (
	shortPeriod = 20
	longPeriod  = 50
)

// Crossover returns BUY on an upward SMA20/SMA50 crossing at the last candle,
// SELL on a downward crossing, NEUTRAL otherwise. The crossing test compares
// the last two rows, so the window must cover longPeriod+1 candles; shorter
// windows are insufficient data and yield NEUTRAL. Strict inequality on the
// last row guarantees at most one of BUY/SELL fires per window.
func Crossover(candles []market.Candle) Signal {
	if len(candles) < longPeriod+1 {
		return SignalNeutral
	}
	closes := market.Closes(candles)
	short := talib.Sma(closes, shortPeriod)
	long := talib.Sma(closes, longPeriod)

	n := len(closes)
	shortPrev, shortLast := short[n-2], short[n-1]
	longPrev, longLast := long[n-2], long[n-1]

	switch {
	case shortPrev <= longPrev && shortLast > longLast:
		return SignalBuy
	case shortPrev >= longPrev && shortLast < longLast:
		return SignalSell
	default:
		return SignalNeutral
	}
}
