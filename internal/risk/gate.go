// Package risk converts (equity, aggression, policy) into an accepted order
// notional or a rejection. All clamp arithmetic runs on decimals so the
// boundary cases (notional exactly at a limit) resolve exactly.
package risk

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"vortex/internal/config"
	"vortex/internal/pkg/symbol"
)

// HardNotionalCap bounds any single order in quote currency, independent of
// configured policy.
const HardNotionalCap = 10000.0

// aggressionSteps maps aggression 0..10 onto 11 safety factors 1/11..11/11.
// Aggression 0 still yields ~9% of the cap so sandbox smoke tests can fire.
const aggressionSteps = 11

// EffectiveCeiling is the safety-adjusted per-order limit:
// maxNotional * (aggression+1)/11.
func EffectiveCeiling(maxNotional float64, aggression int) float64 {
	if aggression < 0 {
		aggression = 0
	}
	if aggression > 10 {
		aggression = 10
	}
	factor := decimal.NewFromInt(int64(aggression + 1)).
		Div(decimal.NewFromInt(aggressionSteps))
	ceiling, _ := decimal.NewFromFloat(maxNotional).Mul(factor).Float64()
	return ceiling
}

// SizedNotional targets equity*fraction, clamped to [floor, ceiling]. Zero
// equity sizes at the floor regardless of mode.
func SizedNotional(equity float64, t config.TradingConfig) float64 {
	if equity <= 0 {
		return t.PositionFloor
	}
	target := decimal.NewFromFloat(equity).Mul(decimal.NewFromFloat(t.PositionFraction))
	floor := decimal.NewFromFloat(t.PositionFloor)
	ceiling := decimal.NewFromFloat(t.PositionCeiling)
	if target.LessThan(floor) {
		target = floor
	}
	if target.GreaterThan(ceiling) {
		target = ceiling
	}
	out, _ := target.Float64()
	return out
}

// Gate validates a candidate order against the hard sanity bounds, the
// safety-adjusted ceiling, and the symbol pattern. A nil return means the
// notional passes through unchanged.
func Gate(sym string, notional float64, t config.TradingConfig) error {
	if notional <= 0 || math.IsNaN(notional) || math.IsInf(notional, 0) {
		return fmt.Errorf("notional must be a positive finite number, got %v", notional)
	}
	if notional > HardNotionalCap {
		return fmt.Errorf("notional %.2f exceeds hard cap %.2f", notional, HardNotionalCap)
	}
	ceiling := EffectiveCeiling(t.MaxNotional, t.Aggression)
	if decimal.NewFromFloat(notional).GreaterThan(decimal.NewFromFloat(ceiling)) {
		return fmt.Errorf("notional %.2f exceeds safety-adjusted limit %.2f (aggression=%d)",
			notional, ceiling, t.Aggression)
	}
	if !symbol.IsTradable(sym) {
		return fmt.Errorf("symbol %q is not a tradable BASE/USDT pair", sym)
	}
	return nil
}
