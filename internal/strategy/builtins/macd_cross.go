// Package builtins provides built-in strategy implementations that ship with
// the backlab platform.
package builtins

import (
	"backlab/internal/domain"
	"backlab/internal/indicator"
	"backlab/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*MACDCross)(nil)

// MACDCross trades MACD/signal-line crossovers. It enters long when the MACD
// line crosses above the signal line while flat, enters short on a cross
// below while flat, and closes an open position on the opposite cross.
type MACDCross struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int

	macd   []float64
	signal []float64
}

// NewMACDCross creates a MACDCross strategy with the given EMA periods.
func NewMACDCross(fast, slow, signalPeriod int) *MACDCross {
	return &MACDCross{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signalPeriod,
	}
}

// MACDCrossFactory builds a MACDCross from a parameter map. Recognised keys:
// fast_period, slow_period, signal_period.
func MACDCrossFactory(params map[string]float64) strategy.Strategy {
	return NewMACDCross(
		int(strategy.Param(params, "fast_period", 12)),
		int(strategy.Param(params, "slow_period", 26)),
		int(strategy.Param(params, "signal_period", 9)),
	)
}

// Name returns "macd-cross".
func (s *MACDCross) Name() string { return "macd-cross" }

// Init precomputes the MACD and signal lines for the full bar series.
func (s *MACDCross) Init(bars []domain.Bar) error {
	s.macd, s.signal = indicator.MACD(indicator.Closes(bars), s.fastPeriod, s.slowPeriod, s.signalPeriod)
	return nil
}

// Warmup returns 2: crossover detection needs the immediately prior pair of
// indicator values.
func (s *MACDCross) Warmup() int { return 2 }

// Decide emits entries on crossovers while flat and exits on the opposite
// crossover while positioned.
func (s *MACDCross) Decide(i int, pos domain.Position) domain.Signal {
	crossedAbove := indicator.CrossAbove(s.macd, s.signal, i)
	crossedBelow := indicator.CrossBelow(s.macd, s.signal, i)

	switch {
	case !pos.IsOpen() && crossedAbove:
		return domain.Signal{Action: domain.ActionEnterLong, Reason: "macd cross up"}
	case !pos.IsOpen() && crossedBelow:
		return domain.Signal{Action: domain.ActionEnterShort, Reason: "macd cross down"}
	case pos.Side == domain.SideLong && crossedBelow:
		return domain.Signal{Action: domain.ActionClose, Reason: "macd cross down"}
	case pos.Side == domain.SideShort && crossedAbove:
		return domain.Signal{Action: domain.ActionClose, Reason: "macd cross up"}
	}
	return domain.Signal{}
}
