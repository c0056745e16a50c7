package builtins

import (
	"backlab/internal/domain"
	"backlab/internal/indicator"
	"backlab/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*RSIReversion)(nil)

// RSIReversion is a mean-reversion strategy: it buys when RSI drops below the
// oversold threshold, sells short when RSI rises above the overbought
// threshold, and exits to flat when RSI crosses back through the exit level.
type RSIReversion struct {
	period     int
	oversold   float64
	overbought float64
	exitLevel  float64

	rsi []float64
}

// NewRSIReversion creates an RSIReversion strategy.
func NewRSIReversion(period int, oversold, overbought, exitLevel float64) *RSIReversion {
	return &RSIReversion{
		period:     period,
		oversold:   oversold,
		overbought: overbought,
		exitLevel:  exitLevel,
	}
}

// RSIReversionFactory builds an RSIReversion from a parameter map. Recognised
// keys: rsi_period, oversold, overbought, exit_level.
func RSIReversionFactory(params map[string]float64) strategy.Strategy {
	return NewRSIReversion(
		int(strategy.Param(params, "rsi_period", 14)),
		strategy.Param(params, "oversold", 30),
		strategy.Param(params, "overbought", 70),
		strategy.Param(params, "exit_level", 50),
	)
}

// Name returns "rsi-reversion".
func (s *RSIReversion) Name() string { return "rsi-reversion" }

// Init precomputes the RSI series for the full bar series.
func (s *RSIReversion) Init(bars []domain.Bar) error {
	s.rsi = indicator.RSI(indicator.Closes(bars), s.period)
	return nil
}

// Warmup returns the first index at which RSI is defined.
func (s *RSIReversion) Warmup() int { return s.period }

// Decide enters on threshold breaches while flat and exits when RSI returns
// through the exit level. Undefined RSI values skip the bar.
func (s *RSIReversion) Decide(i int, pos domain.Position) domain.Signal {
	if i >= len(s.rsi) || !indicator.Defined(s.rsi[i]) {
		return domain.Signal{}
	}
	rsi := s.rsi[i]

	if !pos.IsOpen() {
		if rsi < s.oversold {
			return domain.Signal{Action: domain.ActionEnterLong, Reason: "rsi oversold"}
		}
		if rsi > s.overbought {
			return domain.Signal{Action: domain.ActionEnterShort, Reason: "rsi overbought"}
		}
		return domain.Signal{}
	}

	if pos.Side == domain.SideLong && rsi > s.exitLevel {
		return domain.Signal{Action: domain.ActionClose, Reason: "rsi above exit level"}
	}
	if pos.Side == domain.SideShort && rsi < s.exitLevel {
		return domain.Signal{Action: domain.ActionClose, Reason: "rsi below exit level"}
	}
	return domain.Signal{}
}
