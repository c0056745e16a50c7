package builtins

import (
	"log/slog"

	"backlab/internal/domain"
	"backlab/internal/indicator"
	"backlab/internal/strategy"
)

// Compile-time interface check.
var _ strategy.Strategy = (*TrendRSI)(nil)

// TrendRSI combines RSI mean-reversion entries with a long-period EMA trend
// filter and an ATR-derived protective stop. Longs are taken only when price
// is above the trend EMA and RSI is oversold, with the stop k·ATR below the
// close; shorts mirror that. Exits trigger when RSI crosses the exit level.
type TrendRSI struct {
	rsiPeriod  int
	emaPeriod  int
	atrPeriod  int
	oversold   float64
	overbought float64
	exitLevel  float64
	stopMult   float64

	rsi []float64
	ema []float64
	atr []float64

	closes []float64
	log    *slog.Logger
}

// NewTrendRSI creates a TrendRSI strategy.
func NewTrendRSI(rsiPeriod, emaPeriod, atrPeriod int, oversold, overbought, exitLevel, stopMult float64) *TrendRSI {
	return &TrendRSI{
		rsiPeriod:  rsiPeriod,
		emaPeriod:  emaPeriod,
		atrPeriod:  atrPeriod,
		oversold:   oversold,
		overbought: overbought,
		exitLevel:  exitLevel,
		stopMult:   stopMult,
		log:        slog.Default().With("strategy", "trend-rsi"),
	}
}

// TrendRSIFactory builds a TrendRSI from a parameter map. Recognised keys:
// rsi_period, ema_period, atr_period, oversold, overbought, exit_level,
// stop_atr_mult.
func TrendRSIFactory(params map[string]float64) strategy.Strategy {
	return NewTrendRSI(
		int(strategy.Param(params, "rsi_period", 14)),
		int(strategy.Param(params, "ema_period", 200)),
		int(strategy.Param(params, "atr_period", 14)),
		strategy.Param(params, "oversold", 30),
		strategy.Param(params, "overbought", 70),
		strategy.Param(params, "exit_level", 50),
		strategy.Param(params, "stop_atr_mult", 2.0),
	)
}

// Name returns "trend-rsi".
func (s *TrendRSI) Name() string { return "trend-rsi" }

// Init precomputes the RSI, trend EMA, and ATR series.
func (s *TrendRSI) Init(bars []domain.Bar) error {
	s.closes = indicator.Closes(bars)
	s.rsi = indicator.RSI(s.closes, s.rsiPeriod)
	s.ema = indicator.EMA(s.closes, s.emaPeriod)
	s.atr = indicator.ATR(bars, s.atrPeriod)
	return nil
}

// Warmup returns the largest warm-up window across the registered indicators.
func (s *TrendRSI) Warmup() int {
	w := s.rsiPeriod
	if s.emaPeriod > w {
		w = s.emaPeriod
	}
	if s.atrPeriod > w {
		w = s.atrPeriod
	}
	return w
}

// Decide applies the trend filter to RSI entries and attaches an ATR stop.
// A computed stop on the wrong side of the entry price suppresses the order
// with a diagnostic rather than failing the run.
func (s *TrendRSI) Decide(i int, pos domain.Position) domain.Signal {
	if i >= len(s.rsi) {
		return domain.Signal{}
	}
	rsi, ema, atr := s.rsi[i], s.ema[i], s.atr[i]
	if !indicator.Defined(rsi) || !indicator.Defined(ema) || !indicator.Defined(atr) || atr <= 0 {
		return domain.Signal{}
	}
	price := s.closes[i]

	if !pos.IsOpen() {
		switch {
		case price > ema && rsi < s.oversold:
			stop := price - s.stopMult*atr
			if stop >= price {
				s.log.Warn("rejecting non-protective long stop", "stop", stop, "price", price)
				return domain.Signal{}
			}
			return domain.Signal{Action: domain.ActionEnterLong, StopLoss: &stop, Reason: "uptrend oversold"}
		case price < ema && rsi > s.overbought:
			stop := price + s.stopMult*atr
			if stop <= price {
				s.log.Warn("rejecting non-protective short stop", "stop", stop, "price", price)
				return domain.Signal{}
			}
			return domain.Signal{Action: domain.ActionEnterShort, StopLoss: &stop, Reason: "downtrend overbought"}
		}
		return domain.Signal{}
	}

	if pos.Side == domain.SideLong && indicator.CrossAboveLevel(s.rsi, s.exitLevel, i) {
		return domain.Signal{Action: domain.ActionClose, Reason: "rsi crossed above exit level"}
	}
	if pos.Side == domain.SideShort && indicator.CrossBelowLevel(s.rsi, s.exitLevel, i) {
		return domain.Signal{Action: domain.ActionClose, Reason: "rsi crossed below exit level"}
	}
	return domain.Signal{}
}
