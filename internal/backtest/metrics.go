package backtest

import (
	"math"

	"backlab/internal/domain"
)

// Metrics is the summary performance record of one backtest run. Ratios that
// are mathematically undefined (zero variance, zero drawdown, no trades) are
// reported as 0 rather than NaN.
type Metrics struct {
	WinRate     float64 // closed trades with positive profit, percent [0,100]
	Return      float64 // (final equity / initial cash - 1) * 100
	Sharpe      float64 // annualized mean/stddev of per-bar returns
	Sortino     float64 // like Sharpe but over downside deviation only
	MaxDrawdown float64 // worst peak-to-trough equity decline, percent <= 0
	Calmar      float64 // annualized return / |max drawdown|
	TotalTrades int
}

// ComputeMetrics derives summary metrics from the equity curve and the
// realized trade log. annualization is the number of bars per year.
func ComputeMetrics(initialCash float64, equity []domain.EquityPoint, trades []domain.Trade, annualization float64) Metrics {
	m := Metrics{TotalTrades: len(trades)}

	if len(trades) > 0 {
		wins := 0
		for _, t := range trades {
			if t.Profit > 0 {
				wins++
			}
		}
		m.WinRate = float64(wins) / float64(len(trades)) * 100
	}

	if len(equity) == 0 || initialCash <= 0 {
		return m
	}
	final := equity[len(equity)-1].Equity
	m.Return = (final/initialCash - 1) * 100

	returns := barReturns(equity)
	mean := meanOf(returns)
	if sd := stddevOf(returns, mean); sd > 0 {
		m.Sharpe = mean / sd * math.Sqrt(annualization)
	}
	if dd := downsideDeviation(returns); dd > 0 {
		m.Sortino = mean / dd * math.Sqrt(annualization)
	}

	m.MaxDrawdown = maxDrawdown(equity)

	if m.MaxDrawdown < 0 && final > 0 {
		years := float64(len(equity)) / annualization
		annualized := (math.Pow(final/initialCash, 1/years) - 1) * 100
		m.Calmar = annualized / math.Abs(m.MaxDrawdown)
	}
	return m
}

// barReturns computes per-bar simple returns of the equity curve.
func barReturns(equity []domain.EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	out := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, equity[i].Equity/prev-1)
	}
	return out
}

// maxDrawdown returns the maximum peak-to-trough decline as a negative
// percentage, or 0 for a non-decreasing curve.
func maxDrawdown(equity []domain.EquityPoint) float64 {
	var dd float64
	peak := equity[0].Equity
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		if d := (p.Equity - peak) / peak * 100; d < dd {
			dd = d
		}
	}
	return dd
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddevOf(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// downsideDeviation is the root mean square of negative returns only.
func downsideDeviation(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		if x < 0 {
			ss += x * x
		}
	}
	return math.Sqrt(ss / float64(len(xs)))
}
