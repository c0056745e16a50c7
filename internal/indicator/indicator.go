// Package indicator provides pure technical-indicator functions over price
// series. Every function returns a series aligned with its input; entries
// before the indicator's warm-up window are NaN and must be checked with
// Defined before use.
package indicator

import (
	"math"

	"backlab/internal/domain"
)

// Defined reports whether an indicator value is usable at a given bar.
// Undefined (warm-up) entries are NaN.
func Defined(v float64) bool { return !math.IsNaN(v) }

// undefinedPrefix fills out[:n] with NaN.
func undefinedPrefix(out []float64, n int) {
	for i := 0; i < n && i < len(out); i++ {
		out[i] = math.NaN()
	}
}

// EMA computes the exponential moving average with alpha = 2/(n+1). The
// series is seeded with the first input value, so it is defined from index 0
// with no warm-up gap. Input NaNs (e.g. an EMA of another indicator) delay
// the seed until the first defined value.
func EMA(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	alpha := 2.0 / (float64(n) + 1)

	seeded := false
	var prev float64
	for i, v := range values {
		if !seeded {
			out[i] = v
			if Defined(v) {
				seeded = true
				prev = v
			}
			continue
		}
		prev = alpha*v + (1-alpha)*prev
		out[i] = prev
	}
	return out
}

// RSI computes the relative strength index over window n using simple (not
// exponentially weighted) rolling means of gains and losses. Values are
// undefined until n price changes have been observed, i.e. out[i] is NaN for
// i < n. A zero average loss yields RSI = 100.
func RSI(closes []float64, n int) []float64 {
	out := make([]float64, len(closes))
	undefinedPrefix(out, len(out))
	if n < 1 || len(closes) <= n {
		return out
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	var sumG, sumL float64
	for i := 1; i < len(closes); i++ {
		sumG += gains[i]
		sumL += losses[i]
		if i > n {
			sumG -= gains[i-n]
			sumL -= losses[i-n]
		}
		if i < n {
			continue
		}
		avgG := sumG / float64(n)
		avgL := sumL / float64(n)
		if avgL == 0 {
			// Pure uptrend (or a flat window): no losses means maximum
			// strength, never a division fault.
			if avgG == 0 {
				out[i] = math.NaN()
			} else {
				out[i] = 100
			}
			continue
		}
		rs := avgG / avgL
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// ATR computes the average true range over window n as a simple rolling mean
// of the true range. out[i] is NaN for i < n.
func ATR(bars []domain.Bar, n int) []float64 {
	out := make([]float64, len(bars))
	undefinedPrefix(out, len(out))
	if n < 1 || len(bars) <= n {
		return out
	}

	tr := make([]float64, len(bars))
	for i := range bars {
		if i == 0 {
			tr[i] = bars[i].High - bars[i].Low
			continue
		}
		prevClose := bars[i-1].Close
		tr[i] = max3(
			bars[i].High-bars[i].Low,
			math.Abs(bars[i].High-prevClose),
			math.Abs(bars[i].Low-prevClose),
		)
	}

	var sum float64
	for i := range tr {
		sum += tr[i]
		if i >= n {
			sum -= tr[i-n]
		}
		if i >= n {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// MACD computes the MACD line (EMA(fast) − EMA(slow)) and its signal line
// (EMA of the MACD line over signalPeriod). Both series are defined from
// index 0, matching the smoothing-based EMA definition.
func MACD(closes []float64, fast, slow, signalPeriod int) (macd, signal []float64) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signal = EMA(macd, signalPeriod)
	return macd, signal
}

// CrossAbove reports whether series a crossed above series b at index i,
// comparing exactly the (i-1, i) pair. Any undefined value involved means no
// decision.
func CrossAbove(a, b []float64, i int) bool {
	if i < 1 || i >= len(a) || i >= len(b) {
		return false
	}
	if !Defined(a[i-1]) || !Defined(b[i-1]) || !Defined(a[i]) || !Defined(b[i]) {
		return false
	}
	return a[i-1] <= b[i-1] && a[i] > b[i]
}

// CrossBelow reports whether series a crossed below series b at index i.
func CrossBelow(a, b []float64, i int) bool {
	if i < 1 || i >= len(a) || i >= len(b) {
		return false
	}
	if !Defined(a[i-1]) || !Defined(b[i-1]) || !Defined(a[i]) || !Defined(b[i]) {
		return false
	}
	return a[i-1] >= b[i-1] && a[i] < b[i]
}

// CrossAboveLevel reports whether series a crossed above a constant level at
// index i.
func CrossAboveLevel(a []float64, level float64, i int) bool {
	if i < 1 || i >= len(a) || !Defined(a[i-1]) || !Defined(a[i]) {
		return false
	}
	return a[i-1] <= level && a[i] > level
}

// CrossBelowLevel reports whether series a crossed below a constant level at
// index i.
func CrossBelowLevel(a []float64, level float64, i int) bool {
	if i < 1 || i >= len(a) || !Defined(a[i-1]) || !Defined(a[i]) {
		return false
	}
	return a[i-1] >= level && a[i] < level
}

// Closes extracts the close series from a bar slice.
func Closes(bars []domain.Bar) []float64 {
	out := make([]float64, len(bars))
	for i := range bars {
		out[i] = bars[i].Close
	}
	return out
}

func max3(a, b, c float64) float64 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
