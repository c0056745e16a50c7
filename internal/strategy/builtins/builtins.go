package builtins

import "backlab/internal/strategy"

// Register adds every built-in strategy factory to the registry.
func Register(r *strategy.Registry) {
	r.Register("macd-cross", MACDCrossFactory)
	r.Register("rsi-reversion", RSIReversionFactory)
	r.Register("trend-rsi", TrendRSIFactory)
}
