// Package report renders backtest results, stored run listings, and sweep
// summaries as plain-text tables for the command-line tools.
package report

import (
	"fmt"
	"io"
	"sort"

	"backlab/internal/backtest"
	"backlab/internal/store"
)

// Result writes the metric block for a completed backtest. Metric labels
// follow the conventional backtest report layout.
func Result(w io.Writer, symbol string, barCount int, res *backtest.Result) {
	m := res.Metrics
	fmt.Fprintf(w, "Backtest Results: %s on %s (%s bars)\n", res.Strategy, symbol, FormatInt(barCount))
	fmt.Fprintf(w, "  Win Rate [%%]        %10.2f\n", m.WinRate)
	fmt.Fprintf(w, "  Sharpe Ratio        %10.4f\n", m.Sharpe)
	fmt.Fprintf(w, "  Sortino Ratio       %10.4f\n", m.Sortino)
	fmt.Fprintf(w, "  Max. Drawdown [%%]   %10.2f\n", m.MaxDrawdown)
	fmt.Fprintf(w, "  Calmar Ratio        %10.4f\n", m.Calmar)
	fmt.Fprintf(w, "  Return [%%]          %10.2f\n", m.Return)
	fmt.Fprintf(w, "  Trades              %10d\n", m.TotalTrades)
	if res.FinalPosition.IsOpen() {
		fmt.Fprintf(w, "  Open position at end: %s from %.5f (marked to market, not closed)\n",
			res.FinalPosition.Side, res.FinalPosition.EntryPrice)
	}
}

// Runs writes a table of stored run records, one per line.
func Runs(w io.Writer, runs []store.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no stored runs")
		return
	}
	fmt.Fprintf(w, "%-5s %-10s %-15s %-20s %8s %8s %8s\n",
		"ID", "SYMBOL", "STRATEGY", "CREATED", "RET[%]", "SHARPE", "TRADES")
	for _, r := range runs {
		fmt.Fprintf(w, "%-5d %-10s %-15s %-20s %8.2f %8.4f %8d\n",
			r.ID, r.Symbol, r.Strategy, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Return, r.Sharpe, r.TotalTrades)
	}
}

// Sweep writes the sweep table sorted by Sharpe, failed runs first as
// diagnostics, then the winning parameter set.
func Sweep(w io.Writer, runs []backtest.SweepRun) {
	sorted := make([]backtest.SweepRun, 0, len(runs))
	for _, r := range runs {
		if r.Err == nil {
			sorted = append(sorted, r)
		} else {
			fmt.Fprintf(w, "run %v failed: %v\n", r.Params, r.Err)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Result.Metrics.Sharpe > sorted[j].Result.Metrics.Sharpe
	})

	fmt.Fprintf(w, "%-40s %8s %8s %8s %8s\n", "PARAMS", "SHARPE", "RET[%]", "MAXDD[%]", "TRADES")
	for _, r := range sorted {
		m := r.Result.Metrics
		fmt.Fprintf(w, "%-40v %8.4f %8.2f %8.2f %8d\n", r.Params, m.Sharpe, m.Return, m.MaxDrawdown, m.TotalTrades)
	}

	if best := backtest.BestBySharpe(runs); best != nil {
		fmt.Fprintf(w, "\nbest by Sharpe: %v (%.4f)\n", best.Params, best.Result.Metrics.Sharpe)
	}
}
