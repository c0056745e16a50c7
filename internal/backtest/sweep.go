package backtest

import (
	"sync"

	"backlab/internal/domain"
	"backlab/internal/strategy"
)

// ParamSet is one point of a parameter grid.
type ParamSet map[string]float64

// SweepRun pairs a parameter set with the result of its backtest run.
type SweepRun struct {
	Params ParamSet
	Result *Result
	Err    error
}

// Sweep backtests the same strategy over every parameter set in the grid,
// running up to maxWorkers goroutines in parallel. Each run owns a fresh
// strategy instance and simulation state; the bar slice is shared read-only.
// Results are returned in grid order.
func Sweep(bars []domain.Bar, cfg Config, factory strategy.Factory, grid []ParamSet, maxWorkers int) []SweepRun {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	runs := make([]SweepRun, len(grid))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				res, err := NewEngine(bars, cfg).Run(factory(grid[idx]))
				runs[idx] = SweepRun{Params: grid[idx], Result: res, Err: err}
			}
		}()
	}
	for idx := range grid {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	return runs
}

// BestBySharpe returns the successful run with the highest Sharpe ratio, or
// nil when every run failed.
func BestBySharpe(runs []SweepRun) *SweepRun {
	var best *SweepRun
	for i := range runs {
		r := &runs[i]
		if r.Err != nil {
			continue
		}
		if best == nil || r.Result.Metrics.Sharpe > best.Result.Metrics.Sharpe {
			best = r
		}
	}
	return best
}
