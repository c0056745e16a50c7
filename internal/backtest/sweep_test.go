package backtest

import (
	"testing"

	"backlab/internal/domain"
	"backlab/internal/strategy"
)

func TestSweepRunsEveryParamSet(t *testing.T) {
	bars := flatBars(10, 11, 12, 13, 14, 15, 16, 17)
	grid := []ParamSet{
		{"entry": 1},
		{"entry": 2},
		{"entry": 3},
	}
	factory := func(params map[string]float64) strategy.Strategy {
		entry := int(params["entry"])
		return &scriptStrategy{signals: map[int]domain.Signal{
			entry: sig(domain.ActionEnterLong),
			6:     sig(domain.ActionClose),
		}}
	}

	runs := Sweep(bars, Config{InitialCash: 1000}, factory, grid, 2)

	if len(runs) != len(grid) {
		t.Fatalf("got %d runs, want %d", len(runs), len(grid))
	}
	for i, r := range runs {
		if r.Err != nil {
			t.Fatalf("run %d failed: %v", i, r.Err)
		}
		// Results come back in grid order.
		if r.Params["entry"] != grid[i]["entry"] {
			t.Errorf("run %d params = %v, want %v", i, r.Params, grid[i])
		}
		if len(r.Result.Trades) != 1 {
			t.Errorf("run %d closed %d trades, want 1", i, len(r.Result.Trades))
		}
	}

	// Earlier entry into a rising market earns more: entry=1 wins.
	best := BestBySharpe(runs)
	if best == nil {
		t.Fatal("BestBySharpe returned nil")
	}
	if best.Params["entry"] != 1 {
		t.Errorf("best params = %v, want entry=1", best.Params)
	}
}

func TestBestBySharpeAllFailed(t *testing.T) {
	runs := []SweepRun{
		{Err: ErrDataInsufficient},
		{Err: ErrDataInsufficient},
	}
	if best := BestBySharpe(runs); best != nil {
		t.Errorf("BestBySharpe = %v, want nil when every run failed", best)
	}
}
