// backlab-sweep backtests one strategy over a grid of parameter sets on
// parallel workers and reports the best set by Sharpe ratio.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"backlab/internal/backtest"
	"backlab/internal/config"
	"backlab/internal/report"
	"backlab/internal/store"
	"backlab/internal/strategy"
	"backlab/internal/strategy/builtins"
	"backlab/internal/util"
)

func main() {
	var (
		cfgPath   = flag.String("config", "config/backlab.yaml", "path to YAML config")
		csvPath   = flag.String("csv", "", "CSV file with the bar series")
		symbol    = flag.String("symbol", "EURUSD", "instrument symbol")
		stratName = flag.String("strategy", "rsi-reversion", "strategy to sweep")
		workers   = flag.Int("workers", 4, "parallel backtest workers")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level))

	if *csvPath == "" {
		log.Fatal("-csv is required")
	}
	bars, err := store.ReadCSVBars(*csvPath, *symbol)
	if err != nil {
		log.Fatalf("loading bars: %v", err)
	}

	registry := strategy.NewRegistry()
	builtins.Register(registry)
	factory, grid, err := sweepPlan(registry, *stratName)
	if err != nil {
		log.Fatal(err)
	}

	runs := backtest.Sweep(bars, backtest.Config{
		InitialCash:   cfg.Backtest.InitialCash,
		Commission:    cfg.Backtest.Commission,
		Annualization: cfg.Backtest.Annualization,
	}, factory, grid, *workers)

	report.Sweep(os.Stdout, runs)
}

// sweepPlan returns the factory and parameter grid for the named strategy.
func sweepPlan(registry *strategy.Registry, name string) (strategy.Factory, []backtest.ParamSet, error) {
	factory := func(params map[string]float64) strategy.Strategy {
		s, _ := registry.New(name, params)
		return s
	}
	if _, ok := registry.New(name, nil); !ok {
		return nil, nil, fmt.Errorf("unknown strategy %q, available: %v", name, registry.List())
	}

	var grid []backtest.ParamSet
	switch name {
	case "rsi-reversion":
		for _, period := range []float64{7, 10, 14, 21} {
			for _, oversold := range []float64{20, 25, 30} {
				grid = append(grid, backtest.ParamSet{
					"rsi_period": period,
					"oversold":   oversold,
					"overbought": 100 - oversold,
				})
			}
		}
	case "macd-cross":
		for _, fast := range []float64{8, 12, 16} {
			for _, slow := range []float64{21, 26, 34} {
				grid = append(grid, backtest.ParamSet{
					"fast_period": fast,
					"slow_period": slow,
				})
			}
		}
	case "trend-rsi":
		for _, ema := range []float64{100, 150, 200} {
			for _, mult := range []float64{1.5, 2.0, 3.0} {
				grid = append(grid, backtest.ParamSet{
					"ema_period":    ema,
					"stop_atr_mult": mult,
				})
			}
		}
	default:
		return nil, nil, fmt.Errorf("no sweep grid defined for strategy %q", name)
	}
	return factory, grid, nil
}
