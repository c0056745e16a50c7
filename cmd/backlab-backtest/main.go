// backlab-backtest runs a single strategy backtest over a bar series loaded
// from a CSV file or the Parquet store, prints the performance metrics, and
// persists the run to the SQLite run store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"backlab/internal/backtest"
	"backlab/internal/config"
	"backlab/internal/domain"
	"backlab/internal/report"
	"backlab/internal/store"
	"backlab/internal/strategy"
	"backlab/internal/strategy/builtins"
	"backlab/internal/util"
)

func main() {
	var (
		cfgPath   = flag.String("config", "config/backlab.yaml", "path to YAML config")
		csvPath   = flag.String("csv", "", "load bars from a CSV file instead of the Parquet store")
		symbol    = flag.String("symbol", "EURUSD", "instrument symbol")
		market    = flag.String("market", string(domain.MarketFX), "market the symbol belongs to")
		startStr  = flag.String("start", "2000-01-01", "start date (YYYY-MM-DD) for Parquet reads")
		endStr    = flag.String("end", time.Now().Format("2006-01-02"), "end date (YYYY-MM-DD) for Parquet reads")
		stratName = flag.String("strategy", "", "strategy name (overrides config)")
		listRuns  = flag.Int("list-runs", 0, "list the N most recent stored runs and exit")
		noSave    = flag.Bool("no-save", false, "skip persisting the run to SQLite")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level))

	ctx := context.Background()

	if *listRuns > 0 {
		if err := printRuns(ctx, cfg.Storage.SQLitePath, *listRuns); err != nil {
			log.Fatalf("listing runs: %v", err)
		}
		return
	}

	bars, err := loadBars(ctx, cfg, *csvPath, *symbol, *market, *startStr, *endStr)
	if err != nil {
		log.Fatalf("loading bars: %v", err)
	}

	registry := strategy.NewRegistry()
	builtins.Register(registry)

	name := cfg.Backtest.Strategy
	if *stratName != "" {
		name = *stratName
	}
	strat, ok := registry.New(name, cfg.Backtest.Params)
	if !ok {
		log.Fatalf("unknown strategy %q, available: %v", name, registry.List())
	}

	engine := backtest.NewEngine(bars, backtest.Config{
		InitialCash:   cfg.Backtest.InitialCash,
		Commission:    cfg.Backtest.Commission,
		Annualization: cfg.Backtest.Annualization,
	})
	res, err := engine.Run(strat)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	report.Result(os.Stdout, *symbol, len(bars), res)

	if !*noSave {
		rs, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("opening run store: %v", err)
		}
		defer rs.Close()
		runID, err := rs.SaveRun(ctx, *symbol, res)
		if err != nil {
			log.Fatalf("saving run: %v", err)
		}
		fmt.Printf("\nrun saved with id %d\n", runID)
	}
}

// loadBars reads the bar series from CSV or the Parquet store. Parquet reads
// are re-validated since files may have been written by external tooling.
func loadBars(ctx context.Context, cfg *config.Config, csvPath, symbol, market, startStr, endStr string) ([]domain.Bar, error) {
	if csvPath != "" {
		return store.ReadCSVBars(csvPath, symbol)
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}

	ps := store.NewParquetStore(cfg.Storage.DataDir)
	bars, err := ps.ReadBars(ctx, symbol, domain.Market(market), start, end.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	if err := store.ValidateBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func printRuns(ctx context.Context, dbPath string, limit int) error {
	rs, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer rs.Close()

	runs, err := rs.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	report.Runs(os.Stdout, runs)
	return nil
}
