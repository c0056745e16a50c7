// backlab-fetch downloads daily OHLCV bars from the Alpaca market-data API
// into the Parquet bar store.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"backlab/internal/config"
	"backlab/internal/domain"
	"backlab/internal/fetch"
	"backlab/internal/store"
	"backlab/internal/util"
)

func main() {
	var (
		cfgPath     = flag.String("config", "config/backlab.yaml", "path to YAML config")
		symbols     = flag.String("symbols", "", "comma-separated symbols (overrides config)")
		symbolsFile = flag.String("symbols-file", "", "CSV file with a symbol column (overrides config)")
		start       = flag.String("start", "", "start date YYYY-MM-DD (overrides config)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level))

	list := cfg.Fetch.Symbols
	if *symbolsFile != "" {
		list, err = fetch.LoadSymbolsCSV(*symbolsFile)
		if err != nil {
			log.Fatalf("loading symbols file: %v", err)
		}
	}
	if *symbols != "" {
		list = strings.Split(*symbols, ",")
	}
	if len(list) == 0 {
		log.Fatal("no symbols configured; set fetch.symbols, -symbols, or -symbols-file")
	}

	startDate := cfg.Fetch.StartDate
	if *start != "" {
		startDate = *start
	}
	from, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		log.Fatalf("parsing start date %q: %v", startDate, err)
	}

	if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
		log.Fatal("Alpaca credentials missing; set APCA_API_KEY_ID / APCA_API_SECRET_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fetcher := fetch.NewDailyBarFetcher(
		cfg.Alpaca.APIKey,
		cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL,
		store.NewParquetStore(cfg.Storage.DataDir),
		fetch.NewUniverseWriter(cfg.Storage.DataDir, domain.MarketUS),
		list,
		from,
		cfg.Fetch.MaxWorkers,
	)
	if err := fetcher.Run(ctx); err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
}
