// Package fetch downloads historical OHLCV bars from the Alpaca market-data
// API into the bar store, so backtests can run against real data.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"backlab/internal/domain"
	"backlab/internal/store"
	"backlab/internal/util"
)

// DailyBarFetcher fetches daily bars for a fixed symbol list via the Alpaca
// market-data API and writes them to the bar store.
type DailyBarFetcher struct {
	client     *marketdata.Client
	store      store.BarStore
	universe   *UniverseWriter
	symbols    []string
	start      time.Time
	maxWorkers int
	limiter    *util.RateLimiter
	log        *slog.Logger
}

// NewDailyBarFetcher creates a DailyBarFetcher configured with the given
// Alpaca credentials, target store, and symbol list. When universe is non-nil
// the fetcher also records per-day symbol universe files.
func NewDailyBarFetcher(apiKey, apiSecret, dataURL string, s store.BarStore, universe *UniverseWriter, symbols []string, start time.Time, maxWorkers int) *DailyBarFetcher {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	return &DailyBarFetcher{
		client:     marketdata.NewClient(opts),
		store:      s,
		universe:   universe,
		symbols:    symbols,
		start:      start,
		maxWorkers: maxWorkers,
		limiter:    util.NewRateLimiter(200),
		log:        slog.Default().With("fetcher", "alpaca-daily"),
	}
}

// Run fetches daily bars for every configured symbol and writes them to the
// store. Symbols are fetched on maxWorkers goroutines; each symbol is retried
// with backoff on transient API errors. The first error is returned after all
// workers finish.
func (f *DailyBarFetcher) Run(ctx context.Context) error {
	end := time.Now().UTC().Truncate(24 * time.Hour)

	jobs := make(chan string)
	errs := make(chan error, len(f.symbols))

	var wg sync.WaitGroup
	for w := 0; w < f.maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				if err := f.fetchSymbol(ctx, symbol, end); err != nil {
					f.log.Error("fetch failed", "symbol", symbol, "error", err)
					errs <- err
				}
			}
		}()
	}
	for _, symbol := range f.symbols {
		jobs <- symbol
	}
	close(jobs)
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return err
	}
	if f.universe != nil {
		if err := f.universe.Finalize(); err != nil {
			return fmt.Errorf("finalizing universe: %w", err)
		}
	}
	return nil
}

// fetchSymbol downloads one symbol's daily bars and persists them.
func (f *DailyBarFetcher) fetchSymbol(ctx context.Context, symbol string, end time.Time) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	var alpacaBars []marketdata.Bar
	err := util.Retry(ctx, 3, time.Second, func() error {
		var err error
		alpacaBars, err = f.client.GetBars(symbol, marketdata.GetBarsRequest{
			TimeFrame: marketdata.OneDay,
			Start:     f.start,
			End:       end,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("GetBars %s: %w", symbol, err)
	}
	if len(alpacaBars) == 0 {
		f.log.Info("no bars returned", "symbol", symbol)
		return nil
	}

	bars := make([]domain.Bar, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, domain.Bar{
			Symbol:    strings.ToUpper(symbol),
			Timestamp: ab.Timestamp,
			Open:      ab.Open,
			High:      ab.High,
			Low:       ab.Low,
			Close:     ab.Close,
			Volume:    float64(ab.Volume),
		})
	}

	if err := f.store.WriteBars(ctx, bars, domain.MarketUS); err != nil {
		return fmt.Errorf("writing bars for %s: %w", symbol, err)
	}
	if f.universe != nil {
		f.universe.AddBars(bars)
		if err := f.universe.Flush(); err != nil {
			return fmt.Errorf("writing universe for %s: %w", symbol, err)
		}
	}
	f.log.Info("fetched", "symbol", symbol, "bars", len(bars))
	return nil
}
