// Package store provides persistence for bar series and backtest results:
// Parquet files for OHLCV bars and SQLite for run records and trade logs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backlab/internal/backtest"
	"backlab/internal/domain"
)

// ErrBadSeries is returned by loaders when a bar series violates the core's
// preconditions (ordering, numeric OHLC values).
var ErrBadSeries = errors.New("store: malformed bar series")

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars to storage under the given market.
	WriteBars(ctx context.Context, bars []domain.Bar, market domain.Market) error

	// ReadBars returns bars for the given symbol and market within
	// [start, end], ordered by timestamp.
	ReadBars(ctx context.Context, symbol string, market domain.Market, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols available in the given market.
	ListSymbols(ctx context.Context, market domain.Market) ([]string, error)
}

// RunStore persists completed backtest runs and their trade logs.
type RunStore interface {
	// SaveRun persists one run's metrics and trades, returning the run ID.
	SaveRun(ctx context.Context, symbol string, res *backtest.Result) (int64, error)

	// ListRuns returns the most recent run summaries, up to limit.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// ListTrades returns the trades recorded for a run.
	ListTrades(ctx context.Context, runID int64) ([]domain.Trade, error)
}

// RunRecord is a stored backtest run summary.
type RunRecord struct {
	ID          int64
	Symbol      string
	Strategy    string
	CreatedAt   time.Time
	WinRate     float64
	Return      float64
	Sharpe      float64
	Sortino     float64
	MaxDrawdown float64
	Calmar      float64
	TotalTrades int
}

// ValidateBars checks the engine's input preconditions: strictly increasing
// timestamps, positive OHLC prices, and non-negative volume. Loaders must run
// this before handing bars to the engine and report violations as a load
// failure.
func ValidateBars(bars []domain.Bar) error {
	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("%w: non-positive price at %s", ErrBadSeries, b.Timestamp.Format(time.RFC3339))
		}
		if b.Volume < 0 {
			return fmt.Errorf("%w: negative volume at %s", ErrBadSeries, b.Timestamp.Format(time.RFC3339))
		}
		if i > 0 && !bars[i-1].Timestamp.Before(b.Timestamp) {
			return fmt.Errorf("%w: timestamps not strictly increasing at %s", ErrBadSeries, b.Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}
