// Package backtest implements the bar-by-bar simulation engine: it replays a
// historical bar series through a strategy, translates signals into simulated
// orders against a single exclusive position, and accumulates an equity curve
// and trade log from which performance metrics are computed.
package backtest

import (
	"errors"
	"fmt"
	"log/slog"

	"backlab/internal/domain"
	"backlab/internal/strategy"
)

// ErrDataInsufficient is returned when the bar series is shorter than the
// strategy's indicator warm-up window.
var ErrDataInsufficient = errors.New("backtest: insufficient bars for indicator warm-up")

// Config holds the per-run simulation parameters.
type Config struct {
	// InitialCash is the starting cash balance. Must be positive.
	InitialCash float64

	// Commission is a flat fee charged per closed trade. Default zero.
	Commission float64

	// Annualization is the number of bars per year, used to scale Sharpe,
	// Sortino, and Calmar. Defaults to 252 (daily bars) when zero.
	Annualization float64
}

// Result holds everything a single backtest run produces: summary metrics,
// the full trade log, and the equity curve. A position still open at the last
// bar is reported mark-to-market in FinalPosition rather than force-closed.
type Result struct {
	Strategy      string
	Metrics       Metrics
	Trades        []domain.Trade
	Equity        []domain.EquityPoint
	FinalPosition domain.Position
}

// Engine replays a bar series through a strategy. The bar slice is treated as
// immutable and may be shared across concurrent engines; all mutable state is
// created per run.
type Engine struct {
	bars []domain.Bar
	cfg  Config
	log  *slog.Logger
}

// NewEngine creates an Engine over the given bar series. The caller (the
// data loader) is responsible for ensuring bars are ordered with strictly
// increasing timestamps.
func NewEngine(bars []domain.Bar, cfg Config) *Engine {
	if cfg.Annualization == 0 {
		cfg.Annualization = 252
	}
	return &Engine{
		bars: bars,
		cfg:  cfg,
		log:  slog.Default().With("component", "backtest"),
	}
}

// pendingOrder is a signal accepted at bar i, to be filled at bar i+1's open.
type pendingOrder struct {
	action domain.Action
	stop   *float64
	reason string
}

// Run executes one backtest of the given strategy and returns its result.
//
// Per bar, in order: the open position's stop is checked against the bar's
// high/low (stops take priority over signal-driven entries, so a stopped-out
// run never re-enters on the same bar); any order pending from the previous
// bar's decision fills at this bar's open; the strategy decides on this bar
// if the warm-up window is satisfied; equity is marked at the close.
func (e *Engine) Run(strat strategy.Strategy) (*Result, error) {
	if e.cfg.InitialCash <= 0 {
		return nil, fmt.Errorf("backtest: initial cash must be positive, got %v", e.cfg.InitialCash)
	}
	if err := strat.Init(e.bars); err != nil {
		return nil, fmt.Errorf("initializing strategy %s: %w", strat.Name(), err)
	}
	warmup := strat.Warmup()
	if len(e.bars) <= warmup {
		return nil, fmt.Errorf("%w: have %d bars, strategy %s needs more than %d",
			ErrDataInsufficient, len(e.bars), strat.Name(), warmup)
	}

	symbol := e.bars[0].Symbol
	acct := newAccount(symbol, e.cfg.InitialCash, e.cfg.Commission, e.log)
	equity := make([]domain.EquityPoint, 0, len(e.bars))
	var pending *pendingOrder

	for i, bar := range e.bars {
		acct.checkStop(bar)

		if pending != nil {
			e.fill(acct, bar, pending)
			pending = nil
		}

		if i >= warmup {
			sig := strat.Decide(i, acct.pos)
			if ord := e.accept(acct, sig); ord != nil {
				pending = ord
			}
		}

		equity = append(equity, domain.EquityPoint{
			Timestamp: bar.Timestamp,
			Equity:    acct.equity(bar.Close),
		})
	}

	res := &Result{
		Strategy:      strat.Name(),
		Metrics:       ComputeMetrics(e.cfg.InitialCash, equity, acct.trades, e.cfg.Annualization),
		Trades:        acct.trades,
		Equity:        equity,
		FinalPosition: acct.pos,
	}
	e.log.Info("backtest finished",
		"strategy", strat.Name(),
		"bars", len(e.bars),
		"trades", len(acct.trades),
		"return_pct", res.Metrics.Return,
	)
	return res, nil
}

// accept validates a signal against the current position state and converts
// it into a pending order. Entry signals while positioned and close signals
// while flat are dropped.
func (e *Engine) accept(acct *account, sig domain.Signal) *pendingOrder {
	switch sig.Action {
	case domain.ActionEnterLong, domain.ActionEnterShort:
		if acct.pos.IsOpen() {
			return nil
		}
	case domain.ActionClose:
		if !acct.pos.IsOpen() {
			return nil
		}
	default:
		return nil
	}
	return &pendingOrder{action: sig.Action, stop: sig.StopLoss, reason: sig.Reason}
}

// fill applies a pending order at the bar's open.
func (e *Engine) fill(acct *account, bar domain.Bar, ord *pendingOrder) {
	switch ord.action {
	case domain.ActionEnterLong:
		acct.open(domain.SideLong, bar, bar.Open, ord.stop)
	case domain.ActionEnterShort:
		acct.open(domain.SideShort, bar, bar.Open, ord.stop)
	case domain.ActionClose:
		acct.close(bar, bar.Open, "signal")
	}
}
