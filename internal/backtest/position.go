package backtest

import (
	"log/slog"

	"backlab/internal/domain"
)

// account is the position and order manager for a single simulation run. It
// tracks cash, the single open position, and the realized trade log, and it
// enforces the exclusive-position invariant: a new entry while a position is
// open is ignored, never queued or stacked.
type account struct {
	symbol     string
	cash       float64
	commission float64
	pos        domain.Position
	trades     []domain.Trade
	log        *slog.Logger
}

func newAccount(symbol string, initialCash, commission float64, log *slog.Logger) *account {
	return &account{
		symbol:     symbol,
		cash:       initialCash,
		commission: commission,
		pos:        domain.Position{Side: domain.SideFlat},
		log:        log,
	}
}

// open enters a position at the given fill price, sizing it to the full cash
// balance. Entries while already positioned are ignored. A stop on the wrong
// side of the fill price is rejected with a diagnostic and no position is
// opened.
func (a *account) open(side domain.Side, bar domain.Bar, fillPrice float64, stop *float64) {
	if a.pos.IsOpen() {
		a.log.Debug("entry ignored, position already open", "side", side, "open_side", a.pos.Side)
		return
	}
	if fillPrice <= 0 {
		return
	}
	if stop != nil {
		protective := (side == domain.SideLong && *stop < fillPrice) ||
			(side == domain.SideShort && *stop > fillPrice)
		if !protective {
			a.log.Warn("rejecting order with non-protective stop",
				"side", side, "stop", *stop, "fill_price", fillPrice)
			return
		}
	}
	a.pos = domain.Position{
		Side:       side,
		EntryTime:  bar.Timestamp,
		EntryPrice: fillPrice,
		Size:       a.cash / fillPrice,
		StopLoss:   stop,
	}
}

// close exits the open position at the given fill price, appends a Trade, and
// settles realized profit minus commission into cash. Closing while flat is a
// no-op.
func (a *account) close(bar domain.Bar, fillPrice float64, reason string) {
	if !a.pos.IsOpen() {
		return
	}
	profit := a.pos.Size * (fillPrice - a.pos.EntryPrice)
	if a.pos.Side == domain.SideShort {
		profit = -profit
	}
	a.trades = append(a.trades, domain.Trade{
		Symbol:     a.symbol,
		Side:       a.pos.Side,
		EntryTime:  a.pos.EntryTime,
		ExitTime:   bar.Timestamp,
		EntryPrice: a.pos.EntryPrice,
		ExitPrice:  fillPrice,
		Size:       a.pos.Size,
		Profit:     profit,
		Reason:     reason,
	})
	a.cash += profit - a.commission
	a.pos = domain.Position{Side: domain.SideFlat}
}

// checkStop closes the position at the recorded stop price when the bar's
// range touches it: a long stops out when the low trades at or through the
// stop, a short when the high does. The fill is the stop price, not the bar
// extreme. Returns whether the stop fired.
func (a *account) checkStop(bar domain.Bar) bool {
	if !a.pos.IsOpen() || a.pos.StopLoss == nil {
		return false
	}
	stop := *a.pos.StopLoss
	hit := (a.pos.Side == domain.SideLong && bar.Low <= stop) ||
		(a.pos.Side == domain.SideShort && bar.High >= stop)
	if !hit {
		return false
	}
	a.close(bar, stop, "stop")
	return true
}

// equity returns cash plus the unrealized value of the open position marked
// at the given price.
func (a *account) equity(price float64) float64 {
	if !a.pos.IsOpen() {
		return a.cash
	}
	unrealized := a.pos.Size * (price - a.pos.EntryPrice)
	if a.pos.Side == domain.SideShort {
		unrealized = -unrealized
	}
	return a.cash + unrealized
}
