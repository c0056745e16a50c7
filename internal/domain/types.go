// Package domain defines the core data types shared across the backlab
// platform: OHLCV bars, positions, trades, signals, and equity points.
package domain

import "time"

// Market identifies a data source market.
type Market string

const (
	MarketUS Market = "us"
	MarketFX Market = "fx"
)

// Bar is a single OHLCV observation for a fixed time interval. Bars are
// immutable once loaded; a bar series must have strictly increasing
// timestamps.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Side is the direction of an open position.
type Side string

const (
	SideFlat  Side = "flat"
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Action is the decision a strategy emits for a single bar. A strategy emits
// at most one action per bar.
type Action int

const (
	ActionNone Action = iota
	ActionEnterLong
	ActionEnterShort
	ActionClose
)

// String returns a stable name for the action.
func (a Action) String() string {
	switch a {
	case ActionEnterLong:
		return "enter_long"
	case ActionEnterShort:
		return "enter_short"
	case ActionClose:
		return "close"
	default:
		return "none"
	}
}

// Signal is the outcome of a strategy decision step. StopLoss, when non-nil,
// is the protective stop price attached to the entry.
type Signal struct {
	Action   Action
	StopLoss *float64
	Reason   string
}

// Position is the single open position tracked by the simulator. At most one
// position is open at any simulated time.
type Position struct {
	Side       Side
	EntryTime  time.Time
	EntryPrice float64
	Size       float64
	StopLoss   *float64 // nil when no stop is attached
}

// IsOpen reports whether the position is long or short.
func (p Position) IsOpen() bool { return p.Side == SideLong || p.Side == SideShort }

// Trade is the immutable record of a closed position.
type Trade struct {
	Symbol     string
	Side       Side
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Size       float64
	Profit     float64 // realized price P&L before commission
	Reason     string  // what closed the trade: "signal" or "stop"
}

// EquityPoint is the mark-to-market account value after processing one bar.
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}
