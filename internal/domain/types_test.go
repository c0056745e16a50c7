package domain

import (
	"testing"
	"time"
)

func TestActionString(t *testing.T) {
	cases := []struct {
		action Action
		want   string
	}{
		{ActionNone, "none"},
		{ActionEnterLong, "enter_long"},
		{ActionEnterShort, "enter_short"},
		{ActionClose, "close"},
		{Action(99), "none"},
	}
	for _, tc := range cases {
		if got := tc.action.String(); got != tc.want {
			t.Errorf("Action(%d).String() = %q, want %q", tc.action, got, tc.want)
		}
	}
}

func TestPositionIsOpen(t *testing.T) {
	if (Position{}).IsOpen() {
		t.Error("zero-value position reports open")
	}
	if (Position{Side: SideFlat}).IsOpen() {
		t.Error("flat position reports open")
	}
	if !(Position{Side: SideLong}).IsOpen() {
		t.Error("long position reports closed")
	}
	if !(Position{Side: SideShort}).IsOpen() {
		t.Error("short position reports closed")
	}
}

func TestSignalZeroValueIsNoOp(t *testing.T) {
	var s Signal
	if s.Action != ActionNone {
		t.Errorf("zero-value Signal action = %s, want none", s.Action)
	}
	if s.StopLoss != nil {
		t.Error("zero-value Signal carries a stop")
	}
}

func TestBarZeroValue(t *testing.T) {
	var b Bar
	if b.Symbol != "" || !b.Timestamp.IsZero() {
		t.Error("zero-value Bar has non-zero identity fields")
	}
	if b.Open != 0 || b.High != 0 || b.Low != 0 || b.Close != 0 || b.Volume != 0 {
		t.Error("zero-value Bar has non-zero OHLCV fields")
	}
}

func TestTradeFields(t *testing.T) {
	entry := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	tr := Trade{
		Symbol:     "EURUSD",
		Side:       SideLong,
		EntryTime:  entry,
		ExitTime:   entry.AddDate(0, 0, 2),
		EntryPrice: 1.10,
		ExitPrice:  1.12,
		Size:       9090.9,
		Profit:     181.8,
		Reason:     "signal",
	}
	if !tr.ExitTime.After(tr.EntryTime) {
		t.Error("trade exit not after entry")
	}
	if tr.Side != SideLong {
		t.Errorf("Side = %s, want long", tr.Side)
	}
}
