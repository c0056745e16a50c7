package report

import (
	"strings"
	"testing"
	"time"

	"backlab/internal/backtest"
	"backlab/internal/domain"
	"backlab/internal/store"
)

func TestFormatInt(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tc := range cases {
		if got := FormatInt(tc.in); got != tc.want {
			t.Errorf("FormatInt(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{12.5, "12.50"},
		{1500, "1.5K"},
		{2500000, "2.5M"},
		{3100000000, "3.1B"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.in); got != tc.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(12.34); got != "+12.3%" {
		t.Errorf("FormatSignedPct(12.34) = %q, want +12.3%%", got)
	}
	if got := FormatSignedPct(-8.3); got != "-8.3%" {
		t.Errorf("FormatSignedPct(-8.3) = %q, want -8.3%%", got)
	}
	if got := FormatSignedPct(150); got != "+150%" {
		t.Errorf("FormatSignedPct(150) = %q, want +150%%", got)
	}
}

func TestResultIncludesOpenPosition(t *testing.T) {
	res := &backtest.Result{
		Strategy: "trend-rsi",
		Metrics:  backtest.Metrics{WinRate: 60, Sharpe: 1.2, Return: 8.5, TotalTrades: 5},
		FinalPosition: domain.Position{
			Side: domain.SideShort, EntryPrice: 1.1234, EntryTime: time.Now(),
		},
	}
	var b strings.Builder
	Result(&b, "EURUSD", 1500, res)
	out := b.String()

	for _, want := range []string{"trend-rsi", "EURUSD", "1,500 bars", "Sharpe Ratio", "marked to market"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRunsEmpty(t *testing.T) {
	var b strings.Builder
	Runs(&b, nil)
	if !strings.Contains(b.String(), "no stored runs") {
		t.Errorf("empty listing = %q, want placeholder", b.String())
	}
}

func TestRunsTable(t *testing.T) {
	var b strings.Builder
	Runs(&b, []store.RunRecord{{
		ID: 7, Symbol: "AAPL", Strategy: "macd-cross",
		CreatedAt: time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Return:    12.5, Sharpe: 1.4, TotalTrades: 9,
	}})
	out := b.String()
	for _, want := range []string{"STRATEGY", "macd-cross", "AAPL", "2026-01-02 15:04:05"} {
		if !strings.Contains(out, want) {
			t.Errorf("runs table missing %q:\n%s", want, out)
		}
	}
}

func TestSweepReportsBestAndFailures(t *testing.T) {
	runs := []backtest.SweepRun{
		{
			Params: backtest.ParamSet{"rsi_period": 7},
			Result: &backtest.Result{Metrics: backtest.Metrics{Sharpe: 0.5}},
		},
		{
			Params: backtest.ParamSet{"rsi_period": 14},
			Result: &backtest.Result{Metrics: backtest.Metrics{Sharpe: 1.5}},
		},
		{
			Params: backtest.ParamSet{"rsi_period": 21},
			Err:    backtest.ErrDataInsufficient,
		},
	}
	var b strings.Builder
	Sweep(&b, runs)
	out := b.String()

	if !strings.Contains(out, "best by Sharpe") || !strings.Contains(out, "1.5000") {
		t.Errorf("sweep report missing best line:\n%s", out)
	}
	if !strings.Contains(out, "failed") {
		t.Errorf("sweep report missing failure diagnostic:\n%s", out)
	}
}
