package fetch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"backlab/internal/domain"
)

func TestUniverseWriterAddFlush(t *testing.T) {
	dir := t.TempDir()
	uw := NewUniverseWriter(dir, domain.MarketUS)

	bars := []domain.Bar{
		{Symbol: "AAPL", Timestamp: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		{Symbol: "MSFT", Timestamp: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		{Symbol: "AAPL", Timestamp: time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)},
		{Symbol: "GOOGL", Timestamp: time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)},
	}
	uw.AddBars(bars)
	if err := uw.Flush(); err != nil {
		t.Fatal(err)
	}

	for _, date := range []string{"2025-01-06", "2025-01-07"} {
		data, err := os.ReadFile(filepath.Join(dir, "us", "universe", date+".txt"))
		if err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 2 {
			t.Errorf("%s.txt has %d lines, want 2", date, len(lines))
		}
	}
}

func TestUniverseWriterFinalizeSortsAndDedups(t *testing.T) {
	dir := t.TempDir()
	uw := NewUniverseWriter(dir, domain.MarketUS)
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	uw.AddBars([]domain.Bar{
		{Symbol: "MSFT", Timestamp: day},
		{Symbol: "AAPL", Timestamp: day},
		{Symbol: "GOOGL", Timestamp: day},
	})
	if err := uw.Flush(); err != nil {
		t.Fatal(err)
	}
	uw.AddBars([]domain.Bar{
		{Symbol: "AAPL", Timestamp: day},
		{Symbol: "TSLA", Timestamp: day},
	})
	if err := uw.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := uw.Finalize(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "us", "universe", "2025-01-06.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"AAPL", "GOOGL", "MSFT", "TSLA"}
	if len(lines) != len(want) {
		t.Fatalf("finalized file has %d lines, want %d: %v", len(lines), len(want), lines)
	}
	for i, line := range lines {
		if line != want[i] {
			t.Errorf("line %d = %q, want %q", i, line, want[i])
		}
	}
}

func TestLoadSymbolsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbols.csv")
	data := "symbol,description\naapl,Apple\n MSFT ,Microsoft\n,\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	symbols, err := LoadSymbolsCSV(path)
	if err != nil {
		t.Fatalf("LoadSymbolsCSV: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("symbols = %v, want [AAPL MSFT]", symbols)
	}
}

func TestLoadSymbolsCSVHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("symbol\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	symbols, err := LoadSymbolsCSV(path)
	if err != nil {
		t.Fatalf("LoadSymbolsCSV: %v", err)
	}
	if len(symbols) != 0 {
		t.Errorf("symbols = %v, want empty", symbols)
	}
}
