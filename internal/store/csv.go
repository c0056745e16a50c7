package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"backlab/internal/domain"
)

// csvTimeLayouts are tried in order when parsing the timestamp column.
var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadCSVBars loads a bar series from a CSV file with a header row of
// timestamp,open,high,low,close,volume (case-insensitive). The loaded series
// is validated with ValidateBars; a violation is reported as a load failure
// rather than passed through to the engine.
func ReadCSVBars(path, symbol string) ([]domain.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bars, err := parseCSVBars(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return bars, nil
}

func parseCSVBars(r io.Reader, symbol string) ([]domain.Bar, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols, err := csvColumns(header)
	if err != nil {
		return nil, err
	}

	var bars []domain.Bar
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bar, err := parseCSVBar(rec, cols, symbol)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}

	if err := ValidateBars(bars); err != nil {
		return nil, err
	}
	return bars, nil
}

// csvColumns maps the required column names to their indices.
func csvColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"timestamp", "open", "high", "low", "close", "volume"} {
		if _, ok := cols[want]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrBadSeries, want)
		}
	}
	return cols, nil
}

func parseCSVBar(rec []string, cols map[string]int, symbol string) (domain.Bar, error) {
	ts, err := parseCSVTime(rec[cols["timestamp"]])
	if err != nil {
		return domain.Bar{}, err
	}
	fields := [5]float64{}
	for i, name := range []string{"open", "high", "low", "close", "volume"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[name]]), 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("%w: bad %s value %q", ErrBadSeries, name, rec[cols[name]])
		}
		fields[i] = v
	}
	return domain.Bar{
		Symbol:    symbol,
		Timestamp: ts,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

func parseCSVTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable timestamp %q", ErrBadSeries, s)
}
