package fetch

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// LoadSymbolsCSV reads symbols from the first column of a CSV file with a
// header row. Symbols are trimmed and upper-cased; empty rows are skipped.
func LoadSymbolsCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening symbols CSV %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading symbols CSV %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	symbols := make([]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		sym := strings.ToUpper(strings.TrimSpace(row[0]))
		if sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return symbols, nil
}
