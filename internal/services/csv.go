package services

import (
	"fmt"
	"strconv"
	"strings"
)

// headerIndex maps column names to their positions and fails when a required
// column is absent from the header.
func headerIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return idx, nil
}

// parseCount parses a non-negative integer cell. Non-numeric and negative
// input fails the run with the offending row and column named, rather than
// being coerced to a sentinel.
func parseCount(value, column string, row int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("row %d: non-numeric value %q in column %q", row, value, column)
	}
	if v < 0 {
		return 0, fmt.Errorf("row %d: negative value %d in column %q", row, v, column)
	}
	return v, nil
}

// parseAmount parses a non-negative numeric cell
func parseAmount(value, column string, row int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: non-numeric value %q in column %q", row, value, column)
	}
	if v < 0 {
		return 0, fmt.Errorf("row %d: negative value %v in column %q", row, v, column)
	}
	return v, nil
}
