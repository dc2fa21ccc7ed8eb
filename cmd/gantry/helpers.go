package main

import (
	"strings"

	"github.com/abatilo/gantry/internal/dates"
	gantryerrors "github.com/abatilo/gantry/internal/errors"
)

const maxProgress = 100

// parseDateFlag normalizes a user-typed date to YYYY-MM-DD. A blank value
// clears the date.
func parseDateFlag(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	normalized, ok := dates.Normalize(value)
	if !ok {
		return "", gantryerrors.InvalidDateError{Field: field, Value: value}
	}
	return normalized, nil
}

func validateProgress(p int) error {
	if p < 0 || p > maxProgress {
		return gantryerrors.InvalidProgressError{Value: p}
	}
	return nil
}

// dedupe drops repeated and blank IDs, keeping first occurrences in order.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
