// Package suggest derives merchant autocompletion candidates from the day's
// transaction history. The index is query-time only: recomputed on every
// keystroke, never stored.
package suggest

import (
	"strings"

	"mealtab/internal/core"
)

// Merchants returns the distinct merchant names across the transactions in
// order of first appearance, collapsing duplicates on their original casing.
func Merchants(transactions []core.Transaction) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(transactions))
	for _, t := range transactions {
		if _, ok := seen[t.Merchant]; ok {
			continue
		}
		seen[t.Merchant] = struct{}{}
		out = append(out, t.Merchant)
	}
	return out
}

// Suggest filters the distinct merchants to those containing partial as a
// case-insensitive substring, preserving first-appearance order. Empty or
// whitespace-only partial yields nothing (suggestions hidden).
func Suggest(transactions []core.Transaction, partial string) []string {
	partial = strings.TrimSpace(partial)
	if partial == "" {
		return nil
	}
	needle := strings.ToLower(partial)

	var out []string
	for _, m := range Merchants(transactions) {
		if strings.Contains(strings.ToLower(m), needle) {
			out = append(out, m)
		}
	}
	return out
}
