// Package report renders the day's ledger into the plain-text summary used
// as the body of the share-by-mail action.
package report

import (
	"fmt"
	"strings"
	"time"

	"mealtab/internal/core"
)

const (
	merchantWidth = 24
	amountWidth   = 10
)

// Format renders a deterministic plain-text block: date header, one line per
// transaction (merchant, right-aligned amount, time-of-day marker, optional
// note line), then total spent, remaining balance, and the starting budget.
// It depends only on the ledger and the given date.
func Format(l core.Ledger, today time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Meal Expense Report - %s\n", FormatDate(today))
	b.WriteString("\n")

	if len(l.Transactions) == 0 {
		b.WriteString("No transactions recorded.\n")
	}
	for _, t := range l.Transactions {
		fmt.Fprintf(&b, "%-*s %*s  [%s]\n",
			merchantWidth, t.Merchant,
			amountWidth, core.FormatCents(t.Amount.Cents),
			t.TimeOfDay())
		if t.Note != "" {
			fmt.Fprintf(&b, "    note: %s\n", t.Note)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "%-*s %*s\n", merchantWidth, "Total spent:", amountWidth, core.FormatCents(l.SpentCents()))
	fmt.Fprintf(&b, "%-*s %*s\n", merchantWidth, "Remaining balance:", amountWidth, core.FormatCents(l.BalanceCents()))
	fmt.Fprintf(&b, "%-*s %*s\n", merchantWidth, "Starting budget:", amountWidth, core.FormatCents(l.StartingBudgetCents))

	return b.String()
}

// FormatDate is the human-readable date used in both header and subject.
func FormatDate(today time.Time) string {
	return today.Local().Format("Monday, January 2, 2006")
}

// Subject is the mail subject line for the day's report.
func Subject(today time.Time) string {
	return "Meal Expense Report - " + FormatDate(today)
}
