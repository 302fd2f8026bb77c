package core

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyMerchant = errors.New("empty merchant")
	ErrInvalidAmount = errors.New("invalid amount")
)

// TimeOfDay classifies when during the day a transaction happened. It only
// feeds the report's per-line marker.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Midday  TimeOfDay = "midday"
	Evening TimeOfDay = "evening"
	Unknown TimeOfDay = "unknown"
)

// Transaction is a single recorded purchase. Transactions are immutable once
// created; the ledger only ever appends or removes whole entries.
type Transaction struct {
	Merchant  string
	Amount    Money
	Note      string
	Timestamp time.Time // zero means unknown
}

// NewTransaction validates raw user input and builds a Transaction stamped
// with now. The amount text must parse to a strictly positive decimal; the
// merchant must be non-blank. Note is optional and trimmed.
func NewTransaction(merchant, amountText, note string, now time.Time) (Transaction, error) {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return Transaction{}, ErrEmptyMerchant
	}
	cents, err := ParseDecimalToCents(amountText)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		Merchant:  merchant,
		Amount:    Money{Cents: cents},
		Note:      strings.TrimSpace(note),
		Timestamp: now,
	}, nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	return t.Amount.Validate()
}

// TimeOfDay buckets the transaction's local timestamp: [6,11) morning,
// [11,17) midday, everything else evening. A zero timestamp is unknown.
func (t Transaction) TimeOfDay() TimeOfDay {
	if t.Timestamp.IsZero() {
		return Unknown
	}
	switch h := t.Timestamp.Local().Hour(); {
	case h >= 6 && h < 11:
		return Morning
	case h >= 11 && h < 17:
		return Midday
	default:
		return Evening
	}
}

// DayKey is the calendar-day string used for snapshot reconciliation.
// Comparison is by local date, not full timestamp.
func DayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}
