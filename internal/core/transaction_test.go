package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewTransaction(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 30, 0, 0, time.Local)

	tests := []struct {
		name     string
		merchant string
		amount   string
		note     string
		wantErr  error
	}{
		{name: "valid", merchant: "Chipotle", amount: "12.50", note: " burrito "},
		{name: "empty merchant", merchant: "", amount: "12.50", wantErr: ErrEmptyMerchant},
		{name: "whitespace merchant", merchant: "   ", amount: "12.50", wantErr: ErrEmptyMerchant},
		{name: "non-numeric amount", merchant: "Chipotle", amount: "lunch", wantErr: ErrInvalidAmount},
		{name: "zero amount", merchant: "Chipotle", amount: "0", wantErr: ErrInvalidAmount},
		{name: "negative amount", merchant: "Chipotle", amount: "-5", wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransaction(tt.merchant, tt.amount, tt.note, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tr.Merchant != "Chipotle" || tr.Amount.Cents != 1250 {
				t.Errorf("transaction = %+v", tr)
			}
			if tr.Note != "burrito" {
				t.Errorf("note not trimmed: %q", tr.Note)
			}
			if !tr.Timestamp.Equal(now) {
				t.Errorf("timestamp = %v, want %v", tr.Timestamp, now)
			}
		})
	}
}

func TestTransactionTimeOfDay(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2025, 3, 14, hour, 15, 0, 0, time.Local)
	}

	tests := []struct {
		name string
		ts   time.Time
		want TimeOfDay
	}{
		{name: "6am is morning", ts: at(6), want: Morning},
		{name: "10am is morning", ts: at(10), want: Morning},
		{name: "11am is midday", ts: at(11), want: Midday},
		{name: "4pm is midday", ts: at(16), want: Midday},
		{name: "5pm is evening", ts: at(17), want: Evening},
		{name: "11pm is evening", ts: at(23), want: Evening},
		{name: "3am is evening", ts: at(3), want: Evening},
		{name: "zero timestamp is unknown", ts: time.Time{}, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Transaction{Merchant: "X", Amount: Money{Cents: 100}, Timestamp: tt.ts}
			if got := tr.TimeOfDay(); got != tt.want {
				t.Errorf("TimeOfDay() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayKey(t *testing.T) {
	a := time.Date(2025, 3, 14, 0, 0, 1, 0, time.Local)
	b := time.Date(2025, 3, 14, 23, 59, 59, 0, time.Local)
	c := time.Date(2025, 3, 15, 0, 0, 0, 0, time.Local)

	if DayKey(a) != DayKey(b) {
		t.Errorf("same day produced different keys: %q vs %q", DayKey(a), DayKey(b))
	}
	if DayKey(b) == DayKey(c) {
		t.Errorf("midnight boundary produced the same key: %q", DayKey(b))
	}
}
