// Package ledger owns the day's ledger state: mutations, snapshot
// persistence, and reconciliation against the calendar day.
package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"mealtab/internal/core"
)

// SnapshotKey is the fixed key every snapshot is written under.
const SnapshotKey = "mealtab:ledger"

// Snapshot is the serialized form of a ledger plus the calendar day it was
// saved under. BalanceCents is written for inspection but treated as a cache
// on load; the transaction sequence is the source of truth.
type Snapshot struct {
	BalanceCents        int64                 `json:"balance_cents"`
	StartingBudgetCents int64                 `json:"starting_budget_cents"`
	SavedDate           string                `json:"saved_date"`
	Transactions        []SnapshotTransaction `json:"transactions"`
}

type SnapshotTransaction struct {
	Merchant    string `json:"merchant"`
	AmountCents int64  `json:"amount_cents"`
	Note        string `json:"note,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"` // RFC 3339, empty when unknown
}

// NewSnapshot captures a ledger under the given day key.
func NewSnapshot(l core.Ledger, day string) Snapshot {
	snap := Snapshot{
		BalanceCents:        l.BalanceCents(),
		StartingBudgetCents: l.StartingBudgetCents,
		SavedDate:           day,
	}
	for _, t := range l.Transactions {
		st := SnapshotTransaction{
			Merchant:    t.Merchant,
			AmountCents: t.Amount.Cents,
			Note:        t.Note,
		}
		if !t.Timestamp.IsZero() {
			st.Timestamp = t.Timestamp.Format(time.RFC3339)
		}
		snap.Transactions = append(snap.Transactions, st)
	}
	return snap
}

func (s Snapshot) Encode() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(b), nil
}

// DecodeSnapshot parses stored snapshot text. Callers treat an error as an
// absent snapshot, not a crash.
func DecodeSnapshot(text string) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return s, nil
}

// Ledger rebuilds the in-memory ledger from the stored sequence. Balance is
// re-derived from the transactions; the stored balance field is ignored.
// Entries that no valid ledger could have produced make the whole snapshot
// untrustworthy, reported as an error.
func (s Snapshot) Ledger() (core.Ledger, error) {
	start := s.StartingBudgetCents
	if start == 0 {
		start = core.DefaultStartingBudgetCents
	}
	l := core.NewLedger(start)
	for i, st := range s.Transactions {
		t := core.Transaction{
			Merchant: st.Merchant,
			Amount:   core.Money{Cents: st.AmountCents},
			Note:     st.Note,
		}
		if st.Timestamp != "" {
			ts, err := time.Parse(time.RFC3339, st.Timestamp)
			if err != nil {
				return core.Ledger{}, fmt.Errorf("transaction %d: bad timestamp %q: %w", i, st.Timestamp, err)
			}
			t.Timestamp = ts
		}
		if err := l.Add(t); err != nil {
			return core.Ledger{}, fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return l, nil
}
