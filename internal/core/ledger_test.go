package core

import (
	"testing"
	"time"
)

func tx(merchant string, cents int64) Transaction {
	return Transaction{
		Merchant:  merchant,
		Amount:    Money{Cents: cents},
		Timestamp: time.Date(2025, 3, 14, 12, 0, 0, 0, time.Local),
	}
}

func checkInvariant(t *testing.T, l Ledger) {
	t.Helper()
	var sum int64
	for _, tr := range l.Transactions {
		sum += tr.Amount.Cents
	}
	if got := l.BalanceCents(); got != l.StartingBudgetCents-sum {
		t.Fatalf("balance invariant broken: balance=%d, start=%d, spent=%d", got, l.StartingBudgetCents, sum)
	}
}

func TestLedgerAddDerivesBalance(t *testing.T) {
	l := NewLedger(DefaultStartingBudgetCents)
	if l.BalanceCents() != 10000 {
		t.Fatalf("fresh ledger balance = %d, want 10000", l.BalanceCents())
	}

	if err := l.Add(tx("Chipotle", 1250)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add(tx("Subway", 899)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := l.BalanceCents(); got != 10000-1250-899 {
		t.Errorf("balance = %d, want %d", got, 10000-1250-899)
	}
	checkInvariant(t, l)
}

func TestLedgerAddRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
	}{
		{name: "zero amount", tx: Transaction{Merchant: "A", Amount: Money{Cents: 0}}},
		{name: "negative amount", tx: Transaction{Merchant: "A", Amount: Money{Cents: -500}}},
		{name: "empty merchant", tx: Transaction{Merchant: "", Amount: Money{Cents: 100}}},
		{name: "blank merchant", tx: Transaction{Merchant: "   ", Amount: Money{Cents: 100}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(DefaultStartingBudgetCents)
			if err := l.Add(tx("Base", 2000)); err != nil {
				t.Fatalf("seed Add: %v", err)
			}
			if err := l.Add(tt.tx); err == nil {
				t.Fatal("Add accepted an invalid transaction")
			}
			if len(l.Transactions) != 1 {
				t.Errorf("transactions mutated on rejected add: %d entries", len(l.Transactions))
			}
			if l.BalanceCents() != 8000 {
				t.Errorf("balance mutated on rejected add: %d", l.BalanceCents())
			}
		})
	}
}

func TestLedgerDeleteAtRederives(t *testing.T) {
	l := NewLedger(DefaultStartingBudgetCents)
	for _, tr := range []Transaction{tx("A", 2000), tx("B", 3000), tx("C", 1000)} {
		if err := l.Add(tr); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	if !l.DeleteAt(1) {
		t.Fatal("DeleteAt(1) reported no-op")
	}
	// 100 - 20 - 10, summed from the remaining entries
	if got := l.BalanceCents(); got != 7000 {
		t.Errorf("balance after delete = %d, want 7000", got)
	}
	if len(l.Transactions) != 2 || l.Transactions[0].Merchant != "A" || l.Transactions[1].Merchant != "C" {
		t.Errorf("unexpected remaining transactions: %+v", l.Transactions)
	}
	checkInvariant(t, l)
}

func TestLedgerDeleteAtOutOfRange(t *testing.T) {
	l := NewLedger(DefaultStartingBudgetCents)
	if err := l.Add(tx("A", 2000)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	for _, i := range []int{-1, 1, 99} {
		if l.DeleteAt(i) {
			t.Errorf("DeleteAt(%d) removed something from a 1-entry ledger", i)
		}
	}
	if len(l.Transactions) != 1 || l.BalanceCents() != 8000 {
		t.Errorf("ledger mutated by out-of-range delete: %+v", l)
	}
}

func TestLedgerReset(t *testing.T) {
	l := NewLedger(DefaultStartingBudgetCents)
	if err := l.Add(tx("A", 2000)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	l.Reset()
	if len(l.Transactions) != 0 {
		t.Errorf("Reset left %d transactions", len(l.Transactions))
	}
	if l.BalanceCents() != DefaultStartingBudgetCents {
		t.Errorf("Reset balance = %d, want %d", l.BalanceCents(), DefaultStartingBudgetCents)
	}
}

func TestLedgerCloneIsIndependent(t *testing.T) {
	l := NewLedger(DefaultStartingBudgetCents)
	if err := l.Add(tx("A", 2000)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	c := l.Clone()
	c.Transactions[0].Merchant = "mutated"
	if l.Transactions[0].Merchant != "A" {
		t.Error("Clone shares backing storage with the original")
	}
}
