package core

// DefaultStartingBudgetCents is the fixed daily allowance: 100.00.
const DefaultStartingBudgetCents int64 = 10000

// Ledger is the day's aggregate: a fixed starting budget and the ordered
// transaction history. Balance is always derived from the two, never stored,
// so it cannot drift from the sequence.
type Ledger struct {
	StartingBudgetCents int64
	Transactions        []Transaction
}

// NewLedger returns an empty ledger for the given starting budget.
func NewLedger(startingBudgetCents int64) Ledger {
	return Ledger{StartingBudgetCents: startingBudgetCents}
}

// SpentCents sums all transaction amounts.
func (l Ledger) SpentCents() int64 {
	var sum int64
	for _, t := range l.Transactions {
		sum += t.Amount.Cents
	}
	return sum
}

// BalanceCents is the remaining budget: starting budget minus everything
// spent. Recomputed on every call.
func (l Ledger) BalanceCents() int64 {
	return l.StartingBudgetCents - l.SpentCents()
}

// Add appends a transaction. Validity is the caller's job via NewTransaction;
// an invalid transaction is rejected here as a backstop and the ledger is
// left unchanged.
func (l *Ledger) Add(t Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	l.Transactions = append(l.Transactions, t)
	return nil
}

// DeleteAt removes the transaction at index i (0-based, display order).
// Out-of-range indexes are a silent no-op; it reports whether anything was
// removed. Balance needs no fixup since it is derived from the remainder.
func (l *Ledger) DeleteAt(i int) bool {
	if i < 0 || i >= len(l.Transactions) {
		return false
	}
	l.Transactions = append(l.Transactions[:i], l.Transactions[i+1:]...)
	return true
}

// Reset clears the history, returning the ledger to its fresh-day state.
func (l *Ledger) Reset() {
	l.Transactions = nil
}

// Clone returns a deep copy safe to hand to readers outside the store's lock.
func (l Ledger) Clone() Ledger {
	out := Ledger{StartingBudgetCents: l.StartingBudgetCents}
	if len(l.Transactions) > 0 {
		out.Transactions = make([]Transaction, len(l.Transactions))
		copy(out.Transactions, l.Transactions)
	}
	return out
}
