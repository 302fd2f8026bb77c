package ledger

import (
	"time"

	"mealtab/internal/core"
)

// Reconcile compares a loaded snapshot against the current wall-clock day
// and returns the ledger to continue the session with. A nil snapshot, a
// snapshot saved under a different local calendar day, or one whose sequence
// cannot be rebuilt all yield a fresh ledger. The reset is not persisted
// here; the next mutation writes it naturally.
func Reconcile(snap *Snapshot, now time.Time, startingBudgetCents int64) core.Ledger {
	if snap == nil {
		return core.NewLedger(startingBudgetCents)
	}
	if snap.SavedDate != core.DayKey(now) {
		return core.NewLedger(startingBudgetCents)
	}
	l, err := snap.Ledger()
	if err != nil {
		return core.NewLedger(startingBudgetCents)
	}
	return l
}
