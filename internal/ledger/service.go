package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"mealtab/internal/core"
	"mealtab/internal/kv"
)

// ChangePublisher receives a notification after every persisted mutation.
// Implementations must not block the mutation path; publishing is
// best-effort and failures are logged, never surfaced to the user.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, day string, revision, balanceCents int64) error
}

// Service is the single writer of the day's ledger. Every mutation happens
// under one lock: the ledger is updated, balance re-derived, and the
// snapshot written before the lock is released, so persisted writes are
// totally ordered with the mutations that caused them and readers never see
// balance and transactions out of step.
type Service struct {
	mu       sync.Mutex
	ledger   core.Ledger
	revision int64

	store kv.Store
	clock func() time.Time
	pub   ChangePublisher

	startingBudgetCents int64
}

type Option func(*Service)

// WithClock injects the "current day" source so tests can simulate midnight.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithPublisher attaches an optional change publisher (AMQP in production).
func WithPublisher(pub ChangePublisher) Option {
	return func(s *Service) { s.pub = pub }
}

func NewService(store kv.Store, startingBudgetCents int64, opts ...Option) *Service {
	if startingBudgetCents <= 0 {
		startingBudgetCents = core.DefaultStartingBudgetCents
	}
	s := &Service{
		store:               store,
		clock:               time.Now,
		startingBudgetCents: startingBudgetCents,
		ledger:              core.NewLedger(startingBudgetCents),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the stored snapshot and reconciles it against today. Malformed
// stored text is treated as absent. Safe to call again later (e.g. from a
// periodic check): a same-day reconcile keeps the live ledger untouched.
func (s *Service) Start(ctx context.Context) error {
	text, ok, err := s.store.Get(ctx, SnapshotKey)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	var snap *Snapshot
	if ok {
		decoded, err := DecodeSnapshot(text)
		if err != nil {
			slog.WarnContext(ctx, "Stored snapshot unreadable, starting fresh", "error", err)
		} else {
			snap = &decoded
		}
	}

	now := s.clock()
	reconciled := Reconcile(snap, now, s.startingBudgetCents)

	s.mu.Lock()
	defer s.mu.Unlock()
	if snap != nil && snap.SavedDate == core.DayKey(now) && s.revision > 0 {
		// Same day and the session already has live mutations: nothing to do.
		return nil
	}
	s.ledger = reconciled
	slog.InfoContext(ctx, "Ledger reconciled",
		"day", core.DayKey(now),
		"transactions", len(s.ledger.Transactions),
		"balance_cents", s.ledger.BalanceCents())
	return nil
}

// AddTransaction validates the raw input, appends the transaction, and
// persists the new snapshot. Invalid input returns the core sentinel error
// and leaves both ledger and storage untouched.
func (s *Service) AddTransaction(ctx context.Context, merchant, amountText, note string) (core.Transaction, error) {
	now := s.clock()
	t, err := core.NewTransaction(merchant, amountText, note, now)
	if err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.Add(t); err != nil {
		return core.Transaction{}, err
	}
	s.persistLocked(ctx, now)

	slog.InfoContext(ctx, "Transaction added",
		"merchant", t.Merchant,
		"amount_cents", t.Amount.Cents,
		"balance_cents", s.ledger.BalanceCents())
	return t, nil
}

// DeleteTransaction removes the entry at index (0-based, display order) and
// persists. An out-of-range index is a silent no-op with no write.
func (s *Service) DeleteTransaction(ctx context.Context, index int) bool {
	now := s.clock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ledger.DeleteAt(index) {
		return false
	}
	s.persistLocked(ctx, now)

	slog.InfoContext(ctx, "Transaction deleted",
		"index", index,
		"balance_cents", s.ledger.BalanceCents())
	return true
}

// persistLocked writes the snapshot for the current state. Called with the
// mutex held so write order matches mutation order. Storage failures are
// logged and swallowed: the in-memory ledger stays authoritative.
func (s *Service) persistLocked(ctx context.Context, now time.Time) {
	s.revision++
	day := core.DayKey(now)

	text, err := NewSnapshot(s.ledger, day).Encode()
	if err != nil {
		slog.ErrorContext(ctx, "Snapshot encode failed", "error", err)
		return
	}
	if err := s.store.Set(ctx, SnapshotKey, text); err != nil {
		slog.ErrorContext(ctx, "Snapshot write failed", "error", err, "day", day)
		return
	}

	if s.pub != nil {
		if err := s.pub.PublishLedgerChanged(ctx, day, s.revision, s.ledger.BalanceCents()); err != nil {
			slog.WarnContext(ctx, "Ledger change publish failed", "error", err, "revision", s.revision)
		}
	}
}

// Snapshot returns a consistent copy of the ledger and the revision it
// corresponds to. The copy is safe to read without further locking.
func (s *Service) Snapshot() (core.Ledger, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone(), s.revision
}

// Today returns the current day key from the injected clock.
func (s *Service) Today() string {
	return core.DayKey(s.clock())
}

// Now exposes the injected clock for callers that need the full instant.
func (s *Service) Now() time.Time {
	return s.clock()
}
