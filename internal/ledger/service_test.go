package ledger

import (
	"context"
	"testing"
	"time"

	"mealtab/internal/core"
	"mealtab/internal/kv/memory"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type recordingPublisher struct {
	revisions []int64
}

func (p *recordingPublisher) PublishLedgerChanged(_ context.Context, _ string, revision, _ int64) error {
	p.revisions = append(p.revisions, revision)
	return nil
}

func newTestService(t *testing.T, store *memory.Store, clock *fakeClock, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	s := NewService(store, core.DefaultStartingBudgetCents, opts...)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func TestServiceAddPersistsAndDerives(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := &fakeClock{now: noonToday}
	s := newTestService(t, store, clock)

	if _, err := s.AddTransaction(ctx, "Chipotle", "12.50", "burrito"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if _, err := s.AddTransaction(ctx, "Subway", "8.99", ""); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	l, rev := s.Snapshot()
	if rev != 2 {
		t.Errorf("revision = %d, want 2", rev)
	}
	if got := l.BalanceCents(); got != 10000-1250-899 {
		t.Errorf("balance = %d, want %d", got, 10000-1250-899)
	}

	// Storage saw the same state.
	text, ok, err := store.Get(ctx, SnapshotKey)
	if err != nil || !ok {
		t.Fatalf("snapshot missing from store: ok=%v err=%v", ok, err)
	}
	snap, err := DecodeSnapshot(text)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(snap.Transactions) != 2 || snap.BalanceCents != l.BalanceCents() {
		t.Errorf("persisted snapshot out of step: %+v", snap)
	}
	if snap.SavedDate != core.DayKey(noonToday) {
		t.Errorf("saved date = %q, want %q", snap.SavedDate, core.DayKey(noonToday))
	}
}

func TestServiceRejectsInvalidInputWithoutWrite(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := &fakeClock{now: noonToday}
	s := newTestService(t, store, clock)

	cases := []struct{ merchant, amount string }{
		{"", "5.00"},
		{"   ", "5.00"},
		{"Chipotle", "0"},
		{"Chipotle", "-5"},
		{"Chipotle", "lunch"},
	}
	for _, c := range cases {
		if _, err := s.AddTransaction(ctx, c.merchant, c.amount, ""); err == nil {
			t.Errorf("AddTransaction(%q, %q) accepted invalid input", c.merchant, c.amount)
		}
	}

	if _, ok, _ := store.Get(ctx, SnapshotKey); ok {
		t.Error("rejected input still produced a persistence write")
	}
	l, rev := s.Snapshot()
	if rev != 0 || len(l.Transactions) != 0 {
		t.Errorf("rejected input mutated state: rev=%d txs=%d", rev, len(l.Transactions))
	}
}

func TestServiceDeleteOutOfRangeNoOp(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := &fakeClock{now: noonToday}
	s := newTestService(t, store, clock)

	if _, err := s.AddTransaction(ctx, "Chipotle", "12.50", ""); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if s.DeleteTransaction(ctx, 5) {
		t.Error("DeleteTransaction(5) succeeded on 1-entry ledger")
	}
	if _, rev := s.Snapshot(); rev != 1 {
		t.Errorf("no-op delete bumped revision to %d", rev)
	}
}

func TestServiceSameDayRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := &fakeClock{now: noonToday}

	s1 := newTestService(t, store, clock)
	if _, err := s1.AddTransaction(ctx, "Chipotle", "12.50", "burrito"); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if _, err := s1.AddTransaction(ctx, "Subway", "8.99", ""); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	before, _ := s1.Snapshot()

	// Fresh process, same day, same store.
	s2 := newTestService(t, store, clock)
	after, _ := s2.Snapshot()

	if after.BalanceCents() != before.BalanceCents() {
		t.Errorf("balance after reload = %d, want %d", after.BalanceCents(), before.BalanceCents())
	}
	if len(after.Transactions) != len(before.Transactions) {
		t.Fatalf("transactions after reload = %d, want %d", len(after.Transactions), len(before.Transactions))
	}
	for i := range before.Transactions {
		b, a := before.Transactions[i], after.Transactions[i]
		if a.Merchant != b.Merchant || a.Amount != b.Amount || a.Note != b.Note || !a.Timestamp.Equal(b.Timestamp) {
			t.Errorf("transaction %d changed across reload: %+v vs %+v", i, b, a)
		}
	}
}

func TestServiceDayRollover(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := &fakeClock{now: noonToday}

	s1 := newTestService(t, store, clock)
	if _, err := s1.AddTransaction(ctx, "Chipotle", "12.50", ""); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}

	// Next day, fresh load.
	clock.now = noonToday.AddDate(0, 0, 1)
	s2 := newTestService(t, store, clock)

	l, _ := s2.Snapshot()
	if len(l.Transactions) != 0 || l.BalanceCents() != core.DefaultStartingBudgetCents {
		t.Fatalf("rollover did not reset: %+v", l)
	}

	// The reset itself is not persisted; yesterday's snapshot is still there
	// until the first mutation of the new day overwrites it.
	text, ok, _ := store.Get(ctx, SnapshotKey)
	if !ok {
		t.Fatal("stored snapshot vanished on rollover load")
	}
	snap, err := DecodeSnapshot(text)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if snap.SavedDate != core.DayKey(noonToday) {
		t.Errorf("rollover load rewrote the snapshot early: saved_date=%q", snap.SavedDate)
	}

	if _, err := s2.AddTransaction(ctx, "Deli", "4.00", ""); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	text, _, _ = store.Get(ctx, SnapshotKey)
	snap, err = DecodeSnapshot(text)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if snap.SavedDate != core.DayKey(clock.now) || len(snap.Transactions) != 1 {
		t.Errorf("first mutation of the day persisted %+v", snap)
	}
}

func TestServiceMalformedStoredSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	if err := store.Set(ctx, SnapshotKey, "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	clock := &fakeClock{now: noonToday}
	s := newTestService(t, store, clock)

	l, _ := s.Snapshot()
	if len(l.Transactions) != 0 || l.BalanceCents() != core.DefaultStartingBudgetCents {
		t.Errorf("malformed snapshot not treated as absent: %+v", l)
	}
}

func TestServicePublishesInMutationOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	clock := &fakeClock{now: noonToday}
	pub := &recordingPublisher{}
	s := newTestService(t, store, clock, WithPublisher(pub))

	if _, err := s.AddTransaction(ctx, "A", "1.00", ""); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if _, err := s.AddTransaction(ctx, "B", "2.00", ""); err != nil {
		t.Fatalf("AddTransaction: %v", err)
	}
	if !s.DeleteTransaction(ctx, 0) {
		t.Fatal("DeleteTransaction failed")
	}

	want := []int64{1, 2, 3}
	if len(pub.revisions) != len(want) {
		t.Fatalf("published %d revisions, want %d", len(pub.revisions), len(want))
	}
	for i, rev := range want {
		if pub.revisions[i] != rev {
			t.Errorf("publish order %v, want %v", pub.revisions, want)
			break
		}
	}
}
