package archive

import (
	"context"
	"log/slog"
	"sync"
)

// MemoryWriter keeps the latest archived entry per day in memory. It is the
// default archive when no spreadsheet is configured, and the fake in tests.
type MemoryWriter struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{entries: make(map[string]Entry)}
}

func (w *MemoryWriter) ArchiveReport(ctx context.Context, e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[e.Day] = e

	slog.DebugContext(ctx, "Report archived in memory",
		"day", e.Day,
		"revision", e.Revision,
		"balance_cents", e.BalanceCents)
	return nil
}

// Get returns the latest archived entry for a day.
func (w *MemoryWriter) Get(day string) (Entry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entries[day]
	return e, ok
}
