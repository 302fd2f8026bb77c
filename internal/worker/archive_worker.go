// Package worker consumes ledger-changed messages and archives the
// corresponding report renderings.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mealtab/internal/amqp"
	"mealtab/internal/archive"
	"mealtab/internal/kv"
	"mealtab/internal/ledger"
	"mealtab/internal/report"
)

// ArchiveWorker rebuilds the ledger from the shared snapshot store and
// writes the formatted report to the archive. Messages are a trigger only;
// the snapshot is always the source of truth.
type ArchiveWorker struct {
	store        kv.Store
	archive      archive.Writer
	lastRevision int64
}

func NewArchiveWorker(store kv.Store, w archive.Writer) *ArchiveWorker {
	return &ArchiveWorker{
		store:   store,
		archive: w,
	}
}

// HandleLedgerChanged processes one ledger-changed message. Stale revisions
// and day mismatches (the ledger already rolled over) are skipped quietly;
// a missing or corrupt snapshot is logged and dropped rather than requeued,
// since replaying it cannot help.
func (w *ArchiveWorker) HandleLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	if msg.Revision <= w.lastRevision {
		slog.DebugContext(ctx, "Skipping stale ledger change",
			"revision", msg.Revision,
			"last_archived", w.lastRevision)
		return nil
	}

	snap, ok, err := w.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	if !ok {
		slog.WarnContext(ctx, "No snapshot for ledger change", "day", msg.Day)
		return nil
	}
	if snap.SavedDate != msg.Day {
		slog.InfoContext(ctx, "Snapshot moved on, skipping archive",
			"message_day", msg.Day,
			"snapshot_day", snap.SavedDate)
		return nil
	}

	if err := w.archiveSnapshot(ctx, snap, msg.Revision); err != nil {
		return err
	}
	w.lastRevision = msg.Revision
	return nil
}

// ArchiveCurrent archives whatever the store holds right now. Backup
// mechanism for messages lost while the worker was down.
func (w *ArchiveWorker) ArchiveCurrent(ctx context.Context) error {
	snap, ok, err := w.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	if !ok {
		slog.DebugContext(ctx, "No snapshot to archive")
		return nil
	}
	return w.archiveSnapshot(ctx, snap, w.lastRevision)
}

func (w *ArchiveWorker) loadSnapshot(ctx context.Context) (ledger.Snapshot, bool, error) {
	text, ok, err := w.store.Get(ctx, ledger.SnapshotKey)
	if err != nil {
		return ledger.Snapshot{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return ledger.Snapshot{}, false, nil
	}
	snap, err := ledger.DecodeSnapshot(text)
	if err != nil {
		slog.ErrorContext(ctx, "Stored snapshot unreadable", "error", err)
		return ledger.Snapshot{}, false, nil
	}
	return snap, true, nil
}

func (w *ArchiveWorker) archiveSnapshot(ctx context.Context, snap ledger.Snapshot, revision int64) error {
	l, err := snap.Ledger()
	if err != nil {
		slog.ErrorContext(ctx, "Snapshot sequence corrupt, not archiving", "error", err, "day", snap.SavedDate)
		return nil
	}

	day, err := time.ParseInLocation("2006-01-02", snap.SavedDate, time.Local)
	if err != nil {
		slog.ErrorContext(ctx, "Snapshot day unparsable, not archiving", "error", err, "day", snap.SavedDate)
		return nil
	}

	entry := archive.Entry{
		Day:          snap.SavedDate,
		Revision:     revision,
		BalanceCents: l.BalanceCents(),
		Report:       report.Format(l, day),
	}
	if err := w.archive.ArchiveReport(ctx, entry); err != nil {
		return fmt.Errorf("archive report for %s: %w", snap.SavedDate, err)
	}

	slog.InfoContext(ctx, "Report archived",
		"day", entry.Day,
		"revision", entry.Revision,
		"balance_cents", entry.BalanceCents)
	return nil
}
