// Package archive stores finished report texts outside the live ledger.
// The worker feeds it after every ledger change so the day's report survives
// the next morning's reset.
package archive

import "context"

// Entry is one archived rendering of a day's report.
type Entry struct {
	Day          string
	Revision     int64
	BalanceCents int64
	Report       string
}

// Writer is the port for outbound report archive adapters.
type Writer interface {
	ArchiveReport(ctx context.Context, e Entry) error
}
