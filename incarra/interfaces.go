package incarra

import "context"

// RecordStore persists records keyed by their ledger address.
//
// Create requires Record.Version == 0, stores the record at version 1, and
// fails with ErrRecordExists when the address is taken. Save uses
// optimistic concurrency: it fails with ErrRecordVersionConflict when the
// stored version differs from Record.Version, with ErrRecordNotFound when
// the record was never created, and bumps the stored version by one on
// success. Implementations deep-copy on the way in and out.
type RecordStore interface {
	Create(ctx context.Context, rec Record) error
	Load(ctx context.Context, id RecordID) (Record, error)
	Save(ctx context.Context, rec Record) error
}

// EventSink receives normalized record transition events.
type EventSink interface {
	Publish(ctx context.Context, event Event) error
}

// Clock supplies unix timestamps at the dispatch boundary. Replays and
// tests substitute a scripted implementation so transitions stay
// deterministic.
type Clock interface {
	Now(ctx context.Context) (int64, error)
}
