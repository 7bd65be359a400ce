// Package stream buffers recent events per record and serves cursor-based
// replay. Transports poll EventsAfter to deliver live updates; a bounded
// history keeps slow readers from pinning memory.
package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Incarra/svm-contract/incarra"
)

const DefaultHistoryLimit = 32

var (
	ErrCursorInvalid = errors.New("stream cursor is invalid")
	ErrCursorExpired = errors.New("stream cursor expired")
)

// StreamEvent is one event with its per-record sequence number. IDs start at
// 1 and never repeat for a record.
type StreamEvent struct {
	ID    int64         `json:"id"`
	Event incarra.Event `json:"event"`
}

type Broker struct {
	mu           sync.RWMutex
	historyLimit int
	records      map[incarra.RecordID]*recordHistory
}

type recordHistory struct {
	nextID int64
	events []StreamEvent
}

var _ incarra.EventSink = (*Broker)(nil)

func New(historyLimit int) *Broker {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Broker{
		historyLimit: historyLimit,
		records:      make(map[incarra.RecordID]*recordHistory),
	}
}

func (b *Broker) Publish(ctx context.Context, event incarra.Event) error {
	if ctx == nil {
		return incarra.ErrContextNil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err := incarra.ValidateEvent(event); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	history := b.recordLocked(event.RecordID)
	next := StreamEvent{
		ID:    history.nextID,
		Event: event,
	}
	history.nextID++
	history.events = append(history.events, next)
	if len(history.events) > b.historyLimit {
		drop := len(history.events) - b.historyLimit
		history.events = history.events[drop:]
	}
	return nil
}

// EventsAfter returns the buffered events of one record with IDs above
// cursor. Cursor 0 means "from the beginning". A cursor under the retained
// window reports ErrCursorExpired so readers know replay is incomplete.
func (b *Broker) EventsAfter(id incarra.RecordID, cursor int64) ([]StreamEvent, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: field=record_id", incarra.ErrFieldEmpty)
	}
	if cursor < 0 {
		return nil, fmt.Errorf("%w: cursor must be non-negative", ErrCursorInvalid)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	history, ok := b.records[id]
	if !ok {
		if cursor == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: no events for record %q", ErrCursorInvalid, id)
	}

	if cursor >= history.nextID {
		return nil, fmt.Errorf(
			"%w: cursor=%d is beyond latest id=%d",
			ErrCursorInvalid,
			cursor,
			history.nextID-1,
		)
	}

	if len(history.events) > 0 {
		oldestAvailable := history.events[0].ID - 1
		if cursor < oldestAvailable {
			return nil, fmt.Errorf(
				"%w: cursor=%d oldest_available=%d",
				ErrCursorExpired,
				cursor,
				oldestAvailable,
			)
		}
	}

	start := 0
	for start < len(history.events) && history.events[start].ID <= cursor {
		start++
	}

	out := make([]StreamEvent, len(history.events)-start)
	copy(out, history.events[start:])
	return out, nil
}

func (b *Broker) recordLocked(id incarra.RecordID) *recordHistory {
	history, ok := b.records[id]
	if ok {
		return history
	}
	history = &recordHistory{
		nextID: 1,
		events: make([]StreamEvent, 0, b.historyLimit),
	}
	b.records[id] = history
	return history
}
