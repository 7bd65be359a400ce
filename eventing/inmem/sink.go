// Package inmem captures published events in memory. Hosts use it where a
// durable event pipeline is not configured; tests use it to assert on event
// flow.
package inmem

import (
	"context"
	"sync"

	"github.com/Incarra/svm-contract/incarra"
)

// Sink records events in publish order and exposes deterministic snapshots.
type Sink struct {
	mu     sync.RWMutex
	events []incarra.Event
}

var _ incarra.EventSink = (*Sink)(nil)

func New() *Sink {
	return &Sink{events: make([]incarra.Event, 0)}
}

func (s *Sink) Publish(ctx context.Context, event incarra.Event) error {
	if ctx == nil {
		return incarra.ErrContextNil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err := incarra.ValidateEvent(event); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	return nil
}

// Events returns every captured event in publish order.
func (s *Sink) Events() []incarra.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]incarra.Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventsFor returns the captured events of one record in publish order.
func (s *Sink) EventsFor(id incarra.RecordID) []incarra.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []incarra.Event
	for _, event := range s.events {
		if event.RecordID == id {
			out = append(out, event)
		}
	}
	return out
}

// Len reports how many events have been captured.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.events)
}
