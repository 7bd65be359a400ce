package testkit

import (
	"context"
	"fmt"
	"sync"

	"github.com/Incarra/svm-contract/incarra"
)

// Clock is a manually advanced clock for deterministic dispatch tests.
type Clock struct {
	mu  sync.Mutex
	now int64
	err error
}

func NewClock(start int64) *Clock {
	return &Clock{now: start}
}

var _ incarra.Clock = (*Clock)(nil)

func (c *Clock) Now(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	return c.now, nil
}

// Advance moves the clock forward by delta seconds.
func (c *Clock) Advance(delta int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += delta
}

// Set pins the clock to an absolute instant.
func (c *Clock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Fail makes every following Now call return err.
func (c *Clock) Fail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// RecordStore is an in-memory store for program tests. Error fields, when
// set, short-circuit the matching operation so failure paths can be
// scripted.
type RecordStore struct {
	mu      sync.RWMutex
	records map[incarra.RecordID]incarra.Record

	CreateErr error
	LoadErr   error
	SaveErr   error
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: map[incarra.RecordID]incarra.Record{},
	}
}

var _ incarra.RecordStore = (*RecordStore)(nil)

func (s *RecordStore) Create(_ context.Context, rec incarra.Record) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("%w: id=%q", incarra.ErrRecordExists, rec.ID)
	}
	stored := incarra.CloneRecord(rec)
	stored.Version = 1
	s.records[rec.ID] = stored
	return nil
}

func (s *RecordStore) Load(_ context.Context, id incarra.RecordID) (incarra.Record, error) {
	if s.LoadErr != nil {
		return incarra.Record{}, s.LoadErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return incarra.Record{}, fmt.Errorf("%w: id=%q", incarra.ErrRecordNotFound, id)
	}
	return incarra.CloneRecord(rec), nil
}

func (s *RecordStore) Save(_ context.Context, rec incarra.Record) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.records[rec.ID]
	if !ok {
		return fmt.Errorf("%w: id=%q", incarra.ErrRecordNotFound, rec.ID)
	}
	if current.Version != rec.Version {
		return fmt.Errorf(
			"%w: id=%q stored=%d got=%d",
			incarra.ErrRecordVersionConflict,
			rec.ID,
			current.Version,
			rec.Version,
		)
	}
	stored := incarra.CloneRecord(rec)
	stored.Version++
	s.records[rec.ID] = stored
	return nil
}

// Stored returns the persisted copy of id for direct assertions.
func (s *RecordStore) Stored(id incarra.RecordID) (incarra.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return incarra.Record{}, false
	}
	return incarra.CloneRecord(rec), true
}

// EventSink records published events in order. FailOn, when non-empty,
// rejects events of that type with Err.
type EventSink struct {
	mu     sync.RWMutex
	events []incarra.Event

	FailOn incarra.EventType
	Err    error
}

func NewEventSink() *EventSink {
	return &EventSink{
		events: make([]incarra.Event, 0),
	}
}

var _ incarra.EventSink = (*EventSink)(nil)

func (s *EventSink) Publish(_ context.Context, event incarra.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOn != "" && event.Type == s.FailOn {
		if s.Err != nil {
			return s.Err
		}
		return fmt.Errorf("scripted publish failure for %s", event.Type)
	}
	s.events = append(s.events, event)
	return nil
}

func (s *EventSink) Events() []incarra.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]incarra.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Types returns just the event types, in publish order.
func (s *EventSink) Types() []incarra.EventType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]incarra.EventType, len(s.events))
	for i := range s.events {
		out[i] = s.events[i].Type
	}
	return out
}
