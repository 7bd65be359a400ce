// Package inmem persists agent records in process memory. It is the default
// backend for tests and single-node hosts that can afford to lose state on
// restart.
package inmem

import (
	"context"
	"fmt"
	"sync"

	"github.com/Incarra/svm-contract/incarra"
)

// Store keeps one record per ID with optimistic version checks.
type Store struct {
	mu      sync.RWMutex
	records map[incarra.RecordID]incarra.Record
}

var _ incarra.RecordStore = (*Store)(nil)

func New() *Store {
	return &Store{records: map[incarra.RecordID]incarra.Record{}}
}

func (s *Store) Create(ctx context.Context, rec incarra.Record) error {
	if err := guard(ctx); err != nil {
		return err
	}
	if err := incarra.ValidateRecord(rec); err != nil {
		return err
	}
	if rec.Version != 0 {
		return fmt.Errorf(
			"%w: record %q expected version 0 on create, got %d",
			incarra.ErrRecordVersionConflict,
			rec.ID,
			rec.Version,
		)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("%w: record %q", incarra.ErrRecordExists, rec.ID)
	}
	next := incarra.CloneRecord(rec)
	next.Version = 1
	s.records[rec.ID] = next
	return nil
}

func (s *Store) Load(ctx context.Context, id incarra.RecordID) (incarra.Record, error) {
	if err := guard(ctx); err != nil {
		return incarra.Record{}, err
	}
	if id == "" {
		return incarra.Record{}, fmt.Errorf("%w: field=record_id", incarra.ErrFieldEmpty)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return incarra.Record{}, incarra.ErrRecordNotFound
	}
	return incarra.CloneRecord(rec), nil
}

func (s *Store) Save(ctx context.Context, rec incarra.Record) error {
	if err := guard(ctx); err != nil {
		return err
	}
	if err := incarra.ValidateRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.records[rec.ID]
	switch {
	case !exists:
		return fmt.Errorf("%w: record %q", incarra.ErrRecordNotFound, rec.ID)
	case rec.Version != current.Version:
		return fmt.Errorf(
			"%w: record %q expected version %d, got %d",
			incarra.ErrRecordVersionConflict,
			rec.ID,
			current.Version,
			rec.Version,
		)
	default:
		next := incarra.CloneRecord(rec)
		next.Version = current.Version + 1
		s.records[rec.ID] = next
		return nil
	}
}

func guard(ctx context.Context) error {
	if ctx == nil {
		return incarra.ErrContextNil
	}
	return ctx.Err()
}
