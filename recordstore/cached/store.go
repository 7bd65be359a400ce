// Package cached wraps another RecordStore with an in-process LRU read
// cache. Writes go through to the inner store and refresh the cache on
// success; a failed write evicts the entry so the next read sees the inner
// store's truth.
package cached

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Incarra/svm-contract/incarra"
)

// DefaultSize bounds the cache when the caller does not pick a size.
const DefaultSize = 1024

type Store struct {
	inner incarra.RecordStore
	cache *lru.Cache[incarra.RecordID, incarra.Record]
}

var _ incarra.RecordStore = (*Store)(nil)

func New(inner incarra.RecordStore, size int) (*Store, error) {
	if inner == nil {
		return nil, fmt.Errorf("new cached store: %w", incarra.ErrMissingRecordStore)
	}
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[incarra.RecordID, incarra.Record](size)
	if err != nil {
		return nil, fmt.Errorf("new cache: %w", err)
	}
	return &Store{inner: inner, cache: cache}, nil
}

func (s *Store) Create(ctx context.Context, rec incarra.Record) error {
	if err := s.inner.Create(ctx, rec); err != nil {
		s.cache.Remove(rec.ID)
		return err
	}
	// The inner store persists a fresh record at version 1.
	next := incarra.CloneRecord(rec)
	next.Version = 1
	s.cache.Add(rec.ID, next)
	return nil
}

func (s *Store) Load(ctx context.Context, id incarra.RecordID) (incarra.Record, error) {
	if rec, ok := s.cache.Get(id); ok {
		return incarra.CloneRecord(rec), nil
	}
	rec, err := s.inner.Load(ctx, id)
	if err != nil {
		return incarra.Record{}, err
	}
	s.cache.Add(id, incarra.CloneRecord(rec))
	return rec, nil
}

func (s *Store) Save(ctx context.Context, rec incarra.Record) error {
	if err := s.inner.Save(ctx, rec); err != nil {
		// On a version conflict the cached copy is what went stale.
		s.cache.Remove(rec.ID)
		return err
	}
	next := incarra.CloneRecord(rec)
	next.Version = rec.Version + 1
	s.cache.Add(rec.ID, next)
	return nil
}
