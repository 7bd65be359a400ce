// Package sqlite persists agent records in a SQLite database. Records travel
// through the fixed binary layout; id, owner and version are kept as plain
// columns so operators can inspect the table directly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Incarra/svm-contract/incarra"
)

// Store wraps a sql.DB connection to a SQLite database.
type Store struct {
	db *sql.DB
}

var _ incarra.RecordStore = (*Store)(nil)

// Open opens (or creates) a SQLite database at path and runs schema
// migrations.
func Open(path string) (*Store, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS agent_records (
    id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    version INTEGER NOT NULL,
    payload BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Create(ctx context.Context, rec incarra.Record) error {
	if ctx == nil {
		return incarra.ErrContextNil
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO agent_records (id, owner, version, payload, created_at, updated_at)
		 VALUES (?, ?, 1, ?, ?, ?)`,
		rec.ID, rec.Owner, incarra.EncodeRecord(rec), rec.CreatedAt, rec.LastInteraction,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: record %q", incarra.ErrRecordExists, rec.ID)
		}
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id incarra.RecordID) (incarra.Record, error) {
	if ctx == nil {
		return incarra.Record{}, incarra.ErrContextNil
	}
	if id == "" {
		return incarra.Record{}, fmt.Errorf("%w: field=record_id", incarra.ErrFieldEmpty)
	}

	var (
		version int64
		payload []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT version, payload FROM agent_records WHERE id = ?`, id,
	).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return incarra.Record{}, incarra.ErrRecordNotFound
	}
	if err != nil {
		return incarra.Record{}, fmt.Errorf("load record: %w", err)
	}

	rec, err := incarra.DecodeRecord(payload)
	if err != nil {
		return incarra.Record{}, fmt.Errorf("decode record %q: %w", id, err)
	}
	rec.Version = version
	return rec, nil
}

func (s *Store) Save(ctx context.Context, rec incarra.Record) error {
	if ctx == nil {
		return incarra.ErrContextNil
	}
	if err := incarra.ValidateRecord(rec); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE agent_records SET version = version + 1, payload = ?, updated_at = ?
		 WHERE id = ? AND version = ?`,
		incarra.EncodeRecord(rec), rec.LastInteraction, rec.ID, rec.Version,
	)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save record rows affected: %w", err)
	}
	if n != 0 {
		return nil
	}

	// The guarded update matched nothing: either the record is missing or
	// the caller holds a stale version.
	var current int64
	err = s.db.QueryRowContext(ctx,
		`SELECT version FROM agent_records WHERE id = ?`, rec.ID,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: record %q", incarra.ErrRecordNotFound, rec.ID)
	}
	if err != nil {
		return fmt.Errorf("save record version probe: %w", err)
	}
	return fmt.Errorf(
		"%w: record %q expected version %d, got %d",
		incarra.ErrRecordVersionConflict,
		rec.ID,
		current,
		rec.Version,
	)
}
