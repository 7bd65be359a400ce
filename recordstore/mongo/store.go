// Package mongo persists agent records in a MongoDB collection. Records are
// stored as browsable documents keyed by record_id with a unique index, and
// writes are guarded by the same optimistic version checks as the other
// backends.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Incarra/svm-contract/incarra"
)

const (
	connectTimeout = 10 * time.Second
	collectionName = "agent_records"
)

// Store wraps a MongoDB client scoped to one records collection.
type Store struct {
	client  *mongodriver.Client
	records *mongodriver.Collection
}

var _ incarra.RecordStore = (*Store)(nil)

// Open connects to MongoDB at uri, verifies the connection and prepares the
// records collection of the named database.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}

	records := client.Database(database).Collection(collectionName)
	_, err = records.Indexes().CreateOne(ctx, mongodriver.IndexModel{
		Keys:    bson.D{{Key: "record_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create record index: %w", err)
	}

	return &Store{client: client, records: records}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
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

	doc := newRecordDocument(rec)
	doc.Version = 1
	if _, err := s.records.InsertOne(ctx, doc); err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
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

	var doc recordDocument
	err := s.records.FindOne(ctx, bson.M{"record_id": id}).Decode(&doc)
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return incarra.Record{}, incarra.ErrRecordNotFound
	}
	if err != nil {
		return incarra.Record{}, fmt.Errorf("load record: %w", err)
	}
	return doc.record(), nil
}

func (s *Store) Save(ctx context.Context, rec incarra.Record) error {
	if ctx == nil {
		return incarra.ErrContextNil
	}
	if err := incarra.ValidateRecord(rec); err != nil {
		return err
	}

	doc := newRecordDocument(rec)
	doc.Version = rec.Version + 1
	res, err := s.records.ReplaceOne(ctx,
		bson.M{"record_id": rec.ID, "version": rec.Version},
		doc,
	)
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	if res.MatchedCount != 0 {
		return nil
	}

	// The guarded replace matched nothing: either the record is missing or
	// the caller holds a stale version.
	count, err := s.records.CountDocuments(ctx, bson.M{"record_id": rec.ID})
	if err != nil {
		return fmt.Errorf("save record version probe: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: record %q", incarra.ErrRecordNotFound, rec.ID)
	}
	return fmt.Errorf(
		"%w: record %q version %d is stale",
		incarra.ErrRecordVersionConflict,
		rec.ID,
		rec.Version,
	)
}
