package retry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Incarra/svm-contract/incarra"
	"github.com/Incarra/svm-contract/policy/retry"
)

var errTransient = errors.New("backend io timeout")

// flakyStore fails a scripted number of times before succeeding.
type flakyStore struct {
	failures int
	err      error
	calls    int
	record   incarra.Record
}

var _ incarra.RecordStore = (*flakyStore)(nil)

func (f *flakyStore) step() error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func (f *flakyStore) Create(_ context.Context, _ incarra.Record) error { return f.step() }

func (f *flakyStore) Load(_ context.Context, _ incarra.RecordID) (incarra.Record, error) {
	if err := f.step(); err != nil {
		return incarra.Record{}, err
	}
	return f.record, nil
}

func (f *flakyStore) Save(_ context.Context, _ incarra.Record) error { return f.step() }

type flakySink struct {
	failures int
	err      error
	calls    int
}

var _ incarra.EventSink = (*flakySink)(nil)

func (f *flakySink) Publish(_ context.Context, _ incarra.Event) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func TestWrapRecordStore_RetriesTransientErrors(t *testing.T) {
	t.Parallel()

	inner := &flakyStore{failures: 2, err: errTransient}
	store := retry.WrapRecordStore(inner, retry.Config{MaxAttempts: 3})

	if err := store.Save(context.Background(), incarra.Record{}); err != nil {
		t.Fatalf("save after retries: %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("attempt count mismatch: got=%d want=3", inner.calls)
	}
}

func TestWrapRecordStore_PermanentErrorShortCircuits(t *testing.T) {
	t.Parallel()

	inner := &flakyStore{failures: 99, err: incarra.ErrRecordVersionConflict}
	store := retry.WrapRecordStore(inner, retry.Config{MaxAttempts: 5})

	err := store.Save(context.Background(), incarra.Record{})
	if !errors.Is(err, incarra.ErrRecordVersionConflict) {
		t.Fatalf("expected ErrRecordVersionConflict, got %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("permanent error was retried: %d attempts", inner.calls)
	}
}

func TestWrapRecordStore_AttemptsExhausted(t *testing.T) {
	t.Parallel()

	inner := &flakyStore{failures: 99, err: errTransient}
	store := retry.WrapRecordStore(inner, retry.Config{MaxAttempts: 2})

	if err := store.Create(context.Background(), incarra.Record{}); !errors.Is(err, errTransient) {
		t.Fatalf("expected last transient error, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("attempt count mismatch: got=%d want=2", inner.calls)
	}
}

func TestWrapRecordStore_CustomShouldRetryWins(t *testing.T) {
	t.Parallel()

	t.Run("suppresses retries", func(t *testing.T) {
		t.Parallel()
		inner := &flakyStore{failures: 99, err: errTransient}
		store := retry.WrapRecordStore(inner, retry.Config{
			MaxAttempts: 5,
			ShouldRetry: func(error) bool { return false },
		})
		if err := store.Save(context.Background(), incarra.Record{}); !errors.Is(err, errTransient) {
			t.Fatalf("unexpected error: %v", err)
		}
		if inner.calls != 1 {
			t.Fatalf("suppressed retry still ran: %d attempts", inner.calls)
		}
	})

	t.Run("forces retries", func(t *testing.T) {
		t.Parallel()
		inner := &flakyStore{failures: 1, err: incarra.ErrRecordVersionConflict}
		store := retry.WrapRecordStore(inner, retry.Config{
			MaxAttempts: 3,
			ShouldRetry: func(err error) bool { return errors.Is(err, incarra.ErrRecordVersionConflict) },
		})
		if err := store.Save(context.Background(), incarra.Record{}); err != nil {
			t.Fatalf("save: %v", err)
		}
		if inner.calls != 2 {
			t.Fatalf("attempt count mismatch: got=%d want=2", inner.calls)
		}
	})
}

func TestWrapRecordStore_NormalizesAttempts(t *testing.T) {
	t.Parallel()

	inner := &flakyStore{failures: 99, err: errTransient}
	store := retry.WrapRecordStore(inner, retry.Config{MaxAttempts: 0})

	if err := store.Save(context.Background(), incarra.Record{}); !errors.Is(err, errTransient) {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("zero max attempts did not normalize to one: %d", inner.calls)
	}
}

func TestWrapRecordStore_ContextPreflight(t *testing.T) {
	t.Parallel()

	inner := &flakyStore{}
	store := retry.WrapRecordStore(inner, retry.Config{MaxAttempts: 3})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Save(ctx, incarra.Record{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := store.Save(nil, incarra.Record{}); !errors.Is(err, incarra.ErrContextNil) {
		t.Fatalf("expected ErrContextNil, got %v", err)
	}
	if inner.calls != 0 {
		t.Fatalf("guarded calls reached the inner store: %d", inner.calls)
	}
}

func TestWrapRecordStore_LoadRetriesAndReturnsRecord(t *testing.T) {
	t.Parallel()

	want := incarra.Record{ID: "incarra_agent/owner-1", Owner: "owner-1", AgentName: "Nova"}
	inner := &flakyStore{failures: 1, err: errTransient, record: want}
	store := retry.WrapRecordStore(inner, retry.Config{MaxAttempts: 2})

	got, err := store.Load(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != want.ID || got.AgentName != want.AgentName {
		t.Fatalf("record mismatch: got=%+v want=%+v", got, want)
	}
	if inner.calls != 2 {
		t.Fatalf("attempt count mismatch: got=%d want=2", inner.calls)
	}
}

func TestWrapEventSink_RetriesPublish(t *testing.T) {
	t.Parallel()

	inner := &flakySink{failures: 1, err: errTransient}
	sink := retry.WrapEventSink(inner, retry.Config{MaxAttempts: 3})

	if err := sink.Publish(context.Background(), incarra.Event{}); err != nil {
		t.Fatalf("publish after retry: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("attempt count mismatch: got=%d want=2", inner.calls)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	t.Parallel()

	if store := retry.WrapRecordStore(nil, retry.Config{}); store != nil {
		t.Fatalf("expected nil wrapped store")
	}
	if sink := retry.WrapEventSink(nil, retry.Config{}); sink != nil {
		t.Fatalf("expected nil wrapped sink")
	}
}

func TestPermanent(t *testing.T) {
	t.Parallel()

	permanent := []error{
		incarra.ErrRecordExists,
		incarra.ErrRecordNotFound,
		incarra.ErrRecordVersionConflict,
		incarra.ErrRecordInactive,
		incarra.ErrUnauthorized,
		incarra.ErrCodecInvalid,
	}
	for _, err := range permanent {
		if !retry.Permanent(err) {
			t.Fatalf("expected %v to be permanent", err)
		}
	}
	if retry.Permanent(errTransient) {
		t.Fatalf("transient error classified permanent")
	}
	if retry.Permanent(nil) {
		t.Fatalf("nil error classified permanent")
	}
}
