// Package retry decorates record stores and event sinks with deterministic,
// error-only retries. Domain outcomes are never retried; only errors that
// look transient (network, io) get further attempts.
package retry

import (
	"context"
	"errors"

	"github.com/Incarra/svm-contract/incarra"
)

// Config controls retry behavior for wrapped store and sink calls.
type Config struct {
	MaxAttempts int
	ShouldRetry func(error) bool
}

// Permanent reports whether err is a deterministic domain outcome that more
// attempts cannot change.
func Permanent(err error) bool {
	for _, sentinel := range permanentErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

var permanentErrors = []error{
	incarra.ErrRecordExists,
	incarra.ErrRecordNotFound,
	incarra.ErrRecordVersionConflict,
	incarra.ErrRecordInvalid,
	incarra.ErrSuccessionInvalid,
	incarra.ErrCodecInvalid,
	incarra.ErrFieldEmpty,
	incarra.ErrFieldTooLong,
	incarra.ErrCapacityExceeded,
	incarra.ErrGainOutOfRange,
	incarra.ErrUnauthorized,
	incarra.ErrRecordInactive,
	incarra.ErrIdentityFormatInvalid,
	incarra.ErrIdentityNotBound,
	incarra.ErrIdentityAlreadyVerified,
	incarra.ErrVerificationProofTooShort,
	incarra.ErrEventInvalid,
	incarra.ErrContextNil,
}

// WrapRecordStore wraps a record store with retries.
func WrapRecordStore(store incarra.RecordStore, cfg Config) incarra.RecordStore {
	if store == nil {
		return nil
	}
	return &storeWrapper{next: store, cfg: cfg}
}

type storeWrapper struct {
	next incarra.RecordStore
	cfg  Config
}

func (w *storeWrapper) Create(ctx context.Context, rec incarra.Record) error {
	return attempt(ctx, w.cfg, func() error {
		return w.next.Create(ctx, rec)
	})
}

func (w *storeWrapper) Load(ctx context.Context, id incarra.RecordID) (incarra.Record, error) {
	var rec incarra.Record
	err := attempt(ctx, w.cfg, func() error {
		var loadErr error
		rec, loadErr = w.next.Load(ctx, id)
		return loadErr
	})
	if err != nil {
		return incarra.Record{}, err
	}
	return rec, nil
}

func (w *storeWrapper) Save(ctx context.Context, rec incarra.Record) error {
	return attempt(ctx, w.cfg, func() error {
		return w.next.Save(ctx, rec)
	})
}

// WrapEventSink wraps an event sink with retries.
func WrapEventSink(sink incarra.EventSink, cfg Config) incarra.EventSink {
	if sink == nil {
		return nil
	}
	return &sinkWrapper{next: sink, cfg: cfg}
}

type sinkWrapper struct {
	next incarra.EventSink
	cfg  Config
}

func (w *sinkWrapper) Publish(ctx context.Context, event incarra.Event) error {
	return attempt(ctx, w.cfg, func() error {
		return w.next.Publish(ctx, event)
	})
}

func attempt(ctx context.Context, cfg Config, op func() error) error {
	if ctx == nil {
		return incarra.ErrContextNil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	attempts := normalizedAttempts(cfg.MaxAttempts)
	var lastErr error
	for n := 1; n <= attempts; n++ {
		err := op()
		if err == nil {
			return nil
		}
		lastErr = err
		if n == attempts || !shouldRetry(ctx, cfg, err) {
			break
		}
	}
	return lastErr
}

func normalizedAttempts(maxAttempts int) int {
	if maxAttempts < 1 {
		return 1
	}
	return maxAttempts
}

func shouldRetry(ctx context.Context, cfg Config, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if cfg.ShouldRetry == nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		return !Permanent(err)
	}
	return cfg.ShouldRetry(err)
}
