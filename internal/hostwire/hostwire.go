// Package hostwire composes the record program, its persistence backend,
// event delivery and the companion model from host configuration.
package hostwire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Incarra/svm-contract/eventing/fanout"
	"github.com/Incarra/svm-contract/eventing/stream"
	"github.com/Incarra/svm-contract/incarra"
	"github.com/Incarra/svm-contract/internal/companion"
	"github.com/Incarra/svm-contract/internal/config"
	"github.com/Incarra/svm-contract/internal/ratelimit"
	"github.com/Incarra/svm-contract/internal/sigauth"
	"github.com/Incarra/svm-contract/policy/retry"
	"github.com/Incarra/svm-contract/recordstore/cached"
	recordinmem "github.com/Incarra/svm-contract/recordstore/inmem"
	recordmongo "github.com/Incarra/svm-contract/recordstore/mongo"
	recordsqlite "github.com/Incarra/svm-contract/recordstore/sqlite"
)

// storeRetryAttempts bounds transparent retries around the sqlite and
// mongo backends. The memory backend never needs them.
const storeRetryAttempts = 3

// Runtime contains the composed runtime dependencies for the server.
type Runtime struct {
	Program *incarra.Program
	Broker  *stream.Broker
	Model   companion.Model
	Auth    sigauth.Authenticator
	Limiter *ratelimit.Limiter
	Logger  *slog.Logger

	closers []func(context.Context) error
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if ctx == nil {
		return nil, incarra.ErrContextNil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*Runtime, error) {
		if closeStore != nil {
			_ = closeStore(context.WithoutCancel(ctx))
		}
		return nil, err
	}

	cachedStore, err := cached.New(store, cfg.CacheSize)
	if err != nil {
		return fail(fmt.Errorf("new runtime store cache: %w", err))
	}

	broker := stream.New(cfg.StreamHistory)
	events := fanout.New()
	if sink := newAgentEventLogSink(logger, cfg.LogFormat); sink != nil {
		if err := events.Register("log", sink); err != nil {
			return fail(fmt.Errorf("new runtime event sinks: %w", err))
		}
	}
	if err := events.Register("stream", broker); err != nil {
		return fail(fmt.Errorf("new runtime event sinks: %w", err))
	}

	program, err := incarra.NewProgram(incarra.Dependencies{
		RecordStore: cachedStore,
		Clock:       systemClock{},
		EventSink:   events,
		Namespace:   cfg.Namespace,
	})
	if err != nil {
		return fail(fmt.Errorf("new runtime program: %w", err))
	}

	model, err := newCompanionModel(ctx, cfg)
	if err != nil {
		return fail(err)
	}

	runtime := &Runtime{
		Program: program,
		Broker:  broker,
		Model:   model,
		Auth:    sigauth.Authenticator{Mode: sigauth.Mode(cfg.AuthMode)},
		Limiter: ratelimit.New(cfg.RateLimit, cfg.RateWindow),
		Logger:  logger,
	}
	if closeStore != nil {
		runtime.closers = append(runtime.closers, closeStore)
	}
	return runtime, nil
}

// Close releases backend connections. Call once after the HTTP server
// has stopped.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range r.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg config.Config) (incarra.RecordStore, func(context.Context) error, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		return recordinmem.New(), nil, nil
	case config.StoreBackendSQLite:
		store, err := recordsqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite record store: %w", err)
		}
		wrapped := retry.WrapRecordStore(store, retry.Config{MaxAttempts: storeRetryAttempts})
		return wrapped, func(context.Context) error { return store.Close() }, nil
	case config.StoreBackendMongo:
		store, err := recordmongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("open mongo record store: %w", err)
		}
		wrapped := retry.WrapRecordStore(store, retry.Config{MaxAttempts: storeRetryAttempts})
		return wrapped, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("open record store: unsupported backend %q", cfg.StoreBackend)
	}
}

func newCompanionModel(ctx context.Context, cfg config.Config) (companion.Model, error) {
	switch cfg.CompanionMode {
	case config.CompanionModeStatic:
		return companion.Static{}, nil
	case config.CompanionModeGemini:
		model, err := companion.NewGemini(ctx, companion.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			return nil, fmt.Errorf("new runtime companion: %w", err)
		}
		return model, nil
	default:
		return nil, fmt.Errorf("new runtime companion: unsupported mode %q", cfg.CompanionMode)
	}
}
