// Package fanout distributes published events to a set of named sinks. A
// failing sink does not stop delivery to the others; failures are joined and
// reported together.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Incarra/svm-contract/incarra"
)

var (
	ErrNilSink       = errors.New("event sink is nil")
	ErrSinkNameEmpty = errors.New("sink name is empty")
	ErrDuplicateSink = errors.New("sink name already registered")
)

// Sink multiplexes one publish across every registered sink in registration
// order.
type Sink struct {
	mu    sync.RWMutex
	names []string
	sinks map[string]incarra.EventSink
}

var _ incarra.EventSink = (*Sink)(nil)

func New() *Sink {
	return &Sink{sinks: map[string]incarra.EventSink{}}
}

func (s *Sink) Register(name string, sink incarra.EventSink) error {
	if name == "" {
		return ErrSinkNameEmpty
	}
	if sink == nil {
		return fmt.Errorf("%w: %q", ErrNilSink, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sinks[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSink, name)
	}
	s.names = append(s.names, name)
	s.sinks[name] = sink
	return nil
}

func (s *Sink) Publish(ctx context.Context, event incarra.Event) error {
	if ctx == nil {
		return incarra.ErrContextNil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	s.mu.RLock()
	names := append([]string(nil), s.names...)
	sinks := make(map[string]incarra.EventSink, len(s.sinks))
	for name, sink := range s.sinks {
		sinks[name] = sink
	}
	s.mu.RUnlock()

	var errs []error
	for _, name := range names {
		if err := sinks[name].Publish(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("sink %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
