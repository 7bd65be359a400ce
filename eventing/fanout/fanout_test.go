package fanout_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Incarra/svm-contract/eventing/fanout"
	"github.com/Incarra/svm-contract/incarra"
)

// scriptedSink records delivered events and can be told to fail.
type scriptedSink struct {
	events []incarra.Event
	err    error
}

var _ incarra.EventSink = (*scriptedSink)(nil)

func (s *scriptedSink) Publish(_ context.Context, event incarra.Event) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func testEvent() incarra.Event {
	return incarra.Event{
		Type:      incarra.EventTypeAgentCreated,
		RecordID:  "incarra_agent/owner-1",
		Owner:     "owner-1",
		Timestamp: 1_700_000_000,
	}
}

func TestSink_DeliversToEverySink(t *testing.T) {
	t.Parallel()

	first := &scriptedSink{}
	second := &scriptedSink{}
	sink := fanout.New()
	if err := sink.Register("first", first); err != nil {
		t.Fatalf("register first: %v", err)
	}
	if err := sink.Register("second", second); err != nil {
		t.Fatalf("register second: %v", err)
	}

	if err := sink.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("delivery mismatch: first=%d second=%d", len(first.events), len(second.events))
	}
}

func TestSink_FailingSinkDoesNotStopDelivery(t *testing.T) {
	t.Parallel()

	broken := &scriptedSink{err: errors.New("sink offline")}
	healthy := &scriptedSink{}
	sink := fanout.New()
	if err := sink.Register("broken", broken); err != nil {
		t.Fatalf("register broken: %v", err)
	}
	if err := sink.Register("healthy", healthy); err != nil {
		t.Fatalf("register healthy: %v", err)
	}

	err := sink.Publish(context.Background(), testEvent())
	if err == nil {
		t.Fatalf("expected publish error")
	}
	if !strings.Contains(err.Error(), `sink "broken"`) {
		t.Fatalf("error does not name the failing sink: %v", err)
	}
	if len(healthy.events) != 1 {
		t.Fatalf("healthy sink skipped after earlier failure: %d", len(healthy.events))
	}
}

func TestSink_RegisterRejections(t *testing.T) {
	t.Parallel()

	sink := fanout.New()
	if err := sink.Register("", &scriptedSink{}); !errors.Is(err, fanout.ErrSinkNameEmpty) {
		t.Fatalf("expected ErrSinkNameEmpty, got %v", err)
	}
	if err := sink.Register("log", nil); !errors.Is(err, fanout.ErrNilSink) {
		t.Fatalf("expected ErrNilSink, got %v", err)
	}

	if err := sink.Register("log", &scriptedSink{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := sink.Register("log", &scriptedSink{}); !errors.Is(err, fanout.ErrDuplicateSink) {
		t.Fatalf("expected ErrDuplicateSink, got %v", err)
	}
}

func TestSink_PublishGuardsContext(t *testing.T) {
	t.Parallel()

	inner := &scriptedSink{}
	sink := fanout.New()
	if err := sink.Register("inner", inner); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := sink.Publish(nil, testEvent()); !errors.Is(err, incarra.ErrContextNil) {
		t.Fatalf("expected ErrContextNil, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sink.Publish(ctx, testEvent()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(inner.events) != 0 {
		t.Fatalf("guarded publish reached a sink")
	}
}

func TestSink_PublishWithoutSinksIsNoop(t *testing.T) {
	t.Parallel()

	if err := fanout.New().Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish with no sinks: %v", err)
	}
}
