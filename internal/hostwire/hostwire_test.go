package hostwire_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Incarra/svm-contract/incarra"
	"github.com/Incarra/svm-contract/internal/config"
	"github.com/Incarra/svm-contract/internal/hostwire"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRuntimeMemoryBackendDispatchReachesBroker(t *testing.T) {
	t.Parallel()

	runtime, err := hostwire.New(context.Background(), config.Default(), discardLogger())
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	t.Cleanup(func() { _ = runtime.Close(context.Background()) })

	result, err := runtime.Program.Dispatch(context.Background(), incarra.InitializeAgent{
		Caller:    "owner-1",
		AgentName: "Nova",
	})
	if err != nil {
		t.Fatalf("dispatch initialize: %v", err)
	}
	if result.Record.AgentName != "Nova" {
		t.Fatalf("agent name mismatch: got=%q want=%q", result.Record.AgentName, "Nova")
	}

	buffered, err := runtime.Broker.EventsAfter(runtime.Program.RecordIDFor("owner-1"), 0)
	if err != nil {
		t.Fatalf("events after: %v", err)
	}
	if len(buffered) != 1 {
		t.Fatalf("buffered events mismatch: got=%d want=1", len(buffered))
	}
	if buffered[0].Event.Type != incarra.EventTypeAgentCreated {
		t.Fatalf("event type mismatch: got=%s want=%s", buffered[0].Event.Type, incarra.EventTypeAgentCreated)
	}
}

func TestRuntimeSQLiteBackendPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.StoreBackend = config.StoreBackendSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "agents.db")

	runtime, err := hostwire.New(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	if _, err := runtime.Program.Dispatch(context.Background(), incarra.InitializeAgent{
		Caller:    "owner-1",
		AgentName: "Nova",
	}); err != nil {
		t.Fatalf("dispatch initialize: %v", err)
	}
	if err := runtime.Close(context.Background()); err != nil {
		t.Fatalf("close runtime: %v", err)
	}

	reopened, err := hostwire.New(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("reopen runtime: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close(context.Background()) })

	rec, err := reopened.Program.Record(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("load record after reopen: %v", err)
	}
	if rec.AgentName != "Nova" {
		t.Fatalf("agent name mismatch after reopen: got=%q want=%q", rec.AgentName, "Nova")
	}
}

func TestRuntimeStaticCompanionReplies(t *testing.T) {
	t.Parallel()

	runtime, err := hostwire.New(context.Background(), config.Default(), discardLogger())
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	t.Cleanup(func() { _ = runtime.Close(context.Background()) })

	reply, err := runtime.Model.Reply(context.Background(), "persona", "status check")
	if err != nil {
		t.Fatalf("companion reply: %v", err)
	}
	if !strings.Contains(reply, "static_reply") {
		t.Fatalf("expected static reply marker, got=%q", reply)
	}
}

func TestRuntimeGeminiModeRequiresAPIKey(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.CompanionMode = config.CompanionModeGemini
	cfg.GeminiAPIKey = ""

	if _, err := hostwire.New(context.Background(), cfg, discardLogger()); err == nil {
		t.Fatalf("expected companion config validation error")
	}
}

func TestRuntimeRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.StoreBackend = "postgres"

	if _, err := hostwire.New(context.Background(), cfg, discardLogger()); err == nil {
		t.Fatalf("expected backend validation error")
	}
}

func TestRuntimeNilContext(t *testing.T) {
	t.Parallel()

	if _, err := hostwire.New(nil, config.Default(), discardLogger()); !errors.Is(err, incarra.ErrContextNil) {
		t.Fatalf("expected ErrContextNil, got %v", err)
	}
}
