package app

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestLoggingMiddleware_LogsRequestAndOwner(t *testing.T) {
	t.Parallel()

	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuffer, nil))

	handler := requestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	request := httptest.NewRequest(http.MethodPost, "/v1/agents/owner-123/interactions", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status mismatch: got=%d want=%d", recorder.Code, http.StatusCreated)
	}

	logLine := logBuffer.String()
	assertLogContains(t, logLine, "msg=\"http request\"")
	assertLogContains(t, logLine, "method=POST")
	assertLogContains(t, logLine, "path=/v1/agents/owner-123/interactions")
	assertLogContains(t, logLine, "status=201")
	assertLogContains(t, logLine, "bytes=2")
	assertLogContains(t, logLine, "owner=owner-123")
	assertLogContains(t, logLine, "duration_ms=")
}

func TestRequestLoggingMiddleware_InitializeRouteOmitsOwner(t *testing.T) {
	t.Parallel()

	var logBuffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuffer, nil))

	handler := requestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	request := httptest.NewRequest(http.MethodPost, "/v1/agents", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("status mismatch: got=%d want=%d", recorder.Code, http.StatusOK)
	}

	logLine := logBuffer.String()
	assertLogContains(t, logLine, "method=POST")
	assertLogContains(t, logLine, "path=/v1/agents")
	assertLogContains(t, logLine, "status=200")
	assertLogContains(t, logLine, "bytes=2")
	if strings.Contains(logLine, "owner=") {
		t.Fatalf("expected no owner attribute for initialize route log line: %s", logLine)
	}
}

func TestStatusCapturingWriter_FlushDelegates(t *testing.T) {
	t.Parallel()

	base := &flushWriter{header: make(http.Header)}
	writer := &statusCapturingWriter{ResponseWriter: base}

	flusher, ok := any(writer).(http.Flusher)
	if !ok {
		t.Fatalf("statusCapturingWriter must implement http.Flusher")
	}

	flusher.Flush()
	if !base.flushed {
		t.Fatalf("expected flush to delegate to the underlying writer")
	}
}

func assertLogContains(t *testing.T, logLine, needle string) {
	t.Helper()
	if !strings.Contains(logLine, needle) {
		t.Fatalf("log line missing %q: %s", needle, logLine)
	}
}

type flushWriter struct {
	header  http.Header
	flushed bool
}

func (w *flushWriter) Header() http.Header { return w.header }

func (w *flushWriter) Write(p []byte) (int, error) { return len(p), nil }

func (w *flushWriter) WriteHeader(int) {}

func (w *flushWriter) Flush() { w.flushed = true }
