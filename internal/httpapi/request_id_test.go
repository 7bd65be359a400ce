package httpapi_test

import (
	"net/http"
	"testing"

	"github.com/Incarra/svm-contract/internal/httpapi"
)

func TestRequestID_MintedWhenAbsent(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	resp, err := server.Client().Get(server.URL + "/v1/agents/owner-rid/context")
	if err != nil {
		t.Fatalf("context request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get(httpapi.HeaderRequestID) == "" {
		t.Fatalf("expected a minted %s response header", httpapi.HeaderRequestID)
	}
}

func TestRequestID_InboundValuePropagated(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/v1/agents/owner-rid/context", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set(httpapi.HeaderRequestID, "rid-from-proxy")

	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("context request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get(httpapi.HeaderRequestID); got != "rid-from-proxy" {
		t.Fatalf("request id mismatch: got=%q want=%q", got, "rid-from-proxy")
	}
}
