// Package httpapi exposes the agent record program over HTTP. Mutating
// routes pass through body, auth and rate limit policies; reads and
// event streams are open.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Incarra/svm-contract/internal/hostwire"
)

type PolicyConfig struct {
	MaxRequestBodyBytes int64
	RequestTimeout      time.Duration
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MaxRequestBodyBytes: 1 << 20,
		RequestTimeout:      10 * time.Second,
	}
}

func normalizePolicyConfig(input PolicyConfig) PolicyConfig {
	defaults := DefaultPolicyConfig()
	if input.MaxRequestBodyBytes <= 0 {
		input.MaxRequestBodyBytes = defaults.MaxRequestBodyBytes
	}
	if input.RequestTimeout <= 0 {
		input.RequestTimeout = defaults.RequestTimeout
	}
	return input
}

type handlers struct {
	runtime *hostwire.Runtime
	policy  PolicyConfig
}

func NewRouter(runtime *hostwire.Runtime, policy ...PolicyConfig) http.Handler {
	normalized := DefaultPolicyConfig()
	if len(policy) > 0 {
		normalized = normalizePolicyConfig(policy[0])
	}

	h := &handlers{
		runtime: runtime,
		policy:  normalized,
	}

	applyMutatingPolicies := chain(
		h.limitMiddleware(),
		h.authMiddleware(),
		h.rateLimitMiddleware(),
	)

	mux := http.NewServeMux()
	mux.Handle("POST /v1/agents", applyMutatingPolicies(http.HandlerFunc(h.handleAgentInitialize)))
	mux.Handle("POST /v1/agents/{owner}/interactions", applyMutatingPolicies(http.HandlerFunc(h.handleInteractionRecord)))
	mux.Handle("POST /v1/agents/{owner}/knowledge-areas", applyMutatingPolicies(http.HandlerFunc(h.handleKnowledgeAreaAdd)))
	mux.Handle("PUT /v1/agents/{owner}/personality", applyMutatingPolicies(http.HandlerFunc(h.handlePersonalityUpdate)))
	mux.Handle("POST /v1/agents/{owner}/verify", applyMutatingPolicies(http.HandlerFunc(h.handleIdentityVerify)))
	mux.Handle("POST /v1/agents/{owner}/credentials", applyMutatingPolicies(http.HandlerFunc(h.handleCredentialAdd)))
	mux.Handle("POST /v1/agents/{owner}/achievements", applyMutatingPolicies(http.HandlerFunc(h.handleAchievementUnlock)))
	mux.Handle("POST /v1/agents/{owner}/deactivate", applyMutatingPolicies(http.HandlerFunc(h.handleAgentDeactivate)))
	mux.Handle("POST /v1/agents/{owner}/converse", applyMutatingPolicies(http.HandlerFunc(h.handleConverse)))
	mux.HandleFunc("GET /v1/agents/{owner}", h.handleRecordQuery)
	mux.HandleFunc("GET /v1/agents/{owner}/context", h.handleContextQuery)
	mux.HandleFunc("GET /v1/agents/{owner}/profile", h.handleProfileQuery)
	mux.HandleFunc("GET /v1/agents/{owner}/events", h.handleEventsStream)
	mux.HandleFunc("GET /v1/agents/{owner}/events/ws", h.handleEventsWebsocket)
	return requestIDMiddleware()(mux)
}

func (h *handlers) logger() *slog.Logger {
	if h.runtime != nil && h.runtime.Logger != nil {
		return h.runtime.Logger
	}
	return slog.Default()
}

type middleware func(http.Handler) http.Handler

func chain(middlewares ...middleware) middleware {
	return func(next http.Handler) http.Handler {
		wrapped := next
		for i := len(middlewares) - 1; i >= 0; i-- {
			wrapped = middlewares[i](wrapped)
		}
		return wrapped
	}
}
