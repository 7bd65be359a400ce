package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Incarra/svm-contract/internal/sigauth"
)

// HeaderRequestID carries the per-request correlation ID. Inbound
// values are trusted as-is so proxies can propagate their own IDs.
const HeaderRequestID = "X-Request-Id"

// requestIDMiddleware tags every request and response with a
// correlation ID, minting one when the caller supplied none.
func requestIDMiddleware() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(HeaderRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
				r.Header.Set(HeaderRequestID, requestID)
			}
			w.Header().Set(HeaderRequestID, requestID)

			next.ServeHTTP(w, r)
		})
	}
}

// limitMiddleware caps request bodies and bounds request time before
// anything reads from the connection.
func (h *handlers) limitMiddleware() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, h.policy.MaxRequestBodyBytes)
			}

			ctx, cancel := context.WithTimeoutCause(r.Context(), h.policy.RequestTimeout, errRequestTimedOut)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authMiddleware resolves the caller identity. Signature verification
// needs the raw body, so the body is drained here and restored for the
// handler.
func (h *handlers) authMiddleware() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				var maxBytesErr *http.MaxBytesError
				if errors.As(err, &maxBytesErr) {
					writeMappedError(w, fmt.Errorf("%w: request body exceeds %d bytes", errRequestTooLarge, maxBytesErr.Limit))
					return
				}
				writeInvalidRequest(w, fmt.Sprintf("read request body: %v", err))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			caller, err := h.runtime.Auth.Caller(r, body)
			if err != nil {
				writeError(w, http.StatusUnauthorized, errorCodeUnauthorized, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(sigauth.WithCaller(r.Context(), caller)))
		})
	}
}

// rateLimitMiddleware runs after auth so windows are keyed by caller
// identity rather than peer address.
func (h *handlers) rateLimitMiddleware() middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h.runtime.Limiter != nil {
				caller, _ := sigauth.CallerFrom(r.Context())
				if !h.runtime.Limiter.Allow(caller) {
					writeMappedError(w, fmt.Errorf("%w for caller %q", errRateLimited, caller))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
