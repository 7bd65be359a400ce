package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Incarra/svm-contract/eventing/stream"
	"github.com/Incarra/svm-contract/incarra"
)

const (
	errorCodeUnauthorized   = "unauthorized"
	errorCodePolicyRejected = "policy_rejected"
	errorCodeInvalidRequest = "invalid_request"
	errorCodeNotFound       = "not_found"
	errorCodeConflict       = "conflict"
	errorCodeForbidden      = "forbidden"
	errorCodeRuntime        = "runtime_error"
)

var (
	errInvalidRequest  = errors.New("invalid request")
	errRequestTooLarge = errors.New("request body too large")
	errRequestTimedOut = errors.New("request timeout exceeded")
	errRateLimited     = errors.New("rate limit exceeded")
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

// agentResponse is the full wire projection of a record. The
// verification proof never leaves the host.
type agentResponse struct {
	Owner                string                `json:"owner"`
	AgentName            string                `json:"agent_name"`
	Personality          string                `json:"personality,omitempty"`
	Level                uint64                `json:"level"`
	Experience           uint64                `json:"experience"`
	Reputation           uint64                `json:"reputation"`
	ReputationScore      uint64                `json:"reputation_score"`
	TotalInteractions    uint64                `json:"total_interactions"`
	ResearchProjects     uint64                `json:"research_projects"`
	DataSourcesConnected uint64                `json:"data_sources_connected"`
	AIConversations      uint64                `json:"ai_conversations"`
	KnowledgeAreas       []string              `json:"knowledge_areas,omitempty"`
	IsActive             bool                  `json:"is_active"`
	IdentityClaim        string                `json:"identity_claim,omitempty"`
	IdentityVerified     bool                  `json:"identity_verified"`
	Credentials          []incarra.Credential  `json:"credentials,omitempty"`
	Achievements         []incarra.Achievement `json:"achievements,omitempty"`
	CreatedAt            int64                 `json:"created_at"`
	LastInteraction      int64                 `json:"last_interaction"`
	Version              int64                 `json:"version"`
}

type converseResponse struct {
	Reply string        `json:"reply"`
	Agent agentResponse `json:"agent"`
}

func toAgentResponse(rec incarra.Record) agentResponse {
	return agentResponse{
		Owner:                string(rec.Owner),
		AgentName:            rec.AgentName,
		Personality:          rec.Personality,
		Level:                rec.Level,
		Experience:           rec.Experience,
		Reputation:           rec.Reputation,
		ReputationScore:      rec.ReputationScore,
		TotalInteractions:    rec.TotalInteractions,
		ResearchProjects:     rec.ResearchProjects,
		DataSourcesConnected: rec.DataSourcesConnected,
		AIConversations:      rec.AIConversations,
		KnowledgeAreas:       rec.KnowledgeAreas,
		IsActive:             rec.IsActive,
		IdentityClaim:        rec.IdentityClaim,
		IdentityVerified:     rec.IdentityVerified,
		Credentials:          rec.Credentials,
		Achievements:         rec.Achievements,
		CreatedAt:            rec.CreatedAt,
		LastInteraction:      rec.LastInteraction,
		Version:              rec.Version,
	}
}

func writeAgentState(w http.ResponseWriter, status int, rec incarra.Record) {
	writeJSON(w, status, toAgentResponse(rec))
}

func writeMappedError(w http.ResponseWriter, err error) {
	status, code := mapDomainError(err)
	writeError(w, status, code, err.Error())
}

func writeInvalidRequest(w http.ResponseWriter, message string) {
	writeMappedError(w, invalidRequestError(message))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiErrorResponse{
		Error: apiError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSONBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return invalidRequestError("request body is required")
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", errRequestTooLarge, maxBytesErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return invalidRequestError("request body is required")
		}
		return invalidRequestError(fmt.Sprintf("invalid JSON body: %v", err))
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return invalidRequestError("request body must contain exactly one JSON object")
	}

	return nil
}

func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, errorCodePolicyRejected
	case errors.Is(err, errRequestTooLarge):
		return http.StatusRequestEntityTooLarge, errorCodePolicyRejected
	case errors.Is(err, errRequestTimedOut):
		return http.StatusRequestTimeout, errorCodePolicyRejected
	case errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest, errorCodeInvalidRequest
	case errors.Is(err, incarra.ErrRecordNotFound):
		return http.StatusNotFound, errorCodeNotFound
	case errors.Is(err, incarra.ErrUnauthorized),
		errors.Is(err, incarra.ErrIdentityNotVerified):
		return http.StatusForbidden, errorCodeForbidden
	case errors.Is(err, incarra.ErrRecordExists),
		errors.Is(err, incarra.ErrRecordVersionConflict),
		errors.Is(err, incarra.ErrRecordInactive),
		errors.Is(err, incarra.ErrIdentityAlreadyVerified):
		return http.StatusConflict, errorCodeConflict
	case errors.Is(err, stream.ErrCursorInvalid), errors.Is(err, stream.ErrCursorExpired):
		return http.StatusConflict, errorCodeConflict
	case errors.Is(err, incarra.ErrFieldEmpty),
		errors.Is(err, incarra.ErrFieldTooLong),
		errors.Is(err, incarra.ErrCapacityExceeded),
		errors.Is(err, incarra.ErrGainOutOfRange),
		errors.Is(err, incarra.ErrIdentityFormatInvalid),
		errors.Is(err, incarra.ErrIdentityNotBound),
		errors.Is(err, incarra.ErrVerificationProofTooShort),
		errors.Is(err, incarra.ErrRecordInvalid),
		errors.Is(err, incarra.ErrCommandInvalid),
		errors.Is(err, incarra.ErrCommandNil),
		errors.Is(err, incarra.ErrCommandUnsupported),
		errors.Is(err, incarra.ErrContextNil):
		return http.StatusBadRequest, errorCodeInvalidRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout, errorCodePolicyRejected
	default:
		return http.StatusInternalServerError, errorCodeRuntime
	}
}

// isAcceptedDispatchError recognizes outcomes where the record is
// already durable and only event publication failed. The caller still
// gets the persisted state.
func isAcceptedDispatchError(err error) bool {
	return errors.Is(err, incarra.ErrEventPublish)
}

func invalidRequestError(message string) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, message)
}
