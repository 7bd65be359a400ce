package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Incarra/svm-contract/incarra"
	"github.com/Incarra/svm-contract/internal/sigauth"
)

type initializeRequest struct {
	AgentName             string `json:"agent_name"`
	Personality           string `json:"personality"`
	IdentityClaim         string `json:"identity_claim"`
	VerificationSignature string `json:"verification_signature"`
}

type interactionRequest struct {
	Category         string `json:"category"`
	ExperienceGained uint64 `json:"experience_gained"`
	Context          string `json:"context"`
}

type knowledgeAreaRequest struct {
	Area string `json:"area"`
}

type personalityRequest struct {
	Personality string `json:"personality"`
}

type verifyRequest struct {
	Proof string `json:"proof"`
}

type credentialRequest struct {
	Type   string `json:"type"`
	Data   string `json:"data"`
	Issuer string `json:"issuer"`
}

type achievementRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Score       uint64 `json:"score"`
}

func (h *handlers) handleAgentInitialize(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	caller, err := requestCaller(r)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	var request initializeRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(request.AgentName) == "" {
		writeInvalidRequest(w, "agent_name is required")
		return
	}

	result, ok := h.dispatch(w, r, incarra.InitializeAgent{
		Caller:                caller,
		AgentName:             request.AgentName,
		Personality:           request.Personality,
		IdentityClaim:         request.IdentityClaim,
		VerificationSignature: request.VerificationSignature,
	})
	if !ok {
		return
	}

	writeAgentState(w, http.StatusOK, result.Record)
}

func (h *handlers) handleInteractionRecord(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, caller, ok := h.mutationIdentities(w, r)
	if !ok {
		return
	}

	var request interactionRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(request.Category) == "" {
		writeInvalidRequest(w, "category is required")
		return
	}

	result, ok := h.dispatch(w, r, incarra.RecordInteraction{
		Caller:           caller,
		Owner:            owner,
		Category:         incarra.InteractionCategory(request.Category),
		ExperienceGained: request.ExperienceGained,
		Context:          request.Context,
	})
	if !ok {
		return
	}

	writeAgentState(w, http.StatusOK, result.Record)
}

func (h *handlers) handleKnowledgeAreaAdd(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, caller, ok := h.mutationIdentities(w, r)
	if !ok {
		return
	}

	var request knowledgeAreaRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(request.Area) == "" {
		writeInvalidRequest(w, "area is required")
		return
	}

	result, ok := h.dispatch(w, r, incarra.AddKnowledgeArea{
		Caller: caller,
		Owner:  owner,
		Area:   request.Area,
	})
	if !ok {
		return
	}

	writeAgentState(w, http.StatusOK, result.Record)
}

func (h *handlers) handlePersonalityUpdate(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, caller, ok := h.mutationIdentities(w, r)
	if !ok {
		return
	}

	// An empty personality is a legal clear, so no presence check here.
	var request personalityRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}

	result, ok := h.dispatch(w, r, incarra.UpdatePersonality{
		Caller:      caller,
		Owner:       owner,
		Personality: request.Personality,
	})
	if !ok {
		return
	}

	writeAgentState(w, http.StatusOK, result.Record)
}

func (h *handlers) handleIdentityVerify(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, caller, ok := h.mutationIdentities(w, r)
	if !ok {
		return
	}

	var request verifyRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(request.Proof) == "" {
		writeInvalidRequest(w, "proof is required")
		return
	}

	result, ok := h.dispatch(w, r, incarra.VerifyIdentity{
		Caller: caller,
		Owner:  owner,
		Proof:  request.Proof,
	})
	if !ok {
		return
	}

	writeAgentState(w, http.StatusOK, result.Record)
}

func (h *handlers) handleCredentialAdd(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, caller, ok := h.mutationIdentities(w, r)
	if !ok {
		return
	}

	var request credentialRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(request.Type) == "" {
		writeInvalidRequest(w, "type is required")
		return
	}

	result, ok := h.dispatch(w, r, incarra.AddCredential{
		Caller: caller,
		Owner:  owner,
		Type:   request.Type,
		Data:   request.Data,
		Issuer: request.Issuer,
	})
	if !ok {
		return
	}

	writeAgentState(w, http.StatusOK, result.Record)
}

func (h *handlers) handleAchievementUnlock(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, caller, ok := h.mutationIdentities(w, r)
	if !ok {
		return
	}

	var request achievementRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(request.Name) == "" {
		writeInvalidRequest(w, "name is required")
		return
	}

	result, ok := h.dispatch(w, r, incarra.UnlockAchievement{
		Caller:      caller,
		Owner:       owner,
		Name:        request.Name,
		Description: request.Description,
		Score:       request.Score,
	})
	if !ok {
		return
	}

	writeAgentState(w, http.StatusOK, result.Record)
}

func (h *handlers) handleAgentDeactivate(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, caller, ok := h.mutationIdentities(w, r)
	if !ok {
		return
	}

	result, ok := h.dispatch(w, r, incarra.DeactivateAgent{
		Caller: caller,
		Owner:  owner,
	})
	if !ok {
		return
	}

	writeAgentState(w, http.StatusOK, result.Record)
}

func (h *handlers) ensureRuntime(w http.ResponseWriter) bool {
	if h.runtime == nil || h.runtime.Program == nil || h.runtime.Broker == nil || h.runtime.Model == nil {
		writeError(w, http.StatusInternalServerError, errorCodeRuntime, "runtime dependencies are not initialized")
		return false
	}
	return true
}

// dispatch runs cmd and keeps a persisted result even when only event
// publication failed.
func (h *handlers) dispatch(w http.ResponseWriter, r *http.Request, cmd incarra.Command) (incarra.Result, bool) {
	result, err := h.runtime.Program.Dispatch(r.Context(), cmd)
	if err != nil && !isAcceptedDispatchError(err) {
		writeMappedError(w, err)
		return incarra.Result{}, false
	}
	if err != nil {
		h.logger().Warn("event publish failed after persist", slog.String("error", err.Error()))
	}
	return result, true
}

// mutationIdentities resolves the record owner from the path and the
// caller from the authenticated context.
func (h *handlers) mutationIdentities(w http.ResponseWriter, r *http.Request) (incarra.OwnerID, incarra.OwnerID, bool) {
	owner, err := pathOwner(r)
	if err != nil {
		writeMappedError(w, err)
		return "", "", false
	}
	caller, err := requestCaller(r)
	if err != nil {
		writeMappedError(w, err)
		return "", "", false
	}
	return owner, caller, true
}

func pathOwner(r *http.Request) (incarra.OwnerID, error) {
	owner := strings.TrimSpace(r.PathValue("owner"))
	if owner == "" {
		return "", invalidRequestError("owner path segment is required")
	}
	return incarra.OwnerID(owner), nil
}

func requestCaller(r *http.Request) (incarra.OwnerID, error) {
	caller, ok := sigauth.CallerFrom(r.Context())
	if !ok {
		return "", errors.New("caller identity missing from request context")
	}
	return incarra.OwnerID(caller), nil
}
