package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Incarra/svm-contract/incarra"
	"github.com/Incarra/svm-contract/internal/companion"
)

// Conversations through the companion endpoint count as a single
// experience point, matching the lightest interaction weight.
const converseExperienceGain = 1

type converseRequest struct {
	Message string `json:"message"`
}

func (h *handlers) handleConverse(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, caller, ok := h.mutationIdentities(w, r)
	if !ok {
		return
	}
	if caller != owner {
		writeMappedError(w, fmt.Errorf("%w: caller=%q owner=%q reason=only the owner may converse with their agent", incarra.ErrUnauthorized, caller, owner))
		return
	}

	var request converseRequest
	if err := decodeJSONBody(r, &request); err != nil {
		writeInvalidRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(request.Message) == "" {
		writeInvalidRequest(w, "message is required")
		return
	}

	rec, err := h.runtime.Program.Record(r.Context(), owner)
	if err != nil {
		writeMappedError(w, err)
		return
	}
	if !rec.IsActive {
		writeMappedError(w, fmt.Errorf("%w: record_id=%q", incarra.ErrRecordInactive, rec.ID))
		return
	}

	persona := companion.PersonaPrompt(incarra.NewContextView(rec))
	reply, err := h.runtime.Model.Reply(r.Context(), persona, request.Message)
	if err != nil {
		writeMappedError(w, fmt.Errorf("generate companion reply: %w", err))
		return
	}

	// The reply only counts once the conversation is durably recorded.
	result, ok := h.dispatch(w, r, incarra.RecordInteraction{
		Caller:           caller,
		Owner:            owner,
		Category:         incarra.InteractionConversation,
		ExperienceGained: converseExperienceGain,
		Context:          "companion conversation",
	})
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, converseResponse{
		Reply: reply,
		Agent: toAgentResponse(result.Record),
	})
}
