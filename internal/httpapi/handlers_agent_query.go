package httpapi

import "net/http"

func (h *handlers) handleRecordQuery(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, err := pathOwner(r)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	rec, err := h.runtime.Program.Record(r.Context(), owner)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeAgentState(w, http.StatusOK, rec)
}

func (h *handlers) handleContextQuery(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, err := pathOwner(r)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	view, err := h.runtime.Program.Context(r.Context(), owner)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *handlers) handleProfileQuery(w http.ResponseWriter, r *http.Request) {
	if !h.ensureRuntime(w) {
		return
	}

	owner, err := pathOwner(r)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	profile, err := h.runtime.Program.Profile(r.Context(), owner)
	if err != nil {
		writeMappedError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
