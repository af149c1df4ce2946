// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/zikuli/precision/internal/domain/model"
)

// TargetsHandler handles target batch registration and inspection.
type TargetsHandler struct {
	deps Dependencies
}

// NewTargetsHandler creates a new targets handler.
func NewTargetsHandler(deps Dependencies) *TargetsHandler {
	return &TargetsHandler{deps: deps}
}

// HandleTargets routes POST /targets to registration and GET /targets to
// the current batch.
func (h *TargetsHandler) HandleTargets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleRegister(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleRegister replaces the whole batch. If any element is malformed the
// previous batch stays untouched.
func (h *TargetsHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	const op = "api.register_targets"
	var reqs []targetRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	batch := make([]model.Target, 0, len(reqs))
	for _, tr := range reqs {
		if err := tr.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "malformed_input", WrapKind(op, ErrMalformedInput, err))
			return
		}
		batch = append(batch, tr.toModel())
	}

	if err := h.deps.RegisterTargets(r.Context(), batch); err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}

func (h *TargetsHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Targets(r.Context()))
}
