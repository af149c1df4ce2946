// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/zikuli/precision/pkg/metrics"
)

// ClickHandler handles click report ingestion.
type ClickHandler struct {
	deps Dependencies
}

// NewClickHandler creates a new click handler.
func NewClickHandler(deps Dependencies) *ClickHandler {
	return &ClickHandler{deps: deps}
}

// HandleRecordClick handles POST /click requests. A malformed payload is
// rejected before any state is touched; the ledger is never partially
// mutated.
func (h *ClickHandler) HandleRecordClick(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_click"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		metrics.RecordMalformedReport()
		writeError(w, http.StatusBadRequest, "malformed_input", WrapKind(op, ErrMalformedInput, err))
		return
	}

	stored, err := h.deps.RecordClick(r.Context(), req.toModel())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}
	writeJSON(w, http.StatusOK, ackResponse{Status: "ok", ReportID: stored.ReportID})
}
