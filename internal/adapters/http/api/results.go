// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ResultsHandler handles aggregate queries and ledger resets.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResults handles GET /results requests. The snapshot and its
// aggregate come from a single consistent point in time, so total always
// equals passed + failed even mid-run.
func (h *ResultsHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	res := h.deps.Results(r.Context())
	writeJSON(w, http.StatusOK, resultsResponse{
		Clicks:    res.Clicks,
		Total:     res.Summary.Total,
		Passed:    res.Summary.Passed,
		Failed:    res.Summary.Failed,
		Threshold: res.Summary.Threshold,
	})
}

// HandleClearResults handles /clear requests. The reference reporter clears
// via GET, so both GET and POST are accepted.
func (h *ResultsHandler) HandleClearResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	h.deps.ClearResults(r.Context())
	writeJSON(w, http.StatusOK, ackResponse{Status: "cleared"})
}
