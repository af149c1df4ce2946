// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	app "github.com/zikuli/precision/internal/app"
	"github.com/zikuli/precision/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// RegisterTargets atomically replaces the expected target batch.
	RegisterTargets(ctx context.Context, batch []model.Target) error

	// Targets returns a snapshot of the current batch.
	Targets(ctx context.Context) []model.Target

	// RecordClick appends one report and returns the stored entry.
	RecordClick(ctx context.Context, report model.ClickReport) (model.ClickReport, error)

	// Results returns a consistent ledger snapshot with its aggregate.
	Results(ctx context.Context) app.Results

	// ClearResults empties the click ledger.
	ClearResults(ctx context.Context)
}

// Server wires HTTP routes for the verification API.
type Server struct {
	allowOrigin string

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	clickHandler   *ClickHandler
	targetsHandler *TargetsHandler
	resultsHandler *ResultsHandler
}

// NewServer creates a new API server with all handlers. allowOrigin is the
// CORS allow-origin value stamped on every response.
func NewServer(deps Dependencies, statsProvider StatsProvider, allowOrigin string) *Server {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return &Server{
		allowOrigin:    allowOrigin,
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		clickHandler:   NewClickHandler(deps),
		targetsHandler: NewTargetsHandler(deps),
		resultsHandler: NewResultsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux. The reporting page runs on a
// different origin, so every route goes through the CORS middleware.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	wrap := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(CORSMiddleware(h, s.allowOrigin), endpoint)
	}

	mux.HandleFunc("/healthz", wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", wrap(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/click", wrap(s.clickHandler.HandleRecordClick, "click"))
	mux.HandleFunc("/targets", wrap(s.targetsHandler.HandleTargets, "targets"))
	mux.HandleFunc("/results", wrap(s.resultsHandler.HandleGetResults, "results"))
	mux.HandleFunc("/clear", wrap(s.resultsHandler.HandleClearResults, "clear"))
}

// targetRequest mirrors the wire schema for one registered target. Pointer
// fields distinguish a missing value from a legitimate zero.
type targetRequest struct {
	ID      string   `json:"id"`
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	W       *float64 `json:"w"`
	H       *float64 `json:"h"`
	CenterX *float64 `json:"centerX"`
	CenterY *float64 `json:"centerY"`
}

func (t targetRequest) validate() error {
	var missing []string
	if strings.TrimSpace(t.ID) == "" {
		missing = append(missing, "id")
	}
	for _, f := range []struct {
		name string
		val  *float64
	}{
		{"x", t.X}, {"y", t.Y}, {"w", t.W}, {"h", t.H},
		{"centerX", t.CenterX}, {"centerY", t.CenterY},
	} {
		if f.val == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return errors.New("missing " + strings.Join(missing, ", "))
	}
	if *t.W <= 0 || *t.H <= 0 {
		return errors.New("w and h must be positive")
	}
	return nil
}

func (t targetRequest) toModel() model.Target {
	return model.Target{
		ID:      t.ID,
		X:       *t.X,
		Y:       *t.Y,
		W:       *t.W,
		H:       *t.H,
		CenterX: *t.CenterX,
		CenterY: *t.CenterY,
	}
}

// clickRequest mirrors the wire schema for POST /click.
type clickRequest struct {
	Target    string   `json:"target"`
	ClickX    *float64 `json:"clickX"`
	ClickY    *float64 `json:"clickY"`
	ExpectedX *float64 `json:"expectedX"`
	ExpectedY *float64 `json:"expectedY"`
	Distance  *float64 `json:"distance"`
	Success   *bool    `json:"success"`
	Marker    string   `json:"marker"`
}

func (c clickRequest) validate() error {
	var missing []string
	if strings.TrimSpace(c.Target) == "" {
		missing = append(missing, "target")
	}
	for _, f := range []struct {
		name string
		val  *float64
	}{
		{"clickX", c.ClickX}, {"clickY", c.ClickY},
		{"expectedX", c.ExpectedX}, {"expectedY", c.ExpectedY},
		{"distance", c.Distance},
	} {
		if f.val == nil {
			missing = append(missing, f.name)
		}
	}
	if c.Success == nil {
		missing = append(missing, "success")
	}
	if len(missing) > 0 {
		return errors.New("missing " + strings.Join(missing, ", "))
	}
	if *c.Distance < 0 {
		return errors.New("distance must be non-negative")
	}
	return nil
}

func (c clickRequest) toModel() model.ClickReport {
	return model.ClickReport{
		Target:    c.Target,
		ClickX:    *c.ClickX,
		ClickY:    *c.ClickY,
		ExpectedX: *c.ExpectedX,
		ExpectedY: *c.ExpectedY,
		Distance:  *c.Distance,
		Success:   *c.Success,
		Marker:    c.Marker,
	}
}

type ackResponse struct {
	Status   string `json:"status"`
	ReportID string `json:"report_id,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// resultsResponse is the GET /results body: the raw ledger plus the
// aggregate, flattened the way the reporting page expects.
type resultsResponse struct {
	Clicks    []model.ClickReport `json:"clicks"`
	Total     int                 `json:"total"`
	Passed    int                 `json:"passed"`
	Failed    int                 `json:"failed"`
	Threshold float64             `json:"threshold"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
