package clicktest

import (
	"time"

	"github.com/zikuli/precision/internal/domain/model"
)

// Config holds configuration for the click verification run.
type Config struct {
	BaseURL     string        // Base URL of the verification service
	NumClicks   int           // Number of click reports to generate
	NumTargets  int           // Number of synthetic targets to register
	Workers     int           // Number of concurrent reporters
	Timeout     time.Duration // HTTP request timeout
	ThresholdPx float64       // Accuracy threshold shared with the service
	MissRate    float64       // Fraction of clicks generated as deliberate misses
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// ResultsResponse mirrors the GET /results body.
type ResultsResponse struct {
	Clicks    []model.ClickReport `json:"clicks"`
	Total     int                 `json:"total"`
	Passed    int                 `json:"passed"`
	Failed    int                 `json:"failed"`
	Threshold float64             `json:"threshold"`
}

// AckResponse mirrors the ack returned by mutating endpoints.
type AckResponse struct {
	Status   string `json:"status"`
	ReportID string `json:"report_id"`
}

// Stats holds run statistics.
type Stats struct {
	TargetsRegistered int
	ClicksGenerated   int
	ClicksSubmitted   int
	ClicksAcked       int
	ClicksRejected    int
	ExpectedPasses    int
	ExpectedFailures  int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
