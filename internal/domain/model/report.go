// Package model contains domain models passed between layers.
package model

import "time"

// Target represents a rectangular hit-zone registered by the test page
// before a run. Field names mirror the wire format emitted by the page.
type Target struct {
	ID      string  `json:"id"`      // unique within a registration batch
	X       float64 `json:"x"`       // bounding rect origin
	Y       float64 `json:"y"`       //
	W       float64 `json:"w"`       // rect width, > 0
	H       float64 `json:"h"`       // rect height, > 0
	CenterX float64 `json:"centerX"` // declared center, supplied by the page
	CenterY float64 `json:"centerY"` //
}

// ClickReport is one observed interaction event correlated to a target.
// Distance and Success are computed by the reporting client against the
// shared threshold contract; the service records them as given.
type ClickReport struct {
	// ReportID is assigned by the service on ingestion so concurrent
	// drivers can correlate acks with ledger rows.
	ReportID string `json:"report_id,omitempty"`

	Target    string  `json:"target"`
	ClickX    float64 `json:"clickX"`
	ClickY    float64 `json:"clickY"`
	ExpectedX float64 `json:"expectedX"`
	ExpectedY float64 `json:"expectedY"`
	Distance  float64 `json:"distance"`
	Success   bool    `json:"success"`

	// Marker is an optional client-chosen correlation token, passed
	// through untouched.
	Marker string `json:"marker,omitempty"`

	// RecordedAt is stamped by the service when the report is appended.
	RecordedAt time.Time `json:"recorded_at"`
}
