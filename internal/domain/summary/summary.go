// Package summary aggregates click ledger snapshots into run verdicts.
package summary

import "github.com/zikuli/precision/internal/domain/model"

// Summary holds the aggregate counts for one results query.
type Summary struct {
	Total     int     `json:"total"`
	Passed    int     `json:"passed"`
	Failed    int     `json:"failed"`
	Threshold float64 `json:"threshold"`
}

// Summarize counts passes and failures over a ledger snapshot. It is a pure
// function of its input and safe to call from any number of readers.
func Summarize(snapshot []model.ClickReport, threshold float64) Summary {
	s := Summary{
		Total:     len(snapshot),
		Threshold: threshold,
	}
	for i := range snapshot {
		if snapshot[i].Success {
			s.Passed++
		}
	}
	s.Failed = s.Total - s.Passed
	return s
}
