package clicktest

import (
	"context"
	"fmt"
	"log"

	"github.com/zikuli/precision/internal/domain/model"
)

// verifyResults checks the service aggregate against what was submitted.
func verifyResults(_ context.Context, config *Config, submitted []model.ClickReport, results *ResultsResponse, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if results.Total != stats.ClicksAcked {
		return fmt.Errorf("ledger total (%d) does not match acked submissions (%d)",
			results.Total, stats.ClicksAcked)
	}

	if results.Passed+results.Failed != results.Total {
		return fmt.Errorf("passed (%d) + failed (%d) does not equal total (%d)",
			results.Passed, results.Failed, results.Total)
	}

	if results.Threshold != config.ThresholdPx {
		log.Printf("⚠️  Service threshold (%.1fpx) differs from driver threshold (%.1fpx)",
			results.Threshold, config.ThresholdPx)
	}

	if err := verifyMarkers(submitted, results); err != nil {
		return err
	}

	if stats.ClicksRejected == 0 && stats.ClicksAcked == len(submitted) {
		if results.Passed != stats.ExpectedPasses || results.Failed != stats.ExpectedFailures {
			return fmt.Errorf("aggregate mismatch: got %d/%d pass/fail, expected %d/%d",
				results.Passed, results.Failed, stats.ExpectedPasses, stats.ExpectedFailures)
		}
	}

	passRate := float64(0)
	if results.Total > 0 {
		passRate = float64(results.Passed) / float64(results.Total) * PercentageMultiplier
	}
	log.Printf("✅ Verified %d clicks: %d passed, %d failed (%.1f%% pass rate)",
		results.Total, results.Passed, results.Failed, passRate)

	return nil
}

// verifyMarkers confirms every acked report landed in the ledger exactly
// once, regardless of submission interleaving.
func verifyMarkers(submitted []model.ClickReport, results *ResultsResponse) error {
	expected := make(map[string]bool, len(submitted))
	for _, r := range submitted {
		expected[r.Marker] = true
	}

	seen := make(map[string]int, len(results.Clicks))
	for _, c := range results.Clicks {
		seen[c.Marker]++
	}

	for marker, count := range seen {
		if count != 1 {
			return fmt.Errorf("marker %s appears %d times in the ledger", marker, count)
		}
		if !expected[marker] {
			return fmt.Errorf("ledger contains unknown marker %s", marker)
		}
	}

	log.Printf("✅ Marker check passed: %d unique entries", len(seen))
	return nil
}
