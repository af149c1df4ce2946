package clicktest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/zikuli/precision/pkg/logger"
)

// Run executes the complete click verification pass against a live service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting precision click test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("clicks", config.NumClicks),
		logger.Int("targets", config.NumTargets),
		logger.Int("workers", config.Workers),
		logger.Float64("thresholdPx", config.ThresholdPx),
		logger.Float64("missRate", config.MissRate),
	)

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Start from an empty ledger
	if err := clearLedger(config, client); err != nil {
		return fmt.Errorf("ledger clear failed: %w", err)
	}

	// Step 3: Register synthetic targets
	targets := generateTargets(ctx, config, stats)
	if err := registerTargets(config, client, targets); err != nil {
		return fmt.Errorf("target registration failed: %w", err)
	}

	// Step 4: Generate click reports
	reports := generateReports(ctx, config, targets, stats)

	// Step 5: Submit reports concurrently, polling the aggregate while the
	// ledger is under write load.
	pollCtx, stopPoll := context.WithCancel(ctx)
	go pollAggregate(pollCtx, config, client)
	err := submitReports(ctx, config, reports, stats)
	stopPoll()
	if err != nil {
		return fmt.Errorf("click submission failed: %w", err)
	}

	// Step 6: Let in-flight appends settle
	time.Sleep(SettleDelay)

	// Step 7: Retrieve and verify the aggregate
	results, err := fetchResults(config, client)
	if err != nil {
		return fmt.Errorf("results retrieval failed: %w", err)
	}

	if err := verifyResults(ctx, config, reports, results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	return nil
}

// checkServiceHealth probes /healthz before generating any load.
func checkServiceHealth(config *Config, client *HTTPClient) error {
	log.Println("🩺 Checking service health...")

	resp, err := client.Get(config.BaseURL + "/healthz")
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read health body: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("health returned status %d", resp.StatusCode)
	}

	log.Println("✅ Service is healthy")
	return nil
}

// clearLedger resets the click ledger so the run starts from zero.
func clearLedger(config *Config, client *HTTPClient) error {
	resp, err := client.Get(config.BaseURL + "/clear")
	if err != nil {
		return fmt.Errorf("clear request failed: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read clear body: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("clear returned status %d", resp.StatusCode)
	}

	log.Println("🧹 Ledger cleared")
	return nil
}

// registerTargets posts the synthetic batch to /targets.
func registerTargets(config *Config, client *HTTPClient, targets interface{}) error {
	resp, err := client.Post(config.BaseURL+"/targets", targets)
	if err != nil {
		return fmt.Errorf("targets request failed: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return fmt.Errorf("failed to read targets body: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("targets returned status %d", resp.StatusCode)
	}

	log.Println("🎯 Targets registered")
	return nil
}

// pollAggregate reads /results while submissions are in flight. A snapshot
// taken mid-run must still be internally consistent.
func pollAggregate(ctx context.Context, config *Config, client *HTTPClient) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			results, err := fetchResults(config, client)
			if err != nil {
				continue
			}
			if results.Passed+results.Failed != results.Total {
				log.Printf("⚠️  Mid-run snapshot torn: passed %d + failed %d != total %d",
					results.Passed, results.Failed, results.Total)
			} else if config.Verbose {
				log.Printf("📈 Mid-run aggregate: %d total (%d passed, %d failed)",
					results.Total, results.Passed, results.Failed)
			}
		}
	}
}

// displayFinalStats prints the run summary.
func displayFinalStats(stats *Stats) {
	rate := float64(0)
	if stats.Duration.Seconds() > 0 {
		rate = float64(stats.ClicksSubmitted) / stats.Duration.Seconds()
	}

	log.Printf(`
🏁 Run complete:
   Targets registered: %d
   Clicks generated:   %d
   Clicks submitted:   %d
   Acked:              %d
   Rejected:           %d
   Expected passes:    %d
   Expected failures:  %d
   Duration:           %s (%.0f clicks/s)
`,
		stats.TargetsRegistered,
		stats.ClicksGenerated,
		stats.ClicksSubmitted,
		stats.ClicksAcked,
		stats.ClicksRejected,
		stats.ExpectedPasses,
		stats.ExpectedFailures,
		stats.Duration.Round(time.Millisecond),
		rate,
	)
}
