package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/zikuli/precision/internal/clicktest"
)

// Default configuration constants.
const (
	defaultNumClicks   = 200
	defaultNumTargets  = 8
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultThreshold   = 5.0
	defaultMissRate    = 0.2
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:8766", "Base URL of the service")
		numClicks  = flag.Int("clicks", defaultNumClicks, "Number of click reports to generate and submit")
		numTargets = flag.Int("targets", defaultNumTargets, "Number of synthetic targets to register")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent reporters")
		threshold  = flag.Float64("threshold", defaultThreshold, "Accuracy threshold in pixels")
		missRate   = flag.Float64("miss", defaultMissRate, "Fraction of clicks generated as deliberate misses")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		logFile    = flag.String("log", "", "Log file for run output (default: clicktest_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		clicktest.ShowHelp()
		return
	}

	if err := clicktest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &clicktest.Config{
		BaseURL:     *baseURL,
		NumClicks:   *numClicks,
		NumTargets:  *numTargets,
		Workers:     *workers,
		Timeout:     *timeout,
		ThresholdPx: *threshold,
		MissRate:    *missRate,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	if err := clicktest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Click test failed: " + err.Error() + "\n")
		return
	}
}
