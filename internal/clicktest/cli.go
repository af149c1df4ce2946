package clicktest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/zikuli/precision/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "clicktest_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the click test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Precision Click Test Tool
=========================

A concurrent driver for verifying the precision verification service:
registers a synthetic target batch, fires click reports from a worker
pool, and checks the aggregate against what was submitted.

Usage:
  go run cmd/clicktest/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8766")
  -clicks int
        Number of click reports to generate and submit (default 200)
  -targets int
        Number of synthetic targets to register (default 8)
  -workers int
        Number of concurrent reporters (default 2x CPU cores)
  -threshold float
        Accuracy threshold in pixels, must match the service (default 5)
  -miss float
        Fraction of clicks generated as deliberate misses (default 0.2)
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Log file for run output (default clicktest_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help
`)
}
